package layout

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/you-not-fish/kyanite/internal/types"
)

// CheckBound verifies that every class satisfying b implements each
// method of b at the slot the bound call sites use. Generic classes are
// skipped; their method signatures mention their own parameters.
func (ls *Layouts) CheckBound(b *types.Bound) error {
	var err error
	for _, l := range ls.order {
		c := l.Class
		if c.IsGeneric() || ls.table.MissingMethod(c, b) != nil {
			continue
		}
		for _, m := range b.Methods() {
			slot, ok := ls.Slot(m.Name())
			if !ok {
				err = multierr.Append(err, fmt.Errorf("bound %s: method %s has no slot", b.Name(), m.Name()))
				continue
			}
			e, ok := l.Entry(slot)
			if !ok || e.Impl != ls.table.LookupMethod(c, m.Name()) {
				err = multierr.Append(err, fmt.Errorf("bound %s: class %s does not implement %s at slot %d", b.Name(), c.Name(), m.Name(), slot))
			}
		}
	}
	return err
}

// CheckBounds runs CheckBound for every bound of the unit.
func (ls *Layouts) CheckBounds() error {
	var err error
	for _, b := range ls.table.Bounds() {
		err = multierr.Append(err, ls.CheckBound(b))
	}
	return err
}
