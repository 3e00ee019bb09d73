// Package types2 implements type checking for kyanite: it resolves every
// declaration against the unit's symbol table and computes the static type
// of every expression.
package types2

import (
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
)

// errorf reports an error of the given kind at pos. Once the error limit
// is reached further errors are dropped.
func (c *Checker) errorf(kind diag.Kind, pos syntax.Pos, format string, args ...interface{}) {
	err := diag.Errorf(kind, pos, format, args...)
	if !c.errs.Add(err) {
		return
	}
	if c.conf.Error != nil {
		c.conf.Error(err)
	}
}

// report records an error produced by the table.
func (c *Checker) report(err error) {
	for _, e := range diag.Errors(err) {
		if c.errs.Add(e) && c.conf.Error != nil {
			c.conf.Error(e)
		}
	}
}

// failed reports whether any error was reported.
func (c *Checker) failed() bool {
	return c.errs.Len() > 0
}

// invalidOp reports a TypeMismatch for an invalid operation on x.
func (c *Checker) invalidOp(x *operand, format string, args ...interface{}) {
	c.errorf(diag.TypeMismatch, x.pos, "invalid operation: "+format, args...)
}
