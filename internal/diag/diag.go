// Package diag defines the user-facing compile errors shared by the
// table, checker and driver phases.
package diag

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/you-not-fish/kyanite/internal/syntax"
)

// Kind classifies a compile error.
type Kind int

const (
	Invalid Kind = iota
	Syntax
	DuplicateDeclaration
	UnknownType
	UnknownField
	UnknownMethod
	CyclicInheritance
	TypeMismatch
	UnsatisfiedBound
	IncompleteInitializer
	DuplicateInitializerField
	UnknownInitializerField
	InvalidUpcast
	kindCount
)

var kindNames = [...]string{
	Invalid:                   "Invalid",
	Syntax:                    "Syntax",
	DuplicateDeclaration:      "DuplicateDeclaration",
	UnknownType:               "UnknownType",
	UnknownField:              "UnknownField",
	UnknownMethod:             "UnknownMethod",
	CyclicInheritance:         "CyclicInheritance",
	TypeMismatch:              "TypeMismatch",
	UnsatisfiedBound:          "UnsatisfiedBound",
	IncompleteInitializer:     "IncompleteInitializer",
	DuplicateInitializerField: "DuplicateInitializerField",
	UnknownInitializerField:   "UnknownInitializerField",
	InvalidUpcast:             "InvalidUpcast",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is one compile error with its location.
type Error struct {
	Kind Kind
	Pos  syntax.Pos
	Msg  string
}

// Errorf returns a new *Error.
func Errorf(kind Kind, pos syntax.Pos, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// List accumulates errors up to a limit. The zero value has no limit.
type List struct {
	Max  int
	errs []*Error
	full bool
}

// Add appends e unless the limit has been reached. It reports whether e
// was kept.
func (l *List) Add(e *Error) bool {
	if l.Max > 0 && len(l.errs) >= l.Max {
		l.full = true
		return false
	}
	l.errs = append(l.errs, e)
	return true
}

// Len returns the number of errors kept.
func (l *List) Len() int { return len(l.errs) }

// Full reports whether errors were dropped because of Max.
func (l *List) Full() bool { return l.full }

// Err combines the kept errors, sorted by position, into a single error.
// It returns nil when the list is empty.
func (l *List) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	sorted := make([]*Error, len(l.errs))
	copy(sorted, l.errs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos.Compare(sorted[j].Pos) < 0
	})
	var err error
	for _, e := range sorted {
		err = multierr.Append(err, e)
	}
	return err
}

// Errors flattens err into its *Error parts. Errors of other types are
// dropped.
func Errors(err error) []*Error {
	var list []*Error
	for _, e := range multierr.Errors(err) {
		var de *Error
		if errors.As(e, &de) {
			list = append(list, de)
		}
	}
	return list
}

// KindOf returns the kind of the first *Error in err, or Invalid.
func KindOf(err error) Kind {
	if list := Errors(err); len(list) > 0 {
		return list[0].Kind
	}
	return Invalid
}

// Has reports whether err contains an error of kind k.
func Has(err error, k Kind) bool {
	for _, e := range Errors(err) {
		if e.Kind == k {
			return true
		}
	}
	return false
}
