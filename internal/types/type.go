// Package types implements the kyanite type model and the per-unit symbol
// table of classes and bounds. It has no dependency on the checker; the
// checker in types2 fills in member signatures and then seals the table.
package types

// Type is the interface implemented by all types.
type Type interface {
	// String returns a human-readable representation of the type.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
