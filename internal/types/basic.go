package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type, used after an error

	Int
	Float
	Bool
	Str
	Void
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	IsInteger BasicInfo = 1 << iota
	IsFloat
	IsBoolean
	IsString
	IsNumeric = IsInteger | IsFloat
	IsOrdered = IsNumeric
)

// Basic represents a primitive type: int, float, bool, str or void.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
var Typ = []*Basic{
	Invalid: {kind: Invalid, name: "invalid type"},
	Int:     {kind: Int, info: IsInteger, name: "int"},
	Float:   {kind: Float, info: IsFloat, name: "float"},
	Bool:    {kind: Bool, info: IsBoolean, name: "bool"},
	Str:     {kind: Str, info: IsString, name: "str"},
	Void:    {kind: Void, name: "void"},
}
