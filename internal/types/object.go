package types

import (
	"go/constant"

	"github.com/you-not-fish/kyanite/internal/syntax"
)

// Object represents a declared entity: variable, field, type name, bound,
// function, method or constant.
type Object interface {
	Name() string    // object name
	Type() Type      // object type
	Pos() syntax.Pos // declaration position
	Parent() *Scope  // enclosing scope

	setParent(*Scope) // internal: set parent scope
	aObject()         // marker method to restrict implementations
}

// object is the base struct for all objects.
type object struct {
	name   string
	typ    Type
	pos    syntax.Pos
	parent *Scope
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Pos() syntax.Pos    { return o.pos }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// VarKind says what a Var names.
type VarKind int

const (
	LocalVar VarKind = iota
	ParamVar
	RecvVar
	FieldVar
)

// Var represents a local, parameter, receiver or class field.
type Var struct {
	object
	kind  VarKind
	owner *Class // declaring class, for fields
	index int    // own-field index or parameter index
}

// NewVar creates a local variable.
func NewVar(pos syntax.Pos, name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}}
}

// NewParam creates parameter number index.
func NewParam(pos syntax.Pos, name string, typ Type, index int) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}, kind: ParamVar, index: index}
}

// NewRecv creates the receiver of a method of class c.
func NewRecv(pos syntax.Pos, name string, c *Class) *Var {
	return &Var{object: object{name: name, typ: c, pos: pos}, kind: RecvVar, owner: c, index: -1}
}

// NewField creates a field of class owner.
func NewField(pos syntax.Pos, name string, typ Type, owner *Class) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}, kind: FieldVar, owner: owner}
}

// Kind returns what v names.
func (v *Var) Kind() VarKind { return v.kind }

// IsField reports whether v is a class field.
func (v *Var) IsField() bool { return v.kind == FieldVar }

// Owner returns the declaring class of a field or receiver.
func (v *Var) Owner() *Class { return v.owner }

// Index returns the parameter index, or the index among the owner's own
// fields.
func (v *Var) Index() int { return v.index }

// SetType sets the variable's type.
// This is called during type checking once the type is resolved.
func (v *Var) SetType(typ Type) {
	v.typ = typ
}

// TypeName represents a declared type name: a basic type, a class or a
// type parameter.
type TypeName struct {
	object
}

// NewTypeName creates a new type name object.
func NewTypeName(pos syntax.Pos, name string, typ Type) *TypeName {
	return &TypeName{object: object{name: name, typ: typ, pos: pos}}
}

// FuncObj represents a declared function, extern function, method or bound
// method.
type FuncObj struct {
	object
	sig   *Func
	owner *Class // declaring class for methods
	bound *Bound // declaring bound for bound methods
	decl  *syntax.FuncDecl
}

// NewFuncObj creates a new function object.
// The signature should be set later using SetSignature.
func NewFuncObj(pos syntax.Pos, name string, decl *syntax.FuncDecl) *FuncObj {
	return &FuncObj{object: object{name: name, pos: pos}, decl: decl}
}

// Signature returns the function signature.
func (f *FuncObj) Signature() *Func {
	return f.sig
}

// SetSignature sets the function signature.
// This is called during type checking once the signature is resolved.
func (f *FuncObj) SetSignature(sig *Func) {
	f.sig = sig
	f.typ = sig
}

// Owner returns the declaring class of a method, or nil.
func (f *FuncObj) Owner() *Class { return f.owner }

// BoundOwner returns the declaring bound of a bound method, or nil.
func (f *FuncObj) BoundOwner() *Bound { return f.bound }

// Decl returns the declaration of f.
func (f *FuncObj) Decl() *syntax.FuncDecl { return f.decl }

// IsMethod reports whether f is a class method.
func (f *FuncObj) IsMethod() bool { return f.owner != nil }

// IsExtern reports whether f is implemented by the host.
func (f *FuncObj) IsExtern() bool { return f.decl != nil && f.decl.Extern }

// FullName returns Class.method for methods and the plain name otherwise.
func (f *FuncObj) FullName() string {
	switch {
	case f.owner != nil:
		return f.owner.Name() + "." + f.name
	case f.bound != nil:
		return f.bound.name + "." + f.name
	}
	return f.name
}

// Const represents a named compile-time constant.
type Const struct {
	object
	val constant.Value
}

// NewConst creates a constant object.
func NewConst(pos syntax.Pos, name string, typ Type, val constant.Value) *Const {
	return &Const{object: object{name: name, typ: typ, pos: pos}, val: val}
}

// Val returns the constant value.
func (c *Const) Val() constant.Value { return c.val }

// SetVal sets the type and value once the initializer is folded.
func (c *Const) SetVal(typ Type, val constant.Value) {
	c.typ = typ
	c.val = val
}
