package types

import (
	"strings"

	"github.com/you-not-fish/kyanite/internal/syntax"
)

// ClassID is the stable arena index of a class within its Table.
type ClassID int

// NoClass is the ClassID of no class.
const NoClass ClassID = -1

// Class represents a declared class. Generic classes are instantiated by
// Instance; the Class itself is the uninstantiated form.
type Class struct {
	typ
	id       ClassID
	obj      *TypeName
	decl     *syntax.ClassDecl
	parent   *Class
	tparams  []*TypeParam
	fields   []*Var     // own fields, declaration order
	methods  []*FuncObj // own methods, declaration order
	children []*Class
}

// ID returns the class's arena index.
func (c *Class) ID() ClassID { return c.id }

// Obj returns the type name object declaring c.
func (c *Class) Obj() *TypeName { return c.obj }

// Name returns the class name.
func (c *Class) Name() string { return c.obj.name }

// Pos returns the position of the class name.
func (c *Class) Pos() syntax.Pos { return c.obj.pos }

// Decl returns the declaration of c.
func (c *Class) Decl() *syntax.ClassDecl { return c.decl }

// Parent returns the direct parent class, or nil for a root class.
func (c *Class) Parent() *Class { return c.parent }

// Children returns the direct descendants of c in declaration order.
func (c *Class) Children() []*Class { return c.children }

// TypeParams returns the class's type parameters.
func (c *Class) TypeParams() []*TypeParam { return c.tparams }

// IsGeneric reports whether c declares type parameters.
func (c *Class) IsGeneric() bool { return len(c.tparams) > 0 }

// Fields returns the fields declared by c itself.
func (c *Class) Fields() []*Var { return c.fields }

// Methods returns the methods declared by c itself.
func (c *Class) Methods() []*FuncObj { return c.methods }

// Field returns the own field with the given name, or nil.
func (c *Class) Field(name string) *Var {
	for _, f := range c.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Method returns the own method with the given name, or nil.
func (c *Class) Method(name string) *FuncObj {
	for _, m := range c.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// String implements Type.
func (c *Class) String() string {
	return c.obj.name
}

// Instance is a generic class applied to type arguments, e.g. Box<Circle>.
type Instance struct {
	typ
	orig  *Class
	targs []Type
}

// NewInstance returns orig instantiated with targs. The caller checks the
// argument count and bounds.
func NewInstance(orig *Class, targs []Type) *Instance {
	return &Instance{orig: orig, targs: targs}
}

// Origin returns the generic class.
func (t *Instance) Origin() *Class { return t.orig }

// TypeArgs returns the type arguments.
func (t *Instance) TypeArgs() []Type { return t.targs }

// String implements Type.
func (t *Instance) String() string {
	var b strings.Builder
	b.WriteString(t.orig.Name())
	b.WriteByte('<')
	for i, a := range t.targs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}

// TypeParam is a type parameter of a generic class or function.
type TypeParam struct {
	typ
	obj   *TypeName
	index int
	bound *Bound // nil if unbounded
}

// NewTypeParam creates a type parameter and its type name object.
func NewTypeParam(pos syntax.Pos, name string, index int) *TypeParam {
	tp := &TypeParam{index: index}
	tp.obj = NewTypeName(pos, name, tp)
	return tp
}

// Obj returns the type name object of tp.
func (tp *TypeParam) Obj() *TypeName { return tp.obj }

// Index returns the position of tp in its parameter list.
func (tp *TypeParam) Index() int { return tp.index }

// Bound returns the capability bound, or nil.
func (tp *TypeParam) Bound() *Bound { return tp.bound }

// SetBound sets the capability bound.
func (tp *TypeParam) SetBound(b *Bound) { tp.bound = b }

// String implements Type.
func (tp *TypeParam) String() string { return tp.obj.name }

// Bound is a named capability bound: the set of method signatures a type
// argument must provide.
type Bound struct {
	object
	decl    *syntax.BoundDecl
	methods []*FuncObj
}

// Decl returns the declaration of b.
func (b *Bound) Decl() *syntax.BoundDecl { return b.decl }

// Methods returns the required methods in declaration order.
func (b *Bound) Methods() []*FuncObj { return b.methods }

// Method returns the required method with the given name, or nil.
func (b *Bound) Method(name string) *FuncObj {
	for _, m := range b.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// AddMethod appends a required method.
func (b *Bound) AddMethod(m *FuncObj) {
	m.bound = b
	b.methods = append(b.methods, m)
}
