package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
)

// Table is the symbol table of one compilation unit. Classes are stored in
// an arena indexed by ClassID and their ancestor chains are precomputed as
// id lists once Link succeeds.
//
// A Table is filled in three steps: Register/RegisterBound/Declare for every
// top-level declaration, Link to resolve parents and reject cycles, and
// member additions by the checker. Seal then makes it read-only; all later
// phases only query it, concurrently if they like.
type Table struct {
	scope   *Scope
	classes []*Class
	bounds  []*Bound
	chains  [][]ClassID // chains[id] = id, parent, ..., root
	order   []*Class    // ancestor-before-descendant
	linked  bool
	sealed  bool
}

// NewTable returns an empty table whose unit scope is a child of Universe.
func NewTable() *Table {
	return &Table{scope: NewScope(Universe, syntax.NoPos, syntax.NoPos, "unit")}
}

// Scope returns the unit scope holding every top-level object.
func (t *Table) Scope() *Scope { return t.scope }

func (t *Table) mustBeOpen(op string) {
	if t.sealed {
		panic("types.Table." + op + ": table is sealed")
	}
}

// declare inserts obj into the unit scope.
func (t *Table) declare(obj Object) *diag.Error {
	if Universe.Lookup(obj.Name()) != nil {
		return diag.Errorf(diag.DuplicateDeclaration, obj.Pos(), "cannot redeclare predeclared %s", obj.Name())
	}
	if alt := t.scope.Insert(obj); alt != nil {
		return diag.Errorf(diag.DuplicateDeclaration, obj.Pos(),
			"%s redeclared in this unit (previous declaration at %s)", obj.Name(), alt.Pos())
	}
	return nil
}

// Register adds the class declared by decl. It fails with
// DuplicateDeclaration if the name is already taken by a class, bound,
// function or constant of the unit. Forward references are fine: parents
// are resolved by Link.
func (t *Table) Register(decl *syntax.ClassDecl) (*Class, error) {
	t.mustBeOpen("Register")
	c := &Class{id: ClassID(len(t.classes)), decl: decl}
	c.obj = NewTypeName(decl.Name.Pos(), decl.Name.Value, c)
	if err := t.declare(c.obj); err != nil {
		return nil, err
	}
	for i, tp := range decl.TParams {
		c.tparams = append(c.tparams, NewTypeParam(tp.Name.Pos(), tp.Name.Value, i))
	}
	t.classes = append(t.classes, c)
	return c, nil
}

// RegisterBound adds the capability bound declared by decl.
func (t *Table) RegisterBound(decl *syntax.BoundDecl) (*Bound, error) {
	t.mustBeOpen("RegisterBound")
	b := &Bound{object: object{name: decl.Name.Value, pos: decl.Name.Pos()}, decl: decl}
	if err := t.declare(b); err != nil {
		return nil, err
	}
	t.bounds = append(t.bounds, b)
	return b, nil
}

// Declare adds a function or constant to the unit namespace.
func (t *Table) Declare(obj Object) error {
	t.mustBeOpen("Declare")
	if err := t.declare(obj); err != nil {
		return err
	}
	return nil
}

// Resolve returns the class named by name, or fails with UnknownType.
func (t *Table) Resolve(name *syntax.Name) (*Class, error) {
	c, err := t.resolve(name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (t *Table) resolve(name *syntax.Name) (*Class, *diag.Error) {
	obj, _ := t.scope.LookupParent(name.Value)
	if obj == nil {
		return nil, diag.Errorf(diag.UnknownType, name.Pos(), "undefined: %s", name.Value)
	}
	tn, ok := obj.(*TypeName)
	if !ok {
		return nil, diag.Errorf(diag.UnknownType, name.Pos(), "%s is not a class", name.Value)
	}
	c, ok := tn.typ.(*Class)
	if !ok {
		return nil, diag.Errorf(diag.UnknownType, name.Pos(), "%s is not a class", name.Value)
	}
	return c, nil
}

// LookupClass returns the class with the given name, or nil.
func (t *Table) LookupClass(name string) *Class {
	if tn, ok := t.scope.Lookup(name).(*TypeName); ok {
		c, _ := tn.typ.(*Class)
		return c
	}
	return nil
}

// LookupBound returns the bound with the given name, or nil.
func (t *Table) LookupBound(name string) *Bound {
	b, _ := t.scope.Lookup(name).(*Bound)
	return b
}

// Ancestors returns the chain from c to its root, c first. It fails with
// CyclicInheritance if the walk revisits a class.
func (t *Table) Ancestors(c *Class) ([]*Class, error) {
	if t.linked {
		ids := t.chains[c.id]
		chain := make([]*Class, len(ids))
		for i, id := range ids {
			chain[i] = t.classes[id]
		}
		return chain, nil
	}
	chain, cycle := walkParents(c)
	if cycle != nil {
		return nil, cycleError(cycle)
	}
	return chain, nil
}

// walkParents follows parent links from c. If a class repeats, it returns
// the classes forming the cycle instead of a chain.
func walkParents(c *Class) (chain, cycle []*Class) {
	seen := make(map[ClassID]int)
	for x := c; x != nil; x = x.parent {
		if i, ok := seen[x.id]; ok {
			return nil, chain[i:]
		}
		seen[x.id] = len(chain)
		chain = append(chain, x)
	}
	return chain, nil
}

// cycleAnchor returns the class with the smallest id on the cycle.
func cycleAnchor(cycle []*Class) int {
	best := 0
	for i, c := range cycle {
		if c.id < cycle[best].id {
			best = i
		}
	}
	return best
}

func cycleError(cycle []*Class) *diag.Error {
	start := cycleAnchor(cycle)
	names := make([]string, 0, len(cycle)+1)
	for i := range cycle {
		names = append(names, cycle[(start+i)%len(cycle)].Name())
	}
	names = append(names, cycle[start].Name())
	anchor := cycle[start]
	return diag.Errorf(diag.CyclicInheritance, anchor.Pos(), "cyclic inheritance: %s", strings.Join(names, " -> "))
}

// Link resolves every parent reference and precomputes ancestor chains.
// It reports unknown or generic parents and each inheritance cycle once.
func (t *Table) Link() error {
	t.mustBeOpen("Link")
	var errs diag.List
	for _, c := range t.classes {
		p := c.decl.Parent
		if p == nil {
			continue
		}
		parent, err := t.resolve(p)
		if err != nil {
			errs.Add(err)
			continue
		}
		if parent.IsGeneric() {
			errs.Add(diag.Errorf(diag.TypeMismatch, p.Pos(), "class %s cannot extend generic class %s", c.Name(), parent.Name()))
			continue
		}
		c.parent = parent
	}

	chains := make([][]ClassID, len(t.classes))
	reported := make(map[ClassID]bool)
	for _, c := range t.classes {
		chain, cycle := walkParents(c)
		if cycle != nil {
			anchor := cycle[cycleAnchor(cycle)].id
			if !reported[anchor] {
				reported[anchor] = true
				errs.Add(cycleError(cycle))
			}
			continue
		}
		ids := make([]ClassID, len(chain))
		for i, x := range chain {
			ids[i] = x.id
		}
		chains[c.id] = ids
	}
	if err := errs.Err(); err != nil {
		return err
	}

	t.chains = chains
	t.order = make([]*Class, len(t.classes))
	copy(t.order, t.classes)
	sort.SliceStable(t.order, func(i, j int) bool {
		return len(chains[t.order[i].id]) < len(chains[t.order[j].id])
	})
	for _, c := range t.classes {
		if c.parent != nil {
			c.parent.children = append(c.parent.children, c)
		}
	}
	t.linked = true
	return nil
}

// AddField appends an own field to c.
func (t *Table) AddField(c *Class, f *Var) {
	t.mustBeOpen("AddField")
	f.kind = FieldVar
	f.owner = c
	f.index = len(c.fields)
	c.fields = append(c.fields, f)
}

// AddMethod appends an own method to c.
func (t *Table) AddMethod(c *Class, m *FuncObj) {
	t.mustBeOpen("AddMethod")
	m.owner = c
	c.methods = append(c.methods, m)
}

// Seal makes the table read-only. It panics if Link has not succeeded.
func (t *Table) Seal() {
	if !t.linked {
		panic("types.Table.Seal: table is not linked")
	}
	t.sealed = true
}

// Sealed reports whether Seal has been called.
func (t *Table) Sealed() bool { return t.sealed }

// Classes returns all classes in declaration order.
func (t *Table) Classes() []*Class { return t.classes }

// Bounds returns all bounds in declaration order.
func (t *Table) Bounds() []*Bound { return t.bounds }

// Class returns the class with the given id.
func (t *Table) Class(id ClassID) *Class { return t.classes[id] }

// Order returns all classes with every ancestor before its descendants.
func (t *Table) Order() []*Class { return t.order }

// Chain returns the ids of c's ancestor chain, c first, root last.
func (t *Table) Chain(c *Class) []ClassID {
	if !t.linked {
		panic(fmt.Sprintf("types.Table.Chain(%s): table is not linked", c.Name()))
	}
	return t.chains[c.id]
}

// Root returns the root class of c's hierarchy.
func (t *Table) Root(c *Class) *Class {
	ids := t.Chain(c)
	return t.classes[ids[len(ids)-1]]
}

// IsAncestor reports whether anc is c or one of c's ancestors.
func (t *Table) IsAncestor(anc, c *Class) bool {
	for _, id := range t.Chain(c) {
		if id == anc.id {
			return true
		}
	}
	return false
}

// Hierarchy returns root and all its descendants, ancestors first.
func (t *Table) Hierarchy(root *Class) []*Class {
	var list []*Class
	for _, c := range t.order {
		if t.Root(c) == root {
			list = append(list, c)
		}
	}
	return list
}

// LookupField resolves name along c's chain, nearest first.
func (t *Table) LookupField(c *Class, name string) *Var {
	for _, id := range t.Chain(c) {
		if f := t.classes[id].Field(name); f != nil {
			return f
		}
	}
	return nil
}

// LookupMethod resolves name along c's chain, nearest first. The result is
// the most derived implementation visible from c.
func (t *Table) LookupMethod(c *Class, name string) *FuncObj {
	for _, id := range t.Chain(c) {
		if m := t.classes[id].Method(name); m != nil {
			return m
		}
	}
	return nil
}

// FlatFields returns the flattened field list of c: root fields first, then
// each descendant's own fields down to c.
func (t *Table) FlatFields(c *Class) []*Var {
	ids := t.Chain(c)
	var list []*Var
	for i := len(ids) - 1; i >= 0; i-- {
		list = append(list, t.classes[ids[i]].fields...)
	}
	return list
}

// Implementations returns every method named name declared in the
// hierarchy containing c, ancestors first. More than one result makes a
// call through c virtual.
func (t *Table) Implementations(c *Class, name string) []*FuncObj {
	var list []*FuncObj
	for _, x := range t.Hierarchy(t.Root(c)) {
		if m := x.Method(name); m != nil {
			list = append(list, m)
		}
	}
	return list
}
