// Package layout computes the memory layout and dispatch table of every
// class in a checked unit.
//
// Objects are laid out as a two-word header (descriptor, dispatch table)
// followed by one word per field. A class's field list is its parent's
// list followed by its own fields, so an object of a descendant can be used
// wherever an ancestor is expected. Method slots are numbered once per
// method name for the whole unit; a dispatch table maps each slot to the
// most derived implementation visible from the class.
package layout

import (
	"fmt"

	"github.com/you-not-fish/kyanite/internal/rtabi"
	"github.com/you-not-fish/kyanite/internal/types"
)

// Field is one field slot of an object.
type Field struct {
	Var    *types.Var
	Index  int   // position in the flattened field list
	Offset int64 // byte offset from the start of the object
}

// Name returns the field name.
func (f Field) Name() string { return f.Var.Name() }

// Entry is one dispatch table slot. Impl is nil for slots the class does
// not implement.
type Entry struct {
	Slot int
	Name string
	Impl *types.FuncObj
}

// Class is the layout of one class.
type Class struct {
	Class    *types.Class
	Fields   []Field
	Dispatch []Entry // indexed by slot
	Size     int64   // object size in bytes, header included
	Desc     string  // one descriptor character per field

	fields map[string]int
}

// Name returns the class name.
func (l *Class) Name() string { return l.Class.Name() }

// Field returns the field name, or false.
func (l *Class) Field(name string) (Field, bool) {
	i, ok := l.fields[name]
	if !ok {
		return Field{}, false
	}
	return l.Fields[i], true
}

// Entry returns the dispatch entry at slot, or false if the class has no
// implementation there.
func (l *Class) Entry(slot int) (Entry, bool) {
	if slot < 0 || slot >= len(l.Dispatch) || l.Dispatch[slot].Impl == nil {
		return Entry{}, false
	}
	return l.Dispatch[slot], true
}

// Layouts holds the layouts of every class of a unit. It is immutable once
// built and safe for concurrent use.
type Layouts struct {
	table   *types.Table
	classes []*Class // indexed by ClassID
	order   []*Class // ancestors first
	slots   map[string]int
	names   []string // indexed by slot
}

// Build computes the layouts of every class in table, which must be
// sealed.
func Build(table *types.Table, sizes *types.Sizes) *Layouts {
	if !table.Sealed() {
		panic("layout.Build: table is not sealed")
	}
	if sizes == nil {
		sizes = types.DefaultSizes
	}

	ls := &Layouts{
		table:   table,
		classes: make([]*Class, len(table.Classes())),
		slots:   make(map[string]int),
	}
	ls.assignSlots()

	for _, c := range table.Order() {
		l := &Class{Class: c, fields: make(map[string]int)}
		if p := c.Parent(); p != nil {
			parent := ls.classes[p.ID()]
			l.Fields = append(l.Fields, parent.Fields...)
			for k, v := range parent.fields {
				l.fields[k] = v
			}
		}
		for _, v := range c.Fields() {
			i := len(l.Fields)
			l.Fields = append(l.Fields, Field{Var: v, Index: i, Offset: rtabi.FieldOffset(i)})
			l.fields[v.Name()] = i
		}

		desc := make([]byte, len(l.Fields))
		for i, f := range l.Fields {
			desc[i] = sizes.DescChar(f.Var.Type())
		}
		l.Desc = string(desc)
		l.Size = rtabi.ObjectSize(len(l.Fields))

		l.Dispatch = ls.dispatch(c)
		ls.classes[c.ID()] = l
		ls.order = append(ls.order, l)
	}
	return ls
}

// assignSlots numbers method names in first-declaration order: class
// methods ancestors first, then methods named only by bounds.
func (ls *Layouts) assignSlots() {
	add := func(name string) {
		if _, ok := ls.slots[name]; !ok {
			ls.slots[name] = len(ls.names)
			ls.names = append(ls.names, name)
		}
	}
	for _, c := range ls.table.Order() {
		for _, m := range c.Methods() {
			add(m.Name())
		}
	}
	for _, b := range ls.table.Bounds() {
		for _, m := range b.Methods() {
			add(m.Name())
		}
	}
}

// dispatch builds the table of c up to its highest implemented slot.
func (ls *Layouts) dispatch(c *types.Class) []Entry {
	var table []Entry
	for slot, name := range ls.names {
		m := ls.table.LookupMethod(c, name)
		if m == nil {
			continue
		}
		for len(table) < slot {
			table = append(table, Entry{Slot: len(table), Name: ls.names[len(table)]})
		}
		table = append(table, Entry{Slot: slot, Name: name, Impl: m})
	}
	return table
}

// Table returns the sealed table the layouts were built from.
func (ls *Layouts) Table() *types.Table { return ls.table }

// Of returns the layout of c.
func (ls *Layouts) Of(c *types.Class) *Class {
	return ls.classes[c.ID()]
}

// Classes returns every layout, ancestors first.
func (ls *Layouts) Classes() []*Class { return ls.order }

// Slot returns the dispatch slot of method name.
func (ls *Layouts) Slot(name string) (int, bool) {
	s, ok := ls.slots[name]
	return s, ok
}

// NumSlots returns the number of method slots in the unit.
func (ls *Layouts) NumSlots() int { return len(ls.names) }

// SlotName returns the method name of slot.
func (ls *Layouts) SlotName(slot int) string { return ls.names[slot] }

// FieldOffset returns the offset of field name in objects of static type
// c. Descendants keep the same offset.
func (ls *Layouts) FieldOffset(c *types.Class, name string) int64 {
	f, ok := ls.Of(c).Field(name)
	if !ok {
		panic(fmt.Sprintf("layout.FieldOffset: class %s has no field %s", c.Name(), name))
	}
	return f.Offset
}
