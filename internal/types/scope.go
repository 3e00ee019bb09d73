package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/kyanite/internal/syntax"
)

// A Scope maps names to objects. Scopes nest: Universe, then the unit
// scope of a Table, then one scope per class body, function and block.
type Scope struct {
	parent   *Scope
	children []*Scope
	elems    map[string]Object
	order    []Object // insertion order
	pos, end syntax.Pos
	label    string
}

// NewScope returns an empty scope nested in parent covering [pos, end].
// label names the scope in dumps, e.g. "class Point" or "block".
func NewScope(parent *Scope, pos, end syntax.Pos, label string) *Scope {
	s := &Scope{parent: parent, elems: make(map[string]Object), pos: pos, end: end, label: label}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

func (s *Scope) Parent() *Scope    { return s.parent }
func (s *Scope) Pos() syntax.Pos   { return s.pos }
func (s *Scope) Len() int          { return len(s.order) }
func (s *Scope) Objects() []Object { return s.order }

// Lookup returns the object named name in s, ignoring parents.
func (s *Scope) Lookup(name string) Object {
	return s.elems[name]
}

// LookupParent returns the innermost object named name visible from s
// and the scope holding it.
func (s *Scope) LookupParent(name string) (Object, *Scope) {
	for ; s != nil; s = s.parent {
		if obj, ok := s.elems[name]; ok {
			return obj, s
		}
	}
	return nil, nil
}

// Insert adds obj to s. If the name is taken, s is unchanged and the
// existing object is returned.
func (s *Scope) Insert(obj Object) Object {
	if prev, ok := s.elems[obj.Name()]; ok {
		return prev
	}
	s.elems[obj.Name()] = obj
	s.order = append(s.order, obj)
	obj.setParent(s)
	return nil
}

// Names returns the names declared in s, sorted.
func (s *Scope) Names() []string {
	names := make([]string, len(s.order))
	for i, obj := range s.order {
		names[i] = obj.Name()
	}
	sort.Strings(names)
	return names
}

func (s *Scope) String() string {
	var b strings.Builder
	s.dump(&b, "")
	return b.String()
}

// dump writes s and its children, objects in declaration order.
func (s *Scope) dump(b *strings.Builder, indent string) {
	fmt.Fprintf(b, "%sscope %s {\n", indent, s.label)
	for _, obj := range s.order {
		typ := "-"
		if t := obj.Type(); t != nil {
			typ = t.String()
		}
		fmt.Fprintf(b, "%s  %s: %s\n", indent, obj.Name(), typ)
	}
	for _, c := range s.children {
		c.dump(b, indent+"  ")
	}
	fmt.Fprintf(b, "%s}\n", indent)
}
