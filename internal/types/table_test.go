package types

import (
	"strings"
	"testing"

	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
)

// registerAll parses src and registers its classes and bounds.
func registerAll(t *testing.T, src string) (*Table, error) {
	t.Helper()
	p := syntax.NewParser("t.kya", strings.NewReader(src), nil)
	f := p.Parse()
	if err := p.FirstError(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	tab := NewTable()
	for _, d := range f.Decls {
		var err error
		switch d := d.(type) {
		case *syntax.ClassDecl:
			_, err = tab.Register(d)
		case *syntax.BoundDecl:
			_, err = tab.RegisterBound(d)
		}
		if err != nil {
			return tab, err
		}
	}
	return tab, nil
}

// linkedTable registers and links src, failing the test on any error.
func linkedTable(t *testing.T, src string) *Table {
	t.Helper()
	tab, err := registerAll(t, src)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := tab.Link(); err != nil {
		t.Fatalf("link: %v", err)
	}
	return tab
}

func chainNames(tab *Table, c *Class) string {
	var names []string
	for _, id := range tab.Chain(c) {
		names = append(names, tab.Class(id).Name())
	}
	return strings.Join(names, " ")
}

func TestRegisterDuplicate(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"class_class", "class A {} class A {}"},
		{"class_bound", "bound A { fun m(self); } class A {}"},
		{"predeclared", "class int {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registerAll(t, tt.src)
			if diag.KindOf(err) != diag.DuplicateDeclaration {
				t.Errorf("got %v, want DuplicateDeclaration", err)
			}
		})
	}
}

func TestDeclareSharesNamespace(t *testing.T) {
	tab, err := registerAll(t, "class Speak {}")
	if err != nil {
		t.Fatal(err)
	}
	err = tab.Declare(NewFuncObj(syntax.NewPos("t.kya", 9, 1), "Speak", nil))
	if diag.KindOf(err) != diag.DuplicateDeclaration {
		t.Fatalf("got %v, want DuplicateDeclaration", err)
	}
	if !strings.Contains(err.Error(), "previous declaration at t.kya:1:7") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestResolve(t *testing.T) {
	tab := linkedTable(t, "bound B { fun m(self); } class A {}")
	name := func(s string) *syntax.Name { return &syntax.Name{Value: s} }

	if c, err := tab.Resolve(name("A")); err != nil || c.Name() != "A" {
		t.Errorf("Resolve(A) = %v, %v", c, err)
	}
	for _, s := range []string{"Missing", "B", "int"} {
		if _, err := tab.Resolve(name(s)); diag.KindOf(err) != diag.UnknownType {
			t.Errorf("Resolve(%s) = %v, want UnknownType", s, err)
		}
	}
	if tab.LookupBound("B") == nil || tab.LookupClass("B") != nil {
		t.Error("LookupBound/LookupClass confused")
	}
}

func TestAncestorsForwardReference(t *testing.T) {
	tab := linkedTable(t, `
class D : C {}
class C : B {}
class B : A {}
class A {}
`)
	d := tab.LookupClass("D")
	if got := chainNames(tab, d); got != "D C B A" {
		t.Errorf("chain = %q", got)
	}
	chain, err := tab.Ancestors(d)
	if err != nil || len(chain) != 4 || chain[3] != tab.LookupClass("A") {
		t.Errorf("Ancestors = %v, %v", chain, err)
	}
	var order []string
	for _, c := range tab.Order() {
		order = append(order, c.Name())
	}
	if got := strings.Join(order, " "); got != "A B C D" {
		t.Errorf("Order = %q, want ancestors first", got)
	}
	if a := tab.LookupClass("A"); len(a.Children()) != 1 || a.Children()[0].Name() != "B" {
		t.Errorf("A.Children = %v", a.Children())
	}
}

func TestLinkCycles(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		errors int
		msg    string
	}{
		{"mutual", "class A : B {} class B : A {}", 1, "A -> B -> A"},
		{"self", "class A : A {}", 1, "A -> A"},
		{"tail", "class C : A {} class A : B {} class B : A {}", 1, "A -> B -> A"},
		{"two", "class A : B {} class B : A {} class C : D {} class D : C {}", 2, "C -> D -> C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := registerAll(t, tt.src)
			if err != nil {
				t.Fatal(err)
			}
			err = tab.Link()
			list := diag.Errors(err)
			if len(list) != tt.errors {
				t.Fatalf("got %d errors (%v), want %d", len(list), err, tt.errors)
			}
			for _, e := range list {
				if e.Kind != diag.CyclicInheritance {
					t.Errorf("kind = %s", e.Kind)
				}
			}
			if !strings.Contains(list[len(list)-1].Msg, tt.msg) {
				t.Errorf("message = %q, want %q", list[len(list)-1].Msg, tt.msg)
			}
			// An unlinked table still terminates on cyclic walks.
			if _, err := tab.Ancestors(tab.LookupClass("A")); diag.KindOf(err) != diag.CyclicInheritance {
				t.Errorf("Ancestors = %v", err)
			}
		})
	}
}

func TestLinkParentErrors(t *testing.T) {
	tab, err := registerAll(t, "class A : Nope {} class Box<T> {} class B : Box {}")
	if err != nil {
		t.Fatal(err)
	}
	err = tab.Link()
	if !diag.Has(err, diag.UnknownType) || !diag.Has(err, diag.TypeMismatch) {
		t.Errorf("Link() = %v, want UnknownType and TypeMismatch", err)
	}
}

func TestLookupNearestFirst(t *testing.T) {
	tab := linkedTable(t, "class X { x: int } class Y : X { y: int } class Z : Y { x: int }")
	x, y, z := tab.LookupClass("X"), tab.LookupClass("Y"), tab.LookupClass("Z")
	for _, c := range []*Class{x, y, z} {
		for _, f := range c.Decl().Fields {
			tab.AddField(c, NewField(f.Name.Pos(), f.Name.Value, Typ[Int], c))
		}
	}
	if f := tab.LookupField(y, "x"); f == nil || f.Owner() != x {
		t.Errorf("Y.x owner = %v", f)
	}
	if f := tab.LookupField(z, "x"); f == nil || f.Owner() != z {
		t.Errorf("Z.x should resolve to Z's own field")
	}
	if tab.LookupField(x, "y") != nil {
		t.Error("X.y should not resolve")
	}
	var flat []string
	for _, f := range tab.FlatFields(z) {
		flat = append(flat, f.Owner().Name()+"."+f.Name())
	}
	if got := strings.Join(flat, " "); got != "X.x Y.y Z.x" {
		t.Errorf("FlatFields(Z) = %q", got)
	}
	if !tab.IsAncestor(x, z) || tab.IsAncestor(z, x) || !tab.IsAncestor(y, y) {
		t.Error("IsAncestor wrong")
	}
}

func TestImplementations(t *testing.T) {
	tab := linkedTable(t, `
class A { fun shout(self) {} fun only(self) {} }
class B : A {}
class C : B {}
class D : C { fun shout(self) {} }
class Other { fun shout(self) {} }
`)
	for _, c := range tab.Classes() {
		for _, m := range c.Decl().Methods {
			fn := NewFuncObj(m.Name.Pos(), m.Name.Value, m)
			fn.SetSignature(NewFunc(nil, nil, nil))
			tab.AddMethod(c, fn)
		}
	}
	tab.Seal()

	b := tab.LookupClass("B")
	if n := len(tab.Implementations(b, "shout")); n != 2 {
		t.Errorf("shout implementations = %d, want 2", n)
	}
	if n := len(tab.Implementations(b, "only")); n != 1 {
		t.Errorf("only implementations = %d, want 1", n)
	}
	if n := len(tab.Implementations(tab.LookupClass("Other"), "shout")); n != 1 {
		t.Errorf("unrelated hierarchy counted: %d", n)
	}
	if m := tab.LookupMethod(tab.LookupClass("C"), "shout"); m.Owner().Name() != "A" || m.FullName() != "A.shout" {
		t.Errorf("C.shout = %s", m.FullName())
	}
	if m := tab.LookupMethod(tab.LookupClass("D"), "shout"); m.Owner().Name() != "D" {
		t.Errorf("D.shout = %s", m.FullName())
	}
}

func TestSealedTablePanics(t *testing.T) {
	tab := linkedTable(t, "class A {}")
	tab.Seal()
	defer func() {
		if recover() == nil {
			t.Error("Register after Seal did not panic")
		}
	}()
	tab.Register(&syntax.ClassDecl{Name: &syntax.Name{Value: "B"}})
}
