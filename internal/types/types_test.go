package types

import (
	"strings"
	"testing"

	"github.com/you-not-fish/kyanite/internal/syntax"
)

func TestBasicTypes(t *testing.T) {
	tests := []struct {
		kind BasicKind
		name string
		info BasicInfo
	}{
		{Int, "int", IsInteger},
		{Float, "float", IsFloat},
		{Bool, "bool", IsBoolean},
		{Str, "str", IsString},
		{Void, "void", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := Typ[tt.kind]
			if typ.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", typ.Kind(), tt.kind)
			}
			if typ.Info() != tt.info {
				t.Errorf("Info() = %v, want %v", typ.Info(), tt.info)
			}
			if typ.String() != tt.name {
				t.Errorf("String() = %q, want %q", typ.String(), tt.name)
			}
			obj, ok := Universe.Lookup(tt.name).(*TypeName)
			if !ok || obj.Type() != typ {
				t.Errorf("Universe.Lookup(%q) = %v", tt.name, Universe.Lookup(tt.name))
			}
		})
	}
}

func TestUniverseConsts(t *testing.T) {
	if Universe.Lookup("true") != UniverseTrue() || Universe.Lookup("false") != UniverseFalse() {
		t.Fatal("true/false not in universe")
	}
	if UniverseTrue().Val().String() != "true" || UniverseTrue().Type() != Typ[Bool] {
		t.Errorf("true = %s of %s", UniverseTrue().Val(), UniverseTrue().Type())
	}
}

func TestSignatureString(t *testing.T) {
	tp := NewTypeParam(syntax.NoPos, "T", 0)
	tp.SetBound(&Bound{object: object{name: "Speaker"}})
	sig := NewFunc([]*TypeParam{tp}, []*Var{
		NewParam(syntax.NoPos, "x", tp, 0),
		NewParam(syntax.NoPos, "n", Typ[Int], 1),
	}, Typ[Str])
	if got := sig.String(); got != "fun<T: Speaker>(x: T, n: int): str" {
		t.Errorf("String() = %q", got)
	}
	if NewFunc(nil, nil, nil).Result() != Typ[Void] {
		t.Error("nil result should be void")
	}
}

func TestScopeInsertAndLookup(t *testing.T) {
	parent := NewScope(nil, syntax.NoPos, syntax.NoPos, "parent")
	child := NewScope(parent, syntax.NoPos, syntax.NoPos, "child")

	x := NewVar(syntax.NoPos, "x", Typ[Int])
	if parent.Insert(x) != nil {
		t.Fatal("first Insert returned an existing object")
	}
	if alt := parent.Insert(NewVar(syntax.NoPos, "x", Typ[Float])); alt != x {
		t.Errorf("duplicate Insert returned %v, want first object", alt)
	}
	if child.Lookup("x") != nil {
		t.Error("Lookup should not search parents")
	}
	obj, scope := child.LookupParent("x")
	if obj != x || scope != parent {
		t.Errorf("LookupParent = %v, %v", obj, scope)
	}
	if x.Parent() != parent {
		t.Error("Insert did not set parent")
	}

	child.Insert(NewVar(syntax.NoPos, "b", Typ[Bool]))
	child.Insert(NewVar(syntax.NoPos, "a", Typ[Str]))
	if got := strings.Join(child.Names(), ","); got != "a,b" {
		t.Errorf("Names() = %s", got)
	}
	if objs := child.Objects(); len(objs) != 2 || objs[0].Name() != "b" {
		t.Errorf("Objects() not in insertion order")
	}
	if !strings.Contains(parent.String(), "scope child {") {
		t.Errorf("String() missing child scope:\n%s", parent.String())
	}
}

func TestSizes(t *testing.T) {
	c := &Class{}
	c.obj = NewTypeName(syntax.NoPos, "A", c)
	tests := []struct {
		typ  Type
		size int64
		desc byte
	}{
		{Typ[Int], 8, 'i'},
		{Typ[Float], 8, 'i'},
		{Typ[Bool], 8, 'i'},
		{Typ[Str], 8, 'i'},
		{Typ[Void], 0, 'i'},
		{c, 8, 'p'},
		{NewTypeParam(syntax.NoPos, "T", 0), 8, 'p'},
	}
	for _, tt := range tests {
		if got := DefaultSizes.Sizeof(tt.typ); got != tt.size {
			t.Errorf("Sizeof(%s) = %d, want %d", tt.typ, got, tt.size)
		}
		if got := DefaultSizes.DescChar(tt.typ); got != tt.desc {
			t.Errorf("DescChar(%s) = %c, want %c", tt.typ, got, tt.desc)
		}
	}
}
