package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/you-not-fish/kyanite/internal/syntax"
)

func TestListSortsAndCombines(t *testing.T) {
	var l List
	l.Add(Errorf(TypeMismatch, syntax.NewPos("a.kya", 3, 1), "late"))
	l.Add(Errorf(UnknownType, syntax.NewPos("a.kya", 1, 4), "early"))

	err := l.Err()
	list := Errors(err)
	if len(list) != 2 {
		t.Fatalf("Errors() = %d, want 2", len(list))
	}
	if list[0].Kind != UnknownType || list[1].Kind != TypeMismatch {
		t.Errorf("order = %s, %s; want UnknownType, TypeMismatch", list[0].Kind, list[1].Kind)
	}
	if KindOf(err) != UnknownType {
		t.Errorf("KindOf = %s, want UnknownType", KindOf(err))
	}
	if !Has(err, TypeMismatch) || Has(err, InvalidUpcast) {
		t.Error("Has reports wrong kinds")
	}
	if got := list[0].Error(); got != "a.kya:1:4: early" {
		t.Errorf("Error() = %q", got)
	}
}

func TestListLimit(t *testing.T) {
	l := List{Max: 2}
	for i := 0; i < 5; i++ {
		l.Add(Errorf(TypeMismatch, syntax.NewPos("f", uint32(i+1), 1), "e%d", i))
	}
	if l.Len() != 2 || !l.Full() {
		t.Errorf("Len = %d Full = %v, want 2 true", l.Len(), l.Full())
	}
}

func TestEmptyList(t *testing.T) {
	var l List
	if err := l.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	if KindOf(nil) != Invalid {
		t.Error("KindOf(nil) should be Invalid")
	}
}

func TestErrorsUnwrapsWrapped(t *testing.T) {
	base := Errorf(CyclicInheritance, syntax.NewPos("f", 1, 1), "cycle")
	err := fmt.Errorf("table: %w", base)
	if KindOf(err) != CyclicInheritance {
		t.Errorf("KindOf(wrapped) = %s", KindOf(err))
	}
	var de *Error
	if !errors.As(err, &de) || de.Msg != "cycle" {
		t.Error("errors.As failed on wrapped diag error")
	}
}

func TestKindString(t *testing.T) {
	if IncompleteInitializer.String() != "IncompleteInitializer" {
		t.Errorf("String() = %q", IncompleteInitializer.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("String() = %q", Kind(99).String())
	}
}
