package types

import (
	"go/constant"

	"github.com/you-not-fish/kyanite/internal/syntax"
)

// Universe is the root scope containing all predeclared objects. It is
// built once at init and never modified afterwards.
var Universe *Scope

var (
	universeTrue  *Const
	universeFalse *Const
)

func init() {
	Universe = NewScope(nil, syntax.NoPos, syntax.NoPos, "universe")
	defPredeclaredTypes()
	defPredeclaredConsts()
}

// defPredeclaredTypes defines int, float, bool, str and void in Universe.
func defPredeclaredTypes() {
	for _, kind := range []BasicKind{Int, Float, Bool, Str, Void} {
		typ := Typ[kind]
		Universe.Insert(NewTypeName(syntax.NoPos, typ.name, typ))
	}
}

// defPredeclaredConsts defines true and false in Universe.
func defPredeclaredConsts() {
	universeTrue = NewConst(syntax.NoPos, "true", Typ[Bool], constant.MakeBool(true))
	Universe.Insert(universeTrue)

	universeFalse = NewConst(syntax.NoPos, "false", Typ[Bool], constant.MakeBool(false))
	Universe.Insert(universeFalse)
}

// UniverseTrue returns the predeclared constant true.
func UniverseTrue() *Const { return universeTrue }

// UniverseFalse returns the predeclared constant false.
func UniverseFalse() *Const { return universeFalse }
