package types2

import (
	"go/constant"

	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

type operandMode int

const (
	invalid   operandMode = iota
	novalue                      // call of a void function
	typexpr                      // class, bound or type parameter name
	constant_                    // literal or const; val is set
	variable                     // local, parameter or field: may be assigned
	value                        // anything else
)

// An operand is the result of checking one expression.
type operand struct {
	mode operandMode
	pos  syntax.Pos
	typ  types.Type
	val  constant.Value
	expr syntax.Expr
}

func (x *operand) String() string {
	switch {
	case x.mode == invalid:
		return "invalid operand"
	case x.typ == nil:
		return "untyped operand"
	}
	return x.typ.String()
}

// describe returns the source form of x for messages.
func (x *operand) describe() string {
	if x.expr == nil {
		return x.String()
	}
	return syntax.ExprString(x.expr)
}

func (x *operand) set(mode operandMode, typ types.Type, val constant.Value) {
	x.mode, x.typ, x.val = mode, typ, val
}

func (x *operand) setConst(typ types.Type, val constant.Value) { x.set(constant_, typ, val) }
func (x *operand) setVar(typ types.Type)                       { x.set(variable, typ, nil) }
func (x *operand) setInvalid()                                 { x.set(invalid, nil, nil) }

// setValue marks x as computed; void results become novalue.
func (x *operand) setValue(typ types.Type) {
	mode := value
	if types.IsVoid(typ) {
		mode = novalue
	}
	x.set(mode, typ, nil)
}
