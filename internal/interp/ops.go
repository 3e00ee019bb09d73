package interp

import (
	"fmt"

	"github.com/you-not-fish/kyanite/internal/ir"
)

// binary evaluates a two-operand arithmetic or comparison op.
func (f *frame) binary(v *ir.Value, x, y Value) (Value, error) {
	switch v.Op {
	case ir.OpAdd64, ir.OpSub64, ir.OpMul64, ir.OpDiv64, ir.OpMod64,
		ir.OpLt64, ir.OpLeq64, ir.OpGt64, ir.OpGeq64:
		return f.intOp(v, x.(int64), y.(int64))

	case ir.OpEq64:
		return x == y, nil
	case ir.OpNeq64:
		return x != y, nil

	case ir.OpAddF64:
		return x.(float64) + y.(float64), nil
	case ir.OpSubF64:
		return x.(float64) - y.(float64), nil
	case ir.OpMulF64:
		return x.(float64) * y.(float64), nil
	case ir.OpDivF64:
		return x.(float64) / y.(float64), nil
	case ir.OpEqF64:
		return x.(float64) == y.(float64), nil
	case ir.OpNeqF64:
		return x.(float64) != y.(float64), nil
	case ir.OpLtF64:
		return x.(float64) < y.(float64), nil
	case ir.OpLeqF64:
		return x.(float64) <= y.(float64), nil
	case ir.OpGtF64:
		return x.(float64) > y.(float64), nil
	case ir.OpGeqF64:
		return x.(float64) >= y.(float64), nil

	case ir.OpEqStr:
		return x.(string) == y.(string), nil
	case ir.OpNeqStr:
		return x.(string) != y.(string), nil
	}
	panic(fmt.Sprintf("interp.binary: unhandled op %s", v.Op))
}

// intOp evaluates integer arithmetic with wrapping overflow. Division and
// remainder by zero are run-time errors.
func (f *frame) intOp(v *ir.Value, x, y int64) (Value, error) {
	switch v.Op {
	case ir.OpAdd64:
		return x + y, nil
	case ir.OpSub64:
		return x - y, nil
	case ir.OpMul64:
		return x * y, nil
	case ir.OpDiv64:
		if y == 0 {
			return nil, f.errorf(v, "integer divide by zero")
		}
		return x / y, nil
	case ir.OpMod64:
		if y == 0 {
			return nil, f.errorf(v, "integer divide by zero")
		}
		return x % y, nil
	case ir.OpLt64:
		return x < y, nil
	case ir.OpLeq64:
		return x <= y, nil
	case ir.OpGt64:
		return x > y, nil
	default: // OpGeq64
		return x >= y, nil
	}
}
