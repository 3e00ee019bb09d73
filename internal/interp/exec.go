package interp

import (
	"context"
	"fmt"

	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/rtabi"
	"github.com/you-not-fish/kyanite/internal/types"
)

// frame is the activation of one function.
type frame struct {
	m     *Machine
	fn    *ir.Func
	args  []Value
	vals  map[*ir.Value]Value
	slots map[*ir.Value]*Value // Alloca → storage
}

func (f *frame) errorf(v *ir.Value, format string, args ...interface{}) error {
	return &Error{Func: f.fn.Name, Pos: v.Pos, Msg: fmt.Sprintf(format, args...)}
}

// run executes the function from its entry block to a return.
func (f *frame) run(ctx context.Context) (Value, error) {
	var prev *ir.Block
	b := f.fn.Entry
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Phis read the edge taken into b before any other value runs.
		phis := make(map[*ir.Value]Value)
		for _, v := range b.Values {
			if v.Op != ir.OpPhi {
				break
			}
			i := predIndex(b, prev)
			if i < 0 {
				return nil, f.errorf(v, "phi in %s reached from %v", b, prev)
			}
			phis[v] = f.vals[v.Args[i]]
		}
		for v, x := range phis {
			f.vals[v] = x
		}

		for _, v := range b.Values {
			if v.Op == ir.OpPhi {
				continue
			}
			x, err := f.exec(ctx, v)
			if err != nil {
				return nil, err
			}
			f.vals[v] = x
		}

		switch b.Kind {
		case ir.BlockPlain:
			prev, b = b, b.Succs[0]
		case ir.BlockIf:
			cond, _ := f.vals[b.Controls[0]].(bool)
			if cond {
				prev, b = b, b.Succs[0]
			} else {
				prev, b = b, b.Succs[1]
			}
		case ir.BlockReturn:
			if len(b.Controls) > 0 && b.Controls[0] != nil {
				return f.vals[b.Controls[0]], nil
			}
			return nil, nil
		default:
			panic(fmt.Sprintf("interp.run: block %s has kind %s", b, b.Kind))
		}
	}
}

func predIndex(b, pred *ir.Block) int {
	for i, p := range b.Preds {
		if p == pred {
			return i
		}
	}
	return -1
}

// arg returns the value of v's i-th operand.
func (f *frame) arg(v *ir.Value, i int) Value {
	return f.vals[v.Args[i]]
}

// object returns v's i-th operand as an object.
func (f *frame) object(v *ir.Value, i int) *Object {
	obj, ok := f.arg(v, i).(*Object)
	if !ok {
		panic(fmt.Sprintf("interp: %s operand %d is %T, not an object", v.Op, i, f.arg(v, i)))
	}
	return obj
}

// fieldIndex converts a field offset to a slot index.
func fieldIndex(off int64) int {
	return int((off - rtabi.HeaderSize) / rtabi.WordSize)
}

// exec executes a single value.
func (f *frame) exec(ctx context.Context, v *ir.Value) (Value, error) {
	switch v.Op {
	case ir.OpConst64:
		return v.AuxInt, nil
	case ir.OpConstFloat:
		return v.AuxFloat, nil
	case ir.OpConstBool:
		return v.AuxInt != 0, nil
	case ir.OpConstString:
		return v.Name(), nil

	case ir.OpArg:
		i := int(v.AuxInt)
		if f.fn.IsMethod() {
			i++ // receiver comes first
		}
		if i < 0 || i >= len(f.args) {
			return nil, f.errorf(v, "missing argument %s", v.Name())
		}
		return f.args[i], nil

	case ir.OpAlloca:
		f.slots[v] = new(Value)
		return nil, nil
	case ir.OpLoad:
		return *f.slots[v.Args[0]], nil
	case ir.OpStore:
		*f.slots[v.Args[0]] = f.arg(v, 1)
		return nil, nil

	case ir.OpNeg64:
		return -f.arg(v, 0).(int64), nil
	case ir.OpNegF64:
		return -f.arg(v, 0).(float64), nil
	case ir.OpNot:
		return !f.arg(v, 0).(bool), nil

	case ir.OpAlloc:
		l := v.Aux.(*layout.Class)
		return &Object{Layout: l, Fields: make([]Value, len(l.Fields))}, nil
	case ir.OpLoadField:
		return f.object(v, 0).Fields[fieldIndex(v.AuxInt)], nil
	case ir.OpStoreField:
		f.object(v, 0).Fields[fieldIndex(v.AuxInt)] = f.arg(v, 1)
		return nil, nil
	case ir.OpSetDispatch:
		f.object(v, 0).Dispatch = v.Aux.(*layout.Class)
		return nil, nil

	case ir.OpCallDirect:
		return f.m.callObj(ctx, v.Callee(), f.operands(v.Args))
	case ir.OpDispatchTable:
		obj := f.object(v, 0)
		if obj.Dispatch == nil {
			return nil, f.errorf(v, "%s has no dispatch table", obj)
		}
		return obj.Dispatch, nil
	case ir.OpDispatchEntry:
		table := f.arg(v, 0).(*layout.Class)
		e, ok := table.Entry(int(v.AuxInt))
		if !ok {
			return nil, f.errorf(v, "class %s has no method %s at slot %d", table.Name(), v.Name(), v.AuxInt)
		}
		return e.Impl, nil
	case ir.OpCallIndirect:
		impl := f.arg(v, 0).(*types.FuncObj)
		return f.m.callObj(ctx, impl, f.operands(v.Args[1:]))
	}

	if len(v.Args) == 2 {
		return f.binary(v, f.arg(v, 0), f.arg(v, 1))
	}
	panic(fmt.Sprintf("interp.exec: unhandled op %s", v.Op))
}

func (f *frame) operands(args []*ir.Value) []Value {
	vals := make([]Value, len(args))
	for i, a := range args {
		vals[i] = f.vals[a]
	}
	return vals
}
