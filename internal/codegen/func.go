package codegen

import (
	"fmt"

	lir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	ltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/rtabi"
	"github.com/you-not-fish/kyanite/internal/types"
)

// funcState holds the state of one function being lowered.
type funcState struct {
	g  *generator
	fn *ir.Func
	lf *lir.Func

	blocks map[*ir.Block]*lir.Block
	// ends maps an IR block to the LLVM block holding its terminator. They
	// differ when a division check split the block.
	ends map[*ir.Block]*lir.Block
	vals map[*ir.Value]value.Value
	phis map[*ir.Value]*lir.InstPhi

	cur    *lir.Block
	nsplit int
}

func (g *generator) lowerFunc(fn *ir.Func, lf *lir.Func) error {
	s := &funcState{
		g:      g,
		fn:     fn,
		lf:     lf,
		blocks: make(map[*ir.Block]*lir.Block),
		ends:   make(map[*ir.Block]*lir.Block),
		vals:   make(map[*ir.Value]value.Value),
		phis:   make(map[*ir.Value]*lir.InstPhi),
	}

	order := ir.ReversePostOrder(fn)
	reachable := make(map[*ir.Block]bool, len(order))
	for _, b := range order {
		reachable[b] = true
		s.blocks[b] = lf.NewBlock(b.String())
	}
	// Blocks no path reaches keep a label so their successors stay valid
	// but contain nothing.
	for _, b := range fn.Blocks {
		if !reachable[b] {
			lf.NewBlock(b.String()).NewUnreachable()
		}
	}

	for _, b := range order {
		s.cur = s.blocks[b]
		for _, v := range b.Values {
			if err := s.value(v); err != nil {
				return err
			}
		}
		s.ends[b] = s.cur
		if err := s.terminate(b); err != nil {
			return err
		}
	}

	for v, phi := range s.phis {
		for i, a := range v.Args {
			pred := v.Block.Preds[i]
			if !reachable[pred] {
				continue
			}
			phi.Incs = append(phi.Incs, lir.NewIncoming(s.vals[a], s.ends[pred]))
		}
	}
	return nil
}

func (s *funcState) terminate(b *ir.Block) error {
	switch b.Kind {
	case ir.BlockPlain:
		s.cur.NewBr(s.blocks[b.Succs[0]])
	case ir.BlockIf:
		s.cur.NewCondBr(s.operand(b.Controls[0]), s.blocks[b.Succs[0]], s.blocks[b.Succs[1]])
	case ir.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			s.cur.NewRet(s.operand(b.Controls[0]))
		} else {
			s.cur.NewRet(nil)
		}
	default:
		return fmt.Errorf("block %s has kind %s", b, b.Kind)
	}
	return nil
}

func (s *funcState) operand(v *ir.Value) value.Value {
	x, ok := s.vals[v]
	if !ok {
		panic(fmt.Sprintf("codegen.operand: %s used before it was lowered", v))
	}
	return x
}

func (s *funcState) arg(v *ir.Value, i int) value.Value {
	return s.operand(v.Args[i])
}

// fieldPtr returns a pointer of type elem* to the field at byte offset off
// of obj.
func (s *funcState) fieldPtr(obj value.Value, off int64, elem ltypes.Type) value.Value {
	p := s.cur.NewGetElementPtr(ltypes.I8, obj, constant.NewInt(ltypes.I64, off))
	return s.cur.NewBitCast(p, ltypes.NewPointer(elem))
}

// value lowers one IR value into the current block.
func (s *funcState) value(v *ir.Value) error {
	var x value.Value
	b := s.cur

	switch v.Op {
	case ir.OpConst64:
		x = constant.NewInt(ltypes.I64, v.AuxInt)
	case ir.OpConstFloat:
		x = constant.NewFloat(ltypes.Double, v.AuxFloat)
	case ir.OpConstBool:
		x = constant.NewBool(v.AuxInt != 0)
	case ir.OpConstString:
		x = s.g.literal(v.Name())

	case ir.OpArg:
		i := int(v.AuxInt)
		if s.fn.IsMethod() {
			i++
		}
		x = s.lf.Params[i]

	case ir.OpAlloca:
		x = b.NewAlloca(llvmType(v.Type))
	case ir.OpLoad:
		x = b.NewLoad(llvmType(v.Type), s.arg(v, 0))
	case ir.OpStore:
		b.NewStore(s.arg(v, 1), s.arg(v, 0))

	case ir.OpAdd64:
		x = b.NewAdd(s.arg(v, 0), s.arg(v, 1))
	case ir.OpSub64:
		x = b.NewSub(s.arg(v, 0), s.arg(v, 1))
	case ir.OpMul64:
		x = b.NewMul(s.arg(v, 0), s.arg(v, 1))
	case ir.OpDiv64, ir.OpMod64:
		y := s.arg(v, 1)
		s.checkDivisor(y, v)
		x = s.divide(v.Op, s.arg(v, 0), y)
	case ir.OpNeg64:
		x = b.NewSub(constant.NewInt(ltypes.I64, 0), s.arg(v, 0))
	case ir.OpAddF64:
		x = b.NewFAdd(s.arg(v, 0), s.arg(v, 1))
	case ir.OpSubF64:
		x = b.NewFSub(s.arg(v, 0), s.arg(v, 1))
	case ir.OpMulF64:
		x = b.NewFMul(s.arg(v, 0), s.arg(v, 1))
	case ir.OpDivF64:
		x = b.NewFDiv(s.arg(v, 0), s.arg(v, 1))
	case ir.OpNegF64:
		x = b.NewFNeg(s.arg(v, 0))
	case ir.OpNot:
		x = b.NewXor(s.arg(v, 0), constant.True)

	case ir.OpEq64, ir.OpNeq64, ir.OpLt64, ir.OpLeq64, ir.OpGt64, ir.OpGeq64:
		x = b.NewICmp(intPred[v.Op], s.arg(v, 0), s.arg(v, 1))
	case ir.OpEqF64, ir.OpNeqF64, ir.OpLtF64, ir.OpLeqF64, ir.OpGtF64, ir.OpGeqF64:
		x = b.NewFCmp(floatPred[v.Op], s.arg(v, 0), s.arg(v, 1))
	case ir.OpEqStr, ir.OpNeqStr:
		cmp := b.NewCall(s.g.runtime[fnStrcmp], s.arg(v, 0), s.arg(v, 1))
		pred := enum.IPredEQ
		if v.Op == ir.OpNeqStr {
			pred = enum.IPredNE
		}
		x = b.NewICmp(pred, cmp, constant.NewInt(ltypes.I32, 0))

	case ir.OpPhi:
		// Incomings are added once every block is lowered.
		phi := &lir.InstPhi{Typ: llvmType(v.Type)}
		b.Insts = append(b.Insts, phi)
		s.phis[v] = phi
		x = phi

	case ir.OpAlloc:
		l := v.Aux.(*layout.Class)
		x = b.NewCall(s.g.runtime[rtabi.FnAlloc], constant.NewInt(ltypes.I64, v.AuxInt), s.g.desc[l])
	case ir.OpLoadField:
		t := llvmType(v.Type)
		x = b.NewLoad(t, s.fieldPtr(s.arg(v, 0), v.AuxInt, t))
	case ir.OpStoreField:
		val := s.arg(v, 1)
		b.NewStore(val, s.fieldPtr(s.arg(v, 0), v.AuxInt, val.Type()))
	case ir.OpSetDispatch:
		l := v.Aux.(*layout.Class)
		b.NewStore(s.g.dispatch[l], s.fieldPtr(s.arg(v, 0), rtabi.HeaderDispatchOffset, ptrType))

	case ir.OpCallDirect:
		callee, ok := s.g.funcs[v.Callee()]
		if !ok {
			return fmt.Errorf("call of undeclared %s", v.Callee().FullName())
		}
		x = b.NewCall(callee, s.operands(v.Args)...)
	case ir.OpDispatchTable:
		slot := s.fieldPtr(s.arg(v, 0), rtabi.HeaderDispatchOffset, ptrType)
		table := b.NewLoad(ptrType, slot)
		x = b.NewBitCast(table, ltypes.NewPointer(ptrType))
	case ir.OpDispatchEntry:
		sig, ok := v.Type.(*types.Func)
		if !ok {
			return fmt.Errorf("%s has no signature", v)
		}
		p := b.NewGetElementPtr(ptrType, s.arg(v, 0), constant.NewInt(ltypes.I64, v.AuxInt))
		impl := b.NewLoad(ptrType, p)
		x = b.NewBitCast(impl, ltypes.NewPointer(funcType(sig)))
	case ir.OpCallIndirect:
		x = b.NewCall(s.arg(v, 0), s.operands(v.Args[1:])...)

	default:
		return fmt.Errorf("unhandled op %s", v.Op)
	}

	if x != nil {
		s.vals[v] = x
	}
	return nil
}

func (s *funcState) operands(args []*ir.Value) []value.Value {
	vals := make([]value.Value, len(args))
	for i, a := range args {
		vals[i] = s.operand(a)
	}
	return vals
}

// checkDivisor branches to a panic when y is zero and continues lowering
// in a fresh block otherwise.
func (s *funcState) checkDivisor(y value.Value, v *ir.Value) {
	s.nsplit++
	fail := s.lf.NewBlock(fmt.Sprintf("divzero.%d", s.nsplit))
	ok := s.lf.NewBlock(fmt.Sprintf("divok.%d", s.nsplit))

	isZero := s.cur.NewICmp(enum.IPredEQ, y, constant.NewInt(ltypes.I64, 0))
	s.cur.NewCondBr(isZero, fail, ok)

	msg := "integer divide by zero"
	if v.Pos.IsValid() {
		msg = v.Pos.String() + ": " + msg
	}
	fail.NewCall(s.g.runtime[rtabi.FnPanic], s.g.literal(msg))
	fail.NewUnreachable()

	s.cur = ok
}

// divide emits x / y or x % y for a nonzero y. A divisor of -1 is
// handled without sdiv, which traps on MinInt64 / -1; the quotient wraps
// and the remainder is 0.
func (s *funcState) divide(op ir.Op, x, y value.Value) value.Value {
	b := s.cur
	minusOne := b.NewICmp(enum.IPredEQ, y, constant.NewInt(ltypes.I64, -1))
	safe := b.NewSelect(minusOne, constant.NewInt(ltypes.I64, 1), y)
	if op == ir.OpDiv64 {
		q := b.NewSDiv(x, safe)
		neg := b.NewSub(constant.NewInt(ltypes.I64, 0), x)
		return b.NewSelect(minusOne, neg, q)
	}
	r := b.NewSRem(x, safe)
	return b.NewSelect(minusOne, constant.NewInt(ltypes.I64, 0), r)
}

var intPred = map[ir.Op]enum.IPred{
	ir.OpEq64:  enum.IPredEQ,
	ir.OpNeq64: enum.IPredNE,
	ir.OpLt64:  enum.IPredSLT,
	ir.OpLeq64: enum.IPredSLE,
	ir.OpGt64:  enum.IPredSGT,
	ir.OpGeq64: enum.IPredSGE,
}

var floatPred = map[ir.Op]enum.FPred{
	ir.OpEqF64:  enum.FPredOEQ,
	ir.OpNeqF64: enum.FPredONE,
	ir.OpLtF64:  enum.FPredOLT,
	ir.OpLeqF64: enum.FPredOLE,
	ir.OpGtF64:  enum.FPredOGT,
	ir.OpGeqF64: enum.FPredOGE,
}
