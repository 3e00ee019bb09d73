package ir

import (
	"fmt"
	"go/constant"

	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
	"github.com/you-not-fish/kyanite/internal/types2"
)

// expr lowers an expression to a value. Calls of void functions return a
// value of type void that nothing uses.
func (b *builder) expr(e syntax.Expr) *Value {
	if tv, ok := b.info.Types[e]; ok && tv.IsConstant() {
		return b.constValue(e, tv)
	}

	switch e := e.(type) {
	case *syntax.Name:
		return b.nameExpr(e)

	case *syntax.ParenExpr:
		return b.expr(e.X)

	case *syntax.Operation:
		if e.Y == nil {
			return b.unaryExpr(e)
		}
		return b.binaryExpr(e)

	case *syntax.CallExpr:
		return b.callExpr(e)

	case *syntax.SelectorExpr:
		return b.selectorExpr(e)

	case *syntax.InitExpr:
		return b.initExpr(e)

	default:
		panic(fmt.Sprintf("ir.builder.expr: unhandled %T", e))
	}
}

// constValue materializes a folded constant.
func (b *builder) constValue(e syntax.Expr, tv types2.TypeAndValue) *Value {
	typ := tv.Type
	val := tv.Value
	pos := e.Pos()

	switch {
	case types.IsInt(typ):
		n, exact := constant.Int64Val(val)
		if !exact {
			panic(fmt.Sprintf("ir.constValue: %s does not fit in int", val))
		}
		v := b.fn.NewValuePos(b.b, OpConst64, typ, pos)
		v.AuxInt = n
		return v

	case types.IsBasic(typ, types.IsFloat):
		f, _ := constant.Float64Val(constant.ToFloat(val))
		v := b.fn.NewValuePos(b.b, OpConstFloat, typ, pos)
		v.AuxFloat = f
		return v

	case types.IsBool(typ):
		v := b.fn.NewValuePos(b.b, OpConstBool, typ, pos)
		if constant.BoolVal(val) {
			v.AuxInt = 1
		}
		return v

	case types.IsBasic(typ, types.IsString):
		v := b.fn.NewValuePos(b.b, OpConstString, typ, pos)
		v.Aux = constant.StringVal(val)
		return v

	default:
		panic(fmt.Sprintf("ir.constValue: unhandled constant type %s", typ))
	}
}

// nameExpr lowers a reference to a local, parameter or receiver.
func (b *builder) nameExpr(e *syntax.Name) *Value {
	obj := b.info.Uses[e]
	if obj == nil {
		panic(fmt.Sprintf("ir.nameExpr: no object for %q", e.Value))
	}
	return b.fn.NewValuePos(b.b, OpLoad, obj.Type(), e.Pos(), b.local(obj))
}

// unaryExpr lowers ! and unary -.
func (b *builder) unaryExpr(e *syntax.Operation) *Value {
	x := b.expr(e.X)
	typ := b.exprType(e.X)

	switch e.Op {
	case syntax.Not:
		return b.fn.NewValuePos(b.b, OpNot, typ, e.Pos(), x)
	case syntax.Sub:
		if types.IsBasic(typ, types.IsFloat) {
			return b.fn.NewValuePos(b.b, OpNegF64, typ, e.Pos(), x)
		}
		return b.fn.NewValuePos(b.b, OpNeg64, typ, e.Pos(), x)
	default:
		panic(fmt.Sprintf("ir.unaryExpr: unhandled unary op %s", e.Op))
	}
}

// binaryExpr lowers arithmetic, comparisons and the logical operators.
func (b *builder) binaryExpr(e *syntax.Operation) *Value {
	if e.Op.IsLogical() {
		return b.shortCircuit(e)
	}

	x := b.expr(e.X)
	y := b.expr(e.Y)
	op := binOp(e.Op, b.exprType(e.X))
	return b.fn.NewValuePos(b.b, op, b.exprType(e), e.Pos(), x, y)
}

// shortCircuit lowers && and || to a branch and a Phi in the merge block.
func (b *builder) shortCircuit(e *syntax.Operation) *Value {
	boolType := types.Typ[types.Bool]
	left := b.expr(e.X)

	bRight := b.fn.NewBlock(BlockPlain)
	bShort := b.fn.NewBlock(BlockPlain)
	bMerge := b.fn.NewBlock(BlockPlain)

	b.b.Kind = BlockIf
	b.b.SetControl(left)

	isAnd := e.Op == syntax.AndAnd
	if isAnd {
		b.b.AddSucc(bRight) // true  → eval right
		b.b.AddSucc(bShort) // false → false
	} else {
		b.b.AddSucc(bShort) // true  → true
		b.b.AddSucc(bRight) // false → eval right
	}

	shortVal := b.fn.NewValue(bShort, OpConstBool, boolType)
	if !isAnd {
		shortVal.AuxInt = 1
	}
	bShort.AddSucc(bMerge)

	b.b = bRight
	right := b.expr(e.Y)
	// The right operand may itself have branched.
	b.b.AddSucc(bMerge)

	b.b = bMerge
	return b.fn.NewValuePos(bMerge, OpPhi, boolType, e.Pos(), shortVal, right)
}

// binOp maps an operator and its operand type to an Op.
func binOp(tok syntax.Token, typ types.Type) Op {
	switch {
	case types.IsBasic(typ, types.IsFloat):
		return floatBinOp(tok)
	case types.IsBasic(typ, types.IsString):
		return strBinOp(tok)
	}
	// int and bool
	return intBinOp(tok)
}

func intBinOp(tok syntax.Token) Op {
	switch tok {
	case syntax.Add:
		return OpAdd64
	case syntax.Sub:
		return OpSub64
	case syntax.Mul:
		return OpMul64
	case syntax.Div:
		return OpDiv64
	case syntax.Rem:
		return OpMod64
	case syntax.Eql:
		return OpEq64
	case syntax.Neq:
		return OpNeq64
	case syntax.Lss:
		return OpLt64
	case syntax.Leq:
		return OpLeq64
	case syntax.Gtr:
		return OpGt64
	case syntax.Geq:
		return OpGeq64
	default:
		panic(fmt.Sprintf("ir.intBinOp: unhandled token %s", tok))
	}
}

func floatBinOp(tok syntax.Token) Op {
	switch tok {
	case syntax.Add:
		return OpAddF64
	case syntax.Sub:
		return OpSubF64
	case syntax.Mul:
		return OpMulF64
	case syntax.Div:
		return OpDivF64
	case syntax.Eql:
		return OpEqF64
	case syntax.Neq:
		return OpNeqF64
	case syntax.Lss:
		return OpLtF64
	case syntax.Leq:
		return OpLeqF64
	case syntax.Gtr:
		return OpGtF64
	case syntax.Geq:
		return OpGeqF64
	default:
		panic(fmt.Sprintf("ir.floatBinOp: unhandled token %s", tok))
	}
}

func strBinOp(tok syntax.Token) Op {
	switch tok {
	case syntax.Eql:
		return OpEqStr
	case syntax.Neq:
		return OpNeqStr
	default:
		panic(fmt.Sprintf("ir.strBinOp: unhandled token %s", tok))
	}
}

// callExpr lowers function and method calls according to their dispatch
// kind. The receiver is evaluated first, then the arguments left to right.
func (b *builder) callExpr(e *syntax.CallExpr) *Value {
	ci := b.info.Calls[e]
	if ci == nil {
		panic(fmt.Sprintf("ir.callExpr: no call info for %s", syntax.ExprString(e)))
	}
	result := ci.Sig.Result()

	var args []*Value
	sel, isMethod := e.Fun.(*syntax.SelectorExpr)
	if isMethod {
		args = append(args, b.expr(sel.X))
	}
	for _, a := range e.Args {
		args = append(args, b.expr(a))
	}

	if ci.Kind == types2.CallDirect {
		v := b.fn.NewValuePos(b.b, OpCallDirect, result, e.Pos(), args...)
		v.Aux = ci.Callee
		return v
	}

	// Virtual and bound calls load the target from the receiver's table.
	if !isMethod {
		panic(fmt.Sprintf("ir.callExpr: %s call of function %s", ci.Kind, ci.Callee.Name()))
	}
	name := sel.Sel.Value
	slot, ok := b.layouts.Slot(name)
	if !ok {
		panic(fmt.Sprintf("ir.callExpr: no dispatch slot for method %s", name))
	}
	table := b.fn.NewValuePos(b.b, OpDispatchTable, nil, e.Pos(), args[0])
	entry := b.fn.NewValuePos(b.b, OpDispatchEntry, ci.Sig, e.Pos(), table)
	entry.AuxInt = int64(slot)
	entry.Aux = name
	return b.fn.NewValuePos(b.b, OpCallIndirect, result, e.Pos(), append([]*Value{entry}, args...)...)
}

// selectorExpr lowers a field read at the offset of the static type.
func (b *builder) selectorExpr(e *syntax.SelectorExpr) *Value {
	x := b.expr(e.X)
	v := b.fn.NewValuePos(b.b, OpLoadField, b.exprType(e), e.Sel.Pos(), x)
	v.AuxInt = b.fieldOffset(e)
	v.Aux = e.Sel.Value
	return v
}

// fieldOffset returns the offset of the field selected by e.
func (b *builder) fieldOffset(e *syntax.SelectorExpr) int64 {
	cls := types.AsClass(b.exprType(e.X))
	if cls == nil {
		panic(fmt.Sprintf("ir.fieldOffset: %s is not an object", syntax.ExprString(e.X)))
	}
	return b.layouts.FieldOffset(cls, e.Sel.Value)
}

// initExpr lowers Class:init(...) to an allocation, one field store per
// element in source order, and the dispatch table.
func (b *builder) initExpr(e *syntax.InitExpr) *Value {
	ii := b.info.Inits[e]
	if ii == nil {
		panic(fmt.Sprintf("ir.initExpr: no init info for %s", e.Type.Value))
	}
	l := b.layouts.Of(ii.Class)

	obj := b.fn.NewValuePos(b.b, OpAlloc, ii.Type, e.Pos())
	obj.Aux = l
	obj.AuxInt = l.Size

	for _, kv := range e.Elems {
		f, ok := l.Field(kv.Key.Value)
		if !ok {
			panic(fmt.Sprintf("ir.initExpr: class %s has no field %s", l.Name(), kv.Key.Value))
		}
		val := b.expr(kv.Value)
		st := b.fn.NewValuePos(b.b, OpStoreField, nil, kv.Key.Pos(), obj, val)
		st.AuxInt = f.Offset
		st.Aux = f.Name()
	}

	set := b.fn.NewValue(b.b, OpSetDispatch, nil, obj)
	set.Aux = l
	return obj
}

// exprType returns the checked type of an expression.
func (b *builder) exprType(e syntax.Expr) types.Type {
	tv, ok := b.info.Types[e]
	if !ok {
		panic(fmt.Sprintf("ir.exprType: no type info for %s", syntax.ExprString(e)))
	}
	return tv.Type
}
