package types2

import (
	"go/constant"
	"go/token"

	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// expr evaluates an expression and sets x to the result.
func (c *Checker) expr(x *operand, e syntax.Expr) {
	c.exprInternal(x, e)

	// An operand of invalid type stems from an earlier error.
	if x.mode != invalid && x.mode != novalue && types.IsInvalid(x.typ) {
		x.setInvalid()
	}

	// Record type information
	if x.mode != invalid {
		c.recordType(e, x)
	}
}

// exprInternal is the main expression checking function.
func (c *Checker) exprInternal(x *operand, e syntax.Expr) {
	x.mode = invalid
	x.pos = e.Pos()
	x.expr = e

	switch e := e.(type) {
	case *syntax.Name:
		c.ident(x, e)
	case *syntax.BasicLit:
		c.basicLit(x, e)
	case *syntax.Operation:
		if e.Y == nil {
			c.unary(x, e)
		} else {
			c.binary(x, e)
		}
	case *syntax.CallExpr:
		c.call(x, e)
	case *syntax.SelectorExpr:
		c.selector(x, e)
	case *syntax.InitExpr:
		c.initExpr(x, e)
	case *syntax.ParenExpr:
		c.expr(x, e.X)
		x.expr = e
	case *syntax.InstType:
		c.errorf(diag.TypeMismatch, e.Pos(), "type %s is not an expression", syntax.ExprString(e))
	default:
		c.errorf(diag.TypeMismatch, e.Pos(), "unexpected expression %T", e)
	}
}

// ident evaluates an identifier.
func (c *Checker) ident(x *operand, name *syntax.Name) {
	obj := c.lookup(name.Value)
	if obj == nil {
		c.errorf(diag.UnknownType, name.Pos(), "undefined: %s", name.Value)
		return
	}
	c.recordUse(name, obj)

	switch obj := obj.(type) {
	case *types.Var:
		if obj.Kind() == types.RecvVar {
			x.setValue(obj.Type())
			return
		}
		x.setVar(obj.Type())
	case *types.Const:
		if obj.Val() == nil && c.constDecls[obj] != nil {
			c.constDecl(obj)
		}
		if obj.Val() == nil {
			return // error reported by constDecl
		}
		x.setConst(obj.Type(), obj.Val())
	case *types.TypeName:
		c.errorf(diag.TypeMismatch, name.Pos(), "%s is a type, not a value", name.Value)
	case *types.Bound:
		c.errorf(diag.TypeMismatch, name.Pos(), "%s is a bound, not a value", name.Value)
	case *types.FuncObj:
		c.errorf(diag.TypeMismatch, name.Pos(), "function %s must be called", name.Value)
	default:
		c.errorf(diag.TypeMismatch, name.Pos(), "unexpected object %T", obj)
	}
}

// basicLit evaluates a basic literal (int, float, string).
func (c *Checker) basicLit(x *operand, lit *syntax.BasicLit) {
	switch lit.Kind {
	case syntax.IntLit:
		val := constant.MakeFromLiteral(lit.Value, token.INT, 0)
		if val.Kind() != constant.Int {
			c.errorf(diag.TypeMismatch, lit.Pos(), "invalid integer literal %s", lit.Value)
			return
		}
		x.setConst(types.Typ[types.Int], val)
		c.overflow(x)

	case syntax.FloatLit:
		val := constant.MakeFromLiteral(lit.Value, token.FLOAT, 0)
		if val.Kind() != constant.Float && val.Kind() != constant.Int {
			c.errorf(diag.TypeMismatch, lit.Pos(), "invalid float literal %s", lit.Value)
			return
		}
		x.setConst(types.Typ[types.Float], constant.ToFloat(val))

	case syntax.StringLit:
		// The scanner has already decoded escapes.
		x.setConst(types.Typ[types.Str], constant.MakeString(lit.Value))

	default:
		c.errorf(diag.TypeMismatch, lit.Pos(), "unknown literal kind %s", lit.Kind)
	}
}

// overflow reports an int constant that does not fit in 64 bits.
func (c *Checker) overflow(x *operand) {
	if x.mode != constant_ || !types.IsInt(x.typ) {
		return
	}
	if _, exact := constant.Int64Val(x.val); !exact {
		c.errorf(diag.TypeMismatch, x.pos, "constant %s overflows int", x.val)
		x.setInvalid()
	}
}

// singleValue reports an error if x has no value.
func (c *Checker) singleValue(x *operand) bool {
	switch x.mode {
	case invalid:
		return false
	case novalue:
		c.errorf(diag.TypeMismatch, x.pos, "%s (no value) used as value", x.describe())
		x.setInvalid()
		return false
	}
	return true
}

// tokens maps operators to the go/token operators understood by
// go/constant.
var tokens = map[syntax.Token]token.Token{
	syntax.OrOr:   token.LOR,
	syntax.AndAnd: token.LAND,
	syntax.Eql:    token.EQL,
	syntax.Neq:    token.NEQ,
	syntax.Lss:    token.LSS,
	syntax.Leq:    token.LEQ,
	syntax.Gtr:    token.GTR,
	syntax.Geq:    token.GEQ,
	syntax.Add:    token.ADD,
	syntax.Sub:    token.SUB,
	syntax.Mul:    token.MUL,
	syntax.Div:    token.QUO,
	syntax.Rem:    token.REM,
	syntax.Not:    token.NOT,
}

// unary evaluates a unary operation.
func (c *Checker) unary(x *operand, e *syntax.Operation) {
	c.expr(x, e.X)
	if !c.singleValue(x) {
		return
	}
	x.expr = e
	x.pos = e.Pos()

	switch e.Op {
	case syntax.Not:
		if !types.IsBool(x.typ) {
			c.invalidOp(x, "operator ! not defined on %s (type %s)", syntax.ExprString(e.X), x.typ)
			x.setInvalid()
			return
		}
	case syntax.Sub:
		if !types.IsBasic(x.typ, types.IsNumeric) {
			c.invalidOp(x, "operator - not defined on %s (type %s)", syntax.ExprString(e.X), x.typ)
			x.setInvalid()
			return
		}
	default:
		c.invalidOp(x, "unknown unary operator %s", e.Op)
		x.setInvalid()
		return
	}

	if x.mode == constant_ {
		x.val = constant.UnaryOp(tokens[e.Op], x.val, 0)
		c.overflow(x)
		return
	}
	x.setValue(x.typ)
}

// binary evaluates a binary operation. Operands must have identical basic
// types; there are no implicit conversions.
func (c *Checker) binary(x *operand, e *syntax.Operation) {
	var y operand
	c.expr(x, e.X)
	c.expr(&y, e.Y)
	if !c.singleValue(x) || !c.singleValue(&y) {
		x.setInvalid()
		return
	}
	x.expr = e
	x.pos = e.Pos()

	op := e.Op
	if !types.Identical(x.typ, y.typ) {
		c.invalidOp(x, "mismatched types %s and %s in %s", x.typ, y.typ, syntax.ExprString(e))
		x.setInvalid()
		return
	}

	var ok bool
	switch {
	case op.IsLogical():
		ok = types.IsBool(x.typ)
	case op == syntax.Eql || op == syntax.Neq:
		ok = types.IsBasic(x.typ, 0)
	case op.IsOrdering():
		ok = types.IsBasic(x.typ, types.IsOrdered)
	case op == syntax.Rem:
		ok = types.IsInt(x.typ)
	case op == syntax.Add || op == syntax.Sub || op == syntax.Mul || op == syntax.Div:
		ok = types.IsBasic(x.typ, types.IsNumeric)
	}
	if !ok {
		c.invalidOp(x, "operator %s not defined on %s (type %s)", op, syntax.ExprString(e.X), x.typ)
		x.setInvalid()
		return
	}

	result := x.typ
	if op.IsComparison() {
		result = types.Typ[types.Bool]
	}

	if x.mode != constant_ || y.mode != constant_ {
		x.setValue(result)
		return
	}

	// Fold constant operations.
	if op.IsComparison() {
		x.setConst(result, constant.MakeBool(constant.Compare(x.val, tokens[op], y.val)))
		return
	}
	if (op == syntax.Div || op == syntax.Rem) && constant.Sign(y.val) == 0 {
		c.errorf(diag.TypeMismatch, y.pos, "invalid operation: division by zero")
		x.setInvalid()
		return
	}
	tok := tokens[op]
	if op == syntax.Div && types.IsInt(x.typ) {
		tok = token.QUO_ASSIGN // truncated integer division
	}
	x.setConst(result, constant.BinaryOp(x.val, tok, y.val))
	c.overflow(x)
}

// selector evaluates a field access X.Sel. Method selectors are only
// valid as the callee of a call.
func (c *Checker) selector(x *operand, e *syntax.SelectorExpr) {
	c.expr(x, e.X)
	if !c.singleValue(x) {
		return
	}
	name := e.Sel.Value
	recv := x.typ
	x.expr = e
	x.pos = e.Sel.Pos()

	var cls *types.Class
	var tparams []*types.TypeParam
	var targs []types.Type
	switch t := recv.(type) {
	case *types.Class:
		cls = t
	case *types.Instance:
		cls = t.Origin()
		tparams, targs = cls.TypeParams(), t.TypeArgs()
	case *types.TypeParam:
		c.errorf(diag.UnknownField, e.Sel.Pos(), "%s.%s undefined (type parameter %s has no fields)", syntax.ExprString(e.X), name, t)
		x.setInvalid()
		return
	default:
		c.errorf(diag.UnknownField, e.Sel.Pos(), "%s.%s undefined (type %s has no fields)", syntax.ExprString(e.X), name, recv)
		x.setInvalid()
		return
	}

	f := c.table.LookupField(cls, name)
	if f == nil {
		if c.table.LookupMethod(cls, name) != nil {
			c.errorf(diag.TypeMismatch, e.Sel.Pos(), "method %s.%s must be called", cls.Name(), name)
		} else {
			c.errorf(diag.UnknownField, e.Sel.Pos(), "%s.%s undefined (type %s has no field %s)", syntax.ExprString(e.X), name, recv, name)
		}
		x.setInvalid()
		return
	}
	c.recordUse(e.Sel, f)
	x.setVar(types.Subst(f.Type(), tparams, targs))
}

// assignment reports whether x can be assigned to a variable of type T.
// context describes the assignment in messages.
func (c *Checker) assignment(x *operand, T types.Type, context string) bool {
	if !c.singleValue(x) || types.IsInvalid(T) {
		return false
	}
	V := x.typ
	if types.Identical(V, T) {
		return true
	}

	// Upcasts to an ancestor class keep the object and change only the
	// static type.
	target, isClass := T.(*types.Class)
	if from := types.AsClass(V); isClass && from != nil {
		if c.table.IsAncestor(target, from) {
			return true
		}
		c.errorf(diag.InvalidUpcast, x.pos, "cannot use %s (type %s) as %s value in %s: %s is not an ancestor of %s",
			x.describe(), V, T, context, target.Name(), from.Name())
		return false
	}

	c.errorf(diag.TypeMismatch, x.pos, "cannot use %s (type %s) as %s value in %s", x.describe(), V, T, context)
	return false
}
