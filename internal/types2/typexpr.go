package types2

import (
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// typ resolves a type expression in the current scope. It returns
// Typ[Invalid] after reporting an error.
func (c *Checker) typ(e syntax.Expr) types.Type {
	var x operand
	c.typExpr(&x, e)
	if x.mode == invalid {
		return types.Typ[types.Invalid]
	}
	return x.typ
}

// varType is like typ but rejects void, which only a result may be.
func (c *Checker) varType(e syntax.Expr) types.Type {
	t := c.typ(e)
	if types.IsVoid(t) {
		c.errorf(diag.TypeMismatch, e.Pos(), "invalid use of void")
		return types.Typ[types.Invalid]
	}
	return t
}

// typExpr evaluates a type expression and sets x to the resulting type.
func (c *Checker) typExpr(x *operand, e syntax.Expr) {
	x.mode = typexpr
	x.pos = e.Pos()
	x.expr = e

	switch e := e.(type) {
	case *syntax.Name:
		c.typeName(x, e)
	case *syntax.InstType:
		c.instType(x, e)
	default:
		c.errorf(diag.UnknownType, e.Pos(), "%s is not a type", syntax.ExprString(e))
		x.setInvalid()
	}
	if x.mode != invalid {
		c.recordType(e, x)
	}
}

// typeName resolves a type name.
func (c *Checker) typeName(x *operand, name *syntax.Name) {
	switch obj := c.lookup(name.Value).(type) {
	case nil:
		c.errorf(diag.UnknownType, name.Pos(), "undefined: %s", name.Value)
		x.setInvalid()
	case *types.TypeName:
		c.recordUse(name, obj)
		if cls, ok := obj.Type().(*types.Class); ok && cls.IsGeneric() {
			c.errorf(diag.TypeMismatch, name.Pos(), "generic class %s used without type arguments", cls.Name())
			x.setInvalid()
			return
		}
		x.typ = obj.Type()
	case *types.Bound:
		c.errorf(diag.UnknownType, name.Pos(), "%s is a bound, not a type", name.Value)
		x.setInvalid()
	default:
		c.errorf(diag.UnknownType, name.Pos(), "%s is not a type", name.Value)
		x.setInvalid()
	}
}

// instType resolves a generic class application Base<Args>.
func (c *Checker) instType(x *operand, e *syntax.InstType) {
	obj, _ := c.lookup(e.Base.Value).(*types.TypeName)
	if obj == nil {
		c.errorf(diag.UnknownType, e.Base.Pos(), "undefined: %s", e.Base.Value)
		x.setInvalid()
		return
	}
	c.recordUse(e.Base, obj)
	cls, ok := obj.Type().(*types.Class)
	if !ok || !cls.IsGeneric() {
		c.errorf(diag.TypeMismatch, e.Base.Pos(), "%s is not a generic class", e.Base.Value)
		x.setInvalid()
		return
	}

	targs := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		targs[i] = c.typ(a)
		if types.IsInvalid(targs[i]) {
			x.setInvalid()
			return
		}
	}
	if len(targs) != len(cls.TypeParams()) {
		c.errorf(diag.TypeMismatch, e.Pos(), "wrong number of type arguments for %s: got %d, want %d",
			cls.Name(), len(targs), len(cls.TypeParams()))
		x.setInvalid()
		return
	}
	if !c.checkTypeArgs(e.Pos(), cls.TypeParams(), targs) {
		x.setInvalid()
		return
	}
	x.typ = types.NewInstance(cls, targs)
}

// checkTypeArgs verifies that every type argument is a class type and
// satisfies the bound of its parameter. Bound checks wait until member
// signatures are known.
func (c *Checker) checkTypeArgs(pos syntax.Pos, tparams []*types.TypeParam, targs []types.Type) bool {
	ok := true
	for i, tp := range tparams {
		targ := targs[i]
		if !types.IsReference(targ) {
			c.errorf(diag.TypeMismatch, pos, "type argument %s for %s is not a class", targ, tp)
			ok = false
			continue
		}
		b := tp.Bound()
		switch {
		case b == nil:
		case c.collecting:
			c.later(func() { c.satisfies(pos, targ, b) })
		case !c.satisfies(pos, targ, b):
			ok = false
		}
	}
	return ok
}

// satisfies reports whether typ provides every method of b, reporting
// UnsatisfiedBound otherwise.
func (c *Checker) satisfies(pos syntax.Pos, typ types.Type, b *types.Bound) bool {
	m := c.table.MissingMethod(typ, b)
	if m == nil {
		return true
	}
	if have := c.table.MethodSignature(typ, m.Name()); have != nil {
		c.errorf(diag.UnsatisfiedBound, pos, "%s does not satisfy %s (wrong signature for method %s)\n\thave %s\n\twant %s",
			typ, b.Name(), m.Name(), have, m.Signature())
		return false
	}
	c.errorf(diag.UnsatisfiedBound, pos, "%s does not satisfy %s (missing method %s)", typ, b.Name(), m.Name())
	return false
}
