package types2

import (
	"strings"

	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// call type-checks a function or method call.
func (c *Checker) call(x *operand, e *syntax.CallExpr) {
	switch fun := e.Fun.(type) {
	case *syntax.Name:
		c.funcCall(x, e, fun)
	case *syntax.SelectorExpr:
		c.methodCall(x, e, fun)
	default:
		c.errorf(diag.TypeMismatch, e.Pos(), "cannot call %s", syntax.ExprString(e.Fun))
		c.useArgs(e.Args)
	}
}

// funcCall checks a call of a top-level or extern function.
func (c *Checker) funcCall(x *operand, e *syntax.CallExpr, name *syntax.Name) {
	obj := c.lookup(name.Value)
	fn, ok := obj.(*types.FuncObj)
	if !ok {
		if obj == nil {
			c.errorf(diag.UnknownMethod, name.Pos(), "undefined function: %s", name.Value)
		} else {
			c.errorf(diag.TypeMismatch, name.Pos(), "cannot call non-function %s", name.Value)
		}
		c.useArgs(e.Args)
		return
	}
	c.recordUse(name, fn)

	args, ok := c.args(e.Args)
	if !ok {
		return
	}

	sig := fn.Signature()
	var targs []types.Type
	if tparams := sig.TypeParams(); len(tparams) > 0 {
		if targs = c.infer(e.Pos(), fn.Name(), tparams, paramTypes(sig), args); targs == nil {
			return
		}
		sig = types.SubstSignature(sig, tparams, targs)
	}
	if !c.arguments(e, fn, sig, args) {
		return
	}

	c.info.Calls[e] = &CallInfo{Kind: CallDirect, Callee: fn, TypeArgs: targs, Sig: sig}
	x.setValue(sig.Result())
}

// methodCall checks a call X.m(args). The call is virtual when the
// hierarchy of the receiver's class holds more than one m, and goes
// through the bound when X is typed by a type parameter.
func (c *Checker) methodCall(x *operand, e *syntax.CallExpr, sel *syntax.SelectorExpr) {
	var recv operand
	c.expr(&recv, sel.X)
	if !c.singleValue(&recv) {
		c.useArgs(e.Args)
		return
	}
	name := sel.Sel.Value

	var (
		kind   CallKind
		callee *types.FuncObj
		sig    *types.Func
	)
	switch t := recv.typ.(type) {
	case *types.Class:
		if callee = c.table.LookupMethod(t, name); callee != nil {
			kind, sig = c.dispatch(t, name), callee.Signature()
		}
	case *types.Instance:
		if callee = c.table.LookupMethod(t.Origin(), name); callee != nil {
			kind = c.dispatch(t.Origin(), name)
			sig = types.SubstSignature(callee.Signature(), t.Origin().TypeParams(), t.TypeArgs())
		}
	case *types.TypeParam:
		b := t.Bound()
		if b == nil {
			c.errorf(diag.UnsatisfiedBound, sel.Sel.Pos(), "cannot call method %s on %s: type parameter %s has no bound", name, recv.describe(), t)
			c.useArgs(e.Args)
			return
		}
		if callee = b.Method(name); callee == nil {
			c.errorf(diag.UnsatisfiedBound, sel.Sel.Pos(), "cannot call method %s on %s: bound %s of %s has no method %s", name, recv.describe(), b.Name(), t, name)
			c.useArgs(e.Args)
			return
		}
		kind, sig = CallBound, callee.Signature()
	default:
		c.errorf(diag.UnknownMethod, sel.Sel.Pos(), "%s.%s undefined (type %s has no methods)", recv.describe(), name, recv.typ)
		c.useArgs(e.Args)
		return
	}
	if callee == nil {
		c.errorf(diag.UnknownMethod, sel.Sel.Pos(), "%s.%s undefined (type %s has no method %s)", recv.describe(), name, recv.typ, name)
		c.useArgs(e.Args)
		return
	}
	c.recordUse(sel.Sel, callee)

	args, ok := c.args(e.Args)
	if !ok || !c.arguments(e, callee, sig, args) {
		return
	}

	c.info.Calls[e] = &CallInfo{Kind: kind, Callee: callee, Recv: recv.typ, Sig: sig}
	x.setValue(sig.Result())
}

// dispatch classifies a call of method name through a value of class cls.
func (c *Checker) dispatch(cls *types.Class, name string) CallKind {
	if len(c.table.Implementations(cls, name)) > 1 {
		return CallVirtual
	}
	return CallDirect
}

// args evaluates call arguments. It reports false if any is invalid.
func (c *Checker) args(list []syntax.Expr) ([]*operand, bool) {
	ok := true
	args := make([]*operand, len(list))
	for i, e := range list {
		args[i] = new(operand)
		c.expr(args[i], e)
		if !c.singleValue(args[i]) {
			ok = false
		}
	}
	return args, ok
}

// useArgs evaluates arguments of a call that failed to resolve so that
// errors inside them are still reported.
func (c *Checker) useArgs(list []syntax.Expr) {
	c.args(list)
}

// arguments checks args against the parameters of sig.
func (c *Checker) arguments(e *syntax.CallExpr, fn *types.FuncObj, sig *types.Func, args []*operand) bool {
	if len(args) != sig.NumParams() {
		msg := "not enough"
		if len(args) > sig.NumParams() {
			msg = "too many"
		}
		c.errorf(diag.TypeMismatch, e.Pos(), "%s arguments in call to %s\n\thave (%s)\n\twant %s",
			msg, fn.FullName(), operandTypes(args), sig)
		return false
	}
	ok := true
	for i, a := range args {
		if !c.assignment(a, sig.Param(i).Type(), "argument to "+fn.FullName()) {
			ok = false
		}
	}
	return ok
}

// infer determines the type arguments of a generic function or class from
// the types of the operands bound to params. It reports an error and
// returns nil when inference fails or a bound is not satisfied.
func (c *Checker) infer(pos syntax.Pos, what string, tparams []*types.TypeParam, params []types.Type, args []*operand) []types.Type {
	targs := make([]types.Type, len(tparams))
	for i, p := range params {
		if i >= len(args) {
			break
		}
		if tp, prev := unify(tparams, targs, p, args[i].typ); tp != nil {
			c.errorf(diag.TypeMismatch, args[i].pos, "conflicting types for %s in %s: %s and %s", tp, what, prev, args[i].typ)
			return nil
		}
	}
	for i, tp := range tparams {
		if targs[i] == nil {
			c.errorf(diag.TypeMismatch, pos, "cannot infer %s in %s", tp, what)
			return nil
		}
	}
	if !c.checkTypeArgs(pos, tparams, targs) {
		return nil
	}
	return targs
}

// unify matches parameter type p against argument type a, recording the
// type argument of every type parameter in tparams that p mentions. On a
// conflict it returns the parameter and its earlier argument.
func unify(tparams []*types.TypeParam, targs []types.Type, p, a types.Type) (*types.TypeParam, types.Type) {
	switch p := p.(type) {
	case *types.TypeParam:
		i := p.Index()
		if i >= len(tparams) || tparams[i] != p {
			return nil, nil // not being inferred
		}
		if targs[i] == nil {
			targs[i] = a
			return nil, nil
		}
		if !types.Identical(targs[i], a) {
			return p, targs[i]
		}
	case *types.Instance:
		inst, ok := a.(*types.Instance)
		if !ok || inst.Origin() != p.Origin() {
			return nil, nil
		}
		for i, pa := range p.TypeArgs() {
			if tp, prev := unify(tparams, targs, pa, inst.TypeArgs()[i]); tp != nil {
				return tp, prev
			}
		}
	}
	return nil, nil
}

func paramTypes(sig *types.Func) []types.Type {
	list := make([]types.Type, sig.NumParams())
	for i, p := range sig.Params() {
		list[i] = p.Type()
	}
	return list
}

func operandTypes(args []*operand) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.typ.String()
	}
	return strings.Join(parts, ", ")
}
