package types2

import (
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// stmts type-checks a list of statements in the current scope.
func (c *Checker) stmts(list []syntax.Stmt) {
	for _, s := range list {
		if c.errs.Full() {
			return
		}
		c.stmt(s)
	}
}

// stmt type-checks a statement.
func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt:
		// nothing to do

	case *syntax.LetStmt:
		c.letStmt(s)

	case *syntax.AssignStmt:
		c.assignStmt(s)

	case *syntax.ExprStmt:
		var x operand
		c.expr(&x, s.X)
		if x.mode == invalid {
			return
		}
		if _, ok := syntax.Unparen(s.X).(*syntax.CallExpr); !ok {
			c.errorf(diag.TypeMismatch, s.Pos(), "%s is not used", syntax.ExprString(s.X))
		}

	case *syntax.BlockStmt:
		c.openScope(s, s.Rbrace, "block")
		c.stmts(s.Stmts)
		c.closeScope()

	case *syntax.IfStmt:
		c.condition(s.Cond, "if")
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}

	case *syntax.WhileStmt:
		c.condition(s.Cond, "while")
		c.stmt(s.Body)

	case *syntax.ForStmt:
		c.forStmt(s)

	case *syntax.ReturnStmt:
		c.returnStmt(s)

	default:
		c.errorf(diag.TypeMismatch, s.Pos(), "unexpected statement %T", s)
	}
}

// letStmt declares a local. The initializer is checked before the name
// comes into scope.
func (c *Checker) letStmt(s *syntax.LetStmt) {
	typ := c.varType(s.Type)

	var x operand
	c.expr(&x, s.Value)
	if x.mode != invalid && !types.IsInvalid(typ) {
		c.assignment(&x, typ, "let statement")
	}

	c.declare(s.Name, types.NewVar(s.Name.Pos(), s.Name.Value, typ))
}

// assignStmt checks LHS = RHS. Only locals, parameters and fields are
// assignable.
func (c *Checker) assignStmt(s *syntax.AssignStmt) {
	var lhs, rhs operand
	c.expr(&lhs, s.LHS)
	c.expr(&rhs, s.RHS)
	if lhs.mode == invalid {
		return
	}
	if lhs.mode != variable {
		what := "value"
		switch obj := c.assignee(s.LHS).(type) {
		case *types.Var:
			if obj.Kind() == types.RecvVar {
				what = "receiver"
			}
		case *types.Const:
			what = "constant"
		}
		c.errorf(diag.TypeMismatch, s.LHS.Pos(), "cannot assign to %s %s", what, syntax.ExprString(s.LHS))
		return
	}
	if rhs.mode == invalid {
		return
	}
	c.assignment(&rhs, lhs.typ, "assignment")
}

// assignee returns the object named by a plain identifier on the left of
// an assignment, or nil.
func (c *Checker) assignee(e syntax.Expr) types.Object {
	if name, ok := syntax.Unparen(e).(*syntax.Name); ok {
		return c.info.Uses[name]
	}
	return nil
}

// condition checks that e is a boolean expression.
func (c *Checker) condition(e syntax.Expr, stmt string) {
	var x operand
	c.expr(&x, e)
	if !c.singleValue(&x) {
		return
	}
	if !types.IsBool(x.typ) {
		c.errorf(diag.TypeMismatch, e.Pos(), "non-boolean condition in %s statement (type %s)", stmt, x.typ)
	}
}

// forStmt checks for v in [lo, hi] body. The loop variable is an int
// local scoped to the loop.
func (c *Checker) forStmt(s *syntax.ForStmt) {
	for _, e := range []syntax.Expr{s.Range.Start, s.Range.End} {
		var x operand
		c.expr(&x, e)
		if !c.singleValue(&x) {
			continue
		}
		if !types.IsInt(x.typ) {
			c.errorf(diag.TypeMismatch, e.Pos(), "for range bound %s must be int, not %s", x.describe(), x.typ)
		}
	}
	c.recordType(s.Range, &operand{mode: value, typ: types.Typ[types.Int]})

	c.openScope(s, s.Body.Rbrace, "for")
	c.declare(s.Var, types.NewVar(s.Var.Pos(), s.Var.Value, types.Typ[types.Int]))
	c.stmt(s.Body)
	c.closeScope()
}

// returnStmt checks a return against the result of the enclosing
// function.
func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	result := c.funcSig.Result()
	if s.Result == nil {
		if !types.IsVoid(result) {
			c.errorf(diag.TypeMismatch, s.Pos(), "not enough return values\n\thave ()\n\twant (%s)", result)
		}
		return
	}

	var x operand
	c.expr(&x, s.Result)
	if types.IsVoid(result) {
		if x.mode != invalid {
			c.errorf(diag.TypeMismatch, s.Result.Pos(), "too many return values\n\thave (%s)\n\twant ()", x.typ)
		}
		return
	}
	if x.mode == invalid {
		return
	}
	c.assignment(&x, result, "return statement")
}
