package types2

import (
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// constant declaration states
const (
	constUnchecked = iota
	constChecking
	constDone
)

// constDecl type-checks and folds the initializer of k. Constants may
// refer to constants declared later; cycles are reported.
func (c *Checker) constDecl(k *types.Const) {
	switch c.constState[k] {
	case constDone:
		return
	case constChecking:
		c.errorf(diag.TypeMismatch, k.Pos(), "initialization cycle for constant %s", k.Name())
		return
	}
	c.constState[k] = constChecking
	defer func() { c.constState[k] = constDone }()

	old := c.scope
	c.scope = c.table.Scope()
	defer func() { c.scope = old }()

	decl := c.constDecls[k]
	typ := c.varType(decl.Type)
	if !types.IsInvalid(typ) && !types.IsBasic(typ, 0) {
		c.errorf(diag.TypeMismatch, decl.Type.Pos(), "invalid constant type %s", typ)
		return
	}

	var x operand
	c.expr(&x, decl.Value)
	if x.mode == invalid || types.IsInvalid(typ) {
		return
	}
	if x.mode != constant_ {
		c.errorf(diag.TypeMismatch, x.pos, "%s is not constant", x.describe())
		return
	}
	if !c.assignment(&x, typ, "constant declaration") {
		return
	}
	k.SetVal(typ, x.val)
}

// funcBody type-checks the body of a function or method.
func (c *Checker) funcBody(decl *syntax.FuncDecl) {
	if decl.Body == nil {
		return // extern or bound method
	}
	fn := c.info.FuncOf(decl)
	if fn == nil || fn.Signature() == nil {
		return
	}

	// Save function context
	oldScope, oldFn, oldSig := c.scope, c.fn, c.funcSig
	c.scope = c.info.Scopes[decl]
	c.fn = fn
	c.funcSig = fn.Signature()
	c.info.Scopes[decl.Body] = c.scope

	c.stmts(decl.Body.Stmts)

	if !types.IsVoid(c.funcSig.Result()) && !c.blockMustReturn(decl.Body.Stmts) {
		c.errorf(diag.TypeMismatch, decl.Body.Rbrace, "missing return statement in %s", fn.FullName())
	}

	// Restore function context
	c.scope, c.fn, c.funcSig = oldScope, oldFn, oldSig
}

// blockMustReturn reports whether all control-flow paths in this statement
// list return. Loops are treated as potentially non-terminating paths.
func (c *Checker) blockMustReturn(stmts []syntax.Stmt) bool {
	for _, s := range stmts {
		if c.stmtMustReturn(s) {
			return true
		}
	}
	return false
}

func (c *Checker) stmtMustReturn(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.BlockStmt:
		return c.blockMustReturn(s.Stmts)
	case *syntax.IfStmt:
		if s.Else == nil {
			return false
		}
		return c.blockMustReturn(s.Then.Stmts) && c.stmtMustReturn(s.Else)
	}
	return false
}
