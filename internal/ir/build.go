package ir

import (
	"fmt"

	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
	"github.com/you-not-fish/kyanite/internal/types2"
)

// builder holds the state for lowering a single function.
type builder struct {
	info    *types2.Info            // type-checker output (read-only)
	layouts *layout.Layouts         // class layouts (read-only)
	fn      *Func                   // current function
	b       *Block                  // current block (nil = unreachable)
	allocas int                     // number of allocas at the start of the entry block
	vars    map[types.Object]*Value // Object → alloca mapping
}

// buildFunc lowers the body of a function or method declaration.
func buildFunc(decl *syntax.FuncDecl, info *types2.Info, layouts *layout.Layouts) *Func {
	obj := info.FuncOf(decl)
	if obj == nil {
		panic(fmt.Sprintf("ir.buildFunc: no object for func %s", decl.Name.Value))
	}
	sig := obj.Signature()

	fn := NewFunc(obj.FullName(), sig)
	fn.Obj = obj

	b := &builder{
		info:    info,
		layouts: layouts,
		fn:      fn,
		b:       fn.Entry,
		vars:    make(map[types.Object]*Value),
	}

	// Receiver: Arg + Alloca + Store, distinguished by AuxInt -1.
	if decl.Recv != nil {
		recv, ok := info.Defs[decl.Recv].(*types.Var)
		if !ok {
			panic(fmt.Sprintf("ir.buildFunc: no receiver object for %s", fn.Name))
		}
		fn.Recv = recv.Type()
		b.param(recv, -1)
	}

	for i := 0; i < sig.NumParams(); i++ {
		b.param(sig.Param(i), int64(i))
	}

	b.stmts(decl.Body.Stmts)

	// Implicit void return at the end of an open block.
	if b.b != nil && !b.b.Terminated() {
		b.b.Kind = BlockReturn
	}
	return fn
}

// param spills an incoming argument into its own slot.
func (b *builder) param(v *types.Var, index int64) {
	arg := b.fn.NewValuePos(b.fn.Entry, OpArg, v.Type(), v.Pos())
	arg.AuxInt = index
	arg.Aux = v.Name()

	alloca := b.entryAlloca(v.Type(), v.Name())
	b.fn.NewValue(b.fn.Entry, OpStore, nil, alloca, arg)
	b.vars[v] = alloca
}

// entryAlloca creates a named slot at the start of the entry block.
func (b *builder) entryAlloca(typ types.Type, name string) *Value {
	entry := b.fn.Entry
	alloca := b.fn.NewValue(entry, OpAlloca, typ)
	alloca.Aux = name

	// NewValue appended it; move it behind the earlier allocas.
	copy(entry.Values[b.allocas+1:], entry.Values[b.allocas:len(entry.Values)-1])
	entry.Values[b.allocas] = alloca
	b.allocas++
	return alloca
}

// local returns the slot of a local, parameter or receiver.
func (b *builder) local(obj types.Object) *Value {
	alloca, ok := b.vars[obj]
	if !ok {
		panic(fmt.Sprintf("ir.builder.local: no slot for %s", obj.Name()))
	}
	return alloca
}

// stmts lowers a list of statements.
func (b *builder) stmts(list []syntax.Stmt) {
	for _, s := range list {
		if b.b == nil {
			// Unreachable code after return.
			break
		}
		b.stmt(s)
	}
}

// stmt dispatches a statement to the appropriate lowering method.
func (b *builder) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt:
		// no-op

	case *syntax.ExprStmt:
		b.expr(s.X)

	case *syntax.LetStmt:
		b.letStmt(s)

	case *syntax.AssignStmt:
		b.assignStmt(s)

	case *syntax.ReturnStmt:
		b.returnStmt(s)

	case *syntax.IfStmt:
		b.ifStmt(s)

	case *syntax.WhileStmt:
		b.whileStmt(s)

	case *syntax.ForStmt:
		b.forStmt(s)

	case *syntax.BlockStmt:
		b.stmts(s.Stmts)

	default:
		panic(fmt.Sprintf("ir.builder.stmt: unhandled %T", s))
	}
}

// letStmt lowers: let x: T = value;
func (b *builder) letStmt(s *syntax.LetStmt) {
	obj := b.info.Defs[s.Name]
	if obj == nil {
		panic(fmt.Sprintf("ir.letStmt: no object for %s", s.Name.Value))
	}
	val := b.expr(s.Value)
	alloca := b.entryAlloca(obj.Type(), s.Name.Value)
	b.vars[obj] = alloca
	b.fn.NewValuePos(b.b, OpStore, nil, s.Pos(), alloca, val)
}

// assignStmt lowers: lhs = rhs; where lhs is a local or a field.
func (b *builder) assignStmt(s *syntax.AssignStmt) {
	switch lhs := syntax.Unparen(s.LHS).(type) {
	case *syntax.Name:
		alloca := b.local(b.info.Uses[lhs])
		val := b.expr(s.RHS)
		b.fn.NewValuePos(b.b, OpStore, nil, s.Pos(), alloca, val)

	case *syntax.SelectorExpr:
		obj := b.expr(lhs.X)
		val := b.expr(s.RHS)
		v := b.fn.NewValuePos(b.b, OpStoreField, nil, s.Pos(), obj, val)
		v.AuxInt = b.fieldOffset(lhs)
		v.Aux = lhs.Sel.Value

	default:
		panic(fmt.Sprintf("ir.assignStmt: cannot assign to %T", lhs))
	}
}

// returnStmt lowers: return [expr];
func (b *builder) returnStmt(s *syntax.ReturnStmt) {
	if s.Result != nil {
		val := b.expr(s.Result)
		// b.b may have changed due to short-circuit evaluation.
		b.b.Kind = BlockReturn
		b.b.SetControl(val)
	} else {
		b.b.Kind = BlockReturn
	}
	b.b = nil
}

// ifStmt lowers: if cond { then } [else ...]
func (b *builder) ifStmt(s *syntax.IfStmt) {
	cond := b.expr(s.Cond)

	bThen := b.fn.NewBlock(BlockPlain)
	bDone := b.fn.NewBlock(BlockPlain)
	bElse := bDone
	if s.Else != nil {
		bElse = b.fn.NewBlock(BlockPlain)
	}

	b.b.Kind = BlockIf
	b.b.SetControl(cond)
	b.b.AddSucc(bThen)
	b.b.AddSucc(bElse)

	b.b = bThen
	b.stmts(s.Then.Stmts)
	if b.b != nil {
		b.b.AddSucc(bDone)
	}

	if s.Else != nil {
		b.b = bElse
		b.stmt(s.Else)
		if b.b != nil {
			b.b.AddSucc(bDone)
		}
	}

	if len(bDone.Preds) > 0 {
		b.b = bDone
	} else {
		// Both branches returned.
		b.fn.removeBlock(bDone)
		b.b = nil
	}
}

// whileStmt lowers: while cond { body }
func (b *builder) whileStmt(s *syntax.WhileStmt) {
	bHeader := b.fn.NewBlock(BlockPlain)
	bBody := b.fn.NewBlock(BlockPlain)
	bExit := b.fn.NewBlock(BlockPlain)

	b.b.AddSucc(bHeader)

	b.b = bHeader
	cond := b.expr(s.Cond)
	b.b.Kind = BlockIf
	b.b.SetControl(cond)
	b.b.AddSucc(bBody)
	b.b.AddSucc(bExit)

	b.b = bBody
	b.stmts(s.Body.Stmts)
	if b.b != nil {
		b.b.AddSucc(bHeader)
	}

	b.b = bExit
}

// forStmt lowers: for i in [start, end] { body }
//
// Both bounds are evaluated once, start first. The loop runs while
// i <= end and increments i after each iteration.
func (b *builder) forStmt(s *syntax.ForStmt) {
	obj := b.info.Defs[s.Var]
	if obj == nil {
		panic(fmt.Sprintf("ir.forStmt: no object for %s", s.Var.Value))
	}
	intType := types.Typ[types.Int]

	start := b.expr(s.Range.Start)
	end := b.expr(s.Range.End)
	iv := b.entryAlloca(intType, s.Var.Value)
	b.vars[obj] = iv
	b.fn.NewValuePos(b.b, OpStore, nil, s.Pos(), iv, start)

	bHeader := b.fn.NewBlock(BlockPlain)
	bBody := b.fn.NewBlock(BlockPlain)
	bExit := b.fn.NewBlock(BlockPlain)

	b.b.AddSucc(bHeader)

	b.b = bHeader
	cur := b.fn.NewValue(bHeader, OpLoad, intType, iv)
	cond := b.fn.NewValue(bHeader, OpLeq64, types.Typ[types.Bool], cur, end)
	bHeader.Kind = BlockIf
	bHeader.SetControl(cond)
	bHeader.AddSucc(bBody)
	bHeader.AddSucc(bExit)

	b.b = bBody
	b.stmts(s.Body.Stmts)
	if b.b != nil {
		next := b.fn.NewValue(b.b, OpLoad, intType, iv)
		one := b.fn.NewValue(b.b, OpConst64, intType)
		one.AuxInt = 1
		inc := b.fn.NewValue(b.b, OpAdd64, intType, next, one)
		b.fn.NewValue(b.b, OpStore, nil, iv, inc)
		b.b.AddSucc(bHeader)
	}

	b.b = bExit
}
