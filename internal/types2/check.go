package types2

import (
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// Checker is the type checker.
type Checker struct {
	conf  *Config
	info  *Info
	table *types.Table
	errs  diag.List

	// Current checking context
	scope *types.Scope // current scope

	// Function context
	fn      *types.FuncObj // current function or method
	funcSig *types.Func    // current function signature

	// Declaration state keyed by object. Lifecycle: allocated per Check
	// invocation and used only while checking one file.
	classScopes map[*types.Class]*types.Scope
	constDecls  map[*types.Const]*syntax.ConstDecl
	constState  map[*types.Const]int

	// Checks that need every member signature, queued while collecting.
	delayed    []func()
	collecting bool
}

// checkFile type-checks a single file.
func (c *Checker) checkFile(file *syntax.File) {
	c.scope = c.table.Scope()
	c.info.Scopes[file] = c.scope

	// Phase 1: Register every top-level name. Table errors stop here.
	c.collectObjects(file.Decls)
	if c.failed() {
		return
	}

	// Phase 2: Resolve parents and reject inheritance cycles.
	if err := c.table.Link(); err != nil {
		c.report(err)
		return
	}

	// Phase 3: Resolve bounds, class members and function signatures.
	c.collecting = true
	c.collectTypeParams()
	c.collectBounds()
	c.collectMembers()
	c.collectFuncs(file.Decls)
	c.collecting = false
	c.processDelayed()
	if c.failed() {
		return
	}
	c.table.Seal()

	// Phase 4: Constants.
	for _, d := range file.Decls {
		if d, ok := d.(*syntax.ConstDecl); ok {
			c.constDecl(c.info.Defs[d.Name].(*types.Const))
		}
	}

	// Phase 5: Method and function bodies.
	for _, d := range file.Decls {
		if c.errs.Full() {
			return
		}
		switch d := d.(type) {
		case *syntax.ClassDecl:
			for _, m := range d.Methods {
				c.funcBody(m)
			}
		case *syntax.FuncDecl:
			c.funcBody(d)
		}
	}
}

// later queues f until every member signature is known. Outside of the
// collection phase f runs at once.
func (c *Checker) later(f func()) {
	if c.collecting {
		c.delayed = append(c.delayed, f)
		return
	}
	f()
}

func (c *Checker) processDelayed() {
	for i := 0; i < len(c.delayed); i++ {
		c.delayed[i]()
	}
	c.delayed = nil
}

// openScope creates a new scope as a child of the current scope.
func (c *Checker) openScope(n syntax.Node, end syntax.Pos, comment string) *types.Scope {
	s := types.NewScope(c.scope, n.Pos(), end, comment)
	c.scope = s
	c.info.Scopes[n] = s
	return s
}

// closeScope returns to the parent scope.
func (c *Checker) closeScope() {
	c.scope = c.scope.Parent()
}

// lookup looks up a name in the current scope chain.
func (c *Checker) lookup(name string) types.Object {
	obj, _ := c.scope.LookupParent(name)
	return obj
}

// declare declares an object in the current scope.
// Reports an error if the name is already declared in that scope.
func (c *Checker) declare(name *syntax.Name, obj types.Object) {
	if existing := c.scope.Insert(obj); existing != nil {
		c.errorf(diag.DuplicateDeclaration, name.Pos(), "%s redeclared in this block", name.Value)
		return
	}
	c.info.Defs[name] = obj
}

// recordType records the type information for an expression.
func (c *Checker) recordType(e syntax.Expr, x *operand) {
	c.info.Types[e] = TypeAndValue{
		Type:  x.typ,
		Value: x.val,
		mode:  x.mode,
	}
}

// recordUse records a use of an object.
func (c *Checker) recordUse(name *syntax.Name, obj types.Object) {
	c.info.Uses[name] = obj
}
