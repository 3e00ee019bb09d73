package types2

import (
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// collectObjects registers all top-level declarations with the table and
// creates placeholder objects for functions and constants.
func (c *Checker) collectObjects(decls []syntax.Decl) {
	for _, d := range decls {
		switch d := d.(type) {
		case *syntax.ClassDecl:
			cls, err := c.table.Register(d)
			if err != nil {
				c.report(err)
				continue
			}
			c.info.Defs[d.Name] = cls.Obj()

		case *syntax.BoundDecl:
			b, err := c.table.RegisterBound(d)
			if err != nil {
				c.report(err)
				continue
			}
			c.info.Defs[d.Name] = b

		case *syntax.FuncDecl:
			fn := types.NewFuncObj(d.Name.Pos(), d.Name.Value, d)
			if err := c.table.Declare(fn); err != nil {
				c.report(err)
				continue
			}
			c.info.Defs[d.Name] = fn

		case *syntax.ConstDecl:
			k := types.NewConst(d.Name.Pos(), d.Name.Value, nil, nil)
			if err := c.table.Declare(k); err != nil {
				c.report(err)
				continue
			}
			c.info.Defs[d.Name] = k
			c.constDecls[k] = d
		}
	}
}

// collectTypeParams creates the scope of every class and resolves the
// bounds of its type parameters.
func (c *Checker) collectTypeParams() {
	for _, cls := range c.table.Classes() {
		decl := cls.Decl()
		scope := types.NewScope(c.table.Scope(), decl.Pos(), syntax.NoPos, "class "+cls.Name())
		c.classScopes[cls] = scope
		c.info.Scopes[decl] = scope

		c.scope = scope
		c.declareTypeParams(decl.TParams, cls.TypeParams())
		c.scope = c.table.Scope()
	}
}

// declareTypeParams declares tparams in the current scope and resolves
// their bounds.
func (c *Checker) declareTypeParams(list []*syntax.TypeParam, tparams []*types.TypeParam) {
	for i, tp := range list {
		c.declare(tp.Name, tparams[i].Obj())
		if b := c.bound(tp.Bound); b != nil {
			tparams[i].SetBound(b)
		}
	}
}

// bound resolves the bound named by name. A nil name yields nil.
func (c *Checker) bound(name *syntax.Name) *types.Bound {
	if name == nil {
		return nil
	}
	switch obj := c.table.Scope().Lookup(name.Value).(type) {
	case *types.Bound:
		c.recordUse(name, obj)
		return obj
	case nil:
		c.errorf(diag.UnknownType, name.Pos(), "undefined bound: %s", name.Value)
	default:
		c.errorf(diag.UnknownType, name.Pos(), "%s is not a bound", name.Value)
	}
	return nil
}

// collectBounds resolves the method signatures of every bound.
func (c *Checker) collectBounds() {
	for _, b := range c.table.Bounds() {
		for _, m := range b.Decl().Methods {
			if b.Method(m.Name.Value) != nil {
				c.errorf(diag.DuplicateDeclaration, m.Name.Pos(), "method %s redeclared in bound %s", m.Name.Value, b.Name())
				continue
			}
			if len(m.TParams) > 0 {
				c.errorf(diag.TypeMismatch, m.Name.Pos(), "bound method %s.%s cannot have type parameters", b.Name(), m.Name.Value)
				continue
			}
			fn := types.NewFuncObj(m.Name.Pos(), m.Name.Value, m)
			fn.SetSignature(c.signature(m, c.table.Scope(), nil))
			b.AddMethod(fn)
			c.info.Defs[m.Name] = fn
		}
	}
}

// collectMembers resolves the fields and method signatures of every class.
// Classes are visited ancestors first, so an override can be compared with
// the signature it replaces.
func (c *Checker) collectMembers() {
	for _, cls := range c.table.Order() {
		decl := cls.Decl()
		scope := c.classScopes[cls]
		parent := cls.Parent()

		c.scope = scope
		for _, f := range decl.Fields {
			name := f.Name.Value
			typ := c.varType(f.Type)
			switch {
			case cls.Field(name) != nil:
				c.errorf(diag.DuplicateDeclaration, f.Name.Pos(), "field %s redeclared in class %s", name, cls.Name())
				continue
			case parent != nil && c.table.LookupField(parent, name) != nil:
				owner := c.table.LookupField(parent, name).Owner()
				c.errorf(diag.DuplicateDeclaration, f.Name.Pos(), "field %s redeclares the field inherited from %s", name, owner.Name())
				continue
			case parent != nil && c.table.LookupMethod(parent, name) != nil:
				c.errorf(diag.DuplicateDeclaration, f.Name.Pos(), "field %s conflicts with inherited method %s", name, name)
				continue
			}
			v := types.NewField(f.Name.Pos(), name, typ, cls)
			c.table.AddField(cls, v)
			c.info.Defs[f.Name] = v
		}
		c.scope = c.table.Scope()

		for _, m := range decl.Methods {
			name := m.Name.Value
			if cls.Method(name) != nil {
				c.errorf(diag.DuplicateDeclaration, m.Name.Pos(), "method %s.%s redeclared", cls.Name(), name)
				continue
			}
			if c.table.LookupField(cls, name) != nil {
				c.errorf(diag.DuplicateDeclaration, m.Name.Pos(), "method %s conflicts with field %s", name, name)
				continue
			}
			if len(m.TParams) > 0 {
				c.errorf(diag.TypeMismatch, m.Name.Pos(), "method %s.%s cannot have type parameters", cls.Name(), name)
				continue
			}
			fn := types.NewFuncObj(m.Name.Pos(), name, m)
			c.table.AddMethod(cls, fn)
			fn.SetSignature(c.signature(m, scope, cls))
			c.info.Defs[m.Name] = fn

			if parent == nil {
				continue
			}
			if over := c.table.LookupMethod(parent, name); over != nil {
				if !types.IdenticalSignatures(over.Signature(), fn.Signature()) {
					c.errorf(diag.TypeMismatch, m.Name.Pos(),
						"method %s overrides %s with a different signature\n\thave %s\n\twant %s",
						fn.FullName(), over.FullName(), fn.Signature(), over.Signature())
				}
			}
		}
	}
}

// collectFuncs resolves the signatures of top-level and extern functions.
func (c *Checker) collectFuncs(decls []syntax.Decl) {
	for _, d := range decls {
		d, ok := d.(*syntax.FuncDecl)
		if !ok {
			continue
		}
		fn := c.info.FuncOf(d)
		if fn == nil {
			continue // registration failed
		}
		if d.Extern && len(d.TParams) > 0 {
			c.errorf(diag.TypeMismatch, d.Name.Pos(), "extern function %s cannot have type parameters", d.Name.Value)
		}
		fn.SetSignature(c.signature(d, c.table.Scope(), nil))
	}
}

// signature resolves the signature of decl in a new scope nested in
// outer. For methods, recv is the declaring class and the receiver is
// declared in the new scope too. The scope is recorded for decl and later
// holds the body's top-level locals.
func (c *Checker) signature(decl *syntax.FuncDecl, outer *types.Scope, recv *types.Class) *types.Func {
	old := c.scope
	defer func() { c.scope = old }()

	c.scope = outer
	c.openScope(decl, syntax.NoPos, "function "+decl.Name.Value)

	var tparams []*types.TypeParam
	for i, tp := range decl.TParams {
		tparams = append(tparams, types.NewTypeParam(tp.Name.Pos(), tp.Name.Value, i))
	}
	c.declareTypeParams(decl.TParams, tparams)

	if recv != nil && decl.Recv != nil {
		r := types.NewRecv(decl.Recv.Pos(), decl.Recv.Value, recv)
		r.SetType(selfType(recv))
		c.declare(decl.Recv, r)
	}

	params := make([]*types.Var, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = types.NewParam(p.Name.Pos(), p.Name.Value, c.varType(p.Type), i)
		c.declare(p.Name, params[i])
	}

	var result types.Type
	if decl.Result != nil {
		result = c.typ(decl.Result)
	}
	return types.NewFunc(tparams, params, result)
}

// selfType returns the type of the receiver inside methods of cls. Inside
// a generic class it is the class applied to its own type parameters.
func selfType(cls *types.Class) types.Type {
	if !cls.IsGeneric() {
		return cls
	}
	targs := make([]types.Type, len(cls.TypeParams()))
	for i, tp := range cls.TypeParams() {
		targs[i] = tp
	}
	return types.NewInstance(cls, targs)
}
