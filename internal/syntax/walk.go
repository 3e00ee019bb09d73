package syntax

// Visitor is called for each node during Walk. Returning false skips the
// node's children.
type Visitor func(node Node) bool

// Walk traverses the tree rooted at node in depth-first order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *ClassDecl:
		Walk(n.Name, v)
		for _, tp := range n.TParams {
			Walk(tp, v)
		}
		if n.Parent != nil {
			Walk(n.Parent, v)
		}
		for _, f := range n.Fields {
			Walk(f, v)
		}
		for _, m := range n.Methods {
			Walk(m, v)
		}

	case *BoundDecl:
		Walk(n.Name, v)
		for _, m := range n.Methods {
			Walk(m, v)
		}

	case *FuncDecl:
		if n.Recv != nil {
			Walk(n.Recv, v)
		}
		Walk(n.Name, v)
		for _, tp := range n.TParams {
			Walk(tp, v)
		}
		for _, f := range n.Params {
			Walk(f, v)
		}
		if n.Result != nil {
			Walk(n.Result, v)
		}
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *ConstDecl:
		Walk(n.Name, v)
		Walk(n.Type, v)
		Walk(n.Value, v)

	case *TypeParam:
		Walk(n.Name, v)
		if n.Bound != nil {
			Walk(n.Bound, v)
		}

	case *Field:
		Walk(n.Name, v)
		Walk(n.Type, v)

	case *InstType:
		Walk(n.Base, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *LetStmt:
		Walk(n.Name, v)
		Walk(n.Type, v)
		Walk(n.Value, v)

	case *AssignStmt:
		Walk(n.LHS, v)
		Walk(n.RHS, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ForStmt:
		Walk(n.Var, v)
		Walk(n.Range, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *Operation:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *SelectorExpr:
		Walk(n.X, v)
		Walk(n.Sel, v)

	case *InitExpr:
		Walk(n.Type, v)
		for _, e := range n.Elems {
			Walk(e, v)
		}

	case *KeyValueExpr:
		Walk(n.Key, v)
		Walk(n.Value, v)

	case *ParenExpr:
		Walk(n.X, v)

	case *RangeExpr:
		Walk(n.Start, v)
		Walk(n.End, v)

		// Name, BasicLit, EmptyStmt: leaves
	}
}

// Inspect calls f for each node of the tree rooted at node.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
