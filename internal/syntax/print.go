package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented textual dump of the tree rooted at node.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// section prints label followed by the nodes one level deeper.
func (p *printer) section(label string, nodes ...Node) {
	p.printf("%s:\n", label)
	p.indent++
	for _, n := range nodes {
		p.print(n)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.Filename)
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *ClassDecl:
		p.printf("ClassDecl %s %s%s\n", n.pos, n.Name.Value, tparamString(n.TParams))
		p.indent++
		if n.Parent != nil {
			p.printf("Parent: %s\n", n.Parent.Value)
		}
		for _, f := range n.Fields {
			p.printf("Field: %s %s\n", f.Name.Value, ExprString(f.Type))
		}
		for _, m := range n.Methods {
			p.print(m)
		}
		p.indent--

	case *BoundDecl:
		p.printf("BoundDecl %s %s\n", n.pos, n.Name.Value)
		p.indent++
		for _, m := range n.Methods {
			p.printf("Method: %s\n", SignatureString(m))
		}
		p.indent--

	case *FuncDecl:
		kind := "FuncDecl"
		switch {
		case n.Extern:
			kind = "ExternDecl"
		case n.Recv != nil:
			kind = "MethodDecl"
		}
		p.printf("%s %s %s\n", kind, n.pos, SignatureString(n))
		if n.Body != nil {
			p.indent++
			p.print(n.Body)
			p.indent--
		}

	case *ConstDecl:
		p.printf("ConstDecl %s %s: %s\n", n.pos, n.Name.Value, ExprString(n.Type))
		p.indent++
		p.print(n.Value)
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *LetStmt:
		p.printf("LetStmt %s %s: %s\n", n.pos, n.Name.Value, ExprString(n.Type))
		p.indent++
		p.print(n.Value)
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s\n", n.pos)
		p.indent++
		p.section("LHS", n.LHS)
		p.section("RHS", n.RHS)
		p.indent--

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.section("Cond", n.Cond)
		p.section("Then", n.Then)
		if n.Else != nil {
			p.section("Else", n.Else)
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.section("Cond", n.Cond)
		p.section("Body", n.Body)
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s %s\n", n.pos, n.Var.Value)
		p.indent++
		p.section("Range", n.Range.Start, n.Range.End)
		p.section("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *EmptyStmt:
		p.printf("EmptyStmt %s\n", n.pos)

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
			break
		}
		p.printf("BinaryOp %s %s\n", n.pos, n.Op)
		p.indent++
		p.section("X", n.X)
		p.section("Y", n.Y)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s\n", n.pos)
		p.indent++
		p.section("Fun", n.Fun)
		if len(n.Args) > 0 {
			args := make([]Node, len(n.Args))
			for i, a := range n.Args {
				args[i] = a
			}
			p.section("Args", args...)
		}
		p.indent--

	case *SelectorExpr:
		p.printf("SelectorExpr %s .%s\n", n.pos, n.Sel.Value)
		p.indent++
		p.print(n.X)
		p.indent--

	case *InitExpr:
		p.printf("InitExpr %s %s\n", n.pos, n.Type.Value)
		p.indent++
		for _, e := range n.Elems {
			p.section(e.Key.Value, e.Value)
		}
		p.indent--

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

func tparamString(list []*TypeParam) string {
	if len(list) == 0 {
		return ""
	}
	parts := make([]string, len(list))
	for i, tp := range list {
		parts[i] = tp.Name.Value
		if tp.Bound != nil {
			parts[i] += ": " + tp.Bound.Value
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// SignatureString formats the header of a function or method declaration.
func SignatureString(d *FuncDecl) string {
	var b strings.Builder
	b.WriteString(d.Name.Value)
	b.WriteString(tparamString(d.TParams))
	b.WriteByte('(')
	var params []string
	if d.Recv != nil {
		params = append(params, d.Recv.Value)
	}
	for _, f := range d.Params {
		params = append(params, f.Name.Value+": "+ExprString(f.Type))
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteByte(')')
	if d.Result != nil {
		b.WriteString(": ")
		b.WriteString(ExprString(d.Result))
	}
	return b.String()
}

// ExprString formats an expression or type expression in source form.
// It is used in diagnostics.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		if x.Kind == StringLit {
			fmt.Fprintf(b, "%q", x.Value)
		} else {
			b.WriteString(x.Value)
		}
	case *InstType:
		b.WriteString(x.Base.Value)
		b.WriteByte('<')
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte('>')
	case *Operation:
		if x.Y == nil {
			b.WriteString(x.Op.String())
			writeExpr(b, x.X)
			return
		}
		writeExpr(b, x.X)
		b.WriteString(" " + x.Op.String() + " ")
		writeExpr(b, x.Y)
	case *CallExpr:
		writeExpr(b, x.Fun)
		b.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *SelectorExpr:
		writeExpr(b, x.X)
		b.WriteByte('.')
		b.WriteString(x.Sel.Value)
	case *InitExpr:
		b.WriteString(x.Type.Value)
		b.WriteString(":init(")
		for i, kv := range x.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(kv.Key.Value)
			b.WriteString(": ")
			writeExpr(b, kv.Value)
		}
		b.WriteByte(')')
	case *ParenExpr:
		b.WriteByte('(')
		writeExpr(b, x.X)
		b.WriteByte(')')
	case *RangeExpr:
		b.WriteByte('[')
		writeExpr(b, x.Start)
		b.WriteString(", ")
		writeExpr(b, x.End)
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}
