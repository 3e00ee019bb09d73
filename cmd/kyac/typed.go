package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types2"
)

// printTypedAST outputs the declarations of file with type annotations.
func printTypedAST(w io.Writer, file *syntax.File, info *types2.Info) {
	fmt.Fprintf(w, "File %s\n", file.Filename)
	for _, decl := range file.Decls {
		printTypedDecl(w, decl, info, "  ")
	}
}

func printTypedDecl(w io.Writer, decl syntax.Decl, info *types2.Info, indent string) {
	switch d := decl.(type) {
	case *syntax.ClassDecl:
		fmt.Fprintf(w, "%sClassDecl %s\n", indent, objString(d.Name, info))
		for _, f := range d.Fields {
			fmt.Fprintf(w, "%s  Field %s\n", indent, objString(f.Name, info))
		}
		for _, m := range d.Methods {
			printTypedDecl(w, m, info, indent+"  ")
		}

	case *syntax.BoundDecl:
		fmt.Fprintf(w, "%sBoundDecl %s\n", indent, objString(d.Name, info))
		for _, m := range d.Methods {
			fmt.Fprintf(w, "%s  Method %s\n", indent, syntax.SignatureString(m))
		}

	case *syntax.FuncDecl:
		kind := "FuncDecl"
		switch {
		case d.Extern:
			kind = "ExternDecl"
		case d.Recv != nil:
			kind = "MethodDecl"
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, kind, objString(d.Name, info))
		if d.Body != nil {
			for _, s := range d.Body.Stmts {
				printTypedStmt(w, s, info, indent+"  ")
			}
		}

	case *syntax.ConstDecl:
		fmt.Fprintf(w, "%sConstDecl %s = %s\n", indent, objString(d.Name, info), typedExprString(d.Value, info))
	}
}

func printTypedStmt(w io.Writer, stmt syntax.Stmt, info *types2.Info, indent string) {
	switch s := stmt.(type) {
	case *syntax.LetStmt:
		fmt.Fprintf(w, "%sLetStmt %s = %s\n", indent, objString(s.Name, info), typedExprString(s.Value, info))

	case *syntax.AssignStmt:
		fmt.Fprintf(w, "%sAssignStmt %s = %s\n", indent, typedExprString(s.LHS, info), typedExprString(s.RHS, info))

	case *syntax.ExprStmt:
		fmt.Fprintf(w, "%sExprStmt %s\n", indent, typedExprString(s.X, info))

	case *syntax.ReturnStmt:
		if s.Result == nil {
			fmt.Fprintf(w, "%sReturnStmt\n", indent)
			return
		}
		fmt.Fprintf(w, "%sReturnStmt %s\n", indent, typedExprString(s.Result, info))

	case *syntax.BlockStmt:
		fmt.Fprintf(w, "%sBlockStmt\n", indent)
		for _, st := range s.Stmts {
			printTypedStmt(w, st, info, indent+"  ")
		}

	case *syntax.IfStmt:
		fmt.Fprintf(w, "%sIfStmt %s\n", indent, typedExprString(s.Cond, info))
		printTypedStmt(w, s.Then, info, indent+"  ")
		if s.Else != nil {
			fmt.Fprintf(w, "%sElse\n", indent)
			printTypedStmt(w, s.Else, info, indent+"  ")
		}

	case *syntax.WhileStmt:
		fmt.Fprintf(w, "%sWhileStmt %s\n", indent, typedExprString(s.Cond, info))
		printTypedStmt(w, s.Body, info, indent+"  ")

	case *syntax.ForStmt:
		fmt.Fprintf(w, "%sForStmt %s in [%s, %s]\n", indent, objString(s.Var, info),
			typedExprString(s.Range.Start, info), typedExprString(s.Range.End, info))
		printTypedStmt(w, s.Body, info, indent+"  ")

	default:
		fmt.Fprintf(w, "%s%T\n", indent, stmt)
	}
}

// objString formats a declared name with the type of its object.
func objString(name *syntax.Name, info *types2.Info) string {
	if obj := info.Defs[name]; obj != nil && obj.Type() != nil {
		return fmt.Sprintf("%s (%s)", name.Value, obj.Type())
	}
	return name.Value
}

func typedExprString(expr syntax.Expr, info *types2.Info) string {
	tv, ok := info.Types[expr]
	typ := ""
	if ok {
		switch {
		case tv.IsVoid():
			typ = " (void)"
		case tv.Type != nil:
			typ = fmt.Sprintf(" (%s)", tv.Type)
		}
	}

	switch e := expr.(type) {
	case *syntax.Name:
		return fmt.Sprintf("Name %q%s", e.Value, typ)
	case *syntax.BasicLit:
		return fmt.Sprintf("BasicLit %q%s", e.Value, typ)
	case *syntax.Operation:
		if e.Y == nil {
			return fmt.Sprintf("Operation %s%s [X=%s]", e.Op, typ, typedExprString(e.X, info))
		}
		return fmt.Sprintf("Operation %s%s [X=%s, Y=%s]", e.Op, typ, typedExprString(e.X, info), typedExprString(e.Y, info))
	case *syntax.CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = typedExprString(arg, info)
		}
		kind := ""
		if ci := info.Calls[e]; ci != nil {
			kind = " " + ci.Kind.String()
		}
		return fmt.Sprintf("CallExpr%s%s [Fun=%s, Args=[%s]]", kind, typ, typedExprString(e.Fun, info), strings.Join(args, ", "))
	case *syntax.SelectorExpr:
		return fmt.Sprintf("SelectorExpr .%s%s [X=%s]", e.Sel.Value, typ, typedExprString(e.X, info))
	case *syntax.ParenExpr:
		return fmt.Sprintf("ParenExpr%s [X=%s]", typ, typedExprString(e.X, info))
	case *syntax.InitExpr:
		elems := make([]string, len(e.Elems))
		for i, kv := range e.Elems {
			elems[i] = kv.Key.Value + ": " + typedExprString(kv.Value, info)
		}
		return fmt.Sprintf("InitExpr%s [%s]", typ, strings.Join(elems, ", "))
	default:
		return fmt.Sprintf("%T%s", expr, typ)
	}
}
