package syntax

import (
	"bytes"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseFile(t *testing.T, src string) *File {
	t.Helper()
	f, errs := parseFileWithErrors(t, src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors:\n%s", strings.Join(errs, "\n"))
	}
	return f
}

func parseFileWithErrors(t *testing.T, src string) (*File, []string) {
	t.Helper()
	var errs []string
	errh := func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	}
	p := NewParser("test.kya", strings.NewReader(src), errh)
	return p.Parse(), errs
}

// parseBody parses src as the body of a function and returns its statements.
func parseBody(t *testing.T, body string) []Stmt {
	t.Helper()
	f := parseFile(t, "fun main() {\n"+body+"\n}")
	return f.Funcs()[0].Body.Stmts
}

// parseExpr parses src as an expression statement.
func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	stmts := parseBody(t, src+";")
	es, ok := stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("got %T, want *ExprStmt", stmts[0])
	}
	return es.X
}

// ----------------------------------------------------------------------------
// Declarations

func TestParseClass(t *testing.T) {
	f := parseFile(t, `
class Y : X {
	y: int,
	other: X
	fun get(self): int { return self.y; }
	fun set(self, v: int) { self.y = v; }
}`)
	classes := f.Classes()
	if len(classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(classes))
	}
	c := classes[0]
	if c.Name.Value != "Y" || c.Parent == nil || c.Parent.Value != "X" {
		t.Errorf("class header = %s : %v", c.Name.Value, c.Parent)
	}
	if len(c.Fields) != 2 || c.Fields[0].Name.Value != "y" || ExprString(c.Fields[1].Type) != "X" {
		t.Errorf("fields parsed wrong: %d", len(c.Fields))
	}
	if len(c.Methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(c.Methods))
	}
	get := c.Methods[0]
	if get.Recv == nil || get.Recv.Value != "self" || len(get.Params) != 0 || ExprString(get.Result) != "int" {
		t.Errorf("get = %s", SignatureString(get))
	}
	if set := c.Methods[1]; len(set.Params) != 1 || set.Result != nil {
		t.Errorf("set = %s", SignatureString(set))
	}
}

func TestParseGenericClassAndBound(t *testing.T) {
	f := parseFile(t, `
bound Shape {
	fun area(self): int;
	fun scale(self, k: int): Shape;
}
class Box<T: Shape, U> {
	item: T,
	pair: Pair<T, U>
}`)
	b, ok := f.Decls[0].(*BoundDecl)
	if !ok {
		t.Fatalf("decl 0 = %T, want *BoundDecl", f.Decls[0])
	}
	if len(b.Methods) != 2 || b.Methods[1].Recv == nil || b.Methods[1].Body != nil {
		t.Errorf("bound methods parsed wrong")
	}
	c := f.Decls[1].(*ClassDecl)
	if len(c.TParams) != 2 || c.TParams[0].Bound.Value != "Shape" || c.TParams[1].Bound != nil {
		t.Errorf("type params parsed wrong")
	}
	if got := ExprString(c.Fields[1].Type); got != "Pair<T, U>" {
		t.Errorf("field type = %q, want Pair<T, U>", got)
	}
}

func TestParseFuncExternConst(t *testing.T) {
	f := parseFile(t, `
extern fun println(s: str);
const LIMIT: int = 10;
fun speak<T: Speaker>(x: T, n: int): str { return x.say(n); }
`)
	if len(f.Decls) != 3 {
		t.Fatalf("got %d decls, want 3", len(f.Decls))
	}
	ext := f.Decls[0].(*FuncDecl)
	if !ext.Extern || ext.Body != nil || ext.Recv != nil {
		t.Errorf("extern parsed wrong: %s", SignatureString(ext))
	}
	c := f.Decls[1].(*ConstDecl)
	if c.Name.Value != "LIMIT" || ExprString(c.Value) != "10" {
		t.Errorf("const parsed wrong")
	}
	fn := f.Decls[2].(*FuncDecl)
	if got := SignatureString(fn); got != "speak<T: Speaker>(x: T, n: int): str" {
		t.Errorf("signature = %q", got)
	}
}

// ----------------------------------------------------------------------------
// Statements and expressions

func TestParseStatements(t *testing.T) {
	stmts := parseBody(t, `
let x: int = 1;
x = x + 1;
a.b = 3;
if x < 2 { return; } else if x > 5 { x = 0; } else { }
while x != 0 { x = x - 1; }
for i in [0, 10] { println(i); }
return x;
`)
	want := []string{"*syntax.LetStmt", "*syntax.AssignStmt", "*syntax.AssignStmt",
		"*syntax.IfStmt", "*syntax.WhileStmt", "*syntax.ForStmt", "*syntax.ReturnStmt"}
	if len(stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(stmts), len(want))
	}
	for i, s := range stmts {
		if got := typeName(s); got != want[i] {
			t.Errorf("stmt %d = %s, want %s", i, got, want[i])
		}
	}
	ifs := stmts[3].(*IfStmt)
	if _, ok := ifs.Else.(*IfStmt); !ok {
		t.Errorf("else-if parsed as %T", ifs.Else)
	}
	fs := stmts[5].(*ForStmt)
	if fs.Var.Value != "i" || ExprString(fs.Range) != "[0, 10]" {
		t.Errorf("for header = %s in %s", fs.Var.Value, ExprString(fs.Range))
	}
}

func typeName(x interface{}) string {
	switch x.(type) {
	case *LetStmt:
		return "*syntax.LetStmt"
	case *AssignStmt:
		return "*syntax.AssignStmt"
	case *IfStmt:
		return "*syntax.IfStmt"
	case *WhileStmt:
		return "*syntax.WhileStmt"
	case *ForStmt:
		return "*syntax.ForStmt"
	case *ReturnStmt:
		return "*syntax.ReturnStmt"
	case *ExprStmt:
		return "*syntax.ExprStmt"
	}
	return "?"
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string // fully parenthesized
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a * b + c", "((a * b) + c)"},
		{"a - b - c", "((a - b) - c)"},
		{"a < b == c < d", "((a < b) == (c < d))"},
		{"a || b && c", "(a || (b && c))"},
		{"-a * b", "(-a * b)"},
		{"!a == b", "(!a == b)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := paren(parseExpr(t, tt.src)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// paren prints binary operations with explicit grouping.
func paren(e Expr) string {
	op, ok := e.(*Operation)
	if !ok {
		return ExprString(e)
	}
	if op.Y == nil {
		return op.Op.String() + paren(op.X)
	}
	return "(" + paren(op.X) + " " + op.Op.String() + " " + paren(op.Y) + ")"
}

func TestParseAccessChainsAndInit(t *testing.T) {
	call, ok := parseExpr(t, "a.b.c(1, x)").(*CallExpr)
	if !ok {
		t.Fatal("expected *CallExpr")
	}
	sel, ok := call.Fun.(*SelectorExpr)
	if !ok || sel.Sel.Value != "c" || ExprString(sel.X) != "a.b" || len(call.Args) != 2 {
		t.Errorf("method call parsed wrong: %s", ExprString(call))
	}

	init, ok := parseExpr(t, "Y:init(y: 6, x: X:init(x: 2))").(*InitExpr)
	if !ok {
		t.Fatal("expected *InitExpr")
	}
	if init.Type.Value != "Y" || len(init.Elems) != 2 || init.Elems[0].Key.Value != "y" {
		t.Errorf("init parsed wrong: %s", ExprString(init))
	}
	if _, ok := init.Elems[1].Value.(*InitExpr); !ok {
		t.Errorf("nested init parsed as %T", init.Elems[1].Value)
	}

	chained := parseExpr(t, "Y:init(y: 1).y")
	if s, ok := chained.(*SelectorExpr); !ok || s.Sel.Value != "y" {
		t.Errorf("selector on init parsed as %T", chained)
	}
}

// ----------------------------------------------------------------------------
// Errors

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing_semi", "fun f() { let x: int = 1 }", "expected ;"},
		{"bad_toplevel", "let x: int = 1;", "expected class, bound, fun, extern or const"},
		{"method_without_receiver", "class A { fun m() { } }", "must declare a receiver"},
		{"typed_receiver", "class A { fun m(self: A) { } }", "must not have a type"},
		{"let_without_type", "fun f() { let x = 1; }", "expected :"},
		{"bad_operand", "fun f() { x = ; }", "expected expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parseFileWithErrors(t, tt.src)
			if len(errs) == 0 {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(errs[0], tt.want) {
				t.Errorf("first error = %q, want substring %q", errs[0], tt.want)
			}
		})
	}
}

func TestParseErrorLimit(t *testing.T) {
	src := strings.Repeat("let ", 50)
	_, errs := parseFileWithErrors(t, src)
	if len(errs) > maxErrors+1 {
		t.Errorf("got %d errors, want at most %d", len(errs), maxErrors+1)
	}
	if !strings.Contains(errs[len(errs)-1], "too many errors") {
		t.Errorf("last error = %q, want abort message", errs[len(errs)-1])
	}
}

func TestFprint(t *testing.T) {
	f := parseFile(t, "class A { x: int fun get(self): int { return self.x; } }")
	var buf bytes.Buffer
	Fprint(&buf, f)
	out := buf.String()
	for _, want := range []string{"ClassDecl", "Field: x int", "MethodDecl", "get(self): int", "SelectorExpr", ".x"} {
		if !strings.Contains(out, want) {
			t.Errorf("Fprint output missing %q:\n%s", want, out)
		}
	}
}

func TestWalkVisitsInitElems(t *testing.T) {
	f := parseFile(t, "fun f() { let y: Y = Y:init(x: 1, y: g(2)); }")
	var names []string
	Inspect(f, func(n Node) bool {
		if n, ok := n.(*Name); ok {
			names = append(names, n.Value)
		}
		return true
	})
	got := strings.Join(names, " ")
	if got != "f y Y Y x y g" {
		t.Errorf("visited names = %q", got)
	}
}
