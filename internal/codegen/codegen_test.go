package codegen

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	lir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	ltypes "github.com/llir/llvm/ir/types"

	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/rtabi"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
	"github.com/you-not-fish/kyanite/internal/types2"
)

const prelude = `
extern fun println(s: str);
extern fun print_int(n: int);
`

const dispatchSource = prelude + `
class A {
	fun shout(self): str { return "a"; }
	fun once(self): int { return 1; }
}
class B : A {
	fun shout(self): str { return "b"; }
}
class D : B {
	v: int,
	w: A
	fun shout(self): str { return "d"; }
}
fun main() {
	let a: A = D:init(v: 7, w: A:init());
	println(a.shout());
	print_int(a.once());
}
`

// lower runs the middle end on src with IR verification enabled.
func lower(t *testing.T, src string) *ir.Program {
	t.Helper()
	p := syntax.NewParser("test.kya", strings.NewReader(src), nil)
	file := p.Parse()
	if err := p.FirstError(); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	info := &types2.Info{}
	table, err := types2.Check(file, nil, info)
	if err != nil {
		t.Fatalf("type errors:\n%v", err)
	}
	layouts := layout.Build(table, types.DefaultSizes)
	prog, err := ir.Generate(context.Background(), file, info, layouts, &ir.Config{Verify: true})
	if err != nil {
		t.Fatalf("ir.Generate: %v", err)
	}
	return prog
}

// generate lowers src into an LLVM module.
func generate(t *testing.T, src string) *lir.Module {
	t.Helper()
	m, err := Generate(lower(t, src), "test.kya")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return m
}

func findFunc(t *testing.T, m *lir.Module, name string) *lir.Func {
	t.Helper()
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

func findGlobal(t *testing.T, m *lir.Module, name string) *lir.Global {
	t.Helper()
	for _, g := range m.Globals {
		if g.Name() == name {
			return g
		}
	}
	t.Fatalf("global %q not found", name)
	return nil
}

// insts returns the instructions of f in block order.
func insts(f *lir.Func) []lir.Instruction {
	var list []lir.Instruction
	for _, b := range f.Blocks {
		list = append(list, b.Insts...)
	}
	return list
}

func TestModuleHeader(t *testing.T) {
	m := generate(t, prelude+"fun main() { println(\"hi\"); }")
	if m.TargetTriple != rtabi.TargetTriple || m.DataLayout != rtabi.DataLayout {
		t.Errorf("target = %q %q", m.TargetTriple, m.DataLayout)
	}

	var names []string
	for _, f := range m.Funcs {
		names = append(names, f.Name())
	}
	want := []string{rtabi.FnAlloc, rtabi.FnPanic, fnStrcmp, "println", "print_int", rtabi.MainSymbol}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
	if len(findFunc(t, m, "println").Blocks) != 0 {
		t.Error("extern println should be a declaration")
	}
}

func TestClassGlobals(t *testing.T) {
	m := generate(t, dispatchSource)

	desc := findGlobal(t, m, rtabi.DescPrefix+"D")
	arr, ok := desc.Init.(*constant.CharArray)
	if !ok || string(arr.X) != "ip\x00" || !desc.Immutable {
		t.Errorf("desc.D = %v", desc.Init)
	}

	table := findGlobal(t, m, rtabi.DispatchPrefix+"D")
	elems, ok := table.Init.(*constant.Array)
	if !ok || len(elems.Elems) != 2 {
		t.Fatalf("dispatch.D = %v", table.Init)
	}
	var impls []string
	for _, e := range elems.Elems {
		bc, ok := e.(*constant.ExprBitCast)
		if !ok {
			t.Fatalf("table entry %v is not a bitcast", e)
		}
		impls = append(impls, bc.From.(*lir.Func).Name())
	}
	if diff := cmp.Diff([]string{"D.shout", "A.once"}, impls); diff != "" {
		t.Errorf("dispatch.D mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializerAndDispatch(t *testing.T) {
	m := generate(t, dispatchSource)
	main := findFunc(t, m, rtabi.MainSymbol)

	var allocs, indirect int
	var sizes []int64
	for _, inst := range insts(main) {
		call, ok := inst.(*lir.InstCall)
		if !ok {
			continue
		}
		switch callee := call.Callee.(type) {
		case *lir.Func:
			if callee.Name() == rtabi.FnAlloc {
				allocs++
				sizes = append(sizes, call.Args[0].(*constant.Int).X.Int64())
			}
		case *lir.InstBitCast:
			indirect++
		}
	}
	if allocs != 2 || indirect != 1 {
		t.Errorf("rt_alloc calls = %d, indirect calls = %d; want 2 1", allocs, indirect)
	}
	if diff := cmp.Diff([]int64{32, 16}, sizes); diff != "" {
		t.Errorf("alloc sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodsTakeReceiver(t *testing.T) {
	m := generate(t, dispatchSource)
	shout := findFunc(t, m, "D.shout")
	if len(shout.Params) != 1 || !shout.Params[0].Type().Equal(ptrType) {
		t.Errorf("D.shout params = %v", shout.Params)
	}
}

func TestDivisionChecksZero(t *testing.T) {
	m := generate(t, prelude+`
fun div(a: int, b: int): int { return a / b + a % b; }
fun main() { print_int(div(7, 2)); }
`)
	f := findFunc(t, m, "div")
	var fails int
	for _, b := range f.Blocks {
		if !strings.HasPrefix(b.Name(), "divzero.") {
			continue
		}
		fails++
		if _, ok := b.Term.(*lir.TermUnreachable); !ok {
			t.Errorf("%s ends in %T, want unreachable", b.Name(), b.Term)
		}
	}
	if fails != 2 {
		t.Errorf("got %d divide checks, want 2", fails)
	}
}

func TestShortCircuitPhi(t *testing.T) {
	m := generate(t, prelude+`
fun both(a: bool, b: bool): bool { return a && b; }
fun main() { }
`)
	var phis []*lir.InstPhi
	for _, inst := range insts(findFunc(t, m, "both")) {
		if phi, ok := inst.(*lir.InstPhi); ok {
			phis = append(phis, phi)
		}
	}
	if len(phis) != 1 || len(phis[0].Incs) != 2 {
		t.Fatalf("phis = %v", phis)
	}
	if !phis[0].Type().Equal(ltypes.I1) {
		t.Errorf("phi type = %s, want i1", phis[0].Type())
	}
	if out := m.String(); !strings.Contains(out, "phi i1 [") {
		t.Errorf("module text has no phi:\n%s", out)
	}
}

func TestDivisionByMinusOneSelects(t *testing.T) {
	m := generate(t, prelude+`
fun div(a: int, b: int): int { return a / b; }
fun mod(a: int, b: int): int { return a % b; }
fun main() { }
`)
	for _, name := range []string{"div", "mod"} {
		var selects int
		for _, inst := range insts(findFunc(t, m, name)) {
			if _, ok := inst.(*lir.InstSelect); ok {
				selects++
			}
		}
		if selects != 2 {
			t.Errorf("%s: got %d selects, want 2", name, selects)
		}
	}
}

func TestEmitText(t *testing.T) {
	prog := lower(t, prelude+`
fun main() {
	let s: str = "x";
	if s == "x" { println("same"); }
	for i in [1, 3] { print_int(i); }
}`)

	var buf bytes.Buffer
	if err := Emit(&buf, prog, "test.kya"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`target triple = "` + rtabi.TargetTriple + `"`,
		"define void @" + rtabi.MainSymbol + "()",
		"call i32 @strcmp(",
		"icmp sle i64",
		"noreturn",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
