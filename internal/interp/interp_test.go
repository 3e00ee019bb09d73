package interp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
	"github.com/you-not-fish/kyanite/internal/types2"
)

const prelude = `
extern fun println(s: str);
extern fun print_int(n: int);
`

// compile runs the middle end on src with IR verification enabled.
func compile(t *testing.T, src string) *ir.Program {
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
		t.Fatalf("Generate: %v", err)
	}
	return prog
}

// run executes main and returns its output.
func run(t *testing.T, src string) string {
	t.Helper()
	out, err := runErr(t, src, nil)
	if err != nil {
		t.Fatalf("run failed: %v\noutput so far:\n%s", err, out)
	}
	return out
}

func runErr(t *testing.T, src string, conf *Config) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	if conf == nil {
		conf = &Config{}
	}
	conf.Stdout = &buf
	err := New(compile(t, src), conf).Run(context.Background())
	return buf.String(), err
}

func expectOutput(t *testing.T, src, want string) {
	t.Helper()
	if got := run(t, src); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestInitializerFields(t *testing.T) {
	expectOutput(t, prelude+`
class X { x: int }
class Y : X { y: int }
fun main() {
	let a: Y = Y:init(y: 6, x: 2);
	print_int(a.x);
	print_int(a.y);
	let b: X = a;
	print_int(b.x);
}`, "2\n6\n2\n")
}

func TestFourLevelDispatch(t *testing.T) {
	expectOutput(t, prelude+`
class A { fun shout(self): str { return "A"; } }
class B : A { }
class C : B { }
class D : C { fun shout(self): str { return "D"; } }
fun call(a: A): str { return a.shout(); }
fun main() {
	let b: B = B:init();
	println(b.shout());
	let d: D = D:init();
	println(d.shout());
	println(call(C:init()));
	println(call(d));
}`, "A\nD\nA\nD\n")
}

func TestBoundDispatch(t *testing.T) {
	expectOutput(t, prelude+`
bound Speaker { fun say(self): str; }
class Animal { fun say(self): str { return "..."; } }
class Dog : Animal { fun say(self): str { return "woof"; } }
class Cat { fun say(self): str { return "meow"; } }
class Box<T: Speaker> {
	item: T
	fun speak(self): str { return self.item.say(); }
}
fun speak<T: Speaker>(x: T): str { return x.say(); }
fun main() {
	println(speak(Dog:init()));
	println(speak(Cat:init()));
	let a: Animal = Dog:init();
	println(speak(a));
	let b: Box<Cat> = Box:init(item: Cat:init());
	println(b.speak());
}`, "woof\nmeow\nwoof\nmeow\n")
}

func TestControlFlow(t *testing.T) {
	expectOutput(t, prelude+`
fun fib(n: int): int {
	if n < 2 { return n; }
	return fib(n - 1) + fib(n - 2);
}
fun main() {
	for i in [1, 3] { print_int(i); }
	let n: int = 0;
	while n < 10 { n = n + 4; }
	print_int(n);
	print_int(fib(10));
	for j in [5, 4] { print_int(j); }
	print_int(7 / 2 + 7 % 3);
}`, "1\n2\n3\n12\n55\n4\n")
}

func TestShortCircuit(t *testing.T) {
	expectOutput(t, prelude+`
fun side(b: bool): bool { println("side"); return b; }
fun main() {
	if false && side(true) { println("no"); }
	if true || side(true) { println("yes"); }
	if side(true) && side(false) { println("no"); } else { println("else"); }
}`, "yes\nside\nside\nelse\n")
}

func TestFieldAssignment(t *testing.T) {
	expectOutput(t, prelude+`
class Counter {
	n: int
	fun bump(self) { self.n = self.n + 1; }
	fun get(self): int { return self.n; }
}
fun main() {
	let c: Counter = Counter:init(n: 40);
	c.bump();
	c.bump();
	print_int(c.get());
}`, "42\n")
}

func TestStringsAndFloats(t *testing.T) {
	expectOutput(t, prelude+`
const GREETING: str = "hi";
fun half(x: float): float { return x / 2.0; }
fun main() {
	if GREETING == "hi" { println(GREETING); }
	if half(5.0) > 2.0 { println("gt"); }
	if -half(1.0) < 0.0 { println("neg"); }
}`, "hi\ngt\nneg\n")
}

func TestDivideByZero(t *testing.T) {
	_, err := runErr(t, prelude+`
fun div(a: int, b: int): int { return a / b; }
fun main() { print_int(div(1, 0)); }`, nil)
	var rerr *Error
	if !errors.As(err, &rerr) || !strings.Contains(rerr.Msg, "divide by zero") || rerr.Func != "div" {
		t.Errorf("err = %v, want divide by zero in div", err)
	}
}

func TestDivideMinIntByMinusOneWraps(t *testing.T) {
	expectOutput(t, prelude+`
fun div(a: int, b: int): int { return a / b; }
fun mod(a: int, b: int): int { return a % b; }
fun main() {
	let min: int = -9223372036854775807 - 1;
	print_int(div(min, -1));
	print_int(mod(min, -1));
}`, "-9223372036854775808\n0\n")
}

func TestDepthLimit(t *testing.T) {
	_, err := runErr(t, `
fun loop(n: int): int { return loop(n + 1); }
fun main() { let x: int = loop(0); }`, &Config{MaxDepth: 50})
	if err == nil || !strings.Contains(err.Error(), "call depth limit 50 exceeded") {
		t.Errorf("err = %v, want depth limit", err)
	}
}

func TestNoMain(t *testing.T) {
	m := New(compile(t, "fun f() { }"), nil)
	if err := m.Run(context.Background()); err == nil {
		t.Error("Run without main should fail")
	}
}

func TestCancelled(t *testing.T) {
	m := New(compile(t, "fun main() { while true { } }"), &Config{Stdout: &bytes.Buffer{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestBindExtern(t *testing.T) {
	prog := compile(t, `
extern fun twice(n: int): int;
extern fun print_int(n: int);
fun main() { print_int(twice(21)); }`)
	var buf bytes.Buffer
	m := New(prog, &Config{Stdout: &buf})
	m.Bind("twice", func(m *Machine, args []Value) (Value, error) {
		return args[0].(int64) * 2, nil
	})
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "42\n" {
		t.Errorf("output = %q, want 42", buf.String())
	}

	m = New(prog, &Config{Stdout: &buf})
	if err := m.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "no host implementation") {
		t.Errorf("unbound extern: err = %v", err)
	}
}

func TestCallMethodDirectly(t *testing.T) {
	prog := compile(t, `
class P {
	v: int
	fun add(self, k: int): int { return self.v + k; }
}`)
	fn := prog.Lookup("P.add")
	l := prog.Layouts.Of(prog.Layouts.Table().LookupClass("P"))
	obj := &Object{Layout: l, Dispatch: l, Fields: []Value{int64(40)}}
	got, err := New(prog, nil).Call(context.Background(), fn, obj, int64(2))
	if err != nil || got != int64(42) {
		t.Errorf("Call = %v, %v; want 42", got, err)
	}
}
