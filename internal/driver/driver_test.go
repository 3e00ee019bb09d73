package driver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/you-not-fish/kyanite/internal/config"
	"github.com/you-not-fish/kyanite/internal/diag"
)

const source = `
extern fun print_int(n: int);
class A { x: int
	fun get(self): int { return self.x; } }
fun main() { print_int(A:init(x: 4).get()); }
`

func compile(t *testing.T, src string, opts *Options) (*Result, error) {
	t.Helper()
	return Compile(context.Background(), opts, "test.kya", strings.NewReader(src))
}

func TestCompileAllPhases(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	res, err := compile(t, source, &Options{Logger: zap.New(core), Stop: PhaseIR})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Program == nil || res.Program.Main == nil {
		t.Fatal("no program or main")
	}
	if len(res.Layouts.Classes()) != 1 {
		t.Errorf("layouts = %d classes, want 1", len(res.Layouts.Classes()))
	}

	var phases []string
	for _, e := range logs.FilterMessage("phase done").All() {
		phases = append(phases, e.ContextMap()["phase"].(string))
	}
	if diff := cmp.Diff([]string{"parse", "check", "layout", "ir"}, phases); diff != "" {
		t.Errorf("logged phases mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileStops(t *testing.T) {
	tests := []struct {
		stop    Phase
		checked bool
		laidOut bool
	}{
		{PhaseParse, false, false},
		{PhaseCheck, true, false},
		{PhaseLayout, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.stop.String(), func(t *testing.T) {
			res, err := compile(t, source, &Options{Stop: tt.stop})
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if (res.Table != nil) != tt.checked || (res.Layouts != nil) != tt.laidOut || res.Program != nil {
				t.Errorf("table=%v layouts=%v program=%v", res.Table != nil, res.Layouts != nil, res.Program != nil)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	res, err := compile(t, "fun main() { let x: int = 1 }", nil)
	if diag.KindOf(err) != diag.Syntax {
		t.Fatalf("KindOf = %s, want Syntax (err %v)", diag.KindOf(err), err)
	}
	if res.File == nil || res.Info != nil {
		t.Error("result should hold only the parsed file")
	}
}

func TestTypeErrorsRespectMaxErrors(t *testing.T) {
	src := `
fun main() {
	let a: int = true;
	let b: int = "s";
	let c: bool = 1;
}`
	conf := config.Default()
	conf.MaxErrors = 2
	_, err := compile(t, src, &Options{Config: conf, Stop: PhaseIR})
	if got := len(diag.Errors(err)); got != 2 {
		t.Errorf("got %d errors, want 2: %v", got, err)
	}

	conf.MaxErrors = 0
	_, err = compile(t, src, &Options{Config: conf, Stop: PhaseIR})
	if got := len(diag.Errors(err)); got != 3 {
		t.Errorf("unlimited: got %d errors, want 3", got)
	}
	if !diag.Has(err, diag.TypeMismatch) {
		t.Errorf("errors = %v, want TypeMismatch", err)
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compile(ctx, &Options{Stop: PhaseIR}, "test.kya", strings.NewReader(source))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compile = %v, want context.Canceled", err)
	}
}

func TestNewLogger(t *testing.T) {
	conf := config.Default()
	conf.Log.Level = "debug"
	log, err := NewLogger(conf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !log.Core().Enabled(zap.DebugLevel) {
		t.Error("debug logger should enable debug")
	}

	conf.Log.Level = "error"
	log, _ = NewLogger(conf)
	if log.Core().Enabled(zap.WarnLevel) {
		t.Error("error logger should not enable warn")
	}
}

func TestCompileEmptyMainWithDefaults(t *testing.T) {
	res, err := compile(t, "fun main() { }", nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Program == nil || res.Program.Main == nil {
		t.Fatal("no main in program")
	}
}
