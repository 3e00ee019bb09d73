// Package interp executes an ir.Program directly. It is the reference
// semantics of the lowered form: objects are laid out by field offset and
// virtual calls are resolved through the dispatch table attached by
// SetDispatch, exactly as compiled code does.
package interp

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// DefaultMaxDepth is the call depth limit used when Config.MaxDepth is 0.
const DefaultMaxDepth = 10000

// Value is a run-time value: int64, float64, bool, string or *Object.
// Calls of void functions produce nil.
type Value interface{}

// Config configures a Machine.
type Config struct {
	// Stdout receives the output of println and print_int.
	// If nil, os.Stdout is used.
	Stdout io.Writer

	// Logger traces calls at debug level. If nil, nothing is logged.
	Logger *zap.Logger

	// MaxDepth limits the call depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Error is a run-time failure, such as division by zero or exceeding the
// call depth.
type Error struct {
	Func string
	Pos  syntax.Pos
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Func, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Func, e.Msg)
}

// Machine runs the functions of one program. A Machine is not safe for
// concurrent use.
type Machine struct {
	prog     *ir.Program
	out      io.Writer
	log      *zap.Logger
	maxDepth int
	depth    int
	externs  map[string]Extern
}

// New returns a machine for prog with the host externs installed.
func New(prog *ir.Program, conf *Config) *Machine {
	if conf == nil {
		conf = &Config{}
	}
	m := &Machine{
		prog:     prog,
		out:      conf.Stdout,
		log:      conf.Logger,
		maxDepth: conf.MaxDepth,
		externs:  make(map[string]Extern),
	}
	if m.out == nil {
		m.out = os.Stdout
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.maxDepth <= 0 {
		m.maxDepth = DefaultMaxDepth
	}
	for name, fn := range hostExterns {
		m.externs[name] = fn
	}
	return m
}

// Bind installs or replaces the host implementation of an extern.
func (m *Machine) Bind(name string, fn Extern) {
	m.externs[name] = fn
}

// Run calls the program's main function.
func (m *Machine) Run(ctx context.Context) error {
	if m.prog.Main == nil {
		return fmt.Errorf("interp: program has no main function")
	}
	_, err := m.Call(ctx, m.prog.Main)
	return err
}

// Call runs fn with the given arguments; a method takes its receiver
// first.
func (m *Machine) Call(ctx context.Context, fn *ir.Func, args ...Value) (Value, error) {
	if m.depth >= m.maxDepth {
		return nil, &Error{Func: fn.Name, Msg: fmt.Sprintf("call depth limit %d exceeded", m.maxDepth)}
	}
	m.depth++
	defer func() { m.depth-- }()

	m.log.Debug("call", zap.String("func", fn.Name), zap.Int("depth", m.depth))
	f := &frame{m: m, fn: fn, args: args, vals: make(map[*ir.Value]Value), slots: make(map[*ir.Value]*Value)}
	return f.run(ctx)
}

// callObj calls a function object, dispatching to the host for externs.
func (m *Machine) callObj(ctx context.Context, obj *types.FuncObj, args []Value) (Value, error) {
	if obj.IsExtern() {
		ext, ok := m.externs[obj.Name()]
		if !ok {
			return nil, &Error{Func: obj.Name(), Msg: "no host implementation for extern"}
		}
		return ext(m, args)
	}
	fn := m.prog.Func(obj)
	if fn == nil {
		return nil, &Error{Func: obj.FullName(), Msg: "function has no body"}
	}
	return m.Call(ctx, fn, args...)
}

// Object is an allocated class instance.
type Object struct {
	// Layout is the layout of the allocated class.
	Layout *layout.Class

	// Dispatch is the dispatch table attached by SetDispatch, or nil.
	Dispatch *layout.Class

	// Fields holds one value per field slot.
	Fields []Value
}

func (o *Object) String() string {
	return fmt.Sprintf("<%s object>", o.Layout.Name())
}
