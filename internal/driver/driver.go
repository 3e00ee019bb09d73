// Package driver runs the compiler phases in order: parse, check, layout
// and IR generation.
package driver

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/you-not-fish/kyanite/internal/config"
	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
	"github.com/you-not-fish/kyanite/internal/types2"
)

// Phase names a compiler phase.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseCheck
	PhaseLayout
	PhaseIR
)

var phaseNames = [...]string{
	PhaseParse:  "parse",
	PhaseCheck:  "check",
	PhaseLayout: "layout",
	PhaseIR:     "ir",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "?"
}

// Options controls a compilation.
type Options struct {
	// Config holds the settings; nil uses config.Default.
	Config *config.Config

	// Logger receives one entry per phase; nil disables logging.
	Logger *zap.Logger

	// Stop ends the compilation after this phase. The zero value parses
	// only, so callers normally set it to PhaseIR.
	Stop Phase
}

// Result holds the artifacts of the phases that ran.
type Result struct {
	File    *syntax.File
	Info    *types2.Info
	Table   *types.Table
	Layouts *layout.Layouts
	Program *ir.Program
}

// Compile runs the phases up to opts.Stop on the source read from r.
// Compile errors are *diag.Error values combined into one error; the
// result holds the artifacts of the phases that succeeded.
func Compile(ctx context.Context, opts *Options, filename string, r io.Reader) (*Result, error) {
	if opts == nil {
		opts = &Options{Stop: PhaseIR}
	}
	conf := opts.Config
	if conf == nil {
		conf = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("file", filename))

	res := &Result{}
	done := func(p Phase, start time.Time, fields ...zap.Field) {
		fields = append([]zap.Field{zap.Stringer("phase", p), zap.Duration("elapsed", time.Since(start))}, fields...)
		log.Debug("phase done", fields...)
	}

	start := time.Now()
	var errs diag.List
	p := syntax.NewParser(filename, r, func(pos syntax.Pos, msg string) {
		errs.Add(diag.Errorf(diag.Syntax, pos, "%s", msg))
	})
	res.File = p.Parse()
	if err := errs.Err(); err != nil {
		log.Debug("parse failed", zap.Int("errors", errs.Len()))
		return res, err
	}
	done(PhaseParse, start, zap.Int("decls", len(res.File.Decls)))
	if opts.Stop == PhaseParse {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	start = time.Now()
	res.Info = &types2.Info{}
	maxErrors := conf.MaxErrors
	if maxErrors == 0 {
		maxErrors = -1
	}
	table, err := types2.Check(res.File, &types2.Config{MaxErrors: maxErrors}, res.Info)
	if err != nil {
		log.Debug("check failed", zap.Int("errors", len(diag.Errors(err))))
		return res, err
	}
	res.Table = table
	done(PhaseCheck, start, zap.Int("exprs", len(res.Info.Types)), zap.Int("calls", len(res.Info.Calls)))
	if opts.Stop == PhaseCheck {
		return res, nil
	}

	start = time.Now()
	res.Layouts = layout.Build(table, types.DefaultSizes)
	if conf.VerifyIR {
		if err := res.Layouts.CheckBounds(); err != nil {
			return res, err
		}
	}
	done(PhaseLayout, start, zap.Int("classes", len(res.Layouts.Classes())), zap.Int("slots", res.Layouts.NumSlots()))
	if opts.Stop == PhaseLayout {
		return res, nil
	}

	start = time.Now()
	prog, err := ir.Generate(ctx, res.File, res.Info, res.Layouts, &ir.Config{
		Jobs:   conf.Jobs,
		Verify: conf.VerifyIR,
		Logger: log,
	})
	if err != nil {
		return res, err
	}
	res.Program = prog
	done(PhaseIR, start, zap.Int("funcs", len(prog.Funcs)), zap.Int("externs", len(prog.Externs)))
	return res, nil
}

// NewLogger builds the logger for level; debug uses the development
// encoder.
func NewLogger(conf *config.Config) (*zap.Logger, error) {
	level, err := conf.LogLevel()
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if level == zap.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
