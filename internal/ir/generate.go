package ir

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
	"github.com/you-not-fish/kyanite/internal/types2"
)

// Config controls IR generation.
type Config struct {
	// Jobs limits the number of functions lowered at once.
	// Zero means runtime.GOMAXPROCS(0).
	Jobs int

	// Verify runs Verify on the finished program.
	Verify bool

	// Logger receives one debug entry per lowered function.
	// If nil, nothing is logged.
	Logger *zap.Logger
}

// Generate lowers every function and method of a checked file.
//
// The checker info and layouts are only read, so functions are lowered
// concurrently; the result lists them in declaration order. Generate
// returns an error only if ctx is cancelled or verification fails.
func Generate(ctx context.Context, file *syntax.File, info *types2.Info, layouts *layout.Layouts, conf *Config) (*Program, error) {
	if conf == nil {
		conf = &Config{}
	}
	log := conf.Logger
	if log == nil {
		log = zap.NewNop()
	}
	jobs := conf.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var externs []*types.FuncObj
	var bodies []*syntax.FuncDecl
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *syntax.FuncDecl:
			if d.Extern {
				externs = append(externs, info.FuncOf(d))
				continue
			}
			bodies = append(bodies, d)
		case *syntax.ClassDecl:
			for _, m := range d.Methods {
				bodies = append(bodies, m)
			}
		}
	}

	funcs := make([]*Func, len(bodies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, decl := range bodies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn := buildFunc(decl, info, layouts)
			log.Debug("lowered function",
				zap.String("func", fn.Name),
				zap.Int("blocks", fn.NumBlocks()),
				zap.Int("values", fn.NumValues()))
			funcs[i] = fn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prog := newProgram(layouts, externs, funcs)
	if conf.Verify {
		if err := Verify(prog); err != nil {
			return nil, err
		}
	}
	return prog, nil
}
