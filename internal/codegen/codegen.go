// Package codegen exports an ir.Program as an LLVM module.
//
// Objects are i8 pointers to runtime-allocated blocks whose header holds
// the descriptor string and the dispatch table; fields are addressed by
// the byte offsets of their layouts. Every class gets two constant
// globals: desc.<Class>, its pointer-map descriptor, and dispatch.<Class>,
// an array of i8 pointers to the method implementations indexed by slot.
package codegen

import (
	"fmt"
	"io"

	lir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	ltypes "github.com/llir/llvm/ir/types"

	"github.com/you-not-fish/kyanite/internal/ir"
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/rtabi"
	"github.com/you-not-fish/kyanite/internal/types"
)

// libc functions used by lowered code.
const fnStrcmp = "strcmp"

// generator holds module-wide state.
type generator struct {
	prog *ir.Program
	m    *lir.Module

	funcs    map[*types.FuncObj]*lir.Func
	runtime  map[string]*lir.Func
	desc     map[*layout.Class]constant.Constant
	dispatch map[*layout.Class]constant.Constant
	strings  map[string]constant.Constant
}

// Generate builds the LLVM module of prog. name becomes the module's
// source file name.
func Generate(prog *ir.Program, name string) (*lir.Module, error) {
	g := &generator{
		prog:     prog,
		m:        lir.NewModule(),
		funcs:    make(map[*types.FuncObj]*lir.Func),
		runtime:  make(map[string]*lir.Func),
		desc:     make(map[*layout.Class]constant.Constant),
		dispatch: make(map[*layout.Class]constant.Constant),
		strings:  make(map[string]constant.Constant),
	}
	g.m.SourceFilename = name
	g.m.TargetTriple = rtabi.TargetTriple
	g.m.DataLayout = rtabi.DataLayout

	if err := g.declareRuntime(); err != nil {
		return nil, err
	}
	for _, ext := range prog.Externs {
		g.funcs[ext] = g.m.NewFunc(ext.Name(), resultType(ext.Signature()), params(ext.Signature(), false)...)
	}
	for _, fn := range prog.Funcs {
		g.funcs[fn.Obj] = g.m.NewFunc(linkName(fn), resultType(fn.Sig), params(fn.Sig, fn.IsMethod())...)
	}

	// Tables need every function declared.
	for _, l := range prog.Layouts.Classes() {
		g.classGlobals(l)
	}

	for _, fn := range prog.Funcs {
		if err := g.lowerFunc(fn, g.funcs[fn.Obj]); err != nil {
			return nil, fmt.Errorf("codegen: %s: %w", fn.Name, err)
		}
	}
	return g.m, nil
}

// Emit writes the LLVM text of prog to w.
func Emit(w io.Writer, prog *ir.Program, name string) error {
	m, err := Generate(prog, name)
	if err != nil {
		return err
	}
	_, err = m.WriteTo(w)
	return err
}

// linkName returns the symbol of fn.
func linkName(fn *ir.Func) string {
	if fn == nil {
		return ""
	}
	if !fn.IsMethod() && fn.Name == rtabi.EntryPoint {
		return rtabi.MainSymbol
	}
	return fn.Name
}

// declareRuntime declares the runtime and libc functions.
func (g *generator) declareRuntime() error {
	for _, sig := range rtabi.RuntimeFunctions() {
		ret, err := abiType(sig.ReturnType)
		if err != nil {
			return err
		}
		var ps []*lir.Param
		for i, name := range sig.ParamTypes {
			t, err := abiType(name)
			if err != nil {
				return err
			}
			ps = append(ps, lir.NewParam(fmt.Sprintf("p%d", i), t))
		}
		f := g.m.NewFunc(sig.Name, ret, ps...)
		if sig.NoReturn {
			f.FuncAttrs = append(f.FuncAttrs, enum.FuncAttrNoReturn)
		}
		g.runtime[sig.Name] = f
	}
	g.runtime[fnStrcmp] = g.m.NewFunc(fnStrcmp, ltypes.I32,
		lir.NewParam("a", ptrType), lir.NewParam("b", ptrType))
	return nil
}

// classGlobals defines the descriptor and dispatch table of l.
func (g *generator) classGlobals(l *layout.Class) {
	g.desc[l] = g.cstring(rtabi.DescPrefix+l.Name(), l.Desc)

	elems := make([]constant.Constant, len(l.Dispatch))
	for i, e := range l.Dispatch {
		if e.Impl == nil {
			elems[i] = constant.NewNull(ptrType)
			continue
		}
		elems[i] = constant.NewBitCast(g.funcs[e.Impl], ptrType)
	}
	arrType := ltypes.NewArray(uint64(len(elems)), ptrType)
	var init constant.Constant = constant.NewZeroInitializer(arrType)
	if len(elems) > 0 {
		init = constant.NewArray(arrType, elems...)
	}
	table := g.m.NewGlobalDef(rtabi.DispatchPrefix+l.Name(), init)
	table.Immutable = true
	g.dispatch[l] = constant.NewBitCast(table, ptrType)
}

// cstring defines a NUL-terminated constant and returns its i8 pointer.
func (g *generator) cstring(name, s string) constant.Constant {
	data := constant.NewCharArrayFromString(s + "\x00")
	glob := g.m.NewGlobalDef(name, data)
	glob.Immutable = true
	zero := constant.NewInt(ltypes.I64, 0)
	return constant.NewGetElementPtr(data.Typ, glob, zero, zero)
}

// literal returns the pointer to a string literal, defining it once.
func (g *generator) literal(s string) constant.Constant {
	if c, ok := g.strings[s]; ok {
		return c
	}
	c := g.cstring(fmt.Sprintf(".str.%d", len(g.strings)), s)
	g.strings[s] = c
	return c
}
