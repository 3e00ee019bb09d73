package ir

import (
	"github.com/you-not-fish/kyanite/internal/layout"
	"github.com/you-not-fish/kyanite/internal/rtabi"
	"github.com/you-not-fish/kyanite/internal/types"
)

// Program is the lowered form of one unit.
type Program struct {
	// Layouts holds every class layout and dispatch table.
	Layouts *layout.Layouts

	// Externs lists host functions in declaration order.
	Externs []*types.FuncObj

	// Funcs lists functions and methods with bodies in declaration order.
	Funcs []*Func

	// Main is the entry point, or nil if the unit declares none.
	Main *Func

	byObj map[*types.FuncObj]*Func
}

func newProgram(layouts *layout.Layouts, externs []*types.FuncObj, funcs []*Func) *Program {
	p := &Program{
		Layouts: layouts,
		Externs: externs,
		Funcs:   funcs,
		byObj:   make(map[*types.FuncObj]*Func, len(funcs)),
	}
	for _, f := range funcs {
		p.byObj[f.Obj] = f
		if f.Recv == nil && f.Name == rtabi.EntryPoint {
			p.Main = f
		}
	}
	return p
}

// Func returns the lowered body of obj, or nil for externs.
func (p *Program) Func(obj *types.FuncObj) *Func {
	return p.byObj[obj]
}

// Lookup returns the function with the given link name, or nil.
func (p *Program) Lookup(name string) *Func {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
