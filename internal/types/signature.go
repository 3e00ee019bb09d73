package types

import "strings"

// Func represents a function or method signature. The receiver of a method
// is not part of the signature; it is always the declaring class.
type Func struct {
	typ
	tparams []*TypeParam
	params  []*Var
	result  Type // Typ[Void] for functions without a result
}

// NewFunc creates a new signature. A nil result means void.
func NewFunc(tparams []*TypeParam, params []*Var, result Type) *Func {
	if result == nil {
		result = Typ[Void]
	}
	return &Func{tparams: tparams, params: params, result: result}
}

// TypeParams returns the function's own type parameters.
func (f *Func) TypeParams() []*TypeParam { return f.tparams }

// Params returns the parameter list.
func (f *Func) Params() []*Var {
	return f.params
}

// NumParams returns the number of parameters.
func (f *Func) NumParams() int {
	return len(f.params)
}

// Param returns the parameter at index i.
func (f *Func) Param(i int) *Var {
	return f.params[i]
}

// Result returns the result type; Typ[Void] if there is none.
func (f *Func) Result() Type {
	return f.result
}

// String implements Type.
func (f *Func) String() string {
	var buf strings.Builder
	buf.WriteString("fun")
	if len(f.tparams) > 0 {
		buf.WriteByte('<')
		for i, tp := range f.tparams {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(tp.String())
			if tp.bound != nil {
				buf.WriteString(": ")
				buf.WriteString(tp.bound.name)
			}
		}
		buf.WriteByte('>')
	}
	buf.WriteString("(")
	for i, p := range f.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.Name())
		buf.WriteString(": ")
		buf.WriteString(p.Type().String())
	}
	buf.WriteString(")")
	if f.result != Typ[Void] {
		buf.WriteString(": ")
		buf.WriteString(f.result.String())
	}
	return buf.String()
}
