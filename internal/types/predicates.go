package types

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Instance:
		if y, ok := y.(*Instance); ok {
			if x.orig != y.orig || len(x.targs) != len(y.targs) {
				return false
			}
			for i := range x.targs {
				if !Identical(x.targs[i], y.targs[i]) {
					return false
				}
			}
			return true
		}
	case *Func:
		if y, ok := y.(*Func); ok {
			return IdenticalSignatures(x, y)
		}
	}
	// Classes and type parameters are identical only to themselves.
	return false
}

// IdenticalSignatures reports whether x and y have identical parameter and
// result types. Parameter names and type parameters are ignored.
func IdenticalSignatures(x, y *Func) bool {
	if len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i].Type(), y.params[i].Type()) {
			return false
		}
	}
	return Identical(x.result, y.result)
}

// AsClass returns the class of a class or instance type, or nil.
func AsClass(t Type) *Class {
	switch t := t.(type) {
	case *Class:
		return t
	case *Instance:
		return t.orig
	}
	return nil
}

// IsReference reports whether values of type t are object references.
// Type parameters are always instantiated with classes.
func IsReference(t Type) bool {
	switch t.(type) {
	case *Class, *Instance, *TypeParam:
		return true
	}
	return false
}

// IsBasic reports whether t is a basic type with any of the given info
// bits; info 0 accepts every basic type.
func IsBasic(t Type, info BasicInfo) bool {
	b, ok := t.(*Basic)
	if !ok || b.kind == Invalid || b.kind == Void {
		return false
	}
	return info == 0 || b.info&info != 0
}

// IsBool reports whether t is bool.
func IsBool(t Type) bool { return IsBasic(t, IsBoolean) }

// IsInt reports whether t is int.
func IsInt(t Type) bool { return IsBasic(t, IsInteger) }

// IsInvalid reports whether t is missing or the invalid type.
func IsInvalid(t Type) bool { return t == nil || t == Typ[Invalid] }

// IsVoid reports whether t is void.
func IsVoid(t Type) bool { return t == Typ[Void] }

// Subst replaces the type parameters tparams in t by targs.
func Subst(t Type, tparams []*TypeParam, targs []Type) Type {
	if len(tparams) == 0 {
		return t
	}
	switch t := t.(type) {
	case *TypeParam:
		for i, tp := range tparams {
			if tp == t && i < len(targs) {
				return targs[i]
			}
		}
	case *Instance:
		var args []Type
		for i, a := range t.targs {
			s := Subst(a, tparams, targs)
			if s != a && args == nil {
				args = make([]Type, len(t.targs))
				copy(args, t.targs[:i])
			}
			if args != nil {
				args[i] = s
			}
		}
		if args != nil {
			return NewInstance(t.orig, args)
		}
	}
	return t
}

// SubstSignature returns sig with tparams replaced by targs. The own type
// parameters of sig are dropped when they are among tparams.
func SubstSignature(sig *Func, tparams []*TypeParam, targs []Type) *Func {
	if len(tparams) == 0 {
		return sig
	}
	params := make([]*Var, len(sig.params))
	for i, p := range sig.params {
		params[i] = NewParam(p.pos, p.name, Subst(p.typ, tparams, targs), i)
	}
	return NewFunc(nil, params, Subst(sig.result, tparams, targs))
}

// MissingMethod returns the first method of b that typ does not provide
// with an identical signature, or nil if typ satisfies b. A type parameter
// satisfies b through its own bound.
func (t *Table) MissingMethod(typ Type, b *Bound) *FuncObj {
	for _, want := range b.methods {
		have := t.MethodSignature(typ, want.name)
		if have == nil || !IdenticalSignatures(have, want.sig) {
			return want
		}
	}
	return nil
}

// MethodSignature returns the signature of method name on typ with any
// class type arguments substituted, or nil.
func (t *Table) MethodSignature(typ Type, name string) *Func {
	switch typ := typ.(type) {
	case *Class:
		if m := t.LookupMethod(typ, name); m != nil {
			return m.sig
		}
	case *Instance:
		if m := t.LookupMethod(typ.orig, name); m != nil {
			return SubstSignature(m.sig, typ.orig.tparams, typ.targs)
		}
	case *TypeParam:
		if typ.bound != nil {
			if m := typ.bound.Method(name); m != nil {
				return m.sig
			}
		}
	}
	return nil
}
