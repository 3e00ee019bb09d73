package types2

import (
	"strings"

	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// initExpr checks the initializer T:init(name: value, ...). Every field of
// the flattened ancestor-first field list of T must be given exactly once.
// The type arguments of a generic class are inferred from the values.
func (c *Checker) initExpr(x *operand, e *syntax.InitExpr) {
	tn, _ := c.lookup(e.Type.Value).(*types.TypeName)
	if tn == nil {
		c.errorf(diag.UnknownType, e.Type.Pos(), "undefined: %s", e.Type.Value)
		c.initValues(e)
		return
	}
	cls, ok := tn.Type().(*types.Class)
	if !ok {
		c.errorf(diag.TypeMismatch, e.Type.Pos(), "%s is not a class", e.Type.Value)
		c.initValues(e)
		return
	}
	c.recordUse(e.Type, tn)

	fields := c.table.FlatFields(cls)
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name()] = i
	}

	values := make([]syntax.Expr, len(fields))
	ops := make([]*operand, len(fields))
	ok = true
	for _, kv := range e.Elems {
		v := new(operand)
		c.expr(v, kv.Value)

		i, found := index[kv.Key.Value]
		switch {
		case !found:
			c.errorf(diag.UnknownInitializerField, kv.Key.Pos(), "unknown field %s in %s initializer", kv.Key.Value, cls.Name())
			ok = false
			continue
		case values[i] != nil:
			c.errorf(diag.DuplicateInitializerField, kv.Key.Pos(), "duplicate field %s in %s initializer", kv.Key.Value, cls.Name())
			ok = false
			continue
		}
		c.recordUse(kv.Key, fields[i])
		values[i], ops[i] = kv.Value, v
		if !c.singleValue(v) {
			ok = false
		}
	}

	var missing []string
	for i, f := range fields {
		if values[i] == nil {
			missing = append(missing, f.Name())
		}
	}
	if len(missing) > 0 {
		c.errorf(diag.IncompleteInitializer, e.Pos(), "%s initializer is missing %s", cls.Name(), strings.Join(missing, ", "))
		ok = false
	}
	if !ok {
		return
	}

	var typ types.Type = cls
	var targs []types.Type
	if cls.IsGeneric() {
		ftypes := make([]types.Type, len(fields))
		for i, f := range fields {
			ftypes[i] = f.Type()
		}
		if targs = c.infer(e.Pos(), cls.Name(), cls.TypeParams(), ftypes, ops); targs == nil {
			return
		}
		typ = types.NewInstance(cls, targs)
	}

	for i, f := range fields {
		ft := types.Subst(f.Type(), cls.TypeParams(), targs)
		if !c.assignment(ops[i], ft, "field "+f.Name()+" of "+cls.Name()) {
			ok = false
		}
	}
	if !ok {
		return
	}

	c.info.Inits[e] = &InitInfo{Class: cls, Type: typ, Fields: fields, Values: values}
	x.setValue(typ)
}

// initValues evaluates the values of an initializer whose class did not
// resolve.
func (c *Checker) initValues(e *syntax.InitExpr) {
	for _, kv := range e.Elems {
		var v operand
		c.expr(&v, kv.Value)
	}
}
