package types2

import (
	"go/constant"

	"github.com/you-not-fish/kyanite/internal/diag"
	"github.com/you-not-fish/kyanite/internal/syntax"
	"github.com/you-not-fish/kyanite/internal/types"
)

// DefaultMaxErrors is the error limit used when Config.MaxErrors is 0.
const DefaultMaxErrors = 10

// Config specifies the configuration for type checking.
type Config struct {
	// Error is called for each error as it is reported.
	// If nil, errors are only returned by Check.
	Error func(err *diag.Error)

	// MaxErrors stops checking once this many errors were reported.
	// Zero means DefaultMaxErrors; a negative value means no limit.
	MaxErrors int

	// Sizes provides slot size information.
	// If nil, DefaultSizes is used.
	Sizes *types.Sizes
}

// CallKind says how a call site dispatches.
type CallKind int

const (
	// CallDirect calls a function or the unique implementation of a
	// method in the receiver's hierarchy.
	CallDirect CallKind = iota

	// CallVirtual calls a method implemented more than once in the
	// receiver's hierarchy; the target comes from the run-time object's
	// dispatch table.
	CallVirtual

	// CallBound calls a bound method on a value typed by a type parameter.
	// It dispatches through the dispatch table like CallVirtual.
	CallBound
)

func (k CallKind) String() string {
	switch k {
	case CallDirect:
		return "direct"
	case CallVirtual:
		return "virtual"
	case CallBound:
		return "bound"
	}
	return "?"
}

// CallInfo describes a checked call site.
type CallInfo struct {
	Kind CallKind

	// Callee is the called function. For method calls it is the
	// implementation visible from the static receiver type; for bound
	// calls it is the bound's method.
	Callee *types.FuncObj

	// Recv is the static receiver type, or nil for function calls.
	Recv types.Type

	// TypeArgs holds the inferred type arguments of a generic callee.
	TypeArgs []types.Type

	// Sig is the callee signature with type arguments substituted.
	Sig *types.Func
}

// InitInfo describes a checked Class:init(...) expression.
type InitInfo struct {
	Class *types.Class
	Type  types.Type // Class, or Instance for generic classes

	// Fields is the flattened field list, ancestors first. Values[i] is
	// the source expression initializing Fields[i].
	Fields []*types.Var
	Values []syntax.Expr
}

// Info holds the results of type checking.
type Info struct {
	// Types maps expressions to their type and value information.
	Types map[syntax.Expr]TypeAndValue

	// Defs maps defining identifiers to their declared objects: classes,
	// bounds, functions, methods, receivers, parameters, fields, locals,
	// loop variables and constants.
	Defs map[*syntax.Name]types.Object

	// Uses maps referencing identifiers to their referenced objects,
	// including the Sel of field selectors and method calls.
	Uses map[*syntax.Name]types.Object

	// Scopes maps AST nodes to their scopes.
	// This includes ClassDecl, FuncDecl, BlockStmt and ForStmt.
	Scopes map[syntax.Node]*types.Scope

	// Calls maps every call expression to its dispatch information.
	Calls map[*syntax.CallExpr]*CallInfo

	// Inits maps every initializer expression to its resolved fields.
	Inits map[*syntax.InitExpr]*InitInfo
}

// ObjectOf returns the object denoted by name, or nil.
func (info *Info) ObjectOf(name *syntax.Name) types.Object {
	if obj := info.Defs[name]; obj != nil {
		return obj
	}
	return info.Uses[name]
}

// TypeOf returns the type of expression e, or nil.
func (info *Info) TypeOf(e syntax.Expr) types.Type {
	return info.Types[e].Type
}

// FuncOf returns the function object declared by decl, or nil.
func (info *Info) FuncOf(decl *syntax.FuncDecl) *types.FuncObj {
	fn, _ := info.Defs[decl.Name].(*types.FuncObj)
	return fn
}

// TypeAndValue holds the type and value information for an expression.
type TypeAndValue struct {
	Type  types.Type     // expression type
	Value constant.Value // constant value (nil if not constant)
	mode  operandMode    // operand mode
}

// IsVoid reports whether the expression has no value (void function call).
func (tv TypeAndValue) IsVoid() bool {
	return tv.mode == novalue
}

// IsType reports whether the expression is a type expression.
func (tv TypeAndValue) IsType() bool {
	return tv.mode == typexpr
}

// IsConstant reports whether the expression is a constant.
func (tv TypeAndValue) IsConstant() bool {
	return tv.mode == constant_
}

// IsAddressable reports whether the expression is a local or a field.
func (tv TypeAndValue) IsAddressable() bool {
	return tv.mode == variable
}

// IsValue reports whether the expression has a value.
func (tv TypeAndValue) IsValue() bool {
	return tv.mode == constant_ || tv.mode == variable || tv.mode == value
}

// Check type-checks a parsed file. It builds the unit's symbol table,
// resolves every declaration and body, and returns the sealed table.
//
// Errors from building the table abort checking at once. Otherwise errors
// are batched up to conf.MaxErrors and returned combined; use diag.Errors
// to inspect them. The table is nil unless checking succeeded.
func Check(file *syntax.File, conf *Config, info *Info) (*types.Table, error) {
	if conf == nil {
		conf = &Config{}
	}
	if conf.Sizes == nil {
		conf.Sizes = types.DefaultSizes
	}
	if info == nil {
		info = &Info{}
	}
	if info.Types == nil {
		info.Types = make(map[syntax.Expr]TypeAndValue)
	}
	if info.Defs == nil {
		info.Defs = make(map[*syntax.Name]types.Object)
	}
	if info.Uses == nil {
		info.Uses = make(map[*syntax.Name]types.Object)
	}
	if info.Scopes == nil {
		info.Scopes = make(map[syntax.Node]*types.Scope)
	}
	if info.Calls == nil {
		info.Calls = make(map[*syntax.CallExpr]*CallInfo)
	}
	if info.Inits == nil {
		info.Inits = make(map[*syntax.InitExpr]*InitInfo)
	}

	limit := conf.MaxErrors
	switch {
	case limit == 0:
		limit = DefaultMaxErrors
	case limit < 0:
		limit = 0
	}

	c := &Checker{
		conf:        conf,
		info:        info,
		table:       types.NewTable(),
		errs:        diag.List{Max: limit},
		classScopes: make(map[*types.Class]*types.Scope),
		constDecls:  make(map[*types.Const]*syntax.ConstDecl),
		constState:  make(map[*types.Const]int),
	}

	c.checkFile(file)

	if err := c.errs.Err(); err != nil {
		return nil, err
	}
	return c.table, nil
}
