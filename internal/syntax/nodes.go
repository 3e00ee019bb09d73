package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Nodes come in three classes: expressions, statements and declarations.
// Type expressions reuse the Expr interface (*Name and *InstType).

// Node is implemented by all syntax tree nodes.
type Node interface {
	Pos() Pos
	aNode()
}

type Expr interface {
	Node
	aExpr()
}

type Stmt interface {
	Node
	aStmt()
}

type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Files and declarations

// File is one compilation unit.
type File struct {
	node
	Filename string
	Decls    []Decl
}

// Classes returns the class declarations of f in source order.
func (f *File) Classes() []*ClassDecl {
	var list []*ClassDecl
	for _, d := range f.Decls {
		if c, ok := d.(*ClassDecl); ok {
			list = append(list, c)
		}
	}
	return list
}

// Funcs returns the top-level function declarations of f in source order.
// Methods are reached through their ClassDecl.
func (f *File) Funcs() []*FuncDecl {
	var list []*FuncDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			list = append(list, fn)
		}
	}
	return list
}

// ClassDecl is
//
//	class Name<TParams> : Parent { Fields Methods }
type ClassDecl struct {
	decl
	Name    *Name
	TParams []*TypeParam
	Parent  *Name // nil for a root class
	Fields  []*Field
	Methods []*FuncDecl
}

// BoundDecl is
//
//	bound Name { fun m(self, ...): R; ... }
type BoundDecl struct {
	decl
	Name    *Name
	Methods []*FuncDecl // Body is always nil
}

// FuncDecl is a function, extern function, method, or bound method
// signature.
//
//	fun Name<TParams>(Recv, Params): Result Body
type FuncDecl struct {
	decl
	Recv    *Name // receiver name for methods, nil otherwise
	Name    *Name
	TParams []*TypeParam
	Params  []*Field
	Result  Expr // nil means void
	Body    *BlockStmt
	Extern  bool
}

// ConstDecl is
//
//	const Name: Type = Value;
type ConstDecl struct {
	decl
	Name  *Name
	Type  Expr
	Value Expr
}

// TypeParam is Name or Name: Bound.
type TypeParam struct {
	node
	Name  *Name
	Bound *Name // nil if unbounded
}

// Field is a class field or a parameter: Name: Type.
type Field struct {
	node
	Name *Name
	Type Expr
}

// ----------------------------------------------------------------------------
// Expressions

// Name is an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit is an int, float or string literal.
type BasicLit struct {
	expr
	Value string
	Kind  LitKind
}

// InstType is a generic type application in type position: Base<Args>.
type InstType struct {
	expr
	Base *Name
	Args []Expr
}

// Operation is a unary (Y == nil) or binary expression.
type Operation struct {
	expr
	Op Token
	X  Expr
	Y  Expr
}

// CallExpr is Fun(Args). Fun is a *Name for function calls and a
// *SelectorExpr for method calls.
type CallExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// SelectorExpr is X.Sel.
type SelectorExpr struct {
	expr
	X   Expr
	Sel *Name
}

// InitExpr is the initializer sugar Type:init(name: value, ...).
type InitExpr struct {
	expr
	Type  *Name
	Elems []*KeyValueExpr
}

// KeyValueExpr is Key: Value inside an initializer.
type KeyValueExpr struct {
	expr
	Key   *Name
	Value Expr
}

// ParenExpr is (X).
type ParenExpr struct {
	expr
	X Expr
}

// RangeExpr is [Start, End], the inclusive bounds of a for loop.
type RangeExpr struct {
	expr
	Start Expr
	End   Expr
}

// ----------------------------------------------------------------------------
// Statements

type EmptyStmt struct {
	stmt
}

type ExprStmt struct {
	stmt
	X Expr
}

// LetStmt is let Name: Type = Value;
type LetStmt struct {
	stmt
	Name  *Name
	Type  Expr
	Value Expr
}

// AssignStmt is LHS = RHS; LHS is a *Name or *SelectorExpr.
type AssignStmt struct {
	stmt
	LHS Expr
	RHS Expr
}

type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos
}

// IfStmt is if Cond Then else Else; Else is nil, *IfStmt or *BlockStmt.
type IfStmt struct {
	stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

type WhileStmt struct {
	stmt
	Cond Expr
	Body *BlockStmt
}

// ForStmt is for Var in Range Body.
type ForStmt struct {
	stmt
	Var   *Name
	Range *RangeExpr
	Body  *BlockStmt
}

// ReturnStmt is return Result; Result is nil for a bare return.
type ReturnStmt struct {
	stmt
	Result Expr
}

// ----------------------------------------------------------------------------
// Helpers

// Unparen strips any number of enclosing parentheses.
func Unparen(x Expr) Expr {
	for {
		p, ok := x.(*ParenExpr)
		if !ok {
			return x
		}
		x = p.X
	}
}
