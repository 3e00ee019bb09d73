// Package syntax implements the kyanite front end: scanner, parser and
// the unresolved syntax tree handed to the type checker.
package syntax

import "fmt"

// Token is the type of a lexical token.
type Token uint

const (
	_EOF Token = iota

	_Name
	_Literal

	// operators
	_Assign // =

	_OrOr   // ||
	_AndAnd // &&

	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	_Add // +
	_Sub // -

	_Mul // *
	_Div // /
	_Rem // %

	_Not // !

	// delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Colon  // :
	_Dot    // .

	// keywords
	_Bound
	_Class
	_Const
	_Else
	_Extern
	_For
	_Fun
	_If
	_In
	_Init
	_Let
	_Return
	_While

	tokenCount
)

var tokenNames = [...]string{
	_EOF:     "EOF",
	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_OrOr:   "||",
	_AndAnd: "&&",
	_Eql:    "==",
	_Neq:    "!=",
	_Lss:    "<",
	_Leq:    "<=",
	_Gtr:    ">",
	_Geq:    ">=",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Rem:    "%",
	_Not:    "!",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",
	_Dot:    ".",

	_Bound:  "bound",
	_Class:  "class",
	_Const:  "const",
	_Else:   "else",
	_Extern: "extern",
	_For:    "for",
	_Fun:    "fun",
	_If:     "if",
	_In:     "in",
	_Init:   "init",
	_Let:    "let",
	_Return: "return",
	_While:  "while",
}

func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the binding strength of a binary operator, or 0.
//
//	1: ||
//	2: &&
//	3: == !=
//	4: < <= > >=
//	5: + -
//	6: * / %
func (t Token) Precedence() int {
	switch t {
	case _OrOr:
		return 1
	case _AndAnd:
		return 2
	case _Eql, _Neq:
		return 3
	case _Lss, _Leq, _Gtr, _Geq:
		return 4
	case _Add, _Sub:
		return 5
	case _Mul, _Div, _Rem:
		return 6
	}
	return 0
}

func (t Token) IsKeyword() bool  { return t >= _Bound && t <= _While }
func (t Token) IsOperator() bool { return t >= _Assign && t <= _Not }
func (t Token) IsEOF() bool      { return t == _EOF }

// IsComparison reports whether t yields a bool from two operands.
func (t Token) IsComparison() bool {
	switch t {
	case _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq:
		return true
	}
	return false
}

// IsOrdering reports whether t is one of < <= > >=.
func (t Token) IsOrdering() bool {
	switch t {
	case _Lss, _Leq, _Gtr, _Geq:
		return true
	}
	return false
}

// IsLogical reports whether t is && or ||.
func (t Token) IsLogical() bool {
	return t == _AndAnd || t == _OrOr
}

// Operator tokens referenced by later phases.
const (
	OrOr   = _OrOr
	AndAnd = _AndAnd
	Eql    = _Eql
	Neq    = _Neq
	Lss    = _Lss
	Leq    = _Leq
	Gtr    = _Gtr
	Geq    = _Geq
	Add    = _Add
	Sub    = _Sub
	Mul    = _Mul
	Div    = _Div
	Rem    = _Rem
	Not    = _Not
)

// LitKind is the kind of a literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 42
	FloatLit                 // 3.5
	StringLit                // "hi\n"
)

var litKindNames = [...]string{
	IntLit:    "int",
	FloatLit:  "float",
	StringLit: "string",
}

func (k LitKind) String() string {
	if k <= StringLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps reserved words to tokens. The literals true and false and
// the primitive type names are predeclared names, not keywords.
var keywords = map[string]Token{
	"bound":  _Bound,
	"class":  _Class,
	"const":  _Const,
	"else":   _Else,
	"extern": _Extern,
	"for":    _For,
	"fun":    _Fun,
	"if":     _If,
	"in":     _In,
	"init":   _Init,
	"let":    _Let,
	"return": _Return,
	"while":  _While,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
