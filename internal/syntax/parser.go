package syntax

import "io"

// Maximum number of errors before aborting parse.
const maxErrors = 10

// SyntaxError is a parse or scan error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser is a recursive-descent parser for kyanite source.
type Parser struct {
	scanner  *Scanner
	filename string

	tok Token
	lit string
	pos Pos

	errh   func(pos Pos, msg string)
	errcnt int
	first  error
	abort  bool

	class *Name // enclosing class while parsing methods
}

// NewParser returns a parser reading src. errh receives every syntax error
// and may be nil.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{filename: filename, errh: errh}
	p.scanner = NewScanner(filename, src, func(line, col uint32, msg string) {
		p.syntaxErrorAt(NewPos(filename, line, col), msg)
	})
	p.next()
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
}

// got consumes tok if it is the current token.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String() + ", found " + p.tokDesc())
		p.advance()
	}
}

func (p *Parser) tokDesc() string {
	switch p.tok {
	case _Name:
		return "name " + p.lit
	case _Literal:
		return "literal " + p.lit
	}
	return p.tok.String()
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++
	if p.errh != nil {
		p.errh(pos, msg)
	}
	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors; aborting parse")
		}
		p.tok = _EOF
	}
}

// advance skips to the next synchronization token for error recovery.
// A ';' is consumed; block and declaration starters are left in place.
func (p *Parser) advance() {
	for {
		switch p.tok {
		case _EOF, _Rbrace, _Lbrace, _Class, _Bound, _Fun, _Extern, _Const,
			_Let, _If, _While, _For, _Return:
			return
		case _Semi:
			p.next()
			return
		}
		p.next()
	}
}

// Errors returns the number of errors reported so far.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error, or nil.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Entry point

// Parse parses a whole file.
func (p *Parser) Parse() *File {
	f := &File{Filename: p.filename}
	f.pos = p.pos

	for !p.abort && p.tok != _EOF {
		start := p.pos
		if d := p.decl(); d != nil {
			f.Decls = append(f.Decls, d)
		}
		if p.pos == start && p.tok != _EOF {
			// no progress; drop the token
			p.next()
		}
	}
	return f
}

func (p *Parser) name() *Name {
	n := &Name{Value: "_"}
	n.pos = p.pos
	if p.tok != _Name {
		p.syntaxError("expected name, found " + p.tokDesc())
		return n
	}
	n.Value = p.lit
	p.next()
	return n
}

// ----------------------------------------------------------------------------
// Declarations

func (p *Parser) decl() Decl {
	switch p.tok {
	case _Class:
		return p.classDecl()
	case _Bound:
		return p.boundDecl()
	case _Fun:
		return p.funcDecl(false)
	case _Extern:
		return p.funcDecl(true)
	case _Const:
		return p.constDecl()
	default:
		p.syntaxError("expected class, bound, fun, extern or const, found " + p.tokDesc())
		p.advance()
		return nil
	}
}

// classDecl parses class Name<T: B> : Parent { fields methods }.
func (p *Parser) classDecl() *ClassDecl {
	d := &ClassDecl{}
	d.pos = p.pos

	p.want(_Class)
	d.Name = p.name()
	if p.tok == _Lss {
		d.TParams = p.typeParams()
	}
	if p.got(_Colon) {
		d.Parent = p.name()
	}
	p.want(_Lbrace)

	// fields are comma separated and precede the methods
	for p.tok == _Name {
		d.Fields = append(d.Fields, p.field())
		if !p.got(_Comma) {
			break
		}
	}

	outer := p.class
	p.class = d.Name
	for !p.abort && p.tok == _Fun {
		d.Methods = append(d.Methods, p.funcDecl(false))
	}
	p.class = outer

	p.want(_Rbrace)
	return d
}

// boundDecl parses bound Name { fun m(self, x: T): R; ... }.
func (p *Parser) boundDecl() *BoundDecl {
	d := &BoundDecl{}
	d.pos = p.pos

	p.want(_Bound)
	d.Name = p.name()
	p.want(_Lbrace)

	outer := p.class
	p.class = d.Name
	for !p.abort && p.tok == _Fun {
		m := p.signature()
		p.want(_Semi)
		d.Methods = append(d.Methods, m)
	}
	p.class = outer

	p.want(_Rbrace)
	return d
}

func (p *Parser) typeParams() []*TypeParam {
	var list []*TypeParam
	p.want(_Lss)
	for p.tok == _Name {
		tp := &TypeParam{}
		tp.pos = p.pos
		tp.Name = p.name()
		if p.got(_Colon) {
			tp.Bound = p.name()
		}
		list = append(list, tp)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Gtr)
	return list
}

func (p *Parser) field() *Field {
	f := &Field{}
	f.pos = p.pos
	f.Name = p.name()
	p.want(_Colon)
	f.Type = p.type_()
	return f
}

// signature parses fun Name<T>(params): Result, without a body.
// Inside a class or bound the first parameter is the untyped receiver.
func (p *Parser) signature() *FuncDecl {
	d := &FuncDecl{}
	d.pos = p.pos

	p.want(_Fun)
	d.Name = p.name()
	if p.tok == _Lss {
		d.TParams = p.typeParams()
	}

	p.want(_Lparen)
	if p.class != nil {
		if p.tok != _Name {
			p.syntaxError("method " + d.Name.Value + " must declare a receiver")
		} else {
			d.Recv = p.name()
			if p.tok == _Colon {
				p.syntaxError("receiver " + d.Recv.Value + " must not have a type")
				p.next()
				p.type_()
			}
			if p.tok != _Rparen {
				p.want(_Comma)
			}
		}
	}
	for p.tok == _Name {
		d.Params = append(d.Params, p.field())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)

	if p.got(_Colon) {
		d.Result = p.type_()
	}
	return d
}

func (p *Parser) funcDecl(extern bool) *FuncDecl {
	pos := p.pos
	if extern {
		p.want(_Extern)
	}
	d := p.signature()
	d.pos = pos
	d.Extern = extern
	if extern {
		p.got(_Semi)
		return d
	}
	d.Body = p.blockStmt()
	return d
}

func (p *Parser) constDecl() *ConstDecl {
	d := &ConstDecl{}
	d.pos = p.pos

	p.want(_Const)
	d.Name = p.name()
	p.want(_Colon)
	d.Type = p.type_()
	p.want(_Assign)
	d.Value = p.expr()
	p.want(_Semi)
	return d
}

// type_ parses Name or Name<Args>.
func (p *Parser) type_() Expr {
	n := p.name()
	if p.tok != _Lss {
		return n
	}
	t := &InstType{Base: n}
	t.pos = n.Pos()
	p.next()
	for {
		t.Args = append(t.Args, p.type_())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Gtr)
	return t
}

// ----------------------------------------------------------------------------
// Statements

func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		return p.blockStmt()
	case _Let:
		return p.letStmt()
	case _If:
		return p.ifStmt()
	case _While:
		return p.whileStmt()
	case _For:
		return p.forStmt()
	case _Return:
		return p.returnStmt()
	case _Semi:
		s := &EmptyStmt{}
		s.pos = p.pos
		p.next()
		return s
	default:
		return p.simpleStmt()
	}
}

// simpleStmt parses an expression statement or an assignment.
func (p *Parser) simpleStmt() Stmt {
	pos := p.pos
	x := p.expr()

	if p.got(_Assign) {
		s := &AssignStmt{LHS: x}
		s.pos = pos
		s.RHS = p.expr()
		p.want(_Semi)
		return s
	}

	s := &ExprStmt{X: x}
	s.pos = pos
	p.want(_Semi)
	return s
}

func (p *Parser) letStmt() Stmt {
	s := &LetStmt{}
	s.pos = p.pos

	p.want(_Let)
	s.Name = p.name()
	p.want(_Colon)
	s.Type = p.type_()
	p.want(_Assign)
	s.Value = p.expr()
	p.want(_Semi)
	return s
}

func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos

	p.want(_Lbrace)
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		start := p.pos
		b.Stmts = append(b.Stmts, p.stmt())
		if p.pos == start {
			p.next()
		}
	}
	b.Rbrace = p.pos
	p.want(_Rbrace)
	return b
}

func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If)
	s.Cond = p.expr()
	s.Then = p.blockStmt()

	if p.got(_Else) {
		if p.tok == _If {
			s.Else = p.ifStmt()
		} else {
			s.Else = p.blockStmt()
		}
	}
	return s
}

func (p *Parser) whileStmt() Stmt {
	s := &WhileStmt{}
	s.pos = p.pos

	p.want(_While)
	s.Cond = p.expr()
	s.Body = p.blockStmt()
	return s
}

// forStmt parses for i in [lo, hi] { body }.
func (p *Parser) forStmt() Stmt {
	s := &ForStmt{}
	s.pos = p.pos

	p.want(_For)
	s.Var = p.name()
	p.want(_In)

	r := &RangeExpr{}
	r.pos = p.pos
	p.want(_Lbrack)
	r.Start = p.expr()
	p.want(_Comma)
	r.End = p.expr()
	p.want(_Rbrack)
	s.Range = r

	s.Body = p.blockStmt()
	return s
}

func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{}
	s.pos = p.pos

	p.want(_Return)
	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}
	p.want(_Semi)
	return s
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) expr() Expr {
	return p.binaryExpr(0)
}

// binaryExpr parses operators binding tighter than prec (precedence
// climbing, left associative).
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()
	for {
		oprec := p.tok.Precedence()
		if oprec <= prec {
			return x
		}
		op := &Operation{Op: p.tok, X: x}
		op.pos = x.Pos()
		p.next()
		op.Y = p.binaryExpr(oprec)
		x = op
	}
}

func (p *Parser) unaryExpr() Expr {
	switch p.tok {
	case _Not, _Sub:
		op := &Operation{Op: p.tok}
		op.pos = p.pos
		p.next()
		op.X = p.unaryExpr()
		return op
	}
	return p.primaryExpr()
}

// primaryExpr parses an operand followed by calls and selectors.
func (p *Parser) primaryExpr() Expr {
	x := p.operand()
	for {
		switch p.tok {
		case _Lparen:
			x = p.callExpr(x)
		case _Dot:
			sel := &SelectorExpr{X: x}
			sel.pos = x.Pos()
			p.next()
			sel.Sel = p.name()
			x = sel
		default:
			return x
		}
	}
}

func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name:
		n := &Name{Value: p.lit}
		n.pos = p.pos
		p.next()
		if p.tok == _Colon {
			return p.initExpr(n)
		}
		return n

	case _Literal:
		lit := &BasicLit{Value: p.lit, Kind: p.scanner.LitKind()}
		lit.pos = p.pos
		p.next()
		return lit

	case _Lparen:
		paren := &ParenExpr{}
		paren.pos = p.pos
		p.next()
		paren.X = p.expr()
		p.want(_Rparen)
		return paren

	default:
		p.syntaxError("expected expression, found " + p.tokDesc())
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}
}

// initExpr parses :init(name: value, ...) after the class name.
func (p *Parser) initExpr(typ *Name) Expr {
	x := &InitExpr{Type: typ}
	x.pos = typ.Pos()

	p.want(_Colon)
	p.want(_Init)
	p.want(_Lparen)
	for p.tok == _Name {
		kv := &KeyValueExpr{}
		kv.pos = p.pos
		kv.Key = p.name()
		p.want(_Colon)
		kv.Value = p.expr()
		x.Elems = append(x.Elems, kv)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return x
}

func (p *Parser) callExpr(fun Expr) Expr {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()

	p.want(_Lparen)
	if p.tok != _Rparen {
		call.Args = append(call.Args, p.expr())
		for p.got(_Comma) {
			call.Args = append(call.Args, p.expr())
		}
	}
	p.want(_Rparen)
	return call
}
