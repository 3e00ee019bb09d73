package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner tokenizes kyanite source. Statements are terminated by explicit
// semicolons; newlines are plain whitespace.
type Scanner struct {
	source

	tok    Token
	lit    string
	kind   LitKind // valid when tok == _Literal
	tokPos Pos

	litBuf strings.Builder
}

// NewScanner returns a scanner over src. errh receives lexical errors and
// may be nil.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}
}

func (s *Scanner) Token() Token     { return s.tok }
func (s *Scanner) Literal() string  { return s.lit }
func (s *Scanner) LitKind() LitKind { return s.kind }
func (s *Scanner) Pos() Pos         { return s.tokPos }

func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a decimal integer, a 0x hexadecimal integer, or a float
// with a fraction and/or exponent. A '.' not followed by a digit ends the
// number so that "1.f" still scans as 1 . f.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.kind = IntLit
	s.tok = _Literal

	if s.ch == '0' && lower(s.peek()) == 'x' {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		if !isHexDigit(s.ch) {
			s.error("invalid hex digit")
		}
		for isHexDigit(s.ch) {
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
		s.lit = s.litBuf.String()
		return
	}

	s.digits()
	if s.ch == '.' && isDigit(s.peek()) {
		s.kind = FloatLit
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		s.digits()
	}
	if lower(s.ch) == 'e' {
		s.kind = FloatLit
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
		if !isDigit(s.ch) {
			s.error("exponent has no digits")
		}
		s.digits()
	}
	s.lit = s.litBuf.String()
}

func (s *Scanner) digits() {
	for isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
}

// scanString scans a string literal; lit holds the decoded contents.
func (s *Scanner) scanString() {
	s.nextch()
	var b strings.Builder
	s.tok = _Literal
	s.kind = StringLit

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			return
		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				b.WriteRune(r)
			}
		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = b.String()
			return
		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch()
	var r rune
	switch s.ch {
	case 'n':
		r = '\n'
	case 't':
		r = '\t'
	case 'r':
		r = '\r'
	case '\\':
		r = '\\'
	case '"':
		r = '"'
	case '0':
		r = 0
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return 0, false
	}
	s.nextch()
	return r, true
}

// scanOperator scans an operator or delimiter. It reports true when it
// consumed a comment instead.
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	// two-character operators
	two := func(next rune, long, short Token) {
		if s.ch == next {
			s.nextch()
			s.tok = long
		} else {
			s.tok = short
		}
	}

	switch ch {
	case '+':
		s.tok = _Add
	case '-':
		s.tok = _Sub
	case '*':
		s.tok = _Mul
	case '/':
		if s.ch == '/' {
			for s.ch != '\n' && s.ch >= 0 {
				s.nextch()
			}
			return true
		}
		s.tok = _Div
	case '%':
		s.tok = _Rem
	case '&':
		if s.ch != '&' {
			s.error("unexpected character '&'; did you mean &&?")
		} else {
			s.nextch()
		}
		s.tok = _AndAnd
	case '|':
		if s.ch != '|' {
			s.error("unexpected character '|'; did you mean ||?")
		} else {
			s.nextch()
		}
		s.tok = _OrOr
	case '<':
		two('=', _Leq, _Lss)
	case '>':
		two('=', _Geq, _Gtr)
	case '=':
		two('=', _Eql, _Assign)
	case '!':
		two('=', _Neq, _Not)
	case ':':
		s.tok = _Colon
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case '[':
		s.tok = _Lbrack
	case ']':
		s.tok = _Rbrack
	case '{':
		s.tok = _Lbrace
	case '}':
		s.tok = _Rbrace
	case ',':
		s.tok = _Comma
	case ';':
		s.tok = _Semi
	case '.':
		s.tok = _Dot
	}
	s.lit = s.tok.String()
	return false
}
