package syntax

import (
	"strings"
	"testing"
)

// scanAll returns the tokens and literals of src up to and excluding EOF.
func scanAll(t *testing.T, src string) ([]Token, []string, []string) {
	t.Helper()
	var errs []string
	s := NewScanner("test.kya", strings.NewReader(src), func(line, col uint32, msg string) {
		errs = append(errs, NewPos("test.kya", line, col).String()+": "+msg)
	})
	var toks []Token
	var lits []string
	for {
		s.Next()
		if s.Token() == _EOF {
			break
		}
		toks = append(toks, s.Token())
		lits = append(lits, s.Literal())
	}
	return toks, lits, errs
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
		lits   []string
	}{
		{"ident", "foo", []Token{_Name}, []string{"foo"}},
		{"predeclared", "int true self", []Token{_Name, _Name, _Name}, []string{"int", "true", "self"}},
		{"keywords", "class bound fun extern const let", []Token{_Class, _Bound, _Fun, _Extern, _Const, _Let}, nil},
		{"control", "if else while for in return init", []Token{_If, _Else, _While, _For, _In, _Return, _Init}, nil},
		{"int", "42", []Token{_Literal}, []string{"42"}},
		{"hex", "0x1F", []Token{_Literal}, []string{"0x1F"}},
		{"float", "3.25", []Token{_Literal}, []string{"3.25"}},
		{"exp", "1e-3", []Token{_Literal}, []string{"1e-3"}},
		{"int_dot_name", "1.x", []Token{_Literal, _Dot, _Name}, []string{"1", ".", "x"}},
		{"string", `"a\tb"`, []Token{_Literal}, []string{"a\tb"}},
		{"compare", "== != < <= > >=", []Token{_Eql, _Neq, _Lss, _Leq, _Gtr, _Geq}, nil},
		{"arith", "+ - * / %", []Token{_Add, _Sub, _Mul, _Div, _Rem}, nil},
		{"logic", "&& || !", []Token{_AndAnd, _OrOr, _Not}, nil},
		{"init", "Y:init(y: 6)", []Token{_Name, _Colon, _Init, _Lparen, _Name, _Colon, _Literal, _Rparen}, nil},
		{"range", "[0, n]", []Token{_Lbrack, _Literal, _Comma, _Name, _Rbrack}, nil},
		{"comment", "a // b c\nd", []Token{_Name, _Name}, []string{"a", "d"}},
		{"newlines_are_space", "a\n\n;", []Token{_Name, _Semi}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, lits, errs := scanAll(t, tt.src)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("got %d tokens %v, want %d %v", len(toks), toks, len(tt.tokens), tt.tokens)
			}
			for i := range toks {
				if toks[i] != tt.tokens[i] {
					t.Errorf("token[%d] = %s, want %s", i, toks[i], tt.tokens[i])
				}
			}
			for i, want := range tt.lits {
				if lits[i] != want {
					t.Errorf("lit[%d] = %q, want %q", i, lits[i], want)
				}
			}
		})
	}
}

func TestScanLitKind(t *testing.T) {
	tests := []struct {
		src  string
		kind LitKind
	}{
		{"7", IntLit},
		{"0xff", IntLit},
		{"7.5", FloatLit},
		{"7e2", FloatLit},
		{`"s"`, StringLit},
	}
	for _, tt := range tests {
		s := NewScanner("test.kya", strings.NewReader(tt.src), nil)
		s.Next()
		if s.Token() != _Literal || s.LitKind() != tt.kind {
			t.Errorf("%s: got %s/%s, want LITERAL/%s", tt.src, s.Token(), s.LitKind(), tt.kind)
		}
	}
}

func TestScanPositions(t *testing.T) {
	src := "class A {\n  x: int\n}"
	s := NewScanner("p.kya", strings.NewReader(src), nil)
	want := []string{"p.kya:1:1", "p.kya:1:7", "p.kya:1:9", "p.kya:2:3", "p.kya:2:4", "p.kya:2:6", "p.kya:3:1"}
	for i, w := range want {
		s.Next()
		if got := s.Pos().String(); got != w {
			t.Errorf("token %d (%s) at %s, want %s", i, s.Token(), got, w)
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unterminated", `"abc`, "string not terminated"},
		{"bad_escape", `"\q"`, "unknown escape sequence"},
		{"bad_char", "a @ b", "unexpected character"},
		{"single_amp", "a & b", "did you mean &&"},
		{"exponent", "1e", "exponent has no digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := scanAll(t, tt.src)
			if len(errs) == 0 {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(errs[0], tt.want) {
				t.Errorf("error = %q, want substring %q", errs[0], tt.want)
			}
		})
	}
}

func TestSourceTracksLines(t *testing.T) {
	src := newSource("s", strings.NewReader("a\nb"), nil)
	if src.ch != 'a' || src.line != 1 || src.col != 1 {
		t.Fatalf("start = %q %d:%d", src.ch, src.line, src.col)
	}
	src.nextch()
	src.nextch()
	if src.ch != 'b' || src.line != 2 || src.col != 1 {
		t.Errorf("after newline = %q %d:%d, want 'b' 2:1", src.ch, src.line, src.col)
	}
	src.nextch()
	if src.ch != -1 {
		t.Errorf("ch = %d, want EOF", src.ch)
	}
}

func TestPosCompare(t *testing.T) {
	a := NewPos("f", 1, 5)
	b := NewPos("f", 2, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare ordering wrong: %d %d %d", a.Compare(b), b.Compare(a), a.Compare(a))
	}
	if NoPos.IsValid() {
		t.Error("NoPos should be invalid")
	}
	if got := NewPos("", 3, 4).String(); got != "3:4" {
		t.Errorf("String() = %q, want 3:4", got)
	}
}
