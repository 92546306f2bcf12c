package lexer

import (
	"testing"

	"github.com/funvibe/comprex/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `[(k, v) | {name: n} <- people, x <- 1..10, x % 2 == 0; uniq]
// comment
'a' "h\"i" #b"0101" 1_000 2.5 true nil a.b ++ && || != <= >=`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.LBRACKET, "["},
		{token.LPAREN, "("},
		{token.IDENT, "k"},
		{token.COMMA, ","},
		{token.IDENT, "v"},
		{token.RPAREN, ")"},
		{token.PIPE, "|"},
		{token.LBRACE, "{"},
		{token.IDENT, "name"},
		{token.COLON, ":"},
		{token.IDENT, "n"},
		{token.RBRACE, "}"},
		{token.L_ARROW, "<-"},
		{token.IDENT, "people"},
		{token.COMMA, ","},
		{token.IDENT, "x"},
		{token.L_ARROW, "<-"},
		{token.INT, "1"},
		{token.DOT_DOT, ".."},
		{token.INT, "10"},
		{token.COMMA, ","},
		{token.IDENT, "x"},
		{token.PERCENT, "%"},
		{token.INT, "2"},
		{token.EQ, "=="},
		{token.INT, "0"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "uniq"},
		{token.RBRACKET, "]"},
		{token.CHAR, "'a'"},
		{token.STRING, `"h\"i"`},
		{token.BITS, `#b"0101"`},
		{token.INT, "1_000"},
		{token.FLOAT, "2.5"},
		{token.TRUE, "true"},
		{token.NIL, "nil"},
		{token.IDENT, "a"},
		{token.DOT, "."},
		{token.IDENT, "b"},
		{token.CONCAT, "++"},
		{token.AND, "&&"},
		{token.OR, "||"},
		{token.NOT_EQ, "!="},
		{token.LTE, "<="},
		{token.GTE, ">="},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	toks := Tokenize(`1_000 'x' "a\nb" #b"10"`)
	if got := toks[0].Literal.(int64); got != 1000 {
		t.Errorf("int literal = %d, want 1000", got)
	}
	if got := toks[1].Literal.(int64); got != 'x' {
		t.Errorf("char literal = %d, want %d", got, 'x')
	}
	if got := toks[2].Literal.(string); got != "a\nb" {
		t.Errorf("string literal = %q", got)
	}
	if got := toks[3].Literal.(string); got != "10" {
		t.Errorf("bits literal = %q", got)
	}
	if toks[len(toks)-1].Type != token.EOF {
		t.Errorf("Tokenize must end with EOF")
	}
}

func TestPositions(t *testing.T) {
	toks := Tokenize("a\n  bc")
	if toks[1].Line != 2 || toks[1].Column != 3 {
		t.Errorf("bc at %d:%d, want 2:3", toks[1].Line, toks[1].Column)
	}
}

func TestIllegal(t *testing.T) {
	for _, input := range []string{`"unterminated`, "@", "#x", "="} {
		toks := Tokenize(input)
		if toks[0].Type != token.ILLEGAL {
			t.Errorf("Tokenize(%q)[0] = %s, want ILLEGAL", input, toks[0].Type)
		}
	}
}
