package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/comprex/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

// Tokenize returns every token up to and including EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()
	line, col := l.line, l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.EQ, "==", line, col)
		} else {
			tok = newToken(token.ILLEGAL, l.ch, line, col)
		}
	case '+':
		if l.peekChar() == '+' {
			l.readChar()
			tok = l.twoCharToken(token.CONCAT, "++", line, col)
		} else {
			tok = newToken(token.PLUS, l.ch, line, col)
		}
	case '-':
		tok = newToken(token.MINUS, l.ch, line, col)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, line, col)
	case '/':
		tok = newToken(token.SLASH, l.ch, line, col)
	case '%':
		tok = newToken(token.PERCENT, l.ch, line, col)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.NOT_EQ, "!=", line, col)
		} else {
			tok = newToken(token.BANG, l.ch, line, col)
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.twoCharToken(token.LTE, "<=", line, col)
		case '-':
			l.readChar()
			tok = l.twoCharToken(token.L_ARROW, "<-", line, col)
		default:
			tok = newToken(token.LT, l.ch, line, col)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.GTE, ">=", line, col)
		} else {
			tok = newToken(token.GT, l.ch, line, col)
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = l.twoCharToken(token.AND, "&&", line, col)
		} else {
			tok = newToken(token.ILLEGAL, l.ch, line, col)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.twoCharToken(token.OR, "||", line, col)
		} else {
			tok = newToken(token.PIPE, l.ch, line, col)
		}
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			tok = l.twoCharToken(token.DOT_DOT, "..", line, col)
		} else {
			tok = newToken(token.DOT, l.ch, line, col)
		}
	case ',':
		tok = newToken(token.COMMA, l.ch, line, col)
	case ':':
		tok = newToken(token.COLON, l.ch, line, col)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, line, col)
	case '(':
		tok = newToken(token.LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, line, col)
	case '{':
		tok = newToken(token.LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(token.RBRACE, l.ch, line, col)
	case '"':
		s, err := l.readString()
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: s, Literal: err.Error(), Line: line, Column: col}
		}
		tok = token.Token{Type: token.STRING, Lexeme: strconv.Quote(s), Literal: s, Line: line, Column: col}
	case '\'':
		c, err := l.readCharLiteral()
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: "'", Literal: err.Error(), Line: line, Column: col}
		}
		tok = token.Token{Type: token.CHAR, Lexeme: strconv.QuoteRune(rune(c)), Literal: c, Line: line, Column: col}
	case '#':
		if l.peekChar() != 'b' {
			tok = newToken(token.ILLEGAL, l.ch, line, col)
			break
		}
		l.readChar() // b
		if l.peekChar() != '"' {
			return token.Token{Type: token.ILLEGAL, Lexeme: "#b", Literal: "expected \" after #b", Line: line, Column: col}
		}
		l.readChar() // "
		s, err := l.readString()
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: "#b", Literal: err.Error(), Line: line, Column: col}
		}
		tok = token.Token{Type: token.BITS, Lexeme: "#b" + strconv.Quote(s), Literal: s, Line: line, Column: col}
	case 0:
		return token.Token{Type: token.EOF, Lexeme: "", Literal: "", Line: line, Column: col}
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
		}
		if isDigit(l.ch) {
			return l.readNumber(line, col)
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}

	l.readChar()
	return tok
}

func (l *Lexer) twoCharToken(t token.TokenType, lit string, line, col int) token.Token {
	return token.Token{Type: t, Lexeme: lit, Literal: lit, Line: line, Column: col}
}

// readString reads a double-quoted string with escapes. On return l.ch is the closing quote.
func (l *Lexer) readString() (string, error) {
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0:
			return sb.String(), fmt.Errorf("unterminated string literal")
		case '"':
			return sb.String(), nil
		case '\\':
			r, err := l.readEscape('"')
			if err != nil {
				return sb.String(), err
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(l.ch)
		}
	}
}

// readEscape consumes the char after a backslash.
func (l *Lexer) readEscape(quote rune) (rune, error) {
	l.readChar()
	switch l.ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\':
		return '\\', nil
	case quote:
		return quote, nil
	case 'u':
		val, ok := l.readHexEscape(4)
		if !ok {
			return 0, fmt.Errorf("invalid unicode escape sequence \\uXXXX")
		}
		return rune(val), nil
	case 0:
		return 0, fmt.Errorf("unterminated escape sequence")
	default:
		// Unknown escape, just use the char after backslash
		return l.ch, nil
	}
}

func (l *Lexer) readHexEscape(n int) (int64, bool) {
	var val int64
	for i := 0; i < n; i++ {
		ch := l.peekChar()
		if !isHexDigit(ch) {
			return 0, false
		}
		l.readChar()
		d, _ := strconv.ParseInt(string(ch), 16, 64)
		val = val*16 + d
	}
	return val, true
}

// readCharLiteral reads 'c'. On return l.ch is the closing quote.
func (l *Lexer) readCharLiteral() (int64, error) {
	l.readChar() // skip opening '
	if l.ch == '\'' {
		return 0, fmt.Errorf("empty character literal")
	}

	var char rune
	if l.ch == '\\' {
		r, err := l.readEscape('\'')
		if err != nil {
			return 0, err
		}
		char = r
	} else {
		char = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return 0, fmt.Errorf("unterminated character literal, expected '")
	}
	return int64(char), nil
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber(line, col int) token.Token {
	position := l.position
	isFloat := false

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	// "1..5" is a range, not a float
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[position:l.position]
	text := strings.ReplaceAll(lexeme, "_", "")
	if isFloat {
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: line, Column: col}
		}
		return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
	}
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "integer overflow", Line: line, Column: col}
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		// Line comments
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}
