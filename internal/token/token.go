package token

import "fmt"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"
	CHAR   = "CHAR"
	BITS   = "BITS" // #b"0101"

	// Operators
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	CONCAT   = "++"
	BANG     = "!"
	EQ       = "=="
	NOT_EQ   = "!="
	LT       = "<"
	LTE      = "<="
	GT       = ">"
	GTE      = ">="
	AND      = "&&"
	OR       = "||"
	DOT_DOT  = ".."
	L_ARROW  = "<-"
	PIPE     = "|"

	// Delimiters
	COMMA     = ","
	COLON     = ":"
	SEMICOLON = ";"
	DOT       = "."
	LPAREN    = "("
	RPAREN    = ")"
	LBRACKET  = "["
	RBRACKET  = "]"
	LBRACE    = "{"
	RBRACE    = "}"

	// Keywords
	TRUE  = "TRUE"
	FALSE = "FALSE"
	NIL   = "NIL"
)

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
