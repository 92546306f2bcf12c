package parser

import (
	"errors"
	"fmt"

	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/lexer"
	"github.com/funvibe/comprex/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 200

const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	RANGE       // ..
	CONCAT      // ++
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	POSTFIX     // f(x) x[i] x.f
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GT:       LESSGREATER,
	token.GTE:      LESSGREATER,
	token.DOT_DOT:  RANGE,
	token.CONCAT:   CONCAT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
}

// Error is a syntax error at a token position.
type Error struct {
	Token token.Token
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Line, e.Token.Column, e.Msg)
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int // index of curToken

	curToken  token.Token
	peekToken token.Token

	errors []error
	depth  int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(input string) *Parser {
	p := &Parser{tokens: lexer.Tokenize(input), pos: -1}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.CHAR:     p.parseCharLiteral,
		token.BITS:     p.parseBitsLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.NIL:      p.parseNil,
		token.MINUS:    p.parsePrefixExpression,
		token.BANG:     p.parsePrefixExpression,
		token.LPAREN:   p.parseParenExpression,
		token.LBRACKET: p.parseListOrComprehension,
		token.LBRACE:   p.parseMapLiteral,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.DOT:      p.parseMemberExpression,
		token.DOT_DOT:  p.parseRangeExpression,
	}
	for _, t := range []token.TokenType{
		token.OR, token.AND, token.EQ, token.NOT_EQ, token.LT, token.LTE, token.GT, token.GTE,
		token.CONCAT, token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
	} {
		p.infixParseFns[t] = p.parseInfixExpression
	}

	// Set curToken and peekToken
	p.nextToken()
	return p
}

func (p *Parser) tokenAt(i int) token.Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1] // EOF
}

func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
}

// reset rewinds to a saved position and drops errors recorded since.
func (p *Parser) reset(pos, errCount int) {
	p.pos = pos
	p.curToken = p.tokenAt(pos)
	p.peekToken = p.tokenAt(pos + 1)
	p.errors = p.errors[:errCount]
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{Token: tok, Msg: fmt.Sprintf(format, args...)})
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorf(p.peekToken, "expected %s, got %s", t, describe(p.peekToken))
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		if msg, ok := tok.Literal.(string); ok && msg != tok.Lexeme {
			return fmt.Sprintf("illegal token %q (%s)", tok.Lexeme, msg)
		}
		return fmt.Sprintf("illegal token %q", tok.Lexeme)
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}

// Errors returns the syntax errors collected so far.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return errors.Join(p.errors...)
}

// ParseExpression parses the whole input as one expression.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	expr := p.parseExpression(LOWEST)
	if expr != nil && !p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "unexpected %s after expression", describe(p.peekToken))
	}
	if err := p.err(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParsePattern parses the whole input as one binding pattern.
func (p *Parser) ParsePattern() (ast.Pattern, error) {
	pat := p.parsePattern()
	if pat != nil && !p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "unexpected %s after pattern", describe(p.peekToken))
	}
	if pat == nil && len(p.errors) == 0 {
		p.errorf(p.curToken, "expected a pattern, got %s", describe(p.curToken))
	}
	if err := p.err(); err != nil {
		return nil, err
	}
	return pat, nil
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string) (ast.Expression, error) {
	return New(src).ParseExpression()
}

// ParsePattern parses src as a single binding pattern.
func ParsePattern(src string) (ast.Pattern, error) {
	return New(src).ParsePattern()
}

// ParseComprehension parses src and requires a comprehension.
func ParseComprehension(src string) (*ast.ListComprehension, error) {
	expr, err := ParseExpression(src)
	if err != nil {
		return nil, err
	}
	comp, ok := expr.(*ast.ListComprehension)
	if !ok {
		return nil, &Error{Token: expr.GetToken(), Msg: "expected a comprehension [body | generators]"}
	}
	return comp, nil
}
