package parser

import (
	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/token"
)

// parsePattern parses x, _, (a, b, _) or {key, key: name}.
// On failure it records an error and returns nil.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.IDENT:
		return &ast.IdentifierPattern{Token: p.curToken, Value: p.curToken.Lexeme}
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.LBRACE:
		return p.parseMappingPattern()
	default:
		p.errorf(p.curToken, "expected a pattern, got %s", describe(p.curToken))
		return nil
	}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	tp := &ast.TuplePattern{Token: p.curToken, Elements: []string{}}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return tp
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		tp.Elements = append(tp.Elements, p.curToken.Lexeme)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return tp
}

func (p *Parser) parseMappingPattern() ast.Pattern {
	mp := &ast.MappingPattern{Token: p.curToken}

	for {
		p.nextToken()
		var key string
		switch p.curToken.Type {
		case token.IDENT:
			key = p.curToken.Lexeme
		case token.STRING:
			key = p.curToken.Literal.(string)
		default:
			p.errorf(p.curToken, "expected a key in mapping pattern, got %s", describe(p.curToken))
			return nil
		}

		field := ast.MappingField{Key: key, Name: key}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			field.Name = p.curToken.Lexeme
		} else if p.curTokenIs(token.STRING) {
			p.errorf(p.curToken, "quoted key %q needs a name: {%q: name}", key, key)
			return nil
		}
		mp.Fields = append(mp.Fields, field)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return mp
}
