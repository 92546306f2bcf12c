package parser

import (
	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.IntegerLiteral{Token: p.curToken, Value: p.curToken.Literal.(int64)}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.FloatLiteral{Token: p.curToken, Value: p.curToken.Literal.(float64)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	return &ast.CharLiteral{Token: p.curToken, Value: p.curToken.Literal.(int64)}
}

func (p *Parser) parseBitsLiteral() ast.Expression {
	return &ast.BitsLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNil() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

// parseParenExpression handles (), (x), (x,) and (x, y, ...).
func (p *Parser) parseParenExpression() ast.Expression {
	tok := p.curToken

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: tok, Elements: []ast.Expression{}}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return first
	}
	if !p.peekTokenIs(token.COMMA) {
		p.peekError(token.RPAREN)
		return nil
	}

	elements := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		elements = append(elements, expr)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TupleLiteral{Token: tok, Elements: elements}
}

// parseListOrComprehension handles [a, b] and [body | clauses; options].
func (p *Parser) parseListOrComprehension() ast.Expression {
	tok := p.curToken

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListLiteral{Token: tok, Elements: []ast.Expression{}}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.PIPE) {
		p.nextToken()
		return p.parseComprehension(tok, first)
	}

	elements := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		elements = append(elements, expr)
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ListLiteral{Token: tok, Elements: elements}
}

// parseComprehension parses the part after '|'. curToken is the '|'.
func (p *Parser) parseComprehension(tok token.Token, output ast.Expression) ast.Expression {
	comp := &ast.ListComprehension{Token: tok, Output: output}

	for {
		p.nextToken()
		clause := p.parseCompClause()
		if clause == nil {
			return nil
		}
		comp.Clauses = append(comp.Clauses, clause)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // consume comma
	}

	if len(comp.Generators()) == 0 {
		p.errorf(tok, "comprehension needs at least one generator (pattern <- source)")
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		if !p.parseCompOptions(&comp.Options) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return comp
}

// parseCompClause parses a single clause in a list comprehension
// Either a generator (pattern <- iterable) or a filter (boolean expression)
func (p *Parser) parseCompClause() ast.CompClause {
	clauseToken := p.curToken
	savedPos, savedErrs := p.pos, len(p.errors)

	// Try to parse as generator first
	if pattern := p.parsePattern(); pattern != nil && p.peekTokenIs(token.L_ARROW) {
		p.nextToken() // consume <-
		arrow := p.curToken
		p.nextToken() // move to iterable expression

		iterable := p.parseExpression(LOWEST)
		if iterable == nil {
			return nil
		}
		return &ast.CompGenerator{Token: arrow, Pattern: pattern, Iterable: iterable}
	}

	// Not a generator: rewind and parse as a filter expression
	p.reset(savedPos, savedErrs)
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.CompFilter{Token: clauseToken, Condition: expr}
}

// parseCompOptions parses "uniq, into SEED, reduce SEED". curToken is the ';'.
func (p *Parser) parseCompOptions(opts *ast.CompOptions) bool {
	for {
		if !p.expectPeek(token.IDENT) {
			return false
		}
		switch p.curToken.Lexeme {
		case config.OptionUniq:
			opts.Uniq = true
		case config.OptionInto:
			p.nextToken()
			if opts.Into = p.parseExpression(LOWEST); opts.Into == nil {
				return false
			}
		case config.OptionReduce:
			p.nextToken()
			if opts.Reduce = p.parseExpression(LOWEST); opts.Reduce == nil {
				return false
			}
		default:
			p.errorf(p.curToken, "unknown comprehension option %q (want uniq, into or reduce)", p.curToken.Lexeme)
			return false
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if opts.Into != nil && opts.Reduce != nil {
		p.errorf(p.curToken, "into and reduce cannot be combined")
		return false
	}
	if opts.Uniq && opts.Reduce != nil {
		p.errorf(p.curToken, "uniq and reduce cannot be combined")
		return false
	}
	return true
}

// parseMapLiteral handles {} and {key: value, ...}. A bare identifier key is a string key.
func (p *Parser) parseMapLiteral() ast.Expression {
	ml := &ast.MapLiteral{Token: p.curToken}

	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return ml
	}

	for {
		p.nextToken()
		var key ast.Expression
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			key = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}
		} else {
			key = p.parseExpression(LOWEST)
			if key == nil {
				return nil
			}
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		ml.Entries = append(ml.Entries, ast.MapEntry{Key: key, Value: value})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return ml
}
