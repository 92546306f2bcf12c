package ast

import (
	"strings"

	"github.com/funvibe/comprex/internal/token"
)

// ListComprehension represents a comprehension expression.
// Syntax: [expr | generator, filter, ...; option, ...]
// Example: [x * 2 | x <- [1,2,3], x > 1]
type ListComprehension struct {
	Token   token.Token  // The '[' token
	Output  Expression   // The output expression (e.g., x * 2); the step under reduce
	Clauses []CompClause // Generators and filters
	Options CompOptions
}

func (lc *ListComprehension) expressionNode()      {}
func (lc *ListComprehension) TokenLiteral() string { return lc.Token.Lexeme }
func (lc *ListComprehension) GetToken() token.Token {
	if lc == nil {
		return token.Token{}
	}
	return lc.Token
}

func (lc *ListComprehension) String() string {
	clauses := make([]string, len(lc.Clauses))
	for i, c := range lc.Clauses {
		clauses[i] = c.String()
	}
	out := "[" + lc.Output.String() + " | " + strings.Join(clauses, ", ")
	if opts := lc.Options.String(); opts != "" {
		out += "; " + opts
	}
	return out + "]"
}

// Generators returns the generator clauses in order.
func (lc *ListComprehension) Generators() []*CompGenerator {
	var gens []*CompGenerator
	for _, c := range lc.Clauses {
		if g, ok := c.(*CompGenerator); ok {
			gens = append(gens, g)
		}
	}
	return gens
}

// CompOptions are the accumulation options written after ';'.
type CompOptions struct {
	Uniq   bool
	Into   Expression // seed container; nil unless "into" was given
	Reduce Expression // seed accumulator; nil unless "reduce" was given
}

func (o CompOptions) String() string {
	var parts []string
	if o.Uniq {
		parts = append(parts, "uniq")
	}
	if o.Into != nil {
		parts = append(parts, "into "+o.Into.String())
	}
	if o.Reduce != nil {
		parts = append(parts, "reduce "+o.Reduce.String())
	}
	return strings.Join(parts, ", ")
}

// CompClause represents a clause in a list comprehension.
// It can be either a generator (x <- list) or a filter (predicate).
type CompClause interface {
	String() string
	compClauseNode()
}

// CompGenerator represents a generator clause: pattern <- expression
// Example: x <- [1,2,3] or (a, b) <- pairs
type CompGenerator struct {
	Token    token.Token // The '<-' token
	Pattern  Pattern     // The binding pattern
	Iterable Expression  // The expression to iterate over
}

func (cg *CompGenerator) compClauseNode() {}
func (cg *CompGenerator) String() string {
	return cg.Pattern.String() + " <- " + cg.Iterable.String()
}

// CompFilter represents a filter/guard clause: boolean expression
// Example: x > 1
type CompFilter struct {
	Token     token.Token // First token of the condition
	Condition Expression  // The boolean condition
}

func (cf *CompFilter) compClauseNode() {}
func (cf *CompFilter) String() string  { return cf.Condition.String() }
