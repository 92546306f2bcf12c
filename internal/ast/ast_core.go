package ast

import (
	"github.com/funvibe/comprex/internal/token"
)

// Node is any syntax tree node.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	String() string
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a generator binding pattern.
type Pattern interface {
	Node
	patternNode()
}
