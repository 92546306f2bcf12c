package ast

import (
	"strings"

	"github.com/funvibe/comprex/internal/token"
)

// IdentifierPattern binds the whole element. "_" binds nothing.
type IdentifierPattern struct {
	Token token.Token
	Value string
}

func (ip *IdentifierPattern) patternNode()          {}
func (ip *IdentifierPattern) TokenLiteral() string  { return ip.Token.Lexeme }
func (ip *IdentifierPattern) GetToken() token.Token { return ip.Token }
func (ip *IdentifierPattern) String() string        { return ip.Value }

// TuplePattern matches a tuple of exactly len(Elements) elements.
type TuplePattern struct {
	Token    token.Token // The '(' token
	Elements []string
}

func (tp *TuplePattern) patternNode()          {}
func (tp *TuplePattern) TokenLiteral() string  { return tp.Token.Lexeme }
func (tp *TuplePattern) GetToken() token.Token { return tp.Token }
func (tp *TuplePattern) String() string        { return "(" + strings.Join(tp.Elements, ", ") + ")" }

// MappingField is one required key of a MappingPattern.
type MappingField struct {
	Key  string
	Name string // bound name; equals Key for the shorthand {key}
}

// MappingPattern matches maps holding every listed key: {name, age: a}.
type MappingPattern struct {
	Token  token.Token // The '{' token
	Fields []MappingField
}

func (mp *MappingPattern) patternNode()          {}
func (mp *MappingPattern) TokenLiteral() string  { return mp.Token.Lexeme }
func (mp *MappingPattern) GetToken() token.Token { return mp.Token }
func (mp *MappingPattern) String() string {
	parts := make([]string, len(mp.Fields))
	for i, f := range mp.Fields {
		if f.Name == f.Key {
			parts[i] = f.Key
		} else {
			parts[i] = f.Key + ": " + f.Name
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
