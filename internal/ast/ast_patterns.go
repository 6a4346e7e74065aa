package ast

import (
	"github.com/thelilylang/lily-sub007/internal/token"
)

// Pattern is a pattern as written in the source.
type Pattern interface {
	Node
	patternNode()
}

// ArrayPattern matches an array element-wise: [a, b, c].
type ArrayPattern struct {
	Token    token.Token
	Patterns []Pattern
}

func (p *ArrayPattern) GetToken() token.Token       { return p.Token }
func (p *ArrayPattern) GetLocation() token.Location { return p.Token.Location }
func (p *ArrayPattern) patternNode()                {}

// AsPattern binds a name to an inner pattern: inner as name.
type AsPattern struct {
	Token token.Token
	Inner Pattern
	Name  string
}

func (p *AsPattern) GetToken() token.Token       { return p.Token }
func (p *AsPattern) GetLocation() token.Location { return p.Token.Location }
func (p *AsPattern) patternNode()                {}

// AutoCompletePattern is the `..` rest pattern inside records/arrays.
type AutoCompletePattern struct {
	Token token.Token
}

func (p *AutoCompletePattern) GetToken() token.Token       { return p.Token }
func (p *AutoCompletePattern) GetLocation() token.Location { return p.Token.Location }
func (p *AutoCompletePattern) patternNode()                {}

// ErrorPattern matches an error value: error Name(payload).
type ErrorPattern struct {
	Token   token.Token
	Name    string
	Payload Pattern // Optional
}

func (p *ErrorPattern) GetToken() token.Token       { return p.Token }
func (p *ErrorPattern) GetLocation() token.Location { return p.Token.Location }
func (p *ErrorPattern) patternNode()                {}

// ListPattern matches a list element-wise.
type ListPattern struct {
	Token    token.Token
	Patterns []Pattern
}

func (p *ListPattern) GetToken() token.Token       { return p.Token }
func (p *ListPattern) GetLocation() token.Location { return p.Token.Location }
func (p *ListPattern) patternNode()                {}

// ListHeadPattern destructures head -> tail.
type ListHeadPattern struct {
	Token token.Token
	Left  Pattern
	Right Pattern
}

func (p *ListHeadPattern) GetToken() token.Token       { return p.Token }
func (p *ListHeadPattern) GetLocation() token.Location { return p.Token.Location }
func (p *ListHeadPattern) patternNode()                {}

// ListTailPattern destructures init <- last.
type ListTailPattern struct {
	Token token.Token
	Left  Pattern
	Right Pattern
}

func (p *ListTailPattern) GetToken() token.Token       { return p.Token }
func (p *ListTailPattern) GetLocation() token.Location { return p.Token.Location }
func (p *ListTailPattern) patternNode()                {}

// LiteralPattern matches a literal value.
type LiteralPattern struct {
	Token   token.Token
	Literal *Literal
}

func (p *LiteralPattern) GetToken() token.Token       { return p.Token }
func (p *LiteralPattern) GetLocation() token.Location { return p.Token.Location }
func (p *LiteralPattern) patternNode()                {}

// NamePattern binds the matched value to a name.
type NamePattern struct {
	Token token.Token
	Name  string
}

func (p *NamePattern) GetToken() token.Token       { return p.Token }
func (p *NamePattern) GetLocation() token.Location { return p.Token.Location }
func (p *NamePattern) patternNode()                {}

// RangePattern matches left .. right.
type RangePattern struct {
	Token token.Token
	Left  Pattern
	Right Pattern
}

func (p *RangePattern) GetToken() token.Token       { return p.Token }
func (p *RangePattern) GetLocation() token.Location { return p.Token.Location }
func (p *RangePattern) patternNode()                {}

// RecordCallPattern matches a record by field: Point { x, y: 0 }.
type RecordFieldPattern struct {
	Name    string
	Pattern Pattern
}

type RecordCallPattern struct {
	Token  token.Token
	Name   string
	Fields []*RecordFieldPattern
}

func (p *RecordCallPattern) GetToken() token.Token       { return p.Token }
func (p *RecordCallPattern) GetLocation() token.Location { return p.Token.Location }
func (p *RecordCallPattern) patternNode()                {}

// TuplePattern matches a tuple element-wise.
type TuplePattern struct {
	Token    token.Token
	Patterns []Pattern
}

func (p *TuplePattern) GetToken() token.Token       { return p.Token }
func (p *TuplePattern) GetLocation() token.Location { return p.Token.Location }
func (p *TuplePattern) patternNode()                {}

// VariantCallPattern matches an enum variant: Some(x).
type VariantCallPattern struct {
	Token   token.Token
	Name    string
	Payload Pattern // Optional
}

func (p *VariantCallPattern) GetToken() token.Token       { return p.Token }
func (p *VariantCallPattern) GetLocation() token.Location { return p.Token.Location }
func (p *VariantCallPattern) patternNode()                {}

// WildcardPattern matches anything without binding.
type WildcardPattern struct {
	Token token.Token
}

func (p *WildcardPattern) GetToken() token.Token       { return p.Token }
func (p *WildcardPattern) GetLocation() token.Location { return p.Token.Location }
func (p *WildcardPattern) patternNode()                {}
