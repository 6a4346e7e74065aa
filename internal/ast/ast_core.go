package ast

import (
	"github.com/thelilylang/lily-sub007/internal/token"
)

// Node is the base interface for all raw AST nodes. The surface parsers
// produce these; the checker consumes them and never mutates them.
type Node interface {
	GetToken() token.Token
	GetLocation() token.Location
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Decl is a Node that represents a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Module is the root node of a compilation unit.
type Module struct {
	Token token.Token
	Name  string
	Decls []Decl
}

func (m *Module) GetToken() token.Token       { return m.Token }
func (m *Module) GetLocation() token.Location { return m.Token.Location }

// GenericParam is a declared generic parameter, e.g. [T] or [T: Trait].
type GenericParam struct {
	Token      token.Token
	Name       string
	Constraint DataType // Optional
}

// FunParam is a declared function parameter. Default is nil when the
// parameter has no default value.
type FunParam struct {
	Token    token.Token
	Name     string
	DataType DataType
	Default  Expression
}

// FunDecl is a function declaration.
type FunDecl struct {
	Token         token.Token
	Name          string
	GenericParams []*GenericParam
	Params        []*FunParam
	ReturnType    DataType // Optional
	Body          []Statement
	IsOperator    bool
	IsMain        bool
}

func (f *FunDecl) GetToken() token.Token       { return f.Token }
func (f *FunDecl) GetLocation() token.Location { return f.Token.Location }
func (f *FunDecl) declNode()                   {}

// ConstantDecl is a constant declaration: val NAME [Type] := expr.
type ConstantDecl struct {
	Token    token.Token
	Name     string
	DataType DataType // Optional
	Value    Expression
}

func (c *ConstantDecl) GetToken() token.Token       { return c.Token }
func (c *ConstantDecl) GetLocation() token.Location { return c.Token.Location }
func (c *ConstantDecl) declNode()                   {}

// RecordField is a single field of a record declaration.
type RecordField struct {
	Token    token.Token
	Name     string
	DataType DataType
	IsMut    bool
}

// RecordDecl is a record type declaration.
type RecordDecl struct {
	Token         token.Token
	Name          string
	GenericParams []*GenericParam
	Fields        []*RecordField
}

func (r *RecordDecl) GetToken() token.Token       { return r.Token }
func (r *RecordDecl) GetLocation() token.Location { return r.Token.Location }
func (r *RecordDecl) declNode()                   {}

// EnumVariant is a single variant of an enum declaration. DataType is nil
// for payload-free variants.
type EnumVariant struct {
	Token    token.Token
	Name     string
	DataType DataType
}

// EnumDecl is an enum type declaration.
type EnumDecl struct {
	Token         token.Token
	Name          string
	GenericParams []*GenericParam
	Variants      []*EnumVariant
}

func (e *EnumDecl) GetToken() token.Token       { return e.Token }
func (e *EnumDecl) GetLocation() token.Location { return e.Token.Location }
func (e *EnumDecl) declNode()                   {}

// AliasDecl is a type alias declaration.
type AliasDecl struct {
	Token         token.Token
	Name          string
	GenericParams []*GenericParam
	DataType      DataType
}

func (a *AliasDecl) GetToken() token.Token       { return a.Token }
func (a *AliasDecl) GetLocation() token.Location { return a.Token.Location }
func (a *AliasDecl) declNode()                   {}

// ErrorDecl declares an error type. DataType is the optional payload.
type ErrorDecl struct {
	Token         token.Token
	Name          string
	GenericParams []*GenericParam
	DataType      DataType
}

func (e *ErrorDecl) GetToken() token.Token       { return e.Token }
func (e *ErrorDecl) GetLocation() token.Location { return e.Token.Location }
func (e *ErrorDecl) declNode()                   {}

// ModuleDecl is a nested module declaration.
type ModuleDecl struct {
	Token token.Token
	Name  string
	Decls []Decl
}

func (m *ModuleDecl) GetToken() token.Token       { return m.Token }
func (m *ModuleDecl) GetLocation() token.Location { return m.Token.Location }
func (m *ModuleDecl) declNode()                   {}
