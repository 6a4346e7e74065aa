package checked

import (
	"github.com/thelilylang/lily-sub007/internal/token"
	"github.com/thelilylang/lily-sub007/internal/utils"
)

// GenericParam is a checked generic parameter of a declaration.
type GenericParam struct {
	Location   token.Location
	Name       string
	Constraint *DataType // Optional
}

// FunParamKind tags how a checked function parameter binds.
type FunParamKind int

const (
	FunParamDefault FunParamKind = iota
	FunParamNormal
)

// FunParam is a checked function parameter.
type FunParam struct {
	Location token.Location
	Name     string
	Kind     FunParamKind
	DataType *DataType
	Default  *Expr // Set when Kind is FunParamDefault
	IsMoved  bool
}

// Signature is a monomorphized function signature: the parameter types
// followed by the return type, plus the generic instantiation that
// produced it. GenericParams preserves call-site insertion order so
// signature keys are deterministic.
type Signature struct {
	GlobalName    string
	Types         []*DataType
	GenericParams *utils.OrderedMap[*DataType]
}

// ReturnType is the last entry of the signature's type vector.
func (s *Signature) ReturnType() *DataType {
	return s.Types[len(s.Types)-1]
}

// EqTypes reports whether two signatures carry pointwise-equal types.
func (s *Signature) EqTypes(other *Signature) bool {
	return eqSlice(s.Types, other.Types)
}

// FunDecl is a checked function declaration.
type FunDecl struct {
	Location      token.Location
	Name          string
	GlobalName    string
	GenericParams []*GenericParam
	Params        []*FunParam
	ReturnType    *DataType
	Body          []*Stmt
	Scope         *Scope
	Signatures    []*Signature
	IsOperator    bool
	IsMain        bool
	IsChecked     bool
	IsRecursive   bool
}

// AddSignature records a signature if an equal one is not already known.
// It reports whether the signature was added.
func (f *FunDecl) AddSignature(sig *Signature) bool {
	for _, s := range f.Signatures {
		if s.EqTypes(sig) {
			return false
		}
	}
	f.Signatures = append(f.Signatures, sig)
	return true
}

// ConstantDecl is a checked constant declaration.
type ConstantDecl struct {
	Location   token.Location
	Name       string
	GlobalName string
	DataType   *DataType
	Value      *Expr
}

// RecordField is a checked record field.
type RecordField struct {
	Location token.Location
	Name     string
	DataType *DataType
	IsMut    bool
}

// RecordDecl is a checked record declaration.
type RecordDecl struct {
	Location      token.Location
	Name          string
	GlobalName    string
	GenericParams []*GenericParam
	Fields        []*RecordField
	Scope         *Scope
	IsRecursive   bool
}

// FieldIndex returns the positional index of the named field, or -1.
func (r *RecordDecl) FieldIndex(name string) int {
	for i, f := range r.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// EnumVariant is a checked enum variant. DataType is nil for payload-free
// variants.
type EnumVariant struct {
	Location token.Location
	Name     string
	DataType *DataType
	ID       int // Discriminant value
}

// EnumDecl is a checked enum declaration.
type EnumDecl struct {
	Location      token.Location
	Name          string
	GlobalName    string
	GenericParams []*GenericParam
	Variants      []*EnumVariant
	Scope         *Scope
	IsRecursive   bool
}

// Variant returns the named variant, or nil.
func (e *EnumDecl) Variant(name string) *EnumVariant {
	for _, v := range e.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// AliasDecl is a checked type alias.
type AliasDecl struct {
	Location      token.Location
	Name          string
	GlobalName    string
	GenericParams []*GenericParam
	DataType      *DataType
}

// ErrorDecl is a checked error declaration.
type ErrorDecl struct {
	Location      token.Location
	Name          string
	GlobalName    string
	GenericParams []*GenericParam
	DataType      *DataType // Optional payload
}

// ClassDecl is a checked class declaration.
type ClassDecl struct {
	Location      token.Location
	Name          string
	GlobalName    string
	GenericParams []*GenericParam
	Scope         *Scope
}

// TraitDecl is a checked trait declaration.
type TraitDecl struct {
	Location      token.Location
	Name          string
	GlobalName    string
	GenericParams []*GenericParam
	Scope         *Scope
}

// ModuleDecl is a checked module declaration.
type ModuleDecl struct {
	Location   token.Location
	Name       string
	GlobalName string
	Scope      *Scope
}

// Variable is a checked local variable. The move flags feed the scope's
// use-after-move diagnostics.
type Variable struct {
	Location  token.Location
	Name      string
	DataType  *DataType
	IsMut     bool
	IsMoved   bool
	IsDropped bool
}

// Label is a checked loop label.
type Label struct {
	Location token.Location
	Name     string
}

// CapturedVariable is a variable captured by a lambda body.
type CapturedVariable struct {
	Location token.Location
	Name     string
	DataType *DataType
}

// CatchVariable binds the error value inside a catch arm.
type CatchVariable struct {
	Location token.Location
	Name     string
	DataType *DataType
}
