package checked

import (
	"github.com/thelilylang/lily-sub007/internal/token"
)

// ResponseKind tags a scope response.
type ResponseKind int

const (
	ResponseKindNotFound ResponseKind = iota
	ResponseKindModule
	ResponseKindConstant
	ResponseKindCatchVariable
	ResponseKindCapturedVariable
	ResponseKindEnum
	ResponseKindEnumVariant
	ResponseKindEnumVariantObject
	ResponseKindRecord
	ResponseKindRecordField
	ResponseKindRecordFieldObject
	ResponseKindAlias
	ResponseKindError
	ResponseKindEnumObject
	ResponseKindRecordObject
	ResponseKindClass
	ResponseKindTrait
	ResponseKindFun
	ResponseKindLabel
	ResponseKindVariable
	ResponseKindFunParam
	ResponseKindMethodParam
	ResponseKindGeneric
)

// Response is the resolver's reply: not_found, or a tagged view of the
// declaration/field/variant/param/variable that matched, together with
// the container that produced it. Responses are borrowed views; callers
// must not mutate the overload vector.
type Response struct {
	Kind      ResponseKind
	Location  token.Location
	Container *ScopeContainer

	Module      *ModuleDecl
	Constant    *ConstantDecl
	Catch       *CatchVariable
	Captured    *CapturedVariable
	Enum        *EnumDecl
	EnumVariant *EnumVariant
	Record      *RecordDecl
	RecordField *RecordField
	Alias       *AliasDecl
	Error       *ErrorDecl
	Class       *ClassDecl
	Trait       *TraitDecl
	Funs        []*FunDecl // Overload set, read-only
	Label       *Label
	Variable    *Variable
	FunParam    *FunParam
	Generic     *GenericParam
}

// NotFound is the shared not-found response.
var NotFound = &Response{Kind: ResponseKindNotFound}

// IsNotFound reports whether the response carries nothing.
func (r *Response) IsNotFound() bool { return r.Kind == ResponseKindNotFound }
