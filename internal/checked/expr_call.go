package checked

import (
	"github.com/thelilylang/lily-sub007/internal/token"
	"github.com/thelilylang/lily-sub007/internal/utils"
)

// CallKind tags a checked call by the kind of callee that resolved.
type CallKind int

const (
	CallKindAttribute CallKind = iota
	CallKindCatchVariable
	CallKindClass
	CallKindConstant
	CallKindCstrLen
	CallKindError
	CallKindEnum
	CallKindFun
	CallKindFunSys
	CallKindFunBuiltin
	CallKindFunParam
	CallKindMethod
	CallKindModule
	CallKindRecord
	CallKindRecordFieldSingle
	CallKindRecordFieldAccess
	CallKindStrLen
	CallKindUnknown
	CallKindVariable
	CallKindVariant
)

// CallParamKind tags one entry of a call's ordered parameter list.
type CallParamKind int

const (
	// CallParamDefault is a parameter filled from the callee's default.
	CallParamDefault CallParamKind = iota
	// CallParamDefaultOverwrite is a named argument overriding a default.
	CallParamDefaultOverwrite
	// CallParamNormal is a plain positional argument.
	CallParamNormal
)

// CallParam is one argument of a checked call.
type CallParam struct {
	Kind     CallParamKind
	Location token.Location
	Value    *Expr
}

// MethodSelfKind tags how a method receives self.
type MethodSelfKind int

const (
	MethodSelfKindSelf MethodSelfKind = iota
	MethodSelfKindRefSelf
	MethodSelfKindMutSelf
	MethodSelfKindRefMutSelf
)

// BuiltinFun is one entry of the static builtin table. The entry owns its
// signature and its mangled real name (`__name__$Type`).
type BuiltinFun struct {
	Name           string
	RealName       string
	ReturnDataType *DataType
	Params         []*DataType
}

// SysFun is one entry of the static sys table.
type SysFun struct {
	Name           string
	RealName       string
	ReturnDataType *DataType
	Params         []*DataType
}

// CallFun is a call to a user-defined function.
type CallFun struct {
	Decl          *FunDecl
	Params        []*CallParam
	GenericParams *utils.OrderedMap[*DataType] // nil on non-generic calls
}

// CallFunBuiltin is a call to a builtin function.
type CallFunBuiltin struct {
	Builtin *BuiltinFun
	Params  []*CallParam
}

// CallFunSys is a call to a sys function.
type CallFunSys struct {
	Sys    *SysFun
	Params []*CallParam
}

// CallMethod is a call to a method.
type CallMethod struct {
	Decl     *FunDecl
	SelfKind MethodSelfKind
	Params   []*CallParam
}

// CallRecordField is one field of a record construction call.
type CallRecordField struct {
	Name  string
	Value *Expr
}

// CallRecord is a record construction call.
type CallRecord struct {
	Decl   *RecordDecl
	Fields []*CallRecordField
}

// CallRecordFieldSingle is a single-step record field read: expr.field.
type CallRecordFieldSingle struct {
	Record     *RecordDecl
	FieldName  string
	FieldIndex int
}

// CallRecordFieldAccess is a multi-step field access chain.
type CallRecordFieldAccess struct {
	Accesses []*Expr
}

// CallVariant is an enum-variant construction call.
type CallVariant struct {
	Enum    *EnumDecl
	Variant *EnumVariant
	Value   *Expr // nil for payload-free variants
}

// ExprCall is a checked call. Scope identifies where the callee was
// resolved so later stages (MIR generation) can fetch the declaration.
type ExprCall struct {
	Kind       CallKind
	Scope      AccessScope
	GlobalName string

	Fun               *CallFun
	FunBuiltin        *CallFunBuiltin
	FunSys            *CallFunSys
	FunParam          int // Param index, for CallKindFunParam
	Method            *CallMethod
	Record            *CallRecord
	RecordFieldSingle *CallRecordFieldSingle
	RecordFieldAccess *CallRecordFieldAccess
	Variant           *CallVariant
	Constant          *ConstantDecl
	Error             *ErrorDecl
	Variable          *Variable
	CstrLen           *Expr
	StrLen            *Expr
}

// CallParams returns the ordered parameter list of a
// fun/sys/builtin/method call, or nil.
func (c *ExprCall) CallParams() []*CallParam {
	switch c.Kind {
	case CallKindFun:
		return c.Fun.Params
	case CallKindFunBuiltin:
		return c.FunBuiltin.Params
	case CallKindFunSys:
		return c.FunSys.Params
	case CallKindMethod:
		return c.Method.Params
	}
	return nil
}

// Eq is structural equality on calls, used when deduplicating signatures
// for generic instantiation. Two calls are equal when they target the
// same global name with the same kind and pointwise-equal argument data
// types.
func (c *ExprCall) Eq(other *ExprCall) bool {
	if c.Kind != other.Kind || c.GlobalName != other.GlobalName {
		return false
	}
	a, b := c.CallParams(), other.CallParams()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			return false
		}
		if !a[i].Value.DataType.Eq(b[i].Value.DataType) {
			return false
		}
	}
	return true
}
