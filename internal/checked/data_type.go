// Package checked holds the semantic representation of a compilation unit:
// the resolved data-type algebra, the scope model and the checked AST the
// MIR generator consumes.
package checked

import (
	"github.com/thelilylang/lily-sub007/internal/token"
)

// DataTypeKind tags a DataType.
type DataTypeKind int

const (
	DataTypeKindAny DataTypeKind = iota
	DataTypeKindArray
	DataTypeKindBool
	DataTypeKindByte
	DataTypeKindBytes
	DataTypeKindChar
	DataTypeKindCshort
	DataTypeKindCushort
	DataTypeKindCint
	DataTypeKindCuint
	DataTypeKindClong
	DataTypeKindCulong
	DataTypeKindClonglong
	DataTypeKindCulonglong
	DataTypeKindCfloat
	DataTypeKindCdouble
	DataTypeKindCstr
	DataTypeKindCvoid
	DataTypeKindCustom
	DataTypeKindResult
	DataTypeKindFloat32
	DataTypeKindFloat64
	DataTypeKindInt16
	DataTypeKindInt32
	DataTypeKindInt64
	DataTypeKindInt8
	DataTypeKindIsize
	DataTypeKindLambda
	DataTypeKindList
	DataTypeKindMut
	DataTypeKindNever
	DataTypeKindOptional
	DataTypeKindPtr
	DataTypeKindPtrMut
	DataTypeKindRef
	DataTypeKindRefMut
	DataTypeKindStr
	DataTypeKindTrace
	DataTypeKindTraceMut
	DataTypeKindTuple
	DataTypeKindUint16
	DataTypeKindUint32
	DataTypeKindUint64
	DataTypeKindUint8
	DataTypeKindUnit
	DataTypeKindUsize

	// These data types cannot be written by the user.
	DataTypeKindUnknown
	DataTypeKindConditionalCompilerChoice
	DataTypeKindCompilerChoice
	DataTypeKindCompilerGeneric
)

// ArrayKind tags the array form.
type ArrayKind int

const (
	ArrayKindDynamic ArrayKind = iota
	ArrayKindMultiPointers
	ArrayKindSized
	ArrayKindUndetermined
	ArrayKindUnknown
)

// ArrayDataType is the payload of an array data type. Size is meaningful
// for the sized and unknown forms.
type ArrayDataType struct {
	Kind     ArrayKind
	Size     uint64
	DataType *DataType
}

// CustomKind tags a custom (user-declared) data type reference.
type CustomKind int

const (
	CustomKindClass CustomKind = iota
	CustomKindEnum
	CustomKindEnumObject
	CustomKindError
	CustomKindGeneric
	CustomKindRecord
	CustomKindRecordObject
	CustomKindTrait
)

// CustomDataType references a user declaration by name. Recursive types
// carry the declaration by GlobalName instead of a structural cycle; the
// resolver looks the body up in the owning module on demand.
type CustomDataType struct {
	ScopeID     int
	Scope       AccessScope
	Name        string
	GlobalName  string
	Generics    []*DataType // nil when the declaration has no generics
	Kind        CustomKind
	IsRecursive bool
}

// LambdaDataType is the payload of a function-value data type.
type LambdaDataType struct {
	Params     []*DataType // nil for an unknown parameter list
	ReturnType *DataType
}

// ResultDataType is the payload of a result data type: ok plus optional
// error alternatives.
type ResultDataType struct {
	Ok   *DataType
	Errs []*DataType // nil when no error alternative is known
}

// DataTypeCondition is one condition of a conditional compiler choice:
// if the call-site parameter types match Params, the return type is the
// choice at ReturnDataTypeID.
type DataTypeCondition struct {
	Params           []*DataType
	ReturnDataTypeID int
}

// ConditionalCompilerChoice pairs conditions with candidate return types.
type ConditionalCompilerChoice struct {
	Conds   []*DataTypeCondition
	Choices []*DataType
}

// DataType is a checked data type. Instances are shared freely (the
// checker hands the same pointer to every expression that carries the
// type); Clone produces an independent copy when mutation isolation is
// needed. Only compiler-choice payloads mutate after construction, and
// only until Seal is called.
type DataType struct {
	Kind     DataTypeKind
	Location token.Location

	// isLock is set when the owning function finishes analysis. A locked
	// compiler-choice type can no longer be narrowed.
	isLock bool

	Array           *ArrayDataType
	Len             *uint64 // bytes/str known length
	Custom          *CustomDataType
	Lambda          *LambdaDataType
	Inner           *DataType // list/mut/optional/ptr/ptr_mut/ref/ref_mut/trace/trace_mut
	Result          *ResultDataType
	Tuple           []*DataType
	CompilerChoice  []*DataType
	CondChoice      *ConditionalCompilerChoice
	CompilerGeneric string
}

// NewDataType builds a payload-free data type.
func NewDataType(kind DataTypeKind, loc token.Location) *DataType {
	return &DataType{Kind: kind, Location: loc}
}

// NewArray builds an array data type.
func NewArray(loc token.Location, kind ArrayKind, elem *DataType, size uint64) *DataType {
	return &DataType{
		Kind:     DataTypeKindArray,
		Location: loc,
		Array:    &ArrayDataType{Kind: kind, Size: size, DataType: elem},
	}
}

// NewCustom builds a custom data type reference.
func NewCustom(loc token.Location, custom *CustomDataType) *DataType {
	return &DataType{Kind: DataTypeKindCustom, Location: loc, Custom: custom}
}

// NewLambda builds a lambda data type.
func NewLambda(loc token.Location, params []*DataType, ret *DataType) *DataType {
	return &DataType{
		Kind:     DataTypeKindLambda,
		Location: loc,
		Lambda:   &LambdaDataType{Params: params, ReturnType: ret},
	}
}

// NewResult builds a result data type.
func NewResult(loc token.Location, ok *DataType, errs []*DataType) *DataType {
	return &DataType{
		Kind:     DataTypeKindResult,
		Location: loc,
		Result:   &ResultDataType{Ok: ok, Errs: errs},
	}
}

// NewWrap builds a single-inner wrapper data type (ptr, ref, list, ...).
func NewWrap(kind DataTypeKind, loc token.Location, inner *DataType) *DataType {
	return &DataType{Kind: kind, Location: loc, Inner: inner}
}

// NewTuple builds a tuple data type.
func NewTuple(loc token.Location, elems []*DataType) *DataType {
	return &DataType{Kind: DataTypeKindTuple, Location: loc, Tuple: elems}
}

// NewCompilerChoice builds an open compiler-choice data type.
func NewCompilerChoice(loc token.Location, candidates []*DataType) *DataType {
	return &DataType{Kind: DataTypeKindCompilerChoice, Location: loc, CompilerChoice: candidates}
}

// NewConditionalCompilerChoice builds an open conditional compiler choice.
func NewConditionalCompilerChoice(loc token.Location, choices []*DataType, conds []*DataTypeCondition) *DataType {
	return &DataType{
		Kind:       DataTypeKindConditionalCompilerChoice,
		Location:   loc,
		CondChoice: &ConditionalCompilerChoice{Conds: conds, Choices: choices},
	}
}

// NewCompilerGeneric builds a compiler-generic placeholder.
func NewCompilerGeneric(loc token.Location, name string) *DataType {
	return &DataType{Kind: DataTypeKindCompilerGeneric, Location: loc, CompilerGeneric: name}
}

// IsLocked reports whether the type has been sealed.
func (dt *DataType) IsLocked() bool { return dt.isLock }

// Seal locks the type and everything it reaches. After sealing, mutating
// a compiler-choice payload is an internal fault. Recursive custom types
// terminate the walk.
func (dt *DataType) Seal() {
	if dt == nil || dt.isLock {
		return
	}
	dt.isLock = true
	switch dt.Kind {
	case DataTypeKindArray:
		dt.Array.DataType.Seal()
	case DataTypeKindCustom:
		for _, g := range dt.Custom.Generics {
			g.Seal()
		}
	case DataTypeKindLambda:
		for _, p := range dt.Lambda.Params {
			p.Seal()
		}
		dt.Lambda.ReturnType.Seal()
	case DataTypeKindResult:
		dt.Result.Ok.Seal()
		for _, e := range dt.Result.Errs {
			e.Seal()
		}
	case DataTypeKindTuple:
		for _, e := range dt.Tuple {
			e.Seal()
		}
	case DataTypeKindCompilerChoice:
		for _, c := range dt.CompilerChoice {
			c.Seal()
		}
	case DataTypeKindConditionalCompilerChoice:
		for _, c := range dt.CondChoice.Choices {
			c.Seal()
		}
	default:
		if dt.Inner != nil {
			dt.Inner.Seal()
		}
	}
}

// AddChoice adds a candidate to an open compiler choice with set
// semantics: an equal candidate is not added twice.
func (dt *DataType) AddChoice(choice *DataType) {
	if dt.Kind != DataTypeKindCompilerChoice {
		panic("checked: AddChoice on non compiler-choice data type")
	}
	if dt.isLock {
		panic("checked: AddChoice on a sealed data type")
	}
	for _, c := range dt.CompilerChoice {
		if c.Eq(choice) {
			return
		}
	}
	dt.CompilerChoice = append(dt.CompilerChoice, choice)
}

// AddCondChoice adds a candidate return type to a conditional compiler
// choice and returns its index. An equal candidate is not duplicated; the
// existing index is returned instead.
func (dt *DataType) AddCondChoice(choice *DataType) int {
	if dt.Kind != DataTypeKindConditionalCompilerChoice {
		panic("checked: AddCondChoice on non conditional-compiler-choice data type")
	}
	if dt.isLock {
		panic("checked: AddCondChoice on a sealed data type")
	}
	for i, c := range dt.CondChoice.Choices {
		if c.Eq(choice) {
			return i
		}
	}
	dt.CondChoice.Choices = append(dt.CondChoice.Choices, choice)
	return len(dt.CondChoice.Choices) - 1
}

// AddCond appends a condition to a conditional compiler choice.
func (dt *DataType) AddCond(cond *DataTypeCondition) {
	if dt.Kind != DataTypeKindConditionalCompilerChoice {
		panic("checked: AddCond on non conditional-compiler-choice data type")
	}
	if dt.isLock {
		panic("checked: AddCond on a sealed data type")
	}
	dt.CondChoice.Conds = append(dt.CondChoice.Conds, cond)
}

// Clone returns an independent copy of the type. A recursive custom type
// is returned as the same handle: its identity is its GlobalName and a
// structural copy would not terminate.
func (dt *DataType) Clone() *DataType {
	if dt == nil {
		return nil
	}
	if dt.Kind == DataTypeKindCustom && dt.Custom.IsRecursive {
		return dt
	}
	out := &DataType{Kind: dt.Kind, Location: dt.Location, isLock: dt.isLock}
	switch dt.Kind {
	case DataTypeKindArray:
		out.Array = &ArrayDataType{
			Kind:     dt.Array.Kind,
			Size:     dt.Array.Size,
			DataType: dt.Array.DataType.Clone(),
		}
	case DataTypeKindBytes, DataTypeKindStr, DataTypeKindCstr:
		if dt.Len != nil {
			n := *dt.Len
			out.Len = &n
		}
	case DataTypeKindCustom:
		custom := *dt.Custom
		if dt.Custom.Generics != nil {
			custom.Generics = cloneSlice(dt.Custom.Generics)
		}
		out.Custom = &custom
	case DataTypeKindLambda:
		lambda := &LambdaDataType{ReturnType: dt.Lambda.ReturnType.Clone()}
		if dt.Lambda.Params != nil {
			lambda.Params = cloneSlice(dt.Lambda.Params)
		}
		out.Lambda = lambda
	case DataTypeKindResult:
		result := &ResultDataType{Ok: dt.Result.Ok.Clone()}
		if dt.Result.Errs != nil {
			result.Errs = cloneSlice(dt.Result.Errs)
		}
		out.Result = result
	case DataTypeKindTuple:
		out.Tuple = cloneSlice(dt.Tuple)
	case DataTypeKindCompilerChoice:
		out.CompilerChoice = cloneSlice(dt.CompilerChoice)
	case DataTypeKindConditionalCompilerChoice:
		conds := make([]*DataTypeCondition, len(dt.CondChoice.Conds))
		for i, c := range dt.CondChoice.Conds {
			conds[i] = &DataTypeCondition{
				Params:           cloneSlice(c.Params),
				ReturnDataTypeID: c.ReturnDataTypeID,
			}
		}
		out.CondChoice = &ConditionalCompilerChoice{
			Conds:   conds,
			Choices: cloneSlice(dt.CondChoice.Choices),
		}
	case DataTypeKindCompilerGeneric:
		out.CompilerGeneric = dt.CompilerGeneric
	default:
		if dt.Inner != nil {
			out.Inner = dt.Inner.Clone()
		}
	}
	return out
}

func cloneSlice(dts []*DataType) []*DataType {
	out := make([]*DataType, len(dts))
	for i, dt := range dts {
		out[i] = dt.Clone()
	}
	return out
}

// IsIntegerPrimitive reports whether the kind is a primitive integer,
// including the C-interop integers and isize/usize.
func (dt *DataType) IsIntegerPrimitive() bool {
	switch dt.Kind {
	case DataTypeKindInt8, DataTypeKindInt16, DataTypeKindInt32, DataTypeKindInt64,
		DataTypeKindUint8, DataTypeKindUint16, DataTypeKindUint32, DataTypeKindUint64,
		DataTypeKindIsize, DataTypeKindUsize,
		DataTypeKindCshort, DataTypeKindCushort, DataTypeKindCint, DataTypeKindCuint,
		DataTypeKindClong, DataTypeKindCulong, DataTypeKindClonglong, DataTypeKindCulonglong:
		return true
	}
	return false
}

// IsFloatPrimitive reports whether the kind is a primitive float.
func (dt *DataType) IsFloatPrimitive() bool {
	switch dt.Kind {
	case DataTypeKindFloat32, DataTypeKindFloat64, DataTypeKindCfloat, DataTypeKindCdouble:
		return true
	}
	return false
}

// IsSignedInteger reports whether the kind is a signed primitive integer.
func (dt *DataType) IsSignedInteger() bool {
	switch dt.Kind {
	case DataTypeKindInt8, DataTypeKindInt16, DataTypeKindInt32, DataTypeKindInt64,
		DataTypeKindIsize, DataTypeKindCshort, DataTypeKindCint, DataTypeKindClong,
		DataTypeKindClonglong:
		return true
	}
	return false
}

// IsPtrKind reports whether the kind belongs to the pointer family.
func (dt *DataType) IsPtrKind() bool {
	switch dt.Kind {
	case DataTypeKindPtr, DataTypeKindPtrMut, DataTypeKindRef, DataTypeKindRefMut,
		DataTypeKindTrace, DataTypeKindTraceMut:
		return true
	}
	return false
}

// RemoveMut peels mut qualifiers off the outside of the type.
func (dt *DataType) RemoveMut() *DataType {
	for dt.Kind == DataTypeKindMut {
		dt = dt.Inner
	}
	return dt
}
