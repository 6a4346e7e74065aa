// Package mir implements the mid-level intermediate representation:
// a register-style, block-structured IR lowered from the checked AST and
// consumed by a later backend.
package mir

import (
	"fmt"
	"strings"
)

// DtKind tags a MIR data type.
type DtKind int

const (
	DtKindAny DtKind = iota
	DtKindI1
	DtKindI8
	DtKindI16
	DtKindI32
	DtKindI64
	DtKindIsize
	DtKindU8
	DtKindU16
	DtKindU32
	DtKindU64
	DtKindUsize
	DtKindF32
	DtKindF64
	DtKindUnit
	DtKindBytes
	DtKindCstr
	DtKindStr
	DtKindPtr
	DtKindRef
	DtKindList
	DtKindTrace
	DtKindArray
	DtKindTuple
	DtKindStruct
	DtKindStructName
	DtKindResult
)

// DtArray is the payload of an array data type. LenIsUndef marks the
// `[? x T]` form.
type DtArray struct {
	Len        uint64
	LenIsUndef bool
	Dt         *Dt
}

// DtResult is the payload of a result data type.
type DtResult struct {
	Ok  *Dt
	Err *Dt
}

// Dt is a MIR data type.
type Dt struct {
	Kind DtKind

	Len        *uint64 // bytes/cstr/str known length
	Inner      *Dt     // ptr/ref/list/trace
	Array      *DtArray
	Tuple      []*Dt
	Struct     []*Dt
	StructName string
	Result     *DtResult
}

// NewDt builds a payload-free data type.
func NewDt(kind DtKind) *Dt { return &Dt{Kind: kind} }

// NewDtPtr builds *T.
func NewDtPtr(inner *Dt) *Dt { return &Dt{Kind: DtKindPtr, Inner: inner} }

// NewDtRef builds &T.
func NewDtRef(inner *Dt) *Dt { return &Dt{Kind: DtKindRef, Inner: inner} }

// NewDtList builds {T}.
func NewDtList(inner *Dt) *Dt { return &Dt{Kind: DtKindList, Inner: inner} }

// NewDtTrace builds a trace over T.
func NewDtTrace(inner *Dt) *Dt { return &Dt{Kind: DtKindTrace, Inner: inner} }

// NewDtArray builds [len x T].
func NewDtArray(len uint64, dt *Dt) *Dt {
	return &Dt{Kind: DtKindArray, Array: &DtArray{Len: len, Dt: dt}}
}

// NewDtArrayUndef builds [? x T].
func NewDtArrayUndef(dt *Dt) *Dt {
	return &Dt{Kind: DtKindArray, Array: &DtArray{LenIsUndef: true, Dt: dt}}
}

// NewDtTuple builds (T, U, ...).
func NewDtTuple(elems []*Dt) *Dt { return &Dt{Kind: DtKindTuple, Tuple: elems} }

// NewDtStruct builds an anonymous struct.
func NewDtStruct(fields []*Dt) *Dt { return &Dt{Kind: DtKindStruct, Struct: fields} }

// NewDtStructName builds a struct reference by name.
func NewDtStructName(name string) *Dt { return &Dt{Kind: DtKindStructName, StructName: name} }

// NewDtResult builds a result type.
func NewDtResult(ok, err *Dt) *Dt {
	return &Dt{Kind: DtKindResult, Result: &DtResult{Ok: ok, Err: err}}
}

// Eq is structural equality on MIR data types.
func (d *Dt) Eq(other *Dt) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Kind != other.Kind {
		return false
	}
	switch d.Kind {
	case DtKindBytes, DtKindCstr, DtKindStr:
		if (d.Len == nil) != (other.Len == nil) {
			return false
		}
		return d.Len == nil || *d.Len == *other.Len
	case DtKindPtr, DtKindRef, DtKindList, DtKindTrace:
		return d.Inner.Eq(other.Inner)
	case DtKindArray:
		if d.Array.LenIsUndef != other.Array.LenIsUndef {
			return false
		}
		if !d.Array.LenIsUndef && d.Array.Len != other.Array.Len {
			return false
		}
		return d.Array.Dt.Eq(other.Array.Dt)
	case DtKindTuple:
		return eqDts(d.Tuple, other.Tuple)
	case DtKindStruct:
		return eqDts(d.Struct, other.Struct)
	case DtKindStructName:
		return d.StructName == other.StructName
	case DtKindResult:
		return d.Result.Ok.Eq(other.Result.Ok) && d.Result.Err.Eq(other.Result.Err)
	default:
		return true
	}
}

func eqDts(a, b []*Dt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// IsIntKind reports whether the kind is an integer register class.
func (d *Dt) IsIntKind() bool {
	switch d.Kind {
	case DtKindI1, DtKindI8, DtKindI16, DtKindI32, DtKindI64, DtKindIsize,
		DtKindU8, DtKindU16, DtKindU32, DtKindU64, DtKindUsize:
		return true
	}
	return false
}

// IsFloatKind reports whether the kind is a float register class.
func (d *Dt) IsFloatKind() bool {
	return d.Kind == DtKindF32 || d.Kind == DtKindF64
}

var dtNames = map[DtKind]string{
	DtKindAny:   "any",
	DtKindI1:    "i1",
	DtKindI8:    "i8",
	DtKindI16:   "i16",
	DtKindI32:   "i32",
	DtKindI64:   "i64",
	DtKindIsize: "isize",
	DtKindU8:    "u8",
	DtKindU16:   "u16",
	DtKindU32:   "u32",
	DtKindU64:   "u64",
	DtKindUsize: "usize",
	DtKindF32:   "f32",
	DtKindF64:   "f64",
	DtKindUnit:  "unit",
	DtKindBytes: "Bytes",
	DtKindCstr:  "Cstr",
	DtKindStr:   "Str",
}

// String renders the canonical textual form without color.
func (d *Dt) String() string {
	switch d.Kind {
	case DtKindPtr:
		return "*" + d.Inner.String()
	case DtKindRef:
		return "&" + d.Inner.String()
	case DtKindList:
		return "{" + d.Inner.String() + "}"
	case DtKindTrace:
		// A trace lowers to a fat pointer: the value plus its length.
		return "struct {" + d.Inner.String() + ", usize}"
	case DtKindArray:
		if d.Array.LenIsUndef {
			return "[? x " + d.Array.Dt.String() + "]"
		}
		return fmt.Sprintf("[%d x %s]", d.Array.Len, d.Array.Dt)
	case DtKindTuple:
		return "(" + joinDts(d.Tuple) + ")"
	case DtKindStruct:
		return "struct {" + joinDts(d.Struct) + "}"
	case DtKindStructName:
		return "struct " + d.StructName
	case DtKindResult:
		return "result " + d.Result.Ok.String() + " " + d.Result.Err.String()
	default:
		return dtNames[d.Kind]
	}
}

func joinDts(dts []*Dt) string {
	parts := make([]string, len(dts))
	for i, dt := range dts {
		parts[i] = dt.String()
	}
	return strings.Join(parts, ", ")
}
