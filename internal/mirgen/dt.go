package mirgen

import (
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/mir"
)

var primitiveDts = map[checked.DataTypeKind]mir.DtKind{
	checked.DataTypeKindAny:        mir.DtKindAny,
	checked.DataTypeKindBool:       mir.DtKindI1,
	checked.DataTypeKindByte:       mir.DtKindU8,
	checked.DataTypeKindChar:       mir.DtKindI32,
	checked.DataTypeKindCshort:     mir.DtKindI16,
	checked.DataTypeKindCushort:    mir.DtKindU16,
	checked.DataTypeKindCint:       mir.DtKindI32,
	checked.DataTypeKindCuint:      mir.DtKindU32,
	checked.DataTypeKindClong:      mir.DtKindI64,
	checked.DataTypeKindCulong:     mir.DtKindU64,
	checked.DataTypeKindClonglong:  mir.DtKindI64,
	checked.DataTypeKindCulonglong: mir.DtKindU64,
	checked.DataTypeKindCfloat:     mir.DtKindF32,
	checked.DataTypeKindCdouble:    mir.DtKindF64,
	checked.DataTypeKindCvoid:      mir.DtKindUnit,
	checked.DataTypeKindFloat32:    mir.DtKindF32,
	checked.DataTypeKindFloat64:    mir.DtKindF64,
	checked.DataTypeKindInt8:       mir.DtKindI8,
	checked.DataTypeKindInt16:      mir.DtKindI16,
	checked.DataTypeKindInt32:      mir.DtKindI32,
	checked.DataTypeKindInt64:      mir.DtKindI64,
	checked.DataTypeKindIsize:      mir.DtKindIsize,
	checked.DataTypeKindNever:      mir.DtKindUnit,
	checked.DataTypeKindUint8:      mir.DtKindU8,
	checked.DataTypeKindUint16:     mir.DtKindU16,
	checked.DataTypeKindUint32:     mir.DtKindU32,
	checked.DataTypeKindUint64:     mir.DtKindU64,
	checked.DataTypeKindUnit:       mir.DtKindUnit,
	checked.DataTypeKindUsize:      mir.DtKindUsize,
	checked.DataTypeKindUnknown:    mir.DtKindAny,
}

// LowerDataType maps a checked data type onto the narrower MIR algebra.
func (g *Generator) LowerDataType(dt *checked.DataType) *mir.Dt {
	dt = dt.RemoveMut()
	switch dt.Kind {
	case checked.DataTypeKindArray:
		elem := g.LowerDataType(dt.Array.DataType)
		if dt.Array.Kind == checked.ArrayKindSized {
			return mir.NewDtArray(dt.Array.Size, elem)
		}
		return mir.NewDtArrayUndef(elem)
	case checked.DataTypeKindBytes:
		out := mir.NewDt(mir.DtKindBytes)
		out.Len = dt.Len
		return out
	case checked.DataTypeKindStr:
		out := mir.NewDt(mir.DtKindStr)
		out.Len = dt.Len
		return out
	case checked.DataTypeKindCstr:
		out := mir.NewDt(mir.DtKindCstr)
		out.Len = dt.Len
		return out
	case checked.DataTypeKindCustom:
		return mir.NewDtStructName(dt.Custom.GlobalName)
	case checked.DataTypeKindLambda:
		return mir.NewDtPtr(mir.NewDt(mir.DtKindAny))
	case checked.DataTypeKindList:
		return mir.NewDtList(g.LowerDataType(dt.Inner))
	case checked.DataTypeKindOptional:
		// An optional lowers to a tag plus the payload.
		return mir.NewDtStruct([]*mir.Dt{mir.NewDt(mir.DtKindI1), g.LowerDataType(dt.Inner)})
	case checked.DataTypeKindPtr, checked.DataTypeKindPtrMut:
		return mir.NewDtPtr(g.LowerDataType(dt.Inner))
	case checked.DataTypeKindRef, checked.DataTypeKindRefMut:
		return mir.NewDtRef(g.LowerDataType(dt.Inner))
	case checked.DataTypeKindTrace, checked.DataTypeKindTraceMut:
		return mir.NewDtTrace(g.LowerDataType(dt.Inner))
	case checked.DataTypeKindTuple:
		elems := make([]*mir.Dt, len(dt.Tuple))
		for i, e := range dt.Tuple {
			elems[i] = g.LowerDataType(e)
		}
		return mir.NewDtTuple(elems)
	case checked.DataTypeKindResult:
		errDt := mir.NewDt(mir.DtKindUnit)
		if len(dt.Result.Errs) > 0 {
			errDt = g.LowerDataType(dt.Result.Errs[0])
		}
		return mir.NewDtResult(g.LowerDataType(dt.Result.Ok), errDt)
	default:
		return mir.NewDt(primitiveDts[dt.Kind])
	}
}
