package checked

import (
	"fmt"
	"strings"
)

var primitiveNames = map[DataTypeKind]string{
	DataTypeKindAny:        "Any",
	DataTypeKindBool:       "Bool",
	DataTypeKindByte:       "Byte",
	DataTypeKindChar:       "Char",
	DataTypeKindCshort:     "CShort",
	DataTypeKindCushort:    "CUshort",
	DataTypeKindCint:       "CInt",
	DataTypeKindCuint:      "CUint",
	DataTypeKindClong:      "CLong",
	DataTypeKindCulong:     "CUlong",
	DataTypeKindClonglong:  "CLonglong",
	DataTypeKindCulonglong: "CUlonglong",
	DataTypeKindCfloat:     "CFloat",
	DataTypeKindCdouble:    "CDouble",
	DataTypeKindCvoid:      "CVoid",
	DataTypeKindFloat32:    "Float32",
	DataTypeKindFloat64:    "Float64",
	DataTypeKindInt8:       "Int8",
	DataTypeKindInt16:      "Int16",
	DataTypeKindInt32:      "Int32",
	DataTypeKindInt64:      "Int64",
	DataTypeKindIsize:      "Isize",
	DataTypeKindNever:      "Never",
	DataTypeKindUint8:      "Uint8",
	DataTypeKindUint16:     "Uint16",
	DataTypeKindUint32:     "Uint32",
	DataTypeKindUint64:     "Uint64",
	DataTypeKindUnit:       "Unit",
	DataTypeKindUsize:      "Usize",
	DataTypeKindUnknown:    "<unknown>",
}

// String renders the type for diagnostics and debugging.
func (dt *DataType) String() string {
	if dt == nil {
		return "<nil>"
	}
	switch dt.Kind {
	case DataTypeKindArray:
		switch dt.Array.Kind {
		case ArrayKindDynamic:
			return "[_]" + dt.Array.DataType.String()
		case ArrayKindMultiPointers:
			return "[*]" + dt.Array.DataType.String()
		case ArrayKindSized:
			return fmt.Sprintf("[%d]%s", dt.Array.Size, dt.Array.DataType)
		case ArrayKindUndetermined:
			return "[?]" + dt.Array.DataType.String()
		default:
			return fmt.Sprintf("[unknown %d]%s", dt.Array.Size, dt.Array.DataType)
		}
	case DataTypeKindBytes:
		return lenName("Bytes", dt.Len)
	case DataTypeKindStr:
		return lenName("Str", dt.Len)
	case DataTypeKindCstr:
		return lenName("CStr", dt.Len)
	case DataTypeKindCustom:
		if dt.Custom.Generics == nil {
			return dt.Custom.Name
		}
		return dt.Custom.Name + "[" + joinDataTypes(dt.Custom.Generics) + "]"
	case DataTypeKindLambda:
		return "fun(" + joinDataTypes(dt.Lambda.Params) + ") -> " + dt.Lambda.ReturnType.String()
	case DataTypeKindResult:
		var out strings.Builder
		out.WriteString(dt.Result.Ok.String())
		for _, e := range dt.Result.Errs {
			out.WriteString("!")
			out.WriteString(e.String())
		}
		if len(dt.Result.Errs) == 0 {
			out.WriteString("!")
		}
		return out.String()
	case DataTypeKindTuple:
		return "(" + joinDataTypes(dt.Tuple) + ")"
	case DataTypeKindList:
		return "{" + dt.Inner.String() + "}"
	case DataTypeKindMut:
		return "mut " + dt.Inner.String()
	case DataTypeKindOptional:
		return "?" + dt.Inner.String()
	case DataTypeKindPtr:
		return "*" + dt.Inner.String()
	case DataTypeKindPtrMut:
		return "*mut " + dt.Inner.String()
	case DataTypeKindRef:
		return "&" + dt.Inner.String()
	case DataTypeKindRefMut:
		return "&mut " + dt.Inner.String()
	case DataTypeKindTrace:
		return "trace " + dt.Inner.String()
	case DataTypeKindTraceMut:
		return "trace mut " + dt.Inner.String()
	case DataTypeKindCompilerChoice:
		return "<choice " + joinDataTypes(dt.CompilerChoice) + ">"
	case DataTypeKindConditionalCompilerChoice:
		return "<cond-choice " + joinDataTypes(dt.CondChoice.Choices) + ">"
	case DataTypeKindCompilerGeneric:
		return "<generic " + dt.CompilerGeneric + ">"
	default:
		return primitiveNames[dt.Kind]
	}
}

func lenName(name string, n *uint64) string {
	if n == nil {
		return name
	}
	return fmt.Sprintf("%s(%d)", name, *n)
}

func joinDataTypes(dts []*DataType) string {
	parts := make([]string, len(dts))
	for i, dt := range dts {
		parts[i] = dt.String()
	}
	return strings.Join(parts, ", ")
}
