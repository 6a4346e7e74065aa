package checked

// Eq is structural equality on data types. Locations and lock state are
// ignored. `mut X` and `X` are distinct here; the binary-operator tables
// fold the difference away through integer ranks where arithmetic allows.
func (dt *DataType) Eq(other *DataType) bool {
	if dt == nil || other == nil {
		return dt == other
	}
	if dt == other {
		return true
	}
	if dt.Kind != other.Kind {
		return false
	}
	switch dt.Kind {
	case DataTypeKindArray:
		if dt.Array.Kind != other.Array.Kind {
			return false
		}
		// A sized array's length participates in equality.
		if dt.Array.Kind == ArrayKindSized && dt.Array.Size != other.Array.Size {
			return false
		}
		return dt.Array.DataType.Eq(other.Array.DataType)
	case DataTypeKindBytes, DataTypeKindStr, DataTypeKindCstr:
		return eqLen(dt.Len, other.Len)
	case DataTypeKindCustom:
		if dt.Custom.GlobalName != other.Custom.GlobalName {
			return false
		}
		// A missing generics vector only equals a missing one.
		if (dt.Custom.Generics == nil) != (other.Custom.Generics == nil) {
			return false
		}
		return eqSlice(dt.Custom.Generics, other.Custom.Generics)
	case DataTypeKindLambda:
		if (dt.Lambda.Params == nil) != (other.Lambda.Params == nil) {
			return false
		}
		if !eqSlice(dt.Lambda.Params, other.Lambda.Params) {
			return false
		}
		return dt.Lambda.ReturnType.Eq(other.Lambda.ReturnType)
	case DataTypeKindResult:
		if !dt.Result.Ok.Eq(other.Result.Ok) {
			return false
		}
		return eqSlice(dt.Result.Errs, other.Result.Errs)
	case DataTypeKindTuple:
		return eqSlice(dt.Tuple, other.Tuple)
	case DataTypeKindCompilerChoice:
		// Candidate vectors compare as sets.
		return eqSet(dt.CompilerChoice, other.CompilerChoice)
	case DataTypeKindConditionalCompilerChoice:
		return eqSet(dt.CondChoice.Choices, other.CondChoice.Choices)
	case DataTypeKindCompilerGeneric:
		return dt.CompilerGeneric == other.CompilerGeneric
	case DataTypeKindList, DataTypeKindMut, DataTypeKindOptional,
		DataTypeKindPtr, DataTypeKindPtrMut, DataTypeKindRef, DataTypeKindRefMut,
		DataTypeKindTrace, DataTypeKindTraceMut:
		return dt.Inner.Eq(other.Inner)
	default:
		return true
	}
}

func eqLen(a, b *uint64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func eqSlice(a, b []*DataType) bool {
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

func eqSet(a, b []*DataType) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && x.Eq(y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
