package analyzer

import (
	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
)

// primitiveKinds maps surface type names to checked kinds.
var primitiveKinds = map[string]checked.DataTypeKind{
	"Any":        checked.DataTypeKindAny,
	"Bool":       checked.DataTypeKindBool,
	"Byte":       checked.DataTypeKindByte,
	"Bytes":      checked.DataTypeKindBytes,
	"Char":       checked.DataTypeKindChar,
	"CShort":     checked.DataTypeKindCshort,
	"CUshort":    checked.DataTypeKindCushort,
	"CInt":       checked.DataTypeKindCint,
	"CUint":      checked.DataTypeKindCuint,
	"CLong":      checked.DataTypeKindClong,
	"CUlong":     checked.DataTypeKindCulong,
	"CLonglong":  checked.DataTypeKindClonglong,
	"CUlonglong": checked.DataTypeKindCulonglong,
	"CFloat":     checked.DataTypeKindCfloat,
	"CDouble":    checked.DataTypeKindCdouble,
	"CStr":       checked.DataTypeKindCstr,
	"CVoid":      checked.DataTypeKindCvoid,
	"Float32":    checked.DataTypeKindFloat32,
	"Float64":    checked.DataTypeKindFloat64,
	"Int8":       checked.DataTypeKindInt8,
	"Int16":      checked.DataTypeKindInt16,
	"Int32":      checked.DataTypeKindInt32,
	"Int64":      checked.DataTypeKindInt64,
	"Isize":      checked.DataTypeKindIsize,
	"Never":      checked.DataTypeKindNever,
	"Str":        checked.DataTypeKindStr,
	"Uint8":      checked.DataTypeKindUint8,
	"Uint16":     checked.DataTypeKindUint16,
	"Uint32":     checked.DataTypeKindUint32,
	"Uint64":     checked.DataTypeKindUint64,
	"Unit":       checked.DataTypeKindUnit,
	"Usize":      checked.DataTypeKindUsize,
}

var wrapKinds = map[ast.WrapKind]checked.DataTypeKind{
	ast.WrapPtr:      checked.DataTypeKindPtr,
	ast.WrapPtrMut:   checked.DataTypeKindPtrMut,
	ast.WrapRef:      checked.DataTypeKindRef,
	ast.WrapRefMut:   checked.DataTypeKindRefMut,
	ast.WrapTrace:    checked.DataTypeKindTrace,
	ast.WrapTraceMut: checked.DataTypeKindTraceMut,
	ast.WrapMut:      checked.DataTypeKindMut,
}

var arrayKinds = map[ast.ArrayTypeKind]checked.ArrayKind{
	ast.ArrayTypeDynamic:       checked.ArrayKindDynamic,
	ast.ArrayTypeMultiPointers: checked.ArrayKindMultiPointers,
	ast.ArrayTypeSized:         checked.ArrayKindSized,
	ast.ArrayTypeUndetermined:  checked.ArrayKindUndetermined,
}

var customKindOf = map[checked.ResponseKind]checked.CustomKind{
	checked.ResponseKindEnum:         checked.CustomKindEnum,
	checked.ResponseKindRecord:       checked.CustomKindRecord,
	checked.ResponseKindAlias:        checked.CustomKindRecord, // folded by the resolver
	checked.ResponseKindError:        checked.CustomKindError,
	checked.ResponseKindClass:        checked.CustomKindClass,
	checked.ResponseKindTrait:        checked.CustomKindTrait,
	checked.ResponseKindEnumObject:   checked.CustomKindEnumObject,
	checked.ResponseKindRecordObject: checked.CustomKindRecordObject,
}

// checkDataType resolves a written data type against scope. After an
// error the result falls back to unknown.
func (a *Analyzer) checkDataType(dt ast.DataType, scope *checked.Scope) *checked.DataType {
	switch t := dt.(type) {
	case *ast.NamedType:
		return a.checkNamedType(t, scope)
	case *ast.ArrayType:
		elem := a.checkDataType(t.Element, scope)
		return checked.NewArray(t.Token.Location, arrayKinds[t.Kind], elem, t.Size)
	case *ast.TupleType:
		elems := make([]*checked.DataType, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = a.checkDataType(e, scope)
		}
		return checked.NewTuple(t.Token.Location, elems)
	case *ast.ListType:
		return checked.NewWrap(checked.DataTypeKindList, t.Token.Location, a.checkDataType(t.Element, scope))
	case *ast.OptionalType:
		return checked.NewWrap(checked.DataTypeKindOptional, t.Token.Location, a.checkDataType(t.Element, scope))
	case *ast.WrapType:
		return checked.NewWrap(wrapKinds[t.Kind], t.Token.Location, a.checkDataType(t.Inner, scope))
	case *ast.LambdaType:
		var params []*checked.DataType
		if t.Params != nil {
			params = make([]*checked.DataType, len(t.Params))
			for i, p := range t.Params {
				params[i] = a.checkDataType(p, scope)
			}
		}
		var ret *checked.DataType
		if t.ReturnType != nil {
			ret = a.checkDataType(t.ReturnType, scope)
		} else {
			ret = checked.NewDataType(checked.DataTypeKindUnit, t.Token.Location)
		}
		return checked.NewLambda(t.Token.Location, params, ret)
	case *ast.ResultType:
		ok := a.checkDataType(t.Ok, scope)
		var errs []*checked.DataType
		if t.Errs != nil {
			errs = make([]*checked.DataType, len(t.Errs))
			for i, e := range t.Errs {
				errs[i] = a.checkDataType(e, scope)
			}
		}
		return checked.NewResult(t.Token.Location, ok, errs)
	default:
		return unknownAt(dt.GetLocation())
	}
}

func (a *Analyzer) checkNamedType(t *ast.NamedType, scope *checked.Scope) *checked.DataType {
	if kind, ok := primitiveKinds[t.Name]; ok {
		if len(t.Generics) > 0 {
			a.emit(diagnostics.NewError(diagnostics.ErrThisKindOfDataTypeIsNotExpected, t.Token,
				"this kind of data type is not expected: "+t.Name+" takes no generic params"))
		}
		return checked.NewDataType(kind, t.Token.Location)
	}

	// A generic param in scope shadows declarations.
	if r := scope.SearchGeneric(t.Name); !r.IsNotFound() {
		return checked.NewCustom(t.Token.Location, &checked.CustomDataType{
			ScopeID:    r.Container.ScopeID,
			Scope:      checked.NewAccessScope(r.Container.ScopeID),
			Name:       t.Name,
			GlobalName: t.Name,
			Kind:       checked.CustomKindGeneric,
		})
	}

	r := scope.SearchCustomType(t.Name)
	if r.IsNotFound() {
		a.emit(diagnostics.NewError(diagnostics.ErrDataTypeNotFound, t.Token, "data type is not found: "+t.Name))
		return unknownAt(t.Token.Location)
	}

	var generics []*checked.DataType
	if len(t.Generics) > 0 {
		generics = make([]*checked.DataType, len(t.Generics))
		for i, g := range t.Generics {
			generics[i] = a.checkDataType(g, scope)
		}
	}

	custom := &checked.CustomDataType{
		Name:     t.Name,
		Generics: generics,
		Kind:     customKindOf[r.Kind],
	}
	switch r.Kind {
	case checked.ResponseKindEnum:
		custom.GlobalName = r.Enum.GlobalName
		custom.IsRecursive = r.Enum.IsRecursive
	case checked.ResponseKindRecord:
		custom.GlobalName = r.Record.GlobalName
		custom.IsRecursive = r.Record.IsRecursive
	case checked.ResponseKindAlias:
		custom.GlobalName = r.Alias.GlobalName
	case checked.ResponseKindError:
		custom.GlobalName = r.Error.GlobalName
	case checked.ResponseKindClass:
		custom.GlobalName = r.Class.GlobalName
	case checked.ResponseKindTrait:
		custom.GlobalName = r.Trait.GlobalName
	}
	if r.Container != nil {
		custom.ScopeID = r.Container.ScopeID
		custom.Scope = checked.NewAccessScopeWithDecl(r.Container.ScopeID, r.Container.ID)
	}
	return checked.NewCustom(t.Token.Location, custom)
}
