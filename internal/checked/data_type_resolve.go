package checked

import (
	"fmt"

	"github.com/thelilylang/lily-sub007/internal/utils"
)

// DeclLookup resolves custom data types to their declarations. The
// analyzer supplies an implementation backed by the module's scope tree.
type DeclLookup interface {
	LookupAlias(globalName string) *AliasDecl
	LookupRecord(globalName string) *RecordDecl
	LookupEnum(globalName string) *EnumDecl
}

// Resolver unfolds named, generic and wrapping data types into a
// concrete form for semantic comparison and MIR lowering.
type Resolver struct {
	Lookup DeclLookup
}

// NewResolver builds a resolver over the given declaration lookup.
func NewResolver(lookup DeclLookup) *Resolver {
	return &Resolver{Lookup: lookup}
}

// GenericContext is the pair of generic-instantiation contexts threaded
// through resolution: the call site's bindings and the declaration's.
type GenericContext struct {
	Called *utils.OrderedMap[*DataType]
	Decl   *utils.OrderedMap[*DataType]
}

// lookupGeneric consults the call-site context first, then the
// declaration context.
func (ctx GenericContext) lookupGeneric(name string) *DataType {
	if ctx.Called != nil {
		if dt, ok := ctx.Called.Get(name); ok {
			return dt
		}
	}
	if ctx.Decl != nil {
		if dt, ok := ctx.Decl.Get(name); ok {
			return dt
		}
	}
	return nil
}

// Resolve repeatedly unwraps alias-equivalents, substitutes generics via
// the context pair, rewrites generic custom types into their
// monomorphized name-only form and rebuilds wrappers with resolved
// innards. The result is freshly owned. Resolution fails when a generic
// name is absent from the context or an alias chain never reaches a
// concrete type.
func (r *Resolver) Resolve(dt *DataType, ctx GenericContext) (*DataType, error) {
	return r.resolve(dt, ctx, make(map[string]bool))
}

func (r *Resolver) resolve(dt *DataType, ctx GenericContext, seen map[string]bool) (*DataType, error) {
	if dt == nil {
		return nil, nil
	}
	switch dt.Kind {
	case DataTypeKindCompilerGeneric:
		bound := ctx.lookupGeneric(dt.CompilerGeneric)
		if bound == nil {
			return nil, fmt.Errorf("generic params is not found: %s", dt.CompilerGeneric)
		}
		return bound.Clone(), nil
	case DataTypeKindCustom:
		return r.resolveCustom(dt, ctx, seen)
	case DataTypeKindArray:
		elem, err := r.resolve(dt.Array.DataType, ctx, seen)
		if err != nil {
			return nil, err
		}
		return NewArray(dt.Location, dt.Array.Kind, elem, dt.Array.Size), nil
	case DataTypeKindLambda:
		var params []*DataType
		if dt.Lambda.Params != nil {
			params = make([]*DataType, len(dt.Lambda.Params))
			for i, p := range dt.Lambda.Params {
				resolved, err := r.resolve(p, ctx, seen)
				if err != nil {
					return nil, err
				}
				params[i] = resolved
			}
		}
		ret, err := r.resolve(dt.Lambda.ReturnType, ctx, seen)
		if err != nil {
			return nil, err
		}
		return NewLambda(dt.Location, params, ret), nil
	case DataTypeKindResult:
		ok, err := r.resolve(dt.Result.Ok, ctx, seen)
		if err != nil {
			return nil, err
		}
		var errs []*DataType
		if dt.Result.Errs != nil {
			errs = make([]*DataType, len(dt.Result.Errs))
			for i, e := range dt.Result.Errs {
				resolved, err := r.resolve(e, ctx, seen)
				if err != nil {
					return nil, err
				}
				errs[i] = resolved
			}
		}
		return NewResult(dt.Location, ok, errs), nil
	case DataTypeKindTuple:
		elems := make([]*DataType, len(dt.Tuple))
		for i, e := range dt.Tuple {
			resolved, err := r.resolve(e, ctx, seen)
			if err != nil {
				return nil, err
			}
			elems[i] = resolved
		}
		return NewTuple(dt.Location, elems), nil
	case DataTypeKindList, DataTypeKindMut, DataTypeKindOptional,
		DataTypeKindPtr, DataTypeKindPtrMut, DataTypeKindRef, DataTypeKindRefMut,
		DataTypeKindTrace, DataTypeKindTraceMut:
		inner, err := r.resolve(dt.Inner, ctx, seen)
		if err != nil {
			return nil, err
		}
		return NewWrap(dt.Kind, dt.Location, inner), nil
	default:
		// The outer kind is not reducible.
		return dt.Clone(), nil
	}
}

func (r *Resolver) resolveCustom(dt *DataType, ctx GenericContext, seen map[string]bool) (*DataType, error) {
	custom := dt.Custom
	switch custom.Kind {
	case CustomKindGeneric:
		bound := ctx.lookupGeneric(custom.Name)
		if bound == nil {
			return nil, fmt.Errorf("generic params is not found: %s", custom.Name)
		}
		return bound.Clone(), nil
	}

	// Unfold alias-equivalents. The is_recursive flag plus the seen set
	// stop a truly self-referential chain.
	if r.Lookup != nil {
		if alias := r.Lookup.LookupAlias(custom.GlobalName); alias != nil {
			if custom.IsRecursive || seen[custom.GlobalName] {
				return nil, fmt.Errorf("infinite data type: %s", custom.Name)
			}
			seen[custom.GlobalName] = true
			body := alias.DataType
			if len(alias.GenericParams) > 0 {
				bindings := utils.NewOrderedMap[*DataType]()
				for i, gp := range alias.GenericParams {
					if i >= len(custom.Generics) {
						return nil, fmt.Errorf("generic params is not found: %s", gp.Name)
					}
					bound, err := r.resolve(custom.Generics[i], ctx, seen)
					if err != nil {
						return nil, err
					}
					bindings.Put(gp.Name, bound)
				}
				body = ResolveGenericDataTypeWithOrderedHashMap(body, bindings)
			}
			return r.resolve(body, ctx, seen)
		}
	}

	// A generic custom type resolves to its monomorphized, name-only
	// form: the generics fold into the global name.
	if custom.Generics != nil {
		resolved := make([]*DataType, len(custom.Generics))
		for i, g := range custom.Generics {
			rg, err := r.resolve(g, ctx, seen)
			if err != nil {
				return nil, err
			}
			resolved[i] = rg
		}
		mono := *custom
		mono.GlobalName = MonomorphizedName(custom.GlobalName, resolved)
		mono.Generics = resolved
		return NewCustom(dt.Location, &mono), nil
	}
	return dt.Clone(), nil
}

// MonomorphizedName derives the deterministic key of a generic
// instantiation: base$Arg1$Arg2.
func MonomorphizedName(base string, generics []*DataType) string {
	name := base
	for _, g := range generics {
		name += "$" + g.String()
	}
	return name
}

// ResolveGenericDataTypeWithOrderedHashMap substitutes every compiler
// generic and user generic in dt via the name → data-type mapping,
// preserving caller insertion order for deterministic monomorphization
// keys.
func ResolveGenericDataTypeWithOrderedHashMap(dt *DataType, m *utils.OrderedMap[*DataType]) *DataType {
	return substituteGenerics(dt, func(name string) *DataType {
		bound, _ := m.Get(name)
		return bound
	})
}

// ResolveGenericDataTypeWithHashMap is the unordered variant.
func ResolveGenericDataTypeWithHashMap(dt *DataType, m map[string]*DataType) *DataType {
	return substituteGenerics(dt, func(name string) *DataType {
		return m[name]
	})
}

func substituteGenerics(dt *DataType, lookup func(string) *DataType) *DataType {
	if dt == nil {
		return nil
	}
	switch dt.Kind {
	case DataTypeKindCompilerGeneric:
		if bound := lookup(dt.CompilerGeneric); bound != nil {
			return bound.Clone()
		}
		return dt
	case DataTypeKindCustom:
		if dt.Custom.Kind == CustomKindGeneric {
			if bound := lookup(dt.Custom.Name); bound != nil {
				return bound.Clone()
			}
			return dt
		}
		if dt.Custom.Generics == nil {
			return dt
		}
		custom := *dt.Custom
		custom.Generics = make([]*DataType, len(dt.Custom.Generics))
		for i, g := range dt.Custom.Generics {
			custom.Generics[i] = substituteGenerics(g, lookup)
		}
		return NewCustom(dt.Location, &custom)
	case DataTypeKindArray:
		return NewArray(dt.Location, dt.Array.Kind, substituteGenerics(dt.Array.DataType, lookup), dt.Array.Size)
	case DataTypeKindLambda:
		var params []*DataType
		if dt.Lambda.Params != nil {
			params = make([]*DataType, len(dt.Lambda.Params))
			for i, p := range dt.Lambda.Params {
				params[i] = substituteGenerics(p, lookup)
			}
		}
		return NewLambda(dt.Location, params, substituteGenerics(dt.Lambda.ReturnType, lookup))
	case DataTypeKindResult:
		var errs []*DataType
		if dt.Result.Errs != nil {
			errs = make([]*DataType, len(dt.Result.Errs))
			for i, e := range dt.Result.Errs {
				errs[i] = substituteGenerics(e, lookup)
			}
		}
		return NewResult(dt.Location, substituteGenerics(dt.Result.Ok, lookup), errs)
	case DataTypeKindTuple:
		elems := make([]*DataType, len(dt.Tuple))
		for i, e := range dt.Tuple {
			elems[i] = substituteGenerics(e, lookup)
		}
		return NewTuple(dt.Location, elems)
	case DataTypeKindList, DataTypeKindMut, DataTypeKindOptional,
		DataTypeKindPtr, DataTypeKindPtrMut, DataTypeKindRef, DataTypeKindRefMut,
		DataTypeKindTrace, DataTypeKindTraceMut:
		return NewWrap(dt.Kind, dt.Location, substituteGenerics(dt.Inner, lookup))
	default:
		return dt
	}
}

// resolveAlias peels alias wrappers without a generic context. Used by
// the classification predicates below.
func (r *Resolver) resolveAlias(dt *DataType) *DataType {
	for dt.Kind == DataTypeKindCustom && r.Lookup != nil {
		alias := r.Lookup.LookupAlias(dt.Custom.GlobalName)
		if alias == nil || dt.Custom.IsRecursive {
			return dt
		}
		dt = alias.DataType
	}
	return dt
}

// IsInteger reports whether dt behaves as an integer. Enums qualify
// through their discriminant; arrays and pointers qualify only when an
// implicit cast is allowed.
func (r *Resolver) IsInteger(dt *DataType, allowImplicitCast bool) bool {
	dt = r.resolveAlias(dt).RemoveMut()
	if dt.IsIntegerPrimitive() || dt.Kind == DataTypeKindBool ||
		dt.Kind == DataTypeKindByte || dt.Kind == DataTypeKindChar {
		return true
	}
	if dt.Kind == DataTypeKindCustom && dt.Custom.Kind == CustomKindEnum {
		return true
	}
	if allowImplicitCast {
		return dt.Kind == DataTypeKindArray || dt.IsPtrKind()
	}
	return false
}

// IsFloat reports whether dt behaves as a float.
func (r *Resolver) IsFloat(dt *DataType) bool {
	return r.resolveAlias(dt).RemoveMut().IsFloatPrimitive()
}

// IsNumeric reports whether dt behaves as an integer or a float.
func (r *Resolver) IsNumeric(dt *DataType, allowImplicitCast bool) bool {
	return r.IsInteger(dt, allowImplicitCast) || r.IsFloat(dt)
}

// IsPtr reports whether dt behaves as a pointer.
func (r *Resolver) IsPtr(dt *DataType) bool {
	return r.resolveAlias(dt).RemoveMut().IsPtrKind()
}

// integerRanks is the standard promotion order:
// bool < char family < short family < int family < long family <
// long long family.
var integerRanks = map[DataTypeKind]int{
	DataTypeKindBool:       1,
	DataTypeKindChar:       2,
	DataTypeKindByte:       2,
	DataTypeKindInt8:       2,
	DataTypeKindUint8:      2,
	DataTypeKindInt16:      3,
	DataTypeKindUint16:     3,
	DataTypeKindCshort:     3,
	DataTypeKindCushort:    3,
	DataTypeKindInt32:      4,
	DataTypeKindUint32:     4,
	DataTypeKindCint:       4,
	DataTypeKindCuint:      4,
	DataTypeKindInt64:      5,
	DataTypeKindUint64:     5,
	DataTypeKindIsize:      5,
	DataTypeKindUsize:      5,
	DataTypeKindClong:      5,
	DataTypeKindCulong:     5,
	DataTypeKindClonglong:  6,
	DataTypeKindCulonglong: 6,
}

// GetIntegerRank returns the promotion rank (1..6) of an integer type,
// or 0 when dt is not an integer. `mut T` ranks as T.
func (r *Resolver) GetIntegerRank(dt *DataType) int {
	return integerRanks[r.resolveAlias(dt).RemoveMut().Kind]
}

// GetFieldsFromDataType returns the ordered field vector of the record
// behind dt, resolving named references. It fails when dt does not reach
// a record.
func (r *Resolver) GetFieldsFromDataType(dt *DataType) ([]*RecordField, error) {
	dt = r.resolveAlias(dt).RemoveMut()
	// Field access descends through every pointer level implicitly.
	for dt.IsPtrKind() {
		dt = dt.Inner
	}
	if dt.Kind != DataTypeKindCustom {
		return nil, fmt.Errorf("expected custom data type, got %s", dt)
	}
	if r.Lookup == nil {
		return nil, fmt.Errorf("no declaration lookup for %s", dt.Custom.Name)
	}
	record := r.Lookup.LookupRecord(dt.Custom.GlobalName)
	if record == nil {
		return nil, fmt.Errorf("%s is not a record", dt.Custom.Name)
	}
	return record.Fields, nil
}

// UnwrapImplicitPtr peels exactly one level of pointer-family wrapping.
// Arrays unwrap to their element; an alias of a pointer unwraps its
// body. Non-pointer types are their own fixed point.
func (r *Resolver) UnwrapImplicitPtr(dt *DataType) *DataType {
	resolved := r.resolveAlias(dt).RemoveMut()
	switch {
	case resolved.IsPtrKind():
		return resolved.Inner
	case resolved.Kind == DataTypeKindArray:
		return resolved.Array.DataType
	default:
		return dt
	}
}

// countPointerDepth walks wrappers until a void-equivalent and returns
// the depth, or -1 when the chain never reaches one.
func (r *Resolver) countPointerDepth(dt *DataType) int {
	depth := 0
	dt = r.resolveAlias(dt).RemoveMut()
	for dt.IsPtrKind() {
		depth++
		dt = r.resolveAlias(dt.Inner).RemoveMut()
	}
	if dt.Kind == DataTypeKindCvoid {
		return depth
	}
	return -1
}

// IsCompatibleWithVoidPtr reports whether left and right unify through a
// void pointer: one side must reach a void-equivalent, and both sides
// must reach it at the same pointer depth.
func (r *Resolver) IsCompatibleWithVoidPtr(left, right *DataType) bool {
	ld, rd := r.countPointerDepth(left), r.countPointerDepth(right)
	if ld < 0 && rd < 0 {
		return false
	}
	if ld >= 0 && rd >= 0 {
		return ld == rd
	}
	// One side is void at depth n; the other must be a pointer chain of
	// the same depth.
	depthOf := func(dt *DataType) int {
		depth := 0
		dt = r.resolveAlias(dt).RemoveMut()
		for dt.IsPtrKind() {
			depth++
			dt = r.resolveAlias(dt.Inner).RemoveMut()
		}
		return depth
	}
	if ld >= 0 {
		return depthOf(right) == ld
	}
	return depthOf(left) == rd
}
