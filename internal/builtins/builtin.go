// Package builtins holds the static builtin and sys function signature
// tables the checker dispatches against. The tables are process-lifetime
// immutables after package initialization.
package builtins

import (
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/token"
)

var noLoc token.Location

func dt(kind checked.DataTypeKind) *checked.DataType {
	return checked.NewDataType(kind, noLoc)
}

func ptrTo(inner *checked.DataType) *checked.DataType {
	return checked.NewWrap(checked.DataTypeKindPtr, noLoc, inner)
}

// numericKinds pairs a surface type name with its data-type kind for the
// max/min families.
var numericKinds = []struct {
	name string
	kind checked.DataTypeKind
}{
	{"Int8", checked.DataTypeKindInt8},
	{"Int16", checked.DataTypeKindInt16},
	{"Int32", checked.DataTypeKindInt32},
	{"Int64", checked.DataTypeKindInt64},
	{"Isize", checked.DataTypeKindIsize},
	{"Uint8", checked.DataTypeKindUint8},
	{"Uint16", checked.DataTypeKindUint16},
	{"Uint32", checked.DataTypeKindUint32},
	{"Uint64", checked.DataTypeKindUint64},
	{"Usize", checked.DataTypeKindUsize},
	{"Float32", checked.DataTypeKindFloat32},
	{"Float64", checked.DataTypeKindFloat64},
}

// Builtins is the builtin function table. Surface names are overloaded;
// overload resolution matches parameter data types pointwise.
var Builtins = buildBuiltins()

func buildBuiltins() []*checked.BuiltinFun {
	var table []*checked.BuiltinFun
	for _, family := range []string{"max", "min"} {
		for _, nk := range numericKinds {
			table = append(table, &checked.BuiltinFun{
				Name:           family,
				RealName:       "__" + family + "__$" + nk.name,
				ReturnDataType: dt(nk.kind),
				Params:         []*checked.DataType{dt(nk.kind), dt(nk.kind)},
			})
		}
	}
	table = append(table, &checked.BuiltinFun{
		Name:           "len",
		RealName:       "__len__$CStr",
		ReturnDataType: dt(checked.DataTypeKindUsize),
		Params:         []*checked.DataType{dt(checked.DataTypeKindCstr)},
	})
	// Untyped-pointer allocator interface.
	voidPtr := ptrTo(dt(checked.DataTypeKindCvoid))
	table = append(table,
		&checked.BuiltinFun{
			Name:           "align",
			RealName:       "__align__$Alloc",
			ReturnDataType: voidPtr,
			Params:         []*checked.DataType{voidPtr, dt(checked.DataTypeKindUsize)},
		},
		&checked.BuiltinFun{
			Name:           "alloc",
			RealName:       "__alloc__$Alloc",
			ReturnDataType: voidPtr,
			Params:         []*checked.DataType{dt(checked.DataTypeKindUsize)},
		},
		&checked.BuiltinFun{
			Name:           "resize",
			RealName:       "__resize__$Alloc",
			ReturnDataType: voidPtr,
			Params:         []*checked.DataType{voidPtr, dt(checked.DataTypeKindUsize)},
		},
		&checked.BuiltinFun{
			Name:           "free",
			RealName:       "__free__$Alloc",
			ReturnDataType: dt(checked.DataTypeKindUnit),
			Params:         []*checked.DataType{voidPtr},
		},
	)
	return table
}

// GetBuiltin resolves a builtin overload: the entry whose surface name
// matches and whose parameter types are pointwise equal to params.
func GetBuiltin(name string, params []*checked.DataType) *checked.BuiltinFun {
	for _, b := range Builtins {
		if b.Name != name || len(b.Params) != len(params) {
			continue
		}
		match := true
		for i, p := range b.Params {
			if !p.Eq(params[i]) {
				match = false
				break
			}
		}
		if match {
			return b
		}
	}
	return nil
}

// IsBuiltinName reports whether any builtin carries the surface name.
func IsBuiltinName(name string) bool {
	for _, b := range Builtins {
		if b.Name == name {
			return true
		}
	}
	return false
}
