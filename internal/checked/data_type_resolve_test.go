package checked

import (
	"strings"
	"testing"

	"github.com/thelilylang/lily-sub007/internal/utils"
)

// declTable is a test DeclLookup over literal declarations.
type declTable struct {
	aliases map[string]*AliasDecl
	records map[string]*RecordDecl
	enums   map[string]*EnumDecl
}

func (d *declTable) LookupAlias(name string) *AliasDecl   { return d.aliases[name] }
func (d *declTable) LookupRecord(name string) *RecordDecl { return d.records[name] }
func (d *declTable) LookupEnum(name string) *EnumDecl     { return d.enums[name] }

func emptyTable() *declTable {
	return &declTable{
		aliases: map[string]*AliasDecl{},
		records: map[string]*RecordDecl{},
		enums:   map[string]*EnumDecl{},
	}
}

func genericDt(name string) *DataType {
	return NewCustom(testLoc, &CustomDataType{Name: name, GlobalName: name, Kind: CustomKindGeneric})
}

func TestResolveGenericFromCalledContext(t *testing.T) {
	r := NewResolver(emptyTable())
	called := utils.NewOrderedMap[*DataType]()
	called.Put("K", NewDataType(DataTypeKindInt32, testLoc))
	called.Put("V", NewDataType(DataTypeKindStr, testLoc))
	ctx := GenericContext{Called: called}

	got, err := r.Resolve(genericDt("V"), ctx)
	if err != nil {
		t.Fatalf("Resolve(V) error: %v", err)
	}
	if got.Kind != DataTypeKindStr {
		t.Errorf("Resolve(V) = %s, want Str", got)
	}

	ptrK, err := r.Resolve(NewWrap(DataTypeKindPtr, testLoc, genericDt("K")), ctx)
	if err != nil {
		t.Fatalf("Resolve(*K) error: %v", err)
	}
	if ptrK.Kind != DataTypeKindPtr || ptrK.Inner.Kind != DataTypeKindInt32 {
		t.Errorf("Resolve(*K) = %s, want *Int32", ptrK)
	}
}

func TestResolveMissingGenericFails(t *testing.T) {
	r := NewResolver(emptyTable())
	_, err := r.Resolve(genericDt("T"), GenericContext{})
	if err == nil || !strings.Contains(err.Error(), "generic params is not found") {
		t.Fatalf("Resolve(unbound T) error = %v, want generic-params-not-found", err)
	}
}

func TestResolveAliasUnfolds(t *testing.T) {
	table := emptyTable()
	table.aliases["test.Id"] = &AliasDecl{
		Name:       "Id",
		GlobalName: "test.Id",
		DataType:   NewDataType(DataTypeKindUint64, testLoc),
	}
	r := NewResolver(table)
	dt := NewCustom(testLoc, &CustomDataType{Name: "Id", GlobalName: "test.Id", Kind: CustomKindRecord})
	got, err := r.Resolve(dt, GenericContext{})
	if err != nil {
		t.Fatalf("Resolve(alias) error: %v", err)
	}
	if got.Kind != DataTypeKindUint64 {
		t.Errorf("Resolve(alias) = %s, want Uint64", got)
	}
}

func TestResolveInfiniteAliasFails(t *testing.T) {
	table := emptyTable()
	table.aliases["test.Loop"] = &AliasDecl{
		Name:       "Loop",
		GlobalName: "test.Loop",
		DataType:   NewCustom(testLoc, &CustomDataType{Name: "Loop", GlobalName: "test.Loop", Kind: CustomKindRecord}),
	}
	r := NewResolver(table)
	dt := NewCustom(testLoc, &CustomDataType{Name: "Loop", GlobalName: "test.Loop", Kind: CustomKindRecord})
	_, err := r.Resolve(dt, GenericContext{})
	if err == nil || !strings.Contains(err.Error(), "infinite data type") {
		t.Fatalf("Resolve(self alias) error = %v, want infinite data type", err)
	}
}

func TestResolveMonomorphizesGenericCustom(t *testing.T) {
	r := NewResolver(emptyTable())
	called := utils.NewOrderedMap[*DataType]()
	called.Put("K", NewDataType(DataTypeKindInt32, testLoc))
	called.Put("V", NewDataType(DataTypeKindStr, testLoc))
	dt := NewCustom(testLoc, &CustomDataType{
		Name:       "map",
		GlobalName: "test.map",
		Kind:       CustomKindRecord,
		Generics:   []*DataType{genericDt("K"), genericDt("V")},
	})
	got, err := r.Resolve(dt, GenericContext{Called: called})
	if err != nil {
		t.Fatalf("Resolve(map[K, V]) error: %v", err)
	}
	if got.Custom.GlobalName != "test.map$Int32$Str" {
		t.Errorf("monomorphized name = %s, want test.map$Int32$Str", got.Custom.GlobalName)
	}
}

func TestGetIntegerRankOrder(t *testing.T) {
	r := NewResolver(emptyTable())
	ranks := []struct {
		kind DataTypeKind
		want int
	}{
		{DataTypeKindBool, 1},
		{DataTypeKindInt8, 2},
		{DataTypeKindInt16, 3},
		{DataTypeKindInt32, 4},
		{DataTypeKindUint32, 4},
		{DataTypeKindInt64, 5},
		{DataTypeKindUsize, 5},
		{DataTypeKindClonglong, 6},
	}
	for _, tc := range ranks {
		if got := r.GetIntegerRank(NewDataType(tc.kind, testLoc)); got != tc.want {
			t.Errorf("GetIntegerRank(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
	mut := NewWrap(DataTypeKindMut, testLoc, NewDataType(DataTypeKindInt32, testLoc))
	if r.GetIntegerRank(mut) != 4 {
		t.Error("mut Int32 must rank as Int32")
	}
}

func TestIsIntegerImplicitCast(t *testing.T) {
	r := NewResolver(emptyTable())
	ptr := NewWrap(DataTypeKindPtr, testLoc, NewDataType(DataTypeKindInt32, testLoc))
	if r.IsInteger(ptr, false) {
		t.Error("pointer must not be integer without implicit cast")
	}
	if !r.IsInteger(ptr, true) {
		t.Error("pointer must be integer with implicit cast allowed")
	}
	enum := NewCustom(testLoc, &CustomDataType{Name: "Color", GlobalName: "test.Color", Kind: CustomKindEnum})
	if !r.IsInteger(enum, false) {
		t.Error("enum must be integer through its discriminant")
	}
}

func TestUnwrapImplicitPtr(t *testing.T) {
	r := NewResolver(emptyTable())
	inner := NewDataType(DataTypeKindInt64, testLoc)
	if got := r.UnwrapImplicitPtr(NewWrap(DataTypeKindPtr, testLoc, inner)); got != inner {
		t.Errorf("UnwrapImplicitPtr(*Int64) = %s, want Int64", got)
	}
	arr := NewArray(testLoc, ArrayKindSized, inner, 8)
	if got := r.UnwrapImplicitPtr(arr); got != inner {
		t.Errorf("UnwrapImplicitPtr([8]Int64) = %s, want Int64", got)
	}
	plain := NewDataType(DataTypeKindBool, testLoc)
	if got := r.UnwrapImplicitPtr(plain); got != plain {
		t.Error("a non-pointer must be its own fixed point")
	}
}

func TestIsCompatibleWithVoidPtr(t *testing.T) {
	r := NewResolver(emptyTable())
	voidPtr := NewWrap(DataTypeKindPtr, testLoc, NewDataType(DataTypeKindCvoid, testLoc))
	intPtr := NewWrap(DataTypeKindPtr, testLoc, NewDataType(DataTypeKindInt32, testLoc))
	if !r.IsCompatibleWithVoidPtr(voidPtr, intPtr) {
		t.Error("*CVoid and *Int32 must be compatible at depth 1")
	}
	deepVoid := NewWrap(DataTypeKindPtr, testLoc, voidPtr)
	if r.IsCompatibleWithVoidPtr(deepVoid, intPtr) {
		t.Error("**CVoid and *Int32 differ in pointer depth")
	}
}

func TestResolveGenericWithHashMaps(t *testing.T) {
	ordered := utils.NewOrderedMap[*DataType]()
	ordered.Put("T", NewDataType(DataTypeKindFloat64, testLoc))
	dt := NewWrap(DataTypeKindList, testLoc, NewCompilerGeneric(testLoc, "T"))
	got := ResolveGenericDataTypeWithOrderedHashMap(dt, ordered)
	if got.Kind != DataTypeKindList || got.Inner.Kind != DataTypeKindFloat64 {
		t.Errorf("ordered substitution = %s, want {Float64}", got)
	}
	got2 := ResolveGenericDataTypeWithHashMap(dt, map[string]*DataType{
		"T": NewDataType(DataTypeKindBool, testLoc),
	})
	if got2.Inner.Kind != DataTypeKindBool {
		t.Errorf("unordered substitution = %s, want {Bool}", got2)
	}
}
