package builtins

import (
	"testing"

	"github.com/thelilylang/lily-sub007/internal/checked"
)

func TestGetBuiltinRoundTrip(t *testing.T) {
	for _, b := range Builtins {
		if got := GetBuiltin(b.Name, b.Params); got != b {
			t.Errorf("GetBuiltin(%s, %v) = %v, want the table entry %s", b.Name, b.Params, got, b.RealName)
		}
	}
}

func TestGetBuiltinMaxInt32(t *testing.T) {
	i32 := dt(checked.DataTypeKindInt32)
	b := GetBuiltin("max", []*checked.DataType{i32, i32})
	if b == nil {
		t.Fatal("GetBuiltin(max, Int32, Int32) = nil")
	}
	if b.RealName != "__max__$Int32" {
		t.Errorf("real name = %s, want __max__$Int32", b.RealName)
	}
	if b.ReturnDataType.Kind != checked.DataTypeKindInt32 {
		t.Errorf("return = %s, want Int32", b.ReturnDataType)
	}
}

func TestGetBuiltinRejectsMismatchedParams(t *testing.T) {
	i32 := dt(checked.DataTypeKindInt32)
	i64 := dt(checked.DataTypeKindInt64)
	if got := GetBuiltin("max", []*checked.DataType{i32, i64}); got != nil {
		t.Errorf("GetBuiltin(max, Int32, Int64) = %s, want nil", got.RealName)
	}
	if got := GetBuiltin("max", []*checked.DataType{i32}); got != nil {
		t.Errorf("GetBuiltin(max, Int32) = %s, want nil (arity)", got.RealName)
	}
}

func TestLenCstr(t *testing.T) {
	b := GetBuiltin("len", []*checked.DataType{dt(checked.DataTypeKindCstr)})
	if b == nil || b.RealName != "__len__$CStr" {
		t.Fatalf("GetBuiltin(len, Cstr) = %v, want __len__$CStr", b)
	}
	if b.ReturnDataType.Kind != checked.DataTypeKindUsize {
		t.Errorf("len return = %s, want Usize", b.ReturnDataType)
	}
}

func TestAllocatorFamily(t *testing.T) {
	for _, name := range []string{"align", "alloc", "resize", "free"} {
		if !IsBuiltinName(name) {
			t.Errorf("IsBuiltinName(%s) = false", name)
		}
	}
}

func TestSysTable(t *testing.T) {
	for _, s := range Sys {
		if got := GetSys(s.Name, s.Params); got != s {
			t.Errorf("GetSys(%s) did not return its table entry", s.Name)
		}
	}
	if !IsSysName("write") || IsSysName("nope") {
		t.Error("IsSysName is wrong")
	}
	exit := GetSys("exit", []*checked.DataType{dt(checked.DataTypeKindInt32)})
	if exit == nil || exit.ReturnDataType.Kind != checked.DataTypeKindNever {
		t.Error("exit must return Never")
	}
}
