package builtins

import (
	"github.com/thelilylang/lily-sub007/internal/checked"
)

// Sys is the sys function table: the thin C-interop layer over the host.
var Sys = buildSys()

func buildSys() []*checked.SysFun {
	voidPtr := ptrTo(dt(checked.DataTypeKindCvoid))
	return []*checked.SysFun{
		{
			Name:           "read",
			RealName:       "__sys__$read",
			ReturnDataType: dt(checked.DataTypeKindIsize),
			Params: []*checked.DataType{
				dt(checked.DataTypeKindInt32), voidPtr, dt(checked.DataTypeKindUsize),
			},
		},
		{
			Name:           "write",
			RealName:       "__sys__$write",
			ReturnDataType: dt(checked.DataTypeKindIsize),
			Params: []*checked.DataType{
				dt(checked.DataTypeKindInt32), voidPtr, dt(checked.DataTypeKindUsize),
			},
		},
		{
			Name:           "open",
			RealName:       "__sys__$open",
			ReturnDataType: dt(checked.DataTypeKindInt32),
			Params: []*checked.DataType{
				dt(checked.DataTypeKindCstr), dt(checked.DataTypeKindInt32),
			},
		},
		{
			Name:           "close",
			RealName:       "__sys__$close",
			ReturnDataType: dt(checked.DataTypeKindInt32),
			Params:         []*checked.DataType{dt(checked.DataTypeKindInt32)},
		},
		{
			Name:           "exit",
			RealName:       "__sys__$exit",
			ReturnDataType: dt(checked.DataTypeKindNever),
			Params:         []*checked.DataType{dt(checked.DataTypeKindInt32)},
		},
	}
}

// GetSys resolves a sys function by surface name and parameter types.
func GetSys(name string, params []*checked.DataType) *checked.SysFun {
	for _, s := range Sys {
		if s.Name != name || len(s.Params) != len(params) {
			continue
		}
		match := true
		for i, p := range s.Params {
			if !p.Eq(params[i]) {
				match = false
				break
			}
		}
		if match {
			return s
		}
	}
	return nil
}

// IsSysName reports whether any sys function carries the surface name.
func IsSysName(name string) bool {
	for _, s := range Sys {
		if s.Name == name {
			return true
		}
	}
	return false
}
