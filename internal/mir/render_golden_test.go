package mir

import (
	"testing"

	"golang.org/x/tools/txtar"
)

func goldenModule() *Module {
	m := NewModule()
	m.CreateStruct("Vec2", []*Dt{NewDt(DtKindI32), NewDt(DtKindI32)})
	m.PopCurrent()
	m.CreateConst("answer", NewIntVal(NewDt(DtKindI32), 42))
	m.PopCurrent()
	i32 := NewDt(DtKindI32)
	m.CreateFun("add", "add", []*Dt{i32, i32}, i32)
	sum := m.BuildReg(NewBinInst(InstKindIadd, NewParamVal(i32, 0), NewParamVal(i32, 1)))
	m.BuildRet(sum)
	m.PopCurrent()
	return m
}

func TestRenderModuleGolden(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/render.txtar")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	var want string
	for _, f := range archive.Files {
		if f.Name == "expected" {
			want = string(f.Data)
		}
	}
	if want == "" {
		t.Fatal("fixture has no expected section")
	}
	got := NewRendererWithColor(false).RenderModule(goldenModule())
	if got != want {
		t.Errorf("rendered module mismatch\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}
