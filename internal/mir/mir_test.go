package mir

import (
	"strings"
	"testing"
)

func TestBlockRefusesInstAfterTerminator(t *testing.T) {
	block := &BlockInst{Name: "entry.0", Limit: NewBlockLimit()}
	if !block.AddInst(&Inst{Kind: InstKindRet, Ret: &RetInst{}}) {
		t.Fatal("first terminator must be accepted")
	}
	if block.AddInst(&Inst{Kind: InstKindRet, Ret: &RetInst{}}) {
		t.Fatal("an instruction after the terminator must be refused")
	}
	if err := block.Verify(); err != nil {
		t.Errorf("Verify = %v, want nil", err)
	}
}

func TestBlockVerifyMissingTerminator(t *testing.T) {
	block := &BlockInst{Name: "entry.0", Limit: NewBlockLimit()}
	block.AddInst(&Inst{Kind: InstKindAlloc, Alloc: &AllocInst{Dt: NewDt(DtKindI32)}})
	if err := block.Verify(); err == nil {
		t.Error("Verify must flag a block without a terminator")
	}
}

func TestModuleCurrentStack(t *testing.T) {
	m := NewModule()
	fun := m.CreateFun("f", "f", nil, NewDt(DtKindUnit))
	if m.CurrentFun() != fun {
		t.Fatal("CurrentFun must be the just-opened function")
	}
	// Nested definitions are legal: the stack keeps f open.
	m.CreateConst("k", NewIntVal(NewDt(DtKindI32), 1))
	if m.CurrentFun() != nil {
		t.Fatal("the const is the innermost current")
	}
	m.PopCurrent()
	if m.CurrentFun() != fun {
		t.Fatal("popping the const must re-expose the function")
	}
	m.BuildRet(nil)
	m.PopCurrent()
	if _, ok := m.Insts.Get("f"); !ok {
		t.Error("the finished function must land in the module insts")
	}
	if _, ok := m.Insts.Get("k"); !ok {
		t.Error("the finished const must land in the module insts")
	}
}

func TestModuleVerify(t *testing.T) {
	m := NewModule()
	m.CreateFun("ok", "ok", nil, NewDt(DtKindUnit))
	m.BuildRet(nil)
	m.PopCurrent()
	if err := m.Verify(); err != nil {
		t.Errorf("Verify = %v, want nil", err)
	}

	bad := NewModule()
	bad.CreateFun("bad", "bad", nil, NewDt(DtKindUnit))
	bad.PopCurrent()
	if err := bad.Verify(); err == nil {
		t.Error("Verify must reject a function whose entry has no terminator")
	}
}

func TestGenerateRegNames(t *testing.T) {
	m := NewModule()
	m.CreateFun("f", "f", nil, NewDt(DtKindUnit))
	if got := m.GenerateReg(); got != "%r.0" {
		t.Errorf("first reg = %s, want %%r.0", got)
	}
	if got := m.GenerateReg(); got != "%r.1" {
		t.Errorf("second reg = %s, want %%r.1", got)
	}
	if got := m.GenerateVirtualVariable(); got != "%v.0" {
		t.Errorf("first virtual = %s, want %%v.0", got)
	}
}

func TestScopeLifetimeByBlockLimit(t *testing.T) {
	rootLimit := NewBlockLimit()
	root := NewScope(rootLimit)
	root.AddVar("x", nil)
	childLimit := NewBlockLimit()
	child := root.Push(childLimit)
	child.AddVar("y", nil)

	if child.GetVar("x") == nil {
		t.Fatal("the parent chain must resolve x")
	}
	childLimit.Set(3)
	if got := child.PopByLimit(3); got != root {
		t.Error("a scope whose limit ended must be dropped")
	}
	if got := child.PopByLimit(2); got != child {
		t.Error("a scope whose limit has not ended must survive")
	}
}

func TestBlockLimitSetOnce(t *testing.T) {
	limit := NewBlockLimit()
	limit.Set(4)
	limit.Set(9)
	if limit.ID != 4 {
		t.Errorf("limit id = %d, want the first set value 4", limit.ID)
	}
}

func TestDtRenderEqImpliesEqualText(t *testing.T) {
	u := uint64(3)
	pairs := [][2]*Dt{
		{NewDtPtr(NewDt(DtKindI32)), NewDtPtr(NewDt(DtKindI32))},
		{NewDtArray(4, NewDt(DtKindU8)), NewDtArray(4, NewDt(DtKindU8))},
		{NewDtArrayUndef(NewDt(DtKindF64)), NewDtArrayUndef(NewDt(DtKindF64))},
		{NewDtTuple([]*Dt{NewDt(DtKindI1), NewDt(DtKindStr)}), NewDtTuple([]*Dt{NewDt(DtKindI1), NewDt(DtKindStr)})},
		{NewDtStructName("Outer"), NewDtStructName("Outer")},
		{NewDtTrace(NewDt(DtKindI8)), NewDtTrace(NewDt(DtKindI8))},
		{&Dt{Kind: DtKindBytes, Len: &u}, &Dt{Kind: DtKindBytes, Len: &u}},
	}
	r := NewRendererWithColor(false)
	for _, pair := range pairs {
		if !pair[0].Eq(pair[1]) {
			t.Errorf("Eq(%s, %s) = false", pair[0], pair[1])
			continue
		}
		if r.RenderDt(pair[0]) != r.RenderDt(pair[1]) {
			t.Errorf("equal types render differently: %s vs %s", r.RenderDt(pair[0]), r.RenderDt(pair[1]))
		}
	}
}

func TestDtCanonicalForms(t *testing.T) {
	r := NewRendererWithColor(false)
	cases := []struct {
		dt   *Dt
		want string
	}{
		{NewDt(DtKindI1), "i1"},
		{NewDtPtr(NewDt(DtKindU8)), "*u8"},
		{NewDtRef(NewDt(DtKindF32)), "&f32"},
		{NewDtList(NewDt(DtKindI64)), "{i64}"},
		{NewDtArray(8, NewDt(DtKindI16)), "[8 x i16]"},
		{NewDtArrayUndef(NewDt(DtKindI16)), "[? x i16]"},
		{NewDtTuple([]*Dt{NewDt(DtKindI32), NewDt(DtKindI32)}), "(i32, i32)"},
		{NewDtStruct([]*Dt{NewDt(DtKindI8), NewDt(DtKindUsize)}), "struct {i8, usize}"},
		{NewDtStructName("Inner"), "struct Inner"},
		{NewDtTrace(NewDt(DtKindU32)), "struct {u32, usize}"},
	}
	for _, tc := range cases {
		if got := r.RenderDt(tc.dt); got != tc.want {
			t.Errorf("RenderDt = %q, want %q", got, tc.want)
		}
	}
}

func TestRenderModuleContainsDefinitions(t *testing.T) {
	m := NewModule()
	m.CreateStruct("Point", []*Dt{NewDt(DtKindI32), NewDt(DtKindI32)})
	m.PopCurrent()
	m.CreateFun("main", "main", nil, NewDt(DtKindUnit))
	m.BuildRet(nil)
	m.PopCurrent()
	out := NewRendererWithColor(false).RenderModule(m)
	for _, want := range []string{"struct Point", "fun main", "entry.0:", "ret"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered module missing %q:\n%s", want, out)
		}
	}
}

func TestDebugInfoFilesDeduplicate(t *testing.T) {
	m := NewModule()
	a := m.BuildDIFile("main.lily", "/src")
	b := m.BuildDIFile("main.lily", "/src")
	if a != b {
		t.Error("debug-info files must deduplicate by path")
	}
	if a.CompilationUnitID == "" {
		t.Error("a debug-info file needs a compilation-unit id")
	}
	sub := m.BuildDISubProgram(nil, a, 3, 1)
	loc := m.BuildDILocation(sub, 4, 2)
	if sub.ID == loc.ID {
		t.Error("debug-info ids must be sequential and distinct")
	}
}
