package checked

import (
	"testing"
)

func TestScopeVariableShadowing(t *testing.T) {
	root := NewScope(0, nil)
	child := NewScope(1, root)
	if !root.AddVariable(&Variable{Name: "x", DataType: NewDataType(DataTypeKindInt32, testLoc)}) {
		t.Fatal("AddVariable(x) failed in root")
	}
	if !child.AddVariable(&Variable{Name: "x", DataType: NewDataType(DataTypeKindStr, testLoc)}) {
		t.Fatal("shadowing in a child scope must be legal")
	}
	if root.AddVariable(&Variable{Name: "x"}) {
		t.Error("duplicate variable in the same scope must fail")
	}
	r := child.SearchVariable("x")
	if r.Kind != ResponseKindVariable || r.Variable.DataType.Kind != DataTypeKindStr {
		t.Error("nearest binding must win")
	}
}

func TestScopeOverloadSetAggregation(t *testing.T) {
	root := NewScope(0, nil)
	inner := NewScope(1, root)
	root.AddFun(&FunDecl{Name: "f", GlobalName: "root.f"})
	root.AddFun(&FunDecl{Name: "f", GlobalName: "root.f#2"})
	inner.AddFun(&FunDecl{Name: "f", GlobalName: "inner.f"})

	r := inner.SearchFun("f")
	if r.Kind != ResponseKindFun {
		t.Fatalf("SearchFun = %v, want fun response", r.Kind)
	}
	if len(r.Funs) != 3 {
		t.Fatalf("overload set size = %d, want 3 (all enclosing scopes)", len(r.Funs))
	}
	// Innermost first.
	if r.Funs[0].GlobalName != "inner.f" {
		t.Errorf("first overload = %s, want inner.f", r.Funs[0].GlobalName)
	}
}

func TestScopeCrossKindConflict(t *testing.T) {
	root := NewScope(0, nil)
	if !root.AddRecord(&RecordDecl{Name: "Thing", GlobalName: "test.Thing"}) {
		t.Fatal("AddRecord failed")
	}
	if root.AddEnum(&EnumDecl{Name: "Thing", GlobalName: "test.Thing"}) {
		t.Error("an enum must not reuse a record's name")
	}
	if root.AddFun(&FunDecl{Name: "Thing"}) {
		t.Error("a fun must not reuse a record's name")
	}
}

func TestScopeParamResolution(t *testing.T) {
	fun := NewScope(0, nil)
	fun.AddParam(&FunParam{Name: "n", DataType: NewDataType(DataTypeKindInt64, testLoc)})
	body := NewScope(1, fun)
	r := body.SearchVariable("n")
	if r.Kind != ResponseKindFunParam {
		t.Fatalf("SearchVariable(n) = %v, want fun-param response", r.Kind)
	}
	if fun.AddParam(&FunParam{Name: "n"}) {
		t.Error("duplicate param must fail")
	}
}

func TestScopeMoveTracking(t *testing.T) {
	s := NewScope(0, nil)
	s.AddVariable(&Variable{Name: "v", DataType: NewDataType(DataTypeKindStr, testLoc)})
	if !s.MarkMoved("v") {
		t.Fatal("MarkMoved(v) failed")
	}
	if !s.SearchVariable("v").Variable.IsMoved {
		t.Error("variable must be flagged moved")
	}
	if s.MarkMoved("missing") {
		t.Error("MarkMoved on an unknown name must fail")
	}
}

func TestResolveNamePrecedence(t *testing.T) {
	root := NewScope(0, nil)
	root.AddConstant(&ConstantDecl{Name: "k", GlobalName: "test.k", DataType: NewDataType(DataTypeKindInt32, testLoc)})
	root.AddVariable(&Variable{Name: "k", DataType: NewDataType(DataTypeKindStr, testLoc)})
	if r := root.ResolveName("k"); r.Kind != ResponseKindVariable {
		t.Errorf("ResolveName(k) = %v, want the variable", r.Kind)
	}
	if r := root.ResolveName("nothing"); !r.IsNotFound() {
		t.Error("ResolveName on an unknown name must be not_found")
	}
}
