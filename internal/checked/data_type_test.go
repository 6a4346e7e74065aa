package checked

import (
	"testing"

	"github.com/thelilylang/lily-sub007/internal/token"
)

var testLoc = token.Location{Filename: "test.lily", StartLine: 1, StartColumn: 1}

func intDt(t *testing.T) *DataType {
	t.Helper()
	return NewDataType(DataTypeKindInt32, testLoc)
}

func TestDataTypeEqReflexive(t *testing.T) {
	types := []*DataType{
		NewDataType(DataTypeKindUnit, testLoc),
		NewDataType(DataTypeKindBool, testLoc),
		NewArray(testLoc, ArrayKindSized, intDt(t), 4),
		NewWrap(DataTypeKindPtr, testLoc, intDt(t)),
		NewTuple(testLoc, []*DataType{intDt(t), NewDataType(DataTypeKindStr, testLoc)}),
		NewLambda(testLoc, []*DataType{intDt(t)}, NewDataType(DataTypeKindBool, testLoc)),
		NewResult(testLoc, intDt(t), []*DataType{NewDataType(DataTypeKindStr, testLoc)}),
	}
	for _, dt := range types {
		if !dt.Eq(dt) {
			t.Errorf("Eq(%s, %s) = false, want true", dt, dt)
		}
	}
}

func TestDataTypeCloneIsEqualButDistinct(t *testing.T) {
	dt := NewResult(testLoc,
		NewWrap(DataTypeKindPtr, testLoc, intDt(t)),
		[]*DataType{NewDataType(DataTypeKindStr, testLoc)})
	clone := dt.Clone()
	if clone == dt {
		t.Fatal("Clone returned the same pointer")
	}
	if !clone.Eq(dt) {
		t.Fatalf("Eq(clone, original) = false: %s vs %s", clone, dt)
	}
}

func TestRecursiveCustomCloneKeepsHandle(t *testing.T) {
	dt := NewCustom(testLoc, &CustomDataType{
		Name:        "Node",
		GlobalName:  "test.Node",
		Kind:        CustomKindRecord,
		IsRecursive: true,
	})
	if dt.Clone() != dt {
		t.Error("recursive custom type must clone to the same handle")
	}
}

func TestSizedArrayEqDistinguishesLength(t *testing.T) {
	a := NewArray(testLoc, ArrayKindSized, intDt(t), 3)
	b := NewArray(testLoc, ArrayKindSized, intDt(t), 4)
	if a.Eq(b) {
		t.Error("sized arrays of different lengths must not be equal")
	}
	c := NewArray(testLoc, ArrayKindSized, intDt(t), 3)
	if !a.Eq(c) {
		t.Error("sized arrays of equal lengths must be equal")
	}
}

func TestCustomGenericsNilVsEmpty(t *testing.T) {
	withNil := NewCustom(testLoc, &CustomDataType{GlobalName: "test.Box"})
	withEmpty := NewCustom(testLoc, &CustomDataType{GlobalName: "test.Box", Generics: []*DataType{}})
	if withNil.Eq(withEmpty) {
		t.Error("a missing generics vector must not equal an empty one")
	}
	if !withNil.Eq(withNil.Clone()) {
		t.Error("nil generics must survive Clone")
	}
}

func TestCompilerChoiceSetEquality(t *testing.T) {
	a := NewCompilerChoice(testLoc, []*DataType{intDt(t), NewDataType(DataTypeKindStr, testLoc)})
	b := NewCompilerChoice(testLoc, []*DataType{NewDataType(DataTypeKindStr, testLoc), intDt(t)})
	if !a.Eq(b) {
		t.Error("compiler-choice equality must be set equality")
	}
}

func TestAddChoiceDeduplicates(t *testing.T) {
	choice := NewCompilerChoice(testLoc, nil)
	choice.AddChoice(intDt(t))
	choice.AddChoice(intDt(t))
	if len(choice.CompilerChoice) != 1 {
		t.Fatalf("AddChoice kept %d candidates, want 1", len(choice.CompilerChoice))
	}
	choice.AddChoice(NewDataType(DataTypeKindStr, testLoc))
	if len(choice.CompilerChoice) != 2 {
		t.Fatalf("AddChoice kept %d candidates, want 2", len(choice.CompilerChoice))
	}
}

func TestAddCondChoiceReturnsExistingIndex(t *testing.T) {
	choice := NewConditionalCompilerChoice(testLoc, nil, nil)
	first := choice.AddCondChoice(intDt(t))
	second := choice.AddCondChoice(NewDataType(DataTypeKindStr, testLoc))
	dup := choice.AddCondChoice(intDt(t))
	if first != 0 || second != 1 {
		t.Fatalf("indexes = %d, %d, want 0, 1", first, second)
	}
	if dup != first {
		t.Errorf("duplicate choice returned index %d, want existing %d", dup, first)
	}
}

func TestSealLocksChoiceMutation(t *testing.T) {
	choice := NewCompilerChoice(testLoc, []*DataType{intDt(t)})
	choice.Seal()
	if !choice.IsLocked() {
		t.Fatal("Seal did not lock the type")
	}
	defer func() {
		if recover() == nil {
			t.Error("AddChoice on a sealed type must panic")
		}
	}()
	choice.AddChoice(NewDataType(DataTypeKindStr, testLoc))
}

func TestRemoveMut(t *testing.T) {
	dt := NewWrap(DataTypeKindMut, testLoc, NewWrap(DataTypeKindMut, testLoc, intDt(t)))
	if got := dt.RemoveMut(); got.Kind != DataTypeKindInt32 {
		t.Errorf("RemoveMut = %s, want Int32", got)
	}
}
