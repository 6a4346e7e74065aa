package checked

import (
	"testing"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/token"
)

func intCase(v int64) *CaseValue {
	return &CaseValue{Kind: CaseValueKindInt32, Int: v}
}

func body(t *testing.T) *Stmt {
	t.Helper()
	return &Stmt{Kind: checkedStmtKindForTest}
}

const checkedStmtKindForTest = StmtKindExpr

func guard(name string) *Expr {
	// Distinct AST nodes give guards distinct identities.
	raw := &ast.Identifier{Token: token.Token{Lexeme: name}, Value: name}
	return NewExpr(ExprKindUnknown, testLoc, NewDataType(DataTypeKindBool, testLoc), raw)
}

func TestSwitchUnionCase(t *testing.T) {
	s := &StmtSwitch{}
	union := NewUnionCaseValue([]*CaseValue{intCase(1), intCase(2), intCase(3)})
	if got := s.AddCase(testLoc, union, nil, body(t)); got != CaseOk {
		t.Fatalf("AddCase(1|2|3) = %d, want ok", got)
	}
	if got := s.AddCase(testLoc, intCase(4), nil, body(t)); got != CaseOk {
		t.Fatalf("AddCase(4) = %d, want ok", got)
	}
	// 2 is already covered through the union: overlapping values are
	// duplicates.
	if got := s.AddCase(testLoc, intCase(2), nil, body(t)); got != CaseError {
		t.Errorf("AddCase(2) over union(1,2,3) = %d, want error", got)
	}
	// Re-adding the same value after its unconditional arm is dead.
	if got := s.AddCase(testLoc, union, nil, body(t)); got != CaseUnused {
		t.Errorf("AddCase(dup union) = %d, want unused", got)
	}
	if got := s.AddCase(testLoc, NewElseCaseValue(), nil, body(t)); got != CaseOk {
		t.Errorf("AddCase(else) = %d, want ok", got)
	}
	if got := s.AddCase(testLoc, NewElseCaseValue(), nil, body(t)); got != CaseUnused {
		t.Errorf("AddCase after final else = %d, want unused", got)
	}
	if len(s.Cases) != 3 {
		t.Errorf("case vector size = %d, want 3 (union, 4, else)", len(s.Cases))
	}
	if !s.HasElse() {
		t.Error("HasElse must be true")
	}
}

func TestSwitchMergesSubCases(t *testing.T) {
	s := &StmtSwitch{}
	g1, g2 := guard("a"), guard("b")
	if got := s.AddCase(testLoc, intCase(1), g1, body(t)); got != CaseOk {
		t.Fatalf("AddCase(1, a) = %d, want ok", got)
	}
	if got := s.AddCase(testLoc, intCase(1), g2, body(t)); got != CaseOk {
		t.Fatalf("AddCase(1, b) = %d, want ok", got)
	}
	if len(s.Cases) != 1 {
		t.Fatalf("equal values must merge into one case, got %d", len(s.Cases))
	}
	if len(s.Cases[0].SubCases) != 2 {
		t.Fatalf("sub-case vector size = %d, want 2", len(s.Cases[0].SubCases))
	}
}

func TestSwitchDuplicateArmIsError(t *testing.T) {
	s := &StmtSwitch{}
	g := guard("cond")
	s.AddCase(testLoc, intCase(7), g, body(t))
	if got := s.AddCase(testLoc, intCase(7), g, body(t)); got != CaseError {
		t.Errorf("duplicate (value, cond) = %d, want error", got)
	}
}

func TestSwitchArmAfterUnconditionalIsUnused(t *testing.T) {
	s := &StmtSwitch{}
	s.AddCase(testLoc, intCase(7), nil, body(t))
	if got := s.AddCase(testLoc, intCase(7), guard("late"), body(t)); got != CaseUnused {
		t.Errorf("arm after unconditional = %d, want unused", got)
	}
	// The dead arm is not recorded.
	if len(s.Cases[0].SubCases) != 1 {
		t.Errorf("sub-case vector size = %d, want 1", len(s.Cases[0].SubCases))
	}
}

func TestUnionNormalizesDuplicates(t *testing.T) {
	union := NewUnionCaseValue([]*CaseValue{intCase(1), intCase(1), intCase(2)})
	if len(union.Union) != 2 {
		t.Errorf("union members = %d, want 2 (pairwise non-overlapping)", len(union.Union))
	}
	if !union.Contains(intCase(1)) || union.Contains(intCase(3)) {
		t.Error("union membership is wrong")
	}
}
