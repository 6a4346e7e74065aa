package analyzer

import (
	"testing"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/token"
)

func tok(lexeme string) token.Token {
	return token.Token{
		Type:   token.IDENTIFIER_NORMAL,
		Lexeme: lexeme,
		Location: token.Location{
			Filename: "test.lily", StartLine: 1, StartColumn: 1,
		},
	}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: tok(name), Value: name}
}

func named(name string) *ast.NamedType {
	return &ast.NamedType{Token: tok(name), Name: name}
}

func intLit(v int64) *ast.Literal {
	return &ast.Literal{Token: tok("int"), Kind: ast.LiteralInt32, Int: v}
}

func hasCode(diags []*diagnostics.Diagnostic, code diagnostics.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func newTestAnalyzer() *Analyzer {
	a := New("test.lily", nil)
	a.global = a.newScope(nil)
	return a
}

func TestBinaryIntegerPromotion(t *testing.T) {
	a := newTestAnalyzer()
	scope := a.global
	scope.AddVariable(&checked.Variable{Name: "small", DataType: checked.NewDataType(checked.DataTypeKindInt8, tok("x").Location)})
	scope.AddVariable(&checked.Variable{Name: "big", DataType: checked.NewDataType(checked.DataTypeKindInt32, tok("x").Location)})

	expr := a.checkExpr(&ast.Binary{
		Token: tok("+"),
		Kind:  ast.BinaryAdd,
		Left:  ident("small"),
		Right: ident("big"),
	}, scope)
	if expr.DataType.Kind != checked.DataTypeKindInt32 {
		t.Errorf("Int8 + Int32 = %s, want Int32 (rank max)", expr.DataType)
	}
}

func TestBinaryPromotionRankMax(t *testing.T) {
	a := newTestAnalyzer()
	kinds := []struct {
		left, right, want checked.DataTypeKind
	}{
		{checked.DataTypeKindInt8, checked.DataTypeKindInt64, checked.DataTypeKindInt64},
		{checked.DataTypeKindUint16, checked.DataTypeKindUint8, checked.DataTypeKindUint16},
		{checked.DataTypeKindInt32, checked.DataTypeKindFloat64, checked.DataTypeKindFloat64},
		{checked.DataTypeKindFloat32, checked.DataTypeKindInt64, checked.DataTypeKindFloat32},
	}
	loc := tok("x").Location
	for _, tc := range kinds {
		got := a.promoteNumeric(checked.NewDataType(tc.left, loc), checked.NewDataType(tc.right, loc))
		if got.Kind != tc.want {
			t.Errorf("promote(%v, %v) = %v, want %v", tc.left, tc.right, got.Kind, tc.want)
		}
	}
}

func TestLogicalRequiresBool(t *testing.T) {
	a := newTestAnalyzer()
	scope := a.global
	scope.AddVariable(&checked.Variable{Name: "n", DataType: checked.NewDataType(checked.DataTypeKindInt32, tok("n").Location)})
	expr := a.checkExpr(&ast.Binary{
		Token: tok("and"),
		Kind:  ast.BinaryAnd,
		Left:  ident("n"),
		Right: &ast.Literal{Token: tok("true"), Kind: ast.LiteralBool, Bool: true},
	}, scope)
	if !hasCode(a.diags, diagnostics.ErrExpectedBooleanExpression) {
		t.Error("an integer operand of `and` must raise expected-boolean-expression")
	}
	if expr.DataType.Kind != checked.DataTypeKindBool {
		t.Errorf("logical result = %s, want Bool", expr.DataType)
	}
}

// Field access chain: s.inner.value where inner is a pointer descends
// into the pointee's fields implicitly.
func TestFieldAccessChain(t *testing.T) {
	mod := &ast.Module{
		Token: tok("module"),
		Name:  "test",
		Decls: []ast.Decl{
			&ast.RecordDecl{
				Token: tok("Inner"),
				Name:  "Inner",
				Fields: []*ast.RecordField{
					{Token: tok("value"), Name: "value", DataType: named("Int64")},
				},
			},
			&ast.RecordDecl{
				Token: tok("Outer"),
				Name:  "Outer",
				Fields: []*ast.RecordField{
					{Token: tok("inner"), Name: "inner", DataType: &ast.WrapType{
						Token: tok("*"), Kind: ast.WrapPtr, Inner: named("Inner"),
					}},
				},
			},
		},
	}
	a2 := New("test.lily", nil)
	global := a2.CheckModule(mod)
	if len(a2.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", a2.Diagnostics())
	}

	outer := global.Records[1]
	scope := a2.newScope(global)
	scope.AddVariable(&checked.Variable{
		Name: "s",
		DataType: checked.NewCustom(tok("s").Location, &checked.CustomDataType{
			ScopeID:    outer.Scope.ID,
			Name:       "Outer",
			GlobalName: outer.GlobalName,
			Kind:       checked.CustomKindRecord,
		}),
	})
	chain := &ast.Binary{
		Token: tok("."),
		Kind:  ast.BinaryDot,
		Left: &ast.Binary{
			Token: tok("."),
			Kind:  ast.BinaryDot,
			Left:  ident("s"),
			Right: ident("inner"),
		},
		Right: ident("value"),
	}
	expr := a2.checkExpr(chain, scope)
	if len(a2.Diagnostics()) != 0 {
		t.Fatalf("chain diagnostics: %v", a2.Diagnostics())
	}
	if expr.DataType.Kind != checked.DataTypeKindInt64 {
		t.Errorf("s.inner.value = %s, want Int64", expr.DataType)
	}
}

func TestFieldNotFound(t *testing.T) {
	a := New("test.lily", nil)
	mod := &ast.Module{
		Token: tok("module"),
		Name:  "test",
		Decls: []ast.Decl{
			&ast.RecordDecl{
				Token:  tok("P"),
				Name:   "P",
				Fields: []*ast.RecordField{{Token: tok("x"), Name: "x", DataType: named("Int32")}},
			},
		},
	}
	global := a.CheckModule(mod)
	record := global.Records[0]
	scope := a.newScope(global)
	scope.AddVariable(&checked.Variable{
		Name: "p",
		DataType: checked.NewCustom(tok("p").Location, &checked.CustomDataType{
			Name: "P", GlobalName: record.GlobalName, Kind: checked.CustomKindRecord,
		}),
	})
	a.checkExpr(&ast.Binary{
		Token: tok("."), Kind: ast.BinaryDot, Left: ident("p"), Right: ident("missing"),
	}, scope)
	if !hasCode(a.diags, diagnostics.ErrFieldIsNotFound) {
		t.Error("missing field must raise field-is-not-found")
	}
}

func TestMoveDiagnostic(t *testing.T) {
	a := newTestAnalyzer()
	scope := a.global
	strDt := checked.NewDataType(checked.DataTypeKindStr, tok("s").Location)
	scope.AddVariable(&checked.Variable{Name: "s", DataType: strDt})

	// val u := s  (moves s: Str does not copy)
	a.checkStmt(&ast.VariableStatement{
		Token: tok("val"), Name: "u", Value: ident("s"),
	}, scope)
	if hasCode(a.diags, diagnostics.ErrValueHasBeenMoved) {
		t.Fatal("the first read must be legal")
	}
	a.checkExpr(ident("s"), scope)
	if !hasCode(a.diags, diagnostics.ErrValueHasBeenMoved) {
		t.Error("reading a moved variable must raise value-has-been-moved")
	}
}

func TestCopyTypesDoNotMove(t *testing.T) {
	a := newTestAnalyzer()
	scope := a.global
	scope.AddVariable(&checked.Variable{Name: "n", DataType: checked.NewDataType(checked.DataTypeKindInt32, tok("n").Location)})
	a.checkStmt(&ast.VariableStatement{Token: tok("val"), Name: "m", Value: ident("n")}, scope)
	a.checkExpr(ident("n"), scope)
	if hasCode(a.diags, diagnostics.ErrValueHasBeenMoved) {
		t.Error("an Int32 copies; reading it after binding must be legal")
	}
}

func TestIdentifierNotFound(t *testing.T) {
	a := newTestAnalyzer()
	expr := a.checkExpr(ident("ghost"), a.global)
	if !hasCode(a.diags, diagnostics.ErrIdentifierNotFound) {
		t.Error("an unknown identifier must raise identifier-not-found")
	}
	if expr.DataType.Kind != checked.DataTypeKindUnknown {
		t.Error("after an error the expression falls back to unknown")
	}
}

func TestDuplicateDeclarations(t *testing.T) {
	a := New("test.lily", nil)
	mod := &ast.Module{
		Token: tok("module"),
		Name:  "test",
		Decls: []ast.Decl{
			&ast.RecordDecl{Token: tok("R"), Name: "R"},
			&ast.RecordDecl{Token: tok("R"), Name: "R"},
			&ast.ConstantDecl{Token: tok("k"), Name: "k", Value: intLit(1)},
			&ast.ConstantDecl{Token: tok("k"), Name: "k", Value: intLit(2)},
		},
	}
	a.CheckModule(mod)
	if !hasCode(a.diags, diagnostics.ErrDuplicateRecord) {
		t.Error("duplicate record must be reported")
	}
	if !hasCode(a.diags, diagnostics.ErrDuplicateConstant) {
		t.Error("duplicate constant must be reported")
	}
}

func TestRecursiveTypeMarking(t *testing.T) {
	a := New("test.lily", nil)
	mod := &ast.Module{
		Token: tok("module"),
		Name:  "test",
		Decls: []ast.Decl{
			&ast.RecordDecl{
				Token: tok("Node"),
				Name:  "Node",
				Fields: []*ast.RecordField{
					{Token: tok("next"), Name: "next", DataType: &ast.WrapType{
						Token: tok("*"), Kind: ast.WrapPtr, Inner: named("Node"),
					}},
				},
			},
		},
	}
	global := a.CheckModule(mod)
	if !global.Records[0].IsRecursive {
		t.Error("a self-referential record must be marked recursive before body analysis")
	}
}

func TestGenericCallResolvesReturnType(t *testing.T) {
	a := New("test.lily", nil)
	mod := &ast.Module{
		Token: tok("module"),
		Name:  "test",
		Decls: []ast.Decl{
			&ast.FunDecl{
				Token:         tok("identity"),
				Name:          "identity",
				GenericParams: []*ast.GenericParam{{Token: tok("T"), Name: "T"}},
				Params:        []*ast.FunParam{{Token: tok("x"), Name: "x", DataType: named("T")}},
				ReturnType:    named("T"),
			},
		},
	}
	global := a.CheckModule(mod)
	if len(a.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", a.Diagnostics())
	}
	scope := a.newScope(global)
	call := &ast.Call{
		Token:    tok("identity"),
		Callee:   ident("identity"),
		Generics: []ast.DataType{named("Int32")},
		Args:     []*ast.CallArg{{Token: tok("arg"), Value: intLit(5)}},
	}
	expr := a.checkExpr(call, scope)
	if expr.DataType.Kind != checked.DataTypeKindInt32 {
		t.Errorf("identity[Int32](5) = %s, want Int32", expr.DataType)
	}
	if len(global.Funs[0].Signatures) != 1 {
		t.Errorf("signatures recorded = %d, want 1", len(global.Funs[0].Signatures))
	}
}

func TestSwitchCaseDiagnostics(t *testing.T) {
	a := newTestAnalyzer()
	scope := a.global
	scope.AddVariable(&checked.Variable{Name: "v", DataType: checked.NewDataType(checked.DataTypeKindInt32, tok("v").Location)})
	stmt := &ast.SwitchStatement{
		Token: tok("switch"),
		Expr:  ident("v"),
		Cases: []*ast.SwitchCase{
			{
				Token:    tok("case"),
				Values:   []ast.Expression{intLit(1), intLit(2), intLit(3)},
				SubCases: []*ast.SwitchSubCase{{Body: &ast.ExprStatement{Token: tok("A"), Expr: intLit(0)}}},
			},
			{
				Token:    tok("case"),
				Values:   []ast.Expression{intLit(2)},
				SubCases: []*ast.SwitchSubCase{{Body: &ast.ExprStatement{Token: tok("B"), Expr: intLit(0)}}},
			},
			{
				Token:    tok("else"),
				SubCases: []*ast.SwitchSubCase{{Body: &ast.ExprStatement{Token: tok("C"), Expr: intLit(0)}}},
			},
			{
				Token:    tok("late"),
				Values:   []ast.Expression{intLit(9)},
				SubCases: []*ast.SwitchSubCase{{Body: &ast.ExprStatement{Token: tok("D"), Expr: intLit(0)}}},
			},
		},
	}
	out := a.checkStmt(stmt, scope)
	if !hasCode(a.diags, diagnostics.ErrDuplicateVariant) {
		t.Error("case 2 overlaps the union and must be a duplicate error")
	}
	warned := false
	for _, d := range a.diags {
		if d.Severity == diagnostics.SeverityWarning && d.Code == diagnostics.WarnUnusedSwitchArm {
			warned = true
		}
	}
	if !warned {
		t.Error("the arm after else must warn unused")
	}
	if out.Switch.Cases[0].Value.Kind != checked.CaseValueKindUnion {
		t.Error("1 | 2 | 3 must normalize to a union case value")
	}
}

// Typeof agrees with the checked data type.
func TestPerformTypeofMatchesChecked(t *testing.T) {
	a := newTestAnalyzer()
	scope := a.global
	loc := tok("x").Location
	scope.AddVariable(&checked.Variable{Name: "f", DataType: checked.NewDataType(checked.DataTypeKindFloat64, loc)})
	scope.AddVariable(&checked.Variable{Name: "n", DataType: checked.NewDataType(checked.DataTypeKindInt32, loc)})

	exprs := []ast.Expression{
		&ast.Literal{Token: tok("true"), Kind: ast.LiteralBool, Bool: true},
		intLit(42),
		ident("n"),
		&ast.Binary{Token: tok("+"), Kind: ast.BinaryAdd, Left: ident("n"), Right: intLit(1)},
		&ast.Binary{Token: tok("<"), Kind: ast.BinaryLt, Left: ident("n"), Right: intLit(1)},
		&ast.Grouping{Token: tok("("), Inner: ident("f")},
		&ast.Unary{Token: tok("-"), Kind: ast.UnaryNeg, Right: ident("f")},
		&ast.Cast{Token: tok("cast"), Expr: ident("n"), Dest: named("Int64")},
	}
	for _, raw := range exprs {
		e := a.checkExpr(raw, scope)
		got, err := a.PerformTypeof(e, scope, checked.GenericContext{})
		if err != nil {
			t.Errorf("PerformTypeof(%T): %v", raw, err)
			continue
		}
		if !got.Eq(e.DataType) {
			t.Errorf("PerformTypeof(%T) = %s, checked type = %s", raw, got, e.DataType)
		}
	}
}

func TestTypeofStringLiteralIsCharArray(t *testing.T) {
	a := newTestAnalyzer()
	e := a.checkExpr(&ast.Literal{Token: tok("s"), Kind: ast.LiteralStr, Str: "abc"}, a.global)
	got, err := a.PerformTypeof(e, a.global, checked.GenericContext{})
	if err != nil {
		t.Fatalf("PerformTypeof: %v", err)
	}
	if got.Kind != checked.DataTypeKindArray || got.Array.Kind != checked.ArrayKindSized ||
		got.Array.Size != 3 || got.Array.DataType.Kind != checked.DataTypeKindChar {
		t.Errorf("typeof(\"abc\") = %s, want [3]Char", got)
	}
}

func TestTypeofUnaryRefAndDeref(t *testing.T) {
	a := newTestAnalyzer()
	scope := a.global
	loc := tok("p").Location
	i64 := checked.NewDataType(checked.DataTypeKindInt64, loc)
	scope.AddVariable(&checked.Variable{Name: "p", DataType: checked.NewWrap(checked.DataTypeKindPtr, loc, i64)})

	deref := a.checkExpr(&ast.Unary{Token: tok("*"), Kind: ast.UnaryDereference, Right: ident("p")}, scope)
	got, err := a.PerformTypeof(deref, scope, checked.GenericContext{})
	if err != nil {
		t.Fatalf("PerformTypeof(*p): %v", err)
	}
	if got.Kind != checked.DataTypeKindInt64 {
		t.Errorf("typeof(*p) = %s, want Int64", got)
	}

	ref := a.checkExpr(&ast.Unary{Token: tok("&"), Kind: ast.UnaryRef, Right: ident("p")}, scope)
	gotRef, err := a.PerformTypeof(ref, scope, checked.GenericContext{})
	if err != nil {
		t.Fatalf("PerformTypeof(&p): %v", err)
	}
	if gotRef.Kind != checked.DataTypeKindPtr {
		t.Errorf("typeof(&p) = %s, want a pointer wrap", gotRef)
	}
}

func TestUniterForcesUnit(t *testing.T) {
	e := checked.NewUniterExpr(checked.NewLiteralExpr(tok("1").Location,
		checked.NewDataType(checked.DataTypeKindInt32, tok("1").Location), nil,
		&checked.ExprLiteral{Kind: ast.LiteralInt32, Int: 1}))
	if e.DataType.Kind != checked.DataTypeKindUnit {
		t.Error("a uniter expression must have type Unit")
	}
}
