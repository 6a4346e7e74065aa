package index

import (
	"testing"

	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/token"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func testGlobalScope() *checked.Scope {
	loc := token.Location{Filename: "main.lily", StartLine: 3, StartColumn: 5}
	s := checked.NewScope(0, nil)
	s.AddFun(&checked.FunDecl{Name: "run", GlobalName: "main.run", Location: loc})
	s.AddConstant(&checked.ConstantDecl{Name: "limit", GlobalName: "main.limit", Location: loc})
	s.AddRecord(&checked.RecordDecl{Name: "State", GlobalName: "main.State", Location: loc})
	return s
}

func TestUpdateAndQuerySymbols(t *testing.T) {
	ix := openTestIndex(t)
	if err := ix.UpdateFile("main.lily", testGlobalScope(), nil); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}
	symbols, err := ix.QuerySymbols("ru")
	if err != nil {
		t.Fatalf("QuerySymbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Name != "run" || symbols[0].Kind != "fun" {
		t.Errorf("QuerySymbols(ru) = %v, want the run fun", symbols)
	}
	all, err := ix.QuerySymbols("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("symbols = %d, want 3", len(all))
	}
}

func TestUpdateReplacesPreviousRows(t *testing.T) {
	ix := openTestIndex(t)
	if err := ix.UpdateFile("main.lily", testGlobalScope(), nil); err != nil {
		t.Fatal(err)
	}
	// Re-index with an empty scope: everything is gone.
	if err := ix.UpdateFile("main.lily", checked.NewScope(0, nil), nil); err != nil {
		t.Fatal(err)
	}
	symbols, err := ix.QuerySymbols("")
	if err != nil {
		t.Fatal(err)
	}
	if len(symbols) != 0 {
		t.Errorf("stale symbols survived re-index: %v", symbols)
	}
}

func TestDiagnosticsRoundTrip(t *testing.T) {
	ix := openTestIndex(t)
	loc := token.Location{Filename: "main.lily", StartLine: 7, StartColumn: 2}
	diags := []*diagnostics.Diagnostic{
		diagnostics.NewErrorAt(diagnostics.ErrIdentifierNotFound, loc, "identifier is not found: x"),
		diagnostics.NewWarning(diagnostics.WarnUnusedVariable, loc, "unused variable"),
	}
	if err := ix.UpdateFile("main.lily", nil, diags); err != nil {
		t.Fatal(err)
	}
	stored, err := ix.FileDiagnostics("main.lily")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored diagnostics = %d, want 2", len(stored))
	}
	if stored[0].Code != diagnostics.ErrIdentifierNotFound || stored[0].Severity != diagnostics.SeverityError {
		t.Errorf("first diagnostic = %+v", stored[0])
	}
	if stored[0].Location.StartLine != 7 {
		t.Errorf("line = %d, want 7", stored[0].Location.StartLine)
	}
}
