package pipeline

import (
	"testing"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/token"
)

func tok(lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Location: token.Location{Filename: "unit.lily", StartLine: 1, StartColumn: 1}}
}

func testModule() *ast.Module {
	return &ast.Module{
		Token: tok("module"),
		Name:  "unit",
		Decls: []ast.Decl{
			&ast.FunDecl{
				Token: tok("both"),
				Name:  "both",
				Params: []*ast.FunParam{
					{Token: tok("x"), Name: "x", DataType: &ast.NamedType{Token: tok("Bool"), Name: "Bool"}},
					{Token: tok("y"), Name: "y", DataType: &ast.NamedType{Token: tok("Bool"), Name: "Bool"}},
				},
				ReturnType: &ast.NamedType{Token: tok("Bool"), Name: "Bool"},
				Body: []ast.Statement{
					&ast.ReturnStatement{
						Token: tok("return"),
						Expr: &ast.Binary{
							Token: tok("and"),
							Kind:  ast.BinaryAnd,
							Left:  &ast.Identifier{Token: tok("x"), Value: "x"},
							Right: &ast.Identifier{Token: tok("y"), Value: "y"},
						},
					},
				},
			},
		},
	}
}

func TestPipelineLowersCleanUnit(t *testing.T) {
	ctx := NewPipelineContext("unit.lily", testModule(), nil)
	ctx = Default().Run(ctx)
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if ctx.Checked == nil {
		t.Fatal("analysis produced no scope")
	}
	if ctx.Mir == nil {
		t.Fatal("lowering produced no MIR module")
	}
	if _, ok := ctx.Mir.Insts.Get("unit.lily.both"); !ok {
		t.Error("the function must land in the MIR module")
	}
	if err := ctx.Mir.Verify(); err != nil {
		t.Errorf("MIR verify: %v", err)
	}
}

func TestPipelineSkipsMirOnErrors(t *testing.T) {
	broken := &ast.Module{
		Token: tok("module"),
		Name:  "broken",
		Decls: []ast.Decl{
			&ast.ConstantDecl{
				Token: tok("k"),
				Name:  "k",
				Value: &ast.Identifier{Token: tok("ghost"), Value: "ghost"},
			},
		},
	}
	ctx := NewPipelineContext("broken.lily", broken, nil)
	ctx = Default().Run(ctx)
	if !ctx.HasErrors() {
		t.Fatal("the unknown identifier must surface")
	}
	if ctx.Mir != nil {
		t.Error("MIR must not be generated for a unit with errors")
	}
	found := false
	for _, d := range ctx.Errors {
		if d.Code == diagnostics.ErrIdentifierNotFound {
			found = true
		}
	}
	if !found {
		t.Error("identifier-not-found must be collected in the context")
	}
}

func TestPipelineNeverAborts(t *testing.T) {
	// A nil AST root flows through every stage without panicking.
	ctx := NewPipelineContext("empty.lily", nil, nil)
	ctx = Default().Run(ctx)
	if ctx.HasErrors() {
		t.Error("an empty context carries no errors")
	}
}
