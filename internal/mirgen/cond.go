package mirgen

import (
	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/mir"
)

// Short-circuit lowering. The jump polarity is threaded explicitly
// through the recursion: every sub-condition knows the block to enter
// when it is true and the block to enter when it is false, so the last
// arm of an `and` ladder jumps straight to the outermost assign0 and the
// last arm of an `or` ladder to the outermost assign1.

// generateCondJump emits the condition chain for expr, jumping to thenB
// when the condition holds and elseB when it does not. This is the
// condition-of-if/while entry point: no value is materialized.
func (g *Generator) generateCondJump(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr, thenB, elseB *mir.BlockInst) error {
	e := expr.Unwrap()
	if e.Kind == checked.ExprKindBinary {
		switch e.Binary.Kind {
		case ast.BinaryAnd:
			// Left true → evaluate the right; left false → elseB.
			second := g.Module.BuildBlock("second_cond", mir.NewBlockLimit())
			if err := g.generateCondJump(fun, scope, e.Binary.Left, second, elseB); err != nil {
				return err
			}
			g.Module.AddBlock(second)
			second.Limit.Set(second.ID)
			return g.generateCondJump(fun, scope, e.Binary.Right, thenB, elseB)
		case ast.BinaryOr:
			// Left true → thenB; left false → evaluate the right.
			second := g.Module.BuildBlock("second_cond", mir.NewBlockLimit())
			if err := g.generateCondJump(fun, scope, e.Binary.Left, thenB, second); err != nil {
				return err
			}
			g.Module.AddBlock(second)
			second.Limit.Set(second.ID)
			return g.generateCondJump(fun, scope, e.Binary.Right, thenB, elseB)
		}
	}
	val, err := g.GenerateExpr(fun, scope, e, nil, false)
	if err != nil {
		return err
	}
	g.Module.BuildJmpCond(val, thenB, elseB)
	return nil
}

// generateCondValue materializes a short-circuit chain as an i1 value:
// a virtual local, the cond ladder, assign0/assign1 stores and the exit
// block's load. An enclosing chain may pass down its virtual local.
func (g *Generator) generateCondValue(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr, virtualVar *mir.Val) (*mir.Val, error) {
	i1 := mir.NewDt(mir.DtKindI1)
	if virtualVar == nil {
		virtualVar = g.Module.BuildVirtualVariable(i1)
	}

	first := g.Module.BuildBlock("first_cond", mir.NewBlockLimit())
	assign0 := g.Module.BuildBlock("assign0", mir.NewBlockLimit())
	assign1 := g.Module.BuildBlock("assign1", mir.NewBlockLimit())
	exit := g.Module.BuildBlock("exit_block", mir.NewBlockLimit())

	g.Module.BuildJmp(first)
	g.Module.AddBlock(first)
	first.Limit.Set(first.ID)
	if err := g.generateCondJump(fun, scope, expr, assign1, assign0); err != nil {
		return nil, err
	}

	// assign0: store 0, jmp exit_block.
	g.Module.AddBlock(assign0)
	assign0.Limit.Set(assign0.ID)
	g.Module.BuildStore(virtualVar, mir.NewIntVal(i1, 0))
	g.Module.BuildJmp(exit)

	// assign1: store 1, jmp exit_block.
	g.Module.AddBlock(assign1)
	assign1.Limit.Set(assign1.ID)
	g.Module.BuildStore(virtualVar, mir.NewIntVal(i1, 1))
	g.Module.BuildJmp(exit)

	g.Module.AddBlock(exit)
	exit.Limit.Set(exit.ID)
	return g.Module.BuildLoad(virtualVar, i1), nil
}
