package mirgen

import (
	"fmt"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/mir"
)

// generateAssignableExpr lowers the address-producing subset: the
// expressions legal on the left of `=`. The produced value is always a
// pointer. Anything outside the subset is an internal error — the
// checker validated assignability before lowering.
func (g *Generator) generateAssignableExpr(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) (*mir.Val, error) {
	expr = expr.Unwrap()
	switch expr.Kind {
	case checked.ExprKindCall:
		switch expr.Call.Kind {
		case checked.CallKindVariable:
			dt := g.LowerDataType(expr.Call.Variable.DataType)
			return mir.NewVarVal(mir.NewDtPtr(dt), expr.Call.Variable.Name), nil
		case checked.CallKindFunParam:
			param := scope.GetParam(expr.Call.FunParam)
			var dt *mir.Dt
			if param != nil {
				dt = g.LowerDataType(param.DataType)
			} else {
				dt = g.LowerDataType(expr.DataType)
			}
			return mir.NewParamVal(mir.NewDtPtr(dt), expr.Call.FunParam), nil
		case checked.CallKindRecordFieldSingle:
			return g.generateFieldAddress(fun, scope, expr)
		}
	case checked.ExprKindAccess:
		if expr.Access.Kind == checked.AccessKindHook {
			return g.generateHookAddress(fun, scope, expr)
		}
	case checked.ExprKindUnary:
		if expr.Unary.Kind == ast.UnaryDereference {
			// *p is an L-value whose address is p's value.
			return g.GenerateExpr(fun, scope, expr.Unary.Right, nil, false)
		}
	}
	return nil, fmt.Errorf("mirgen: expression is not assignable")
}

// generateHookAddress computes the address of subject[index] through a
// getfield with a computed index.
func (g *Generator) generateHookAddress(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) (*mir.Val, error) {
	hook := expr.Access.Hook
	subject, err := g.generateAssignableExpr(fun, scope, hook.Subject)
	if err != nil {
		// Non-assignable subjects (call results) still index by value.
		subject, err = g.GenerateExpr(fun, scope, hook.Subject, nil, false)
		if err != nil {
			return nil, err
		}
	}
	index, err := g.GenerateExpr(fun, scope, hook.Index, nil, false)
	if err != nil {
		return nil, err
	}
	elem := g.LowerDataType(expr.DataType)
	return g.Module.BuildReg(&mir.Inst{
		Kind: mir.InstKindGetField,
		GetField: &mir.GetFieldInst{
			Dt:      elem,
			Subject: subject,
			Indexes: []*mir.Val{index},
		},
	}), nil
}

// generateFieldAddress computes the address of a record field from the
// struct layout's field index.
func (g *Generator) generateFieldAddress(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) (*mir.Val, error) {
	single := expr.Call.RecordFieldSingle
	if expr.Access == nil || len(expr.Access.Path) == 0 {
		return nil, fmt.Errorf("mirgen: field access without a subject")
	}
	subject, err := g.generateAssignableExpr(fun, scope, expr.Access.Path[0])
	if err != nil {
		subject, err = g.GenerateExpr(fun, scope, expr.Access.Path[0], nil, false)
		if err != nil {
			return nil, err
		}
	}
	fieldDt := g.LowerDataType(expr.DataType)
	usize := mir.NewDt(mir.DtKindUsize)
	return g.Module.BuildReg(&mir.Inst{
		Kind: mir.InstKindGetField,
		GetField: &mir.GetFieldInst{
			Dt:      fieldDt,
			Subject: subject,
			Indexes: []*mir.Val{mir.NewUintVal(usize, uint64(single.FieldIndex))},
		},
	}), nil
}
