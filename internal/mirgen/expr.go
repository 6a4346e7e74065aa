package mirgen

import (
	"fmt"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/mir"
)

// GenerateExpr emits the instructions computing expr into the current
// block and returns the produced value. virtualVar, when non-nil, is the
// i1 local an enclosing short-circuit chain allocated. A nil value with
// a nil error means the expression produced nothing (assignments).
func (g *Generator) GenerateExpr(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr, virtualVar *mir.Val, inReturn bool) (*mir.Val, error) {
	expr = expr.Unwrap()
	switch expr.Kind {
	case checked.ExprKindLiteral:
		return g.literalVal(expr), nil
	case checked.ExprKindCall:
		return g.generateCall(fun, scope, expr)
	case checked.ExprKindBinary:
		return g.generateBinary(fun, scope, expr, virtualVar, inReturn)
	case checked.ExprKindUnary:
		return g.generateUnary(fun, scope, expr)
	case checked.ExprKindAccess:
		return g.generateAccessLoad(fun, scope, expr)
	case checked.ExprKindCast:
		// Width changes are carried by the value's type.
		val, err := g.GenerateExpr(fun, scope, expr.Cast.Expr, nil, false)
		if err != nil {
			return nil, err
		}
		coerced := *val
		coerced.Dt = g.LowerDataType(expr.Cast.Dest)
		return &coerced, nil
	case checked.ExprKindTuple:
		vals, err := g.generateVals(fun, scope, expr.Tuple)
		if err != nil {
			return nil, err
		}
		return &mir.Val{Kind: mir.ValKindTuple, Dt: g.LowerDataType(expr.DataType), Vals: vals}, nil
	case checked.ExprKindArray:
		vals, err := g.generateVals(fun, scope, expr.Array.Elements)
		if err != nil {
			return nil, err
		}
		return &mir.Val{Kind: mir.ValKindArray, Dt: g.LowerDataType(expr.DataType), Vals: vals}, nil
	case checked.ExprKindList:
		vals, err := g.generateVals(fun, scope, expr.List)
		if err != nil {
			return nil, err
		}
		return &mir.Val{Kind: mir.ValKindArray, Dt: g.LowerDataType(expr.DataType), Vals: vals}, nil
	case checked.ExprKindUnknown:
		return nil, fmt.Errorf("mirgen: unknown expression reached lowering")
	default:
		return nil, fmt.Errorf("mirgen: unsupported expression kind %d", expr.Kind)
	}
}

func (g *Generator) generateVals(fun *checked.FunDecl, scope *mir.Scope, exprs []*checked.Expr) ([]*mir.Val, error) {
	vals := make([]*mir.Val, len(exprs))
	for i, e := range exprs {
		val, err := g.GenerateExpr(fun, scope, e, nil, false)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	return vals, nil
}

func (g *Generator) literalVal(expr *checked.Expr) *mir.Val {
	dt := g.LowerDataType(expr.DataType)
	lit := expr.Literal
	switch lit.Kind {
	case ast.LiteralBool:
		v := int64(0)
		if lit.Bool {
			v = 1
		}
		return mir.NewIntVal(dt, v)
	case ast.LiteralFloat, ast.LiteralFloat32, ast.LiteralFloat64:
		return mir.NewFloatVal(dt, lit.Float)
	case ast.LiteralByte:
		return mir.NewUintVal(dt, uint64(lit.Byte))
	case ast.LiteralBytes:
		return &mir.Val{Kind: mir.ValKindBytes, Dt: dt, Bytes: lit.Bytes}
	case ast.LiteralChar:
		return mir.NewIntVal(dt, int64(lit.Char))
	case ast.LiteralStr, ast.LiteralCstr:
		return &mir.Val{Kind: mir.ValKindStr, Dt: dt, Str: lit.Str}
	case ast.LiteralSuffixUint8, ast.LiteralSuffixUint16, ast.LiteralSuffixUint32,
		ast.LiteralSuffixUint64, ast.LiteralSuffixUsize:
		return mir.NewUintVal(dt, lit.Uint)
	case ast.LiteralUnit:
		return mir.NewUnitVal()
	case ast.LiteralUndef:
		return &mir.Val{Kind: mir.ValKindUndef, Dt: dt}
	default:
		return mir.NewIntVal(dt, lit.Int)
	}
}

func (g *Generator) generateCall(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) (*mir.Val, error) {
	call := expr.Call
	switch call.Kind {
	case checked.CallKindVariable:
		v := scope.GetVar(call.Variable.Name)
		dt := g.LowerDataType(call.Variable.DataType)
		if v == nil {
			// Module-level reads resolve straight to the declaration.
			return mir.NewVarVal(mir.NewDtPtr(dt), call.Variable.Name), nil
		}
		addr := mir.NewVarVal(mir.NewDtPtr(dt), call.Variable.Name)
		return g.Module.BuildLoad(addr, dt), nil
	case checked.CallKindFunParam:
		param := scope.GetParam(call.FunParam)
		var dt *mir.Dt
		if param != nil {
			dt = g.LowerDataType(param.DataType)
		} else {
			dt = g.LowerDataType(expr.DataType)
		}
		return mir.NewParamVal(dt, call.FunParam), nil
	case checked.CallKindConstant:
		return &mir.Val{Kind: mir.ValKindConst, Dt: g.LowerDataType(expr.DataType), Str: call.Constant.GlobalName}, nil
	case checked.CallKindFun:
		return g.generateFunCall(fun, scope, expr, mir.InstKindCall, call.GlobalName, call.Fun.Params)
	case checked.CallKindFunBuiltin:
		return g.generateFunCall(fun, scope, expr, mir.InstKindBuiltinCall, call.FunBuiltin.Builtin.RealName, call.FunBuiltin.Params)
	case checked.CallKindFunSys:
		return g.generateFunCall(fun, scope, expr, mir.InstKindSysCall, call.FunSys.Sys.RealName, call.FunSys.Params)
	case checked.CallKindRecordFieldSingle:
		addr, err := g.generateAssignableExpr(fun, scope, expr)
		if err != nil {
			return nil, err
		}
		dt := g.LowerDataType(expr.DataType)
		return g.Module.BuildLoad(addr, dt), nil
	case checked.CallKindVariant:
		// A payload-free variant lowers to its discriminant.
		return mir.NewIntVal(mir.NewDt(mir.DtKindI32), int64(call.Variant.Variant.ID)), nil
	case checked.CallKindCstrLen, checked.CallKindStrLen:
		subject := call.CstrLen
		if call.Kind == checked.CallKindStrLen {
			subject = call.StrLen
		}
		val, err := g.GenerateExpr(fun, scope, subject, nil, false)
		if err != nil {
			return nil, err
		}
		return g.Module.BuildReg(&mir.Inst{
			Kind: mir.InstKindBuiltinCall,
			Call: &mir.CallInst{Name: "__len__$CStr", Params: []*mir.Val{val}, Dt: mir.NewDt(mir.DtKindUsize)},
		}), nil
	default:
		return nil, fmt.Errorf("mirgen: unsupported call kind %d", call.Kind)
	}
}

func (g *Generator) generateFunCall(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr, kind mir.InstKind, name string, params []*checked.CallParam) (*mir.Val, error) {
	args := make([]*mir.Val, len(params))
	for i, p := range params {
		val, err := g.GenerateExpr(fun, scope, p.Value, nil, false)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	ret := g.LowerDataType(expr.DataType)
	return g.Module.BuildReg(&mir.Inst{
		Kind: kind,
		Call: &mir.CallInst{Name: name, Params: args, Dt: ret},
	}), nil
}

func (g *Generator) generateUnary(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) (*mir.Val, error) {
	unary := expr.Unary
	switch unary.Kind {
	case ast.UnaryDereference:
		addr, err := g.GenerateExpr(fun, scope, unary.Right, nil, false)
		if err != nil {
			return nil, err
		}
		return g.Module.BuildLoad(addr, g.LowerDataType(expr.DataType)), nil
	case ast.UnaryRef, ast.UnaryRefMut, ast.UnaryTrace, ast.UnaryTraceMut:
		return g.generateAssignableExpr(fun, scope, unary.Right)
	case ast.UnaryNeg:
		val, err := g.GenerateExpr(fun, scope, unary.Right, nil, false)
		if err != nil {
			return nil, err
		}
		if val.Dt.IsFloatKind() {
			return g.Module.BuildReg(mir.NewBinInst(mir.InstKindFsub, mir.NewFloatVal(val.Dt, 0), val)), nil
		}
		return g.Module.BuildReg(mir.NewBinInst(mir.InstKindIsub, mir.NewIntVal(val.Dt, 0), val)), nil
	case ast.UnaryNot:
		val, err := g.GenerateExpr(fun, scope, unary.Right, nil, false)
		if err != nil {
			return nil, err
		}
		return g.Module.BuildReg(mir.NewBinInst(mir.InstKindIcmpEq, val, mir.NewIntVal(val.Dt, 0))), nil
	default:
		return nil, fmt.Errorf("mirgen: unsupported unary kind %d", unary.Kind)
	}
}

// generateAccessLoad lowers a subscript read: address computation, then
// one load.
func (g *Generator) generateAccessLoad(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) (*mir.Val, error) {
	addr, err := g.generateAssignableExpr(fun, scope, expr)
	if err != nil {
		return nil, err
	}
	return g.Module.BuildLoad(addr, g.LowerDataType(expr.DataType)), nil
}
