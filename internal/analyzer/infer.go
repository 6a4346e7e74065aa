package analyzer

import (
	"fmt"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
)

// PerformTypeof returns the inferred data type of a checked expression
// without lowering it. For an already-checked expression the result is
// Eq to the expression's resolved data type; the generic context pair
// substitutes any generic left open by the declaration.
func (a *Analyzer) PerformTypeof(expr *checked.Expr, scope *checked.Scope, ctx checked.GenericContext) (*checked.DataType, error) {
	switch expr.Kind {
	case checked.ExprKindLiteral:
		return a.typeofLiteral(expr), nil
	case checked.ExprKindCall:
		return a.typeofCall(expr, scope, ctx)
	case checked.ExprKindAccess:
		return a.typeofAccess(expr, scope, ctx)
	case checked.ExprKindBinary:
		return a.typeofBinary(expr, scope, ctx)
	case checked.ExprKindCast:
		return expr.Cast.Dest, nil
	case checked.ExprKindGrouping:
		return a.PerformTypeof(expr.Grouping, scope, ctx)
	case checked.ExprKindUnary:
		return a.typeofUnary(expr, scope, ctx)
	case checked.ExprKindCompilerFun:
		// sizeof/alignof yield the platform-sized unsigned long.
		return checked.NewDataType(checked.DataTypeKindCulong, expr.Location), nil
	case checked.ExprKindLambda:
		params := make([]*checked.DataType, len(expr.Lambda.Params))
		for i, p := range expr.Lambda.Params {
			params[i] = p.DataType
		}
		return checked.NewLambda(expr.Location, params, expr.Lambda.ReturnType), nil
	case checked.ExprKindArray, checked.ExprKindList, checked.ExprKindTuple,
		checked.ExprKindSelf, checked.ExprKindUnknown:
		return expr.DataType, nil
	case checked.ExprKindUniter:
		return checked.NewDataType(checked.DataTypeKindUnit, expr.Location), nil
	default:
		return nil, fmt.Errorf("impossible to get return data type")
	}
}

// PerformTypeofUnqual is PerformTypeof with the outer qualifier cleared.
func (a *Analyzer) PerformTypeofUnqual(expr *checked.Expr, scope *checked.Scope, ctx checked.GenericContext) (*checked.DataType, error) {
	dt, err := a.PerformTypeof(expr, scope, ctx)
	if err != nil {
		return nil, err
	}
	return dt.RemoveMut(), nil
}

func (a *Analyzer) typeofLiteral(expr *checked.Expr) *checked.DataType {
	loc := expr.Location
	switch expr.Literal.Kind {
	case ast.LiteralStr:
		// A string literal is a sized stack array of char.
		return checked.NewArray(loc, checked.ArrayKindSized,
			checked.NewDataType(checked.DataTypeKindChar, loc), uint64(len(expr.Literal.Str)))
	default:
		return expr.DataType
	}
}

// typeofCall dispatches on the identifier's resolved id-kind.
func (a *Analyzer) typeofCall(expr *checked.Expr, scope *checked.Scope, ctx checked.GenericContext) (*checked.DataType, error) {
	call := expr.Call
	switch call.Kind {
	case checked.CallKindVariable:
		return call.Variable.DataType, nil
	case checked.CallKindConstant:
		return call.Constant.DataType, nil
	case checked.CallKindFunParam:
		if a.currentFun != nil && call.FunParam < len(a.currentFun.Params) {
			return a.currentFun.Params[call.FunParam].DataType, nil
		}
		return expr.DataType, nil
	case checked.CallKindFun:
		if call.Fun.Params == nil {
			// A bare function reference is a lambda value built from the
			// declaration's cloned params and return.
			decl := call.Fun.Decl
			params := make([]*checked.DataType, len(decl.Params))
			for i, p := range decl.Params {
				params[i] = p.DataType.Clone()
			}
			return checked.NewLambda(expr.Location, params, decl.ReturnType.Clone()), nil
		}
		// A call's type is the return type after generic substitution.
		callCtx := ctx
		if call.Fun.GenericParams != nil {
			callCtx = checked.GenericContext{Called: call.Fun.GenericParams, Decl: ctx.Decl}
		}
		return a.resolver.Resolve(call.Fun.Decl.ReturnType, callCtx)
	case checked.CallKindFunBuiltin:
		return call.FunBuiltin.Builtin.ReturnDataType, nil
	case checked.CallKindFunSys:
		return call.FunSys.Sys.ReturnDataType, nil
	case checked.CallKindRecordFieldSingle:
		if call.RecordFieldSingle.Record != nil {
			field := call.RecordFieldSingle.Record.Fields[call.RecordFieldSingle.FieldIndex]
			return a.resolver.Resolve(field.DataType, ctx)
		}
		return expr.DataType, nil
	case checked.CallKindCstrLen, checked.CallKindStrLen:
		return checked.NewDataType(checked.DataTypeKindUsize, expr.Location), nil
	case checked.CallKindVariant:
		return expr.DataType, nil
	default:
		return expr.DataType, nil
	}
}

// typeofAccess recursively infers the subject then unwraps one pointer
// level per subscript.
func (a *Analyzer) typeofAccess(expr *checked.Expr, scope *checked.Scope, ctx checked.GenericContext) (*checked.DataType, error) {
	access := expr.Access
	if access.Kind == checked.AccessKindHook {
		subject, err := a.PerformTypeof(access.Hook.Subject, scope, ctx)
		if err != nil {
			return nil, err
		}
		elem := a.resolver.UnwrapImplicitPtr(subject)
		if elem == subject {
			return nil, fmt.Errorf("this kind of data type is not expected: %s", subject)
		}
		return elem, nil
	}
	return expr.DataType, nil
}

// typeofBinary implements the rule table: dot/arrow chase struct fields,
// assignment yields the left-hand type, everything else promotes to the
// arithmetic-result type.
func (a *Analyzer) typeofBinary(expr *checked.Expr, scope *checked.Scope, ctx checked.GenericContext) (*checked.DataType, error) {
	bin := expr.Binary
	switch {
	case bin.Kind == ast.BinaryDot || bin.Kind == ast.BinaryArrow:
		// Field accesses carry the resolved field type from checking.
		return expr.DataType, nil
	case bin.Kind == ast.BinaryAssign || bin.Kind.IsAssign():
		return a.PerformTypeof(bin.Left, scope, ctx)
	case bin.Kind.IsComparison(), bin.Kind.IsLogical():
		return checked.NewDataType(checked.DataTypeKindBool, expr.Location), nil
	default:
		left, err := a.PerformTypeof(bin.Left, scope, ctx)
		if err != nil {
			return nil, err
		}
		right, err := a.PerformTypeof(bin.Right, scope, ctx)
		if err != nil {
			return nil, err
		}
		return a.promoteNumeric(left, right), nil
	}
}

func (a *Analyzer) typeofUnary(expr *checked.Expr, scope *checked.Scope, ctx checked.GenericContext) (*checked.DataType, error) {
	operand, err := a.PerformTypeof(expr.Unary.Right, scope, ctx)
	if err != nil {
		return nil, err
	}
	switch expr.Unary.Kind {
	case ast.UnaryRef:
		return checked.NewWrap(checked.DataTypeKindPtr, expr.Location, operand), nil
	case ast.UnaryDereference:
		resolved := operand.RemoveMut()
		if !resolved.IsPtrKind() {
			return nil, fmt.Errorf("this kind of data type is not expected: %s", operand)
		}
		return resolved.Inner, nil
	case ast.UnaryNot:
		return checked.NewDataType(checked.DataTypeKindBool, expr.Location), nil
	default:
		return operand, nil
	}
}
