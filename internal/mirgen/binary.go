package mirgen

import (
	"fmt"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/mir"
)

var intBinInsts = map[ast.BinaryKind]mir.InstKind{
	ast.BinaryAdd:    mir.InstKindIadd,
	ast.BinarySub:    mir.InstKindIsub,
	ast.BinaryMul:    mir.InstKindImul,
	ast.BinaryDiv:    mir.InstKindIdiv,
	ast.BinaryMod:    mir.InstKindIrem,
	ast.BinaryExp:    mir.InstKindExp,
	ast.BinaryBitAnd: mir.InstKindBitand,
	ast.BinaryBitOr:  mir.InstKindBitor,
	ast.BinaryXor:    mir.InstKindXor,
	ast.BinaryShl:    mir.InstKindShl,
	ast.BinaryShr:    mir.InstKindShr,
	ast.BinaryEq:     mir.InstKindIcmpEq,
	ast.BinaryNe:     mir.InstKindIcmpNe,
	ast.BinaryLt:     mir.InstKindIcmpLt,
	ast.BinaryLe:     mir.InstKindIcmpLe,
	ast.BinaryGt:     mir.InstKindIcmpGt,
	ast.BinaryGe:     mir.InstKindIcmpGe,
}

var floatBinInsts = map[ast.BinaryKind]mir.InstKind{
	ast.BinaryAdd: mir.InstKindFadd,
	ast.BinarySub: mir.InstKindFsub,
	ast.BinaryMul: mir.InstKindFmul,
	ast.BinaryDiv: mir.InstKindFdiv,
	ast.BinaryMod: mir.InstKindFrem,
	ast.BinaryExp: mir.InstKindExp,
	ast.BinaryEq:  mir.InstKindFcmpEq,
	ast.BinaryNe:  mir.InstKindFcmpNe,
	ast.BinaryLt:  mir.InstKindFcmpLt,
	ast.BinaryLe:  mir.InstKindFcmpLe,
	ast.BinaryGt:  mir.InstKindFcmpGt,
	ast.BinaryGe:  mir.InstKindFcmpGe,
}

// isBuiltinBinary reports whether the operator lowers to a first-class
// MIR instruction: the operands belong to the expected kind class (Bool
// for logical operators, a numeric or Bool left operand for comparisons,
// numeric or Byte operands for arithmetic; plain assignment always).
// Operand types need not be equal; coerceOperands widens them.
func (g *Generator) isBuiltinBinary(expr *checked.Expr) bool {
	bin := expr.Binary
	left := bin.Left.DataType.RemoveMut()
	right := bin.Right.DataType.RemoveMut()
	switch {
	case bin.Kind.IsLogical():
		return left.Kind == checked.DataTypeKindBool && right.Kind == checked.DataTypeKindBool
	case bin.Kind.IsComparison():
		return g.resolver.IsNumeric(left, false) || left.Kind == checked.DataTypeKindBool
	case bin.Kind == ast.BinaryAssign:
		return true
	default:
		numeric := g.resolver.IsNumeric(left, false) && g.resolver.IsNumeric(right, false)
		byteLike := left.Kind == checked.DataTypeKindByte && right.Kind == checked.DataTypeKindByte
		return numeric || byteLike
	}
}

// generateBinary lowers one binary expression per the operator table.
// Assignments produce no value.
func (g *Generator) generateBinary(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr, virtualVar *mir.Val, inReturn bool) (*mir.Val, error) {
	bin := expr.Binary
	if !g.isBuiltinBinary(expr) {
		// User-defined operator: the call-generation path with the
		// operator's mangled name.
		return g.generateOperatorCall(fun, scope, expr)
	}
	switch {
	case bin.Kind.IsLogical():
		return g.generateCondValue(fun, scope, expr, virtualVar)
	case bin.Kind == ast.BinaryAssign:
		dest, err := g.generateAssignableExpr(fun, scope, bin.Left)
		if err != nil {
			return nil, err
		}
		src, err := g.GenerateExpr(fun, scope, bin.Right, nil, false)
		if err != nil {
			return nil, err
		}
		g.Module.BuildStore(dest, src)
		return nil, nil
	case bin.Kind.IsAssign():
		// Compound assignment: the op into a fresh register, then a
		// store to the left-hand address. No value.
		dest, err := g.generateAssignableExpr(fun, scope, bin.Left)
		if err != nil {
			return nil, err
		}
		current := g.Module.BuildLoad(dest, g.LowerDataType(bin.Left.DataType))
		right, err := g.GenerateExpr(fun, scope, bin.Right, nil, false)
		if err != nil {
			return nil, err
		}
		inst, err := g.binInst(bin.Kind.ToNonAssign(), current, right)
		if err != nil {
			return nil, err
		}
		result := g.Module.BuildReg(inst)
		g.Module.BuildStore(dest, result)
		return nil, nil
	default:
		left, err := g.GenerateExpr(fun, scope, bin.Left, nil, false)
		if err != nil {
			return nil, err
		}
		right, err := g.GenerateExpr(fun, scope, bin.Right, nil, false)
		if err != nil {
			return nil, err
		}
		left, right = g.coerceOperands(expr, left, right)
		inst, err := g.binInst(bin.Kind, left, right)
		if err != nil {
			return nil, err
		}
		return g.Module.BuildReg(inst), nil
	}
}

// coerceOperands widens the narrower integer operand to the result type
// so both sides of the instruction agree.
func (g *Generator) coerceOperands(expr *checked.Expr, left, right *mir.Val) (*mir.Val, *mir.Val) {
	if expr.Binary.Kind.IsComparison() {
		if !left.Dt.Eq(right.Dt) && left.Dt.IsIntKind() && right.Dt.IsIntKind() {
			lr := g.resolver.GetIntegerRank(expr.Binary.Left.DataType)
			rr := g.resolver.GetIntegerRank(expr.Binary.Right.DataType)
			if lr >= rr {
				widened := *right
				widened.Dt = left.Dt
				return left, &widened
			}
			widened := *left
			widened.Dt = right.Dt
			return &widened, right
		}
		return left, right
	}
	result := g.LowerDataType(expr.DataType)
	if !left.Dt.Eq(result) && left.Dt.IsIntKind() {
		widened := *left
		widened.Dt = result
		left = &widened
	}
	if !right.Dt.Eq(result) && right.Dt.IsIntKind() {
		widened := *right
		widened.Dt = result
		right = &widened
	}
	return left, right
}

func (g *Generator) binInst(kind ast.BinaryKind, left, right *mir.Val) (*mir.Inst, error) {
	if left.Dt.IsFloatKind() {
		inst, ok := floatBinInsts[kind]
		if !ok {
			return nil, fmt.Errorf("mirgen: operator %s is not defined on floats", kind)
		}
		return mir.NewBinInst(inst, left, right), nil
	}
	inst, ok := intBinInsts[kind]
	if !ok {
		return nil, fmt.Errorf("mirgen: operator %s has no instruction", kind)
	}
	return mir.NewBinInst(inst, left, right), nil
}

// generateOperatorCall lowers a user-defined operator through the call
// path with the operator's mangled name.
func (g *Generator) generateOperatorCall(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) (*mir.Val, error) {
	bin := expr.Binary
	left, err := g.GenerateExpr(fun, scope, bin.Left, nil, false)
	if err != nil {
		return nil, err
	}
	right, err := g.GenerateExpr(fun, scope, bin.Right, nil, false)
	if err != nil {
		return nil, err
	}
	name := operatorLinkName(bin.Kind, bin.Left.DataType, bin.Right.DataType)
	return g.Module.BuildReg(&mir.Inst{
		Kind: mir.InstKindCall,
		Call: &mir.CallInst{
			Name:   name,
			Params: []*mir.Val{left, right},
			Dt:     g.LowerDataType(expr.DataType),
		},
	}), nil
}

func operatorLinkName(kind ast.BinaryKind, left, right *checked.DataType) string {
	return "__op" + kind.String() + "__$" + left.String() + "$" + right.String()
}
