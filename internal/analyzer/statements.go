package analyzer

import (
	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
)

// checkStmts checks a statement list strictly top-to-bottom.
func (a *Analyzer) checkStmts(stmts []ast.Statement, scope *checked.Scope) []*checked.Stmt {
	out := make([]*checked.Stmt, 0, len(stmts))
	for _, s := range stmts {
		if stmt := a.checkStmt(s, scope); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func (a *Analyzer) checkStmt(stmt ast.Statement, scope *checked.Scope) *checked.Stmt {
	switch s := stmt.(type) {
	case *ast.ExprStatement:
		expr := a.checkExpr(s.Expr, scope)
		a.trackMove(expr, scope)
		return checked.NewExprStmt(s.Token.Location, expr)
	case *ast.VariableStatement:
		return a.checkVariable(s, scope)
	case *ast.BlockStatement:
		blockScope := a.newScope(scope)
		return &checked.Stmt{
			Kind:     checked.StmtKindBlock,
			Location: s.Token.Location,
			Block:    &checked.StmtBlock{Body: a.checkStmts(s.Body, blockScope), Scope: blockScope},
		}
	case *ast.IfStatement:
		return a.checkIf(s, scope)
	case *ast.WhileStatement:
		return a.checkWhile(s, scope)
	case *ast.ReturnStatement:
		return a.checkReturn(s, scope)
	case *ast.BreakStatement:
		if a.currentLoop == 0 {
			a.emit(diagnostics.NewError(diagnostics.ErrBreakIsNotExpectedInContext, s.Token,
				"break is not expected in this context"))
		}
		return &checked.Stmt{Kind: checked.StmtKindBreak, Location: s.Token.Location, Label: s.Label}
	case *ast.NextStatement:
		if a.currentLoop == 0 {
			a.emit(diagnostics.NewError(diagnostics.ErrNextIsNotExpectedInContext, s.Token,
				"next is not expected in this context"))
		}
		return &checked.Stmt{Kind: checked.StmtKindNext, Location: s.Token.Location, Label: s.Label}
	case *ast.SwitchStatement:
		return a.checkSwitch(s, scope)
	case *ast.MatchStatement:
		return a.checkMatch(s, scope)
	case *ast.DropStatement:
		return a.checkDrop(s, scope)
	default:
		a.emit(diagnostics.NewError(diagnostics.ErrUnexpectedTokenInFunctionBody, stmt.GetToken(),
			"unexpected token in function body"))
		return nil
	}
}

func (a *Analyzer) checkVariable(s *ast.VariableStatement, scope *checked.Scope) *checked.Stmt {
	var value *checked.Expr
	if s.Value != nil {
		value = a.checkExpr(s.Value, scope)
	} else {
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedExpression, s.Token, "expected expression"))
		value = checked.NewUnknownExpr(s.Token.Location, nil)
	}
	v := &checked.Variable{
		Location: s.Token.Location,
		Name:     s.Name,
		IsMut:    s.IsMut,
	}
	if s.DataType != nil {
		v.DataType = a.checkDataType(s.DataType, scope)
		if !v.DataType.Eq(value.DataType) && value.DataType.Kind != checked.DataTypeKindUnknown &&
			!(a.resolver.IsNumeric(v.DataType, false) && a.resolver.IsNumeric(value.DataType, false)) {
			a.emit(diagnostics.NewError(diagnostics.ErrDataTypeDontMatch, s.Token,
				"data types don't match: expected "+v.DataType.String()+", got "+value.DataType.String()))
		}
	} else {
		v.DataType = value.DataType
	}
	if !scope.AddVariable(v) {
		a.emit(diagnostics.NewError(diagnostics.ErrDuplicateVariable, s.Token, "duplicate variable: "+s.Name))
	}
	a.trackMove(value, scope)
	return &checked.Stmt{
		Kind:     checked.StmtKindVariable,
		Location: s.Token.Location,
		Variable: &checked.StmtVariable{Variable: v, Value: value},
	}
}

// trackMove flags a moved-from variable: binding a variable of a
// non-copy type to a new name transfers ownership.
func (a *Analyzer) trackMove(value *checked.Expr, scope *checked.Scope) {
	value = value.Unwrap()
	if value.Kind != checked.ExprKindCall || value.Call.Kind != checked.CallKindVariable {
		return
	}
	if isCopyType(value.DataType) {
		return
	}
	value.Call.Variable.IsMoved = true
}

// isCopyType reports whether values of the type copy on assignment
// rather than move.
func isCopyType(dt *checked.DataType) bool {
	dt = dt.RemoveMut()
	if dt.IsIntegerPrimitive() || dt.IsFloatPrimitive() || dt.IsPtrKind() {
		return true
	}
	switch dt.Kind {
	case checked.DataTypeKindBool, checked.DataTypeKindByte, checked.DataTypeKindChar,
		checked.DataTypeKindUnit, checked.DataTypeKindUnknown:
		return true
	}
	return false
}

func (a *Analyzer) checkCondition(cond *checked.Expr) {
	if cond.DataType.RemoveMut().Kind != checked.DataTypeKindBool &&
		cond.DataType.Kind != checked.DataTypeKindUnknown {
		a.emit(diagnostics.NewErrorAt(diagnostics.ErrExpectedBooleanExpression, cond.Location,
			"expected boolean expression"))
	}
}

func (a *Analyzer) checkIf(s *ast.IfStatement, scope *checked.Scope) *checked.Stmt {
	out := &checked.StmtIf{}
	for _, branch := range s.Branches {
		var cond *checked.Expr
		if branch.Cond != nil {
			cond = a.checkExpr(branch.Cond, scope)
			a.checkCondition(cond)
		}
		branchScope := a.newScope(scope)
		out.Branches = append(out.Branches, &checked.IfBranch{
			Cond: cond,
			Body: &checked.StmtBlock{Body: a.checkStmts(branch.Body, branchScope), Scope: branchScope},
		})
	}
	return &checked.Stmt{Kind: checked.StmtKindIf, Location: s.Token.Location, If: out}
}

func (a *Analyzer) checkWhile(s *ast.WhileStatement, scope *checked.Scope) *checked.Stmt {
	cond := a.checkExpr(s.Cond, scope)
	a.checkCondition(cond)
	bodyScope := a.newScope(scope)
	a.currentLoop++
	body := a.checkStmts(s.Body, bodyScope)
	a.currentLoop--
	return &checked.Stmt{
		Kind:     checked.StmtKindWhile,
		Location: s.Token.Location,
		While:    &checked.StmtWhile{Cond: cond, Body: &checked.StmtBlock{Body: body, Scope: bodyScope}},
	}
}

func (a *Analyzer) checkReturn(s *ast.ReturnStatement, scope *checked.Scope) *checked.Stmt {
	var expr *checked.Expr
	if s.Expr != nil {
		expr = a.checkExpr(s.Expr, scope)
		if a.currentFun != nil && !a.currentFun.ReturnType.Eq(expr.DataType) &&
			expr.DataType.Kind != checked.DataTypeKindUnknown &&
			!(a.resolver.IsNumeric(a.currentFun.ReturnType, false) && a.resolver.IsNumeric(expr.DataType, false)) {
			a.emit(diagnostics.NewError(diagnostics.ErrDataTypeDontMatch, s.Token,
				"data types don't match: expected "+a.currentFun.ReturnType.String()+", got "+expr.DataType.String()))
		}
	}
	return &checked.Stmt{Kind: checked.StmtKindReturn, Location: s.Token.Location, Return: expr}
}

func (a *Analyzer) checkDrop(s *ast.DropStatement, scope *checked.Scope) *checked.Stmt {
	expr := a.checkExpr(s.Expr, scope)
	inner := expr.Unwrap()
	if inner.Kind != checked.ExprKindCall || inner.Call.Kind != checked.CallKindVariable {
		a.emit(diagnostics.NewError(diagnostics.ErrThisKindOfExprIsNotAllowedToBeDrop, s.Token,
			"this kind of expr is not allowed to be drop"))
	} else {
		if isCopyType(inner.DataType) {
			a.emit(diagnostics.NewError(diagnostics.ErrThisDataTypeCannotBeDropped, s.Token,
				"this data type cannot be dropped: "+inner.DataType.String()))
		}
		inner.Call.Variable.IsDropped = true
	}
	return &checked.Stmt{Kind: checked.StmtKindDrop, Location: s.Token.Location, Drop: expr}
}

// checkSwitch lowers case values to the CaseValue algebra and merges
// arms through AddCase, reporting dead and duplicate arms.
func (a *Analyzer) checkSwitch(s *ast.SwitchStatement, scope *checked.Scope) *checked.Stmt {
	switched := a.checkExpr(s.Expr, scope)
	out := &checked.StmtSwitch{SwitchedExpr: switched}
	for _, c := range s.Cases {
		var value *checked.CaseValue
		if c.Values == nil {
			value = checked.NewElseCaseValue()
		} else if len(c.Values) == 1 {
			value = a.caseValue(c.Values[0], switched, scope)
		} else {
			members := make([]*checked.CaseValue, 0, len(c.Values))
			for _, v := range c.Values {
				if member := a.caseValue(v, switched, scope); member != nil {
					members = append(members, member)
				}
			}
			value = checked.NewUnionCaseValue(members)
		}
		if value == nil {
			continue
		}
		for _, sub := range c.SubCases {
			var cond *checked.Expr
			if sub.Cond != nil {
				cond = a.checkExpr(sub.Cond, scope)
				a.checkCondition(cond)
			}
			body := a.checkStmt(sub.Body, scope)
			switch out.AddCase(c.Token.Location, value, cond, body) {
			case checked.CaseUnused:
				a.emit(diagnostics.NewWarning(diagnostics.WarnUnusedSwitchArm, c.Token.Location,
					"unused switch arm: an unconditional arm precedes it"))
			case checked.CaseError:
				a.emit(diagnostics.NewError(diagnostics.ErrDuplicateVariant, c.Token,
					"duplicate switch arm"))
			}
		}
	}
	return &checked.Stmt{Kind: checked.StmtKindSwitch, Location: s.Token.Location, Switch: out}
}

var intCaseValueKinds = map[checked.DataTypeKind]checked.CaseValueKind{
	checked.DataTypeKindInt8:  checked.CaseValueKindInt8,
	checked.DataTypeKindInt16: checked.CaseValueKindInt16,
	checked.DataTypeKindInt32: checked.CaseValueKindInt32,
	checked.DataTypeKindInt64: checked.CaseValueKindInt64,
	checked.DataTypeKindIsize: checked.CaseValueKindIsize,
}

var uintCaseValueKinds = map[checked.DataTypeKind]checked.CaseValueKind{
	checked.DataTypeKindUint8:  checked.CaseValueKindUint8,
	checked.DataTypeKindUint16: checked.CaseValueKindUint16,
	checked.DataTypeKindUint32: checked.CaseValueKindUint32,
	checked.DataTypeKindUint64: checked.CaseValueKindUint64,
	checked.DataTypeKindUsize:  checked.CaseValueKindUsize,
}

// caseValue folds a case expression into a CaseValue. Only literal
// values are accepted; the switched expression's type selects the kind.
func (a *Analyzer) caseValue(expr ast.Expression, switched *checked.Expr, scope *checked.Scope) *checked.CaseValue {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedOnlyOneExpression, expr.GetToken(),
			"expected literal case value"))
		return nil
	}
	switchedKind := switched.DataType.RemoveMut().Kind
	switch lit.Kind {
	case ast.LiteralBool:
		return &checked.CaseValue{Kind: checked.CaseValueKindBool, Bool: lit.Bool}
	case ast.LiteralFloat, ast.LiteralFloat32, ast.LiteralFloat64:
		kind := checked.CaseValueKindFloat64
		if switchedKind == checked.DataTypeKindFloat32 {
			kind = checked.CaseValueKindFloat32
		}
		return &checked.CaseValue{Kind: kind, Float: lit.Float}
	default:
		if kind, ok := uintCaseValueKinds[switchedKind]; ok {
			return &checked.CaseValue{Kind: kind, Uint: lit.Uint}
		}
		kind, ok := intCaseValueKinds[switchedKind]
		if !ok {
			kind = checked.CaseValueKindInt32
		}
		return &checked.CaseValue{Kind: kind, Int: lit.Int}
	}
}

func (a *Analyzer) checkMatch(s *ast.MatchStatement, scope *checked.Scope) *checked.Stmt {
	expr := a.checkExpr(s.Expr, scope)
	out := &checked.StmtMatch{Expr: expr}
	sawFinalElse := false
	for _, c := range s.Cases {
		if sawFinalElse {
			a.emit(diagnostics.NewWarning(diagnostics.WarnUnusedSwitchArm, c.Pattern.GetLocation(),
				"unused match arm: a catch-all arm precedes it"))
		}
		caseScope := a.newScope(scope)
		pattern := a.checkPattern(c.Pattern, expr.DataType, caseScope)
		var cond *checked.Expr
		if c.Cond != nil {
			cond = a.checkExpr(c.Cond, caseScope)
			a.checkCondition(cond)
		}
		body := a.checkStmt(c.Body, caseScope)
		out.Cases = append(out.Cases, &checked.MatchCase{Pattern: pattern, Cond: cond, Body: body})
		if pattern.IsElsePattern() && cond == nil {
			sawFinalElse = true
		}
	}
	return &checked.Stmt{Kind: checked.StmtKindMatch, Location: s.Token.Location, Match: out}
}
