package analyzer

import (
	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/builtins"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/token"
	"github.com/thelilylang/lily-sub007/internal/utils"
)

// checkExpr checks one expression. It never returns nil: after an error
// the result is an unknown-typed placeholder so analysis can continue.
func (a *Analyzer) checkExpr(expr ast.Expression, scope *checked.Scope) *checked.Expr {
	switch e := expr.(type) {
	case *ast.Literal:
		return a.checkLiteral(e)
	case *ast.Identifier:
		return a.checkIdentifier(e, scope)
	case *ast.Binary:
		return a.checkBinary(e, scope)
	case *ast.Unary:
		return a.checkUnary(e, scope)
	case *ast.Grouping:
		inner := a.checkExpr(e.Inner, scope)
		out := checked.NewExpr(checked.ExprKindGrouping, e.Token.Location, inner.DataType, e)
		out.Grouping = inner
		return out
	case *ast.Call:
		return a.checkCall(e, scope)
	case *ast.Cast:
		return a.checkCast(e, scope)
	case *ast.Index:
		return a.checkIndex(e, scope)
	case *ast.Array:
		return a.checkArray(e, scope)
	case *ast.List:
		return a.checkList(e, scope)
	case *ast.Tuple:
		return a.checkTuple(e, scope)
	case *ast.Lambda:
		return a.checkLambda(e, scope)
	case *ast.SelfExpr:
		return checked.NewExpr(checked.ExprKindSelf, e.Token.Location, unknownAt(e.Token.Location), e)
	default:
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedExpression, expr.GetToken(), "expected expression"))
		return checked.NewUnknownExpr(expr.GetLocation(), expr)
	}
}

var literalKinds = map[ast.LiteralKind]checked.DataTypeKind{
	ast.LiteralBool:         checked.DataTypeKindBool,
	ast.LiteralByte:         checked.DataTypeKindByte,
	ast.LiteralBytes:        checked.DataTypeKindBytes,
	ast.LiteralChar:         checked.DataTypeKindChar,
	ast.LiteralCstr:         checked.DataTypeKindCstr,
	ast.LiteralFloat:        checked.DataTypeKindFloat64,
	ast.LiteralFloat32:      checked.DataTypeKindFloat32,
	ast.LiteralFloat64:      checked.DataTypeKindFloat64,
	ast.LiteralInt32:        checked.DataTypeKindInt32,
	ast.LiteralInt64:        checked.DataTypeKindInt64,
	ast.LiteralStr:          checked.DataTypeKindStr,
	ast.LiteralSuffixInt8:   checked.DataTypeKindInt8,
	ast.LiteralSuffixInt16:  checked.DataTypeKindInt16,
	ast.LiteralSuffixInt32:  checked.DataTypeKindInt32,
	ast.LiteralSuffixInt64:  checked.DataTypeKindInt64,
	ast.LiteralSuffixIsize:  checked.DataTypeKindIsize,
	ast.LiteralSuffixUint8:  checked.DataTypeKindUint8,
	ast.LiteralSuffixUint16: checked.DataTypeKindUint16,
	ast.LiteralSuffixUint32: checked.DataTypeKindUint32,
	ast.LiteralSuffixUint64: checked.DataTypeKindUint64,
	ast.LiteralSuffixUsize:  checked.DataTypeKindUsize,
	ast.LiteralUnit:         checked.DataTypeKindUnit,
}

func (a *Analyzer) checkLiteral(e *ast.Literal) *checked.Expr {
	loc := e.Token.Location
	var dt *checked.DataType
	switch e.Kind {
	case ast.LiteralStr:
		n := uint64(len(e.Str))
		dt = &checked.DataType{Kind: checked.DataTypeKindStr, Location: loc, Len: &n}
	case ast.LiteralBytes:
		n := uint64(len(e.Bytes))
		dt = &checked.DataType{Kind: checked.DataTypeKindBytes, Location: loc, Len: &n}
	case ast.LiteralNil:
		dt = checked.NewWrap(checked.DataTypeKindPtr, loc, checked.NewDataType(checked.DataTypeKindCvoid, loc))
	case ast.LiteralNone:
		dt = checked.NewWrap(checked.DataTypeKindOptional, loc, unknownAt(loc))
	case ast.LiteralUndef:
		dt = unknownAt(loc)
	default:
		kind, ok := literalKinds[e.Kind]
		if !ok {
			kind = checked.DataTypeKindUnknown
		}
		dt = checked.NewDataType(kind, loc)
	}
	return checked.NewLiteralExpr(loc, dt, e, &checked.ExprLiteral{
		Kind:  e.Kind,
		Bool:  e.Bool,
		Byte:  e.Byte,
		Bytes: e.Bytes,
		Char:  e.Char,
		Float: e.Float,
		Int:   e.Int,
		Uint:  e.Uint,
		Str:   e.Str,
	})
}

func (a *Analyzer) checkIdentifier(e *ast.Identifier, scope *checked.Scope) *checked.Expr {
	r := scope.ResolveName(e.Value)
	loc := e.Token.Location
	switch r.Kind {
	case checked.ResponseKindVariable:
		if r.Variable.IsMoved {
			a.emit(diagnostics.NewError(diagnostics.ErrValueHasBeenMoved, e.Token, "value has been moved: "+e.Value))
		}
		if r.Variable.IsDropped {
			a.emit(diagnostics.NewError(diagnostics.ErrValueHasBeenDropped, e.Token, "value has been dropped: "+e.Value))
		}
		call := &checked.ExprCall{
			Kind:       checked.CallKindVariable,
			Scope:      checked.NewAccessScopeWithDecl(r.Container.ScopeID, r.Container.ID),
			GlobalName: e.Value,
			Variable:   r.Variable,
		}
		return checked.NewCallExpr(loc, r.Variable.DataType, e, call)
	case checked.ResponseKindFunParam:
		call := &checked.ExprCall{
			Kind:       checked.CallKindFunParam,
			GlobalName: e.Value,
			FunParam:   a.paramIndex(r.FunParam),
		}
		return checked.NewCallExpr(loc, r.FunParam.DataType, e, call)
	case checked.ResponseKindConstant:
		call := &checked.ExprCall{
			Kind:       checked.CallKindConstant,
			Scope:      checked.NewAccessScopeWithDecl(r.Container.ScopeID, r.Container.ID),
			GlobalName: r.Constant.GlobalName,
			Constant:   r.Constant,
		}
		return checked.NewCallExpr(loc, r.Constant.DataType, e, call)
	case checked.ResponseKindFun:
		// A bare function name is a lambda value over the first overload.
		fun := r.Funs[0]
		if fun.IsMain {
			a.emit(diagnostics.NewError(diagnostics.ErrMainFunctionIsNotCallable, e.Token, "main function is not callable"))
			return checked.NewUnknownExpr(loc, e)
		}
		params := make([]*checked.DataType, len(fun.Params))
		for i, p := range fun.Params {
			params[i] = p.DataType.Clone()
		}
		dt := checked.NewLambda(loc, params, fun.ReturnType.Clone())
		call := &checked.ExprCall{
			Kind:       checked.CallKindFun,
			Scope:      checked.NewAccessScope(fun.Scope.ID),
			GlobalName: fun.GlobalName,
			Fun:        &checked.CallFun{Decl: fun},
		}
		return checked.NewCallExpr(loc, dt, e, call)
	case checked.ResponseKindNotFound:
		a.emit(diagnostics.NewError(diagnostics.ErrIdentifierNotFound, e.Token, "identifier is not found: "+e.Value))
		return checked.NewUnknownExpr(loc, e)
	default:
		a.emit(diagnostics.NewError(diagnostics.ErrCallNotExpectedInThisContext, e.Token,
			"call is not expected in this context: "+e.Value))
		return checked.NewUnknownExpr(loc, e)
	}
}

func (a *Analyzer) paramIndex(p *checked.FunParam) int {
	if a.currentFun == nil {
		return 0
	}
	for i, candidate := range a.currentFun.Params {
		if candidate == p {
			return i
		}
	}
	return 0
}

// promoteNumeric picks the arithmetic-result type of two operands: float
// if any float (the wider one), else the operand with the higher integer
// rank. Ties keep the left operand's type.
func (a *Analyzer) promoteNumeric(left, right *checked.DataType) *checked.DataType {
	lf, rf := a.resolver.IsFloat(left), a.resolver.IsFloat(right)
	switch {
	case lf && rf:
		if right.RemoveMut().Kind == checked.DataTypeKindFloat64 && left.RemoveMut().Kind != checked.DataTypeKindFloat64 {
			return right
		}
		return left
	case lf:
		return left
	case rf:
		return right
	}
	if a.resolver.GetIntegerRank(right) > a.resolver.GetIntegerRank(left) {
		return right
	}
	return left
}

func (a *Analyzer) checkBinary(e *ast.Binary, scope *checked.Scope) *checked.Expr {
	if e.Kind == ast.BinaryDot || e.Kind == ast.BinaryArrow {
		return a.checkFieldAccess(e, scope)
	}
	left := a.checkExpr(e.Left, scope)
	right := a.checkExpr(e.Right, scope)
	loc := e.Token.Location

	var dt *checked.DataType
	switch {
	case e.Kind.IsLogical():
		if left.DataType.RemoveMut().Kind != checked.DataTypeKindBool && left.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewErrorAt(diagnostics.ErrExpectedBooleanExpression, left.Location,
				"expected boolean expression"))
		}
		if right.DataType.RemoveMut().Kind != checked.DataTypeKindBool && right.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewErrorAt(diagnostics.ErrExpectedBooleanExpression, right.Location,
				"expected boolean expression"))
		}
		dt = checked.NewDataType(checked.DataTypeKindBool, loc)
	case e.Kind.IsComparison():
		bothNumeric := a.resolver.IsNumeric(left.DataType, false) && a.resolver.IsNumeric(right.DataType, false)
		if !left.DataType.Eq(right.DataType) && !bothNumeric &&
			left.DataType.Kind != checked.DataTypeKindUnknown && right.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewError(diagnostics.ErrDataTypeDontMatch, e.Token,
				"data types don't match: "+left.DataType.String()+" vs "+right.DataType.String()))
		}
		dt = checked.NewDataType(checked.DataTypeKindBool, loc)
	case e.Kind == ast.BinaryAssign:
		a.checkAssignable(left, e.Token)
		dt = checked.NewDataType(checked.DataTypeKindUnit, loc)
	case e.Kind.IsAssign():
		a.checkAssignable(left, e.Token)
		if !a.resolver.IsNumeric(left.DataType, false) && left.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewError(diagnostics.ErrDataTypeDontMatch, e.Token,
				"this kind of data type is not expected for a compound assignment"))
		}
		dt = checked.NewDataType(checked.DataTypeKindUnit, loc)
	default:
		// Arithmetic, bitwise and shift operators.
		if !a.resolver.IsNumeric(left.DataType, false) && left.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewErrorAt(diagnostics.ErrDataTypeDontMatch, left.Location,
				"this kind of data type is not expected: "+left.DataType.String()))
		}
		dt = a.promoteNumeric(left.DataType, right.DataType)
	}
	return checked.NewBinaryExpr(loc, dt, e, e.Kind, left, right)
}

// checkAssignable validates the restricted L-value subset: identifiers
// bound to mutable variables, array accesses and field accesses.
func (a *Analyzer) checkAssignable(left *checked.Expr, tok token.Token) {
	switch left.Kind {
	case checked.ExprKindCall:
		switch left.Call.Kind {
		case checked.CallKindVariable:
			if !left.Call.Variable.IsMut {
				a.emit(diagnostics.NewError(diagnostics.ErrExpectedMutableVariable, tok,
					"expected mutable variable: "+left.Call.Variable.Name))
			}
			return
		case checked.CallKindFunParam, checked.CallKindRecordFieldSingle, checked.CallKindRecordFieldAccess:
			return
		}
	case checked.ExprKindAccess:
		return
	case checked.ExprKindUnary:
		if left.Unary.Kind == ast.UnaryDereference {
			return
		}
	case checked.ExprKindUnknown:
		return
	}
	a.emit(diagnostics.NewError(diagnostics.ErrExpectedMutableVariable, tok, "left side of assignment is not assignable"))
}

// checkFieldAccess checks a dot/arrow chain left-to-right against the
// record fields behind each step.
func (a *Analyzer) checkFieldAccess(e *ast.Binary, scope *checked.Scope) *checked.Expr {
	loc := e.Token.Location

	name, ok := e.Right.(*ast.Identifier)
	if !ok {
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedIdentifier, e.Right.GetToken(), "expected identifier"))
		return checked.NewUnknownExpr(loc, e)
	}

	// Enum.Variant resolves to a variant call before value checking.
	if ident, ok := e.Left.(*ast.Identifier); ok && e.Kind == ast.BinaryDot {
		if r := scope.SearchEnum(ident.Value); !r.IsNotFound() {
			return a.checkVariantAccess(e, r.Enum, name, scope)
		}
	}

	left := a.checkExpr(e.Left, scope)

	subject := left.DataType
	if e.Kind == ast.BinaryArrow {
		resolved := subject.RemoveMut()
		if !resolved.IsPtrKind() && resolved.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewError(diagnostics.ErrThisKindOfDataTypeIsNotExpected, e.Token,
				"this kind of data type is not expected: arrow access needs a pointer"))
			return checked.NewUnknownExpr(loc, e)
		}
	}
	fields, err := a.resolver.GetFieldsFromDataType(subject)
	if err != nil {
		if subject.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewError(diagnostics.ErrExpectedCustomDataType, e.Token, err.Error()))
		}
		return checked.NewUnknownExpr(loc, e)
	}
	for i, f := range fields {
		if f.Name == name.Value {
			record := a.recordBehind(subject)
			call := &checked.ExprCall{
				Kind:       checked.CallKindRecordFieldSingle,
				GlobalName: name.Value,
				RecordFieldSingle: &checked.CallRecordFieldSingle{
					Record:     record,
					FieldName:  f.Name,
					FieldIndex: i,
				},
			}
			out := checked.NewCallExpr(loc, f.DataType, e, call)
			out.Access = &checked.ExprAccess{Kind: checked.AccessKindPath, Path: []*checked.Expr{left}}
			return out
		}
	}
	a.emit(diagnostics.NewError(diagnostics.ErrFieldIsNotFound, name.Token, "field is not found: "+name.Value))
	return checked.NewUnknownExpr(loc, e)
}

func (a *Analyzer) checkVariantAccess(e *ast.Binary, enum *checked.EnumDecl, name *ast.Identifier, scope *checked.Scope) *checked.Expr {
	loc := e.Token.Location
	variant := enum.Variant(name.Value)
	if variant == nil {
		a.emit(diagnostics.NewError(diagnostics.ErrIdentifierNotFound, name.Token,
			"identifier is not found: "+name.Value))
		return checked.NewUnknownExpr(loc, e)
	}
	dt := checked.NewCustom(loc, &checked.CustomDataType{
		ScopeID:     enum.Scope.ID,
		Scope:       checked.NewAccessScope(enum.Scope.ID),
		Name:        enum.Name,
		GlobalName:  enum.GlobalName,
		Kind:        checked.CustomKindEnum,
		IsRecursive: enum.IsRecursive,
	})
	call := &checked.ExprCall{
		Kind:       checked.CallKindVariant,
		Scope:      checked.NewAccessScope(enum.Scope.ID),
		GlobalName: enum.GlobalName + "." + variant.Name,
		Variant:    &checked.CallVariant{Enum: enum, Variant: variant},
	}
	return checked.NewCallExpr(loc, dt, e, call)
}

func (a *Analyzer) recordBehind(dt *checked.DataType) *checked.RecordDecl {
	dt = dt.RemoveMut()
	for dt.IsPtrKind() {
		dt = dt.Inner.RemoveMut()
	}
	if dt.Kind != checked.DataTypeKindCustom {
		return nil
	}
	return a.records[dt.Custom.GlobalName]
}

func (a *Analyzer) checkUnary(e *ast.Unary, scope *checked.Scope) *checked.Expr {
	right := a.checkExpr(e.Right, scope)
	loc := e.Token.Location
	var dt *checked.DataType
	switch e.Kind {
	case ast.UnaryNeg:
		if !a.resolver.IsNumeric(right.DataType, false) && right.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewError(diagnostics.ErrDataTypeDontMatch, e.Token,
				"this kind of data type is not expected: "+right.DataType.String()))
		}
		dt = right.DataType
	case ast.UnaryNot:
		if right.DataType.RemoveMut().Kind != checked.DataTypeKindBool && right.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewError(diagnostics.ErrExpectedBooleanExpression, e.Token, "expected boolean expression"))
		}
		dt = checked.NewDataType(checked.DataTypeKindBool, loc)
	case ast.UnaryDereference:
		resolved := right.DataType.RemoveMut()
		if resolved.IsPtrKind() {
			dt = resolved.Inner
		} else {
			if resolved.Kind != checked.DataTypeKindUnknown {
				a.emit(diagnostics.NewError(diagnostics.ErrThisKindOfDataTypeIsNotExpected, e.Token,
					"this kind of data type is not expected: dereference needs a pointer"))
			}
			dt = unknownAt(loc)
		}
	case ast.UnaryRef:
		dt = checked.NewWrap(checked.DataTypeKindRef, loc, right.DataType)
	case ast.UnaryRefMut:
		dt = checked.NewWrap(checked.DataTypeKindRefMut, loc, right.DataType)
	case ast.UnaryTrace:
		dt = checked.NewWrap(checked.DataTypeKindTrace, loc, right.DataType)
	default:
		dt = checked.NewWrap(checked.DataTypeKindTraceMut, loc, right.DataType)
	}
	out := checked.NewExpr(checked.ExprKindUnary, loc, dt, e)
	out.Unary = &checked.ExprUnary{Kind: e.Kind, Right: right}
	return out
}

func (a *Analyzer) checkIndex(e *ast.Index, scope *checked.Scope) *checked.Expr {
	subject := a.checkExpr(e.Subject, scope)
	index := a.checkExpr(e.Value, scope)
	loc := e.Token.Location
	if !a.resolver.IsInteger(index.DataType, false) && index.DataType.Kind != checked.DataTypeKindUnknown {
		a.emit(diagnostics.NewError(diagnostics.ErrDataTypeDontMatch, e.Token, "index must be an integer"))
	}
	elem := a.resolver.UnwrapImplicitPtr(subject.DataType)
	if elem == subject.DataType && subject.DataType.Kind != checked.DataTypeKindUnknown {
		a.emit(diagnostics.NewError(diagnostics.ErrThisKindOfDataTypeIsNotExpected, e.Token,
			"this kind of data type is not expected: "+subject.DataType.String()+" cannot be indexed"))
		elem = unknownAt(loc)
	}
	out := checked.NewExpr(checked.ExprKindAccess, loc, elem, e)
	out.Access = &checked.ExprAccess{
		Kind: checked.AccessKindHook,
		Hook: &checked.AccessHook{Subject: subject, Index: index},
	}
	return out
}

func (a *Analyzer) checkArray(e *ast.Array, scope *checked.Scope) *checked.Expr {
	loc := e.Token.Location
	elems := make([]*checked.Expr, len(e.Elements))
	var elemDt *checked.DataType
	for i, el := range e.Elements {
		elems[i] = a.checkExpr(el, scope)
		if elemDt == nil {
			elemDt = elems[i].DataType
		} else if !elemDt.Eq(elems[i].DataType) && elems[i].DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewErrorAt(diagnostics.ErrDataTypeDontMatchWithInferDataType, elems[i].Location,
				"data type doesn't match with inferred data type"))
		}
	}
	if elemDt == nil {
		elemDt = unknownAt(loc)
	}
	dt := checked.NewArray(loc, checked.ArrayKindSized, elemDt, uint64(len(elems)))
	out := checked.NewExpr(checked.ExprKindArray, loc, dt, e)
	out.Array = &checked.ExprArray{Kind: checked.ArrayKindSized, Elements: elems}
	return out
}

func (a *Analyzer) checkList(e *ast.List, scope *checked.Scope) *checked.Expr {
	loc := e.Token.Location
	elems := make([]*checked.Expr, len(e.Elements))
	var elemDt *checked.DataType
	for i, el := range e.Elements {
		elems[i] = a.checkExpr(el, scope)
		if elemDt == nil {
			elemDt = elems[i].DataType
		}
	}
	if elemDt == nil {
		elemDt = unknownAt(loc)
	}
	out := checked.NewExpr(checked.ExprKindList, loc, checked.NewWrap(checked.DataTypeKindList, loc, elemDt), e)
	out.List = elems
	return out
}

func (a *Analyzer) checkTuple(e *ast.Tuple, scope *checked.Scope) *checked.Expr {
	loc := e.Token.Location
	elems := make([]*checked.Expr, len(e.Elements))
	dts := make([]*checked.DataType, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = a.checkExpr(el, scope)
		dts[i] = elems[i].DataType
	}
	out := checked.NewExpr(checked.ExprKindTuple, loc, checked.NewTuple(loc, dts), e)
	out.Tuple = elems
	return out
}

func (a *Analyzer) checkLambda(e *ast.Lambda, scope *checked.Scope) *checked.Expr {
	loc := e.Token.Location
	lambdaScope := a.newScope(scope)
	var params []*checked.FunParam
	var paramDts []*checked.DataType
	for _, p := range e.Params {
		param := &checked.FunParam{Location: p.Token.Location, Name: p.Name, Kind: checked.FunParamNormal}
		if p.DataType != nil {
			param.DataType = a.checkDataType(p.DataType, lambdaScope)
		} else {
			param.DataType = checked.NewCompilerGeneric(p.Token.Location, p.Name)
		}
		if !lambdaScope.AddParam(param) {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateParamName, p.Token, "duplicate param name: "+p.Name))
			continue
		}
		params = append(params, param)
		paramDts = append(paramDts, param.DataType)
	}
	var ret *checked.DataType
	if e.ReturnType != nil {
		ret = a.checkDataType(e.ReturnType, lambdaScope)
	} else {
		ret = checked.NewDataType(checked.DataTypeKindUnit, loc)
	}
	body := a.checkStmts(e.Body, lambdaScope)
	out := checked.NewExpr(checked.ExprKindLambda, loc, checked.NewLambda(loc, paramDts, ret), e)
	out.Lambda = &checked.ExprLambda{Params: params, ReturnType: ret, Body: body, Scope: lambdaScope}
	return out
}

func (a *Analyzer) checkCast(e *ast.Cast, scope *checked.Scope) *checked.Expr {
	inner := a.checkExpr(e.Expr, scope)
	dest := a.checkDataType(e.Dest, scope)
	loc := e.Token.Location
	if dest.Kind == checked.DataTypeKindAny {
		a.emit(diagnostics.NewError(diagnostics.ErrCannotCastToAnyInSafeMode, e.Token, "cannot cast to Any in safe mode"))
	}
	out := checked.NewExpr(checked.ExprKindCast, loc, dest, e)
	out.Cast = &checked.ExprCast{Expr: inner, Dest: dest}
	return out
}

func (a *Analyzer) checkCall(e *ast.Call, scope *checked.Scope) *checked.Expr {
	callee, ok := e.Callee.(*ast.Identifier)
	if !ok {
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedFunCall, e.Token, "expected fun call"))
		return checked.NewUnknownExpr(e.Token.Location, e)
	}
	loc := e.Token.Location

	// Check arguments first: overload resolution needs their types.
	args := make([]*checked.Expr, len(e.Args))
	argDts := make([]*checked.DataType, len(e.Args))
	for i, arg := range e.Args {
		args[i] = a.checkExpr(arg.Value, scope)
		argDts[i] = args[i].DataType
	}

	if r := scope.SearchFun(callee.Value); !r.IsNotFound() {
		return a.checkFunCall(e, callee, r.Funs, args, scope)
	}
	if record := scope.SearchRecord(callee.Value); !record.IsNotFound() {
		return a.checkRecordCall(e, record.Record, args)
	}
	if enumResp := scope.SearchEnum(callee.Value); !enumResp.IsNotFound() {
		// Variant construction is spelled Enum.Variant and checked in the
		// field-access path; a bare enum call is an error.
		a.emit(diagnostics.NewError(diagnostics.ErrUnexpectedCallExpr, e.Token, "unexpected call expression"))
		return checked.NewUnknownExpr(loc, e)
	}
	if builtin := builtins.GetBuiltin(callee.Value, argDts); builtin != nil {
		call := &checked.ExprCall{
			Kind:       checked.CallKindFunBuiltin,
			GlobalName: builtin.RealName,
			FunBuiltin: &checked.CallFunBuiltin{Builtin: builtin, Params: normalParams(args)},
		}
		return checked.NewCallExpr(loc, builtin.ReturnDataType, e, call)
	}
	if builtins.IsBuiltinName(callee.Value) {
		a.emit(diagnostics.NewError(diagnostics.ErrBadBuiltinFunction, e.Token, "bad builtin function"))
		return checked.NewUnknownExpr(loc, e)
	}
	if sys := builtins.GetSys(callee.Value, argDts); sys != nil {
		call := &checked.ExprCall{
			Kind:       checked.CallKindFunSys,
			GlobalName: sys.RealName,
			FunSys:     &checked.CallFunSys{Sys: sys, Params: normalParams(args)},
		}
		return checked.NewCallExpr(loc, sys.ReturnDataType, e, call)
	}
	if builtins.IsSysName(callee.Value) {
		a.emit(diagnostics.NewError(diagnostics.ErrBadSysFunction, e.Token, "bad sys function"))
		return checked.NewUnknownExpr(loc, e)
	}
	a.emit(diagnostics.NewError(diagnostics.ErrFunctionIsNotFound, callee.Token, "function is not found: "+callee.Value))
	return checked.NewUnknownExpr(loc, e)
}

func normalParams(args []*checked.Expr) []*checked.CallParam {
	params := make([]*checked.CallParam, len(args))
	for i, arg := range args {
		params[i] = &checked.CallParam{Kind: checked.CallParamNormal, Location: arg.Location, Value: arg}
	}
	return params
}

// checkFunCall validates the argument vector against each overload and
// picks the first whose parameter types accept the call.
func (a *Analyzer) checkFunCall(e *ast.Call, callee *ast.Identifier, overloads []*checked.FunDecl, args []*checked.Expr, scope *checked.Scope) *checked.Expr {
	loc := e.Token.Location
	for _, fun := range overloads {
		if fun.IsMain {
			a.emit(diagnostics.NewError(diagnostics.ErrMainFunctionIsNotCallable, e.Token, "main function is not callable"))
			return checked.NewUnknownExpr(loc, e)
		}
		if fun == a.currentFun {
			fun.IsRecursive = true
			if fun.IsMain {
				a.emit(diagnostics.NewError(diagnostics.ErrMainFunctionCannotBeRecursive, e.Token,
					"main function cannot be recursive"))
			}
		}
		params, ok := a.matchCallArgs(e, fun, args, scope)
		if !ok {
			continue
		}
		ctx := a.genericContext(e, fun, args, scope)
		ret := fun.ReturnType
		if ctx.Called != nil {
			ret = checked.ResolveGenericDataTypeWithOrderedHashMap(ret, ctx.Called)
			a.recordSignature(fun, params, ctx.Called)
		}
		call := &checked.ExprCall{
			Kind:       checked.CallKindFun,
			Scope:      checked.NewAccessScope(fun.Scope.ID),
			GlobalName: fun.GlobalName,
			Fun:        &checked.CallFun{Decl: fun, Params: params, GenericParams: ctx.Called},
		}
		return checked.NewCallExpr(loc, ret, e, call)
	}
	a.emit(diagnostics.NewError(diagnostics.ErrNumberOfParamsMismatched, e.Token,
		"number of params mismatched for "+callee.Value))
	return checked.NewUnknownExpr(loc, e)
}

// matchCallArgs builds the ordered parameter vector for one candidate:
// positional args in order, named args overwriting defaults, remaining
// defaults filled from the declaration.
func (a *Analyzer) matchCallArgs(e *ast.Call, fun *checked.FunDecl, args []*checked.Expr, scope *checked.Scope) ([]*checked.CallParam, bool) {
	if len(args) > len(fun.Params) {
		a.emit(diagnostics.NewError(diagnostics.ErrTooManyParams, e.Token, "too many params"))
		return nil, false
	}
	params := make([]*checked.CallParam, len(fun.Params))
	positional := 0
	for i, arg := range e.Args {
		if arg.Name == "" {
			if positional >= len(fun.Params) {
				return nil, false
			}
			params[positional] = &checked.CallParam{
				Kind:     checked.CallParamNormal,
				Location: args[i].Location,
				Value:    args[i],
			}
			positional++
			continue
		}
		idx := -1
		for j, p := range fun.Params {
			if p.Name == arg.Name {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, false
		}
		if fun.Params[idx].Kind != checked.FunParamDefault {
			a.emit(diagnostics.NewError(diagnostics.ErrDefaultParamIsNotExpected, e.Token,
				"default param is not expected: "+arg.Name))
			return nil, false
		}
		params[idx] = &checked.CallParam{
			Kind:     checked.CallParamDefaultOverwrite,
			Location: args[i].Location,
			Value:    args[i],
		}
	}
	for i, p := range fun.Params {
		if params[i] != nil {
			continue
		}
		if p.Kind != checked.FunParamDefault {
			return nil, false
		}
		params[i] = &checked.CallParam{Kind: checked.CallParamDefault, Location: p.Location, Value: p.Default}
	}
	// Validate argument types against the declaration, generics aside.
	for i, p := range fun.Params {
		declDt := p.DataType
		got := params[i].Value.DataType
		if declDt.Kind == checked.DataTypeKindCompilerGeneric ||
			(declDt.Kind == checked.DataTypeKindCustom && declDt.Custom.Kind == checked.CustomKindGeneric) {
			continue
		}
		if got.Kind == checked.DataTypeKindUnknown {
			continue
		}
		if !declDt.Eq(got) {
			if a.resolver.IsNumeric(declDt, false) && a.resolver.IsNumeric(got, false) {
				continue
			}
			return nil, false
		}
	}
	return params, true
}

// genericContext builds the call-site generic bindings, from explicit
// generic arguments or inferred from argument types.
func (a *Analyzer) genericContext(e *ast.Call, fun *checked.FunDecl, args []*checked.Expr, scope *checked.Scope) checked.GenericContext {
	if len(fun.GenericParams) == 0 {
		return checked.GenericContext{}
	}
	called := utils.NewOrderedMap[*checked.DataType]()
	if len(e.Generics) > 0 {
		if len(e.Generics) != len(fun.GenericParams) {
			a.emit(diagnostics.NewError(diagnostics.ErrNumberOfParamsMismatched, e.Token,
				"number of generic params mismatched"))
		}
		for i, gp := range fun.GenericParams {
			if i < len(e.Generics) {
				called.Put(gp.Name, a.checkDataType(e.Generics[i], scope))
			}
		}
		return checked.GenericContext{Called: called}
	}
	// Infer from argument types by position.
	for _, gp := range fun.GenericParams {
		for i, p := range fun.Params {
			if i >= len(e.Args) {
				break
			}
			if p.DataType.Kind == checked.DataTypeKindCustom &&
				p.DataType.Custom.Kind == checked.CustomKindGeneric &&
				p.DataType.Custom.Name == gp.Name {
				called.Put(gp.Name, args[i].DataType)
				break
			}
		}
	}
	if called.Len() == 0 {
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedDataTypeIsNotGuaranteed, e.Token,
			"expected data type is not guaranteed"))
	}
	return checked.GenericContext{Called: called}
}

func (a *Analyzer) recordSignature(fun *checked.FunDecl, params []*checked.CallParam, called *utils.OrderedMap[*checked.DataType]) {
	types := make([]*checked.DataType, 0, len(params)+1)
	ctx := checked.GenericContext{Called: called}
	for _, p := range params {
		resolved, err := a.resolver.Resolve(p.Value.DataType, ctx)
		if err != nil {
			resolved = p.Value.DataType
		}
		types = append(types, resolved)
	}
	ret, err := a.resolver.Resolve(fun.ReturnType, ctx)
	if err != nil {
		ret = fun.ReturnType
	}
	types = append(types, ret)
	var generics []*checked.DataType
	called.Range(func(_ string, dt *checked.DataType) bool {
		generics = append(generics, dt)
		return true
	})
	fun.AddSignature(&checked.Signature{
		GlobalName:    checked.MonomorphizedName(fun.GlobalName, generics),
		Types:         types,
		GenericParams: called,
	})
}

func (a *Analyzer) checkRecordCall(e *ast.Call, record *checked.RecordDecl, args []*checked.Expr) *checked.Expr {
	loc := e.Token.Location
	fields := make([]*checked.CallRecordField, 0, len(args))
	for i, arg := range e.Args {
		name := arg.Name
		if name == "" && i < len(record.Fields) {
			name = record.Fields[i].Name
		}
		if record.FieldIndex(name) < 0 {
			a.emit(diagnostics.NewError(diagnostics.ErrFieldIsNotFound, arg.Token, "field is not found: "+name))
			continue
		}
		fields = append(fields, &checked.CallRecordField{Name: name, Value: args[i]})
	}
	dt := checked.NewCustom(loc, &checked.CustomDataType{
		ScopeID:     record.Scope.ID,
		Scope:       checked.NewAccessScope(record.Scope.ID),
		Name:        record.Name,
		GlobalName:  record.GlobalName,
		Kind:        checked.CustomKindRecord,
		IsRecursive: record.IsRecursive,
	})
	call := &checked.ExprCall{
		Kind:       checked.CallKindRecord,
		Scope:      checked.NewAccessScope(record.Scope.ID),
		GlobalName: record.GlobalName,
		Record:     &checked.CallRecord{Decl: record, Fields: fields},
	}
	return checked.NewCallExpr(loc, dt, e, call)
}
