package analyzer

import (
	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
)

// checkPattern checks a pattern against the matched type, binding names
// into scope.
func (a *Analyzer) checkPattern(p ast.Pattern, dt *checked.DataType, scope *checked.Scope) *checked.Pattern {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return &checked.Pattern{Kind: checked.PatternKindWildcard, Location: pat.Token.Location, DataType: dt}
	case *ast.NamePattern:
		v := &checked.Variable{Location: pat.Token.Location, Name: pat.Name, DataType: dt}
		if !scope.AddVariable(v) {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateVariable, pat.Token, "duplicate variable: "+pat.Name))
		}
		return &checked.Pattern{Kind: checked.PatternKindName, Location: pat.Token.Location, DataType: dt, Name: pat.Name}
	case *ast.AsPattern:
		inner := a.checkPattern(pat.Inner, dt, scope)
		v := &checked.Variable{Location: pat.Token.Location, Name: pat.Name, DataType: dt}
		if !scope.AddVariable(v) {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateVariable, pat.Token, "duplicate variable: "+pat.Name))
		}
		return &checked.Pattern{
			Kind:     checked.PatternKindAs,
			Location: pat.Token.Location,
			DataType: dt,
			As:       &checked.PatternAs{Pattern: inner, Name: pat.Name},
		}
	case *ast.AutoCompletePattern:
		return &checked.Pattern{Kind: checked.PatternKindAutoComplete, Location: pat.Token.Location, DataType: dt}
	case *ast.LiteralPattern:
		lit := a.checkLiteral(pat.Literal)
		return &checked.Pattern{
			Kind:     checked.PatternKindLiteral,
			Location: pat.Token.Location,
			DataType: lit.DataType,
			Literal:  lit.Literal,
		}
	case *ast.ArrayPattern:
		elem := a.resolver.UnwrapImplicitPtr(dt)
		children := make([]*checked.Pattern, len(pat.Patterns))
		for i, child := range pat.Patterns {
			children[i] = a.checkPattern(child, elem, scope)
		}
		return &checked.Pattern{Kind: checked.PatternKindArray, Location: pat.Token.Location, DataType: dt, Patterns: children}
	case *ast.ListPattern:
		elem := dt
		if dt.RemoveMut().Kind == checked.DataTypeKindList {
			elem = dt.RemoveMut().Inner
		}
		children := make([]*checked.Pattern, len(pat.Patterns))
		for i, child := range pat.Patterns {
			children[i] = a.checkPattern(child, elem, scope)
		}
		return &checked.Pattern{Kind: checked.PatternKindList, Location: pat.Token.Location, DataType: dt, Patterns: children}
	case *ast.ListHeadPattern:
		elem := dt
		if dt.RemoveMut().Kind == checked.DataTypeKindList {
			elem = dt.RemoveMut().Inner
		}
		return &checked.Pattern{
			Kind:     checked.PatternKindListHead,
			Location: pat.Token.Location,
			DataType: dt,
			Pair: &checked.PatternPair{
				Left:  a.checkPattern(pat.Left, elem, scope),
				Right: a.checkPattern(pat.Right, dt, scope),
			},
		}
	case *ast.ListTailPattern:
		elem := dt
		if dt.RemoveMut().Kind == checked.DataTypeKindList {
			elem = dt.RemoveMut().Inner
		}
		return &checked.Pattern{
			Kind:     checked.PatternKindListTail,
			Location: pat.Token.Location,
			DataType: dt,
			Pair: &checked.PatternPair{
				Left:  a.checkPattern(pat.Left, dt, scope),
				Right: a.checkPattern(pat.Right, elem, scope),
			},
		}
	case *ast.RangePattern:
		return &checked.Pattern{
			Kind:     checked.PatternKindRange,
			Location: pat.Token.Location,
			DataType: dt,
			Pair: &checked.PatternPair{
				Left:  a.checkPattern(pat.Left, dt, scope),
				Right: a.checkPattern(pat.Right, dt, scope),
			},
		}
	case *ast.TuplePattern:
		resolved := dt.RemoveMut()
		children := make([]*checked.Pattern, len(pat.Patterns))
		for i, child := range pat.Patterns {
			elem := unknownAt(pat.Token.Location)
			if resolved.Kind == checked.DataTypeKindTuple && i < len(resolved.Tuple) {
				elem = resolved.Tuple[i]
			}
			children[i] = a.checkPattern(child, elem, scope)
		}
		if resolved.Kind == checked.DataTypeKindTuple && len(resolved.Tuple) != len(pat.Patterns) {
			a.emit(diagnostics.NewError(diagnostics.ErrTuplesHaveNotSameSize, pat.Token, "tuples don't have the same size"))
		}
		return &checked.Pattern{Kind: checked.PatternKindTuple, Location: pat.Token.Location, DataType: dt, Patterns: children}
	case *ast.RecordCallPattern:
		return a.checkRecordCallPattern(pat, dt, scope)
	case *ast.VariantCallPattern:
		return a.checkVariantCallPattern(pat, dt, scope)
	case *ast.ErrorPattern:
		r := scope.SearchError(pat.Name)
		out := &checked.Pattern{Kind: checked.PatternKindError, Location: pat.Token.Location, DataType: dt}
		if r.IsNotFound() {
			a.emit(diagnostics.NewError(diagnostics.ErrErrorDeclNotFound, pat.Token, "error decl is not found: "+pat.Name))
			return out
		}
		errPattern := &checked.PatternError{Decl: r.Error}
		if pat.Payload != nil {
			payloadDt := unknownAt(pat.Token.Location)
			if r.Error.DataType != nil {
				payloadDt = r.Error.DataType
			}
			errPattern.Payload = a.checkPattern(pat.Payload, payloadDt, scope)
		}
		out.Error = errPattern
		return out
	default:
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedPattern, p.GetToken(), "expected pattern"))
		return &checked.Pattern{Kind: checked.PatternKindWildcard, Location: p.GetLocation(), DataType: dt}
	}
}

func (a *Analyzer) checkRecordCallPattern(pat *ast.RecordCallPattern, dt *checked.DataType, scope *checked.Scope) *checked.Pattern {
	r := scope.SearchRecord(pat.Name)
	out := &checked.Pattern{Kind: checked.PatternKindRecordCall, Location: pat.Token.Location, DataType: dt}
	if r.IsNotFound() {
		a.emit(diagnostics.NewError(diagnostics.ErrIdentifierNotFound, pat.Token, "identifier is not found: "+pat.Name))
		return out
	}
	record := r.Record
	call := &checked.PatternRecordCall{Decl: record}
	for _, f := range pat.Fields {
		idx := record.FieldIndex(f.Name)
		if idx < 0 {
			a.emit(diagnostics.NewError(diagnostics.ErrFieldIsNotFound, pat.Token, "field is not found: "+f.Name))
			continue
		}
		call.Fields = append(call.Fields, &checked.PatternRecordField{
			Name:    f.Name,
			Pattern: a.checkPattern(f.Pattern, record.Fields[idx].DataType, scope),
		})
	}
	out.RecordCall = call
	return out
}

func (a *Analyzer) checkVariantCallPattern(pat *ast.VariantCallPattern, dt *checked.DataType, scope *checked.Scope) *checked.Pattern {
	out := &checked.Pattern{Kind: checked.PatternKindVariantCall, Location: pat.Token.Location, DataType: dt}
	resolved := dt.RemoveMut()
	var enum *checked.EnumDecl
	if resolved.Kind == checked.DataTypeKindCustom {
		enum = a.enums[resolved.Custom.GlobalName]
	}
	if enum == nil {
		a.emit(diagnostics.NewError(diagnostics.ErrExpectedCustomDataType, pat.Token,
			"expected custom data type for variant pattern"))
		return out
	}
	variant := enum.Variant(pat.Name)
	if variant == nil {
		a.emit(diagnostics.NewError(diagnostics.ErrIdentifierNotFound, pat.Token, "identifier is not found: "+pat.Name))
		return out
	}
	call := &checked.PatternVariantCall{Enum: enum, Variant: variant}
	if pat.Payload != nil {
		payloadDt := unknownAt(pat.Token.Location)
		if variant.DataType != nil {
			payloadDt = variant.DataType
		}
		call.Payload = a.checkPattern(pat.Payload, payloadDt, scope)
	}
	out.VariantCall = call
	return out
}
