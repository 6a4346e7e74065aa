// Package analyzer walks the raw AST and produces the checked AST: every
// name resolved against the scope tree, every expression carrying a
// resolved data type, every call validated against its callee.
package analyzer

import (
	"github.com/sirupsen/logrus"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/token"
)

// Analyzer checks one compilation unit. Declaration analysis respects a
// topological order: type and error declarations first, then constants,
// then fun signatures, then fun bodies.
type Analyzer struct {
	File    string
	Counter *diagnostics.Counter

	diags  []*diagnostics.Diagnostic
	scopes []*checked.Scope

	global   *checked.Scope
	resolver *checked.Resolver

	aliases map[string]*checked.AliasDecl
	records map[string]*checked.RecordDecl
	enums   map[string]*checked.EnumDecl

	currentFun  *checked.FunDecl
	currentLoop int
}

// New builds an analyzer for the named file.
func New(file string, counter *diagnostics.Counter) *Analyzer {
	a := &Analyzer{
		File:    file,
		Counter: counter,
		aliases: make(map[string]*checked.AliasDecl),
		records: make(map[string]*checked.RecordDecl),
		enums:   make(map[string]*checked.EnumDecl),
	}
	if a.Counter == nil {
		a.Counter = diagnostics.NewCounter(nil)
	}
	a.resolver = checked.NewResolver(a)
	return a
}

// LookupAlias implements checked.DeclLookup.
func (a *Analyzer) LookupAlias(globalName string) *checked.AliasDecl {
	return a.aliases[globalName]
}

// LookupRecord implements checked.DeclLookup.
func (a *Analyzer) LookupRecord(globalName string) *checked.RecordDecl {
	return a.records[globalName]
}

// LookupEnum implements checked.DeclLookup.
func (a *Analyzer) LookupEnum(globalName string) *checked.EnumDecl {
	return a.enums[globalName]
}

// Resolver exposes the data-type resolver bound to this unit.
func (a *Analyzer) Resolver() *checked.Resolver { return a.resolver }

// GlobalScope returns the unit's root scope.
func (a *Analyzer) GlobalScope() *checked.Scope { return a.global }

// Diagnostics returns everything collected so far.
func (a *Analyzer) Diagnostics() []*diagnostics.Diagnostic { return a.diags }

// GetScope returns the scope with the given id.
func (a *Analyzer) GetScope(id int) *checked.Scope {
	if id < 0 || id >= len(a.scopes) {
		return nil
	}
	return a.scopes[id]
}

func (a *Analyzer) newScope(parent *checked.Scope) *checked.Scope {
	s := checked.NewScope(len(a.scopes), parent)
	a.scopes = append(a.scopes, s)
	return s
}

func (a *Analyzer) emit(d *diagnostics.Diagnostic) {
	if d.Location.Filename == "" {
		d.Location.Filename = a.File
	}
	if a.Counter.Count(d) {
		a.diags = append(a.diags, d)
	}
}

// CheckModule analyzes a whole unit and returns its global scope.
// Analysis never aborts: after an error the declaration completes in
// best-effort mode with unknown data types.
func (a *Analyzer) CheckModule(mod *ast.Module) *checked.Scope {
	logrus.WithField("module", mod.Name).Debug("analyzer: check module")
	a.global = a.newScope(nil)

	var funs []*ast.FunDecl
	var constants []*ast.ConstantDecl

	// Pass 1: type and error declarations.
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.RecordDecl:
			a.declareRecord(d)
		case *ast.EnumDecl:
			a.declareEnum(d)
		case *ast.AliasDecl:
			a.declareAlias(d)
		case *ast.ErrorDecl:
			a.declareError(d)
		case *ast.ConstantDecl:
			constants = append(constants, d)
		case *ast.FunDecl:
			funs = append(funs, d)
		}
	}
	a.markRecursiveTypes()

	// Pass 2: constants.
	for _, c := range constants {
		a.checkConstant(c)
	}

	// Pass 3: fun signatures.
	declsByFun := make(map[*checked.FunDecl]*ast.FunDecl)
	for _, f := range funs {
		decl := a.declareFunSignature(f)
		if decl != nil {
			declsByFun[decl] = f
		}
	}

	// Pass 4: fun bodies, strictly top-to-bottom.
	for _, fun := range a.global.Funs {
		if raw := declsByFun[fun]; raw != nil {
			a.checkFunBody(fun, raw)
		}
	}
	return a.global
}

func (a *Analyzer) globalName(name string) string {
	return a.File + "." + name
}

func (a *Analyzer) declareRecord(d *ast.RecordDecl) {
	decl := &checked.RecordDecl{
		Location:   d.Token.Location,
		Name:       d.Name,
		GlobalName: a.globalName(d.Name),
	}
	scope := a.newScope(a.global)
	decl.Scope = scope
	for _, gp := range d.GenericParams {
		g := &checked.GenericParam{Location: gp.Token.Location, Name: gp.Name}
		if !scope.AddGeneric(g) {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateParamName, gp.Token, "duplicate generic param: "+gp.Name))
			continue
		}
		decl.GenericParams = append(decl.GenericParams, g)
	}
	if !a.global.AddRecord(decl) {
		a.emit(diagnostics.NewError(diagnostics.ErrDuplicateRecord, d.Token, "record is already defined: "+d.Name))
		return
	}
	a.records[decl.GlobalName] = decl
	for _, f := range d.Fields {
		if decl.FieldIndex(f.Name) >= 0 {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateField, f.Token, "duplicate field: "+f.Name))
			continue
		}
		decl.Fields = append(decl.Fields, &checked.RecordField{
			Location: f.Token.Location,
			Name:     f.Name,
			DataType: a.checkDataType(f.DataType, scope),
			IsMut:    f.IsMut,
		})
	}
}

func (a *Analyzer) declareEnum(d *ast.EnumDecl) {
	decl := &checked.EnumDecl{
		Location:   d.Token.Location,
		Name:       d.Name,
		GlobalName: a.globalName(d.Name),
	}
	scope := a.newScope(a.global)
	decl.Scope = scope
	for _, gp := range d.GenericParams {
		g := &checked.GenericParam{Location: gp.Token.Location, Name: gp.Name}
		if !scope.AddGeneric(g) {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateParamName, gp.Token, "duplicate generic param: "+gp.Name))
			continue
		}
		decl.GenericParams = append(decl.GenericParams, g)
	}
	if !a.global.AddEnum(decl) {
		a.emit(diagnostics.NewError(diagnostics.ErrDuplicateEnum, d.Token, "enum is already defined: "+d.Name))
		return
	}
	a.enums[decl.GlobalName] = decl
	for i, v := range d.Variants {
		if decl.Variant(v.Name) != nil {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateVariant, v.Token, "duplicate variant: "+v.Name))
			continue
		}
		variant := &checked.EnumVariant{Location: v.Token.Location, Name: v.Name, ID: i}
		if v.DataType != nil {
			variant.DataType = a.checkDataType(v.DataType, scope)
		}
		decl.Variants = append(decl.Variants, variant)
	}
}

func (a *Analyzer) declareAlias(d *ast.AliasDecl) {
	decl := &checked.AliasDecl{
		Location:   d.Token.Location,
		Name:       d.Name,
		GlobalName: a.globalName(d.Name),
	}
	scope := a.newScope(a.global)
	for _, gp := range d.GenericParams {
		g := &checked.GenericParam{Location: gp.Token.Location, Name: gp.Name}
		scope.AddGeneric(g)
		decl.GenericParams = append(decl.GenericParams, g)
	}
	if !a.global.AddAlias(decl) {
		a.emit(diagnostics.NewError(diagnostics.ErrDuplicateAlias, d.Token, "alias is already defined: "+d.Name))
		return
	}
	decl.DataType = a.checkDataType(d.DataType, scope)
	a.aliases[decl.GlobalName] = decl
}

func (a *Analyzer) declareError(d *ast.ErrorDecl) {
	decl := &checked.ErrorDecl{
		Location:   d.Token.Location,
		Name:       d.Name,
		GlobalName: a.globalName(d.Name),
	}
	if !a.global.AddError(decl) {
		a.emit(diagnostics.NewError(diagnostics.ErrDuplicateError, d.Token, "error is already defined: "+d.Name))
		return
	}
	if d.DataType != nil {
		decl.DataType = a.checkDataType(d.DataType, a.global)
	}
}

// markRecursiveTypes runs the marking pass before any body analysis: a
// custom type whose body reaches its own declaration is flagged so the
// resolver never tries to inline it.
func (a *Analyzer) markRecursiveTypes() {
	for _, record := range a.global.Records {
		if a.typeReaches(record.GlobalName, fieldsTypes(record.Fields), make(map[string]bool)) {
			record.IsRecursive = true
			a.markCustomRefs(fieldsTypes(record.Fields), record.GlobalName)
		}
	}
	for _, enum := range a.global.Enums {
		var dts []*checked.DataType
		for _, v := range enum.Variants {
			if v.DataType != nil {
				dts = append(dts, v.DataType)
			}
		}
		if a.typeReaches(enum.GlobalName, dts, make(map[string]bool)) {
			enum.IsRecursive = true
			a.markCustomRefs(dts, enum.GlobalName)
		}
	}
}

func fieldsTypes(fields []*checked.RecordField) []*checked.DataType {
	dts := make([]*checked.DataType, len(fields))
	for i, f := range fields {
		dts[i] = f.DataType
	}
	return dts
}

func (a *Analyzer) typeReaches(target string, dts []*checked.DataType, seen map[string]bool) bool {
	for _, dt := range dts {
		if a.dtReaches(target, dt, seen) {
			return true
		}
	}
	return false
}

func (a *Analyzer) dtReaches(target string, dt *checked.DataType, seen map[string]bool) bool {
	if dt == nil {
		return false
	}
	switch dt.Kind {
	case checked.DataTypeKindCustom:
		name := dt.Custom.GlobalName
		if name == target {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		if record := a.records[name]; record != nil {
			return a.typeReaches(target, fieldsTypes(record.Fields), seen)
		}
		if enum := a.enums[name]; enum != nil {
			for _, v := range enum.Variants {
				if v.DataType != nil && a.dtReaches(target, v.DataType, seen) {
					return true
				}
			}
		}
		if alias := a.aliases[name]; alias != nil {
			return a.dtReaches(target, alias.DataType, seen)
		}
		return false
	case checked.DataTypeKindArray:
		return a.dtReaches(target, dt.Array.DataType, seen)
	case checked.DataTypeKindTuple:
		return a.typeReaches(target, dt.Tuple, seen)
	case checked.DataTypeKindResult:
		if a.dtReaches(target, dt.Result.Ok, seen) {
			return true
		}
		return a.typeReaches(target, dt.Result.Errs, seen)
	case checked.DataTypeKindLambda:
		if a.typeReaches(target, dt.Lambda.Params, seen) {
			return true
		}
		return a.dtReaches(target, dt.Lambda.ReturnType, seen)
	default:
		if dt.Inner != nil {
			return a.dtReaches(target, dt.Inner, seen)
		}
		return false
	}
}

func (a *Analyzer) markCustomRefs(dts []*checked.DataType, target string) {
	for _, dt := range dts {
		markCustomRef(dt, target)
	}
}

func markCustomRef(dt *checked.DataType, target string) {
	if dt == nil {
		return
	}
	switch dt.Kind {
	case checked.DataTypeKindCustom:
		if dt.Custom.GlobalName == target {
			dt.Custom.IsRecursive = true
		}
	case checked.DataTypeKindArray:
		markCustomRef(dt.Array.DataType, target)
	case checked.DataTypeKindTuple:
		for _, e := range dt.Tuple {
			markCustomRef(e, target)
		}
	case checked.DataTypeKindResult:
		markCustomRef(dt.Result.Ok, target)
		for _, e := range dt.Result.Errs {
			markCustomRef(e, target)
		}
	case checked.DataTypeKindLambda:
		for _, p := range dt.Lambda.Params {
			markCustomRef(p, target)
		}
		markCustomRef(dt.Lambda.ReturnType, target)
	default:
		if dt.Inner != nil {
			markCustomRef(dt.Inner, target)
		}
	}
}

func (a *Analyzer) checkConstant(d *ast.ConstantDecl) {
	decl := &checked.ConstantDecl{
		Location:   d.Token.Location,
		Name:       d.Name,
		GlobalName: a.globalName(d.Name),
	}
	if !a.global.AddConstant(decl) {
		a.emit(diagnostics.NewError(diagnostics.ErrDuplicateConstant, d.Token, "constant is already defined: "+d.Name))
		return
	}
	decl.Value = a.checkExpr(d.Value, a.global)
	if d.DataType != nil {
		decl.DataType = a.checkDataType(d.DataType, a.global)
		if !decl.DataType.Eq(decl.Value.DataType) && decl.Value.DataType.Kind != checked.DataTypeKindUnknown {
			a.emit(diagnostics.NewError(diagnostics.ErrDataTypeDontMatch, d.Token,
				"data types don't match: expected "+decl.DataType.String()+", got "+decl.Value.DataType.String()))
		}
	} else {
		decl.DataType = decl.Value.DataType
	}
}

func (a *Analyzer) declareFunSignature(d *ast.FunDecl) *checked.FunDecl {
	decl := &checked.FunDecl{
		Location:   d.Token.Location,
		Name:       d.Name,
		GlobalName: a.globalName(d.Name),
		IsOperator: d.IsOperator,
		IsMain:     d.IsMain,
	}
	scope := a.newScope(a.global)
	decl.Scope = scope

	if d.IsMain && len(d.GenericParams) > 0 {
		a.emit(diagnostics.NewError(diagnostics.ErrGenericParamsNotExpectedInMain, d.Token,
			"generic params are not expected in main function"))
	}
	for _, gp := range d.GenericParams {
		g := &checked.GenericParam{Location: gp.Token.Location, Name: gp.Name}
		if gp.Constraint != nil {
			g.Constraint = a.checkDataType(gp.Constraint, scope)
		}
		if !scope.AddGeneric(g) {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateParamName, gp.Token, "duplicate generic param: "+gp.Name))
			continue
		}
		decl.GenericParams = append(decl.GenericParams, g)
	}
	for _, p := range d.Params {
		param := &checked.FunParam{
			Location: p.Token.Location,
			Name:     p.Name,
			Kind:     checked.FunParamNormal,
		}
		if p.DataType != nil {
			param.DataType = a.checkDataType(p.DataType, scope)
		} else {
			param.DataType = checked.NewCompilerGeneric(p.Token.Location, p.Name)
		}
		if p.Default != nil {
			param.Kind = checked.FunParamDefault
			param.Default = a.checkExpr(p.Default, scope)
		}
		if d.IsOperator && param.DataType.Kind == checked.DataTypeKindCompilerGeneric {
			a.emit(diagnostics.NewError(diagnostics.ErrOperatorCompilerDefinedParam, p.Token,
				"operator cannot have compiler-defined data type as parameter"))
		}
		if !scope.AddParam(param) {
			a.emit(diagnostics.NewError(diagnostics.ErrDuplicateParamName, p.Token, "duplicate param name: "+p.Name))
			continue
		}
		decl.Params = append(decl.Params, param)
	}
	if d.ReturnType != nil {
		decl.ReturnType = a.checkDataType(d.ReturnType, scope)
	} else {
		decl.ReturnType = checked.NewDataType(checked.DataTypeKindUnit, d.Token.Location)
	}
	if d.IsOperator && d.ReturnType == nil {
		a.emit(diagnostics.NewError(diagnostics.ErrOperatorMustHaveReturnDataType, d.Token,
			"operator must have return data type"))
	}
	if !a.global.AddFun(decl) {
		a.emit(diagnostics.NewError(diagnostics.ErrNameConflict, d.Token, "name conflict: "+d.Name))
		return nil
	}
	return decl
}

func (a *Analyzer) checkFunBody(decl *checked.FunDecl, raw *ast.FunDecl) {
	a.currentFun = decl
	bodyScope := a.newScope(decl.Scope)
	decl.Body = a.checkStmts(raw.Body, bodyScope)
	decl.IsChecked = true
	a.currentFun = nil

	// Sealing: the function is done, its types no longer narrow.
	for _, p := range decl.Params {
		p.DataType.Seal()
	}
	decl.ReturnType.Seal()
	sealStmts(decl.Body)
}

func sealStmts(stmts []*checked.Stmt) {
	for _, s := range stmts {
		sealStmt(s)
	}
}

func sealStmt(s *checked.Stmt) {
	switch s.Kind {
	case checked.StmtKindBlock:
		sealStmts(s.Block.Body)
	case checked.StmtKindExpr:
		sealExpr(s.Expr)
	case checked.StmtKindDrop:
		sealExpr(s.Drop)
	case checked.StmtKindIf:
		for _, b := range s.If.Branches {
			if b.Cond != nil {
				sealExpr(b.Cond)
			}
			sealStmts(b.Body.Body)
		}
	case checked.StmtKindMatch:
		sealExpr(s.Match.Expr)
		for _, c := range s.Match.Cases {
			sealStmt(c.Body)
		}
	case checked.StmtKindReturn:
		if s.Return != nil {
			sealExpr(s.Return)
		}
	case checked.StmtKindSwitch:
		sealExpr(s.Switch.SwitchedExpr)
		for _, c := range s.Switch.Cases {
			for _, sub := range c.SubCases {
				if sub.Cond != nil {
					sealExpr(sub.Cond)
				}
				sealStmt(sub.Body)
			}
		}
	case checked.StmtKindVariable:
		s.Variable.Variable.DataType.Seal()
		sealExpr(s.Variable.Value)
	case checked.StmtKindWhile:
		sealExpr(s.While.Cond)
		sealStmts(s.While.Body.Body)
	}
}

func sealExpr(e *checked.Expr) {
	if e == nil {
		return
	}
	e.DataType.Seal()
	switch e.Kind {
	case checked.ExprKindBinary:
		sealExpr(e.Binary.Left)
		sealExpr(e.Binary.Right)
	case checked.ExprKindUnary:
		sealExpr(e.Unary.Right)
	case checked.ExprKindGrouping:
		sealExpr(e.Grouping)
	case checked.ExprKindUniter:
		sealExpr(e.Uniter)
	case checked.ExprKindCall:
		for _, p := range e.Call.CallParams() {
			sealExpr(p.Value)
		}
	case checked.ExprKindAccess:
		if e.Access.Hook != nil {
			sealExpr(e.Access.Hook.Subject)
			sealExpr(e.Access.Hook.Index)
		}
		for _, p := range e.Access.Path {
			sealExpr(p)
		}
	case checked.ExprKindArray:
		for _, el := range e.Array.Elements {
			sealExpr(el)
		}
	case checked.ExprKindList:
		for _, el := range e.List {
			sealExpr(el)
		}
	case checked.ExprKindTuple:
		for _, el := range e.Tuple {
			sealExpr(el)
		}
	case checked.ExprKindCast:
		sealExpr(e.Cast.Expr)
		e.Cast.Dest.Seal()
	}
}

func unknownAt(loc token.Location) *checked.DataType {
	return checked.NewDataType(checked.DataTypeKindUnknown, loc)
}
