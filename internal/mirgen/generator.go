// Package mirgen lowers the checked AST into MIR: block-structured,
// register-style instructions grouped into functions, constants and
// structs.
package mirgen

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/mir"
)

// Generator lowers one checked unit into a MIR module.
type Generator struct {
	Module   *mir.Module
	resolver *checked.Resolver

	// Loop lowering targets for break/next.
	loopExits []*mir.BlockInst
	loopConds []*mir.BlockInst
}

// New builds a generator emitting into module.
func New(module *mir.Module, resolver *checked.Resolver) *Generator {
	return &Generator{Module: module, resolver: resolver}
}

// GenerateUnit lowers every declaration of the unit's global scope:
// structs first, then constants, then functions.
func (g *Generator) GenerateUnit(global *checked.Scope) error {
	for _, record := range global.Records {
		g.GenerateStruct(record)
	}
	for _, constant := range global.Constants {
		if err := g.GenerateConst(constant); err != nil {
			return err
		}
	}
	for _, fun := range global.Funs {
		if err := g.GenerateFun(fun); err != nil {
			return err
		}
	}
	return g.Module.Verify()
}

// GenerateStruct lowers a record declaration to a named struct.
func (g *Generator) GenerateStruct(record *checked.RecordDecl) {
	fields := make([]*mir.Dt, len(record.Fields))
	for i, f := range record.Fields {
		fields[i] = g.LowerDataType(f.DataType)
	}
	g.Module.CreateStruct(record.GlobalName, fields)
	g.Module.PopCurrent()
}

// GenerateConst lowers a constant declaration.
func (g *Generator) GenerateConst(constant *checked.ConstantDecl) error {
	val, err := g.constVal(constant.Value)
	if err != nil {
		return err
	}
	g.Module.CreateConst(constant.GlobalName, val)
	g.Module.PopCurrent()
	return nil
}

func (g *Generator) constVal(expr *checked.Expr) (*mir.Val, error) {
	expr = expr.Unwrap()
	if expr.Kind != checked.ExprKindLiteral {
		return nil, fmt.Errorf("mirgen: constant initializer must be a literal")
	}
	return g.literalVal(expr), nil
}

// GenerateFun lowers a function: entry block, parameter scope, body.
// A function whose last block lacks a terminator returns unit.
func (g *Generator) GenerateFun(fun *checked.FunDecl) error {
	logrus.WithField("fun", fun.GlobalName).Trace("mirgen: generate fun")
	params := make([]*mir.Dt, len(fun.Params))
	for i, p := range fun.Params {
		params[i] = g.LowerDataType(p.DataType)
	}
	mirFun := g.Module.CreateFun(fun.GlobalName, fun.GlobalName, params, g.LowerDataType(fun.ReturnType))
	for _, p := range fun.Params {
		mirFun.Scope.AddParam(p.DataType)
	}
	for _, stmt := range fun.Body {
		if err := g.generateStmt(fun, mirFun.Scope, stmt); err != nil {
			return err
		}
	}
	if block := g.Module.CurrentBlock(); block != nil && !block.IsTerminated() {
		if fun.ReturnType.Kind == checked.DataTypeKindUnit {
			g.Module.BuildRet(nil)
		} else {
			g.Module.BuildRet(mir.NewUnitVal())
		}
	}
	for _, block := range mirFun.Blocks {
		block.Limit.Set(block.ID)
	}
	g.Module.PopCurrent()
	return nil
}

func (g *Generator) generateStmts(fun *checked.FunDecl, scope *mir.Scope, stmts []*checked.Stmt) error {
	for _, s := range stmts {
		if err := g.generateStmt(fun, scope, s); err != nil {
			return err
		}
		if block := g.Module.CurrentBlock(); block != nil && block.IsTerminated() {
			break
		}
	}
	return nil
}

func (g *Generator) generateStmt(fun *checked.FunDecl, scope *mir.Scope, stmt *checked.Stmt) error {
	switch stmt.Kind {
	case checked.StmtKindVariable:
		return g.generateVariable(fun, scope, stmt.Variable)
	case checked.StmtKindExpr:
		_, err := g.GenerateExpr(fun, scope, stmt.Expr, nil, false)
		return err
	case checked.StmtKindReturn:
		return g.generateReturn(fun, scope, stmt.Return)
	case checked.StmtKindBlock:
		limit := mir.NewBlockLimit()
		inner := scope.Push(limit)
		if err := g.generateStmts(fun, inner, stmt.Block.Body); err != nil {
			return err
		}
		if block := g.Module.CurrentBlock(); block != nil {
			limit.Set(block.ID)
		}
		return nil
	case checked.StmtKindIf:
		return g.generateIf(fun, scope, stmt.If)
	case checked.StmtKindWhile:
		return g.generateWhile(fun, scope, stmt.While)
	case checked.StmtKindSwitch:
		return g.generateSwitch(fun, scope, stmt.Switch)
	case checked.StmtKindBreak:
		if len(g.loopExits) == 0 {
			return fmt.Errorf("mirgen: break outside a loop")
		}
		g.Module.BuildJmp(g.loopExits[len(g.loopExits)-1])
		return nil
	case checked.StmtKindNext:
		if len(g.loopConds) == 0 {
			return fmt.Errorf("mirgen: next outside a loop")
		}
		g.Module.BuildJmp(g.loopConds[len(g.loopConds)-1])
		return nil
	case checked.StmtKindDrop:
		// Releasing is a checker-side concern; nothing to emit yet.
		return nil
	case checked.StmtKindMatch:
		return g.generateMatch(fun, scope, stmt.Match)
	default:
		return fmt.Errorf("mirgen: unsupported statement kind %d", stmt.Kind)
	}
}

func (g *Generator) generateVariable(fun *checked.FunDecl, scope *mir.Scope, stmt *checked.StmtVariable) error {
	dt := g.LowerDataType(stmt.Variable.DataType)
	addr := g.Module.BuildVar(stmt.Variable.Name, dt)
	scope.AddVar(stmt.Variable.Name, stmt.Variable.DataType)
	val, err := g.GenerateExpr(fun, scope, stmt.Value, nil, false)
	if err != nil {
		return err
	}
	if val != nil {
		g.Module.BuildStore(addr, val)
	}
	return nil
}

func (g *Generator) generateReturn(fun *checked.FunDecl, scope *mir.Scope, expr *checked.Expr) error {
	if expr == nil {
		g.Module.BuildRet(nil)
		return nil
	}
	val, err := g.GenerateExpr(fun, scope, expr, nil, true)
	if err != nil {
		return err
	}
	g.Module.BuildRet(val)
	return nil
}

func (g *Generator) generateIf(fun *checked.FunDecl, scope *mir.Scope, stmt *checked.StmtIf) error {
	limit := mir.NewBlockLimit()
	exit := g.Module.BuildBlock("exit_block", limit)
	for i, branch := range stmt.Branches {
		if branch.Cond == nil {
			// else arm: fall straight into its body.
			body := g.Module.BuildBlock("else", mir.NewBlockLimit())
			g.Module.BuildJmp(body)
			g.Module.AddBlock(body)
			if err := g.generateBranchBody(fun, scope, branch, exit); err != nil {
				return err
			}
			continue
		}
		body := g.Module.BuildBlock("if_body", mir.NewBlockLimit())
		var next *mir.BlockInst
		if i == len(stmt.Branches)-1 {
			next = exit
		} else {
			next = g.Module.BuildBlock("next_cond", mir.NewBlockLimit())
		}
		if err := g.generateCondJump(fun, scope, branch.Cond, body, next); err != nil {
			return err
		}
		g.Module.AddBlock(body)
		if err := g.generateBranchBody(fun, scope, branch, exit); err != nil {
			return err
		}
		if next != exit {
			g.Module.AddBlock(next)
		}
	}
	g.Module.AddBlock(exit)
	if block := g.Module.CurrentBlock(); block != nil {
		limit.Set(block.ID)
	}
	return nil
}

func (g *Generator) generateBranchBody(fun *checked.FunDecl, scope *mir.Scope, branch *checked.IfBranch, exit *mir.BlockInst) error {
	limit := mir.NewBlockLimit()
	inner := scope.Push(limit)
	if err := g.generateStmts(fun, inner, branch.Body.Body); err != nil {
		return err
	}
	if block := g.Module.CurrentBlock(); block != nil && !block.IsTerminated() {
		g.Module.BuildJmp(exit)
	}
	return nil
}

func (g *Generator) generateWhile(fun *checked.FunDecl, scope *mir.Scope, stmt *checked.StmtWhile) error {
	cond := g.Module.BuildBlock("while_cond", mir.NewBlockLimit())
	body := g.Module.BuildBlock("while_body", mir.NewBlockLimit())
	limit := mir.NewBlockLimit()
	exit := g.Module.BuildBlock("exit_block", limit)

	g.Module.BuildJmp(cond)
	g.Module.AddBlock(cond)
	if err := g.generateCondJump(fun, scope, stmt.Cond, body, exit); err != nil {
		return err
	}
	g.Module.AddBlock(body)
	g.loopExits = append(g.loopExits, exit)
	g.loopConds = append(g.loopConds, cond)
	inner := scope.Push(mir.NewBlockLimit())
	err := g.generateStmts(fun, inner, stmt.Body.Body)
	g.loopExits = g.loopExits[:len(g.loopExits)-1]
	g.loopConds = g.loopConds[:len(g.loopConds)-1]
	if err != nil {
		return err
	}
	if block := g.Module.CurrentBlock(); block != nil && !block.IsTerminated() {
		g.Module.BuildJmp(cond)
	}
	g.Module.AddBlock(exit)
	if block := g.Module.CurrentBlock(); block != nil {
		limit.Set(block.ID)
	}
	return nil
}

// generateSwitch lowers the decision tree: one comparison chain per case
// value (union members expand into one comparison each), sub-case guards
// chain inside the case body.
func (g *Generator) generateSwitch(fun *checked.FunDecl, scope *mir.Scope, stmt *checked.StmtSwitch) error {
	switched, err := g.GenerateExpr(fun, scope, stmt.SwitchedExpr, nil, false)
	if err != nil {
		return err
	}
	limit := mir.NewBlockLimit()
	exit := g.Module.BuildBlock("exit_block", limit)
	switchedDt := g.LowerDataType(stmt.SwitchedExpr.DataType)

	var elseCase *checked.SwitchCase
	for _, c := range stmt.Cases {
		if c.Value.Kind == checked.CaseValueKindElse {
			elseCase = c
			continue
		}
		body := g.Module.BuildBlock("case_body", mir.NewBlockLimit())
		next := g.Module.BuildBlock("next_case", mir.NewBlockLimit())
		g.generateCaseTest(switched, switchedDt, c.Value, body, next)
		g.Module.AddBlock(body)
		if err := g.generateSubCases(fun, scope, c.SubCases, exit); err != nil {
			return err
		}
		g.Module.AddBlock(next)
	}
	if elseCase != nil {
		if err := g.generateSubCases(fun, scope, elseCase.SubCases, exit); err != nil {
			return err
		}
	} else if block := g.Module.CurrentBlock(); block != nil && !block.IsTerminated() {
		g.Module.BuildJmp(exit)
	}
	g.Module.AddBlock(exit)
	if block := g.Module.CurrentBlock(); block != nil {
		limit.Set(block.ID)
	}
	return nil
}

func (g *Generator) generateCaseTest(switched *mir.Val, dt *mir.Dt, value *checked.CaseValue, body, next *mir.BlockInst) {
	if value.Kind == checked.CaseValueKindUnion {
		// Membership: any member matching enters the body.
		for i, member := range value.Union {
			cmp := g.caseValueCmp(switched, dt, member)
			if i == len(value.Union)-1 {
				g.Module.BuildJmpCond(cmp, body, next)
				return
			}
			more := g.Module.BuildBlock("union_cond", mir.NewBlockLimit())
			g.Module.BuildJmpCond(cmp, body, more)
			g.Module.AddBlock(more)
		}
		return
	}
	g.Module.BuildJmpCond(g.caseValueCmp(switched, dt, value), body, next)
}

func (g *Generator) caseValueCmp(switched *mir.Val, dt *mir.Dt, value *checked.CaseValue) *mir.Val {
	var lit *mir.Val
	kind := mir.InstKindIcmpEq
	switch value.Kind {
	case checked.CaseValueKindBool:
		b := int64(0)
		if value.Bool {
			b = 1
		}
		lit = mir.NewIntVal(dt, b)
	case checked.CaseValueKindFloat32, checked.CaseValueKindFloat64:
		kind = mir.InstKindFcmpEq
		lit = mir.NewFloatVal(dt, value.Float)
	case checked.CaseValueKindUint8, checked.CaseValueKindUint16,
		checked.CaseValueKindUint32, checked.CaseValueKindUint64, checked.CaseValueKindUsize:
		lit = mir.NewUintVal(dt, value.Uint)
	default:
		lit = mir.NewIntVal(dt, value.Int)
	}
	return g.Module.BuildReg(mir.NewBinInst(kind, switched, lit))
}

func (g *Generator) generateSubCases(fun *checked.FunDecl, scope *mir.Scope, subs []*checked.SwitchSubCase, exit *mir.BlockInst) error {
	for _, sub := range subs {
		if sub.Cond != nil {
			body := g.Module.BuildBlock("sub_case", mir.NewBlockLimit())
			next := g.Module.BuildBlock("next_sub_case", mir.NewBlockLimit())
			if err := g.generateCondJump(fun, scope, sub.Cond, body, next); err != nil {
				return err
			}
			g.Module.AddBlock(body)
			if err := g.generateStmt(fun, scope, sub.Body); err != nil {
				return err
			}
			if block := g.Module.CurrentBlock(); block != nil && !block.IsTerminated() {
				g.Module.BuildJmp(exit)
			}
			g.Module.AddBlock(next)
			continue
		}
		if err := g.generateStmt(fun, scope, sub.Body); err != nil {
			return err
		}
		if block := g.Module.CurrentBlock(); block != nil && !block.IsTerminated() {
			g.Module.BuildJmp(exit)
		}
		return nil
	}
	if block := g.Module.CurrentBlock(); block != nil && !block.IsTerminated() {
		g.Module.BuildJmp(exit)
	}
	return nil
}

// generateMatch lowers only the trivial single-catch-all form; any other
// match returns an error, since this package has no decision-tree match
// compiler.
func (g *Generator) generateMatch(fun *checked.FunDecl, scope *mir.Scope, stmt *checked.StmtMatch) error {
	if _, err := g.GenerateExpr(fun, scope, stmt.Expr, nil, false); err != nil {
		return err
	}
	if len(stmt.Cases) == 1 && stmt.Cases[0].Pattern.IsFinalElsePattern() && stmt.Cases[0].Cond == nil {
		return g.generateStmt(fun, scope, stmt.Cases[0].Body)
	}
	return fmt.Errorf("mirgen: general match lowering requires the decision-tree compiler")
}
