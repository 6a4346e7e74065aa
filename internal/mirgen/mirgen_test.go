package mirgen

import (
	"testing"

	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/builtins"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/mir"
	"github.com/thelilylang/lily-sub007/internal/token"
)

var loc = token.Location{Filename: "test.lily", StartLine: 1, StartColumn: 1}

func boolDt() *checked.DataType { return checked.NewDataType(checked.DataTypeKindBool, loc) }

func newTestGenerator(t *testing.T, params ...*checked.DataType) (*Generator, *mir.FunInst) {
	t.Helper()
	g := New(mir.NewModule(), checked.NewResolver(nil))
	mirParams := make([]*mir.Dt, len(params))
	for i, p := range params {
		mirParams[i] = g.LowerDataType(p)
	}
	fun := g.Module.CreateFun("test", "test", mirParams, mir.NewDt(mir.DtKindUnit))
	for _, p := range params {
		fun.Scope.AddParam(p)
	}
	return g, fun
}

func paramExpr(id int, dt *checked.DataType) *checked.Expr {
	return checked.NewCallExpr(loc, dt, nil, &checked.ExprCall{
		Kind:     checked.CallKindFunParam,
		FunParam: id,
	})
}

func binaryExpr(kind ast.BinaryKind, dt *checked.DataType, left, right *checked.Expr) *checked.Expr {
	return checked.NewBinaryExpr(loc, dt, nil, kind, left, right)
}

func intLiteral(dt *checked.DataType, v int64) *checked.Expr {
	return checked.NewLiteralExpr(loc, dt, nil, &checked.ExprLiteral{Kind: ast.LiteralInt32, Int: v})
}

func blockNames(fun *mir.FunInst) []string {
	names := make([]string, len(fun.Blocks))
	for i, b := range fun.Blocks {
		names[i] = b.Name
	}
	return names
}

func findBlock(t *testing.T, fun *mir.FunInst, prefix string) *mir.BlockInst {
	t.Helper()
	for _, b := range fun.Blocks {
		if len(b.Name) >= len(prefix) && b.Name[:len(prefix)] == prefix {
			return b
		}
	}
	t.Fatalf("no %s block in %v", prefix, blockNames(fun))
	return nil
}

func lastInst(t *testing.T, b *mir.BlockInst) *mir.Inst {
	t.Helper()
	if len(b.Insts) == 0 {
		t.Fatalf("block %s is empty", b.Name)
	}
	return b.Insts[len(b.Insts)-1]
}

// Scenario: `x and y` over two boolean reads materializes an i1 local,
// a two-step cond ladder, assign0/assign1 stores and an exit load.
func TestShortCircuitAndOfTwoBools(t *testing.T) {
	g, fun := newTestGenerator(t, boolDt(), boolDt())
	expr := binaryExpr(ast.BinaryAnd, boolDt(), paramExpr(0, boolDt()), paramExpr(1, boolDt()))

	val, err := g.GenerateExpr(nil, fun.Scope, expr, nil, false)
	if err != nil {
		t.Fatalf("GenerateExpr: %v", err)
	}
	if val == nil || !val.Dt.Eq(mir.NewDt(mir.DtKindI1)) {
		t.Fatalf("produced value = %v, want an i1", val)
	}

	entry := fun.Blocks[0]
	var foundVirtual bool
	for _, inst := range entry.Insts {
		if inst.Kind == mir.InstKindVar && inst.Var.Inst.Kind == mir.InstKindAlloc {
			if inst.Var.Inst.Alloc.Dt.Kind == mir.DtKindI1 {
				foundVirtual = true
			}
		}
	}
	if !foundVirtual {
		t.Error("entry must allocate one i1 virtual local")
	}

	first := findBlock(t, fun, "first_cond")
	second := findBlock(t, fun, "second_cond")
	assign0 := findBlock(t, fun, "assign0")
	assign1 := findBlock(t, fun, "assign1")
	exit := findBlock(t, fun, "exit_block")

	// first_cond: jmpcond over x to second_cond / assign0.
	jc := lastInst(t, first)
	if jc.Kind != mir.InstKindJmpCond {
		t.Fatalf("first_cond ends with %v, want jmpcond", jc.Kind)
	}
	if jc.JmpCond.ThenName != second.Name || jc.JmpCond.ElseName != assign0.Name {
		t.Errorf("first_cond jumps to %s/%s, want %s/%s",
			jc.JmpCond.ThenName, jc.JmpCond.ElseName, second.Name, assign0.Name)
	}
	// second_cond: jmpcond over y to assign1 / assign0.
	jc2 := lastInst(t, second)
	if jc2.JmpCond.ThenName != assign1.Name || jc2.JmpCond.ElseName != assign0.Name {
		t.Errorf("second_cond jumps to %s/%s, want %s/%s",
			jc2.JmpCond.ThenName, jc2.JmpCond.ElseName, assign1.Name, assign0.Name)
	}
	// assign0 stores 0 then jumps to exit; assign1 stores 1.
	if assign0.Insts[0].Kind != mir.InstKindStore || assign0.Insts[0].Store.Src.Int != 0 {
		t.Error("assign0 must store 0")
	}
	if lastInst(t, assign0).Jmp.BlockName != exit.Name {
		t.Error("assign0 must jump to the exit block")
	}
	if assign1.Insts[0].Kind != mir.InstKindStore || assign1.Insts[0].Store.Src.Int != 1 {
		t.Error("assign1 must store 1")
	}
	// exit loads the local back.
	if exit.Insts[0].Kind != mir.InstKindReg || exit.Insts[0].Reg.Inst.Kind != mir.InstKindLoad {
		t.Error("exit block must load the virtual local")
	}
}

// Property: the `and` ladder's last-arm-false path targets the
// outermost assign0; the `or` ladder's last-arm-true path targets the
// outermost assign1.
func TestChainedShortCircuitTargets(t *testing.T) {
	g, fun := newTestGenerator(t, boolDt(), boolDt(), boolDt())
	chain := binaryExpr(ast.BinaryAnd, boolDt(),
		binaryExpr(ast.BinaryAnd, boolDt(), paramExpr(0, boolDt()), paramExpr(1, boolDt())),
		paramExpr(2, boolDt()))
	if _, err := g.GenerateExpr(nil, fun.Scope, chain, nil, false); err != nil {
		t.Fatalf("GenerateExpr: %v", err)
	}
	assign0 := findBlock(t, fun, "assign0")
	assign1 := findBlock(t, fun, "assign1")
	// The last cond block emitted before assign0/assign1 carries c's
	// jmpcond: both paths hit the outermost targets.
	var lastCond *mir.Inst
	for _, b := range fun.Blocks {
		for _, inst := range b.Insts {
			if inst.Kind == mir.InstKindJmpCond {
				lastCond = inst
			}
		}
	}
	if lastCond == nil {
		t.Fatal("no jmpcond emitted")
	}
	if lastCond.JmpCond.ElseName != assign0.Name {
		t.Errorf("last arm's false path = %s, want outermost %s", lastCond.JmpCond.ElseName, assign0.Name)
	}
	if lastCond.JmpCond.ThenName != assign1.Name {
		t.Errorf("last arm's true path = %s, want outermost %s", lastCond.JmpCond.ThenName, assign1.Name)
	}
}

// Scenario: Int8 + Int32 promotes to Int32 and emits an iadd whose
// operands are both i32.
func TestIntegerPromotionAdd(t *testing.T) {
	i8 := checked.NewDataType(checked.DataTypeKindInt8, loc)
	i32 := checked.NewDataType(checked.DataTypeKindInt32, loc)
	g, fun := newTestGenerator(t, i8, i32)
	expr := binaryExpr(ast.BinaryAdd, i32, paramExpr(0, i8), paramExpr(1, i32))

	val, err := g.GenerateExpr(nil, fun.Scope, expr, nil, false)
	if err != nil {
		t.Fatalf("GenerateExpr: %v", err)
	}
	if val.Dt.Kind != mir.DtKindI32 {
		t.Errorf("result type = %s, want i32", val.Dt)
	}
	entry := fun.Blocks[0]
	reg := lastInst(t, entry)
	if reg.Kind != mir.InstKindReg || reg.Reg.Inst.Kind != mir.InstKindIadd {
		t.Fatalf("last instruction = %s, want a reg-wrapped iadd", reg)
	}
	add := reg.Reg.Inst
	if add.Bin.Left.Dt.Kind != mir.DtKindI32 || add.Bin.Right.Dt.Kind != mir.DtKindI32 {
		t.Errorf("iadd operands = %s, %s, want i32, i32 after sign extension",
			add.Bin.Left.Dt, add.Bin.Right.Dt)
	}
}

// Scenario: max(3, 4) on Int32 literals resolves to __max__$Int32 and
// emits a builtincall with two i32 args and an i32 return.
func TestBuiltinDispatchMaxInt32(t *testing.T) {
	i32 := checked.NewDataType(checked.DataTypeKindInt32, loc)
	g, fun := newTestGenerator(t)
	builtin := builtins.GetBuiltin("max", []*checked.DataType{i32, i32})
	if builtin == nil {
		t.Fatal("max(Int32, Int32) missing from the builtin table")
	}
	expr := checked.NewCallExpr(loc, builtin.ReturnDataType, nil, &checked.ExprCall{
		Kind:       checked.CallKindFunBuiltin,
		GlobalName: builtin.RealName,
		FunBuiltin: &checked.CallFunBuiltin{
			Builtin: builtin,
			Params: []*checked.CallParam{
				{Kind: checked.CallParamNormal, Value: intLiteral(i32, 3)},
				{Kind: checked.CallParamNormal, Value: intLiteral(i32, 4)},
			},
		},
	})
	val, err := g.GenerateExpr(nil, fun.Scope, expr, nil, false)
	if err != nil {
		t.Fatalf("GenerateExpr: %v", err)
	}
	if val.Dt.Kind != mir.DtKindI32 {
		t.Errorf("call value type = %s, want i32", val.Dt)
	}
	call := lastInst(t, fun.Blocks[0])
	if call.Kind != mir.InstKindReg || call.Reg.Inst.Kind != mir.InstKindBuiltinCall {
		t.Fatalf("last instruction = %s, want a reg-wrapped builtincall", call)
	}
	inst := call.Reg.Inst.Call
	if inst.Name != "__max__$Int32" {
		t.Errorf("callee = %s, want __max__$Int32", inst.Name)
	}
	if len(inst.Params) != 2 || inst.Params[0].Dt.Kind != mir.DtKindI32 {
		t.Errorf("args = %v, want two i32", inst.Params)
	}
}

// Assignment rebuilds the left side as an address and stores into it.
func TestAssignLowersToStore(t *testing.T) {
	i64 := checked.NewDataType(checked.DataTypeKindInt64, loc)
	g, fun := newTestGenerator(t)
	v := &checked.Variable{Location: loc, Name: "x", DataType: i64, IsMut: true}
	g.Module.BuildVar("x", g.LowerDataType(i64))
	fun.Scope.AddVar("x", i64)

	left := checked.NewCallExpr(loc, i64, nil, &checked.ExprCall{
		Kind:     checked.CallKindVariable,
		Variable: v,
	})
	expr := binaryExpr(ast.BinaryAssign, checked.NewDataType(checked.DataTypeKindUnit, loc),
		left, intLiteral(i64, 9))
	val, err := g.GenerateExpr(nil, fun.Scope, expr, nil, false)
	if err != nil {
		t.Fatalf("GenerateExpr: %v", err)
	}
	if val != nil {
		t.Error("an assignment produces no value")
	}
	store := lastInst(t, fun.Blocks[0])
	if store.Kind != mir.InstKindStore {
		t.Fatalf("last instruction = %s, want store", store)
	}
	if store.Store.Dest.Kind != mir.ValKindVar || store.Store.Dest.Str != "x" {
		t.Errorf("store dest = %s, want the variable address", store.Store.Dest)
	}
}

// Compound assignment emits the op to a fresh register then stores it.
func TestCompoundAssignEmitsOpThenStore(t *testing.T) {
	i32 := checked.NewDataType(checked.DataTypeKindInt32, loc)
	g, fun := newTestGenerator(t)
	v := &checked.Variable{Location: loc, Name: "n", DataType: i32, IsMut: true}
	g.Module.BuildVar("n", g.LowerDataType(i32))
	fun.Scope.AddVar("n", i32)
	left := checked.NewCallExpr(loc, i32, nil, &checked.ExprCall{Kind: checked.CallKindVariable, Variable: v})
	expr := binaryExpr(ast.BinaryAssignAdd, checked.NewDataType(checked.DataTypeKindUnit, loc),
		left, intLiteral(i32, 1))
	if _, err := g.GenerateExpr(nil, fun.Scope, expr, nil, false); err != nil {
		t.Fatalf("GenerateExpr: %v", err)
	}
	insts := fun.Blocks[0].Insts
	store := insts[len(insts)-1]
	if store.Kind != mir.InstKindStore {
		t.Fatalf("last instruction = %s, want store", store)
	}
	reg := insts[len(insts)-2]
	if reg.Kind != mir.InstKindReg || reg.Reg.Inst.Kind != mir.InstKindIadd {
		t.Errorf("instruction before the store = %s, want the iadd register", reg)
	}
	if store.Store.Src.Kind != mir.ValKindReg {
		t.Error("the store must write the fresh register")
	}
}

// A dereference on the left of `=` is an address equal to the pointer's
// value.
func TestDereferenceAssignable(t *testing.T) {
	i32 := checked.NewDataType(checked.DataTypeKindInt32, loc)
	ptr := checked.NewWrap(checked.DataTypeKindPtr, loc, i32)
	g, fun := newTestGenerator(t, ptr)
	deref := checked.NewExpr(checked.ExprKindUnary, loc, i32, nil)
	deref.Unary = &checked.ExprUnary{Kind: ast.UnaryDereference, Right: paramExpr(0, ptr)}
	addr, err := g.generateAssignableExpr(nil, fun.Scope, deref)
	if err != nil {
		t.Fatalf("generateAssignableExpr: %v", err)
	}
	if addr.Kind != mir.ValKindParam {
		t.Errorf("address = %v, want the pointer param's value", addr)
	}
}

// The full function path: verify every block ends with exactly one
// terminator after lowering an if statement.
func TestGenerateFunBlocksAreTerminated(t *testing.T) {
	g := New(mir.NewModule(), checked.NewResolver(nil))
	boolParam := boolDt()
	fun := &checked.FunDecl{
		Location:   loc,
		Name:       "f",
		GlobalName: "test.f",
		Params: []*checked.FunParam{
			{Location: loc, Name: "c", Kind: checked.FunParamNormal, DataType: boolParam},
		},
		ReturnType: checked.NewDataType(checked.DataTypeKindUnit, loc),
		Body: []*checked.Stmt{
			{
				Kind:     checked.StmtKindIf,
				Location: loc,
				If: &checked.StmtIf{Branches: []*checked.IfBranch{
					{Cond: paramExpr(0, boolParam), Body: &checked.StmtBlock{}},
					{Body: &checked.StmtBlock{}},
				}},
			},
		},
	}
	if err := g.GenerateFun(fun); err != nil {
		t.Fatalf("GenerateFun: %v", err)
	}
	if err := g.Module.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}
