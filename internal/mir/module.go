package mir

import (
	"fmt"
	"strconv"

	"github.com/thelilylang/lily-sub007/internal/utils"
)

// MaxCurrentInst bounds the stack of in-progress definitions.
const MaxCurrentInst = 8192

// CurrentKind tags an in-progress top-level definition.
type CurrentKind int

const (
	CurrentKindConst CurrentKind = iota
	CurrentKindFun
	CurrentKindStruct
)

// Current is one entry of the in-progress stack. Nested definitions are
// legal: the stack keeps the enclosing definition open.
type Current struct {
	Kind CurrentKind
	Inst *Inst
}

// Module is the MIR module: the ordered map of finished top-level
// definitions, the stack of in-progress ones, and the debug-info state.
type Module struct {
	Insts     *utils.OrderedMap[*Inst]
	current   []*Current
	Files     []*DebugInfoFile
	DebugInfo DebugInfoManager
}

// NewModule creates an empty MIR module.
func NewModule() *Module {
	return &Module{Insts: utils.NewOrderedMap[*Inst]()}
}

// CurrentTop returns the innermost in-progress definition, or nil.
func (m *Module) CurrentTop() *Current {
	if len(m.current) == 0 {
		return nil
	}
	return m.current[len(m.current)-1]
}

// CurrentFun returns the innermost in-progress function, or nil.
func (m *Module) CurrentFun() *FunInst {
	top := m.CurrentTop()
	if top == nil || top.Kind != CurrentKindFun {
		return nil
	}
	return top.Inst.Fun
}

func (m *Module) pushCurrent(kind CurrentKind, inst *Inst) {
	if len(m.current) >= MaxCurrentInst {
		panic("mir: current stack overflow")
	}
	m.current = append(m.current, &Current{Kind: kind, Inst: inst})
}

// PopCurrent finishes the innermost definition and registers it in the
// module's instruction map.
func (m *Module) PopCurrent() {
	top := m.CurrentTop()
	if top == nil {
		return
	}
	m.current = m.current[:len(m.current)-1]
	switch top.Kind {
	case CurrentKindConst:
		m.Insts.Put(top.Inst.Const.Name, top.Inst)
	case CurrentKindFun:
		m.Insts.Put(top.Inst.Fun.Name, top.Inst)
	case CurrentKindStruct:
		m.Insts.Put(top.Inst.Struct.Name, top.Inst)
	}
}

// CreateFun opens a function definition. Block id 0 is the implicit
// entry block.
func (m *Module) CreateFun(name, linkName string, params []*Dt, ret *Dt) *FunInst {
	fun := &FunInst{Name: name, LinkName: linkName, Params: params, ReturnDt: ret}
	entryLimit := NewBlockLimit()
	fun.Scope = NewScope(entryLimit)
	entry := &BlockInst{Name: blockName("entry", 0), ID: 0, Limit: entryLimit}
	fun.Blocks = append(fun.Blocks, entry)
	fun.blockCount = 1
	m.pushCurrent(CurrentKindFun, &Inst{Kind: InstKindFun, Fun: fun})
	return fun
}

// CreateConst opens a constant definition.
func (m *Module) CreateConst(name string, val *Val) {
	m.pushCurrent(CurrentKindConst, &Inst{Kind: InstKindConst, Const: &ConstInst{Name: name, Val: val}})
}

// CreateStruct opens a struct definition.
func (m *Module) CreateStruct(name string, fields []*Dt) {
	m.pushCurrent(CurrentKindStruct, &Inst{Kind: InstKindStruct, Struct: &StructInst{Name: name, Fields: fields}})
}

// CurrentBlock returns the block instructions are currently emitted
// into: the last block of the in-progress function.
func (m *Module) CurrentBlock() *BlockInst {
	fun := m.CurrentFun()
	if fun == nil || len(fun.Blocks) == 0 {
		return nil
	}
	return fun.Blocks[len(fun.Blocks)-1]
}

// AddInst emits an instruction into the current block. Emitting into a
// terminated block is an internal fault.
func (m *Module) AddInst(inst *Inst) {
	block := m.CurrentBlock()
	if block == nil {
		panic("mir: no current block")
	}
	if !block.AddInst(inst) {
		panic(fmt.Sprintf("mir: instruction after terminator in block %s", block.Name))
	}
}

// BuildBlock allocates a new block (without inserting it) bound to
// limit. Block ids are sequential within the function.
func (m *Module) BuildBlock(base string, limit *BlockLimit) *BlockInst {
	fun := m.CurrentFun()
	if fun == nil {
		panic("mir: BuildBlock outside a function")
	}
	id := fun.blockCount
	fun.blockCount++
	return &BlockInst{Name: blockName(base, id), ID: id, Limit: limit}
}

// AddBlock appends a built block to the function, making it current.
func (m *Module) AddBlock(block *BlockInst) {
	fun := m.CurrentFun()
	if fun == nil {
		panic("mir: AddBlock outside a function")
	}
	fun.Blocks = append(fun.Blocks, block)
}

// GenerateReg returns a fresh register name: %r.0, %r.1, ...
func (m *Module) GenerateReg() string {
	fun := m.CurrentFun()
	name := "%r." + strconv.Itoa(fun.regCount)
	fun.regCount++
	return name
}

// GenerateVirtualVariable returns a fresh virtual-local name: %v.N.
func (m *Module) GenerateVirtualVariable() string {
	fun := m.CurrentFun()
	name := "%v." + strconv.Itoa(fun.virtCount)
	fun.virtCount++
	return name
}

// BuildReg wraps inst into a fresh register and emits it. The returned
// value references the register.
func (m *Module) BuildReg(inst *Inst) *Val {
	reg := &Inst{Kind: InstKindReg, Reg: &RegInst{Name: m.GenerateReg(), Inst: inst}}
	m.AddInst(reg)
	return reg.OutVal()
}

// BuildVirtualVariable emits `var %v.N = alloc dt` and returns the
// variable's address value.
func (m *Module) BuildVirtualVariable(dt *Dt) *Val {
	name := m.GenerateVirtualVariable()
	alloc := &Inst{Kind: InstKindAlloc, Alloc: &AllocInst{Dt: dt}}
	m.AddInst(&Inst{Kind: InstKindVar, Var: &VarInst{Name: name, Inst: alloc}})
	return NewVarVal(NewDtPtr(dt), name)
}

// BuildVar emits `var name = alloc dt` for a source-level variable.
func (m *Module) BuildVar(name string, dt *Dt) *Val {
	alloc := &Inst{Kind: InstKindAlloc, Alloc: &AllocInst{Dt: dt}}
	m.AddInst(&Inst{Kind: InstKindVar, Var: &VarInst{Name: name, Inst: alloc}})
	return NewVarVal(NewDtPtr(dt), name)
}

// BuildStore emits a store of src into dest.
func (m *Module) BuildStore(dest, src *Val) {
	m.AddInst(&Inst{Kind: InstKindStore, Store: &StoreInst{Dest: dest, Src: src}})
}

// BuildLoad emits a load through a fresh register and returns its value.
func (m *Module) BuildLoad(src *Val, dt *Dt) *Val {
	return m.BuildReg(&Inst{Kind: InstKindLoad, Load: &LoadInst{Src: src, Dt: dt}})
}

// BuildJmp emits an unconditional jump to block.
func (m *Module) BuildJmp(block *BlockInst) {
	m.AddInst(&Inst{Kind: InstKindJmp, Jmp: &JmpInst{BlockName: block.Name, BlockID: block.ID}})
}

// BuildJmpCond emits a conditional jump.
func (m *Module) BuildJmpCond(cond *Val, then, els *BlockInst) {
	m.AddInst(&Inst{Kind: InstKindJmpCond, JmpCond: &JmpCondInst{
		Cond:     cond,
		ThenName: then.Name,
		ThenID:   then.ID,
		ElseName: els.Name,
		ElseID:   els.ID,
	}})
}

// BuildRet emits a return.
func (m *Module) BuildRet(val *Val) {
	m.AddInst(&Inst{Kind: InstKindRet, Ret: &RetInst{Val: val}})
}

// Verify checks every finished function: each block carries exactly one
// terminator, as its last instruction.
func (m *Module) Verify() error {
	var err error
	m.Insts.Range(func(_ string, inst *Inst) bool {
		if inst.Kind != InstKindFun {
			return true
		}
		for _, block := range inst.Fun.Blocks {
			if blockErr := block.Verify(); blockErr != nil {
				err = fmt.Errorf("fun %s: %w", inst.Fun.Name, blockErr)
				return false
			}
		}
		return true
	})
	return err
}
