package mir

import (
	"fmt"
	"strconv"
	"strings"
)

// ValKind tags a MIR value operand.
type ValKind int

const (
	ValKindInt ValKind = iota
	ValKindUint
	ValKindFloat
	ValKindBytes
	ValKindStr
	ValKindParam
	ValKindReg
	ValKindVar
	ValKindConst
	ValKindUnit
	ValKindUndef
	ValKindStruct
	ValKindArray
	ValKindTuple
)

// Val is a MIR value operand: a literal, a register, a named variable, a
// parameter slot or an aggregate.
type Val struct {
	Kind ValKind
	Dt   *Dt

	Int   int64
	Uint  uint64
	Float float64
	Bytes []byte
	Str   string // also the reg/var/const name
	Param int
	Vals  []*Val
}

// NewIntVal builds an integer literal value.
func NewIntVal(dt *Dt, v int64) *Val { return &Val{Kind: ValKindInt, Dt: dt, Int: v} }

// NewUintVal builds an unsigned integer literal value.
func NewUintVal(dt *Dt, v uint64) *Val { return &Val{Kind: ValKindUint, Dt: dt, Uint: v} }

// NewFloatVal builds a float literal value.
func NewFloatVal(dt *Dt, v float64) *Val { return &Val{Kind: ValKindFloat, Dt: dt, Float: v} }

// NewRegVal builds a register reference.
func NewRegVal(dt *Dt, name string) *Val { return &Val{Kind: ValKindReg, Dt: dt, Str: name} }

// NewVarVal builds a named-variable reference.
func NewVarVal(dt *Dt, name string) *Val { return &Val{Kind: ValKindVar, Dt: dt, Str: name} }

// NewParamVal builds a parameter-slot reference.
func NewParamVal(dt *Dt, id int) *Val { return &Val{Kind: ValKindParam, Dt: dt, Param: id} }

// NewUnitVal builds the unit value.
func NewUnitVal() *Val { return &Val{Kind: ValKindUnit, Dt: NewDt(DtKindUnit)} }

func (v *Val) String() string {
	switch v.Kind {
	case ValKindInt:
		return fmt.Sprintf("val(%s) %d", v.Dt, v.Int)
	case ValKindUint:
		return fmt.Sprintf("val(%s) %d", v.Dt, v.Uint)
	case ValKindFloat:
		return fmt.Sprintf("val(%s) %g", v.Dt, v.Float)
	case ValKindBytes:
		return fmt.Sprintf("val(%s) %q", v.Dt, v.Bytes)
	case ValKindStr:
		return fmt.Sprintf("val(%s) %q", v.Dt, v.Str)
	case ValKindParam:
		return fmt.Sprintf("val(%s) $%d", v.Dt, v.Param)
	case ValKindReg, ValKindVar, ValKindConst:
		return fmt.Sprintf("val(%s) %s", v.Dt, v.Str)
	case ValKindUnit:
		return "val(unit) ()"
	case ValKindUndef:
		return fmt.Sprintf("val(%s) undef", v.Dt)
	default:
		parts := make([]string, len(v.Vals))
		for i, e := range v.Vals {
			parts[i] = e.String()
		}
		return fmt.Sprintf("val(%s) {%s}", v.Dt, strings.Join(parts, ", "))
	}
}

// InstKind tags a MIR instruction.
type InstKind int

const (
	InstKindIadd InstKind = iota
	InstKindIsub
	InstKindImul
	InstKindIdiv
	InstKindIrem
	InstKindFadd
	InstKindFsub
	InstKindFmul
	InstKindFdiv
	InstKindFrem
	InstKindExp
	InstKindBitand
	InstKindBitor
	InstKindXor
	InstKindShl
	InstKindShr
	InstKindIcmpEq
	InstKindIcmpNe
	InstKindIcmpLt
	InstKindIcmpLe
	InstKindIcmpGt
	InstKindIcmpGe
	InstKindFcmpEq
	InstKindFcmpNe
	InstKindFcmpLt
	InstKindFcmpLe
	InstKindFcmpGt
	InstKindFcmpGe
	InstKindAlloc
	InstKindVar
	InstKindLoad
	InstKindStore
	InstKindGetField
	InstKindCall
	InstKindSysCall
	InstKindBuiltinCall
	InstKindJmp
	InstKindJmpCond
	InstKindRet
	InstKindReg
	InstKindVal
	InstKindBlock
	InstKindFun
	InstKindConst
	InstKindStruct
)

var instNames = map[InstKind]string{
	InstKindIadd:        "iadd",
	InstKindIsub:        "isub",
	InstKindImul:        "imul",
	InstKindIdiv:        "idiv",
	InstKindIrem:        "irem",
	InstKindFadd:        "fadd",
	InstKindFsub:        "fsub",
	InstKindFmul:        "fmul",
	InstKindFdiv:        "fdiv",
	InstKindFrem:        "frem",
	InstKindExp:         "exp",
	InstKindBitand:      "bitand",
	InstKindBitor:       "bitor",
	InstKindXor:         "xor",
	InstKindShl:         "shl",
	InstKindShr:         "shr",
	InstKindIcmpEq:      "icmp eq",
	InstKindIcmpNe:      "icmp ne",
	InstKindIcmpLt:      "icmp lt",
	InstKindIcmpLe:      "icmp le",
	InstKindIcmpGt:      "icmp gt",
	InstKindIcmpGe:      "icmp ge",
	InstKindFcmpEq:      "fcmp eq",
	InstKindFcmpNe:      "fcmp ne",
	InstKindFcmpLt:      "fcmp lt",
	InstKindFcmpLe:      "fcmp le",
	InstKindFcmpGt:      "fcmp gt",
	InstKindFcmpGe:      "fcmp ge",
	InstKindAlloc:       "alloc",
	InstKindVar:         "var",
	InstKindLoad:        "load",
	InstKindStore:       "store",
	InstKindGetField:    "getfield",
	InstKindCall:        "call",
	InstKindSysCall:     "syscall",
	InstKindBuiltinCall: "builtincall",
	InstKindJmp:         "jmp",
	InstKindJmpCond:     "jmpcond",
	InstKindRet:         "ret",
	InstKindReg:         "reg",
	InstKindVal:         "val",
	InstKindBlock:       "block",
	InstKindFun:         "fun",
	InstKindConst:       "const",
	InstKindStruct:      "struct",
}

// BinInst is the payload of the two-operand instructions.
type BinInst struct {
	Left  *Val
	Right *Val
}

// LoadInst loads a value from an address-producing value.
type LoadInst struct {
	Src *Val
	Dt  *Dt
}

// StoreInst stores Src into the address produced by Dest.
type StoreInst struct {
	Dest *Val
	Src  *Val
}

// AllocInst reserves a stack slot of the given type.
type AllocInst struct {
	Dt *Dt
}

// VarInst binds an alloc to a source-level name.
type VarInst struct {
	Name string
	Inst *Inst // The wrapped alloc
}

// GetFieldInst computes the address of a field/element.
type GetFieldInst struct {
	Dt      *Dt
	Subject *Val
	Indexes []*Val
}

// CallInst calls a function (user, sys or builtin, per the inst kind).
type CallInst struct {
	Name   string
	Params []*Val
	Dt     *Dt // Return type
}

// JmpInst is an unconditional jump.
type JmpInst struct {
	BlockName string
	BlockID   int
}

// JmpCondInst is a conditional jump.
type JmpCondInst struct {
	Cond     *Val
	ThenName string
	ThenID   int
	ElseName string
	ElseID   int
}

// RetInst returns from the function.
type RetInst struct {
	Val *Val // nil for a unit return
}

// RegInst wraps another instruction and assigns it a generated SSA name.
type RegInst struct {
	Name string
	Inst *Inst
}

// FunInst is a finished or in-progress function definition.
type FunInst struct {
	Name     string
	LinkName string
	Params   []*Dt
	ReturnDt *Dt
	Blocks   []*BlockInst
	Scope    *Scope

	blockCount int
	regCount   int
	virtCount  int
}

// ConstInst is a top-level constant definition.
type ConstInst struct {
	Name string
	Val  *Val
}

// StructInst is a top-level struct definition.
type StructInst struct {
	Name   string
	Fields []*Dt
}

// Inst is one MIR instruction.
type Inst struct {
	Kind InstKind

	Bin      *BinInst
	Load     *LoadInst
	Store    *StoreInst
	Alloc    *AllocInst
	Var      *VarInst
	GetField *GetFieldInst
	Call     *CallInst
	Jmp      *JmpInst
	JmpCond  *JmpCondInst
	Ret      *RetInst
	Reg      *RegInst
	Val      *Val
	Block    *BlockInst
	Fun      *FunInst
	Const    *ConstInst
	Struct   *StructInst
}

// NewBinInst builds a two-operand instruction of the given kind.
func NewBinInst(kind InstKind, left, right *Val) *Inst {
	return &Inst{Kind: kind, Bin: &BinInst{Left: left, Right: right}}
}

// IsTerminator reports whether the instruction ends a block.
func (i *Inst) IsTerminator() bool {
	switch i.Kind {
	case InstKindJmp, InstKindJmpCond, InstKindRet:
		return true
	}
	return false
}

// OutVal returns the value the instruction produces: the wrapped
// register for reg instructions, the value itself for val instructions,
// nil otherwise.
func (i *Inst) OutVal() *Val {
	switch i.Kind {
	case InstKindReg:
		return NewRegVal(i.Reg.Inst.Dt(), i.Reg.Name)
	case InstKindVal:
		return i.Val
	}
	return nil
}

// Dt returns the result type of the instruction where one is defined.
func (i *Inst) Dt() *Dt {
	switch i.Kind {
	case InstKindIadd, InstKindIsub, InstKindImul, InstKindIdiv, InstKindIrem,
		InstKindFadd, InstKindFsub, InstKindFmul, InstKindFdiv, InstKindFrem,
		InstKindExp, InstKindBitand, InstKindBitor, InstKindXor, InstKindShl, InstKindShr:
		return i.Bin.Left.Dt
	case InstKindIcmpEq, InstKindIcmpNe, InstKindIcmpLt, InstKindIcmpLe,
		InstKindIcmpGt, InstKindIcmpGe, InstKindFcmpEq, InstKindFcmpNe,
		InstKindFcmpLt, InstKindFcmpLe, InstKindFcmpGt, InstKindFcmpGe:
		return NewDt(DtKindI1)
	case InstKindLoad:
		return i.Load.Dt
	case InstKindAlloc:
		return NewDtPtr(i.Alloc.Dt)
	case InstKindVar:
		return i.Var.Inst.Dt()
	case InstKindGetField:
		return NewDtPtr(i.GetField.Dt)
	case InstKindCall, InstKindSysCall, InstKindBuiltinCall:
		return i.Call.Dt
	case InstKindReg:
		return i.Reg.Inst.Dt()
	case InstKindVal:
		return i.Val.Dt
	}
	return NewDt(DtKindUnit)
}

// String renders one instruction in the canonical textual form.
func (i *Inst) String() string {
	switch i.Kind {
	case InstKindStore:
		return fmt.Sprintf("store %s, %s", i.Store.Dest, i.Store.Src)
	case InstKindLoad:
		return fmt.Sprintf("load(%s) %s", i.Load.Dt, i.Load.Src)
	case InstKindAlloc:
		return "alloc " + i.Alloc.Dt.String()
	case InstKindVar:
		return "var " + i.Var.Name + " = " + i.Var.Inst.String()
	case InstKindGetField:
		parts := make([]string, len(i.GetField.Indexes))
		for j, idx := range i.GetField.Indexes {
			parts[j] = idx.String()
		}
		return fmt.Sprintf("getfield(%s) %s, [%s]", i.GetField.Dt, i.GetField.Subject, strings.Join(parts, ", "))
	case InstKindCall, InstKindSysCall, InstKindBuiltinCall:
		parts := make([]string, len(i.Call.Params))
		for j, p := range i.Call.Params {
			parts[j] = p.String()
		}
		return fmt.Sprintf("%s(%s) %s(%s)", instNames[i.Kind], i.Call.Dt, i.Call.Name, strings.Join(parts, ", "))
	case InstKindJmp:
		return "jmp " + i.Jmp.BlockName
	case InstKindJmpCond:
		return fmt.Sprintf("jmpcond %s, %s, %s", i.JmpCond.Cond, i.JmpCond.ThenName, i.JmpCond.ElseName)
	case InstKindRet:
		if i.Ret.Val == nil {
			return "ret"
		}
		return "ret " + i.Ret.Val.String()
	case InstKindReg:
		return i.Reg.Name + " = " + i.Reg.Inst.String()
	case InstKindVal:
		return i.Val.String()
	default:
		if i.Bin != nil {
			return fmt.Sprintf("%s %s, %s", instNames[i.Kind], i.Bin.Left, i.Bin.Right)
		}
		return instNames[i.Kind]
	}
}

// BlockInst is an identified instruction sequence. A block ends when it
// executes a terminator; the builder refuses instructions after that.
type BlockInst struct {
	Name  string
	ID    int
	Limit *BlockLimit
	Insts []*Inst

	terminated bool
}

// AddInst appends an instruction. It reports false when the block is
// already terminated.
func (b *BlockInst) AddInst(inst *Inst) bool {
	if b.terminated {
		return false
	}
	b.Insts = append(b.Insts, inst)
	if inst.IsTerminator() {
		b.terminated = true
	}
	return true
}

// IsTerminated reports whether the block has executed a terminator.
func (b *BlockInst) IsTerminated() bool { return b.terminated }

// Verify asserts the block holds exactly one terminator, as its last
// instruction.
func (b *BlockInst) Verify() error {
	if len(b.Insts) == 0 || !b.Insts[len(b.Insts)-1].IsTerminator() {
		return fmt.Errorf("block %s has no terminator", b.Name)
	}
	for _, inst := range b.Insts[:len(b.Insts)-1] {
		if inst.IsTerminator() {
			return fmt.Errorf("block %s has an instruction after its terminator", b.Name)
		}
	}
	return nil
}

func (b *BlockInst) String() string {
	var out strings.Builder
	out.WriteString(b.Name + ":\n")
	for _, inst := range b.Insts {
		out.WriteString("  " + inst.String() + "\n")
	}
	return out.String()
}

func blockName(base string, id int) string {
	return base + "." + strconv.Itoa(id)
}
