package checked

import (
	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/token"
)

// ExprKind tags a checked expression.
type ExprKind int

const (
	ExprKindAccess ExprKind = iota
	ExprKindArray
	ExprKindBinary
	ExprKindCall
	ExprKindCast
	ExprKindCompilerFun
	ExprKindGrouping
	ExprKindLambda
	ExprKindList
	ExprKindLiteral
	ExprKindSelf
	ExprKindTuple
	ExprKindUnary
	ExprKindUniter
	ExprKindUnknown
)

// AccessKind tags a checked access expression.
type AccessKind int

const (
	AccessKindHook AccessKind = iota // subject[index]
	AccessKindPath                   // a.b.c / a->b
)

// AccessHook is a subscript access.
type AccessHook struct {
	Subject *Expr
	Index   *Expr
}

// ExprAccess is a checked access expression.
type ExprAccess struct {
	Kind AccessKind
	Hook *AccessHook
	Path []*Expr
}

// ExprArray is a checked array expression.
type ExprArray struct {
	Kind     ArrayKind
	Elements []*Expr
}

// ExprBinary is a checked binary expression.
type ExprBinary struct {
	Kind  ast.BinaryKind
	Left  *Expr
	Right *Expr
}

// ExprCast is a checked cast expression.
type ExprCast struct {
	Expr *Expr
	Dest *DataType
}

// CompilerFunKind tags the compiler-intrinsic expressions.
type CompilerFunKind int

const (
	CompilerFunSizeof CompilerFunKind = iota
	CompilerFunAlignof
)

// ExprCompilerFun is a compiler-intrinsic call.
type ExprCompilerFun struct {
	Kind CompilerFunKind
	Expr *Expr
}

// ExprLambda is a checked lambda expression.
type ExprLambda struct {
	Params     []*FunParam
	ReturnType *DataType
	Body       []*Stmt
	Scope      *Scope
}

// ExprLiteral is a checked literal. The payload mirrors the raw literal;
// the owning Expr carries the resolved data type.
type ExprLiteral struct {
	Kind  ast.LiteralKind
	Bool  bool
	Byte  byte
	Bytes []byte
	Char  rune
	Float float64
	Int   int64
	Uint  uint64
	Str   string
}

// ExprUnary is a checked unary expression.
type ExprUnary struct {
	Kind  ast.UnaryKind
	Right *Expr
}

// Expr is a checked expression. Every expression carries its location,
// its resolved data type (shared, never nil after checking) and a
// non-owning back-pointer to the raw AST node it was checked from.
type Expr struct {
	Kind     ExprKind
	Location token.Location
	DataType *DataType
	Ast      ast.Expression

	Access      *ExprAccess
	Array       *ExprArray
	Binary      *ExprBinary
	Call        *ExprCall
	Cast        *ExprCast
	CompilerFun *ExprCompilerFun
	Grouping    *Expr
	Lambda      *ExprLambda
	List        []*Expr
	Literal     *ExprLiteral
	Tuple       []*Expr
	Unary       *ExprUnary
	Uniter      *Expr
}

// NewExpr builds a payload-free checked expression.
func NewExpr(kind ExprKind, loc token.Location, dt *DataType, raw ast.Expression) *Expr {
	return &Expr{Kind: kind, Location: loc, DataType: dt, Ast: raw}
}

// NewLiteralExpr builds a checked literal expression.
func NewLiteralExpr(loc token.Location, dt *DataType, raw ast.Expression, lit *ExprLiteral) *Expr {
	return &Expr{Kind: ExprKindLiteral, Location: loc, DataType: dt, Ast: raw, Literal: lit}
}

// NewBinaryExpr builds a checked binary expression.
func NewBinaryExpr(loc token.Location, dt *DataType, raw ast.Expression, kind ast.BinaryKind, left, right *Expr) *Expr {
	return &Expr{
		Kind:     ExprKindBinary,
		Location: loc,
		DataType: dt,
		Ast:      raw,
		Binary:   &ExprBinary{Kind: kind, Left: left, Right: right},
	}
}

// NewCallExpr builds a checked call expression.
func NewCallExpr(loc token.Location, dt *DataType, raw ast.Expression, call *ExprCall) *Expr {
	return &Expr{Kind: ExprKindCall, Location: loc, DataType: dt, Ast: raw, Call: call}
}

// NewUniterExpr wraps expr and forces its result type to unit. Used for
// expression-as-statement lowering.
func NewUniterExpr(expr *Expr) *Expr {
	return &Expr{
		Kind:     ExprKindUniter,
		Location: expr.Location,
		DataType: NewDataType(DataTypeKindUnit, expr.Location),
		Ast:      expr.Ast,
		Uniter:   expr,
	}
}

// NewUnknownExpr builds the best-effort placeholder expression used after
// an error.
func NewUnknownExpr(loc token.Location, raw ast.Expression) *Expr {
	return &Expr{
		Kind:     ExprKindUnknown,
		Location: loc,
		DataType: NewDataType(DataTypeKindUnknown, loc),
		Ast:      raw,
	}
}

// Unwrap removes groupings and uniter wrappers.
func (e *Expr) Unwrap() *Expr {
	for {
		switch e.Kind {
		case ExprKindGrouping:
			e = e.Grouping
		case ExprKindUniter:
			e = e.Uniter
		default:
			return e
		}
	}
}
