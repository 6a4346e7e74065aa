package ast

import (
	"github.com/thelilylang/lily-sub007/internal/token"
)

// DataType is a data type as written in the source. The checker resolves
// it into a checked.DataType.
type DataType interface {
	Node
	dataTypeNode()
}

// NamedType is a primitive or user-defined type written by name, with
// optional generic arguments: Int32, map[Int32, Str].
type NamedType struct {
	Token    token.Token
	Name     string
	Generics []DataType
}

func (n *NamedType) GetToken() token.Token       { return n.Token }
func (n *NamedType) GetLocation() token.Location { return n.Token.Location }
func (n *NamedType) dataTypeNode()               {}

// ArrayTypeKind mirrors the surface array forms.
type ArrayTypeKind int

const (
	ArrayTypeDynamic ArrayTypeKind = iota
	ArrayTypeMultiPointers
	ArrayTypeSized
	ArrayTypeUndetermined
)

// ArrayType is an array type: [_]T, [*]T, [n]T, [?]T.
type ArrayType struct {
	Token   token.Token
	Kind    ArrayTypeKind
	Size    uint64 // Meaningful only for ArrayTypeSized
	Element DataType
}

func (a *ArrayType) GetToken() token.Token       { return a.Token }
func (a *ArrayType) GetLocation() token.Location { return a.Token.Location }
func (a *ArrayType) dataTypeNode()               {}

// TupleType is a tuple type: (T, U).
type TupleType struct {
	Token    token.Token
	Elements []DataType
}

func (t *TupleType) GetToken() token.Token       { return t.Token }
func (t *TupleType) GetLocation() token.Location { return t.Token.Location }
func (t *TupleType) dataTypeNode()               {}

// ListType is a list type: {T}.
type ListType struct {
	Token   token.Token
	Element DataType
}

func (l *ListType) GetToken() token.Token       { return l.Token }
func (l *ListType) GetLocation() token.Location { return l.Token.Location }
func (l *ListType) dataTypeNode()               {}

// OptionalType is an optional type: ?T.
type OptionalType struct {
	Token   token.Token
	Element DataType
}

func (o *OptionalType) GetToken() token.Token       { return o.Token }
func (o *OptionalType) GetLocation() token.Location { return o.Token.Location }
func (o *OptionalType) dataTypeNode()               {}

// WrapKind selects the pointer-family wrapper of a WrapType.
type WrapKind int

const (
	WrapPtr WrapKind = iota
	WrapPtrMut
	WrapRef
	WrapRefMut
	WrapTrace
	WrapTraceMut
	WrapMut
)

// WrapType is a pointer/reference/trace/mut wrapper around an inner type.
type WrapType struct {
	Token token.Token
	Kind  WrapKind
	Inner DataType
}

func (w *WrapType) GetToken() token.Token       { return w.Token }
func (w *WrapType) GetLocation() token.Location { return w.Token.Location }
func (w *WrapType) dataTypeNode()               {}

// LambdaType is a function type: fun(T, U) -> R.
type LambdaType struct {
	Token      token.Token
	Params     []DataType
	ReturnType DataType
}

func (l *LambdaType) GetToken() token.Token       { return l.Token }
func (l *LambdaType) GetLocation() token.Location { return l.Token.Location }
func (l *LambdaType) dataTypeNode()               {}

// ResultType is a result type: T!E1!E2.
type ResultType struct {
	Token token.Token
	Ok    DataType
	Errs  []DataType
}

func (r *ResultType) GetToken() token.Token       { return r.Token }
func (r *ResultType) GetLocation() token.Location { return r.Token.Location }
func (r *ResultType) dataTypeNode()               {}
