package checked

import (
	"github.com/thelilylang/lily-sub007/internal/token"
)

// PatternKind tags a checked pattern.
type PatternKind int

const (
	PatternKindArray PatternKind = iota
	PatternKindAs
	PatternKindAutoComplete
	PatternKindError
	PatternKindList
	PatternKindListHead
	PatternKindListTail
	PatternKindLiteral
	PatternKindName
	PatternKindRange
	PatternKindRecordCall
	PatternKindTuple
	PatternKindVariantCall
	PatternKindWildcard
)

// PatternAs binds a name to an inner pattern.
type PatternAs struct {
	Pattern *Pattern
	Name    string
}

// PatternError matches an error value.
type PatternError struct {
	Decl    *ErrorDecl
	Payload *Pattern // Optional
}

// PatternPair is the payload of list-head/list-tail/range patterns.
type PatternPair struct {
	Left  *Pattern
	Right *Pattern
}

// PatternRecordField is one field of a record-call pattern.
type PatternRecordField struct {
	Name    string
	Pattern *Pattern
}

// PatternRecordCall matches a record by fields.
type PatternRecordCall struct {
	Decl   *RecordDecl
	Fields []*PatternRecordField
}

// PatternVariantCall matches an enum variant, with an optional payload
// pattern.
type PatternVariantCall struct {
	Enum    *EnumDecl
	Variant *EnumVariant
	Payload *Pattern
}

// Pattern is a checked pattern. The match compiler consumes the tree
// through IsElsePattern, IsFinalElsePattern and GetName.
type Pattern struct {
	Kind     PatternKind
	Location token.Location
	DataType *DataType

	Patterns    []*Pattern // array/list/tuple children
	As          *PatternAs
	Error       *PatternError
	Pair        *PatternPair // list_head/list_tail/range
	Literal     *ExprLiteral
	Name        string
	RecordCall  *PatternRecordCall
	VariantCall *PatternVariantCall
}

// IsElsePattern reports whether the pattern matches every value of its
// type.
func (p *Pattern) IsElsePattern() bool {
	switch p.Kind {
	case PatternKindWildcard, PatternKindName, PatternKindAutoComplete:
		return true
	case PatternKindAs:
		return p.As.Pattern.IsElsePattern()
	case PatternKindArray, PatternKindList, PatternKindTuple:
		for _, child := range p.Patterns {
			if !child.IsElsePattern() {
				return false
			}
		}
		return true
	case PatternKindRecordCall:
		for _, f := range p.RecordCall.Fields {
			if !f.Pattern.IsElsePattern() {
				return false
			}
		}
		return true
	case PatternKindListHead, PatternKindListTail, PatternKindRange:
		return p.Pair.Left.IsElsePattern() && p.Pair.Right.IsElsePattern()
	case PatternKindVariantCall:
		if p.VariantCall.Payload == nil {
			return true
		}
		return p.VariantCall.Payload.IsElsePattern()
	default:
		// Literal and error patterns never match everything.
		return false
	}
}

// IsFinalElsePattern is the stricter query used for the trailing arm:
// only a bare name or wildcard qualifies.
func (p *Pattern) IsFinalElsePattern() bool {
	return p.Kind == PatternKindName || p.Kind == PatternKindWildcard
}

// GetName returns the identifier the pattern binds, following `as`
// wrappers. It returns "" when the pattern binds nothing.
func (p *Pattern) GetName() string {
	switch p.Kind {
	case PatternKindName:
		return p.Name
	case PatternKindAs:
		return p.As.Name
	default:
		return ""
	}
}
