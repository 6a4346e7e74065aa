package mir

import (
	"github.com/thelilylang/lily-sub007/internal/checked"
)

// ScopeVar is a typed variable tracked during lowering. The checked data
// type is kept so expression lowering can re-derive MIR types.
type ScopeVar struct {
	Name     string
	DataType *checked.DataType
}

// ScopeParam is a typed, positional parameter.
type ScopeParam struct {
	DataType *checked.DataType
}

// Scope is one level of the MIR lowering scope chain. A scope lives
// until the block identified by its limit ends.
type Scope struct {
	Vars   []*ScopeVar
	Params []*ScopeParam
	Limit  *BlockLimit
	Parent *Scope
}

// NewScope builds a root scope with the given limit.
func NewScope(limit *BlockLimit) *Scope {
	return &Scope{Limit: limit}
}

// AddVar records a variable in this scope.
func (s *Scope) AddVar(name string, dt *checked.DataType) {
	s.Vars = append(s.Vars, &ScopeVar{Name: name, DataType: dt})
}

// AddParam records a positional parameter in this scope.
func (s *Scope) AddParam(dt *checked.DataType) {
	s.Params = append(s.Params, &ScopeParam{DataType: dt})
}

// GetVar resolves a variable by name, walking the parent chain.
func (s *Scope) GetVar(name string) *ScopeVar {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, v := range cur.Vars {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

// GetParam resolves a parameter slot, walking the parent chain.
func (s *Scope) GetParam(id int) *ScopeParam {
	for cur := s; cur != nil; cur = cur.Parent {
		if id < len(cur.Params) {
			return cur.Params[id]
		}
		id -= len(cur.Params)
	}
	return nil
}

// Push opens a child scope bound to limit.
func (s *Scope) Push(limit *BlockLimit) *Scope {
	return &Scope{Limit: limit, Parent: s}
}

// PopByLimit drops every scope whose limit ends at or before blockID and
// returns the surviving scope.
func (s *Scope) PopByLimit(blockID int) *Scope {
	cur := s
	for cur != nil && cur.Parent != nil && cur.Limit != nil && cur.Limit.IsSet && cur.Limit.ID <= blockID {
		cur = cur.Parent
	}
	return cur
}
