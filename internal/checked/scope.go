package checked

// Scope is one node of the scope tree. Each declaration and each nested
// block owns one. A scope holds per-kind name containers plus the
// declaration storage the container ids index into.
type Scope struct {
	ID     int
	Parent *Scope

	containers map[ContainerKind]map[string]*ScopeContainer

	Modules   []*ModuleDecl
	Constants []*ConstantDecl
	Enums     []*EnumDecl
	Records   []*RecordDecl
	Aliases   []*AliasDecl
	Errors    []*ErrorDecl
	Classes   []*ClassDecl
	Traits    []*TraitDecl
	Funs      []*FunDecl
	Labels    []*Label
	Variables []*Variable
	Generics  []*GenericParam
	Captured  []*CapturedVariable
	Catches   []*CatchVariable
	Params    []*FunParam
}

// NewScope builds a scope with the given id under parent (nil for the
// module root).
func NewScope(id int, parent *Scope) *Scope {
	return &Scope{
		ID:         id,
		Parent:     parent,
		containers: make(map[ContainerKind]map[string]*ScopeContainer),
	}
}

func (s *Scope) kindMap(kind ContainerKind) map[string]*ScopeContainer {
	m, ok := s.containers[kind]
	if !ok {
		m = make(map[string]*ScopeContainer)
		s.containers[kind] = m
	}
	return m
}

// container returns the container for (kind, name) in this scope only.
func (s *Scope) container(kind ContainerKind, name string) *ScopeContainer {
	return s.containers[kind][name]
}

// anyDeclContainer returns the container of any declaration kind (not
// variable or label) that binds name in this scope, or nil. Used
// for cross-kind name-conflict detection on declaration kinds.
func (s *Scope) anyDeclContainer(name string) *ScopeContainer {
	for kind, m := range s.containers {
		if kind == ContainerKindVariable || kind == ContainerKindLabel {
			continue
		}
		if c, ok := m[name]; ok {
			return c
		}
	}
	return nil
}

// add binds (kind, name) → id. It reports false when the name is already
// bound for a conflicting kind in this scope.
func (s *Scope) add(kind ContainerKind, name string, id int) bool {
	if kind.IsOverloadable() {
		m := s.kindMap(kind)
		if c, ok := m[name]; ok {
			c.AddID(id)
			return true
		}
		if s.anyDeclContainer(name) != nil {
			return false
		}
		m[name] = NewOverloadContainer(kind, s.ID, name, []int{id})
		return true
	}
	m := s.kindMap(kind)
	if _, ok := m[name]; ok {
		return false
	}
	if kind != ContainerKindVariable && kind != ContainerKindLabel && s.anyDeclContainer(name) != nil {
		return false
	}
	m[name] = NewScopeContainer(kind, s.ID, name, id)
	return true
}

// AddModule registers a nested module. It reports false on a duplicate.
func (s *Scope) AddModule(decl *ModuleDecl) bool {
	if !s.add(ContainerKindModule, decl.Name, len(s.Modules)) {
		return false
	}
	s.Modules = append(s.Modules, decl)
	return true
}

// AddConstant registers a constant. It reports false on a duplicate.
func (s *Scope) AddConstant(decl *ConstantDecl) bool {
	if !s.add(ContainerKindConstant, decl.Name, len(s.Constants)) {
		return false
	}
	s.Constants = append(s.Constants, decl)
	return true
}

// AddEnum registers an enum. It reports false on a duplicate.
func (s *Scope) AddEnum(decl *EnumDecl) bool {
	if !s.add(ContainerKindEnum, decl.Name, len(s.Enums)) {
		return false
	}
	s.Enums = append(s.Enums, decl)
	return true
}

// AddRecord registers a record. It reports false on a duplicate.
func (s *Scope) AddRecord(decl *RecordDecl) bool {
	if !s.add(ContainerKindRecord, decl.Name, len(s.Records)) {
		return false
	}
	s.Records = append(s.Records, decl)
	return true
}

// AddAlias registers an alias. It reports false on a duplicate.
func (s *Scope) AddAlias(decl *AliasDecl) bool {
	if !s.add(ContainerKindAlias, decl.Name, len(s.Aliases)) {
		return false
	}
	s.Aliases = append(s.Aliases, decl)
	return true
}

// AddError registers an error declaration. It reports false on a
// duplicate.
func (s *Scope) AddError(decl *ErrorDecl) bool {
	if !s.add(ContainerKindError, decl.Name, len(s.Errors)) {
		return false
	}
	s.Errors = append(s.Errors, decl)
	return true
}

// AddClass registers a class. It reports false on a duplicate.
func (s *Scope) AddClass(decl *ClassDecl) bool {
	if !s.add(ContainerKindClass, decl.Name, len(s.Classes)) {
		return false
	}
	s.Classes = append(s.Classes, decl)
	return true
}

// AddTrait registers a trait. It reports false on a duplicate.
func (s *Scope) AddTrait(decl *TraitDecl) bool {
	if !s.add(ContainerKindTrait, decl.Name, len(s.Traits)) {
		return false
	}
	s.Traits = append(s.Traits, decl)
	return true
}

// AddFun registers a function overload. It reports false when the name is
// taken by a non-overloadable declaration.
func (s *Scope) AddFun(decl *FunDecl) bool {
	if !s.add(ContainerKindFun, decl.Name, len(s.Funs)) {
		return false
	}
	s.Funs = append(s.Funs, decl)
	return true
}

// AddLabel registers a loop label. It reports false on a duplicate.
func (s *Scope) AddLabel(l *Label) bool {
	if !s.add(ContainerKindLabel, l.Name, len(s.Labels)) {
		return false
	}
	s.Labels = append(s.Labels, l)
	return true
}

// AddVariable registers a local variable. It reports false on a duplicate
// in the same scope (shadowing an outer scope is legal).
func (s *Scope) AddVariable(v *Variable) bool {
	if !s.add(ContainerKindVariable, v.Name, len(s.Variables)) {
		return false
	}
	s.Variables = append(s.Variables, v)
	return true
}

// AddGeneric registers a generic parameter. It reports false on a
// duplicate.
func (s *Scope) AddGeneric(g *GenericParam) bool {
	if !s.add(ContainerKindGeneric, g.Name, len(s.Generics)) {
		return false
	}
	s.Generics = append(s.Generics, g)
	return true
}

// AddCapturedVariable registers a captured variable.
func (s *Scope) AddCapturedVariable(c *CapturedVariable) bool {
	if !s.add(ContainerKindCapturedVariable, c.Name, len(s.Captured)) {
		return false
	}
	s.Captured = append(s.Captured, c)
	return true
}

// AddParam registers a function parameter in the function's scope.
// Params share the variable namespace but are stored apart so responses
// can tag them as fun params.
func (s *Scope) AddParam(p *FunParam) bool {
	for _, existing := range s.Params {
		if existing.Name == p.Name {
			return false
		}
	}
	s.Params = append(s.Params, p)
	return true
}

// searchUp walks the parent chain looking for (kind, name) and returns
// the owning scope and container on the first hit.
func (s *Scope) searchUp(kind ContainerKind, name string) (*Scope, *ScopeContainer) {
	for cur := s; cur != nil; cur = cur.Parent {
		if c := cur.container(kind, name); c != nil {
			return cur, c
		}
	}
	return nil, nil
}

// SearchVariable resolves a variable or function parameter. Parameters
// share the variable namespace; the nearest binding wins, with a block's
// variables shadowing the enclosing function's params.
func (s *Scope) SearchVariable(name string) *Response {
	for cur := s; cur != nil; cur = cur.Parent {
		if c := cur.container(ContainerKindVariable, name); c != nil {
			v := cur.Variables[c.ID]
			return &Response{Kind: ResponseKindVariable, Location: v.Location, Container: c, Variable: v}
		}
		for _, p := range cur.Params {
			if p.Name == name {
				return &Response{Kind: ResponseKindFunParam, Location: p.Location, FunParam: p}
			}
		}
	}
	return NotFound
}

// SearchFun resolves a function name to its full overload set: all
// matching ids from all enclosing scopes, innermost first.
func (s *Scope) SearchFun(name string) *Response {
	var funs []*FunDecl
	var firstContainer *ScopeContainer
	for cur := s; cur != nil; cur = cur.Parent {
		if c := cur.container(ContainerKindFun, name); c != nil {
			if firstContainer == nil {
				firstContainer = c
			}
			for _, id := range c.IDs {
				funs = append(funs, cur.Funs[id])
			}
		}
	}
	if len(funs) == 0 {
		return NotFound
	}
	return &Response{
		Kind:      ResponseKindFun,
		Location:  funs[0].Location,
		Container: firstContainer,
		Funs:      funs,
	}
}

// SearchConstant resolves a constant name.
func (s *Scope) SearchConstant(name string) *Response {
	owner, c := s.searchUp(ContainerKindConstant, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Constants[c.ID]
	return &Response{Kind: ResponseKindConstant, Location: decl.Location, Container: c, Constant: decl}
}

// SearchModule resolves a module name.
func (s *Scope) SearchModule(name string) *Response {
	owner, c := s.searchUp(ContainerKindModule, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Modules[c.ID]
	return &Response{Kind: ResponseKindModule, Location: decl.Location, Container: c, Module: decl}
}

// SearchEnum resolves an enum name.
func (s *Scope) SearchEnum(name string) *Response {
	owner, c := s.searchUp(ContainerKindEnum, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Enums[c.ID]
	return &Response{Kind: ResponseKindEnum, Location: decl.Location, Container: c, Enum: decl}
}

// SearchRecord resolves a record name.
func (s *Scope) SearchRecord(name string) *Response {
	owner, c := s.searchUp(ContainerKindRecord, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Records[c.ID]
	return &Response{Kind: ResponseKindRecord, Location: decl.Location, Container: c, Record: decl}
}

// SearchAlias resolves an alias name.
func (s *Scope) SearchAlias(name string) *Response {
	owner, c := s.searchUp(ContainerKindAlias, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Aliases[c.ID]
	return &Response{Kind: ResponseKindAlias, Location: decl.Location, Container: c, Alias: decl}
}

// SearchError resolves an error name.
func (s *Scope) SearchError(name string) *Response {
	owner, c := s.searchUp(ContainerKindError, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Errors[c.ID]
	return &Response{Kind: ResponseKindError, Location: decl.Location, Container: c, Error: decl}
}

// SearchClass resolves a class name.
func (s *Scope) SearchClass(name string) *Response {
	owner, c := s.searchUp(ContainerKindClass, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Classes[c.ID]
	return &Response{Kind: ResponseKindClass, Location: decl.Location, Container: c, Class: decl}
}

// SearchTrait resolves a trait name.
func (s *Scope) SearchTrait(name string) *Response {
	owner, c := s.searchUp(ContainerKindTrait, name)
	if c == nil {
		return NotFound
	}
	decl := owner.Traits[c.ID]
	return &Response{Kind: ResponseKindTrait, Location: decl.Location, Container: c, Trait: decl}
}

// SearchGeneric resolves a generic parameter name.
func (s *Scope) SearchGeneric(name string) *Response {
	owner, c := s.searchUp(ContainerKindGeneric, name)
	if c == nil {
		return NotFound
	}
	g := owner.Generics[c.ID]
	return &Response{Kind: ResponseKindGeneric, Location: g.Location, Container: c, Generic: g}
}

// SearchLabel resolves a loop label.
func (s *Scope) SearchLabel(name string) *Response {
	owner, c := s.searchUp(ContainerKindLabel, name)
	if c == nil {
		return NotFound
	}
	l := owner.Labels[c.ID]
	return &Response{Kind: ResponseKindLabel, Location: l.Location, Container: c, Label: l}
}

// SearchCustomType resolves a name against the type namespaces in
// declaration-kind order: enum, record, alias, error, class, trait.
func (s *Scope) SearchCustomType(name string) *Response {
	if r := s.SearchEnum(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchRecord(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchAlias(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchError(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchClass(name); !r.IsNotFound() {
		return r
	}
	return s.SearchTrait(name)
}

// ResolveName resolves a value-position identifier: nearest variable or
// parameter first, then constants, functions, enum/record constructors
// and modules.
func (s *Scope) ResolveName(name string) *Response {
	if r := s.SearchVariable(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchGeneric(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchConstant(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchFun(name); !r.IsNotFound() {
		return r
	}
	if r := s.SearchCustomType(name); !r.IsNotFound() {
		return r
	}
	return s.SearchModule(name)
}

// MarkMoved flags the named variable as moved. It reports false when the
// name does not resolve to a variable.
func (s *Scope) MarkMoved(name string) bool {
	r := s.SearchVariable(name)
	if r.Kind != ResponseKindVariable {
		return false
	}
	r.Variable.IsMoved = true
	return true
}
