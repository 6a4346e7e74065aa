package mir

import (
	"github.com/google/uuid"
)

// DebugInfoKind tags a debug-info node.
type DebugInfoKind int

const (
	DebugInfoKindFile DebugInfoKind = iota
	DebugInfoKindBlock
	DebugInfoKindLocation
	DebugInfoKindSubProgram
)

// DebugInfoFile identifies a source file. CompilationUnitID is unique
// per emitted module.
type DebugInfoFile struct {
	Filename          string
	Directory         string
	CompilationUnitID string
}

// DebugInfo is one debug-info node.
type DebugInfo struct {
	Kind   DebugInfoKind
	ID     int
	File   *DebugInfoFile
	Scope  *DebugInfo
	Line   int
	Column int
}

// DebugInfoManager hands out sequential debug-info ids.
type DebugInfoManager struct {
	count int
}

func (m *DebugInfoManager) nextID() int {
	id := m.count
	m.count++
	return id
}

// BuildDIFile returns the debug-info file for filename, creating and
// registering it on first use. Files deduplicate by path.
func (m *Module) BuildDIFile(filename, directory string) *DebugInfoFile {
	for _, f := range m.Files {
		if f.Filename == filename && f.Directory == directory {
			return f
		}
	}
	file := &DebugInfoFile{
		Filename:          filename,
		Directory:         directory,
		CompilationUnitID: uuid.NewString(),
	}
	m.Files = append(m.Files, file)
	return file
}

// BuildDIBlock builds a lexical-block debug-info node.
func (m *Module) BuildDIBlock(scope *DebugInfo, file *DebugInfoFile, line, column int) *DebugInfo {
	return &DebugInfo{
		Kind:   DebugInfoKindBlock,
		ID:     m.DebugInfo.nextID(),
		File:   file,
		Scope:  scope,
		Line:   line,
		Column: column,
	}
}

// BuildDILocation builds a location debug-info node.
func (m *Module) BuildDILocation(scope *DebugInfo, line, column int) *DebugInfo {
	return &DebugInfo{
		Kind:   DebugInfoKindLocation,
		ID:     m.DebugInfo.nextID(),
		Scope:  scope,
		Line:   line,
		Column: column,
	}
}

// BuildDISubProgram builds a subprogram debug-info node.
func (m *Module) BuildDISubProgram(scope *DebugInfo, file *DebugInfoFile, line, column int) *DebugInfo {
	return &DebugInfo{
		Kind:   DebugInfoKindSubProgram,
		ID:     m.DebugInfo.nextID(),
		File:   file,
		Scope:  scope,
		Line:   line,
		Column: column,
	}
}
