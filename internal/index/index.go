// Package index persists per-file diagnostics and top-level symbol
// summaries in a SQLite database so the language server can answer
// workspace queries and republish diagnostics without re-analysis.
package index

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
)

const schema = `
CREATE TABLE IF NOT EXISTS symbols (
	file TEXT NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	line INTEGER NOT NULL,
	col  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS symbols_name ON symbols(name);
CREATE TABLE IF NOT EXISTS diags (
	file     TEXT NOT NULL,
	code     TEXT NOT NULL,
	severity INTEGER NOT NULL,
	message  TEXT NOT NULL,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS diags_file ON diags(file);
`

// Symbol is one workspace symbol row.
type Symbol struct {
	File string
	Name string
	Kind string
	Line int
	Col  int
}

// Index is the on-disk workspace index.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the index at path. ":memory:" is valid.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("index: schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error { return ix.db.Close() }

// UpdateFile replaces everything recorded for file with the unit's
// current global scope and diagnostics.
func (ix *Index) UpdateFile(file string, global *checked.Scope, diags []*diagnostics.Diagnostic) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM symbols WHERE file = ?`, file); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM diags WHERE file = ?`, file); err != nil {
		return err
	}
	if global != nil {
		insert, err := tx.Prepare(`INSERT INTO symbols (file, name, kind, line, col) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insert.Close()
		for _, f := range global.Funs {
			if _, err := insert.Exec(file, f.Name, "fun", f.Location.StartLine, f.Location.StartColumn); err != nil {
				return err
			}
		}
		for _, c := range global.Constants {
			if _, err := insert.Exec(file, c.Name, "constant", c.Location.StartLine, c.Location.StartColumn); err != nil {
				return err
			}
		}
		for _, r := range global.Records {
			if _, err := insert.Exec(file, r.Name, "record", r.Location.StartLine, r.Location.StartColumn); err != nil {
				return err
			}
		}
		for _, e := range global.Enums {
			if _, err := insert.Exec(file, e.Name, "enum", e.Location.StartLine, e.Location.StartColumn); err != nil {
				return err
			}
		}
		for _, al := range global.Aliases {
			if _, err := insert.Exec(file, al.Name, "alias", al.Location.StartLine, al.Location.StartColumn); err != nil {
				return err
			}
		}
		for _, errDecl := range global.Errors {
			if _, err := insert.Exec(file, errDecl.Name, "error", errDecl.Location.StartLine, errDecl.Location.StartColumn); err != nil {
				return err
			}
		}
	}
	for _, d := range diags {
		if _, err := tx.Exec(`INSERT INTO diags (file, code, severity, message, line, col) VALUES (?, ?, ?, ?, ?, ?)`,
			file, string(d.Code), int(d.Severity), d.Message, d.Location.StartLine, d.Location.StartColumn); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// QuerySymbols returns symbols whose name contains query, any file.
func (ix *Index) QuerySymbols(query string) ([]*Symbol, error) {
	rows, err := ix.db.Query(
		`SELECT file, name, kind, line, col FROM symbols WHERE name LIKE ? ORDER BY file, line`,
		"%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Symbol
	for rows.Next() {
		s := &Symbol{}
		if err := rows.Scan(&s.File, &s.Name, &s.Kind, &s.Line, &s.Col); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FileDiagnostics returns the stored diagnostics for file.
func (ix *Index) FileDiagnostics(file string) ([]*diagnostics.Diagnostic, error) {
	rows, err := ix.db.Query(
		`SELECT code, severity, message, line, col FROM diags WHERE file = ? ORDER BY line, col`, file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*diagnostics.Diagnostic
	for rows.Next() {
		var code, message string
		var severity, line, col int
		if err := rows.Scan(&code, &severity, &message, &line, &col); err != nil {
			return nil, err
		}
		d := &diagnostics.Diagnostic{
			Code:     diagnostics.Code(code),
			Severity: diagnostics.Severity(severity),
			Message:  message,
		}
		d.Location.Filename = file
		d.Location.StartLine = line
		d.Location.StartColumn = col
		out = append(out, d)
	}
	return out, rows.Err()
}
