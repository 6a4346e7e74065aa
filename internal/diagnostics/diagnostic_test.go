package diagnostics

import (
	"strings"
	"testing"

	"github.com/thelilylang/lily-sub007/internal/token"
)

func testTok() token.Token {
	return token.Token{Lexeme: "x", Location: token.Location{Filename: "main.lily", StartLine: 2, StartColumn: 4}}
}

func TestErrorRendering(t *testing.T) {
	d := NewError(ErrDataTypeDontMatch, testTok(), "data types don't match")
	got := d.Error()
	if !strings.HasPrefix(got, "error[0093]: data types don't match") {
		t.Errorf("Error() = %q, want the error[0093] head", got)
	}
	if !strings.Contains(got, "main.lily:2:4") {
		t.Errorf("Error() = %q, want the location", got)
	}
}

func TestNoteHasNoCode(t *testing.T) {
	d := NewNote(testTok().Location, "declared here")
	if strings.Contains(d.Error(), "[") {
		t.Errorf("a note must not render a code: %q", d.Error())
	}
}

func TestWithHelpAndRef(t *testing.T) {
	d := NewError(ErrDuplicateFun, testTok(), "fun is already defined").
		WithHelp("rename one of them").
		WithRef("previous definition", testTok().Location)
	if len(d.Helps) != 1 || len(d.Refs) != 1 {
		t.Error("help/ref vectors not populated")
	}
}

func TestCounterDisableCodes(t *testing.T) {
	c := NewCounter([]Code{WarnUnusedVariable})
	if c.Count(NewWarning(WarnUnusedVariable, testTok().Location, "unused")) {
		t.Error("a disabled warning must be filtered")
	}
	if c.Warnings != 0 {
		t.Error("a filtered warning must not count")
	}
	if !c.Count(NewWarning(WarnUnusedFunction, testTok().Location, "unused")) {
		t.Error("other warnings pass")
	}
	if !c.Count(NewError(ErrUnexpectedToken, testTok(), "boom")) {
		t.Error("errors always pass")
	}
	if c.Errors != 1 || c.Warnings != 1 {
		t.Errorf("counter = %d errors, %d warnings; want 1, 1", c.Errors, c.Warnings)
	}
}

func TestStableCodeValues(t *testing.T) {
	// Downstream consumers match on these; they must never drift.
	stable := map[Code]Code{
		ErrUnexpectedToken:                    "0001",
		ErrNameConflict:                       "0031",
		ErrDataTypeDontMatch:                  "0093",
		ErrValueHasBeenMoved:                  "0096",
		ErrFieldIsNotFound:                    "0107",
		ErrInfiniteDataType:                   "0142",
		ErrRestrictedCharacterOnIdentifierStr: "0153",
	}
	for got, want := range stable {
		if got != want {
			t.Errorf("code drifted: %s, want %s", got, want)
		}
	}
}
