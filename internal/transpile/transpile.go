// Package transpile wraps the external embedded-expression transpiler
// (spec.md §4.1). The transpiler itself — source-level embedded-expression
// syntax down to plain ECMAScript — is an out-of-scope external
// collaborator (spec.md §1); this package only adapts its diagnostics into
// the core's error shape and fixes up source positions so they point at
// the user's file instead of the isolated fragment that was transpiled.
package transpile

import (
	"strings"

	"github.com/kiln-ui/kiln/internal/loc"
)

// Transpiler is the external collaborator's interface: it turns one
// embedded-expression fragment into plain ECMAScript, or fails with a
// position relative to the start of the fragment it was given.
type Transpiler interface {
	Transpile(src string) (string, *Failure)
}

// Failure is what the external transpiler reports on parse failure,
// positions relative to the fragment it was handed.
type Failure struct {
	Line    int
	Column  int
	EndLine int
	EndCol  int
	Message string
}

// Adapter wraps a Transpiler, translating its fragment-relative failures
// into file-relative *loc.ErrorWithRange values. Code-frame rendering from
// the original file text happens downstream in internal/handler, which is
// where every other diagnostic in the pipeline gets its frame.
type Adapter struct {
	transpiler Transpiler
}

func NewAdapter(t Transpiler) *Adapter {
	return &Adapter{transpiler: t}
}

// Transpile transpiles the fragment at origin (the fragment's byte range in
// the original file) and returns the resulting code with trailing
// semicolons and whitespace stripped, or a fatal *loc.ErrorWithRange whose
// range points at the failing sub-expression within the fragment.
func (a *Adapter) Transpile(src string, origin loc.Range) (string, error) {
	out, failure := a.transpiler.Transpile(src)
	if failure != nil {
		offsetStart := origin.Loc.Start + offsetFor(src, failure.Line, failure.Column)
		return "", &loc.ErrorWithRange{
			Code:  loc.ERROR_TRANSPILE_FAILURE,
			Text:  failure.Message,
			Range: loc.Range{Loc: loc.Loc{Start: offsetStart}, Len: origin.Len},
		}
	}
	return strings.TrimRight(strings.TrimSpace(out), "; \t\r\n"), nil
}

// offsetFor converts a 1-based (line, column) position within src to a
// byte offset from the start of src, so the adapter can add the fragment's
// own start offset and land on the user's original source coordinates.
func offsetFor(src string, line, column int) int {
	if line <= 1 {
		return column - 1
	}
	seen := 1
	for i, c := range src {
		if c == '\n' {
			seen++
			if seen == line {
				return i + 1 + (column - 1)
			}
		}
	}
	return len(src)
}
