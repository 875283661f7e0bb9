package handler

import (
	"testing"

	"github.com/kiln-ui/kiln/internal/loc"
	"gotest.tools/v3/assert"
)

func TestHandlerAppendError(t *testing.T) {
	source := "const x = 1;\nconst y = 2;\n"
	h := New(source, "test.kiln")
	assert.Equal(t, h.HasErrors(), false)

	h.AppendError(&loc.ErrorWithRange{
		Code:  loc.ERROR_UNRESOLVED_COMPONENT,
		Text:  `Unable to render "X" because it is undefined`,
		Range: loc.Range{Loc: loc.Loc{Start: 6}, Len: 1},
	})

	assert.Equal(t, h.HasErrors(), true)
	errs := h.Errors()
	assert.Equal(t, len(errs), 1)
	assert.Equal(t, errs[0].Location.Line, 1)
	assert.Equal(t, errs[0].Location.Column, 7)
	assert.Equal(t, errs[0].Severity, loc.ErrorType)
}

func TestHandlerWarningsAndDiagnostics(t *testing.T) {
	h := New("<X />", "test.kiln")
	h.Warn(loc.DiagnosticMessage{Text: "deprecated syntax"})
	h.AppendInfo(&loc.ErrorWithRange{Text: "info", Range: loc.Range{Loc: loc.Loc{Start: 0}}})

	assert.Equal(t, len(h.Warnings()), 1)
	assert.Equal(t, len(h.Diagnostics()), 2)
}
