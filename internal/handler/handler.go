// Package handler buffers diagnostics for one document compile and turns
// them into DiagnosticMessage values with resolved line/column positions
// and a rendered code frame. It generalizes the teacher's
// internal/handler/handler.go: the errors/warnings/infos/hints buffers and
// the ErrorWithRange-to-DiagnosticMessage conversion are carried over
// directly; the syscall/js bridge (JSError, ErrorToJSError) is dropped
// since this module has no WASM target (see DESIGN.md).
package handler

import (
	"errors"
	"strings"

	"github.com/kiln-ui/kiln/internal/loc"
)

type Handler struct {
	sourcetext string
	filename   string
	lineStarts []int

	errors   []error
	warnings []error
	infos    []error
	hints    []error
}

func New(sourcetext string, filename string) *Handler {
	return &Handler{
		sourcetext: sourcetext,
		filename:   filename,
		lineStarts: lineStartOffsets(sourcetext),
	}
}

func lineStartOffsets(text string) []int {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (h *Handler) HasErrors() bool {
	return len(h.errors) > 0
}

func (h *Handler) AppendError(err error)   { h.errors = append(h.errors, err) }
func (h *Handler) AppendWarning(err error) { h.warnings = append(h.warnings, err) }
func (h *Handler) AppendInfo(err error)    { h.infos = append(h.infos, err) }
func (h *Handler) AppendHint(err error)    { h.hints = append(h.hints, err) }

// Warn, Error, and ParseError satisfy the module's LoggingSink interface
// (kiln.LoggingSink) so a *Handler can be passed straight through as
// CompileOptions.Logging.
func (h *Handler) Warn(msg loc.DiagnosticMessage) {
	h.warnings = append(h.warnings, messageError{msg})
}
func (h *Handler) Error(msg loc.DiagnosticMessage) {
	h.errors = append(h.errors, messageError{msg})
}
func (h *Handler) ParseError(msg loc.DiagnosticMessage) {
	h.errors = append(h.errors, messageError{msg})
}

type messageError struct{ msg loc.DiagnosticMessage }

func (m messageError) Error() string { return m.msg.Text }

func (h *Handler) Errors() []loc.DiagnosticMessage { return h.toMessages(loc.ErrorType, h.errors) }
func (h *Handler) Warnings() []loc.DiagnosticMessage {
	return h.toMessages(loc.WarningType, h.warnings)
}

func (h *Handler) Diagnostics() []loc.DiagnosticMessage {
	msgs := h.toMessages(loc.ErrorType, h.errors)
	msgs = append(msgs, h.toMessages(loc.WarningType, h.warnings)...)
	msgs = append(msgs, h.toMessages(loc.InformationType, h.infos)...)
	msgs = append(msgs, h.toMessages(loc.HintType, h.hints)...)
	return msgs
}

func (h *Handler) toMessages(severity loc.DiagnosticSeverity, errs []error) []loc.DiagnosticMessage {
	msgs := make([]loc.DiagnosticMessage, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, h.errorToMessage(severity, err))
		}
	}
	return msgs
}

func (h *Handler) errorToMessage(severity loc.DiagnosticSeverity, err error) loc.DiagnosticMessage {
	var rangedError *loc.ErrorWithRange
	switch {
	case errors.As(err, &rangedError):
		pos := h.positionFor(rangedError.Range.Loc)
		location := &loc.DiagnosticLocation{
			File:   h.filename,
			Line:   pos.Line,
			Column: pos.Column,
			Length: rangedError.Range.Len,
		}
		message := rangedError.ToMessage(location)
		message.Severity = severity
		message.Frame = h.codeFrame(pos)
		return message
	default:
		var me messageError
		if errors.As(err, &me) {
			me.msg.Severity = severity
			return me.msg
		}
		return loc.DiagnosticMessage{Text: err.Error(), Severity: severity}
	}
}

// positionFor resolves a byte offset to a 1-based line/column pair by
// re-reading the original file's text, per spec.md §5/§7: diagnostic
// positioning is the only reason this layer touches the filesystem (or,
// as here, the text the caller already had in hand).
func (h *Handler) positionFor(l loc.Loc) loc.Position {
	line := 0
	for i, start := range h.lineStarts {
		if start > l.Start {
			break
		}
		line = i
	}
	col := l.Start - h.lineStarts[line] + 1
	return loc.Position{Line: line + 1, Column: col}
}

// codeFrame renders the offending line plus one line of context on either
// side, with a caret under the offending column.
func (h *Handler) codeFrame(pos loc.Position) string {
	lines := strings.Split(h.sourcetext, "\n")
	if pos.Line-1 < 0 || pos.Line-1 >= len(lines) {
		return ""
	}
	lo := pos.Line - 2
	if lo < 0 {
		lo = 0
	}
	hi := pos.Line + 1
	if hi > len(lines) {
		hi = len(lines)
	}

	var sb strings.Builder
	for i := lo; i < hi; i++ {
		lineNo := i + 1
		sb.WriteString(lines[i])
		sb.WriteString("\n")
		if lineNo == pos.Line {
			sb.WriteString(strings.Repeat(" ", max(pos.Column-1, 0)))
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
