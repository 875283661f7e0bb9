// Package hydrate implements the HydrationClassifier (spec.md §4.3): it
// extracts the client:<method> directive, including the legacy
// `Name:method` tag-name syntax, and its optional value.
package hydrate

import (
	"strings"

	"github.com/kiln-ui/kiln/internal/attrs"
	"github.com/kiln-ui/kiln/internal/loc"
)

var validMethods = map[string]bool{
	"load":    true,
	"idle":    true,
	"visible": true,
	"media":   true,
	"only":    true,
}

// Directive is the resolved hydration directive for one component node.
type Directive struct {
	Method string
	// Value is nil when the attribute's raw value was the literal "true"
	// (spec.md §4.3).
	Value *string
}

// Logger is the subset of the module's LoggingSink this package needs.
type Logger interface {
	Warn(loc.DiagnosticMessage)
}

// FromAttributes finds the first client:<method> entry among the already
// resolved attribute map and classifies it. It returns nil when no
// hydration directive is present.
func FromAttributes(entries []attrs.Entry) *Directive {
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, "client:") {
			continue
		}
		method := strings.TrimPrefix(e.Name, "client:")
		if !validMethods[method] {
			continue
		}
		d := &Directive{Method: method}
		if e.Code != `"true"` {
			v := e.Code
			d.Value = &v
		}
		return d
	}
	return nil
}

// SplitLegacyTagName detects the legacy `<Name:method />` form, returning
// the plain tag name and method when matched. ok is false for an ordinary
// tag name (including one with a single segment, more than two
// colon-separated segments, or a suffix that is not a hydration method),
// which is returned unchanged.
func SplitLegacyTagName(tagName string) (name, method string, ok bool) {
	parts := strings.Split(tagName, ":")
	if len(parts) != 2 {
		return tagName, "", false
	}
	if !validMethods[parts[1]] {
		return tagName, "", false
	}
	return parts[0], parts[1], true
}

// WarnLegacySyntax emits the deprecation diagnostic spec.md §4.3 requires
// whenever the legacy colon-splitting form was matched.
func WarnLegacySyntax(logger Logger, tagName string) {
	if logger == nil {
		return
	}
	logger.Warn(loc.DiagnosticMessage{
		Code:       loc.WARNING_DEPRECATED_DIRECTIVE,
		Text:       "`<" + tagName + " />` uses a deprecated hydration syntax.",
		Suggestion: "Use the `client:` directive form instead, e.g. `<Name client:load />`.",
	})
}
