// Package attrs implements the AttributeResolver (spec.md §4.2): it turns
// a node's parsed attributes into an insertion-ordered name→code-fragment
// map, classifying each attribute as literal text, interpolated
// expression, spread, or shorthand along the way. client:* directives are
// resolved like any other attribute; package hydrate classifies them.
package attrs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kiln-ui/kiln/internal/ast"
	"github.com/kiln-ui/kiln/internal/helpers"
	"github.com/kiln-ui/kiln/internal/loc"
	"github.com/kiln-ui/kiln/internal/transpile"
)

// Entry is one resolved (name → code) pair, keeping insertion order so
// codegen can emit a stable props object.
type Entry struct {
	Name string
	Code string
}

// Resolver resolves a node's attribute list against the expression
// transpiler, optionally warning about relative-path literals when the
// compiled file isn't under the project's pages root (spec.md §4.2, last
// bullet).
type Resolver struct {
	Transpiler  *transpile.Adapter
	Logger      Logger
	UnderPages  bool
	NodeLocBase loc.Loc
}

// Logger is the subset of the module's LoggingSink this package needs.
type Logger interface {
	Warn(loc.DiagnosticMessage)
}

func New(t *transpile.Adapter, logger Logger, underPages bool) *Resolver {
	return &Resolver{Transpiler: t, Logger: logger, UnderPages: underPages}
}

// Resolve implements spec.md §4.2's rule list, dispatching on each
// attribute's Type (spread and shorthand attributes have their own Type).
func (r *Resolver) Resolve(n *ast.Node) ([]Entry, error) {
	entries := make([]Entry, 0, len(n.Attr))
	for i := range n.Attr {
		a := &n.Attr[i]
		entry, ok, err := r.resolveOne(a)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *Resolver) resolveOne(a *ast.Attribute) (Entry, bool, error) {
	switch a.Type {
	case ast.SpreadAttribute:
		code, err := r.Transpiler.Transpile(a.Key, loc.Range{Loc: a.KeyLoc})
		if err != nil {
			return Entry{}, false, err
		}
		return Entry{Name: fmt.Sprintf("...(%s)", code), Code: `""`}, true, nil

	case ast.EmptyAttribute:
		// Boolean `true`.
		return Entry{Name: a.Key, Code: `"true"`}, true, nil

	case ast.ShorthandAttribute:
		name, err := helpers.RemoveComments(a.Key)
		if err != nil {
			return Entry{}, false, err
		}
		return Entry{Name: name, Code: fmt.Sprintf("(%s)", name)}, true, nil

	case ast.ExpressionAttribute:
		trimmed := strings.TrimSpace(a.Val)
		if trimmed == "false" || trimmed == "undefined" {
			return Entry{}, false, nil
		}
		code, err := r.Transpiler.Transpile(a.Val, loc.Range{Loc: a.ValLoc})
		if err != nil {
			return Entry{}, false, err
		}
		return Entry{Name: a.Key, Code: fmt.Sprintf("(%s)", code)}, true, nil

	case ast.QuotedAttribute:
		return r.resolveQuoted(a)

	default:
		return Entry{}, false, &loc.ErrorWithRange{
			Code:  loc.ERROR_UNKNOWN_NODE_KIND,
			Text:  fmt.Sprintf("Unknown attribute value segment kind for %q", a.Key),
			Range: loc.Range{Loc: a.KeyLoc, Len: len(a.Key)},
		}
	}
}

func (r *Resolver) resolveQuoted(a *ast.Attribute) (Entry, bool, error) {
	switch len(a.Segments) {
	case 0:
		if a.Val == "" {
			return Entry{Name: a.Key, Code: `""`}, true, nil
		}
		return r.textLiteral(a)

	case 1:
		seg := a.Segments[0]
		switch seg.Kind {
		case ast.MustacheTagNode:
			if len(seg.Chunks) == 0 {
				return Entry{}, false, &loc.ErrorWithRange{
					Code:  loc.ERROR_UNKNOWN_NODE_KIND,
					Text:  fmt.Sprintf("Empty expression in attribute %q", a.Key),
					Range: loc.Range{Loc: a.ValLoc},
				}
			}
			code, err := r.Transpiler.Transpile(seg.Chunks[0], loc.Range{Loc: a.ValLoc})
			if err != nil {
				return Entry{}, false, err
			}
			return Entry{Name: a.Key, Code: fmt.Sprintf("(%s)", code)}, true, nil
		case ast.TextNode:
			return r.textLiteral(a)
		default:
			return Entry{}, false, &loc.ErrorWithRange{
				Code:  loc.ERROR_UNKNOWN_NODE_KIND,
				Text:  fmt.Sprintf("Unknown attribute value segment kind for %q", a.Key),
				Range: loc.Range{Loc: a.ValLoc},
			}
		}

	default:
		parts := make([]string, 0, len(a.Segments))
		for _, seg := range a.Segments {
			switch seg.Kind {
			case ast.TextNode:
				parts = append(parts, jsonString(seg.Text))
			case ast.MustacheTagNode:
				if len(seg.Chunks) == 0 {
					return Entry{}, false, &loc.ErrorWithRange{
						Code:  loc.ERROR_UNKNOWN_NODE_KIND,
						Text:  fmt.Sprintf("Empty expression in attribute %q", a.Key),
						Range: loc.Range{Loc: a.ValLoc},
					}
				}
				code, err := r.Transpiler.Transpile(seg.Chunks[0], loc.Range{Loc: a.ValLoc})
				if err != nil {
					return Entry{}, false, err
				}
				parts = append(parts, code)
			default:
				return Entry{}, false, &loc.ErrorWithRange{
					Code:  loc.ERROR_UNKNOWN_NODE_KIND,
					Text:  fmt.Sprintf("Unknown attribute value segment kind for %q", a.Key),
					Range: loc.Range{Loc: a.ValLoc},
				}
			}
		}
		return Entry{Name: a.Key, Code: fmt.Sprintf("(%s)", strings.Join(parts, "+"))}, true, nil
	}
}

func (r *Resolver) textLiteral(a *ast.Attribute) (Entry, bool, error) {
	if !r.UnderPages && looksLikeRelativePath(a.Val) && r.Logger != nil {
		r.Logger.Warn(loc.DiagnosticMessage{
			Code: loc.WARNING_RELATIVE_PATH_LITERAL,
			Text: fmt.Sprintf("Attribute %q looks like a relative path; relative paths are resolved by the bundler, not at compile time outside of page files.", a.Key),
		})
	}
	return Entry{Name: a.Key, Code: jsonString(a.Val)}, true, nil
}

func looksLikeRelativePath(val string) bool {
	return strings.HasPrefix(val, "./") || strings.HasPrefix(val, "../")
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
