// Package css implements the CssExtractor (spec.md §4.7): it walks the
// document collecting every <style> node's raw content into an ordered
// list and removes the node from the tree so TemplateCodegen never
// inlines it.
//
// It generalizes the walk-and-collect shape of the teacher's
// transform.ScopeStyle (internal/transform/scope-css.go), minus the
// selector-scoping pass, which belongs to a bundler step out of this
// module's scope. The CSS grammar parser stays in the pipeline: each
// style block is tokenized once, the same parser scope-css.go drives, so
// a block that never reaches a terminal grammar event is caught here
// rather than hanging a later bundler pass; the collected text itself
// stays verbatim per spec.md's "raw CSS content".
package css

import (
	"bytes"

	tdcss "github.com/tdewolff/parse/v2/css"

	"github.com/kiln-ui/kiln/internal/ast"
	"github.com/kiln-ui/kiln/internal/loc"
)

// maxTokens bounds the tokenize pass so an unterminated string or comment
// can't spin the parser forever on malformed input.
const maxTokens = 1 << 20

// Logger is the subset of the module's LoggingSink this package needs.
type Logger interface {
	Warn(loc.DiagnosticMessage)
}

// Extract walks doc, collecting every StyleNode's raw text in document
// order and detaching each node from its parent.
func Extract(doc *ast.Node, logger Logger) []string {
	var blocks []string
	var walk func(*ast.Node)

	walk = func(n *ast.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			if child.Type == ast.StyleNode {
				if !tokenizesCleanly(child.Data) && logger != nil {
					logger.Warn(loc.DiagnosticMessage{
						Code: loc.WARNING,
						Text: "style block did not terminate cleanly and was kept verbatim",
					})
				}
				blocks = append(blocks, child.Data)
				n.RemoveChild(child)
			} else {
				walk(child)
			}
			child = next
		}
	}
	walk(doc)
	return blocks
}

// tokenizesCleanly reports whether the CSS grammar parser reaches its
// terminal ErrorGrammar event (scope-css.go's `break walk` case) within
// maxTokens steps. Recoverable ErrorGrammar events (non-empty data, per
// scope-css.go's "invalid or unexpected CSS" comment) don't count against
// that: the parser keeps making progress, it's just emitting leftover text.
func tokenizesCleanly(src string) bool {
	p := tdcss.NewParser(bytes.NewBufferString(src), false)
	for i := 0; i < maxTokens; i++ {
		gt, _, data := p.Next()
		if gt == tdcss.ErrorGrammar && len(data) == 0 {
			return true
		}
	}
	return false
}
