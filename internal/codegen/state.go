// Package codegen implements TemplateCodegen (spec.md §4.6) and the
// CodegenState it reads: the in-order template walk that emits a single
// hyperscript expression. The CodegenDriver that runs FrontmatterAnalyzer,
// CssExtractor, and TemplateCodegen in sequence and assembles the final
// Artifact is kiln.Codegen in the root package.
//
// It generalizes the teacher's printer.render1 tree-walker (enter-only
// dispatch keyed on node kind, an options struct threaded through the
// recursion) to the dual-buffer, paren-counting, markdown-flushing walk
// spec.md describes, and transform.Transform's explicit "walk, then
// hoist, then assemble" driver shape.
package codegen

import (
	"net/url"

	"github.com/kiln-ui/kiln/internal/component"
)

// MarkdownMarker tracks nested <Markdown> regions (spec.md §3:
// markers.insideMarkdown).
type MarkdownMarker struct {
	Scope string
	Count int
}

// State is CodegenState (spec.md §3): it lives for one document compile,
// populated by FrontmatterAnalyzer and CssExtractor, then read by
// TemplateCodegen.
type State struct {
	Components              map[string]component.Info
	ComponentImports         map[string][]string
	CustomElementCandidates  map[string]string
	Declarations             map[string]bool
	ImportStatements         []string
	ExportStatements         []string
	CSS                      []string
	Markers                  MarkdownMarker
	Filename, FileID         string

	ProjectRoot *url.URL
	SourceURL   *url.URL
}

// NewState builds an empty CodegenState for one document compile.
func NewState(filename, fileID string, projectRoot, sourceURL *url.URL) *State {
	return &State{
		Components:              map[string]component.Info{},
		ComponentImports:         map[string][]string{},
		CustomElementCandidates:  map[string]string{},
		Declarations:             map[string]bool{},
		Filename:                 filename,
		FileID:                   fileID,
		ProjectRoot:              projectRoot,
		SourceURL:                sourceURL,
	}
}

// AppendImport records a verbatim import line, deduplicating by exact
// string equality (spec.md §3).
func (s *State) AppendImport(line string) {
	for _, existing := range s.ImportStatements {
		if existing == line {
			return
		}
	}
	s.ImportStatements = append(s.ImportStatements, line)
}

// RemoveComponentImports deletes every import line previously recorded
// for localName, used when a `client:only` component must not ship its
// module to the server bundle (spec.md §4.6, "Other imported component").
func (s *State) RemoveComponentImports(localName string) {
	lines := s.ComponentImports[localName]
	if len(lines) == 0 {
		return
	}
	filtered := s.ImportStatements[:0]
	removeSet := map[string]bool{}
	for _, l := range lines {
		removeSet[l] = true
	}
	for _, existing := range s.ImportStatements {
		if !removeSet[existing] {
			filtered = append(filtered, existing)
		}
	}
	s.ImportStatements = filtered
	delete(s.ComponentImports, localName)
}

// ComponentTable projects the fields component.Resolve needs.
func (s *State) ComponentTable() component.Table {
	return component.Table{Components: s.Components, Declarations: s.Declarations}
}
