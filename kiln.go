// Package kiln implements a single-file component compiler: it consumes
// a parsed AST describing a hybrid document (frontmatter, style blocks,
// and an HTML-like template with embedded expressions and component
// references) and emits a self-contained hyperscript-based JavaScript
// render module.
//
// It generalizes the teacher's astro.build/x/compiler root package the
// way transform.Transform orchestrates its pipeline: analyze frontmatter,
// extract CSS, walk the template, assemble the artifact.
package kiln

import (
	"net/url"

	"github.com/kiln-ui/kiln/internal/ast"
	"github.com/kiln-ui/kiln/internal/attrs"
	"github.com/kiln-ui/kiln/internal/codegen"
	"github.com/kiln-ui/kiln/internal/css"
	"github.com/kiln-ui/kiln/internal/frontmatter"
	"github.com/kiln-ui/kiln/internal/handler"
	"github.com/kiln-ui/kiln/internal/loc"
	"github.com/kiln-ui/kiln/internal/transpile"
)

// AstroConfig is the subset of project configuration Codegen consults:
// the project root (for runtime-URL stripping) and the pages directory
// (for the relative-path-literal warning heuristic).
type AstroConfig struct {
	ProjectRoot *url.URL
	Pages       *url.URL
}

// LoggingSink is the diagnostics collaborator the core writes to;
// transport (stderr, LSP, a test recorder) is the caller's concern.
type LoggingSink interface {
	Warn(loc.DiagnosticMessage)
	Error(loc.DiagnosticMessage)
	ParseError(loc.DiagnosticMessage)
}

// CompileOptions configures one Codegen call.
type CompileOptions struct {
	AstroConfig AstroConfig
	Logging     LoggingSink
	Transpiler  transpile.Transpiler
	Markdown    codegen.MarkdownRenderer
	Fragments   codegen.FragmentParser
	Filename    string
	FileID      string
	SourceText  string
}

// Artifact is the compiled render module's pieces, left for the caller
// to assemble into a final file (spec.md §4.8).
type Artifact struct {
	Script                  string
	Imports                 []string
	Exports                 []string
	HTML                    string
	CSS                     *string
	GetStaticPaths          *string
	HasCustomElements       bool
	CustomElementCandidates map[string]string
}

// Codegen runs the full pipeline (spec.md §4.8, CodegenDriver): parses
// frontmatter, extracts styles, walks the template, and assembles the
// final Artifact. doc's structure follows spec.md §3: an optional
// FrontmatterNode child carrying the script range, and an html subtree
// (everything else) which may contain StyleNode descendants anywhere.
func Codegen(doc *ast.Node, opts CompileOptions) (Artifact, error) {
	if opts.Logging == nil {
		opts.Logging = handler.New(opts.SourceText, opts.Filename)
	}

	sourceURL := &url.URL{Scheme: "file", Path: opts.Filename}
	state := codegen.NewState(opts.Filename, opts.FileID, opts.AstroConfig.ProjectRoot, sourceURL)

	adapter := transpile.NewAdapter(pickTranspiler(opts.Transpiler))

	var fm *ast.Node
	htmlRoot := doc
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == ast.FrontmatterNode {
			fm = child
			doc.RemoveChild(child)
			break
		}
	}

	var script string
	var getStaticPaths *string
	if fm != nil {
		origin := loc.Range{Loc: fm.Loc[0], Len: fm.Loc[1].Start - fm.Loc[0].Start}
		result, err := frontmatter.Analyze(fm.Data, origin, adapter, opts.Logging)
		if err != nil {
			return Artifact{}, err
		}
		state.Components = result.Components
		state.Declarations = result.Declarations
		if doc.Meta&ast.MetaCustomElement != 0 {
			state.CustomElementCandidates = result.CustomElementCandidates
		}
		state.ImportStatements = result.ImportStatements
		state.ExportStatements = result.ExportStatements
		script = result.Script
		getStaticPaths = result.GetStaticPaths
	}

	state.CSS = css.Extract(htmlRoot, opts.Logging)

	underPages := opts.AstroConfig.Pages == nil || pathUnder(opts.AstroConfig.Pages, sourceURL)
	resolver := attrs.New(adapter, opts.Logging, underPages)

	tc := codegen.New(state, resolver, adapter, opts.Logging, opts.Markdown, opts.Fragments)
	if err := tc.Walk(htmlRoot); err != nil {
		return Artifact{}, err
	}

	var cssOut *string
	if len(state.CSS) > 0 {
		joined := joinBlank(state.CSS)
		cssOut = &joined
	}

	return Artifact{
		Script:                  script,
		Imports:                 state.ImportStatements,
		Exports:                 state.ExportStatements,
		HTML:                    tc.HTML(),
		CSS:                     cssOut,
		GetStaticPaths:          getStaticPaths,
		HasCustomElements:       doc.Meta&ast.MetaCustomElement != 0,
		CustomElementCandidates: state.CustomElementCandidates,
	}, nil
}

func pickTranspiler(t transpile.Transpiler) transpile.Transpiler {
	if t == nil {
		return transpile.Passthrough{}
	}
	return t
}

func pathUnder(pages, source *url.URL) bool {
	if pages == nil || source == nil {
		return false
	}
	return len(source.Path) >= len(pages.Path) && source.Path[:len(pages.Path)] == pages.Path
}

func joinBlank(blocks []string) string {
	out := ""
	for i, b := range blocks {
		if i > 0 {
			out += "\n\n"
		}
		out += b
	}
	return out
}
