package kiln_test

import (
	"strings"
	"testing"

	"github.com/kiln-ui/kiln"
	"github.com/kiln-ui/kiln/internal/ast"
	"gotest.tools/v3/assert"
)

func TestCodegenEmptyDocument(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	artifact, err := kiln.Codegen(doc, kiln.CompileOptions{Filename: "index.kiln", FileID: "1"})
	assert.NilError(t, err)
	assert.Equal(t, artifact.HTML, "")
	assert.Equal(t, len(artifact.Imports), 0)
	assert.Assert(t, artifact.CSS == nil)
}

func TestCodegenFrontmatterAndStaticElement(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	fm := &ast.Node{Type: ast.FrontmatterNode, Data: "const title = \"Hello\";"}
	fm.Loc[1].Start = len(fm.Data)
	doc.AppendChild(fm)

	h1 := &ast.Node{Type: ast.ElementNode, Data: "h1"}
	h1.AppendChild(&ast.Node{Type: ast.TextNode, Data: "Hello"})
	doc.AppendChild(h1)

	artifact, err := kiln.Codegen(doc, kiln.CompileOptions{Filename: "index.kiln", FileID: "1"})
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(artifact.Script, "const title"))
	assert.Equal(t, artifact.HTML, `h("h1", {[__astroContext]:props[__astroContext]},"Hello")`)
}

func TestCodegenComponentImportWithHydration(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	fm := &ast.Node{Type: ast.FrontmatterNode, Data: "import Counter from \"./Counter.jsx\";"}
	fm.Loc[1].Start = len(fm.Data)
	doc.AppendChild(fm)

	el := &ast.Node{Type: ast.InlineComponentNode, Data: "Counter"}
	el.Attr = []ast.Attribute{{Key: "client:visible", Type: ast.EmptyAttribute}}
	doc.AppendChild(el)

	artifact, err := kiln.Codegen(doc, kiln.CompileOptions{Filename: "index.kiln", FileID: "1"})
	assert.NilError(t, err)
	assert.Equal(t, len(artifact.Imports), 1)
	assert.Assert(t, strings.Contains(artifact.HTML, `hydrate: "visible"`))
}

func TestCodegenFetchContentRewrite(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	fm := &ast.Node{Type: ast.FrontmatterNode, Data: `const posts = Astro.fetchContent("./posts/*.md");`}
	fm.Loc[1].Start = len(fm.Data)
	doc.AppendChild(fm)

	artifact, err := kiln.Codegen(doc, kiln.CompileOptions{Filename: "index.kiln", FileID: "1"})
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(artifact.Script, "import.meta.globEager"))
	found := false
	for _, imp := range artifact.Imports {
		if strings.Contains(imp, "fetchContent") {
			found = true
		}
	}
	assert.Assert(t, found)
}

func TestCodegenFetchContentNonLiteralIsFatal(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	fm := &ast.Node{Type: ast.FrontmatterNode, Data: `const posts = Astro.fetchContent(dir);`}
	fm.Loc[1].Start = len(fm.Data)
	doc.AppendChild(fm)

	_, err := kiln.Codegen(doc, kiln.CompileOptions{Filename: "index.kiln", FileID: "1"})
	assert.ErrorContains(t, err, "string literal")
}

func TestCodegenStyleIsExtracted(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	style := &ast.Node{Type: ast.StyleNode, Data: "h1 { color: red; }"}
	doc.AppendChild(style)
	h1 := &ast.Node{Type: ast.ElementNode, Data: "h1"}
	doc.AppendChild(h1)

	artifact, err := kiln.Codegen(doc, kiln.CompileOptions{Filename: "index.kiln", FileID: "1"})
	assert.NilError(t, err)
	assert.Assert(t, artifact.CSS != nil)
	assert.Assert(t, strings.Contains(*artifact.CSS, "color: red"))
	assert.Equal(t, artifact.HTML, `h("h1", {[__astroContext]:props[__astroContext]})`)
}

// stubMarkdown and stubFragments satisfy codegen.MarkdownRenderer and
// codegen.FragmentParser with the minimal behavior needed to exercise the
// Markdown flush path (§4.6.2) without a real Markdown engine.
type stubMarkdown struct{}

func (stubMarkdown) Render(markdown string, scopeClass string) (string, error) {
	return "<p class=\"" + scopeClass + "\">" + strings.TrimSpace(markdown) + "</p>", nil
}

type stubFragments struct{}

func (stubFragments) ParseFragment(html string) (*ast.Node, error) {
	root := &ast.Node{Type: ast.FragmentNode}
	root.AppendChild(&ast.Node{Type: ast.TextNode, Data: html})
	return root, nil
}

func TestCodegenMarkdownRegion(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	md := &ast.Node{Type: ast.InlineComponentNode, Data: "Markdown"}
	md.AppendChild(&ast.Node{Type: ast.TextNode, Data: "# Hi"})
	doc.AppendChild(md)

	artifact, err := kiln.Codegen(doc, kiln.CompileOptions{
		Filename:   "index.kiln",
		FileID:     "1",
		Markdown:   stubMarkdown{},
		Fragments:  stubFragments{},
	})
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(artifact.HTML, "Hi"))
}
