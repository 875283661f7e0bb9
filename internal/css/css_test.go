package css

import (
	"testing"

	"github.com/kiln-ui/kiln/internal/ast"
	"gotest.tools/v3/assert"
)

func TestExtractCollectsInOrderAndDetaches(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	style1 := &ast.Node{Type: ast.StyleNode, Data: "body { color: red; }"}
	p := &ast.Node{Type: ast.ElementNode, Data: "p"}
	style2 := &ast.Node{Type: ast.StyleNode, Data: "h1 { color: blue; }"}
	doc.AppendChild(style1)
	doc.AppendChild(p)
	doc.AppendChild(style2)

	blocks := Extract(doc, nil)

	assert.Equal(t, len(blocks), 2)
	assert.Equal(t, blocks[0], "body { color: red; }")
	assert.Equal(t, blocks[1], "h1 { color: blue; }")
	assert.Assert(t, doc.FirstChild == p)
	assert.Assert(t, doc.LastChild == p)
	assert.Assert(t, style1.Parent == nil)
	assert.Assert(t, style2.Parent == nil)
}

func TestExtractLeavesNonStyleNodesInTree(t *testing.T) {
	doc := &ast.Node{Type: ast.DocumentNode}
	el := &ast.Node{Type: ast.ElementNode, Data: "div"}
	doc.AppendChild(el)

	blocks := Extract(doc, nil)

	assert.Equal(t, len(blocks), 0)
	assert.Assert(t, doc.FirstChild == el)
}
