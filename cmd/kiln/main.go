// Command kiln compiles a single-file component AST fixture into a
// rendered JS artifact and prints it as JSON. The front-end parser is an
// external collaborator (spec.md §1), so this reads the parsed tree
// itself rather than source text: a JSON document shaped like fixtureNode
// below, produced by whatever front end sits upstream of this module.
package main

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json"

	"github.com/kiln-ui/kiln"
	"github.com/kiln-ui/kiln/internal/ast"
)

// fixtureNode is the wire shape of one AST node in an input fixture; it
// mirrors ast.Node but uses a plain child slice instead of the linked-list
// Parent/FirstChild/NextSibling pointers that JSON can't express directly.
type fixtureNode struct {
	Type     string            `json:"type"`
	Data     string            `json:"data,omitempty"`
	Attr     []fixtureAttr     `json:"attr,omitempty"`
	Chunks   []string          `json:"chunks,omitempty"`
	Children []fixtureNode     `json:"children,omitempty"`
	Meta     []string          `json:"meta,omitempty"`
}

type fixtureAttr struct {
	Key  string `json:"key"`
	Val  string `json:"val,omitempty"`
	Type string `json:"type,omitempty"`
}

var nodeTypes = map[string]ast.NodeType{
	"document":       ast.DocumentNode,
	"frontmatter":    ast.FrontmatterNode,
	"element":        ast.ElementNode,
	"inlineComponent": ast.InlineComponentNode,
	"fragment":       ast.FragmentNode,
	"slot":           ast.SlotNode,
	"slotTemplate":   ast.SlotTemplateNode,
	"head":           ast.HeadNode,
	"title":          ast.TitleNode,
	"body":           ast.BodyNode,
	"text":           ast.TextNode,
	"mustacheTag":    ast.MustacheTagNode,
	"expression":     ast.ExpressionNode,
	"codeSpan":       ast.CodeSpanNode,
	"codeFence":      ast.CodeFenceNode,
	"comment":        ast.CommentNode,
	"style":          ast.StyleNode,
}

var attrTypes = map[string]ast.AttributeType{
	"quoted":     ast.QuotedAttribute,
	"empty":      ast.EmptyAttribute,
	"expression": ast.ExpressionAttribute,
	"spread":     ast.SpreadAttribute,
	"shorthand":  ast.ShorthandAttribute,
}

func (f fixtureNode) build() (*ast.Node, error) {
	nt, ok := nodeTypes[f.Type]
	if !ok {
		return nil, fmt.Errorf("kiln: unknown node type %q", f.Type)
	}
	n := &ast.Node{Type: nt, Data: f.Data, Chunks: f.Chunks}
	for _, m := range f.Meta {
		if m == "customElement" {
			n.Meta |= ast.MetaCustomElement
		}
	}
	for _, a := range f.Attr {
		at := ast.QuotedAttribute
		if a.Type != "" {
			var ok bool
			at, ok = attrTypes[a.Type]
			if !ok {
				return nil, fmt.Errorf("kiln: unknown attribute type %q", a.Type)
			}
		}
		n.Attr = append(n.Attr, ast.Attribute{Key: a.Key, Val: a.Val, Type: at})
	}
	for _, c := range f.Children {
		child, err := c.build()
		if err != nil {
			return nil, err
		}
		n.AppendChild(child)
	}
	return n, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: kiln <fixture.json>")
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var fixture fixtureNode
	if err := json.Unmarshal(raw, &fixture); err != nil {
		fmt.Fprintln(os.Stderr, "kiln: invalid fixture:", err)
		os.Exit(1)
	}

	doc, err := fixture.build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	artifact, err := kiln.Codegen(doc, kiln.CompileOptions{
		Filename:   os.Args[1],
		FileID:     os.Args[1],
		SourceText: string(raw),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "kiln:", err)
		os.Exit(1)
	}

	out, err := json.Marshal(artifact)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
	fmt.Println()
}
