package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/kiln-ui/kiln/internal/ast"
	"github.com/kiln-ui/kiln/internal/attrs"
	"github.com/kiln-ui/kiln/internal/component"
	"github.com/kiln-ui/kiln/internal/hydrate"
	"github.com/kiln-ui/kiln/internal/loc"
	"github.com/kiln-ui/kiln/internal/transpile"
)

// MarkdownRenderer is the external Markdown-to-HTML collaborator
// (spec.md §1: "The Markdown renderer" is out of scope for this module).
type MarkdownRenderer interface {
	Render(markdown string, scopeClass string) (string, error)
}

// FragmentParser re-parses rendered Markdown HTML back into a template
// AST (spec.md §1: "The front-end template/expression parser producing
// the input AST" is an external collaborator).
type FragmentParser interface {
	ParseFragment(html string) (*ast.Node, error)
}

// Logger is the subset of the module's LoggingSink TemplateCodegen needs.
type Logger interface {
	Warn(loc.DiagnosticMessage)
	Error(loc.DiagnosticMessage)
}

const sentinelEscapedBrace = "ASTRO_ESCAPED_LEFT_CURLY_BRACKET\x00"

// TemplateCodegen is the async in-order tree walker (spec.md §4.6): it
// emits a single hyperscript expression into `out`, switching to a
// buffered `markdown` accumulator while inside a <Markdown> region.
//
// It generalizes the teacher's printer.render1, which threads an explicit
// RenderOptions struct through a single enter-only recursive walk keyed
// on n.DataAtom; this walker adds a leave phase (for closing parens and
// markdown flush) and a second buffer.
type TemplateCodegen struct {
	state      *State
	attrs      *attrs.Resolver
	transpiler *transpile.Adapter
	logger     Logger
	markdown   MarkdownRenderer
	fragments  FragmentParser

	out      strings.Builder
	mdBuffer strings.Builder
	inMD     bool
	paren    int
}

// New builds a TemplateCodegen over state, ready to Walk the HTML root.
func New(state *State, resolver *attrs.Resolver, transpiler *transpile.Adapter, logger Logger, md MarkdownRenderer, fragments FragmentParser) *TemplateCodegen {
	return &TemplateCodegen{
		state:      state,
		attrs:      resolver,
		transpiler: transpiler,
		logger:     logger,
		markdown:   md,
		fragments:  fragments,
		paren:      -1,
	}
}

// HTML returns the accumulated hyperscript expression after cleanup
// (spec.md §4.6.3), once Walk has returned.
func (tc *TemplateCodegen) HTML() string {
	return cleanup(tc.out.String())
}

func (tc *TemplateCodegen) curr() *strings.Builder {
	if tc.inMD {
		return &tc.mdBuffer
	}
	return &tc.out
}

func (tc *TemplateCodegen) write(s string) {
	tc.curr().WriteString(s)
}

// separator prepends a comma to the active buffer when it already holds
// content, per spec.md §4.6's "every element-class enter prepends `,`".
func (tc *TemplateCodegen) separator() {
	if tc.curr().Len() > 0 {
		tc.write(",")
	}
}

// Walk visits every child of n in document order.
func (tc *TemplateCodegen) Walk(n *ast.Node) error {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := tc.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TemplateCodegen) visit(n *ast.Node) error {
	switch n.Type {
	case ast.FragmentNode:
		return tc.visitFragment(n)
	case ast.SlotTemplateNode:
		return tc.visitSlotTemplate(n)
	case ast.SlotNode:
		return tc.visitSlot(n)
	case ast.ElementNode:
		if isComponentShaped(n.Data) {
			return tc.visitComponentRef(n)
		}
		return tc.visitPlainElement(n)
	case ast.InlineComponentNode, ast.HeadNode, ast.TitleNode, ast.BodyNode:
		return tc.visitComponentRef(n)
	case ast.ExpressionNode:
		return tc.visitExpression(n)
	case ast.MustacheTagNode:
		return tc.visitMustacheTag(n)
	case ast.StyleNode:
		tc.state.CSS = append(tc.state.CSS, n.Data)
		return nil
	case ast.CommentNode:
		return nil
	case ast.TextNode:
		return tc.visitText(n)
	case ast.CodeSpanNode, ast.CodeFenceNode:
		return tc.visitCode(n)
	default:
		return &loc.ErrorWithRange{
			Code:  loc.ERROR_UNKNOWN_NODE_KIND,
			Text:  fmt.Sprintf("unknown node kind %d", n.Type),
			Range: loc.Range{Loc: n.Loc[0]},
		}
	}
}

func isComponentShaped(tag string) bool {
	return strings.Contains(tag, "-")
}

func (tc *TemplateCodegen) visitFragment(n *ast.Node) error {
	tc.separator()
	tc.write("h(Fragment, null,")
	tc.paren++
	if err := tc.Walk(n); err != nil {
		return err
	}
	tc.write(")")
	tc.paren--
	return nil
}

func (tc *TemplateCodegen) visitSlotTemplate(n *ast.Node) error {
	tc.separator()
	tc.write("h(Fragment, null, children")
	tc.paren++
	if err := tc.Walk(n); err != nil {
		return err
	}
	tc.write(")")
	tc.paren--
	return nil
}

func (tc *TemplateCodegen) visitSlot(n *ast.Node) error {
	entries, err := tc.attrs.Resolve(n)
	if err != nil {
		return err
	}
	tc.separator()
	tc.write(fmt.Sprintf("h(__astro_slot, %s,", propsObject(entries)))
	tc.paren++
	if err := tc.Walk(n); err != nil {
		return err
	}
	tc.write(")")
	tc.paren--
	return nil
}

func (tc *TemplateCodegen) visitPlainElement(n *ast.Node) error {
	entries, err := tc.attrs.Resolve(n)
	if err != nil {
		return err
	}
	if hydrate.FromAttributes(entries) != nil && tc.logger != nil {
		tc.logger.Warn(loc.DiagnosticMessage{
			Code: loc.WARNING_IGNORED_DIRECTIVE,
			Text: fmt.Sprintf("Hydration directives have no effect on plain element <%s>.", n.Data),
		})
	}

	if tc.inMD {
		if err := tc.flushMarkdown(); err != nil {
			return err
		}
	}

	slotClose := tc.openSlotWrapIfPresent(entries)

	tc.separator()
	tc.write(fmt.Sprintf("h(%s, %s,", jsonString(n.Data), propsObject(entries)))
	tc.paren++
	if err := tc.Walk(n); err != nil {
		return err
	}
	tc.write(")")
	tc.paren--
	if slotClose {
		tc.write(")")
	}
	return nil
}

// openSlotWrapIfPresent implements the "handle slot attribute" bullet
// shared by the plain-element and imported-component branches: wrap the
// upcoming h(...) call in h(__astro_slot_content, {name: <slot>}, ...).
func (tc *TemplateCodegen) openSlotWrapIfPresent(entries []attrs.Entry) bool {
	for _, e := range entries {
		if e.Name == "slot" {
			tc.separator()
			tc.write(fmt.Sprintf("h(__astro_slot_content, {name: %s},", e.Code))
			tc.paren++
			return true
		}
	}
	return false
}

func (tc *TemplateCodegen) visitComponentRef(n *ast.Node) error {
	tagName := n.Data
	legacyName, legacyMethod, legacy := hydrate.SplitLegacyTagName(tagName)
	if legacy {
		hydrate.WarnLegacySyntax(tc.logger, tagName)
		tagName = legacyName
	}

	if tagName == "Markdown" {
		return tc.visitMarkdownComponent(n)
	}
	if tagName == "Prism" {
		if _, ok := tc.state.Components["Prism"]; !ok {
			tc.state.Components["Prism"] = component.Info{
				SpecifierKind:   component.DefaultImport,
				SourceSpecifier: "astro/components/Prism.js",
			}
		}
	}

	entries, err := tc.attrs.Resolve(n)
	if err != nil {
		return err
	}

	var directive *hydrate.Directive
	if legacy {
		directive = &hydrate.Directive{Method: legacyMethod}
	} else {
		directive = hydrate.FromAttributes(entries)
	}

	desc, err := component.Resolve(tagName, tc.state.ComponentTable(), tc.state.ProjectRoot, tc.state.SourceURL)
	if err != nil {
		return &loc.ErrorWithRange{Code: loc.ERROR_UNRESOLVED_COMPONENT, Text: err.Error(), Range: loc.Range{Loc: n.Loc[0]}}
	}

	if (desc.Kind == component.FrontmatterDefined || desc.Kind == component.FragmentComponent) && directive != nil {
		return &loc.ErrorWithRange{
			Code: loc.ERROR_HYDRATION_ON_FRONTMATTER,
			Text: fmt.Sprintf("Hydration directives are not supported on frontmatter-defined component %q.", tagName),
		}
	}

	if tc.inMD {
		if err := tc.flushMarkdown(); err != nil {
			return err
		}
	}
	slotClose := tc.openSlotWrapIfPresent(entries)

	tc.separator()
	switch desc.Kind {
	case component.FrontmatterDefined, component.FragmentComponent:
		tc.write(fmt.Sprintf("h(%s, %s,", tagName, propsObject(entries)))
	default:
		wrapper := tc.synthesizeWrapper(tagName, desc, directive)
		tc.write(fmt.Sprintf("h(%s, %s", wrapper, propsObject(entries)))
		tc.write(",")
	}
	tc.paren++
	if err := tc.Walk(n); err != nil {
		return err
	}
	tc.write(")")
	tc.paren--
	if slotClose {
		tc.write(")")
	}
	return nil
}

func (tc *TemplateCodegen) visitMarkdownComponent(n *ast.Node) error {
	tc.state.Markers.Count++
	entries, err := tc.attrs.Resolve(n)
	if err != nil {
		return err
	}
	hasExtra := false
	for _, e := range entries {
		if e.Name != "$scope" {
			hasExtra = true
			break
		}
	}
	if hasExtra {
		if tc.inMD {
			if err := tc.flushMarkdown(); err != nil {
				return err
			}
		}
		tc.write(fmt.Sprintf(",Markdown.__render(%s),", propsObject(entries)))
	}
	tc.inMD = true
	if err := tc.Walk(n); err != nil {
		return err
	}
	if err := tc.flushMarkdown(); err != nil {
		return err
	}
	tc.state.Markers.Count--
	tc.inMD = tc.state.Markers.Count > 0
	return nil
}

// synthesizeWrapper implements §4.6.1's component-wrapper synthesis.
func (tc *TemplateCodegen) synthesizeWrapper(tagName string, desc component.Descriptor, directive *hydrate.Directive) string {
	displayName := jsonString(tagName)

	if desc.Kind == component.CustomElement {
		tc.state.AppendImport(`import { AstroElementRegistry } from "astro/runtime/server/astro-element-registry.js";`)
		tc.state.AppendImport(`import { __astro_component } from "astro/runtime/server/astro-component.js";`)
		hydrateArg := "undefined"
		if directive != nil {
			hydrateArg = jsonString(directive.Method)
		}
		return fmt.Sprintf(
			"__astro_component(...AstroElementRegistry.astroComponentArgs(%s, { hydrate: %s, displayName: %s }))",
			jsonString(tagName), hydrateArg, displayName,
		)
	}

	localName := tagName
	if dot := strings.IndexByte(tagName, '.'); dot >= 0 {
		localName = tagName[:dot]
	}
	tc.recordComponentImport(localName, desc.Info)
	tc.state.AppendImport(importLine(localName, desc.Info))

	if directive == nil {
		return fmt.Sprintf("__astro_component(%s, { hydrate: undefined, displayName: %s, value: undefined })", localName, displayName)
	}

	if directive.Method == "only" {
		tc.state.RemoveComponentImports(localName)
		localName = "Fragment"
	}

	componentExport := `{"value":"default"}`
	switch desc.Info.SpecifierKind {
	case component.DefaultImport:
		componentExport = `{"value":"default"}`
	case component.NamedImport:
		componentExport = fmt.Sprintf(`{"value":%s}`, jsonString(desc.Info.ImportedExportName))
	case component.NamespaceImport:
		segment := tagName
		if dot := strings.IndexByte(tagName, '.'); dot >= 0 {
			segment = tagName[dot+1:]
		}
		componentExport = fmt.Sprintf(`{"value":%s}`, jsonString(segment))
	}

	value := "null"
	if directive.Value != nil {
		value = *directive.Value
	}

	return fmt.Sprintf(
		"__astro_component(%s, { hydrate: %s, displayName: %s, componentUrl: %s, componentExport: %s, value: %s })",
		localName, jsonString(directive.Method), displayName, jsonString(desc.RuntimeURL), componentExport, value,
	)
}

func (tc *TemplateCodegen) recordComponentImport(localName string, info component.Info) {
	line := importLine(localName, info)
	tc.state.ComponentImports[localName] = appendUniqueStr(tc.state.ComponentImports[localName], line)
}

func importLine(localName string, info component.Info) string {
	switch info.SpecifierKind {
	case component.NamedImport:
		if info.ImportedExportName == localName {
			return fmt.Sprintf("import { %s } from %s;", localName, jsonString(info.SourceSpecifier))
		}
		return fmt.Sprintf("import { %s as %s } from %s;", info.ImportedExportName, localName, jsonString(info.SourceSpecifier))
	case component.NamespaceImport:
		return fmt.Sprintf("import * as %s from %s;", localName, jsonString(info.SourceSpecifier))
	default:
		return fmt.Sprintf("import %s from %s;", localName, jsonString(info.SourceSpecifier))
	}
}

func appendUniqueStr(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func (tc *TemplateCodegen) visitExpression(n *ast.Node) error {
	var b strings.Builder
	for i, chunk := range n.Chunks {
		b.WriteString(chunk)
		if i < len(n.Children) {
			b.WriteString(placeholderFor(n.Children[i]))
		}
	}
	code, err := tc.transpiler.Transpile(b.String(), loc.Range{Loc: n.Loc[0], Len: n.Loc[1].Start - n.Loc[0].Start})
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(code)
	switch trimmed {
	case "false", "null", "undefined", "void 0":
		return nil
	}
	if tc.inMD {
		tc.write(fmt.Sprintf("{%s}", trimmed))
		return nil
	}
	tc.separator()
	tc.write(fmt.Sprintf("(%s)", trimmed))
	return nil
}

// placeholderFor is a stand-in for a spliced child node's own emission
// inside an expression chunk; full recursive hyperscript splicing of
// expression children is beyond what the external parser contract
// (spec.md §3) specifies the chunk/child pairing means in source terms.
func placeholderFor(n *ast.Node) string {
	return n.Data
}

func (tc *TemplateCodegen) visitMustacheTag(n *ast.Node) error {
	if tc.inMD {
		tc.inMD = true
	}
	return tc.visitExpression(n)
}

func (tc *TemplateCodegen) visitText(n *ast.Node) error {
	if tc.inMD {
		tc.write(n.Data)
		return nil
	}
	if strings.TrimSpace(n.Data) == "" {
		return nil
	}
	text := n.Data
	if n.Parent != nil && atom.Lookup([]byte(n.Parent.Data)) == atom.Code {
		text = strings.ReplaceAll(text, sentinelEscapedBrace, "{")
	}
	tc.separator()
	tc.write(jsonString(text))
	return nil
}

func (tc *TemplateCodegen) visitCode(n *ast.Node) error {
	if tc.inMD {
		tc.write(n.Data)
		return nil
	}
	tc.separator()
	tc.write(jsonString(n.Data))
	return nil
}

// flushMarkdown implements §4.6.2: dedent, render, re-parse, recursively
// codegen the rendered subtree, and splice the result into `out`.
func (tc *TemplateCodegen) flushMarkdown() error {
	raw := tc.mdBuffer.String()
	tc.mdBuffer.Reset()
	tc.inMD = false
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	dedented := dedentText(raw)

	if tc.markdown == nil || tc.fragments == nil {
		tc.out.WriteString(fmt.Sprintf(",%s", jsonString(dedented)))
		return nil
	}

	if tc.state.Markers.Scope == "" {
		tc.state.Markers.Scope = scopeID(tc.state.FileID)
	}
	rendered, err := tc.markdown.Render(dedented, tc.state.Markers.Scope)
	if err != nil {
		return &loc.ErrorWithRange{Code: loc.ERROR_TRANSPILE_FAILURE, Text: err.Error()}
	}
	frag, err := tc.fragments.ParseFragment(rendered)
	if err != nil {
		return &loc.ErrorWithRange{Code: loc.ERROR_TRANSPILE_FAILURE, Text: err.Error()}
	}

	sub := New(tc.state, tc.attrs, tc.transpiler, tc.logger, tc.markdown, tc.fragments)
	if err := sub.Walk(frag); err != nil {
		return err
	}
	tc.out.WriteString(fmt.Sprintf(",%s", sub.HTML()))
	return nil
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// propsObject builds the literal object passed as an h(...) call's props
// argument. Every generated props object carries the __astroContext entry
// (spec.md §6) alongside whatever attributes resolved on the node.
func propsObject(entries []attrs.Entry) string {
	var b strings.Builder
	b.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			b.WriteString(",")
		}
		if strings.HasPrefix(e.Name, "...(") {
			b.WriteString(e.Name)
			continue
		}
		b.WriteString(jsonString(e.Name))
		b.WriteString(":")
		b.WriteString(e.Code)
	}
	if len(entries) > 0 {
		b.WriteString(",")
	}
	b.WriteString("[__astroContext]:props[__astroContext]")
	b.WriteString("}")
	return b.String()
}
