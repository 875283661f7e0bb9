// Package component implements the ComponentResolver (spec.md §4.4): it
// resolves a template tag name against the frontmatter symbol table and
// produces a descriptor distinguishing imported components, frontmatter-
// defined components, custom elements, and the built-in Fragment.
package component

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

type ImportSpecifierKind int

const (
	DefaultImport ImportSpecifierKind = iota
	NamedImport
	NamespaceImport
)

// Info is the ComponentInfo record spec.md §3 describes, one per local
// name bound by a frontmatter import declaration.
type Info struct {
	SpecifierKind      ImportSpecifierKind
	ImportedLocalName  string
	ImportedExportName string // only meaningful for NamedImport
	SourceSpecifier    string // the import's raw source string, e.g. "./X.jsx"
}

type Kind int

const (
	Imported Kind = iota
	FrontmatterDefined
	CustomElement
	FragmentComponent
)

// Descriptor is what Resolve returns: everything TemplateCodegen needs to
// emit a reference to this tag.
type Descriptor struct {
	Kind       Kind
	Info       Info  // set when Kind == Imported
	RuntimeURL string // set when Kind == Imported
}

// Table is the frontmatter symbol table ComponentResolver consults:
// imported components (by local name) and locally declared identifiers
// (function/variable names), per CodegenState (spec.md §3).
type Table struct {
	Components   map[string]Info
	Declarations map[string]bool
}

var customElementName = func(tag string) bool {
	if tag == "" || !unicode.IsLower(rune(tag[0])) {
		return false
	}
	return strings.Contains(tag, "-")
}

// Resolve classifies tag name T against the table, following spec.md
// §4.4's rule order exactly: dot-segment resolution, components lookup,
// custom-element shape, frontmatter declarations (capitalized names only),
// the Fragment built-in, and finally a fatal "undefined" error.
func Resolve(tagName string, table Table, projectRoot, sourceURL *url.URL) (Descriptor, error) {
	lookupName := tagName
	if dot := strings.IndexByte(tagName, '.'); dot >= 0 {
		lookupName = tagName[:dot]
	}

	if info, ok := table.Components[lookupName]; ok {
		d := Descriptor{Kind: Imported, Info: info}
		d.RuntimeURL = RuntimeURL(info.SourceSpecifier, projectRoot, sourceURL)
		return d, nil
	}

	if customElementName(tagName) {
		return Descriptor{Kind: CustomElement}, nil
	}

	if table.Declarations[lookupName] && startsUpper(lookupName) {
		return Descriptor{Kind: FrontmatterDefined}, nil
	}

	if tagName == "Fragment" {
		return Descriptor{Kind: FragmentComponent}, nil
	}

	return Descriptor{}, fmt.Errorf("Unable to render %q because it is undefined", tagName)
}

func startsUpper(s string) bool {
	return s != "" && unicode.IsUpper(rune(s[0]))
}

// extensionRewrites are the extensions spec.md §4.4 says collapse to
// plain ".js"; anything else keeps its extension and gains a ".js" suffix.
var extensionRewrites = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
}

// RuntimeURL synthesizes the emitted JS artifact path for an imported
// component: join the import's source URL against the compiled file's
// URL, strip the project-root prefix, and rewrite the final extension.
func RuntimeURL(specifier string, projectRoot, sourceURL *url.URL) string {
	resolved := specifier
	if u, err := url.Parse(specifier); err == nil && sourceURL != nil {
		resolved = sourceURL.ResolveReference(u).String()
	}

	if projectRoot != nil {
		resolved = strings.TrimPrefix(resolved, projectRoot.String())
	}
	resolved = "/" + strings.TrimPrefix(resolved, "/")

	ext := path.Ext(resolved)
	base := strings.TrimSuffix(resolved, ext)
	if extensionRewrites[ext] {
		resolved = base + ".js"
	} else if ext != "" {
		resolved = base + ext + ".js"
	} else {
		resolved = base + ".js"
	}

	return "/_astro" + resolved
}

// customElementAlias synthesizes the synthetic namespace-import alias
// name used for a bare `import './x-tag.js';` side-effect import that the
// parser flagged via MetaCustomElement, generalizing the teacher's
// strcase-based identifier synthesis (printer/utils.go getComponentName).
func customElementAlias(specifier string) string {
	base := path.Base(specifier)
	base = strings.TrimSuffix(base, path.Ext(base))
	return "__kiln_ce_" + strcase.ToCamel(base)
}

// CustomElementAlias is exported for frontmatter.Analyzer, which owns
// customElementCandidates (spec.md §3).
func CustomElementAlias(specifier string) string { return customElementAlias(specifier) }
