package component

import (
	"net/url"
	"testing"

	"gotest.tools/v3/assert"
)

func mustURL(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	assert.NilError(t, err)
	return u
}

func TestResolveImported(t *testing.T) {
	table := Table{Components: map[string]Info{
		"X": {SpecifierKind: DefaultImport, SourceSpecifier: "./X.jsx"},
	}}
	d, err := Resolve("X", table, mustURL(t, "file:///project/"), mustURL(t, "file:///project/src/pages/index.kiln"))
	assert.NilError(t, err)
	assert.Equal(t, d.Kind, Imported)
	assert.Equal(t, d.RuntimeURL, "/_astro/src/pages/X.js")
}

func TestResolveCustomElement(t *testing.T) {
	d, err := Resolve("my-element", Table{}, nil, nil)
	assert.NilError(t, err)
	assert.Equal(t, d.Kind, CustomElement)
}

func TestResolveFrontmatterDefined(t *testing.T) {
	table := Table{Declarations: map[string]bool{"Card": true}}
	d, err := Resolve("Card", table, nil, nil)
	assert.NilError(t, err)
	assert.Equal(t, d.Kind, FrontmatterDefined)
}

func TestResolveFragment(t *testing.T) {
	d, err := Resolve("Fragment", Table{}, nil, nil)
	assert.NilError(t, err)
	assert.Equal(t, d.Kind, FragmentComponent)
}

func TestResolveUndefined(t *testing.T) {
	_, err := Resolve("Mystery", Table{}, nil, nil)
	assert.ErrorContains(t, err, `Unable to render "Mystery" because it is undefined`)
}

func TestResolveNamespaceDotAccess(t *testing.T) {
	table := Table{Components: map[string]Info{
		"ns": {SpecifierKind: NamespaceImport, SourceSpecifier: "./ns.jsx"},
	}}
	d, err := Resolve("ns.Foo", table, nil, nil)
	assert.NilError(t, err)
	assert.Equal(t, d.Kind, Imported)
}

func TestRuntimeURLExtensionCollapse(t *testing.T) {
	root := mustURL(t, "file:///project/")
	src := mustURL(t, "file:///project/src/pages/index.kiln")
	assert.Equal(t, RuntimeURL("./X.tsx", root, src), "/_astro/src/pages/X.js")
}

func TestRuntimeURLOtherExtensionPreserved(t *testing.T) {
	root := mustURL(t, "file:///project/")
	src := mustURL(t, "file:///project/src/pages/index.kiln")
	assert.Equal(t, RuntimeURL("./logo.svg", root, src), "/_astro/src/pages/logo.svg.js")
}
