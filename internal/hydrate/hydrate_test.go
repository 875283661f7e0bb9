package hydrate

import (
	"testing"

	"github.com/kiln-ui/kiln/internal/attrs"
	"gotest.tools/v3/assert"
)

func TestFromAttributesLoad(t *testing.T) {
	d := FromAttributes([]attrs.Entry{{Name: "client:load", Code: `"true"`}})
	assert.Assert(t, d != nil)
	assert.Equal(t, d.Method, "load")
	assert.Assert(t, d.Value == nil)
}

func TestFromAttributesMediaWithValue(t *testing.T) {
	d := FromAttributes([]attrs.Entry{{Name: "client:media", Code: `"(prefers-color-scheme: dark)"`}})
	assert.Assert(t, d != nil)
	assert.Equal(t, d.Method, "media")
	assert.Assert(t, d.Value != nil)
	assert.Equal(t, *d.Value, `"(prefers-color-scheme: dark)"`)
}

func TestFromAttributesNone(t *testing.T) {
	d := FromAttributes([]attrs.Entry{{Name: "class", Code: `"foo"`}})
	assert.Assert(t, d == nil)
}

func TestSplitLegacyTagName(t *testing.T) {
	name, method, ok := SplitLegacyTagName("Counter:load")
	assert.Assert(t, ok)
	assert.Equal(t, name, "Counter")
	assert.Equal(t, method, "load")
}

func TestSplitLegacyTagNameOrdinary(t *testing.T) {
	_, _, ok := SplitLegacyTagName("Counter")
	assert.Assert(t, !ok)
}

func TestSplitLegacyTagNameNamespace(t *testing.T) {
	// Namespace member access (ns.Foo) isn't a colon split, and an
	// unrecognized suffix after a colon isn't a hydration method either.
	_, _, ok := SplitLegacyTagName("svg:path")
	assert.Assert(t, !ok)
}
