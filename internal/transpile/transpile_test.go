package transpile

import (
	"errors"
	"testing"

	"github.com/kiln-ui/kiln/internal/loc"
	"gotest.tools/v3/assert"
)

func TestAdapterStripsTrailingSemicolonAndWhitespace(t *testing.T) {
	a := NewAdapter(Passthrough{})
	out, err := a.Transpile("  1 + 1;  ", loc.Range{Loc: loc.Loc{Start: 10}, Len: 10})
	assert.NilError(t, err)
	assert.Equal(t, out, "1 + 1")
}

type failingTranspiler struct{}

func (failingTranspiler) Transpile(src string) (string, *Failure) {
	return "", &Failure{Line: 2, Column: 3, Message: "unexpected token"}
}

func TestAdapterOffsetsFailurePosition(t *testing.T) {
	a := NewAdapter(failingTranspiler{})
	fragment := "a\nb c"
	// fragment starts at byte 100 in the original file.
	_, err := a.Transpile(fragment, loc.Range{Loc: loc.Loc{Start: 100}, Len: len(fragment)})
	assert.Assert(t, err != nil)

	var rangedErr *loc.ErrorWithRange
	assert.Assert(t, errors.As(err, &rangedErr))
	// line 2 starts at fragment offset 2 ("b c"); column 3 is offset 4 ('c'), plus the fragment's own start.
	assert.Equal(t, rangedErr.Range.Loc.Start, 104)
	assert.Equal(t, rangedErr.Text, "unexpected token")
}
