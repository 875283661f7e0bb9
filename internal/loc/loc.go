package loc

type Loc struct {
	// This is the 0-based index of this location from the start of the file, in bytes
	Start int
}

type Range struct {
	Loc Loc
	Len int
}

func (r Range) End() int {
	return r.Loc.Start + r.Len
}

// Span is a range of byte offsets. The start is inclusive, the end is
// exclusive.
type Span struct {
	Start, End int
}

// Position is a 1-based line/column pair resolved from a Loc against a
// particular file's text, for presenting diagnostics to a human.
type Position struct {
	Line   int
	Column int
}
