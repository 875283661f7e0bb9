package codegen

import (
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	"github.com/lithammer/dedent"
)

var runsOfCommas = regexp.MustCompile(`,{2,}`)

// cleanup applies §4.6.3's text rewrites to the assembled hyperscript
// stream, in order. None of the four rules needs a lookbehind assertion,
// so this stays on the standard library's regexp rather than reaching
// for a PCRE-style engine (see DESIGN.md).
func cleanup(out string) string {
	out = strings.TrimPrefix(out, ",")

	for {
		collapsed := strings.ReplaceAll(out, ",)", ")")
		if collapsed == out {
			break
		}
		out = collapsed
	}

	out = runsOfCommas.ReplaceAllString(out, ",")
	out = strings.ReplaceAll(out, ")h", "),h")

	return out
}

// dedentText implements §4.6.2's "dedent the accumulated text" step,
// generalizing test_utils.Dedent's trim-then-dedent composition from a
// test helper into the Markdown-flush production path.
func dedentText(input string) string {
	trimmed := strings.TrimRight(input, " \n\r")
	trimmed = strings.TrimLeft(trimmed, " \t\r\n")
	trimmed = strings.ReplaceAll(trimmed, "\n\n\n", "\n\n")
	return dedent.Dedent(trimmed)
}

// scopeID synthesizes the per-document Markdown scope class name. The
// teacher derives an equivalent id from a content hash (internal/hash.go)
// using its vendored xxhash, which isn't a fetchable third-party module;
// this uses the standard library's FNV-1a instead (see DESIGN.md).
func scopeID(fileID string) string {
	h := fnv.New32a()
	h.Write([]byte(fileID))
	return "astro-" + strconv.FormatUint(uint64(h.Sum32()), 36)
}
