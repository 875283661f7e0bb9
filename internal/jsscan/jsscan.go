// Package jsscan is a lightweight, depth-aware scanner over frontmatter
// JS/TS source: it splits top-level statements and classifies import
// declarations, generalizing the teacher's internal/js_scanner character-
// scanning idioms (comment/whitespace skipping, keyword-boundary checks)
// from "find one interesting position" to "split the whole program."
//
// A full JSX/TS grammar (top-level await, throw-expressions, generics) is
// the front-end parser's job and stays out of scope per spec.md §1; this
// scanner only needs enough structure to find statement boundaries and
// import specifiers, which it gets by tracking bracket/string/comment
// depth rather than building an AST.
package jsscan

import (
	"regexp"
	"strings"

	"github.com/kiln-ui/kiln/internal/loc"
)

// Statement is one top-level statement of the frontmatter program, with
// its byte range in the original script text.
type Statement struct {
	Text  string
	Start int
	End   int
}

// SplitTopLevelStatements scans src and returns each top-level statement
// in source order. A statement ends at a top-level `;` or, failing that,
// at a top-level `}` that closes a brace opened at depth 0 (function and
// class declarations don't require a trailing semicolon). A `}` directly
// followed by `.`, `;`, or an import clause's `from` does not end the
// statement. Comments between statements are left out of the next
// statement's text.
func SplitTopLevelStatements(src string) []Statement {
	var stmts []Statement
	depth := 0
	start := 0
	i := 0
	n := len(src)
	inStatement := false

	flush := func(end int) {
		text := src[start:end]
		if strings.TrimSpace(text) != "" {
			stmts = append(stmts, Statement{Text: text, Start: start, End: end})
		}
		start = end
		inStatement = false
	}

	for i < n {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
			if !inStatement {
				start = i
			}
			continue
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i += 2
			if !inStatement {
				start = min(i, n)
			}
			continue
		case c == '\'' || c == '"' || c == '`':
			i = skipString(src, i, c)
			inStatement = true
			continue
		case c == '{' || c == '(' || c == '[':
			depth++
			inStatement = true
		case c == '}' || c == ')' || c == ']':
			depth--
			inStatement = true
			if depth == 0 && c == '}' {
				// Heuristic: a top-level closing brace ends a function,
				// class, or block-form declaration statement, unless the
				// statement visibly continues after it.
				j := i + 1
				for j < n && isSpace(src[j]) {
					j++
				}
				fromClause := strings.HasPrefix(src[j:], "from") && j+4 < n &&
					(isSpace(src[j+4]) || src[j+4] == '\'' || src[j+4] == '"')
				if j >= n || (src[j] != '.' && src[j] != ';' && !fromClause) {
					flush(i + 1)
					i++
					continue
				}
			}
		case c == ';' && depth == 0:
			flush(i + 1)
			i++
			continue
		case !isSpace(c):
			inStatement = true
		}
		i++
	}
	if inStatement {
		flush(n)
	}
	return stmts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipString(src string, i int, quote byte) int {
	i++
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

// ImportKind mirrors component.ImportSpecifierKind without importing that
// package (jsscan is a leaf package; frontmatter maps these kinds onto
// component's).
type ImportKind int

const (
	DefaultImport ImportKind = iota
	NamedImport
	NamespaceImport
)

// ImportedName is one binding introduced by an import declaration.
type ImportedName struct {
	Kind         ImportKind
	LocalName    string
	ExportedName string // only set for NamedImport
}

// ImportStatement is a parsed `import ... from '...'` declaration.
type ImportStatement struct {
	Specifier string
	Names     []ImportedName
	// SideEffectOnly is true for `import './x.js';` with no specifiers.
	SideEffectOnly bool
}

var (
	importRe      = regexp.MustCompile(`(?s)^\s*import\s+(.*?)\s*from\s*['"]([^'"]+)['"]\s*;?\s*$`)
	sideEffectRe  = regexp.MustCompile(`(?s)^\s*import\s*['"]([^'"]+)['"]\s*;?\s*$`)
	namespaceRe   = regexp.MustCompile(`^\*\s*as\s+(\w+)$`)
	namedGroupRe  = regexp.MustCompile(`(?s)\{(.*)\}`)
	namedEntryRe  = regexp.MustCompile(`^(\w+)(?:\s+as\s+(\w+))?$`)
)

// ParseImport recognizes an import declaration among the module's
// top-level statements. ok is false for any other statement kind.
func ParseImport(stmt string) (ImportStatement, bool) {
	if m := sideEffectRe.FindStringSubmatch(stmt); m != nil {
		return ImportStatement{Specifier: m[1], SideEffectOnly: true}, true
	}
	m := importRe.FindStringSubmatch(stmt)
	if m == nil {
		return ImportStatement{}, false
	}
	clause, specifier := strings.TrimSpace(m[1]), m[2]
	result := ImportStatement{Specifier: specifier}

	if ns := namespaceRe.FindStringSubmatch(clause); ns != nil {
		result.Names = append(result.Names, ImportedName{Kind: NamespaceImport, LocalName: ns[1]})
		return result, true
	}

	// Split a possible `Default, { a, b as c }` clause.
	namedPart := ""
	defaultPart := clause
	if g := namedGroupRe.FindStringSubmatchIndex(clause); g != nil {
		namedPart = clause[g[2]:g[3]]
		defaultPart = strings.TrimSpace(clause[:g[0]])
		defaultPart = strings.TrimRight(defaultPart, ", \t\n")
	}

	if defaultPart != "" {
		result.Names = append(result.Names, ImportedName{Kind: DefaultImport, LocalName: defaultPart})
	}
	for _, part := range strings.Split(namedPart, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if e := namedEntryRe.FindStringSubmatch(part); e != nil {
			local := e[1]
			exported := e[1]
			if e[2] != "" {
				local = e[2]
				exported = e[1]
			}
			result.Names = append(result.Names, ImportedName{Kind: NamedImport, LocalName: local, ExportedName: exported})
		}
	}
	return result, true
}

// ByteOffset converts a Statement-relative match index to a loc.Loc in the
// original script, given the Statement's Start offset.
func ByteOffset(stmt Statement, idx int) loc.Loc {
	return loc.Loc{Start: stmt.Start + idx}
}
