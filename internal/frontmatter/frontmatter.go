// Package frontmatter implements the FrontmatterAnalyzer (spec.md §4.5):
// it scans the script block's top-level statements, strips and records
// import declarations, lifts getStaticPaths and the two legacy prop
// exports, tracks locally declared identifiers, and rewrites
// Astro.fetchContent(<literal>) calls before the remainder is handed to
// the expression transpiler.
//
// It generalizes the teacher's printer.printComponentMetadata: that walks
// a full frontmatter AST looking for import/export nodes, while this
// walks jsscan's top-level statement split, since no fetchable full JS
// parser exists in this module's dependency set (see DESIGN.md).
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kiln-ui/kiln/internal/component"
	"github.com/kiln-ui/kiln/internal/jsscan"
	"github.com/kiln-ui/kiln/internal/loc"
	"github.com/kiln-ui/kiln/internal/transpile"
)

// Logger is the subset of the module's LoggingSink this package needs.
type Logger interface {
	Warn(loc.DiagnosticMessage)
}

// Result is everything FrontmatterAnalyzer contributes to CodegenState.
type Result struct {
	Script                  string
	ImportStatements        []string
	ExportStatements        []string
	Components              map[string]component.Info
	Declarations            map[string]bool
	CustomElementCandidates map[string]string
	GetStaticPaths          *string
}

var builtinModules = map[string]bool{
	"fs": true, "path": true, "http": true, "https": true, "os": true,
	"child_process": true, "crypto": true, "stream": true, "util": true,
	"events": true, "url": true, "net": true, "tls": true, "zlib": true,
}

var (
	fetchContentRe = regexp.MustCompile(`Astro\.fetchContent\s*\(\s*(.*?)\s*\)`)
	literalRe      = regexp.MustCompile(`^(['"\x60])(?:[^\\]|\\.)*['"\x60]$`)
	functionDeclRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s*\*?\s+(\w+)`)
	varDeclRe      = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)`)
	exportVarRe    = regexp.MustCompile(`^\s*export\s+(?:const|let|var)\s+(\w+)`)
	getStaticRe    = regexp.MustCompile(`^\s*export\s+(?:async\s+)?function\s*\*?\s+getStaticPaths\b`)
)

// Analyze runs FrontmatterAnalyzer over the raw script text between the
// frontmatter fences, given the range of that text in the full document
// for diagnostic positioning, and an ExpressionTranspiler adapter used to
// validate the remaining (non-stripped) program.
func Analyze(script string, origin loc.Range, adapter *transpile.Adapter, logger Logger) (Result, error) {
	rewritten, rewroteFetchContent, err := rewriteFetchContent(script, origin)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Components:              map[string]component.Info{},
		Declarations:            map[string]bool{},
		CustomElementCandidates: map[string]string{},
	}

	var kept []string
	var deprecatedProps []string

	for _, stmt := range jsscan.SplitTopLevelStatements(rewritten) {
		trimmed := strings.TrimSpace(stmt.Text)
		if trimmed == "" {
			continue
		}

		if imp, ok := jsscan.ParseImport(stmt.Text); ok {
			if builtinModules[imp.Specifier] {
				return Result{}, &loc.ErrorWithRange{
					Code:  loc.ERROR_BUILTIN_MODULE,
					Text:  fmt.Sprintf("Built-in module %q must be imported as \"node:%s\"", imp.Specifier, imp.Specifier),
					Range: loc.Range{Loc: loc.Loc{Start: origin.Loc.Start + stmt.Start}, Len: len(stmt.Text)},
				}
			}
			recordImport(&res, imp)
			res.ImportStatements = appendUnique(res.ImportStatements, trimmed)
			continue
		}

		if getStaticRe.MatchString(stmt.Text) {
			if !hasBalancedBraces(stmt.Text) {
				return Result{}, &loc.ErrorWithRange{
					Code: loc.ERROR_TRANSPILE_FAILURE,
					Text: "`getStaticPaths` declaration is not a complete statement",
					Range: loc.Range{Loc: loc.Loc{Start: origin.Loc.Start + stmt.Start}, Len: len(stmt.Text)},
				}
			}
			v := strings.TrimSpace(stmt.Text)
			res.GetStaticPaths = &v
			continue
		}

		if m := exportVarRe.FindStringSubmatch(stmt.Text); m != nil {
			name := m[1]
			if name == "__layout" || name == "__content" {
				res.ExportStatements = appendUnique(res.ExportStatements, trimmed)
				res.Declarations[name] = true
				continue
			}
			deprecatedProps = append(deprecatedProps, name)
			res.Declarations[name] = true
			continue
		}

		if m := functionDeclRe.FindStringSubmatch(stmt.Text); m != nil {
			res.Declarations[m[1]] = true
		}
		if m := varDeclRe.FindStringSubmatch(stmt.Text); m != nil {
			res.Declarations[m[1]] = true
		}

		kept = append(kept, stmt.Text)
	}

	if rewroteFetchContent {
		res.ImportStatements = appendUnique(res.ImportStatements, `import { fetchContent } from "astro/runtime/server/fetch-content.js";`)
	}

	if len(deprecatedProps) > 0 && logger != nil {
		logger.Warn(loc.DiagnosticMessage{
			Code:       loc.WARNING_DEPRECATED_PROP_EXPORT,
			Text:       fmt.Sprintf("Deprecated prop export(s): %s", strings.Join(deprecatedProps, ", ")),
			Suggestion: "Declare props via a typed `Props` interface instead of `export let`.",
		})
	}

	body := strings.Join(kept, "")
	out, err := adapter.Transpile(body, origin)
	if err != nil {
		return Result{}, err
	}
	res.Script = out

	return res, nil
}

func recordImport(res *Result, imp jsscan.ImportStatement) {
	if imp.SideEffectOnly {
		alias := component.CustomElementAlias(imp.Specifier)
		res.CustomElementCandidates[alias] = imp.Specifier
		return
	}
	for _, n := range imp.Names {
		info := component.Info{SourceSpecifier: imp.Specifier}
		switch n.Kind {
		case jsscan.DefaultImport:
			info.SpecifierKind = component.DefaultImport
			info.ImportedLocalName = n.LocalName
		case jsscan.NamedImport:
			info.SpecifierKind = component.NamedImport
			info.ImportedLocalName = n.LocalName
			info.ImportedExportName = n.ExportedName
		case jsscan.NamespaceImport:
			info.SpecifierKind = component.NamespaceImport
			info.ImportedLocalName = n.LocalName
		}
		res.Components[n.LocalName] = info
	}
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func hasBalancedBraces(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth == 0
}

// rewriteFetchContent implements spec.md §4.5's rewrite step: every
// Astro.fetchContent(<stringLiteral>) call becomes
// Astro.fetchContent(import.meta.globEager(<stringLiteral>)); any other
// argument shape is a fatal error.
func rewriteFetchContent(script string, origin loc.Range) (string, bool, error) {
	var rewriteErr error
	rewrote := false
	out := fetchContentRe.ReplaceAllStringFunc(script, func(match string) string {
		if rewriteErr != nil {
			return match
		}
		sub := fetchContentRe.FindStringSubmatch(match)
		arg := sub[1]
		if !literalRe.MatchString(arg) {
			idx := strings.Index(script, match)
			rewriteErr = &loc.ErrorWithRange{
				Code:  loc.ERROR_FETCH_CONTENT_ARG,
				Text:  "`Astro.fetchContent` requires a string literal argument",
				Range: loc.Range{Loc: loc.Loc{Start: origin.Loc.Start + idx}, Len: len(match)},
			}
			return match
		}
		rewrote = true
		return fmt.Sprintf("Astro.fetchContent(import.meta.globEager(%s))", arg)
	})
	if rewriteErr != nil {
		return "", false, rewriteErr
	}
	return out, rewrote, nil
}

