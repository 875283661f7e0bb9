package loc

import "fmt"

type DiagnosticCode int

const (
	ERROR                             DiagnosticCode = 1000
	ERROR_UNTERMINATED_JS_COMMENT     DiagnosticCode = 1001
	ERROR_FRAGMENT_SHORTHAND_ATTRS    DiagnosticCode = 1002
	ERROR_UNMATCHED_IMPORT            DiagnosticCode = 1003
	ERROR_UNSUPPORTED_SLOT_ATTRIBUTE  DiagnosticCode = 1004
	ERROR_UNRESOLVED_COMPONENT        DiagnosticCode = 1005
	ERROR_FETCH_CONTENT_ARG           DiagnosticCode = 1006
	ERROR_BUILTIN_MODULE              DiagnosticCode = 1007
	ERROR_HYDRATION_ON_FRONTMATTER    DiagnosticCode = 1008
	ERROR_UNKNOWN_NODE_KIND           DiagnosticCode = 1009
	ERROR_TRANSPILE_FAILURE           DiagnosticCode = 1010
	WARNING                           DiagnosticCode = 2000
	WARNING_UNTERMINATED_HTML_COMMENT DiagnosticCode = 2001
	WARNING_UNCLOSED_HTML_TAG         DiagnosticCode = 2002
	WARNING_DEPRECATED_DIRECTIVE      DiagnosticCode = 2003
	WARNING_IGNORED_DIRECTIVE         DiagnosticCode = 2004
	WARNING_UNSUPPORTED_EXPRESSION    DiagnosticCode = 2005
	WARNING_SET_WITH_CHILDREN         DiagnosticCode = 2006
	WARNING_CANNOT_DEFINE_VARS        DiagnosticCode = 2007
	WARNING_INVALID_SPREAD            DiagnosticCode = 2008
	WARNING_RELATIVE_PATH_LITERAL     DiagnosticCode = 2009
	WARNING_DEPRECATED_PROP_EXPORT    DiagnosticCode = 2010
	INFO                              DiagnosticCode = 3000
	HINT                              DiagnosticCode = 4000
)

// DiagnosticSeverity classifies a DiagnosticMessage the way an editor or CLI
// would render it.
type DiagnosticSeverity int

const (
	ErrorType DiagnosticSeverity = iota + 1
	WarningType
	InformationType
	HintType
)

// DiagnosticLocation is a resolved, human-facing position for a diagnostic.
type DiagnosticLocation struct {
	File   string
	Line   int
	Column int
	Length int
}

// DiagnosticMessage is the shape handed to a LoggingSink.
type DiagnosticMessage struct {
	Code       DiagnosticCode
	Text       string
	Hint       string
	Suggestion string
	Frame      string
	Severity   DiagnosticSeverity
	Location   *DiagnosticLocation
}

// ErrorWithRange is the carrier fatal/recoverable diagnostics are built
// from: a message plus the byte range in the original file it concerns.
// It implements error so it can be returned and wrapped with errors.As.
type ErrorWithRange struct {
	Code       DiagnosticCode
	Text       string
	Hint       string
	Suggestion string
	Range      Range
}

func (e *ErrorWithRange) Error() string {
	return e.Text
}

func (e *ErrorWithRange) ToMessage(location *DiagnosticLocation) DiagnosticMessage {
	return DiagnosticMessage{
		Code:       e.Code,
		Text:       e.Text,
		Hint:       e.Hint,
		Suggestion: e.Suggestion,
		Location:   location,
	}
}

func (e *ErrorWithRange) String() string {
	return fmt.Sprintf("%s (code %d)", e.Text, e.Code)
}
