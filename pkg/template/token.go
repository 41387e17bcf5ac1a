// Package template compiles text templates with embedded Starlark code into
// reusable render functions. Templates mix literal text with {{ expr }}
// insertions, {{ stmt: }} ... {{end}} control blocks, and free-form
// <% code %> blocks.
package template

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int // byte offset into the template source
}

// Kind identifies the type of a template token.
type Kind int

// Kind constants for template token types.
const (
	KindLiteral Kind = iota // literal text, emitted verbatim
	KindExpr                // {{ expr }}, value stringified and emitted
	KindStmt                // statement or code block, executed only
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "LITERAL"
	case KindExpr:
		return "EXPR"
	case KindStmt:
		return "STMT"
	default:
		return "UNKNOWN"
	}
}

// Token represents a single lexical unit of a template: a literal text chunk
// or a code chunk with its whitespace-trim flags.
type Token struct {
	Kind Kind
	Text string // literal text, or code content without delimiters/trim markers
	Pos  Position

	// TrimBefore strips trailing whitespace (including newlines) from the
	// preceding literal token; TrimAfter strips leading whitespace from the
	// following one. Set by `-` markers just inside the delimiters.
	TrimBefore bool
	TrimAfter  bool

	// Opens reports whether a statement ends with a block-opening colon at
	// code level (not inside a string literal or comment).
	Opens bool
}

// Delims holds the four region delimiters recognized by the lexer.
type Delims struct {
	InlineStart string // default "{{"
	InlineEnd   string // default "}}"
	BlockStart  string // default "<%"
	BlockEnd    string // default "%>"
}

// DefaultDelims returns the standard delimiter set.
func DefaultDelims() Delims {
	return Delims{
		InlineStart: "{{",
		InlineEnd:   "}}",
		BlockStart:  "<%",
		BlockEnd:    "%>",
	}
}

// withDefaults fills any empty delimiter with its standard value.
func (d Delims) withDefaults() Delims {
	def := DefaultDelims()
	if d.InlineStart == "" {
		d.InlineStart = def.InlineStart
	}
	if d.InlineEnd == "" {
		d.InlineEnd = def.InlineEnd
	}
	if d.BlockStart == "" {
		d.BlockStart = def.BlockStart
	}
	if d.BlockEnd == "" {
		d.BlockEnd = def.BlockEnd
	}
	return d
}
