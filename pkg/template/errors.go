package template

import "fmt"

// Error is the base interface for all template errors.
type Error interface {
	error
	Position() Position
}

// baseError provides common error functionality.
type baseError struct {
	pos Position
	msg string
}

func (e *baseError) Position() Position { return e.pos }
func (e *baseError) Error() string {
	if e.pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.pos.File, e.pos.Line, e.pos.Column, e.msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
}

// LexError represents an error during tokenization, such as an opening
// delimiter with no matching closing delimiter.
type LexError struct {
	baseError
}

// NewLexError creates a new lexer error.
func NewLexError(pos Position, msg string) *LexError {
	return &LexError{baseError: baseError{pos: pos, msg: msg}}
}

// NewLexErrorf creates a new lexer error with formatting.
func NewLexErrorf(pos Position, format string, args ...any) *LexError {
	return &LexError{baseError: baseError{pos: pos, msg: fmt.Sprintf(format, args...)}}
}

// StructureKind identifies the kind of block-nesting imbalance.
type StructureKind int

// StructureKind constants.
const (
	UnmatchedEnd StructureKind = iota // 'end' with no open block
	UnclosedBlock                     // open block with no 'end'
	DanglingElse                      // elif/else with no open block
)

func (k StructureKind) String() string {
	switch k {
	case UnmatchedEnd:
		return "unmatched end"
	case UnclosedBlock:
		return "unclosed block"
	case DanglingElse:
		return "dangling else"
	default:
		return "unknown"
	}
}

// StructureError indicates a control flow block without its counterpart.
type StructureError struct {
	baseError
	Kind StructureKind
}

// NewStructureError creates a new structure error.
func NewStructureError(pos Position, kind StructureKind) *StructureError {
	var msg string
	switch kind {
	case UnmatchedEnd:
		msg = "'end' without matching block opener"
	case UnclosedBlock:
		msg = "unclosed block (missing 'end')"
	case DanglingElse:
		msg = "'elif'/'else' without matching block opener"
	default:
		msg = fmt.Sprintf("unbalanced block: %s", kind)
	}
	return &StructureError{
		baseError: baseError{pos: pos, msg: msg},
		Kind:      kind,
	}
}

// SignatureError indicates an invalid callable signature: defaults longer
// than the parameter list, duplicate or malformed parameter names, or a
// default value with no Starlark literal representation.
type SignatureError struct {
	msg string
}

// NewSignatureErrorf creates a new signature error with formatting.
func NewSignatureErrorf(format string, args ...any) *SignatureError {
	return &SignatureError{msg: fmt.Sprintf(format, args...)}
}

func (e *SignatureError) Error() string { return "signature: " + e.msg }

// CompileError indicates the generated program was rejected by the Starlark
// compiler, typically because of a syntax mistake in an embedded expression.
type CompileError struct {
	baseError
	Cause error // underlying Starlark diagnostic
}

// WrapCompileError wraps an underlying error as a compile error.
func WrapCompileError(pos Position, msg string, cause error) *CompileError {
	return &CompileError{
		baseError: baseError{pos: pos, msg: msg},
		Cause:     cause,
	}
}

func (e *CompileError) Error() string {
	base := e.baseError.Error()
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *CompileError) Unwrap() error { return e.Cause }

// RenderError represents an error during template invocation: embedded code
// raising at evaluation time, or a missing required argument.
type RenderError struct {
	baseError
	Cause error // underlying Starlark error, if any
}

// NewRenderErrorf creates a new render error with formatting.
func NewRenderErrorf(pos Position, format string, args ...any) *RenderError {
	return &RenderError{baseError: baseError{pos: pos, msg: fmt.Sprintf(format, args...)}}
}

// WrapRenderError wraps an underlying error as a render error.
func WrapRenderError(pos Position, msg string, cause error) *RenderError {
	return &RenderError{
		baseError: baseError{pos: pos, msg: msg},
		Cause:     cause,
	}
}

func (e *RenderError) Error() string {
	base := e.baseError.Error()
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *RenderError) Unwrap() error { return e.Cause }
