package template

import (
	"sort"
	"strings"
)

// entryName is the function the generated program defines.
const entryName = "_tpl_render"

// Backend compiles generated programs. Implementations wrap an evaluator for
// the embedded language; the default wraps the Starlark interpreter.
type Backend interface {
	// Compile executes the generated program once and returns its entry
	// function as an invocable Program. globals become predeclared bindings
	// visible to the embedded code.
	Compile(name, src, entry string, globals map[string]any) (Program, error)
	// Check validates the generated program's syntax without executing it.
	Check(name, src string) error
}

// Program is a compiled template body ready for invocation.
type Program interface {
	Call(args []any, kwargs map[string]any) (string, error)
}

type options struct {
	name    string
	delims  Delims
	sig     Signature
	globals map[string]any
	backend Backend
}

// Option configures Compile, Check, Tokenize, and Render.
type Option func(*options)

// WithName sets the template name used in diagnostics (e.g. a file path).
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithArgs declares the ordered parameter names of the compiled callable.
// Template expressions refer to parameters as ordinary bindings.
func WithArgs(names ...string) Option { return func(o *options) { o.sig.Args = names } }

// WithVarArgs names the variadic positional collector (*name).
func WithVarArgs(name string) Option { return func(o *options) { o.sig.VarArgs = name } }

// WithKwArgs names the variadic keyword collector (**name).
func WithKwArgs(name string) Option { return func(o *options) { o.sig.KwArgs = name } }

// WithDefaults binds default values to the trailing parameters: n defaults
// bind to the last n names passed to WithArgs.
func WithDefaults(values ...any) Option { return func(o *options) { o.sig.Defaults = values } }

// WithDelims overrides the region delimiters.
func WithDelims(d Delims) Option { return func(o *options) { o.delims = d } }

// WithGlobals exposes extra named bindings to the embedded code of every
// render of the template.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) { o.globals = globals }
}

// WithBackend substitutes the evaluation backend.
func WithBackend(b Backend) Option { return func(o *options) { o.backend = b } }

func buildOptions(opts []Option) *options {
	o := &options{
		name:    "template",
		delims:  DefaultDelims(),
		backend: defaultBackend,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Template is a compiled template. It is immutable and safe for concurrent
// use: every invocation runs on its own evaluator thread and touches only
// its arguments and locals.
type Template struct {
	name    string
	source  string
	program Program
}

// Compile compiles a template into a reusable callable. The callable's
// signature mirrors (args..., *varargs, **kwargs) with defaults bound to the
// trailing names. A failing compile never returns a partially built
// Template.
func Compile(src string, opts ...Option) (*Template, error) {
	o := buildOptions(opts)
	prog, err := generateProgram(src, o)
	if err != nil {
		return nil, err
	}
	p, err := o.backend.Compile(o.name, prog, entryName, o.globals)
	if err != nil {
		return nil, WrapCompileError(Position{File: o.name}, "compiling generated program", err)
	}
	return &Template{name: o.name, source: prog, program: p}, nil
}

// Render compiles a template and invokes it immediately with vars as keyword
// arguments. The var names become the callable's parameters, so template
// expressions can refer to them directly.
func Render(src string, vars map[string]any, opts ...Option) (string, error) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	opts = append(opts[:len(opts):len(opts)], WithArgs(names...))
	t, err := Compile(src, opts...)
	if err != nil {
		return "", err
	}
	return t.RenderNamed(nil, vars)
}

// Check validates a template without executing anything: tokenization, block
// structure, and the syntax of the generated program. Unlike Compile it does
// not resolve names, so templates can be checked without knowing their
// inputs.
func Check(src string, opts ...Option) error {
	o := buildOptions(opts)
	prog, err := generateProgram(src, o)
	if err != nil {
		return err
	}
	if err := o.backend.Check(o.name, prog); err != nil {
		return WrapCompileError(Position{File: o.name}, "invalid generated program", err)
	}
	return nil
}

// Tokenize scans a template into its token stream. Debugging surface used by
// the inspect command.
func Tokenize(src string, opts ...Option) ([]Token, error) {
	o := buildOptions(opts)
	return NewLexer(src, o.name, o.delims).Tokenize()
}

// GenerateSource runs the compilation pipeline up to (but not including) the
// evaluator and returns the generated program source.
func GenerateSource(src string, opts ...Option) (string, error) {
	return generateProgram(src, buildOptions(opts))
}

// generateProgram runs the text pipeline: validate the signature, tokenize,
// structure, and wrap the body in a function definition.
func generateProgram(src string, o *options) (string, error) {
	if err := o.sig.validate(); err != nil {
		return "", err
	}
	params, err := o.sig.paramList()
	if err != nil {
		return "", err
	}
	tokens, err := NewLexer(src, o.name, o.delims).Tokenize()
	if err != nil {
		return "", err
	}
	body, err := generate(tokens)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("def " + entryName + "(" + params + "):\n")
	b.WriteString(indentUnit + accumulator + " = []\n")
	for _, line := range body {
		b.WriteString(indentUnit + line + "\n")
	}
	b.WriteString(indentUnit + `return "".join(` + accumulator + ")\n")
	return b.String(), nil
}

// Render invokes the compiled template with positional arguments.
func (t *Template) Render(args ...any) (string, error) {
	return t.RenderNamed(args, nil)
}

// RenderNamed invokes the compiled template with positional and keyword
// arguments and returns the rendered string. Failures (embedded code
// raising, missing required arguments) are RenderErrors; no partial output
// is ever returned.
func (t *Template) RenderNamed(args []any, kwargs map[string]any) (string, error) {
	out, err := t.program.Call(args, kwargs)
	if err != nil {
		return "", WrapRenderError(Position{File: t.name}, "render failed", err)
	}
	return out, nil
}

// Name returns the diagnostic name the template was compiled with.
func (t *Template) Name() string { return t.name }

// Source returns the generated program source.
func (t *Template) Source() string { return t.source }
