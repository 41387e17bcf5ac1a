// Package starlark provides the Starlark evaluation backend for compiled
// templates: one-time program compilation, invocation with Go arguments, and
// value conversion across the boundary.
package starlark

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Backend compiles generated template programs and hands out their entry
// functions. A single Backend may be shared by any number of templates; its
// thread pool is safe for concurrent use.
type Backend struct {
	pool *ThreadPool
	opts *syntax.FileOptions
}

// NewBackend creates a backend. Sets, while loops, and recursion are enabled
// so template authors get the full statement language inside code blocks.
func NewBackend() *Backend {
	return &Backend{
		pool: NewThreadPool(8),
		opts: &syntax.FileOptions{
			Set:       true,
			While:     true,
			Recursion: true,
		},
	}
}

// Compile executes the generated program once and extracts the entry
// function from its module globals. globals become predeclared bindings
// visible to the embedded code.
func (b *Backend) Compile(name, src, entry string, globals map[string]any) (*Program, error) {
	predeclared, err := Predeclared(globals)
	if err != nil {
		return nil, err
	}

	thread := b.pool.Get("compile:" + name)
	defer b.pool.Put(thread)

	module, err := starlark.ExecFileOptions(b.opts, thread, name, []byte(src), predeclared)
	if err != nil {
		return nil, err
	}

	fn, ok := module[entry].(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("generated program does not define function %q", entry)
	}

	return &Program{name: name, fn: fn, pool: b.pool}, nil
}

// Check parses the generated program without executing or resolving it.
func (b *Backend) Check(name, src string) error {
	_, err := b.opts.Parse(name, []byte(src), 0)
	return err
}

// Program is a compiled template entry function bound to the backend's
// thread pool.
type Program struct {
	name string
	fn   *starlark.Function
	pool *ThreadPool
}

// Call invokes the entry function with positional and keyword arguments and
// returns the rendered string. Keyword arguments are passed in sorted order
// for deterministic error messages.
func (p *Program) Call(args []any, kwargs map[string]any) (string, error) {
	pos := make(starlark.Tuple, len(args))
	for i, arg := range args {
		v, err := GoToStarlark(arg)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		pos[i] = v
	}

	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)

	kw := make([]starlark.Tuple, 0, len(kwargs))
	for _, name := range names {
		v, err := GoToStarlark(kwargs[name])
		if err != nil {
			return "", fmt.Errorf("argument %q: %w", name, err)
		}
		kw = append(kw, starlark.Tuple{starlark.String(name), v})
	}

	thread := p.pool.Get(p.name)
	defer p.pool.Put(thread)

	result, err := starlark.Call(thread, p.fn, pos, kw)
	if err != nil {
		return "", err
	}

	switch v := result.(type) {
	case starlark.String:
		return string(v), nil
	case starlark.NoneType:
		return "", nil
	default:
		return v.String(), nil
	}
}

// Predeclared converts a Go map into the predeclared bindings visible to a
// generated program.
func Predeclared(globals map[string]any) (starlark.StringDict, error) {
	if len(globals) == 0 {
		return nil, nil
	}
	dict := make(starlark.StringDict, len(globals))
	for name, value := range globals {
		v, err := GoToStarlark(value)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", name, err)
		}
		dict[name] = v
	}
	return dict, nil
}
