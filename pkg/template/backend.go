package template

import (
	starback "github.com/leapstack-labs/startpl/internal/starlark"
)

// defaultBackend is the shared Starlark backend used when WithBackend is not
// given. The backend is stateless apart from its thread pool, which is safe
// for concurrent use.
var defaultBackend Backend = starlarkBackend{backend: starback.NewBackend()}

// starlarkBackend adapts the concrete Starlark backend to the Backend
// interface.
type starlarkBackend struct {
	backend *starback.Backend
}

func (s starlarkBackend) Compile(name, src, entry string, globals map[string]any) (Program, error) {
	p, err := s.backend.Compile(name, src, entry, globals)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s starlarkBackend) Check(name, src string) error {
	return s.backend.Check(name, src)
}
