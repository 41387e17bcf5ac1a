package template

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Signature describes the parameter list of a compiled template callable:
// ordered names, optional variadic collectors, and default values bound to
// the trailing len(Defaults) names.
type Signature struct {
	Args     []string // ordered parameter names
	VarArgs  string   // name of the *args collector, if any
	KwArgs   string   // name of the **kwargs collector, if any
	Defaults []any    // right-aligned against Args
}

// validate checks name validity, uniqueness, and default alignment.
func (s *Signature) validate() error {
	if len(s.Defaults) > len(s.Args) {
		return NewSignatureErrorf("%d default values for %d named parameters",
			len(s.Defaults), len(s.Args))
	}

	seen := make(map[string]bool, len(s.Args)+2)
	check := func(name, role string) error {
		if err := validateIdent(name); err != nil {
			return NewSignatureErrorf("invalid %s name %q: %v", role, name, err)
		}
		if strings.HasPrefix(name, "_tpl_") {
			return NewSignatureErrorf("%s name %q is reserved", role, name)
		}
		if seen[name] {
			return NewSignatureErrorf("duplicate parameter name %q", name)
		}
		seen[name] = true
		return nil
	}

	for _, name := range s.Args {
		if err := check(name, "parameter"); err != nil {
			return err
		}
	}
	if s.VarArgs != "" {
		if err := check(s.VarArgs, "varargs"); err != nil {
			return err
		}
	}
	if s.KwArgs != "" {
		if err := check(s.KwArgs, "kwargs"); err != nil {
			return err
		}
	}
	return nil
}

// paramList renders the Starlark parameter list, aligning default values to
// the tail of the named parameters (defaults bind right-to-left).
func (s *Signature) paramList() (string, error) {
	parts := make([]string, 0, len(s.Args)+2)
	offset := len(s.Args) - len(s.Defaults)
	for i, name := range s.Args {
		if i < offset {
			parts = append(parts, name)
			continue
		}
		lit, err := starlarkLiteral(s.Defaults[i-offset])
		if err != nil {
			return "", NewSignatureErrorf("default value for %q: %v", name, err)
		}
		parts = append(parts, name+"="+lit)
	}
	if s.VarArgs != "" {
		parts = append(parts, "*"+s.VarArgs)
	}
	if s.KwArgs != "" {
		parts = append(parts, "**"+s.KwArgs)
	}
	return strings.Join(parts, ", "), nil
}

// validateIdent checks that a name is a valid identifier.
func validateIdent(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	for i, r := range name {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return fmt.Errorf("must start with letter or underscore")
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return fmt.Errorf("invalid character %q", r)
		}
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// starlarkLiteral renders a Go value as Starlark literal syntax for use as a
// parameter default.
func starlarkLiteral(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "None", nil
	case bool:
		if val {
			return "True", nil
		}
		return "False", nil
	case string:
		return strconv.Quote(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return floatLiteral(float64(val))
	case float64:
		return floatLiteral(val)
	case []string:
		parts := make([]string, len(val))
		for i, s := range val {
			parts[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			lit, err := starlarkLiteral(item)
			if err != nil {
				return "", fmt.Errorf("list index %d: %w", i, err)
			}
			parts[i] = lit
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			lit, err := starlarkLiteral(val[k])
			if err != nil {
				return "", fmt.Errorf("dict key %q: %w", k, err)
			}
			parts[i] = strconv.Quote(k) + ": " + lit
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func floatLiteral(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite float has no literal form")
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}
