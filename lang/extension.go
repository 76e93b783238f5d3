package lang

import (
	"log/slog"
	"sort"
	"strings"
)

// ExtensionFunc is the body of a caller-registered function. It receives
// the evaluation context, including the embedder's State, and its
// already-evaluated arguments.
type ExtensionFunc func(ctx *Context, args []Value) (Value, error)

// Extension declares a caller-registered function. The lexer recognizes
// Name case-insensitively and the parser enforces the parameter bounds
// exactly as it does for built-ins.
type Extension struct {
	Name          string
	MinParameters int
	MaxParameters int
	Func          ExtensionFunc
}

// Registry holds the set of registered extensions for a parse.
// A nil Registry is valid and empty.
type Registry struct {
	byName map[string]Extension // keyed by lowercased name
	names  []string             // sorted lowercased names, for cache keys
}

// NewRegistry builds a registry from the given extensions.
// Names are registered case-insensitively; duplicates are rejected.
func NewRegistry(exts ...Extension) (*Registry, error) {
	reg := &Registry{
		byName: make(map[string]Extension, len(exts)),
	}

	for _, ext := range exts {
		if ext.Name == "" || ext.Func == nil {
			return nil, ErrInvalidExtension.
				With(slog.String("name", ext.Name))
		}

		if ext.MinParameters < 0 || ext.MaxParameters < ext.MinParameters {
			return nil, ErrInvalidExtension.
				With(
					slog.String("name", ext.Name),
					slog.Int("min", ext.MinParameters),
					slog.Int("max", ext.MaxParameters),
				)
		}

		key := strings.ToLower(ext.Name)
		if _, exists := reg.byName[key]; exists {
			return nil, ErrDuplicateExtension.
				With(slog.String("name", ext.Name))
		}

		reg.byName[key] = ext
		reg.names = append(reg.names, key)
	}

	sort.Strings(reg.names)

	return reg, nil
}

// Lookup retrieves an extension by case-insensitive name.
func (r *Registry) Lookup(name string) (Extension, bool) {
	if r == nil {
		return Extension{}, false
	}

	ext, ok := r.byName[strings.ToLower(name)]

	return ext, ok
}

// Names returns the sorted lowercased extension names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	return r.names
}
