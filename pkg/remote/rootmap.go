package remote

import (
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/satchel/internal/dotpath"
)

// ModuleMarker is the special root-map value meaning "look up the host
// module in the registry".
const ModuleMarker = "@module"

// ModuleRegistry exposes host modules by id. A collaborator owned by the
// host application.
type ModuleRegistry interface {
	Module(id string) (any, bool)
}

// ParseArgs carries the inputs for ParseRootMap.
type ParseArgs struct {
	// RootMap is the mapping to resolve. Must be non-nil and non-empty.
	RootMap map[string]any

	// Key, when non-empty, restricts resolution to that single entry.
	Key string

	// Namespace is the host object graph dotted paths resolve against.
	Namespace map[string]any

	// Registry resolves the module marker.
	Registry ModuleRegistry

	// ModuleID is the host module id the marker looks up.
	ModuleID string
}

// NestedMap marks a root-map value as a nested root map whose entries are
// resolved recursively. A plain map[string]any is never recursed: it passes
// through untouched as an already-resolved object, so host graphs can be
// handed over directly.
type NestedMap map[string]any

// ParseRootMap resolves each root-map entry (or just args.Key when given) to
// a concrete object: nil stays nil, the module marker resolves through the
// registry, any other non-empty string is a dotted path resolved against the
// namespace, a NestedMap recurses, and any already-constructed object
// (a plain mapping included) passes through unchanged. Underlying resolution
// failures propagate; they are never swallowed here.
func ParseRootMap(args ParseArgs) (map[string]any, error) {
	if len(args.RootMap) == 0 {
		return nil, ErrEmptyRootMap
	}

	if args.Key != "" {
		v, ok := args.RootMap[args.Key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrRootKeyNotFound, args.Key)
		}
		resolved, err := resolveEntry(args.Key, v, args)
		if err != nil {
			return nil, err
		}
		return map[string]any{args.Key: resolved}, nil
	}

	out := make(map[string]any, len(args.RootMap))
	for key, v := range args.RootMap {
		resolved, err := resolveEntry(key, v, args)
		if err != nil {
			return nil, err
		}
		out[key] = resolved
	}
	return out, nil
}

// resolveEntry resolves one root-map entry. key is used only for error
// messages.
func resolveEntry(key string, v any, args ParseArgs) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t := v.(type) {
	case string:
		if t == ModuleMarker {
			return lookupModule(args)
		}
		if t == "" {
			return nil, fmt.Errorf("%w: key %q holds an empty string", ErrInvalidRootMapEntry, key)
		}
		resolved, ok := dotpath.Get(args.Namespace, t)
		if !ok {
			return nil, fmt.Errorf("%w: key %q, path %q", ErrPathNotFound, key, t)
		}
		return resolved, nil
	case NestedMap:
		nested := args
		nested.RootMap = map[string]any(t)
		nested.Key = ""
		return ParseRootMap(nested)
	}

	// Scalar values cannot name anything; everything else is treated as an
	// already-resolved object and passed through by reference.
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return nil, fmt.Errorf("%w: key %q holds %T", ErrInvalidRootMapEntry, key, v)
	}
	return v, nil
}

// lookupModule resolves the module marker through the registry.
func lookupModule(args ParseArgs) (any, error) {
	if args.Registry == nil {
		return nil, fmt.Errorf("%w: id %q (no registry)", ErrModuleNotFound, args.ModuleID)
	}
	mod, ok := args.Registry.Module(args.ModuleID)
	if !ok {
		return nil, fmt.Errorf("%w: id %q", ErrModuleNotFound, args.ModuleID)
	}
	return mod, nil
}
