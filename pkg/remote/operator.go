package remote

import (
	"fmt"

	"github.com/mesh-intelligence/satchel/internal/dotpath"
	"github.com/mesh-intelligence/satchel/pkg/validate"
)

// Erase actions. Clear empties the target in place so existing references
// stay valid; Remove deletes the path entry from its parent entirely.
const (
	EraseClear  = "clear"
	EraseRemove = "remove"
)

// Operator reads, writes, and erases dotted paths under a base location in a
// bound external root. The root is caller-owned; the operator holds only a
// reference.
type Operator struct {
	root     map[string]any
	location string
	cfg      Config
}

// NewOperator binds an operator to root using the config's Location as the
// base path. The root must be a plain string-keyed mapping.
func NewOperator(root any, cfg Config) (*Operator, error) {
	if _, err := validate.Mapping("root", root, validate.Policy{Raise: true}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRoot, err)
	}
	return &Operator{root: root.(map[string]any), location: cfg.Location, cfg: cfg}, nil
}

// Location returns the operator's base path.
func (o *Operator) Location() string { return o.location }

// Read returns the whole object at the base location.
func (o *Operator) Read() (any, bool) {
	return dotpath.Get(o.root, o.location)
}

// ReadKey returns the value under a single key at the base location.
func (o *Operator) ReadKey(key string) (any, bool) {
	return dotpath.Get(o.root, dotpath.Join(o.location, key))
}

// ReadPath returns the value at an arbitrary sub-path under the base
// location.
func (o *Operator) ReadPath(path string) (any, bool) {
	return dotpath.Get(o.root, dotpath.Join(o.location, path))
}

// Write replaces the whole object at the base location, creating missing
// intermediate segments on the way.
func (o *Operator) Write(v any) error {
	return dotpath.Set(o.root, o.location, v)
}

// WriteKey writes under a single key at the base location, creating the
// location if missing.
func (o *Operator) WriteKey(key string, v any) error {
	return dotpath.Set(o.root, dotpath.Join(o.location, key), v)
}

// WritePath writes at an arbitrary sub-path under the base location,
// creating missing intermediates on the way.
func (o *Operator) WritePath(path string, v any) error {
	return dotpath.Set(o.root, dotpath.Join(o.location, path), v)
}

// Clear resets the sub-path to an empty mapping. The path entry survives: a
// mapping is emptied in place, which matters when other code already holds a
// reference to it, and a scalar is replaced by a fresh empty mapping.
func (o *Operator) Clear(path string) bool {
	return dotpath.Clear(o.root, dotpath.Join(o.location, path))
}

// Remove deletes the sub-path entry from its parent entirely.
func (o *Operator) Remove(path string) bool {
	return dotpath.Delete(o.root, dotpath.Join(o.location, path))
}

// Erase dispatches to Clear or Remove by action name.
func (o *Operator) Erase(action, path string) (bool, error) {
	switch action {
	case EraseClear:
		return o.Clear(path), nil
	case EraseRemove:
		return o.Remove(path), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownEraseAction, action)
}

// Zone wrappers. Each computes its base path from the config's sub-paths
// and delegates to the generic clear/remove primitives.

// ClearData empties the data zone in place.
func (o *Operator) ClearData() bool { return o.Clear(o.cfg.DataPath) }

// RemoveData deletes the data zone entry.
func (o *Operator) RemoveData() bool { return o.Remove(o.cfg.DataPath) }

// ClearFlags empties the flags zone in place.
func (o *Operator) ClearFlags() bool { return o.Clear(o.cfg.FlagsPath) }

// RemoveFlags deletes the flags zone entry.
func (o *Operator) RemoveFlags() bool { return o.Remove(o.cfg.FlagsPath) }

// ClearSettings empties the settings zone in place.
func (o *Operator) ClearSettings() bool { return o.Clear(o.cfg.SettingsPath) }

// RemoveSettings deletes the settings zone entry.
func (o *Operator) RemoveSettings() bool { return o.Remove(o.cfg.SettingsPath) }
