// Package dotpath navigates externally owned map graphs through dotted
// string paths: lookup, create-on-write assignment, in-place clearing, and
// entry removal. The graphs are plain string-keyed mappings the caller owns;
// this package never copies or retains them.
// See docs/ARCHITECTURE.md § Remote Binding.
package dotpath

import (
	"errors"
	"strings"
)

// ErrNotTraversable is returned by Set when an intermediate segment resolves
// to a value that is neither missing nor a mapping and cannot be descended
// into without discarding it.
var ErrNotTraversable = errors.New("path segment is not traversable")

// Split breaks a dotted path into its segments. An empty path yields nil.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Join composes a dotted path from non-empty parts.
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

// Get resolves path against root and reports whether every segment was
// found. An empty path resolves to root itself.
func Get(root any, path string) (any, bool) {
	cur := root
	for _, seg := range Split(path) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether path resolves against root.
func Has(root any, path string) bool {
	_, ok := Get(root, path)
	return ok
}

// Set writes v at path, creating missing intermediate mappings on the way.
// An intermediate holding a scalar is replaced by a fresh mapping, matching
// safe nested-path-set semantics. An empty path is rejected: the root itself
// belongs to the caller and cannot be reassigned.
func Set(root map[string]any, path string, v any) error {
	segs := Split(path)
	if len(segs) == 0 {
		return ErrNotTraversable
	}
	cur := root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
	return nil
}

// Clear resets the value at path to an empty mapping. The path entry
// survives: a mapping is emptied in place, so references other code already
// holds stay valid, while a scalar is replaced by a fresh empty mapping in
// its parent. It reports whether the path resolved.
func Clear(root map[string]any, path string) bool {
	target, ok := Get(root, path)
	if !ok {
		return false
	}
	if m, ok := target.(map[string]any); ok {
		for k := range m {
			delete(m, k)
		}
		return true
	}
	return Set(root, path, map[string]any{}) == nil
}

// Delete removes the entry at path from its parent entirely. It reports
// whether an entry was actually removed.
func Delete(root map[string]any, path string) bool {
	segs := Split(path)
	if len(segs) == 0 {
		return false
	}
	parentPath := strings.Join(segs[:len(segs)-1], ".")
	parent, ok := Get(root, parentPath)
	if !ok {
		return false
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return false
	}
	last := segs[len(segs)-1]
	if _, ok := m[last]; !ok {
		return false
	}
	delete(m, last)
	return true
}
