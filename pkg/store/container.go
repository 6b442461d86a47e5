package store

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/satchel/pkg/validate"
)

// Reserved child key names. These collide with the container's own record
// fields and are forbidden as keys.
var reservedKeys = map[string]bool{
	"value":          true,
	"metadata":       true,
	"size":           true,
	"createdAt":      true,
	"modifiedAt":     true,
	"lastAccessedAt": true,
	"recordAccess":   true,
}

// raiseOnly surfaces key/shape failures as errors without logging; container
// mutators have no logger of their own.
var raiseOnly = validate.Policy{Raise: true}

// Container is a named collection of Items and Containers, itself carrying
// metadata and timestamps. A Container exclusively owns its children: a
// child's lifetime ends when it is removed, replaced, or the container is
// cleared or reinitialized.
type Container struct {
	record
	children map[string]Node
}

func (*Container) node() {}

// NewContainer creates a Container populated from value. Keys in value must
// be non-empty and non-reserved.
func NewContainer(value map[string]any, metadata map[string]any, opts ...ItemOption) (*Container, error) {
	o := defaultItemOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Container{
		record:   newRecord(metadata, o.recordAccess, o.recordMetadataAccess),
		children: make(map[string]Node, len(value)),
	}
	children, err := buildChildren(value)
	if err != nil {
		return nil, err
	}
	c.children = children
	return c, nil
}

// buildChildren wraps every entry of value, validating keys up front so a
// bad entry never leaves a half-populated map behind.
func buildChildren(value map[string]any) (map[string]Node, error) {
	children := make(map[string]Node, len(value))
	for k, v := range value {
		if err := checkKey(k); err != nil {
			return nil, err
		}
		n, err := Wrap(v, DefaultWrapOptions())
		if err != nil {
			return nil, err
		}
		children[k] = n
	}
	return children, nil
}

// checkKey applies the key checks in fixed order: existence and type through
// the validation contract, then the reserved-name check.
func checkKey(key string) error {
	if _, err := validate.NonEmptyString("key", key, raiseOnly); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if reservedKeys[key] {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	return nil
}

// SetItem creates or replaces the child under key, wrapping value as an Item
// or Container. A successful write always bumps modifiedAt; a failed one
// leaves the container unchanged.
func (c *Container) SetItem(key string, value any, opts ...ItemOption) error {
	if err := checkKey(key); err != nil {
		return err
	}
	n, err := Wrap(value, WrapOptions{AllowContainer: true, ItemOptions: opts})
	if err != nil {
		return err
	}
	c.children[key] = n
	c.touchModify()
	return nil
}

// GetItem returns the child node under key. The lookup bumps the container's
// own lastAccessedAt when access recording is on; the child's timestamps are
// untouched until the child itself is dereferenced.
func (c *Container) GetItem(key string) (Node, bool) {
	c.touchAccess()
	n, ok := c.children[key]
	return n, ok
}

// GetValue unwraps and returns the child's value, bumping both the
// container's and the child's access timestamps.
func (c *Container) GetValue(key string) (any, bool) {
	c.touchAccess()
	n, ok := c.children[key]
	if !ok {
		return nil, false
	}
	switch v := n.(type) {
	case *Item:
		return v.Value(), true
	case *Container:
		return v.Value(), true
	}
	return nil, false
}

// RemoveItem deletes the child under key. modifiedAt is bumped only when
// something was actually removed.
func (c *Container) RemoveItem(key string) bool {
	if _, ok := c.children[key]; !ok {
		return false
	}
	delete(c.children, key)
	c.touchModify()
	return true
}

// HasItem reports whether a child exists under key. Bumps the container's
// access timestamp.
func (c *Container) HasItem(key string) bool {
	c.touchAccess()
	_, ok := c.children[key]
	return ok
}

// ClearItems removes every child. modifiedAt is bumped only when the
// container was non-empty beforehand.
func (c *Container) ClearItems() {
	if len(c.children) == 0 {
		return
	}
	c.children = make(map[string]Node)
	c.touchModify()
}

// Size returns the number of children. Bumps the access timestamp.
func (c *Container) Size() int {
	c.touchAccess()
	return len(c.children)
}

// Keys returns a sorted snapshot of the child keys taken at call time, not a
// live view. Bumps the access timestamp.
func (c *Container) Keys() []string {
	c.touchAccess()
	keys := make([]string, 0, len(c.children))
	for k := range c.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns a snapshot of the child nodes in key order. Bumps the access
// timestamp.
func (c *Container) Items() []Node {
	keys := c.Keys()
	items := make([]Node, 0, len(keys))
	for _, k := range keys {
		items = append(items, c.children[k])
	}
	return items
}

// Entry pairs a child key with its node.
type Entry struct {
	Key  string
	Node Node
}

// Entries returns a snapshot of key/node pairs in key order. Bumps the
// access timestamp.
func (c *Container) Entries() []Entry {
	keys := c.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Node: c.children[k]})
	}
	return entries
}

// Value returns a plain mapping of key to unwrapped child value, touching
// every child's access timestamp along the way.
func (c *Container) Value() map[string]any {
	c.touchAccess()
	out := make(map[string]any, len(c.children))
	for k, n := range c.children {
		switch v := n.(type) {
		case *Item:
			out[k] = v.Value()
		case *Container:
			out[k] = v.Value()
		}
	}
	return out
}

// SetValue atomically replaces all children from a plain mapping, bumping
// modifiedAt once. A value that is not a plain mapping, or a mapping with a
// bad key, fails validation and leaves the container unchanged.
func (c *Container) SetValue(v any) error {
	if _, err := validate.Mapping("value", v, raiseOnly); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	children, err := buildChildren(v.(map[string]any))
	if err != nil {
		return err
	}
	c.children = children
	c.touchModify()
	return nil
}

// Reinitialize fully resets the container in place while preserving its
// identity: children are discarded, metadata replaced, all three timestamps
// reset to now, and the container repopulated from newValue.
func (c *Container) Reinitialize(newValue map[string]any, newMetadata map[string]any, opts ...ItemOption) error {
	children, err := buildChildren(newValue)
	if err != nil {
		return err
	}
	o := itemOptions{recordAccess: c.recordAccess, recordMetadataAccess: c.recordMetadataAccess}
	for _, opt := range opts {
		opt(&o)
	}
	md := make(map[string]any, len(newMetadata))
	for k, v := range newMetadata {
		md[k] = v
	}
	c.children = children
	c.metadata = md
	c.recordAccess = o.recordAccess
	c.recordMetadataAccess = o.recordMetadataAccess
	c.resetClock()
	return nil
}

// cloneContainer deep-copies the container and its subtree, preserving
// timestamps and flags.
func cloneContainer(c *Container) *Container {
	children := make(map[string]Node, len(c.children))
	for k, n := range c.children {
		children[k] = cloneNode(n)
	}
	return &Container{record: cloneRecord(&c.record), children: children}
}

// plainValue unwraps a node to its raw value without touching any timestamp.
// The comparator and exporter use it so reads stay non-mutating.
func plainValue(n Node) any {
	switch v := n.(type) {
	case *Item:
		return v.value
	case *Container:
		out := make(map[string]any, len(v.children))
		for k, child := range v.children {
			out[k] = plainValue(child)
		}
		return out
	}
	return nil
}
