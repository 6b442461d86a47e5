package store

import (
	"fmt"
	"strings"
)

// The seven fixed container names. The set is closed; a Context never grows
// an eighth slot.
const (
	ContainerSchema    = "schema"
	ContainerConstants = "constants"
	ContainerManifest  = "manifest"
	ContainerFlags     = "flags"
	ContainerState     = "state"
	ContainerData      = "data"
	ContainerSettings  = "settings"
)

// ContainerNames lists all fixed container names for enumeration.
var ContainerNames = []string{
	ContainerSchema,
	ContainerConstants,
	ContainerManifest,
	ContainerFlags,
	ContainerState,
	ContainerData,
	ContainerSettings,
}

// Context aggregates exactly seven named Containers and exposes path-based
// access to them. A dotted path "<container>.<subpath...>" addresses one
// container, then resolves the remainder inside it.
type Context struct {
	containers map[string]*Container
}

// Holder is the capability interface for wrappers that expose a Context.
// Sync entry points accept either a *Context or any Holder; the check is on
// capability, not type identity.
type Holder interface {
	Context() *Context
}

// New creates a Context with all seven containers empty.
func New() *Context {
	containers := make(map[string]*Container, len(ContainerNames))
	for _, name := range ContainerNames {
		c, _ := NewContainer(nil, nil)
		containers[name] = c
	}
	return &Context{containers: containers}
}

// FromMap builds a Context from a plain mapping of container name to child
// values. Unknown top-level keys fail with ErrUnknownContainer.
func FromMap(m map[string]any) (*Context, error) {
	ctx := New()
	for name, v := range m {
		c, err := ctx.Container(name)
		if err != nil {
			return nil, err
		}
		if err := c.SetValue(v); err != nil {
			return nil, fmt.Errorf("container %q: %w", name, err)
		}
	}
	return ctx, nil
}

// Container returns the fixed container under name.
func (ctx *Context) Container(name string) (*Container, error) {
	c, ok := ctx.containers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContainer, name)
	}
	return c, nil
}

// splitPath splits a dotted path into its first segment and the remainder.
func splitPath(path string) (head, rest string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// GetItem resolves a dotted path to the node it addresses. The walk bumps
// each traversed container's access timestamp per its recording flag.
func (ctx *Context) GetItem(path string) (Node, error) {
	head, rest := splitPath(path)
	c, err := ctx.Container(head)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return c, nil
	}
	return resolveIn(c, path, rest)
}

// resolveIn walks rest segment by segment inside c. fullPath is used only
// for error messages.
func resolveIn(c *Container, fullPath, rest string) (Node, error) {
	cur := c
	for {
		head, tail := splitPath(rest)
		n, ok := cur.GetItem(head)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrItemNotFound, fullPath)
		}
		if tail == "" {
			return n, nil
		}
		sub, ok := n.(*Container)
		if !ok {
			return nil, fmt.Errorf("%w: %q (segment %q is a leaf)", ErrItemNotFound, fullPath, head)
		}
		cur, rest = sub, tail
	}
}

// GetValue resolves a dotted path and returns the unwrapped value at it,
// bumping access timestamps the way Container.GetValue does.
func (ctx *Context) GetValue(path string) (any, error) {
	n, err := ctx.GetItem(path)
	if err != nil {
		return nil, err
	}
	switch v := n.(type) {
	case *Item:
		return v.Value(), nil
	case *Container:
		return v.Value(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrItemNotFound, path)
}

// SetItem writes value at a dotted path, creating intermediate containers on
// the way. An intermediate that currently holds a leaf is replaced by a
// fresh container, matching safe nested-path-set semantics.
func (ctx *Context) SetItem(path string, value any, opts ...ItemOption) error {
	head, rest := splitPath(path)
	c, err := ctx.Container(head)
	if err != nil {
		return err
	}
	if rest == "" {
		return fmt.Errorf("%w: path %q addresses a fixed container", ErrInvalidKey, path)
	}
	cur := c
	for {
		key, tail := splitPath(rest)
		if tail == "" {
			return cur.SetItem(key, value, opts...)
		}
		n, ok := cur.children[key]
		sub, isContainer := n.(*Container)
		if !ok || !isContainer {
			sub, err = NewContainer(nil, nil)
			if err != nil {
				return err
			}
			if err := cur.SetItem(key, sub); err != nil {
				return err
			}
		}
		cur, rest = sub, tail
	}
}

// Export returns a plain nested mapping of the whole context, one top-level
// key per container. The walk is non-mutating: no access timestamp moves.
func (ctx *Context) Export() map[string]any {
	out := make(map[string]any, len(ctx.containers))
	for name, c := range ctx.containers {
		out[name] = plainValue(c)
	}
	return out
}
