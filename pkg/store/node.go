package store

// Node is the sealed two-variant choice between a scalar leaf (*Item) and a
// subtree (*Container). The decision between the two is made once, in Wrap,
// rather than re-derived by type inspection at every call site.
type Node interface {
	node()
}

// WrapOptions controls how Wrap classifies a raw value.
type WrapOptions struct {
	// AllowContainer wraps plain string-keyed mappings as Containers.
	// When false every value, mappings included, becomes an Item.
	AllowContainer bool

	// Metadata is attached to the created node.
	Metadata map[string]any

	// ItemOptions configure access recording on the created node.
	ItemOptions []ItemOption
}

// DefaultWrapOptions wraps mappings as Containers.
func DefaultWrapOptions() WrapOptions {
	return WrapOptions{AllowContainer: true}
}

// Wrap decides whether a raw value becomes an Item or a Container.
//
// A value that is already a Node is returned unchanged, preserving its
// reference and nested state. A plain string-keyed mapping becomes a new
// Container populated from it when AllowContainer is set. Everything else
// becomes an Item.
func Wrap(value any, opts WrapOptions) (Node, error) {
	switch v := value.(type) {
	case *Container:
		if opts.AllowContainer {
			return v, nil
		}
	case *Item:
		return v, nil
	case map[string]any:
		if opts.AllowContainer {
			return NewContainer(v, opts.Metadata, opts.ItemOptions...)
		}
	}
	return NewItem(value, opts.Metadata, opts.ItemOptions...), nil
}

// cloneNode deep-copies a node, preserving timestamps and flags.
func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Item:
		return cloneItem(v)
	case *Container:
		return cloneContainer(v)
	}
	return n
}
