// Package store implements the in-memory hierarchical context store: leaf
// Items, Container trees, the seven-container Context aggregate, and the
// comparison and sync engine built on top of them.
// See docs/ARCHITECTURE.md § Core Store.
package store

// Item is a leaf value plus metadata and access/modification timestamps.
type Item struct {
	record
	value any
}

func (*Item) node() {}

// ItemOption configures access recording on a new Item or Container.
type ItemOption func(*itemOptions)

type itemOptions struct {
	recordAccess         bool
	recordMetadataAccess bool
}

func defaultItemOptions() itemOptions {
	return itemOptions{recordAccess: true, recordMetadataAccess: false}
}

// WithRecordAccess controls whether value reads bump lastAccessedAt.
// On by default.
func WithRecordAccess(on bool) ItemOption {
	return func(o *itemOptions) { o.recordAccess = on }
}

// WithRecordMetadataAccess controls whether metadata reads bump
// lastAccessedAt. Off by default.
func WithRecordMetadataAccess(on bool) ItemOption {
	return func(o *itemOptions) { o.recordMetadataAccess = on }
}

// NewItem creates an Item holding value. All three timestamps start at now.
func NewItem(value any, metadata map[string]any, opts ...ItemOption) *Item {
	o := defaultItemOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Item{
		record: newRecord(metadata, o.recordAccess, o.recordMetadataAccess),
		value:  value,
	}
}

// Value returns the held value. The read bumps lastAccessedAt only when
// access recording is on; it never moves modifiedAt.
func (it *Item) Value() any {
	it.touchAccess()
	return it.value
}

// SetValue replaces the held value and bumps modifiedAt.
func (it *Item) SetValue(v any) {
	it.value = v
	it.touchModify()
}

// cloneItem deep-copies the item, preserving timestamps and flags.
func cloneItem(it *Item) *Item {
	return &Item{record: cloneRecord(&it.record), value: it.value}
}
