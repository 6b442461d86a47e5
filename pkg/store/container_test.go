package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/validate"
)

func newTestContainer(t *testing.T, value map[string]any) *Container {
	t.Helper()
	c, err := NewContainer(value, nil)
	require.NoError(t, err)
	return c
}

func TestContainerSetGetRoundTrip(t *testing.T) {
	c := newTestContainer(t, nil)

	require.NoError(t, c.SetItem("name", "Alice"))

	v, ok := c.GetValue("name")
	require.True(t, ok)
	assert.Equal(t, "Alice", v)
}

func TestContainerSetItemKeyValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "empty key", key: "", wantErr: ErrInvalidKey},
		{name: "reserved value", key: "value", wantErr: ErrReservedKey},
		{name: "reserved metadata", key: "metadata", wantErr: ErrReservedKey},
		{name: "reserved size", key: "size", wantErr: ErrReservedKey},
		{name: "reserved createdAt", key: "createdAt", wantErr: ErrReservedKey},
		{name: "reserved modifiedAt", key: "modifiedAt", wantErr: ErrReservedKey},
		{name: "reserved lastAccessedAt", key: "lastAccessedAt", wantErr: ErrReservedKey},
		{name: "reserved recordAccess", key: "recordAccess", wantErr: ErrReservedKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useStepClock(t)
			c := newTestContainer(t, map[string]any{"keep": 1})
			modified := c.ModifiedAt()

			err := c.SetItem(tt.key, "x")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, modified, c.modifiedAt, "failed write leaves the container unchanged")
			assert.Equal(t, map[string]any{"keep": 1}, plainValue(c))
		})
	}
}

func TestContainerEmptyKeyIsValidationError(t *testing.T) {
	c := newTestContainer(t, nil)
	err := c.SetItem("", "x")
	assert.ErrorIs(t, err, validate.ErrValidation)
}

func TestContainerSetItemBumpsModified(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, nil)
	before := c.ModifiedAt()

	require.NoError(t, c.SetItem("k", 1))

	assert.True(t, c.ModifiedAt().After(before))
}

func TestContainerGetItemTimestamps(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"k": "v"})
	modified := c.ModifiedAt()
	accessed := c.LastAccessedAt()
	child, _ := c.children["k"].(*Item)
	childAccessed := child.LastAccessedAt()

	n, ok := c.GetItem("k")
	require.True(t, ok)
	require.NotNil(t, n)

	assert.True(t, c.LastAccessedAt().After(accessed), "lookup bumps the container's access time")
	assert.Equal(t, modified, c.ModifiedAt(), "lookup never moves modifiedAt")
	assert.Equal(t, childAccessed, child.LastAccessedAt(), "lookup does not touch the child")
}

func TestContainerGetValueTouchesChild(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"k": "v"})
	child := c.children["k"].(*Item)
	childAccessed := child.LastAccessedAt()
	accessed := c.LastAccessedAt()

	v, ok := c.GetValue("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	assert.True(t, c.LastAccessedAt().After(accessed))
	assert.True(t, child.LastAccessedAt().After(childAccessed), "dereference touches the child")
}

func TestContainerRemoveItem(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"k": 1})
	modified := c.ModifiedAt()

	assert.True(t, c.RemoveItem("k"))
	assert.True(t, c.ModifiedAt().After(modified))

	modified = c.ModifiedAt()
	assert.False(t, c.RemoveItem("k"), "second removal finds nothing")
	assert.Equal(t, modified, c.ModifiedAt(), "no-op removal does not bump modifiedAt")
}

func TestContainerHasItem(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"k": 1})
	accessed := c.LastAccessedAt()

	assert.True(t, c.HasItem("k"))
	assert.False(t, c.HasItem("missing"))
	assert.True(t, c.LastAccessedAt().After(accessed))
}

func TestContainerClearItems(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"a": 1, "b": 2})
	modified := c.ModifiedAt()

	c.ClearItems()
	assert.Equal(t, 0, len(c.children))
	assert.True(t, c.ModifiedAt().After(modified))

	modified = c.ModifiedAt()
	c.ClearItems()
	assert.Equal(t, modified, c.ModifiedAt(), "clearing an empty container is a no-op")
}

func TestContainerSize(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"a": 1, "b": 2})
	accessed := c.LastAccessedAt()

	assert.Equal(t, 2, c.Size())
	assert.True(t, c.LastAccessedAt().After(accessed), "size read bumps access time")
}

func TestContainerKeysSnapshot(t *testing.T) {
	c := newTestContainer(t, map[string]any{"b": 2, "a": 1})

	keys := c.Keys()
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, c.SetItem("c", 3))
	assert.Equal(t, []string{"a", "b"}, keys, "snapshot, not a live view")
	assert.Equal(t, []string{"a", "b", "c"}, c.Keys())
}

func TestContainerEntries(t *testing.T) {
	c := newTestContainer(t, map[string]any{"b": 2, "a": 1})

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "b", entries[1].Key)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].(*Item).Value())
}

func TestContainerValueRoundTrip(t *testing.T) {
	c := newTestContainer(t, nil)
	in := map[string]any{
		"player": map[string]any{"name": "Alice", "level": 3},
		"score":  120,
	}

	require.NoError(t, c.SetValue(in))

	assert.Equal(t, in, c.Value(), "replace round-trips")
}

func TestContainerSetValueRejectsNonMapping(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"keep": 1})
	modified := c.ModifiedAt()

	err := c.SetValue([]string{"not", "a", "map"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, err, validate.ErrValidation)
	assert.Equal(t, modified, c.modifiedAt)
	assert.Equal(t, map[string]any{"keep": 1}, plainValue(c), "failed replace mutates nothing")
}

func TestContainerSetValueSingleModifyBump(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"old": 1})
	before := c.modifiedAt

	require.NoError(t, c.SetValue(map[string]any{"a": 1, "b": 2, "c": 3}))

	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 3}, plainValue(c))
	// One bump for the whole replacement, after all children are built.
	assert.True(t, c.modifiedAt.After(before))
	for _, child := range c.children {
		item, ok := child.(*Item)
		require.True(t, ok)
		assert.True(t, c.modifiedAt.After(item.createdAt))
	}
}

func TestContainerReinitialize(t *testing.T) {
	useStepClock(t)
	c := newTestContainer(t, map[string]any{"old": 1})
	c.MergeMetadata(map[string]any{"stale": true})
	oldCreated := c.CreatedAt()

	require.NoError(t, c.Reinitialize(
		map[string]any{"fresh": 2},
		map[string]any{"origin": "reset"},
	))

	assert.True(t, c.CreatedAt().After(oldCreated), "all three timestamps reset to now")
	assert.Equal(t, c.CreatedAt(), c.ModifiedAt())
	assert.Equal(t, c.CreatedAt(), c.LastAccessedAt())
	assert.Equal(t, map[string]any{"fresh": 2}, plainValue(c))
	assert.Equal(t, map[string]any{"origin": "reset"}, c.metadata)
}

func TestContainerOwnsChildren(t *testing.T) {
	c := newTestContainer(t, map[string]any{"k": 1})
	orig, _ := c.GetItem("k")

	require.NoError(t, c.SetItem("k", 2))

	replaced, _ := c.GetItem("k")
	assert.NotSame(t, orig, replaced, "replacing ends the old child's lifetime")
}
