package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextHasSevenContainers(t *testing.T) {
	ctx := New()

	require.Len(t, ContainerNames, 7)
	for _, name := range ContainerNames {
		c, err := ctx.Container(name)
		require.NoError(t, err)
		assert.NotNil(t, c)
	}
}

func TestContextUnknownContainer(t *testing.T) {
	ctx := New()

	_, err := ctx.Container("inventory")
	assert.ErrorIs(t, err, ErrUnknownContainer)

	_, err = ctx.GetItem("inventory.sword")
	assert.ErrorIs(t, err, ErrUnknownContainer)

	err = ctx.SetItem("inventory.sword", 1)
	assert.ErrorIs(t, err, ErrUnknownContainer)
}

func TestContextSetGetDottedPath(t *testing.T) {
	ctx := New()

	require.NoError(t, ctx.SetItem("data.player.name", "Alice"))

	v, err := ctx.GetValue("data.player.name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v)

	n, err := ctx.GetItem("data.player")
	require.NoError(t, err)
	assert.IsType(t, (*Container)(nil), n, "intermediates are created as containers")
}

func TestContextGetItemMissingPath(t *testing.T) {
	ctx := New()

	_, err := ctx.GetItem("data.absent")
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, ctx.SetItem("data.leaf", 1))
	_, err = ctx.GetItem("data.leaf.deeper")
	assert.ErrorIs(t, err, ErrItemNotFound, "cannot descend through a leaf")
}

func TestContextGetItemContainerPath(t *testing.T) {
	ctx := New()

	n, err := ctx.GetItem("settings")
	require.NoError(t, err)
	c, err := ctx.Container("settings")
	require.NoError(t, err)
	assert.Same(t, c, n)
}

func TestContextSetItemOverwritesLeafIntermediate(t *testing.T) {
	ctx := New()
	require.NoError(t, ctx.SetItem("data.slot", "scalar"))

	require.NoError(t, ctx.SetItem("data.slot.inner", 1))

	v, err := ctx.GetValue("data.slot.inner")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestContextSetItemRejectsBareContainerPath(t *testing.T) {
	ctx := New()
	err := ctx.SetItem("data", map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrInvalidKey, "fixed containers are replaced via SetValue, not SetItem")
}

func TestContextExportFromMapRoundTrip(t *testing.T) {
	in := map[string]any{
		"data":     map[string]any{"player": map[string]any{"name": "Alice"}},
		"flags":    map[string]any{"tutorialDone": true},
		"settings": map[string]any{"volume": 7},
	}

	ctx, err := FromMap(in)
	require.NoError(t, err)

	out := ctx.Export()
	require.Len(t, out, 7, "every fixed container appears in the export")
	assert.Equal(t, in["data"], out["data"])
	assert.Equal(t, in["flags"], out["flags"])
	assert.Equal(t, in["settings"], out["settings"])
	assert.Equal(t, map[string]any{}, out["schema"])
}

func TestContextFromMapUnknownContainer(t *testing.T) {
	_, err := FromMap(map[string]any{"eighth": map[string]any{}})
	assert.ErrorIs(t, err, ErrUnknownContainer, "the container set is closed")
}

func TestContextExportIsNonMutating(t *testing.T) {
	useStepClock(t)
	ctx := New()
	require.NoError(t, ctx.SetItem("data.k", 1))
	c, err := ctx.Container("data")
	require.NoError(t, err)
	accessed := c.LastAccessedAt()

	ctx.Export()

	assert.Equal(t, accessed, c.LastAccessedAt(), "export bypasses access recording")
}
