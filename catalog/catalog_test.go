package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nodegen/nodetree"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(
		nodetree.Asset{Type: nodetree.AssetMaterial, Name: "Steel"},
		nodetree.Asset{Type: nodetree.AssetObject, Name: "Empty"},
	)
	m.Add(nodetree.AssetMaterial, "Brass")

	ok, err := m.Exists(ctx, nodetree.AssetMaterial, "Steel")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.Exists(ctx, nodetree.AssetObject, "Steel")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, _ = m.Exists(ctx, nodetree.AssetScene, "Scene")
	assert.False(t, ok)

	assert.Equal(t, []string{"Brass", "Steel"}, m.Names(nodetree.AssetMaterial))
	assert.Empty(t, m.Names(nodetree.AssetTexture))
}

func TestFromEnv(t *testing.T) {
	env := nodetree.NewEnv()
	env.Assets.Add(nodetree.AssetCollection, "Rocks")
	env.Assets.Add(nodetree.AssetImage, "wood")

	m := FromEnv(env)
	assert.Equal(t, []string{"Rocks"}, m.Names(nodetree.AssetCollection))
	assert.Equal(t, []string{"wood"}, m.Names(nodetree.AssetImage))

	// Later registrations do not leak into the snapshot.
	env.Assets.Add(nodetree.AssetCollection, "Trees")
	assert.Len(t, m.Names(nodetree.AssetCollection), 1)
}
