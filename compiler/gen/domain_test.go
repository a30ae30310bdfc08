package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nodegen/nodetree"
)

func TestLookupDomain(t *testing.T) {
	t.Run("shader", func(t *testing.T) {
		d, err := LookupDomain(nodetree.DomainShader)
		require.NoError(t, err)
		assert.True(t, d.IsGroup("ShaderNodeGroup"))
		assert.False(t, d.IsGroup("GeometryNodeGroup"))
		assert.False(t, d.Settable(nodetree.SocketShader))
		assert.True(t, d.Settable(nodetree.SocketFloat))
		assert.True(t, d.HasConstantOutputs("ShaderNodeValue"))
		assert.True(t, d.AllowsContainer(nodetree.ContainerMaterial))
		assert.False(t, d.RequiresContainer)
		assert.Equal(t, "shader", d.String())
	})

	t.Run("geometry", func(t *testing.T) {
		d, err := LookupDomain(nodetree.DomainGeometry)
		require.NoError(t, err)
		assert.False(t, d.Settable(nodetree.SocketGeometry))
		assert.False(t, d.AllowsContainer(nodetree.ContainerMaterial))
	})

	t.Run("compositor requires a scene", func(t *testing.T) {
		d, err := LookupDomain(nodetree.DomainCompositor)
		require.NoError(t, err)
		assert.True(t, d.RequiresContainer)
		assert.True(t, d.AllowsContainer(nodetree.ContainerScene))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := LookupDomain("texture")
		assert.Error(t, err)
	})
}
