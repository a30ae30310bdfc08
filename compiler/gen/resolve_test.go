package gen

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nodegen/nodetree"
)

func group(t *nodetree.Tree, sub *nodetree.Tree) *nodetree.Node {
	n := t.Nodes.New("GeometryNodeGroup")
	n.SetTree(sub)
	return n
}

func TestResolve(t *testing.T) {
	t.Run("single tree", func(t *testing.T) {
		root := nodetree.NewTree("Root", nodetree.DomainGeometry)
		order, err := Resolve(root)
		require.NoError(t, err)
		assert.Equal(t, []*nodetree.Tree{root}, order)
	})

	t.Run("dependencies first, each once", func(t *testing.T) {
		leaf := nodetree.NewTree("Leaf", nodetree.DomainGeometry)
		mid := nodetree.NewTree("Mid", nodetree.DomainGeometry)
		other := nodetree.NewTree("Other", nodetree.DomainGeometry)
		root := nodetree.NewTree("Root", nodetree.DomainGeometry)
		group(mid, leaf)
		group(other, leaf)
		group(root, mid)
		group(root, other)
		group(root, leaf)

		order, err := Resolve(root)
		require.NoError(t, err)
		assert.Equal(t, []*nodetree.Tree{leaf, mid, other, root}, order)
	})

	t.Run("every reference precedes its user", func(t *testing.T) {
		trees := make([]*nodetree.Tree, 6)
		for i := range trees {
			trees[i] = nodetree.NewTree(string(rune('A'+i)), nodetree.DomainGeometry)
		}
		for i := range trees {
			for j := i + 1; j < len(trees); j += 2 {
				group(trees[i], trees[j])
			}
		}
		order, err := Resolve(trees[0])
		require.NoError(t, err)
		for _, tr := range order {
			pos := slices.Index(order, tr)
			for _, n := range tr.Nodes.All() {
				assert.Less(t, slices.Index(order, n.Tree), pos)
			}
		}
	})

	t.Run("cycle safe", func(t *testing.T) {
		a := nodetree.NewTree("A", nodetree.DomainGeometry)
		b := nodetree.NewTree("B", nodetree.DomainGeometry)
		group(a, b)
		group(b, a)
		order, err := Resolve(a)
		require.NoError(t, err)
		assert.Equal(t, []*nodetree.Tree{b, a}, order)
	})

	t.Run("dangling reference", func(t *testing.T) {
		root := nodetree.NewTree("Root", nodetree.DomainShader)
		n := root.Nodes.New("ShaderNodeGroup")
		n.TreeRef = "Gone"
		_, err := Resolve(root)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDanglingReference))
		assert.Contains(t, err.Error(), `"Gone"`)
	})

	t.Run("group type of another domain is ignored", func(t *testing.T) {
		root := nodetree.NewTree("Root", nodetree.DomainShader)
		root.Nodes.New("GeometryNodeGroup")
		order, err := Resolve(root)
		require.NoError(t, err)
		assert.Len(t, order, 1)
	})

	t.Run("unknown domain", func(t *testing.T) {
		_, err := Resolve(nodetree.NewTree("Root", "texture"))
		assert.True(t, IsGenerationError(err))
	})
}
