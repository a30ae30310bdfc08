package nodetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "color_ramp", KindColorRamp.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
}

func TestComponents(t *testing.T) {
	c, ok := Components(Vec3{1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, c)

	_, ok = Components(Color{1, 1, 1, 1})
	assert.False(t, ok)

	assert.Equal(t, Vec2{1, 2}, VectorOf([]float64{1, 2}))
	assert.Nil(t, VectorOf(nil))
	assert.Nil(t, VectorOf(make([]float64, 5)))
}

func TestColorRamp(t *testing.T) {
	r := NewColorRamp()
	require.Len(t, r.Elements, 2)

	e := r.NewElement(0.5)
	assert.Same(t, e, r.Elements[1])
	r.NewElement(2)
	assert.Equal(t, 2.0, r.Elements[3].Position)

	for range 10 {
		r.RemoveElement(0)
	}
	assert.Len(t, r.Elements, 1)
	r.RemoveElement(5)
	assert.Len(t, r.Elements, 1)
}

func TestCurveMapping(t *testing.T) {
	m := NewCurveMapping(4)
	require.Len(t, m.Curves, 4)
	c := m.Curves[0]
	c.NewPoint(0.5, 0.25)
	require.Len(t, c.Points, 3)
	assert.Equal(t, Vec2{0.5, 0.25}, c.Points[1].Location)

	c.RemovePoint(1)
	c.RemovePoint(0)
	assert.Len(t, c.Points, 2)
	m.Update()
	assert.True(t, m.updated)
}

func TestItemList(t *testing.T) {
	l := NewItemList()
	require.Len(t, l.Items, 1)
	l.Clear()
	assert.Empty(t, l.Items)
	l.New(SocketFloat, "Value")
	l.New(SocketVector, "Offset")
	assert.Equal(t, "Offset", l.Items[1].Name)
}

func TestNodeStructuredAccessors(t *testing.T) {
	n := &Node{}
	r := n.ColorRamp("color_ramp")
	assert.Same(t, r, n.ColorRamp("color_ramp"))
	m := n.Curves("mapping", 3)
	assert.Len(t, m.Curves, 3)
	assert.Same(t, m, n.Curves("mapping", 4))
	l := n.Items("capture_items")
	assert.Same(t, l, n.Items("capture_items"))

	v, ok := n.Attr("mapping")
	require.True(t, ok)
	assert.Equal(t, KindCurveMapping, v.Kind())
}
