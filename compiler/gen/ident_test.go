package gen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Math", "math"},
		{"Principled BSDF", "principled_bsdf"},
		{"ColorRamp", "color_ramp"},
		{"Math.001", "math_001"},
		{"  Mix -- Shader!! ", "mix_shader"},
		{"Crème Brûlée", "creme_brulee"},
		{"3D View", "_3d_view"},
		{"", "unnamed"},
		{"***", "unnamed"},
		{"日本", "unnamed"},
		{"func", "_func"},
		{"range", "_range"},
		{"string", "_string"},
		{"nil", "_nil"},
		{"len", "_len"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.label))
		})
	}
}

func TestAllocator(t *testing.T) {
	t.Run("suffixes repeated labels", func(t *testing.T) {
		a := NewAllocator()
		assert.Equal(t, "math", a.Allocate("Math"))
		assert.Equal(t, "math_1", a.Allocate("Math"))
		assert.Equal(t, "math_2", a.Allocate("math"))
	})

	t.Run("reserved names are never issued", func(t *testing.T) {
		a := NewAllocator()
		for _, r := range reserved {
			got := a.Allocate(r)
			assert.NotEqual(t, r, got)
		}
		assert.Equal(t, "tree_1", NewAllocator().Allocate("Tree"))
	})

	t.Run("skips names already issued by another base", func(t *testing.T) {
		a := NewAllocator()
		assert.Equal(t, "math_1", a.Allocate("Math 1"))
		assert.Equal(t, "math", a.Allocate("Math"))
		assert.Equal(t, "math_2", a.Allocate("Math"))
		assert.Equal(t, "math_1_1", a.Allocate("math_1"))
	})

	t.Run("uniqueness", func(t *testing.T) {
		a := NewAllocator()
		labels := []string{"Math", "math", "Math 1", "math_1", "", "_", "Value", "value_1", "Tree", "node"}
		calls := 0
		for i := range 50 {
			for _, l := range labels {
				a.Allocate(l)
				calls++
			}
			a.Allocate(fmt.Sprintf("Math %d", i))
			calls++
		}
		issued := a.Issued()
		assert.Len(t, issued, calls)
		seen := make(map[string]struct{}, len(issued))
		for _, id := range issued {
			seen[id] = struct{}{}
		}
		assert.Len(t, seen, calls)
		for _, r := range reserved {
			assert.NotContains(t, seen, r)
		}
	})
}
