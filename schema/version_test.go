package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "4.2", want: Version{Major: 4, Minor: 2}},
		{in: "3.6.5", want: Version{Major: 3, Minor: 6, Patch: 5}},
		{in: " 4.0 ", want: Version{Major: 4}},
		{in: "4", wantErr: true},
		{in: "4.2.1.0", wantErr: true},
		{in: "4.x", wantErr: true},
		{in: "-1.0", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustParseVersion(t *testing.T) {
	assert.Equal(t, Version{Major: 4, Minor: 1}, MustParseVersion("4.1"))
	assert.Panics(t, func() { MustParseVersion("bad") })
}

func TestVersionCompare(t *testing.T) {
	v := MustParseVersion
	assert.Equal(t, 0, v("4.2").Compare(v("4.2.0")))
	assert.Equal(t, -1, v("4.1.9").Compare(v("4.2")))
	assert.Equal(t, 1, v("4.2.1").Compare(v("4.2")))
	assert.Equal(t, 1, v("10.0").Compare(v("9.9")))
	assert.Equal(t, "4.2", v("4.2").String())
	assert.Equal(t, "4.2.1", v("4.2.1").String())
}

func TestRangeContains(t *testing.T) {
	v := MustParseVersion
	r := Range{Min: v("3.6"), Max: v("4.2")}

	t.Run("min inclusive", func(t *testing.T) {
		assert.True(t, r.Contains(v("3.6")))
		assert.False(t, r.Contains(v("3.5.9")))
	})
	t.Run("max exclusive", func(t *testing.T) {
		assert.False(t, r.Contains(v("4.2")))
		assert.True(t, r.Contains(v("4.1.99")))
	})
	t.Run("open max", func(t *testing.T) {
		open := Range{Min: v("4.0")}
		assert.True(t, open.Contains(v("99.0")))
		assert.False(t, open.Contains(v("3.9")))
	})
	t.Run("zero range contains everything", func(t *testing.T) {
		assert.True(t, Range{}.Contains(v("0.1")))
		assert.True(t, Range{}.Contains(Version{}))
	})
}

func TestRangeIntersect(t *testing.T) {
	v := MustParseVersion
	a := Range{Min: v("3.0"), Max: v("4.2")}
	b := Range{Min: v("3.6")}

	got := a.Intersect(b)
	assert.Equal(t, Range{Min: v("3.6"), Max: v("4.2")}, got)
	assert.Equal(t, got, b.Intersect(a))

	c := Range{Max: v("4.0")}
	assert.Equal(t, Range{Min: v("3.0"), Max: v("4.0")}, a.Intersect(c))
	assert.Equal(t, "[3.0, 4.0)", a.Intersect(c).String())
	assert.Equal(t, "[3.6, ∞)", b.String())
}
