package gen

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nodegen/nodetree"
	"github.com/syssam/nodegen/schema"
)

const rt = "github.com/syssam/nodegen/nodetree"

func goString(c jen.Code) string { return jen.Add(c).GoString() }

func goStrings(cs []jen.Code) string {
	lines := make([]string, len(cs))
	for i, c := range cs {
		lines[i] = goString(c)
	}
	return strings.Join(lines, "\n")
}

func TestEncodeLiterals(t *testing.T) {
	e := NewEncoder(rt)
	tests := []struct {
		name string
		v    nodetree.Value
		t    schema.ValueType
		want string
	}{
		{"bool", nodetree.Bool(true), schema.TypeBool, "nodetree.Bool(true)"},
		{"int", nodetree.Int(-3), schema.TypeInt, "nodetree.Int(-3)"},
		{"float", nodetree.Float(4.2), schema.TypeFloat, "nodetree.Float(4.2)"},
		{"whole float", nodetree.Float(1), schema.TypeFloat, "nodetree.Float(1.0)"},
		{"int as float", nodetree.Int(2), schema.TypeFloat, "nodetree.Float(2.0)"},
		{"infinity", nodetree.Float(math.Inf(-1)), schema.TypeFloat, "nodetree.Float(nodetree.Inf(-1))"},
		{"vec2", nodetree.Vec2{1, 2}, schema.TypeVec2, "nodetree.Vec2{1.0, 2.0}"},
		{"vec3", nodetree.Vec3{0.5, 0, -1}, schema.TypeVec3, "nodetree.Vec3{0.5, 0.0, -1.0}"},
		{"color", nodetree.Color{1, 0.5, 0, 1}, schema.TypeColor, "nodetree.Color{1.0, 0.5, 0.0, 1.0}"},
		{"enum", nodetree.Enum("ADD"), schema.TypeEnum, `nodetree.Enum("ADD")`},
		{"enum set", nodetree.EnumSet{"X", "Y"}, schema.TypeEnumSet, `nodetree.EnumSet{"X", "Y"}`},
		{"string with quotes", nodetree.String(`say "hi"\n`), schema.TypeString, `nodetree.String("say \"hi\"\\n")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := e.Encode(tt.v, tt.t)
			require.NoError(t, err)
			lit, ok := enc.(Literal)
			require.True(t, ok, "got %T", enc)
			assert.Equal(t, tt.want, goString(lit.Expr))
		})
	}
}

func TestEncodeReferences(t *testing.T) {
	e := NewEncoder(rt)

	t.Run("asset is conditional", func(t *testing.T) {
		enc, err := e.Encode(&nodetree.Asset{Type: nodetree.AssetMaterial, Name: "Steel"}, schema.TypeMaterial)
		require.NoError(t, err)
		assert.Equal(t, Conditional{Kind: nodetree.AssetMaterial, Name: "Steel"}, enc)
	})

	t.Run("untyped asset takes the declared kind", func(t *testing.T) {
		enc, err := e.Encode(&nodetree.Asset{Name: "Cube"}, schema.TypeObject)
		require.NoError(t, err)
		assert.Equal(t, Conditional{Kind: nodetree.AssetObject, Name: "Cube"}, enc)
	})

	t.Run("embedded image", func(t *testing.T) {
		img := &nodetree.Image{Name: "wood"}
		enc, err := e.Encode(img, schema.TypeImage)
		require.NoError(t, err)
		assert.Equal(t, ImageRef{Image: img}, enc)
	})

	t.Run("image asset", func(t *testing.T) {
		enc, err := e.Encode(&nodetree.Asset{Type: nodetree.AssetImage, Name: "sky"}, schema.TypeImage)
		require.NoError(t, err)
		assert.Equal(t, Conditional{Kind: nodetree.AssetImage, Name: "sky"}, enc)
	})

	t.Run("structured", func(t *testing.T) {
		r := nodetree.NewColorRamp()
		enc, err := e.Encode(r, schema.TypeColorRamp)
		require.NoError(t, err)
		assert.Equal(t, Structured{Type: schema.TypeColorRamp, Value: r}, enc)
	})
}

func TestEncodeErrors(t *testing.T) {
	e := NewEncoder(rt)
	tests := []struct {
		name string
		v    nodetree.Value
		t    schema.ValueType
	}{
		{"nil", nil, schema.TypeFloat},
		{"bool as float", nodetree.Bool(true), schema.TypeFloat},
		{"arity mismatch", nodetree.Vec2{1, 2}, schema.TypeVec3},
		{"vector as color", nodetree.Vec4{1, 2, 3, 4}, schema.TypeColor},
		{"string as enum", nodetree.String("ADD"), schema.TypeEnum},
		{"wrong asset kind", &nodetree.Asset{Type: nodetree.AssetObject, Name: "x"}, schema.TypeMaterial},
		{"image as material", &nodetree.Image{}, schema.TypeMaterial},
		{"ramp as curves", nodetree.NewColorRamp(), schema.TypeCurveMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Encode(tt.v, tt.t)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEncode))
			assert.False(t, errors.Is(err, ErrUnknownValueType))
		})
	}

	t.Run("unknown value type", func(t *testing.T) {
		_, err := e.Encode(nodetree.Float(1), "quaternion")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownValueType))
	})
}

func TestSocketValueType(t *testing.T) {
	tests := []struct {
		socket string
		v      nodetree.Value
		want   schema.ValueType
		ok     bool
	}{
		{nodetree.SocketFloat, nodetree.Float(1), schema.TypeFloat, true},
		{nodetree.SocketMenu, nodetree.Enum("A"), schema.TypeEnum, true},
		{nodetree.SocketVector, nodetree.Vec3{}, schema.TypeVec3, true},
		{nodetree.SocketRotation, nodetree.Vec3{}, schema.TypeVec3, true},
		{nodetree.SocketVector, nodetree.Float(1), "", false},
		{nodetree.SocketMaterial, &nodetree.Asset{}, schema.TypeMaterial, true},
		{nodetree.SocketGeometry, nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.socket, func(t *testing.T) {
			got, ok := SocketValueType(tt.socket, tt.v)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeSettings(t *testing.T) {
	e := NewEncoder(rt)

	t.Run("color ramp with one stop", func(t *testing.T) {
		r := &nodetree.ColorRamp{
			Interpolation: "CONSTANT", ColorMode: "RGB", HueInterpolation: "NEAR",
			Elements: []*nodetree.RampElement{{Position: 0.25, Color: nodetree.Color{1, 0, 0, 1}}},
		}
		stmts, err := e.EncodeSettings("ramp_node", "color_ramp", Structured{Type: schema.TypeColorRamp, Value: r}, NewAllocator())
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			`color_ramp := ramp_node.ColorRamp("color_ramp")`,
			`color_ramp.Interpolation = "CONSTANT"`,
			`color_ramp.ColorMode = "RGB"`,
			`color_ramp.HueInterpolation = "NEAR"`,
			`color_ramp.Elements[0].Position = 0.25`,
			`color_ramp.Elements[0].Color = nodetree.Color{1.0, 0.0, 0.0, 1.0}`,
			`color_ramp.RemoveElement(1)`,
		}, "\n"), goStrings(stmts))
	})

	t.Run("color ramp without stops", func(t *testing.T) {
		r := nodetree.NewColorRamp()
		r.Elements = nil
		alloc := NewAllocator()
		stmts, err := e.EncodeSettings("n", "color_ramp", Structured{Type: schema.TypeColorRamp, Value: r}, alloc)
		require.Error(t, err)
		assert.Empty(t, stmts)
		var encErr *EncodeError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, schema.TypeColorRamp, encErr.Type)
		assert.Equal(t, "color_ramp", alloc.Allocate("color_ramp"))
	})

	t.Run("color ramp with three stops", func(t *testing.T) {
		r := nodetree.NewColorRamp()
		r.NewElement(0.5).Color = nodetree.Color{0.5, 0.5, 0.5, 1}
		stmts, err := e.EncodeSettings("n", "color_ramp", Structured{Type: schema.TypeColorRamp, Value: r}, NewAllocator())
		require.NoError(t, err)
		out := goStrings(stmts)
		assert.Contains(t, out, `color_ramp.Elements[1].Position = 0.5`)
		assert.Contains(t, out, `color_ramp.NewElement(1.0).Color = nodetree.Color{1.0, 1.0, 1.0, 1.0}`)
		assert.NotContains(t, out, "RemoveElement")
	})

	t.Run("curve mapping", func(t *testing.T) {
		m := nodetree.NewCurveMapping(1)
		m.UseClip = true
		m.Curves[0].NewPoint(0.5, 0.8).HandleType = "VECTOR"
		stmts, err := e.EncodeSettings("curve", "mapping", Structured{Type: schema.TypeCurveMapping, Value: m}, NewAllocator())
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			`mapping := curve.Curves("mapping", 1)`,
			`mapping.UseClip = true`,
			`mapping.Curves[0].Points[0].Location = nodetree.Vec2{0.0, 0.0}`,
			`mapping.Curves[0].Points[1].Location = nodetree.Vec2{0.5, 0.8}`,
			`mapping.Curves[0].Points[1].HandleType = "VECTOR"`,
			`mapping.Curves[0].NewPoint(1.0, 1.0)`,
			`mapping.Update()`,
		}, "\n"), goStrings(stmts))
	})

	t.Run("item list", func(t *testing.T) {
		l := &nodetree.ItemList{}
		l.New(nodetree.SocketFloat, "Value")
		l.New(nodetree.SocketVector, "Offset").Domain = "FACE"
		alloc := NewAllocator()
		alloc.Allocate("capture_items")
		stmts, err := e.EncodeSettings("capture", "capture_items", Structured{Type: schema.TypeItemList, Value: l}, alloc)
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			`capture_items_1 := capture.Items("capture_items")`,
			`capture_items_1.Clear()`,
			`capture_items_1.New(nodetree.SocketFloat, "Value")`,
			`capture_items_1.New(nodetree.SocketVector, "Offset").Domain = "FACE"`,
		}, "\n"), goStrings(stmts))
	})

	t.Run("not structured", func(t *testing.T) {
		_, err := e.EncodeSettings("n", "x", Structured{Type: schema.TypeFloat, Value: nodetree.Float(1)}, NewAllocator())
		assert.True(t, IsEncodeError(err))
	})
}

func TestEncoderHelpers(t *testing.T) {
	e := NewEncoder(rt)
	assert.Equal(t, "nodetree.NaN()", goString(e.Float(math.NaN())))
	assert.Equal(t, "nodetree.Inf(1)", goString(e.Float(math.Inf(1))))
	assert.Equal(t, "nodetree.SocketGeometry", goString(e.SocketType(nodetree.SocketGeometry)))
	assert.Equal(t, `"custom"`, goString(e.SocketType("custom")))
	assert.Equal(t, "nodetree.AssetScene", goString(e.AssetKind(nodetree.AssetScene)))
	assert.Equal(t, `nodetree.AssetKind("brush")`, goString(e.AssetKind("brush")))
}
