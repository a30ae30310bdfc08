package nodetree

import (
	"fmt"
	"math"
)

// Kind identifies the dynamic kind of a Value.
type Kind uint8

// Value kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindVector
	KindColor
	KindEnum
	KindEnumSet
	KindString
	KindAsset
	KindImage
	KindColorRamp
	KindCurveMapping
	KindItemList
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindBool:         "bool",
	KindInt:          "int",
	KindFloat:        "float",
	KindVector:       "vector",
	KindColor:        "color",
	KindEnum:         "enum",
	KindEnumSet:      "enum_set",
	KindString:       "string",
	KindAsset:        "asset",
	KindImage:        "image",
	KindColorRamp:    "color_ramp",
	KindCurveMapping: "curve_mapping",
	KindItemList:     "item_list",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is an attribute or socket value.
type Value interface {
	Kind() Kind
}

type (
	// Bool is a boolean value.
	Bool bool
	// Int is an integer value.
	Int int64
	// Float is a floating point value.
	Float float64
	// Vec1 is a one component vector.
	Vec1 [1]float64
	// Vec2 is a two component vector.
	Vec2 [2]float64
	// Vec3 is a three component vector.
	Vec3 [3]float64
	// Vec4 is a four component vector.
	Vec4 [4]float64
	// Color is an RGBA color.
	Color [4]float64
	// Enum is an enum tag.
	Enum string
	// EnumSet is a set of enum tags, kept in declaration order.
	EnumSet []string
	// String is a free-form string.
	String string
)

func (Bool) Kind() Kind    { return KindBool }
func (Int) Kind() Kind     { return KindInt }
func (Float) Kind() Kind   { return KindFloat }
func (Vec1) Kind() Kind    { return KindVector }
func (Vec2) Kind() Kind    { return KindVector }
func (Vec3) Kind() Kind    { return KindVector }
func (Vec4) Kind() Kind    { return KindVector }
func (Color) Kind() Kind   { return KindColor }
func (Enum) Kind() Kind    { return KindEnum }
func (EnumSet) Kind() Kind { return KindEnumSet }
func (String) Kind() Kind  { return KindString }

// Components returns the components of a vector value and its arity.
// It returns false for values that are not vectors.
func Components(v Value) ([]float64, bool) {
	switch v := v.(type) {
	case Vec1:
		return v[:], true
	case Vec2:
		return v[:], true
	case Vec3:
		return v[:], true
	case Vec4:
		return v[:], true
	default:
		return nil, false
	}
}

// VectorOf builds a vector value from its components. It returns nil when
// the arity is not between 1 and 4.
func VectorOf(c []float64) Value {
	switch len(c) {
	case 1:
		return Vec1{c[0]}
	case 2:
		return Vec2{c[0], c[1]}
	case 3:
		return Vec3{c[0], c[1], c[2]}
	case 4:
		return Vec4{c[0], c[1], c[2], c[3]}
	default:
		return nil
	}
}

// Inf returns positive infinity if sign >= 0, negative infinity otherwise.
func Inf(sign int) float64 { return math.Inf(sign) }

// NaN returns a not-a-number value.
func NaN() float64 { return math.NaN() }

// AssetKind names a family of assets living in the destination environment.
type AssetKind string

// Asset kinds.
const (
	AssetMaterial   AssetKind = "material"
	AssetObject     AssetKind = "object"
	AssetCollection AssetKind = "collection"
	AssetTexture    AssetKind = "texture"
	AssetImage      AssetKind = "image"
	AssetScene      AssetKind = "scene"
)

// Asset references a named asset of the destination environment.
type Asset struct {
	Type AssetKind
	Name string
}

func (*Asset) Kind() Kind { return KindAsset }
