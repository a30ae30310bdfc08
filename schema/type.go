package schema

// ValueType is the semantic type of an attribute. It selects how the
// exporter encodes the attribute's value.
type ValueType string

// Value types.
const (
	TypeBool         ValueType = "bool"
	TypeInt          ValueType = "int"
	TypeFloat        ValueType = "float"
	TypeVec1         ValueType = "vec1"
	TypeVec2         ValueType = "vec2"
	TypeVec3         ValueType = "vec3"
	TypeVec4         ValueType = "vec4"
	TypeColor        ValueType = "color"
	TypeEnum         ValueType = "enum"
	TypeEnumSet      ValueType = "enum_set"
	TypeString       ValueType = "string"
	TypeMaterial     ValueType = "material"
	TypeObject       ValueType = "object"
	TypeCollection   ValueType = "collection"
	TypeTexture      ValueType = "texture"
	TypeScene        ValueType = "scene"
	TypeImage        ValueType = "image"
	TypeColorRamp    ValueType = "color_ramp"
	TypeCurveMapping ValueType = "curve_mapping"
	TypeItemList     ValueType = "item_list"
)

var valueTypes = map[ValueType]struct{}{
	TypeBool: {}, TypeInt: {}, TypeFloat: {},
	TypeVec1: {}, TypeVec2: {}, TypeVec3: {}, TypeVec4: {},
	TypeColor: {}, TypeEnum: {}, TypeEnumSet: {}, TypeString: {},
	TypeMaterial: {}, TypeObject: {}, TypeCollection: {}, TypeTexture: {}, TypeScene: {},
	TypeImage: {}, TypeColorRamp: {}, TypeCurveMapping: {}, TypeItemList: {},
}

// Valid reports whether t is a known value type.
func (t ValueType) Valid() bool {
	_, ok := valueTypes[t]
	return ok
}

// Arity returns the component count of vector types and 0 otherwise.
func (t ValueType) Arity() int {
	switch t {
	case TypeVec1:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	default:
		return 0
	}
}

// VectorType returns the vector type of the given arity.
func VectorType(arity int) (ValueType, bool) {
	switch arity {
	case 1:
		return TypeVec1, true
	case 2:
		return TypeVec2, true
	case 3:
		return TypeVec3, true
	case 4:
		return TypeVec4, true
	default:
		return "", false
	}
}

// IsAsset reports whether t references a named asset of the destination
// environment.
func (t ValueType) IsAsset() bool {
	switch t {
	case TypeMaterial, TypeObject, TypeCollection, TypeTexture, TypeScene, TypeImage:
		return true
	default:
		return false
	}
}

// IsStructured reports whether t holds nested settings with ordered
// entries.
func (t ValueType) IsStructured() bool {
	switch t {
	case TypeColorRamp, TypeCurveMapping, TypeItemList:
		return true
	default:
		return false
	}
}
