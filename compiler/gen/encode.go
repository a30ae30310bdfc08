package gen

import (
	"fmt"
	"math"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/nodegen/nodetree"
	"github.com/syssam/nodegen/schema"
)

// Encoding is the result of encoding one value. It is one of Literal,
// Conditional, ImageRef or Structured.
type Encoding interface {
	encoding()
}

type (
	// Literal is a statically resolvable expression.
	Literal struct {
		Expr *jen.Statement
	}

	// Conditional references a named asset that is assigned only when the
	// destination environment holds it.
	Conditional struct {
		Kind nodetree.AssetKind
		Name string
	}

	// ImageRef is an embedded image. It is externalized in packaged mode
	// and degrades to a Conditional otherwise.
	ImageRef struct {
		Image *nodetree.Image
	}

	// Structured holds nested settings emitted by EncodeSettings.
	Structured struct {
		Type  schema.ValueType
		Value nodetree.Value
	}
)

func (Literal) encoding()     {}
func (Conditional) encoding() {}
func (ImageRef) encoding()    {}
func (Structured) encoding()  {}

var assetKinds = map[schema.ValueType]nodetree.AssetKind{
	schema.TypeMaterial:   nodetree.AssetMaterial,
	schema.TypeObject:     nodetree.AssetObject,
	schema.TypeCollection: nodetree.AssetCollection,
	schema.TypeTexture:    nodetree.AssetTexture,
	schema.TypeScene:      nodetree.AssetScene,
	schema.TypeImage:      nodetree.AssetImage,
}

var socketConsts = map[string]string{
	nodetree.SocketFloat:      "SocketFloat",
	nodetree.SocketInt:        "SocketInt",
	nodetree.SocketBool:       "SocketBool",
	nodetree.SocketVector:     "SocketVector",
	nodetree.SocketRotation:   "SocketRotation",
	nodetree.SocketColor:      "SocketColor",
	nodetree.SocketString:     "SocketString",
	nodetree.SocketMenu:       "SocketMenu",
	nodetree.SocketShader:     "SocketShader",
	nodetree.SocketGeometry:   "SocketGeometry",
	nodetree.SocketMatrix:     "SocketMatrix",
	nodetree.SocketObject:     "SocketObject",
	nodetree.SocketCollection: "SocketCollection",
	nodetree.SocketMaterial:   "SocketMaterial",
	nodetree.SocketTexture:    "SocketTexture",
	nodetree.SocketImage:      "SocketImage",
	nodetree.SocketVirtual:    "SocketVirtual",
}

// Encoder renders typed values as expressions of the runtime package.
type Encoder struct {
	rt string
}

// NewEncoder returns an encoder emitting references to the runtime package
// at import path rt.
func NewEncoder(rt string) *Encoder {
	return &Encoder{rt: rt}
}

// Encode encodes v according to its declared type t. Encoding never
// partially succeeds: it returns a complete Encoding or an *EncodeError.
func (e *Encoder) Encode(v nodetree.Value, t schema.ValueType) (Encoding, error) {
	if v == nil {
		return nil, NewEncodeError(t, nil, "nil value", nil)
	}
	mismatch := func() error {
		return NewEncodeError(t, v, fmt.Sprintf("unexpected %s value", v.Kind()), nil)
	}
	switch t {
	case schema.TypeBool:
		b, ok := v.(nodetree.Bool)
		if !ok {
			return nil, mismatch()
		}
		return Literal{e.qual("Bool").Call(jen.Lit(bool(b)))}, nil
	case schema.TypeInt:
		i, ok := v.(nodetree.Int)
		if !ok {
			return nil, mismatch()
		}
		return Literal{e.qual("Int").Call(jen.Lit(int(i)))}, nil
	case schema.TypeFloat:
		switch f := v.(type) {
		case nodetree.Float:
			return Literal{e.qual("Float").Call(e.Float(float64(f)))}, nil
		case nodetree.Int:
			return Literal{e.qual("Float").Call(e.Float(float64(f)))}, nil
		}
		return nil, mismatch()
	case schema.TypeVec1, schema.TypeVec2, schema.TypeVec3, schema.TypeVec4:
		c, ok := nodetree.Components(v)
		if !ok || len(c) != t.Arity() {
			return nil, mismatch()
		}
		return Literal{e.Vector(c)}, nil
	case schema.TypeColor:
		c, ok := v.(nodetree.Color)
		if !ok {
			return nil, mismatch()
		}
		return Literal{e.Color(c)}, nil
	case schema.TypeEnum:
		s, ok := v.(nodetree.Enum)
		if !ok {
			return nil, mismatch()
		}
		return Literal{e.qual("Enum").Call(jen.Lit(string(s)))}, nil
	case schema.TypeEnumSet:
		set, ok := v.(nodetree.EnumSet)
		if !ok {
			return nil, mismatch()
		}
		tags := make([]jen.Code, len(set))
		for i, s := range set {
			tags[i] = jen.Lit(s)
		}
		return Literal{e.qual("EnumSet").Values(tags...)}, nil
	case schema.TypeString:
		s, ok := v.(nodetree.String)
		if !ok {
			return nil, mismatch()
		}
		return Literal{e.qual("String").Call(jen.Lit(string(s)))}, nil
	case schema.TypeMaterial, schema.TypeObject, schema.TypeCollection,
		schema.TypeTexture, schema.TypeScene, schema.TypeImage:
		return e.asset(v, t, mismatch)
	case schema.TypeColorRamp:
		if _, ok := v.(*nodetree.ColorRamp); !ok {
			return nil, mismatch()
		}
		return Structured{Type: t, Value: v}, nil
	case schema.TypeCurveMapping:
		if _, ok := v.(*nodetree.CurveMapping); !ok {
			return nil, mismatch()
		}
		return Structured{Type: t, Value: v}, nil
	case schema.TypeItemList:
		if _, ok := v.(*nodetree.ItemList); !ok {
			return nil, mismatch()
		}
		return Structured{Type: t, Value: v}, nil
	default:
		return nil, NewEncodeError(t, v, "", ErrUnknownValueType)
	}
}

func (e *Encoder) asset(v nodetree.Value, t schema.ValueType, mismatch func() error) (Encoding, error) {
	kind := assetKinds[t]
	switch a := v.(type) {
	case *nodetree.Image:
		if t != schema.TypeImage || a == nil {
			return nil, mismatch()
		}
		return ImageRef{Image: a}, nil
	case *nodetree.Asset:
		if a == nil || (a.Type != "" && a.Type != kind) {
			return nil, mismatch()
		}
		return Conditional{Kind: kind, Name: a.Name}, nil
	default:
		return nil, mismatch()
	}
}

// SocketValueType returns the value type used to encode the default v of a
// socket of type socketType. It returns false for socket types that carry
// no encodable default.
func SocketValueType(socketType string, v nodetree.Value) (schema.ValueType, bool) {
	switch socketType {
	case nodetree.SocketFloat:
		return schema.TypeFloat, true
	case nodetree.SocketInt:
		return schema.TypeInt, true
	case nodetree.SocketBool:
		return schema.TypeBool, true
	case nodetree.SocketString:
		return schema.TypeString, true
	case nodetree.SocketMenu:
		return schema.TypeEnum, true
	case nodetree.SocketColor:
		return schema.TypeColor, true
	case nodetree.SocketVector, nodetree.SocketRotation:
		c, ok := nodetree.Components(v)
		if !ok {
			return "", false
		}
		return schema.VectorType(len(c))
	case nodetree.SocketObject:
		return schema.TypeObject, true
	case nodetree.SocketCollection:
		return schema.TypeCollection, true
	case nodetree.SocketMaterial:
		return schema.TypeMaterial, true
	case nodetree.SocketTexture:
		return schema.TypeTexture, true
	case nodetree.SocketImage:
		return schema.TypeImage, true
	default:
		return "", false
	}
}

// EncodeSettings returns the statements rebuilding the structured attribute
// attr of the node bound to owner. Auxiliary variables are named through
// alloc.
func (e *Encoder) EncodeSettings(owner, attr string, s Structured, alloc *Allocator) ([]jen.Code, error) {
	switch v := s.Value.(type) {
	case *nodetree.ColorRamp:
		return e.colorRamp(owner, attr, v, alloc)
	case *nodetree.CurveMapping:
		return e.curveMapping(owner, attr, v, alloc), nil
	case *nodetree.ItemList:
		return e.itemList(owner, attr, v, alloc), nil
	default:
		return nil, NewEncodeError(s.Type, s.Value, "not a structured value", nil)
	}
}

// colorRamp reuses the two default stops of a new ramp in place, removes
// the spare one for single-stop ramps and inserts the rest. A ramp keeps at
// least one stop, so an empty ramp cannot be rebuilt.
func (e *Encoder) colorRamp(owner, attr string, r *nodetree.ColorRamp, alloc *Allocator) ([]jen.Code, error) {
	if len(r.Elements) == 0 {
		return nil, NewEncodeError(schema.TypeColorRamp, r, "color ramp has no stops", nil)
	}
	v := alloc.Allocate(attr)
	stmts := []jen.Code{
		jen.Id(v).Op(":=").Id(owner).Dot("ColorRamp").Call(jen.Lit(attr)),
		jen.Id(v).Dot("Interpolation").Op("=").Lit(r.Interpolation),
		jen.Id(v).Dot("ColorMode").Op("=").Lit(r.ColorMode),
		jen.Id(v).Dot("HueInterpolation").Op("=").Lit(r.HueInterpolation),
	}
	for i, el := range r.Elements {
		if i < 2 {
			slot := func() *jen.Statement { return jen.Id(v).Dot("Elements").Index(jen.Lit(i)) }
			stmts = append(stmts,
				slot().Dot("Position").Op("=").Add(e.Float(el.Position)),
				slot().Dot("Color").Op("=").Add(e.Color(el.Color)),
			)
			continue
		}
		stmts = append(stmts, jen.Id(v).Dot("NewElement").Call(e.Float(el.Position)).Dot("Color").Op("=").Add(e.Color(el.Color)))
	}
	if len(r.Elements) == 1 {
		stmts = append(stmts, jen.Id(v).Dot("RemoveElement").Call(jen.Lit(1)))
	}
	return stmts, nil
}

// curveMapping reuses the two default points of every curve in place and
// inserts the rest, then refreshes the mapping.
func (e *Encoder) curveMapping(owner, attr string, m *nodetree.CurveMapping, alloc *Allocator) []jen.Code {
	v := alloc.Allocate(attr)
	stmts := []jen.Code{
		jen.Id(v).Op(":=").Id(owner).Dot("Curves").Call(jen.Lit(attr), jen.Lit(len(m.Curves))),
	}
	if m.UseClip {
		stmts = append(stmts, jen.Id(v).Dot("UseClip").Op("=").True())
	}
	if m.ClipMin != (nodetree.Vec2{0, 0}) {
		stmts = append(stmts, jen.Id(v).Dot("ClipMin").Op("=").Add(e.Vector(m.ClipMin[:])))
	}
	if m.ClipMax != (nodetree.Vec2{1, 1}) {
		stmts = append(stmts, jen.Id(v).Dot("ClipMax").Op("=").Add(e.Vector(m.ClipMax[:])))
	}
	for ci, c := range m.Curves {
		curve := func() *jen.Statement { return jen.Id(v).Dot("Curves").Index(jen.Lit(ci)) }
		for pi, p := range c.Points {
			if pi < 2 {
				point := func() *jen.Statement { return curve().Dot("Points").Index(jen.Lit(pi)) }
				stmts = append(stmts, point().Dot("Location").Op("=").Add(e.Vector(p.Location[:])))
				if p.HandleType != "" && p.HandleType != "AUTO" {
					stmts = append(stmts, point().Dot("HandleType").Op("=").Lit(p.HandleType))
				}
				continue
			}
			insert := curve().Dot("NewPoint").Call(e.Float(p.Location[0]), e.Float(p.Location[1]))
			if p.HandleType != "" && p.HandleType != "AUTO" {
				insert = insert.Dot("HandleType").Op("=").Lit(p.HandleType)
			}
			stmts = append(stmts, insert)
		}
	}
	return append(stmts, jen.Id(v).Dot("Update").Call())
}

// itemList clears the default-created items and re-creates every item in
// order.
func (e *Encoder) itemList(owner, attr string, l *nodetree.ItemList, alloc *Allocator) []jen.Code {
	v := alloc.Allocate(attr)
	stmts := []jen.Code{
		jen.Id(v).Op(":=").Id(owner).Dot("Items").Call(jen.Lit(attr)),
		jen.Id(v).Dot("Clear").Call(),
	}
	for _, it := range l.Items {
		item := jen.Id(v).Dot("New").Call(e.SocketType(it.SocketType), jen.Lit(it.Name))
		if it.Domain != "" {
			item = item.Dot("Domain").Op("=").Lit(it.Domain)
		}
		stmts = append(stmts, item)
	}
	return stmts
}

// Float returns a float literal. Infinities and NaN go through the runtime
// helpers since Go has no literal for them.
func (e *Encoder) Float(f float64) *jen.Statement {
	switch {
	case math.IsInf(f, 1):
		return e.qual("Inf").Call(jen.Lit(1))
	case math.IsInf(f, -1):
		return e.qual("Inf").Call(jen.Lit(-1))
	case math.IsNaN(f):
		return e.qual("NaN").Call()
	default:
		return jen.Lit(f)
	}
}

// Vector returns a VecN composite literal of the components' arity.
func (e *Encoder) Vector(c []float64) *jen.Statement {
	return e.qual(fmt.Sprintf("Vec%d", len(c))).Values(e.floats(c)...)
}

// Color returns a Color composite literal.
func (e *Encoder) Color(c nodetree.Color) *jen.Statement {
	return e.qual("Color").Values(e.floats(c[:])...)
}

// SocketType returns the runtime constant naming a socket type, or a
// string literal for types without one.
func (e *Encoder) SocketType(typ string) *jen.Statement {
	if name, ok := socketConsts[typ]; ok {
		return e.qual(name)
	}
	return jen.Lit(typ)
}

// AssetKind returns the runtime constant naming an asset kind.
func (e *Encoder) AssetKind(kind nodetree.AssetKind) *jen.Statement {
	switch kind {
	case nodetree.AssetMaterial:
		return e.qual("AssetMaterial")
	case nodetree.AssetObject:
		return e.qual("AssetObject")
	case nodetree.AssetCollection:
		return e.qual("AssetCollection")
	case nodetree.AssetTexture:
		return e.qual("AssetTexture")
	case nodetree.AssetImage:
		return e.qual("AssetImage")
	case nodetree.AssetScene:
		return e.qual("AssetScene")
	default:
		return e.qual("AssetKind").Call(jen.Lit(string(kind)))
	}
}

func (e *Encoder) floats(c []float64) []jen.Code {
	out := make([]jen.Code, len(c))
	for i, f := range c {
		out[i] = e.Float(f)
	}
	return out
}

func (e *Encoder) qual(name string) *jen.Statement {
	return jen.Qual(e.rt, name)
}
