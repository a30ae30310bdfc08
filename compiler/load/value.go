package load

import (
	"encoding/base64"
	"fmt"

	"github.com/syssam/nodegen/nodetree"
)

func kindOf(name string) (nodetree.Kind, bool) {
	for k := nodetree.KindBool; k <= nodetree.KindItemList; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return nodetree.KindInvalid, false
}

// decodeValue converts a document value. Image values refer to the
// document images by id.
func decodeValue(v *Value, images map[string]*nodetree.Image) (nodetree.Value, error) {
	kind, ok := kindOf(v.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown value kind %q", v.Kind)
	}
	switch kind {
	case nodetree.KindBool:
		return nodetree.Bool(v.Bool), nil
	case nodetree.KindInt:
		return nodetree.Int(v.Int), nil
	case nodetree.KindFloat:
		return nodetree.Float(v.Float), nil
	case nodetree.KindVector:
		vec := nodetree.VectorOf(v.Floats)
		if vec == nil {
			return nil, fmt.Errorf("vector with %d components", len(v.Floats))
		}
		return vec, nil
	case nodetree.KindColor:
		if len(v.Floats) != 4 {
			return nil, fmt.Errorf("color with %d components", len(v.Floats))
		}
		return nodetree.Color(v.Floats), nil
	case nodetree.KindEnum:
		return nodetree.Enum(v.Text), nil
	case nodetree.KindEnumSet:
		return nodetree.EnumSet(append([]string(nil), v.Tags...)), nil
	case nodetree.KindString:
		return nodetree.String(v.Text), nil
	case nodetree.KindAsset:
		return &nodetree.Asset{Type: nodetree.AssetKind(v.Asset), Name: v.Text}, nil
	case nodetree.KindImage:
		img, ok := images[v.Text]
		if !ok {
			return nil, fmt.Errorf("unknown image %q", v.Text)
		}
		return img, nil
	case nodetree.KindColorRamp:
		if v.Ramp == nil || len(v.Ramp.Elements) == 0 {
			return nil, fmt.Errorf("color ramp without elements")
		}
		r := &nodetree.ColorRamp{
			Interpolation:    v.Ramp.Interpolation,
			ColorMode:        v.Ramp.ColorMode,
			HueInterpolation: v.Ramp.HueInterpolation,
		}
		for _, e := range v.Ramp.Elements {
			r.Elements = append(r.Elements, &nodetree.RampElement{Position: e.Position, Color: e.Color})
		}
		return r, nil
	case nodetree.KindCurveMapping:
		if v.Curves == nil {
			return nil, fmt.Errorf("curve mapping without curves")
		}
		m := nodetree.NewCurveMapping(len(v.Curves.Curves))
		m.UseClip = v.Curves.UseClip
		m.ClipMin, m.ClipMax = v.Curves.ClipMin, v.Curves.ClipMax
		for i, points := range v.Curves.Curves {
			if len(points) < 2 {
				return nil, fmt.Errorf("curve %d has %d points", i, len(points))
			}
			c := m.Curves[i]
			c.Points = c.Points[:0]
			for _, p := range points {
				c.Points = append(c.Points, &nodetree.CurvePoint{Location: p.Location, HandleType: p.HandleType})
			}
		}
		return m, nil
	case nodetree.KindItemList:
		l := &nodetree.ItemList{}
		for _, it := range v.Items {
			l.New(it.SocketType, it.Name).Domain = it.Domain
		}
		return l, nil
	}
	return nil, fmt.Errorf("unsupported value kind %q", v.Kind)
}

// encodeValue converts a model value, registering the images it uses.
func encodeValue(v nodetree.Value, images *imageSet) (*Value, error) {
	if v == nil {
		return nil, nil
	}
	out := &Value{Kind: v.Kind().String()}
	switch v := v.(type) {
	case nodetree.Bool:
		out.Bool = bool(v)
	case nodetree.Int:
		out.Int = int64(v)
	case nodetree.Float:
		out.Float = float64(v)
	case nodetree.Vec1, nodetree.Vec2, nodetree.Vec3, nodetree.Vec4:
		c, _ := nodetree.Components(v)
		out.Floats = append([]float64(nil), c...)
	case nodetree.Color:
		out.Floats = append([]float64(nil), v[:]...)
	case nodetree.Enum:
		out.Text = string(v)
	case nodetree.EnumSet:
		out.Tags = append([]string(nil), v...)
	case nodetree.String:
		out.Text = string(v)
	case *nodetree.Asset:
		out.Asset, out.Text = string(v.Type), v.Name
	case *nodetree.Image:
		out.Text = images.add(v)
	case *nodetree.ColorRamp:
		out.Ramp = &Ramp{
			Interpolation:    v.Interpolation,
			ColorMode:        v.ColorMode,
			HueInterpolation: v.HueInterpolation,
		}
		for _, e := range v.Elements {
			out.Ramp.Elements = append(out.Ramp.Elements, RampStop{Position: e.Position, Color: e.Color})
		}
	case *nodetree.CurveMapping:
		out.Curves = &Curves{UseClip: v.UseClip, ClipMin: v.ClipMin, ClipMax: v.ClipMax}
		for _, c := range v.Curves {
			points := make([]CurvePoint, 0, len(c.Points))
			for _, p := range c.Points {
				points = append(points, CurvePoint{Location: p.Location, HandleType: p.HandleType})
			}
			out.Curves.Curves = append(out.Curves.Curves, points)
		}
	case *nodetree.ItemList:
		for _, it := range v.Items {
			out.Items = append(out.Items, &ListItem{Name: it.Name, SocketType: it.SocketType, Domain: it.Domain})
		}
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
	return out, nil
}

// imageSet assigns document ids to images. Distinct images sharing a name
// get numbered ids.
type imageSet struct {
	ids  map[*nodetree.Image]string
	used map[string]bool
	list []*Image
}

func newImageSet() *imageSet {
	return &imageSet{ids: make(map[*nodetree.Image]string), used: make(map[string]bool)}
}

func (s *imageSet) add(img *nodetree.Image) string {
	if id, ok := s.ids[img]; ok {
		return id
	}
	id := img.Name
	for i := 1; s.used[id]; i++ {
		id = fmt.Sprintf("%s.%03d", img.Name, i)
	}
	s.used[id] = true
	s.ids[img] = id
	s.list = append(s.list, &Image{
		ID:         id,
		Name:       img.Name,
		Format:     img.Format,
		Source:     img.Source,
		ColorSpace: img.ColorSpace,
		AlphaMode:  img.AlphaMode,
		Filepath:   img.Filepath,
		Data:       base64.StdEncoding.EncodeToString(img.Data),
	})
	return id
}
