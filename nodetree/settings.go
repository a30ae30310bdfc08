package nodetree

// RampElement is one stop of a ColorRamp.
type RampElement struct {
	Position float64
	Color    Color
}

// ColorRamp maps a factor to a color through ordered stops.
//
// A new ramp always holds two stops (black at 0, white at 1) and can never
// drop below one.
type ColorRamp struct {
	Interpolation    string
	ColorMode        string
	HueInterpolation string
	Elements         []*RampElement
}

// NewColorRamp returns a ramp with its two default stops.
func NewColorRamp() *ColorRamp {
	return &ColorRamp{
		Interpolation:    "LINEAR",
		ColorMode:        "RGB",
		HueInterpolation: "NEAR",
		Elements: []*RampElement{
			{Position: 0, Color: Color{0, 0, 0, 1}},
			{Position: 1, Color: Color{1, 1, 1, 1}},
		},
	}
}

func (*ColorRamp) Kind() Kind { return KindColorRamp }

// NewElement inserts a stop at pos, keeping the stops sorted by position.
func (r *ColorRamp) NewElement(pos float64) *RampElement {
	e := &RampElement{Position: pos, Color: Color{0, 0, 0, 1}}
	i := len(r.Elements)
	for i > 0 && r.Elements[i-1].Position > pos {
		i--
	}
	r.Elements = append(r.Elements, nil)
	copy(r.Elements[i+1:], r.Elements[i:])
	r.Elements[i] = e
	return e
}

// RemoveElement removes the stop at index i. The last remaining stop is
// never removed.
func (r *ColorRamp) RemoveElement(i int) {
	if len(r.Elements) <= 1 || i < 0 || i >= len(r.Elements) {
		return
	}
	r.Elements = append(r.Elements[:i], r.Elements[i+1:]...)
}

// CurvePoint is a control point of a Curve.
type CurvePoint struct {
	Location   Vec2
	HandleType string
}

// Curve is one channel of a CurveMapping. A new curve holds two points.
type Curve struct {
	Points []*CurvePoint
}

func newCurve() *Curve {
	return &Curve{Points: []*CurvePoint{
		{Location: Vec2{0, 0}, HandleType: "AUTO"},
		{Location: Vec2{1, 1}, HandleType: "AUTO"},
	}}
}

// NewPoint inserts a control point, keeping points sorted along X.
func (c *Curve) NewPoint(x, y float64) *CurvePoint {
	p := &CurvePoint{Location: Vec2{x, y}, HandleType: "AUTO"}
	i := len(c.Points)
	for i > 0 && c.Points[i-1].Location[0] > x {
		i--
	}
	c.Points = append(c.Points, nil)
	copy(c.Points[i+1:], c.Points[i:])
	c.Points[i] = p
	return p
}

// RemovePoint removes the point at index i. A curve keeps at least two
// points.
func (c *Curve) RemovePoint(i int) {
	if len(c.Points) <= 2 || i < 0 || i >= len(c.Points) {
		return
	}
	c.Points = append(c.Points[:i], c.Points[i+1:]...)
}

// CurveMapping is a set of curves, for example the R, G, B and combined
// channels of an RGB curves node.
type CurveMapping struct {
	UseClip bool
	ClipMin Vec2
	ClipMax Vec2
	Curves  []*Curve
	updated bool
}

// NewCurveMapping returns a mapping with n default curves.
func NewCurveMapping(n int) *CurveMapping {
	m := &CurveMapping{ClipMin: Vec2{0, 0}, ClipMax: Vec2{1, 1}, Curves: make([]*Curve, n)}
	for i := range m.Curves {
		m.Curves[i] = newCurve()
	}
	return m
}

func (*CurveMapping) Kind() Kind { return KindCurveMapping }

// Update recomputes derived curve tables after points changed.
func (m *CurveMapping) Update() { m.updated = true }

// Item is an entry of an ItemList, such as a capture attribute, a repeat
// zone state item or a menu switch entry.
type Item struct {
	Name       string
	SocketType string
	Domain     string
}

// ItemList is an ordered, nameable list of per-domain items. New lists are
// created with one default item.
type ItemList struct {
	Items []*Item
}

// NewItemList returns a list holding one default item.
func NewItemList() *ItemList {
	return &ItemList{Items: []*Item{{Name: "Item", SocketType: "float"}}}
}

func (*ItemList) Kind() Kind { return KindItemList }

// Clear removes every item.
func (l *ItemList) Clear() { l.Items = l.Items[:0] }

// New appends an item.
func (l *ItemList) New(socketType, name string) *Item {
	it := &Item{Name: name, SocketType: socketType}
	l.Items = append(l.Items, it)
	return it
}
