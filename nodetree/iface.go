package nodetree

import "math"

// Default range of a new interface socket.
const (
	DefaultMinValue = -math.MaxFloat32
	DefaultMaxValue = math.MaxFloat32
)

// InOut is the direction of an interface socket.
type InOut string

// Interface socket directions.
const (
	Input  InOut = "input"
	Output InOut = "output"
)

// InterfaceItem is an InterfaceSocket or a Panel.
type InterfaceItem interface {
	item()
}

// InterfaceSocket describes one externally visible socket of a Tree.
type InterfaceSocket struct {
	Name            string
	InOut           InOut
	Type            string
	Description     string
	Default         Value
	MinValue        float64
	MaxValue        float64
	AttributeDomain string
	HideValue       bool
}

// Panel groups interface items.
type Panel struct {
	Name          string
	Description   string
	DefaultClosed bool
	Items         []InterfaceItem
}

func (*InterfaceSocket) item() {}
func (*Panel) item()           {}

// Interface is the ordered, possibly nested, list of a tree's external
// sockets.
type Interface struct {
	Items []InterfaceItem
	tree  *Tree
}

// NewSocket creates a socket item inside parent, or at the root when parent
// is nil. Group input and output nodes of the tree gain the matching socket.
func (i *Interface) NewSocket(name string, inOut InOut, typ string, parent *Panel) *InterfaceSocket {
	s := &InterfaceSocket{
		Name:     name,
		InOut:    inOut,
		Type:     typ,
		MinValue: DefaultMinValue,
		MaxValue: DefaultMaxValue,
	}
	i.add(s, parent)
	if i.tree != nil {
		for _, n := range i.tree.Nodes.list {
			n.syncGroupIO()
		}
	}
	return s
}

// NewPanel creates a panel inside parent, or at the root when parent is nil.
func (i *Interface) NewPanel(name string, parent *Panel) *Panel {
	p := &Panel{Name: name}
	i.add(p, parent)
	return p
}

func (i *Interface) add(it InterfaceItem, parent *Panel) {
	if parent == nil {
		i.Items = append(i.Items, it)
		return
	}
	parent.Items = append(parent.Items, it)
}

// Walk visits every item depth-first, panels before their children.
func (i *Interface) Walk(fn func(InterfaceItem)) {
	var walk func([]InterfaceItem)
	walk = func(items []InterfaceItem) {
		for _, it := range items {
			fn(it)
			if p, ok := it.(*Panel); ok {
				walk(p.Items)
			}
		}
	}
	walk(i.Items)
}
