package nodetree

// Socket is an input or output port of a Node.
type Socket struct {
	Node       *Node
	Name       string
	Identifier string
	// Type is the socket value-type id (see the Socket* constants).
	Type       string
	Output     bool
	Default    Value
	Hide       bool
	Enabled    bool
	MultiInput bool
	links      int
	// item is the interface socket mirrored by a group input or output
	// socket.
	item *InterfaceSocket
}

// Group input and output node types.
const (
	NodeGroupInput  = "NodeGroupInput"
	NodeGroupOutput = "NodeGroupOutput"
)

// Socket value-type ids.
const (
	SocketFloat      = "float"
	SocketInt        = "int"
	SocketBool       = "bool"
	SocketVector     = "vector"
	SocketRotation   = "rotation"
	SocketColor      = "color"
	SocketString     = "string"
	SocketMenu       = "menu"
	SocketShader     = "shader"
	SocketGeometry   = "geometry"
	SocketMatrix     = "matrix"
	SocketObject     = "object"
	SocketCollection = "collection"
	SocketMaterial   = "material"
	SocketTexture    = "texture"
	SocketImage      = "image"
	SocketVirtual    = "virtual"
)

// Linked reports whether at least one link ends or starts at s.
func (s *Socket) Linked() bool { return s.links > 0 }

// Index returns the position of s in its node's input or output list, or
// -1 when s is detached. Identifiers are not unique across a node, so the
// position is the only stable locator.
func (s *Socket) Index() int {
	if s.Node == nil {
		return -1
	}
	list := s.Node.Inputs
	if s.Output {
		list = s.Node.Outputs
	}
	for i, o := range list {
		if o == s {
			return i
		}
	}
	return -1
}

// Node is a typed vertex of a Tree.
type Node struct {
	Type           string
	Name           string
	Label          string
	Location       Vec2
	Width          float64
	Height         float64
	Parent         *Node
	Color          Color
	UseCustomColor bool
	Mute           bool
	Hide           bool
	Inputs         []*Socket
	Outputs        []*Socket
	Attrs          map[string]Value
	// Tree is the tree referenced by a group node.
	Tree *Tree
	// TreeRef keeps the raw reference of a group node, even when it does
	// not resolve to a Tree.
	TreeRef string
	// Paired is the output node of a zone, set on the zone input node.
	Paired *Node
	tree   *Tree
}

// Owner returns the tree holding n.
func (n *Node) Owner() *Tree { return n.tree }

// Attr returns the attribute stored under name.
func (n *Node) Attr(name string) (Value, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Set stores an attribute value.
func (n *Node) Set(name string, v Value) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]Value)
	}
	n.Attrs[name] = v
}

// AddInput appends an input socket.
func (n *Node) AddInput(name, typ string) *Socket {
	s := &Socket{Node: n, Name: name, Identifier: name, Type: typ, Enabled: true}
	n.Inputs = append(n.Inputs, s)
	return s
}

// AddOutput appends an output socket.
func (n *Node) AddOutput(name, typ string) *Socket {
	s := &Socket{Node: n, Name: name, Identifier: name, Type: typ, Output: true, Enabled: true}
	n.Outputs = append(n.Outputs, s)
	return s
}

// ColorRamp returns the color ramp stored under name, creating a default
// ramp when absent.
func (n *Node) ColorRamp(name string) *ColorRamp {
	if r, ok := n.Attrs[name].(*ColorRamp); ok {
		return r
	}
	r := NewColorRamp()
	n.Set(name, r)
	return r
}

// Curves returns the curve mapping stored under name, creating a default
// mapping with the given number of channels when absent.
func (n *Node) Curves(name string, channels int) *CurveMapping {
	if m, ok := n.Attrs[name].(*CurveMapping); ok {
		return m
	}
	m := NewCurveMapping(channels)
	n.Set(name, m)
	return m
}

// Items returns the item list stored under name, creating a default list
// when absent.
func (n *Node) Items(name string) *ItemList {
	if l, ok := n.Attrs[name].(*ItemList); ok {
		return l
	}
	l := NewItemList()
	n.Set(name, l)
	return l
}

// SetTree points a group node at t and rebuilds its sockets from the
// interface of t.
func (n *Node) SetTree(t *Tree) {
	n.Tree = t
	if t == nil {
		return
	}
	n.TreeRef = t.Name
	n.Inputs, n.Outputs = nil, nil
	t.Interface.Walk(func(it InterfaceItem) {
		s, ok := it.(*InterfaceSocket)
		if !ok {
			return
		}
		if s.InOut == Output {
			n.AddOutput(s.Name, s.Type)
			return
		}
		in := n.AddInput(s.Name, s.Type)
		in.Default = s.Default
	})
}

// Pair binds a zone input node to its output node. The input defaults of
// both nodes are reset, so defaults are assigned after pairing.
func (n *Node) Pair(out *Node) bool {
	if out == nil {
		return false
	}
	n.Paired = out
	for _, list := range [][]*Socket{n.Inputs, out.Inputs} {
		for _, s := range list {
			s.Default = nil
		}
	}
	return true
}

// syncGroupIO mirrors the tree interface on a group input node's outputs or
// a group output node's inputs. Sockets already bound to an interface socket
// are kept, unbound sockets are adopted in order when their name matches and
// the rest are created. Unmatched sockets follow the interface ones.
func (n *Node) syncGroupIO() {
	var (
		dir    InOut
		output bool
	)
	switch n.Type {
	case NodeGroupInput:
		dir, output = Input, true
	case NodeGroupOutput:
		dir = Output
	default:
		return
	}
	if n.tree == nil {
		return
	}
	list := n.Inputs
	if output {
		list = n.Outputs
	}
	bound := make(map[*InterfaceSocket]*Socket)
	var loose []*Socket
	for _, s := range list {
		if s.item != nil {
			bound[s.item] = s
			continue
		}
		loose = append(loose, s)
	}
	synced := make([]*Socket, 0, len(list))
	n.tree.Interface.Walk(func(it InterfaceItem) {
		is, ok := it.(*InterfaceSocket)
		if !ok || is.InOut != dir {
			return
		}
		if s, ok := bound[is]; ok {
			synced = append(synced, s)
			return
		}
		if len(loose) > 0 && loose[0].Name == is.Name {
			s := loose[0]
			loose = loose[1:]
			s.item = is
			synced = append(synced, s)
			return
		}
		synced = append(synced, &Socket{Node: n, Name: is.Name, Identifier: is.Name, Type: is.Type, Output: output, Enabled: true, item: is})
	})
	synced = append(synced, loose...)
	if output {
		n.Outputs = synced
	} else {
		n.Inputs = synced
	}
}
