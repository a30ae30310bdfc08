package nodetree

import "slices"

// Domain names a family of node trees.
type Domain string

// Tree domains.
const (
	DomainShader     Domain = "shader"
	DomainGeometry   Domain = "geometry"
	DomainCompositor Domain = "compositor"
)

// Tree is one node graph.
type Tree struct {
	Name        string
	Domain      Domain
	Description string
	// Color is the tree's color tag, empty when unset.
	Color string
	// Flags holds per-domain boolean settings such as "is_modifier".
	Flags map[string]bool
	// Owner is the host container embedding the tree, if any.
	Owner     *Container
	Nodes     *Nodes
	Links     *Links
	Interface *Interface
	env       *Env
}

// NewTree returns a detached, empty tree. Trees created this way have no
// node-type catalog; use Env.NewTree to get default sockets on new nodes.
func NewTree(name string, domain Domain) *Tree {
	t := &Tree{Name: name, Domain: domain}
	t.Interface = &Interface{tree: t}
	t.Nodes = &Nodes{tree: t}
	t.Links = &Links{tree: t}
	return t
}

// SetFlag stores a boolean tree setting.
func (t *Tree) SetFlag(name string, v bool) {
	if t.Flags == nil {
		t.Flags = make(map[string]bool)
	}
	t.Flags[name] = v
}

// Clear removes every node, link and interface item.
func (t *Tree) Clear() {
	for _, n := range t.Nodes.All() {
		t.Nodes.Remove(n)
	}
	t.Interface.Items = nil
}

// Nodes is the ordered node collection of a Tree.
type Nodes struct {
	tree *Tree
	list []*Node
}

// New creates a node of the given type. When the tree belongs to an Env
// whose catalog knows the type, the node receives the catalog's sockets.
// Group input and output nodes receive one socket per interface socket.
func (ns *Nodes) New(typ string) *Node {
	n := &Node{Type: typ, Name: ns.uniqueName(typ), Width: 140, tree: ns.tree}
	if ns.tree.env != nil {
		ns.tree.env.Catalog.apply(n)
	}
	n.syncGroupIO()
	ns.list = append(ns.list, n)
	return n
}

// Add appends an already built node, taking ownership of it. The sockets
// of a group input or output node are bound to the interface by name and
// position; missing ones are created.
func (ns *Nodes) Add(n *Node) *Node {
	n.tree = ns.tree
	n.syncGroupIO()
	ns.list = append(ns.list, n)
	return n
}

// All returns the nodes in insertion order.
func (ns *Nodes) All() []*Node { return slices.Clone(ns.list) }

// Len returns the number of nodes.
func (ns *Nodes) Len() int { return len(ns.list) }

// Find returns the node with the given name.
func (ns *Nodes) Find(name string) (*Node, bool) {
	for _, n := range ns.list {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Remove deletes n and every link touching it.
func (ns *Nodes) Remove(n *Node) {
	i := slices.Index(ns.list, n)
	if i < 0 {
		return
	}
	for _, l := range ns.tree.Links.All() {
		if l.From.Node == n || l.To.Node == n {
			ns.tree.Links.Remove(l)
		}
	}
	for _, o := range ns.list {
		if o.Parent == n {
			o.Parent = nil
		}
	}
	ns.list = slices.Delete(ns.list, i, i+1)
}

func (ns *Nodes) uniqueName(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, ok := ns.Find(name); !ok {
			return name
		}
		name = base + "." + pad3(i)
	}
}

func pad3(i int) string {
	b := []byte{'0', '0', '0'}
	for p := 2; p >= 0 && i > 0; p-- {
		b[p] = byte('0' + i%10)
		i /= 10
	}
	return string(b)
}

// Link connects an output socket to an input socket.
type Link struct {
	From *Socket
	To   *Socket
	// SortID orders the links arriving at a multi-input socket.
	SortID int
}

// Links is the ordered link collection of a Tree.
type Links struct {
	tree *Tree
	list []*Link
}

// New links from to to. Links arriving at a multi-input socket receive
// increasing sort ids in creation order.
func (ls *Links) New(from, to *Socket) *Link {
	l := &Link{From: from, To: to}
	if to.MultiInput {
		l.SortID = to.links
	}
	from.links++
	to.links++
	ls.list = append(ls.list, l)
	return l
}

// Add appends an already built link.
func (ls *Links) Add(l *Link) *Link {
	l.From.links++
	l.To.links++
	ls.list = append(ls.list, l)
	return l
}

// All returns the links in insertion order.
func (ls *Links) All() []*Link { return slices.Clone(ls.list) }

// Len returns the number of links.
func (ls *Links) Len() int { return len(ls.list) }

// Remove deletes l.
func (ls *Links) Remove(l *Link) {
	i := slices.Index(ls.list, l)
	if i < 0 {
		return
	}
	l.From.links--
	l.To.links--
	ls.list = slices.Delete(ls.list, i, i+1)
}
