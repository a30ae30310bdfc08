package load

import (
	"encoding/base64"
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/nodegen/nodetree"
)

// Build reconstructs the trees of d and returns the root. A group node
// whose tree is not part of the document keeps its raw reference in
// TreeRef with a nil Tree.
func (d *Document) Build() (*nodetree.Tree, error) {
	images := make(map[string]*nodetree.Image, len(d.Images))
	for _, di := range d.Images {
		if _, ok := images[di.ID]; ok {
			return nil, fmt.Errorf("load: duplicate image id %q", di.ID)
		}
		img := &nodetree.Image{
			Name:       di.Name,
			Format:     di.Format,
			Source:     di.Source,
			ColorSpace: di.ColorSpace,
			AlphaMode:  di.AlphaMode,
			Filepath:   di.Filepath,
		}
		if di.Data != "" {
			data, err := base64.StdEncoding.DecodeString(di.Data)
			if err != nil {
				return nil, fmt.Errorf("load: image %q: %w", di.ID, err)
			}
			img.Data = data
		}
		images[di.ID] = img
	}
	trees := make(map[string]*nodetree.Tree, len(d.Trees))
	for _, dt := range d.Trees {
		if _, ok := trees[dt.Name]; ok {
			return nil, fmt.Errorf("load: duplicate tree %q", dt.Name)
		}
		t := nodetree.NewTree(dt.Name, nodetree.Domain(dt.Domain))
		if dt.Owner != nil {
			t.Owner = &nodetree.Container{Kind: nodetree.ContainerKind(dt.Owner.Kind), Name: dt.Owner.Name, Tree: t}
		}
		trees[dt.Name] = t
	}
	b := &builder{images: images, trees: trees}
	for _, dt := range d.Trees {
		if err := b.tree(dt, trees[dt.Name]); err != nil {
			return nil, fmt.Errorf("load: tree %q: %w", dt.Name, err)
		}
	}
	root, ok := trees[d.Root]
	if !ok {
		return nil, fmt.Errorf("load: root tree %q not found", d.Root)
	}
	return root, nil
}

type builder struct {
	images map[string]*nodetree.Image
	trees  map[string]*nodetree.Tree
}

func (b *builder) tree(dt *Tree, t *nodetree.Tree) error {
	t.Description, t.Color = dt.Description, dt.Color
	for name, v := range dt.Flags {
		t.SetFlag(name, v)
	}
	if err := b.iface(t.Interface, dt.Interface, nil); err != nil {
		return err
	}
	nodes := make(map[string]*nodetree.Node, len(dt.Nodes))
	for _, dn := range dt.Nodes {
		if _, ok := nodes[dn.Name]; ok {
			return fmt.Errorf("duplicate node %q", dn.Name)
		}
		n, err := b.node(dn)
		if err != nil {
			return fmt.Errorf("node %q: %w", dn.Name, err)
		}
		nodes[dn.Name] = t.Nodes.Add(n)
	}
	for _, dn := range dt.Nodes {
		n := nodes[dn.Name]
		if dn.Parent != "" {
			p, ok := nodes[dn.Parent]
			if !ok {
				return fmt.Errorf("node %q: unknown parent %q", dn.Name, dn.Parent)
			}
			n.Parent = p
		}
		if dn.Paired != "" {
			p, ok := nodes[dn.Paired]
			if !ok {
				return fmt.Errorf("node %q: unknown zone output %q", dn.Name, dn.Paired)
			}
			n.Paired = p
		}
	}
	for i, dl := range dt.Links {
		from, err := endpoint(nodes, dl.From, true)
		if err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
		to, err := endpoint(nodes, dl.To, false)
		if err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
		t.Links.Add(&nodetree.Link{From: from, To: to, SortID: dl.SortID})
	}
	return nil
}

func (b *builder) iface(in *nodetree.Interface, items []*Item, parent *nodetree.Panel) error {
	for _, it := range items {
		if it.Panel {
			p := in.NewPanel(it.Name, parent)
			p.Description, p.DefaultClosed = it.Description, it.DefaultClosed
			if err := b.iface(in, it.Items, p); err != nil {
				return err
			}
			continue
		}
		s := in.NewSocket(it.Name, nodetree.InOut(it.InOut), it.Type, parent)
		s.Description = it.Description
		s.AttributeDomain, s.HideValue = it.AttributeDomain, it.HideValue
		if it.Min != nil {
			s.MinValue = *it.Min
		}
		if it.Max != nil {
			s.MaxValue = *it.Max
		}
		if it.Default != nil {
			v, err := decodeValue(it.Default, b.images)
			if err != nil {
				return fmt.Errorf("interface socket %q: %w", it.Name, err)
			}
			s.Default = v
		}
	}
	return nil
}

func (b *builder) node(dn *Node) (*nodetree.Node, error) {
	n := &nodetree.Node{
		Type:           dn.Type,
		Name:           dn.Name,
		Label:          dn.Label,
		Location:       nodetree.Vec2(dn.Location),
		Width:          dn.Width,
		Height:         dn.Height,
		UseCustomColor: dn.UseCustomColor,
		Mute:           dn.Mute,
		Hide:           dn.Hide,
		TreeRef:        dn.Tree,
	}
	if len(dn.Color) == 4 {
		n.Color = nodetree.Color(dn.Color)
	}
	if dn.Tree != "" {
		n.Tree = b.trees[dn.Tree]
	}
	for name, dv := range dn.Attrs {
		if dv == nil {
			continue
		}
		v, err := decodeValue(dv, b.images)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		n.Set(name, v)
	}
	for _, side := range []struct {
		sockets []*Socket
		add     func(name, typ string) *nodetree.Socket
	}{{dn.Inputs, n.AddInput}, {dn.Outputs, n.AddOutput}} {
		for _, ds := range side.sockets {
			s := side.add(ds.Name, ds.Type)
			if ds.Identifier != "" {
				s.Identifier = ds.Identifier
			}
			s.Hide, s.Enabled, s.MultiInput = ds.Hide, !ds.Disabled, ds.MultiInput
			if ds.Default != nil {
				v, err := decodeValue(ds.Default, b.images)
				if err != nil {
					return nil, fmt.Errorf("socket %q: %w", ds.Name, err)
				}
				s.Default = v
			}
		}
	}
	return n, nil
}

func endpoint(nodes map[string]*nodetree.Node, e Endpoint, output bool) (*nodetree.Socket, error) {
	n, ok := nodes[e.Node]
	if !ok {
		return nil, fmt.Errorf("unknown node %q", e.Node)
	}
	list := n.Inputs
	if output {
		list = n.Outputs
	}
	if e.Socket < 0 || e.Socket >= len(list) {
		return nil, fmt.Errorf("node %q has no socket %d", e.Node, e.Socket)
	}
	return list[e.Socket], nil
}

// Capture returns the document of root and every tree it references
// through group nodes, referenced trees first.
func Capture(root *nodetree.Tree) (*Document, error) {
	c := &capturer{visited: make(map[*nodetree.Tree]bool), images: newImageSet()}
	if err := c.visit(root); err != nil {
		return nil, err
	}
	return &Document{
		Version: CurrentVersion,
		Root:    root.Name,
		Trees:   c.trees,
		Images:  c.images.list,
	}, nil
}

type capturer struct {
	visited map[*nodetree.Tree]bool
	trees   []*Tree
	images  *imageSet
}

func (c *capturer) visit(t *nodetree.Tree) error {
	if c.visited[t] {
		return nil
	}
	c.visited[t] = true
	for _, n := range t.Nodes.All() {
		if n.Tree != nil {
			if err := c.visit(n.Tree); err != nil {
				return err
			}
		}
	}
	dt, err := c.tree(t)
	if err != nil {
		return fmt.Errorf("load: tree %q: %w", t.Name, err)
	}
	c.trees = append(c.trees, dt)
	return nil
}

func (c *capturer) tree(t *nodetree.Tree) (*Tree, error) {
	dt := &Tree{
		Name:        t.Name,
		Domain:      string(t.Domain),
		Description: t.Description,
		Color:       t.Color,
	}
	if len(t.Flags) > 0 {
		dt.Flags = maps.Clone(t.Flags)
	}
	if t.Owner != nil {
		dt.Owner = &Owner{Kind: string(t.Owner.Kind), Name: t.Owner.Name}
	}
	items, err := c.iface(t.Interface.Items)
	if err != nil {
		return nil, err
	}
	dt.Interface = items
	for _, n := range t.Nodes.All() {
		dn, err := c.node(n)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		dt.Nodes = append(dt.Nodes, dn)
	}
	for _, l := range t.Links.All() {
		if l.From.Node == nil || l.To.Node == nil {
			return nil, fmt.Errorf("detached link %s -> %s", l.From.Name, l.To.Name)
		}
		dt.Links = append(dt.Links, &Link{
			From:   Endpoint{Node: l.From.Node.Name, Socket: l.From.Index()},
			To:     Endpoint{Node: l.To.Node.Name, Socket: l.To.Index()},
			SortID: l.SortID,
		})
	}
	return dt, nil
}

func (c *capturer) iface(items []nodetree.InterfaceItem) ([]*Item, error) {
	var out []*Item
	for _, it := range items {
		switch it := it.(type) {
		case *nodetree.Panel:
			children, err := c.iface(it.Items)
			if err != nil {
				return nil, err
			}
			out = append(out, &Item{
				Panel:         true,
				Name:          it.Name,
				Description:   it.Description,
				DefaultClosed: it.DefaultClosed,
				Items:         children,
			})
		case *nodetree.InterfaceSocket:
			def, err := encodeValue(it.Default, c.images)
			if err != nil {
				return nil, fmt.Errorf("interface socket %q: %w", it.Name, err)
			}
			di := &Item{
				Name:            it.Name,
				Description:     it.Description,
				InOut:           string(it.InOut),
				Type:            it.Type,
				Default:         def,
				AttributeDomain: it.AttributeDomain,
				HideValue:       it.HideValue,
			}
			if it.MinValue != nodetree.DefaultMinValue {
				di.Min = &it.MinValue
			}
			if it.MaxValue != nodetree.DefaultMaxValue {
				di.Max = &it.MaxValue
			}
			out = append(out, di)
		}
	}
	return out, nil
}

func (c *capturer) node(n *nodetree.Node) (*Node, error) {
	dn := &Node{
		Type:           n.Type,
		Name:           n.Name,
		Label:          n.Label,
		Location:       n.Location,
		Width:          n.Width,
		Height:         n.Height,
		UseCustomColor: n.UseCustomColor,
		Mute:           n.Mute,
		Hide:           n.Hide,
		Tree:           n.TreeRef,
	}
	if n.Tree != nil {
		dn.Tree = n.Tree.Name
	}
	if n.UseCustomColor {
		dn.Color = append([]float64(nil), n.Color[:]...)
	}
	if n.Parent != nil {
		dn.Parent = n.Parent.Name
	}
	if n.Paired != nil {
		dn.Paired = n.Paired.Name
	}
	if len(n.Attrs) > 0 {
		dn.Attrs = make(map[string]*Value, len(n.Attrs))
		for _, name := range slices.Sorted(maps.Keys(n.Attrs)) {
			dv, err := encodeValue(n.Attrs[name], c.images)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", name, err)
			}
			if dv != nil {
				dn.Attrs[name] = dv
			}
		}
	}
	for _, side := range []struct {
		in  []*nodetree.Socket
		out *[]*Socket
	}{{n.Inputs, &dn.Inputs}, {n.Outputs, &dn.Outputs}} {
		for _, s := range side.in {
			def, err := encodeValue(s.Default, c.images)
			if err != nil {
				return nil, fmt.Errorf("socket %q: %w", s.Name, err)
			}
			ds := &Socket{
				Name:       s.Name,
				Type:       s.Type,
				Default:    def,
				Hide:       s.Hide,
				Disabled:   !s.Enabled,
				MultiInput: s.MultiInput,
			}
			if s.Identifier != s.Name {
				ds.Identifier = s.Identifier
			}
			*side.out = append(*side.out, ds)
		}
	}
	return dn, nil
}
