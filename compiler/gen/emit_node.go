package gen

import (
	"cmp"
	"errors"
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/nodegen/nodetree"
	"github.com/syssam/nodegen/schema"
)

// nodes emits every node in two passes: creation with attributes first,
// then socket defaults. Zone pairs are bound after creation and their
// members get their defaults once, after pairing, since pairing resets them.
func (s *scope) nodes() error {
	all := s.tree.Nodes.All()
	for _, n := range all {
		s.vars[n] = s.e.alloc.Allocate(n.Name)
	}
	for _, n := range all {
		if err := s.create(n); err != nil {
			return err
		}
	}
	var pairs []*nodetree.Node
	zoned := make(map[*nodetree.Node]bool)
	for _, n := range all {
		if n.Paired == nil {
			continue
		}
		if _, ok := s.vars[n.Paired]; !ok {
			s.warn(n.Name, "", "zone output %q is not part of the tree", n.Paired.Name)
			continue
		}
		pairs = append(pairs, n)
		zoned[n], zoned[n.Paired] = true, true
	}
	for _, n := range all {
		if zoned[n] {
			continue
		}
		if err := s.defaults(n); err != nil {
			return err
		}
	}
	for _, n := range pairs {
		s.add(jen.Id(s.vars[n]).Dot("Pair").Call(jen.Id(s.vars[n.Paired])))
		for _, m := range []*nodetree.Node{n, n.Paired} {
			if !zoned[m] {
				continue
			}
			delete(zoned, m)
			if err := s.defaults(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *scope) create(n *nodetree.Node) error {
	v := s.vars[n]
	set := func(field string, val jen.Code) {
		s.add(jen.Id(v).Dot(field).Op("=").Add(val))
	}
	s.add(jen.Id(v).Op(":=").Id("tree").Dot("Nodes").Dot("New").Call(jen.Lit(n.Type)))
	set("Name", jen.Lit(n.Name))
	if n.Label != "" {
		set("Label", jen.Lit(n.Label))
	}
	if n.UseCustomColor {
		set("UseCustomColor", jen.True())
		set("Color", s.e.enc.Color(n.Color))
	}
	if n.Mute {
		set("Mute", jen.True())
	}
	if n.Hide {
		set("Hide", jen.True())
	}
	if s.dom.IsGroup(n.Type) && n.Tree != nil {
		if !s.e.declared[n.Tree] {
			s.warn(n.Name, "", "tree %q is not defined before its use", n.Tree.Name)
		} else {
			s.add(jen.Id(v).Dot("SetTree").Call(jen.Id(s.e.Binding(n.Tree))))
		}
	}
	if err := s.attributes(n); err != nil {
		return err
	}
	for _, side := range []struct {
		field   string
		sockets []*nodetree.Socket
	}{{"Inputs", n.Inputs}, {"Outputs", n.Outputs}} {
		for i, sock := range side.sockets {
			if sock.Hide {
				s.add(jen.Id(v).Dot(side.field).Index(jen.Lit(i)).Dot("Hide").Op("=").True())
			}
		}
	}
	return nil
}

// attributes emits the schema attributes of n. Multi-variant node types
// add the attributes of the variant selected by the live selector value.
func (s *scope) attributes(n *nodetree.Node) error {
	reg, version := s.e.reg, s.e.cfg.Version
	attrs, ok := reg.Lookup(n.Type, version)
	if !ok {
		s.warn(n.Name, "", "unknown node type %s", n.Type)
		return nil
	}
	if entry, _ := reg.Entry(n.Type); entry.VariantBy != "" {
		extra, err := s.variant(n, entry)
		if err != nil {
			s.warn(n.Name, entry.VariantBy, "%v", err)
		}
		attrs = append(attrs, extra...)
	}
	v := s.vars[n]
	for _, a := range attrs {
		val, ok := n.Attr(a.Name)
		if !ok {
			s.warn(n.Name, a.Name, "attribute missing on node")
			continue
		}
		enc, err := s.e.enc.Encode(val, a.Type)
		if err != nil {
			s.warn(n.Name, a.Name, "%v", err)
			continue
		}
		if st, ok := enc.(Structured); ok {
			stmts, err := s.e.enc.EncodeSettings(v, a.Name, st, s.e.alloc)
			if err != nil {
				s.warn(n.Name, a.Name, "%v", err)
				continue
			}
			s.add(stmts...)
			continue
		}
		set := func(val jen.Code) *jen.Statement {
			return jen.Id(v).Dot("Set").Call(jen.Lit(a.Name), val)
		}
		if err := s.assign(set, enc, n.Name, a.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *scope) variant(n *nodetree.Node, entry *schema.Entry) ([]schema.Attr, error) {
	var tag string
	switch sel := n.Attrs[entry.VariantBy].(type) {
	case nodetree.Enum:
		tag = string(sel)
	case nodetree.String:
		tag = string(sel)
	case nil:
		return nil, errors.New("variant selector missing on node")
	default:
		return nil, NewEncodeError(schema.TypeEnum, sel, "variant selector is not an enum", nil)
	}
	return s.e.reg.Variant(n.Type, tag, s.e.cfg.Version)
}

// defaults emits the defaults of the unlinked, settable input sockets of
// n and, for constant-valued node types, of its outputs.
func (s *scope) defaults(n *nodetree.Node) error {
	if !s.e.cfg.SocketDefaults {
		return nil
	}
	if err := s.socketDefaults(n, "Inputs", n.Inputs, false); err != nil {
		return err
	}
	if s.dom.HasConstantOutputs(n.Type) {
		return s.socketDefaults(n, "Outputs", n.Outputs, true)
	}
	return nil
}

func (s *scope) socketDefaults(n *nodetree.Node, field string, sockets []*nodetree.Socket, outputs bool) error {
	v := s.vars[n]
	for i, sock := range sockets {
		switch {
		case sock.Default == nil,
			!outputs && sock.Linked(),
			!s.dom.Settable(sock.Type),
			(sock.Hide || !sock.Enabled) && !s.e.cfg.HiddenSocketDefaults:
			continue
		}
		set := func(val jen.Code) *jen.Statement {
			return jen.Id(v).Dot(field).Index(jen.Lit(i)).Dot("Default").Op("=").Add(val)
		}
		if err := s.socketDefault(set, sock.Type, sock.Default, n.Name); err != nil {
			return err
		}
	}
	return nil
}

// layout emits parents, then locations, then optional sizes.
func (s *scope) layout() {
	all := s.tree.Nodes.All()
	for _, n := range all {
		if n.Parent == nil {
			continue
		}
		p, ok := s.vars[n.Parent]
		if !ok {
			s.warn(n.Name, "", "parent %q is not part of the tree", n.Parent.Name)
			continue
		}
		s.add(jen.Id(s.vars[n]).Dot("Parent").Op("=").Id(p))
	}
	for _, n := range all {
		s.add(jen.Id(s.vars[n]).Dot("Location").Op("=").Add(s.e.enc.Vector(n.Location[:])))
	}
	if !s.e.cfg.NodeSizes {
		return
	}
	for _, n := range all {
		s.add(jen.Id(s.vars[n]).Dot("Width").Op("=").Add(s.e.enc.Float(n.Width)))
		if n.Height != 0 {
			s.add(jen.Id(s.vars[n]).Dot("Height").Op("=").Add(s.e.enc.Float(n.Height)))
		}
	}
}

// links emits links grouped by destination socket, in order of first
// appearance. Links into a multi-input socket follow their arrival order.
func (s *scope) links() {
	type group struct {
		to    *nodetree.Socket
		links []*nodetree.Link
	}
	var (
		groups []*group
		byDest = make(map[*nodetree.Socket]*group)
	)
	for _, l := range s.tree.Links.All() {
		g, ok := byDest[l.To]
		if !ok {
			g = &group{to: l.To}
			byDest[l.To] = g
			groups = append(groups, g)
		}
		g.links = append(g.links, l)
	}
	for _, g := range groups {
		if g.to.MultiInput {
			slices.SortStableFunc(g.links, func(a, b *nodetree.Link) int { return cmp.Compare(a.SortID, b.SortID) })
		}
		for _, l := range g.links {
			s.link(l)
		}
	}
}

func (s *scope) link(l *nodetree.Link) {
	from, okFrom := s.vars[l.From.Node]
	to, okTo := s.vars[l.To.Node]
	fi, ti := l.From.Index(), l.To.Index()
	if !okFrom || !okTo || fi < 0 || ti < 0 {
		s.warn("", "", "link %s -> %s has an endpoint outside the tree", socketName(l.From), socketName(l.To))
		return
	}
	s.add(jen.Id("tree").Dot("Links").Dot("New").Call(
		jen.Id(from).Dot("Outputs").Index(jen.Lit(fi)),
		jen.Id(to).Dot("Inputs").Index(jen.Lit(ti)),
	))
}

func socketName(sock *nodetree.Socket) string {
	if sock.Node == nil {
		return "?." + sock.Name
	}
	return sock.Node.Name + "." + sock.Name
}
