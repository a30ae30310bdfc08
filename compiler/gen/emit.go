package gen

import (
	"context"
	"fmt"
	"maps"
	"path"
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/nodegen/nodetree"
	"github.com/syssam/nodegen/schema"
)

// Warning is a non-fatal problem found while emitting. The affected item
// is skipped and the export continues.
type Warning struct {
	Tree    string
	Node    string
	Attr    string
	Message string
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	s := w.Tree
	if w.Node != "" {
		s += "/" + w.Node
	}
	if w.Attr != "" {
		s += "." + w.Attr
	}
	return s + ": " + w.Message
}

// Emitter emits the factory closures of the trees of one export session.
// It must not be reused across sessions.
type Emitter struct {
	ctx   context.Context
	cfg   *Config
	reg   *schema.Registry
	alloc *Allocator
	enc   *Encoder
	// ext is nil unless the destination is a package.
	ext       *Externalizer
	bindings  map[*nodetree.Tree]string
	declared  map[*nodetree.Tree]bool
	exported  map[*nodetree.Image]Resource
	resources []Resource
	warnings  []Warning
}

// NewEmitter returns an emitter for one session.
func NewEmitter(ctx context.Context, cfg *Config, reg *schema.Registry) *Emitter {
	e := &Emitter{
		ctx:      ctx,
		cfg:      cfg,
		reg:      reg,
		alloc:    NewAllocator(),
		enc:      NewEncoder(cfg.RuntimePackage),
		bindings: make(map[*nodetree.Tree]string),
		declared: make(map[*nodetree.Tree]bool),
		exported: make(map[*nodetree.Image]Resource),
	}
	e.alloc.Reserve(path.Base(cfg.RuntimePackage))
	if cfg.Destination == DestinationPackage {
		e.ext = NewExternalizer(cfg.Target)
	}
	return e
}

// Warnings returns the warnings collected so far.
func (e *Emitter) Warnings() []Warning { return slices.Clone(e.warnings) }

// Resources returns the images externalized so far.
func (e *Emitter) Resources() []Resource { return slices.Clone(e.resources) }

// Binding returns the variable holding t, allocating it on first use.
func (e *Emitter) Binding(t *nodetree.Tree) string {
	if b, ok := e.bindings[t]; ok {
		return b
	}
	b := e.alloc.Allocate(t.Name)
	e.bindings[t] = b
	return b
}

func (e *Emitter) warn(w Warning) {
	e.warnings = append(e.warnings, w)
	e.cfg.Logger.Warn("nodegen: "+w.Message, "tree", w.Tree, "node", w.Node, "attr", w.Attr)
}

func (e *Emitter) qual(name string) *jen.Statement { return jen.Qual(e.cfg.RuntimePackage, name) }

// EmitTree returns the statements binding t to the result of its
// immediately invoked factory closure, followed by the error check.
// Trees referenced by t must have been emitted before.
func (e *Emitter) EmitTree(t *nodetree.Tree, root bool) ([]jen.Code, error) {
	d, err := LookupDomain(t.Domain)
	if err != nil {
		return nil, NewGenerationError("emit", "", t.Name, err)
	}
	e.cfg.Logger.Debug("nodegen: emit tree", "tree", t.Name, "domain", t.Domain, "nodes", t.Nodes.Len())
	binding := e.Binding(t)
	s := &scope{
		e:      e,
		tree:   t,
		dom:    d,
		vars:   make(map[*nodetree.Node]string),
		images: make(map[*nodetree.Image]string),
	}
	if err := s.emit(root); err != nil {
		return nil, err
	}
	e.declared[t] = true
	factory := jen.Func().Params().Params(jen.Op("*").Add(e.qual("Tree")), jen.Error()).Block(s.body...).Call()
	return []jen.Code{
		jen.List(jen.Id(binding), jen.Err()).Op(":=").Add(factory),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
	}, nil
}

// scope is the per-tree emission state.
type scope struct {
	e    *Emitter
	tree *nodetree.Tree
	dom  *Domain
	vars map[*nodetree.Node]string
	// images caches image variables loaded in this factory.
	images map[*nodetree.Image]string
	body   []jen.Code
	// deferred holds assignments that are only valid once links exist.
	deferred []func() []jen.Code
}

func (s *scope) add(code ...jen.Code) { s.body = append(s.body, code...) }

func (s *scope) warn(node, attr, format string, args ...any) {
	s.e.warn(Warning{Tree: s.tree.Name, Node: node, Attr: attr, Message: fmt.Sprintf(format, args...)})
}

func (s *scope) emit(root bool) error {
	if err := s.open(root); err != nil {
		return err
	}
	s.settings()
	if err := s.iface(s.tree.Interface.Items, nil); err != nil {
		return err
	}
	if err := s.nodes(); err != nil {
		return err
	}
	s.layout()
	s.links()
	for _, fn := range s.deferred {
		s.add(fn()...)
	}
	s.add(jen.Return(jen.Id("tree"), jen.Nil()))
	return nil
}

var containerConsts = map[nodetree.ContainerKind]string{
	nodetree.ContainerMaterial: "ContainerMaterial",
	nodetree.ContainerWorld:    "ContainerWorld",
	nodetree.ContainerLight:    "ContainerLight",
	nodetree.ContainerScene:    "ContainerScene",
}

var domainConsts = map[nodetree.Domain]string{
	nodetree.DomainShader:     "DomainShader",
	nodetree.DomainGeometry:   "DomainGeometry",
	nodetree.DomainCompositor: "DomainCompositor",
}

// open emits the tree variable. An owned root tree reuses its container's
// tree after clearing it.
func (s *scope) open(root bool) error {
	t, domain := s.tree, s.e.qual(domainConsts[s.tree.Domain])
	switch {
	case root && t.Owner != nil:
		if !s.dom.AllowsContainer(t.Owner.Kind) {
			return NewContainerError(t.Name, string(t.Domain), fmt.Sprintf("container kind %q cannot own this tree", t.Owner.Kind))
		}
		s.add(
			jen.Id("owner").Op(":=").Id("env").Dot("Container").Call(s.e.qual(containerConsts[t.Owner.Kind]), jen.Lit(t.Owner.Name)),
			jen.Id("tree").Op(":=").Id("owner").Dot("UseNodes").Call(domain),
			jen.Id("tree").Dot("Clear").Call(),
		)
	case root && s.dom.RequiresContainer:
		return NewContainerError(t.Name, string(t.Domain), "root tree has no owning container")
	default:
		s.add(jen.Id("tree").Op(":=").Id("env").Dot("NewTree").Call(jen.Lit(t.Name), domain))
	}
	return nil
}

func (s *scope) settings() {
	t := s.tree
	if t.Description != "" {
		s.add(jen.Id("tree").Dot("Description").Op("=").Lit(t.Description))
	}
	if t.Color != "" {
		s.add(jen.Id("tree").Dot("Color").Op("=").Lit(t.Color))
	}
	for _, name := range slices.Sorted(maps.Keys(t.Flags)) {
		s.add(jen.Id("tree").Dot("SetFlag").Call(jen.Lit(name), jen.Lit(t.Flags[name])))
	}
}

// assign emits the statements storing enc through set. Warnings are
// attributed to node and attr.
func (s *scope) assign(set func(jen.Code) *jen.Statement, enc Encoding, node, attr string) error {
	switch enc := enc.(type) {
	case Literal:
		s.add(set(enc.Expr))
	case Conditional:
		s.add(s.conditional(set, enc, node, attr))
	case ImageRef:
		v, ok, err := s.image(enc.Image)
		if err != nil {
			return err
		}
		if !ok {
			s.add(s.conditional(set, Conditional{Kind: nodetree.AssetImage, Name: enc.Image.Name}, node, attr))
			return nil
		}
		s.add(set(jen.Id(v)))
	default:
		s.warn(node, attr, "cannot assign %T value", enc)
	}
	return nil
}

// conditional assigns an asset only when the destination holds it.
func (s *scope) conditional(set func(jen.Code) *jen.Statement, c Conditional, node, attr string) jen.Code {
	if cat := s.e.cfg.Catalog; cat != nil {
		ok, err := cat.Exists(s.e.ctx, c.Kind, c.Name)
		switch {
		case err != nil:
			s.warn(node, attr, "catalog lookup of %s %q: %v", c.Kind, c.Name, err)
		case !ok:
			s.warn(node, attr, "%s %q not found in destination catalog", c.Kind, c.Name)
		}
	}
	lookup := jen.Id("env").Dot("Assets").Dot("Lookup").Call(s.e.enc.AssetKind(c.Kind), jen.Lit(c.Name))
	return jen.If(jen.List(jen.Id("asset"), jen.Id("ok")).Op(":=").Add(lookup), jen.Id("ok")).Block(set(jen.Id("asset")))
}

// image returns the variable holding img in this factory, emitting the
// loader on first use. The image is saved first; the loader is emitted
// only when a file is present afterwards.
func (s *scope) image(img *nodetree.Image) (string, bool, error) {
	if v, ok := s.images[img]; ok {
		return v, true, nil
	}
	if s.e.ext == nil {
		return "", false, nil
	}
	res, ok := s.e.exported[img]
	if !ok {
		var (
			present bool
			err     error
		)
		res, present, err = s.e.ext.Externalize(img)
		if err != nil {
			return "", false, err
		}
		if !present {
			return "", false, nil
		}
		s.e.exported[img] = res
		s.e.resources = append(s.e.resources, res)
	}
	v := s.e.alloc.Allocate(img.Name)
	s.add(
		jen.List(jen.Id(v), jen.Err()).Op(":=").Id("env").Dot("Images").Dot("Load").Call(jen.Id("assets"), jen.Lit(res.Path)),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Id(v).Dot("Name").Op("=").Lit(img.Name),
	)
	for _, p := range []struct{ field, value string }{
		{"Source", img.Source},
		{"ColorSpace", img.ColorSpace},
		{"AlphaMode", img.AlphaMode},
	} {
		if p.value != "" {
			s.add(jen.Id(v).Dot(p.field).Op("=").Lit(p.value))
		}
	}
	s.images[img] = v
	return v, true, nil
}
