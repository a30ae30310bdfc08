package nodetree

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
)

// ContainerKind names a host container that can embed a node tree.
type ContainerKind string

// Container kinds.
const (
	ContainerMaterial ContainerKind = "material"
	ContainerWorld    ContainerKind = "world"
	ContainerLight    ContainerKind = "light"
	ContainerScene    ContainerKind = "scene"
)

// Container is a host object owning a node tree, such as a material or a
// scene.
type Container struct {
	Kind ContainerKind
	Name string
	Tree *Tree
	env  *Env
}

// UseNodes returns the container's tree, creating it when missing.
func (c *Container) UseNodes(domain Domain) *Tree {
	if c.Tree == nil {
		if c.env != nil {
			c.Tree = c.env.NewTree(c.Name, domain)
		} else {
			c.Tree = NewTree(c.Name, domain)
		}
		c.Tree.Owner = c
	}
	return c.Tree
}

// SocketTemplate describes a default socket of a node type.
type SocketTemplate struct {
	Name       string
	Type       string
	Default    Value
	MultiInput bool
}

// NodeTemplate lists the default sockets of a node type.
type NodeTemplate struct {
	Inputs  []SocketTemplate
	Outputs []SocketTemplate
}

// Catalog maps node types to their default sockets.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]NodeTemplate
}

// Register adds or replaces the template of a node type.
func (c *Catalog) Register(typ string, t NodeTemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.types == nil {
		c.types = make(map[string]NodeTemplate)
	}
	c.types[typ] = t
}

func (c *Catalog) apply(n *Node) {
	c.mu.RLock()
	t, ok := c.types[n.Type]
	c.mu.RUnlock()
	if !ok {
		return
	}
	for _, st := range t.Inputs {
		s := n.AddInput(st.Name, st.Type)
		s.Default, s.MultiInput = st.Default, st.MultiInput
	}
	for _, st := range t.Outputs {
		s := n.AddOutput(st.Name, st.Type)
		s.Default = st.Default
	}
}

// Assets is the registry of named assets in an Env.
type Assets struct {
	mu     sync.RWMutex
	byKind map[AssetKind]map[string]*Asset
}

// Add registers an asset and returns it.
func (a *Assets) Add(kind AssetKind, name string) *Asset {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.byKind == nil {
		a.byKind = make(map[AssetKind]map[string]*Asset)
	}
	if a.byKind[kind] == nil {
		a.byKind[kind] = make(map[string]*Asset)
	}
	as := &Asset{Type: kind, Name: name}
	a.byKind[kind][name] = as
	return as
}

// Lookup returns the asset of the given kind and name.
func (a *Assets) Lookup(kind AssetKind, name string) (*Asset, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	as, ok := a.byKind[kind][name]
	return as, ok
}

// Names returns the sorted asset names of a kind.
func (a *Assets) Names(kind AssetKind) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.byKind[kind]))
	for n := range a.byKind[kind] {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Image is an image resource. Data holds the encoded file bytes; an image
// without data has no backing pixels to externalize.
type Image struct {
	Name       string
	Format     string
	Source     string
	ColorSpace string
	AlphaMode  string
	Filepath   string
	Data       []byte
}

func (*Image) Kind() Kind { return KindImage }

// HasData reports whether the image has backing data.
func (img *Image) HasData() bool { return len(img.Data) > 0 }

// Images loads image files into an Env.
type Images struct {
	mu   sync.Mutex
	list []*Image
}

// Load reads name from fsys and registers the image.
func (im *Images) Load(fsys fs.FS, name string) (*Image, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("nodetree: load image %q: %w", name, err)
	}
	base := path.Base(name)
	img := &Image{
		Name:     strings.TrimSuffix(base, path.Ext(base)),
		Format:   strings.ToUpper(strings.TrimPrefix(path.Ext(base), ".")),
		Source:   "FILE",
		Filepath: name,
		Data:     data,
	}
	im.mu.Lock()
	im.list = append(im.list, img)
	im.mu.Unlock()
	return img, nil
}

// All returns the loaded images.
func (im *Images) All() []*Image {
	im.mu.Lock()
	defer im.mu.Unlock()
	return slices.Clone(im.list)
}

// Env is the destination environment handed to a generated Build function.
type Env struct {
	Catalog    *Catalog
	Assets     *Assets
	Images     *Images
	trees      []*Tree
	containers map[ContainerKind]map[string]*Container
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{
		Catalog:    &Catalog{},
		Assets:     &Assets{},
		Images:     &Images{},
		containers: make(map[ContainerKind]map[string]*Container),
	}
}

// NewTree creates a tree registered in the environment.
func (e *Env) NewTree(name string, domain Domain) *Tree {
	t := NewTree(name, domain)
	t.env = e
	e.trees = append(e.trees, t)
	return t
}

// Trees returns the trees created in the environment.
func (e *Env) Trees() []*Tree { return slices.Clone(e.trees) }

// Container returns the container of the given kind and name, creating it
// when missing.
func (e *Env) Container(kind ContainerKind, name string) *Container {
	if e.containers[kind] == nil {
		e.containers[kind] = make(map[string]*Container)
	}
	c, ok := e.containers[kind][name]
	if !ok {
		c = &Container{Kind: kind, Name: name, env: e}
		e.containers[kind][name] = c
	}
	return c
}
