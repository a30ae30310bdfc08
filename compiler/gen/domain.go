package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/nodegen/nodetree"
)

// Domain is the capability record of one tree family. The emitter is
// parameterized by a Domain instead of carrying per-family code paths.
type Domain struct {
	Name nodetree.Domain
	// GroupTypes are the node types that reference a nested tree.
	GroupTypes []string
	// Containers lists the host containers a root tree of this domain may
	// be embedded in.
	Containers []nodetree.ContainerKind
	// RequiresContainer makes a root tree without an owner a fatal error.
	RequiresContainer bool
	// Unsettable lists socket types whose defaults are never emitted.
	Unsettable []string
	// ConstantOutputs lists node types whose output defaults are emitted.
	ConstantOutputs []string
}

// IsGroup reports whether nodeType references a nested tree.
func (d *Domain) IsGroup(nodeType string) bool { return slices.Contains(d.GroupTypes, nodeType) }

// Settable reports whether sockets of the given type accept a default.
func (d *Domain) Settable(socketType string) bool { return !slices.Contains(d.Unsettable, socketType) }

// HasConstantOutputs reports whether output defaults of nodeType are emitted.
func (d *Domain) HasConstantOutputs(nodeType string) bool {
	return slices.Contains(d.ConstantOutputs, nodeType)
}

// AllowsContainer reports whether a root tree may be owned by kind.
func (d *Domain) AllowsContainer(kind nodetree.ContainerKind) bool {
	return slices.Contains(d.Containers, kind)
}

// String implements fmt.Stringer.
func (d *Domain) String() string { return string(d.Name) }

var domains = []*Domain{
	{
		Name:       nodetree.DomainShader,
		GroupTypes: []string{"ShaderNodeGroup"},
		Containers: []nodetree.ContainerKind{
			nodetree.ContainerMaterial,
			nodetree.ContainerWorld,
			nodetree.ContainerLight,
		},
		Unsettable:      []string{nodetree.SocketShader, nodetree.SocketVirtual},
		ConstantOutputs: []string{"ShaderNodeValue", "ShaderNodeRGB", "ShaderNodeNormal"},
	},
	{
		Name:       nodetree.DomainGeometry,
		GroupTypes: []string{"GeometryNodeGroup"},
		Unsettable: []string{
			nodetree.SocketGeometry,
			nodetree.SocketShader,
			nodetree.SocketMatrix,
			nodetree.SocketVirtual,
		},
		ConstantOutputs: []string{"ShaderNodeValue", "FunctionNodeInputColor"},
	},
	{
		Name:              nodetree.DomainCompositor,
		GroupTypes:        []string{"CompositorNodeGroup"},
		Containers:        []nodetree.ContainerKind{nodetree.ContainerScene},
		RequiresContainer: true,
		Unsettable:        []string{nodetree.SocketVirtual},
		ConstantOutputs:   []string{"CompositorNodeValue", "CompositorNodeRGB", "CompositorNodeNormal"},
	},
}

// LookupDomain returns the capability record of the named domain.
func LookupDomain(name nodetree.Domain) (*Domain, error) {
	for _, d := range domains {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("nodegen: unknown tree domain %q", name)
}
