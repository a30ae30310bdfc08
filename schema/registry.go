package schema

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownVariant is reported when a multi-variant node carries a variant
// tag the registry has no sub-entry for.
var ErrUnknownVariant = errors.New("schema: unknown node variant")

// VariantError describes an unrecognized variant tag.
type VariantError struct {
	NodeType string
	Attr     string
	Tag      string
}

// Error implements the error interface.
func (e *VariantError) Error() string {
	return fmt.Sprintf("schema: unrecognized %s %q on node type %s", e.Attr, e.Tag, e.NodeType)
}

// Is reports whether target is ErrUnknownVariant.
func (e *VariantError) Is(target error) bool { return target == ErrUnknownVariant }

// Attr describes one attribute of a node type.
type Attr struct {
	Name  string
	Type  ValueType
	Range Range
}

// Entry is the catalog entry of one node type.
type Entry struct {
	Type  string
	Range Range
	Attrs []Attr
	// VariantBy names the attribute whose live value selects one of
	// Variants. Empty for single-shape node types.
	VariantBy string
	Variants  map[string][]Attr
}

func (e *Entry) filter(attrs []Attr, v Version) []Attr {
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		if e.Range.Intersect(a.Range).Contains(v) {
			out = append(out, a)
		}
	}
	return out
}

// Registry is the node-type attribute catalog. It is safe for concurrent
// reads once built.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Add registers e, replacing any previous entry of the same type.
func (r *Registry) Add(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Type] = e
}

// Entry returns the raw entry of a node type.
func (r *Registry) Entry(nodeType string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[nodeType]
	return e, ok
}

// Types returns the registered node types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Lookup returns the attributes of nodeType applicable at version v, in
// declaration order. An attribute is included iff v lies in the
// intersection of its own range and the entry range. The boolean is false
// for unknown node types.
func (r *Registry) Lookup(nodeType string, v Version) ([]Attr, bool) {
	e, ok := r.Entry(nodeType)
	if !ok {
		return nil, false
	}
	return e.filter(e.Attrs, v), true
}

// Variant returns the attributes of the sub-entry selected by tag, the live
// value of the entry's VariantBy attribute.
func (r *Registry) Variant(nodeType, tag string, v Version) ([]Attr, error) {
	e, ok := r.Entry(nodeType)
	if !ok || e.VariantBy == "" {
		return nil, nil
	}
	attrs, ok := e.Variants[tag]
	if !ok {
		return nil, &VariantError{NodeType: nodeType, Attr: e.VariantBy, Tag: tag}
	}
	return e.filter(attrs, v), nil
}
