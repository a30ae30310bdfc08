// Package catalog answers whether a named asset exists in a destination
// environment. The exporter consults it for asset references it can only
// emit conditionally.
package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/syssam/nodegen/nodetree"
)

// Catalog reports the assets available in a destination environment.
type Catalog interface {
	Exists(ctx context.Context, kind nodetree.AssetKind, name string) (bool, error)
}

// Kinds lists the asset kinds a catalog tracks.
var Kinds = []nodetree.AssetKind{
	nodetree.AssetMaterial, nodetree.AssetObject, nodetree.AssetCollection,
	nodetree.AssetTexture, nodetree.AssetImage, nodetree.AssetScene,
}

// Memory is an in-memory Catalog.
type Memory struct {
	mu     sync.RWMutex
	assets map[nodetree.AssetKind]map[string]struct{}
}

// NewMemory returns a catalog holding the given assets.
func NewMemory(assets ...nodetree.Asset) *Memory {
	m := &Memory{assets: make(map[nodetree.AssetKind]map[string]struct{})}
	for _, a := range assets {
		m.Add(a.Type, a.Name)
	}
	return m
}

// Add registers an asset.
func (m *Memory) Add(kind nodetree.AssetKind, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.assets[kind] == nil {
		m.assets[kind] = make(map[string]struct{})
	}
	m.assets[kind][name] = struct{}{}
}

// Exists implements Catalog.
func (m *Memory) Exists(_ context.Context, kind nodetree.AssetKind, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.assets[kind][name]
	return ok, nil
}

// Names returns the sorted names of the assets of a kind.
func (m *Memory) Names(kind nodetree.AssetKind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.assets[kind]))
	for n := range m.assets[kind] {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// FromEnv returns a catalog snapshot of the assets registered in env.
func FromEnv(env *nodetree.Env) *Memory {
	m := NewMemory()
	for _, kind := range Kinds {
		for _, name := range env.Assets.Names(kind) {
			m.Add(kind, name)
		}
	}
	return m
}
