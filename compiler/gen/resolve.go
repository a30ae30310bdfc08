package gen

import "github.com/syssam/nodegen/nodetree"

// Resolve returns root and every tree it references through group nodes,
// each exactly once, ordered so that a referenced tree precedes every tree
// referencing it. The root is always last.
//
// A group node whose tree is missing aborts the walk with a ReferenceError.
func Resolve(root *nodetree.Tree) ([]*nodetree.Tree, error) {
	r := &resolver{visited: make(map[*nodetree.Tree]struct{})}
	if err := r.visit(root); err != nil {
		return nil, err
	}
	return r.order, nil
}

type resolver struct {
	visited map[*nodetree.Tree]struct{}
	order   []*nodetree.Tree
}

func (r *resolver) visit(t *nodetree.Tree) error {
	if _, ok := r.visited[t]; ok {
		return nil
	}
	r.visited[t] = struct{}{}
	d, err := LookupDomain(t.Domain)
	if err != nil {
		return NewGenerationError("resolve", "", t.Name, err)
	}
	for _, n := range t.Nodes.All() {
		if !d.IsGroup(n.Type) {
			continue
		}
		if n.Tree == nil {
			return NewReferenceError(t.Name, n.Name, n.TreeRef)
		}
		if err := r.visit(n.Tree); err != nil {
			return err
		}
	}
	r.order = append(r.order, t)
	return nil
}
