// Package nodetree holds the node graph model consumed by the exporter and
// the runtime API called by the programs it generates.
//
// The same types serve both directions: a host captures its graph state into
// a Tree (see compiler/load), the exporter reads it, and the generated Build
// function rebuilds an equal Tree through the constructors below.
//
//	env := nodetree.NewEnv()
//	env.Catalog.Register("ShaderNodeMath", nodetree.NodeTemplate{...})
//	tree, err := graph.Build(env)
package nodetree
