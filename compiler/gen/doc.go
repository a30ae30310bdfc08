// Package gen turns a node tree into the Go program that rebuilds it.
//
// The generated program targets the nodetree runtime package. It declares a
// single function:
//
//	func Build(env *nodetree.Env) (*nodetree.Tree, error)
//
// Every tree reachable from the root through group nodes is built once, by
// an immediately invoked factory closure, in an order where a referenced
// tree always comes before the trees using it. Build returns the root.
//
// # Architecture
//
// An export runs the following pipeline:
//
//	root tree
//	    ↓
//	Resolve (referenced trees first, root last)
//	    ↓
//	Emitter.EmitTree per tree (jennifer statements)
//	    ↓
//	inline Build function, or a whole packaged Go file
//	    ↓
//	reindent
//
// # Key Types
//
//   - Config: options of one export, built with the functional options pattern
//   - Allocator: unique, valid Go identifiers for trees, nodes and sockets
//   - Encoder: attribute and socket values as Go expressions
//   - Externalizer: image data written next to a packaged program
//   - Emitter: per-session state; one closure per tree
//   - Domain: the per-domain rules, such as group node types and containers
//
// # Error Handling
//
// Fatal problems abort the export and are reported with structured errors:
//
//   - ConfigError: invalid or missing options
//   - ReferenceError: a group node whose tree cannot be found
//   - ContainerError: a root tree without a valid owning container
//   - GenerationError: rendering or file system failures
//
// Item-level problems, such as an unknown node type or an attribute that
// does not encode, are collected as warnings on the Result. The affected
// item is skipped and the rest of the program is still emitted.
//
//	res, err := gen.Export(ctx, root, cfg)
//	if err != nil {
//	    if gen.IsReferenceError(err) {
//	        // Handle a dangling group reference
//	    }
//	    return err
//	}
//	for _, w := range res.Warnings {
//	    log.Print(w)
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithDestination(gen.DestinationPackage),
//	    gen.WithTarget("./scene"),
//	    gen.WithVersion("4.2"),
//	    gen.WithIndent(gen.Indent4),
//	)
//
// Packaged exports write image data under the "assets" directory of the
// target and embed it into the generated file.
package gen
