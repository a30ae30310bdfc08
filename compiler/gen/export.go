package gen

import (
	"bytes"
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/nodegen/nodetree"
	"github.com/syssam/nodegen/schema"
)

// Result is the output of one export.
type Result struct {
	// Source is the rendered program: the Build function alone for inline
	// exports, a whole Go file for packaged ones.
	Source []byte
	// Trees is the processing order, referenced trees first.
	Trees     []*nodetree.Tree
	Resources []Resource
	Warnings  []Warning
}

// Export renders the program rebuilding root and every tree it references.
// Fatal errors abort the export and return no result; item-level problems
// are reported as warnings on the result.
func Export(ctx context.Context, root *nodetree.Tree, cfg *Config) (*Result, error) {
	if root == nil {
		return nil, NewConfigError("Root", nil, "root tree cannot be nil")
	}
	if cfg == nil {
		var err error
		if cfg, err = NewConfig(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg := cfg.Registry
	if reg == nil {
		var err error
		if reg, err = schema.Default(); err != nil {
			return nil, NewGenerationError("schema", "", "load built-in catalog", err)
		}
	}
	order, err := Resolve(root)
	if err != nil {
		return nil, err
	}
	em := NewEmitter(ctx, cfg, reg)
	var body []jen.Code
	for _, t := range order {
		stmts, err := em.EmitTree(t, t == root)
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}
	body = append(body, jen.Return(jen.Id(em.Binding(root)), jen.Nil()))
	rt := cfg.RuntimePackage
	build := jen.Func().Id("Build").
		Params(jen.Id("env").Op("*").Qual(rt, "Env")).
		Params(jen.Op("*").Qual(rt, "Tree"), jen.Error()).
		Block(body...)

	res := &Result{
		Trees:     order,
		Resources: em.Resources(),
		Warnings:  em.Warnings(),
	}
	var buf bytes.Buffer
	switch cfg.Destination {
	case DestinationPackage:
		f := jen.NewFile(cfg.Package)
		if cfg.Header != "" {
			f.HeaderComment(cfg.Header)
		}
		if len(res.Resources) > 0 {
			f.Comment("//go:embed " + AssetsDir)
			f.Var().Id("assets").Qual("embed", "FS")
		}
		f.Add(build)
		err = f.Render(&buf)
	default:
		err = build.Render(&buf)
	}
	if err != nil {
		return nil, NewGenerationError("render", "", "", err)
	}
	res.Source = reindent(buf.Bytes(), cfg.Indent.Unit())
	cfg.Logger.Debug("nodegen: export done",
		"tree", root.Name,
		"trees", len(order),
		"resources", len(res.Resources),
		"warnings", len(res.Warnings),
	)
	return res, nil
}

// Exporter exports trees with a fixed configuration.
type Exporter struct {
	cfg *Config
}

// NewExporter returns an exporter configured with opts.
func NewExporter(opts ...Option) (*Exporter, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{cfg: cfg}, nil
}

// Config returns the exporter configuration.
func (x *Exporter) Config() *Config { return x.cfg }

// Export exports root. See Export.
func (x *Exporter) Export(ctx context.Context, root *nodetree.Tree) (*Result, error) {
	return Export(ctx, root, x.cfg)
}

// reindent replaces the leading tabs of every line with unit.
func reindent(src []byte, unit string) []byte {
	if unit == "\t" {
		return src
	}
	lines := bytes.SplitAfter(src, []byte("\n"))
	var out bytes.Buffer
	out.Grow(len(src))
	for _, line := range lines {
		n := 0
		for n < len(line) && line[n] == '\t' {
			n++
		}
		for range n {
			out.WriteString(unit)
		}
		out.Write(line[n:])
	}
	return out.Bytes()
}
