package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

//go:embed catalog/*.hcl
var builtin embed.FS

// catalogFile is the top-level structure of a catalog file.
type catalogFile struct {
	Nodes []*nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	Type       string          `hcl:"type,label"`
	Min        *string         `hcl:"min,optional"`
	Max        *string         `hcl:"max,optional"`
	VariantBy  *string         `hcl:"variant_by,optional"`
	Attributes []*attrBlock    `hcl:"attribute,block"`
	Variants   []*variantBlock `hcl:"variant,block"`
}

type attrBlock struct {
	Name string  `hcl:"name,label"`
	Type string  `hcl:"type"`
	Min  *string `hcl:"min,optional"`
	Max  *string `hcl:"max,optional"`
}

type variantBlock struct {
	Tag        string       `hcl:"tag,label"`
	Attributes []*attrBlock `hcl:"attribute,block"`
}

// Default returns a registry holding the built-in catalog.
func Default() (*Registry, error) {
	r := New()
	files, err := fs.Glob(builtin, "catalog/*.hcl")
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		src, err := builtin.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if err := r.Load(src, path.Base(name)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadFile merges the catalog file at path into r.
func (r *Registry) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("schema: read catalog: %w", err)
	}
	return r.Load(src, path)
}

// Load parses HCL catalog source and merges its entries into r. Entries
// already present are replaced.
func (r *Registry) Load(src []byte, filename string) error {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("schema: parse %s: %w", filename, diags)
	}
	var cf catalogFile
	if diags := gohcl.DecodeBody(file.Body, nil, &cf); diags.HasErrors() {
		return fmt.Errorf("schema: decode %s: %w", filename, diags)
	}
	for _, nb := range cf.Nodes {
		e, err := nb.entry()
		if err != nil {
			return fmt.Errorf("schema: %s: %w", filename, err)
		}
		r.Add(e)
	}
	return nil
}

func (nb *nodeBlock) entry() (*Entry, error) {
	rng, err := parseRange(nb.Min, nb.Max)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", nb.Type, err)
	}
	e := &Entry{Type: nb.Type, Range: rng}
	if e.Attrs, err = attrs(nb.Type, nb.Attributes); err != nil {
		return nil, err
	}
	if nb.VariantBy != nil {
		e.VariantBy = *nb.VariantBy
		e.Variants = make(map[string][]Attr, len(nb.Variants))
	}
	for _, vb := range nb.Variants {
		if e.VariantBy == "" {
			return nil, fmt.Errorf("node %s: variant %q without variant_by", nb.Type, vb.Tag)
		}
		if e.Variants[vb.Tag], err = attrs(nb.Type, vb.Attributes); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func attrs(nodeType string, blocks []*attrBlock) ([]Attr, error) {
	out := make([]Attr, 0, len(blocks))
	for _, ab := range blocks {
		t := ValueType(ab.Type)
		if !t.Valid() {
			return nil, fmt.Errorf("node %s: attribute %s: unknown value type %q", nodeType, ab.Name, ab.Type)
		}
		rng, err := parseRange(ab.Min, ab.Max)
		if err != nil {
			return nil, fmt.Errorf("node %s: attribute %s: %w", nodeType, ab.Name, err)
		}
		out = append(out, Attr{Name: ab.Name, Type: t, Range: rng})
	}
	return out, nil
}

func parseRange(minV, maxV *string) (Range, error) {
	var (
		r   Range
		err error
	)
	if minV != nil {
		if r.Min, err = ParseVersion(*minV); err != nil {
			return r, err
		}
	}
	if maxV != nil {
		if r.Max, err = ParseVersion(*maxV); err != nil {
			return r, err
		}
	}
	return r, nil
}
