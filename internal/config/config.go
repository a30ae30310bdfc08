// Package config loads the nodegen command configuration from a
// nodegen.yaml or nodegen.toml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/syssam/nodegen/catalog"
	"github.com/syssam/nodegen/compiler/gen"
	"github.com/syssam/nodegen/schema"
)

// FileNames are the configuration files searched for, in order.
var FileNames = []string{"nodegen.yaml", "nodegen.yml", "nodegen.toml"}

// Config is the command configuration. Unset fields keep the exporter
// defaults.
type Config struct {
	Destination string `yaml:"destination" toml:"destination"`
	Target      string `yaml:"target" toml:"target"`
	Package     string `yaml:"package" toml:"package"`
	Version     string `yaml:"version" toml:"version"`
	Indent      string `yaml:"indent" toml:"indent"`
	Header      string `yaml:"header" toml:"header"`

	// Runtime is the import path of the runtime package.
	Runtime string `yaml:"runtime" toml:"runtime"`

	SocketDefaults       *bool `yaml:"socket_defaults" toml:"socket_defaults"`
	NodeSizes            *bool `yaml:"node_sizes" toml:"node_sizes"`
	HiddenSocketDefaults *bool `yaml:"hidden_socket_defaults" toml:"hidden_socket_defaults"`

	// Schemas are extra HCL catalog files merged over the built-in one.
	Schemas []string `yaml:"schemas" toml:"schemas"`

	// License is the path of a license file copied into packaged output.
	License string `yaml:"license" toml:"license"`

	Workers int           `yaml:"workers" toml:"workers"`
	Catalog CatalogConfig `yaml:"catalog" toml:"catalog"`

	// dir is the directory of the file the config was read from. Relative
	// paths resolve against it.
	dir string
}

// CatalogConfig selects the SQL asset catalog.
type CatalogConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
	Table  string `yaml:"table" toml:"table"`
}

// Load reads the config file at path. The format follows the extension.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := &Config{dir: filepath.Dir(path)}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(buf), c)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("config: unsupported config format %q", ext)
	}
	return c, nil
}

// Find loads the first config file found in dir. It returns an empty
// config when there is none.
func Find(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return Load(path)
	}
	return &Config{dir: dir}, nil
}

// Path resolves p against the config directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Options returns the export options the config sets.
func (c *Config) Options() []gen.Option {
	var opts []gen.Option
	if c.Destination != "" {
		opts = append(opts, gen.WithDestination(gen.Destination(c.Destination)))
	}
	if c.Target != "" {
		opts = append(opts, gen.WithTarget(c.Path(c.Target)))
	}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Version != "" {
		opts = append(opts, gen.WithVersion(c.Version))
	}
	if c.Indent != "" {
		opts = append(opts, gen.WithIndent(gen.Indent(c.Indent)))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Runtime != "" {
		opts = append(opts, gen.WithRuntimePackage(c.Runtime))
	}
	if c.SocketDefaults != nil {
		opts = append(opts, gen.WithSocketDefaults(*c.SocketDefaults))
	}
	if c.NodeSizes != nil {
		opts = append(opts, gen.WithNodeSizes(*c.NodeSizes))
	}
	if c.HiddenSocketDefaults != nil {
		opts = append(opts, gen.WithHiddenSocketDefaults(*c.HiddenSocketDefaults))
	}
	return opts
}

// Registry returns the built-in schema catalog merged with the configured
// schema files.
func (c *Config) Registry() (*schema.Registry, error) {
	r, err := schema.Default()
	if err != nil {
		return nil, err
	}
	for _, p := range c.Schemas {
		if err := r.LoadFile(c.Path(p)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LicenseText returns the configured license text, if any.
func (c *Config) LicenseText() (string, error) {
	if c.License == "" {
		return "", nil
	}
	buf, err := os.ReadFile(c.Path(c.License))
	if err != nil {
		return "", fmt.Errorf("config: license: %w", err)
	}
	return string(buf), nil
}

// OpenCatalog opens the configured SQL catalog. It returns nil when no
// catalog is configured.
func (c *Config) OpenCatalog(opts ...catalog.SQLOption) (*catalog.SQL, error) {
	if c.Catalog.Driver == "" {
		return nil, nil
	}
	if c.Catalog.Table != "" {
		opts = append(opts, catalog.WithTable(c.Catalog.Table))
	}
	return catalog.OpenSQL(c.Catalog.Driver, c.Catalog.DSN, opts...)
}
