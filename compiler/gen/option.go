package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"os"
	"strings"

	"github.com/syssam/nodegen/catalog"
	"github.com/syssam/nodegen/schema"
)

// Destination selects the shape of the export output.
type Destination string

// Destinations.
const (
	// DestinationInline renders only the Build function.
	DestinationInline Destination = "inline"
	// DestinationPackage renders a whole Go file and externalizes images
	// next to it.
	DestinationPackage Destination = "package"
)

// Indent selects the indentation of the rendered program.
type Indent string

// Indentation styles.
const (
	IndentTab Indent = "tab"
	Indent2   Indent = "2-space"
	Indent4   Indent = "4-space"
	Indent8   Indent = "8-space"
)

// Unit returns the whitespace of one indentation level.
func (i Indent) Unit() string {
	switch i {
	case Indent2:
		return "  "
	case Indent4:
		return "    "
	case Indent8:
		return "        "
	default:
		return "\t"
	}
}

// Defaults.
const (
	DefaultRuntimePackage = "github.com/syssam/nodegen/nodetree"
	DefaultHeader         = "Code generated by nodegen. DO NOT EDIT."
	DefaultPackage        = "scene"
)

// DefaultVersion is the target format version used when none is set.
var DefaultVersion = schema.Version{Major: 4, Minor: 2}

// Config holds the options of one export.
type Config struct {
	Destination Destination
	// Target is the package directory. Required for DestinationPackage.
	Target string
	// Package is the package name of a packaged program.
	Package string
	Version schema.Version
	// SocketDefaults enables socket default and interface range emission.
	SocketDefaults bool
	// NodeSizes enables explicit width and height assignments.
	NodeSizes bool
	// HiddenSocketDefaults includes hidden and unavailable sockets.
	HiddenSocketDefaults bool
	Indent               Indent
	Header               string
	// Registry is the attribute catalog. Nil selects schema.Default.
	Registry *schema.Registry
	// Catalog, when set, is asked whether conditionally referenced assets
	// exist in the destination.
	Catalog        catalog.Catalog
	Logger         *slog.Logger
	RuntimePackage string
}

// Option configures an export.
type Option func(*Config) error

// WithDestination sets the output shape.
func WithDestination(d Destination) Option {
	return func(c *Config) error {
		switch d {
		case DestinationInline, DestinationPackage:
			c.Destination = d
			return nil
		default:
			return NewConfigError("Destination", d, "unsupported destination; use inline or package")
		}
	}
}

// WithTarget sets the package directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the package name of a packaged program.
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return NewConfigError("Package", name, "package must be a valid Go identifier")
		}
		c.Package = name
		return nil
	}
}

// WithVersion sets the target format version, such as "4.2".
func WithVersion(v string) Option {
	return func(c *Config) error {
		parsed, err := schema.ParseVersion(v)
		if err != nil {
			return NewConfigError("Version", v, err.Error())
		}
		c.Version = parsed
		return nil
	}
}

// WithSocketDefaults toggles socket default emission.
func WithSocketDefaults(on bool) Option {
	return func(c *Config) error {
		c.SocketDefaults = on
		return nil
	}
}

// WithNodeSizes toggles node size emission.
func WithNodeSizes(on bool) Option {
	return func(c *Config) error {
		c.NodeSizes = on
		return nil
	}
}

// WithHiddenSocketDefaults toggles defaults of hidden and unavailable
// sockets.
func WithHiddenSocketDefaults(on bool) Option {
	return func(c *Config) error {
		c.HiddenSocketDefaults = on
		return nil
	}
}

// WithIndent sets the indentation: "tab", "2-space", "4-space" or
// "8-space".
func WithIndent(i Indent) Option {
	return func(c *Config) error {
		switch i {
		case IndentTab, Indent2, Indent4, Indent8:
			c.Indent = i
			return nil
		default:
			return NewConfigError("Indent", i, "unsupported indentation; use tab, 2-space, 4-space or 8-space")
		}
	}
}

// WithHeader sets the header comment of a packaged program.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithRegistry sets the attribute catalog.
func WithRegistry(r *schema.Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Registry", nil, "registry cannot be nil")
		}
		c.Registry = r
		return nil
	}
}

// WithCatalog sets the destination asset catalog.
func WithCatalog(cat catalog.Catalog) Option {
	return func(c *Config) error {
		c.Catalog = cat
		return nil
	}
}

// WithLogger sets the logger warnings are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithRuntimePackage sets the import path of the runtime package the
// generated program builds trees with.
func WithRuntimePackage(path string) Option {
	return func(c *Config) error {
		if path == "" || strings.ContainsAny(path, " \t\"") {
			return NewConfigError("RuntimePackage", path, "invalid import path")
		}
		c.RuntimePackage = path
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate checks the config is usable for an export.
func (c *Config) Validate() error {
	if c.Destination != DestinationPackage {
		return nil
	}
	if c.Target == "" {
		return NewConfigError("Target", nil, "packaged destination requires a target directory")
	}
	if fi, err := os.Stat(c.Target); err == nil && !fi.IsDir() {
		return NewConfigError("Target", c.Target, "target is not a directory")
	}
	if !token.IsIdentifier(c.Package) {
		return NewConfigError("Package", c.Package, "package must be a valid Go identifier")
	}
	return nil
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Destination:    DestinationInline,
		Package:        DefaultPackage,
		Version:        DefaultVersion,
		SocketDefaults: true,
		Indent:         IndentTab,
		Header:         DefaultHeader,
		Logger:         slog.Default(),
		RuntimePackage: DefaultRuntimePackage,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
