package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/nodegen/catalog"
	"github.com/syssam/nodegen/compiler/gen"
	"github.com/syssam/nodegen/compiler/load"
	"github.com/syssam/nodegen/compiler/pack"
	"github.com/syssam/nodegen/internal/config"
	"github.com/syssam/nodegen/schema"
)

// exportFlags are the export settings shared by export, batch and watch.
// They override the config file.
type exportFlags struct {
	destination          string
	target               string
	pkg                  string
	version              string
	indent               string
	header               string
	runtime              string
	socketDefaults       bool
	nodeSizes            bool
	hiddenSocketDefaults bool
	license              string
	catalogDriver        string
	catalogDSN           string
	workers              int
}

func (f *exportFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.destination, "destination", "d", "", "output shape: inline (default), package")
	fl.StringVarP(&f.target, "target", "t", "", "package directory (package destination)")
	fl.StringVarP(&f.pkg, "package", "p", "", "package name of packaged output (default: scene)")
	fl.StringVar(&f.version, "format-version", "", "target format version (default: "+gen.DefaultVersion.String()+")")
	fl.StringVar(&f.indent, "indent", "", "indentation: tab (default), 2-space, 4-space, 8-space")
	fl.StringVar(&f.header, "header", "", "header comment of packaged output")
	fl.StringVar(&f.runtime, "runtime", "", "import path of the runtime package")
	fl.BoolVar(&f.socketDefaults, "socket-defaults", true, "emit socket defaults and interface ranges")
	fl.BoolVar(&f.nodeSizes, "node-sizes", false, "emit node widths and heights")
	fl.BoolVar(&f.hiddenSocketDefaults, "hidden-socket-defaults", false, "emit defaults of hidden and unavailable sockets")
	fl.StringVar(&f.license, "license", "", "license file copied into packaged output")
	fl.StringVar(&f.catalogDriver, "catalog-driver", "", "asset catalog driver: sqlite, postgres, mysql")
	fl.StringVar(&f.catalogDSN, "catalog-dsn", "", "asset catalog data source name")
}

// apply overrides c with the flags set on the command line.
func (f *exportFlags) apply(cmd *cobra.Command, c *config.Config) {
	changed := cmd.Flags().Changed
	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	set("destination", &c.Destination, f.destination)
	set("package", &c.Package, f.pkg)
	set("format-version", &c.Version, f.version)
	set("indent", &c.Indent, f.indent)
	set("header", &c.Header, f.header)
	set("runtime", &c.Runtime, f.runtime)
	set("catalog-driver", &c.Catalog.Driver, f.catalogDriver)
	set("catalog-dsn", &c.Catalog.DSN, f.catalogDSN)
	if changed("license") {
		// Flag paths are relative to the working directory.
		c.License, _ = filepath.Abs(f.license)
	}
	if changed("target") {
		c.Target, _ = filepath.Abs(f.target)
	}
	if changed("socket-defaults") {
		c.SocketDefaults = &f.socketDefaults
	}
	if changed("node-sizes") {
		c.NodeSizes = &f.nodeSizes
	}
	if changed("hidden-socket-defaults") {
		c.HiddenSocketDefaults = &f.hiddenSocketDefaults
	}
	if changed("workers") {
		c.Workers = f.workers
	}
}

// session holds the resolved settings of one command run.
type session struct {
	cli      *CLI
	cfg      *config.Config
	opts     []gen.Option
	registry *schema.Registry
	license  string
	catalog  *catalog.SQL
}

// loadConfig reads the --config file or the one found in the working
// directory.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Find(wd)
}

// newSession resolves the config file and flags. Close must be called on
// the returned session.
func (c *CLI) newSession(cmd *cobra.Command, f *exportFlags) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	f.apply(cmd, cfg)
	s := &session{cli: c, cfg: cfg, opts: cfg.Options()}
	if s.registry, err = cfg.Registry(); err != nil {
		return nil, err
	}
	if s.license, err = cfg.LicenseText(); err != nil {
		return nil, err
	}
	if s.catalog, err = cfg.OpenCatalog(catalog.WithLogger(c.slog())); err != nil {
		return nil, err
	}
	// Fail on bad settings before touching any document.
	if _, err := gen.NewConfig(s.options()...); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the asset catalog.
func (s *session) Close() error {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Close()
}

func (s *session) options(extra ...gen.Option) []gen.Option {
	opts := append([]gen.Option{
		gen.WithLogger(s.cli.slog()),
		gen.WithRegistry(s.registry),
	}, s.opts...)
	if s.catalog != nil {
		opts = append(opts, gen.WithCatalog(s.catalog))
	}
	return append(opts, extra...)
}

// outcome is the result of exporting one document.
type outcome struct {
	Result   *gen.Result
	Manifest *pack.Manifest
}

// export exports the document at path. Packaged output is written to the
// target directory; inline output is written to w.
func (s *session) export(ctx context.Context, path string, w io.Writer, extra ...gen.Option) (*outcome, error) {
	start := time.Now()
	doc, err := load.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := gen.NewConfig(s.options(extra...)...)
	if err != nil {
		return nil, err
	}
	res, err := gen.Export(ctx, root, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := &outcome{Result: res}
	if cfg.Destination == gen.DestinationPackage {
		out.Manifest, err = pack.NewWriter(cfg.Target).WithWorkers(s.cfg.Workers).Write(ctx, res, pack.Meta{
			Package: cfg.Package,
			License: s.license,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if _, err := w.Write(res.Source); err != nil {
		return nil, err
	}
	s.cli.Logger.Info("Exported", "document", path, "trees", len(res.Trees),
		"warnings", len(res.Warnings), "elapsed", time.Since(start).Round(time.Millisecond))
	return out, nil
}

func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags  exportFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export [document]",
		Short: "Export a graph document as a Go program",
		Long: `Export reads a graph document (.json, .yaml or .msgpack) and renders the
Go program rebuilding it. Inline output is written to stdout or --output;
packaged output is written to the --target directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newSession(cmd, &flags)
			if err != nil {
				return err
			}
			defer s.Close()
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			out, err := s.export(cmd.Context(), args[0], w)
			if err != nil {
				return err
			}
			if out.Manifest != nil {
				c.Logger.Info("Wrote package", "dir", s.cfg.Target, "id", out.Manifest.ID,
					"resources", strings.Join(out.Manifest.Resources, ","))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "inline output file (default: stdout)")
	return cmd
}
