// Package cli implements the nodegen command-line interface.
//
// The commands read graph documents (see compiler/load), export them as Go
// programs and write packaged output (see compiler/pack):
//
//   - export: export one document
//   - batch: export many documents concurrently
//   - watch: re-export a document whenever it changes
//   - schema: print the attribute catalog of a node type
//   - catalog: manage the SQL asset catalog
//
// Settings come from nodegen.yaml or nodegen.toml in the working directory
// (or --config); command flags override file values. All commands support
// --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/syssam/nodegen/compiler/pack"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// slog returns the logger as a log/slog logger for library packages.
func (c *CLI) slog() *slog.Logger {
	return slog.New(c.Logger)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "nodegen",
		Short:        "nodegen exports node graphs as Go programs",
		Long:         `nodegen turns node graph documents into Go programs that rebuild the graphs through the nodetree runtime.`,
		Version:      pack.Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: nodegen.yaml or nodegen.toml in the working directory)")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.catalogCommand())

	return root
}
