package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/nodegen/compiler/gen"
)

// batchTarget returns the package directory of one document: a
// subdirectory of base named after the document file.
func batchTarget(base, doc string) string {
	name := filepath.Base(doc)
	return filepath.Join(base, strings.TrimSuffix(name, filepath.Ext(name)))
}

func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags    exportFlags
		failFast bool
	)
	cmd := &cobra.Command{
		Use:   "batch [documents...]",
		Short: "Export many graph documents as Go packages",
		Long: `Batch exports every document as a package under the target directory,
one subdirectory per document, running up to --workers exports at once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newSession(cmd, &flags)
			if err != nil {
				return err
			}
			defer s.Close()
			base := s.cfg.Path(s.cfg.Target)
			if base == "" {
				return errors.New("batch: a target directory is required")
			}
			workers := s.cfg.Workers
			if workers <= 0 {
				workers = runtime.GOMAXPROCS(0)
			}
			seen := make(map[string]string, len(args))
			for _, doc := range args {
				t := batchTarget(base, doc)
				if prev, ok := seen[t]; ok {
					return fmt.Errorf("batch: %s and %s export to the same directory %s", prev, doc, t)
				}
				seen[t] = doc
			}

			var (
				mu     sync.Mutex
				failed []error
			)
			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.SetLimit(workers)
			for _, doc := range args {
				eg.Go(func() error {
					_, err := s.export(ctx, doc, io.Discard,
						gen.WithDestination(gen.DestinationPackage),
						gen.WithTarget(batchTarget(base, doc)),
					)
					if err == nil {
						return nil
					}
					if failFast {
						return err
					}
					c.Logger.Error("Export failed", "document", doc, "err", err)
					mu.Lock()
					failed = append(failed, err)
					mu.Unlock()
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}
			if len(failed) > 0 {
				return fmt.Errorf("batch: %d of %d documents failed: %w", len(failed), len(args), errors.Join(failed...))
			}
			c.Logger.Info("Batch done", "documents", len(args), "target", base)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "parallel exports (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing document")
	return cmd
}
