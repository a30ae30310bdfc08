package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/nodegen/compiler/gen"
)

// debounce is how long watch waits for a burst of file events to settle.
const debounce = 100 * time.Millisecond

func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags  exportFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "watch [document]",
		Short: "Re-export a graph document whenever it changes",
		Long: `Watch exports the document once, then again after every change to it,
until interrupted. Failed exports are logged and watching continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newSession(cmd, &flags)
			if err != nil {
				return err
			}
			defer s.Close()
			return c.watch(cmd.Context(), s, args[0], output)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "inline output file (required for inline destination)")
	return cmd
}

// watch runs until ctx is done.
func (c *CLI) watch(ctx context.Context, s *session, doc, output string) error {
	doc, err := filepath.Abs(doc)
	if err != nil {
		return err
	}
	if s.cfg.Destination != string(gen.DestinationPackage) && output == "" {
		return fmt.Errorf("watch: inline destination requires --output")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	// Editors often replace files on save, so watch the directory.
	if err := w.Add(filepath.Dir(doc)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	run := func() {
		if err := c.exportTo(ctx, s, doc, output); err != nil {
			c.Logger.Error("Export failed", "document", doc, "err", err)
		}
	}
	run()
	c.Logger.Info("Watching", "document", doc)

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != doc || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			c.Logger.Debug("Document changed", "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("Watcher error", "err", err)
		case <-timer.C:
			run()
		}
	}
}

// exportTo exports doc. Inline output replaces the output file only when
// the export succeeds.
func (c *CLI) exportTo(ctx context.Context, s *session, doc, output string) error {
	if s.cfg.Destination == string(gen.DestinationPackage) {
		_, err := s.export(ctx, doc, nil)
		return err
	}
	tmp := output + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	_, err = s.export(ctx, doc, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, output)
}
