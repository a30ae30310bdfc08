package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/nodegen/catalog"
	"github.com/syssam/nodegen/nodetree"
)

func (c *CLI) catalogCommand() *cobra.Command {
	var driver, dsn string
	open := func(cmd *cobra.Command) (*catalog.SQL, error) {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}
		if cmd.Flags().Changed("driver") {
			cfg.Catalog.Driver = driver
		}
		if cmd.Flags().Changed("dsn") {
			cfg.Catalog.DSN = dsn
		}
		cat, err := cfg.OpenCatalog(catalog.WithLogger(c.slog()))
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, errors.New("catalog: no catalog driver configured")
		}
		return cat, nil
	}
	kindOf := func(s string) (nodetree.AssetKind, error) {
		for _, k := range catalog.Kinds {
			if string(k) == s {
				return k, nil
			}
		}
		return "", fmt.Errorf("catalog: unknown asset kind %q", s)
	}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the SQL asset catalog",
	}
	cmd.PersistentFlags().StringVar(&driver, "driver", "", "catalog driver: sqlite, postgres, mysql")
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "catalog data source name")

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the asset table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := open(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()
			return cat.Migrate(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add [kind] [names...]",
		Short: "Register assets",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindOf(args[0])
			if err != nil {
				return err
			}
			cat, err := open(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()
			for _, name := range args[1:] {
				if err := cat.Add(cmd.Context(), kind, name); err != nil {
					return err
				}
			}
			c.Logger.Info("Registered assets", "kind", kind, "count", len(args)-1)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list [kind]",
		Short: "List the assets of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindOf(args[0])
			if err != nil {
				return err
			}
			cat, err := open(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()
			names, err := cat.Names(cmd.Context(), kind)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	})
	return cmd
}
