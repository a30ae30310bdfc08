package cli

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/nodegen/compiler/gen"
	"github.com/syssam/nodegen/schema"
)

func (c *CLI) schemaCommand() *cobra.Command {
	var (
		version string
		variant string
	)
	cmd := &cobra.Command{
		Use:   "schema [node-type]",
		Short: "Print the attribute catalog of a node type",
		Long: `Schema prints the attributes exported for a node type at a format
version. Without a node type it lists the known node types.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			v := gen.DefaultVersion
			switch {
			case version != "":
				v, err = schema.ParseVersion(version)
			case cfg.Version != "":
				v, err = schema.ParseVersion(cfg.Version)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, t := range reg.Types() {
					fmt.Fprintln(out, t)
				}
				return nil
			}

			e, ok := reg.Entry(args[0])
			if !ok {
				return fmt.Errorf("schema: unknown node type %q", args[0])
			}
			if !e.Range.Contains(v) {
				c.Logger.Warn("Node type not available at version", "type", e.Type, "version", v, "range", e.Range)
			}
			attrs, _ := reg.Lookup(e.Type, v)
			if variant != "" {
				more, err := reg.Variant(e.Type, variant, v)
				if err != nil {
					return err
				}
				attrs = append(attrs, more...)
			} else if e.VariantBy != "" {
				tags := make([]string, 0, len(e.Variants))
				for tag := range e.Variants {
					tags = append(tags, tag)
				}
				slices.Sort(tags)
				fmt.Fprintf(out, "# variants by %s: %v\n", e.VariantBy, tags)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ATTRIBUTE\tTYPE\tVERSIONS")
			for _, a := range attrs {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name, a.Type, a.Range)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&version, "format-version", "", "format version (default: "+gen.DefaultVersion.String()+")")
	cmd.Flags().StringVar(&variant, "variant", "", "variant tag selecting extra attributes")
	return cmd
}
