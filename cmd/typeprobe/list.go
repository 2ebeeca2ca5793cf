package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typeprobe/internal/battery"
)

func (a *app) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered probes or the types of loaded packages",
	}

	cmd.AddCommand(a.newListProbesCmd())
	cmd.AddCommand(a.newListTypesCmd())

	return cmd
}

func (a *app) newListProbesCmd() *cobra.Command {
	var probesFile string

	cmd := &cobra.Command{
		Use:   "probes",
		Short: "List registered probes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var custom *battery.File
			if probesFile != "" {
				f, err := battery.LoadFile(probesFile)
				if err != nil {
					return &ExitError{Code: ExitInvalid, Err: err}
				}
				custom = f
			}

			reg, err := a.registry(custom)
			if err != nil {
				return err
			}

			for _, name := range reg.Names() {
				p, _ := reg.Lookup(name)
				fmt.Fprintf(a.stdout, "%-20s %s\n", name, SubtitleStyle.Render(p.Doc))

				if a.verbose {
					for _, stmt := range p.Body {
						fmt.Fprintln(a.stdout, VerboseStyle.Render("    "+stmt))
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&probesFile, "probes", "", "battery file whose custom probes are registered")

	return cmd
}

func (a *app) newListTypesCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "types [package...]",
		Short: "List exported types of packages, optionally filtered by a glob",
		Long: `List the exported named types of the given packages (and the configured
ones). --match filters "importpath.Name" with a doublestar glob:

  typeprobe list types typeprobe/container --match '**/container.Type*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := a.loadGraph(cmd.Context(), args...)
			if err != nil {
				return err
			}

			ids, err := graph.Match(pattern)
			if err != nil {
				return &ExitError{Code: ExitInvalid, Err: err}
			}

			for _, id := range ids {
				info := graph.GetType(id)
				fmt.Fprintf(a.stdout, "%-40s %s\n", id.String(), SubtitleStyle.Render(info.Kind.String()))
			}

			a.logger.Debug("types listed", "count", len(ids))

			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "match", "m", "", "doublestar pattern over importpath.Name")

	return cmd
}
