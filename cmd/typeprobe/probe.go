package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"typeprobe/internal/battery"
	"typeprobe/internal/detect"
)

func (a *app) newProbeCmd() *cobra.Command {
	var (
		imports    []string
		probesFile string
		dump       bool
	)

	cmd := &cobra.Command{
		Use:   "probe <type> [probe...]",
		Short: "Evaluate probes on one type and explain the answers",
		Long: `Evaluate probes on one type expression. With no probe names, every
registered probe is evaluated. Packages the expression refers to are passed
with --import.

  typeprobe probe 'container.Vector[int]' reserve -i typeprobe/container
  typeprobe probe '[10]int'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProbe(cmd, args[0], args[1:], imports, probesFile, dump)
		},
	}

	cmd.Flags().StringSliceVarP(&imports, "import", "i", nil, "import paths the type expression needs")
	cmd.Flags().StringVar(&probesFile, "probes", "", "battery file whose custom probes are registered")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump raw results")

	return cmd
}

func (a *app) runProbe(cmd *cobra.Command, expr string, names, imports []string, probesFile string, dump bool) error {
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

	if len(names) == 0 {
		names = reg.Names()
	}

	probes := make([]detect.Probe, 0, len(names))
	for _, name := range names {
		p, err := reg.Resolve(name)
		if err != nil {
			return &ExitError{Code: ExitInvalid, Err: err}
		}
		probes = append(probes, p)
	}

	graph, err := a.loadGraph(cmd.Context(), imports...)
	if err != nil {
		return err
	}

	d := a.newDetector(graph)
	c := detect.Type(expr, imports...)

	results := make([]detect.Result, 0, len(probes))
	for _, p := range probes {
		res, err := d.Has(cmd.Context(), p, c)
		if err != nil {
			return &ExitError{Code: ExitInvalid, Err: err}
		}
		results = append(results, res)
	}

	if dump {
		spew.Fdump(a.stdout, results)
		return nil
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render(expr))

	for _, res := range results {
		label := ErrorStyle.Render(statusStyle.Render("NO"))
		if res.Holds {
			label = SuccessStyle.Render(statusStyle.Render("YES"))
		}

		fmt.Fprintf(a.stdout, "%s %s %s\n", label, res.Probe, SubtitleStyle.Render(docOf(probes, res.Probe)))
		printReasons(a.stdout, res.Reasons)
	}

	return nil
}

func docOf(probes []detect.Probe, name string) string {
	for _, p := range probes {
		if p.Name == name {
			return p.Doc
		}
	}

	return ""
}
