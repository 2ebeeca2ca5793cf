package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"typeprobe/internal/battery"
	"typeprobe/internal/gen"
)

func (a *app) newGenCmd() *cobra.Command {
	var (
		outDir  string
		pkgName string
	)

	cmd := &cobra.Command{
		Use:   "gen [battery.yaml]",
		Short: "Write probe answers as Go constants",
		Long: `Evaluate every expectation of a battery and write one boolean constant per
(case, probe) pair. Constants carry the detected answer, so a battery with
mismatches still generates; the mismatches are logged as warnings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}
			if pkgName == "" {
				pkgName = a.cfg.Output.Package
			}

			return a.runGen(cmd, path, outDir, pkgName)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&pkgName, "package", "", "generated package name (default from config)")

	return cmd
}

func (a *app) runGen(cmd *cobra.Command, path, outDir, pkgName string) error {
	f, err := a.loadBattery(path)
	if err != nil {
		return &ExitError{Code: ExitInvalid, Err: err}
	}

	reg, err := a.registry(f)
	if err != nil {
		return err
	}

	graph, err := a.loadGraph(cmd.Context(), f.ImportPaths()...)
	if err != nil {
		return err
	}

	report, err := battery.Run(cmd.Context(), a.newDetector(graph), reg, f, battery.RunOptions{Parallelism: a.cfg.Parallelism})
	if err != nil {
		return &ExitError{Code: ExitInvalid, Err: err}
	}

	for _, d := range report.Diagnostics.Errors {
		a.logger.Warn("expectation not met", "type", d.Type, "probe", d.Probe, "code", d.Code)
	}

	g := gen.NewGenerator(gen.GeneratorConfig{
		PackageName:      pkgName,
		OutputDir:        outDir,
		Filename:         a.cfg.Output.Filename,
		GenerateComments: true,
	})

	file, err := g.Generate(gen.Facts(f, report))
	if err != nil {
		return &ExitError{Code: ExitInvalid, Err: err}
	}

	if err := gen.WriteFiles([]gen.GeneratedFile{*file}, outDir); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, SuccessStyle.Render("wrote ")+filepath.Join(outDir, file.Filename))

	return nil
}
