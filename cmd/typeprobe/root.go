package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"typeprobe/internal/analyze"
	"typeprobe/internal/battery"
	"typeprobe/internal/config"
	"typeprobe/internal/detect"
	"typeprobe/internal/probe"
)

// app holds state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *log.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "typeprobe",
		Short: "Compile-time capability detection for Go types",
		Long: TitleStyle.Render("typeprobe") + SubtitleStyle.Render(" - compile-time capability detection for Go types") + `

A probe is a Go statement over a value of type T. A probe holds for a type
when the statement type-checks (and passes its vet checks) with T bound to
that type. Failures never escape: they are the answer.

` + SubtitleStyle.Render("Examples:") + `
  typeprobe check                         Run the built-in battery
  typeprobe check probes.yaml             Run a battery file
  typeprobe probe '[]int' reserve         Explain one answer
  typeprobe list probes                   Show registered probes
  typeprobe gen -o internal/caps          Write answers as Go constants`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./"+config.ConfigFileName+")")

	root.AddCommand(a.newCheckCmd())
	root.AddCommand(a.newProbeCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newGenCmd())

	return root
}

// init loads the configuration and sets up logging.
func (a *app) init(_ *cobra.Command, _ []string) error {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		return &ExitError{Code: ExitInvalid, Err: err}
	}

	a.cfg = cfg
	if !a.verbose {
		a.verbose = cfg.Verbose
	}

	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: "typeprobe"})
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}

	if path != "" {
		a.logger.Debug("config loaded", "path", path)
	}

	return nil
}

// loadBattery reads the battery at path, falling back to the configured
// battery and then to the embedded default.
func (a *app) loadBattery(path string) (*battery.File, error) {
	if path == "" {
		path = a.cfg.Battery
	}

	if path == "" {
		a.logger.Debug("using built-in battery")
		return battery.Default()
	}

	a.logger.Debug("loading battery", "path", path)

	return battery.LoadFile(path)
}

// registry returns the standard probes plus the custom probes of f.
func (a *app) registry(f *battery.File) (*probe.Registry, error) {
	reg := probe.Default()
	if f == nil {
		return reg, nil
	}

	if diags := battery.RegisterProbes(f, reg); diags.HasErrors() {
		return nil, &ExitError{Code: ExitInvalid, Err: diags.Error()}
	}

	return reg, nil
}

// loadGraph loads the given import paths plus the configured packages.
func (a *app) loadGraph(ctx context.Context, paths ...string) (*analyze.TypeGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths = append(slices.Clone(paths), a.cfg.Packages...)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	analyzer := analyze.NewAnalyzer()
	if len(paths) == 0 {
		return analyzer.Graph(), nil
	}

	a.logger.Debug("loading packages", "paths", paths)

	graph, err := analyzer.LoadPackages(paths...)
	if err != nil {
		return nil, &ExitError{Code: ExitInvalid, Err: fmt.Errorf("loading packages: %w", err)}
	}

	return graph, nil
}

func (a *app) newDetector(graph *analyze.TypeGraph) *detect.Detector {
	return detect.New(graph.Universe,
		detect.WithLogger(a.logger),
		detect.WithGoVersion(a.cfg.GoVersion),
	)
}
