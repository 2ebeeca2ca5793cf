package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"typeprobe/internal/battery"
)

func (a *app) newCheckCmd() *cobra.Command {
	var parallelism int

	cmd := &cobra.Command{
		Use:   "check [battery.yaml]",
		Short: "Run a battery and fail on any unmet expectation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			if !cmd.Flags().Changed("parallelism") {
				parallelism = a.cfg.Parallelism
			}

			return a.runCheck(cmd, path, parallelism)
		},
	}

	cmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0, "concurrent evaluations (0 means GOMAXPROCS)")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, path string, parallelism int) error {
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

	report, err := battery.Check(cmd.Context(), a.newDetector(graph), reg, f, battery.RunOptions{Parallelism: parallelism})
	if report != nil {
		a.printReport(report)
	}

	switch {
	case errors.Is(err, battery.ErrMismatch):
		return &ExitError{Code: ExitMismatch, Err: fmt.Errorf("%d of %d expectations not met",
			len(report.Diagnostics.Errors), len(report.Outcomes))}
	case err != nil:
		return &ExitError{Code: ExitInvalid, Err: err}
	}

	return nil
}

func (a *app) printReport(report *battery.Report) {
	for _, o := range report.Outcomes {
		fmt.Fprintf(a.stdout, "%s %s %s\n", statusLabel(o.Status), o.Type, SubtitleStyle.Render(o.Probe))

		if o.Status != battery.StatusPass && (a.verbose || o.Status != battery.StatusUnverified) {
			printReasons(a.stdout, o.Reasons)
		}
	}

	for _, d := range report.Diagnostics.Warnings {
		fmt.Fprintln(a.stdout, WarningStyle.Render("warning: ")+d.String())
	}

	summary := fmt.Sprintf("%d passed, %d mismatched, %d unverified, %d failed",
		report.Count(battery.StatusPass), report.Count(battery.StatusMismatch),
		report.Count(battery.StatusUnverified), report.Count(battery.StatusFailed))

	if report.Passed() {
		fmt.Fprintln(a.stdout, SuccessStyle.Render(summary))
	} else {
		fmt.Fprintln(a.stdout, ErrorStyle.Render(summary))
	}
}

func statusLabel(s battery.Status) string {
	label := statusStyle.Render(strings.ToUpper(s.String()))

	switch s {
	case battery.StatusPass:
		return SuccessStyle.Render(label)
	case battery.StatusUnverified:
		return WarningStyle.Render(label)
	default:
		return ErrorStyle.Render(label)
	}
}

func printReasons(w io.Writer, reasons []string) {
	for _, r := range reasons {
		fmt.Fprintln(w, VerboseStyle.Render("    "+r))
	}
}
