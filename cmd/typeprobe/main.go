// Package main provides the CLI entrypoint for typeprobe.
//
// typeprobe answers compile-time questions about Go types by type-checking
// small probe snippets against them:
//   - check: run a battery of expectations and fail on any mismatch
//   - probe: evaluate probes on one type and explain the answers
//   - list: show registered probes or the types of loaded packages
//   - gen: write the answers as Go constants
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
