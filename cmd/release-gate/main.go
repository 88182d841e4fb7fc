package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	exitOK     = 0
	exitFatal  = 1
	exitDenied = 2
)

// errPublishDenied is returned when a build is called for but the publish
// policy refused it. Signals have already been emitted at that point.
var errPublishDenied = errors.New("publish denied by policy")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var err error
	switch {
	case len(args) > 0 && args[0] == "version":
		fmt.Fprintf(stdout, "release-gate %s (commit %s, built %s)\n", version, commit, date)
		return exitOK
	case len(args) > 0 && args[0] == "history":
		err = runHistoryCommand(ctx, args[1:], stdout)
	default:
		err = runGate(ctx, args, stdout, stderr)
	}
	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errPublishDenied):
		fmt.Fprintf(stderr, "release-gate: %v\n", err)
		return exitDenied
	default:
		fmt.Fprintf(stderr, "release-gate: %v\n", err)
		return exitFatal
	}
}
