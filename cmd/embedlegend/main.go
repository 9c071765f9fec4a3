// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Command embedlegend shows an interactive legend for the selected layers of
// a project and exports the active layer as MapInfo MIF/MID or as a Google
// Earth KMZ archive.
package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(exitCode(run(ctx)))
}

func run(ctx context.Context) error {
	return newRootCmd(newApp(os.Stdout, os.Stderr)).ExecuteContext(ctx)
}

// exitCode reports err to the user and maps it to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.IsPrecondition(err):
		printWarning("%s", errors.UserMessage(err))
	default:
		printError("%v", err)
	}
	return ExitFailure
}
