package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-fate/clio"
	"github.com/common-fate/clio/clierr"
	"github.com/common-fate/kubecred/pkg/commands"
	"github.com/common-fate/kubecred/pkg/kubewrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := commands.GetCliApp()
	err := app.RunContext(ctx, os.Args)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	// the wrapped command already reported its own failure
	var exitErr *kubewrap.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code < 0 {
			return 1
		}
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}

	// if the error is an instance of clierr.PrintCLIErrorer then print the error accordingly
	if cliError, ok := err.(clierr.PrintCLIErrorer); ok {
		cliError.PrintCLIError()
	} else {
		clio.Error(err.Error())
	}
	return 1
}
