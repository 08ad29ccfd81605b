package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/internal/cli"
	"github.com/matzehuels/platecut/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if stderrors.Is(err, context.Canceled) || ctx.Err() != nil {
			os.Exit(130) // SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return preRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode separates bad input and placement violations from other failures.
func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodePlacement:
		return 3
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDimension, errors.ErrCodeInvalidSocket,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeUnsupported, errors.ErrCodeNotFound:
		return 2
	default:
		return 1
	}
}

// describe is the user message plus the underlying cause, without the code.
func describe(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}
