package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// Execute runs the root command until it returns or the process is
// interrupted. Indexes already updated are still saved on interrupt.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ExecuteContext(ctx, os.Args[1:])
}

func ExecuteContext(ctx context.Context, args []string) int {
	return execute(ctx, args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		exitErr := NormalizeError(err)
		_ = writeCLIError(cmd.ErrOrStderr(), exitErr, jsonRequested(cmd.PersistentFlags()))
		return exitErr.Code
	}
	return 0
}

func jsonRequested(flags *pflag.FlagSet) bool {
	if flags == nil || flags.Lookup("json") == nil {
		return false
	}
	value, err := flags.GetBool("json")
	if err != nil {
		return false
	}
	return value
}
