package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/auralynx/auralynx/internal/apperr"
	"github.com/auralynx/auralynx/internal/config"
	"github.com/spf13/cobra"
)

// Execute runs cmd and turns its outcome into a process exit code. Failures
// are reported as one ERROR line on the command's output; command-line
// mistakes go to its error stream with a pointer to --help.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	if isUsageError(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", cmd.CommandPath())
		return apperr.KindUsage.Code()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ERROR: %v\n", err)
	if apperr.KindOf(err) == apperr.KindMissingCredential {
		fmt.Fprintf(out, "Set it with: export %s=\"your_key_here\"\n", config.APIKeyEnv)
	}
	return apperr.ExitCode(err)
}

func usageError(err error) error {
	return &apperr.Error{Kind: apperr.KindUsage, Err: err}
}

func usageErrorf(format string, args ...any) error {
	return usageError(fmt.Errorf(format, args...))
}

func flagUsageError(_ *cobra.Command, err error) error {
	return usageError(err)
}

func exactArgs(n int) cobra.PositionalArgs {
	check := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func isUsageError(err error) bool {
	if err == nil {
		return false
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Kind == apperr.KindUsage
	}

	message := strings.ToLower(strings.TrimSpace(err.Error()))
	patterns := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"accepts ",
		"requires at least",
		"requires at most",
		"requires between",
		"required flag",
		"missing required",
		"flag needs an argument",
		"invalid argument",
	}

	for _, pattern := range patterns {
		if strings.Contains(message, pattern) {
			return true
		}
	}

	return false
}
