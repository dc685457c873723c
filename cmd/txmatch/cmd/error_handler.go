package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"transaction-matcher/pkg/errors"
)

// ExitCode maps a command error to a process exit code using the error
// taxonomy's category mapping. Errors outside the taxonomy exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if matcherErr, ok := errors.AsMatcherError(err); ok {
		printMatcherError(matcherErr)
		return matcherErr.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func printMatcherError(err *errors.MatcherError) {
	fmt.Fprintf(os.Stderr, "Error (%s/%s): %s\n", err.Category, err.Code, err.Message)
	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
	if viper.GetBool("verbose") {
		if ctx := err.FormatContext(); ctx != "" {
			fmt.Fprintf(os.Stderr, "  Context: %s\n", ctx)
		}
		if err.Cause != nil {
			fmt.Fprintf(os.Stderr, "  Cause: %v\n", err.Cause)
		}
	}
}
