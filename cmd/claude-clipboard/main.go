package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fullstacktard/claude-clipboard/internal/logging"
	"github.com/fullstacktard/claude-clipboard/internal/messages"
	"github.com/fullstacktard/claude-clipboard/internal/pipeline"
)

var executeFunc = execute

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// SilentExitError reports an exit code without emitting error output.
type SilentExitError struct {
	Code int
}

func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// execute runs the CLI command with the provided args and output writers.
func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs([]string{})
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

// runMain executes the CLI and exits non-zero on failure. With DEBUG set the
// failing step and the wrapped error chain are printed as well.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	err := executeFunc(args, stdout, stderr)
	if err == nil {
		return
	}
	var silent *SilentExitError
	if errors.As(err, &silent) {
		exit(silent.Code)
		return
	}
	_, _ = fmt.Fprintf(stderr, messages.ErrorLineFmt, err)
	if strings.HasPrefix(err.Error(), "unknown command") {
		_, _ = fmt.Fprintln(stderr, messages.RunHelpHint)
	}
	if logging.DebugEnabled(getenv) {
		printDebugDetail(stderr, err)
	}
	exit(1)
}

func printDebugDetail(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, messages.DebugDetailHeader)
	var fatal *pipeline.FatalError
	if errors.As(err, &fatal) {
		_, _ = fmt.Fprintf(w, messages.DebugFailedStepFmt, fatal.Step)
		for _, res := range fatal.Results {
			if res.Name == fatal.Step {
				continue
			}
			_, _ = fmt.Fprintf(w, messages.DebugCompletedFmt, res.Name, res.Outcome)
		}
	}
	for i, cause := 0, err; cause != nil; i, cause = i+1, errors.Unwrap(cause) {
		_, _ = fmt.Fprintf(w, messages.DebugCauseFmt, i, cause)
	}
}
