package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/chazu/housewright/pkg/model"
)

const (
	exitFailure      = 1
	exitInvalidPlan  = 2
	exitPrecondition = 3
)

// cliErrorAdapter handles error presentation and exit code determination.
type cliErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	exit    func(int)
}

func newCLIErrorAdapter(verbose bool, logger *slog.Logger) *cliErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &cliErrorAdapter{verbose: verbose, logger: logger, exit: os.Exit}
}

// ExitCodeFor determines the exit code for an error.
func (a *cliErrorAdapter) ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, model.ErrInvalidPlan):
		return exitInvalidPlan
	case model.IsPrecondition(err):
		return exitPrecondition
	default:
		return exitFailure
	}
}

// FormatError formats an error for display on stderr.
func (a *cliErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	var se *ScriptError
	if errors.As(err, &se) && !a.verbose {
		return fmt.Sprintf("Error: plan script has %d error(s), first: %v", len(se.Errors), se.Errors[0])
	}
	return fmt.Sprintf("Error: %v", err)
}

// HandleError logs err, prints it and exits with its code. A nil err
// returns without exiting.
func (a *cliErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	code := a.ExitCodeFor(err)
	if a.verbose || code == exitFailure {
		a.logger.Error("generation failed", "error", err, "exit_code", code)
	}
	fmt.Fprintln(os.Stderr, a.FormatError(err))
	a.exit(code)
}
