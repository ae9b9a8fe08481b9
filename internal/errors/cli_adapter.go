package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes for the CLI. Every failure kind is fatal to the run and maps to ExitFailure.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr}
}

// WithOutput redirects user-facing messages (tests).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor determines the exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	if a.verbose {
		return fmt.Sprintf("Error: %v", err)
	}
	if GetCategory(err) == CategoryCanceled {
		return "Error: run canceled"
	}

	var (
		decodeErr  *DecodeError
		unknownErr *UnknownModuleError
		fsErr      *FilesystemError
		toolErr    *ToolInvocationError
		timeoutErr *ToolTimeoutError
		failures   *ModuleFailuresError
		credErr    *MissingCredentialError
		guardErr   *GuardConditionError
		docErr     *DocError
	)
	switch {
	case stdErrors.As(err, &unknownErr):
		return "Error: " + unknownErr.Error()
	case stdErrors.As(err, &decodeErr):
		return "Error: " + decodeErr.Error()
	case stdErrors.As(err, &failures):
		return "Error: " + failures.Error()
	case stdErrors.As(err, &timeoutErr):
		return "Error: " + timeoutErr.Error()
	case stdErrors.As(err, &toolErr):
		return "Error: " + toolErr.Error()
	case stdErrors.As(err, &fsErr):
		return "Error: " + fsErr.Error()
	case stdErrors.As(err, &credErr):
		return "Error: " + credErr.Error()
	case stdErrors.As(err, &guardErr):
		return "Error: " + guardErr.Error()
	case stdErrors.As(err, &docErr):
		return a.formatDocError(docErr)
	}
	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatDocError(err *DocError) string {
	msg := err.Message
	for _, key := range []string{"path", "field", "reason"} {
		if v, ok := err.Context[key]; ok {
			msg += fmt.Sprintf(" (%s: %v)", key, v)
		}
	}
	if err.Cause != nil {
		msg += ": " + err.Cause.Error()
	}
	switch err.Kind {
	case CategoryConfig, CategoryValidation, CategoryAuth:
		return "Error: " + msg
	default:
		return fmt.Sprintf("Error: %s: %s", err.Kind, msg)
	}
}

// Report logs and prints the error and returns the exit code without exiting.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitSuccess
	}
	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError processes an error and exits the program with the appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Report(err))
}

// logError logs an error at debug level with its category; the user-facing line is printed separately.
func (a *CLIErrorAdapter) logError(err error) {
	attrs := []slog.Attr{slog.String("category", string(GetCategory(err)))}
	var docErr *DocError
	if stdErrors.As(err, &docErr) {
		attrs = append(attrs, slog.String("severity", string(docErr.Severity)))
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "Run failed", attrs...)
}
