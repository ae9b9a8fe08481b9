// Package toolexec runs the external tools the pipeline shells out to
// (swift, sourcekitten, jazzy) as structured argument vectors with an
// explicit working directory and a per-invocation timeout.
package toolexec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	derrors "github.com/dn-m/documentarian/internal/errors"
	"github.com/dn-m/documentarian/internal/logfields"
)

// Command describes a single tool invocation. Name and Args are passed to the
// process unmodified; nothing is interpreted by a shell.
type Command struct {
	Tool   string // label used in errors and logs; defaults to Name
	Module string // module being processed, if any
	Name   string
	Args   []string
	Dir    string    // working directory; relative Names containing a separator resolve against it
	Env    []string  // appended to the current environment
	Stdout io.Writer // receives stdout instead of Result.Stdout when set
}

func (c Command) label() string {
	if c.Tool != "" {
		return c.Tool
	}
	return c.Name
}

// Result carries the captured output of a successful invocation.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner abstracts process execution so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Timeout bounds each invocation; zero means no limit beyond ctx.
	Timeout time.Duration
	// WaitDelay bounds how long output pipes are drained after the process is killed.
	WaitDelay time.Duration
}

// NewExecRunner returns a runner with the given per-invocation timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout, WaitDelay: 5 * time.Second}
}

// Run executes cmd and waits for it to finish.
//
// Errors:
//   - *errors.ToolTimeoutError when the invocation outlives Timeout
//   - the context error, wrapped, when ctx is canceled
//   - *errors.ToolInvocationError when the process cannot start or exits non-zero
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	// #nosec G204 -- tool names and arguments come from configuration and manifest, never a shell.
	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.WaitDelay = r.WaitDelay

	var stdout, stderr bytes.Buffer
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	} else {
		cmd.Stdout = &stdout
	}
	cmd.Stderr = &stderr

	slog.Debug("Invoking tool",
		logfields.Tool(c.label()),
		logfields.Module(c.Module),
		logfields.Path(c.Dir),
		slog.String("args", strings.Join(c.Args, " ")))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if errStr := stderr.String(); errStr != "" {
		slog.Debug("tool stderr", logfields.Tool(c.label()), slog.String("error_output", errStr))
	}

	if err != nil {
		// Parent cancellation wins over the timeout so a Ctrl-C is never reported as a hang.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("%s canceled: %w", c.label(), ctxErr)
		}
		if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return Result{}, &derrors.ToolTimeoutError{Tool: c.label(), Module: c.Module, Timeout: r.Timeout}
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return Result{}, &derrors.ToolInvocationError{
			Tool:     c.label(),
			Module:   c.Module,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	slog.Debug("Tool finished",
		logfields.Tool(c.label()),
		logfields.Module(c.Module),
		logfields.DurationMS(float64(elapsed.Milliseconds())))

	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Duration: elapsed}, nil
}
