package errors

import (
	"fmt"
	"strings"
	"time"
)

// DecodeError reports a malformed or incomplete package manifest.
type DecodeError struct {
	Source string // where the manifest came from (command or file)
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "decode manifest"
	if e.Source != "" {
		msg += " from " + e.Source
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}
func (e *DecodeError) Unwrap() error            { return e.Err }
func (e *DecodeError) Category() ErrorCategory { return CategoryManifest }

// UnknownModuleError reports a requested module name that the manifest does not declare.
type UnknownModuleError struct {
	Name    string
	Package string
}

func (e *UnknownModuleError) Error() string {
	if e.Package == "" {
		return fmt.Sprintf("unknown module %q", e.Name)
	}
	return fmt.Sprintf("unknown module %q in package %q", e.Name, e.Package)
}
func (e *UnknownModuleError) Category() ErrorCategory { return CategoryValidation }

// FilesystemError reports a denied or failed directory/file operation.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}
func (e *FilesystemError) Unwrap() error            { return e.Err }
func (e *FilesystemError) Category() ErrorCategory { return CategoryFileSystem }

// ToolInvocationError reports an external tool that could not be started or exited non-zero.
type ToolInvocationError struct {
	Tool     string
	Module   string
	ExitCode int // -1 when the process never ran
	Stderr   string
	Err      error
}

func (e *ToolInvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Tool)
	if e.Module != "" {
		fmt.Fprintf(&b, " for module %s", e.Module)
	}
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}
func (e *ToolInvocationError) Unwrap() error            { return e.Err }
func (e *ToolInvocationError) Category() ErrorCategory { return CategoryTool }

// ToolTimeoutError reports an external tool killed after exceeding its time budget.
type ToolTimeoutError struct {
	Tool    string
	Module  string
	Timeout time.Duration
}

func (e *ToolTimeoutError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("%s timed out after %s for module %s", e.Tool, e.Timeout, e.Module)
	}
	return fmt.Sprintf("%s timed out after %s", e.Tool, e.Timeout)
}
func (e *ToolTimeoutError) Category() ErrorCategory { return CategoryTool }

// ModuleFailuresError aggregates per-module failures when generation continues past errors.
type ModuleFailuresError struct {
	Failures map[string]error
	Order    []string // module names in manifest order
}

func (e *ModuleFailuresError) Error() string {
	parts := make([]string, 0, len(e.Order))
	for _, name := range e.Order {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failures[name]))
	}
	return fmt.Sprintf("%d module(s) failed: %s", len(e.Order), strings.Join(parts, "; "))
}

// Unwrap exposes every module failure to errors.Is/As.
func (e *ModuleFailuresError) Unwrap() []error {
	out := make([]error, 0, len(e.Order))
	for _, name := range e.Order {
		out = append(out, e.Failures[name])
	}
	return out
}
func (e *ModuleFailuresError) Category() ErrorCategory { return CategoryTool }

// MissingCredentialError reports an access credential absent from the environment.
type MissingCredentialError struct {
	Variable string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: environment variable %s is not set", e.Variable)
}
func (e *MissingCredentialError) Category() ErrorCategory { return CategoryAuth }

// GuardConditionError reports an environment-based publish gate that did not pass.
type GuardConditionError struct {
	Variable string
	Expected string
	Actual   string
	Missing  bool
}

func (e *GuardConditionError) Error() string {
	if e.Missing {
		return fmt.Sprintf("publish gate: environment variable %s is not set (want %q)", e.Variable, e.Expected)
	}
	return fmt.Sprintf("publish gate: %s=%q, want %q", e.Variable, e.Actual, e.Expected)
}
func (e *GuardConditionError) Category() ErrorCategory { return CategoryGuard }
