package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/dn-m/documentarian/internal/publish"
	"github.com/dn-m/documentarian/internal/toolexec"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "DOCUMENTARIAN_LOG_LEVEL"

// Global carries process-wide state into command Run methods.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	// Lookup reads the environment for the publish gate; nil means os.LookupEnv.
	Lookup publish.LookupEnv
	// Runner executes external tools; nil means an exec runner with the configured timeout.
	Runner toolexec.Runner
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition and global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (default: ./documentarian.yaml when present)" type:"path"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	PackageDir  string           `name:"package-dir" help:"Swift package to document (overrides package.directory)" type:"path"`
	Root        string           `name:"root" help:"Documentation root (overrides documentation.root)" type:"path"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this file after the run" type:"path"`
	NoBootstrap bool             `name:"no-bootstrap" help:"Use the configured SourceKitten binary as-is instead of fetching and building it"`

	Publish  PublishCmd  `cmd:"" default:"withargs" help:"Generate documentation and publish it to the site repository (default)"`
	Generate GenerateCmd `cmd:"" help:"Generate documentation into the documentation root without publishing"`
	Home     HomeCmd     `cmd:"" help:"Rebuild only the home index from the packages under the documentation root"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate documentation whenever package sources change"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours --verbose first, then DOCUMENTARIAN_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
