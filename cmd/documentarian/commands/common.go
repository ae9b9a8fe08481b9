package commands

import (
	"context"
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/dn-m/documentarian/internal/config"
	"github.com/dn-m/documentarian/internal/logfields"
	"github.com/dn-m/documentarian/internal/metrics"
	"github.com/dn-m/documentarian/internal/pipeline"
	"github.com/dn-m/documentarian/internal/toolexec"
)

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return nil, err
	}
	if root.PackageDir != "" {
		cfg.Package.Directory = root.PackageDir
	}
	if root.Root != "" {
		cfg.Documentation.Root = root.Root
	}
	if root.NoBootstrap {
		cfg.Tools.SourceKitten.Bootstrap = config.BoolPtr(false)
	}
	if root.MetricsFile != "" {
		cfg.Metrics.Textfile = root.MetricsFile
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *Global) runner(cfg *config.Config) toolexec.Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return toolexec.NewExecRunner(cfg.Tools.Timeout)
}

// metricsSink owns the registry behind --metrics-file.
type metricsSink struct {
	path     string
	registry *prom.Registry
	recorder metrics.Recorder
}

func newMetricsSink(cfg *config.Config) *metricsSink {
	if cfg.Metrics.Textfile == "" {
		return &metricsSink{recorder: metrics.NoopRecorder{}}
	}
	reg := prom.NewRegistry()
	return &metricsSink{path: cfg.Metrics.Textfile, registry: reg, recorder: metrics.NewPrometheusRecorder(reg)}
}

// flush writes the textfile; failures are logged because the run itself already finished.
func (m *metricsSink) flush() {
	if m.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(m.path, m.registry); err != nil {
		slog.Warn("Failed to write metrics file", logfields.Path(m.path), logfields.Error(err))
		return
	}
	slog.Debug("Wrote metrics file", logfields.Path(m.path))
}

// runPipeline executes one run and prints the user-facing outcome.
func runPipeline(ctx context.Context, g *Global, cfg *config.Config, deps pipeline.Deps, opts pipeline.Options) error {
	sink := newMetricsSink(cfg)
	defer sink.flush()
	deps.Recorder = sink.recorder
	deps.Progress = g.stdout()

	report, err := pipeline.New(cfg, deps).Run(ctx, opts)
	if report != nil && report.Package != "" && err == nil {
		switch opts.Mode {
		case pipeline.ModePublish:
			if report.Committed {
				_, _ = fmt.Fprintf(g.stdout(), "Published documentation for the %s package\n", report.Package)
			} else {
				_, _ = fmt.Fprintf(g.stdout(), "Documentation for the %s package is already up to date\n", report.Package)
			}
		default:
			_, _ = fmt.Fprintf(g.stdout(), "Generated documentation for the %s package in %s\n", report.Package, cfg.Documentation.Root)
		}
	}
	return err
}
