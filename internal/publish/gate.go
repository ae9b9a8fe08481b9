package publish

import (
	"log/slog"
	"os"

	"github.com/dn-m/documentarian/internal/config"
	derrors "github.com/dn-m/documentarian/internal/errors"
)

// LookupEnv matches os.LookupEnv and is swapped in tests.
type LookupEnv func(key string) (string, bool)

// Condition is one environment variable that must hold an exact value.
type Condition struct {
	Variable string
	Expected string
}

// Gate decides whether this environment may publish.
type Gate struct {
	Enabled    bool
	Conditions []Condition
}

// NewGate builds the gate from configuration: the branch variable must name
// the configured branch, the pull-request variable must be "false" and the OS
// variable must name the configured OS.
func NewGate(cfg config.GateConfig) Gate {
	return Gate{
		Enabled: config.Enabled(cfg.Enabled, true),
		Conditions: []Condition{
			{Variable: cfg.BranchEnv, Expected: cfg.Branch},
			{Variable: cfg.PullRequestEnv, Expected: "false"},
			{Variable: cfg.OSEnv, Expected: cfg.OS},
		},
	}
}

// Check returns a *errors.GuardConditionError for the first variable that is
// absent or does not match. A disabled gate always passes.
func (g Gate) Check(lookup LookupEnv) error {
	if !g.Enabled {
		slog.Warn("Publish gate disabled; publishing regardless of CI environment")
		return nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, c := range g.Conditions {
		if c.Variable == "" {
			continue
		}
		actual, ok := lookup(c.Variable)
		if !ok {
			return &derrors.GuardConditionError{Variable: c.Variable, Expected: c.Expected, Missing: true}
		}
		if actual != c.Expected {
			return &derrors.GuardConditionError{Variable: c.Variable, Expected: c.Expected, Actual: actual}
		}
	}
	return nil
}
