package pipeline

import (
	"context"
	"fmt"
)

// Stage is a discrete unit of work in a documentation run.
type Stage func(ctx context.Context, st *State) error

// StageName is a strongly-typed identifier for a run stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageDecodeManifest     StageName = "decode_manifest"
	StageSelectModules      StageName = "select_modules"
	StageBootstrapTools     StageName = "bootstrap_tools"
	StageSyncSite           StageName = "sync_site"
	StagePrepareDirectories StageName = "prepare_directories"
	StageGenerateModules    StageName = "generate_modules"
	StageRebuildIndex       StageName = "rebuild_index"
	StagePublish            StageName = "publish"
)

// StageErrorKind classifies a stage failure.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run aborts.
	StageErrorWarning  StageErrorKind = "warning"  // Recorded; written documentation is kept.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError carries the failing stage and the underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Plan is a fluent builder for an ordered list of stages.
type Plan struct {
	defs []StageDef
}

// NewPlan creates an empty plan.
func NewPlan() *Plan { return &Plan{defs: make([]StageDef, 0, 8)} }

// Add appends a stage unconditionally.
func (p *Plan) Add(name StageName, fn Stage) *Plan {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Plan) AddIf(cond bool, name StageName, fn Stage) *Plan {
	if cond {
		return p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Plan) Build() []StageDef {
	out := make([]StageDef, len(p.defs))
	copy(out, p.defs)
	return out
}

// Names lists the planned stages in order.
func (p *Plan) Names() []StageName {
	out := make([]StageName, len(p.defs))
	for i, d := range p.defs {
		out[i] = d.Name
	}
	return out
}
