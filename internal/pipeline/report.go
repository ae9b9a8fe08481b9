package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/dn-m/documentarian/internal/metrics"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report captures what a run did. It is returned even when the run fails.
type Report struct {
	RunID          string
	Package        string
	Mode           Mode
	Start          time.Time
	End            time.Time
	StageOrder     []StageName
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Selected       []string
	Generated      []string
	Failed         []string
	HomePackages   int
	Committed      bool
	Errors         []error
	Warnings       []error
	Outcome        Outcome
}

func newReport(runID string, mode Mode) *Report {
	return &Report{
		RunID:          runID,
		Mode:           mode,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

// RecordStageResult stores the stage outcome and forwards it to the recorder.
func (r *Report) RecordStageResult(stage StageName, res StageResult, d time.Duration, recorder metrics.Recorder) {
	if _, seen := r.StageResults[stage]; !seen {
		r.StageOrder = append(r.StageOrder, stage)
	}
	r.StageResults[stage] = res
	r.StageDurations[stage] = d
	if recorder == nil {
		return
	}
	recorder.ObserveStageDuration(string(stage), d)
	recorder.IncStageResult(string(stage), metrics.ResultLabel(res))
}

// DeriveOutcome sets Outcome from the recorded stage results and errors.
func (r *Report) DeriveOutcome() {
	for _, res := range r.StageResults {
		if res == StageResultCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Finish stamps the end time, derives the outcome and emits run metrics.
func (r *Report) Finish(recorder metrics.Recorder) {
	r.End = time.Now()
	r.DeriveOutcome()
	if recorder == nil {
		return
	}
	recorder.ObserveRunDuration(r.End.Sub(r.Start))
	recorder.IncRunOutcome(metrics.OutcomeLabel(r.Outcome))
}

// Summary renders a one-line description of the run.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run=%s outcome=%s", r.RunID, r.Outcome)
	if r.Package != "" {
		fmt.Fprintf(&b, " package=%s", r.Package)
	}
	fmt.Fprintf(&b, " generated=%d failed=%d", len(r.Generated), len(r.Failed))
	if r.Mode == ModePublish {
		fmt.Fprintf(&b, " committed=%t", r.Committed)
	}
	fmt.Fprintf(&b, " duration=%s", r.End.Sub(r.Start).Round(time.Millisecond))
	return b.String()
}
