package metrics

import "time"

// ResultLabel enumerates stage and module result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
	ResultSkipped  ResultLabel = "skipped"
)

// OutcomeLabel enumerates final run outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeWarning  OutcomeLabel = "warning"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for runs, stages, modules and tools.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
	ObserveModuleDuration(pkg string, d time.Duration, result ResultLabel)
	ObserveToolDuration(tool string, d time.Duration, success bool)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)               {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                       {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                         {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                               {}
func (NoopRecorder) ObserveModuleDuration(string, time.Duration, ResultLabel) {}
func (NoopRecorder) ObserveToolDuration(string, time.Duration, bool)          {}
func (NoopRecorder) SetWorkers(int)                                           {}
