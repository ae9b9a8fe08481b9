package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dn-m/documentarian/internal/logfields"
)

// RunStages executes stages in order, recording timing and stopping at the
// first error. A failed publish is recorded as a warning but still returned.
func RunStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := &StageError{Kind: StageErrorCanceled, Stage: def.Name, Err: ctx.Err()}
			st.Report.Errors = append(st.Report.Errors, se)
			st.Report.RecordStageResult(def.Name, StageResultCanceled, 0, st.recorder)
			return se
		default:
		}

		slog.Debug("Stage start", logfields.Stage(string(def.Name)), logfields.RunID(st.Report.RunID))
		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)

		if err == nil {
			st.Report.RecordStageResult(def.Name, StageResultSuccess, dur, st.recorder)
			slog.Debug("Stage complete", logfields.Stage(string(def.Name)),
				logfields.DurationMS(float64(dur.Milliseconds())))
			continue
		}

		se := classifyStageError(ctx, def.Name, err)
		switch se.Kind {
		case StageErrorWarning:
			st.Report.Warnings = append(st.Report.Warnings, se)
			st.Report.RecordStageResult(def.Name, StageResultWarning, dur, st.recorder)
			slog.Warn("Stage failed; written documentation kept", logfields.Stage(string(def.Name)), logfields.Error(err))
		case StageErrorCanceled:
			st.Report.Errors = append(st.Report.Errors, se)
			st.Report.RecordStageResult(def.Name, StageResultCanceled, dur, st.recorder)
		default:
			st.Report.Errors = append(st.Report.Errors, se)
			st.Report.RecordStageResult(def.Name, StageResultFatal, dur, st.recorder)
		}
		return se
	}
	return nil
}

func classifyStageError(ctx context.Context, stage StageName, err error) *StageError {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
	}
	if stage == StagePublish {
		return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
	}
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
