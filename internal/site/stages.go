package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stigaview/stigaview/internal/catalog"
	"github.com/stigaview/stigaview/internal/logfields"
	"github.com/stigaview/stigaview/internal/metrics"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind classifies a stage failure.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"
	StageErrorCanceled StageErrorKind = "canceled"
)

// StageError records which stage failed and how.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newStageError(stage StageName, err error) *StageError {
	kind := StageErrorFatal
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = StageErrorCanceled
	}
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// BuildState carries the inputs and shared results of one build.
type BuildState struct {
	Generator *Generator
	Catalog   *catalog.Catalog
	Report    *BuildReport
	Templates *templateSet
	Revision  string
}

// runStages executes stages in order, recording timings and stopping on the
// first failure.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	recorder := bs.Generator.recorder
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: err}
			bs.Report.fail(se)
			bs.Report.recordStageResult(st.Name, metrics.ResultCanceled, recorder)
			return se
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[st.Name] = dur
		recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				se = newStageError(st.Name, err)
			}
			bs.Report.fail(se)
			result := metrics.ResultFatal
			if se.Kind == StageErrorCanceled {
				result = metrics.ResultCanceled
			}
			bs.Report.recordStageResult(st.Name, result, recorder)
			slog.Error("Stage failed", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
			return se
		}

		bs.Report.recordStageResult(st.Name, metrics.ResultSuccess, recorder)
		slog.Info("Stage complete",
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(durationMS(dur)))
	}
	return nil
}
