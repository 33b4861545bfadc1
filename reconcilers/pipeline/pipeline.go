/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
)

// ErrHalt stops a run after the current stage without reporting failure.
var ErrHalt = errors.New("pipeline halted")

// Stage is one named transformation of the pipeline state.
type Stage[S any] struct {
	Name string
	Run  func(context.Context, S) (S, error)
}

// StageError records which stage aborted the run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Run executes stages in order. It returns the last state produced, which on
// failure is the state handed to the failing stage.
func Run[S any](ctx context.Context, state S, stages ...Stage[S]) (S, error) {
	for _, st := range stages {
		log := clog.FromContext(ctx).With("stage", st.Name)
		if err := ctx.Err(); err != nil {
			return state, &StageError{Stage: st.Name, Err: err}
		}
		log.Info("Running stage")

		next, err := st.Run(ctx, state)
		switch {
		case errors.Is(err, ErrHalt):
			log.Info("Pipeline halted")
			return next, nil
		case err != nil:
			log.Error("Stage failed", "error", err)
			return state, &StageError{Stage: st.Name, Err: err}
		}
		state = next
	}
	return state, nil
}
