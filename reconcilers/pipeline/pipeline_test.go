/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func appendStage(name string, err error) Stage[[]string] {
	return Stage[[]string]{
		Name: name,
		Run: func(_ context.Context, s []string) ([]string, error) {
			return append(s, name), err
		},
	}
}

func TestRun(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		stages    []Stage[[]string]
		want      []string
		wantStage string
	}{{
		name:   "all stages run in order",
		stages: []Stage[[]string]{appendStage("a", nil), appendStage("b", nil), appendStage("c", nil)},
		want:   []string{"a", "b", "c"},
	}, {
		name:   "halt ends early with success",
		stages: []Stage[[]string]{appendStage("a", ErrHalt), appendStage("b", nil)},
		want:   []string{"a"},
	}, {
		name:      "failure aborts later stages",
		stages:    []Stage[[]string]{appendStage("a", nil), appendStage("b", boom), appendStage("c", nil)},
		want:      []string{"a"},
		wantStage: "b",
	}, {
		name: "no stages",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Run[[]string](context.Background(), nil, tt.stages...)
			if tt.wantStage != "" {
				var se *StageError
				require.ErrorAs(t, err, &se)
				require.Equal(t, tt.wantStage, se.Stage)
				require.ErrorIs(t, err, boom)
			} else {
				require.NoError(t, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Run() state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	_, err := Run(ctx, 0, Stage[int]{Name: "never", Run: func(context.Context, int) (int, error) {
		ran = true
		return 1, nil
	}})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ran)
}

func TestBestEffort(t *testing.T) {
	ctx := context.Background()

	require.True(t, BestEffort(ctx, "ok", func(context.Context) error { return nil }))
	require.False(t, BestEffort(ctx, "fail", func(context.Context) error { return errors.New("nope") }))
}

func TestBestEffortError(t *testing.T) {
	inner := errors.New("rate limited")
	err := error(&BestEffortError{Op: "comment", Err: inner})

	require.ErrorIs(t, err, inner)
	require.Equal(t, "best-effort comment: rate limited", err.Error())
}
