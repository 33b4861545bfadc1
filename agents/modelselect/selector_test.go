/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package modelselect

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scriptedProber answers each model from a fixed table and records calls.
type scriptedProber struct {
	results map[string]error
	calls   []string
}

func (p *scriptedProber) Probe(_ context.Context, model string) error {
	p.calls = append(p.calls, model)
	if err, ok := p.results[model]; ok {
		return err
	}
	return fmt.Errorf("%w: %s", ErrModelNotFound, model)
}

func TestSelect(t *testing.T) {
	transient := errors.New("429 rate limited")

	tests := []struct {
		name       string
		candidates []Candidate
		results    map[string]error
		want       Selected
		wantCalls  []string
	}{{
		name:       "first candidate reachable",
		candidates: Candidates("a", "b", "c"),
		results:    map[string]error{"a": nil, "b": nil},
		want:       Selected{Candidate: Candidate{ID: "a", Rank: 0}},
		wantCalls:  []string{"a"},
	}, {
		name:       "not found skipped",
		candidates: Candidates("a", "b", "c"),
		results:    map[string]error{"b": nil, "c": nil},
		want:       Selected{Candidate: Candidate{ID: "b", Rank: 1}},
		wantCalls:  []string{"a", "b"},
	}, {
		name:       "transient error skipped",
		candidates: Candidates("a", "b"),
		results:    map[string]error{"a": transient, "b": nil},
		want:       Selected{Candidate: Candidate{ID: "b", Rank: 1}},
		wantCalls:  []string{"a", "b"},
	}, {
		name:       "every probe fails",
		candidates: Candidates("a", "b"),
		results:    map[string]error{"a": transient},
		want:       Selected{Candidate: Candidate{ID: "fallback", Rank: 2}, Fallback: true},
		wantCalls:  []string{"a", "b"},
	}, {
		name:       "empty list",
		candidates: nil,
		want:       Selected{Candidate: Candidate{ID: "fallback", Rank: 0}, Fallback: true},
	}, {
		name:       "probed in rank order",
		candidates: []Candidate{{ID: "late", Rank: 5}, {ID: "early", Rank: 1}},
		results:    map[string]error{"late": nil, "early": nil},
		want:       Selected{Candidate: Candidate{ID: "early", Rank: 1}},
		wantCalls:  []string{"early"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scriptedProber{results: tt.results}
			s, err := New(p, "fallback")
			if err != nil {
				t.Fatalf("New() = %v", err)
			}

			got := s.Select(context.Background(), tt.candidates)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Select() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCalls, p.calls); diff != "" {
				t.Errorf("probes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelect_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	s, err := New(ProberFunc(func(context.Context, string) error {
		calls++
		return nil
	}), "fallback")
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	got := s.Select(ctx, Candidates("a"))
	if !got.Fallback || got.ID != "fallback" {
		t.Errorf("Select() = %+v, want fallback", got)
	}
	if calls != 0 {
		t.Errorf("probes = %d, want 0", calls)
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates(" a ", "", "b")
	want := []Candidate{{ID: "a", Rank: 0}, {ID: "b", Rank: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, "x"); err == nil {
		t.Error("New(nil prober) succeeded")
	}
	if _, err := New(ProberFunc(func(context.Context, string) error { return nil }), " "); err == nil {
		t.Error("New(blank fallback) succeeded")
	}
	if _, err := New(ProberFunc(func(context.Context, string) error { return nil }), "x", WithMetrics(nil)); err == nil {
		t.Error("New(WithMetrics(nil)) succeeded")
	}
}
