/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package modelselect picks the first model from a preference list that the
// completion provider currently accepts.
package modelselect

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/devloop/agents/metrics"
	"github.com/chainguard-dev/clog"
)

// ErrModelNotFound is wrapped by probers when the provider does not know the
// requested model identifier.
var ErrModelNotFound = errors.New("model not found")

// Candidate is one entry of a preference list. Lower ranks are preferred.
type Candidate struct {
	ID   string
	Rank int
}

// Candidates ranks ids in the order given. Blank identifiers are dropped.
func Candidates(ids ...string) []Candidate {
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		out = append(out, Candidate{ID: id, Rank: len(out)})
	}
	return out
}

// Selected is the outcome of Select. Fallback is set when no candidate
// answered its probe and the configured default was returned instead.
type Selected struct {
	Candidate
	Fallback bool
}

// Prober issues one minimal request for model. It must not retry.
type Prober interface {
	Probe(ctx context.Context, model string) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, model string) error

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, model string) error {
	return f(ctx, model)
}

// Selector runs the first-match probe policy.
type Selector struct {
	prober   Prober
	fallback string
	metrics  *metrics.GenAI
}

// Option configures a Selector.
type Option func(*Selector) error

// WithMetrics records every probe outcome on m.
func WithMetrics(m *metrics.GenAI) Option {
	return func(s *Selector) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		s.metrics = m
		return nil
	}
}

// New returns a Selector that falls back to fallback when no candidate is reachable.
func New(prober Prober, fallback string, opts ...Option) (*Selector, error) {
	if prober == nil {
		return nil, errors.New("prober cannot be nil")
	}
	if strings.TrimSpace(fallback) == "" {
		return nil, errors.New("fallback model cannot be empty")
	}
	s := &Selector{prober: prober, fallback: fallback}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return s, nil
}

// Select probes candidates in rank order, exactly once each, and returns the
// first that succeeds. Not-found models are skipped quietly; any other probe
// error is logged and skipped. Select never fails: when every probe fails the
// fallback model is returned.
func (s *Selector) Select(ctx context.Context, candidates []Candidate) Selected {
	log := clog.FromContext(ctx)

	ordered := slices.SortedStableFunc(slices.Values(candidates), func(a, b Candidate) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	for _, c := range ordered {
		if err := ctx.Err(); err != nil {
			log.Warnf("Model selection interrupted: %v", err)
			break
		}

		err := s.prober.Probe(ctx, c.ID)
		switch {
		case err == nil:
			s.record(ctx, c.ID, metrics.ProbeAvailable)
			log.With("model", c.ID, "rank", c.Rank).Info("Selected model")
			return Selected{Candidate: c}
		case errors.Is(err, ErrModelNotFound):
			s.record(ctx, c.ID, metrics.ProbeNotFound)
			log.With("model", c.ID).Debug("Model not available, trying next")
		default:
			s.record(ctx, c.ID, metrics.ProbeError)
			log.With("model", c.ID, "error", err).Warn("Model probe failed, trying next")
		}
	}

	log.With("model", s.fallback).Warn("No preferred model reachable, using fallback")
	return Selected{Candidate: Candidate{ID: s.fallback, Rank: len(candidates)}, Fallback: true}
}

func (s *Selector) record(ctx context.Context, model, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordProbe(ctx, model, outcome)
	}
}
