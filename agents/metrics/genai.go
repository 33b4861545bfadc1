/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry counters for completion requests and
// model availability probes.
package metrics

import (
	"context"
	"slices"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is shared by every executor; the model is a dimension on each point.
const MeterName = "chainguard.devloop.agents"

// Probe outcomes recorded by RecordProbe.
const (
	ProbeAvailable = "available"
	ProbeNotFound  = "not_found"
	ProbeError     = "error"
)

// AttributeEnricher adds run-specific attributes (issue, pull request, commit)
// to the base attributes of every recorded point.
type AttributeEnricher func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue

type attributesKey struct{}

// WithAttributes returns a context whose recordings carry kvs when the
// ContextAttributes enricher is installed.
func WithAttributes(ctx context.Context, kvs ...attribute.KeyValue) context.Context {
	prev, _ := ctx.Value(attributesKey{}).([]attribute.KeyValue)
	return context.WithValue(ctx, attributesKey{}, append(slices.Clip(prev), kvs...))
}

// ContextAttributes is an AttributeEnricher that appends the attributes added
// with WithAttributes.
func ContextAttributes(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
	extra, _ := ctx.Value(attributesKey{}).([]attribute.KeyValue)
	return append(base, extra...)
}

// GenAI holds the counters. Counters that fail to initialize degrade to no-ops.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	requests         metric.Int64Counter
	probes           metric.Int64Counter
	enricher         AttributeEnricher
}

// NewGenAI creates the counters on the global meter provider.
func NewGenAI(ctx context.Context, meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			clog.FromContext(ctx).With("meter", meterName, "counter", name).
				Warnf("Failed to create counter, recording disabled: %v", err)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		requests:         counter("genai.requests", "The number of completion requests issued", "{requests}"),
		probes:           counter("genai.model.probes", "The number of model availability probes", "{probes}"),
	}
}

// SetAttributeEnricher installs e for all subsequent recordings.
func (m *GenAI) SetAttributeEnricher(e AttributeEnricher) {
	m.enricher = e
}

func (m *GenAI) attributes(ctx context.Context, model string, extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := []attribute.KeyValue{attribute.String("model", model)}
	if m.enricher != nil {
		attrs = m.enricher(ctx, attrs)
	}
	return metric.WithAttributes(append(attrs, extra...)...)
}

// RecordTokens records token usage of one completion.
func (m *GenAI) RecordTokens(ctx context.Context, model string, prompt, completion int64, attrs ...attribute.KeyValue) {
	opt := m.attributes(ctx, model, attrs...)
	m.promptTokens.Add(ctx, prompt, opt)
	m.completionTokens.Add(ctx, completion, opt)
}

// RecordRequest counts one completion request; err decides the outcome attribute.
func (m *GenAI) RecordRequest(ctx context.Context, model string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requests.Add(ctx, 1, m.attributes(ctx, model, attribute.String("outcome", outcome)))
}

// RecordProbe counts one availability probe with its outcome.
func (m *GenAI) RecordProbe(ctx context.Context, model, outcome string) {
	m.probes.Add(ctx, 1, m.attributes(ctx, model, attribute.String("outcome", outcome)))
}
