/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/promptbuilder"
)

// Option is a functional option for configuring the executor
type Option[Request promptbuilder.Bindable] func(*executor[Request]) error

// WithMaxTokens bounds the size of the reply.
func WithMaxTokens[Request promptbuilder.Bindable](tokens int64) Option[Request] {
	return func(e *executor[Request]) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		if tokens > 32000 {
			return fmt.Errorf("max tokens %d exceeds maximum of 32000", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 1.0.
// When unset the provider default applies.
func WithTemperature[Request promptbuilder.Bindable](temp float64) Option[Request] {
	return func(e *executor[Request]) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		e.temperature = &temp
		return nil
	}
}

// WithSystemInstructions sets the system prompt. It must be fully bound.
func WithSystemInstructions[Request promptbuilder.Bindable](prompt *promptbuilder.Prompt) Option[Request] {
	return func(e *executor[Request]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		system, err := prompt.Build()
		if err != nil {
			return fmt.Errorf("building system prompt: %w", err)
		}
		e.system = system
		return nil
	}
}

// WithModel overrides the model name
func WithModel[Request promptbuilder.Bindable](model string) Option[Request] {
	return func(e *executor[Request]) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		e.model = model
		return nil
	}
}

// WithAttributeEnricher adds run attributes to the token and request counters.
func WithAttributeEnricher[Request promptbuilder.Bindable](enricher metrics.AttributeEnricher) Option[Request] {
	return func(e *executor[Request]) error {
		e.metrics.SetAttributeEnricher(enricher)
		return nil
	}
}
