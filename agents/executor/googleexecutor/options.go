/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/promptbuilder"
	"google.golang.org/genai"
)

// Option is a functional option for configuring the executor
type Option[R Request] func(*executor[R]) error

// WithModel overrides the model name
func WithModel[R Request](model string) Option[R] {
	return func(e *executor[R]) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		e.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 2.0.
func WithTemperature[R Request](temp float32) Option[R] {
	return func(e *executor[R]) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		e.config.Temperature = genai.Ptr(temp)
		return nil
	}
}

// WithMaxOutputTokens bounds the size of the reply.
func WithMaxOutputTokens[R Request](tokens int32) Option[R] {
	return func(e *executor[R]) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		e.config.MaxOutputTokens = tokens
		return nil
	}
}

// WithSystemInstructions sets the system instruction. It must be fully bound.
func WithSystemInstructions[R Request](prompt *promptbuilder.Prompt) Option[R] {
	return func(e *executor[R]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		system, err := prompt.Build()
		if err != nil {
			return fmt.Errorf("building system prompt: %w", err)
		}
		e.config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
		return nil
	}
}

// WithResponseMIMEType requests a specific reply encoding such as application/json.
func WithResponseMIMEType[R Request](mimeType string) Option[R] {
	return func(e *executor[R]) error {
		e.config.ResponseMIMEType = mimeType
		return nil
	}
}

// WithResponseSchema constrains the reply to schema. It implies a JSON reply.
func WithResponseSchema[R Request](schema *genai.Schema) Option[R] {
	return func(e *executor[R]) error {
		if schema == nil {
			return errors.New("response schema cannot be nil")
		}
		e.config.ResponseSchema = schema
		if e.config.ResponseMIMEType == "" {
			e.config.ResponseMIMEType = "application/json"
		}
		return nil
	}
}

// WithSafetySettings replaces the provider's content filters for the request.
func WithSafetySettings[R Request](settings ...*genai.SafetySetting) Option[R] {
	return func(e *executor[R]) error {
		for _, s := range settings {
			if s == nil || s.Category == "" || s.Threshold == "" {
				return errors.New("safety setting needs a category and a threshold")
			}
		}
		e.config.SafetySettings = settings
		return nil
	}
}

// WithAttributeEnricher adds run attributes to the token and request counters.
func WithAttributeEnricher[R Request](enricher metrics.AttributeEnricher) Option[R] {
	return func(e *executor[R]) error {
		e.metrics.SetAttributeEnricher(enricher)
		return nil
	}
}
