/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/promptbuilder"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gemini-1.5-pro"

var tracer = otel.Tracer("chainguard.dev/devloop/agents/executor/googleexecutor")

// Request is a prompt binding plus the media sent after the prompt text.
type Request interface {
	promptbuilder.Bindable
	// Attachments returns inline parts such as images. It may return nil.
	Attachments() ([]*genai.Part, error)
}

// Interface is the public interface for Gemini completions
type Interface[R Request] interface {
	// Execute renders the prompt for request and returns the text of the reply.
	Execute(ctx context.Context, request R) (string, error)
}

type executor[R Request] struct {
	client  *genai.Client
	prompt  *promptbuilder.Prompt
	model   string
	config  genai.GenerateContentConfig
	metrics *metrics.GenAI
}

// New creates an executor for prompt.
func New[R Request](client *genai.Client, prompt *promptbuilder.Prompt, opts ...Option[R]) (Interface[R], error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor[R]{
		client:  client,
		prompt:  prompt,
		model:   DefaultModel,
		config:  genai.GenerateContentConfig{MaxOutputTokens: 2048},
		metrics: metrics.NewGenAI(context.Background(), metrics.MeterName),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

func (e *executor[R]) Execute(ctx context.Context, request R) (text string, err error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return "", fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	attachments, err := request.Attachments()
	if err != nil {
		return "", fmt.Errorf("failed to load attachments: %w", err)
	}

	ctx, span := tracer.Start(ctx, "gemini.generate_content")
	span.SetAttributes(
		attribute.String("gen_ai.system", "gemini"),
		attribute.String("gen_ai.request.model", e.model),
		attribute.Int("gen_ai.request.attachments", len(attachments)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := clog.FromContext(ctx).With("model", e.model)
	log.With("prompt_length", len(prompt), "attachments", len(attachments)).
		Info("Sending Gemini completion")

	parts := append([]*genai.Part{genai.NewPartFromText(prompt)}, attachments...)
	config := e.config
	resp, err := e.client.Models.GenerateContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, &config)
	e.metrics.RecordRequest(ctx, e.model, err)
	if err != nil {
		return "", fmt.Errorf("gemini completion with %s: %w", e.model, err)
	}

	if u := resp.UsageMetadata; u != nil {
		e.metrics.RecordTokens(ctx, e.model, int64(u.PromptTokenCount), int64(u.CandidatesTokenCount))
		span.SetAttributes(
			attribute.Int64("gen_ai.usage.input_tokens", int64(u.PromptTokenCount)),
			attribute.Int64("gen_ai.usage.output_tokens", int64(u.CandidatesTokenCount)),
		)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no content generated - no candidates")
	}
	text = resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text in Gemini response (finish reason %s)", resp.Candidates[0].FinishReason)
	}

	log.With("response_length", len(text)).Info("Received Gemini completion")
	return text, nil
}
