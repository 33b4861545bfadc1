/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/promptbuilder"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "claude-3-5-sonnet-20241022"

var tracer = otel.Tracer("chainguard.dev/devloop/agents/executor/claudeexecutor")

// Interface is the public interface for Claude completions
type Interface[Request promptbuilder.Bindable] interface {
	// Execute renders the prompt for request and returns the text of the reply.
	Execute(ctx context.Context, request Request) (string, error)
}

type executor[Request promptbuilder.Bindable] struct {
	client      anthropic.Client
	prompt      *promptbuilder.Prompt
	model       string
	system      string
	maxTokens   int64
	temperature *float64
	metrics     *metrics.GenAI
}

// New creates an executor for prompt.
func New[Request promptbuilder.Bindable](
	client anthropic.Client,
	prompt *promptbuilder.Prompt,
	opts ...Option[Request],
) (Interface[Request], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor[Request]{
		client:    client,
		prompt:    prompt,
		model:     DefaultModel,
		maxTokens: 8192,
		metrics:   metrics.NewGenAI(context.Background(), metrics.MeterName),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

func (e *executor[Request]) Execute(ctx context.Context, request Request) (text string, err error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return "", fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	ctx, span := tracer.Start(ctx, "claude.messages")
	span.SetAttributes(
		attribute.String("gen_ai.system", "anthropic"),
		attribute.String("gen_ai.request.model", e.model),
		attribute.Int64("gen_ai.request.max_tokens", e.maxTokens),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := clog.FromContext(ctx).With("model", e.model)
	log.With("prompt_length", len(prompt)).Info("Sending Claude completion")

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if e.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: e.system}}
	}
	if e.temperature != nil {
		params.Temperature = anthropic.Float(*e.temperature)
	}

	// Failures surface to the calling stage; only model selection skips past them.
	msg, err := e.client.Messages.New(ctx, params, option.WithMaxRetries(0))
	e.metrics.RecordRequest(ctx, e.model, err)
	if err != nil {
		return "", fmt.Errorf("claude completion with %s: %w", e.model, err)
	}

	e.metrics.RecordTokens(ctx, e.model, msg.Usage.InputTokens, msg.Usage.OutputTokens)
	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", msg.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", msg.Usage.OutputTokens),
	)

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text content in Claude's response")
	}

	log.With("response_length", sb.Len(), "stop_reason", string(msg.StopReason)).
		Info("Received Claude completion")
	return sb.String(), nil
}
