/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"chainguard.dev/devloop/agents/modelselect"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Prober checks model availability with a ten-token request.
type Prober struct {
	client anthropic.Client
}

var _ modelselect.Prober = (*Prober)(nil)

// NewProber returns a Prober using client.
func NewProber(client anthropic.Client) *Prober {
	return &Prober{client: client}
}

// Probe returns nil when model answered, an error wrapping
// modelselect.ErrModelNotFound when the provider does not know it, or the
// provider error otherwise. The SDK's own retries are disabled so each call
// costs exactly one request.
func (p *Prober) Probe(ctx context.Context, model string) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 10,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("test")),
		},
	}, option.WithMaxRetries(0))
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", modelselect.ErrModelNotFound, model)
	}
	return fmt.Errorf("probing %s: %w", model, err)
}
