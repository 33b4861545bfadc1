/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"chainguard.dev/devloop/agents/modelselect"
	"google.golang.org/genai"
)

// Prober checks model availability with a ten-token request.
type Prober struct {
	client *genai.Client
}

var _ modelselect.Prober = (*Prober)(nil)

// NewProber returns a Prober using client.
func NewProber(client *genai.Client) *Prober {
	return &Prober{client: client}
}

// Probe returns nil when model answered, an error wrapping
// modelselect.ErrModelNotFound for a 404, or the provider error otherwise.
func (p *Prober) Probe(ctx context.Context, model string) error {
	_, err := p.client.Models.GenerateContent(ctx, model, genai.Text("test"),
		&genai.GenerateContentConfig{MaxOutputTokens: 10})
	if err == nil {
		return nil
	}
	if notFound(err) {
		return fmt.Errorf("%w: %s", modelselect.ErrModelNotFound, model)
	}
	return fmt.Errorf("probing %s: %w", model, err)
}

func notFound(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusNotFound
	}
	return false
}
