/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

// NewClient returns a client authenticated with an Anthropic API key.
func NewClient(apiKey string, opts ...option.RequestOption) anthropic.Client {
	return anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
}

// NewVertexClient returns a client that reaches Claude through Vertex AI using
// application default credentials.
func NewVertexClient(ctx context.Context, region, projectID string) anthropic.Client {
	return anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID))
}
