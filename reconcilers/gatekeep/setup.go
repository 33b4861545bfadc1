/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gatekeep

import (
	"context"

	"github.com/chainguard-dev/clog"
	"golang.org/x/oauth2"
	"google.golang.org/genai"

	"chainguard.dev/devloop/agents/executor/googleexecutor"
	"chainguard.dev/devloop/agents/judge"
	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/modelselect"
	"chainguard.dev/devloop/reconcilers/issuetracker"
)

// Setup selects a Gemini model and wires a Pipeline from cfg.
func Setup(ctx context.Context, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := clog.FromContext(ctx)

	var (
		client *genai.Client
		err    error
	)
	if cfg.GoogleProject != "" {
		log.With("project", cfg.GoogleProject, "region", cfg.GoogleRegion).Info("Using Gemini on Vertex AI")
		client, err = googleexecutor.NewVertexClient(ctx, cfg.GoogleProject, cfg.GoogleRegion)
	} else {
		client, err = googleexecutor.NewClient(ctx, cfg.GeminiAPIKey)
	}
	if err != nil {
		return nil, err
	}

	m := metrics.NewGenAI(ctx, metrics.MeterName)
	m.SetAttributeEnricher(metrics.ContextAttributes)
	selector, err := modelselect.New(googleexecutor.NewProber(client), cfg.JudgeFallbackModel, modelselect.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	model := selector.Select(ctx, modelselect.Candidates(cfg.JudgeModels...))

	j, err := judge.NewGoogle(client,
		googleexecutor.WithModel[*judge.Request](model.ID),
		googleexecutor.WithTemperature[*judge.Request](cfg.JudgeTemperature),
		googleexecutor.WithAttributeEnricher[*judge.Request](metrics.ContextAttributes),
	)
	if err != nil {
		return nil, err
	}

	var commenter Commenter
	if cfg.canPost() {
		tracker, err := issuetracker.New(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken}), cfg.Repository)
		if err != nil {
			return nil, err
		}
		commenter = tracker
	}

	return New(j, commenter, Settings{
		LintResultsPath: cfg.LintResultsPath,
		BuildLogPath:    cfg.BuildLogPath,
		SnapshotDir:     cfg.SnapshotDir,
		SnapshotSuffix:  cfg.SnapshotSuffix,
		ReportPath:      cfg.ReportPath,
		VerdictPath:     cfg.VerdictPath,
		LintReportLimit: cfg.LintReportLimit,
		PullRequest:     cfg.PullRequest,
		SHA:             cfg.SHA,
	}), nil
}
