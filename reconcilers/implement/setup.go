/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implement

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
	"golang.org/x/oauth2"

	"chainguard.dev/devloop/agents/executor/claudeexecutor"
	"chainguard.dev/devloop/agents/generator"
	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/modelselect"
	"chainguard.dev/devloop/agents/planner"
	"chainguard.dev/devloop/agents/promptbuilder"
	"chainguard.dev/devloop/reconcilers/issuetracker"
	"chainguard.dev/devloop/reconcilers/worktree"
)

// DefaultPersona is the system prompt used without SYSTEM_PROMPT_FILE.
const DefaultPersona = `You are a senior software engineer working on an existing codebase.
You follow the project's established architecture and conventions, prefer small
focused types, handle errors explicitly and write code that compiles on the
first try. You only produce what you are asked for.`

// SystemPrompt loads the persona from path, or the default when path is empty.
func SystemPrompt(path string) (*promptbuilder.Prompt, error) {
	if path == "" {
		return promptbuilder.NewPrompt(DefaultPersona)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system prompt: %w", err)
	}
	return promptbuilder.MustNewPrompt("{{persona}}").BindText("persona", string(b))
}

// executorOptions configures one Claude executor of the run. Its counters carry
// the attributes the pipeline adds to the context.
func executorOptions[R promptbuilder.Bindable](model string, maxTokens int64, temperature *float64, system *promptbuilder.Prompt) []claudeexecutor.Option[R] {
	opts := []claudeexecutor.Option[R]{
		claudeexecutor.WithModel[R](model),
		claudeexecutor.WithMaxTokens[R](maxTokens),
		claudeexecutor.WithSystemInstructions[R](system),
		claudeexecutor.WithAttributeEnricher[R](metrics.ContextAttributes),
	}
	if temperature != nil {
		opts = append(opts, claudeexecutor.WithTemperature[R](*temperature))
	}
	return opts
}

// Setup selects a Claude model and wires a Pipeline from cfg.
func Setup(ctx context.Context, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := clog.FromContext(ctx)

	var client anthropic.Client
	if cfg.VertexProject != "" {
		log.With("project", cfg.VertexProject, "region", cfg.VertexRegion).Info("Using Claude on Vertex AI")
		client = claudeexecutor.NewVertexClient(ctx, cfg.VertexRegion, cfg.VertexProject)
	} else {
		client = claudeexecutor.NewClient(cfg.AnthropicAPIKey)
	}

	m := metrics.NewGenAI(ctx, metrics.MeterName)
	m.SetAttributeEnricher(metrics.ContextAttributes)
	selector, err := modelselect.New(claudeexecutor.NewProber(client), cfg.FallbackModel, modelselect.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	model := selector.Select(ctx, modelselect.Candidates(cfg.ModelPreferences...))

	system, err := SystemPrompt(cfg.SystemPromptFile)
	if err != nil {
		return nil, err
	}

	repo, err := worktree.Open(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}

	p, err := planner.NewClaude(client, executorOptions[*planner.Request](model.ID, cfg.PlanMaxTokens, cfg.PlanTemperature, system)...)
	if err != nil {
		return nil, err
	}
	g, err := generator.NewClaude(client, repo, executorOptions[*generator.Request](model.ID, cfg.GenerateMaxTokens, cfg.GenerateTemperature, system)...)
	if err != nil {
		return nil, err
	}

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken})
	tracker, err := issuetracker.New(ctx, tokens, cfg.Repository)
	if err != nil {
		return nil, err
	}

	return New(tracker, repo, p, g, tokens, Settings{
		BaseBranch: cfg.BaseBranch,
		Categories: cfg.Inventory,
		Extension:  cfg.SourceExtension,
		OutputPath: cfg.OutputPath,
		Author:     worktree.AuthorFor(cfg.Actor),
		Model:      model.ID,
	}), nil
}
