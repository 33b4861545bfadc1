/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implement

import (
	"errors"
	"fmt"
)

// Config is read from the environment before any stage runs.
type Config struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	// VertexProject routes Claude through Vertex AI instead of the API key.
	VertexProject string `env:"ANTHROPIC_VERTEX_PROJECT"`
	VertexRegion  string `env:"CLOUD_ML_REGION,default=us-east5"`

	GitHubToken string `env:"GITHUB_TOKEN,required"`
	Repository  string `env:"GITHUB_REPOSITORY,required"`
	Actor       string `env:"GITHUB_ACTOR,default=devloop"`

	ModelPreferences []string `env:"MODEL_PREFERENCES,default=claude-sonnet-4-5-20250929,claude-sonnet-4-20250514,claude-3-7-sonnet-20250219"`
	FallbackModel    string   `env:"FALLBACK_MODEL,default=claude-3-5-sonnet-20241022"`

	ProjectRoot      string            `env:"PROJECT_ROOT,default=."`
	BaseBranch       string            `env:"BASE_BRANCH,default=main"`
	Inventory        map[string]string `env:"INVENTORY,default=features:Sources/Features,core:Sources/Core,utilities:Sources/Core/Utilities,tests:Tests"`
	SourceExtension  string            `env:"SOURCE_EXTENSION,default=.swift"`
	SystemPromptFile string            `env:"SYSTEM_PROMPT_FILE"`
	OutputPath       string            `env:"OUTPUT_PATH,default=agent_output.json"`

	PlanMaxTokens     int64 `env:"PLAN_MAX_TOKENS,default=4096"`
	GenerateMaxTokens int64 `env:"GENERATE_MAX_TOKENS,default=8192"`
	// Unset temperatures leave the provider default in place.
	PlanTemperature     *float64 `env:"PLAN_TEMPERATURE,noinit"`
	GenerateTemperature *float64 `env:"GENERATE_TEMPERATURE,noinit"`
}

// Validate checks the constraints envconfig cannot express.
func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" && c.VertexProject == "" {
		return errors.New("ANTHROPIC_API_KEY is required unless ANTHROPIC_VERTEX_PROJECT is set")
	}
	for name, t := range map[string]*float64{"PLAN_TEMPERATURE": c.PlanTemperature, "GENERATE_TEMPERATURE": c.GenerateTemperature} {
		if t != nil && (*t < 0 || *t > 1) {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got %v", name, *t)
		}
	}
	return nil
}
