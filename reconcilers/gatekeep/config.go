/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gatekeep

import (
	"errors"
	"fmt"
)

// Config is read from the environment before any stage runs.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	// GoogleProject routes Gemini through Vertex AI instead of the API key.
	GoogleProject string `env:"GOOGLE_CLOUD_PROJECT"`
	GoogleRegion  string `env:"GOOGLE_CLOUD_LOCATION,default=us-central1"`

	GitHubToken string `env:"GITHUB_TOKEN"`
	Repository  string `env:"GITHUB_REPOSITORY"`
	PullRequest int    `env:"GITHUB_PR_NUMBER"`
	SHA         string `env:"GITHUB_SHA"`

	JudgeModels        []string `env:"JUDGE_MODELS,default=gemini-1.5-pro"`
	JudgeFallbackModel string   `env:"JUDGE_FALLBACK_MODEL,default=gemini-1.5-pro"`
	// JudgeTemperature defaults low so equal images draw equal judgements.
	JudgeTemperature float32 `env:"JUDGE_TEMPERATURE,default=0.1"`

	LintResultsPath string `env:"LINT_RESULTS_PATH,default=swiftlint_result.json"`
	BuildLogPath    string `env:"BUILD_LOG_PATH,default=xcodebuild.log"`
	SnapshotDir     string `env:"SNAPSHOT_DIR,default=snapshots_artifacts"`
	SnapshotSuffix  string `env:"SNAPSHOT_SUFFIX,default=.diff.png"`
	ReportPath      string `env:"REPORT_PATH,default=agent_report.json"`
	VerdictPath     string `env:"VERDICT_PATH,default=gate_verdict.json"`
	LintReportLimit int    `env:"LINT_REPORT_LIMIT,default=10"`
}

// Validate checks the constraints envconfig cannot express.
func (c Config) Validate() error {
	if c.GeminiAPIKey == "" && c.GoogleProject == "" {
		return errors.New("GEMINI_API_KEY is required unless GOOGLE_CLOUD_PROJECT is set")
	}
	if c.JudgeTemperature < 0 || c.JudgeTemperature > 2 {
		return fmt.Errorf("JUDGE_TEMPERATURE must be between 0.0 and 2.0, got %v", c.JudgeTemperature)
	}
	if c.LintReportLimit < 0 {
		return errors.New("LINT_REPORT_LIMIT cannot be negative")
	}
	return nil
}

// canPost reports whether the review thread is fully identified.
func (c Config) canPost() bool {
	return c.GitHubToken != "" && c.Repository != "" && c.PullRequest > 0
}
