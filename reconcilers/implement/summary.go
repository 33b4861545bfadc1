/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implement

import (
	"encoding/json"
	"fmt"
	"os"

	"chainguard.dev/devloop/agents/planner"
)

// Summary is the record persisted after a successful run.
type Summary struct {
	Status         string   `json:"status"`
	RunID          string   `json:"run_id"`
	IssueNumber    int      `json:"issue_number"`
	Branch         string   `json:"branch"`
	PullRequestURL string   `json:"pr_url"`
	Model          string   `json:"model_used"`
	FilesCreated   []string `json:"files_created"`
	FilesModified  []string `json:"files_modified"`
}

// NewSummary flattens a finished run.
func NewSummary(s State, model string) Summary {
	return Summary{
		Status:         "success",
		RunID:          s.RunID,
		IssueNumber:    s.Issue,
		Branch:         s.Branch,
		PullRequestURL: s.PullRequestURL,
		Model:          model,
		FilesCreated:   paths(s.Created),
		FilesModified:  paths(s.Modified),
	}
}

func paths(specs []planner.FileChangeSpec) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Path)
	}
	return out
}

// WriteSummary stores s at path as indented JSON.
func WriteSummary(path string, s Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing summary to %s: %w", path, err)
	}
	return nil
}
