/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"encoding/json"
	"fmt"
	"os"

	"chainguard.dev/devloop/agents/judge"
	"chainguard.dev/devloop/gate/signals"
	"chainguard.dev/devloop/gate/verdict"
)

// Summary is the flat record persisted at the end of a gate run.
type Summary struct {
	RunID            string            `json:"run_id"`
	OverallStatus    verdict.Status    `json:"overall_status"`
	LintIssues       []signals.Signal  `json:"swiftlint_issues"`
	LintTotal        int               `json:"swiftlint_total"`
	BuildErrors      []string          `json:"build_errors"`
	TestFailures     []string          `json:"test_failures"`
	SnapshotAnalysis []judge.Judgement `json:"snapshot_analysis"`
	SHA              string            `json:"sha,omitempty"`
}

// NewSummary flattens v. Lint findings are truncated to lintLimit entries;
// LintTotal keeps the full count.
func NewSummary(v verdict.Verdict, runID, sha string, lintLimit int) Summary {
	lint := signals.OfKind(v.Signals, signals.KindLint)
	s := Summary{
		RunID:            runID,
		OverallStatus:    v.Status,
		LintIssues:       append([]signals.Signal{}, lint[:min(len(lint), max(lintLimit, 0))]...),
		LintTotal:        len(lint),
		BuildErrors:      excerpts(signals.OfKind(v.Signals, signals.KindBuild)),
		TestFailures:     excerpts(signals.OfKind(v.Signals, signals.KindTest)),
		SnapshotAnalysis: append([]judge.Judgement{}, v.Judgments...),
		SHA:              sha,
	}
	return s
}

func excerpts(s []signals.Signal) []string {
	out := make([]string, 0, len(s))
	for _, sig := range s {
		out = append(out, sig.Excerpt)
	}
	return out
}

// Write stores s at path as indented JSON.
func Write(path string, s Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing summary to %s: %w", path, err)
	}
	return nil
}
