/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/devloop/agents/judge"
	"chainguard.dev/devloop/gate/signals"
	"chainguard.dev/devloop/gate/verdict"
)

// sectionLimit bounds the entries listed per section of the comment.
const sectionLimit = 5

// Markdown renders v as a review comment: a summary table followed by the
// first entries of each section and every visual judgement.
func Markdown(v verdict.Verdict) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Sanity Gatekeeper Report\n\n## %s Overall Status: **%s**\n\n", mark(v.Passed()), v.Status)

	lint := signals.OfKind(v.Signals, signals.KindLint)
	build := signals.OfKind(v.Signals, signals.KindBuild)
	tests := signals.OfKind(v.Signals, signals.KindTest)

	table := markdownTable([]string{"Check", "Status", "Findings"}, &sb)
	rows := [][]string{
		{"Lint", status(signals.AnyFailing(lint)), strconv.Itoa(len(lint))},
		{"Build", status(signals.AnyFailing(build)), strconv.Itoa(len(build))},
		{"Tests", status(signals.AnyFailing(tests)), strconv.Itoa(len(tests))},
		{"Visual", status(anyFailingJudgement(v.Judgments)), strconv.Itoa(len(v.Judgments))},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return "", fmt.Errorf("appending summary row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering summary table: %w", err)
	}

	sb.WriteString("\n## Lint Analysis\n\n")
	if len(lint) == 0 {
		sb.WriteString("No significant linting issues\n")
	} else {
		fmt.Fprintf(&sb, "Found %d issues:\n\n", len(lint))
		for _, s := range head(lint) {
			fmt.Fprintf(&sb, "- **%s**: `%s` at `%s:%d`\n  > %s\n", strings.ToUpper(s.Severity), s.Rule, s.File, s.Line, s.Excerpt)
		}
	}

	sb.WriteString("\n## Build Analysis\n\n")
	if len(build) == 0 {
		sb.WriteString("Build completed successfully\n")
	} else {
		fmt.Fprintf(&sb, "Found %d build errors:\n\n", len(build))
		for _, s := range head(build) {
			fmt.Fprintf(&sb, "- `%s`\n", s.Excerpt)
		}
	}

	sb.WriteString("\n## Test Analysis\n\n")
	if len(tests) == 0 {
		sb.WriteString("All tests passed\n")
	} else {
		fmt.Fprintf(&sb, "Found %d test failures:\n\n", len(tests))
		for _, s := range head(tests) {
			fmt.Fprintf(&sb, "- %s\n", s.Excerpt)
		}
	}

	sb.WriteString("\n## Visual Regression Analysis\n\n")
	if len(v.Judgments) == 0 {
		sb.WriteString("No visual regressions detected\n")
	}
	for _, j := range v.Judgments {
		fmt.Fprintf(&sb, "### %s %s\n\n- **Judgment**: %s\n- **Confidence**: %s\n", mark(!j.Failing()), j.Image, j.Verdict, j.Confidence)
		if j.Reasoning != "" {
			fmt.Fprintf(&sb, "- **Reasoning**: %s\n", j.Reasoning)
		}
		if j.Details != "" {
			fmt.Fprintf(&sb, "- **Details**: %s\n", j.Details)
		}
		if j.Error != "" {
			fmt.Fprintf(&sb, "- **Error**: %s\n", j.Error)
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func head(s []signals.Signal) []signals.Signal {
	return s[:min(len(s), sectionLimit)]
}

func anyFailingJudgement(js []judge.Judgement) bool {
	for _, j := range js {
		if j.Failing() {
			return true
		}
	}
	return false
}

func status(failing bool) string {
	if failing {
		return string(verdict.Fail)
	}
	return string(verdict.Pass)
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
