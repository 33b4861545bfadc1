/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
)

// lintFinding is one entry of SwiftLint's JSON reporter output.
type lintFinding struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Reason   string `json:"reason"`
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
}

// CollectLint reads a SwiftLint JSON report. Findings at warning or error
// severity become lint signals, in file order; errors are failing. Severities
// compare case-insensitively. A report that exists but cannot be parsed yields
// a single failing signal.
func CollectLint(ctx context.Context, path string) []Signal {
	log := clog.FromContext(ctx).With("path", path)

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("No lint results found")
		return nil
	case err != nil:
		log.With("error", err).Warn("Failed to read lint results")
		return nil
	}

	var findings []lintFinding
	if err := json.Unmarshal(raw, &findings); err != nil {
		log.With("error", err).Warn("Failed to parse lint results")
		return []Signal{{
			Kind:     KindLint,
			Severity: "error",
			Excerpt:  fmt.Sprintf("unparseable lint results: %v", err),
			File:     path,
			Failing:  true,
		}}
	}

	var out []Signal
	errorCount := 0
	for _, f := range findings {
		sev := strings.ToLower(strings.TrimSpace(f.Severity))
		if sev != "error" && sev != "warning" {
			continue
		}
		if sev == "error" {
			errorCount++
		}
		out = append(out, Signal{
			Kind:     KindLint,
			Severity: sev,
			Excerpt:  f.Reason,
			File:     f.File,
			Line:     f.Line,
			Rule:     f.RuleID,
			Failing:  sev == "error",
		})
	}

	log.With("findings", len(out), "errors", errorCount).Info("Collected lint signals")
	return out
}
