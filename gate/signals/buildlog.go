/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package signals

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
)

// BuildFailedMarker is the literal xcodebuild prints when a build or test run fails.
const BuildFailedMarker = "BUILD FAILED"

// CollectBuildLog scans an xcodebuild log.
//
// Lines containing "error:" become informational build signals. Lines
// mentioning a "Test Case" that failed become failing test signals. The first
// line carrying BuildFailedMarker becomes one failing build signal.
func CollectBuildLog(ctx context.Context, path string) []Signal {
	log := clog.FromContext(ctx).With("path", path)

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("No build log found")
		return nil
	case err != nil:
		log.With("error", err).Warn("Failed to read build log")
		return nil
	}

	var out []Signal
	markerSeen := false
	builds, tests := 0, 0
	for line := range strings.Lines(string(raw)) {
		excerpt := strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if strings.Contains(line, BuildFailedMarker) {
			if !markerSeen {
				markerSeen = true
				out = append(out, Signal{Kind: KindBuild, Severity: "fatal", Excerpt: excerpt, Failing: true})
			}
		} else if strings.Contains(lower, "error:") {
			builds++
			out = append(out, Signal{Kind: KindBuild, Severity: "error", Excerpt: excerpt})
		}

		if strings.Contains(line, "Test Case") && strings.Contains(lower, "failed") {
			tests++
			out = append(out, Signal{Kind: KindTest, Severity: "failed", Excerpt: excerpt, Failing: true})
		}
	}

	log.With("build_errors", builds, "test_failures", tests, "build_failed", markerSeen).
		Info("Collected build log signals")
	return out
}
