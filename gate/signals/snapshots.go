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
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
)

// FindDiffImages lists the regular files in dir whose names end in suffix,
// sorted by name. A missing directory yields no images.
func FindDiffImages(ctx context.Context, dir, suffix string) []string {
	log := clog.FromContext(ctx).With("dir", dir)

	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("No snapshot artifacts directory found")
		return nil
	case err != nil:
		log.With("error", err).Warn("Failed to list snapshot artifacts")
		return nil
	}

	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	log.With("images", len(out)).Info("Found snapshot diff images")
	return out
}
