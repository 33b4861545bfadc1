/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package worktree

import (
	"context"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/devloop/agents/planner"
)

// Inventory counts the source files of each category, where categories maps
// a category name to a project-relative directory. Unreadable directories are
// logged and count zero.
func (w *Worktree) Inventory(ctx context.Context, categories map[string]string, ext string) planner.Inventory {
	inv := make(planner.Inventory, len(categories))
	for name, dir := range categories {
		n, err := w.CountFiles(dir, ext)
		if err != nil {
			clog.FromContext(ctx).With("category", name, "dir", dir).Warn("Failed to count files", "error", err)
		}
		clog.FromContext(ctx).With("category", name).Infof("Found %d files", n)
		inv[name] = n
	}
	return inv
}
