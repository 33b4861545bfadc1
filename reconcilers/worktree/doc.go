/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package worktree drives a local git checkout for a single run: it prepares
// a feature branch, reads and writes files under the project root, commits
// everything and pushes the branch.
//
// All file paths are relative to the project root and may not escape it.
// A Worktree assumes exclusive use of its checkout.
package worktree
