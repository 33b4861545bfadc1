/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package implement turns a GitHub issue into a pull request.
//
// A run fetches the issue, counts the existing source files, asks Claude for
// a plan, creates a feature branch, generates and writes every planned file,
// commits, pushes and opens a pull request. A closed issue ends the run
// successfully after the fetch.
//
// A failing stage stops the run. Files already written stay in place on the
// unpublished branch and a best-effort comment reports the error on the
// issue.
package implement
