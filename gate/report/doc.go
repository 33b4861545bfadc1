/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders a gate verdict as a Markdown review comment and as
// the persisted JSON summary consumed by CI.
package report
