/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gatekeep turns the CI artifacts of a pull request into a PASS or
// FAIL verdict.
//
// Lint findings, the build log and every snapshot diff image are collected
// independently; a missing artifact contributes nothing and a failed image
// judgement becomes an ERROR entry. The verdict is rendered as a review
// comment, posted when the pull request is known, and persisted.
package gatekeep
