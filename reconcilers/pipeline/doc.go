/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline runs a fixed sequence of named stages over an explicit
// state record.
//
// Each stage receives the state produced by the previous one and returns the
// next. The first failing stage aborts the run; later stages never execute and
// nothing is rolled back. A stage may return ErrHalt to end the run early
// with success.
//
// Side effects whose failure must never mask the run's outcome, such as
// posting a comment, go through BestEffort.
package pipeline
