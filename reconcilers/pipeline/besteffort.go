/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
)

// BestEffortError wraps the failure of an operation whose outcome is
// reported but never propagated.
type BestEffortError struct {
	Op  string
	Err error
}

func (e *BestEffortError) Error() string {
	return fmt.Sprintf("best-effort %s: %v", e.Op, e.Err)
}

func (e *BestEffortError) Unwrap() error {
	return e.Err
}

// BestEffort runs fn and logs its failure as a warning. It reports whether fn
// succeeded so callers may note the outcome; the error itself is swallowed.
func BestEffort(ctx context.Context, op string, fn func(context.Context) error) bool {
	if err := fn(ctx); err != nil {
		be := &BestEffortError{Op: op, Err: err}
		clog.FromContext(ctx).With("op", op).Warn("Best-effort operation failed", "error", be)
		return false
	}
	return true
}
