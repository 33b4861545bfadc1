/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse matches every error produced when a model response
// does not contain a usable structured record.
var ErrMalformedResponse = errors.New("malformed response")

// MalformedResponseError carries the offending payload alongside the parse
// failure so callers can log what the model actually sent.
type MalformedResponseError struct {
	// Payload is the unwrapped text that failed to parse.
	Payload string
	// Err is the underlying decode or validation failure.
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return ErrMalformedResponse.Error()
	}
	return fmt.Sprintf("%v: %v", ErrMalformedResponse, e.Err)
}

// Is reports whether target is ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Malformed wraps err as a MalformedResponseError for payload. Consumers that
// validate a record beyond what json.Unmarshal checks use this to report the
// failure through the same error type.
func Malformed(payload string, err error) error {
	return &MalformedResponseError{Payload: payload, Err: err}
}
