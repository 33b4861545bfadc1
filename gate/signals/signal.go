/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package signals normalizes raw CI artifacts into Signal records.
//
// Every collector tolerates a missing artifact by returning no signals: the
// gate must not penalize instrumentation that did not run.
package signals

// Kind enumerates the sources of CI evidence.
type Kind string

const (
	KindLint   Kind = "lint"
	KindBuild  Kind = "build"
	KindTest   Kind = "test"
	KindVisual Kind = "visual"
)

// Signal is one normalized unit of CI evidence.
type Signal struct {
	Kind     Kind   `json:"kind"`
	Severity string `json:"severity"`
	Excerpt  string `json:"excerpt"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Rule     string `json:"rule,omitempty"`
	// Failing is true when this signal alone flips the gate to FAIL.
	Failing bool `json:"failing"`
}

// OfKind returns the signals of kind k, in order.
func OfKind(all []Signal, k Kind) []Signal {
	var out []Signal
	for _, s := range all {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

// AnyFailing reports whether at least one signal is failing.
func AnyFailing(all []Signal) bool {
	for _, s := range all {
		if s.Failing {
			return true
		}
	}
	return false
}
