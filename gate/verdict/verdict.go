/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package verdict reduces gate signals and visual judgements to PASS or FAIL.
package verdict

import (
	"encoding/json"
	"fmt"
	"io"

	"chainguard.dev/devloop/agents/judge"
	"chainguard.dev/devloop/gate/signals"
)

// Status is the aggregated outcome of a gate run.
type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
)

// Verdict holds the status and every signal and judgement that produced it.
type Verdict struct {
	Status    Status            `json:"overall_status"`
	Signals   []signals.Signal  `json:"signals"`
	Judgments []judge.Judgement `json:"judgments"`
}

// Aggregate is FAIL iff at least one signal or judgement is failing. An empty
// input is PASS. The inputs are copied, not retained.
func Aggregate(sigs []signals.Signal, judgments []judge.Judgement) Verdict {
	v := Verdict{
		Status:    Pass,
		Signals:   append([]signals.Signal{}, sigs...),
		Judgments: append([]judge.Judgement{}, judgments...),
	}
	if signals.AnyFailing(sigs) {
		v.Status = Fail
	}
	for _, j := range judgments {
		if j.Failing() {
			v.Status = Fail
		}
	}
	return v
}

// Passed reports whether the status is PASS.
func (v Verdict) Passed() bool {
	return v.Status == Pass
}

// ExitCode is 0 for PASS and 1 for FAIL.
func (v Verdict) ExitCode() int {
	if v.Passed() {
		return 0
	}
	return 1
}

// Encode writes the verdict as indented JSON. Equal verdicts encode to equal bytes.
func (v Verdict) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding verdict: %w", err)
	}
	return nil
}
