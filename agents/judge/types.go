/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import "strings"

// Verdict is the classification of one diff image.
type Verdict string

const (
	Acceptable Verdict = "ACCEPTABLE"
	Regression Verdict = "REGRESSION"
	Unknown    Verdict = "UNKNOWN"
	Error      Verdict = "ERROR"
)

// Confidence is the model's self-reported certainty.
type Confidence string

const (
	High              Confidence = "high"
	Medium            Confidence = "medium"
	Low               Confidence = "low"
	UnknownConfidence Confidence = "unknown"
)

// Judgement is the outcome for one image.
type Judgement struct {
	Image      string     `json:"image"`
	Verdict    Verdict    `json:"judgment"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning,omitempty"`
	Details    string     `json:"details,omitempty"`
	// Error is set for ERROR verdicts.
	Error string `json:"error,omitempty"`
}

// Failing reports whether the judgement blocks the gate. Only ACCEPTABLE passes.
func (j Judgement) Failing() bool {
	return j.Verdict != Acceptable
}

// reply is the record the model is asked to produce.
type reply struct {
	Judgment   string `json:"judgment"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
	Details    string `json:"details"`
}

func (r reply) judgement(image string) Judgement {
	j := Judgement{
		Image:      image,
		Verdict:    Unknown,
		Confidence: UnknownConfidence,
		Reasoning:  r.Reasoning,
		Details:    r.Details,
	}
	switch v := Verdict(strings.ToUpper(strings.TrimSpace(r.Judgment))); v {
	case Acceptable, Regression:
		j.Verdict = v
	}
	switch c := Confidence(strings.ToLower(strings.TrimSpace(r.Confidence))); c {
	case High, Medium, Low:
		j.Confidence = c
	}
	return j
}

// Failed is the ERROR judgement recorded for image when judging it failed.
func Failed(image string, err error) Judgement {
	return Judgement{
		Image:      image,
		Verdict:    Error,
		Confidence: UnknownConfidence,
		Error:      err.Error(),
	}
}
