/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge asks a vision model whether a snapshot diff image shows a
// real regression or acceptable rendering noise.
//
// Every image handed to JudgeAll yields exactly one Judgement. A missing image
// becomes an ERROR judgement, as does any provider or parse failure, so a
// judgement can never silently pass the gate.
package judge
