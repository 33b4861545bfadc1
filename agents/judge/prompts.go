/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"chainguard.dev/devloop/agents/promptbuilder"
	"google.golang.org/genai"
)

// rubric is sent with every image unchanged.
var rubric = promptbuilder.MustNewPrompt(`You are a visual regression testing expert. Analyze this snapshot diff image.

Your task:
1. Determine if the visual changes represent a TRUE REGRESSION (bug) or are ACCEPTABLE (minor/expected changes)
2. Consider: pixel shifts, anti-aliasing differences, rendering precision differences are usually ACCEPTABLE
3. Consider: layout breaks, missing elements, color changes, text changes are usually REGRESSIONS

Respond in JSON format:
{
    "judgment": "ACCEPTABLE" or "REGRESSION",
    "confidence": "high", "medium", or "low",
    "reasoning": "brief explanation",
    "details": "specific observations"
}`)

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"judgment": {
			Type:        genai.TypeString,
			Enum:        []string{string(Acceptable), string(Regression)},
			Description: "Whether the diff is a true regression or acceptable noise",
		},
		"confidence": {
			Type: genai.TypeString,
			Enum: []string{string(High), string(Medium), string(Low)},
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Brief explanation",
		},
		"details": {
			Type:        genai.TypeString,
			Description: "Specific observations",
		},
	},
	Required: []string{"judgment", "confidence", "reasoning"},
}
