/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeexecutor sends single-turn text completions to Claude.
//
// An executor renders a promptbuilder template with the request it is given,
// submits it with optional system instructions and a token bound, and returns
// the concatenated text blocks of the reply. Parsing the reply is left to the
// caller.
//
//	client := claudeexecutor.NewClient(apiKey)
//	exec, err := claudeexecutor.New[*planner.Request](client, planPrompt,
//	    claudeexecutor.WithModel[*planner.Request]("claude-sonnet-4-20250514"),
//	    claudeexecutor.WithMaxTokens[*planner.Request](4096),
//	)
//	text, err := exec.Execute(ctx, req)
//
// A Prober checks whether a model identifier is served, for use with
// modelselect.
package claudeexecutor
