/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package googleexecutor sends single-turn multimodal completions to Gemini.

A request renders a promptbuilder template and may attach inline media (for
example a PNG diff image). The executor submits the prompt followed by the
attachments as one user turn and returns the reply text.

	client, err := googleexecutor.NewClient(ctx, apiKey)
	exec, err := googleexecutor.New[*judge.Request](client, rubric,
	    googleexecutor.WithModel[*judge.Request]("gemini-1.5-pro"),
	    googleexecutor.WithResponseMIMEType[*judge.Request]("application/json"),
	    googleexecutor.WithResponseSchema[*judge.Request](schema),
	)
	text, err := exec.Execute(ctx, req)

Prober checks whether a model is served and plugs into modelselect.
*/
package googleexecutor
