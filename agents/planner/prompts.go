/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import "chainguard.dev/devloop/agents/promptbuilder"

var planPrompt = promptbuilder.MustNewPrompt(`Analyze this issue and create an implementation plan.

{{issue}}

Current codebase structure (number of source files per area):
{{inventory}}

Based on the issue requirements and the existing architecture, decide:
1. Which files need to be created
2. Which existing files need to be modified
3. Which architecture layer the change belongs to
4. How the change should be tested

All paths are relative to the project root.

Respond with a single JSON object matching this schema:
{{schema}}`)
