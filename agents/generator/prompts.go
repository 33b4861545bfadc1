/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generator

import "chainguard.dev/devloop/agents/promptbuilder"

var generatePrompt = promptbuilder.MustNewPrompt(`Generate the complete {{language}} file described below.

{{issue}}

{{target}}

Related files from the project:
{{context}}

Current content of the file:
{{existing}}

Requirements:
1. Follow the conventions of the surrounding code
2. Include documentation comments for public API
3. Handle errors explicitly
4. Keep the change focused on the issue

Return the entire file in a single fenced code block tagged {{language}}.`)
