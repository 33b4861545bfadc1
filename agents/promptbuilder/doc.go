/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder assembles completion prompts from developer-written
templates containing {{name}} placeholders.

Templates must be string literals. Every placeholder must be bound exactly once
before Build succeeds, and bindings are substituted in a single pass so a bound
value that itself contains {{other}} is never expanded.

	p := promptbuilder.MustNewPrompt(`Implement this issue:
	{{issue}}

	Existing files:
	{{inventory}}`)

	p, err := p.BindXML("issue", item)
	...
	p, err = p.BindYAML("inventory", counts)
	...
	text, err := p.Build()

Structured values are encoded with encoding/xml, encoding/json or
gopkg.in/yaml.v3. BindText inserts a runtime string verbatim and is meant for
content such as source files, where escaping would corrupt what the model sees.
*/
package promptbuilder
