/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable is implemented by request types that know how to fill a prompt
// template with their own data. Executors accept a Bindable so one template can
// serve every request of a kind.
type Bindable interface {
	Bind(prompt *Prompt) (*Prompt, error)
}

// Noop leaves the prompt unchanged. Use it for templates without placeholders.
type Noop struct{}

// Bind implements Bindable.
func (Noop) Bind(prompt *Prompt) (*Prompt, error) {
	return prompt, nil
}

// BindFunc adapts a function to Bindable.
type BindFunc func(*Prompt) (*Prompt, error)

// Bind implements Bindable.
func (f BindFunc) Bind(prompt *Prompt) (*Prompt, error) {
	return f(prompt)
}
