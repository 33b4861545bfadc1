/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// stringLiteral only accepts untyped string constants from callers outside
// this package, which keeps runtime data out of template text.
type stringLiteral string

// encoder produces the text substituted for a placeholder.
type encoder func() (string, error)

// Prompt is an immutable template plus the placeholders bound so far.
// A nil encoder marks a placeholder that has not been bound yet.
type Prompt struct {
	template string
	bound    map[string]encoder
}

// NewPrompt parses template and records its placeholders.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bound := map[string]encoder{}
	if _, err := expand(string(template), func(name string) (string, error) {
		bound[name] = nil
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: string(template), bound: bound}, nil
}

// Must panics when err is non-nil. It is meant for package-level templates.
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is Must(NewPrompt(template)).
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// Placeholders lists the placeholder names in the template, sorted.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bound))
}

func (p *Prompt) with(name string, enc encoder) (*Prompt, error) {
	cur, ok := p.bound[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if cur != nil {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{template: p.template, bound: maps.Clone(p.bound)}
	next.bound[name] = enc
	return next, nil
}

// BindStringLiteral binds a developer-supplied constant.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.with(name, func() (string, error) { return string(value), nil })
}

// BindText binds a runtime string without any encoding.
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.with(name, func() (string, error) { return value, nil })
}

// BindXML binds data marshaled as indented XML.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.with(name, func() (string, error) {
		b, err := xml.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal %s as XML: %w", name, err)
		}
		return string(b), nil
	})
}

// BindJSON binds data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.with(name, func() (string, error) {
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal %s as JSON: %w", name, err)
		}
		return string(b), nil
	})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.with(name, func() (string, error) {
		b, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("marshal %s as YAML: %w", name, err)
		}
		return string(b), nil
	})
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bound))
	for _, name := range p.Placeholders() {
		enc := p.bound[name]
		if enc == nil {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := enc()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return expand(p.template, func(name string) (string, error) {
		return values[name], nil
	})
}
