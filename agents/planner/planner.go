/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package planner turns a work item and a codebase inventory into an
// implementation plan of file-create and file-modify specifications.
package planner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"chainguard.dev/devloop/agents/executor/claudeexecutor"
	"chainguard.dev/devloop/agents/promptbuilder"
	"chainguard.dev/devloop/agents/result"
	"chainguard.dev/devloop/agents/schema"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// Request binds a work item and inventory into the planning prompt.
type Request struct {
	Item      WorkItem
	Inventory Inventory
}

// Bind implements promptbuilder.Bindable.
func (r *Request) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindXML("issue", r.Item)
	if err != nil {
		return nil, err
	}
	if p, err = p.BindYAML("inventory", r.Inventory); err != nil {
		return nil, err
	}
	return p.BindText("schema", planSchemaJSON)
}

var (
	planSchema     = schema.ReflectType[Plan]()
	planSchemaJSON = schema.MustJSON[Plan]()
)

// Planner requests implementation plans. It never retries.
type Planner struct {
	exec claudeexecutor.Interface[*Request]
}

// New returns a Planner backed by exec.
func New(exec claudeexecutor.Interface[*Request]) *Planner {
	return &Planner{exec: exec}
}

// NewClaude builds the executor for the planning prompt and wraps it.
func NewClaude(client anthropic.Client, opts ...claudeexecutor.Option[*Request]) (*Planner, error) {
	exec, err := claudeexecutor.New[*Request](client, planPrompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating planner executor: %w", err)
	}
	return New(exec), nil
}

// Plan asks the model for a plan. A reply that is not a JSON object, that
// violates the plan schema, or that names a path outside the project root is
// reported as result.ErrMalformedResponse.
func (p *Planner) Plan(ctx context.Context, item WorkItem, inventory Inventory) (*Plan, error) {
	log := clog.FromContext(ctx).With("issue", item.Number)

	text, err := p.exec.Execute(ctx, &Request{Item: item, Inventory: inventory})
	if err != nil {
		return nil, fmt.Errorf("requesting plan: %w", err)
	}

	plan, err := Parse(text)
	if err != nil {
		var mr *result.MalformedResponseError
		if errors.As(err, &mr) {
			log.With("payload", mr.Payload).Error("Model returned an unusable plan")
		}
		return nil, err
	}

	log.With("create", len(plan.FilesToCreate), "modify", len(plan.FilesToModify), "layer", plan.ArchitectureLayer).
		Info("Created implementation plan")
	return plan, nil
}

// Parse extracts and validates a plan from a model reply.
func Parse(text string) (*Plan, error) {
	payload := result.Unwrap(text, "json")
	plan, err := result.DecodeObject[Plan](payload)
	if err != nil {
		return nil, err
	}
	// Models emit null for empty optional fields; those default like absent ones.
	cleaned, err := schema.DropNulls(payload)
	if err != nil {
		return nil, result.Malformed(payload, err)
	}
	if err := schema.Validate(planSchema, cleaned); err != nil {
		return nil, result.Malformed(payload, err)
	}
	if err := checkPaths("files_to_create", plan.FilesToCreate); err != nil {
		return nil, result.Malformed(payload, err)
	}
	if err := checkPaths("files_to_modify", plan.FilesToModify); err != nil {
		return nil, result.Malformed(payload, err)
	}
	plan.normalize()
	return &plan, nil
}

func checkPaths(field string, specs []FileChangeSpec) error {
	for i, s := range specs {
		if !filepath.IsLocal(s.Path) {
			return fmt.Errorf("%s[%d]: path %q must be non-empty and relative to the project root", field, i, s.Path)
		}
		for j, c := range s.ContextFiles {
			if !filepath.IsLocal(c) {
				return fmt.Errorf("%s[%d].context_files[%d]: path %q escapes the project root", field, i, j, c)
			}
		}
	}
	return nil
}
