/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import (
	"encoding/xml"
	"strings"
)

// State is the lifecycle state of a work item.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// WorkItem is an externally tracked request for change.
type WorkItem struct {
	XMLName xml.Name `xml:"issue" json:"-"`
	Number  int      `xml:"number,attr" json:"number"`
	Title   string   `xml:"title" json:"title"`
	Body    string   `xml:"body" json:"body"`
	State   State    `xml:"state,attr" json:"state"`
}

// Closed reports whether the item no longer needs work.
func (w WorkItem) Closed() bool {
	return strings.EqualFold(string(w.State), string(StateClosed))
}

// Inventory counts existing source files per codebase category.
type Inventory map[string]int

// FileChangeSpec describes one file to create or modify.
//
// Existing is set by the orchestrator for modify specs from the file on disk;
// Content is filled in by the generator. Neither is part of the model's reply.
type FileChangeSpec struct {
	Path         string   `json:"path" jsonschema:"required,minLength=1,description=Path relative to the project root"`
	Purpose      string   `json:"purpose,omitempty" jsonschema:"description=What a new file is for"`
	Changes      string   `json:"changes,omitempty" jsonschema:"description=What to change in an existing file"`
	ContextFiles []string `json:"context_files,omitempty" jsonschema:"description=Existing files worth reading before writing this one"`

	Existing *string `json:"-"`
	Content  *string `json:"-"`
}

// Description is the purpose of a create spec or the changes of a modify spec.
func (s FileChangeSpec) Description() string {
	if s.Changes != "" {
		return s.Changes
	}
	return s.Purpose
}

// Plan is the structured implementation plan for a work item.
type Plan struct {
	Analysis          string           `json:"analysis,omitempty" jsonschema:"description=Brief analysis of what needs to be done"`
	ArchitectureLayer string           `json:"architecture_layer,omitempty" jsonschema:"description=Which layer the change belongs to (Features / Core / Utilities)"`
	FilesToCreate     []FileChangeSpec `json:"files_to_create,omitempty"`
	FilesToModify     []FileChangeSpec `json:"files_to_modify,omitempty"`
	Dependencies      []string         `json:"dependencies,omitempty" jsonschema:"description=Packages or modules the change relies on"`
	TestingStrategy   string           `json:"testing_strategy,omitempty" jsonschema:"description=How the change should be tested"`
}

// normalize replaces missing collections with empty ones.
func (p *Plan) normalize() {
	if p.FilesToCreate == nil {
		p.FilesToCreate = []FileChangeSpec{}
	}
	if p.FilesToModify == nil {
		p.FilesToModify = []FileChangeSpec{}
	}
	if p.Dependencies == nil {
		p.Dependencies = []string{}
	}
	for _, specs := range [][]FileChangeSpec{p.FilesToCreate, p.FilesToModify} {
		for i := range specs {
			if specs[i].ContextFiles == nil {
				specs[i].ContextFiles = []string{}
			}
		}
	}
}
