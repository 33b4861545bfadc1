/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/devloop/agents/result"
	"github.com/google/go-cmp/cmp"
)

// fakeExecutor records the rendered prompt and replies with a canned string.
type fakeExecutor struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeExecutor) Execute(_ context.Context, req *Request) (string, error) {
	p, err := req.Bind(planPrompt)
	if err != nil {
		return "", err
	}
	if f.prompt, err = p.Build(); err != nil {
		return "", err
	}
	return f.reply, f.err
}

func TestPlan(t *testing.T) {
	reply := "Here's my plan:\n```json\n" + `{
  "analysis": "Add a login screen",
  "architecture_layer": "Features",
  "files_to_create": [
    {"path": "Features/Login/LoginView.swift", "purpose": "Login UI", "context_files": ["Core/Auth.swift"]}
  ],
  "files_to_modify": [
    {"path": "App/AppRouter.swift", "changes": "Route to login"}
  ],
  "dependencies": ["AuthenticationServices"],
  "testing_strategy": "Snapshot the view"
}` + "\n```\nLet me know!"

	exec := &fakeExecutor{reply: reply}
	p := New(exec)

	got, err := p.Plan(context.Background(),
		WorkItem{Number: 12, Title: "Login <screen>", Body: "We need a login", State: StateOpen},
		Inventory{"features": 4, "core": 2})
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}

	want := &Plan{
		Analysis:          "Add a login screen",
		ArchitectureLayer: "Features",
		FilesToCreate: []FileChangeSpec{{
			Path:         "Features/Login/LoginView.swift",
			Purpose:      "Login UI",
			ContextFiles: []string{"Core/Auth.swift"},
		}},
		FilesToModify: []FileChangeSpec{{
			Path:         "App/AppRouter.swift",
			Changes:      "Route to login",
			ContextFiles: []string{},
		}},
		Dependencies:    []string{"AuthenticationServices"},
		TestingStrategy: "Snapshot the view",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
	}

	for _, s := range []string{`<issue number="12" state="open">`, "Login &lt;screen&gt;", "features: 4", `"files_to_create"`} {
		if !strings.Contains(exec.prompt, s) {
			t.Errorf("prompt missing %q:\n%s", s, exec.prompt)
		}
	}
}

func TestParse_Defaults(t *testing.T) {
	empty := &Plan{FilesToCreate: []FileChangeSpec{}, FilesToModify: []FileChangeSpec{}, Dependencies: []string{}}

	tests := []struct {
		name  string
		reply string
		want  *Plan
	}{{
		name:  "empty object",
		reply: `{}`,
		want:  empty,
	}, {
		name:  "null collections",
		reply: `{"analysis": "a", "files_to_create": null, "files_to_modify": null, "dependencies": null}`,
		want:  &Plan{Analysis: "a", FilesToCreate: []FileChangeSpec{}, FilesToModify: []FileChangeSpec{}, Dependencies: []string{}},
	}, {
		name:  "null strings",
		reply: `{"analysis": null, "architecture_layer": null, "testing_strategy": null}`,
		want:  empty,
	}, {
		name:  "null inside a spec",
		reply: `{"files_to_create": [{"path": "a.swift", "purpose": null, "context_files": null}]}`,
		want: &Plan{
			FilesToCreate: []FileChangeSpec{{Path: "a.swift", ContextFiles: []string{}}},
			FilesToModify: []FileChangeSpec{},
			Dependencies:  []string{},
		},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.reply)
			if err != nil {
				t.Fatalf("Parse() = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			if got.FilesToCreate == nil || got.FilesToModify == nil || got.Dependencies == nil {
				t.Errorf("Parse() left nil collections: %+v", got)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose", "I can't plan this without more detail."},
		{"array", `[{"path": "a.swift"}]`},
		{"broken json", "```json\n{\"analysis\": \n```"},
		{"wrong type", `{"files_to_create": "a.swift"}`},
		{"missing path", `{"files_to_create": [{"purpose": "x"}]}`},
		{"null path", `{"files_to_create": [{"path": null}]}`},
		{"empty path", `{"files_to_modify": [{"path": ""}]}`},
		{"absolute path", `{"files_to_create": [{"path": "/etc/passwd"}]}`},
		{"escaping path", `{"files_to_create": [{"path": "../outside.swift"}]}`},
		{"escaping context file", `{"files_to_create": [{"path": "a.swift", "context_files": ["../../x"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.reply)
			if !errors.Is(err, result.ErrMalformedResponse) {
				t.Fatalf("Parse() error = %v, want ErrMalformedResponse", err)
			}
			if got != nil {
				t.Errorf("Parse() returned %+v alongside an error", got)
			}
		})
	}
}

func TestPlan_ExecutorError(t *testing.T) {
	boom := errors.New("overloaded")
	p := New(&fakeExecutor{err: boom})
	if _, err := p.Plan(context.Background(), WorkItem{Number: 1}, nil); !errors.Is(err, boom) {
		t.Errorf("Plan() = %v, want %v", err, boom)
	}
}

func TestWorkItem_Closed(t *testing.T) {
	for state, want := range map[State]bool{"open": false, "closed": true, "CLOSED": true, "": false} {
		if got := (WorkItem{State: state}).Closed(); got != want {
			t.Errorf("Closed(%q) = %v, want %v", state, got, want)
		}
	}
}
