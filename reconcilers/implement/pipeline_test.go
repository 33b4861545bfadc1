/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implement

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"

	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/planner"
	"chainguard.dev/devloop/reconcilers/issuetracker"
	"chainguard.dev/devloop/reconcilers/worktree"
)

type fakeTracker struct {
	item     planner.WorkItem
	fetchErr error
	prErr    error

	comments []string
	prs      []issuetracker.PullRequest
}

func (f *fakeTracker) FetchIssue(_ context.Context, number int) (planner.WorkItem, error) {
	if f.fetchErr != nil {
		return planner.WorkItem{}, f.fetchErr
	}
	item := f.item
	item.Number = number
	return item, nil
}

func (f *fakeTracker) Comment(_ context.Context, _ int, body string) error {
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeTracker) OpenPullRequest(_ context.Context, pr issuetracker.PullRequest) (string, error) {
	if f.prErr != nil {
		return "", f.prErr
	}
	f.prs = append(f.prs, pr)
	return "https://github.com/octo/app/pull/1", nil
}

type fakeRepo struct {
	files    map[string]string
	branches []string
	commits  []string
	pushed   []string
	pushErr  error
}

func (f *fakeRepo) Inventory(context.Context, map[string]string, string) planner.Inventory {
	return planner.Inventory{"features": len(f.files)}
}

func (f *fakeRepo) CreateBranch(_ context.Context, _, branch string, _ oauth2.TokenSource) error {
	f.branches = append(f.branches, branch)
	return nil
}

func (f *fakeRepo) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeRepo) ReadFile(path string) ([]byte, error) {
	s, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (f *fakeRepo) WriteFile(path, content string) error {
	f.files[path] = content
	return nil
}

func (f *fakeRepo) CommitAll(_ context.Context, message string, _ worktree.Author) (string, error) {
	f.commits = append(f.commits, message)
	return "abc123", nil
}

func (f *fakeRepo) Push(_ context.Context, branch string, _ oauth2.TokenSource) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, branch)
	return nil
}

type fakePlanner struct {
	plan  *planner.Plan
	err   error
	calls int
	attrs []attribute.KeyValue
}

func (f *fakePlanner) Plan(ctx context.Context, _ planner.WorkItem, _ planner.Inventory) (*planner.Plan, error) {
	f.calls++
	f.attrs = metrics.ContextAttributes(ctx, nil)
	return f.plan, f.err
}

type fakeGenerator struct {
	specs []planner.FileChangeSpec
}

func (f *fakeGenerator) Generate(_ context.Context, _ planner.WorkItem, spec planner.FileChangeSpec, _ []string) (string, error) {
	f.specs = append(f.specs, spec)
	return "// generated " + spec.Path, nil
}

func testPlan() *planner.Plan {
	return &planner.Plan{
		FilesToCreate: []planner.FileChangeSpec{{Path: "Sources/Login.swift", Purpose: "login screen"}},
		FilesToModify: []planner.FileChangeSpec{
			{Path: "Sources/App.swift", Changes: "route to login"},
			{Path: "Sources/Missing.swift", Changes: "never written"},
		},
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "agent_output.json")
	tracker := &fakeTracker{item: planner.WorkItem{Title: "Add login", State: planner.StateOpen}}
	repo := &fakeRepo{files: map[string]string{"Sources/App.swift": "// app"}}
	gen := &fakeGenerator{}
	pl := &fakePlanner{plan: testPlan()}

	p := New(tracker, repo, pl, gen, nil, Settings{
		BaseBranch: "main",
		OutputPath: out,
		Model:      "claude-test",
	})

	got, err := p.Run(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t, []attribute.KeyValue{attribute.Int("issue", 42)}, pl.attrs)
	require.Equal(t, []string{"feature/issue-42"}, repo.branches)
	require.Equal(t, []string{"feature/issue-42"}, repo.pushed)
	require.Len(t, repo.commits, 1)
	require.Contains(t, repo.commits[0], "feat: Implement issue #42")
	require.Contains(t, repo.commits[0], "Closes #42")

	// The missing modify target is skipped; the existing one is sent with its content.
	require.Len(t, gen.specs, 2)
	require.Nil(t, gen.specs[0].Existing)
	require.NotNil(t, gen.specs[1].Existing)
	require.Equal(t, "// app", *gen.specs[1].Existing)
	require.Equal(t, "// generated Sources/Login.swift", repo.files["Sources/Login.swift"])
	require.Equal(t, "// generated Sources/App.swift", repo.files["Sources/App.swift"])
	require.NotContains(t, repo.files, "Sources/Missing.swift")

	// Written specs carry the generated content.
	require.Len(t, got.Created, 1)
	require.NotNil(t, got.Created[0].Content)
	require.Equal(t, "// generated Sources/Login.swift", *got.Created[0].Content)
	require.Len(t, got.Modified, 1)
	require.NotNil(t, got.Modified[0].Content)
	require.Equal(t, "// generated Sources/App.swift", *got.Modified[0].Content)
	require.Equal(t, "// app", *got.Modified[0].Existing)

	require.Len(t, tracker.prs, 1)
	pr := tracker.prs[0]
	require.Equal(t, "feat: Add login (Issue #42)", pr.Title)
	require.Equal(t, "feature/issue-42", pr.Head)
	require.Equal(t, "main", pr.Base)
	require.Contains(t, pr.Body, "`Sources/Login.swift` - login screen")
	require.Contains(t, pr.Body, "`Sources/App.swift` - route to login")
	require.NotContains(t, pr.Body, "Missing.swift")

	require.Len(t, tracker.comments, 1)
	require.Contains(t, tracker.comments[0], "https://github.com/octo/app/pull/1")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var summary Summary
	require.NoError(t, json.Unmarshal(b, &summary))
	want := Summary{
		Status:         "success",
		RunID:          got.RunID,
		IssueNumber:    42,
		Branch:         "feature/issue-42",
		PullRequestURL: "https://github.com/octo/app/pull/1",
		Model:          "claude-test",
		FilesCreated:   []string{"Sources/Login.swift"},
		FilesModified:  []string{"Sources/App.swift"},
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestRunClosedIssue(t *testing.T) {
	tracker := &fakeTracker{item: planner.WorkItem{Title: "Done", State: planner.StateClosed}}
	repo := &fakeRepo{files: map[string]string{}}
	pl := &fakePlanner{plan: testPlan()}

	p := New(tracker, repo, pl, &fakeGenerator{}, nil, Settings{OutputPath: filepath.Join(t.TempDir(), "out.json")})
	_, err := p.Run(context.Background(), 3)
	require.NoError(t, err)

	require.Zero(t, pl.calls)
	require.Empty(t, repo.branches)
	require.Empty(t, repo.commits)
	require.Empty(t, tracker.prs)
	require.Empty(t, tracker.comments)
}

func TestRunFailureComments(t *testing.T) {
	pushErr := errors.New("remote rejected")
	tracker := &fakeTracker{item: planner.WorkItem{Title: "Add login", State: planner.StateOpen}}
	repo := &fakeRepo{files: map[string]string{}, pushErr: pushErr}
	out := filepath.Join(t.TempDir(), "out.json")

	p := New(tracker, repo, &fakePlanner{plan: testPlan()}, &fakeGenerator{}, nil, Settings{OutputPath: out})
	_, err := p.Run(context.Background(), 5)
	require.ErrorIs(t, err, pushErr)

	// Written files stay in place.
	require.Contains(t, repo.files, "Sources/Login.swift")
	require.Empty(t, tracker.prs)
	require.Len(t, tracker.comments, 1)
	require.Contains(t, tracker.comments[0], "encountered an error")
	require.Contains(t, tracker.comments[0], "remote rejected")
	require.NoFileExists(t, out)
}

func TestRunEmptyPlan(t *testing.T) {
	tracker := &fakeTracker{item: planner.WorkItem{Title: "Nothing", State: planner.StateOpen}}
	repo := &fakeRepo{files: map[string]string{}}

	p := New(tracker, repo, &fakePlanner{plan: &planner.Plan{}}, &fakeGenerator{}, nil, Settings{})
	_, err := p.Run(context.Background(), 9)
	require.ErrorContains(t, err, "no file changes")
	require.Empty(t, repo.commits)
}

func TestRunPlannerError(t *testing.T) {
	tracker := &fakeTracker{item: planner.WorkItem{Title: "Add login", State: planner.StateOpen}}
	repo := &fakeRepo{files: map[string]string{}}
	planErr := errors.New("malformed")

	p := New(tracker, repo, &fakePlanner{err: planErr}, &fakeGenerator{}, nil, Settings{})
	_, err := p.Run(context.Background(), 9)
	require.ErrorIs(t, err, planErr)
	require.Empty(t, repo.branches)
	require.Len(t, tracker.comments, 1)
}

func TestBranchName(t *testing.T) {
	require.Equal(t, "feature/issue-12", BranchName(12))
}
