/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implement

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"

	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/agents/planner"
	"chainguard.dev/devloop/reconcilers/issuetracker"
	"chainguard.dev/devloop/reconcilers/pipeline"
	"chainguard.dev/devloop/reconcilers/worktree"
)

// Tracker is the issue and pull request side of GitHub.
type Tracker interface {
	FetchIssue(ctx context.Context, number int) (planner.WorkItem, error)
	Comment(ctx context.Context, number int, body string) error
	OpenPullRequest(ctx context.Context, pr issuetracker.PullRequest) (string, error)
}

// Repository is the local checkout the run writes to.
type Repository interface {
	Inventory(ctx context.Context, categories map[string]string, ext string) planner.Inventory
	CreateBranch(ctx context.Context, base, branch string, ts oauth2.TokenSource) error
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path, content string) error
	CommitAll(ctx context.Context, message string, author worktree.Author) (string, error)
	Push(ctx context.Context, branch string, ts oauth2.TokenSource) error
}

// Planner produces the plan for an issue.
type Planner interface {
	Plan(ctx context.Context, item planner.WorkItem, inventory planner.Inventory) (*planner.Plan, error)
}

// Generator produces the full content of one planned file.
type Generator interface {
	Generate(ctx context.Context, item planner.WorkItem, spec planner.FileChangeSpec, contextPaths []string) (string, error)
}

// Settings are the per-deployment knobs of a run.
type Settings struct {
	BaseBranch string
	Categories map[string]string
	Extension  string
	OutputPath string
	Author     worktree.Author
	// Model is recorded in the summary.
	Model string
}

// Pipeline runs one issue to a pull request.
type Pipeline struct {
	tracker   Tracker
	repo      Repository
	planner   Planner
	generator Generator
	tokens    oauth2.TokenSource
	settings  Settings
}

// New assembles a Pipeline. tokens authenticates git pulls and pushes and may
// be nil for anonymous remotes.
func New(tracker Tracker, repo Repository, p Planner, g Generator, tokens oauth2.TokenSource, settings Settings) *Pipeline {
	return &Pipeline{
		tracker:   tracker,
		repo:      repo,
		planner:   p,
		generator: g,
		tokens:    tokens,
		settings:  settings,
	}
}

// State is threaded through the stages of a run.
type State struct {
	RunID     string
	Issue     int
	Item      planner.WorkItem
	Inventory planner.Inventory
	Plan      *planner.Plan
	Branch    string
	// Created and Modified hold the specs actually written, in plan order.
	Created        []planner.FileChangeSpec
	Modified       []planner.FileChangeSpec
	Commit         string
	PullRequestURL string
}

// Run executes every stage for issue. On failure it comments on the issue
// and returns the error; the caller decides the exit status.
func (p *Pipeline) Run(ctx context.Context, issue int) (State, error) {
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("issue", issue))
	ctx = metrics.WithAttributes(ctx, attribute.Int("issue", issue))
	log := clog.FromContext(ctx)

	initial := State{RunID: uuid.NewString(), Issue: issue}
	log.With("run_id", initial.RunID).Info("Starting implementation run")

	final, err := pipeline.Run(ctx, initial,
		pipeline.Stage[State]{Name: "fetch", Run: p.fetch},
		pipeline.Stage[State]{Name: "explore", Run: p.explore},
		pipeline.Stage[State]{Name: "plan", Run: p.plan},
		pipeline.Stage[State]{Name: "branch", Run: p.branch},
		pipeline.Stage[State]{Name: "generate", Run: p.generate},
		pipeline.Stage[State]{Name: "commit", Run: p.commit},
		pipeline.Stage[State]{Name: "push", Run: p.push},
		pipeline.Stage[State]{Name: "pull-request", Run: p.pullRequest},
		pipeline.Stage[State]{Name: "persist", Run: p.persist},
	)
	if err != nil {
		pipeline.BestEffort(ctx, "failure comment", func(ctx context.Context) error {
			return p.tracker.Comment(ctx, issue, failureComment(err))
		})
		return final, err
	}
	return final, nil
}

func (p *Pipeline) fetch(ctx context.Context, s State) (State, error) {
	item, err := p.tracker.FetchIssue(ctx, s.Issue)
	if err != nil {
		return s, err
	}
	s.Item = item
	if item.Closed() {
		clog.FromContext(ctx).Warn("Issue is already closed, nothing to do")
		return s, pipeline.ErrHalt
	}
	return s, nil
}

func (p *Pipeline) explore(ctx context.Context, s State) (State, error) {
	s.Inventory = p.repo.Inventory(ctx, p.settings.Categories, p.settings.Extension)
	return s, nil
}

func (p *Pipeline) plan(ctx context.Context, s State) (State, error) {
	plan, err := p.planner.Plan(ctx, s.Item, s.Inventory)
	if err != nil {
		return s, err
	}
	clog.FromContext(ctx).Infof("Plan: %d files to create, %d files to modify", len(plan.FilesToCreate), len(plan.FilesToModify))
	s.Plan = plan
	return s, nil
}

// BranchName is the feature branch used for issue.
func BranchName(issue int) string {
	return fmt.Sprintf("feature/issue-%d", issue)
}

func (p *Pipeline) branch(ctx context.Context, s State) (State, error) {
	s.Branch = BranchName(s.Issue)
	if err := p.repo.CreateBranch(ctx, p.settings.BaseBranch, s.Branch, p.tokens); err != nil {
		return s, err
	}
	return s, nil
}

func (p *Pipeline) generate(ctx context.Context, s State) (State, error) {
	log := clog.FromContext(ctx)

	for _, spec := range s.Plan.FilesToCreate {
		log.Infof("Creating: %s", spec.Path)
		if err := p.write(ctx, s.Item, &spec); err != nil {
			return s, err
		}
		s.Created = append(s.Created, spec)
	}

	for _, spec := range s.Plan.FilesToModify {
		if !p.repo.Exists(spec.Path) {
			log.With("path", spec.Path).Warn("File to modify does not exist, skipping")
			continue
		}
		b, err := p.repo.ReadFile(spec.Path)
		if err != nil {
			return s, fmt.Errorf("reading %s: %w", spec.Path, err)
		}
		existing := string(b)
		spec.Existing = &existing

		log.Infof("Modifying: %s", spec.Path)
		if err := p.write(ctx, s.Item, &spec); err != nil {
			return s, err
		}
		s.Modified = append(s.Modified, spec)
	}

	if len(s.Created)+len(s.Modified) == 0 {
		return s, errors.New("plan produced no file changes")
	}
	return s, nil
}

// write generates spec's file, records the content on spec, and writes it.
func (p *Pipeline) write(ctx context.Context, item planner.WorkItem, spec *planner.FileChangeSpec) error {
	content, err := p.generator.Generate(ctx, item, *spec, spec.ContextFiles)
	if err != nil {
		return err
	}
	spec.Content = &content
	return p.repo.WriteFile(spec.Path, content)
}

func (p *Pipeline) commit(ctx context.Context, s State) (State, error) {
	hash, err := p.repo.CommitAll(ctx, commitMessage(s.Item), p.settings.Author)
	if err != nil {
		return s, err
	}
	s.Commit = hash
	return s, nil
}

func (p *Pipeline) push(ctx context.Context, s State) (State, error) {
	return s, p.repo.Push(ctx, s.Branch, p.tokens)
}

func (p *Pipeline) pullRequest(ctx context.Context, s State) (State, error) {
	url, err := p.tracker.OpenPullRequest(ctx, issuetracker.PullRequest{
		Title: pullRequestTitle(s.Item),
		Body:  pullRequestBody(s.Item, s.Created, s.Modified),
		Head:  s.Branch,
		Base:  p.settings.BaseBranch,
	})
	if err != nil {
		return s, err
	}
	s.PullRequestURL = url

	pipeline.BestEffort(ctx, "pull request comment", func(ctx context.Context) error {
		return p.tracker.Comment(ctx, s.Issue, createdComment(url))
	})
	return s, nil
}

func (p *Pipeline) persist(ctx context.Context, s State) (State, error) {
	if p.settings.OutputPath == "" {
		return s, nil
	}
	if err := WriteSummary(p.settings.OutputPath, NewSummary(s, p.settings.Model)); err != nil {
		return s, err
	}
	clog.FromContext(ctx).With("path", p.settings.OutputPath).Info("Wrote run summary")
	return s, nil
}
