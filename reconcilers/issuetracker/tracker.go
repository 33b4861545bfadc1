/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package issuetracker reads work items from GitHub issues and publishes the
// results of a run as comments and pull requests.
package issuetracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"

	"chainguard.dev/devloop/agents/planner"
)

// Tracker is bound to a single repository.
type Tracker struct {
	client *github.Client
	owner  string
	repo   string
}

// New returns a Tracker for repository ("owner/name") authenticated with the
// bearer token from ts.
func New(ctx context.Context, ts oauth2.TokenSource, repository string) (*Tracker, error) {
	if ts == nil {
		return nil, errors.New("token source cannot be nil")
	}
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		client: github.NewClient(oauth2.NewClient(ctx, ts)),
		owner:  owner,
		repo:   repo,
	}, nil
}

// SplitRepository splits "owner/name" into its parts.
func SplitRepository(repository string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository %q is not of the form owner/name", repository)
	}
	return owner, repo, nil
}

// FetchIssue returns issue number as a work item.
func (t *Tracker) FetchIssue(ctx context.Context, number int) (planner.WorkItem, error) {
	issue, _, err := t.client.Issues.Get(ctx, t.owner, t.repo, number)
	if err != nil {
		return planner.WorkItem{}, fmt.Errorf("fetching issue #%d: %w", number, err)
	}
	clog.FromContext(ctx).With("issue", number, "state", issue.GetState()).Info("Fetched issue")
	return planner.WorkItem{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  planner.State(issue.GetState()),
	}, nil
}

// Comment posts body on issue or pull request number.
func (t *Tracker) Comment(ctx context.Context, number int, body string) error {
	if _, _, err := t.client.Issues.CreateComment(ctx, t.owner, t.repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	}); err != nil {
		return fmt.Errorf("posting comment on #%d: %w", number, err)
	}
	return nil
}

// PullRequest describes a review request to open.
type PullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// OpenPullRequest opens pr and returns its URL.
func (t *Tracker) OpenPullRequest(ctx context.Context, pr PullRequest) (string, error) {
	log := clog.FromContext(ctx)
	log.Infof("Creating new PR with head %s and base %s", pr.Head, pr.Base)

	created, _, err := t.client.PullRequests.Create(ctx, t.owner, t.repo, &github.NewPullRequest{
		Title: github.Ptr(pr.Title),
		Body:  github.Ptr(pr.Body),
		Head:  github.Ptr(pr.Head),
		Base:  github.Ptr(pr.Base),
	})
	if err != nil {
		return "", fmt.Errorf("creating pull request: %w", err)
	}

	log.Infof("Created PR #%d: %s", created.GetNumber(), created.GetHTMLURL())
	return created.GetHTMLURL(), nil
}
