/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package worktree

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/oauth2"
)

// ErrPathEscapes is returned for paths that resolve outside the project root.
var ErrPathEscapes = errors.New("path escapes project root")

const remoteName = "origin"

// Worktree is a git checkout rooted at a project directory.
type Worktree struct {
	root string
	repo *git.Repository
}

// Open opens the repository containing root. root need not be the top of the
// repository.
func Open(root string) (*Worktree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", abs, err)
	}
	return &Worktree{root: abs, repo: repo}, nil
}

// Root is the absolute project root.
func (w *Worktree) Root() string {
	return w.root
}

// Repository exposes the underlying repository.
func (w *Worktree) Repository() *git.Repository {
	return w.repo
}

// CreateBranch checks out base, pulls it from origin when that remote exists
// and creates and checks out branch from the result.
func (w *Worktree) CreateBranch(ctx context.Context, base, branch string, ts oauth2.TokenSource) error {
	if branch == "" {
		return errors.New("branch name cannot be empty")
	}
	log := clog.FromContext(ctx).With("base", base, "branch", branch)

	wt, err := w.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	baseRef := plumbing.NewBranchReferenceName(base)
	if err := wt.Checkout(&git.CheckoutOptions{Branch: baseRef}); err != nil {
		return fmt.Errorf("checking out %s: %w", base, err)
	}

	auth, err := basicAuth(ts)
	if err != nil {
		return err
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    remoteName,
		ReferenceName: baseRef,
		SingleBranch:  true,
		Auth:          auth,
	})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		log.Info("Base branch already up to date")
	case errors.Is(err, git.ErrRemoteNotFound):
		log.Warn("No origin remote, skipping pull")
	case err != nil:
		return fmt.Errorf("pulling %s: %w", base, err)
	}

	if err := wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	}); err != nil {
		return fmt.Errorf("creating branch %s: %w", branch, err)
	}
	log.Info("Created branch")
	return nil
}

// CurrentBranch returns the short name of the checked out branch.
func (w *Worktree) CurrentBranch() (string, error) {
	head, err := w.repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errors.New("HEAD is detached")
	}
	return head.Name().Short(), nil
}

// Author identifies the committer of generated changes.
type Author struct {
	Name  string
	Email string
}

// AuthorFor derives an author from an account name. Names without a domain
// get the GitHub noreply domain.
func AuthorFor(identity string) Author {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		identity = "devloop"
	}
	email := identity
	if !strings.Contains(email, "@") {
		email = fmt.Sprintf("%s@users.noreply.github.com", identity)
	}
	return Author{Name: identity, Email: email}
}

// CommitAll stages every change in the checkout and commits it. It returns
// the new commit hash.
func (w *Worktree) CommitAll(ctx context.Context, message string, author Author) (string, error) {
	if message == "" {
		return "", errors.New("commit message cannot be empty")
	}
	wt, err := w.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("staging changes: %w", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	clog.FromContext(ctx).With("commit", hash.String()).Info("Committed changes")
	return hash.String(), nil
}

// Push pushes branch to the same name on origin.
func (w *Worktree) Push(ctx context.Context, branch string, ts oauth2.TokenSource) error {
	log := clog.FromContext(ctx)

	auth, err := basicAuth(ts)
	if err != nil {
		return err
	}
	ref := plumbing.NewBranchReferenceName(branch)
	refSpec := gitconfig.RefSpec(fmt.Sprintf("%s:%s", ref, ref))
	log.Infof("Pushing %s", refSpec)

	if err := w.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		Auth:       auth,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
	}); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			log.Info("Branch already up to date")
			return nil
		}
		return fmt.Errorf("pushing %s: %w", branch, err)
	}
	return nil
}

// basicAuth is nil when ts is nil, which go-git treats as anonymous.
func basicAuth(ts oauth2.TokenSource) (transport.AuthMethod, error) {
	if ts == nil {
		return nil, nil
	}
	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	return &githttp.BasicAuth{
		Username: "unused-when-using-access-tokens",
		Password: token.AccessToken,
	}, nil
}
