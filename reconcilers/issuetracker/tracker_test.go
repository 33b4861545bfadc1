/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package issuetracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"chainguard.dev/devloop/agents/planner"
)

func newTestTracker(t *testing.T, mux *http.ServeMux) *Tracker {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tr, err := New(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "s3cr3t"}), "octo/app")
	require.NoError(t, err)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	tr.client.BaseURL = base
	return tr
}

func TestSplitRepository(t *testing.T) {
	tests := []struct {
		in        string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{in: "octo/app", wantOwner: "octo", wantRepo: "app"},
		{in: "octo", wantErr: true},
		{in: "/app", wantErr: true},
		{in: "octo/", wantErr: true},
		{in: "octo/app/extra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := SplitRepository(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantOwner, owner)
			require.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestNewRequiresTokenSource(t *testing.T) {
	_, err := New(context.Background(), nil, "octo/app")
	require.Error(t, err)
}

func TestFetchIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/app/issues/42", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer s3cr3t", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"number": 42, "title": "Add login", "body": "Users need to log in", "state": "closed"}`))
	})
	tr := newTestTracker(t, mux)

	got, err := tr.FetchIssue(context.Background(), 42)
	require.NoError(t, err)

	want := planner.WorkItem{Number: 42, Title: "Add login", Body: "Users need to log in", State: planner.StateClosed}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FetchIssue() mismatch (-want +got):\n%s", diff)
	}
	require.True(t, got.Closed())
}

func TestFetchIssueNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/app/issues/7", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})
	tr := newTestTracker(t, mux)

	_, err := tr.FetchIssue(context.Background(), 7)
	require.ErrorContains(t, err, "fetching issue #7")
}

func TestComment(t *testing.T) {
	var body map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/app/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	})
	tr := newTestTracker(t, mux)

	require.NoError(t, tr.Comment(context.Background(), 42, "hello"))
	require.Equal(t, "hello", body["body"])
}

func TestOpenPullRequest(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/app/pulls", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 9, "html_url": "https://github.com/octo/app/pull/9"}`))
	})
	tr := newTestTracker(t, mux)

	u, err := tr.OpenPullRequest(context.Background(), PullRequest{
		Title: "feat: Add login (Issue #42)",
		Body:  "body",
		Head:  "feature/issue-42",
		Base:  "main",
	})
	require.NoError(t, err)
	require.Equal(t, "https://github.com/octo/app/pull/9", u)

	want := map[string]any{
		"title": "feat: Add login (Issue #42)",
		"body":  "body",
		"head":  "feature/issue-42",
		"base":  "main",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}
