/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"chainguard.dev/devloop/agents/modelselect"
	"chainguard.dev/devloop/agents/promptbuilder"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/require"
)

type question struct {
	Text string
}

func (q *question) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p.BindText("question", q.Text)
}

// recorded is the subset of the Messages request body the tests inspect.
type recorded struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func fakeAnthropic(t *testing.T, status int, body string, got *recorded, calls *atomic.Int32) anthropic.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading body: %v", err)
		}
		if got != nil {
			if err := json.Unmarshal(raw, got); err != nil {
				t.Errorf("decoding body: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewClient("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
}

const okMessage = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-20250514",
  "content": [
    {"type": "text", "text": "first "},
    {"type": "text", "text": "second"}
  ],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 12, "output_tokens": 3}
}`

func TestExecute(t *testing.T) {
	var got recorded
	var calls atomic.Int32
	client := fakeAnthropic(t, http.StatusOK, okMessage, &got, &calls)

	exec, err := New[*question](client,
		promptbuilder.MustNewPrompt("Q: {{question}}"),
		WithModel[*question]("claude-sonnet-4-20250514"),
		WithMaxTokens[*question](4096),
		WithSystemInstructions[*question](promptbuilder.MustNewPrompt("You are terse.")),
	)
	require.NoError(t, err)

	text, err := exec.Execute(context.Background(), &question{Text: "why?"})
	require.NoError(t, err)
	require.Equal(t, "first second", text)

	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, "claude-sonnet-4-20250514", got.Model)
	require.Equal(t, int64(4096), got.MaxTokens)
	require.Len(t, got.System, 1)
	require.Equal(t, "You are terse.", got.System[0].Text)
	require.Len(t, got.Messages, 1)
	require.Equal(t, "user", got.Messages[0].Role)
	require.Equal(t, "Q: why?", got.Messages[0].Content[0].Text)
}

func TestExecute_NoText(t *testing.T) {
	var calls atomic.Int32
	client := fakeAnthropic(t, http.StatusOK, `{
  "id": "msg_1", "type": "message", "role": "assistant", "model": "m",
  "content": [], "stop_reason": "max_tokens",
  "usage": {"input_tokens": 1, "output_tokens": 0}
}`, nil, &calls)

	exec, err := New[*question](client, promptbuilder.MustNewPrompt("{{question}}"))
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), &question{Text: "x"})
	require.ErrorContains(t, err, "no text content")
}

func TestExecute_BindError(t *testing.T) {
	var calls atomic.Int32
	client := fakeAnthropic(t, http.StatusOK, okMessage, nil, &calls)

	exec, err := New[promptbuilder.Noop](client, promptbuilder.MustNewPrompt("{{unbound}}"))
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), promptbuilder.Noop{})
	require.ErrorContains(t, err, "unbound placeholder")
	require.Zero(t, calls.Load())
}

func TestOptions(t *testing.T) {
	prompt := promptbuilder.MustNewPrompt("x")
	tests := []struct {
		name string
		opt  Option[promptbuilder.Noop]
	}{
		{"non-claude model", WithModel[promptbuilder.Noop]("gpt-4")},
		{"zero tokens", WithMaxTokens[promptbuilder.Noop](0)},
		{"too many tokens", WithMaxTokens[promptbuilder.Noop](64000)},
		{"temperature", WithTemperature[promptbuilder.Noop](1.5)},
		{"nil system", WithSystemInstructions[promptbuilder.Noop](nil)},
		{"unbound system", WithSystemInstructions[promptbuilder.Noop](promptbuilder.MustNewPrompt("{{persona}}"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(anthropic.Client{}, prompt, tt.opt); err == nil {
				t.Error("New() succeeded, want error")
			}
		})
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      bool
		wantNotFound bool
	}{{
		name:   "available",
		status: http.StatusOK,
		body:   okMessage,
	}, {
		name:         "unknown model",
		status:       http.StatusNotFound,
		body:         `{"type":"error","error":{"type":"not_found_error","message":"model: claude-nope"}}`,
		wantErr:      true,
		wantNotFound: true,
	}, {
		name:    "rate limited",
		status:  http.StatusTooManyRequests,
		body:    `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`,
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got recorded
			var calls atomic.Int32
			p := NewProber(fakeAnthropic(t, tt.status, tt.body, &got, &calls))

			err := p.Probe(context.Background(), "claude-nope")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Probe() = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, modelselect.ErrModelNotFound) != tt.wantNotFound {
				t.Errorf("Probe() = %v, not-found = %v", err, tt.wantNotFound)
			}
			if calls.Load() != 1 {
				t.Errorf("requests = %d, want exactly 1", calls.Load())
			}
			if got.MaxTokens != 10 || got.Model != "claude-nope" {
				t.Errorf("probe request = %+v", got)
			}
		})
	}
}
