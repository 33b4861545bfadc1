/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gatekeep

import (
	"context"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"chainguard.dev/devloop/agents/judge"
	"chainguard.dev/devloop/agents/metrics"
	"chainguard.dev/devloop/gate/report"
	"chainguard.dev/devloop/gate/signals"
	"chainguard.dev/devloop/gate/verdict"
	"chainguard.dev/devloop/reconcilers/pipeline"
)

// Judge classifies snapshot diff images, one judgement per path.
type Judge interface {
	JudgeAll(ctx context.Context, paths []string) []judge.Judgement
}

// Commenter posts the report on a pull request.
type Commenter interface {
	Comment(ctx context.Context, number int, body string) error
}

// Settings locate the artifacts and outputs of a run.
type Settings struct {
	LintResultsPath string
	BuildLogPath    string
	SnapshotDir     string
	SnapshotSuffix  string
	ReportPath      string
	VerdictPath     string
	LintReportLimit int
	PullRequest     int
	SHA             string
}

// Pipeline gates one set of CI artifacts.
type Pipeline struct {
	judge     Judge
	commenter Commenter
	settings  Settings
}

// New assembles a Pipeline. A nil commenter skips posting the report.
func New(j Judge, commenter Commenter, settings Settings) *Pipeline {
	return &Pipeline{judge: j, commenter: commenter, settings: settings}
}

// State is threaded through the stages of a run.
type State struct {
	RunID     string
	Signals   []signals.Signal
	Judgments []judge.Judgement
	Verdict   verdict.Verdict
	Markdown  string
	Posted    bool
}

// Run executes every stage and returns the verdict. An error means the run
// could not complete its report; the verdict is still the best known.
func (p *Pipeline) Run(ctx context.Context) (verdict.Verdict, error) {
	initial := State{RunID: uuid.NewString()}
	clog.FromContext(ctx).With("run_id", initial.RunID).Info("Starting gate run")

	var attrs []attribute.KeyValue
	if p.settings.PullRequest > 0 {
		attrs = append(attrs, attribute.Int("pull_request", p.settings.PullRequest))
	}
	if p.settings.SHA != "" {
		attrs = append(attrs, attribute.String("sha", p.settings.SHA))
	}
	ctx = metrics.WithAttributes(ctx, attrs...)

	final, err := pipeline.Run(ctx, initial,
		pipeline.Stage[State]{Name: "lint", Run: p.lint},
		pipeline.Stage[State]{Name: "build", Run: p.build},
		pipeline.Stage[State]{Name: "visual", Run: p.visual},
		pipeline.Stage[State]{Name: "aggregate", Run: p.aggregate},
		pipeline.Stage[State]{Name: "render", Run: p.render},
		pipeline.Stage[State]{Name: "post", Run: p.post},
		pipeline.Stage[State]{Name: "persist", Run: p.persist},
	)
	if err != nil {
		return verdict.Aggregate(final.Signals, final.Judgments), err
	}
	clog.FromContext(ctx).With("status", final.Verdict.Status).Info("Gate complete")
	return final.Verdict, nil
}

func (p *Pipeline) lint(ctx context.Context, s State) (State, error) {
	s.Signals = append(s.Signals, signals.CollectLint(ctx, p.settings.LintResultsPath)...)
	return s, nil
}

func (p *Pipeline) build(ctx context.Context, s State) (State, error) {
	s.Signals = append(s.Signals, signals.CollectBuildLog(ctx, p.settings.BuildLogPath)...)
	return s, nil
}

func (p *Pipeline) visual(ctx context.Context, s State) (State, error) {
	images := signals.FindDiffImages(ctx, p.settings.SnapshotDir, p.settings.SnapshotSuffix)
	if len(images) == 0 {
		return s, nil
	}
	s.Judgments = p.judge.JudgeAll(ctx, images)
	return s, nil
}

func (p *Pipeline) aggregate(_ context.Context, s State) (State, error) {
	s.Verdict = verdict.Aggregate(s.Signals, s.Judgments)
	return s, nil
}

func (p *Pipeline) render(_ context.Context, s State) (State, error) {
	md, err := report.Markdown(s.Verdict)
	if err != nil {
		return s, err
	}
	s.Markdown = md
	return s, nil
}

func (p *Pipeline) post(ctx context.Context, s State) (State, error) {
	if p.commenter == nil || p.settings.PullRequest <= 0 {
		clog.FromContext(ctx).Info("Pull request not configured, skipping report comment")
		return s, nil
	}
	s.Posted = pipeline.BestEffort(ctx, "report comment", func(ctx context.Context) error {
		return p.commenter.Comment(ctx, p.settings.PullRequest, s.Markdown)
	})
	return s, nil
}

func (p *Pipeline) persist(ctx context.Context, s State) (State, error) {
	if p.settings.ReportPath != "" {
		summary := report.NewSummary(s.Verdict, s.RunID, p.settings.SHA, p.settings.LintReportLimit)
		if err := report.Write(p.settings.ReportPath, summary); err != nil {
			return s, err
		}
		clog.FromContext(ctx).With("path", p.settings.ReportPath).Info("Wrote gate report")
	}
	if p.settings.VerdictPath != "" {
		if err := writeVerdict(p.settings.VerdictPath, s.Verdict); err != nil {
			return s, err
		}
		clog.FromContext(ctx).With("path", p.settings.VerdictPath).Info("Wrote gate verdict")
	}
	return s, nil
}

func writeVerdict(path string, v verdict.Verdict) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating verdict file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing verdict file: %w", cerr)
		}
	}()
	return v.Encode(f)
}
