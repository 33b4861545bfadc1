/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"chainguard.dev/devloop/agents/executor/googleexecutor"
	"chainguard.dev/devloop/agents/promptbuilder"
	"chainguard.dev/devloop/agents/result"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// Request carries one PNG image to the vision model.
type Request struct {
	Image []byte
}

// Bind implements promptbuilder.Bindable. The rubric has no placeholders.
func (r *Request) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p, nil
}

// Attachments implements googleexecutor.Request.
func (r *Request) Attachments() ([]*genai.Part, error) {
	if len(r.Image) == 0 {
		return nil, errors.New("empty image")
	}
	return []*genai.Part{genai.NewPartFromBytes(r.Image, "image/png")}, nil
}

// Judge classifies diff images. Images are never retried.
type Judge struct {
	exec googleexecutor.Interface[*Request]
}

// New returns a Judge backed by exec.
func New(exec googleexecutor.Interface[*Request]) *Judge {
	return &Judge{exec: exec}
}

// safetySettings turn off content filtering. Screenshots of arbitrary app
// content are otherwise blocked before a judgement is produced.
var safetySettings = func() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	out := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		out = append(out, &genai.SafetySetting{Category: c, Threshold: genai.HarmBlockThresholdBlockNone})
	}
	return out
}()

// NewGoogle builds a Gemini executor constrained to the judgement schema, with
// content filters disabled.
func NewGoogle(client *genai.Client, opts ...googleexecutor.Option[*Request]) (*Judge, error) {
	all := append([]googleexecutor.Option[*Request]{
		googleexecutor.WithResponseSchema[*Request](responseSchema),
		googleexecutor.WithSafetySettings[*Request](safetySettings...),
	}, opts...)
	exec, err := googleexecutor.New[*Request](client, rubric, all...)
	if err != nil {
		return nil, fmt.Errorf("creating judge executor: %w", err)
	}
	return New(exec), nil
}

// Judge returns the judgement for the image at path. A missing image yields an
// ERROR judgement and no error. Read, provider and parse failures are returned.
func (j *Judge) Judge(ctx context.Context, path string) (Judgement, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Failed(name, errors.New("image not found")), nil
	}
	if err != nil {
		return Judgement{}, fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := j.exec.Execute(ctx, &Request{Image: data})
	if err != nil {
		return Judgement{}, fmt.Errorf("judging %s: %w", name, err)
	}
	r, err := result.ExtractObject[reply](text)
	if err != nil {
		return Judgement{}, fmt.Errorf("judging %s: %w", name, err)
	}
	return r.judgement(name), nil
}

// JudgeAll judges every path in order. Failures are folded into ERROR
// judgements, so the result always has one entry per path.
func (j *Judge) JudgeAll(ctx context.Context, paths []string) []Judgement {
	log := clog.FromContext(ctx)

	out := make([]Judgement, 0, len(paths))
	for _, path := range paths {
		jd, err := j.Judge(ctx, path)
		if err != nil {
			log.With("image", path, "error", err).Error("Failed to judge snapshot diff")
			jd = Failed(filepath.Base(path), err)
		}
		log.With("image", jd.Image, "verdict", jd.Verdict, "confidence", jd.Confidence).Info("Judged snapshot diff")
		out = append(out, jd)
	}
	return out
}
