/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package generator produces the full content of one planned file.
package generator

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"chainguard.dev/devloop/agents/executor/claudeexecutor"
	"chainguard.dev/devloop/agents/planner"
	"chainguard.dev/devloop/agents/promptbuilder"
	"chainguard.dev/devloop/agents/result"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// FileReader reads project files by path relative to the project root.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ContextFile is a project file shown to the model for reference.
type ContextFile struct {
	XMLName xml.Name `xml:"file"`
	Path    string   `xml:"path,attr"`
	Content string   `xml:",chardata"`
}

type contextFiles struct {
	XMLName xml.Name      `xml:"context"`
	Files   []ContextFile `xml:"file"`
}

type target struct {
	XMLName     xml.Name `xml:"target"`
	Path        string   `xml:"path,attr"`
	Mode        string   `xml:"mode,attr"`
	Description string   `xml:"description"`
}

// Request binds one file change into the generation prompt.
type Request struct {
	Item     planner.WorkItem
	Spec     planner.FileChangeSpec
	Context  []ContextFile
	Language string
}

// Bind implements promptbuilder.Bindable.
func (r *Request) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	mode, existing := "create", "(new file)"
	if r.Spec.Existing != nil {
		mode, existing = "modify", *r.Spec.Existing
	}

	p, err := p.BindXML("issue", r.Item)
	if err != nil {
		return nil, err
	}
	if p, err = p.BindXML("target", target{Path: r.Spec.Path, Mode: mode, Description: r.Spec.Description()}); err != nil {
		return nil, err
	}
	if p, err = p.BindXML("context", contextFiles{Files: r.Context}); err != nil {
		return nil, err
	}
	if p, err = p.BindText("existing", existing); err != nil {
		return nil, err
	}
	return p.BindText("language", r.Language)
}

// Generator writes file content for plan entries.
type Generator struct {
	exec  claudeexecutor.Interface[*Request]
	files FileReader
}

// New returns a Generator backed by exec that reads context files from files.
func New(exec claudeexecutor.Interface[*Request], files FileReader) *Generator {
	return &Generator{exec: exec, files: files}
}

// NewClaude builds the executor for the generation prompt and wraps it.
func NewClaude(client anthropic.Client, files FileReader, opts ...claudeexecutor.Option[*Request]) (*Generator, error) {
	exec, err := claudeexecutor.New[*Request](client, generatePrompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating generator executor: %w", err)
	}
	return New(exec, files), nil
}

// Generate returns the complete replacement content for spec.Path. Context
// files that cannot be read are skipped. The model's reply is unwrapped from
// its code fence and returned without further changes.
func (g *Generator) Generate(ctx context.Context, item planner.WorkItem, spec planner.FileChangeSpec, contextPaths []string) (string, error) {
	log := clog.FromContext(ctx).With("path", spec.Path)

	var ctxFiles []ContextFile
	for _, path := range contextPaths {
		b, err := g.files.ReadFile(path)
		if err != nil {
			log.With("context_file", path, "error", err).Warn("Skipping unreadable context file")
			continue
		}
		ctxFiles = append(ctxFiles, ContextFile{Path: path, Content: string(b)})
	}

	lang := Language(spec.Path)
	text, err := g.exec.Execute(ctx, &Request{Item: item, Spec: spec, Context: ctxFiles, Language: lang})
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", spec.Path, err)
	}

	content := result.ExtractCode(text, lang)
	if content == "" {
		return "", result.Malformed(text, errors.New("no file content in response"))
	}

	log.With("bytes", len(content), "context_files", len(ctxFiles)).Info("Generated file content")
	return content, nil
}

var languages = map[string]string{
	".swift": "swift",
	".go":    "go",
	".py":    "python",
	".kt":    "kotlin",
	".java":  "java",
	".js":    "javascript",
	".ts":    "typescript",
	".tsx":   "tsx",
	".rb":    "ruby",
	".rs":    "rust",
	".m":     "objc",
	".h":     "c",
	".c":     "c",
	".yml":   "yaml",
	".md":    "markdown",
}

// Language maps a file extension to the fence tag models use for it.
func Language(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := languages[ext]; ok {
		return lang
	}
	return strings.TrimPrefix(ext, ".")
}
