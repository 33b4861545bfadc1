/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package worktree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// resolve maps a project-relative path to an absolute one.
func (w *Worktree) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %q is absolute", ErrPathEscapes, path)
	}
	full := filepath.Join(w.root, filepath.Clean(path))
	rel, err := filepath.Rel(w.root, full)
	if err != nil {
		return "", fmt.Errorf("path %q: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathEscapes, path)
	}
	return full, nil
}

// ReadFile returns the content of path.
func (w *Worktree) ReadFile(path string) ([]byte, error) {
	full, err := w.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Exists reports whether path is an existing regular file.
func (w *Worktree) Exists(path string) bool {
	full, err := w.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// WriteFile writes content to path, creating parent directories.
func (w *Worktree) WriteFile(path, content string) error {
	full, err := w.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CountFiles counts regular files with extension ext under dir, recursively.
// A missing dir counts zero.
func (w *Worktree) CountFiles(dir, ext string) (int, error) {
	full, err := w.resolve(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	err = filepath.WalkDir(full, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(d.Name()), ext) {
			n++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", dir, err)
	}
	return n, nil
}
