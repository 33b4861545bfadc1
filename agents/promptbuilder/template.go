/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"strings"
	"unicode"
)

// expand walks tmpl once, replacing each {{name}} with resolve(name).
func expand(tmpl string, resolve func(name string) (string, error)) (string, error) {
	var sb strings.Builder
	for {
		open := strings.Index(tmpl, "{{")
		if open < 0 {
			sb.WriteString(tmpl)
			return sb.String(), nil
		}
		sb.WriteString(tmpl[:open])

		rest := tmpl[open+2:]
		closing := strings.Index(rest, "}}")
		if closing < 0 {
			return "", fmt.Errorf("unclosed placeholder at offset %d", open)
		}
		name := strings.TrimSpace(rest[:closing])
		if !identifier(name) {
			return "", fmt.Errorf("invalid placeholder name %q", name)
		}
		val, err := resolve(name)
		if err != nil {
			return "", err
		}
		sb.WriteString(val)
		tmpl = rest[closing+2:]
	}
}

// identifier reports whether s is a letter followed by letters, digits or underscores.
func identifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
