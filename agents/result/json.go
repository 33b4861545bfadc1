/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

const fence = "```"

// Unwrap returns the payload embedded in a model response.
//
// A fence tagged with lang is preferred, then any fence, then the whole text.
// Only the first matching fence is unwrapped: the payload runs from the end of
// the opening marker to the next fence marker, or to the end of the text when
// the block is never closed.
func Unwrap(text, lang string) string {
	if lang != "" {
		if i := indexTagged(text, lang); i >= 0 {
			return untilFence(text[i+len(fence)+len(lang):])
		}
	}

	if i := strings.Index(text, fence); i >= 0 {
		return untilFence(dropInfoString(text[i+len(fence):]))
	}

	return strings.TrimSpace(text)
}

// indexTagged finds the first ```lang marker whose tag is not merely the
// prefix of a longer tag (```go must not match ```golang).
func indexTagged(text, lang string) int {
	marker := fence + lang
	offset := 0
	for {
		i := strings.Index(text[offset:], marker)
		if i < 0 {
			return -1
		}
		i += offset
		end := i + len(marker)
		if end == len(text) || !isTagRune(rune(text[end])) {
			return i
		}
		offset = end
	}
}

func untilFence(s string) string {
	if j := strings.Index(s, fence); j >= 0 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}

// dropInfoString strips the language tag that follows an opening fence when
// the caller did not ask for that tag, so ```python is unwrapped like ```.
func dropInfoString(s string) string {
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		return s
	}
	tag := strings.TrimSpace(s[:nl])
	for _, r := range tag {
		if !isTagRune(r) {
			return s
		}
	}
	return s[nl+1:]
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("+-_.#", r)
}

// Extract unwraps the JSON payload from responseText and unmarshals it into T.
// Any failure is reported as a *MalformedResponseError and the zero T is returned.
func Extract[T any](responseText string) (T, error) {
	return decode[T](Unwrap(responseText, "json"))
}

// ExtractObject is Extract restricted to payloads that are JSON objects.
func ExtractObject[T any](responseText string) (T, error) {
	return DecodeObject[T](Unwrap(responseText, "json"))
}

// DecodeObject decodes an already unwrapped payload that must be a JSON object.
func DecodeObject[T any](payload string) (T, error) {
	if !strings.HasPrefix(payload, "{") {
		var zero T
		return zero, Malformed(payload, errors.New("payload is not a JSON object"))
	}
	return decode[T](payload)
}

func decode[T any](payload string) (T, error) {
	var zero T
	if payload == "" || payload == "null" {
		return zero, Malformed(payload, errors.New("no structured payload in response"))
	}

	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return zero, Malformed(payload, err)
	}
	return out, nil
}

// ExtractCode returns the literal file content embedded in responseText,
// preferring a fence tagged with lang.
func ExtractCode(responseText, lang string) string {
	return Unwrap(responseText, lang)
}
