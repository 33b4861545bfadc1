/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalid is wrapped by Validate when the payload does not satisfy the schema.
var ErrInvalid = errors.New("payload does not match schema")

// Validate checks the JSON document payload against s. Violations are reported
// sorted, joined into a single error wrapping ErrInvalid.
func Validate(s *jsonschema.Schema, payload string) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(raw), gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}
	if res.Valid() {
		return nil
	}

	errs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		errs = append(errs, e.String())
	}
	sort.Strings(errs)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
}

// DropNulls removes object members whose value is null, at any depth, so that
// an explicit null validates the same as an absent optional property. Array
// elements are kept as they are.
func DropNulls(payload string) (string, error) {
	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	b, err := json.Marshal(dropNulls(v))
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(b), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			if e == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(e)
		}
	case []any:
		for i, e := range t {
			t[i] = dropNulls(e)
		}
	}
	return v
}
