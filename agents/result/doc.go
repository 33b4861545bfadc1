/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result turns free-form model output into typed records.

Model responses arrive in one of three shapes: a bare payload, a payload inside
a fenced block tagged with a language hint, or a payload inside an untagged
fenced block. Unwrap finds the payload using that order of preference and
discards any prose around it. Exactly one fence is unwrapped, even when the
response contains several.

# Structured records

Extract unwraps a ```json fence and unmarshals the payload:

	type Judgement struct {
		Verdict string `json:"judgment"`
	}

	j, err := result.Extract[Judgement](response)
	if errors.Is(err, result.ErrMalformedResponse) {
		// the payload is available for diagnostics
		var mr *result.MalformedResponseError
		errors.As(err, &mr)
		log.Printf("bad payload: %s", mr.Payload)
	}

ExtractObject additionally requires the payload to be a JSON object, which is
what callers expecting a record (rather than a list or scalar) want.

# Code

ExtractCode uses the same unwrapping rules but skips the parse step. The
unwrapped text is returned verbatim, ready to be written to disk:

	src := result.ExtractCode(response, "swift")

On failure no partially populated record is ever returned: the zero value of
the requested type accompanies every error.
*/
package result
