// Package ingest implements the invoice ingestion pipeline: extracting a
// structured payload from raw vision-model text, normalizing it onto the
// catalog schema, validating line items, resolving them against existing
// products, and committing the resulting entity set.
package ingest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseFailureKind classifies why a raw response could not be parsed.
type ParseFailureKind string

const (
	ParseFailureNoStructure   ParseFailureKind = "no_structure_found"
	ParseFailureMalformedJSON ParseFailureKind = "malformed_json"
)

// rawDiagnosticLimit bounds how much raw model output is preserved on failure.
const rawDiagnosticLimit = 200

// ParseFailure is the typed result of a failed extraction attempt. Raw holds
// a truncated prefix of the original text for diagnostics.
type ParseFailure struct {
	Kind ParseFailureKind
	Raw  string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parsing AI response (%s): %q", e.Kind, e.Raw)
}

func newParseFailure(kind ParseFailureKind, raw string) *ParseFailure {
	if len(raw) > rawDiagnosticLimit {
		raw = raw[:rawDiagnosticLimit]
	}
	return &ParseFailure{Kind: kind, Raw: raw}
}

var (
	codeFenceRe = regexp.MustCompile("```(?:json)?\n?")
	// a single trailing comma immediately before a closing brace/bracket
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	// repeated trailing-comma runs, e.g. ",, }" or ", , ]"
	trailingCommaRunRe = regexp.MustCompile(`,(\s*,)*\s*([}\]])`)
)

// ExtractObject pulls a single JSON object out of arbitrary model output.
// Vision models wrap their answers in prose, markdown fences, trailing
// commas and stray escapes; each cleanup is applied in order and the first
// successful strict parse wins. The function is pure and never panics; all
// failure modes come back as a *ParseFailure.
func ExtractObject(raw string) (json.RawMessage, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, newParseFailure(ParseFailureNoStructure, raw)
	}

	s := raw[start : end+1]
	s = codeFenceRe.ReplaceAllString(s, "")
	s = trailingCommaRe.ReplaceAllString(s, "$1")

	// Models sometimes double-escape quotes and emit literal \n sequences
	// inside otherwise valid strings.
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\n`, "")

	if obj, ok := tryParse(s); ok {
		return obj, nil
	}

	// Second and last attempt: collapse repeated trailing-comma runs that a
	// single-pass replace leaves behind.
	retry := trailingCommaRunRe.ReplaceAllString(s, "$2")
	for prev := ""; retry != prev; {
		prev = retry
		retry = trailingCommaRunRe.ReplaceAllString(retry, "$2")
	}
	if obj, ok := tryParse(retry); ok {
		return obj, nil
	}

	return nil, newParseFailure(ParseFailureMalformedJSON, raw)
}

func tryParse(s string) (json.RawMessage, bool) {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}
