package ingest_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autostock/internal/ingest"
)

func TestExtractObject_PlainJSON(t *testing.T) {
	obj, err := ingest.ExtractObject(`{"vendor":{"name":"Sharma Auto"}}`)

	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(obj, &decoded))
	assert.Contains(t, decoded, "vendor")
}

func TestExtractObject_ProseAroundJSON(t *testing.T) {
	raw := "Here is the extracted invoice data:\n{\"products\":[]}\nLet me know if you need anything else."

	obj, err := ingest.ExtractObject(raw)

	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[]}`, string(obj))
}

func TestExtractObject_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"invoice\":{\"bill number\":\"INV-42\"}}\n```"

	obj, err := ingest.ExtractObject(raw)

	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(obj, &decoded))
	assert.Contains(t, decoded, "invoice")
}

func TestExtractObject_TrailingCommas(t *testing.T) {
	raw := `{"products":[{"name":"Brake Pad","quantity":2,},],}`

	obj, err := ingest.ExtractObject(raw)

	require.NoError(t, err)
	var decoded struct {
		Products []map[string]interface{} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(obj, &decoded))
	require.Len(t, decoded.Products, 1)
	assert.Equal(t, "Brake Pad", decoded.Products[0]["name"])
}

func TestExtractObject_EscapedQuotesAndNewlines(t *testing.T) {
	raw := "{\\\"name\\\": \\\"Oil Filter\\\"}\\n"

	obj, err := ingest.ExtractObject(raw)

	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(obj, &decoded))
	assert.Equal(t, "Oil Filter", decoded["name"])
}

func TestExtractObject_NoStructure(t *testing.T) {
	_, err := ingest.ExtractObject("I could not read this image, please retake the photo.")

	var failure *ingest.ParseFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, ingest.ParseFailureNoStructure, failure.Kind)
}

func TestExtractObject_MalformedJSON(t *testing.T) {
	_, err := ingest.ExtractObject(`{"products": [{"name": "Brake Pad"}`)

	var failure *ingest.ParseFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, ingest.ParseFailureMalformedJSON, failure.Kind)
}

func TestExtractObject_TruncatesDiagnosticRaw(t *testing.T) {
	raw := strings.Repeat("x", 500)

	_, err := ingest.ExtractObject(raw)

	var failure *ingest.ParseFailure
	require.True(t, errors.As(err, &failure))
	assert.Len(t, failure.Raw, 200)
}

func TestExtractObject_EmptyInput(t *testing.T) {
	_, err := ingest.ExtractObject("")

	var failure *ingest.ParseFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, ingest.ParseFailureNoStructure, failure.Kind)
}
