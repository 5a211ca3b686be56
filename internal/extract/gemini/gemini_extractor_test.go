package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autostock/internal/config"
	"autostock/internal/extract"
	"autostock/internal/extract/gemini"
	"autostock/internal/port"
)

func newTestExtractor(serverURL string) *gemini.Extractor {
	cfg := &config.ExtractorProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.5-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewExtractorWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGeminiExtractor_Success(t *testing.T) {
	llmText := "```json\n{\"vendor\":{\"name\":\"Sharma Auto Parts\"}}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		require.Len(t, parts, 2)

		textPart := parts[0].(map[string]interface{})
		assert.Contains(t, textPart["text"], "vendor")

		dataPart := parts[1].(map[string]interface{})
		inlineData := dataPart["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/jpeg", inlineData["mime_type"])
		assert.NotEmpty(t, inlineData["data"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, 0.1, genConfig["temperature"])
		assert.Equal(t, float64(8192), genConfig["maxOutputTokens"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmText))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	out, err := e.Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("fake image bytes"),
		ContentType: "image/jpeg",
	})

	require.NoError(t, err)
	assert.Equal(t, llmText, out.RawText)
	assert.Equal(t, "gemini-2.5-flash", out.ModelUsed)
}

func TestGeminiExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("fake image bytes"),
		ContentType: "image/jpeg",
	})

	var rlErr *extract.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, float64(30), rlErr.RetryAfter.Seconds())
}

func TestGeminiExtractor_TruncatedOutput(t *testing.T) {
	resp := successResponse("{\"vendor\":")
	resp["candidates"].([]map[string]interface{})[0]["finishReason"] = "MAX_TOKENS"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("fake image bytes"),
		ContentType: "image/jpeg",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
}

func TestGeminiExtractor_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("fake image bytes"),
		ContentType: "image/jpeg",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGeminiExtractor_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("fake image bytes"),
		ContentType: "image/jpeg",
	})

	require.Error(t, err)
	var rlErr *extract.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
	assert.Contains(t, err.Error(), "status 500")
}
