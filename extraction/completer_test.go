package extraction_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/option"
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompleter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req struct {
			Model       string  `json:"model"`
			MaxTokens   int64   `json:"max_tokens"`
			Temperature float64 `json:"temperature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.EqualValues(t, 300, req.MaxTokens)
		assert.InDelta(t, 0.1, req.Temperature, 1e-9)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "  {\"user_name\": \"Alice\"}\n"},
			}},
		}))
	}))
	defer server.Close()

	completer, err := extraction.NewOpenAICompleter("test-key", extraction.CompletionParams{
		Model:       "gpt-4o-mini",
		MaxTokens:   300,
		Temperature: 0.1,
	}, option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	reply, err := completer.Complete(t.Context(), "extract")
	require.NoError(t, err)
	assert.Equal(t, `{"user_name": "Alice"}`, reply)
}

func TestAnthropicCompleter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-3-5-haiku-latest",
			"stop_reason": "end_turn",
			"content": []map[string]any{
				{"type": "text", "text": "ENTITY|Go|concept|"},
				{"type": "text", "text": "language"},
			},
			"usage": map[string]any{"input_tokens": 1, "output_tokens": 1},
		}))
	}))
	defer server.Close()

	completer, err := extraction.NewAnthropicCompleter("test-key", extraction.CompletionParams{
		Model:     "claude-3-5-haiku-latest",
		MaxTokens: 300,
	}, anthropicoption.WithBaseURL(server.URL+"/"), anthropicoption.WithMaxRetries(0))
	require.NoError(t, err)

	reply, err := completer.Complete(t.Context(), "extract")
	require.NoError(t, err)
	assert.Equal(t, "ENTITY|Go|concept|language", reply)
}

func TestNewCompleterFromConfig(t *testing.T) {
	conf := config.NewLLMConfig()
	_, err := extraction.NewCompleterFromConfig(conf)
	assert.ErrorIs(t, err, errors.ErrConfiguration)

	conf.OpenAIAPIKey = "key"
	completer, err := extraction.NewCompleterFromConfig(conf)
	require.NoError(t, err)
	assert.IsType(t, &extraction.OpenAICompleter{}, completer)

	conf.Provider = config.LLMProviderAnthropic
	conf.AnthropicAPIKey = "key"
	completer, err = extraction.NewCompleterFromConfig(conf)
	require.NoError(t, err)
	assert.IsType(t, &extraction.AnthropicCompleter{}, completer)

	conf.Provider = "mystery"
	_, err = extraction.NewCompleterFromConfig(conf)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
