package extraction_test

import (
	"context"
	"testing"

	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestParseFacts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]any
		wantErr  bool
	}{
		{
			name:     "flat object",
			input:    `{"user_name": "Alice", "age": 30, "likes_go": true}`,
			expected: map[string]any{"user_name": "Alice", "age": float64(30), "likes_go": true},
		},
		{
			name:     "code fence",
			input:    "```json\n{\"user_name\": \"Alice\"}\n```",
			expected: map[string]any{"user_name": "Alice"},
		},
		{
			name:     "lists joined and nested objects dropped",
			input:    `{"topics_discussed": ["go", "rust"], "user_background": {"job": "engineer"}, "empty": "", "none": null}`,
			expected: map[string]any{"topics_discussed": "go, rust"},
		},
		{
			name:     "not json",
			input:    "The user is called Alice.",
			expected: map[string]any{},
			wantErr:  true,
		},
		{
			name:     "truncated json",
			input:    `{"user_name": "Ali`,
			expected: map[string]any{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := extraction.ParseFacts(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrContractViolation)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, facts)
		})
	}
}

func TestLLMFactExtractor(t *testing.T) {
	t.Run("parses model output", func(t *testing.T) {
		completer := &stubCompleter{reply: `{"user_name": "Alice"}`}
		extractor := extraction.NewFactExtractor(completer, nil)

		facts, err := extractor.Extract(t.Context(), "I'm Alice", "Hi Alice")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"user_name": "Alice"}, facts)

		require.Len(t, completer.prompts, 1)
		assert.Contains(t, completer.prompts[0], "User: I'm Alice")
		assert.Contains(t, completer.prompts[0], "Assistant: Hi Alice")
	})

	t.Run("malformed output degrades to empty map", func(t *testing.T) {
		extractor := extraction.NewFactExtractor(&stubCompleter{reply: "sorry, no facts"}, nil)

		facts, err := extractor.Extract(t.Context(), "hello", "hi")
		require.NoError(t, err)
		assert.NotNil(t, facts)
		assert.Empty(t, facts)
	})

	t.Run("model failure is returned", func(t *testing.T) {
		extractor := extraction.NewFactExtractor(&stubCompleter{err: errors.New("boom")}, nil)

		_, err := extractor.Extract(t.Context(), "hello", "hi")
		assert.Error(t, err)
	})
}
