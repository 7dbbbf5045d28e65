package stringutils_test

import (
	"testing"

	"github.com/soontechgroup/ai-agents-sub001/internal/stringutils"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeUnicodeString(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "string with null byte",
			input:    "title\u0000with null",
			expected: "titlewith null",
		},
		{
			name:     "string with multiple control characters",
			input:    "test\u0000\u0001\u001f\u007fstring",
			expected: "teststring",
		},
		{
			name:     "string with valid whitespace",
			input:    "normal\tstring\nwith\rwhitespace",
			expected: "normal\tstring\nwith\rwhitespace",
		},
		{
			name:     "clean string",
			input:    "completely normal string",
			expected: "completely normal string",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stringutils.SanitizeUnicodeString(tc.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", stringutils.Truncate("short", 10, "..."))
	assert.Equal(t, "abc...", stringutils.Truncate("abcdef", 3, "..."))
	assert.Equal(t, "안녕", stringutils.Truncate("안녕하세요", 2, ""))
}
