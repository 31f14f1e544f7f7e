package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON unchanged",
			input:    `{"score": 0.8}`,
			expected: `{"score": 0.8}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"score\": 0.8}\n```",
			expected: `{"score": 0.8}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"score\": 0.8}\n```",
			expected: `{"score": 0.8}`,
		},
		{
			name:     "fence with whitespace",
			input:    "  ```json\n  {\"score\": 0.8}\n```  ",
			expected: `{"score": 0.8}`,
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "json on same line as fence",
			input:    "```{\"score\": 0.8}```",
			expected: `{"score": 0.8}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
