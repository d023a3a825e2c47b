package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "test_data",
			expected: "test_data",
		},
		{
			name:     "string with whitespace",
			input:    "  test_data  ",
			expected: "test_data",
		},
		{
			name:     "string with newline",
			input:    "test\ndata",
			expected: "testdata",
		},
		{
			name:     "string with tab",
			input:    "test\tdata",
			expected: "testdata",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "test\x00data\x01",
			expected: "testdata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSplitCallback(t *testing.T) {
	tests := []struct {
		name            string
		callback        *tele.Callback
		expectedUnique  string
		expectedPayload string
	}{
		{
			name:            "split by telebot",
			callback:        &tele.Callback{Unique: "move", Data: "42"},
			expectedUnique:  "move",
			expectedPayload: "42",
		},
		{
			name:            "raw data with form feed",
			callback:        &tele.Callback{Data: "\fcal|day|2025|3|13"},
			expectedUnique:  "cal",
			expectedPayload: "day|2025|3|13",
		},
		{
			name:            "raw data without payload",
			callback:        &tele.Callback{Data: "\flist"},
			expectedUnique:  "list",
			expectedPayload: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, payload := splitCallback(tt.callback)
			assert.Equal(t, tt.expectedUnique, unique)
			assert.Equal(t, tt.expectedPayload, payload)
		})
	}
}
