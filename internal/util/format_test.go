package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"small count stays literal", 999, "999"},
		{"thousands", 1500, "1.5K"},
		{"millions", 2_500_000, "2.5M"},
		{"zero", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTokens(tt.input))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"no separator needed", 999, "999"},
		{"one separator", 1234, "1,234"},
		{"two separators", 1234567, "1,234,567"},
		{"negative", -1234, "-1,234"},
		{"zero", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.1234", FormatCost(0.1234))
	assert.Equal(t, "$9.9999", FormatCost(9.9999))
	assert.Equal(t, "$10.50", FormatCost(10.50))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short text unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long text ellipsized", "hello world", 8, "hello..."},
		{"multibyte safe", "héllo wörld", 8, "héllo..."},
		{"tiny budget has no room for ellipsis", "hello", 2, "he"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}
