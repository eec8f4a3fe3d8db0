package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openclaw/agentboard/internal/core/model"
)

func TestGetPricing(t *testing.T) {
	tests := []struct {
		name      string
		modelName string
		expected  ModelPricing
	}{
		{
			name:      "known model",
			modelName: "claude-3-haiku",
			expected:  ModelPricing{Input: 0.25, Output: 1.25, CacheRead: 0.03, CacheWrite: 0.30},
		},
		{
			name:      "unknown model falls back to default row",
			modelName: "mystery-model-9000",
			expected:  ModelPricing{Input: 3.00, Output: 15.00, CacheRead: 0.30, CacheWrite: 3.75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPricing(tt.modelName))
		})
	}
}

func TestCostFor(t *testing.T) {
	tests := []struct {
		name      string
		modelName string
		usage     model.UsageBlock
		expected  float64
	}{
		{
			name:      "sonnet input and output",
			modelName: "claude-sonnet-4-5",
			usage:     model.UsageBlock{Input: 1_000_000, Output: 500_000},
			expected:  10.50,
		},
		{
			name:      "opus with cache traffic",
			modelName: "claude-opus-4-5",
			usage:     model.UsageBlock{Input: 100_000, Output: 10_000, CacheRead: 1_000_000, CacheWrite: 200_000},
			expected:  15.00*0.1 + 75.00*0.01 + 1.50 + 18.75*0.2,
		},
		{
			name:      "zero usage costs nothing",
			modelName: "claude-sonnet-4-5",
			usage:     model.UsageBlock{},
			expected:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CostFor(tt.modelName, &tt.usage), 1e-9)
		})
	}
}

func TestGetModelInfo(t *testing.T) {
	known := GetModelInfo("claude-sonnet-4-5")
	assert.Equal(t, "Claude Sonnet 4.5", known.Name)

	unknown := GetModelInfo("mystery-model-9000")
	assert.Equal(t, "mystery-model-9000", unknown.Name)
	assert.Equal(t, "🤖", unknown.Emoji)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider()
	usage := model.UsageBlock{Input: 1_000_000}
	assert.InDelta(t, 3.00, p.Cost("claude-sonnet-4-5", &usage), 1e-9)
	assert.Equal(t, GetPricing("claude-3-opus"), p.Pricing("claude-3-opus"))
	assert.Equal(t, GetModelInfo("claude-3-opus"), p.Info("claude-3-opus"))
}
