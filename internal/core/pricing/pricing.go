package pricing

import "github.com/openclaw/agentboard/internal/core/model"

// ModelPricing defines per-million-token prices for one model.
type ModelPricing struct {
	Input      float64
	Output     float64
	CacheRead  float64
	CacheWrite float64
}

// ModelInfo holds display metadata for one model.
type ModelInfo struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// modelPricingMap stores pricing for the models the agent runtime uses.
var modelPricingMap = map[string]ModelPricing{
	"claude-sonnet-4-5": {
		Input:      3.00,
		Output:     15.00,
		CacheRead:  0.30,
		CacheWrite: 3.75,
	},
	"claude-opus-4-5": {
		Input:      15.00,
		Output:     75.00,
		CacheRead:  1.50,
		CacheWrite: 18.75,
	},
	"claude-haiku-3-5": {
		Input:      0.80,
		Output:     4.00,
		CacheRead:  0.08,
		CacheWrite: 1.00,
	},
	"claude-3-5-sonnet": {
		Input:      3.00,
		Output:     15.00,
		CacheRead:  0.30,
		CacheWrite: 3.75,
	},
	"claude-3-opus": {
		Input:      15.00,
		Output:     75.00,
		CacheRead:  1.50,
		CacheWrite: 18.75,
	},
	"claude-3-haiku": {
		Input:      0.25,
		Output:     1.25,
		CacheRead:  0.03,
		CacheWrite: 0.30,
	},
}

var modelInfoMap = map[string]ModelInfo{
	"claude-sonnet-4-5": {Emoji: "🎵", Name: "Claude Sonnet 4.5", Color: "#10b981"},
	"claude-opus-4-5":   {Emoji: "🎼", Name: "Claude Opus 4.5", Color: "#8b5cf6"},
	"claude-haiku-4-5":  {Emoji: "🍇", Name: "Claude Haiku 4.5", Color: "#3b82f6"},
	"claude-haiku-3-5":  {Emoji: "🌸", Name: "Claude Haiku 3.5", Color: "#f472b6"},
	"claude-3-5-sonnet": {Emoji: "🎵", Name: "Claude 3.5 Sonnet", Color: "#10b981"},
	"claude-3-opus":     {Emoji: "🎼", Name: "Claude 3 Opus", Color: "#8b5cf6"},
	"claude-3-haiku":    {Emoji: "🌸", Name: "Claude 3 Haiku", Color: "#f472b6"},
}

// GetPricing returns the pricing for a model. Unknown models fall back to
// the default row; lookup never fails.
func GetPricing(modelName string) ModelPricing {
	if pricing, ok := modelPricingMap[modelName]; ok {
		return pricing
	}
	return modelPricingMap[model.ModelDefault]
}

// GetModelInfo returns display metadata for a model. Unknown models get a
// generic rendering rather than failing.
func GetModelInfo(modelName string) ModelInfo {
	if info, ok := modelInfoMap[modelName]; ok {
		return info
	}
	return ModelInfo{Emoji: "🤖", Name: modelName, Color: "#6b7280"}
}

// GetAllPricings returns a copy of the full price table.
func GetAllPricings() map[string]ModelPricing {
	result := make(map[string]ModelPricing, len(modelPricingMap))
	for k, v := range modelPricingMap {
		result[k] = v
	}
	return result
}

// CostFor computes the fallback cost of a usage block from the price
// table, in USD.
func CostFor(modelName string, u *model.UsageBlock) float64 {
	p := GetPricing(modelName)
	cost := float64(u.Input) / 1_000_000 * p.Input
	cost += float64(u.Output) / 1_000_000 * p.Output
	cost += float64(u.CacheRead) / 1_000_000 * p.CacheRead
	cost += float64(u.CacheWrite) / 1_000_000 * p.CacheWrite
	return cost
}
