package pricing

import "github.com/openclaw/agentboard/internal/core/model"

// Provider resolves model pricing and display metadata. The engine takes
// a Provider at construction so tests can substitute their own tables
// without global setup.
type Provider interface {
	Pricing(modelName string) ModelPricing
	Info(modelName string) ModelInfo
	Cost(modelName string, u *model.UsageBlock) float64
}

// StaticProvider serves the built-in immutable tables.
type StaticProvider struct{}

// NewStaticProvider creates a provider over the built-in tables.
func NewStaticProvider() Provider {
	return &StaticProvider{}
}

func (p *StaticProvider) Pricing(modelName string) ModelPricing {
	return GetPricing(modelName)
}

func (p *StaticProvider) Info(modelName string) ModelInfo {
	return GetModelInfo(modelName)
}

func (p *StaticProvider) Cost(modelName string, u *model.UsageBlock) float64 {
	return CostFor(modelName, u)
}
