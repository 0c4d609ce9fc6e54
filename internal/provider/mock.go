package provider

import (
	"context"

	"forge/internal/model"
)

// MockProvider is a scriptable fake Handle for tests, using a
// function-field mock pattern so tests override only what they need.
type MockProvider struct {
	NameFunc         func() string
	GenerateFunc     func(ctx context.Context, query string, c Context) (model.Response, error)
	EstimateCostFunc func(c Context) float64
	AvailableFunc    func() bool
}

func (m *MockProvider) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

func (m *MockProvider) Generate(ctx context.Context, query string, c Context) (model.Response, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, query, c)
	}
	return model.Response{Text: "mock response", Provider: m.Name()}, nil
}

func (m *MockProvider) EstimateCost(c Context) float64 {
	if m.EstimateCostFunc != nil {
		return m.EstimateCostFunc(c)
	}
	return 0
}

func (m *MockProvider) IsAvailable() bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc()
	}
	return true
}
