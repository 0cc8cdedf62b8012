package ai

import "context"

// MockGenerator returns a fixed response; used in tests and when no
// API key is configured.
type MockGenerator struct {
	Response   string
	Err        error
	LastSystem string
	LastPrompt string
}

func (m *MockGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	m.LastSystem = system
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
