package llm

import (
	"context"
	"sync"
)

// MockProvider is a deterministic Provider for tests. Reply computes the
// response text for each request; Err, when set, is returned instead.
type MockProvider struct {
	ProviderName string
	Reply        func(req Request) (string, error)

	mu    sync.Mutex
	Calls []Request
}

// NewMockProvider returns a mock that answers every request with reply
func NewMockProvider(name string, reply func(req Request) (string, error)) *MockProvider {
	return &MockProvider{ProviderName: name, Reply: reply}
}

func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockProvider) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if m.Reply == nil {
		return nil, &ErrProviderUnavailable{Provider: m.Name()}
	}
	content, err := m.Reply(req)
	if err != nil {
		return nil, err
	}
	return &Response{Content: StripFences(content), Model: "mock"}, nil
}

// CallCount returns the number of Complete calls made
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
