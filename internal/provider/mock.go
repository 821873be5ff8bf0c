package provider

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text  string
	Audio []byte
	Err   error
}

// MockProvider is a deterministic Provider for testing. It returns canned
// responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	id        string
	speech    bool
	probeErr  error
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given identity and canned
// responses. When the response queue runs dry the last response is repeated.
func NewMockProvider(id string, responses ...MockResponse) *MockProvider {
	return &MockProvider{id: id, responses: responses}
}

// WithSpeech marks the mock as speech-capable.
func (m *MockProvider) WithSpeech() *MockProvider {
	m.speech = true
	return m
}

// FailProbe makes Probe return the given error.
func (m *MockProvider) FailProbe(err error) *MockProvider {
	m.probeErr = err
	return m
}

// ID returns the mock's configured identifier.
func (m *MockProvider) ID() string { return m.id }

// Capabilities reports generation plus the configured speech flag.
func (m *MockProvider) Capabilities() Capabilities {
	return Capabilities{Generation: true, Speech: m.speech}
}

// Probe returns the configured probe error, nil by default.
func (m *MockProvider) Probe(ctx context.Context) error { return m.probeErr }

// Generate returns the next canned response and records the request.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrUnavailable{Provider: m.id}
	}

	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{Text: resp.Text, Audio: resp.Audio, Model: m.id}, nil
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
