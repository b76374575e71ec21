package llm

import (
	"context"
	"sync"
)

// MockClient is a mock model client for testing. Single-shot calls return
// Response; streaming calls deliver Chunks one at a time. Err fails both
// up front; StreamErr fails the stream after all chunks were delivered.
type MockClient struct {
	Response  string
	Chunks    []string
	Err       error
	StreamErr error

	mu      sync.Mutex
	prompts []string
}

// GenerateText mocks single-shot generation.
func (m *MockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.record(prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// GenerateTextStream mocks streaming generation.
func (m *MockClient) GenerateTextStream(ctx context.Context, prompt string, onChunk ChunkFunc) error {
	m.record(prompt)
	if m.Err != nil {
		return m.Err
	}
	for _, chunk := range m.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return m.StreamErr
}

// Prompts returns every prompt seen so far, in call order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

func (m *MockClient) record(prompt string) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
}
