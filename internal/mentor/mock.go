package mentor

import (
	"context"
	"encoding/json"
	"sync"
)

// MockReply is a canned reply for the MockProvider.
type MockReply struct {
	Content json.RawMessage
	Err     error
}

// MockProvider is a deterministic Provider for testing. Replies are
// returned in FIFO order and every prompt is recorded.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockReply
	Prompts []Prompt
}

// NewMockProvider creates a MockProvider with the given canned replies.
func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{replies: replies}
}

func (m *MockProvider) Advise(_ context.Context, prompt Prompt) (*Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.replies) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	reply := m.replies[0]
	m.replies = m.replies[1:]

	if reply.Err != nil {
		return nil, reply.Err
	}
	return &Reply{Content: reply.Content, Model: "mock"}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddReply appends a canned reply to the queue.
func (m *MockProvider) AddReply(r MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}
