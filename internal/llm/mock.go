package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one canned reply. A non-nil Err is returned as is.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Err        error
}

// SentenceReply builds the canned reply for an example-sentence request.
func SentenceReply(sentence, pinyin, translation string) MockResponse {
	b, _ := json.Marshal(struct {
		Sentence    string `json:"sentence"`
		Pinyin      string `json:"pinyin"`
		Translation string `json:"translation"`
	}{sentence, pinyin, translation})
	return MockResponse{
		Content: b,
		Usage:   Usage{InputTokens: 60, OutputTokens: 30, TotalTokens: 90},
	}
}

// MockProvider replays canned replies in order and records each request.
// Replies go through the same schema and truncation checks as a real
// provider. Once the queue is empty every call is unavailable.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	Calls   []Request
}

func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.replies) == 0 {
		return nil, &Error{Kind: KindUnavailable, Provider: ProviderMock, Err: errors.New("no canned reply")}
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}

	stop := r.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return finish(ProviderMock, req, &Response{
		Content:    r.Content,
		Usage:      r.Usage,
		Model:      ProviderMock,
		StopReason: stop,
	})
}

func (m *MockProvider) ModelID() string { return ProviderMock }

// Queue appends replies.
func (m *MockProvider) Queue(replies ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
