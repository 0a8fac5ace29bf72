package classifier

import (
	"context"
	"sync"
	"time"

	"github.com/alingse/visionscribe/internal/llm"
)

// MockLLMClient replays queued responses. When ResponseQueue is empty it
// falls back to Response/Err. Hang makes every call block until its
// context is done.
type MockLLMClient struct {
	mu            sync.Mutex
	Response      string
	Err           error
	ResponseQueue []MockReply
	Hang          bool
	Requests      []llm.Request
}

type MockReply struct {
	Response string
	Err      error
	Delay    time.Duration
}

func (m *MockLLMClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	reply := MockReply{Response: m.Response, Err: m.Err}
	if len(m.ResponseQueue) > 0 {
		reply = m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
	}
	hang := m.Hang
	m.mu.Unlock()

	if hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if reply.Err != nil {
		return "", reply.Err
	}
	return reply.Response, nil
}

func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
