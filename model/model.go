package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Request captures the normalized generation input produced by the
// orchestrator roles. Unified across vendors so downstream logic does not
// need per-provider branching.
type Request struct {
	SystemPrompt string  `json:"system_prompt"`
	UserPrompt   string  `json:"user_prompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int64   `json:"max_tokens"`
}

// Response is the completed generation result with usage metadata.
type Response struct {
	Content      string        `json:"content"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	Model        string        `json:"model"`
	Latency      time.Duration `json:"latency_ms"`
	FinishReason string        `json:"finish_reason"` // "stop", "length", "degraded", etc.
}

// TotalTokens returns input plus output token count.
func (r *Response) TotalTokens() int { return r.InputTokens + r.OutputTokens }

// TokenUsage accumulates token counts across multiple calls within a session.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add folds a response's usage into the accumulator.
func (u *TokenUsage) Add(r *Response) {
	if r == nil {
		return
	}
	u.InputTokens += r.InputTokens
	u.OutputTokens += r.OutputTokens
}

// Total returns the combined token count.
func (u TokenUsage) Total() int { return u.InputTokens + u.OutputTokens }

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive generation. Adapters must
// honor ctx cancellation: an abandoned call releases its own resources.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// mockCall scripts a single MockModel response: either a canned completion,
// an error, or a simulated hang, consumed in FIFO order.
type mockCall struct {
	content string
	err     error
	delay   time.Duration
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are scripted per call; once the script is exhausted a canned
// echo completion is returned. Safe for concurrent use.
type MockModel struct {
	mu    sync.Mutex
	info  Info
	queue []mockCall
	calls []Request
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: "mock"}}
}

// EnqueueResponse appends a canned completion to the call script.
func (m *MockModel) EnqueueResponse(content string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockCall{content: content})
	return m
}

// EnqueueError appends a failing call to the script.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockCall{err: err})
	return m
}

// EnqueueDelay appends a call that blocks for d (or until ctx is done)
// before returning content. Use a long delay to simulate a hung backend.
func (m *MockModel) EnqueueDelay(d time.Duration, content string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockCall{content: content, delay: d})
	return m
}

// Calls returns a copy of all requests seen so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Generate was invoked.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears the script and the call log.
func (m *MockModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
	m.calls = nil
}

// Generate implements Model, consuming the next scripted call.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	var call mockCall
	if len(m.queue) > 0 {
		call = m.queue[0]
		m.queue = m.queue[1:]
	} else {
		prompt := req.UserPrompt
		if i := strings.IndexByte(prompt, '\n'); i >= 0 {
			prompt = prompt[:i]
		}
		call = mockCall{content: fmt.Sprintf("Mock response to: %s", prompt)}
	}
	m.mu.Unlock()

	start := time.Now()
	if call.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(call.delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if call.err != nil {
		return nil, call.err
	}
	return &Response{
		Content:      call.content,
		InputTokens:  len(req.SystemPrompt+req.UserPrompt) / 4,
		OutputTokens: len(call.content) / 4,
		Model:        m.info.Name,
		Latency:      time.Since(start),
		FinishReason: "stop",
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
