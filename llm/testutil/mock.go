// Package testutil provides test utilities for the llm package.
package testutil

import (
	"context"
	"sync"

	"github.com/sunfoxy2k/antechamber/llm"
)

// MockClient is a thread-safe mock generation client for testing. It returns
// configured responses in sequence and records the requests it received.
//
// Usage:
//
//	// Multiple responses (for retry testing)
//	mock := &MockClient{
//	    Responses: []*llm.Response{
//	        {Content: "first candidate", Model: "test-model"},
//	        {Content: "second candidate", Model: "test-model"},
//	    },
//	}
//
//	// Transport failure
//	mock := &MockClient{Err: errors.New("connection refused")}
type MockClient struct {
	mu            sync.Mutex
	Responses     []*llm.Response // Responses to return in sequence
	Errs          []error         // Errors interleaved by call index (nil = use response)
	Err           error           // Error returned on every call (takes precedence)
	requests      []llm.Request
	responseIndex int
}

// Complete returns the next configured response or error.
func (m *MockClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.Err != nil {
		return nil, m.Err
	}

	idx := m.responseIndex
	m.responseIndex++

	if idx < len(m.Errs) && m.Errs[idx] != nil {
		return nil, m.Errs[idx]
	}
	if idx < len(m.Responses) {
		return m.Responses[idx], nil
	}

	// Default response if no responses configured
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// CallCount returns the number of Complete calls so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the captured requests.
func (m *MockClient) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or a zero Request if none.
func (m *MockClient) LastRequest() llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return llm.Request{}
	}
	return m.requests[len(m.requests)-1]
}

// Reset clears captured state so the mock can be reused.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.responseIndex = 0
}
