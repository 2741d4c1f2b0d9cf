package model

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockWorker is a lightweight in-memory Worker useful for tests & examples.
// It returns canned completions for known task strings and an echo response
// otherwise. An optional scripted error makes every call fail; an optional
// delay simulates model latency while honoring context cancellation.
type MockWorker struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	delay     time.Duration
	calls     []string
}

// NewMockWorker constructs an empty MockWorker.
func NewMockWorker() *MockWorker {
	return &MockWorker{responses: make(map[string]string)}
}

// AddResponse registers a deterministic canned completion for a task string.
func (m *MockWorker) AddResponse(task, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[task] = response
}

// FailWith makes every subsequent Execute call return err. Pass nil to
// restore normal behavior.
func (m *MockWorker) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay simulates model latency before each response.
func (m *MockWorker) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns the task strings received so far in call order.
func (m *MockWorker) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns the number of Execute invocations so far.
func (m *MockWorker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Execute implements core.Worker.
func (m *MockWorker) Execute(ctx context.Context, task string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, task)
	err := m.err
	delay := m.delay
	response, ok := m.responses[task]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if !ok {
		response = fmt.Sprintf("Mock response to: %s", task)
	}
	return response, nil
}
