package broker

import (
	"sync"

	"github.com/hiveq/agenthive/core"
)

// mailbox is an unbounded FIFO queue with a capacity-1 wakeup channel.
// push never blocks; pop re-signals when it leaves the queue non-empty so
// concurrent receivers cannot miss a wakeup.
type mailbox struct {
	mu     sync.Mutex
	queue  []core.Message
	wakeup chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{wakeup: make(chan struct{}, 1)}
}

func (m *mailbox) push(msg core.Message) {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) pop() (core.Message, bool) {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return core.Message{}, false
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	remaining := len(m.queue)
	m.mu.Unlock()
	if remaining > 0 {
		m.signal()
	}
	return msg, true
}

func (m *mailbox) depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *mailbox) signal() {
	select {
	case m.wakeup <- struct{}{}:
	default:
	}
}
