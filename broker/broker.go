package broker

import (
	"context"
	"sync"
	"time"

	"github.com/hiveq/agenthive/core"
	"github.com/hiveq/agenthive/logging"
)

// Subscriber observes messages delivered to a particular actor. Callbacks
// run on the sender's goroutine; a panicking subscriber is recovered and
// logged so it can never block delivery to the mailbox or other subscribers.
type Subscriber func(msg core.Message)

// Options configures a Broker.
type Options struct {
	// HistoryLimit bounds the shared delivery log; oldest entries are
	// dropped first once the limit is reached.
	HistoryLimit int
	// Logger receives delivery diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Broker routes messages between registered actors. All methods are safe for
// concurrent use. The broker never returns an error during normal operation:
// sending to an unknown recipient is a soft failure signaled by a boolean.
type Broker struct {
	mu          sync.RWMutex
	mailboxes   map[string]*mailbox
	subscribers map[string][]Subscriber
	history     []core.Message
	opts        Options
}

// New creates a message broker with optional overrides.
func New(optFns ...func(o *Options)) *Broker {
	opts := Options{
		HistoryLimit: 1000,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Broker{
		mailboxes:   make(map[string]*mailbox),
		subscribers: make(map[string][]Subscriber),
		opts:        opts,
	}
}

// Register opens an empty mailbox for the named actor. Registering an
// already known actor is a no-op; the existing mailbox is preserved.
func (b *Broker) Register(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.mailboxes[name]; ok {
		return
	}
	b.mailboxes[name] = newMailbox()
	b.subscribers[name] = nil
}

// Unregister drops the actor's mailbox and subscriber list. Messages still
// queued in the mailbox are lost; callers that care should drain first.
func (b *Broker) Unregister(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.mailboxes, name)
	delete(b.subscribers, name)
}

// IsRegistered reports whether the named actor has a mailbox.
func (b *Broker) IsRegistered(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.mailboxes[name]
	return ok
}

// Send enqueues the message to its recipient's mailbox, records it in the
// bounded history log and notifies subscribers. Returns false without any
// mutation when the recipient is not registered.
func (b *Broker) Send(msg core.Message) bool {
	b.mu.Lock()
	mb, ok := b.mailboxes[msg.Recipient]
	if !ok {
		b.mu.Unlock()
		b.logDelivery(msg, false)
		return false
	}
	b.history = append(b.history, msg)
	if len(b.history) > b.opts.HistoryLimit {
		b.history = b.history[len(b.history)-b.opts.HistoryLimit:]
	}
	subs := append([]Subscriber(nil), b.subscribers[msg.Recipient]...)
	b.mu.Unlock()

	mb.push(msg)

	for _, sub := range subs {
		b.notify(sub, msg)
	}
	b.logDelivery(msg, true)
	return true
}

// deliveryLogger is satisfied by loggers with a dedicated delivery helper,
// such as logging.HiveLogger.
type deliveryLogger interface {
	LogMessageDelivery(sender, recipient string, msgType string, delivered bool)
}

func (b *Broker) logDelivery(msg core.Message, delivered bool) {
	if dl, ok := b.opts.Logger.(deliveryLogger); ok {
		dl.LogMessageDelivery(msg.Sender, msg.Recipient, string(msg.Type), delivered)
		return
	}
	if !delivered {
		b.opts.Logger.Warn("message dropped, recipient not registered", "recipient", msg.Recipient, "sender", msg.Sender)
		return
	}
	b.opts.Logger.Debug("message delivered", "sender", msg.Sender, "recipient", msg.Recipient, "type", string(msg.Type))
}

// notify invokes a single subscriber, absorbing panics so one failing
// callback cannot affect the primary delivery or other subscribers.
func (b *Broker) notify(sub Subscriber, msg core.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.opts.Logger.Error("subscriber panicked", "recipient", msg.Recipient, "panic", r)
		}
	}()
	sub(msg)
}

// Receive blocks until a message is available for the named actor, the
// timeout elapses or ctx is cancelled. A timeout <= 0 waits on ctx alone.
// Timing out consumes nothing: a message arriving afterwards stays queued.
func (b *Broker) Receive(ctx context.Context, name string, timeout time.Duration) (core.Message, error) {
	b.mu.RLock()
	mb, ok := b.mailboxes[name]
	b.mu.RUnlock()
	if !ok {
		return core.Message{}, ErrNotRegistered
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if msg, ok := mb.pop(); ok {
			return msg, nil
		}
		select {
		case <-mb.wakeup:
		case <-deadline:
			return core.Message{}, ErrReceiveTimeout
		case <-ctx.Done():
			return core.Message{}, ctx.Err()
		}
	}
}

// PendingCount returns the current mailbox depth for the named actor, or 0
// when the actor is unknown.
func (b *Broker) PendingCount(name string) int {
	b.mu.RLock()
	mb, ok := b.mailboxes[name]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	return mb.depth()
}

// Subscribe registers a callback observing every message delivered to the
// named actor. Subscription does not require the actor to be registered yet.
func (b *Broker) Subscribe(name string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[name] = append(b.subscribers[name], sub)
}

// ConversationHistory returns up to limit messages exchanged between the two
// named actors in either direction, most recent first.
func (b *Broker) ConversationHistory(a, c string, limit int) []core.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []core.Message
	for i := len(b.history) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		msg := b.history[i]
		if (msg.Sender == a && msg.Recipient == c) || (msg.Sender == c && msg.Recipient == a) {
			out = append(out, msg)
		}
	}
	return out
}

// ThreadHistory returns all recorded messages correlated by the given thread
// id, most recent first.
func (b *Broker) ThreadHistory(threadID string) []core.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []core.Message
	for i := len(b.history) - 1; i >= 0; i-- {
		if b.history[i].ThreadID == threadID {
			out = append(out, b.history[i])
		}
	}
	return out
}

// HistoryLen returns the number of messages currently retained in the log.
func (b *Broker) HistoryLen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.history)
}
