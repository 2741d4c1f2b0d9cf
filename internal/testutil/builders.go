package testutil

import (
	"time"

	"github.com/hiveq/agenthive/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().From("alice").To("bob").TaskRequest("t1", "do it").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	id       string
	sender   string
	receiver string
	payload  core.Payload
	threadID string
	priority int
}

// NewMessageBuilder creates a builder with default sender "tester" and
// recipient "agent".
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{sender: "tester", receiver: "agent", priority: 1}
}

// ID overrides the auto-generated message ID (chainable). Use mainly in tests
// where determinism matters.
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// From sets the sender name (chainable).
func (b *MessageBuilder) From(name string) *MessageBuilder { b.sender = name; return b }

// To sets the recipient name (chainable).
func (b *MessageBuilder) To(name string) *MessageBuilder { b.receiver = name; return b }

// Thread sets the thread correlation id (chainable).
func (b *MessageBuilder) Thread(id string) *MessageBuilder { b.threadID = id; return b }

// Priority sets the message priority (chainable).
func (b *MessageBuilder) Priority(p int) *MessageBuilder { b.priority = p; return b }

// TaskRequest sets a task request payload (chainable).
func (b *MessageBuilder) TaskRequest(taskID, description string) *MessageBuilder {
	b.payload = core.TaskRequest{TaskID: taskID, Description: description, Priority: b.priority}
	return b
}

// TaskResponse sets a task response payload (chainable).
func (b *MessageBuilder) TaskResponse(taskID, result string) *MessageBuilder {
	b.payload = core.TaskResponse{TaskID: taskID, Result: result}
	return b
}

// Information sets an information share payload (chainable).
func (b *MessageBuilder) Information(info string) *MessageBuilder {
	b.payload = core.InformationShare{Info: info}
	return b
}

// Status sets a status update payload (chainable).
func (b *MessageBuilder) Status(status string) *MessageBuilder {
	b.payload = core.StatusUpdate{Status: status}
	return b
}

// Error sets an error report payload (chainable).
func (b *MessageBuilder) Error(taskID, errText string) *MessageBuilder {
	b.payload = core.ErrorReport{TaskID: taskID, Error: errText}
	return b
}

// Build constructs the core.Message value.
func (b *MessageBuilder) Build() core.Message {
	if b.payload == nil {
		b.payload = core.StatusUpdate{Status: "idle"}
	}
	var optFns []func(o *core.MessageOptions)
	if b.threadID != "" {
		optFns = append(optFns, core.WithThreadID(b.threadID))
	}
	optFns = append(optFns, core.WithPriority(b.priority))
	msg := core.NewMessage(b.sender, b.receiver, b.payload, optFns...)
	if b.id != "" {
		msg.ID = b.id
	}
	return msg
}

// NewTask constructs a pending task with the given id and description,
// timestamped at build time.
func NewTask(id, description string) *core.Task {
	return &core.Task{
		ID:          id,
		Description: description,
		Status:      core.TaskStatusPending,
		Priority:    1,
		CreatedAt:   time.Now(),
	}
}
