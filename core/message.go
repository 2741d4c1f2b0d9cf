package core

import (
	"encoding/json"
	"time"
)

// MessageType identifies the kind of inter-agent message.
type MessageType string

const (
	// MessageTypeTaskRequest asks an agent to execute a task.
	MessageTypeTaskRequest MessageType = "task_request"
	// MessageTypeTaskResponse carries a task result back to the requester.
	MessageTypeTaskResponse MessageType = "task_response"
	// MessageTypeInformationShare passes information with no reply expected.
	MessageTypeInformationShare MessageType = "information_share"
	// MessageTypeCollaborationRequest invites another agent to collaborate.
	MessageTypeCollaborationRequest MessageType = "collaboration_request"
	// MessageTypeStatusUpdate reports progress or a state change.
	MessageTypeStatusUpdate MessageType = "status_update"
	// MessageTypeErrorReport signals a failure while handling a request.
	MessageTypeErrorReport MessageType = "error_report"
)

// Message is the unit of communication between actors. After construction it
// should be treated as immutable. Sender and Recipient are plain actor names;
// the broker validates registration, nothing else. ThreadID correlates
// request/response pairs and conversation threads. Priority ranges 1-5,
// higher is more urgent.
type Message struct {
	ID        string
	Sender    string
	Recipient string
	Type      MessageType
	Payload   Payload
	Timestamp time.Time
	ThreadID  string
	Priority  int
}

// MessageOptions holds optional message attributes applied by NewMessage.
type MessageOptions struct {
	ThreadID string
	Priority int
}

// WithThreadID correlates the message with an existing conversation thread.
func WithThreadID(id string) func(o *MessageOptions) {
	return func(o *MessageOptions) { o.ThreadID = id }
}

// WithPriority sets the message priority (clamped to 1-5).
func WithPriority(p int) func(o *MessageOptions) {
	return func(o *MessageOptions) { o.Priority = p }
}

// NewMessage constructs an immutable message. The message type is derived
// from the payload's concrete type; ID and timestamp are filled in.
func NewMessage(sender, recipient string, payload Payload, optFns ...func(o *MessageOptions)) Message {
	opts := MessageOptions{Priority: 1}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Priority < 1 {
		opts.Priority = 1
	}
	if opts.Priority > 5 {
		opts.Priority = 5
	}
	return Message{
		ID:        NewID(),
		Sender:    sender,
		Recipient: recipient,
		Type:      PayloadType(payload),
		Payload:   payload,
		Timestamp: time.Now(),
		ThreadID:  opts.ThreadID,
		Priority:  opts.Priority,
	}
}

// messageWire is the inspection/logging shape of a message.
type messageWire struct {
	ID          string      `json:"id"`
	Sender      string      `json:"sender"`
	Recipient   string      `json:"recipient"`
	MessageType MessageType `json:"message_type"`
	Content     Payload     `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	ThreadID    string      `json:"thread_id,omitempty"`
	Priority    int         `json:"priority"`
}

// MarshalJSON renders the wire shape used for inspection and logging.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageWire{
		ID:          m.ID,
		Sender:      m.Sender,
		Recipient:   m.Recipient,
		MessageType: m.Type,
		Content:     m.Payload,
		Timestamp:   m.Timestamp,
		ThreadID:    m.ThreadID,
		Priority:    m.Priority,
	})
}
