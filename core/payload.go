package core

// Payload represents the typed content of a message. Concrete payload types
// implement the unexported isPayload marker enabling a closed set, so message
// handlers receive typed fields instead of stringly-keyed lookups.
type Payload interface{ isPayload() }

// TaskRequest asks the recipient to execute a task.
type TaskRequest struct {
	TaskID      string `json:"task_id"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// isPayload implements the Payload interface for TaskRequest.
func (TaskRequest) isPayload() {}

// TaskResponse carries the successful result of a previously requested task.
type TaskResponse struct {
	TaskID string `json:"task_id,omitempty"`
	Result string `json:"result"`
}

// isPayload implements the Payload interface for TaskResponse.
func (TaskResponse) isPayload() {}

// InformationShare passes context or findings to another actor with no reply
// expected.
type InformationShare struct {
	Info    string         `json:"info"`
	Context map[string]any `json:"context,omitempty"`
}

// isPayload implements the Payload interface for InformationShare.
func (InformationShare) isPayload() {}

// CollaborationRequest invites another actor to work on a topic together.
type CollaborationRequest struct {
	Topic   string `json:"topic"`
	Request string `json:"request"`
}

// isPayload implements the Payload interface for CollaborationRequest.
func (CollaborationRequest) isPayload() {}

// StatusUpdate reports progress or a state change.
type StatusUpdate struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// isPayload implements the Payload interface for StatusUpdate.
func (StatusUpdate) isPayload() {}

// ErrorReport signals a failure while handling a request.
type ErrorReport struct {
	TaskID string `json:"task_id,omitempty"`
	Error  string `json:"error"`
}

// isPayload implements the Payload interface for ErrorReport.
func (ErrorReport) isPayload() {}

// PayloadType maps a payload to its wire-level message type.
func PayloadType(p Payload) MessageType {
	switch p.(type) {
	case TaskRequest:
		return MessageTypeTaskRequest
	case TaskResponse:
		return MessageTypeTaskResponse
	case InformationShare:
		return MessageTypeInformationShare
	case CollaborationRequest:
		return MessageTypeCollaborationRequest
	case StatusUpdate:
		return MessageTypeStatusUpdate
	case ErrorReport:
		return MessageTypeErrorReport
	default:
		return MessageTypeInformationShare
	}
}
