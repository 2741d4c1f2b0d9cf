package core

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	// TaskStatusPending is the initial state; also re-entered when a
	// dependency check fails at execution time.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusAssigned means an agent has been chosen for the task.
	TaskStatusAssigned TaskStatus = "assigned"
	// TaskStatusInProgress means the assigned agent is executing the task.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted is terminal; Result holds the outcome.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed is terminal; Error holds the failure text.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusDelegated means the task was handed to another agent
	// instead of being executed locally.
	TaskStatusDelegated TaskStatus = "delegated"
)

// IsTerminal reports whether the status permits no further transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task is a unit of work owned exclusively by the orchestrator's task store.
// Status transitions are monotonic except the unmet-dependency case, which
// resets an execution attempt back to pending without clearing AssignedTo.
type Task struct {
	ID           string
	Description  string
	AssignedTo   string
	Status       TaskStatus
	Priority     int
	Dependencies []string
	Result       string
	Error        string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ParentID     string
	Subtasks     []string
}

// Clone returns a deep copy safe for handing to callers outside the store.
func (t Task) Clone() Task {
	c := t
	c.Dependencies = append([]string(nil), t.Dependencies...)
	c.Subtasks = append([]string(nil), t.Subtasks...)
	if t.StartedAt != nil {
		started := *t.StartedAt
		c.StartedAt = &started
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		c.CompletedAt = &completed
	}
	return c
}

// taskWire is the serialization shape of a task.
type taskWire struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	Status       TaskStatus `json:"status"`
	Priority     int        `json:"priority"`
	Dependencies []string   `json:"dependencies"`
	Result       string     `json:"result,omitempty"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ParentID     string     `json:"parent_task_id,omitempty"`
	Subtasks     []string   `json:"subtasks,omitempty"`
}

// MarshalJSON renders the task with ISO-8601 timestamps.
func (t Task) MarshalJSON() ([]byte, error) {
	deps := t.Dependencies
	if deps == nil {
		deps = []string{}
	}
	return json.Marshal(taskWire{
		ID:           t.ID,
		Description:  t.Description,
		AssignedTo:   t.AssignedTo,
		Status:       t.Status,
		Priority:     t.Priority,
		Dependencies: deps,
		Result:       t.Result,
		Error:        t.Error,
		CreatedAt:    t.CreatedAt,
		StartedAt:    t.StartedAt,
		CompletedAt:  t.CompletedAt,
		ParentID:     t.ParentID,
		Subtasks:     t.Subtasks,
	})
}
