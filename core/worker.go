package core

import "context"

// Worker is the injected execution contract that turns a task description
// into a result. Implementations typically wrap a language-model call plus
// any tool-use loop; the contract has no built-in timeout, so a stalled call
// blocks its caller until the context is cancelled by the surrounding code.
type Worker interface {
	Execute(ctx context.Context, task string) (string, error)
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func(ctx context.Context, task string) (string, error)

// Execute implements Worker.
func (f WorkerFunc) Execute(ctx context.Context, task string) (string, error) {
	return f(ctx, task)
}

// Agent is any named actor that can execute tasks. The orchestrator
// schedules work against this interface so it stays decoupled from the
// concrete agent implementation.
type Agent interface {
	Name() string
	Worker
}

// Role returns the scheduling role of an agent when it exposes one.
// Agents without a role participate in selection on capabilities alone.
func Role(a Agent) string {
	if r, ok := a.(interface{ Role() string }); ok {
		return r.Role()
	}
	return ""
}

// Autonomous is implemented by agents that run a background message loop.
// StartAutonomous is idempotent; StopAutonomous cancels the loop and blocks
// until it has fully wound down.
type Autonomous interface {
	StartAutonomous(ctx context.Context) error
	StopAutonomous() error
}
