package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hiveq/agenthive/broker"
	"github.com/hiveq/agenthive/core"
	"github.com/hiveq/agenthive/logging"
	"github.com/hiveq/agenthive/memory"
)

// HandlerFunc processes a single inbound message inside the autonomous loop.
type HandlerFunc func(ctx context.Context, msg core.Message) error

// Options configures an Agent.
type Options struct {
	// Memory attaches a recall store; nil disables memory features.
	Memory *memory.Memory
	// MemoryPath, when set, is where Close flushes memory before teardown.
	MemoryPath string
	// ReceiveTimeout bounds each mailbox wait inside the autonomous loop.
	ReceiveTimeout time.Duration
	// Logger receives loop and execution diagnostics.
	Logger logging.Logger
}

// Agent is a named actor built from a Profile and an injected execution
// contract. It owns a mailbox on the injected broker and optionally a
// memory store. All exported methods are safe for concurrent use.
type Agent struct {
	profile Profile
	worker  core.Worker
	broker  *broker.Broker
	opts    Options

	mu          sync.Mutex
	handlers    map[core.MessageType]HandlerFunc
	loopCancel  context.CancelFunc
	loopDone    chan struct{}
	taskCount   int
	taskHistory []string
}

// taskHistoryLimit bounds the retained task descriptions.
const taskHistoryLimit = 100

// New constructs an agent from a profile and execution contract, opening its
// mailbox on the injected broker.
func New(profile Profile, worker core.Worker, b *broker.Broker, optFns ...func(o *Options)) *Agent {
	opts := Options{
		ReceiveTimeout: time.Second,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	b.Register(profile.Name)

	return &Agent{
		profile:  profile,
		worker:   worker,
		broker:   b,
		opts:     opts,
		handlers: make(map[core.MessageType]HandlerFunc),
	}
}

// Name returns the agent's unique actor name.
func (a *Agent) Name() string { return a.profile.Name }

// Role returns the scheduling role from the profile (may be empty).
func (a *Agent) Role() string { return a.profile.Role }

// Profile returns the persona value this agent was built from.
func (a *Agent) Profile() Profile { return a.profile }

// Capabilities returns the profile's default capability tags.
func (a *Agent) Capabilities() []string {
	return append([]string(nil), a.profile.Capabilities...)
}

// Memory returns the attached recall store, or nil.
func (a *Agent) Memory() *memory.Memory { return a.opts.Memory }

// TaskCount returns the number of tasks executed so far.
func (a *Agent) TaskCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.taskCount
}

// TaskHistory returns the most recent task descriptions, oldest first.
func (a *Agent) TaskHistory() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.taskHistory...)
}

// Execute implements core.Worker by delegating to the injected contract.
// Outcomes are recorded in memory when one is attached. The contract has no
// built-in timeout: a stalled call blocks until ctx is cancelled.
func (a *Agent) Execute(ctx context.Context, task string) (string, error) {
	start := time.Now()
	result, err := a.worker.Execute(ctx, task)

	a.mu.Lock()
	a.taskCount++
	a.taskHistory = append(a.taskHistory, task)
	if len(a.taskHistory) > taskHistoryLimit {
		a.taskHistory = a.taskHistory[len(a.taskHistory)-taskHistoryLimit:]
	}
	a.mu.Unlock()

	if err != nil {
		a.opts.Logger.Warn("task execution failed", "agent", a.profile.Name, "duration", time.Since(start), "error", err)
		return "", err
	}
	a.opts.Logger.Debug("task executed", "agent", a.profile.Name, "duration", time.Since(start))
	a.remember("Executed task: "+truncate(task, 120), 2, "task")
	return result, nil
}

// Remember stores content in the attached memory; a no-op without one.
func (a *Agent) Remember(content string, importance int, tags ...string) {
	a.remember(content, importance, tags...)
}

func (a *Agent) remember(content string, importance int, tags ...string) {
	if a.opts.Memory == nil {
		return
	}
	a.opts.Memory.Add(content, importance, memory.WithTags(tags...))
}

// Handle registers a custom handler for a message type, replacing default
// handling for that type inside the autonomous loop.
func (a *Agent) Handle(t core.MessageType, h HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[t] = h
}

// StartAutonomous launches the background message loop. Starting an already
// running agent is a no-op. The loop runs until StopAutonomous is called or
// ctx is cancelled.
func (a *Agent) StartAutonomous(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loopDone != nil {
		return nil
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.loopCancel = cancel
	a.loopDone = done
	go a.messageLoop(loopCtx, done)
	a.opts.Logger.Info("autonomous mode started", "agent", a.profile.Name)
	return nil
}

// StopAutonomous cancels the message loop and blocks until the goroutine has
// fully wound down, then clears the handle so a later restart is permitted.
// Stopping a non-running agent is a no-op.
func (a *Agent) StopAutonomous() error {
	a.mu.Lock()
	cancel, done := a.loopCancel, a.loopDone
	a.loopCancel, a.loopDone = nil, nil
	a.mu.Unlock()

	if done == nil {
		return nil
	}
	cancel()
	<-done
	a.opts.Logger.Info("autonomous mode stopped", "agent", a.profile.Name)
	return nil
}

// IsAutonomous reports whether the message loop is currently running.
func (a *Agent) IsAutonomous() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loopDone != nil
}

// messageLoop is the body of the autonomous goroutine. Execution failures
// are reported back to the sender and never terminate the loop.
func (a *Agent) messageLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		if ctx.Err() != nil {
			return
		}
		msg, err := a.broker.Receive(ctx, a.profile.Name, a.opts.ReceiveTimeout)
		if err != nil {
			switch {
			case errors.Is(err, broker.ErrReceiveTimeout):
				continue
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return
			case errors.Is(err, broker.ErrNotRegistered):
				a.opts.Logger.Warn("mailbox gone, stopping loop", "agent", a.profile.Name)
				return
			default:
				return
			}
		}
		a.dispatch(ctx, msg)
	}
}

// dispatch routes one message to the custom handler for its type if present,
// else to default handling.
func (a *Agent) dispatch(ctx context.Context, msg core.Message) {
	a.mu.Lock()
	handler := a.handlers[msg.Type]
	a.mu.Unlock()

	if handler != nil {
		if err := handler(ctx, msg); err != nil {
			a.opts.Logger.Warn("message handler failed", "agent", a.profile.Name, "type", string(msg.Type), "error", err)
		}
		return
	}

	switch msg.Type {
	case core.MessageTypeTaskRequest:
		a.handleTaskRequest(ctx, msg)
	case core.MessageTypeInformationShare:
		if p, ok := msg.Payload.(core.InformationShare); ok {
			a.remember("Received from "+msg.Sender+": "+truncate(p.Info, 200), 2, "shared")
		}
	default:
		a.opts.Logger.Debug("unhandled message", "agent", a.profile.Name, "type", string(msg.Type), "sender", msg.Sender)
	}
}

// handleTaskRequest is the default task_request path: execute via the
// contract and reply with a task_response, or an error_report on failure.
// The original message id is carried as the reply's thread correlation.
func (a *Agent) handleTaskRequest(ctx context.Context, msg core.Message) {
	req, ok := msg.Payload.(core.TaskRequest)
	if !ok {
		a.broker.Send(core.NewMessage(a.profile.Name, msg.Sender,
			core.ErrorReport{Error: "malformed task request payload"},
			core.WithThreadID(msg.ID)))
		return
	}

	result, err := a.Execute(ctx, req.Description)
	if err != nil {
		a.broker.Send(core.NewMessage(a.profile.Name, msg.Sender,
			core.ErrorReport{TaskID: req.TaskID, Error: err.Error()},
			core.WithThreadID(msg.ID)))
		return
	}
	a.broker.Send(core.NewMessage(a.profile.Name, msg.Sender,
		core.TaskResponse{TaskID: req.TaskID, Result: result},
		core.WithThreadID(msg.ID)))
}

// DelegateTask forwards a task description to another actor as a
// task_request. Returns false when the recipient has no mailbox.
func (a *Agent) DelegateTask(recipient, task string, optFns ...func(o *core.MessageOptions)) bool {
	return a.broker.Send(core.NewMessage(a.profile.Name, recipient,
		core.TaskRequest{Description: task, Priority: 1}, optFns...))
}

// ShareInformation sends an information_share message to another actor.
func (a *Agent) ShareInformation(recipient, info string) bool {
	return a.broker.Send(core.NewMessage(a.profile.Name, recipient,
		core.InformationShare{Info: info}))
}

// RequestCollaboration invites another actor to collaborate on a topic.
func (a *Agent) RequestCollaboration(recipient, topic, request string) bool {
	return a.broker.Send(core.NewMessage(a.profile.Name, recipient,
		core.CollaborationRequest{Topic: topic, Request: request}))
}

// Close stops the autonomous loop and flushes memory to the configured
// persistence path when one is set.
func (a *Agent) Close() error {
	if err := a.StopAutonomous(); err != nil {
		return err
	}
	if a.opts.Memory != nil && a.opts.MemoryPath != "" {
		return a.opts.Memory.SaveToFile(a.opts.MemoryPath)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
