// Package agenthive provides a high-level façade over the message broker and
// agent orchestrator enabling rapid construction of multi-agent task systems.
// Most applications interact with this package by:
//  1. Creating a Hive via New() (optionally overriding the logger or broker
//     history limit)
//  2. Registering one or more profile-parametrized agents with capability tags
//  3. Creating and executing tasks or workflows, or switching agents into
//     autonomous mode so they consume their mailboxes in the background
//
// The façade delegates scheduling to orchestrator.Orchestrator and delivery
// to broker.Broker while keeping setup ergonomics concise. All defaults are
// safe for local development and testing.
package agenthive

import (
	"context"

	"github.com/hiveq/agenthive/broker"
	"github.com/hiveq/agenthive/core"
	"github.com/hiveq/agenthive/logging"
	"github.com/hiveq/agenthive/orchestrator"
)

// Options configures the Hive instance.
type Options struct {
	// HistoryLimit bounds the broker's shared delivery log.
	HistoryLimit int
	// OrchestratorName is the orchestrator's actor name on the broker.
	OrchestratorName string
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Hive is the high-level façade aggregating the broker and orchestrator.
type Hive struct {
	opts         Options
	broker       *broker.Broker
	orchestrator *orchestrator.Orchestrator
}

// New creates a new Hive instance with optional overrides.
func New(optFns ...func(o *Options)) *Hive {
	opts := Options{
		HistoryLimit:     1000,
		OrchestratorName: "orchestrator",
		Logger:           logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	b := broker.New(func(o *broker.Options) {
		o.HistoryLimit = opts.HistoryLimit
		o.Logger = opts.Logger
	})
	orch := orchestrator.New(b, func(o *orchestrator.Options) {
		o.Name = opts.OrchestratorName
		o.Logger = opts.Logger
	})

	return &Hive{opts: opts, broker: b, orchestrator: orch}
}

// Broker returns the underlying message broker.
func (h *Hive) Broker() *broker.Broker { return h.broker }

// Orchestrator returns the underlying orchestrator.
func (h *Hive) Orchestrator() *orchestrator.Orchestrator { return h.orchestrator }

// RegisterAgent adds an agent with capability tags (nil adopts the agent's
// own defaults).
func (h *Hive) RegisterAgent(a core.Agent, capabilities []string) {
	h.orchestrator.RegisterAgent(a, capabilities)
}

// CreateTask allocates a new pending task and returns its id.
func (h *Hive) CreateTask(description string, optFns ...func(o *orchestrator.TaskOptions)) string {
	return h.orchestrator.CreateTask(description, optFns...)
}

// AssignTask assigns a task to the named agent, auto-selecting when empty.
func (h *Hive) AssignTask(taskID, agentName string) bool {
	return h.orchestrator.AssignTask(taskID, agentName)
}

// ExecuteTask drives a single task to a terminal state.
func (h *Hive) ExecuteTask(ctx context.Context, taskID string) (bool, string) {
	return h.orchestrator.ExecuteTask(ctx, taskID)
}

// ExecuteWorkflow runs a named batch of tasks sequentially or concurrently.
func (h *Hive) ExecuteWorkflow(ctx context.Context, workflowID string, descriptions []string, parallel bool) orchestrator.WorkflowResult {
	return h.orchestrator.ExecuteWorkflow(ctx, workflowID, descriptions, parallel)
}

// StartAutonomousAll switches every capable agent into autonomous mode.
func (h *Hive) StartAutonomousAll(ctx context.Context) int {
	return h.orchestrator.StartAutonomousAll(ctx)
}

// StopAutonomousAll stops all autonomous agents, blocking until their loops
// have wound down.
func (h *Hive) StopAutonomousAll() {
	h.orchestrator.StopAutonomousAll()
}

// Status reports a point-in-time snapshot of the orchestrator.
func (h *Hive) Status() orchestrator.Status {
	return h.orchestrator.Status()
}
