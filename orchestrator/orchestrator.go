package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hiveq/agenthive/broker"
	"github.com/hiveq/agenthive/core"
	"github.com/hiveq/agenthive/logging"
)

// Options configures an Orchestrator.
type Options struct {
	// Name is the orchestrator's own actor name on the broker; replies from
	// autonomous agents arrive in this mailbox.
	Name string
	// Logger receives scheduling and execution diagnostics.
	Logger logging.Logger
}

// registration pairs an agent with its capability tags.
type registration struct {
	agent        core.Agent
	capabilities []string
}

// Orchestrator registers agents, creates and assigns tasks, and drives
// sequential or concurrent workflow execution. The broker is an explicit
// constructor dependency, never ambient state. All methods are safe for
// concurrent use; the execution contract is always invoked outside the
// store lock.
type Orchestrator struct {
	broker *broker.Broker
	opts   Options

	mu        sync.RWMutex
	agents    map[string]*registration
	order     []string
	tasks     map[string]*core.Task
	workflows map[string][]string
}

// New creates an orchestrator bound to the given broker and opens the
// orchestrator's own mailbox.
func New(b *broker.Broker, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Name:   "orchestrator",
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	b.Register(opts.Name)

	return &Orchestrator{
		broker:    b,
		opts:      opts,
		agents:    make(map[string]*registration),
		tasks:     make(map[string]*core.Task),
		workflows: make(map[string][]string),
	}
}

// Name returns the orchestrator's actor name.
func (o *Orchestrator) Name() string { return o.opts.Name }

// Broker returns the underlying message broker.
func (o *Orchestrator) Broker() *broker.Broker { return o.broker }

// RegisterAgent records the agent and its capability tags and opens its
// broker mailbox. Passing nil capabilities adopts the agent's own defaults
// when it exposes any. Re-registering a name replaces its capabilities.
func (o *Orchestrator) RegisterAgent(a core.Agent, capabilities []string) {
	if capabilities == nil {
		if c, ok := a.(interface{ Capabilities() []string }); ok {
			capabilities = c.Capabilities()
		}
	}

	o.mu.Lock()
	if _, exists := o.agents[a.Name()]; !exists {
		o.order = append(o.order, a.Name())
	}
	o.agents[a.Name()] = &registration{agent: a, capabilities: capabilities}
	o.mu.Unlock()

	o.broker.Register(a.Name())
	o.opts.Logger.Info("agent registered", "agent", a.Name(), "capabilities", strings.Join(capabilities, ","))
}

// UnregisterAgent removes the agent and drops its mailbox. Tasks already
// assigned to it keep their assignment.
func (o *Orchestrator) UnregisterAgent(name string) {
	o.mu.Lock()
	delete(o.agents, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	o.mu.Unlock()
	o.broker.Unregister(name)
}

// affinity maps task keywords to role fragments awarding a selection bonus.
var affinity = []struct{ keyword, role string }{
	{"research", "research"},
	{"code", "coder"},
	{"test", "tester"},
	{"write", "writer"},
	{"review", "review"},
}

// SelectAgentForTask scores every registered agent against the description:
// +10 per capability tag appearing as a case-insensitive substring, +5 per
// keyword/role affinity hit. Highest score wins with ties broken by
// registration order; when every agent scores zero the first registered
// agent is the fallback. Returns false only when no agents are registered.
func (o *Orchestrator) SelectAgentForTask(description string) (string, bool) {
	desc := strings.ToLower(description)

	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(o.order) == 0 {
		return "", false
	}

	best, bestScore := o.order[0], -1
	for _, name := range o.order {
		reg := o.agents[name]
		score := 0
		for _, capability := range reg.capabilities {
			if capability != "" && strings.Contains(desc, strings.ToLower(capability)) {
				score += 10
			}
		}
		role := strings.ToLower(core.Role(reg.agent))
		for _, aff := range affinity {
			if strings.Contains(desc, aff.keyword) && strings.Contains(role, aff.role) {
				score += 5
			}
		}
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	return best, true
}

// TaskOptions holds optional attributes for CreateTask.
type TaskOptions struct {
	Priority     int
	Dependencies []string
	ParentID     string
}

// WithTaskPriority sets the task priority (1-5).
func WithTaskPriority(p int) func(o *TaskOptions) {
	return func(o *TaskOptions) { o.Priority = p }
}

// WithDependencies declares task ids that must complete first.
func WithDependencies(ids ...string) func(o *TaskOptions) {
	return func(o *TaskOptions) { o.Dependencies = ids }
}

// WithParent marks the task as a subtask of the given parent id.
func WithParent(id string) func(o *TaskOptions) {
	return func(o *TaskOptions) { o.ParentID = id }
}

// CreateTask allocates a fresh pending task and returns its id.
func (o *Orchestrator) CreateTask(description string, optFns ...func(o *TaskOptions)) string {
	opts := TaskOptions{Priority: 1}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Priority < 1 {
		opts.Priority = 1
	}
	if opts.Priority > 5 {
		opts.Priority = 5
	}

	task := &core.Task{
		ID:           core.NewID(),
		Description:  description,
		Status:       core.TaskStatusPending,
		Priority:     opts.Priority,
		Dependencies: append([]string(nil), opts.Dependencies...),
		CreatedAt:    time.Now(),
		ParentID:     opts.ParentID,
	}

	o.mu.Lock()
	o.tasks[task.ID] = task
	if opts.ParentID != "" {
		if parent, ok := o.tasks[opts.ParentID]; ok {
			parent.Subtasks = append(parent.Subtasks, task.ID)
		}
	}
	o.mu.Unlock()

	return task.ID
}

// AssignTask resolves the agent (auto-selecting when name is empty), marks
// the task assigned and sends a fire-and-forget task_request through the
// broker. Returns false without mutating the task when it does not exist or
// no agent can be resolved.
func (o *Orchestrator) AssignTask(taskID, agentName string) bool {
	o.mu.RLock()
	task, ok := o.tasks[taskID]
	o.mu.RUnlock()
	if !ok {
		return false
	}

	if agentName == "" {
		selected, ok := o.SelectAgentForTask(task.Description)
		if !ok {
			return false
		}
		agentName = selected
	}

	o.mu.Lock()
	if _, known := o.agents[agentName]; !known {
		o.mu.Unlock()
		return false
	}
	task.AssignedTo = agentName
	task.Status = core.TaskStatusAssigned
	req := core.TaskRequest{TaskID: task.ID, Description: task.Description, Priority: task.Priority}
	o.mu.Unlock()

	// Fire-and-forget: the eventual reply lands in the orchestrator mailbox
	// and is not awaited here.
	o.broker.Send(core.NewMessage(o.opts.Name, agentName, req))
	return true
}

// ExecuteTask drives a single task to a terminal state. Unmet dependencies
// reset the task to pending (assignment untouched) without invoking the
// execution contract. Contract failures are captured on the task, never
// propagated as errors from this call.
func (o *Orchestrator) ExecuteTask(ctx context.Context, taskID string) (bool, string) {
	o.mu.Lock()
	task, ok := o.tasks[taskID]
	if !ok {
		o.mu.Unlock()
		return false, ""
	}

	for _, depID := range task.Dependencies {
		if dep, known := o.tasks[depID]; known && dep.Status != core.TaskStatusCompleted {
			task.Status = core.TaskStatusPending
			o.mu.Unlock()
			o.opts.Logger.Debug("task deferred, dependency not completed", "task_id", taskID, "dependency", depID)
			return false, ""
		}
	}
	assigned := task.AssignedTo
	o.mu.Unlock()

	if assigned == "" {
		o.AssignTask(taskID, "")
	}

	o.mu.Lock()
	reg, known := o.agents[task.AssignedTo]
	if task.AssignedTo == "" || !known {
		now := time.Now()
		task.Status = core.TaskStatusFailed
		task.Error = "no suitable agent available"
		task.CompletedAt = &now
		o.mu.Unlock()
		return false, ""
	}
	started := time.Now()
	task.Status = core.TaskStatusInProgress
	task.StartedAt = &started
	worker := reg.agent
	description := task.Description
	o.mu.Unlock()

	result, err := worker.Execute(ctx, description)

	o.mu.Lock()
	defer o.mu.Unlock()
	completed := time.Now()
	task.CompletedAt = &completed
	o.logTaskExecution(taskID, task.AssignedTo, completed.Sub(started), err)
	if err != nil {
		task.Status = core.TaskStatusFailed
		task.Error = err.Error()
		return false, ""
	}
	task.Status = core.TaskStatusCompleted
	task.Result = result
	return true, result
}

// taskExecutionLogger is satisfied by loggers with a dedicated task helper,
// such as logging.HiveLogger.
type taskExecutionLogger interface {
	LogTaskExecution(taskID, agent string, dur time.Duration, success bool, err error)
}

func (o *Orchestrator) logTaskExecution(taskID, agent string, dur time.Duration, err error) {
	if tl, ok := o.opts.Logger.(taskExecutionLogger); ok {
		tl.LogTaskExecution(taskID, agent, dur, err == nil, err)
		return
	}
	if err != nil {
		o.opts.Logger.Warn("task failed", "task_id", taskID, "agent", agent, "duration", dur, "error", err)
		return
	}
	o.opts.Logger.Info("task completed", "task_id", taskID, "agent", agent, "duration", dur)
}

// DelegateTask hands an existing task to another actor instead of executing
// it locally: the task enters the delegated state and a task_request is
// forwarded on the task's thread. Returns false when the task or recipient
// is unknown.
func (o *Orchestrator) DelegateTask(taskID, fromActor, toAgent string) bool {
	o.mu.Lock()
	task, ok := o.tasks[taskID]
	if !ok {
		o.mu.Unlock()
		return false
	}
	if _, known := o.agents[toAgent]; !known {
		o.mu.Unlock()
		return false
	}
	task.AssignedTo = toAgent
	task.Status = core.TaskStatusDelegated
	req := core.TaskRequest{TaskID: task.ID, Description: task.Description, Priority: task.Priority}
	o.mu.Unlock()

	return o.broker.Send(core.NewMessage(fromActor, toAgent, req, core.WithThreadID(taskID)))
}

// GetTask returns a defensive copy of the task.
func (o *Orchestrator) GetTask(taskID string) (core.Task, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	task, ok := o.tasks[taskID]
	if !ok {
		return core.Task{}, false
	}
	return task.Clone(), true
}

// TaskStatus returns the current status of a task.
func (o *Orchestrator) TaskStatus(taskID string) (core.TaskStatus, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	task, ok := o.tasks[taskID]
	if !ok {
		return "", false
	}
	return task.Status, true
}

// Workload tallies task states attributed to one agent.
type Workload struct {
	Assigned   int `json:"assigned"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// AgentWorkload scans the task store and tallies per-agent task states.
func (o *Orchestrator) AgentWorkload() map[string]Workload {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.agentWorkloadLocked()
}

func (o *Orchestrator) agentWorkloadLocked() map[string]Workload {
	workload := make(map[string]Workload, len(o.agents))
	for name := range o.agents {
		workload[name] = Workload{}
	}
	for _, task := range o.tasks {
		w, tracked := workload[task.AssignedTo]
		if !tracked {
			continue
		}
		switch task.Status {
		case core.TaskStatusAssigned:
			w.Assigned++
		case core.TaskStatusInProgress:
			w.InProgress++
		case core.TaskStatusCompleted:
			w.Completed++
		case core.TaskStatusFailed:
			w.Failed++
		}
		workload[task.AssignedTo] = w
	}
	return workload
}

// Status is a point-in-time snapshot of the orchestrator.
type Status struct {
	RegisteredAgents []string            `json:"registered_agents"`
	TotalTasks       int                 `json:"total_tasks"`
	ActiveWorkflows  int                 `json:"active_workflows"`
	AgentWorkload    map[string]Workload `json:"agent_workload"`
}

// Status reports registered agents, task totals, workflow count and the
// per-agent workload.
func (o *Orchestrator) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Status{
		RegisteredAgents: append([]string(nil), o.order...),
		TotalTasks:       len(o.tasks),
		ActiveWorkflows:  len(o.workflows),
		AgentWorkload:    o.agentWorkloadLocked(),
	}
}

// StartAutonomousAll starts the message loop of every registered agent that
// supports autonomous mode and returns how many were started.
func (o *Orchestrator) StartAutonomousAll(ctx context.Context) int {
	o.mu.RLock()
	agents := make([]core.Agent, 0, len(o.order))
	for _, name := range o.order {
		agents = append(agents, o.agents[name].agent)
	}
	o.mu.RUnlock()

	started := 0
	for _, a := range agents {
		if auto, ok := a.(core.Autonomous); ok {
			if err := auto.StartAutonomous(ctx); err == nil {
				started++
			}
		}
	}
	return started
}

// StopAutonomousAll stops every autonomous agent, blocking until each loop
// has fully wound down.
func (o *Orchestrator) StopAutonomousAll() {
	o.mu.RLock()
	agents := make([]core.Agent, 0, len(o.order))
	for _, name := range o.order {
		agents = append(agents, o.agents[name].agent)
	}
	o.mu.RUnlock()

	for _, a := range agents {
		if auto, ok := a.(core.Autonomous); ok {
			if err := auto.StopAutonomous(); err != nil {
				o.opts.Logger.Warn("failed to stop autonomous agent", "agent", a.Name(), "error", err)
			}
		}
	}
}
