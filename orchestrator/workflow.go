package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/hiveq/agenthive/core"
)

// TaskResult captures the outcome of one task within a workflow.
type TaskResult struct {
	TaskID  string    `json:"task_id"`
	Success bool      `json:"success"`
	Result  string    `json:"result,omitempty"`
	Task    core.Task `json:"task"`
}

// WorkflowResult summarizes a finished workflow.
type WorkflowResult struct {
	WorkflowID string                `json:"workflow_id"`
	TaskIDs    []string              `json:"task_ids"`
	Total      int                   `json:"total_tasks"`
	Successful int                   `json:"successful"`
	Failed     int                   `json:"failed"`
	Results    map[string]TaskResult `json:"results"`
}

// ExecuteWorkflow creates one task per description, records the ordered id
// list under workflowID and executes them. Sequential mode runs tasks
// strictly in list order, each waiting for the previous to finish. Parallel
// mode runs all tasks concurrently with no ordering guarantee between them;
// inter-task dependencies must be pre-declared when ordering matters.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, workflowID string, descriptions []string, parallel bool) WorkflowResult {
	start := time.Now()

	taskIDs := make([]string, len(descriptions))
	for i, desc := range descriptions {
		taskIDs[i] = o.CreateTask(desc)
	}

	o.mu.Lock()
	o.workflows[workflowID] = taskIDs
	o.mu.Unlock()

	type outcome struct {
		success bool
		result  string
	}
	outcomes := make([]outcome, len(taskIDs))

	if parallel {
		var wg sync.WaitGroup
		for i, id := range taskIDs {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				success, result := o.ExecuteTask(ctx, id)
				outcomes[i] = outcome{success: success, result: result}
			}(i, id)
		}
		wg.Wait()
	} else {
		for i, id := range taskIDs {
			success, result := o.ExecuteTask(ctx, id)
			outcomes[i] = outcome{success: success, result: result}
		}
	}

	res := WorkflowResult{
		WorkflowID: workflowID,
		TaskIDs:    taskIDs,
		Total:      len(taskIDs),
		Results:    make(map[string]TaskResult, len(taskIDs)),
	}
	for i, id := range taskIDs {
		task, _ := o.GetTask(id)
		res.Results[id] = TaskResult{
			TaskID:  id,
			Success: outcomes[i].success,
			Result:  outcomes[i].result,
			Task:    task,
		}
		if outcomes[i].success {
			res.Successful++
		} else {
			res.Failed++
		}
	}

	if wl, ok := o.opts.Logger.(workflowExecutionLogger); ok {
		wl.LogWorkflowExecution(workflowID, res.Total, res.Successful, res.Failed, time.Since(start))
	} else {
		o.opts.Logger.Info("workflow finished",
			"workflow_id", workflowID,
			"total", res.Total,
			"successful", res.Successful,
			"failed", res.Failed,
			"duration", time.Since(start))
	}
	return res
}

// workflowExecutionLogger is satisfied by loggers with a dedicated workflow
// helper, such as logging.HiveLogger.
type workflowExecutionLogger interface {
	LogWorkflowExecution(workflowID string, total, successful, failed int, dur time.Duration)
}

// Workflow returns the ordered task id list recorded under workflowID.
func (o *Orchestrator) Workflow(workflowID string) ([]string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ids, ok := o.workflows[workflowID]
	if !ok {
		return nil, false
	}
	return append([]string(nil), ids...), true
}
