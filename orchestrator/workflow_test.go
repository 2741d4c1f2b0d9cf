package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiveq/agenthive/core"
)

// orderedAgent records the order tasks reach it.
type orderedAgent struct {
	stubAgent
	order *[]string
	mtx   *sync.Mutex
}

func (a *orderedAgent) Execute(ctx context.Context, task string) (string, error) {
	a.mtx.Lock()
	*a.order = append(*a.order, task)
	a.mtx.Unlock()
	return a.stubAgent.Execute(ctx, task)
}

func TestWorkflow_SequentialPreservesOrder(t *testing.T) {
	o, _ := newTestOrchestrator()
	var order []string
	var mtx sync.Mutex
	o.RegisterAgent(&orderedAgent{
		stubAgent: stubAgent{name: "solo", results: map[string]string{}},
		order:     &order,
		mtx:       &mtx,
	}, []string{"work"})

	res := o.ExecuteWorkflow(context.Background(), "wf1", []string{"step one", "step two", "step three"}, false)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Successful)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, []string{"step one", "step two", "step three"}, order)

	// Result map keys match the created task ids in order.
	require.Len(t, res.TaskIDs, 3)
	for _, id := range res.TaskIDs {
		r, ok := res.Results[id]
		require.True(t, ok)
		assert.True(t, r.Success)
		assert.Equal(t, core.TaskStatusCompleted, r.Task.Status)
	}

	ids, ok := o.Workflow("wf1")
	require.True(t, ok)
	assert.Equal(t, res.TaskIDs, ids)
}

func TestWorkflow_ParallelCompletesAll(t *testing.T) {
	o, _ := newTestOrchestrator()
	o.RegisterAgent(newStubAgent("solo", "", "work"), nil)

	res := o.ExecuteWorkflow(context.Background(), "wf-par", []string{"a", "b", "c", "d"}, true)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 4, res.Successful)
	for _, id := range res.TaskIDs {
		st, ok := o.TaskStatus(id)
		require.True(t, ok)
		assert.Equal(t, core.TaskStatusCompleted, st)
	}
}

func TestWorkflow_MixedOutcomes(t *testing.T) {
	o, _ := newTestOrchestrator()
	flaky := newStubAgent("flaky", "", "work")
	flaky.err = errors.New("midway failure")
	o.RegisterAgent(flaky, nil)

	res := o.ExecuteWorkflow(context.Background(), "wf-fail", []string{"a", "b"}, false)
	assert.Equal(t, 0, res.Successful)
	assert.Equal(t, 2, res.Failed)
	for _, id := range res.TaskIDs {
		assert.Equal(t, core.TaskStatusFailed, res.Results[id].Task.Status)
		assert.Equal(t, "midway failure", res.Results[id].Task.Error)
	}
}

func TestWorkflow_UnknownLookup(t *testing.T) {
	o, _ := newTestOrchestrator()
	_, ok := o.Workflow("never-ran")
	assert.False(t, ok)
}

func TestWorkflow_CountsInStatus(t *testing.T) {
	o, _ := newTestOrchestrator()
	o.RegisterAgent(newStubAgent("solo", "", "work"), nil)

	o.ExecuteWorkflow(context.Background(), "wf1", []string{"a"}, false)
	o.ExecuteWorkflow(context.Background(), "wf2", []string{"b"}, false)

	st := o.Status()
	assert.Equal(t, 2, st.ActiveWorkflows)
	assert.Equal(t, 2, st.TotalTasks)
}
