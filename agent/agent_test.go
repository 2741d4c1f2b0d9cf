package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hiveq/agenthive/broker"
	"github.com/hiveq/agenthive/core"
	"github.com/hiveq/agenthive/memory"
	"github.com/hiveq/agenthive/model"
)

// MockWorkerImpl for asserting contract invocations
type MockWorkerImpl struct{ mock.Mock }

func (m *MockWorkerImpl) Execute(ctx context.Context, task string) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}

func newTestAgent(t *testing.T, b *broker.Broker, name string, worker core.Worker, optFns ...func(o *Options)) *Agent {
	t.Helper()
	a := New(Profile{Name: name, Role: "tester", Capabilities: []string{"test"}}, worker, b, optFns...)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// receiveReply drains the requester's mailbox with a generous deadline.
func receiveReply(t *testing.T, b *broker.Broker, name string) core.Message {
	t.Helper()
	msg, err := b.Receive(context.Background(), name, 3*time.Second)
	require.NoError(t, err)
	return msg
}

func TestAgent_RegistersMailboxOnConstruction(t *testing.T) {
	b := broker.New()
	newTestAgent(t, b, "worker", model.NewMockWorker())
	assert.True(t, b.IsRegistered("worker"))
}

func TestAgent_ExecuteDelegatesAndRemembers(t *testing.T) {
	b := broker.New()
	mem := memory.New("worker")
	mock := model.NewMockWorker()
	mock.AddResponse("summarize findings", "the summary")

	a := newTestAgent(t, b, "worker", mock, func(o *Options) { o.Memory = mem })

	result, err := a.Execute(context.Background(), "summarize findings")
	require.NoError(t, err)
	assert.Equal(t, "the summary", result)
	assert.Equal(t, 1, a.TaskCount())

	recalled := mem.Search(memory.Query{Tags: []string{"task"}})
	require.Len(t, recalled, 1)
	assert.Contains(t, recalled[0].Content, "summarize findings")
	assert.Equal(t, []string{"summarize findings"}, a.TaskHistory())
}

func TestAgent_ExecutePassesTaskToContract(t *testing.T) {
	b := broker.New()
	worker := new(MockWorkerImpl)
	worker.On("Execute", mock.Anything, "verify the claim").Return("verified", nil).Once()

	a := newTestAgent(t, b, "worker", worker)

	result, err := a.Execute(context.Background(), "verify the claim")
	require.NoError(t, err)
	assert.Equal(t, "verified", result)
	worker.AssertExpectations(t)
}

func TestAgent_ExecuteFailureCountsButDoesNotRemember(t *testing.T) {
	b := broker.New()
	mem := memory.New("worker")
	mock := model.NewMockWorker()
	mock.FailWith(errors.New("model unavailable"))

	a := newTestAgent(t, b, "worker", mock, func(o *Options) { o.Memory = mem })

	_, err := a.Execute(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, 1, a.TaskCount())
	assert.Empty(t, mem.Search(memory.Query{Tags: []string{"task"}}))
}

func TestAgent_AutonomousTaskRequestReply(t *testing.T) {
	b := broker.New()
	b.Register("requester")
	mock := model.NewMockWorker()
	mock.AddResponse("compile report", "report compiled")

	a := newTestAgent(t, b, "worker", mock, func(o *Options) { o.ReceiveTimeout = 50 * time.Millisecond })
	require.NoError(t, a.StartAutonomous(context.Background()))

	req := core.NewMessage("requester", "worker", core.TaskRequest{TaskID: "t1", Description: "compile report"})
	require.True(t, b.Send(req))

	reply := receiveReply(t, b, "requester")
	assert.Equal(t, core.MessageTypeTaskResponse, reply.Type)
	assert.Equal(t, req.ID, reply.ThreadID, "reply must correlate to the request message")

	resp, ok := reply.Payload.(core.TaskResponse)
	require.True(t, ok)
	assert.Equal(t, "t1", resp.TaskID)
	assert.Equal(t, "report compiled", resp.Result)
}

func TestAgent_AutonomousErrorReport(t *testing.T) {
	b := broker.New()
	b.Register("requester")
	mock := model.NewMockWorker()
	mock.FailWith(errors.New("out of tokens"))

	a := newTestAgent(t, b, "worker", mock, func(o *Options) { o.ReceiveTimeout = 50 * time.Millisecond })
	require.NoError(t, a.StartAutonomous(context.Background()))

	req := core.NewMessage("requester", "worker", core.TaskRequest{TaskID: "t1", Description: "anything"})
	require.True(t, b.Send(req))

	reply := receiveReply(t, b, "requester")
	assert.Equal(t, core.MessageTypeErrorReport, reply.Type)
	assert.Equal(t, req.ID, reply.ThreadID)

	rep, ok := reply.Payload.(core.ErrorReport)
	require.True(t, ok)
	assert.Equal(t, "t1", rep.TaskID)
	assert.Contains(t, rep.Error, "out of tokens")
}

func TestAgent_CustomHandlerOverridesDefault(t *testing.T) {
	b := broker.New()
	b.Register("requester")

	a := newTestAgent(t, b, "worker", model.NewMockWorker(), func(o *Options) { o.ReceiveTimeout = 50 * time.Millisecond })

	handled := make(chan core.Message, 1)
	a.Handle(core.MessageTypeTaskRequest, func(ctx context.Context, msg core.Message) error {
		handled <- msg
		return nil
	})
	require.NoError(t, a.StartAutonomous(context.Background()))

	require.True(t, b.Send(core.NewMessage("requester", "worker", core.TaskRequest{TaskID: "t1"})))

	select {
	case msg := <-handled:
		assert.Equal(t, core.MessageTypeTaskRequest, msg.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("custom handler was not invoked")
	}
	// Default reply path is suppressed by the custom handler.
	assert.Equal(t, 0, b.PendingCount("requester"))
}

func TestAgent_InformationShareIsRemembered(t *testing.T) {
	b := broker.New()
	b.Register("peer")
	mem := memory.New("worker")

	a := newTestAgent(t, b, "worker", model.NewMockWorker(), func(o *Options) {
		o.Memory = mem
		o.ReceiveTimeout = 50 * time.Millisecond
	})
	require.NoError(t, a.StartAutonomous(context.Background()))

	require.True(t, b.Send(core.NewMessage("peer", "worker", core.InformationShare{Info: "deploy window is friday"})))

	require.Eventually(t, func() bool {
		return len(mem.Search(memory.Query{Tags: []string{"shared"}})) == 1
	}, 2*time.Second, 20*time.Millisecond)

	recalled := mem.Search(memory.Query{Tags: []string{"shared"}})
	assert.Contains(t, recalled[0].Content, "peer")
	assert.Contains(t, recalled[0].Content, "deploy window is friday")
}

func TestAgent_StartIsIdempotentAndRestartable(t *testing.T) {
	b := broker.New()
	a := newTestAgent(t, b, "worker", model.NewMockWorker(), func(o *Options) { o.ReceiveTimeout = 20 * time.Millisecond })

	ctx := context.Background()
	require.NoError(t, a.StartAutonomous(ctx))
	require.NoError(t, a.StartAutonomous(ctx), "second start is a no-op")
	assert.True(t, a.IsAutonomous())

	require.NoError(t, a.StopAutonomous())
	assert.False(t, a.IsAutonomous())
	require.NoError(t, a.StopAutonomous(), "second stop is a no-op")

	require.NoError(t, a.StartAutonomous(ctx), "restart after stop must work")
	assert.True(t, a.IsAutonomous())
}

func TestAgent_LoopStopsOnContextCancel(t *testing.T) {
	b := broker.New()
	a := newTestAgent(t, b, "worker", model.NewMockWorker(), func(o *Options) { o.ReceiveTimeout = 20 * time.Millisecond })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.StartAutonomous(ctx))
	cancel()

	require.Eventually(t, func() bool {
		// StopAutonomous joins the already-exited goroutine and resets
		// the handles.
		_ = a.StopAutonomous()
		return !a.IsAutonomous()
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAgent_PeerMessaging(t *testing.T) {
	b := broker.New()
	alice := newTestAgent(t, b, "alice", model.NewMockWorker())
	newTestAgent(t, b, "bob", model.NewMockWorker())

	assert.True(t, alice.DelegateTask("bob", "review the draft"))
	assert.True(t, alice.ShareInformation("bob", "draft is in /docs"))
	assert.True(t, alice.RequestCollaboration("bob", "launch", "pair on the rollout plan"))
	assert.False(t, alice.DelegateTask("ghost", "nothing"), "unknown recipients are soft failures")

	assert.Equal(t, 3, b.PendingCount("bob"))

	msg, err := b.Receive(context.Background(), "bob", time.Second)
	require.NoError(t, err)
	assert.Equal(t, core.MessageTypeTaskRequest, msg.Type)
}

func TestAgent_CloseFlushesMemory(t *testing.T) {
	b := broker.New()
	path := filepath.Join(t.TempDir(), "worker.json")
	mem := memory.New("worker")
	mem.Add("persist me", 3)

	a := New(Profile{Name: "worker"}, model.NewMockWorker(), b, func(o *Options) {
		o.Memory = mem
		o.MemoryPath = path
	})
	require.NoError(t, a.Close())

	restored := memory.New("worker")
	require.True(t, restored.LoadFromFile(path))
	assert.Equal(t, 1, restored.ShortTermLen())
}
