package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/campusdesk/campusdesk/agent"
	"github.com/campusdesk/campusdesk/core"
	"github.com/campusdesk/campusdesk/internal/testutil"
	"github.com/campusdesk/campusdesk/logging"
	"github.com/campusdesk/campusdesk/model"
	"github.com/campusdesk/campusdesk/retrieval"
	"github.com/campusdesk/campusdesk/session"
	"github.com/campusdesk/campusdesk/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingModel wraps MockModel capturing every request for assertions.
type recordingModel struct {
	*model.MockModel
	mu       sync.Mutex
	requests []model.Request
}

func newRecordingModel() *recordingModel {
	return &recordingModel{MockModel: model.NewMockModel("test-model", "mock")}
}

func (m *recordingModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.MockModel.Generate(ctx, req)
}

func (m *recordingModel) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// failingModel always errors, simulating a provider outage.
type failingModel struct{}

func (failingModel) Generate(context.Context, model.Request) (*model.Response, error) {
	return nil, fmt.Errorf("connection reset by peer")
}

func (failingModel) Info() model.Info { return model.Info{Name: "down", Provider: "mock"} }

func newTestRegistry(t *testing.T) *agent.Registry {
	t.Helper()
	catalog := retrieval.DefaultCourseCatalog()
	ix, err := retrieval.Build(context.Background(), retrieval.NewMockEmbedder(64), catalog)
	require.NoError(t, err)
	campus := retrieval.DefaultCampusCorpus()
	campusIx, err := retrieval.Build(context.Background(), retrieval.NewMockEmbedder(64), campus)
	require.NoError(t, err)
	reg, err := agent.NewUniversityRegistry(ix, catalog, campusIx, campus)
	require.NoError(t, err)
	return reg
}

func newTestOrchestrator(t *testing.T, llm model.Model) (*Orchestrator, *session.InMemoryStore) {
	t.Helper()
	store := session.NewInMemoryStore()
	o, err := New(newTestRegistry(t), llm, store)
	require.NoError(t, err)
	return o, store
}

func transferResponse(text string, targets ...string) *model.Response {
	resp := &model.Response{Text: text, FinishReason: "tool_calls"}
	for i, target := range targets {
		args, _ := json.Marshal(map[string]string{"agent": target})
		resp.ToolCalls = append(resp.ToolCalls, model.ToolCall{
			ID:       fmt.Sprintf("call_%d", i+1),
			Type:     "function",
			Function: model.ToolCallFunction{Name: "transfer_to_agent", Arguments: args},
		})
	}
	return resp
}

func TestHandleQuery_RoutesToCourseAdvisor(t *testing.T) {
	llm := newRecordingModel()
	llm.Enqueue(transferResponse("", agent.CourseAdvisorName))
	llm.EnqueueText("DS200 is a great starting point for data science.")

	o, store := newTestOrchestrator(t, llm)

	reply, err := o.HandleQuery(context.Background(), "s1", "What courses should I take for data science?")
	require.NoError(t, err)
	assert.Equal(t, agent.CourseAdvisorName, reply.Agent)
	assert.Equal(t, "Course Advisor Agent", reply.AgentDisplayName)
	assert.Equal(t, "DS200 is a great starting point for data science.", reply.Text)
	assert.Equal(t, "s1", reply.SessionID)

	// Exactly two turns committed: the user query and the advisor's reply.
	sess, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	turns := sess.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, core.RoleUser, turns[0].Role)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
	assert.Equal(t, agent.CourseAdvisorName, turns[1].Agent)

	// The handoff applies to subsequent turns: stored active agent matches
	// the agent that produced this reply.
	assert.Equal(t, agent.CourseAdvisorName, sess.GetActiveAgent())

	// The target agent answered the original query in the same round trip.
	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[1].Instructions, "Course Advisor Agent")
	assert.Equal(t, "What courses should I take for data science?", reqs[1].Messages[len(reqs[1].Messages)-1].Content)
}

func TestHandleQuery_FollowUpStaysWithActiveAgent(t *testing.T) {
	llm := newRecordingModel()
	llm.Enqueue(transferResponse("", agent.CourseAdvisorName))
	llm.EnqueueText("DS200 is a great starting point.")
	llm.EnqueueText("You're welcome!")

	o, store := newTestOrchestrator(t, llm)
	ctx := context.Background()

	_, err := o.HandleQuery(ctx, "s1", "What courses should I take for data science?")
	require.NoError(t, err)

	reply, err := o.HandleQuery(ctx, "s1", "thanks")
	require.NoError(t, err)
	assert.Equal(t, agent.CourseAdvisorName, reply.Agent)

	sess, _ := store.Load(ctx, "s1")
	assert.Equal(t, agent.CourseAdvisorName, sess.GetActiveAgent())
	assert.Equal(t, 4, sess.Len())

	// The follow-up went straight to the advisor, no extra invocation.
	assert.Len(t, llm.Requests(), 3)
}

func TestHandleQuery_InvalidHandoffTargetClamped(t *testing.T) {
	llm := newRecordingModel()
	// The course advisor may not transfer back to triage; the signal must be
	// clamped to "no handoff" rather than failing the request.
	llm.Enqueue(transferResponse("Let me answer that myself.", agent.TriageAgentName))

	o, store := newTestOrchestrator(t, llm)
	ctx := context.Background()

	seed := testutil.NewSessionBuilder("s1").ActiveAgent(agent.CourseAdvisorName).Build()
	require.NoError(t, store.Save(ctx, seed))

	reply, err := o.HandleQuery(ctx, "s1", "Can you route me somewhere?")
	require.NoError(t, err)
	assert.Equal(t, agent.CourseAdvisorName, reply.Agent)
	assert.Equal(t, "Let me answer that myself.", reply.Text)

	sess, _ := store.Load(ctx, "s1")
	assert.Equal(t, agent.CourseAdvisorName, sess.GetActiveAgent())
	assert.Len(t, llm.Requests(), 1)
}

func TestHandleQuery_OnlyFirstTransferSignalHonored(t *testing.T) {
	llm := newRecordingModel()
	llm.Enqueue(transferResponse("", agent.CourseAdvisorName, agent.UniversityPoetName))
	llm.EnqueueText("Here is your course plan.")

	o, store := newTestOrchestrator(t, llm)

	reply, err := o.HandleQuery(context.Background(), "s1", "courses and maybe a poem?")
	require.NoError(t, err)
	assert.Equal(t, agent.CourseAdvisorName, reply.Agent)

	sess, _ := store.Load(context.Background(), "s1")
	assert.Equal(t, agent.CourseAdvisorName, sess.GetActiveAgent())
}

func TestHandleQuery_SecondHopDeferred(t *testing.T) {
	llm := newRecordingModel()
	llm.Enqueue(transferResponse("", agent.CourseAdvisorName))
	// The target agent immediately signals a further transfer; it must be
	// deferred to the next user turn, not chained.
	llm.Enqueue(transferResponse("Course question first, poetry later.", agent.UniversityPoetName))

	o, store := newTestOrchestrator(t, llm)

	reply, err := o.HandleQuery(context.Background(), "s1", "recommend a course, poetically")
	require.NoError(t, err)
	assert.Equal(t, agent.CourseAdvisorName, reply.Agent)
	assert.Equal(t, "Course question first, poetry later.", reply.Text)

	sess, _ := store.Load(context.Background(), "s1")
	assert.Equal(t, agent.CourseAdvisorName, sess.GetActiveAgent())
	assert.Len(t, llm.Requests(), 2)
}

func TestHandleQuery_GenerationFailureLeavesSessionUntouched(t *testing.T) {
	o, store := newTestOrchestrator(t, failingModel{})
	ctx := context.Background()

	seed := testutil.NewSessionBuilder("s1").
		ActiveAgent(agent.CourseAdvisorName).
		Exchange("earlier", "earlier answer", agent.CourseAdvisorName).
		Build()
	require.NoError(t, store.Save(ctx, seed))

	reply, err := o.HandleQuery(ctx, "s1", "are you there?")

	var genErr *core.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, agent.CourseAdvisorName, genErr.Agent)
	require.NotNil(t, reply)
	assert.Equal(t, DefaultFallbackMessage, reply.Text)

	sess, _ := store.Load(ctx, "s1")
	assert.Equal(t, 2, sess.Len(), "no partial turn may be recorded")
	assert.Equal(t, agent.CourseAdvisorName, sess.GetActiveAgent())
}

func TestHandleQuery_GenerationFailureOnNewSessionPersistsNothing(t *testing.T) {
	o, store := newTestOrchestrator(t, failingModel{})

	_, err := o.HandleQuery(context.Background(), "", "hello")
	var genErr *core.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Zero(t, store.Len())
}

func TestHandleQuery_MalformedTransferOnlyIsGenerationFailure(t *testing.T) {
	// The response carries neither text nor an executable call: its only tool
	// call is a transfer with undecodable arguments.
	llm := newRecordingModel()
	llm.Enqueue(&model.Response{
		FinishReason: "tool_calls",
		ToolCalls: []model.ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: model.ToolCallFunction{Name: tool.TransferToolName, Arguments: []byte(`{"agent":`)},
		}},
	})

	o, store := newTestOrchestrator(t, llm)

	reply, err := o.HandleQuery(context.Background(), "s1", "help me plan my courses")
	var genErr *core.GenerationError
	require.ErrorAs(t, err, &genErr)
	require.NotNil(t, reply)
	assert.Equal(t, DefaultFallbackMessage, reply.Text)
	assert.Zero(t, store.Len(), "no empty assistant turn may be committed")
}

func TestHandleQuery_EmptyQuery(t *testing.T) {
	o, _ := newTestOrchestrator(t, newRecordingModel())

	_, err := o.HandleQuery(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestHandleQuery_GeneratesSessionID(t *testing.T) {
	llm := newRecordingModel()
	llm.EnqueueText("Hello! How can I help?")

	o, store := newTestOrchestrator(t, llm)

	reply, err := o.HandleQuery(context.Background(), "", "hello")
	require.NoError(t, err)
	require.NotEmpty(t, reply.SessionID)
	assert.Equal(t, agent.TriageAgentName, reply.Agent)

	sess, _ := store.Load(context.Background(), reply.SessionID)
	require.NotNil(t, sess)
	assert.Equal(t, 2, sess.Len())
}

func TestHandleQuery_UnknownStoredAgentClampedToDefault(t *testing.T) {
	llm := newRecordingModel()
	llm.EnqueueText("Welcome back.")

	o, store := newTestOrchestrator(t, llm)
	ctx := context.Background()

	corrupt := testutil.NewSessionBuilder("s1").ActiveAgent("decommissioned_agent").Build()
	require.NoError(t, store.Save(ctx, corrupt))

	reply, err := o.HandleQuery(ctx, "s1", "hello again")
	require.NoError(t, err)
	assert.Equal(t, agent.TriageAgentName, reply.Agent)
}

func TestHandleQuery_ToolLoopGroundsAdvisorReply(t *testing.T) {
	args, _ := json.Marshal(map[string]any{"interest": "data science", "count": 2})
	llm := newRecordingModel()
	llm.Enqueue(&model.Response{
		FinishReason: "tool_calls",
		ToolCalls: []model.ToolCall{{
			ID:       "call_rec",
			Type:     "function",
			Function: model.ToolCallFunction{Name: "recommend_courses", Arguments: args},
		}},
	})
	llm.EnqueueText("Based on the catalog, start with DS200.")

	o, store := newTestOrchestrator(t, llm)
	ctx := context.Background()

	seed := testutil.NewSessionBuilder("s1").ActiveAgent(agent.CourseAdvisorName).Build()
	require.NoError(t, store.Save(ctx, seed))

	reply, err := o.HandleQuery(ctx, "s1", "What should I take for data science?")
	require.NoError(t, err)
	assert.Equal(t, agent.CourseAdvisorName, reply.Agent)
	assert.Equal(t, "Based on the catalog, start with DS200.", reply.Text)

	// The second model request must carry the tool result.
	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	last := reqs[1].Messages[len(reqs[1].Messages)-1]
	assert.Equal(t, "tool", last.Role)
	assert.Equal(t, "call_rec", last.ToolCallID)
	assert.Contains(t, last.Content, "recommended courses")

	// Tool exchanges are working state, not conversation history.
	sess, _ := store.Load(ctx, "s1")
	assert.Equal(t, 2, sess.Len())
}

func TestHandleQuery_DeskLoggerInstrumentsCalls(t *testing.T) {
	var buf bytes.Buffer
	dl := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "json", Output: &buf, Component: "orchestrator"})

	args, _ := json.Marshal(map[string]any{"interest": "databases"})
	llm := newRecordingModel()
	llm.Enqueue(&model.Response{
		FinishReason: "tool_calls",
		ToolCalls: []model.ToolCall{{
			ID:       "call_rec",
			Type:     "function",
			Function: model.ToolCallFunction{Name: "recommend_courses", Arguments: args},
		}},
	})
	llm.EnqueueText("CS300 covers database systems.")

	store := session.NewInMemoryStore()
	o, err := New(newTestRegistry(t), llm, store, func(opt *Options) { opt.Logger = dl })
	require.NoError(t, err)
	ctx := context.Background()

	seed := testutil.NewSessionBuilder("s1").ActiveAgent(agent.CourseAdvisorName).Build()
	require.NoError(t, store.Save(ctx, seed))

	_, err = o.HandleQuery(ctx, "s1", "recommend a database course")
	require.NoError(t, err)

	// Tool and model calls flow through the logger's instrumentation surface.
	logs := buf.String()
	assert.Contains(t, logs, "Tool execution completed")
	assert.Contains(t, logs, `"tool_name":"recommend_courses"`)
	assert.Contains(t, logs, "Model call completed")
	assert.Contains(t, logs, `"model":"test-model"`)
	assert.Contains(t, logs, `"component":"orchestrator"`)
}

func TestHandleQuery_ToolRoundLimit(t *testing.T) {
	args, _ := json.Marshal(map[string]any{"interest": "loops"})
	call := model.ToolCall{ID: "call_x", Type: "function", Function: model.ToolCallFunction{Name: "recommend_courses", Arguments: args}}

	llm := newRecordingModel()
	for i := 0; i < 10; i++ {
		llm.Enqueue(&model.Response{FinishReason: "tool_calls", ToolCalls: []model.ToolCall{call}})
	}

	store := session.NewInMemoryStore()
	o, err := New(newTestRegistry(t), llm, store, func(opts *Options) {
		opts.MaxToolRounds = 2
	})
	require.NoError(t, err)

	ctx := context.Background()
	seed := testutil.NewSessionBuilder("s1").ActiveAgent(agent.CourseAdvisorName).Build()
	require.NoError(t, store.Save(ctx, seed))

	_, err = o.HandleQuery(ctx, "s1", "loop forever please")
	var genErr *core.GenerationError
	require.ErrorAs(t, err, &genErr)

	sess, _ := store.Load(ctx, "s1")
	assert.Zero(t, sess.Len())
}

func TestHandleQuery_TransferToolOfferedPerAgent(t *testing.T) {
	llm := newRecordingModel()
	llm.EnqueueText("Hello!")

	o, _ := newTestOrchestrator(t, llm)
	_, err := o.HandleQuery(context.Background(), "s1", "hi")
	require.NoError(t, err)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	var names []string
	for _, def := range reqs[0].Tools {
		names = append(names, def.Function.Name)
	}
	assert.Contains(t, names, "transfer_to_agent")
}

func TestClearSession(t *testing.T) {
	llm := newRecordingModel()
	llm.Enqueue(transferResponse("", agent.CourseAdvisorName))
	llm.EnqueueText("Take DS200.")

	o, store := newTestOrchestrator(t, llm)
	ctx := context.Background()

	_, err := o.HandleQuery(ctx, "s1", "data science courses?")
	require.NoError(t, err)

	status, err := o.ClearSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)

	sess, _ := store.Load(ctx, "s1")
	require.NotNil(t, sess)
	assert.Zero(t, sess.Len())
	assert.Equal(t, agent.TriageAgentName, sess.GetActiveAgent())

	// Idempotent: clearing again succeeds.
	status, err = o.ClearSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)
}

func TestClearSession_UnknownIsNoop(t *testing.T) {
	o, _ := newTestOrchestrator(t, newRecordingModel())

	status, err := o.ClearSession(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, StatusNoop, status)

	status, err = o.ClearSession(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, StatusNoop, status)
}

func TestActiveAgentAlwaysRegistered(t *testing.T) {
	llm := newRecordingModel()
	llm.Enqueue(transferResponse("", agent.UniversityPoetName))
	llm.EnqueueText("Autumn leaves falling")
	llm.Enqueue(transferResponse("", agent.SchedulingAssistant))
	llm.EnqueueText("Registration closes 09/15/2026.")
	llm.EnqueueText("Anything else?")

	reg := newTestRegistry(t)
	store := session.NewInMemoryStore()
	o, err := New(reg, llm, store)
	require.NoError(t, err)

	ctx := context.Background()
	queries := []string{"tell me about campus traditions", "when is registration?", "thanks"}
	for _, q := range queries {
		_, err := o.HandleQuery(ctx, "s1", q)
		require.NoError(t, err)

		sess, _ := store.Load(ctx, "s1")
		_, err = reg.Get(sess.GetActiveAgent())
		require.NoError(t, err, "session must never land on an unregistered agent")
	}
}

func TestHandleQuery_SerializesSameSession(t *testing.T) {
	llm := newRecordingModel()
	for i := 0; i < 8; i++ {
		llm.EnqueueText(fmt.Sprintf("reply %d", i))
	}

	o, store := newTestOrchestrator(t, llm)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := o.HandleQuery(ctx, "s1", fmt.Sprintf("query %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// All sixteen turns were committed without interleaving or loss, and
	// every user turn is directly followed by its assistant turn.
	sess, _ := store.Load(ctx, "s1")
	turns := sess.Turns()
	require.Len(t, turns, 16)
	for i := 0; i < len(turns); i += 2 {
		assert.Equal(t, core.RoleUser, turns[i].Role)
		assert.Equal(t, core.RoleAssistant, turns[i+1].Role)
	}

	// Once every request has released the session, its lock entry is gone.
	o.mu.Lock()
	assert.Empty(t, o.locks)
	o.mu.Unlock()
}

func TestHandleQuery_SessionLockEntriesEvicted(t *testing.T) {
	llm := newRecordingModel()
	llm.EnqueueText("first")
	llm.EnqueueText("second")

	o, _ := newTestOrchestrator(t, llm)
	ctx := context.Background()

	_, err := o.HandleQuery(ctx, "s1", "hello")
	require.NoError(t, err)
	_, err = o.HandleQuery(ctx, "s2", "hello")
	require.NoError(t, err)
	_, err = o.ClearSession(ctx, "s1")
	require.NoError(t, err)

	o.mu.Lock()
	defer o.mu.Unlock()
	assert.Empty(t, o.locks, "lock map must not retain an entry per session id")
}

func TestNew_Validation(t *testing.T) {
	reg := newTestRegistry(t)
	store := session.NewInMemoryStore()
	llm := newRecordingModel()

	_, err := New(nil, llm, store)
	assert.Error(t, err)
	_, err = New(reg, nil, store)
	assert.Error(t, err)
	_, err = New(reg, llm, nil)
	assert.Error(t, err)
}

func TestGenerationErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &core.GenerationError{Agent: "x", Err: inner}
	assert.ErrorIs(t, err, inner)
}
