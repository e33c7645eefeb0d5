package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/campusdesk/campusdesk/agent"
	"github.com/campusdesk/campusdesk/core"
	"github.com/campusdesk/campusdesk/logging"
	"github.com/campusdesk/campusdesk/model"
	"github.com/campusdesk/campusdesk/tool"
)

// Clear operation outcomes.
const (
	StatusSuccess = "success"
	StatusNoop    = "noop"
)

// DefaultFallbackMessage is returned to users when generation fails.
const DefaultFallbackMessage = "I'm sorry, I ran into a problem answering that. Please try again."

// ErrEmptyQuery is returned when a query contains no text.
var ErrEmptyQuery = errors.New("query text must not be empty")

// Reply is the outcome of one handled query.
type Reply struct {
	Text             string `json:"text"`
	Agent            string `json:"agent"`
	AgentDisplayName string `json:"agent_display_name"`
	SessionID        string `json:"session_id"`
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives structured routing events. Defaults to NoOpLogger.
	Logger logging.Logger
	// RequestTimeout bounds one full query (including a handoff re-invocation
	// and tool rounds). Exceeding it surfaces as a generation failure.
	RequestTimeout time.Duration
	// MaxToolRounds limits model re-invocations while resolving tool calls
	// within a single agent turn.
	MaxToolRounds int
	// FallbackMessage is the user-visible apology on generation failure.
	FallbackMessage string
}

// instrumentor is the optional call-metrics surface a Logger can implement,
// as *logging.DeskLogger does. When the configured logger provides it, tool
// and model calls are recorded through it instead of plain log lines.
type instrumentor interface {
	LogToolCall(tool string, dur time.Duration, success bool, err error)
	LogModelCall(model string, tokens int, dur time.Duration, success bool, err error)
}

// Orchestrator routes queries to agents and owns the handoff state machine.
// Public methods are safe for concurrent use.
type Orchestrator struct {
	registry *agent.Registry
	llm      model.Model
	sessions core.SessionStore
	logger   logging.Logger
	instr    instrumentor

	requestTimeout  time.Duration
	maxToolRounds   int
	fallbackMessage string

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is one per-session mutex entry, refcounted so the map entry can
// be dropped once the last holder releases it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// New constructs an Orchestrator with optional overrides.
func New(registry *agent.Registry, llm model.Model, sessions core.SessionStore, optFns ...func(o *Options)) (*Orchestrator, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry must not be nil")
	}
	if llm == nil {
		return nil, fmt.Errorf("model must not be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store must not be nil")
	}

	opts := Options{
		Logger:          logging.NoOpLogger{},
		RequestTimeout:  60 * time.Second,
		MaxToolRounds:   4,
		FallbackMessage: DefaultFallbackMessage,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	instr, _ := opts.Logger.(instrumentor)

	return &Orchestrator{
		registry:        registry,
		llm:             llm,
		sessions:        sessions,
		logger:          opts.Logger,
		instr:           instr,
		requestTimeout:  opts.RequestTimeout,
		maxToolRounds:   opts.MaxToolRounds,
		fallbackMessage: opts.FallbackMessage,
		locks:           make(map[string]*sessionLock),
	}, nil
}

// HandleQuery processes one user query on a session, creating the session on
// first contact. The returned Reply names the agent that produced the answer.
//
// On generation failure the session is left untouched and the Reply carries
// the fallback apology alongside a *core.GenerationError, so callers can both
// display something and detect the failure.
func (o *Orchestrator) HandleQuery(ctx context.Context, sessionID, text string) (*Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	if sessionID == "" {
		sessionID = o.sessions.NewID()
	}

	unlock := o.lockSession(sessionID)
	defer unlock()

	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		sess = core.NewSession(sessionID, o.registry.Default().Name)
	}

	active := o.resolveActiveAgent(sess)

	history := toMessages(sess.Turns())
	history = append(history, model.Message{Role: core.RoleUser, Content: text})

	ctx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	resp, target, err := o.invoke(ctx, active, history)
	if err != nil {
		return o.failReply(sessionID, active, err)
	}

	responder := active
	if target != "" {
		if o.registry.Allowed(active.Name, target) {
			next, _ := o.registry.Get(target)
			o.logger.Info("orchestrator.handoff", "session_id", sessionID, "from", active.Name, "to", next.Name)

			// The handoff consumes no user turn: the target agent answers the
			// original query against the same history in this round trip.
			resp, target, err = o.invoke(ctx, next, history)
			if err != nil {
				return o.failReply(sessionID, next, err)
			}
			if target != "" {
				// One hop per query; a chained transfer waits for the next turn.
				o.logger.Debug("orchestrator.handoff.deferred", "session_id", sessionID, "from", next.Name, "to", target)
			}
			responder = next
		} else {
			o.logger.Warn("orchestrator.handoff.invalid_target", "session_id", sessionID, "agent", active.Name, "target", target)
		}
	}

	// No text at this point means the model produced nothing usable, e.g. its
	// only tool call was a malformed transfer. Fail rather than commit an
	// empty assistant turn.
	if strings.TrimSpace(resp.Text) == "" {
		return o.failReply(sessionID, responder, errors.New("model returned an empty reply"))
	}

	sess.AddTurn(core.Turn{Role: core.RoleUser, Content: text})
	sess.AddTurn(core.Turn{Role: core.RoleAssistant, Content: resp.Text, Agent: responder.Name})
	sess.SetActiveAgent(responder.Name)

	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &Reply{
		Text:             resp.Text,
		Agent:            responder.Name,
		AgentDisplayName: responder.DisplayName,
		SessionID:        sessionID,
	}, nil
}

// ClearSession empties a session's history and resets its active agent to the
// default. Clearing an unknown session is a silent no-op. Idempotent.
func (o *Orchestrator) ClearSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return StatusNoop, nil
	}

	unlock := o.lockSession(sessionID)
	defer unlock()

	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return StatusNoop, nil
	}

	sess.Reset(o.registry.Default().Name)
	if err := o.sessions.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	o.logger.Info("orchestrator.session.cleared", "session_id", sessionID)
	return StatusSuccess, nil
}

// invoke runs one agent turn: model call plus any tool rounds. It returns the
// final response together with the first transfer target signaled, if any.
// Transfer calls preempt tool execution; additional transfer calls in the
// same response are ignored.
func (o *Orchestrator) invoke(ctx context.Context, ag *agent.Agent, history []model.Message) (*model.Response, string, error) {
	msgs := history

	for round := 0; round <= o.maxToolRounds; round++ {
		req := model.Request{
			Instructions: ag.Instructions,
			Messages:     msgs,
			Tools:        o.toolDefinitions(ag),
		}

		start := time.Now()
		resp, err := o.llm.Generate(ctx, req)
		o.logModelCall(ag, resp, time.Since(start), err)
		if err != nil {
			return nil, "", err
		}

		target, execCalls := o.splitToolCalls(ag, resp.ToolCalls)
		if target != "" {
			return resp, target, nil
		}
		if len(execCalls) == 0 {
			return resp, "", nil
		}

		msgs = append(msgs, model.Message{Role: "assistant", Content: resp.Text, ToolCalls: execCalls})
		for _, tc := range execCalls {
			msgs = append(msgs, o.executeTool(ctx, ag, tc))
		}
	}

	return nil, "", fmt.Errorf("tool round limit (%d) exceeded for agent %q", o.maxToolRounds, ag.Name)
}

// splitToolCalls separates the first valid transfer signal from ordinary tool
// calls. Extra transfer calls beyond the first are dropped with a log line.
func (o *Orchestrator) splitToolCalls(ag *agent.Agent, calls []model.ToolCall) (string, []model.ToolCall) {
	var target string
	var execCalls []model.ToolCall
	for _, tc := range calls {
		if tc.Function.Name != tool.TransferToolName {
			execCalls = append(execCalls, tc)
			continue
		}
		parsed, err := tool.ParseTransferTarget(tc.Function.Arguments)
		if err != nil {
			o.logger.Warn("orchestrator.handoff.malformed", "agent", ag.Name, "error", err.Error())
			continue
		}
		if target != "" {
			o.logger.Warn("orchestrator.handoff.extra_signal", "agent", ag.Name, "ignored_target", parsed)
			continue
		}
		target = parsed
	}
	return target, execCalls
}

// executeTool runs one registered tool call and wraps the outcome as a tool
// message. Unknown tools and execution errors become error strings handed
// back to the model rather than request failures.
func (o *Orchestrator) executeTool(ctx context.Context, ag *agent.Agent, tc model.ToolCall) model.Message {
	msg := model.Message{Role: "tool", ToolCallID: tc.ID, Name: tc.Function.Name}

	t, ok := ag.Tool(tc.Function.Name)
	if !ok {
		o.logger.Warn("orchestrator.tool.unknown", "agent", ag.Name, "tool", tc.Function.Name)
		msg.Content = fmt.Sprintf("error: tool %q is not available", tc.Function.Name)
		return msg
	}

	var args map[string]any
	if len(tc.Function.Arguments) > 0 {
		if err := json.Unmarshal(tc.Function.Arguments, &args); err != nil {
			msg.Content = fmt.Sprintf("error: malformed arguments: %v", err)
			return msg
		}
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	o.logToolCall(ag, tc.Function.Name, time.Since(start), err)
	if err != nil {
		msg.Content = fmt.Sprintf("error: %v", err)
		return msg
	}

	switch v := result.(type) {
	case string:
		msg.Content = v
	default:
		raw, merr := json.Marshal(v)
		if merr != nil {
			msg.Content = fmt.Sprintf("%v", v)
		} else {
			msg.Content = string(raw)
		}
	}
	return msg
}

// logModelCall records one model round trip, preferring the logger's
// instrumentation surface when it has one.
func (o *Orchestrator) logModelCall(ag *agent.Agent, resp *model.Response, dur time.Duration, err error) {
	if o.instr != nil {
		tokens := 0
		if resp != nil && resp.Usage != nil {
			tokens = resp.Usage.TotalTokens
		}
		o.instr.LogModelCall(o.llm.Info().Name, tokens, dur, err == nil, err)
		return
	}
	if err != nil {
		return
	}
	o.logger.Debug("orchestrator.model.generated", "agent", ag.Name, "duration_ms", dur.Milliseconds(), "tool_calls", len(resp.ToolCalls))
}

// logToolCall records one tool execution, preferring the logger's
// instrumentation surface when it has one.
func (o *Orchestrator) logToolCall(ag *agent.Agent, name string, dur time.Duration, err error) {
	if o.instr != nil {
		o.instr.LogToolCall(name, dur, err == nil, err)
		return
	}
	o.logger.Info("orchestrator.tool.executed", "agent", ag.Name, "tool", name, "duration_ms", dur.Milliseconds(), "error", err != nil)
}

// toolDefinitions exposes the agent's tool belt plus, when the agent has
// handoff peers, the transfer signal restricted to its allowed set.
func (o *Orchestrator) toolDefinitions(ag *agent.Agent) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(ag.Tools)+1)
	for _, t := range ag.Tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	if len(ag.Handoffs) > 0 {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        tool.TransferToolName,
				Description: tool.TransferDescription,
				Parameters:  tool.TransferParameters(ag.Handoffs),
			},
		})
	}
	return defs
}

// resolveActiveAgent maps the session's stored agent name to a registry
// entry, clamping corrupt state back to the default agent.
func (o *Orchestrator) resolveActiveAgent(sess *core.Session) *agent.Agent {
	name := sess.GetActiveAgent()
	ag, err := o.registry.Get(name)
	if err != nil {
		o.logger.Warn("orchestrator.session.unknown_agent", "session_id", sess.ID, "agent", name)
		return o.registry.Default()
	}
	return ag
}

// failReply packages a generation failure: fallback text for display plus a
// typed error, with no session mutation.
func (o *Orchestrator) failReply(sessionID string, ag *agent.Agent, err error) (*Reply, error) {
	genErr := &core.GenerationError{Agent: ag.Name, Err: err}
	o.logger.Error("orchestrator.generation.failed", "session_id", sessionID, "agent", ag.Name, "error", err.Error())
	return &Reply{
		Text:             o.fallbackMessage,
		Agent:            ag.Name,
		AgentDisplayName: ag.DisplayName,
		SessionID:        sessionID,
	}, genErr
}

// lockSession serializes request handling per session id so concurrent
// requests cannot interleave the read-modify-append of history. Entries are
// refcounted and evicted once the last holder unlocks, keeping the map from
// accumulating one mutex per session id ever seen.
func (o *Orchestrator) lockSession(id string) func() {
	o.mu.Lock()
	l, ok := o.locks[id]
	if !ok {
		l = &sessionLock{}
		o.locks[id] = l
	}
	l.refs++
	o.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		o.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(o.locks, id)
		}
		o.mu.Unlock()
	}
}

// toMessages converts persisted turns into provider-neutral messages.
func toMessages(turns []core.Turn) []model.Message {
	msgs := make([]model.Message, 0, len(turns)+1)
	for _, t := range turns {
		msgs = append(msgs, model.Message{Role: t.Role, Content: t.Content, Agent: t.Agent})
	}
	return msgs
}
