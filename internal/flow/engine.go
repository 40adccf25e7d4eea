package flow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	"github.com/TalentScoutHQ/ScreenFlow/internal/validate"
)

// session pairs a conversation context with its own lock so one slow turn
// (question generation) does not block other sessions.
type session struct {
	mu   sync.Mutex
	conv *models.ConversationContext
}

// Engine is the turn interface over the interview flow. It owns the session
// registry and enforces the turn boundary invariants: exit keywords
// short-circuit before dispatch, and a handler panic restores the pre-turn
// context so nothing already collected is lost.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*session
	flow     *InterviewFlow
}

// NewEngine creates a conversation engine backed by the given interview flow.
func NewEngine(flow *InterviewFlow) *Engine {
	return &Engine{
		sessions: make(map[string]*session),
		flow:     flow,
	}
}

// getSession returns the session for an ID, creating a fresh one at the
// greeting state on first contact.
func (e *Engine) getSession(sessionID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[sessionID]
	if !ok {
		s = &session{conv: models.NewConversationContext()}
		e.sessions[sessionID] = s
		slog.Debug("Engine.getSession: session created", "sessionID", sessionID)
	}
	return s
}

// ProcessTurn handles one user turn for a session and returns the assistant
// reply with a snapshot of the post-turn context. Turns for one session are
// serialized.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, input string) (reply string, snap models.ContextSnapshot) {
	s := e.getSession(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	// Exit keywords end the conversation from any state without touching the
	// context, so a resumed session picks up exactly where it stopped.
	if validate.IsExitKeyword(input) {
		slog.Info("Engine.ProcessTurn: exit keyword received", "sessionID", sessionID, "state", s.conv.CurrentState)
		e.flow.commitAsync(sessionID, s.conv, exitStatus(s.conv))
		return exitMessage, s.conv.Snapshot()
	}

	// A handler panic must not corrupt the session. The pre-turn clone is
	// restored and the candidate gets a generic apology.
	before := s.conv.Clone()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Engine.ProcessTurn: handler panicked, restoring pre-turn context", "sessionID", sessionID, "state", before.CurrentState, "panic", r)
			s.conv = before
			reply = genericApology
			snap = before.Snapshot()
		}
	}()

	reply = e.flow.dispatch(ctx, sessionID, s.conv, input)
	return reply, s.conv.Snapshot()
}

// exitStatus picks the persisted status for a session ended by an exit
// keyword. A finished interview stays completed; anything earlier is
// cancelled.
func exitStatus(conv *models.ConversationContext) models.InterviewStatus {
	if conv.CurrentState == models.StateCompleted {
		return models.StatusCompleted
	}
	return models.StatusCancelled
}

// InitialMessage returns the opening greeting for a session and moves it into
// name collection, so the candidate's first reply is read as their name. A
// session already past the greeting keeps its state and just gets the
// greeting text back.
func (e *Engine) InitialMessage(sessionID string) string {
	s := e.getSession(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conv.CurrentState == models.StateGreeting {
		s.conv.TransitionTo(models.StateCollectingName)
		s.conv.AwaitingField = models.FieldCandidateName
	}
	return welcomeMessage
}

// Reset discards a session's context and replaces it with a fresh one at the
// greeting state.
func (e *Engine) Reset(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[sessionID] = &session{conv: models.NewConversationContext()}
	slog.Info("Engine.Reset: session reset", "sessionID", sessionID)
}

// Snapshot returns the current context snapshot for a session, or false if
// the session does not exist.
func (e *Engine) Snapshot(sessionID string) (models.ContextSnapshot, bool) {
	e.mu.Lock()
	s, ok := e.sessions[sessionID]
	e.mu.Unlock()
	if !ok {
		return models.ContextSnapshot{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Snapshot(), true
}
