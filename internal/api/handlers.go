// Package api provides HTTP handlers for ScreenFlow endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	"github.com/google/uuid"
)

// turnRequest is the body of POST /turn.
type turnRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// turnResult carries the assistant reply and the post-turn context snapshot.
type turnResult struct {
	SessionID string                 `json:"session_id"`
	Reply     string                 `json:"reply"`
	Context   models.ContextSnapshot `json:"context"`
}

// turnHandler processes one conversation turn for a session.
func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.turnHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.SessionID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("session_id is required"))
		return
	}

	reply, snap := s.engine.ProcessTurn(r.Context(), req.SessionID, req.Message)
	slog.Debug("Server.turnHandler: turn processed", "sessionID", req.SessionID, "state", snap.CurrentState)
	writeJSONResponse(w, http.StatusOK, models.Success(turnResult{
		SessionID: req.SessionID,
		Reply:     reply,
		Context:   snap,
	}))
}

// greetingHandler starts (or revisits) a session and returns the opening
// message. A missing session_id gets a freshly generated one so clients can
// bootstrap with a single call.
func (s *Server) greetingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
		slog.Debug("Server.greetingHandler: generated session ID", "sessionID", sessionID)
	}

	message := s.engine.InitialMessage(sessionID)
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{
		"session_id": sessionID,
		"message":    message,
	}))
}

// resetRequest is the body of POST /reset.
type resetRequest struct {
	SessionID string `json:"session_id"`
}

// resetHandler discards a session's conversation state.
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.SessionID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("session_id is required"))
		return
	}

	s.engine.Reset(req.SessionID)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session reset", nil))
}

// candidatesHandler lists persisted interviews, or returns a single candidate
// when an email query parameter is present.
func (s *Server) candidatesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Persistence not configured"))
		return
	}

	if email := r.URL.Query().Get("email"); email != "" {
		rec, err := s.store.GetInterviewByEmail(email)
		if err != nil {
			slog.Error("Server.candidatesHandler: lookup failed", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to look up candidate"))
			return
		}
		if rec == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Candidate not found"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(rec))
		return
	}

	records, err := s.store.ListInterviews()
	if err != nil {
		slog.Error("Server.candidatesHandler: list failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list candidates"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(records))
}

// statsHandler reports aggregate interview statistics.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Persistence not configured"))
		return
	}

	stats, err := s.store.Stats()
	if err != nil {
		slog.Error("Server.statsHandler: stats failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to compute stats"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(stats))
}

// defaultCleanupDays is the retention window applied when DELETE /sessions is
// called without a days parameter.
const defaultCleanupDays = 30

// sessionsHandler deletes persisted interviews older than the given number of
// days.
func (s *Server) sessionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Persistence not configured"))
		return
	}

	days := defaultCleanupDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("days must be a non-negative integer"))
			return
		}
		days = parsed
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	deleted, err := s.store.DeleteInterviewsBefore(cutoff)
	if err != nil {
		slog.Error("Server.sessionsHandler: cleanup failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to delete old sessions"))
		return
	}
	slog.Info("Server.sessionsHandler: old sessions deleted", "deleted", deleted, "days", days)
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]int{"deleted": deleted}))
}

// healthHandler provides a health check endpoint for monitoring and load
// balancing.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if s.store != nil {
		if stats, err := s.store.Stats(); err != nil {
			slog.Warn("Server.healthHandler: store check failed", "error", err)
			healthData["status"] = "degraded"
			healthData["error"] = "Failed to reach interview store"
		} else {
			healthData["candidates"] = stats.TotalCandidates
		}
	}
	writeJSONResponse(w, http.StatusOK, healthData)
}
