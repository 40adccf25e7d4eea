package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TalentScoutHQ/ScreenFlow/internal/flow"
	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	"github.com/TalentScoutHQ/ScreenFlow/internal/question"
	"github.com/TalentScoutHQ/ScreenFlow/internal/store"
)

// newTestServer builds a server on the in-memory store with no GenAI client,
// so question generation uses the static pool.
func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewInMemoryStore()
	engine := flow.NewEngine(flow.NewInterviewFlow(question.NewEngine(nil), st))
	srv := httptest.NewServer(NewServer(engine, st).Handler())
	t.Cleanup(srv.Close)
	return srv, st
}

func decodeResponse(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	defer resp.Body.Close()
	var out models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func postTurn(t *testing.T, srv *httptest.Server, sessionID, message string) models.APIResponse {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"session_id": sessionID, "message": message})
	resp, err := http.Post(srv.URL+"/turn", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("turn request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("turn status = %d", resp.StatusCode)
	}
	return decodeResponse(t, resp)
}

func TestGreetingGeneratesSessionID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/greeting")
	if err != nil {
		t.Fatalf("greeting request failed: %v", err)
	}
	out := decodeResponse(t, resp)
	if out.Status != "ok" {
		t.Fatalf("status = %s", out.Status)
	}

	result, ok := out.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result shape: %T", out.Result)
	}
	sessionID, _ := result["session_id"].(string)
	if sessionID == "" {
		t.Error("expected generated session_id")
	}
	message, _ := result["message"].(string)
	if !strings.Contains(message, "full name") {
		t.Errorf("greeting message = %q", message)
	}
}

func TestTurnRequiresSessionID(t *testing.T) {
	srv, _ := newTestServer(t)

	body := []byte(`{"message": "hi"}`)
	resp, err := http.Post(srv.URL+"/turn", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTurnConversationRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	out := postTurn(t, srv, "api-test", "hi")
	result, _ := out.Result.(map[string]interface{})
	reply, _ := result["reply"].(string)
	if !strings.Contains(reply, "full name") {
		t.Errorf("first reply = %q", reply)
	}

	out = postTurn(t, srv, "api-test", "John Doe")
	result, _ = out.Result.(map[string]interface{})
	contextData, _ := result["context"].(map[string]interface{})
	if got := contextData["current_state"]; got != string(models.StateCollectingEmail) {
		t.Errorf("state = %v, want %s", got, models.StateCollectingEmail)
	}
}

func TestTurnRejectsBadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/turn", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResetEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	postTurn(t, srv, "s1", "hi")
	postTurn(t, srv, "s1", "John Doe")

	body := []byte(`{"session_id": "s1"}`)
	resp, err := http.Post(srv.URL+"/reset", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("reset request failed: %v", err)
	}
	out := decodeResponse(t, resp)
	if out.Status != "ok" {
		t.Errorf("reset status = %s", out.Status)
	}

	// The next turn starts from the greeting again.
	out = postTurn(t, srv, "s1", "hello")
	result, _ := out.Result.(map[string]interface{})
	contextData, _ := result["context"].(map[string]interface{})
	if got := contextData["current_state"]; got != string(models.StateCollectingName) {
		t.Errorf("state after reset turn = %v, want %s", got, models.StateCollectingName)
	}
}

func TestCandidatesEndpoint(t *testing.T) {
	srv, st := newTestServer(t)

	resp, err := http.Get(srv.URL + "/candidates?email=nobody@example.com")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown candidate status = %d, want 404", resp.StatusCode)
	}

	now := time.Now().UTC()
	rec := models.InterviewRecord{
		SessionID:     "s9",
		Profile:       models.CandidateProfile{Name: "Jane", Email: "jane@example.com", ExperienceYears: 4},
		Status:        models.StatusCompleted,
		InterviewDate: now,
		UpdatedAt:     now,
	}
	if err := st.SaveInterview(rec); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	resp, err = http.Get(srv.URL + "/candidates?email=jane@example.com")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	out := decodeResponse(t, resp)
	if out.Status != "ok" {
		t.Fatalf("status = %s", out.Status)
	}

	resp, err = http.Get(srv.URL + "/candidates")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	out = decodeResponse(t, resp)
	list, ok := out.Result.([]interface{})
	if !ok || len(list) != 1 {
		t.Errorf("candidate list = %v", out.Result)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, st := newTestServer(t)

	now := time.Now().UTC()
	if err := st.SaveInterview(models.InterviewRecord{
		SessionID:            "s1",
		Profile:              models.CandidateProfile{Email: "a@example.com", ExperienceYears: 1},
		CompletionPercentage: 100,
		Status:               models.StatusCompleted,
		InterviewDate:        now,
		UpdatedAt:            now,
	}); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	resp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	out := decodeResponse(t, resp)
	result, _ := out.Result.(map[string]interface{})
	if got := result["total_candidates"]; got != float64(1) {
		t.Errorf("total_candidates = %v, want 1", got)
	}
	if got := result["completed_interviews"]; got != float64(1) {
		t.Errorf("completed_interviews = %v, want 1", got)
	}
}

func TestSessionsCleanupEndpoint(t *testing.T) {
	srv, st := newTestServer(t)

	old := models.InterviewRecord{
		SessionID:     "s1",
		Profile:       models.CandidateProfile{Email: "old@example.com"},
		InterviewDate: time.Now().UTC().AddDate(0, 0, -90),
		UpdatedAt:     time.Now().UTC().AddDate(0, 0, -90),
	}
	if err := st.SaveInterview(old); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/sessions?days=30", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	out := decodeResponse(t, resp)
	result, _ := out.Result.(map[string]interface{})
	if got := result["deleted"]; got != float64(1) {
		t.Errorf("deleted = %v, want 1", got)
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/sessions?days=nope", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad days status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("health status = %v", health["status"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/turn")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /turn status = %d, want 405", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/stats", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /stats status = %d, want 405", resp.StatusCode)
	}
}
