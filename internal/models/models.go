// Package models defines core data structures shared across ScreenFlow components.
package models

import "time"

// CandidateProfile holds the five required candidate fields. Values are only
// written after successful validation and normalization.
type CandidateProfile struct {
	Name            string `json:"name,omitempty"`             // trimmed, collapsed whitespace
	Email           string `json:"email,omitempty"`            // lower-cased
	Phone           string `json:"phone,omitempty"`            // raw but format-checked
	ExperienceYears int    `json:"experience_years,omitempty"` // 0-50
	TechStack       string `json:"tech_stack,omitempty"`       // free text, length >= 3
}

// Level returns the experience level bracket for the profile.
func (p CandidateProfile) Level() ExperienceLevel {
	return LevelForYears(p.ExperienceYears)
}

// TechnicalQuestion is a single generated interview question. Questions are
// immutable once generated for a session.
type TechnicalQuestion struct {
	Question       string   `json:"question"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"` // junior, mid or senior
	ExpectedTopics []string `json:"expected_topics,omitempty"`
}

// AnswerRecord captures the candidate's answer to one technical question.
type AnswerRecord struct {
	QuestionIndex int       `json:"question_index"`
	Question      string    `json:"question"` // copy of the question text at record time
	Answer        string    `json:"answer"`
	Timestamp     time.Time `json:"timestamp"`
}

// InterviewRecord is the persisted snapshot of an interview session, keyed by
// (session_id, email) with last-write-wins upsert semantics per email.
type InterviewRecord struct {
	SessionID            string              `json:"session_id"`
	Profile              CandidateProfile    `json:"profile"`
	Questions            []TechnicalQuestion `json:"questions,omitempty"`
	Answers              []AnswerRecord      `json:"answers,omitempty"`
	CompletionPercentage float64             `json:"completion_percentage"`
	Status               InterviewStatus     `json:"status"`
	Notes                string              `json:"notes,omitempty"`
	InterviewDate        time.Time           `json:"interview_date"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// InterviewStats aggregates persisted interviews for reporting.
type InterviewStats struct {
	TotalCandidates        int                     `json:"total_candidates"`
	CompletedInterviews    int                     `json:"completed_interviews"`
	AverageCompletion      float64                 `json:"average_completion"`
	ExperienceDistribution map[ExperienceLevel]int `json:"experience_distribution"`
}

// API response types for consistent JSON responses.

// APIStatus represents the status field of an API response.
type APIStatus string

// API status constants.
const (
	APIStatusOK    APIStatus = "ok"
	APIStatusError APIStatus = "error"
)

// APIResponse is the standard envelope for HTTP endpoint responses.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
