// Package models defines conversation state types for ScreenFlow interviews.
package models

// StateType represents a specific state within the interview conversation.
type StateType string

// State constants for the interview flow. The set is closed: every state has
// exactly one registered handler and transitions follow the canonical field
// collection order.
const (
	StateGreeting             StateType = "GREETING"
	StateCollectingName       StateType = "COLLECTING_NAME"
	StateCollectingEmail      StateType = "COLLECTING_EMAIL"
	StateCollectingPhone      StateType = "COLLECTING_PHONE"
	StateCollectingExperience StateType = "COLLECTING_EXPERIENCE"
	StateCollectingTechStack  StateType = "COLLECTING_TECH_STACK"
	StateGeneratingQuestions  StateType = "GENERATING_QUESTIONS"
	StateAwaitingTechAnswers  StateType = "AWAITING_TECH_ANSWERS"
	StateCompleted            StateType = "COMPLETED"
	StateError                StateType = "ERROR"
)

// FieldName identifies one of the required candidate fields.
type FieldName string

// Field name constants.
const (
	FieldCandidateName   FieldName = "name"
	FieldEmail           FieldName = "email"
	FieldPhone           FieldName = "phone"
	FieldExperienceYears FieldName = "experience_years"
	FieldTechStack       FieldName = "tech_stack"
)

// RequiredFields lists the required candidate fields in canonical collection order.
var RequiredFields = []FieldName{
	FieldCandidateName,
	FieldEmail,
	FieldPhone,
	FieldExperienceYears,
	FieldTechStack,
}

// CollectingStateFor maps a required field to the state that collects it.
func CollectingStateFor(field FieldName) StateType {
	switch field {
	case FieldCandidateName:
		return StateCollectingName
	case FieldEmail:
		return StateCollectingEmail
	case FieldPhone:
		return StateCollectingPhone
	case FieldExperienceYears:
		return StateCollectingExperience
	case FieldTechStack:
		return StateCollectingTechStack
	default:
		return StateGreeting
	}
}

// ValidationReason classifies why a field value failed validation. Handlers
// use the reason to select the matching re-prompt copy.
type ValidationReason string

// Validation failure reasons.
const (
	ReasonEmpty    ValidationReason = "empty"
	ReasonInvalid  ValidationReason = "invalid"
	ReasonTooShort ValidationReason = "too_short"
	ReasonTooLong  ValidationReason = "too_long"
	ReasonNegative ValidationReason = "negative"
	ReasonTooHigh  ValidationReason = "too_high"
)

// ExperienceLevel buckets candidates by years of professional experience.
type ExperienceLevel string

// Experience level constants.
const (
	LevelJunior ExperienceLevel = "junior"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

// LevelForYears maps years of experience to an experience level.
// 0-2 years is junior, 3-5 is mid, 6+ is senior.
func LevelForYears(years int) ExperienceLevel {
	switch {
	case years <= 2:
		return LevelJunior
	case years <= 5:
		return LevelMid
	default:
		return LevelSenior
	}
}

// InterviewStatus tracks the lifecycle of a persisted interview record.
type InterviewStatus string

// Interview status constants.
const (
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusCancelled  InterviewStatus = "cancelled"
)
