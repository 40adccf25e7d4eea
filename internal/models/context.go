// Package models defines the per-session conversation context for ScreenFlow.
package models

// ConversationContext is the mutable state record for one interview session.
// It is created at first contact, mutated exclusively by the flow's state
// handlers, and replaced by a fresh instance on an explicit reset. Each
// session owns exactly one context; turns for a session are processed one at
// a time, so no internal locking is needed.
type ConversationContext struct {
	CurrentState     StateType
	PreviousState    StateType // empty until the first transition
	RetryCount       int
	AwaitingField    FieldName // field currently being solicited, empty outside collecting states
	Profile          CandidateProfile
	Collected        map[FieldName]bool // fields written after successful validation, never removed
	Questions        []TechnicalQuestion
	QuestionIndex    int // cursor: index of the next unanswered question, monotonically non-decreasing
	Answers          []AnswerRecord
	ValidationErrors []string // transient, cleared on every transition
}

// NewConversationContext returns a fresh context positioned at the greeting state.
func NewConversationContext() *ConversationContext {
	return &ConversationContext{
		CurrentState: StateGreeting,
		Collected:    make(map[FieldName]bool),
	}
}

// TransitionTo moves the context to a new state. The retry counter is reset
// and transient validation errors are cleared on every transition.
func (c *ConversationContext) TransitionTo(state StateType) {
	c.PreviousState = c.CurrentState
	c.CurrentState = state
	c.RetryCount = 0
	c.ValidationErrors = nil
}

// IncrementRetry bumps the retry counter for the current collecting state.
func (c *ConversationContext) IncrementRetry() {
	c.RetryCount++
}

// AddValidationError records a transient validation error for the current turn.
func (c *ConversationContext) AddValidationError(err string) {
	c.ValidationErrors = append(c.ValidationErrors, err)
}

// MarkCollected records that a required field now holds a validated value.
func (c *ConversationContext) MarkCollected(field FieldName) {
	c.Collected[field] = true
}

// HasField reports whether a required field has been collected.
func (c *ConversationContext) HasField(field FieldName) bool {
	return c.Collected[field]
}

// DataComplete reports whether all required fields have been collected.
func (c *ConversationContext) DataComplete() bool {
	for _, f := range RequiredFields {
		if !c.Collected[f] {
			return false
		}
	}
	return true
}

// FirstMissingField returns the first uncollected required field in canonical
// order, or false when all fields are present.
func (c *ConversationContext) FirstMissingField() (FieldName, bool) {
	for _, f := range RequiredFields {
		if !c.Collected[f] {
			return f, true
		}
	}
	return "", false
}

// CompletionPercentage derives the session's progress from collected fields
// and answered questions. Field completeness accounts for 80 points, question
// progress for the remaining 20. The value is never stored authoritatively.
func (c *ConversationContext) CompletionPercentage() float64 {
	collected := 0
	for _, f := range RequiredFields {
		if c.Collected[f] {
			collected++
		}
	}
	pct := float64(collected) / float64(len(RequiredFields)) * 80

	if len(c.Questions) > 0 {
		pct += float64(len(c.Answers)) / float64(len(c.Questions)) * 20
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Clone returns a deep copy of the context. The flow takes a copy before
// dispatching a turn so an unexpected handler failure can restore the
// pre-turn state.
func (c *ConversationContext) Clone() *ConversationContext {
	clone := *c
	clone.Collected = make(map[FieldName]bool, len(c.Collected))
	for f, ok := range c.Collected {
		clone.Collected[f] = ok
	}
	if c.Questions != nil {
		clone.Questions = make([]TechnicalQuestion, len(c.Questions))
		copy(clone.Questions, c.Questions)
	}
	if c.Answers != nil {
		clone.Answers = make([]AnswerRecord, len(c.Answers))
		copy(clone.Answers, c.Answers)
	}
	if c.ValidationErrors != nil {
		clone.ValidationErrors = make([]string, len(c.ValidationErrors))
		copy(clone.ValidationErrors, c.ValidationErrors)
	}
	return &clone
}

// ContextSnapshot is the read-only view of a conversation context returned to
// turn-interface callers.
type ContextSnapshot struct {
	CurrentState         StateType              `json:"current_state"`
	PreviousState        StateType              `json:"previous_state,omitempty"`
	RetryCount           int                    `json:"retry_count"`
	AwaitingField        FieldName              `json:"awaiting_field,omitempty"`
	CollectedData        map[string]interface{} `json:"collected_data"`
	ValidationErrors     []string               `json:"validation_errors,omitempty"`
	CompletionPercentage float64                `json:"completion_percentage"`
}

// Snapshot builds an isolated view of the context. Collected field values are
// exposed under their canonical field names alongside the question list,
// cursor and recorded answers.
func (c *ConversationContext) Snapshot() ContextSnapshot {
	data := make(map[string]interface{})
	if c.Collected[FieldCandidateName] {
		data[string(FieldCandidateName)] = c.Profile.Name
	}
	if c.Collected[FieldEmail] {
		data[string(FieldEmail)] = c.Profile.Email
	}
	if c.Collected[FieldPhone] {
		data[string(FieldPhone)] = c.Profile.Phone
	}
	if c.Collected[FieldExperienceYears] {
		data[string(FieldExperienceYears)] = c.Profile.ExperienceYears
	}
	if c.Collected[FieldTechStack] {
		data[string(FieldTechStack)] = c.Profile.TechStack
	}
	if c.Questions != nil {
		questions := make([]TechnicalQuestion, len(c.Questions))
		copy(questions, c.Questions)
		data["technical_questions"] = questions
		data["current_question_index"] = c.QuestionIndex
	}
	if len(c.Answers) > 0 {
		answers := make([]AnswerRecord, len(c.Answers))
		copy(answers, c.Answers)
		data["responses"] = answers
	}

	var errs []string
	if len(c.ValidationErrors) > 0 {
		errs = make([]string, len(c.ValidationErrors))
		copy(errs, c.ValidationErrors)
	}

	return ContextSnapshot{
		CurrentState:         c.CurrentState,
		PreviousState:        c.PreviousState,
		RetryCount:           c.RetryCount,
		AwaitingField:        c.AwaitingField,
		CollectedData:        data,
		ValidationErrors:     errs,
		CompletionPercentage: c.CompletionPercentage(),
	}
}
