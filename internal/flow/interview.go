// Package flow implements the interview conversation state machine: field
// collection with validation and retry policy, technical question delivery,
// and completion handling.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	"github.com/TalentScoutHQ/ScreenFlow/internal/question"
	"github.com/TalentScoutHQ/ScreenFlow/internal/store"
	"github.com/TalentScoutHQ/ScreenFlow/internal/validate"
)

// maxFieldAttempts is the number of consecutive failed attempts on one field
// before the skip menu is offered.
const maxFieldAttempts = 3

// Defaults substituted at question generation time for fields the candidate
// chose to skip.
const (
	defaultTechStack       = "general programming"
	defaultExperienceYears = 1
)

// stateHandler processes one turn of input for a session in a given state and
// returns the assistant reply. Handlers mutate the context directly; the
// engine guards each dispatch with a pre-turn clone.
type stateHandler func(ctx context.Context, sessionID string, conv *models.ConversationContext, input string) string

// InterviewFlow owns the per-state turn handlers and their collaborators.
type InterviewFlow struct {
	questions *question.Engine
	store     store.Store // nil disables persistence
	commits   chan models.InterviewRecord
	handlers  map[models.StateType]stateHandler
}

// NewInterviewFlow creates the interview flow. The store may be nil, in which
// case interview records are not persisted.
func NewInterviewFlow(questions *question.Engine, st store.Store) *InterviewFlow {
	f := &InterviewFlow{
		questions: questions,
		store:     st,
	}
	if st != nil {
		f.commits = make(chan models.InterviewRecord, pendingCommitBuffer)
		go f.commitLoop()
	}
	f.handlers = map[models.StateType]stateHandler{
		models.StateGreeting:             f.handleGreeting,
		models.StateCollectingName:       f.collectingHandler(models.FieldCandidateName),
		models.StateCollectingEmail:      f.collectingHandler(models.FieldEmail),
		models.StateCollectingPhone:      f.collectingHandler(models.FieldPhone),
		models.StateCollectingExperience: f.collectingHandler(models.FieldExperienceYears),
		models.StateCollectingTechStack:  f.collectingHandler(models.FieldTechStack),
		models.StateAwaitingTechAnswers:  f.handleTechAnswer,
		models.StateCompleted:            f.handleCompleted,
		models.StateError:                f.handleError,
	}
	return f
}

// dispatch routes one turn to the handler for the session's current state. An
// unknown state is unreachable by construction; if it happens anyway the
// session is parked in the error state for the recovery handler to repair.
func (f *InterviewFlow) dispatch(ctx context.Context, sessionID string, conv *models.ConversationContext, input string) string {
	handler, ok := f.handlers[conv.CurrentState]
	if !ok {
		slog.Error("InterviewFlow.dispatch: no handler for state", "state", conv.CurrentState, "sessionID", sessionID)
		conv.TransitionTo(models.StateError)
		return genericApology
	}
	return handler(ctx, sessionID, conv, input)
}

// handleGreeting acknowledges first contact and starts name collection. The
// input itself is not interpreted.
func (f *InterviewFlow) handleGreeting(_ context.Context, sessionID string, conv *models.ConversationContext, _ string) string {
	conv.TransitionTo(models.StateCollectingName)
	conv.AwaitingField = models.FieldCandidateName
	slog.Debug("InterviewFlow.handleGreeting: starting collection", "sessionID", sessionID)
	return welcomeMessage
}

// collectingHandler builds the turn handler for one required field. All five
// collecting states share the validate-store-advance shape and the retry and
// skip policy; only the validator and profile slot differ.
func (f *InterviewFlow) collectingHandler(field models.FieldName) stateHandler {
	return func(ctx context.Context, sessionID string, conv *models.ConversationContext, input string) string {
		if reply, handled := f.interceptSkipMenu(ctx, sessionID, conv, field, input); handled {
			return reply
		}

		res := applyField(&conv.Profile, field, input)
		if !res.OK {
			return f.rejectInput(sessionID, conv, field, res.Reason)
		}

		conv.MarkCollected(field)
		slog.Debug("InterviewFlow.collect: field collected", "sessionID", sessionID, "field", field)
		return f.advanceFrom(ctx, sessionID, conv, field)
	}
}

// applyField validates input for a field and, on success, writes the
// normalized value into the profile.
func applyField(profile *models.CandidateProfile, field models.FieldName, input string) validate.Result {
	switch field {
	case models.FieldCandidateName:
		res := validate.Name(input)
		if res.OK {
			profile.Name = res.Normalized
		}
		return res
	case models.FieldEmail:
		res := validate.Email(input)
		if res.OK {
			profile.Email = res.Normalized
		}
		return res
	case models.FieldPhone:
		res := validate.Phone(input)
		if res.OK {
			profile.Phone = res.Normalized
		}
		return res
	case models.FieldExperienceYears:
		years, res := validate.Experience(input)
		if res.OK {
			profile.ExperienceYears = years
		}
		return res
	case models.FieldTechStack:
		res := validate.TechStack(input)
		if res.OK {
			profile.TechStack = res.Normalized
		}
		return res
	default:
		return validate.Result{Reason: models.ReasonInvalid}
	}
}

// rejectInput records a failed attempt. The third consecutive failure on the
// same field offers the skip menu instead of another plain re-prompt.
func (f *InterviewFlow) rejectInput(sessionID string, conv *models.ConversationContext, field models.FieldName, reason models.ValidationReason) string {
	conv.IncrementRetry()
	conv.AddValidationError(fmt.Sprintf("%s: %s", field, reason))
	slog.Debug("InterviewFlow.rejectInput: validation failed", "sessionID", sessionID, "field", field, "reason", reason, "retryCount", conv.RetryCount)

	if conv.RetryCount >= maxFieldAttempts {
		return skipOffer(field)
	}
	return validationErrorMessage(field, reason) + " " + promptForField(field, conv.RetryCount)
}

// interceptSkipMenu handles the 1/2/3 menu replies that follow a skip offer.
// The interception only applies once the skip offer has been shown, so a
// plain "1" is still a valid first answer for the experience field.
func (f *InterviewFlow) interceptSkipMenu(ctx context.Context, sessionID string, conv *models.ConversationContext, field models.FieldName, input string) (string, bool) {
	if conv.RetryCount < maxFieldAttempts {
		return "", false
	}
	switch strings.TrimSpace(input) {
	case "1":
		return fieldHelp[field] + "\n\n" + promptForField(field, conv.RetryCount), true
	case "2":
		slog.Info("InterviewFlow.interceptSkipMenu: field skipped", "sessionID", sessionID, "field", field)
		return f.advanceFrom(ctx, sessionID, conv, field), true
	case "3":
		return fieldHelp[field] + "\n\n" + skipOffer(field), true
	default:
		return "", false
	}
}

// advanceFrom transitions to the state after a field, whether the field was
// collected or skipped. After the last field the flow moves straight into
// question generation.
func (f *InterviewFlow) advanceFrom(ctx context.Context, sessionID string, conv *models.ConversationContext, field models.FieldName) string {
	next := nextField(field)
	if next == "" {
		return f.generateQuestions(ctx, sessionID, conv)
	}
	conv.TransitionTo(models.CollectingStateFor(next))
	conv.AwaitingField = next
	return promptForField(next, 0)
}

// nextField returns the field collected after the given one in canonical
// order, or empty after the last field.
func nextField(field models.FieldName) models.FieldName {
	for i, f := range models.RequiredFields {
		if f == field && i+1 < len(models.RequiredFields) {
			return models.RequiredFields[i+1]
		}
	}
	return ""
}

// generateQuestions runs the question phase handoff: defaults for skipped
// fields, generation, and the transition into answer collection. An empty
// question set completes the interview with an apology instead of stalling.
func (f *InterviewFlow) generateQuestions(ctx context.Context, sessionID string, conv *models.ConversationContext) string {
	conv.AwaitingField = ""
	conv.TransitionTo(models.StateGeneratingQuestions)

	profile := conv.Profile
	if !conv.HasField(models.FieldExperienceYears) {
		profile.ExperienceYears = defaultExperienceYears
	}
	if !conv.HasField(models.FieldTechStack) {
		profile.TechStack = defaultTechStack
	}

	questions := f.questions.Generate(ctx, profile)
	if len(questions) == 0 {
		slog.Warn("InterviewFlow.generateQuestions: no questions available", "sessionID", sessionID)
		conv.TransitionTo(models.StateCompleted)
		f.commitAsync(sessionID, conv, models.StatusCompleted)
		return generationApology + "\n\n" + completionMessage(conv.Profile.Name, conv.CompletionPercentage())
	}

	conv.Questions = questions
	conv.QuestionIndex = 0
	conv.Answers = nil
	conv.TransitionTo(models.StateAwaitingTechAnswers)
	f.commitAsync(sessionID, conv, models.StatusInProgress)

	slog.Info("InterviewFlow.generateQuestions: question phase started", "sessionID", sessionID, "questionCount", len(questions))
	return questionIntro(conv.Profile.Name, len(questions)) + "\n\n" + formatQuestion(questions[0], 1, len(questions))
}

// handleTechAnswer records the answer to the current question and advances
// the cursor. The last answer completes the interview.
func (f *InterviewFlow) handleTechAnswer(_ context.Context, sessionID string, conv *models.ConversationContext, input string) string {
	if conv.QuestionIndex >= len(conv.Questions) {
		// Cursor past the end means the completion transition was missed.
		slog.Warn("InterviewFlow.handleTechAnswer: cursor past question list", "sessionID", sessionID, "index", conv.QuestionIndex)
		conv.TransitionTo(models.StateCompleted)
		f.commitAsync(sessionID, conv, models.StatusCompleted)
		return completionMessage(conv.Profile.Name, conv.CompletionPercentage())
	}

	// Answers are recorded as given, blank ones included.
	answer := strings.TrimSpace(input)
	current := conv.Questions[conv.QuestionIndex]
	conv.Answers = append(conv.Answers, models.AnswerRecord{
		QuestionIndex: conv.QuestionIndex,
		Question:      current.Question,
		Answer:        answer,
		Timestamp:     time.Now().UTC(),
	})
	conv.QuestionIndex++
	conv.RetryCount = 0
	slog.Debug("InterviewFlow.handleTechAnswer: answer recorded", "sessionID", sessionID, "questionIndex", conv.QuestionIndex-1, "answered", len(conv.Answers))

	if conv.QuestionIndex >= len(conv.Questions) {
		conv.TransitionTo(models.StateCompleted)
		f.commitAsync(sessionID, conv, models.StatusCompleted)
		slog.Info("InterviewFlow.handleTechAnswer: interview completed", "sessionID", sessionID, "answered", len(conv.Answers))
		return completionMessage(conv.Profile.Name, conv.CompletionPercentage())
	}

	next := conv.Questions[conv.QuestionIndex]
	f.commitAsync(sessionID, conv, models.StatusInProgress)
	return encouragement(len(conv.Answers)) + "\n\n" + formatQuestion(next, conv.QuestionIndex+1, len(conv.Questions))
}

// handleCompleted answers any input after the interview has finished.
func (f *InterviewFlow) handleCompleted(_ context.Context, _ string, _ *models.ConversationContext, _ string) string {
	return alreadyCompleteMessage
}

// handleError recovers a session parked in the error state by resuming at the
// first missing field in canonical order. With all five fields already
// present the interview completes rather than reopening the question phase.
func (f *InterviewFlow) handleError(_ context.Context, sessionID string, conv *models.ConversationContext, _ string) string {
	if field, ok := conv.FirstMissingField(); ok {
		conv.TransitionTo(models.CollectingStateFor(field))
		conv.AwaitingField = field
		slog.Info("InterviewFlow.handleError: resuming collection", "sessionID", sessionID, "field", field)
		return recoveryMessage(field)
	}

	conv.TransitionTo(models.StateCompleted)
	f.commitAsync(sessionID, conv, models.StatusCompleted)
	slog.Info("InterviewFlow.handleError: all fields present, completing", "sessionID", sessionID)
	return continueNotice + "\n\n" + completionMessage(conv.Profile.Name, conv.CompletionPercentage())
}
