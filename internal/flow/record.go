package flow

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	"github.com/TalentScoutHQ/ScreenFlow/internal/question"
	"github.com/TalentScoutHQ/ScreenFlow/internal/util"
)

// buildRecord snapshots a conversation context into a persistable interview
// record.
func buildRecord(sessionID string, conv *models.ConversationContext, status models.InterviewStatus) models.InterviewRecord {
	now := time.Now().UTC()
	rec := models.InterviewRecord{
		SessionID:            sessionID,
		Profile:              conv.Profile,
		CompletionPercentage: conv.CompletionPercentage(),
		Status:               status,
		Notes:                buildNotes(conv.Profile),
		InterviewDate:        now,
		UpdatedAt:            now,
	}
	if conv.Questions != nil {
		rec.Questions = make([]models.TechnicalQuestion, len(conv.Questions))
		copy(rec.Questions, conv.Questions)
	}
	if conv.Answers != nil {
		rec.Answers = make([]models.AnswerRecord, len(conv.Answers))
		copy(rec.Answers, conv.Answers)
	}
	return rec
}

// buildNotes summarizes the candidate for recruiters: experience level and
// the recognized technology categories from the free-text stack.
func buildNotes(profile models.CandidateProfile) string {
	if profile.TechStack == "" {
		return ""
	}
	parts := []string{fmt.Sprintf("Level: %s", profile.Level())}

	categories := question.Categorize(profile.TechStack)
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(categories[name], ", ")))
	}
	return strings.Join(parts, "; ")
}

// pendingCommitBuffer bounds the queue of snapshots awaiting persistence.
const pendingCommitBuffer = 64

// commitAsync persists the session snapshot in the background. Persistence is
// fire and forget: a failure is logged and never surfaces into the
// conversation. Snapshots are queued to a single worker so saves land in the
// order they were taken and a completed record is never overwritten by an
// earlier in-progress one. Sessions without a collected email are not
// persisted since email is part of the record key.
func (f *InterviewFlow) commitAsync(sessionID string, conv *models.ConversationContext, status models.InterviewStatus) {
	if f.commits == nil || conv.Profile.Email == "" {
		return
	}
	f.commits <- buildRecord(sessionID, conv, status)
}

// commitLoop drains the commit queue for the lifetime of the flow.
func (f *InterviewFlow) commitLoop() {
	for rec := range f.commits {
		if err := f.store.SaveInterview(rec); err != nil {
			slog.Error("InterviewFlow.commitLoop: failed to save interview", "error", err,
				"sessionID", rec.SessionID, "email", util.MaskSensitive(rec.Profile.Email), "status", rec.Status)
			continue
		}
		slog.Debug("InterviewFlow.commitLoop: interview saved", "sessionID", rec.SessionID,
			"email", util.MaskSensitive(rec.Profile.Email), "status", rec.Status, "completion", rec.CompletionPercentage)
	}
}
