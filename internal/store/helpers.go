package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
)

// scanInterview reads one interview row. Questions and answers are stored as
// JSON columns; empty columns scan to nil slices.
func scanInterview(rows *sql.Rows) (models.InterviewRecord, error) {
	var rec models.InterviewRecord
	var questionsJSON, answersJSON, notes sql.NullString
	err := rows.Scan(
		&rec.SessionID, &rec.Profile.Email, &rec.Profile.Name, &rec.Profile.Phone,
		&rec.Profile.ExperienceYears, &rec.Profile.TechStack,
		&questionsJSON, &answersJSON, &rec.CompletionPercentage, &rec.Status,
		&notes, &rec.InterviewDate, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, fmt.Errorf("failed to scan interview row: %w", err)
	}
	rec.Notes = notes.String
	if questionsJSON.Valid && questionsJSON.String != "" {
		if err := json.Unmarshal([]byte(questionsJSON.String), &rec.Questions); err != nil {
			return rec, fmt.Errorf("failed to decode questions JSON: %w", err)
		}
	}
	if answersJSON.Valid && answersJSON.String != "" {
		if err := json.Unmarshal([]byte(answersJSON.String), &rec.Answers); err != nil {
			return rec, fmt.Errorf("failed to decode answers JSON: %w", err)
		}
	}
	return rec, nil
}

// encodeInterview marshals the JSON columns of a record for insertion.
func encodeInterview(rec models.InterviewRecord) (questionsJSON, answersJSON string, err error) {
	if rec.Questions != nil {
		b, err := json.Marshal(rec.Questions)
		if err != nil {
			return "", "", fmt.Errorf("failed to encode questions: %w", err)
		}
		questionsJSON = string(b)
	}
	if rec.Answers != nil {
		b, err := json.Marshal(rec.Answers)
		if err != nil {
			return "", "", fmt.Errorf("failed to encode answers: %w", err)
		}
		answersJSON = string(b)
	}
	return questionsJSON, answersJSON, nil
}

// statsFromRecords aggregates interview records for reporting. Shared by all
// backends so the numbers agree regardless of where records live.
func statsFromRecords(records []models.InterviewRecord) models.InterviewStats {
	stats := models.InterviewStats{
		TotalCandidates:        len(records),
		ExperienceDistribution: make(map[models.ExperienceLevel]int),
	}
	if len(records) == 0 {
		return stats
	}
	var totalCompletion float64
	for _, rec := range records {
		if rec.Status == models.StatusCompleted {
			stats.CompletedInterviews++
		}
		totalCompletion += rec.CompletionPercentage
		stats.ExperienceDistribution[rec.Profile.Level()]++
	}
	stats.AverageCompletion = totalCompletion / float64(len(records))
	return stats
}
