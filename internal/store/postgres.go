// Package store provides storage backends for ScreenFlow.
//
// This file implements the PostgreSQL-backed interview store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open PostgreSQL connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("PostgreSQL ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgreSQL migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// SaveInterview upserts an interview record with the same last-write-wins per
// email semantics as the SQLite store.
func (s *PostgresStore) SaveInterview(rec models.InterviewRecord) error {
	if rec.Profile.Email == "" {
		return fmt.Errorf("interview record has no email")
	}
	questionsJSON, answersJSON, err := encodeInterview(rec)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`UPDATE interviews
		SET session_id = $1, name = $2, phone = $3, experience_years = $4, tech_stack = $5,
		    questions = $6, answers = $7, completion = $8, status = $9, notes = $10, updated_at = $11
		WHERE email = $12`,
		rec.SessionID, rec.Profile.Name, rec.Profile.Phone, rec.Profile.ExperienceYears, rec.Profile.TechStack,
		questionsJSON, answersJSON, rec.CompletionPercentage, rec.Status, rec.Notes, rec.UpdatedAt,
		rec.Profile.Email)
	if err != nil {
		slog.Error("PostgresStore SaveInterview update failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to update interview for session %s: %w", rec.SessionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Debug("PostgresStore SaveInterview updated existing record", "sessionID", rec.SessionID)
		return nil
	}

	_, err = s.db.Exec(`INSERT INTO interviews
		(session_id, email, name, phone, experience_years, tech_stack, questions, answers, completion, status, notes, interview_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (session_id) DO UPDATE SET
			email = EXCLUDED.email, name = EXCLUDED.name, phone = EXCLUDED.phone,
			experience_years = EXCLUDED.experience_years, tech_stack = EXCLUDED.tech_stack,
			questions = EXCLUDED.questions, answers = EXCLUDED.answers,
			completion = EXCLUDED.completion, status = EXCLUDED.status,
			notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at`,
		rec.SessionID, rec.Profile.Email, rec.Profile.Name, rec.Profile.Phone, rec.Profile.ExperienceYears,
		rec.Profile.TechStack, questionsJSON, answersJSON, rec.CompletionPercentage, rec.Status, rec.Notes,
		rec.InterviewDate, rec.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveInterview insert failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to insert interview for session %s: %w", rec.SessionID, err)
	}
	slog.Debug("PostgresStore SaveInterview inserted record", "sessionID", rec.SessionID)
	return nil
}

func (s *PostgresStore) GetInterviewByEmail(email string) (*models.InterviewRecord, error) {
	rows, err := s.db.Query(selectInterviewColumns+` FROM interviews WHERE email = $1`, email)
	if err != nil {
		slog.Error("PostgresStore GetInterviewByEmail query failed", "error", err)
		return nil, fmt.Errorf("failed to query interview: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanInterview(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) ListInterviews() ([]models.InterviewRecord, error) {
	rows, err := s.db.Query(selectInterviewColumns + ` FROM interviews ORDER BY updated_at DESC`)
	if err != nil {
		slog.Error("PostgresStore ListInterviews query failed", "error", err)
		return nil, fmt.Errorf("failed to query interviews: %w", err)
	}
	defer rows.Close()

	var records []models.InterviewRecord
	for rows.Next() {
		rec, err := scanInterview(rows)
		if err != nil {
			slog.Error("PostgresStore ListInterviews scan failed", "error", err)
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interview rows: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) DeleteInterviewsBefore(cutoff time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM interviews WHERE updated_at < $1`, cutoff)
	if err != nil {
		slog.Error("PostgresStore DeleteInterviewsBefore failed", "error", err)
		return 0, fmt.Errorf("failed to delete old interviews: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	slog.Debug("PostgresStore DeleteInterviewsBefore succeeded", "deleted", n, "cutoff", cutoff)
	return int(n), nil
}

func (s *PostgresStore) Stats() (models.InterviewStats, error) {
	records, err := s.ListInterviews()
	if err != nil {
		return models.InterviewStats{}, err
	}
	return statsFromRecords(records), nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
