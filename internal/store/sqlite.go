// Package store provides storage backends for ScreenFlow.
//
// This file implements the SQLite-backed interview store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// SaveInterview upserts an interview record. An existing record for the same
// email is replaced regardless of session ID, so a candidate restarting their
// screening keeps a single row.
func (s *SQLiteStore) SaveInterview(rec models.InterviewRecord) error {
	if rec.Profile.Email == "" {
		return fmt.Errorf("interview record has no email")
	}
	questionsJSON, answersJSON, err := encodeInterview(rec)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`UPDATE interviews
		SET session_id = ?, name = ?, phone = ?, experience_years = ?, tech_stack = ?,
		    questions = ?, answers = ?, completion = ?, status = ?, notes = ?, updated_at = ?
		WHERE email = ?`,
		rec.SessionID, rec.Profile.Name, rec.Profile.Phone, rec.Profile.ExperienceYears, rec.Profile.TechStack,
		questionsJSON, answersJSON, rec.CompletionPercentage, rec.Status, rec.Notes, rec.UpdatedAt,
		rec.Profile.Email)
	if err != nil {
		slog.Error("SQLiteStore SaveInterview update failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to update interview for session %s: %w", rec.SessionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Debug("SQLiteStore SaveInterview updated existing record", "sessionID", rec.SessionID)
		return nil
	}

	_, err = s.db.Exec(`INSERT INTO interviews
		(session_id, email, name, phone, experience_years, tech_stack, questions, answers, completion, status, notes, interview_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			email = excluded.email, name = excluded.name, phone = excluded.phone,
			experience_years = excluded.experience_years, tech_stack = excluded.tech_stack,
			questions = excluded.questions, answers = excluded.answers,
			completion = excluded.completion, status = excluded.status,
			notes = excluded.notes, updated_at = excluded.updated_at`,
		rec.SessionID, rec.Profile.Email, rec.Profile.Name, rec.Profile.Phone, rec.Profile.ExperienceYears,
		rec.Profile.TechStack, questionsJSON, answersJSON, rec.CompletionPercentage, rec.Status, rec.Notes,
		rec.InterviewDate, rec.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveInterview insert failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to insert interview for session %s: %w", rec.SessionID, err)
	}
	slog.Debug("SQLiteStore SaveInterview inserted record", "sessionID", rec.SessionID)
	return nil
}

func (s *SQLiteStore) GetInterviewByEmail(email string) (*models.InterviewRecord, error) {
	rows, err := s.db.Query(selectInterviewColumns+` FROM interviews WHERE email = ?`, email)
	if err != nil {
		slog.Error("SQLiteStore GetInterviewByEmail query failed", "error", err)
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

func (s *SQLiteStore) ListInterviews() ([]models.InterviewRecord, error) {
	rows, err := s.db.Query(selectInterviewColumns + ` FROM interviews ORDER BY updated_at DESC`)
	if err != nil {
		slog.Error("SQLiteStore ListInterviews query failed", "error", err)
		return nil, fmt.Errorf("failed to query interviews: %w", err)
	}
	defer rows.Close()

	var records []models.InterviewRecord
	for rows.Next() {
		rec, err := scanInterview(rows)
		if err != nil {
			slog.Error("SQLiteStore ListInterviews scan failed", "error", err)
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interview rows: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) DeleteInterviewsBefore(cutoff time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM interviews WHERE updated_at < ?`, cutoff)
	if err != nil {
		slog.Error("SQLiteStore DeleteInterviewsBefore failed", "error", err)
		return 0, fmt.Errorf("failed to delete old interviews: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	slog.Debug("SQLiteStore DeleteInterviewsBefore succeeded", "deleted", n, "cutoff", cutoff)
	return int(n), nil
}

func (s *SQLiteStore) Stats() (models.InterviewStats, error) {
	records, err := s.ListInterviews()
	if err != nil {
		return models.InterviewStats{}, err
	}
	return statsFromRecords(records), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// selectInterviewColumns is the column list matched by scanInterview.
const selectInterviewColumns = `SELECT session_id, email, name, phone, experience_years, tech_stack,
	questions, answers, completion, status, notes, interview_date, updated_at`
