// Package store provides storage backends for ScreenFlow interview records.
//
// Records are keyed by session ID with last-write-wins semantics per
// candidate email: a candidate who restarts their screening in a new session
// replaces their earlier record.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/TalentScoutHQ/ScreenFlow/internal/models"
)

// Store defines the persistence operations for interview records.
type Store interface {
	SaveInterview(rec models.InterviewRecord) error
	GetInterviewByEmail(email string) (*models.InterviewRecord, error)
	ListInterviews() ([]models.InterviewRecord, error)
	DeleteInterviewsBefore(cutoff time.Time) (int, error)
	Stats() (models.InterviewStats, error)
	Close() error
}

// InMemoryStore keeps interview records in memory, keyed by candidate email.
// Used in tests and when no database DSN is configured.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]models.InterviewRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]models.InterviewRecord)}
}

func (s *InMemoryStore) SaveInterview(rec models.InterviewRecord) error {
	if rec.Profile.Email == "" {
		return fmt.Errorf("interview record has no email")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Profile.Email] = rec
	return nil
}

func (s *InMemoryStore) GetInterviewByEmail(email string) (*models.InterviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[email]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *InMemoryStore) ListInterviews() ([]models.InterviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]models.InterviewRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	return records, nil
}

func (s *InMemoryStore) DeleteInterviewsBefore(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for email, rec := range s.records {
		if rec.UpdatedAt.Before(cutoff) {
			delete(s.records, email)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryStore) Stats() (models.InterviewStats, error) {
	records, _ := s.ListInterviews()
	return statsFromRecords(records), nil
}

func (s *InMemoryStore) Close() error { return nil }
