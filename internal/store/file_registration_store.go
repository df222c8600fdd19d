package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enrollhq/registration-api/internal/models"
)

const registrationsFile = "registrations.json"

// FileRegistrationStore keeps the full-form collection as a single JSON
// array file. Every write reads the whole collection, mutates it in memory
// and rewrites the file; the last writer wins. The directory and file are
// created lazily on first write. The mutex only serialises writers inside
// this process.
type FileRegistrationStore struct {
	mu   sync.Mutex
	path string
}

// NewFileRegistrationStore constructs a FileRegistrationStore under dataDir.
func NewFileRegistrationStore(dataDir string) *FileRegistrationStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileRegistrationStore{path: filepath.Join(dataDir, registrationsFile)}
}

func (s *FileRegistrationStore) read() ([]models.Registration, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Registration{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var recs []models.Registration
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return recs, nil
}

func (s *FileRegistrationStore) write(recs []models.Registration) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	raw, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registrations: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Insert appends a new record, assigning a generated id.
func (s *FileRegistrationStore) Insert(_ context.Context, rec *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return err
	}
	rec.ID = uuid.NewString()
	recs = append(recs, *rec)
	return s.write(recs)
}

// FindAll returns the collection in file (insertion) order.
func (s *FileRegistrationStore) FindAll(_ context.Context) ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// FindByID scans for the record with the given id.
func (s *FileRegistrationStore) FindByID(_ context.Context, id string) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == id {
			rec := recs[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateStatus rewrites the file with the record's status and updatedAt
// changed, reporting whether a record was modified.
func (s *FileRegistrationStore) UpdateStatus(_ context.Context, id string, status models.RegistrationStatus, updatedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return false, err
	}
	for i := range recs {
		if recs[i].ID == id {
			recs[i].Status = status
			recs[i].UpdatedAt = updatedAt
			if err := s.write(recs); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Delete rewrites the file without the record, reporting whether one existed.
func (s *FileRegistrationStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return false, err
	}
	for i := range recs {
		if recs[i].ID == id {
			recs = append(recs[:i], recs[i+1:]...)
			if err := s.write(recs); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Stats counts records per review status.
func (s *FileRegistrationStore) Stats(_ context.Context) (*models.RegistrationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return nil, err
	}
	stats := &models.RegistrationStats{Total: len(recs)}
	for _, rec := range recs {
		switch rec.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}
