package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/enrollhq/registration-api/internal/models"
)

const simpleRegistrationsFile = "simple_registrations.json"

// FileSimpleRegistrationStore keeps the simple-form collection as a single
// JSON array file with the same rewrite-on-every-write behaviour as
// FileRegistrationStore.
type FileSimpleRegistrationStore struct {
	mu   sync.Mutex
	path string
}

// NewFileSimpleRegistrationStore constructs a store under dataDir.
func NewFileSimpleRegistrationStore(dataDir string) *FileSimpleRegistrationStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileSimpleRegistrationStore{path: filepath.Join(dataDir, simpleRegistrationsFile)}
}

func (s *FileSimpleRegistrationStore) read() ([]models.SimpleRegistration, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.SimpleRegistration{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var recs []models.SimpleRegistration
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return recs, nil
}

func (s *FileSimpleRegistrationStore) write(recs []models.SimpleRegistration) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	raw, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode simple registrations: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Insert appends a new record, assigning a generated id.
func (s *FileSimpleRegistrationStore) Insert(_ context.Context, rec *models.SimpleRegistration) error {
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
func (s *FileSimpleRegistrationStore) FindAll(_ context.Context) ([]models.SimpleRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// FindByEmail scans for the record registered under the given email.
func (s *FileSimpleRegistrationStore) FindByEmail(_ context.Context, email string) (*models.SimpleRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].Email == email {
			rec := recs[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// Count returns the number of stored records.
func (s *FileSimpleRegistrationStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}
