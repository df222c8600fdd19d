package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/enrollhq/registration-api/internal/models"
	"github.com/enrollhq/registration-api/internal/store"
	appErrors "github.com/enrollhq/registration-api/pkg/errors"
)

const statsCacheKey = "stats:registrations"

type registrationStore interface {
	Insert(ctx context.Context, rec *models.Registration) error
	FindAll(ctx context.Context) ([]models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*models.RegistrationStats, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateRegistrationRequest holds the full-form payload. Field order matches
// the validation order of the intake form, so the first missing field in
// this order names the error.
type CreateRegistrationRequest struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,emailish"`
	Phone          string `json:"phone" validate:"required"`
	DateOfBirth    string `json:"dateOfBirth" validate:"required"`
	Gender         string `json:"gender" validate:"required"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	Country        string `json:"country" validate:"required"`
	Program        string `json:"program" validate:"required"`
	EducationLevel string `json:"educationLevel" validate:"required"`
	Institution    string `json:"institution" validate:"required"`
	GraduationYear Year   `json:"graduationYear" validate:"required"`
	Motivation     string `json:"motivation" validate:"required,min=100"`
}

// RegistrationService implements the full-form record lifecycle on top of a
// storage backend.
type RegistrationService struct {
	store     registrationStore
	validator *validator.Validate
	logger    *zap.Logger
	cache     statsCache
	cacheTTL  time.Duration
	metrics   *MetricsService
}

// NewRegistrationService constructs the registration service. cache may be
// nil, in which case stats are recomputed on every call.
func NewRegistrationService(st registrationStore, validate *validator.Validate, logger *zap.Logger, cache statsCache, cacheTTL time.Duration, metrics *MetricsService) *RegistrationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{store: st, validator: validate, logger: logger, cache: cache, cacheTTL: cacheTTL, metrics: metrics}
}

// Create validates the payload and stores a new pending record.
func (s *RegistrationService) Create(ctx context.Context, req CreateRegistrationRequest) (*models.Registration, error) {
	if err := checkPayload(s.validator, req); err != nil {
		return nil, err
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid date of birth")
	}

	now := time.Now().UTC()
	rec := &models.Registration{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		Address:        req.Address,
		City:           req.City,
		Country:        req.Country,
		Program:        req.Program,
		EducationLevel: req.EducationLevel,
		Institution:    req.Institution,
		GraduationYear: int(req.GraduationYear),
		Motivation:     req.Motivation,
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to create registration")
	}
	s.invalidateStats(ctx)
	return rec, nil
}

// List returns all records in backend order: createdAt descending from the
// primary store, insertion order from the file store.
func (s *RegistrationService) List(ctx context.Context) ([]models.Registration, error) {
	recs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch registrations")
	}
	return recs, nil
}

// Get returns the record or a not-found error. Malformed ids read as not
// found.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch registration")
	}
	return rec, nil
}

// UpdateStatus moves the record to the given review status. Any of the
// three states is reachable from any other, including itself.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, status string) error {
	st := models.RegistrationStatus(status)
	if !st.Valid() {
		return appErrors.ErrInvalidStatus
	}
	modified, err := s.store.UpdateStatus(ctx, id, st, time.Now().UTC())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to update registration")
	}
	if !modified {
		return appErrors.Clone(appErrors.ErrNotFound, "Registration not found")
	}
	s.invalidateStats(ctx)
	return nil
}

// Delete removes the record. Deleting an absent id reads as not found, the
// same as a repeated delete.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to delete registration")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "Registration not found")
	}
	s.invalidateStats(ctx)
	return nil
}

// Stats returns review-state counts, optionally served from the cache.
func (s *RegistrationService) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	if s.cache != nil {
		var cached models.RegistrationStats
		if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else {
			s.metrics.RecordCacheOperation(false)
		}
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch registration stats")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *RegistrationService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
