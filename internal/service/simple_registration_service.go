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

type simpleRegistrationStore interface {
	Insert(ctx context.Context, rec *models.SimpleRegistration) error
	FindAll(ctx context.Context) ([]models.SimpleRegistration, error)
	FindByEmail(ctx context.Context, email string) (*models.SimpleRegistration, error)
}

// CreateSimpleRegistrationRequest holds the reduced-schema intake payload.
type CreateSimpleRegistrationRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,emailish"`
	Mobile    string `json:"mobile" validate:"required,min=8"`
	ClassName string `json:"className" validate:"required"`
}

// SimpleRegistrationService implements the simple-form intake path: no
// review workflow, but email uniqueness is enforced at creation.
type SimpleRegistrationService struct {
	store     simpleRegistrationStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSimpleRegistrationService constructs the service.
func NewSimpleRegistrationService(st simpleRegistrationStore, validate *validator.Validate, logger *zap.Logger) *SimpleRegistrationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimpleRegistrationService{store: st, validator: validate, logger: logger}
}

// Create validates the payload, rejects duplicate emails and stores the
// record, returning it with its assigned id.
func (s *SimpleRegistrationService) Create(ctx context.Context, req CreateSimpleRegistrationRequest) (*models.SimpleRegistration, error) {
	if err := checkPayload(s.validator, req); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to create registration")
	}
	if existing != nil {
		return nil, appErrors.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	rec := &models.SimpleRegistration{
		Name:      req.Name,
		Email:     req.Email,
		Mobile:    req.Mobile,
		ClassName: req.ClassName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to create registration")
	}
	return rec, nil
}

// List returns all records in backend order.
func (s *SimpleRegistrationService) List(ctx context.Context) ([]models.SimpleRegistration, error) {
	recs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch registrations")
	}
	return recs, nil
}

// Stats derives intake counts from each record's createdAt against the
// clock at call time; nothing is stored.
func (s *SimpleRegistrationService) Stats(ctx context.Context) (*models.SimpleRegistrationStats, error) {
	recs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch registration stats")
	}

	now := time.Now().UTC()
	weekCutoff := now.AddDate(0, 0, -7)
	monthCutoff := now.AddDate(0, -1, 0)

	stats := &models.SimpleRegistrationStats{Total: len(recs)}
	for _, rec := range recs {
		created := rec.CreatedAt.UTC()
		y1, m1, d1 := created.Date()
		y2, m2, d2 := now.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			stats.Today++
		}
		if created.After(weekCutoff) {
			stats.ThisWeek++
		}
		if created.After(monthCutoff) {
			stats.ThisMonth++
		}
	}
	return stats, nil
}
