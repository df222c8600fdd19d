// Package store provides the persistence backends for registration records:
// a MongoDB-backed primary, a local JSON file fallback, and a failover
// decorator that picks between them per call.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/enrollhq/registration-api/internal/models"
)

// ErrNotFound signals that no record matched. Backends return it for misses
// and for malformed ids; it is a result, never a reason to fail over.
var ErrNotFound = errors.New("record not found")

// RegistrationBackend is the operation set a full-form backend must satisfy.
type RegistrationBackend interface {
	Insert(ctx context.Context, rec *models.Registration) error
	FindAll(ctx context.Context) ([]models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*models.RegistrationStats, error)
}

// SimpleRegistrationBackend is the operation set a simple-form backend must
// satisfy.
type SimpleRegistrationBackend interface {
	Insert(ctx context.Context, rec *models.SimpleRegistration) error
	FindAll(ctx context.Context) ([]models.SimpleRegistration, error)
	FindByEmail(ctx context.Context, email string) (*models.SimpleRegistration, error)
	Count(ctx context.Context) (int, error)
}
