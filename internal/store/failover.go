package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/enrollhq/registration-api/internal/models"
)

// Backend labels used for audit logging and metrics.
const (
	BackendPrimary  = "primary"
	BackendFallback = "fallback"
)

// ServeObserver is notified which backend served each operation.
type ServeObserver func(operation, backend string)

// FailoverRegistrationStore tries the primary backend and, on any backend
// error, performs exactly one synchronous fallback to the file store for
// that single call. The decision is made fresh on every operation, so
// consecutive calls may be served by different backends and the two are
// never reconciled. A not-found result is never a failover trigger.
type FailoverRegistrationStore struct {
	primary  RegistrationBackend
	fallback RegistrationBackend
	logger   *zap.Logger
	observe  ServeObserver
}

// NewFailoverRegistrationStore constructs the decorator. primary may be nil
// when the service runs on the fallback store alone.
func NewFailoverRegistrationStore(primary, fallback RegistrationBackend, logger *zap.Logger, observe ServeObserver) *FailoverRegistrationStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailoverRegistrationStore{primary: primary, fallback: fallback, logger: logger, observe: observe}
}

func (s *FailoverRegistrationStore) served(op, backend string) {
	s.logger.Debug("storage backend served call", zap.String("operation", op), zap.String("backend", backend))
	if s.observe != nil {
		s.observe(op, backend)
	}
}

func (s *FailoverRegistrationStore) fellBack(op string, err error) {
	s.logger.Warn("primary backend failed, falling back to file store",
		zap.String("operation", op),
		zap.Error(err),
	)
}

// usePrimary reports whether the primary result should be returned as-is.
func usePrimary(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound)
}

func (s *FailoverRegistrationStore) Insert(ctx context.Context, rec *models.Registration) error {
	if s.primary != nil {
		if err := s.primary.Insert(ctx, rec); usePrimary(err) {
			s.served("insert", BackendPrimary)
			return err
		} else {
			s.fellBack("insert", err)
		}
	}
	err := s.fallback.Insert(ctx, rec)
	s.served("insert", BackendFallback)
	return err
}

func (s *FailoverRegistrationStore) FindAll(ctx context.Context) ([]models.Registration, error) {
	if s.primary != nil {
		recs, err := s.primary.FindAll(ctx)
		if usePrimary(err) {
			s.served("find_all", BackendPrimary)
			return recs, err
		}
		s.fellBack("find_all", err)
	}
	recs, err := s.fallback.FindAll(ctx)
	s.served("find_all", BackendFallback)
	return recs, err
}

func (s *FailoverRegistrationStore) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if s.primary != nil {
		rec, err := s.primary.FindByID(ctx, id)
		if usePrimary(err) {
			s.served("find_by_id", BackendPrimary)
			return rec, err
		}
		s.fellBack("find_by_id", err)
	}
	rec, err := s.fallback.FindByID(ctx, id)
	s.served("find_by_id", BackendFallback)
	return rec, err
}

func (s *FailoverRegistrationStore) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus, updatedAt time.Time) (bool, error) {
	if s.primary != nil {
		modified, err := s.primary.UpdateStatus(ctx, id, status, updatedAt)
		if err == nil {
			s.served("update_status", BackendPrimary)
			return modified, nil
		}
		s.fellBack("update_status", err)
	}
	modified, err := s.fallback.UpdateStatus(ctx, id, status, updatedAt)
	s.served("update_status", BackendFallback)
	return modified, err
}

func (s *FailoverRegistrationStore) Delete(ctx context.Context, id string) (bool, error) {
	if s.primary != nil {
		deleted, err := s.primary.Delete(ctx, id)
		if err == nil {
			s.served("delete", BackendPrimary)
			return deleted, nil
		}
		s.fellBack("delete", err)
	}
	deleted, err := s.fallback.Delete(ctx, id)
	s.served("delete", BackendFallback)
	return deleted, err
}

func (s *FailoverRegistrationStore) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	if s.primary != nil {
		stats, err := s.primary.Stats(ctx)
		if err == nil {
			s.served("stats", BackendPrimary)
			return stats, nil
		}
		s.fellBack("stats", err)
	}
	stats, err := s.fallback.Stats(ctx)
	s.served("stats", BackendFallback)
	return stats, err
}

// FailoverSimpleRegistrationStore applies the same per-call fallback policy
// to the simple-form collection.
type FailoverSimpleRegistrationStore struct {
	primary  SimpleRegistrationBackend
	fallback SimpleRegistrationBackend
	logger   *zap.Logger
	observe  ServeObserver
}

// NewFailoverSimpleRegistrationStore constructs the decorator. primary may
// be nil.
func NewFailoverSimpleRegistrationStore(primary, fallback SimpleRegistrationBackend, logger *zap.Logger, observe ServeObserver) *FailoverSimpleRegistrationStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailoverSimpleRegistrationStore{primary: primary, fallback: fallback, logger: logger, observe: observe}
}

func (s *FailoverSimpleRegistrationStore) served(op, backend string) {
	s.logger.Debug("storage backend served call", zap.String("operation", op), zap.String("backend", backend))
	if s.observe != nil {
		s.observe(op, backend)
	}
}

func (s *FailoverSimpleRegistrationStore) fellBack(op string, err error) {
	s.logger.Warn("primary backend failed, falling back to file store",
		zap.String("operation", op),
		zap.Error(err),
	)
}

func (s *FailoverSimpleRegistrationStore) Insert(ctx context.Context, rec *models.SimpleRegistration) error {
	if s.primary != nil {
		if err := s.primary.Insert(ctx, rec); usePrimary(err) {
			s.served("insert", BackendPrimary)
			return err
		} else {
			s.fellBack("insert", err)
		}
	}
	err := s.fallback.Insert(ctx, rec)
	s.served("insert", BackendFallback)
	return err
}

func (s *FailoverSimpleRegistrationStore) FindAll(ctx context.Context) ([]models.SimpleRegistration, error) {
	if s.primary != nil {
		recs, err := s.primary.FindAll(ctx)
		if usePrimary(err) {
			s.served("find_all", BackendPrimary)
			return recs, err
		}
		s.fellBack("find_all", err)
	}
	recs, err := s.fallback.FindAll(ctx)
	s.served("find_all", BackendFallback)
	return recs, err
}

func (s *FailoverSimpleRegistrationStore) FindByEmail(ctx context.Context, email string) (*models.SimpleRegistration, error) {
	if s.primary != nil {
		rec, err := s.primary.FindByEmail(ctx, email)
		if usePrimary(err) {
			s.served("find_by_email", BackendPrimary)
			return rec, err
		}
		s.fellBack("find_by_email", err)
	}
	rec, err := s.fallback.FindByEmail(ctx, email)
	s.served("find_by_email", BackendFallback)
	return rec, err
}

func (s *FailoverSimpleRegistrationStore) Count(ctx context.Context) (int, error) {
	if s.primary != nil {
		n, err := s.primary.Count(ctx)
		if err == nil {
			s.served("count", BackendPrimary)
			return n, nil
		}
		s.fellBack("count", err)
	}
	n, err := s.fallback.Count(ctx)
	s.served("count", BackendFallback)
	return n, err
}
