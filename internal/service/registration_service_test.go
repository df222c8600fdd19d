package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrollhq/registration-api/internal/models"
	"github.com/enrollhq/registration-api/internal/store"
	appErrors "github.com/enrollhq/registration-api/pkg/errors"
)

type mockRegistrationStore struct {
	recs   map[string]models.Registration
	order  []string
	nextID int
	err    error
}

func newMockRegistrationStore() *mockRegistrationStore {
	return &mockRegistrationStore{recs: make(map[string]models.Registration)}
}

func (m *mockRegistrationStore) Insert(_ context.Context, rec *models.Registration) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	rec.ID = strings.Repeat("0", 23) + string(rune('a'+m.nextID))
	m.recs[rec.ID] = *rec
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *mockRegistrationStore) FindAll(_ context.Context) ([]models.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	recs := make([]models.Registration, 0, len(m.order))
	for _, id := range m.order {
		recs = append(recs, m.recs[id])
	}
	return recs, nil
}

func (m *mockRegistrationStore) FindByID(_ context.Context, id string) (*models.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	if rec, ok := m.recs[id]; ok {
		return &rec, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockRegistrationStore) UpdateStatus(_ context.Context, id string, status models.RegistrationStatus, updatedAt time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	rec, ok := m.recs[id]
	if !ok {
		return false, nil
	}
	rec.Status = status
	rec.UpdatedAt = updatedAt
	m.recs[id] = rec
	return true, nil
}

func (m *mockRegistrationStore) Delete(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.recs[id]; !ok {
		return false, nil
	}
	delete(m.recs, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *mockRegistrationStore) Stats(_ context.Context) (*models.RegistrationStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &models.RegistrationStats{Total: len(m.recs)}
	for _, rec := range m.recs {
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

func validCreateRequest() CreateRegistrationRequest {
	return CreateRegistrationRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Phone:          "+44123456789",
		DateOfBirth:    "1990-12-10",
		Gender:         "female",
		Address:        "1 Analytical Way",
		City:           "London",
		Country:        "UK",
		Program:        "Computer Science",
		EducationLevel: "Bachelor",
		Institution:    "UCL",
		GraduationYear: 2025,
		Motivation:     strings.Repeat("m", 120),
	}
}

func newTestService(st registrationStore) *RegistrationService {
	return NewRegistrationService(st, nil, nil, nil, 0, nil)
}

func TestRegistrationCreateRoundTrip(t *testing.T) {
	st := newMockRegistrationStore()
	svc := newTestService(st)

	req := validCreateRequest()
	rec, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	assert.Equal(t, 2025, rec.GraduationYear)
	assert.Equal(t, time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC), rec.DateOfBirth)

	got, err := svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRegistrationCreateMissingFieldOrder(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*CreateRegistrationRequest)
	}{
		{"firstName", func(r *CreateRegistrationRequest) { r.FirstName = "" }},
		{"lastName", func(r *CreateRegistrationRequest) { r.LastName = "" }},
		{"email", func(r *CreateRegistrationRequest) { r.Email = "" }},
		{"phone", func(r *CreateRegistrationRequest) { r.Phone = "" }},
		{"dateOfBirth", func(r *CreateRegistrationRequest) { r.DateOfBirth = "" }},
		{"gender", func(r *CreateRegistrationRequest) { r.Gender = "" }},
		{"address", func(r *CreateRegistrationRequest) { r.Address = "" }},
		{"city", func(r *CreateRegistrationRequest) { r.City = "" }},
		{"country", func(r *CreateRegistrationRequest) { r.Country = "" }},
		{"program", func(r *CreateRegistrationRequest) { r.Program = "" }},
		{"educationLevel", func(r *CreateRegistrationRequest) { r.EducationLevel = "" }},
		{"institution", func(r *CreateRegistrationRequest) { r.Institution = "" }},
		{"graduationYear", func(r *CreateRegistrationRequest) { r.GraduationYear = 0 }},
		{"motivation", func(r *CreateRegistrationRequest) { r.Motivation = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			svc := newTestService(newMockRegistrationStore())
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.EqualError(t, err, "Missing required field: "+tc.field)
		})
	}
}

func TestRegistrationCreateFirstMissingFieldWins(t *testing.T) {
	svc := newTestService(newMockRegistrationStore())
	req := validCreateRequest()
	req.LastName = ""
	req.Institution = ""
	req.Motivation = ""

	_, err := svc.Create(context.Background(), req)
	assert.EqualError(t, err, "Missing required field: lastName")
}

func TestRegistrationCreateEmailFormat(t *testing.T) {
	bad := []string{"plainaddress", "no-at.example.com", "nodot@example", "spaced name@example.com", "a@b c.com"}
	for _, email := range bad {
		svc := newTestService(newMockRegistrationStore())
		req := validCreateRequest()
		req.Email = email

		_, err := svc.Create(context.Background(), req)
		assert.EqualError(t, err, "Invalid email format", "email %q", email)
	}

	svc := newTestService(newMockRegistrationStore())
	req := validCreateRequest()
	req.Email = "a@b.co"
	_, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestRegistrationCreateMotivationBoundary(t *testing.T) {
	svc := newTestService(newMockRegistrationStore())
	req := validCreateRequest()
	req.Motivation = strings.Repeat("x", 99)
	_, err := svc.Create(context.Background(), req)
	assert.EqualError(t, err, "Motivation must be at least 100 characters")

	req.Motivation = strings.Repeat("x", 100)
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)

	// Length is counted in code points, not bytes.
	req = validCreateRequest()
	req.Motivation = strings.Repeat("ü", 100)
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestRegistrationCreateInvalidDateOfBirth(t *testing.T) {
	svc := newTestService(newMockRegistrationStore())
	req := validCreateRequest()
	req.DateOfBirth = "not-a-date"

	_, err := svc.Create(context.Background(), req)
	assert.EqualError(t, err, "Invalid date of birth")
}

func TestRegistrationGetNotFound(t *testing.T) {
	svc := newTestService(newMockRegistrationStore())

	_, err := svc.Get(context.Background(), "does-not-exist")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRegistrationUpdateStatus(t *testing.T) {
	st := newMockRegistrationStore()
	svc := newTestService(st)

	rec, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), rec.ID, "approved"))

	got, err := svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))

	// Any state is reachable from any other, including itself.
	require.NoError(t, svc.UpdateStatus(context.Background(), rec.ID, "approved"))
	require.NoError(t, svc.UpdateStatus(context.Background(), rec.ID, "pending"))
}

func TestRegistrationUpdateStatusInvalid(t *testing.T) {
	svc := newTestService(newMockRegistrationStore())

	err := svc.UpdateStatus(context.Background(), "any", "archived")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErr.Code)
}

func TestRegistrationUpdateStatusNotFound(t *testing.T) {
	svc := newTestService(newMockRegistrationStore())

	err := svc.UpdateStatus(context.Background(), "missing", "approved")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRegistrationDeleteIdempotentNotFound(t *testing.T) {
	st := newMockRegistrationStore()
	svc := newTestService(st)

	rec, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), rec.ID))

	_, err = svc.Get(context.Background(), rec.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), rec.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRegistrationStats(t *testing.T) {
	st := newMockRegistrationStore()
	svc := newTestService(st)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := validCreateRequest()
		req.Email = "user" + string(rune('a'+i)) + "@example.com"
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	recs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.NoError(t, svc.UpdateStatus(ctx, recs[0].ID, "approved"))
	require.NoError(t, svc.UpdateStatus(ctx, recs[1].ID, "rejected"))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.RegistrationStats{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, stats)
}

type mapStatsCache struct {
	values map[string][]byte
	gets   int
	hits   int
}

func (c *mapStatsCache) Get(_ context.Context, key string, dest interface{}) error {
	c.gets++
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(raw, dest)
}

func (c *mapStatsCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.values == nil {
		c.values = make(map[string][]byte)
	}
	c.values[key] = raw
	return nil
}

func (c *mapStatsCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func TestRegistrationStatsCache(t *testing.T) {
	st := newMockRegistrationStore()
	cache := &mapStatsCache{}
	svc := NewRegistrationService(st, nil, nil, cache, time.Minute, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)

	// Mutations invalidate the cached stats.
	recs, err := svc.List(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, recs[0].ID))

	third, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Total)
}
