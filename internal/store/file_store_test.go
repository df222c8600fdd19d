package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrollhq/registration-api/internal/models"
)

func sampleRegistration(email string) *models.Registration {
	now := time.Now().UTC()
	return &models.Registration{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          email,
		Phone:          "+44123456789",
		DateOfBirth:    time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Gender:         "female",
		Address:        "1 Analytical Way",
		City:           "London",
		Country:        "UK",
		Program:        "Computer Science",
		EducationLevel: "Bachelor",
		Institution:    "UCL",
		GraduationYear: 2025,
		Motivation:     "I want to study computation.",
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestFileRegistrationStoreLazyCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	st := NewFileRegistrationStore(dir)

	recs, err := st.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = os.Stat(filepath.Join(dir, registrationsFile))
	assert.True(t, os.IsNotExist(err), "reads must not create the data file")

	require.NoError(t, st.Insert(context.Background(), sampleRegistration("ada@example.com")))
	_, err = os.Stat(filepath.Join(dir, registrationsFile))
	assert.NoError(t, err)
}

func TestFileRegistrationStoreInsertionOrder(t *testing.T) {
	st := NewFileRegistrationStore(t.TempDir())
	ctx := context.Background()

	first := sampleRegistration("first@example.com")
	second := sampleRegistration("second@example.com")
	require.NoError(t, st.Insert(ctx, first))
	require.NoError(t, st.Insert(ctx, second))
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	recs, err := st.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "first@example.com", recs[0].Email)
	assert.Equal(t, "second@example.com", recs[1].Email)
}

func TestFileRegistrationStoreFindByID(t *testing.T) {
	st := NewFileRegistrationStore(t.TempDir())
	ctx := context.Background()

	rec := sampleRegistration("ada@example.com")
	require.NoError(t, st.Insert(ctx, rec))

	got, err := st.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Email, got.Email)
	assert.Equal(t, models.StatusPending, got.Status)

	again, err := st.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = st.FindByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRegistrationStoreUpdateStatus(t *testing.T) {
	st := NewFileRegistrationStore(t.TempDir())
	ctx := context.Background()

	rec := sampleRegistration("ada@example.com")
	require.NoError(t, st.Insert(ctx, rec))

	later := time.Now().UTC().Add(time.Second)
	modified, err := st.UpdateStatus(ctx, rec.ID, models.StatusApproved, later)
	require.NoError(t, err)
	assert.True(t, modified)

	got, err := st.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	// Self-transition is legal and still counts as a modification.
	modified, err = st.UpdateStatus(ctx, rec.ID, models.StatusApproved, later.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, modified)

	modified, err = st.UpdateStatus(ctx, "missing", models.StatusRejected, later)
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestFileRegistrationStoreDelete(t *testing.T) {
	st := NewFileRegistrationStore(t.TempDir())
	ctx := context.Background()

	rec := sampleRegistration("ada@example.com")
	require.NoError(t, st.Insert(ctx, rec))

	deleted, err := st.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = st.FindByID(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err = st.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFileRegistrationStoreStats(t *testing.T) {
	st := NewFileRegistrationStore(t.TempDir())
	ctx := context.Background()

	approved := sampleRegistration("a@example.com")
	require.NoError(t, st.Insert(ctx, approved))
	require.NoError(t, st.Insert(ctx, sampleRegistration("b@example.com")))
	require.NoError(t, st.Insert(ctx, sampleRegistration("c@example.com")))

	_, err := st.UpdateStatus(ctx, approved.ID, models.StatusApproved, time.Now().UTC())
	require.NoError(t, err)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 0, stats.Rejected)
}

func TestFileSimpleRegistrationStore(t *testing.T) {
	st := NewFileSimpleRegistrationStore(t.TempDir())
	ctx := context.Background()

	now := time.Now().UTC()
	rec := &models.SimpleRegistration{Name: "A", Email: "a@b.com", Mobile: "12345678", ClassName: "10A", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.Insert(ctx, rec))
	assert.NotEmpty(t, rec.ID)

	got, err := st.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = st.FindByEmail(ctx, "other@b.com")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recs, err := st.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "10A", recs[0].ClassName)
}
