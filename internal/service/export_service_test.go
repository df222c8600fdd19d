package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrollhq/registration-api/internal/models"
)

func exportFixtureStore(t *testing.T) *mockRegistrationStore {
	t.Helper()
	st := newMockRegistrationStore()
	st.recs["r1"] = models.Registration{
		ID: "r1", FirstName: "Ana", LastName: "Silva", Email: "ana@example.com",
		Phone: "12345678", DateOfBirth: time.Date(2008, 5, 14, 0, 0, 0, 0, time.UTC),
		Program: "Science", GraduationYear: 2026, Status: models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	st.order = append(st.order, "r1")
	return st
}

func TestExportCSV(t *testing.T) {
	svc := NewExportService(exportFixtureStore(t), nil)

	res, err := svc.Registrations(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.True(t, strings.HasSuffix(res.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(res.Data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,First Name,Last Name,Email"))
	assert.Contains(t, lines[1], "ana@example.com")
	assert.Contains(t, lines[1], "2008-05-14")
	assert.Contains(t, lines[1], "pending")
}

func TestExportPDF(t *testing.T) {
	svc := NewExportService(exportFixtureStore(t), nil)

	res, err := svc.Registrations(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasPrefix(string(res.Data), "%PDF"))
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewExportService(exportFixtureStore(t), nil)

	_, err := svc.Registrations(context.Background(), ExportFormat("xlsx"))
	require.Error(t, err)
	assert.EqualError(t, err, "Unsupported export format")
}
