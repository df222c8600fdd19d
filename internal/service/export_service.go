package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/enrollhq/registration-api/internal/models"
	appErrors "github.com/enrollhq/registration-api/pkg/errors"
	"github.com/enrollhq/registration-api/pkg/export"
)

// ExportFormat identifies a supported export encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered export ready to be served as a download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the full-form collection for the admin dashboard.
type ExportService struct {
	store  registrationStore
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(st registrationStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:  st,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

var exportHeaders = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Date of Birth",
	"Gender", "Address", "City", "Country", "Program", "Education Level",
	"Institution", "Graduation Year", "Status", "Created At",
}

// Registrations renders every record in the requested format.
func (s *ExportService) Registrations(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	recs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to export registrations")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(recs))}
	for _, rec := range recs {
		dataset.Rows = append(dataset.Rows, exportRow(rec))
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to export registrations")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("registrations-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := s.pdf.Render(dataset, "Registrations")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to export registrations")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("registrations-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "Unsupported export format")
	}
}

func exportRow(rec models.Registration) map[string]string {
	return map[string]string{
		"ID":              rec.ID,
		"First Name":      rec.FirstName,
		"Last Name":       rec.LastName,
		"Email":           rec.Email,
		"Phone":           rec.Phone,
		"Date of Birth":   rec.DateOfBirth.Format("2006-01-02"),
		"Gender":          rec.Gender,
		"Address":         rec.Address,
		"City":            rec.City,
		"Country":         rec.Country,
		"Program":         rec.Program,
		"Education Level": rec.EducationLevel,
		"Institution":     rec.Institution,
		"Graduation Year": strconv.Itoa(rec.GraduationYear),
		"Status":          string(rec.Status),
		"Created At":      rec.CreatedAt.Format(time.RFC3339),
	}
}
