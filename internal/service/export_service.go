package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/iteach-web/internal/dto"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
	"github.com/noah-isme/iteach-web/pkg/export"
	"github.com/noah-isme/iteach-web/pkg/i18n"
)

type monthSource interface {
	CurrentView(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error)
	Init(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders the month shown on a student's schedule page as a file.
type ExportService struct {
	months monthSource
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(months monthSource, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{months: months, csv: csv, pdf: pdf, logger: logger}
}

// Export renders the session's committed month, initialising the view first when the page was never loaded.
func (s *ExportService) Export(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer, format dto.ExportFormat) (*dto.ExportFile, error) {
	if format != dto.ExportCSV && format != dto.ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	view, err := s.months.CurrentView(ctx, sessionID, studentID, loc)
	if errors.Is(err, appErrors.ErrNotFound) {
		view, err = s.months.Init(ctx, sessionID, studentID, loc)
	}
	if err != nil {
		return nil, err
	}

	dataset := monthDataset(view, loc)
	var payload []byte
	var contentType string
	switch format {
	case dto.ExportCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case dto.ExportPDF:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	}
	if err != nil {
		s.logger.Error("render month export failed", zap.Int64("student_id", studentID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &dto.ExportFile{
		Filename:    exportFilename(view, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func monthDataset(view *dto.ScheduleView, loc *i18n.Localizer) export.Dataset {
	rows := make([][]string, 0, len(view.Lessons))
	for _, entry := range view.Lessons {
		rows = append(rows, []string{entry.Schedule, entry.Location, entry.Link})
	}
	return export.Dataset{
		Title:   loc.T(i18n.KeyExportTitle, view.MonthHeader),
		Headers: []string{loc.T(i18n.KeyExportSchedule), loc.T(i18n.KeyExportLocation), loc.T(i18n.KeyExportLink)},
		Rows:    rows,
		Footer:  []string{view.HoursLabel, view.TotalHours},
	}
}

func exportFilename(view *dto.ScheduleView, format dto.ExportFormat) string {
	month := view.ReferenceDate
	if len(month) >= 7 {
		month = month[:7]
	} else {
		month = "month"
	}
	return fmt.Sprintf("student_%d_lessons_%s.%s", view.StudentID, month, format)
}
