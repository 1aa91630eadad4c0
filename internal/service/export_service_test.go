package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/iteach-web/internal/dto"
	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
)

func TestExportInitialisesMissingView(t *testing.T) {
	gateway := &studentLessonsStub{months: map[models.MonthShift]*models.StudentLessons{models.MonthCurrent: marchLessons}}
	schedule, _, _ := newSchedule(t, gateway)
	svc := NewExportService(schedule, zap.NewNop(), nil, nil)

	file, err := svc.Export(context.Background(), "sid", 7, testLocalizer(t, "en"), dto.ExportCSV)

	require.NoError(t, err)
	assert.Len(t, gateway.calls, 1)
	assert.Equal(t, "student_7_lessons_2024-03.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Schedule", "Location", "Link"}, records[0])
	assert.Equal(t, "gui/lesson/3", records[1][2])
	assert.Equal(t, []string{"Hours this month", "2.5", ""}, records[3])
}

func TestExportReusesCommittedMonth(t *testing.T) {
	gateway := &studentLessonsStub{months: map[models.MonthShift]*models.StudentLessons{models.MonthCurrent: marchLessons}}
	schedule, _, _ := newSchedule(t, gateway)
	loc := testLocalizer(t, "fr")
	_, err := schedule.Init(context.Background(), "sid", 7, loc)
	require.NoError(t, err)
	svc := NewExportService(schedule, zap.NewNop(), nil, nil)

	file, err := svc.Export(context.Background(), "sid", 7, loc, dto.ExportPDF)

	require.NoError(t, err)
	assert.Len(t, gateway.calls, 1)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF-")))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	schedule, _, _ := newSchedule(t, &studentLessonsStub{})
	svc := NewExportService(schedule, zap.NewNop(), nil, nil)

	_, err := svc.Export(context.Background(), "sid", 7, testLocalizer(t, "en"), dto.ExportFormat("xlsx"))

	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
