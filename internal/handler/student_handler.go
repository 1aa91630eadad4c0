package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iteach-web/internal/dto"
	"github.com/noah-isme/iteach-web/pkg/i18n"
	"github.com/noah-isme/iteach-web/pkg/response"
)

const tmplStudentLessons = "student_lessons.html"

type studentSchedule interface {
	Init(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error)
	LoadCurrentMonth(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error)
	LoadNextMonth(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error)
	LoadPreviousMonth(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error)
}

type monthExporter interface {
	Export(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer, format dto.ExportFormat) (*dto.ExportFile, error)
}

type monthLoader func(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error)

// StudentHandler serves a student's month of lessons.
type StudentHandler struct {
	schedule studentSchedule
	exporter monthExporter
	bundle   *i18n.Bundle
}

// NewStudentHandler builds a student handler.
func NewStudentHandler(schedule studentSchedule, exporter monthExporter, bundle *i18n.Bundle) *StudentHandler {
	return &StudentHandler{schedule: schedule, exporter: exporter, bundle: bundle}
}

// Show godoc
// @Summary Initialise a student's schedule on the current month
// @Tags Students
// @Produce json,html
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /student/{id} [get]
func (h *StudentHandler) Show(c *gin.Context) {
	h.render(c, h.schedule.Init)
}

// Lessons godoc
// @Summary Reload the current month
// @Tags Students
// @Produce json,html
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /student/{id}/lessons [get]
func (h *StudentHandler) Lessons(c *gin.Context) {
	h.render(c, h.schedule.LoadCurrentMonth)
}

// NextMonth godoc
// @Summary Move a student's schedule one month forward
// @Tags Students
// @Produce json,html
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/{id}/lessons/nextMonth [get]
func (h *StudentHandler) NextMonth(c *gin.Context) {
	h.render(c, h.schedule.LoadNextMonth)
}

// PreviousMonth godoc
// @Summary Move a student's schedule one month back
// @Tags Students
// @Produce json,html
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/{id}/lessons/previousMonth [get]
func (h *StudentHandler) PreviousMonth(c *gin.Context) {
	h.render(c, h.schedule.LoadPreviousMonth)
}

// Export godoc
// @Summary Download the displayed month
// @Tags Students
// @Produce text/csv,application/pdf
// @Param id path int true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /student/{id}/lessons/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := dto.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(dto.ExportCSV))))
	file, err := h.exporter.Export(c.Request.Context(), sid, studentID, localizerFromContext(c, h.bundle), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

func (h *StudentHandler) render(c *gin.Context, load monthLoader) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := load(c.Request.Context(), sid, studentID, localizerFromContext(c, h.bundle))
	if view == nil {
		if err == nil {
			c.Status(http.StatusNoContent)
			return
		}
		response.Error(c, err)
		return
	}
	response.Outcome(c, tmplStudentLessons, view, err)
}
