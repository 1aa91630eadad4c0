package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/iteach-web/internal/dto"
	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
	"github.com/noah-isme/iteach-web/pkg/i18n"
	"github.com/noah-isme/iteach-web/pkg/response"
)

const (
	tmplLessonDialog  = "lesson_dialog.html"
	tmplDialogOutcome = "dialog_outcome.html"
	tmplDeletePrompt  = "delete_prompt.html"
	tmplDeleteResult  = "delete_result.html"
)

type lessonEditor interface {
	PromptDelete(lessonID int64, loc *i18n.Localizer) (*dto.DeletePrompt, error)
	ConfirmDelete(ctx context.Context, lessonID int64, loc *i18n.Localizer) (*dto.DeleteOutcome, error)
	OpenCreateDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, req dto.CreateDialogRequest) (*dto.DialogView, error)
	OpenEditDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, req dto.EditDialogRequest) (*dto.DialogView, error)
	CurrentDialog(ctx context.Context, sessionID string, loc *i18n.Localizer) (*dto.DialogView, error)
	SubmitDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, fields models.DialogFields) (*dto.DialogOutcome, error)
	CancelDialog(ctx context.Context, sessionID string) (*dto.DialogOutcome, error)
}

// LessonHandler serves the lesson dialogs and the delete confirmation.
type LessonHandler struct {
	editor lessonEditor
	bundle *i18n.Bundle
}

// NewLessonHandler builds a lesson handler.
func NewLessonHandler(editor lessonEditor, bundle *i18n.Bundle) *LessonHandler {
	return &LessonHandler{editor: editor, bundle: bundle}
}

// NewDialog godoc
// @Summary Open the create lesson dialog on a picked slot
// @Tags Lessons
// @Produce json,html
// @Param date query string true "Slot date"
// @Param from query string true "Slot start time"
// @Param to query string true "Slot end time"
// @Param success query string false "Action on success (reload, event:<name>, redirect:<route>)"
// @Param cancel query string false "Action on cancel"
// @Success 200 {object} response.Envelope
// @Router /teacher/lessons/new [get]
func (h *LessonHandler) NewDialog(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req := dto.CreateDialogRequest{
		Date:      c.Query("date"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		OnSuccess: parseAction(c.Query("success")),
		OnCancel:  parseAction(c.Query("cancel")),
	}
	view, err := h.editor.OpenCreateDialog(c.Request.Context(), sid, localizerFromContext(c, h.bundle), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Negotiate(c, http.StatusOK, tmplLessonDialog, view)
}

// EditDialog godoc
// @Summary Open the edit lesson dialog from the lesson page fields
// @Tags Lessons
// @Accept x-www-form-urlencoded,json
// @Produce json,html
// @Param payload body dto.EditDialogRequest true "Selected lesson"
// @Success 200 {object} response.Envelope
// @Router /teacher/lessons/edit [post]
func (h *LessonHandler) EditDialog(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.EditDialogRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson selection"))
		return
	}
	view, err := h.editor.OpenEditDialog(c.Request.Context(), sid, localizerFromContext(c, h.bundle), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Negotiate(c, http.StatusOK, tmplLessonDialog, view)
}

// CurrentDialog godoc
// @Summary Re-render the open dialog
// @Tags Dialogs
// @Produce json,html
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dialogs/current [get]
func (h *LessonHandler) CurrentDialog(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.editor.CurrentDialog(c.Request.Context(), sid, localizerFromContext(c, h.bundle))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Negotiate(c, http.StatusOK, tmplLessonDialog, view)
}

// Submit godoc
// @Summary Submit the open lesson dialog
// @Description Always answers with a dialog outcome; never redirects.
// @Tags Dialogs
// @Accept x-www-form-urlencoded,json
// @Produce json,html
// @Param payload body models.DialogFields true "Dialog fields"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /dialogs/submit [post]
func (h *LessonHandler) Submit(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var fields models.DialogFields
	if err := c.ShouldBind(&fields); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dialog fields"))
		return
	}
	outcome, err := h.editor.SubmitDialog(c.Request.Context(), sid, localizerFromContext(c, h.bundle), fields)
	if outcome == nil {
		response.Error(c, err)
		return
	}
	response.Outcome(c, tmplDialogOutcome, outcome, err)
}

// Cancel godoc
// @Summary Cancel the open lesson dialog
// @Tags Dialogs
// @Produce json,html
// @Success 200 {object} response.Envelope
// @Router /dialogs/cancel [post]
func (h *LessonHandler) Cancel(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.editor.CancelDialog(c.Request.Context(), sid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Negotiate(c, http.StatusOK, tmplDialogOutcome, outcome)
}

// DeletePrompt godoc
// @Summary Ask for confirmation before deleting a lesson
// @Tags Lessons
// @Produce json,html
// @Param id path int true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/lessons/{id}/delete [get]
func (h *LessonHandler) DeletePrompt(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	prompt, err := h.editor.PromptDelete(id, localizerFromContext(c, h.bundle))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Negotiate(c, http.StatusOK, tmplDeletePrompt, prompt)
}

// Delete godoc
// @Summary Delete a lesson once confirmed
// @Tags Lessons
// @Produce json,html
// @Param id path int true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /teacher/lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.editor.ConfirmDelete(c.Request.Context(), id, localizerFromContext(c, h.bundle))
	if outcome == nil {
		response.Error(c, err)
		return
	}
	response.Outcome(c, tmplDeleteResult, outcome, err)
}
