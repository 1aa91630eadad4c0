package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iteach-web/internal/dto"
	"github.com/noah-isme/iteach-web/internal/middleware"
	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
	"github.com/noah-isme/iteach-web/pkg/i18n"
	"github.com/noah-isme/iteach-web/pkg/render"
)

type lessonEditorMock struct {
	createReq   dto.CreateDialogRequest
	editReq     dto.EditDialogRequest
	fields      models.DialogFields
	sessionID   string
	view        *dto.DialogView
	outcome     *dto.DialogOutcome
	deleteOut   *dto.DeleteOutcome
	err         error
	submitCalls int
}

func (m *lessonEditorMock) PromptDelete(lessonID int64, loc *i18n.Localizer) (*dto.DeletePrompt, error) {
	return &dto.DeletePrompt{LessonID: lessonID, Message: loc.T(i18n.KeyLessonDeletePrompt), ConfirmLabel: "Delete", CancelLabel: "Cancel"}, m.err
}

func (m *lessonEditorMock) ConfirmDelete(ctx context.Context, lessonID int64, loc *i18n.Localizer) (*dto.DeleteOutcome, error) {
	return m.deleteOut, m.err
}

func (m *lessonEditorMock) OpenCreateDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, req dto.CreateDialogRequest) (*dto.DialogView, error) {
	m.sessionID = sessionID
	m.createReq = req
	return m.view, m.err
}

func (m *lessonEditorMock) OpenEditDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, req dto.EditDialogRequest) (*dto.DialogView, error) {
	m.sessionID = sessionID
	m.editReq = req
	return m.view, m.err
}

func (m *lessonEditorMock) CurrentDialog(ctx context.Context, sessionID string, loc *i18n.Localizer) (*dto.DialogView, error) {
	return m.view, m.err
}

func (m *lessonEditorMock) SubmitDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, fields models.DialogFields) (*dto.DialogOutcome, error) {
	m.submitCalls++
	m.fields = fields
	return m.outcome, m.err
}

func (m *lessonEditorMock) CancelDialog(ctx context.Context, sessionID string) (*dto.DialogOutcome, error) {
	return m.outcome, m.err
}

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	bundle, err := i18n.NewBundle("en", []string{"en", "fr"})
	require.NoError(t, err)
	return bundle
}

func newTestRouter(t *testing.T, bundle *i18n.Bundle) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := render.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, &models.SessionClaims{SessionID: "sid", Locale: "en"})
		c.Set(middleware.ContextLocalizerKey, bundle.Localizer("en"))
		c.Next()
	})
	return router
}

func newLessonRouter(t *testing.T, editor lessonEditor) *gin.Engine {
	bundle := testBundle(t)
	router := newTestRouter(t, bundle)
	h := NewLessonHandler(editor, bundle)
	router.GET("/teacher/lessons/new", h.NewDialog)
	router.POST("/teacher/lessons/edit", h.EditDialog)
	router.GET("/teacher/lessons/:id/delete", h.DeletePrompt)
	router.DELETE("/teacher/lessons/:id", h.Delete)
	router.GET("/dialogs/current", h.CurrentDialog)
	router.POST("/dialogs/submit", h.Submit)
	router.POST("/dialogs/cancel", h.Cancel)
	return router
}

func decodeEnvelope(t *testing.T, body []byte) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestLessonHandlerNewDialogParsesSlotAndActions(t *testing.T) {
	editor := &lessonEditorMock{view: &dto.DialogView{ID: "d1", Title: "New lesson"}}
	router := newLessonRouter(t, editor)

	req := httptest.NewRequest(http.MethodGet, "/teacher/lessons/new?date=2024-03-10&from=09:00&to=10:00&success=event:lesson-created&cancel=reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sid", editor.sessionID)
	assert.Equal(t, "2024-03-10", editor.createReq.Date)
	assert.Equal(t, models.DialogAction{Kind: models.ActionEvent, Target: "lesson-created"}, editor.createReq.OnSuccess)
	assert.Equal(t, models.ActionReload, editor.createReq.OnCancel.Kind)
	assert.Contains(t, w.Body.String(), `"title":"New lesson"`)
}

func TestLessonHandlerEditDialogBindsPageFields(t *testing.T) {
	editor := &lessonEditorMock{view: &dto.DialogView{ID: "d1", Title: "Edit lesson"}}
	router := newLessonRouter(t, editor)

	form := url.Values{
		"lesson-id":       {"9"},
		"lesson-student":  {"Jane"},
		"lesson-date":     {"2024-03-12"},
		"lesson-from":     {"14:00"},
		"lesson-to":       {"15:00"},
		"lesson-location": {"Room 1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/teacher/lessons/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.EditDialogRequest{LessonID: 9, Student: "Jane", Date: "2024-03-12", From: "14:00", To: "15:00", Location: "Room 1"}, editor.editReq)
	assert.Contains(t, w.Body.String(), `class="lesson-dialog"`)
}

func TestLessonHandlerSubmitClosedOutcome(t *testing.T) {
	editor := &lessonEditorMock{outcome: &dto.DialogOutcome{Closed: true, Action: &models.DialogAction{Kind: models.ActionReload}}}
	router := newLessonRouter(t, editor)

	req := httptest.NewRequest(http.MethodPost, "/dialogs/submit", strings.NewReader(`{"lessonDate":"2024-03-10","lessonFrom":"09:00","lessonTo":"10:00","lessonStudent":"Jane","lessonLocation":"Room 2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane", editor.fields.LessonStudent)
	envelope := decodeEnvelope(t, w.Body.Bytes())
	assert.JSONEq(t, `{"closed":true,"action":{"kind":"reload"}}`, string(envelope["data"]))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestLessonHandlerSubmitRejectedKeepsDialog(t *testing.T) {
	editor := &lessonEditorMock{
		outcome: &dto.DialogOutcome{Dialog: &dto.DialogView{ID: "d1", State: models.DialogOpen, Error: "The lesson could not be created."}},
		err:     appErrors.Clone(appErrors.ErrLessonRejected, "The lesson could not be created."),
	}
	router := newLessonRouter(t, editor)

	req := httptest.NewRequest(http.MethodPost, "/dialogs/submit", strings.NewReader("lessonDate=2024-03-10"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), "The lesson could not be created.")
	assert.Contains(t, w.Body.String(), `data-state="open"`)
}

func TestLessonHandlerSubmitWithoutDialog(t *testing.T) {
	editor := &lessonEditorMock{err: appErrors.ErrNoDialog}
	router := newLessonRouter(t, editor)

	req := httptest.NewRequest(http.MethodPost, "/dialogs/submit", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLessonHandlerCancelRendersClosedFragment(t *testing.T) {
	editor := &lessonEditorMock{outcome: &dto.DialogOutcome{Closed: true, Action: &models.DialogAction{Kind: models.ActionEvent, Target: "lesson-cancelled"}}}
	router := newLessonRouter(t, editor)

	req := httptest.NewRequest(http.MethodPost, "/dialogs/cancel", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-action="event"`)
	assert.Contains(t, w.Body.String(), `data-target="lesson-cancelled"`)
}

func TestLessonHandlerCurrentDialogRebuildsPicker(t *testing.T) {
	editor := &lessonEditorMock{view: &dto.DialogView{
		ID:         "d1",
		State:      models.DialogOpen,
		DatePicker: dto.DatePicker{Format: "mm/dd/yy", Placeholder: "mm/dd/yy", Value: "03/10/2024", ShowOtherMonths: true, SelectOtherMonth: true},
	}}
	router := newLessonRouter(t, editor)

	req := httptest.NewRequest(http.MethodGet, "/dialogs/current", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w.Body.Bytes())
	var view dto.DialogView
	require.NoError(t, json.Unmarshal(envelope["data"], &view))
	assert.Equal(t, "03/10/2024", view.DatePicker.Value)
	assert.True(t, view.DatePicker.SelectOtherMonth)

	editor.view, editor.err = nil, appErrors.ErrNoDialog
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dialogs/current", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLessonHandlerDeletePrompt(t *testing.T) {
	router := newLessonRouter(t, &lessonEditorMock{})

	req := httptest.NewRequest(http.MethodGet, "/teacher/lessons/5/delete", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Do you really want to delete this lesson?")
	assert.Contains(t, w.Body.String(), `data-target="/teacher/lessons/5"`)
}

func TestLessonHandlerDeleteRejectsBadID(t *testing.T) {
	router := newLessonRouter(t, &lessonEditorMock{})

	req := httptest.NewRequest(http.MethodDelete, "/teacher/lessons/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerDeleteOutcomes(t *testing.T) {
	editor := &lessonEditorMock{deleteOut: &dto.DeleteOutcome{LessonID: 5, Deleted: true, Navigate: "gui/home"}}
	router := newLessonRouter(t, editor)

	req := httptest.NewRequest(http.MethodDelete, "/teacher/lessons/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lessonId":5,"deleted":true,"navigate":"gui/home"}`, string(decodeEnvelope(t, w.Body.Bytes())["data"]))

	editor.deleteOut = &dto.DeleteOutcome{LessonID: 5, Error: "The lesson could not be deleted."}
	editor.err = appErrors.Clone(appErrors.ErrLessonRejected, "The lesson could not be deleted.")
	req = httptest.NewRequest(http.MethodDelete, "/teacher/lessons/5", nil)
	req.Header.Set("Accept", "text/html")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "The lesson could not be deleted.")
	assert.NotContains(t, w.Body.String(), "data-navigate")
}

func TestLessonHandlerRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewLessonHandler(&lessonEditorMock{}, testBundle(t))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/dialogs/cancel", nil)

	h.Cancel(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, models.DialogAction{Kind: models.ActionNone}, parseAction(""))
	assert.Equal(t, models.DialogAction{Kind: models.ActionReload}, parseAction("reload"))
	assert.Equal(t, models.DialogAction{Kind: models.ActionRedirect, Target: "gui/lesson/3"}, parseAction("redirect:gui/lesson/3"))
	assert.Equal(t, models.DialogAction{Kind: models.ActionNone}, parseAction("event:"))
	assert.Equal(t, models.DialogAction{Kind: models.ActionNone}, parseAction("explode"))
}
