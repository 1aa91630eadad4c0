package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/iteach-web/internal/models"
	"github.com/noah-isme/iteach-web/pkg/middleware/requestid"
)

type recordedRequest struct {
	Method  string
	Path    string
	Body    string
	Headers http.Header
}

type observerStub struct {
	calls []string
}

func (o *observerStub) ObserveUpstreamCall(operation, outcome string, duration time.Duration) {
	o.calls = append(o.calls, operation+":"+outcome)
}

func newLessonAPI(t *testing.T, status int, body string) (*LessonAPIRepository, *[]recordedRequest, *observerStub) {
	t.Helper()
	var recorded []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		recorded = append(recorded, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(raw), Headers: r.Header.Clone()})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	observer := &observerStub{}
	repo, err := NewLessonAPIRepository(srv.URL+"/ui", time.Second, nil, observer, nil)
	require.NoError(t, err)
	return repo, &recorded, observer
}

func TestCreateLessonPostsForm(t *testing.T) {
	repo, recorded, observer := newLessonAPI(t, http.StatusOK, `{"success":true}`)
	form := models.LessonForm{Date: "2024-03-10", From: "09:00", To: "10:00", Student: "Jane", Location: "Room 2"}

	ctx := requestid.WithValue(context.Background(), "req-1")
	ctx = WithCredentials(ctx, Credentials{Cookie: "JSESSIONID=abc", Authorization: "Bearer t"})
	ack, err := repo.CreateLesson(ctx, form)

	require.NoError(t, err)
	assert.True(t, ack.Success)
	require.Len(t, *recorded, 1)
	got := (*recorded)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/ui/teacher/lesson", got.Path)
	assert.Equal(t, "application/json", got.Headers.Get("Content-Type"))
	assert.Equal(t, "req-1", got.Headers.Get(requestid.HeaderKey))
	assert.Equal(t, "JSESSIONID=abc", got.Headers.Get("Cookie"))
	assert.Equal(t, "Bearer t", got.Headers.Get("Authorization"))

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(got.Body), &sent))
	assert.Equal(t, map[string]string{"date": "2024-03-10", "from": "09:00", "to": "10:00", "student": "Jane", "location": "Room 2"}, sent)
	assert.Equal(t, []string{"lesson.create:ok"}, observer.calls)
}

func TestUpdateAndDeleteTargetLessonID(t *testing.T) {
	repo, recorded, _ := newLessonAPI(t, http.StatusOK, `{"success":false}`)

	ack, err := repo.UpdateLesson(context.Background(), 42, models.LessonForm{Date: "2024-03-10"})
	require.NoError(t, err)
	assert.False(t, ack.Success)

	ack, err = repo.DeleteLesson(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ack.Success)

	require.Len(t, *recorded, 2)
	assert.Equal(t, http.MethodPut, (*recorded)[0].Method)
	assert.Equal(t, "/ui/teacher/lesson/42", (*recorded)[0].Path)
	assert.Equal(t, http.MethodDelete, (*recorded)[1].Method)
	assert.Equal(t, "/ui/teacher/lesson/42", (*recorded)[1].Path)
	assert.Empty(t, (*recorded)[1].Body)
}

func TestStudentLessonsPaths(t *testing.T) {
	assert.Equal(t, "student/7/lessons", StudentLessonsPath(7, models.MonthCurrent))
	assert.Equal(t, "student/7/lessons/nextMonth", StudentLessonsPath(7, models.MonthNext))
	assert.Equal(t, "student/7/lessons/previousMonth", StudentLessonsPath(7, models.MonthPrevious))
}

func TestStudentLessonsDecodesMonth(t *testing.T) {
	repo, recorded, _ := newLessonAPI(t, http.StatusOK, `{"date":"2024-03-01","hours":1.5,"lessons":[{"id":3,"date":"2024-03-10","from":"09:00","to":"10:30","location":"Room 2"}]}`)

	month, err := repo.StudentLessons(context.Background(), 7, models.MonthNext)

	require.NoError(t, err)
	assert.Equal(t, "/ui/student/7/lessons/nextMonth", (*recorded)[0].Path)
	assert.Equal(t, "2024-03-01", month.Date)
	assert.Equal(t, "1.5", month.TotalHours())
	require.Len(t, month.Lessons, 1)
	assert.Equal(t, int64(3), month.Lessons[0].ID)
}

func TestStudentLessonsEmptyMonth(t *testing.T) {
	repo, _, _ := newLessonAPI(t, http.StatusOK, `{"date":"2024-03-01","hours":0,"lessons":null}`)

	month, err := repo.StudentLessons(context.Background(), 7, models.MonthCurrent)

	require.NoError(t, err)
	assert.NotNil(t, month.Lessons)
	assert.Empty(t, month.Lessons)
	assert.Equal(t, "0", month.TotalHours())
}

func TestTransportFailureKeepsBody(t *testing.T) {
	repo, _, observer := newLessonAPI(t, http.StatusBadRequest, "Invalid date\nMust be future")

	_, err := repo.CreateLesson(context.Background(), models.LessonForm{})

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Bad Request", apiErr.StatusText)
	assert.True(t, apiErr.HasBody())
	assert.Equal(t, "Invalid date\nMust be future", apiErr.Body)
	assert.Equal(t, []string{"lesson.create:transport_error"}, observer.calls)
}

func TestUndecodableBodyIsTransportFailure(t *testing.T) {
	repo, _, _ := newLessonAPI(t, http.StatusOK, "<html>login</html>")

	_, err := repo.DeleteLesson(context.Background(), 1)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "parsererror", apiErr.StatusText)
	assert.Equal(t, "<html>login</html>", apiErr.Body)
}

func TestNetworkFailureHasNoBody(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	repo, err := NewLessonAPIRepository(srv.URL, time.Second, nil, nil, nil)
	require.NoError(t, err)

	_, err = repo.DeleteLesson(context.Background(), 1)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.False(t, apiErr.HasBody())
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Error(t, apiErr.Unwrap())
}
