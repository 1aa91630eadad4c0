package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/iteach-web/internal/models"
	"github.com/noah-isme/iteach-web/pkg/middleware/requestid"
)

const maxErrorBody = 64 * 1024

// APIError describes a transport-level failure talking to the lesson API:
// a non-2xx status, a network error or an undecodable body.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	StatusText string
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.StatusText, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.StatusText)
}

// Unwrap returns the underlying network or decode error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HasBody reports whether the server sent a diagnostic body worth showing verbatim.
func (e *APIError) HasBody() bool {
	return strings.TrimSpace(e.Body) != ""
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Credentials are the caller's headers forwarded to the lesson API.
type Credentials struct {
	Cookie        string
	Authorization string
}

type credentialsKey struct{}

// WithCredentials attaches forwarded credentials to ctx.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

func credentialsFrom(ctx context.Context) Credentials {
	creds, _ := ctx.Value(credentialsKey{}).(Credentials)
	return creds
}

type upstreamObserver interface {
	ObserveUpstreamCall(operation, outcome string, duration time.Duration)
}

// LessonAPIRepository is the typed client of the lesson JSON API.
type LessonAPIRepository struct {
	baseURL  *url.URL
	client   *http.Client
	logger   *zap.Logger
	observer upstreamObserver
}

// NewLessonAPIRepository constructs the client. A nil httpClient gets one with the given timeout.
func NewLessonAPIRepository(baseURL string, timeout time.Duration, httpClient *http.Client, observer upstreamObserver, logger *zap.Logger) (*LessonAPIRepository, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse lesson api url: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonAPIRepository{baseURL: parsed, client: httpClient, logger: logger, observer: observer}, nil
}

// CreateLesson posts a new lesson.
func (r *LessonAPIRepository) CreateLesson(ctx context.Context, form models.LessonForm) (*models.Ack, error) {
	var ack models.Ack
	if err := r.do(ctx, "lesson.create", http.MethodPost, "teacher/lesson", form, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// UpdateLesson replaces an existing lesson.
func (r *LessonAPIRepository) UpdateLesson(ctx context.Context, id int64, form models.LessonForm) (*models.Ack, error) {
	var ack models.Ack
	if err := r.do(ctx, "lesson.update", http.MethodPut, lessonPath(id), form, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// DeleteLesson removes a lesson.
func (r *LessonAPIRepository) DeleteLesson(ctx context.Context, id int64) (*models.Ack, error) {
	var ack models.Ack
	if err := r.do(ctx, "lesson.delete", http.MethodDelete, lessonPath(id), nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// StudentLessons fetches a student's month, shifted relative to the month the API last served.
func (r *LessonAPIRepository) StudentLessons(ctx context.Context, studentID int64, shift models.MonthShift) (*models.StudentLessons, error) {
	var lessons models.StudentLessons
	if err := r.do(ctx, "student.lessons", http.MethodGet, StudentLessonsPath(studentID, shift), nil, &lessons); err != nil {
		return nil, err
	}
	if lessons.Lessons == nil {
		lessons.Lessons = []models.Lesson{}
	}
	return &lessons, nil
}

// StudentLessonsPath resolves the month endpoint for a student.
func StudentLessonsPath(studentID int64, shift models.MonthShift) string {
	path := "student/" + strconv.FormatInt(studentID, 10) + "/lessons"
	if shift != models.MonthCurrent {
		path += "/" + string(shift)
	}
	return path
}

func lessonPath(id int64) string {
	return "teacher/lesson/" + strconv.FormatInt(id, 10)
}

func (r *LessonAPIRepository) do(ctx context.Context, operation, method, path string, body, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "transport_error"
		}
		if r.observer != nil {
			r.observer.ObserveUpstreamCall(operation, outcome, time.Since(start))
		}
	}()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", operation, err)
		}
		payload = bytes.NewReader(raw)
	}

	target := r.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, target.String(), payload)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}
	creds := credentialsFrom(ctx)
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if creds.Authorization != "" {
		req.Header.Set("Authorization", creds.Authorization)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("lesson api unreachable", zap.String("operation", operation), zap.String("path", path), zap.Error(err))
		return &APIError{Method: method, Path: path, StatusText: "error", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, StatusText: statusText(resp), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn("lesson api rejected request",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, StatusText: statusText(resp), Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, StatusText: "parsererror", Body: string(raw), Err: err}
	}
	return nil
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}
