package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/iteach-web/internal/dto"
	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
	"github.com/noah-isme/iteach-web/pkg/i18n"
)

type studentLessonsGateway interface {
	StudentLessons(ctx context.Context, studentID int64, shift models.MonthShift) (*models.StudentLessons, error)
}

type viewStore interface {
	View(ctx context.Context, sessionID string) (*models.ViewState, error)
	NextTicket(ctx context.Context, sessionID string) (uint64, error)
	CommitView(ctx context.Context, sessionID string, state *models.ViewState) (bool, error)
}

type scheduleMetrics interface {
	LoadStarted()
	LoadFinished(stale bool)
}

// StudentScheduleConfig holds the routes linked from a student's month.
type StudentScheduleConfig struct {
	LessonDetailRoute string
}

// StudentScheduleService renders a student's lessons month by month.
type StudentScheduleService struct {
	lessons studentLessonsGateway
	views   viewStore
	metrics scheduleMetrics
	logger  *zap.Logger
	config  StudentScheduleConfig
	now     func() time.Time
}

// NewStudentScheduleService constructs the schedule view service.
func NewStudentScheduleService(lessons studentLessonsGateway, views viewStore, metrics scheduleMetrics, logger *zap.Logger, config StudentScheduleConfig) *StudentScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.LessonDetailRoute == "" {
		config.LessonDetailRoute = "gui/lesson"
	}
	return &StudentScheduleService{
		lessons: lessons,
		views:   views,
		metrics: metrics,
		logger:  logger,
		config:  config,
		now:     time.Now,
	}
}

// Init binds the session's view to a student, clears any previous error, shows the
// current month's header and loads the current month.
func (s *StudentScheduleService) Init(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error) {
	if _, err := s.bind(ctx, sessionID, studentID); err != nil {
		return nil, err
	}
	return s.load(ctx, sessionID, studentID, loc, models.MonthCurrent)
}

// LoadCurrentMonth reloads the month the lesson API considers current.
func (s *StudentScheduleService) LoadCurrentMonth(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error) {
	return s.load(ctx, sessionID, studentID, loc, models.MonthCurrent)
}

// LoadNextMonth moves the view one month forward.
func (s *StudentScheduleService) LoadNextMonth(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error) {
	return s.load(ctx, sessionID, studentID, loc, models.MonthNext)
}

// LoadPreviousMonth moves the view one month back.
func (s *StudentScheduleService) LoadPreviousMonth(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error) {
	return s.load(ctx, sessionID, studentID, loc, models.MonthPrevious)
}

// CurrentView returns the last committed month of the session without fetching.
func (s *StudentScheduleService) CurrentView(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer) (*dto.ScheduleView, error) {
	state, err := s.views.View(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule state")
	}
	if state == nil || state.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule view not initialised")
	}
	return s.BuildView(state, loc), nil
}

// BuildView renders a view state. The lesson list is rebuilt in full every time.
func (s *StudentScheduleService) BuildView(state *models.ViewState, loc *i18n.Localizer) *dto.ScheduleView {
	view := &dto.ScheduleView{
		StudentID:     state.StudentID,
		Lessons:       []dto.LessonEntry{},
		HoursLabel:    loc.T(i18n.KeyStudentHours),
		PreviousLabel: loc.T(i18n.KeyStudentPrevious),
		NextLabel:     loc.T(i18n.KeyStudentNext),
		Error:         state.Error,
	}

	reference := state.ActiveMonth
	if month := state.Committed; month != nil {
		reference = month.Date
		view.TotalHours = month.TotalHours()
		for _, lesson := range month.Lessons {
			view.Lessons = append(view.Lessons, dto.LessonEntry{
				ID:       lesson.ID,
				Link:     s.LessonLink(lesson.ID),
				Schedule: LessonSchedule(lesson, loc),
				Location: lesson.Location,
			})
		}
	}

	if date, err := time.Parse(models.DateLayout, reference); err == nil {
		view.ReferenceDate = reference
		view.MonthHeader = loc.MonthHeader(date)
	} else {
		view.MonthHeader = loc.MonthHeader(s.now())
	}
	return view
}

// LessonLink is the detail page of a lesson.
func (s *StudentScheduleService) LessonLink(id int64) string {
	return strings.TrimRight(s.config.LessonDetailRoute, "/") + "/" + strconv.FormatInt(id, 10)
}

// bind resets the session's view to an empty current month for studentID.
func (s *StudentScheduleService) bind(ctx context.Context, sessionID string, studentID int64) (*models.ViewState, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid student id")
	}
	ticket, err := s.views.NextTicket(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset schedule state")
	}
	now := s.now()
	state := &models.ViewState{
		SessionID:   sessionID,
		StudentID:   studentID,
		ActiveMonth: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(models.DateLayout),
		Ticket:      ticket,
		UpdatedAt:   now.UTC(),
	}
	if _, err := s.views.CommitView(ctx, sessionID, state); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset schedule state")
	}
	return state, nil
}

// load fetches a month for the student held by the view state. Only the response
// holding the latest ticket is committed; older ones are discarded.
func (s *StudentScheduleService) load(ctx context.Context, sessionID string, studentID int64, loc *i18n.Localizer, shift models.MonthShift) (*dto.ScheduleView, error) {
	state, err := s.views.View(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule state")
	}
	if state == nil || state.StudentID != studentID {
		if state, err = s.bind(ctx, sessionID, studentID); err != nil {
			return nil, err
		}
	}

	ticket, err := s.views.NextTicket(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sequence navigation")
	}

	s.loadStarted()
	month, fetchErr := s.lessons.StudentLessons(ctx, state.StudentID, shift)

	// A navigation may have committed between the first read and the ticket.
	base := state
	if latest, err := s.views.View(ctx, sessionID); err == nil && latest != nil && latest.StudentID == state.StudentID {
		base = latest
	}

	next := *base
	next.Ticket = ticket
	next.UpdatedAt = s.now().UTC()
	if fetchErr != nil {
		next.Error = AjaxErrorMessage(loc, i18n.KeyStudentLessonsError, fetchErr)
		s.logger.Warn("student lessons load failed",
			zap.Int64("student_id", state.StudentID),
			zap.String("shift", string(shift)),
			zap.Error(fetchErr),
		)
	} else {
		next.Error = ""
		next.Committed = month
		next.ActiveMonth = month.Date
	}

	committed, err := s.views.CommitView(ctx, sessionID, &next)
	s.loadFinished(err == nil && !committed)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule state")
	}

	if !committed {
		s.logger.Debug("stale month response discarded", zap.String("session_id", sessionID), zap.Uint64("ticket", ticket))
		latest, err := s.views.View(ctx, sessionID)
		if err != nil || latest == nil {
			return nil, appErrors.ErrStaleNavigation
		}
		return s.BuildView(latest, loc), appErrors.ErrStaleNavigation
	}

	view := s.BuildView(&next, loc)
	if fetchErr != nil {
		return view, appErrors.Wrap(fetchErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, next.Error)
	}
	return view, nil
}

func (s *StudentScheduleService) loadStarted() {
	if s.metrics != nil {
		s.metrics.LoadStarted()
	}
}

func (s *StudentScheduleService) loadFinished(stale bool) {
	if s.metrics != nil {
		s.metrics.LoadFinished(stale)
	}
}
