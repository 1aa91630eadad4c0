package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
)

// SessionRepository abstracts persistence for per-session UI state.
type SessionRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string, ttl time.Duration) (uint64, error)
	SetIfCounter(ctx context.Context, key string, value interface{}, counterKey string, expected uint64, ttl time.Duration) (bool, error)
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

const (
	submitLockTTL    = 30 * time.Second
	submitLockMargin = 5 * time.Second
)

// SessionService stores the open dialog and the schedule view state of each browser session.
type SessionService struct {
	repo      SessionRepository
	metrics   *MetricsService
	ttl       time.Duration
	submitTTL time.Duration
	logger    *zap.Logger
}

// NewSessionService constructs a session service.
func NewSessionService(repo SessionRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, metrics: metrics, ttl: ttl, submitTTL: submitLockTTL, logger: logger}
}

// SetSubmitTimeout keeps the submission slot reserved for longer than one upstream call can last.
func (s *SessionService) SetSubmitTimeout(upstream time.Duration) {
	if ttl := upstream + submitLockMargin; ttl > s.submitTTL {
		s.submitTTL = ttl
	}
}

func dialogKey(sessionID string) string { return "session:" + sessionID + ":dialog" }
func viewKey(sessionID string) string   { return "session:" + sessionID + ":view" }
func ticketKey(sessionID string) string { return "session:" + sessionID + ":ticket" }

// Dialog returns the open dialog, or nil when none is open.
func (s *SessionService) Dialog(ctx context.Context, sessionID string) (*models.DialogSession, error) {
	var dialog models.DialogSession
	if ok, err := s.get(ctx, dialogKey(sessionID), &dialog); err != nil || !ok {
		return nil, err
	}
	return &dialog, nil
}

// SaveDialog stores the session's dialog, replacing any other one.
func (s *SessionService) SaveDialog(ctx context.Context, sessionID string, dialog *models.DialogSession) error {
	return s.set(ctx, dialogKey(sessionID), dialog)
}

// CloseDialog discards the session's dialog.
func (s *SessionService) CloseDialog(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, dialogKey(sessionID)); err != nil {
		s.logger.Warn("session delete failed", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	return nil
}

// AcquireSubmit reserves the single in-flight submission slot of a session.
func (s *SessionService) AcquireSubmit(ctx context.Context, sessionID string) (bool, error) {
	return s.repo.Lock(ctx, dialogKey(sessionID)+":submit", s.submitTTL)
}

// ReleaseSubmit frees the submission slot.
func (s *SessionService) ReleaseSubmit(ctx context.Context, sessionID string) error {
	return s.repo.Unlock(ctx, dialogKey(sessionID)+":submit")
}

// View returns the schedule view state, or nil when the page was never initialised.
func (s *SessionService) View(ctx context.Context, sessionID string) (*models.ViewState, error) {
	var state models.ViewState
	if ok, err := s.get(ctx, viewKey(sessionID), &state); err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

// NextTicket issues the sequence number of a new navigation.
func (s *SessionService) NextTicket(ctx context.Context, sessionID string) (uint64, error) {
	return s.repo.Incr(ctx, ticketKey(sessionID), s.ttl)
}

// CommitView stores state only if its ticket is still the latest one issued.
func (s *SessionService) CommitView(ctx context.Context, sessionID string, state *models.ViewState) (bool, error) {
	start := time.Now()
	ok, err := s.repo.SetIfCounter(ctx, viewKey(sessionID), state, ticketKey(sessionID), state.Ticket, s.ttl)
	if s.metrics != nil {
		s.metrics.ObserveSessionWrite(time.Since(start))
	}
	if err != nil {
		s.logger.Warn("session commit failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return ok, err
}

func (s *SessionService) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	err := s.repo.Get(ctx, key, dest)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSessionLookup(false)
		}
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("session get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	if s.metrics != nil {
		s.metrics.RecordSessionLookup(true)
	}
	return true, nil
}

func (s *SessionService) set(ctx context.Context, key string, value interface{}) error {
	start := time.Now()
	err := s.repo.Set(ctx, key, value, s.ttl)
	if s.metrics != nil {
		s.metrics.ObserveSessionWrite(time.Since(start))
	}
	if err != nil {
		s.logger.Warn("session set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}
