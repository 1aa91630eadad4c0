package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/iteach-web/internal/dto"
	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
	"github.com/noah-isme/iteach-web/pkg/i18n"
)

type lessonGateway interface {
	CreateLesson(ctx context.Context, form models.LessonForm) (*models.Ack, error)
	UpdateLesson(ctx context.Context, id int64, form models.LessonForm) (*models.Ack, error)
	DeleteLesson(ctx context.Context, id int64) (*models.Ack, error)
}

type dialogStore interface {
	Dialog(ctx context.Context, sessionID string) (*models.DialogSession, error)
	SaveDialog(ctx context.Context, sessionID string, dialog *models.DialogSession) error
	CloseDialog(ctx context.Context, sessionID string) error
	AcquireSubmit(ctx context.Context, sessionID string) (bool, error)
	ReleaseSubmit(ctx context.Context, sessionID string) error
}

type dialogMetrics interface {
	RecordDialogOutcome(operation, outcome string)
}

// LessonEditorConfig holds the fixed routes and sizes of the lesson dialogs.
type LessonEditorConfig struct {
	HomeRoute   string
	DialogWidth int
}

// LessonEditorService drives the create, edit and delete lesson flows.
type LessonEditorService struct {
	lessons   lessonGateway
	dialogs   dialogStore
	validator *validator.Validate
	metrics   dialogMetrics
	logger    *zap.Logger
	config    LessonEditorConfig
	now       func() time.Time
}

// NewLessonEditorService constructs the lesson editor.
func NewLessonEditorService(lessons lessonGateway, dialogs dialogStore, validate *validator.Validate, metrics dialogMetrics, logger *zap.Logger, config LessonEditorConfig) *LessonEditorService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.HomeRoute == "" {
		config.HomeRoute = "gui/home"
	}
	if config.DialogWidth <= 0 {
		config.DialogWidth = 500
	}
	return &LessonEditorService{
		lessons:   lessons,
		dialogs:   dialogs,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// PromptDelete builds the confirmation asked before deleting a lesson.
func (s *LessonEditorService) PromptDelete(lessonID int64, loc *i18n.Localizer) (*dto.DeletePrompt, error) {
	if lessonID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid lesson id")
	}
	return &dto.DeletePrompt{
		LessonID:     lessonID,
		Message:      loc.T(i18n.KeyLessonDeletePrompt),
		ConfirmLabel: loc.T(i18n.KeyGeneralDelete),
		CancelLabel:  loc.T(i18n.KeyGeneralCancel),
	}, nil
}

// ConfirmDelete deletes a lesson once the user confirmed. Success navigates home; nothing is retried.
func (s *LessonEditorService) ConfirmDelete(ctx context.Context, lessonID int64, loc *i18n.Localizer) (*dto.DeleteOutcome, error) {
	if lessonID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid lesson id")
	}

	ack, err := s.lessons.DeleteLesson(ctx, lessonID)
	if err != nil {
		message := AjaxErrorMessage(loc, i18n.KeyLessonDeleteError, err)
		s.record("delete", "failed")
		s.logger.Warn("lesson delete failed", zap.Int64("lesson_id", lessonID), zap.Error(err))
		return &dto.DeleteOutcome{LessonID: lessonID, Error: message}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, message)
	}
	if !ack.Success {
		message := loc.T(i18n.KeyLessonDeleteError)
		s.record("delete", "rejected")
		return &dto.DeleteOutcome{LessonID: lessonID, Error: message}, appErrors.Clone(appErrors.ErrLessonRejected, message)
	}

	s.record("delete", "success")
	return &dto.DeleteOutcome{LessonID: lessonID, Deleted: true, Navigate: s.config.HomeRoute}, nil
}

// OpenCreateDialog opens the create dialog on a picked slot with empty student and location.
func (s *LessonEditorService) OpenCreateDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, req dto.CreateDialogRequest) (*dto.DialogView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create dialog request")
	}
	dialog := &models.DialogSession{
		ID:        uuid.NewString(),
		Kind:      models.DialogCreate,
		TitleKey:  i18n.KeyLessonNew,
		SubmitKey: i18n.KeyGeneralCreate,
		Width:     s.config.DialogWidth,
		Fields: models.DialogFields{
			LessonDate: req.Date,
			LessonFrom: req.From,
			LessonTo:   req.To,
		},
		OnSuccess: actionOrNone(req.OnSuccess),
		OnCancel:  actionOrNone(req.OnCancel),
	}
	return s.open(ctx, sessionID, dialog, loc)
}

// OpenEditDialog opens the edit dialog pre-filled with the selected lesson.
func (s *LessonEditorService) OpenEditDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, req dto.EditDialogRequest) (*dto.DialogView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson selection")
	}
	dialog := &models.DialogSession{
		ID:        uuid.NewString(),
		Kind:      models.DialogEdit,
		LessonID:  req.LessonID,
		TitleKey:  i18n.KeyLessonEdit,
		SubmitKey: i18n.KeyGeneralUpdate,
		Width:     s.config.DialogWidth,
		Fields: models.DialogFields{
			LessonDate:     req.Date,
			LessonFrom:     req.From,
			LessonTo:       req.To,
			LessonStudent:  req.Student,
			LessonLocation: req.Location,
		},
		OnSuccess: models.DialogAction{Kind: models.ActionReload},
		OnCancel:  models.DialogAction{Kind: models.ActionNone},
	}
	return s.open(ctx, sessionID, dialog, loc)
}

// CurrentDialog re-presents the open dialog, running the open hook again.
func (s *LessonEditorService) CurrentDialog(ctx context.Context, sessionID string, loc *i18n.Localizer) (*dto.DialogView, error) {
	dialog, err := s.loadDialog(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.present(dialog, loc), nil
}

// SubmitDialog sends the dialog fields to the lesson API. The returned outcome is always
// an answer for the dialog host; the browser never performs a native form submission.
func (s *LessonEditorService) SubmitDialog(ctx context.Context, sessionID string, loc *i18n.Localizer, fields models.DialogFields) (*dto.DialogOutcome, error) {
	dialog, err := s.loadDialog(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	operation := string(dialog.Kind)

	acquired, err := s.dialogs.AcquireSubmit(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve dialog submission")
	}
	if !acquired {
		s.record(operation, "busy")
		return &dto.DialogOutcome{Dialog: s.present(dialog, loc)}, appErrors.ErrDialogBusy
	}
	defer func() {
		if err := s.dialogs.ReleaseSubmit(context.WithoutCancel(ctx), sessionID); err != nil {
			s.logger.Warn("release dialog submission failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	// The dialog may have been submitted or replaced before the slot was ours.
	current, err := s.loadDialog(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.ID != dialog.ID {
		return nil, appErrors.ErrNoDialog
	}
	dialog = current

	submittedAt := s.now().UTC()
	dialog.Fields = fields
	dialog.Error = ""
	dialog.State = models.DialogSubmitting
	dialog.SubmittedAt = &submittedAt
	if err := s.dialogs.SaveDialog(ctx, sessionID, dialog); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store dialog")
	}

	form, formErr := s.buildForm(loc, fields)
	if formErr != nil {
		s.record(operation, "invalid")
		return s.reopen(ctx, sessionID, dialog, loc, formErr.Message, formErr)
	}

	errorKey := i18n.KeyLessonNewError
	var ack *models.Ack
	if dialog.Kind == models.DialogEdit {
		errorKey = i18n.KeyLessonEditError
		ack, err = s.lessons.UpdateLesson(ctx, dialog.LessonID, *form)
	} else {
		ack, err = s.lessons.CreateLesson(ctx, *form)
	}

	if err != nil {
		message := dialogErrorText(loc, errorKey, err)
		s.record(operation, "failed")
		s.logger.Warn("lesson submission failed", zap.String("kind", operation), zap.Int64("lesson_id", dialog.LessonID), zap.Error(err))
		return s.reopen(ctx, sessionID, dialog, loc, message, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, message))
	}
	if !ack.Success {
		message := loc.T(errorKey)
		s.record(operation, "rejected")
		return s.reopen(ctx, sessionID, dialog, loc, message, appErrors.Clone(appErrors.ErrLessonRejected, message))
	}

	if err := s.dialogs.CloseDialog(context.WithoutCancel(ctx), sessionID); err != nil {
		s.logger.Warn("close dialog failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	s.record(operation, "success")
	action := dialog.OnSuccess
	return &dto.DialogOutcome{Closed: true, Action: &action}, nil
}

// CancelDialog closes the open dialog and hands back its cancel action.
func (s *LessonEditorService) CancelDialog(ctx context.Context, sessionID string) (*dto.DialogOutcome, error) {
	dialog, err := s.loadDialog(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.dialogs.CloseDialog(ctx, sessionID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close dialog")
	}
	s.record(string(dialog.Kind), "cancelled")
	action := dialog.OnCancel
	return &dto.DialogOutcome{Closed: true, Action: &action}, nil
}

// FormatDialogDate reads the date-picker value and returns it in the canonical API format.
func (s *LessonEditorService) FormatDialogDate(loc *i18n.Localizer, raw string) (string, error) {
	date, err := loc.ParseDate(raw)
	if err != nil {
		return "", err
	}
	return date.Format(models.DateLayout), nil
}

func (s *LessonEditorService) open(ctx context.Context, sessionID string, dialog *models.DialogSession, loc *i18n.Localizer) (*dto.DialogView, error) {
	dialog.State = models.DialogOpen
	dialog.OpenedAt = s.now().UTC()
	if err := s.dialogs.SaveDialog(ctx, sessionID, dialog); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open dialog")
	}
	return s.present(dialog, loc), nil
}

func (s *LessonEditorService) loadDialog(ctx context.Context, sessionID string) (*models.DialogSession, error) {
	dialog, err := s.dialogs.Dialog(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dialog")
	}
	if dialog == nil || dialog.State == models.DialogClosed {
		return nil, appErrors.ErrNoDialog
	}
	return dialog, nil
}

func (s *LessonEditorService) reopen(ctx context.Context, sessionID string, dialog *models.DialogSession, loc *i18n.Localizer, message string, cause *appErrors.Error) (*dto.DialogOutcome, error) {
	dialog.State = models.DialogOpen
	dialog.Error = message
	if err := s.dialogs.SaveDialog(context.WithoutCancel(ctx), sessionID, dialog); err != nil {
		s.logger.Warn("store dialog error failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return &dto.DialogOutcome{Dialog: s.present(dialog, loc)}, cause
}

// present runs the open hook: the date-picker configuration is rebuilt from scratch
// and seeded from the date field every time the dialog is shown.
func (s *LessonEditorService) present(dialog *models.DialogSession, loc *i18n.Localizer) *dto.DialogView {
	picker := dto.DatePicker{
		Format:           loc.PickerFormat(),
		Placeholder:      loc.PickerFormat(),
		Value:            dialog.Fields.LessonDate,
		ShowOtherMonths:  true,
		SelectOtherMonth: true,
	}
	if date, err := loc.ParseDate(dialog.Fields.LessonDate); err == nil {
		picker.Value = loc.DisplayDate(date)
	}
	return &dto.DialogView{
		ID:          dialog.ID,
		Kind:        dialog.Kind,
		LessonID:    dialog.LessonID,
		Title:       loc.T(dialog.TitleKey),
		Width:       dialog.Width,
		SubmitLabel: loc.T(dialog.SubmitKey),
		CancelLabel: loc.T(i18n.KeyGeneralCancel),
		Fields:      dialog.Fields,
		DatePicker:  picker,
		State:       dialog.State,
		Error:       dialog.Error,
	}
}

func (s *LessonEditorService) buildForm(loc *i18n.Localizer, fields models.DialogFields) (*models.LessonForm, *appErrors.Error) {
	date, err := s.FormatDialogDate(loc, fields.LessonDate)
	if err != nil {
		message := loc.T(i18n.KeyLessonInvalidField, "date")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}

	form := &models.LessonForm{
		Date:     date,
		From:     strings.TrimSpace(fields.LessonFrom),
		To:       strings.TrimSpace(fields.LessonTo),
		Student:  strings.TrimSpace(fields.LessonStudent),
		Location: strings.TrimSpace(fields.LessonLocation),
	}
	if err := s.validator.Struct(form); err != nil {
		message := loc.T(i18n.KeyLessonInvalidField, firstInvalidField(err))
		s.logger.Debug("lesson form rejected", zap.Strings("details", validationDetails(err)))
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}

	from, _ := models.ParseTimeOfDay(form.From)
	to, _ := models.ParseTimeOfDay(form.To)
	if !to.After(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, loc.T(i18n.KeyLessonTimeOrder))
	}
	return form, nil
}

func (s *LessonEditorService) record(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordDialogOutcome(operation, outcome)
	}
}

func actionOrNone(action models.DialogAction) models.DialogAction {
	if action.Kind == "" {
		action.Kind = models.ActionNone
	}
	return action
}
