package dto

import "github.com/noah-isme/iteach-web/internal/models"

// CreateDialogRequest opens the create dialog for a slot picked on the planning.
type CreateDialogRequest struct {
	Date      string              `form:"date" json:"date" validate:"required"`
	From      string              `form:"from" json:"from" validate:"required"`
	To        string              `form:"to" json:"to" validate:"required"`
	OnSuccess models.DialogAction `json:"onSuccess"`
	OnCancel  models.DialogAction `json:"onCancel"`
}

// EditDialogRequest carries the selected lesson as shown on the lesson page.
type EditDialogRequest struct {
	LessonID int64  `form:"lesson-id" json:"lessonId" validate:"required,min=1"`
	Student  string `form:"lesson-student" json:"student"`
	Date     string `form:"lesson-date" json:"date"`
	From     string `form:"lesson-from" json:"from"`
	To       string `form:"lesson-to" json:"to"`
	Location string `form:"lesson-location" json:"location"`
}

// DatePicker is the date widget configuration, rebuilt each time a dialog opens.
type DatePicker struct {
	Format           string `json:"format"`
	Placeholder      string `json:"placeholder"`
	Value            string `json:"value"`
	ShowOtherMonths  bool   `json:"showOtherMonths"`
	SelectOtherMonth bool   `json:"selectOtherMonths"`
}

// DialogView is everything the dialog host needs to present a lesson dialog.
type DialogView struct {
	ID          string              `json:"id"`
	Kind        models.DialogKind   `json:"kind"`
	LessonID    int64               `json:"lessonId,omitempty"`
	Title       string              `json:"title"`
	Width       int                 `json:"width"`
	SubmitLabel string              `json:"submitLabel"`
	CancelLabel string              `json:"cancelLabel"`
	Fields      models.DialogFields `json:"fields"`
	DatePicker  DatePicker          `json:"datePicker"`
	State       models.DialogState  `json:"state"`
	Error       string              `json:"error,omitempty"`
}

// DialogOutcome is the answer to a submit or cancel. Dialog is set while it stays open.
type DialogOutcome struct {
	Closed bool                 `json:"closed"`
	Action *models.DialogAction `json:"action,omitempty"`
	Dialog *DialogView          `json:"dialog,omitempty"`
}

// DeletePrompt asks the user to confirm a lesson deletion.
type DeletePrompt struct {
	LessonID     int64  `json:"lessonId"`
	Message      string `json:"message"`
	ConfirmLabel string `json:"confirmLabel"`
	CancelLabel  string `json:"cancelLabel"`
}

// DeleteOutcome reports a confirmed deletion.
type DeleteOutcome struct {
	LessonID int64  `json:"lessonId"`
	Deleted  bool   `json:"deleted"`
	Navigate string `json:"navigate,omitempty"`
	Error    string `json:"error,omitempty"`
}
