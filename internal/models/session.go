package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed payload of the session cookie.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Locale    string `json:"locale,omitempty"`
	jwt.RegisteredClaims
}

// DialogKind tells which lesson call a dialog submits.
type DialogKind string

const (
	DialogCreate DialogKind = "create"
	DialogEdit   DialogKind = "edit"
)

// DialogState follows closed -> open -> submitting -> closed | open(error).
type DialogState string

const (
	DialogOpen       DialogState = "open"
	DialogSubmitting DialogState = "submitting"
	DialogClosed     DialogState = "closed"
)

// ActionKind is what the browser does once a dialog is closed.
type ActionKind string

const (
	ActionNone     ActionKind = "none"
	ActionEvent    ActionKind = "event"
	ActionRedirect ActionKind = "redirect"
	ActionReload   ActionKind = "reload"
)

// DialogAction is a continuation handed back to the page when a dialog closes.
type DialogAction struct {
	Kind   ActionKind `json:"kind"`
	Target string     `json:"target,omitempty"`
}

// DialogFields are the lesson dialog form inputs.
type DialogFields struct {
	LessonDate     string `json:"lessonDate" form:"lessonDate"`
	LessonFrom     string `json:"lessonFrom" form:"lessonFrom"`
	LessonTo       string `json:"lessonTo" form:"lessonTo"`
	LessonStudent  string `json:"lessonStudent" form:"lessonStudent"`
	LessonLocation string `json:"lessonLocation" form:"lessonLocation"`
}

// DialogSession is the single open dialog of a browser session.
type DialogSession struct {
	ID          string       `json:"id"`
	Kind        DialogKind   `json:"kind"`
	LessonID    int64        `json:"lessonId,omitempty"`
	TitleKey    string       `json:"titleKey"`
	SubmitKey   string       `json:"submitKey"`
	Width       int          `json:"width"`
	Fields      DialogFields `json:"fields"`
	State       DialogState  `json:"state"`
	Error       string       `json:"error,omitempty"`
	OnSuccess   DialogAction `json:"onSuccess"`
	OnCancel    DialogAction `json:"onCancel"`
	OpenedAt    time.Time    `json:"openedAt"`
	SubmittedAt *time.Time   `json:"submittedAt,omitempty"`
}

// ViewState is the explicit context of a student schedule page.
type ViewState struct {
	SessionID   string          `json:"sessionId"`
	StudentID   int64           `json:"studentId"`
	ActiveMonth string          `json:"activeMonth"`
	Ticket      uint64          `json:"ticket"`
	Committed   *StudentLessons `json:"committed,omitempty"`
	Error       string          `json:"error,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
