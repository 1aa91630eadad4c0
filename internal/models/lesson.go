package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the lesson API calendar date format.
const DateLayout = "2006-01-02"

var timeOfDayLayouts = []string{"15:04", "15:04:05", "15:04:05.000"}

// Lesson is a scheduled teaching session as returned by the lesson API.
type Lesson struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	From      string `json:"from"`
	To        string `json:"to"`
	StudentID string `json:"student,omitempty"`
	Location  string `json:"location"`
}

// Day parses the lesson calendar date.
func (l Lesson) Day() (time.Time, error) {
	return time.Parse(DateLayout, l.Date)
}

// At combines the lesson date with a time of day; times carry no date of their own.
func (l Lesson) At(timeOfDay string) (time.Time, error) {
	day, err := l.Day()
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// ParseTimeOfDay accepts HH:MM with optional seconds and milliseconds.
func ParseTimeOfDay(raw string) (time.Time, error) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", raw)
}

// LessonForm is the body of lesson create and update calls. Every field is a string on the wire.
type LessonForm struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	From     string `json:"from" validate:"required,timeofday"`
	To       string `json:"to" validate:"required,timeofday"`
	Student  string `json:"student" validate:"required,max=255"`
	Location string `json:"location" validate:"required,max=255"`
}

// Ack is the lesson API's business-level answer.
type Ack struct {
	Success bool `json:"success"`
}

// StudentLessons is one month of a student's lessons.
type StudentLessons struct {
	Date    string      `json:"date"`
	Hours   json.Number `json:"hours"`
	Lessons []Lesson    `json:"lessons"`
}

// ReferenceDate parses the month the payload belongs to.
func (s StudentLessons) ReferenceDate() (time.Time, error) {
	return time.Parse(DateLayout, s.Date)
}

// TotalHours returns the hours exactly as the server sent them, "0" when absent.
func (s StudentLessons) TotalHours() string {
	if s.Hours == "" {
		return "0"
	}
	return s.Hours.String()
}

// MonthShift selects which month the lesson API resolves relative to the student's current one.
type MonthShift string

const (
	MonthCurrent  MonthShift = ""
	MonthNext     MonthShift = "nextMonth"
	MonthPrevious MonthShift = "previousMonth"
)
