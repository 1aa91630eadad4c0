package service

import (
	"errors"
	"strconv"

	"github.com/noah-isme/iteach-web/internal/models"
	"github.com/noah-isme/iteach-web/internal/repository"
	"github.com/noah-isme/iteach-web/pkg/i18n"
)

// LessonDayLabel renders the lesson's day, or the raw date when it cannot be parsed.
func LessonDayLabel(lesson models.Lesson, loc *i18n.Localizer) string {
	day, err := lesson.Day()
	if err != nil {
		return lesson.Date
	}
	return loc.DayLabel(day)
}

// LessonTimeLabel renders one of the lesson's times combined with its date.
func LessonTimeLabel(lesson models.Lesson, timeOfDay string, loc *i18n.Localizer) string {
	at, err := lesson.At(timeOfDay)
	if err != nil {
		return timeOfDay
	}
	return loc.TimeLabel(at)
}

// LessonTimeSchedule renders "start - end".
func LessonTimeSchedule(lesson models.Lesson, loc *i18n.Localizer) string {
	return LessonTimeLabel(lesson, lesson.From, loc) + " - " + LessonTimeLabel(lesson, lesson.To, loc)
}

// LessonSchedule renders "day - start - end".
func LessonSchedule(lesson models.Lesson, loc *i18n.Localizer) string {
	return LessonDayLabel(lesson, loc) + " - " + LessonTimeSchedule(lesson, loc)
}

// AjaxErrorMessage turns a failed lesson API call into a display message:
// the localized operation message, the status line, then any response body.
func AjaxErrorMessage(loc *i18n.Localizer, messageKey string, err error) string {
	message := loc.T(messageKey)
	apiErr, ok := repository.AsAPIError(err)
	if !ok {
		return message
	}
	text := loc.T(i18n.KeyGeneralAjaxError, message, strconv.Itoa(apiErr.StatusCode), apiErr.StatusText)
	if apiErr.HasBody() {
		text += "\n" + apiErr.Body
	}
	return text
}

// dialogErrorText prefers the server's own diagnostic body, shown verbatim, over the generic message.
func dialogErrorText(loc *i18n.Localizer, messageKey string, err error) string {
	var apiErr *repository.APIError
	if errors.As(err, &apiErr) && apiErr.HasBody() {
		return apiErr.Body
	}
	return AjaxErrorMessage(loc, messageKey, err)
}
