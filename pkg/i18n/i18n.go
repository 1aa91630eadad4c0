// Package i18n wraps universal-translator with the message catalogue and the
// locale-aware date helpers used by the dialogs and the schedule view.
package i18n

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
)

// CanonicalDateLayout is the wire format of every date exchanged with the lesson API.
const CanonicalDateLayout = "2006-01-02"

// calendar describes how the date-picker widget shows and reads dates in a locale.
type calendar struct {
	pickerFormat string
	layout       string
}

var calendars = map[string]calendar{
	"en": {pickerFormat: "mm/dd/yy", layout: "01/02/2006"},
	"fr": {pickerFormat: "dd/mm/yy", layout: "02/01/2006"},
}

var available = map[string]func() locales.Translator{
	"en": en.New,
	"fr": fr.New,
}

// Bundle holds one translator per supported locale.
type Bundle struct {
	uni      *ut.UniversalTranslator
	fallback string
}

// NewBundle registers the supported locales and loads the message catalogue into each of them.
func NewBundle(defaultLocale string, supported []string) (*Bundle, error) {
	defaultLocale = baseLanguage(defaultLocale)
	newDefault, ok := available[defaultLocale]
	if !ok {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
	}

	fallback := newDefault()
	translators := []locales.Translator{fallback}
	names := []string{defaultLocale}
	for _, name := range supported {
		name = baseLanguage(name)
		newTranslator, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("unsupported locale %q", name)
		}
		if name == defaultLocale {
			continue
		}
		translators = append(translators, newTranslator())
		names = append(names, name)
	}

	uni := ut.New(fallback, translators...)
	for _, name := range names {
		trans, _ := uni.GetTranslator(name)
		for key, text := range catalogue[name] {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", name, key, err)
			}
		}
	}

	return &Bundle{uni: uni, fallback: defaultLocale}, nil
}

// Localizer returns the translator for the first matching locale, or the default one.
func (b *Bundle) Localizer(preferred ...string) *Localizer {
	candidates := make([]string, 0, len(preferred))
	for _, p := range preferred {
		if p = baseLanguage(p); p != "" {
			candidates = append(candidates, p)
		}
	}
	trans, _ := b.uni.FindTranslator(candidates...)
	if trans == nil {
		trans = b.uni.GetFallback()
	}
	return &Localizer{trans: trans}
}

// FromAcceptLanguage picks a localizer from an Accept-Language header.
func (b *Bundle) FromAcceptLanguage(header string) *Localizer {
	var tags []string
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag != "" && tag != "*" {
			tags = append(tags, tag)
		}
	}
	return b.Localizer(tags...)
}

// Localizer resolves messages and formats dates for one locale.
type Localizer struct {
	trans ut.Translator
}

// Locale returns the locale name, e.g. "fr".
func (l *Localizer) Locale() string {
	return baseLanguage(l.trans.Locale())
}

// T looks up a message. Unknown keys are returned as-is so a missing entry stays visible.
func (l *Localizer) T(key string, params ...string) string {
	text, err := l.trans.T(key, params...)
	if err != nil {
		return key
	}
	return text
}

// MonthHeader renders "month name + four-digit year".
func (l *Localizer) MonthHeader(d time.Time) string {
	return fmt.Sprintf("%s %04d", l.trans.MonthWide(d.Month()), d.Year())
}

// DayLabel renders the full localized date of a lesson day.
func (l *Localizer) DayLabel(d time.Time) string {
	return l.trans.FmtDateFull(d)
}

// TimeLabel renders a short localized time of day.
func (l *Localizer) TimeLabel(t time.Time) string {
	return l.trans.FmtTimeShort(t)
}

// PickerFormat is the date-picker widget's format string, also used as the field placeholder.
func (l *Localizer) PickerFormat() string {
	return l.calendar().pickerFormat
}

// DisplayDate renders a date the way the date-picker shows it.
func (l *Localizer) DisplayDate(d time.Time) string {
	return d.Format(l.calendar().layout)
}

// ParseDate reads a date typed or picked in the dialog. The canonical format is always accepted.
func (l *Localizer) ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(CanonicalDateLayout, raw); err == nil {
		return d, nil
	}
	return time.Parse(l.calendar().layout, raw)
}

func (l *Localizer) calendar() calendar {
	if c, ok := calendars[l.Locale()]; ok {
		return c
	}
	return calendars["en"]
}

func baseLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}
