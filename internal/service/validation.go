package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/iteach-web/internal/models"
)

const timeOfDayTag = "timeofday"

// NewValidator returns a validator that reports JSON field names and knows the lesson tags.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation(timeOfDayTag, func(fl validator.FieldLevel) bool {
		_, err := models.ParseTimeOfDay(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return validate
}

var validationTranslator = newValidationTranslator()

func newValidationTranslator() ut.Translator {
	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	return trans
}

// RegisterValidationMessages installs English messages for the built-in tags, used in logs.
func RegisterValidationMessages(validate *validator.Validate) error {
	if err := enTranslations.RegisterDefaultTranslations(validate, validationTranslator); err != nil {
		return err
	}
	return validate.RegisterTranslation(timeOfDayTag, validationTranslator,
		func(t ut.Translator) error { return t.Add(timeOfDayTag, "{0} must be a time of day (HH:MM)", true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(timeOfDayTag, fe.Field())
			return s
		},
	)
}

// validationDetails flattens validator errors into readable messages.
func validationDetails(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fe.Translate(validationTranslator))
	}
	return details
}

// firstInvalidField names the first failing field of a validation error.
func firstInvalidField(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0].Field()
	}
	return ""
}
