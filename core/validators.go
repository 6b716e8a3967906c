package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	courseIDTag   = "courseid"
	courseIDText  = "must be a positive course id"
	courseIDRegex = regexp.MustCompile(`^[1-9][0-9]*$`)

	courseIDsTag   = "courseids"
	courseIDsText  = "must be a comma-separated list of positive course ids"
	courseIDsRegex = regexp.MustCompile(`^[1-9][0-9]*(,[1-9][0-9]*)*$`)

	requiredTag  = "required"
	requiredText = "this field is required"
)

// NewTranslator returns the English translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(courseIDTag, courseIDValidation)
	RegisterCustomTranslation(validate, translator, courseIDTag, courseIDText)

	_ = validate.RegisterValidation(courseIDsTag, courseIDsValidation)
	RegisterCustomTranslation(validate, translator, courseIDsTag, courseIDsText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// courseIDValidation only allows a single positive integer.
func courseIDValidation(fl validator.FieldLevel) bool {
	return courseIDRegex.MatchString(fl.Field().String())
}

// courseIDsValidation allows positive integers joined with commas, no spaces.
func courseIDsValidation(fl validator.FieldLevel) bool {
	return courseIDsRegex.MatchString(fl.Field().String())
}
