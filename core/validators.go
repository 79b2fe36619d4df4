package core

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "only alphanumeric characters and underscores are allowed"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w]+$`)

	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	measurementTag         = "measurement"
	measurementText        = "must be a number"
	measurementTooLongKey  = "measurement_too_long"
	measurementTooLongText = fmt.Sprintf("must be at most %d characters long", MeasurementMaxLen)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// NewTranslator returns the english translator used for validation messages.
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

	// measurements are validated as their raw text
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if m, ok := v.Interface().(Measurement); ok {
			return m.Raw()
		}
		return nil
	}, Measurement{})

	// register custom validators
	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	_ = validate.RegisterValidation(measurementTag, measurementValidation)
	_ = validate.RegisterTranslation(
		measurementTag, translator,
		func(t ut.Translator) error {
			if err := t.Add(measurementTag, measurementText, false); err != nil {
				return err
			}
			return t.Add(measurementTooLongKey, measurementTooLongText, false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			key := measurementTag
			if raw, ok := fe.Value().(string); ok && measurementTooLong(raw) {
				key = measurementTooLongKey
			}
			s, _ := t.T(key, fe.Field())
			return s
		},
	)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
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

// EnumValidation builds a validator.Func for string enums exposing IsValid.
func EnumValidation(isValid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return isValid(fl.Field().String())
	}
}

// Custom Global Validators

// alphaNumUnderValidation only allows alphanumeric characters and underscores.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func measurementTooLong(raw string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(raw)) > MeasurementMaxLen
}

// measurementValidation accepts blank (null) or decimal values that fit their column.
func measurementValidation(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if strings.TrimSpace(raw) == "" {
		return true
	}
	if measurementTooLong(raw) {
		return false
	}
	_, ok := ParseMeasurement(raw)
	return ok
}
