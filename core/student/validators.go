package student

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

var (
	genderTag  = "gender"
	genderText = "must be one of: male, female"

	medGroupTag  = "medgroup"
	medGroupText = "must be one of: basic, preparatory, special"

	birthDateTag  = "birthdate"
	birthDateText = "must be a past date formatted as YYYY-MM-DD"
)

// InitValidators registers the student validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(genderTag, core.EnumValidation(func(s string) bool { return Gender(s).IsValid() }))
	core.RegisterCustomTranslation(validate, translator, genderTag, genderText)

	_ = validate.RegisterValidation(medGroupTag, core.EnumValidation(func(s string) bool { return MedicalGroup(s).IsValid() }))
	core.RegisterCustomTranslation(validate, translator, medGroupTag, medGroupText)

	_ = validate.RegisterValidation(birthDateTag, birthDateValidation)
	core.RegisterCustomTranslation(validate, translator, birthDateTag, birthDateText)
}

func birthDateValidation(fl validator.FieldLevel) bool {
	t, err := time.Parse(birthDateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return t.Before(time.Now())
}
