package incident

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/register/core"
)

var (
	typeTag  = "incident_type"
	typeText = "{0} must be one of Positive, Negative or Neutral"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)
}

func typeValidation(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(Type)
	return ok && t.Valid()
}
