package attendance

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/register/core"
)

var (
	statusTag  = "attendance_status"
	statusText = "{0} must be one of Present, Absent, Late or Excused"

	participationTag  = "participation"
	participationText = "{0} must be one of Excellent, Good, Fair or Poor"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(participationTag, participationValidation)
	core.RegisterCustomTranslation(validate, translator, participationTag, participationText)
}

// Custom Validators

// statusValidation rejects Status values outside the declared set.
func statusValidation(fl validator.FieldLevel) bool {
	st, ok := fl.Field().Interface().(Status)
	return ok && st.Valid()
}

// participationValidation rejects Participation values outside the declared set.
func participationValidation(fl validator.FieldLevel) bool {
	p, ok := fl.Field().Interface().(Participation)
	return ok && p.Valid()
}
