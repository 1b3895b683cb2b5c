package core

import (
	"database/sql/driver"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/volatiletech/null/v8"
)

var (
	// custom validation tags & texts
	monthYearTag  = "month_year"
	monthYearText = "{0} must be formatted as YYYY-MM"

	academicYearTag   = "academic_year"
	academicYearText  = "{0} must be two consecutive years formatted as YYYY-YYYY"
	academicYearRegex = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// NewValidator returns a validator with the english translations and the global custom validations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
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

	// validate null.* fields as their underlying value (nil when invalid)
	validate.RegisterCustomTypeFunc(nullValuer, null.String{}, null.Int{}, null.Bool{})

	// register custom validators
	_ = validate.RegisterValidation(monthYearTag, monthYearValidation)
	RegisterCustomTranslation(validate, translator, monthYearTag, monthYearText)

	_ = validate.RegisterValidation(academicYearTag, academicYearValidation)
	RegisterCustomTranslation(validate, translator, academicYearTag, academicYearText)

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

// TranslateValidationErrors maps each failing field to its translated message.
func TranslateValidationErrors(errs validator.ValidationErrors, translator ut.Translator) map[string]string {
	fldErrs := make(map[string]string, len(errs))
	for _, vErr := range errs {
		fldErrs[vErr.Field()] = vErr.Translate(translator)
	}
	return fldErrs
}

func nullValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(driver.Valuer); ok {
		if val, err := valuer.Value(); err == nil {
			return val
		}
	}
	return nil
}

// Custom Global Validators

// monthYearValidation only allows YYYY-MM strings.
func monthYearValidation(fl validator.FieldLevel) bool {
	_, err := ParseMonthYear(fl.Field().String())
	return err == nil
}

// academicYearValidation only allows "YYYY-YYYY" where the second year follows the first.
func academicYearValidation(fl validator.FieldLevel) bool {
	m := academicYearRegex.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return end == start+1
}
