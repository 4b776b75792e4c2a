package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/ishuri/school-console/internal/models"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	dateOnlyTag  = "dateonly"
	gradeNameTag = "gradename"
)

// DateLayout is the date-only wire format used by form drafts and imports.
const DateLayout = "2006-01-02"

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(dateOnlyTag, dateOnlyValidation)
	_ = validate.RegisterValidation(gradeNameTag, gradeNameValidation)
	registerCustomTranslations(dateOnlyTag, gradeNameTag)
}

func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomErrs)
	}
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case dateOnlyTag:
		return "must be a date in YYYY-MM-DD format"
	case gradeNameTag:
		return "must be a grade code like N1 or P3"
	default:
		return ""
	}
}

func dateOnlyValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(DateLayout, str)
	return err == nil
}

func gradeNameValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return models.GradeNamePattern.MatchString(str)
}
