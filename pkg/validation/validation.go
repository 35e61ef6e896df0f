// Package validation builds the shared validator with English messages keyed
// by JSON field names.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

var translator ut.Translator

func init() {
	locale := en.New()
	translator, _ = ut.New(locale, locale).GetTranslator("en")
}

// New returns a validator that reports JSON field names and has the English
// translations registered. The extra notblank tag rejects whitespace-only
// strings, which required and min let through before trimming.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = enTranslations.RegisterDefaultTranslations(v, translator)
	_ = v.RegisterTranslation("notblank", translator,
		func(trans ut.Translator) error {
			return trans.Add("notblank", "{0} must not be blank", true)
		},
		func(trans ut.Translator, fe validator.FieldError) string {
			msg, _ := trans.T("notblank", fe.Field())
			return msg
		})
	return v
}

// Translate turns validator errors into field -> message pairs. Any other
// error is reported under "detail".
func Translate(err error) map[string]string {
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(translator)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Struct validates payload and converts failures into a Validation error.
func Struct(v *validator.Validate, payload interface{}, message string) error {
	if err := v.Struct(payload); err != nil {
		return appErrors.Validation(err, message, Translate(err))
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace so nested
// batch items read as "items[0].score".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
