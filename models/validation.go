package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/student-showcase-backend/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so violations match the payload the client sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks payload against its validate tags and returns an
// *errs.ApiErr listing every violation, or nil.
func Validate(entity string, payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewInternalErrorWithCause("validation could not run", err)
	}

	violations := make([]errs.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, errs.Violation{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: violationMessage(fe),
		})
	}
	return errs.NewValidationError(entity, violations)
}

// fieldPath drops the struct name prefix: "ArticleInput.title" -> "title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func violationMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isText(fe) {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isText(fe) {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
	}
}

func isText(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}
