package core

// validation.go validates create models with go-playground/validator.
//
// The same Validate call guards JSON create requests and CSV lines, so a
// record accepted by one path is accepted by the other. Failures are
// returned as ValidationErrors keyed by the JSON field name.

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// modelValidator returns the shared validator instance.
// Field names in errors come from the json tag.
func modelValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate normalizes m and checks it. The returned error is nil or a
// ValidationErrors.
func Validate(m PersonCreateModel) (PersonCreateModel, error) {
	m = m.Normalize()

	var errs ValidationErrors
	if m.Color != 0 && !m.Color.Valid() {
		errs = append(errs, ValidationError{
			Field:   "color",
			Value:   m.Color.String(),
			Message: "unknown color",
		})
	}

	if err := modelValidator().Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return m, fmt.Errorf("validate person: %w", err)
		}
		for _, fe := range verrs {
			ve := ValidationError{Field: fe.Field(), Message: ruleMessage(fe)}
			if fe.Tag() != "required" {
				ve.Value = fmt.Sprint(fe.Value())
			}
			errs = append(errs, ve)
		}
	}

	if len(errs) > 0 {
		return m, errs
	}
	return m, nil
}

// ruleMessage returns a human-readable message for a failed validation rule.
func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field is empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}
