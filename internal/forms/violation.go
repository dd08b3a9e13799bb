package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
	ErrSubmitting   = errors.New("submission already in progress")
	ErrNotSetField  = errors.New("field is not a multi-select")
)

// Code classifies a violated constraint.
type Code string

const (
	CodeRequired         Code = "required"
	CodeInvalidFormat    Code = "invalid_format"
	CodeInvalidOption    Code = "invalid_option"
	CodeInvalidMobile    Code = "invalid_mobile"
	CodePasswordMismatch Code = "password_mismatch"
	CodeConsentRequired  Code = "consent_required"
)

type Violation struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ValidationError is returned by Submit when the form has violations.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "form invalid: " + strings.Join(lo.Map(e.Violations, func(v Violation, _ int) string {
		return v.Field + " " + string(v.Code)
	}), ", ")
}

// Has reports whether any violation carries code.
func (e *ValidationError) Has(code Code) bool {
	return hasCode(e.Violations, code)
}

func hasCode(vs []Violation, code Code) bool {
	return lo.ContainsBy(vs, func(v Violation) bool { return v.Code == code })
}

func toViolations(err error) []Violation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Violation{{Code: CodeInvalidFormat, Message: err.Error()}}
	}
	return lo.Map([]validator.FieldError(verrs), func(fe validator.FieldError, _ int) Violation {
		return fieldViolation(fe)
	})
}

func fieldViolation(fe validator.FieldError) Violation {
	v := Violation{Field: fe.Field()}
	switch fe.Tag() {
	case "required":
		v.Code = CodeRequired
		v.Message = fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.Slice {
			v.Code = CodeRequired
			v.Message = fmt.Sprintf("select at least %s %s", fe.Param(), fe.Field())
			break
		}
		v.Code = CodeInvalidFormat
		v.Message = fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "mobile":
		v.Code = CodeInvalidMobile
		v.Message = "Please enter a valid 10-digit mobile number"
	case "eqfield":
		v.Code = CodePasswordMismatch
		v.Message = "Passwords do not match"
	case "consent":
		v.Code = CodeConsentRequired
		v.Message = "Please provide your consent to proceed with registration."
	case "oneof":
		v.Code = CodeInvalidOption
		v.Message = fmt.Sprintf("%s has an unsupported value", fe.Field())
	default:
		v.Code = CodeInvalidFormat
		v.Message = fmt.Sprintf("%s is not valid", fe.Field())
	}
	return v
}
