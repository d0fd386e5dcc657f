package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/babel-30/sugarplum-backend/internal/interfaces/http/dto"
)

// SetupValidator configures gin's binding validator to report field
// names by their JSON tag, so validation errors match the payload the
// client actually sent.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// FormatBindingError converts a request binding failure into the
// standard error envelope, with per-field details when the failure came
// from validation tags.
func FormatBindingError(err error) dto.Response {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrors) == 0 {
		return dto.NewErrorResponse(dto.ErrCodeInvalidJSON, "Invalid request body")
	}

	details := make([]dto.ValidationDetail, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return dto.NewErrorResponseWithDetails(
		dto.ErrCodeBadRequest,
		"Request validation failed",
		details,
	)
}

// validationMessage returns a human-readable message for one failed tag
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "min":
		return "Must be at least " + e.Param()
	case "max":
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
