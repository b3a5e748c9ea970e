package v1

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response is the uniform JSON envelope used by every endpoint:
// {success: true, data} on success, {success: false, message, errors?} on
// failure.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// FieldError describes a single validation failure, safe to expose.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(422, Response{
		Success: false,
		Message: "Validation error",
		Errors:  fieldErrors(err),
	})
}

// fieldErrors converts binding failures into field-level details. Non-field
// errors (malformed JSON) produce a single generic entry.
func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: "Invalid request body"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "is too short (minimum " + fe.Param() + ")"
	case "max":
		return "is too long (maximum " + fe.Param() + ")"
	default:
		return "is invalid"
	}
}
