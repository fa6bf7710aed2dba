package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/job-board/internal/common"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules used by the DTOs.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", notBlank)
		}
	})
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the JSON error payload. Internal errors hide their cause.
func errorBody(err error) (int, gin.H) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, gin.H{"error": "internal server error"}
	}
	status := statusFor(appErr.Code)
	body := gin.H{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	return status, body
}

func respondError(c *gin.Context, err error) {
	status, body := errorBody(err)
	_ = c.Error(err)
	c.JSON(status, body)
}

// bindError turns a gin binding failure into a validation error with one
// entry per offending field.
func bindError(err error) error {
	if errors.Is(err, io.EOF) {
		return common.NewValidationError("Request body is required", nil)
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = describe(fe)
		}
		return common.NewValidationError("Invalid request", fields)
	}
	return common.NewValidationError("Invalid JSON format: "+err.Error(), nil)
}

// fieldPath drops the struct name from the namespace and lowercases the
// first letter of each segment to match the JSON names.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
