// Package validation checks entity fields before they reach the database.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"quill/internal/models"

	"github.com/go-playground/validator/v10"
)

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var (
	validate *validator.Validate
	once     sync.Once
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRegex.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct validates the `validate` tags of v and returns a VALIDATION_ERROR
// AppError describing every failing field.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.NewInternalError(err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	appErr := models.NewValidationError(strings.Join(messages, "; "))
	appErr.Err = err
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "slug":
		return fmt.Sprintf("%s must consist of letters, numbers, underscores or hyphens", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
