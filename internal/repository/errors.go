// Package repository implements the data access layer for the application.
package repository

import (
	"errors"

	"quill/internal/database"
	"quill/internal/models"

	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// TranslateError maps a gorm error to an AppError, keeping the original in
// the chain.
func TranslateError(resource string, id any, err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		nf := models.NewNotFoundError(resource, id)
		nf.Err = err
		return nf
	case database.IsUniqueViolation(err):
		return models.NewConflictError(resource, err)
	case database.IsForeignKeyViolation(err):
		return models.NewRelationError(resource, err)
	default:
		return models.NewInternalError(err)
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
