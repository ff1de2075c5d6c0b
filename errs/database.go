package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDatabaseQuery   = errors.New("database query failed")
	ErrDatabaseTimeout = errors.New("database timeout")
)

// NewNotFound builds the "<Entity> not found" response used for both missing
// rows and ids that cannot be parsed.
func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
	}
}

func TranslateDatabaseError(operation, entity, duplicateMessage string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, strings.ToLower(entity))

	if cause != nil {
		if duplicateMessage == "" {
			duplicateMessage = fmt.Sprintf("%s already exists", entity)
		}
		switch {
		case errors.Is(cause, gorm.ErrRecordNotFound):
			return NewNotFound(entity)
		case errors.Is(cause, gorm.ErrDuplicatedKey), isDuplicateKey(cause):
			return NewConflictError(duplicateMessage).withCause(details, cause)
		case errors.Is(cause, context.DeadlineExceeded):
			return &ApiErr{
				StatusCode: http.StatusInternalServerError,
				err:        ErrDatabaseTimeout,
				Message:    "Internal server error",
				Details:    details,
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Message:    "Internal server error",
		Details:    details,
		Cause:      cause,
	}
}

// isDuplicateKey covers drivers that don't implement gorm's error translator.
func isDuplicateKey(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func IsDatabaseTimeoutError(err error) bool {
	return errors.Is(err, ErrDatabaseTimeout)
}
