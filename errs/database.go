package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrTransactionFailed         = errors.New("transaction failed")
	ErrStorage                   = errors.New("storage failure")
)

func NewAlreadyExists(entity, field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
		Details:    fmt.Sprintf("another %s already uses this %s", entity, field),
		Field:      field,
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		// Already classified further down the stack.
		var apiErr *ApiErr
		if errors.As(cause, &apiErr) {
			return apiErr
		}

		if errors.Is(cause, gorm.ErrRecordNotFound) {
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
			}
		}
		if errors.Is(cause, gorm.ErrDuplicatedKey) {
			return NewUniqueConstraintViolationError(entity, "", cause)
		}
		if errors.Is(cause, gorm.ErrForeignKeyViolated) {
			return NewForeignKeyConstraintError(entity, "", cause)
		}

		// Drivers without gorm error translation (postgres, mysql, sqlite wording)
		errStr := strings.ToLower(cause.Error())
		switch {
		case strings.Contains(errStr, "duplicate key"),
			strings.Contains(errStr, "duplicate entry"),
			strings.Contains(errStr, "unique constraint failed"):
			return NewUniqueConstraintViolationError(entity, "", cause)
		case strings.Contains(errStr, "foreign key constraint"):
			return NewForeignKeyConstraintError(entity, "", cause)
		case strings.Contains(errStr, "connection refused"),
			strings.Contains(errStr, "bad connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewUniqueConstraintViolationError(entity, field string, cause error) *ApiErr {
	details := fmt.Sprintf("Unique constraint violation on %s", entity)
	if field != "" {
		details = fmt.Sprintf("Unique constraint violation on %s.%s", entity, field)
	}
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrUniqueConstraintViolation,
		Details:    details,
		Cause:      cause,
		Field:      field,
	}
}

func NewForeignKeyConstraintError(entity, referencedEntity string, cause error) *ApiErr {
	details := fmt.Sprintf("Foreign key constraint violation on %s", entity)
	if referencedEntity != "" {
		details = fmt.Sprintf("Foreign key constraint violation: %s references %s", entity, referencedEntity)
	}
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrForeignKeyConstraint,
		Details:    details,
		Cause:      cause,
		Field:      "foreign_key",
	}
}

func NewTransactionFailedError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
		Field:      "transaction",
	}
}

// NewStorageError reports a blob store failure. It is surfaced, never retried.
func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorage,
		Details:    fmt.Sprintf("Storage failure during %s", operation),
		Cause:      cause,
		Field:      "file",
	}
}
