package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestForbiddenKeepsEntityMessage(t *testing.T) {
	err := NewForbiddenError("Access denied: you are not allowed to see this project.")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, "Access denied: you are not allowed to see this project.", err.Error())
}

func TestNewDatabaseErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, http.StatusConflict},
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_articles_title"`), http.StatusConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: articles.title"), http.StatusConflict},
		{"mysql duplicate", errors.New("Error 1062: Duplicate entry 'x' for key 'title'"), http.StatusConflict},
		{"foreign key", errors.New("FOREIGN KEY constraint failed"), http.StatusConflict},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
		{"other", errors.New("syntax error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "article", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}
}

func TestNewDatabaseErrorPassesThroughApiErr(t *testing.T) {
	inner := NewAlreadyExists("article", "title")
	err := NewDatabaseError("create", "article", fmt.Errorf("wrapped: %w", inner))

	assert.Same(t, inner, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "title", err.Field)
}

func TestGetFullErrorIncludesCause(t *testing.T) {
	err := NewStorageError("upload media", errors.New("disk full"))

	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.GetFullError(), "disk full")
}

func TestValidationErrorSingleField(t *testing.T) {
	err := NewValidationError("article", []Violation{{Field: "title", Rule: "min", Param: "3", Message: "title must be at least 3 characters"}})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "title", err.Field)
	assert.Len(t, err.Violations, 1)
}

func TestTransactionFailedKeepsCause(t *testing.T) {
	err := NewTransactionFailedError("create project", errors.New("sql: database is closed"))

	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Same(t, err, NewDatabaseError("create", "project", err))
	assert.Contains(t, err.GetFullError(), "database is closed")
}
