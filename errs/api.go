package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrForbidden   = errors.New("operation not allowed")
	ErrBadRequest  = errors.New("malformed request")
	ErrInternal    = errors.New("internal server error")
	ErrConflict    = errors.New("resource conflict")
	ErrCORSBlocked = errors.New("request blocked by CORS policy")
)

// Request & Input-Validation Errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrValidation           = errors.New("validation failed")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrInvalidJSON          = errors.New("invalid JSON")
)

// Violation describes one field that failed validation.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

type ApiErr struct {
	StatusCode int
	err        error
	Details    string      // Additional details about the error
	Field      string      // Field that caused the error (for validation errors)
	Cause      error       // The underlying cause of the error
	Violations []Violation // Per-field failures, set for validation errors
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// NewForbiddenError wraps ErrForbidden so errors.Is matches it, while the message
// shown to the caller stays the entity-specific one.
func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: &messageErr{msg: message, sentinel: ErrForbidden}}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: &messageErr{msg: message, sentinel: ErrInternal}}
}

func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: &messageErr{msg: message, sentinel: ErrConflict}}
}

// messageErr carries a display message while unwrapping to a sentinel.
type messageErr struct {
	msg      string
	sentinel error
}

func (m *messageErr) Error() string { return m.msg }
func (m *messageErr) Unwrap() error { return m.sentinel }

func NewBadRequestErrorWithField(message, field, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        &messageErr{msg: message, sentinel: ErrBadRequest},
		Field:      field,
		Details:    details,
	}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        &messageErr{msg: message, sentinel: ErrInternal},
		Cause:      cause,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

// Request & Input-Validation Error Constructors
func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

// NewValidationError reports every violated field at once.
func NewValidationError(entity string, violations []Violation) *ApiErr {
	apiErr := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    fmt.Sprintf("%s has %d invalid field(s)", entity, len(violations)),
		Violations: violations,
	}
	if len(violations) == 1 {
		apiErr.Field = violations[0].Field
	}
	return apiErr
}

func NewUnsupportedMediaTypeError(contentType string, allowedTypes []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedMediaType,
		Details:    fmt.Sprintf("Unsupported media type: %s. Allowed types: %v", contentType, allowedTypes),
		Field:      "content_type",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Field:      "body_size",
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Details:    "Invalid JSON format",
		Cause:      cause,
		Field:      "json",
	}
}
