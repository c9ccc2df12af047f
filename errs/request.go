package errs

import (
	"errors"
	"net/http"
)

// Authentication Errors
var (
	ErrMissingToken       = errors.New("missing access token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authentication Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
		Details:    "Email or password is incorrect",
	}
}
