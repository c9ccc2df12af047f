package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/student-showcase-backend/errs"
)

const maxJSONBodyBytes = 1 << 20

var jsonContentTypes = []string{"application/json", "application/merge-patch+json"}

// urlID parses a positive integer route parameter.
func urlID(r *http.Request, param string) (uint, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError(param)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError(param, "must be a positive integer")
	}
	return uint(id), nil
}

func queryID(r *http.Request, param string) (uint, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.NewInvalidFieldError(param, "must be a positive integer")
	}
	return uint(id), nil
}

func checkJSONContentType(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || (mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json")) {
		return errs.NewUnsupportedMediaTypeError(contentType, jsonContentTypes)
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if err := checkJSONContentType(r); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return nil, errs.NewMalformedPayloadError("request", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errs.NewMalformedPayloadError("empty", io.EOF)
	}
	return body, nil
}

// decodeJSON reads a JSON object into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// decodePatch reads a merge-patch document into dst and returns the members
// explicitly set to null, which dst's pointer fields cannot tell apart from
// absent ones.
func decodePatch(w http.ResponseWriter, r *http.Request, dst any) (map[string]bool, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}
	if members == nil {
		return nil, errs.NewMalformedPayloadError("merge-patch", errors.New("document must be an object"))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}

	nulls := make(map[string]bool)
	for name, raw := range members {
		if string(bytes.TrimSpace(raw)) == "null" {
			nulls[name] = true
		}
	}
	return nulls, nil
}

// rejectNulls fails when any of fields was sent as null.
func rejectNulls(entity string, nulls map[string]bool, fields ...string) error {
	var violations []errs.Violation
	for _, field := range fields {
		if nulls[field] {
			violations = append(violations, errs.Violation{
				Field:   field,
				Rule:    "notnull",
				Message: field + " cannot be null",
			})
		}
	}
	if len(violations) > 0 {
		return errs.NewValidationError(entity, violations)
	}
	return nil
}
