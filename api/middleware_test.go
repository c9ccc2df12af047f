package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Database)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, map[string]string{"ACCEPTED_ORIGINS": "https://admin.example.com"})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://admin.example.com")
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, rec.Code, 300)

	rec = preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnsupportedContentType(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/candidates", nil)
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestMalformedJSON(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/candidates", `{"name":`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "json", decode[ErrorResponse](t, rec).Field)

	rec = env.do(http.MethodPost, "/api/candidates", `   `, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPanicIsRecovered(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
