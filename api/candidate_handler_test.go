package api

import (
	"net/http"
	"testing"

	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() map[string]string {
	return map[string]string{
		"name":       "Lin",
		"surname":    "Yu",
		"email":      "lin@example.com",
		"phone":      "+33600000000",
		"program":    "Web development",
		"motivation": "I like building things.",
	}
}

func TestPublicCandidateIntake(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/candidates", validCandidate(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Candidate](t, rec)
	assert.NotZero(t, created.ID)

	rec = env.do(http.MethodGet, "/api/candidates/"+itoa(created.ID), nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/api/candidates/"+itoa(created.ID), nil, env.user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/api/candidates/"+itoa(created.ID), nil, env.admin)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Candidate](t, rec)
	assert.Equal(t, "Web development", got.Program)
	assert.Equal(t, "lin@example.com", got.Email)

	rec = env.do(http.MethodGet, "/api/candidates", nil, env.admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[Collection[models.Candidate]](t, rec).Total)

	rec = env.do(http.MethodDelete, "/api/candidates/"+itoa(created.ID), nil, env.admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCandidateRequiresEveryField(t *testing.T) {
	env := newTestEnv(t, nil)

	payload := validCandidate()
	delete(payload, "motivation")
	payload["email"] = "not-an-email"

	rec := env.do(http.MethodPost, "/api/candidates", payload, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorResponse](t, rec)
	require.Len(t, body.Violations, 2)

	rec = env.do(http.MethodGet, "/api/candidates", nil, env.admin)
	assert.Equal(t, 0, decode[Collection[models.Candidate]](t, rec).Total)
}
