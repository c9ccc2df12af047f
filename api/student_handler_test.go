package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentListsItsProjects(t *testing.T) {
	env := newTestEnv(t, nil)
	student := env.seedStudent("Ada")
	env.seedProject("Compiler", nil, true, []uint{student.ID}, nil)

	rec := env.do(http.MethodGet, "/api/students/"+itoa(student.ID), nil, env.user)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/api/students/"+itoa(student.ID), nil, env.admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[StudentResponse](t, rec)
	require.Len(t, body.Projects, 1)
	assert.Equal(t, "Compiler", body.Projects[0].Title)
}

func TestStudentPatch(t *testing.T) {
	env := newTestEnv(t, nil)
	student := env.seedStudent("Ada")
	path := "/api/students/" + itoa(student.ID)

	rec := env.do(http.MethodPatch, path, `{"surname":"Lovelace"}`, env.admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[StudentResponse](t, rec)
	assert.Equal(t, "Ada", body.Name)
	assert.Equal(t, "Lovelace", body.Surname)

	rec = env.do(http.MethodPatch, path, `{"name":null}`, env.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decode[ErrorResponse](t, rec).Field)

	rec = env.do(http.MethodPost, "/api/students", map[string]string{"name": "Grace"}, env.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "surname", decode[ErrorResponse](t, rec).Field)
}
