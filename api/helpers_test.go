package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/auth"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rpupo63/student-showcase-backend/storage"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery"

type testEnv struct {
	t      *testing.T
	db     database.Database
	store  *storage.Memory
	tokens *auth.TokenService
	router http.Handler

	admin *models.User
	user  *models.User
}

func newTestEnv(t *testing.T, cfg map[string]string) *testEnv {
	t.Helper()

	gdb, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		t:      t,
		db:     database.New(gdb),
		store:  storage.NewMemory("/uploads"),
		tokens: tokens,
	}
	if cfg == nil {
		cfg = map[string]string{}
	}
	env.router = newRouter(Dependencies{
		Database: env.db,
		Tokens:   tokens,
		Storage:  env.store,
		Policy:   access.DefaultPolicy(),
	}, withConfig(cfg))

	env.admin = env.createUser("admin@example.com", models.RoleAdmin)
	env.user = env.createUser("user@example.com", models.RoleUser)
	return env
}

func (e *testEnv) createUser(email string, roles ...string) *models.User {
	e.t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(e.t, err)
	user := &models.User{Email: email, Password: hash, Roles: roles, Name: "Test", Surname: "User"}
	require.NoError(e.t, e.db.UserRepo().Add(context.Background(), user))
	return user
}

func (e *testEnv) token(user *models.User) string {
	e.t.Helper()
	token, err := e.tokens.Issue(user.ID, user.Email, user.EffectiveRoles())
	require.NoError(e.t, err)
	return token
}

// do sends a JSON request. A nil user means anonymous.
func (e *testEnv) do(method, path string, body any, user *models.User) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(e.t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		contentType := "application/json"
		if method == http.MethodPatch {
			contentType = "application/merge-patch+json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(user))
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// upload posts a multipart form; an empty fileName sends no file part.
func (e *testEnv) upload(fieldName, fileName string, content []byte, user *models.User) *httptest.ResponseRecorder {
	e.t.Helper()
	body, contentType := multipartBody(e.t, fieldName, fileName, content)

	req := httptest.NewRequest(http.MethodPost, "/api/media", body)
	req.Header.Set("Content-Type", contentType)
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(user))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := writer.CreateFormFile(fieldName, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField(fieldName, string(content)))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (e *testEnv) seedProject(title string, owner *models.User, active bool, studentIDs, mediaIDs []uint) *models.Project {
	e.t.Helper()
	project := &models.Project{Title: title, Description: "desc", Date: 2024, Techno: "Go", IsActive: active}
	if owner != nil {
		project.OwnerID = &owner.ID
	}
	require.NoError(e.t, e.db.ProjectRepo().Add(context.Background(), project, studentIDs, mediaIDs))
	return project
}

func (e *testEnv) seedStudent(name string) *models.Student {
	e.t.Helper()
	student := &models.Student{Name: name, Surname: "Doe"}
	require.NoError(e.t, e.db.StudentRepo().Add(context.Background(), student))
	return student
}

func (e *testEnv) doWithToken(method, path, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
