package api

import (
	"net/http"
	"testing"

	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCategory(t *testing.T, env *testEnv, name string) models.Category {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/categories", map[string]string{"name": name}, env.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Category](t, rec)
}

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	category := createCategory(t, env, "News")

	payload := map[string]any{"title": "Open day", "content": "Come and visit", "categoryId": category.ID}

	rec := env.do(http.MethodPost, "/api/articles", payload, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied: you are not allowed to create this article.", decode[ErrorResponse](t, rec).Error)

	rec = env.do(http.MethodPost, "/api/articles", payload, env.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	article := decode[ArticleResponse](t, rec)
	assert.Equal(t, env.admin.ID, article.AuthorID)
	require.NotNil(t, article.Author)
	require.NotNil(t, article.Category)
	assert.Equal(t, "News", article.Category.Name)

	rec = env.do(http.MethodPost, "/api/articles", payload, env.admin)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "title", decode[ErrorResponse](t, rec).Field)

	rec = env.do(http.MethodGet, "/api/articles", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[Collection[ArticleResponse]](t, rec).Total)

	rec = env.do(http.MethodGet, "/api/articles?category=999", nil, nil)
	assert.Equal(t, 0, decode[Collection[ArticleResponse]](t, rec).Total)

	rec = env.do(http.MethodPatch, "/api/articles/"+itoa(article.ID), `{"content":"Updated"}`, env.admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[ArticleResponse](t, rec)
	assert.Equal(t, "Updated", updated.Content)
	assert.Equal(t, "Open day", updated.Title)

	rec = env.do(http.MethodDelete, "/api/articles/"+itoa(article.ID), nil, env.user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodDelete, "/api/articles/"+itoa(article.ID), nil, env.admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestArticleTitleUniqueOnUpdate(t *testing.T) {
	env := newTestEnv(t, nil)
	category := createCategory(t, env, "News")

	for _, title := range []string{"First", "Second"} {
		rec := env.do(http.MethodPost, "/api/articles", map[string]any{"title": title, "content": "abc", "categoryId": category.ID}, env.admin)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodGet, "/api/articles", nil, nil)
	list := decode[Collection[ArticleResponse]](t, rec)
	require.Equal(t, 2, list.Total)

	var second ArticleResponse
	for _, a := range list.Items {
		if a.Title == "Second" {
			second = a
		}
	}
	rec = env.do(http.MethodPatch, "/api/articles/"+itoa(second.ID), `{"title":"First"}`, env.admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestArticleValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/articles", map[string]any{"title": "ab", "content": "x"}, env.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Len(t, body.Violations, 3)

	rec = env.do(http.MethodPost, "/api/articles", map[string]any{"title": "Orphan", "content": "abc", "categoryId": 77}, env.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "categoryId", decode[ErrorResponse](t, rec).Field)
}

func TestCategoryInUseCannotBeDeleted(t *testing.T) {
	env := newTestEnv(t, nil)
	category := createCategory(t, env, "News")
	rec := env.do(http.MethodPost, "/api/articles", map[string]any{"title": "Open day", "content": "abc", "categoryId": category.ID}, env.admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodDelete, "/api/categories/"+itoa(category.ID), nil, env.admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/categories", nil, nil)
	assert.Equal(t, 1, decode[Collection[models.Category]](t, rec).Total)
}
