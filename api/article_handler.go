package api

import (
	"net/http"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type articleHandler struct {
	responder   Responder
	logger      zerolog.Logger
	articleRepo *database.ArticleRepo
	policy      access.Policy
}

func newArticleHandler(articleRepo *database.ArticleRepo, policy access.Policy) articleHandler {
	logger := log.With().Str("handlerName", "articleHandler").Logger()

	return articleHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		articleRepo: articleRepo,
		policy:      policy,
	}
}

// getAllArticles lists articles, optionally filtered by ?category=
// @Summary Get all articles
// @Tags Articles
// @Produce json
// @Param category query int false "Category ID"
// @Success 200 {object} Collection[ArticleResponse]
// @Router /api/articles [get]
func (h articleHandler) getAllArticles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Article, access.List, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		categoryID, err := queryID(r, "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		articles, err := h.articleRepo.FindAll(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "articles", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(mapSlice(articles, newArticleResponse)))
	}
}

// getArticle retrieves a specific article by ID
// @Summary Get article
// @Tags Articles
// @Produce json
// @Param articleID path int true "Article ID"
// @Success 200 {object} ArticleResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/articles/{articleID} [get]
func (h articleHandler) getArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID, err := urlID(r, "articleID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article, err := h.articleRepo.FindByID(r.Context(), articleID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "article", err))
			return
		}

		if err := h.policy.Check(access.Article, access.Get, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newArticleResponse(article))
	}
}

// createArticle creates an article authored by the caller
// @Summary Create article
// @Tags Articles
// @Accept json
// @Produce json
// @Param article body models.ArticleInput true "Article data"
// @Success 201 {object} ArticleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Title already used"
// @Router /api/articles [post]
func (h articleHandler) createArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		if err := h.policy.Check(access.Article, access.Create, caller, access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ArticleInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("article", input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article := input.Article(caller.UserID)
		if err := h.articleRepo.Add(r.Context(), &article); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "article", err))
			return
		}

		h.responder.WriteCreated(w, newArticleResponse(&article))
	}
}

// updateArticle applies a merge-patch to an article
// @Summary Update article
// @Tags Articles
// @Accept json
// @Produce json
// @Param articleID path int true "Article ID"
// @Param article body models.ArticlePatch true "Fields to change"
// @Success 200 {object} ArticleResponse
// @Router /api/articles/{articleID} [patch]
func (h articleHandler) updateArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID, err := urlID(r, "articleID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article, err := h.articleRepo.FindByID(r.Context(), articleID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "article", err))
			return
		}

		if err := h.policy.Check(access.Article, access.Update, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.ArticlePatch
		nulls, err := decodePatch(w, r, &patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := rejectNulls("article", nulls, "title", "content", "categoryId"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("article", patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch.Apply(article)
		if err := h.articleRepo.Update(r.Context(), article); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "article", err))
			return
		}

		h.responder.WriteJSON(w, newArticleResponse(article))
	}
}

// deleteArticle deletes an article by ID
// @Summary Delete article
// @Tags Articles
// @Param articleID path int true "Article ID"
// @Success 200 {object} StatusMessage
// @Router /api/articles/{articleID} [delete]
func (h articleHandler) deleteArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID, err := urlID(r, "articleID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.articleRepo.FindByID(r.Context(), articleID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "article", err))
			return
		}

		if err := h.policy.Check(access.Article, access.Delete, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.articleRepo.Delete(r.Context(), articleID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "article", err))
			return
		}

		h.responder.WriteJSON(w, deleted("article"))
	}
}
