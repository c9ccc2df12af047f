package api

import (
	"net/http"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
	policy       access.Policy
}

func newCategoryHandler(categoryRepo *database.CategoryRepo, policy access.Policy) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		policy:       policy,
	}
}

func (h categoryHandler) getAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Category, access.List, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "categories", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(categories))
	}
}

func (h categoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := urlID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.FindByID(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "category", err))
			return
		}

		if err := h.policy.Check(access.Category, access.Get, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Category, access.Create, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.CategoryInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("category", input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category := models.Category{Name: input.Name}
		if err := h.categoryRepo.Add(r.Context(), &category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "category", err))
			return
		}

		h.responder.WriteCreated(w, category)
	}
}

func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := urlID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.FindByID(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "category", err))
			return
		}

		if err := h.policy.Check(access.Category, access.Update, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.CategoryPatch
		nulls, err := decodePatch(w, r, &patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := rejectNulls("category", nulls, "name"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("category", patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if patch.Name != nil {
			category.Name = *patch.Name
		}
		if err := h.categoryRepo.Update(r.Context(), category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "category", err))
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := urlID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.categoryRepo.FindByID(r.Context(), categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "category", err))
			return
		}

		if err := h.policy.Check(access.Category, access.Delete, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.categoryRepo.Delete(r.Context(), categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "category", err))
			return
		}

		h.responder.WriteJSON(w, deleted("category"))
	}
}
