package api

import (
	"net/http"

	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rpupo63/student-showcase-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// galleryHandler serves the public, read-only view of active projects.
type galleryHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	baseURL     string
}

func newGalleryHandler(projectRepo *database.ProjectRepo, baseURL string) galleryHandler {
	logger := log.With().Str("handlerName", "galleryHandler").Logger()

	return galleryHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		baseURL:     baseURL,
	}
}

func (h galleryHandler) publicProject(p *models.Project) ProjectResponse {
	resp := newProjectResponse(p)
	resp.OwnerID = nil
	resp.URL = services.BuildGalleryURL(h.baseURL, p.ID)
	return resp
}

func (h galleryHandler) getGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindActive(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(mapSlice(projects, h.publicProject)))
	}
}

// getGalleryProject answers 404 for inactive projects.
func (h galleryHandler) getGalleryProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindActiveByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, h.publicProject(project))
	}
}
