package api

import (
	"net/http"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	policy      access.Policy
}

func newProjectHandler(projectRepo *database.ProjectRepo, policy access.Policy) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		policy:      policy,
	}
}

// getAllProjects retrieves all projects with their students and media
// @Summary Get all projects
// @Description Anonymous callers are refused; the public view is /api/gallery
// @Tags Projects
// @Produce json
// @Success 200 {object} Collection[ProjectResponse]
// @Failure 403 {object} ErrorResponse
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Project, access.List, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(mapSlice(projects, newProjectResponse)))
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		if err := h.policy.Check(access.Project, access.Get, ctxGetCaller(r.Context()), access.Owned(project.OwnerID)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newProjectResponse(project))
	}
}

// createProject creates a project owned by the caller
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.ProjectInput true "Project data, students and media by id"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Invalid data or unknown student/media id"
// @Failure 403 {object} ErrorResponse
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		if err := h.policy.Check(access.Project, access.Create, caller, access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ProjectInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		input.Normalize()
		if err := models.Validate("project", input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ownerID := caller.UserID
		project := input.Project(&ownerID)
		if err := h.projectRepo.Add(r.Context(), &project, input.Students, input.Media); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Uint("projectId", project.ID).Uint("ownerId", ownerID).Msg("project created")
		h.responder.WriteCreated(w, newProjectResponse(&project))
	}
}

// updateProject applies a merge-patch to a project
// @Summary Update project
// @Description students and media, when present, replace the linked set; link null clears it
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Param project body models.ProjectPatch true "Fields to change"
// @Success 200 {object} ProjectResponse
// @Router /api/projects/{projectID} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		if err := h.policy.Check(access.Project, access.Update, ctxGetCaller(r.Context()), access.Owned(project.OwnerID)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.ProjectPatch
		nulls, err := decodePatch(w, r, &patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := rejectNulls("project", nulls, "title", "description", "date", "techno", "isActive"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		patch.Normalize(nulls["link"])
		if nulls["students"] {
			patch.Students = &[]uint{}
		}
		if nulls["media"] {
			patch.Media = &[]uint{}
		}
		if err := models.Validate("project", patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch.Apply(project)
		if err := h.projectRepo.Update(r.Context(), project, patch.Students, patch.Media); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, newProjectResponse(project))
	}
}

// deleteProject deletes a project; its students and media are kept
// @Summary Delete project
// @Tags Projects
// @Param projectID path int true "Project ID"
// @Success 200 {object} StatusMessage
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		if err := h.policy.Check(access.Project, access.Delete, ctxGetCaller(r.Context()), access.Owned(project.OwnerID)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, deleted("project"))
	}
}
