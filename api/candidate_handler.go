package api

import (
	"net/http"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rpupo63/student-showcase-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type candidateHandler struct {
	responder     Responder
	logger        zerolog.Logger
	candidateRepo *database.CandidateRepo
	notifier      *services.CandidateNotifier
	policy        access.Policy
}

func newCandidateHandler(candidateRepo *database.CandidateRepo, notifier *services.CandidateNotifier, policy access.Policy) candidateHandler {
	logger := log.With().Str("handlerName", "candidateHandler").Logger()

	return candidateHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		candidateRepo: candidateRepo,
		notifier:      notifier,
		policy:        policy,
	}
}

func (h candidateHandler) getAllCandidates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Candidate, access.List, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		candidates, err := h.candidateRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "candidates", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(candidates))
	}
}

func (h candidateHandler) getCandidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID, err := urlID(r, "candidateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		candidate, err := h.candidateRepo.FindByID(r.Context(), candidateID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "candidate", err))
			return
		}

		if err := h.policy.Check(access.Candidate, access.Get, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, candidate)
	}
}

// createCandidate records a public application. Notifications are sent
// afterwards and never fail the request.
// @Summary Submit an application
// @Tags Candidates
// @Accept json
// @Produce json
// @Param candidate body models.CandidateInput true "Application"
// @Success 201 {object} models.Candidate
// @Failure 400 {object} ErrorResponse
// @Router /api/candidates [post]
func (h candidateHandler) createCandidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Candidate, access.Create, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.CandidateInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("candidate", input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		candidate := input.Candidate()
		if err := h.candidateRepo.Add(r.Context(), &candidate); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "candidate", err))
			return
		}

		if err := h.notifier.NotifyCandidate(r.Context(), candidate); err != nil {
			h.logger.Warn().Err(err).Uint("candidateId", candidate.ID).Msg("candidate saved but notification failed")
		}

		h.responder.WriteCreated(w, candidate)
	}
}

func (h candidateHandler) deleteCandidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID, err := urlID(r, "candidateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.candidateRepo.FindByID(r.Context(), candidateID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "candidate", err))
			return
		}

		if err := h.policy.Check(access.Candidate, access.Delete, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.candidateRepo.Delete(r.Context(), candidateID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "candidate", err))
			return
		}

		h.responder.WriteJSON(w, deleted("candidate"))
	}
}
