package api

import (
	"net/http"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type studentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	studentRepo *database.StudentRepo
	policy      access.Policy
}

func newStudentHandler(studentRepo *database.StudentRepo, policy access.Policy) studentHandler {
	logger := log.With().Str("handlerName", "studentHandler").Logger()

	return studentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		studentRepo: studentRepo,
		policy:      policy,
	}
}

func (h studentHandler) getAllStudents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Student, access.List, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		students, err := h.studentRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "students", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(mapSlice(students, newStudentResponse)))
	}
}

func (h studentHandler) getStudent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := urlID(r, "studentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		student, err := h.studentRepo.FindByID(r.Context(), studentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "student", err))
			return
		}

		if err := h.policy.Check(access.Student, access.Get, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, newStudentResponse(student))
	}
}

func (h studentHandler) createStudent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Student, access.Create, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.StudentInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("student", input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		student := models.Student{Name: input.Name, Surname: input.Surname}
		if err := h.studentRepo.Add(r.Context(), &student); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "student", err))
			return
		}

		h.responder.WriteCreated(w, newStudentResponse(&student))
	}
}

// updateStudent changes names only. Project links are edited on the project.
func (h studentHandler) updateStudent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := urlID(r, "studentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		student, err := h.studentRepo.FindByID(r.Context(), studentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "student", err))
			return
		}

		if err := h.policy.Check(access.Student, access.Update, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.StudentPatch
		nulls, err := decodePatch(w, r, &patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := rejectNulls("student", nulls, "name", "surname"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("student", patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch.Apply(student)
		if err := h.studentRepo.Update(r.Context(), student); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "student", err))
			return
		}

		h.responder.WriteJSON(w, newStudentResponse(student))
	}
}

func (h studentHandler) deleteStudent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := urlID(r, "studentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.studentRepo.FindByID(r.Context(), studentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "student", err))
			return
		}

		if err := h.policy.Check(access.Student, access.Delete, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.studentRepo.Delete(r.Context(), studentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "student", err))
			return
		}

		h.responder.WriteJSON(w, deleted("student"))
	}
}
