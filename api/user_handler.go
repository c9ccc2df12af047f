package api

import (
	"errors"
	"net/http"
	"slices"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/auth"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    *auth.TokenService
	policy    access.Policy
}

func newUserHandler(userRepo *database.UserRepo, tokens *auth.TokenService, policy access.Policy) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
		policy:    policy,
	}
}

// login exchanges credentials for a bearer token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginInput true "Email and password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth [post]
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.tokens == nil {
			h.responder.WriteError(w, errs.NewInternalError("token issuing is not configured"))
			return
		}

		var input models.LoginInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("credentials", input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByEmail(r.Context(), input.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewInvalidCredentialsError())
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if err := auth.CheckPassword(user.Password, input.Password); err != nil {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, err := h.tokens.Issue(user.ID, user.Email, user.EffectiveRoles())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
			return
		}

		h.responder.WriteJSON(w, TokenResponse{Token: token})
	}
}

// register creates a ROLE_USER account. Roles in the payload are ignored.
// @Summary Register
// @Tags Users
// @Accept json
// @Produce json
// @Param user body models.RegisterUserInput true "Account"
// @Success 201 {object} models.User
// @Failure 409 {object} ErrorResponse "Email already used"
// @Router /api/users [post]
func (h userHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.User, access.Create, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.RegisterUserInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("user", input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := auth.HashPassword(input.PlainPassword)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}

		user := models.User{
			Email:    input.Email,
			Password: hash,
			Roles:    []string{models.RoleUser},
			Name:     input.Name,
			Surname:  input.Surname,
		}
		if err := h.userRepo.Add(r.Context(), &user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		h.responder.WriteCreated(w, user)
	}
}

func (h userHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.userRepo.FindByID(r.Context(), ctxGetCaller(r.Context()).UserID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.User, access.List, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		users, err := h.userRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "users", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(users))
	}
}

func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		if err := h.policy.Check(access.User, access.Get, ctxGetCaller(r.Context()), access.OwnedBy(user.ID)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// updateUser applies a merge-patch. Only administrators may change roles.
func (h userHandler) updateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		caller := ctxGetCaller(r.Context())
		if err := h.policy.Check(access.User, access.Update, caller, access.OwnedBy(user.ID)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.UserPatch
		nulls, err := decodePatch(w, r, &patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := rejectNulls("user", nulls, "email", "plainPassword", "name", "surname", "roles"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate("user", patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if patch.Roles != nil && !caller.HasRole(models.RoleAdmin) {
			h.responder.WriteError(w, errs.NewForbiddenError("Access denied: you are not allowed to change roles."))
			return
		}

		if patch.Email != nil {
			user.Email = *patch.Email
		}
		if patch.Name != nil {
			user.Name = *patch.Name
		}
		if patch.Surname != nil {
			user.Surname = *patch.Surname
		}
		if patch.Roles != nil {
			roles := slices.Clone(*patch.Roles)
			slices.Sort(roles)
			user.Roles = slices.Compact(roles)
		}
		if patch.PlainPassword != nil {
			hash, err := auth.HashPassword(*patch.PlainPassword)
			if err != nil {
				h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
				return
			}
			user.Password = hash
		}

		if err := h.userRepo.Update(r.Context(), user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		if err := h.policy.Check(access.User, access.Delete, ctxGetCaller(r.Context()), access.OwnedBy(user.ID)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.userRepo.Delete(r.Context(), userID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "user", err))
			return
		}

		h.responder.WriteJSON(w, deleted("user"))
	}
}
