package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
}

func newUserHandler(repo *database.UserRepo, hideDetails bool) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger, hideDetails),
		logger:    logger,
		userRepo:  repo,
	}
}

// userUpdate lists the profile fields a caller may change. Passwords are not
// updatable here.
type userUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// @Summary List users
// @Tags Users
// @Param role query string false "user or admin"
// @Router /api/users [get]
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.UserFilter{Role: queryString(r, "role")}

		page, err := h.userRepo.List(r.Context(), filter, queryPage(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newListEnvelope(page))
	}
}

// @Summary Get user
// @Tags Users
// @Router /api/users/{id} [get]
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "User")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "", user)
	}
}

// updateUser changes name and email. Role changes are only honoured for admins;
// for anyone else the key is dropped.
// @Summary Update user
// @Tags Users
// @Router /api/users/{id} [put]
func (h userHandler) updateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "User")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req userUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		identity, _ := ctxGetIdentity(r.Context())
		if req.Role != nil && !identity.IsAdmin() {
			h.logger.Warn().
				Str("userId", identity.UserID.String()).
				Str("requestedRole", *req.Role).
				Msg("Ignoring role change from non-admin")
			req.Role = nil
		}

		user, err := h.userRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		user.Normalize()
		if err := models.Validate(user); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.userRepo.Update(r.Context(), user); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "User updated successfully", user)
	}
}

// @Summary Delete user
// @Tags Users
// @Router /api/users/{id} [delete]
func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "User")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if identity, ok := ctxGetIdentity(r.Context()); ok && identity.UserID == id {
			h.responder.WriteError(w, errs.NewBadRequestError("You cannot delete your own account."))
			return
		}

		if err := h.userRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, "User deleted successfully")
	}
}
