package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/auth"
	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	tokens    *auth.Service
	userRepo  *database.UserRepo
	tokenRepo *database.TokenRepo
}

func newAuthHandler(tokens *auth.Service, db database.Database, hideDetails bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, hideDetails),
		logger:    logger,
		tokens:    tokens,
		userRepo:  db.UserRepo(),
		tokenRepo: db.TokenRepo(),
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=50" label:"Name"`
	Email    string `json:"email" validate:"required,mailbox" label:"Email"`
	Password string `json:"password" validate:"required,min=6" label:"Password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signup registers a regular user and signs them in
// @Summary Sign up
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} AuthResponse
// @Failure 400 {object} Envelope "Validation failed or email already exists"
// @Router /api/auth/signup [post]
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = models.NormalizeEmail(req.Email)
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := h.tokens.HashPassword(req.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause(internalErrorMessage, err))
			return
		}

		user := models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         models.RoleUser,
		}
		if err := h.userRepo.Add(r.Context(), &user); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userId", user.ID.String()).Msg("User registered")
		h.writeSession(w, http.StatusCreated, "User registered successfully", user)
	}
}

// signin exchanges credentials for a token
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 400 {object} Envelope "Missing email or password"
// @Failure 401 {object} Envelope "Invalid credentials"
// @Router /api/auth/signin [post]
func (h authHandler) signin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signinRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("Please provide email and password"))
			return
		}

		user, err := h.userRepo.FindByEmail(r.Context(), req.Email)
		if err != nil {
			if !errs.IsNotFound(err) {
				h.responder.WriteError(w, err)
				return
			}
			h.tokens.DummyVerify(req.Password)
			h.responder.WriteError(w, errs.NewBadCredentialsError())
			return
		}

		if !h.tokens.VerifyPassword(req.Password, user.PasswordHash) {
			h.responder.WriteError(w, errs.NewBadCredentialsError())
			return
		}

		h.writeSession(w, http.StatusOK, "User signed in successfully", *user)
	}
}

// signout revokes the presented token, if any. It always succeeds so clients
// can clear local state unconditionally.
// @Summary Sign out
// @Tags Auth
// @Router /api/auth/signout [post]
func (h authHandler) signout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			h.revoke(r, token)
		}
		h.responder.WriteMessage(w, "User signed out successfully")
	}
}

// me returns the caller's own profile.
// @Summary Current user
// @Tags Auth
// @Router /api/auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), identity.UserID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "", user)
	}
}

func (h authHandler) revoke(r *http.Request, token string) {
	claims, err := h.tokens.VerifyToken(token)
	if err != nil || claims.ID == "" {
		return
	}

	userID, _ := uuid.Parse(claims.UserID)
	expiresAt := time.Now().Add(h.tokens.Expiry())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.tokenRepo.Revoke(r.Context(), claims.ID, userID, expiresAt); err != nil {
		h.logger.Error().Err(err).Msg("Failed to revoke token")
		return
	}
	if n, err := h.tokenRepo.PurgeExpired(r.Context(), time.Now()); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to purge expired revocations")
	} else if n > 0 {
		h.logger.Debug().Int64("purged", n).Msg("Purged expired revocations")
	}
}

func (h authHandler) writeSession(w http.ResponseWriter, status int, message string, user models.User) {
	token, err := h.tokens.IssueToken(user.ID)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause(internalErrorMessage, err))
		return
	}

	h.responder.WriteJSON(w, status, AuthResponse{
		Success: true,
		Message: message,
		Token:   token,
		User:    summarize(user),
	})
}
