package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkifle/portfolio-backend/auth"
	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

// access is the rule a route table entry is guarded by.
type access int

const (
	public access = iota
	authenticated
	admin
	adminOrSelf
)

func (a access) String() string {
	switch a {
	case public:
		return "public"
	case authenticated:
		return "authenticated"
	case admin:
		return "admin"
	case adminOrSelf:
		return "adminOrSelf"
	}
	return "unknown"
}

const (
	tokenCookie = "token"

	adminRequiredMessage = "Access denied. Admin privileges required."
	selfOnlyMessage      = "Access denied. You can only access your own profile."
)

// authorizer authenticates bearer tokens and evaluates route access rules.
type authorizer struct {
	responder Responder
	logger    zerolog.Logger
	tokens    *auth.Service
	users     *database.UserRepo
	revoked   *database.TokenRepo
}

func newAuthorizer(responder Responder, logger zerolog.Logger, tokens *auth.Service, db database.Database) authorizer {
	return authorizer{
		responder: responder,
		logger:    logger,
		tokens:    tokens,
		users:     db.UserRepo(),
		revoked:   db.TokenRepo(),
	}
}

// bearerToken returns the token from the Authorization header or the token cookie.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(tokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// authenticate resolves the caller behind token, checking revocation and that
// the user still exists.
func (a authorizer) authenticate(ctx context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, errs.NewMissingTokenError()
	}

	claims, err := a.tokens.VerifyToken(token)
	if err != nil {
		return auth.Identity{}, err
	}

	if claims.ID != "" {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return auth.Identity{}, err
		}
		if revoked {
			return auth.Identity{}, errs.NewRevokedTokenError()
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return auth.Identity{}, errs.NewInvalidTokenError()
	}
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errs.IsNotFound(err) {
			return auth.Identity{}, errs.NewUnauthorizedError("Token is valid but user not found")
		}
		return auth.Identity{}, err
	}

	identity := auth.Identity{UserID: user.ID, Role: user.Role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// enforce returns the middleware for one access rule. It runs after routing so
// URL parameters are available to the ownership check.
func (a authorizer) enforce(rule access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rule == public {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.authenticate(r.Context(), bearerToken(r))
			if err != nil {
				a.responder.WriteError(w, err)
				return
			}

			switch rule {
			case admin:
				if err := auth.Authorize(identity, models.RoleAdmin, uuid.Nil); err != nil {
					a.responder.WriteError(w, errs.NewInsufficientRoleError(adminRequiredMessage))
					return
				}
			case adminOrSelf:
				owner, _ := uuid.Parse(chi.URLParam(r, "id"))
				if err := auth.Authorize(identity, models.RoleAdmin, owner); err != nil {
					a.responder.WriteError(w, errs.NewInsufficientRoleError(selfOnlyMessage))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctxWithIdentity(r.Context(), identity)))
		})
	}
}
