package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

const DefaultBcryptCost = 12

// Claims is the JWT payload. The user id travels as "id".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID uuid.UUID
	Role   string
	// TokenID and ExpiresAt describe the token that authenticated the request.
	TokenID   string
	ExpiresAt time.Time
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Service hashes passwords and issues and verifies tokens.
type Service struct {
	secret []byte
	expiry time.Duration
	cost   int
	now    func() time.Time

	dummyHash func() []byte
}

// NewService fails when secret is empty; there is no fallback signing key.
func NewService(secret string, expiry time.Duration, cost int) (*Service, error) {
	if secret == "" {
		return nil, errs.NewConfigMissingError("JWT_SECRET")
	}
	if expiry <= 0 {
		return nil, errs.NewConfigInvalidError("JWT_EXPIRE", "must be positive")
	}
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	cost = max(bcrypt.MinCost, min(cost, bcrypt.MaxCost))

	s := &Service{
		secret: []byte(secret),
		expiry: expiry,
		cost:   cost,
		now:    time.Now,
	}
	s.dummyHash = sync.OnceValue(func() []byte {
		hash, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), s.cost)
		if err != nil {
			panic(err)
		}
		return hash
	})
	return s, nil
}

// Expiry is the lifetime given to newly issued tokens.
func (s *Service) Expiry() time.Duration {
	return s.expiry
}

func (s *Service) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// DummyVerify spends the same work as VerifyPassword for unknown accounts.
func (s *Service) DummyVerify(plain string) {
	_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(plain))
}

// IssueToken signs an HS256 token for userID with a fresh jti.
func (s *Service) IssueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm and expiry.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errs.NewExpiredTokenError()
	case err != nil, !parsed.Valid:
		return nil, errs.NewInvalidTokenError()
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}

// Authorize allows callers holding role, or the owner of the resource when
// ownerID is set.
func Authorize(identity Identity, role string, ownerID uuid.UUID) error {
	if identity.Role == role {
		return nil
	}
	if ownerID != uuid.Nil && identity.UserID == ownerID {
		return nil
	}
	return errs.NewInsufficientRoleError("Access denied. Admin privileges required.")
}
