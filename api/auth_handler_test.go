package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkifle/portfolio-backend/models"
)

func TestSignupIssuesVerifiableToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Ada",
		"email":    " Ada@Example.com ",
		"password": "secret1",
		"role":     "admin",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[AuthResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role, "signup never grants admin")

	claims, err := env.tokens.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	me := env.do(http.MethodGet, "/api/auth/me", nil, resp.Token)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "ada@example.com", decodeBody[dataEnvelope[models.User]](t, me).Data.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1"}

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/auth/signup", body, "").Code)

	body["email"] = "ADA@example.com"
	rec := env.do(http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[Envelope](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Email already exists", resp.Message)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "not-an-email",
		"password": "123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody[Envelope](t, rec)
	assert.Contains(t, resp.Errors, "Name is required")
	assert.Contains(t, resp.Errors, "Please provide a valid email")
	assert.Contains(t, resp.Errors, "Password must be at least 6 characters")
}

func TestSigninFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.createUser(models.RoleUser, "right-pass")

	tests := []struct {
		name  string
		email string
	}{
		{"known email", user.Email},
		{"unknown email", "nobody@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/auth/signin", map[string]string{
				"email":    tt.email,
				"password": "wrong-pass",
			}, "")
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid credentials", decodeBody[Envelope](t, rec).Message)
		})
	}
}

func TestSigninMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@b.com"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide email and password", decodeBody[Envelope](t, rec).Message)
}

func TestSigninSuccess(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.createUser(models.RoleAdmin, "right-pass")

	rec := env.do(http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    user.Email,
		"password": "right-pass",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[AuthResponse](t, rec)
	assert.Equal(t, "User signed in successfully", resp.Message)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestSignoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(models.RoleUser, "password")

	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/auth/me", nil, token).Code)

	rec := env.do(http.MethodPost, "/api/auth/signout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User signed out successfully", decodeBody[Envelope](t, rec).Message)

	after := env.do(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, after.Code)

	// Signing out without a token still succeeds.
	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/auth/signout", nil, "").Code)
}

func TestAuthenticationFailures(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(models.RoleUser, "password")

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"no token", "", "Access denied. No token provided."},
		{"garbage token", "not.a.jwt", "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/auth/me", nil, tt.token)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.message, decodeBody[Envelope](t, rec).Message)
		})
	}

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, env.db.UserRepo().Delete(context.Background(), user.ID))
		rec := env.do(http.MethodGet, "/api/auth/me", nil, token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Token is valid but user not found", decodeBody[Envelope](t, rec).Message)
	})
}

func TestTokenCookieAccepted(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(models.RoleUser, "password")

	req, rec := newRequest(http.MethodGet, "/api/auth/me")
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
