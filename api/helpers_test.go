package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkifle/portfolio-backend/auth"
	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/models"
)

const testOrigin = "http://localhost:5173"

type testEnv struct {
	t        *testing.T
	db       database.Database
	handler  http.Handler
	tokens   *auth.Service
	settings config.Settings
}

func testSettings() config.Settings {
	return config.Settings{
		Environment:     config.EnvTest,
		Port:            "0",
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		BcryptCost:      bcrypt.MinCost,
		AcceptedOrigins: []string{testOrigin},
	}
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	return newTestEnvWith(t, testSettings(), opts...)
}

func newTestEnvWith(t *testing.T, settings config.Settings, opts ...Option) *testEnv {
	t.Helper()

	gdb, err := database.OpenMemory()
	require.NoError(t, err)
	db := database.New(gdb, 5*time.Second)
	t.Cleanup(func() { _ = db.Close() })

	handler, err := NewRouter(settings, db, opts...)
	require.NoError(t, err)

	tokens, err := auth.NewService(settings.JWTSecret, settings.JWTExpiry, settings.BcryptCost)
	require.NoError(t, err)

	return &testEnv{t: t, db: db, handler: handler, tokens: tokens, settings: settings}
}

// createUser stores a user with the given role and returns it with a valid token.
func (e *testEnv) createUser(role, password string) (models.User, string) {
	e.t.Helper()

	hash, err := e.tokens.HashPassword(password)
	require.NoError(e.t, err)

	user := models.User{
		Name:         faker.FirstName(),
		Email:        strings.ReplaceAll(uuid.NewString(), "-", "") + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	user.Normalize()
	require.NoError(e.t, e.db.UserRepo().Add(context.Background(), &user))

	token, err := e.tokens.IssueToken(user.ID)
	require.NoError(e.t, err)
	return user, token
}

func (e *testEnv) adminToken() string {
	_, token := e.createUser(models.RoleAdmin, "admin-pass")
	return token
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorder body into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// dataEnvelope is Envelope with a typed data field.
type dataEnvelope[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    T        `json:"data"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors"`
}

func newRequest(method, path string) (*http.Request, *httptest.ResponseRecorder) {
	return httptest.NewRequest(method, path, nil), httptest.NewRecorder()
}

// mustField returns one raw top-level field of a JSON response.
func mustField(t *testing.T, rec *httptest.ResponseRecorder, key string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	raw, ok := fields[key]
	require.True(t, ok, "missing %q in %s", key, rec.Body.String())
	return raw
}
