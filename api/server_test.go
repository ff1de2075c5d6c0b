package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkifle/portfolio-backend/models"
)

func TestPreflightOnEveryRoute(t *testing.T) {
	env := newTestEnv(t)
	router, ok := env.handler.(*chi.Mux)
	require.True(t, ok)

	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		path := strings.ReplaceAll(route, "{id}", "5b1f6a7e-8f53-4c59-9a3c-1f0c1a2b3c4d")

		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", testOrigin)
		req.Header.Set("Access-Control-Request-Method", method)
		req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", method, route)
		assert.Empty(t, rec.Body.String(), "%s %s", method, route)
		assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"), "%s %s", method, route)
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"), "%s %s", method, route)
		return nil
	})
	require.NoError(t, err)
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, "test", resp.Environment)

	require.NoError(t, env.db.Close())
	down := env.do(http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, down.Code)
	assert.Equal(t, "degraded", decodeBody[HealthResponse](t, down).Status)
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/health", nil, "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestUnknownRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/nothing-here", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeBody[Envelope](t, rec).Message)

	assert.Equal(t, http.StatusMethodNotAllowed, env.do(http.MethodPatch, "/api/projects", nil, "").Code)
}

func TestMalformedBodies(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	bad := env.do(http.MethodPost, "/api/projects", "{not json", token)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	huge := env.do(http.MethodPost, "/api/contacts", `{"message":"`+strings.Repeat("a", 2<<20)+`"}`, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, huge.Code)
}

func TestSPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	settings := testSettings()
	settings.StaticDir = dir
	env := newTestEnvWith(t, settings)

	asset := env.do(http.MethodGet, "/app.js", nil, "")
	require.Equal(t, http.StatusOK, asset.Code)
	assert.Equal(t, "console.log(1)", asset.Body.String())

	page := env.do(http.MethodGet, "/projects/42", nil, "")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Equal(t, "<html>app</html>", page.Body.String())

	api := env.do(http.MethodGet, "/api/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, api.Code)
}

type fakeImageStore struct {
	contentType string
	body        []byte
	err         error
}

func (s *fakeImageStore) Upload(_ context.Context, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.contentType = contentType
	s.body, _ = io.ReadAll(body)
	return "https://images.example.com/images/1.png", nil
}

func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "shot.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	t.Run("disabled without a store", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/uploads", nil, env.adminToken()).Code)
	})

	t.Run("stores png", func(t *testing.T) {
		store := &fakeImageStore{}
		env := newTestEnv(t, WithImageStore(store))

		body, contentType := multipartImage(t, png)
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+env.adminToken())
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "image/png", store.contentType)
		assert.Equal(t, png, store.body)
		assert.Equal(t, "https://images.example.com/images/1.png", decodeBody[dataEnvelope[uploadResult]](t, rec).Data.URL)
	})

	t.Run("rejects non-images", func(t *testing.T) {
		env := newTestEnv(t, WithImageStore(&fakeImageStore{}))

		body, contentType := multipartImage(t, []byte("just text"))
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+env.adminToken())
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Unsupported image type", decodeBody[Envelope](t, rec).Message)
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		env := newTestEnv(t, WithImageStore(&fakeImageStore{err: errors.New("bucket gone")}))
		_, userToken := env.createUser(models.RoleUser, "password")

		body, contentType := multipartImage(t, png)
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+userToken)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)

		body, contentType = multipartImage(t, png)
		req = httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+env.adminToken())
		rec = httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
