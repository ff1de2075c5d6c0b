package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkifle/portfolio-backend/models"
)

func projectBody(title string) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "A project worth showing",
		"image":        "https://cdn.example.com/p.png",
		"technologies": []string{"Go", " ", "React"},
		"githubUrl":    "https://github.com/example/p",
		"featured":     true,
	}
}

func TestProjectCreateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	rec := env.do(http.MethodPost, "/api/projects", projectBody("Portfolio"), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[dataEnvelope[models.Project]](t, rec)
	assert.Equal(t, "Project created successfully", created.Message)
	assert.Equal(t, []string{"Go", "React"}, []string(created.Data.Technologies))

	get := env.do(http.MethodGet, "/api/projects/"+created.Data.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, get.Code)
	fetched := decodeBody[dataEnvelope[models.Project]](t, get).Data

	assert.Equal(t, created.Data.ID, fetched.ID)
	assert.Equal(t, "Portfolio", fetched.Title)
	assert.Equal(t, "https://github.com/example/p", fetched.GithubURL)
	assert.True(t, fetched.Featured)
	assert.Equal(t, []string{"Go", "React"}, []string(fetched.Technologies))
}

func TestProjectCreateIgnoresUnknownAndServerKeys(t *testing.T) {
	env := newTestEnv(t)

	body := projectBody("Extra keys")
	body["__v"] = 0
	body["id"] = "5b1f6a7e-8f53-4c59-9a3c-1f0c1a2b3c4d"
	rec := env.do(http.MethodPost, "/api/projects", body, env.adminToken())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[dataEnvelope[models.Project]](t, rec).Data
	assert.Equal(t, "Extra keys", created.Title)
	assert.NotEqual(t, "5b1f6a7e-8f53-4c59-9a3c-1f0c1a2b3c4d", created.ID.String())

	malformed := env.do(http.MethodPost, "/api/projects", `{"title":`, env.adminToken())
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestProjectCreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(models.RoleUser, "password")

	rec := env.do(http.MethodPost, "/api/projects", projectBody("Nope"), userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, adminRequiredMessage, decodeBody[Envelope](t, rec).Message)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/projects", projectBody("Nope"), "").Code)
}

func TestProjectCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	body := projectBody("")
	body["image"] = "not a url"
	rec := env.do(http.MethodPost, "/api/projects", body, env.adminToken())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody[Envelope](t, rec)
	assert.Contains(t, resp.Errors, "Title is required")
	assert.Contains(t, resp.Errors, "Image URL must be a valid URL")
}

func TestProjectUpdateIsPartial(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	rec := env.do(http.MethodPost, "/api/projects", projectBody("Before"), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[dataEnvelope[models.Project]](t, rec).Data.ID

	upd := env.do(http.MethodPut, "/api/projects/"+id.String(), map[string]any{"title": "After"}, token)
	require.Equal(t, http.StatusOK, upd.Code, upd.Body.String())
	updated := decodeBody[dataEnvelope[models.Project]](t, upd)
	assert.Equal(t, "Project updated successfully", updated.Message)
	assert.Equal(t, id, updated.Data.ID)
	assert.Equal(t, "After", updated.Data.Title)
	assert.Equal(t, "A project worth showing", updated.Data.Description)
}

func TestProjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	for _, id := range []string{"not-a-uuid", "5b1f6a7e-8f53-4c59-9a3c-1f0c1a2b3c4d"} {
		t.Run(id, func(t *testing.T) {
			get := env.do(http.MethodGet, "/api/projects/"+id, nil, "")
			require.Equal(t, http.StatusNotFound, get.Code)
			assert.Equal(t, "Project not found", decodeBody[Envelope](t, get).Message)

			del := env.do(http.MethodDelete, "/api/projects/"+id, nil, token)
			assert.Equal(t, http.StatusNotFound, del.Code)
		})
	}
}

func TestProjectDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	rec := env.do(http.MethodPost, "/api/projects", projectBody("Doomed"), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[dataEnvelope[models.Project]](t, rec).Data.ID.String()

	del := env.do(http.MethodDelete, "/api/projects/"+id, nil, token)
	require.Equal(t, http.StatusOK, del.Code)
	assert.Equal(t, "Project deleted successfully", decodeBody[Envelope](t, del).Message)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/projects/"+id, nil, "").Code)
}

func TestProjectListPagination(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		p := models.Project{
			Title:       fmt.Sprintf("Project %d", i),
			Description: "d",
			Image:       "https://cdn.example.com/p.png",
			Created:     base.Add(time.Duration(i) * time.Hour),
		}
		p.Normalize()
		require.NoError(t, env.db.ProjectRepo().Add(context.Background(), &p))
	}

	rec := env.do(http.MethodGet, "/api/projects?limit=2&page=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[ListEnvelope[models.Project]](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	assert.EqualValues(t, 5, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	require.Len(t, resp.Data, 2)
	// Newest first: 4, 3 | 2, 1 | 0
	assert.Equal(t, "Project 2", resp.Data[0].Title)
	assert.Equal(t, "Project 1", resp.Data[1].Title)
}

func TestProjectListClampsHugeLimits(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/projects", projectBody("Only"), token).Code)

	for _, query := range []string{
		"limit=9223372036854775807",
		"limit=68719476736",
		"limit=100000&page=9223372036854775807",
	} {
		rec := env.do(http.MethodGet, "/api/projects?"+query, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, query)
		resp := decodeBody[ListEnvelope[models.Project]](t, rec)
		assert.EqualValues(t, 1, resp.Total, query)
		assert.Equal(t, 1, resp.TotalPages, query)
	}
}

func TestProjectListFeaturedFilter(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	featured := projectBody("Featured")
	plain := projectBody("Plain")
	plain["featured"] = false
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/projects", featured, token).Code)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/projects", plain, token).Code)

	rec := env.do(http.MethodGet, "/api/projects?featured=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ListEnvelope[models.Project]](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Featured", resp.Data[0].Title)

	empty := env.do(http.MethodGet, "/api/projects?category=none", nil, "")
	assert.JSONEq(t, `[]`, string(mustField(t, empty, "data")))
}
