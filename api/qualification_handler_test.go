package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkifle/portfolio-backend/models"
)

func qualificationBody(title, start, end string) map[string]any {
	body := map[string]any{
		"title":       title,
		"institution": "State University",
		"description": "Studied things",
		"startDate":   start,
		"type":        models.QualificationEducation,
	}
	if end != "" {
		body["endDate"] = end
	}
	return body
}

func TestQualificationCreateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	rec := env.do(http.MethodPost, "/api/qualifications", qualificationBody("BSc", "2016-09-01", "2020-06-30"), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[dataEnvelope[models.Qualification]](t, rec)
	assert.Equal(t, "Qualification created successfully", created.Message)
	assert.Equal(t, 2016, created.Data.Year)

	get := env.do(http.MethodGet, "/api/qualifications/"+created.Data.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, get.Code)
	fetched := decodeBody[dataEnvelope[models.Qualification]](t, get).Data

	assert.Equal(t, "BSc", fetched.Title)
	assert.True(t, fetched.StartDate.Equal(time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, fetched.EndDate)
	assert.True(t, fetched.EndDate.Equal(time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)))
}

func TestQualificationUpdateRederivesYear(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	rec := env.do(http.MethodPost, "/api/qualifications", qualificationBody("BSc", "2020-09-01", ""), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody[dataEnvelope[models.Qualification]](t, rec).Data.ID.String()

	rec = env.do(http.MethodPut, "/api/qualifications/"+id, map[string]any{"startDate": "2012-09-01"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2012, decodeBody[dataEnvelope[models.Qualification]](t, rec).Data.Year)

	rec = env.do(http.MethodPut, "/api/qualifications/"+id, map[string]any{"year": 2014}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2014, decodeBody[dataEnvelope[models.Qualification]](t, rec).Data.Year)

	// An explicit year survives unrelated edits.
	rec = env.do(http.MethodPut, "/api/qualifications/"+id, map[string]any{"title": "BSc (Hons)"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[dataEnvelope[models.Qualification]](t, rec).Data
	assert.Equal(t, 2014, updated.Year)
	assert.Equal(t, "BSc (Hons)", updated.Title)
}

func TestQualificationEndBeforeStart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/qualifications", qualificationBody("BSc", "2020-01-01", "2019-01-01"), env.adminToken())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[Envelope](t, rec).Errors, "End date cannot be before start date")
}

func TestQualificationListOrdersOngoingFirst(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	for _, body := range []map[string]any{
		qualificationBody("Old", "2010-01-01", "2012-01-01"),
		qualificationBody("Recent", "2013-01-01", "2018-01-01"),
		qualificationBody("Ongoing", "2019-01-01", ""),
	} {
		require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/qualifications", body, token).Code)
	}

	rec := env.do(http.MethodGet, "/api/qualifications", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ListEnvelope[models.Qualification]](t, rec)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Ongoing", resp.Data[0].Title)
	assert.Equal(t, "Recent", resp.Data[1].Title)
	assert.Equal(t, "Old", resp.Data[2].Title)

	typed := env.do(http.MethodGet, "/api/qualifications?type=certification", nil, "")
	assert.EqualValues(t, 0, decodeBody[ListEnvelope[models.Qualification]](t, typed).Total)
}

func TestQualificationUpdateClearsEndDate(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	rec := env.do(http.MethodPost, "/api/qualifications", qualificationBody("MSc", "2021-01-01", "2022-01-01"), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[dataEnvelope[models.Qualification]](t, rec).Data.ID.String()

	upd := env.do(http.MethodPut, "/api/qualifications/"+id, map[string]any{"endDate": "", "current": true}, token)
	require.Equal(t, http.StatusOK, upd.Code, upd.Body.String())

	fetched := decodeBody[dataEnvelope[models.Qualification]](t, env.do(http.MethodGet, "/api/qualifications/"+id, nil, "")).Data
	assert.Nil(t, fetched.EndDate)
	assert.True(t, fetched.Current)
	assert.Equal(t, "MSc", fetched.Title)
}

func TestQualificationDeleteAll(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken()

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/qualifications", qualificationBody("A", "2015-01-01", ""), token).Code)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/qualifications", qualificationBody("B", "2016-01-01", ""), token).Code)

	rec := env.do(http.MethodDelete, "/api/qualifications", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All qualifications deleted successfully", decodeBody[Envelope](t, rec).Message)

	list := env.do(http.MethodGet, "/api/qualifications", nil, "")
	assert.EqualValues(t, 0, decodeBody[ListEnvelope[models.Qualification]](t, list).Total)
}
