package database

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	d := New(db, 5*time.Second)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func fakeProject(featured bool, created time.Time) *models.Project {
	return &models.Project{
		Title:        faker.Word(),
		Description:  faker.Sentence(),
		Image:        "https://example.com/" + faker.Word() + ".png",
		Technologies: []string{"Go"},
		Featured:     featured,
		Created:      created,
	}
}

func TestNewPageRequestDefaults(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, NewPageRequest(0, 0))
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, NewPageRequest(-3, -1))
	assert.Equal(t, PageRequest{Page: 2, Limit: 5}, NewPageRequest(2, 5))
	assert.Equal(t, PageRequest{Page: 1, Limit: MaxLimit}, NewPageRequest(1, math.MaxInt64))
	assert.Equal(t, PageRequest{Page: 1, Limit: MaxLimit}, NewPageRequest(1, 1<<36))
}

func TestPageOffsetSaturates(t *testing.T) {
	assert.Equal(t, 0, NewPageRequest(1, 10).offset())
	assert.Equal(t, 20, NewPageRequest(3, 10).offset())
	assert.Equal(t, math.MaxInt, NewPageRequest(math.MaxInt, MaxLimit).offset())
}

func TestListWithHugePageValues(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ProjectRepo()
	require.NoError(t, repo.Add(ctx, fakeProject(false, time.Time{})))

	for _, req := range []PageRequest{
		NewPageRequest(1, math.MaxInt64),
		NewPageRequest(1, 1<<36),
		{Page: 1, Limit: math.MaxInt64},
	} {
		page, err := repo.List(ctx, ProjectFilter{}, req)
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, MaxLimit, page.Limit)
	}

	page, err := repo.List(ctx, ProjectFilter{}, NewPageRequest(math.MaxInt, MaxLimit))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(1), page.Total)
}

func TestPageTotalPages(t *testing.T) {
	assert.Equal(t, 0, Page[int]{Total: 0, Limit: 10}.TotalPages())
	assert.Equal(t, 1, Page[int]{Total: 10, Limit: 10}.TotalPages())
	assert.Equal(t, 3, Page[int]{Total: 21, Limit: 10}.TotalPages())
}

func TestPing(t *testing.T) {
	d := newTestDatabase(t)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestProjectRepoCRUD(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ProjectRepo()

	p := fakeProject(false, time.Time{})
	require.NoError(t, repo.Add(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.Created.IsZero())

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, []string{"Go"}, []string(got.Technologies))

	got.Title = "Renamed"
	got.Featured = true
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.Featured)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.FindByID(ctx, p.ID)
	require.Error(t, err)
	assert.Equal(t, 404, errs.StatusCode(err))
	assert.Equal(t, "Project not found", err.Error())

	err = repo.Delete(ctx, p.ID)
	assert.Equal(t, 404, errs.StatusCode(err))

	missing := fakeProject(false, time.Time{})
	missing.ID = uuid.New()
	err = repo.Update(ctx, missing)
	assert.Equal(t, 404, errs.StatusCode(err))
}

func TestProjectRepoListOrderAndFilter(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ProjectRepo()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := fakeProject(false, base)
	newer := fakeProject(false, base.Add(time.Hour))
	featured := fakeProject(true, base.Add(-time.Hour))
	featured.Category = "web"
	for _, p := range []*models.Project{old, newer, featured} {
		require.NoError(t, repo.Add(ctx, p))
	}

	page, err := repo.List(ctx, ProjectFilter{}, NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, featured.ID, page.Items[0].ID)
	assert.Equal(t, newer.ID, page.Items[1].ID)
	assert.Equal(t, old.ID, page.Items[2].ID)

	yes := true
	page, err = repo.List(ctx, ProjectFilter{Featured: &yes}, NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, featured.ID, page.Items[0].ID)

	page, err = repo.List(ctx, ProjectFilter{Category: "none"}, NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	page, err = repo.List(ctx, ProjectFilter{}, NewPageRequest(2, 2))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages())
	assert.Equal(t, old.ID, page.Items[0].ID)
}

func TestQualificationRepoOrdering(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.QualificationRepo()

	date := func(y int) time.Time { return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC) }
	end2020, end2022 := date(2020), date(2022)

	ongoing := &models.Qualification{Title: "Job", Institution: "Co", Description: "Work", StartDate: date(2023), Current: true, Type: models.QualificationExperience}
	older := &models.Qualification{Title: "BSc", Institution: "Uni", Description: "Study", StartDate: date(2016), EndDate: &end2020, Type: models.QualificationEducation}
	recent := &models.Qualification{Title: "Cert", Institution: "Org", Description: "Exam", StartDate: date(2021), EndDate: &end2022, Verified: true, Type: models.QualificationCertification}
	for _, q := range []*models.Qualification{ongoing, older, recent} {
		require.NoError(t, repo.Add(ctx, q))
	}

	page, err := repo.List(ctx, QualificationFilter{}, NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, recent.ID, page.Items[0].ID)
	assert.Equal(t, older.ID, page.Items[1].ID)
	assert.Equal(t, ongoing.ID, page.Items[2].ID)

	yes := true
	page, err = repo.List(ctx, QualificationFilter{Ongoing: &yes}, NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ongoing.ID, page.Items[0].ID)

	page, err = repo.List(ctx, QualificationFilter{Verified: &yes, Type: models.QualificationCertification}, NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, recent.ID, page.Items[0].ID)
}

func TestContactRepoStatusAndDeleteAll(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ContactRepo()

	for i := 0; i < 3; i++ {
		c := &models.Contact{Name: faker.Name(), Email: "visitor@example.com", Subject: faker.Word(), Message: faker.Sentence()}
		c.Normalize()
		require.NoError(t, repo.Add(ctx, c))
	}

	page, err := repo.List(ctx, ContactFilter{Status: models.ContactStatusNew}, NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	c := page.Items[0]
	c.SetStatus(models.ContactStatusReplied, time.Now())
	c.Priority = models.PriorityHigh
	require.NoError(t, repo.UpdateStatus(ctx, &c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusReplied, got.Status)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.NotNil(t, got.RepliedAt)
	assert.Nil(t, got.ReadAt)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.UserRepo()

	u := &models.User{Name: "One", Email: "one@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, repo.Add(ctx, u))

	dup := &models.User{Name: "Two", Email: "one@example.com", PasswordHash: "y", Role: models.RoleUser}
	err := repo.Add(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, 400, errs.StatusCode(err))
	assert.Equal(t, "Email already exists", err.Error())

	got, err := repo.FindByEmail(ctx, " ONE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "x", got.PasswordHash)

	other := &models.User{Name: "Other", Email: "other@example.com", PasswordHash: "z", Role: models.RoleUser}
	require.NoError(t, repo.Add(ctx, other))
	other.Email = "one@example.com"
	err = repo.Update(ctx, other)
	assert.Equal(t, "Email already exists", err.Error())

	require.NoError(t, repo.SetPassword(ctx, u.ID, "new-hash"))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestTokenRepoRevokeAndPurge(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.TokenRepo()
	now := time.Now()

	require.NoError(t, repo.Revoke(ctx, "live", uuid.New(), now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "live", uuid.New(), now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "stale", uuid.New(), now.Add(-time.Hour)))

	revoked, err := repo.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	purged, err := repo.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	revoked, err = repo.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSeed(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	res, err := db.Seed(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Projects)
	assert.Equal(t, 3, res.Qualifications)

	for _, p := range sampleProjects() {
		assert.NoError(t, models.Validate(&p), p.Title)
	}

	again, err := db.Seed(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, again.Projects, "existing rows are kept")

	replaced, err := db.Seed(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, replaced.Projects)

	n, err := db.ProjectRepo().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
