package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

const projectEntity = "Project"

type ProjectRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

// ProjectFilter narrows a project listing. Empty fields match everything.
type ProjectFilter struct {
	Featured *bool
	Category string
	Status   string
}

func NewProjectRepo(db *gorm.DB, timeout time.Duration) *ProjectRepo {
	return &ProjectRepo{db: db, timeout: timeout}
}

// List returns featured projects first, then newest first.
func (r *ProjectRepo) List(ctx context.Context, filter ProjectFilter, page PageRequest) (Page[models.Project], error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	result, err := paginate[models.Project](ctx, query, page, "featured DESC", "created DESC", "id")
	return result, translate("list", projectEntity, "", err)
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, translate("find", projectEntity, "", err)
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return translate("create", projectEntity, "", r.db.WithContext(ctx).Create(project).Error)
}

// Update writes every column of an existing project.
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(project).Select("*").Omit("id", "created_at").Updates(project)
	if res.Error != nil {
		return translate("update", projectEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(projectEntity)
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete", projectEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(projectEntity)
	}
	return nil
}

// Count returns the number of stored projects.
func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error
	return n, translate("count", projectEntity, "", err)
}
