package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

const qualificationEntity = "Qualification"

type QualificationRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

type QualificationFilter struct {
	Type     string
	Ongoing  *bool
	Verified *bool
}

func NewQualificationRepo(db *gorm.DB, timeout time.Duration) *QualificationRepo {
	return &QualificationRepo{db: db, timeout: timeout}
}

// List orders by end date, most recent first, with open-ended entries last,
// then by start date.
func (r *QualificationRepo) List(ctx context.Context, filter QualificationFilter, page PageRequest) (Page[models.Qualification], error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Qualification{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Ongoing != nil {
		query = query.Where("is_current = ?", *filter.Ongoing)
	}
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}

	result, err := paginate[models.Qualification](ctx, query, page,
		"CASE WHEN end_date IS NULL THEN 1 ELSE 0 END",
		"end_date DESC",
		"start_date DESC",
		"id",
	)
	return result, translate("list", qualificationEntity, "", err)
}

func (r *QualificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Qualification, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var q models.Qualification
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, translate("find", qualificationEntity, "", err)
	}
	return &q, nil
}

func (r *QualificationRepo) Add(ctx context.Context, q *models.Qualification) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return translate("create", qualificationEntity, "", r.db.WithContext(ctx).Create(q).Error)
}

func (r *QualificationRepo) Update(ctx context.Context, q *models.Qualification) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(q).Select("*").Omit("id", "created_at").Updates(q)
	if res.Error != nil {
		return translate("update", qualificationEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(qualificationEntity)
	}
	return nil
}

func (r *QualificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Qualification{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete", qualificationEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(qualificationEntity)
	}
	return nil
}

func (r *QualificationRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.Qualification{}).Count(&n).Error
	return n, translate("count", qualificationEntity, "", err)
}

// DeleteAll removes every qualification and returns how many were removed.
func (r *QualificationRepo) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Qualification{})
	return res.RowsAffected, translate("delete", qualificationEntity, "", res.Error)
}
