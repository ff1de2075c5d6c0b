package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

const contactEntity = "Contact"

type ContactRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

type ContactFilter struct {
	Status   string
	Priority string
}

func NewContactRepo(db *gorm.DB, timeout time.Duration) *ContactRepo {
	return &ContactRepo{db: db, timeout: timeout}
}

// List returns the newest messages first.
func (r *ContactRepo) List(ctx context.Context, filter ContactFilter, page PageRequest) (Page[models.Contact], error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Contact{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	result, err := paginate[models.Contact](ctx, query, page, "created_at DESC", "id")
	return result, translate("list", contactEntity, "", err)
}

func (r *ContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var c models.Contact
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate("find", contactEntity, "", err)
	}
	return &c, nil
}

func (r *ContactRepo) Add(ctx context.Context, c *models.Contact) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return translate("create", contactEntity, "", r.db.WithContext(ctx).Create(c).Error)
}

// UpdateStatus persists the triage fields of a contact.
func (r *ContactRepo) UpdateStatus(ctx context.Context, c *models.Contact) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(c).
		Select("status", "priority", "read_at", "replied_at").
		Updates(c)
	if res.Error != nil {
		return translate("update", contactEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(contactEntity)
	}
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Contact{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete", contactEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(contactEntity)
	}
	return nil
}

// DeleteAll removes every contact and returns how many were removed.
func (r *ContactRepo) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Contact{})
	return res.RowsAffected, translate("delete", contactEntity, "", res.Error)
}
