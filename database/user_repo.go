package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

const (
	userEntity        = "User"
	duplicateEmailMsg = "Email already exists"
)

type UserRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

type UserFilter struct {
	Role string
}

func NewUserRepo(db *gorm.DB, timeout time.Duration) *UserRepo {
	return &UserRepo{db: db, timeout: timeout}
}

func (r *UserRepo) List(ctx context.Context, filter UserFilter, page PageRequest) (Page[models.User], error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	result, err := paginate[models.User](ctx, query, page, "created_at DESC", "id")
	return result, translate("list", userEntity, "", err)
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate("find", userEntity, "", err)
	}
	return &u, nil
}

// FindByEmail looks up a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", models.NormalizeEmail(email)).Error
	if err != nil {
		return nil, translate("find", userEntity, "", err)
	}
	return &u, nil
}

func (r *UserRepo) Add(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return translate("create", userEntity, duplicateEmailMsg, r.db.WithContext(ctx).Create(u).Error)
}

// Update writes the profile fields. The password column is left untouched.
func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(u).Select("name", "email", "role").Updates(u)
	if res.Error != nil {
		return translate("update", userEntity, duplicateEmailMsg, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(userEntity)
	}
	return nil
}

// SetPassword replaces the stored password hash.
func (r *UserRepo) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate("update", userEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(userEntity)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete", userEntity, "", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(userEntity)
	}
	return nil
}
