package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkifle/portfolio-backend/models"
)

const tokenEntity = "Token"

// TokenRepo stores the ids of signed-out tokens.
type TokenRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewTokenRepo(db *gorm.DB, timeout time.Duration) *TokenRepo {
	return &TokenRepo{db: db, timeout: timeout}
}

// Revoke marks jti as unusable until expiresAt. Revoking twice is a no-op.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := models.RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	return translate("revoke", tokenEntity, "", err)
}

func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&n).Error
	if err != nil {
		return false, translate("find", tokenEntity, "", err)
	}
	return n > 0, nil
}

// PurgeExpired deletes revocations whose token has expired on its own.
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return res.RowsAffected, translate("purge", tokenEntity, "", res.Error)
}
