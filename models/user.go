package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MinPasswordLength = 6
)

// User is an account able to sign in. The password hash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:text;not null" validate:"required,max=50" label:"Name"`
	Email        string    `json:"email" gorm:"type:text;not null;uniqueIndex" validate:"required,mailbox" label:"Email"`
	PasswordHash string    `json:"-" gorm:"column:password;type:text;not null"`
	Role         string    `json:"role" gorm:"type:text;not null;index" validate:"oneof=user admin" label:"Role"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	if u.Role == "" {
		u.Role = RoleUser
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RevokedToken records a signed-out token until it would have expired anyway.
type RevokedToken struct {
	JTI       string    `json:"jti" gorm:"type:text;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}
