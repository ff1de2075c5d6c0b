package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Contact is a message left by a site visitor
type Contact struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"type:text;not null" validate:"required,max=100" label:"Name"`
	Email     string     `json:"email" gorm:"type:text;not null" validate:"required,mailbox" label:"Email"`
	Subject   string     `json:"subject" gorm:"type:text;not null" validate:"required,max=200" label:"Subject"`
	Message   string     `json:"message" gorm:"type:text;not null" validate:"required,max=1000" label:"Message"`
	Status    string     `json:"status" gorm:"type:text;not null;index" validate:"oneof=new read replied archived" label:"Status"`
	Priority  string     `json:"priority" gorm:"type:text;not null;index" validate:"oneof=low medium high" label:"Priority"`
	IPAddress string     `json:"ipAddress,omitempty" gorm:"type:text"`
	UserAgent string     `json:"userAgent,omitempty" gorm:"type:text"`
	CreatedAt time.Time  `json:"createdAt" gorm:"index"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	RepliedAt *time.Time `json:"repliedAt,omitempty"`
}

func (c *Contact) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Subject = strings.TrimSpace(c.Subject)
	c.Message = strings.TrimSpace(c.Message)
	if c.Status == "" {
		c.Status = ContactStatusNew
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
}

// SetStatus changes the status and stamps ReadAt/RepliedAt the first time the
// contact enters the read or replied state. Existing stamps are never moved.
func (c *Contact) SetStatus(status string, now time.Time) {
	c.Status = status
	switch status {
	case ContactStatusRead:
		if c.ReadAt == nil {
			t := now
			c.ReadAt = &t
		}
	case ContactStatusReplied:
		if c.RepliedAt == nil {
			t := now
			c.RepliedAt = &t
		}
	}
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ContactReceipt is what a visitor gets back after sending a message.
type ContactReceipt struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Contact) Receipt() ContactReceipt {
	return ContactReceipt{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		CreatedAt: c.CreatedAt,
	}
}
