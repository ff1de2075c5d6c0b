package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents a portfolio project shown on the public site
type Project struct {
	ID           uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string                      `json:"title" gorm:"type:text;not null" validate:"required,max=100" label:"Title"`
	Description  string                      `json:"description" gorm:"type:text;not null" validate:"required,max=1000" label:"Description"`
	Image        string                      `json:"image" gorm:"type:text;not null" validate:"required,imageref" label:"Image URL"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	GithubURL    string                      `json:"githubUrl,omitempty" gorm:"type:text" validate:"omitempty,url" label:"GitHub URL"`
	LiveURL      string                      `json:"liveUrl,omitempty" gorm:"type:text" validate:"omitempty,url" label:"Live URL"`
	Category     string                      `json:"category,omitempty" gorm:"type:text;index" validate:"max=50" label:"Category"`
	Status       string                      `json:"status,omitempty" gorm:"type:text;index" validate:"max=50" label:"Status"`
	Featured     bool                        `json:"featured" gorm:"not null;index"`
	Created      time.Time                   `json:"created" gorm:"not null;index"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// Normalize trims user input before validation.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	p.GithubURL = strings.TrimSpace(p.GithubURL)
	p.LiveURL = strings.TrimSpace(p.LiveURL)
	p.Category = strings.TrimSpace(p.Category)
	p.Status = strings.TrimSpace(p.Status)

	techs := make(datatypes.JSONSlice[string], 0, len(p.Technologies))
	for _, t := range p.Technologies {
		if t = strings.TrimSpace(t); t != "" {
			techs = append(techs, t)
		}
	}
	p.Technologies = techs
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Created.IsZero() {
		p.Created = time.Now().UTC()
	}
	return nil
}
