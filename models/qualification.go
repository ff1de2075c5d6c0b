package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QualificationEducation     = "education"
	QualificationCertification = "certification"
	QualificationExperience    = "experience"
)

// Qualification is an education, certification or work experience entry
type Qualification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"type:text;not null" validate:"required,max=100" label:"Title"`
	Institution string     `json:"institution" gorm:"type:text;not null" validate:"required,max=100" label:"Institution"`
	Description string     `json:"description" gorm:"type:text;not null" validate:"required,max=500" label:"Description"`
	StartDate   time.Time  `json:"startDate" gorm:"not null;index" validate:"required" label:"Start date"`
	EndDate     *time.Time `json:"endDate,omitempty" gorm:"index"`
	Year        int        `json:"year,omitempty" validate:"omitempty,min=1900,max=2200" label:"Year"`
	Current     bool       `json:"current" gorm:"column:is_current;not null"`
	Verified    bool       `json:"verified" gorm:"not null"`
	Type        string     `json:"type" gorm:"type:text;not null;index" validate:"oneof=education certification experience" label:"Type"`
	Created     time.Time  `json:"created" gorm:"not null"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (q *Qualification) Normalize() {
	q.Title = strings.TrimSpace(q.Title)
	q.Institution = strings.TrimSpace(q.Institution)
	q.Description = strings.TrimSpace(q.Description)
	q.Type = strings.ToLower(strings.TrimSpace(q.Type))
	if q.Type == "" {
		q.Type = QualificationEducation
	}
	if q.Year == 0 && !q.StartDate.IsZero() {
		q.Year = q.StartDate.Year()
	}
}

func (q *Qualification) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Created.IsZero() {
		q.Created = time.Now().UTC()
	}
	return nil
}

// qualificationDates rejects an end date earlier than the start date.
func qualificationDates(sl validator.StructLevel) {
	var q Qualification
	switch v := sl.Current().Interface().(type) {
	case Qualification:
		q = v
	case *Qualification:
		q = *v
	default:
		return
	}

	if q.EndDate != nil && !q.StartDate.IsZero() && q.EndDate.Before(q.StartDate) {
		sl.ReportError(q.EndDate, "End date", "EndDate", "enddate", "")
	}
}
