package database

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mkifle/portfolio-backend/models"
)

// SeedResult counts the rows written by Seed.
type SeedResult struct {
	Projects       int
	Qualifications int
}

// Seed loads the sample portfolio content. With replace set, existing
// projects and qualifications are removed first; otherwise seeding is skipped
// for any table that already has rows.
func (d Database) Seed(ctx context.Context, replace bool) (SeedResult, error) {
	var result SeedResult

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			for _, model := range []any{&models.Project{}, &models.Qualification{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return err
				}
			}
		}

		var projects, qualifications int64
		if err := tx.Model(&models.Project{}).Count(&projects).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Qualification{}).Count(&qualifications).Error; err != nil {
			return err
		}

		if projects == 0 {
			rows := sampleProjects()
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
			result.Projects = len(rows)
		}
		if qualifications == 0 {
			rows := sampleQualifications()
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
			result.Qualifications = len(rows)
		}
		return nil
	})
	if err != nil {
		return result, translate("seed", "Sample data", "", err)
	}
	return result, nil
}

func sampleProjects() []models.Project {
	return []models.Project{
		{
			Title:        "C# Programming Journey",
			Description:  "A suite of C# applications built around object-oriented design, including an inventory management system and a user authentication service.",
			Image:        "/images/csharp.webp",
			Technologies: datatypes.JSONSlice[string]{"C#", "OOP", "Windows Forms", "SQL Server", "Unit Testing"},
			GithubURL:    "https://github.com",
			Featured:     true,
		},
		{
			Title:        "Airport Management System",
			Description:  "An Oracle 12c database for flight scheduling, passenger management and resource allocation, with stored procedures, triggers and role-based access control.",
			Image:        "/images/database.webp",
			Technologies: datatypes.JSONSlice[string]{"Oracle 12c", "ER Diagrams", "SQL", "Access Control"},
			GithubURL:    "https://github.com",
			Featured:     true,
		},
		{
			Title:        "Linux System Administration & Shell Scripting",
			Description:  "Automation scripts for backups, log analysis and security monitoring on AWS EC2 hosts.",
			Image:        "/images/Linux.webp",
			Technologies: datatypes.JSONSlice[string]{"Linux", "Bash", "SSH", "Git", "AWS EC2"},
			GithubURL:    "https://github.com",
		},
	}
}

func sampleQualifications() []models.Qualification {
	date := func(year int, month time.Month) time.Time {
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	}
	end := func(year int, month time.Month) *time.Time {
		t := date(year, month)
		return &t
	}

	rows := []models.Qualification{
		{
			Title:       "Bachelor of Science in Computer Science",
			Institution: "University of Technology",
			Description: "Algorithms, data structures, software engineering and web development.",
			StartDate:   date(2019, time.September),
			EndDate:     end(2023, time.June),
			Type:        models.QualificationEducation,
		},
		{
			Title:       "Web Development Certification",
			Institution: "Codecademy",
			Description: "HTML, CSS, JavaScript, React and Node.js.",
			StartDate:   date(2023, time.January),
			EndDate:     end(2023, time.May),
			Type:        models.QualificationCertification,
			Verified:    true,
		},
		{
			Title:       "Ebike Repair Technician",
			Institution: "DAYMARK",
			Description: "Diagnosed and repaired electronic and mechanical issues and assembled new bikes.",
			StartDate:   date(2022, time.March),
			Type:        models.QualificationExperience,
			Current:     true,
		},
	}
	for i := range rows {
		rows[i].Normalize()
	}
	return rows
}
