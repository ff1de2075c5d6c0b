package api

import (
	"time"

	"github.com/mkifle/portfolio-backend/auth"
	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(
	db database.Database,
	settings config.Settings,
	tokens *auth.Service,
	notifier *services.ContactNotifier,
	images ImageUploader,
	startupTime time.Time,
) *routeHandlers {
	hide := settings.IsProduction()
	return &routeHandlers{
		projectHandler:       newProjectHandler(db.ProjectRepo(), hide),
		qualificationHandler: newQualificationHandler(db.QualificationRepo(), hide),
		contactHandler:       newContactHandler(db.ContactRepo(), notifier, hide),
		userHandler:          newUserHandler(db.UserRepo(), hide),
		authHandler:          newAuthHandler(tokens, db, hide),
		healthHandler:        newHealthHandler(db, settings.Environment, startupTime),
		uploadHandler:        newUploadHandler(images, hide),
	}
}
