package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/models"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo, hideDetails bool) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger, hideDetails),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// listProjects returns a page of projects, featured first
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param featured query bool false "Only featured / non-featured projects"
// @Param category query string false "Category"
// @Param status query string false "Status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} ListEnvelope[models.Project]
// @Router /api/projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.ProjectFilter{
			Featured: queryBool(r, "featured"),
			Category: queryString(r, "category"),
			Status:   queryString(r, "status"),
		}

		page, err := h.projectRepo.List(r.Context(), filter, queryPage(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newListEnvelope(page))
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Project not found"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "", project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope "Validation failed"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project models.Project
		if err := decodeJSON(w, r, &project); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err)
			return
		}

		resetProjectServerFields(&project)
		project.Normalize()
		if err := models.Validate(&project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectId", project.ID.String()).Msg("Project created")
		h.responder.WriteData(w, http.StatusCreated, "Project created successfully", project)
	}
}

// updateProject applies the keys present in the body to an existing project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param project body models.Project true "Fields to change"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope "Validation failed"
// @Failure 404 {object} Envelope "Project not found"
// @Router /api/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		createdAt := project.CreatedAt
		if err := decodeJSON(w, r, project); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project.ID = id
		project.CreatedAt = createdAt

		project.Normalize()
		if err := models.Validate(project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "Project updated successfully", project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Project not found"
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, "Project deleted successfully")
	}
}

// resetProjectServerFields drops values the server owns.
func resetProjectServerFields(p *models.Project) {
	p.ID = uuid.Nil
	p.CreatedAt = time.Time{}
	p.UpdatedAt = time.Time{}
}
