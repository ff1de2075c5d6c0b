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

var qualificationDateKeys = []string{"startDate", "endDate"}

type qualificationHandler struct {
	responder         Responder
	logger            zerolog.Logger
	qualificationRepo *database.QualificationRepo
}

func newQualificationHandler(repo *database.QualificationRepo, hideDetails bool) qualificationHandler {
	logger := log.With().Str("handlerName", "qualificationHandler").Logger()

	return qualificationHandler{
		responder:         NewResponder(logger, hideDetails),
		logger:            logger,
		qualificationRepo: repo,
	}
}

// @Summary List qualifications
// @Tags Qualifications
// @Param type query string false "education, certification or experience"
// @Param ongoing query bool false "Only current entries"
// @Param verified query bool false "Only verified entries"
// @Router /api/qualifications [get]
func (h qualificationHandler) listQualifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.QualificationFilter{
			Type:     queryString(r, "type"),
			Ongoing:  queryBool(r, "ongoing"),
			Verified: queryBool(r, "verified"),
		}

		page, err := h.qualificationRepo.List(r.Context(), filter, queryPage(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newListEnvelope(page))
	}
}

// @Summary Get qualification
// @Tags Qualifications
// @Router /api/qualifications/{id} [get]
func (h qualificationHandler) getQualification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Qualification")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q, err := h.qualificationRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "", q)
	}
}

// @Summary Create qualification
// @Tags Qualifications
// @Router /api/qualifications [post]
func (h qualificationHandler) createQualification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q models.Qualification
		if err := h.decode(w, r, &q); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q.ID = uuid.Nil
		q.CreatedAt, q.UpdatedAt = time.Time{}, time.Time{}
		q.Normalize()
		if err := models.Validate(&q); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.qualificationRepo.Add(r.Context(), &q); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusCreated, "Qualification created successfully", q)
	}
}

// @Summary Update qualification
// @Tags Qualifications
// @Router /api/qualifications/{id} [put]
func (h qualificationHandler) updateQualification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Qualification")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q, err := h.qualificationRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		createdAt := q.CreatedAt
		// A year derived from the start date follows it unless the body sets one.
		if q.Year == q.StartDate.Year() {
			q.Year = 0
		}
		if err := h.decode(w, r, q); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		q.ID = id
		q.CreatedAt = createdAt

		q.Normalize()
		if err := models.Validate(q); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.qualificationRepo.Update(r.Context(), q); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "Qualification updated successfully", q)
	}
}

// @Summary Delete qualification
// @Tags Qualifications
// @Router /api/qualifications/{id} [delete]
func (h qualificationHandler) deleteQualification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Qualification")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.qualificationRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, "Qualification deleted successfully")
	}
}

// @Summary Delete every qualification
// @Tags Qualifications
// @Router /api/qualifications [delete]
func (h qualificationHandler) deleteAllQualifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.qualificationRepo.DeleteAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Warn().Int64("deleted", n).Msg("All qualifications deleted")
		h.responder.WriteMessage(w, "All qualifications deleted successfully")
	}
}

// decode accepts date-only values for startDate and endDate.
func (h qualificationHandler) decode(w http.ResponseWriter, r *http.Request, dst *models.Qualification) error {
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		return err
	}
	if err := unmarshalBody(body, &struct{}{}); err != nil {
		return err
	}
	body, err = expandDates(body, qualificationDateKeys...)
	if err != nil {
		return err
	}
	return unmarshalBody(body, dst)
}
