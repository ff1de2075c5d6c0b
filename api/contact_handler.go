package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/models"
	"github.com/mkifle/portfolio-backend/services"
)

const contactSentMessage = "Message sent successfully! I will get back to you soon."

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contactRepo *database.ContactRepo
	notifier    *services.ContactNotifier
	now         func() time.Time
}

func newContactHandler(repo *database.ContactRepo, notifier *services.ContactNotifier, hideDetails bool) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger, hideDetails),
		logger:      logger,
		contactRepo: repo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// contactRequest is everything a visitor may submit.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// contactUpdate is everything an admin may change.
type contactUpdate struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// createContact stores a visitor message and notifies the owner in the background
// @Summary Send a contact message
// @Tags Contacts
// @Accept json
// @Produce json
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope "Validation failed"
// @Router /api/contacts [post]
func (h contactHandler) createContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact := models.Contact{
			Name:      req.Name,
			Email:     req.Email,
			Subject:   req.Subject,
			Message:   req.Message,
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}
		contact.Normalize()
		if err := models.Validate(&contact); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contactRepo.Add(r.Context(), &contact); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("contactId", contact.ID.String()).Msg("Contact message received")
		h.notifier.Dispatch(contact)

		h.responder.WriteData(w, http.StatusCreated, contactSentMessage, contact.Receipt())
	}
}

// @Summary List contact messages
// @Tags Contacts
// @Param status query string false "new, read, replied or archived"
// @Param priority query string false "low, medium or high"
// @Router /api/contacts [get]
func (h contactHandler) listContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.ContactFilter{
			Status:   queryString(r, "status"),
			Priority: queryString(r, "priority"),
		}

		page, err := h.contactRepo.List(r.Context(), filter, queryPage(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newListEnvelope(page))
	}
}

// getContact returns one message. Opening a new message marks it read.
// @Summary Get contact message
// @Tags Contacts
// @Router /api/contacts/{id} [get]
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact, err := h.contactRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if contact.Status == models.ContactStatusNew {
			contact.SetStatus(models.ContactStatusRead, h.now().UTC())
			if err := h.contactRepo.UpdateStatus(r.Context(), contact); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		h.responder.WriteData(w, http.StatusOK, "", contact)
	}
}

// @Summary Update contact status or priority
// @Tags Contacts
// @Router /api/contacts/{id} [put]
func (h contactHandler) updateContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req contactUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact, err := h.contactRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if req.Priority != nil {
			contact.Priority = strings.ToLower(strings.TrimSpace(*req.Priority))
		}
		if req.Status != nil {
			contact.SetStatus(strings.ToLower(strings.TrimSpace(*req.Status)), h.now().UTC())
		}
		if err := models.Validate(contact); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contactRepo.UpdateStatus(r.Context(), contact); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "Contact updated successfully", contact)
	}
}

// @Summary Delete contact message
// @Tags Contacts
// @Router /api/contacts/{id} [delete]
func (h contactHandler) deleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "Contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contactRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, "Contact deleted successfully")
	}
}

// @Summary Delete every contact message
// @Tags Contacts
// @Router /api/contacts [delete]
func (h contactHandler) deleteAllContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.contactRepo.DeleteAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Warn().Int64("deleted", n).Msg("All contacts deleted")
		h.responder.WriteMessage(w, fmt.Sprintf("%d contacts deleted successfully", n))
	}
}

// clientIP strips the port from the address chi's RealIP middleware resolved.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
