package api

import (
	"time"

	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler       projectHandler
	qualificationHandler qualificationHandler
	contactHandler       contactHandler
	userHandler          userHandler
	authHandler          authHandler
	healthHandler        healthHandler
	uploadHandler        *uploadHandler
}

// Envelope is the body of every non-list response.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ListEnvelope is the body of every paginated listing.
type ListEnvelope[T any] struct {
	Success     bool  `json:"success"`
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Data        []T   `json:"data"`
}

func newListEnvelope[T any](page database.Page[T]) ListEnvelope[T] {
	items := page.Items
	if items == nil {
		items = make([]T, 0)
	}
	return ListEnvelope[T]{
		Success:     true,
		Count:       len(items),
		Total:       page.Total,
		TotalPages:  page.TotalPages(),
		CurrentPage: page.Page,
		Data:        items,
	}
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func summarize(u models.User) UserSummary {
	return UserSummary{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role}
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
	Uptime      string    `json:"uptime,omitempty"`
}
