package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/auth"
	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(settings config.Settings, db database.Database, opts ...Option) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port)

	startupTime := time.Now()

	opts = append([]Option{WithStartupTime(startupTime)}, opts...)
	router, err := NewRouter(settings, db, opts...)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadTimeout:       settings.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      settings.WriteTimeout,
		IdleTimeout:       settings.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	startupTime time.Time
	notifier    *services.ContactNotifier
	images      ImageUploader
}

// Option customizes the router.
type Option func(*router)

func WithStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithNotifier sets where new contact messages are announced.
func WithNotifier(n *services.ContactNotifier) Option {
	return func(r *router) {
		r.notifier = n
	}
}

// WithImageStore enables POST /api/uploads.
func WithImageStore(store ImageUploader) Option {
	return func(r *router) {
		r.images = store
	}
}

// NewRouter builds the complete HTTP handler.
func NewRouter(settings config.Settings, db database.Database, opts ...Option) (*chi.Mux, error) {
	var rt router
	for _, opt := range opts {
		opt(&rt)
	}
	if rt.notifier == nil {
		rt.notifier = services.NewContactNotifier(0)
	}

	tokens, err := auth.NewService(settings.JWTSecret, settings.JWTExpiry, settings.BcryptCost)
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("handlerName", "router").Logger()
	responder := NewResponder(logger, settings.IsProduction())

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors(responder))
	chiRouter.Use(SecurityHeaders(settings.IsProduction()))
	chiRouter.Use(CORS(settings.AcceptedOrigins))
	chiRouter.Use(Preflight)
	chiRouter.Use(ColoredHTTPLoggingMiddleware(log.Logger))

	handlers := initializeHandlers(db, settings, tokens, rt.notifier, rt.images, rt.startupTime)
	authz := newAuthorizer(responder, logger, tokens, db)
	setupRoutes(chiRouter, routeTable(handlers), authz)

	var spa http.HandlerFunc
	if settings.StaticDir != "" {
		spa = spaHandler(settings.StaticDir)
	}
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if spa != nil && r.Method == http.MethodGet && !strings.HasPrefix(r.URL.Path, "/api") {
			spa(w, r)
			return
		}
		responder.WriteError(w, errs.NewNotFoundError("Route not found"))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewApiErr(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
