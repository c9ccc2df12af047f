package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/auth"
	"github.com/rpupo63/student-showcase-backend/config"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/services"
	"github.com/rpupo63/student-showcase-backend/storage"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the handlers are built from.
type Dependencies struct {
	Database database.Database
	Tokens   *auth.TokenService
	Storage  storage.BlobStore
	Notifier *services.CandidateNotifier
	Policy   access.Policy

	// UploadDir is served under UPLOAD_URL_PREFIX when set (fs backend).
	UploadDir string
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	if deps.Storage == nil {
		return Server{}, errors.New("a blob store is required")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}
	if deps.Policy == nil {
		deps.Policy = access.DefaultPolicy()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	settings := handlerSettings{
		maxUploadBytes: int64(config.GetInt(router.config, "MAX_UPLOAD_MB", 10)) << 20,
		baseURL:        services.GetBaseURL(router.config),
		startupTime:    router.startupTime,
	}
	handlers := initializeHandlers(deps, settings)
	authMiddleware := newAuthMiddleware(deps.Tokens, deps.Database.UserRepo())

	setupRoutes(chiRouter, handlers, authMiddleware)

	if deps.UploadDir != "" {
		prefix := "/" + strings.Trim(config.GetString(router.config, "UPLOAD_URL_PREFIX", "/uploads"), "/")
		chiRouter.Handle(prefix+"/*", uploadHeaders(http.StripPrefix(prefix+"/", http.FileServer(http.Dir(deps.UploadDir)))))
	}

	return chiRouter
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) error {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
		return err
	}
	log.Info().Msg("HttpServer gracefully shut down")
	return nil
}
