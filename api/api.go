package api

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/prefs/pkg/storage"
)

// Server is the API server for the prefs hub.
type Server struct {
	config Config
	store  storage.Driver
	logger *slog.Logger
	app    *fiber.App

	// authToken is swappable at runtime so a config reload can rotate the
	// token without restarting the listener.
	authToken atomic.Value
}

// NewServer creates a new API server.
// The store is injected to allow sharing with other components.
func NewServer(config Config, store storage.Driver, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		store:  store,
		logger: logger,
		app:    app,
	}
	s.authToken.Store(config.AuthToken)

	app.Get("/ping", s.handlePing)

	v0 := app.Group("/v0", s.requireAuth)
	v0.Get("/prefs/:identity", s.handleFetchAll)
	v0.Put("/prefs/:identity/:key", s.handleUpsert)
	v0.Delete("/prefs/:identity/:key", s.handleDelete)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting hub server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SetAuthToken rotates the bearer token required on /v0 routes. An empty
// token opens the hub.
func (s *Server) SetAuthToken(token string) {
	s.authToken.Store(token)
}

// requireAuth enforces the configured bearer token. With no token configured
// the hub is open.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	want, _ := s.authToken.Load().(string)
	if want == "" {
		return c.Next()
	}

	auth := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token != want {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "unauthorized"})
	}

	return c.Next()
}
