// Package api serves the homepage HTTP API on top of the project service and
// the tag registry.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	"github.com/FlorianTh2/homepageBackend/internal/auth"
	"github.com/FlorianTh2/homepageBackend/internal/project"
	"github.com/FlorianTh2/homepageBackend/internal/tag"
	"github.com/FlorianTh2/homepageBackend/pkg/cache"
	"github.com/FlorianTh2/homepageBackend/pkg/contract"
	"github.com/FlorianTh2/homepageBackend/pkg/logging"
	"github.com/FlorianTh2/homepageBackend/pkg/metrics"
)

// TagService is the part of the tag registry the API exposes.
type TagService interface {
	ListTags(ctx context.Context) ([]tag.Tag, error)
	GetTag(ctx context.Context, name string) (tag.Tag, error)
	CreateTag(ctx context.Context, name, creatorID string) (tag.Tag, error)
	DeleteTag(ctx context.Context, name string) (bool, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators of the server. Cache is optional; without it
// read endpoints are not cached.
type Deps struct {
	Projects *project.Service
	Tags     TagService
	Cache    *cache.ResponseCache
	DB       Pinger
	Verifier *auth.Verifier
}

// Config holds HTTP server configuration.
type Config struct {
	// BaseURL is prepended to Location headers and pagination links,
	// e.g. "https://api.example.com". Empty yields relative links.
	BaseURL string

	// CacheTTL of cached read responses; zero uses the cache default
	CacheTTL time.Duration
}

// Server provides the HTTP endpoints.
type Server struct {
	echo     *echo.Echo
	projects *project.Service
	tags     TagService
	cache    *cache.ResponseCache
	db       Pinger
	config   Config
	logger   zerolog.Logger
}

// NewServer creates a server and registers its routes.
func NewServer(deps Deps, cfg Config) (*Server, error) {
	switch {
	case deps.Projects == nil:
		return nil, errors.New("project service is required")
	case deps.Tags == nil:
		return nil, errors.New("tag service is required")
	case deps.DB == nil:
		return nil, errors.New("database is required")
	case deps.Verifier == nil:
		return nil, errors.New("token verifier is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		projects: deps.Projects,
		tags:     deps.Tags,
		cache:    deps.Cache,
		db:       deps.DB,
		config:   cfg,
		logger:   logging.NewLogger("api"),
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.observe)
	e.Use(auth.Middleware(deps.Verifier))

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET(contract.Health, s.handleHealth)
	s.echo.GET(contract.Ready, s.handleReady)
	s.echo.GET(contract.Metrics, echo.WrapHandler(metrics.Handler()))

	cached := s.cached()

	s.echo.GET(contract.Projects, s.listProjects, cached...)
	s.echo.GET(contract.Project, s.getProject, cached...)
	s.echo.POST(contract.Projects, s.createProject, auth.RequireUser)
	s.echo.PUT(contract.Project, s.updateProject, auth.RequireUser)
	s.echo.DELETE(contract.Project, s.deleteProject, auth.RequireUser)

	s.echo.GET(contract.Tags, s.listTags, cached...)
	s.echo.GET(contract.Tag, s.getTag, cached...)
	s.echo.POST(contract.Tags, s.createTag, auth.RequireUser)
	s.echo.DELETE(contract.Tag, s.deleteTag, auth.RequireUser)
}

func (s *Server) cached() []echo.MiddlewareFunc {
	if s.cache == nil {
		return nil
	}
	return []echo.MiddlewareFunc{s.cache.Middleware(cache.MiddlewareConfig{TTL: s.config.CacheTTL})}
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr and serves until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("starting http server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down http server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, contract.HealthResponse{Status: "ok"})
}

func (s *Server) handleReady(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		return apperrors.StorageUnavailable(err, "database not reachable")
	}
	return c.JSON(http.StatusOK, contract.HealthResponse{Status: "ready"})
}

// link resolves a server path against the configured base URL.
func (s *Server) link(path string) string {
	return s.config.BaseURL + path
}
