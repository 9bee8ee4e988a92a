package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/existflow/famtodo/internal/db"
)

// Server is the HTTP API over one store
type Server struct {
	db   *db.DB
	echo *echo.Echo
}

// New opens the database and creates a server
func New(driver, dsn string) (*Server, error) {
	database, err := db.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewWithDB(database), nil
}

// NewWithDB creates a server over an already open database. Close closes it.
func NewWithDB(database *db.DB) *Server {
	s := &Server{db: database}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")
	api.GET("/lookups", s.handleLookups)
	api.GET("/profiles", s.handleListProfiles)
	api.POST("/profiles", s.handleCreateProfile)

	// Profile-scoped endpoints
	scoped := api.Group("/profiles/:profile")
	scoped.Use(s.profileMiddleware)

	scoped.GET("/categories", s.handleListCategories)
	scoped.POST("/categories", s.handleCreateCategory)
	scoped.DELETE("/categories/:id", s.handleDeleteCategory)

	scoped.GET("/tasks", s.handleListTasks)
	scoped.POST("/tasks", s.handleCreateTask)
	scoped.GET("/tasks/:id", s.handleGetTask)
	scoped.PATCH("/tasks/:id", s.handleUpdateTask)
	scoped.GET("/tasks/:id/status", s.handleStatusHistory)
	scoped.POST("/tasks/:id/status", s.handleSetStatus)

	scoped.GET("/export", s.handleExport)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
