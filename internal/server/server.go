// Package server exposes the dependency graph over HTTP. It answers the
// same questions as the CLI goals (dependents, paths) plus a target
// listing, so a long-lived process can serve many queries from one
// loaded snapshot.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/vk/depgridgo/internal/graph"
)

// Server wires the HTTP routes to a graph manager.
type Server struct {
	app    *fiber.App
	graph  *graph.Manager
	logger *slog.Logger
}

// New builds the fiber app with all routes registered.
func New(m *graph.Manager, logger *slog.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName: "depgrid",
		}),
		graph:  m,
		logger: logger,
	}

	s.app.Use(s.requestID)

	s.app.Get("/healthz", s.handleHealthz)
	s.app.Get("/v1/targets", s.handleListTargets)
	s.app.Post("/v1/dependents", s.handleDependents)
	s.app.Post("/v1/paths", s.handlePaths)

	return s
}

// Listen blocks serving HTTP on the given port until the listener fails.
func (s *Server) Listen(port int) error {
	s.logger.Info("Query server listening.", "port", port)
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// requestID tags every request with a fresh id, echoed in the response
// header and attached to the request log line.
func (s *Server) requestID(c fiber.Ctx) error {
	id := uuid.NewString()
	c.Set("X-Request-Id", id)

	err := c.Next()

	s.logger.Debug("Request handled.",
		"request_id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
	)
	return err
}
