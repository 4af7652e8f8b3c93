// Package httpapi exposes the normalizer and the branch status summarizer as
// a small JSON API built on fiber.
package httpapi

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/output"
	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/i18n"
	"github.com/MyCarrier-DevOps/legal-tools/internal/usecases"
)

// Logger defines the logging interface used by the server.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Server serves the legal-tools JSON API.
type Server struct {
	app        *fiber.App
	store      domain.BranchStore
	summarizer atomic.Pointer[summarizerRef]
	normalizer atomic.Pointer[usecases.Normalizer]
	logger     Logger
}

// summarizerRef lets an interface value live behind an atomic.Pointer.
type summarizerRef struct {
	domain.BranchStatusSummarizer
}

// NewServer creates a Server and registers its routes.
func NewServer(
	store domain.BranchStore,
	summarizer domain.BranchStatusSummarizer,
	normalizer *usecases.Normalizer,
	log Logger,
) *Server {
	s := &Server{
		store:  store,
		logger: log,
	}
	s.normalizer.Store(normalizer)
	s.summarizer.Store(&summarizerRef{summarizer})

	s.app = fiber.New(fiber.Config{
		AppName:      "legal-tools",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.logRequests)
	s.Register(s.app)

	return s
}

// Register sets up the API routes on router.
func (s *Server) Register(router fiber.Router) {
	router.Get("/healthz", s.Health)
	router.Get("/languages", s.Languages)
	router.Get("/normalize", s.Normalize)

	dev := router.Group("/dev")
	dev.Get("/branches", s.ListBranches)
	dev.Get("/branches/:id/status", s.BranchStatus)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetNormalizer swaps the normalizer used by subsequent requests, for
// example after the language settings were reloaded.
func (s *Server) SetNormalizer(n *usecases.Normalizer) {
	s.normalizer.Store(n)
}

// SetSummarizer swaps the branch status summarizer used by subsequent
// requests, for example after the official git branch changed.
func (s *Server) SetSummarizer(summarizer domain.BranchStatusSummarizer) {
	s.summarizer.Store(&summarizerRef{summarizer})
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Health reports liveness.
func (s *Server) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Languages lists the mostly translated languages with display information.
func (s *Server) Languages(c fiber.Ctx) error {
	n := s.normalizer.Load()
	codes := n.MostlyTranslated()

	languages := make([]domain.LanguageInfo, 0, len(codes))
	for _, code := range codes {
		languages = append(languages, i18n.LanguageInfo(code))
	}
	return c.JSON(fiber.Map{
		"default_language": n.DefaultLanguage(),
		"languages":        languages,
	})
}

// Normalize resolves the canonical path and language of a document request.
func (s *Server) Normalize(c fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path query parameter is required")
	}

	normalized, language := s.normalizer.Load().NormalizePathAndLang(
		path, c.Query("jurisdiction"), c.Query("lang"))

	return c.JSON(fiber.Map{
		"path":     normalized,
		"language": language,
	})
}

// ListBranches returns every stored translation branch.
func (s *Server) ListBranches(c fiber.Ctx) error {
	branches, err := s.store.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"branches": branches, "count": len(branches)})
}

// BranchStatus summarizes the recent history of one translation branch.
func (s *Server) BranchStatus(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "branch id must be a positive integer")
	}

	branch, err := s.store.Get(c.Context(), id)
	if err != nil {
		return err
	}

	status, err := s.summarizer.Load().Summarize(c.Context(), *branch)
	if err != nil {
		return err
	}

	return c.JSON(output.NewBranchStatusView(status))
}

// handleError renders every failure as a JSON body.
func (s *Server) handleError(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, domain.ErrBranchNotFound):
		code = fiber.StatusNotFound
		message = domain.ErrBranchNotFound.Error()
	default:
		s.logger.Error(c.Context(), "request failed", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

func (s *Server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	method := c.Method()
	path := c.Path()

	err := c.Next()

	s.logger.Debug(c.Context(), "handled request", map[string]interface{}{
		"method":      method,
		"path":        path,
		"status":      c.Response().StatusCode(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return err
}
