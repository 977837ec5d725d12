// Package server exposes the career-document toolkit over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hireloop/vellum/internal/ai"
	"github.com/hireloop/vellum/internal/config"
	"github.com/hireloop/vellum/internal/format"
	"github.com/hireloop/vellum/internal/pdftext"
	"github.com/hireloop/vellum/layout"
	"github.com/hireloop/vellum/renderer"
)

// Generator is the AI feature surface the handlers call.
type Generator interface {
	GenerateResume(ctx context.Context, draft format.Draft) (*format.Resume, error)
	AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*ai.Analysis, error)
	GenerateCoverLetter(ctx context.Context, in ai.CoverLetterInput) (*format.CoverLetter, error)
}

// Interviewer runs mock interview sessions.
type Interviewer interface {
	Start(ctx context.Context, resumeText, jobDescription string) (*ai.Started, error)
	Answer(ctx context.Context, sessionID, answer string) (*ai.Step, error)
	Transcript(sessionID string) (*format.Transcript, error)
}

// PDFRenderer measures text during layout and renders the paginated
// result, the two roles the canvas renderer plays.
type PDFRenderer interface {
	layout.TextMeasurer
	renderer.Renderer
}

// Server wires the HTTP handlers to their dependencies.
type Server struct {
	cfg       config.Config
	generator Generator
	coach     Interviewer
	pdf       PDFRenderer
	extract   func(data []byte) (string, error)
	app       *fiber.App
}

// New builds the fiber app with all routes registered.
func New(cfg config.Config, generator Generator, coach Interviewer, pdf PDFRenderer) *Server {
	s := &Server{
		cfg:       cfg,
		generator: generator,
		coach:     coach,
		pdf:       pdf,
		extract:   pdftext.Extract,
	}

	app := fiber.New(fiber.Config{
		AppName:               "vellum",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		// Leave headroom above the upload cap for the other form fields.
		BodyLimit: int(cfg.MaxUploadBytes()) + 1<<20,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/healthz", s.health)

	api := app.Group("/api")
	api.Post("/resume/generate", s.generateResume)
	api.Post("/resume/analyze", s.analyzeResume)
	api.Post("/cover-letter", s.coverLetter)
	api.Post("/interview/start", s.startInterview)
	api.Post("/interview/answer", s.answerInterview)
	api.Get("/interview/:id/report.pdf", s.interviewReport)
	api.Post("/render", s.renderNotation)

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
		log.Println("shutting down")
		return s.app.Shutdown()
	}
}

// errorHandler maps service errors onto HTTP statuses. Unknown errors
// become opaque 500s so internals never leak into responses.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	switch {
	case errors.Is(err, ai.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ai.ErrAnswerSubmitted),
		errors.Is(err, ai.ErrSessionNotFinished),
		errors.Is(err, layout.ErrGeometry):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
