package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hireloop/vellum/document"
	"github.com/hireloop/vellum/internal/ai"
	"github.com/hireloop/vellum/internal/format"
	"github.com/hireloop/vellum/internal/pdftext"
	"github.com/hireloop/vellum/layout"
	"github.com/hireloop/vellum/notation"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// generateResume polishes a draft into a resume.
// POST /api/resume/generate[?format=pdf]
func (s *Server) generateResume(c *fiber.Ctx) error {
	var draft format.Draft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid resume draft")
	}

	resume, err := s.generator.GenerateResume(c.Context(), draft)
	if err != nil {
		return err
	}

	if c.Query("format") == "pdf" {
		pdf, err := s.renderPDF(format.ResumeDocument(*resume), layout.DefaultGeometry(), nil)
		if err != nil {
			return err
		}
		return sendPDF(c, pdf, "resume.pdf")
	}

	return c.JSON(fiber.Map{"status": "success", "resume": resume})
}

// analyzeResume reviews an uploaded resume against a job description.
// POST /api/resume/analyze (multipart: resume, job_description)
func (s *Server) analyzeResume(c *fiber.Ctx) error {
	text, err := s.resumeUpload(c)
	if err != nil {
		return err
	}
	jobDescription := c.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "job_description is required")
	}

	analysis, err := s.generator.AnalyzeResume(c.Context(), text, jobDescription)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "analysis": analysis})
}

// coverLetter writes a cover letter for a position.
// POST /api/cover-letter[?format=pdf]
func (s *Server) coverLetter(c *fiber.Ctx) error {
	var in ai.CoverLetterInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cover letter input")
	}

	letter, err := s.generator.GenerateCoverLetter(c.Context(), in)
	if err != nil {
		return err
	}

	if c.Query("format") == "pdf" {
		pdf, err := s.renderPDF(format.CoverLetterDocument(*letter), layout.DefaultGeometry(), nil)
		if err != nil {
			return err
		}
		return sendPDF(c, pdf, "cover-letter.pdf")
	}

	return c.JSON(fiber.Map{"status": "success", "cover_letter": letter})
}

// startInterview opens a mock interview session.
// POST /api/interview/start (multipart: resume, job_description)
func (s *Server) startInterview(c *fiber.Ctx) error {
	text, err := s.resumeUpload(c)
	if err != nil {
		return err
	}
	jobDescription := c.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "job_description is required")
	}

	started, err := s.coach.Start(c.Context(), text, jobDescription)
	if err != nil {
		return err
	}
	return c.JSON(started)
}

// answerInterview records an answer and returns the next question or
// the final feedback. Accepts JSON or form bodies.
// POST /api/interview/answer
func (s *Server) answerInterview(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id" form:"session_id"`
		Answer    string `json:"answer" form:"answer"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid answer payload")
	}
	if req.SessionID == "" || strings.TrimSpace(req.Answer) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id and answer are required")
	}

	step, err := s.coach.Answer(c.Context(), req.SessionID, req.Answer)
	if err != nil {
		return err
	}

	if step.Complete {
		return c.JSON(fiber.Map{"status": "success", "isComplete": true, "analysis": step.Feedback})
	}
	return c.JSON(fiber.Map{"status": "success", "isComplete": false, "nextQuestion": step.NextQuestion})
}

// interviewReport renders a finished session as a PDF report.
// GET /api/interview/:id/report.pdf
func (s *Server) interviewReport(c *fiber.Ctx) error {
	tr, err := s.coach.Transcript(c.Params("id"))
	if err != nil {
		return err
	}

	pdf, err := s.renderPDF(format.ReportDocument(*tr), layout.DefaultGeometry(), nil)
	if err != nil {
		return err
	}
	return sendPDF(c, pdf, "interview-report.pdf")
}

// renderNotation renders raw markup straight to PDF, exposing the core
// engine. The body is either plain markup (with optional ?data= JSON)
// or a JSON envelope {"markup": ..., "data": ...}.
// POST /api/render
func (s *Server) renderNotation(c *fiber.Ctx) error {
	var markup string
	var data any

	if c.Is("json") {
		var req struct {
			Markup string          `json:"markup"`
			Data   json.RawMessage `json:"data"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid render request")
		}
		markup = req.Markup
		if len(req.Data) > 0 {
			if err := json.Unmarshal(req.Data, &data); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "data must be valid JSON")
			}
		}
	} else {
		markup = string(c.Body())
		if raw := c.Query("data"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &data); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "data must be valid JSON")
			}
		}
	}
	if strings.TrimSpace(markup) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "empty document")
	}

	spec, err := notation.ParseString(markup)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	bodyFont := layout.Length{Value: layout.DefaultTheme().Body.Size, Unit: layout.UnitMM}
	geom, err := spec.Geometry.Apply(layout.DefaultGeometry(), bodyFont)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	pdf, err := s.renderPDF(&spec.Document, geom, data)
	if err != nil {
		return err
	}
	return sendPDF(c, pdf, "document.pdf")
}

// resumeUpload validates an uploaded resume and extracts its text.
func (s *Server) resumeUpload(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("resume")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "resume file is required")
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return "", fiber.NewError(fiber.StatusBadRequest, "only PDF files are supported")
	}
	if file.Size > s.cfg.MaxUploadBytes() {
		return "", fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("file too large, limit is %dMB", s.cfg.MaxUploadMB))
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	text, err := s.extract(data)
	if err != nil {
		if errors.Is(err, pdftext.ErrNoText) {
			return "", fiber.NewError(fiber.StatusBadRequest, "could not extract text from the PDF file")
		}
		return "", fiber.NewError(fiber.StatusBadRequest, "could not read the PDF file")
	}
	return text, nil
}

// renderPDF paginates doc with the default theme and renders it.
func (s *Server) renderPDF(doc *document.Document, geom layout.Geometry, data any) ([]byte, error) {
	result, err := layout.Paginate(doc, geom, layout.Options{
		Measurer: s.pdf,
		Data:     data,
	})
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(result)
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
