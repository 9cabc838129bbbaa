package handler

import (
	"encoding/json"

	"mcq-portal/internal/domain"
	"mcq-portal/internal/dto"
	"mcq-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	msgUploaded  = "File uploaded successfully!"
	msgGenerated = "MCQs generated successfully!"
	msgStale     = "The uploaded file changed while generating; result discarded"
)

// SessionAPIHandler exposes the upload/generate flow as JSON.
type SessionAPIHandler struct {
	ctrl SessionController
}

func NewSessionAPIHandler(ctrl SessionController) *SessionAPIHandler {
	return &SessionAPIHandler{ctrl: ctrl}
}

// GetSession godoc
// @Summary Get session state
// @Description Returns what the page would show for the current session. Any pending notice is consumed.
// @Tags session
// @Produce json
// @Success 200 {object} domain.SessionView
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /session [get]
func (h *SessionAPIHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.ctrl.View(c.UserContext(), middleware.SessionIDFrom(c), true)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Upload godoc
// @Summary Upload a document
// @Description Forwards the file to the MCQ service and records its stored path on the session
// @Tags session
// @Accept mpfd
// @Produce json
// @Param file formData file true "Document (pdf, txt or docx)"
// @Success 200 {object} dto.SessionUploadResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /session/upload [post]
func (h *SessionAPIHandler) Upload(c *fiber.Ctx) error {
	file, closeFile, err := fileSelection(c)
	if err != nil {
		return err
	}
	defer closeFile()

	session, err := h.ctrl.Upload(c.UserContext(), middleware.SessionIDFrom(c), file)
	if err != nil {
		return err
	}
	return c.JSON(dto.SessionUploadResponse{
		Message:  msgUploaded,
		FileName: session.FileName,
		FilePath: session.FilePath,
	})
}

// Generate godoc
// @Summary Generate MCQs
// @Description Generates questions from the session's uploaded document and returns root-relative download links
// @Tags session
// @Accept json
// @Produce json
// @Param request body dto.SessionGenerateRequest true "Question count"
// @Success 200 {object} dto.SessionGenerateResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /session/generate [post]
func (h *SessionAPIHandler) Generate(c *fiber.Ctx) error {
	var req dto.SessionGenerateRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return domain.NewValidationError("Invalid request body", err)
		}
	}

	result, err := h.ctrl.Generate(c.UserContext(), middleware.SessionIDFrom(c), req.RawNumQuestions())
	if err != nil {
		return err
	}

	resp := dto.SessionGenerateResponse{
		Message:      msgGenerated,
		TextFile:     result.TextFileURL,
		PDFFile:      result.PDFFileURL,
		NumQuestions: result.NumQuestions,
		Stale:        result.Stale,
	}
	if result.Stale {
		resp.Message = msgStale
		return c.Status(fiber.StatusConflict).JSON(resp)
	}
	return c.JSON(resp)
}

// DeleteSession godoc
// @Summary Start over
// @Description Discards the current session. The next request is given a new, empty session.
// @Tags session
// @Success 204
// @Failure 500 {object} middleware.ErrorResponse
// @Router /session [delete]
func (h *SessionAPIHandler) DeleteSession(c *fiber.Ctx) error {
	if err := h.ctrl.Reset(c.UserContext(), middleware.SessionIDFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
