package handler

import (
	"bytes"
	"embed"
	"html/template"

	"mcq-portal/internal/domain"
	"mcq-portal/internal/logger"
	"mcq-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	View         *domain.SessionView
	MaxQuestions int
	Questions    int
}

// PageHandler serves the upload/generate page. Form posts redirect back to
// the page, which shows the resulting notice once.
type PageHandler struct {
	ctrl         SessionController
	maxQuestions int
}

func NewPageHandler(ctrl SessionController, maxQuestions int) *PageHandler {
	return &PageHandler{ctrl: ctrl, maxQuestions: maxQuestions}
}

// Index handles GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	view, err := h.ctrl.View(c.UserContext(), middleware.SessionIDFrom(c), true)
	if err != nil {
		return err
	}

	data := pageData{View: view, MaxQuestions: h.maxQuestions, Questions: view.NumQuestions}
	if data.Questions == 0 {
		data.Questions = h.maxQuestions
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Upload handles POST /upload
func (h *PageHandler) Upload(c *fiber.Ctx) error {
	file, closeFile, err := fileSelection(c)
	if err != nil {
		return err
	}
	defer closeFile()

	if _, err := h.ctrl.Upload(c.UserContext(), middleware.SessionIDFrom(c), file); err != nil && !userFacing(err) {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Generate handles POST /generate_mcqs
func (h *PageHandler) Generate(c *fiber.Ctx) error {
	id := middleware.SessionIDFrom(c)
	result, err := h.ctrl.Generate(c.UserContext(), id, c.FormValue("numQuestions"))
	if err != nil && !userFacing(err) {
		return err
	}
	if result != nil && result.Stale {
		logger.Get().Info("Page generation superseded by a newer upload", zap.String("session_id", id))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Reset handles POST /reset
func (h *PageHandler) Reset(c *fiber.Ctx) error {
	if err := h.ctrl.Reset(c.UserContext(), middleware.SessionIDFrom(c)); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
