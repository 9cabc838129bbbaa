package handler

import (
	"errors"
	"strings"
	"time"

	"mcq-portal/internal/domain"
	"mcq-portal/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// ResultsHandler proxies generated files so the root-relative links handed to
// the page resolve against this server.
type ResultsHandler struct {
	source  ArtifactSource
	dir     string
	metrics *metrics.Recorder
}

func NewResultsHandler(source ArtifactSource, dir string, recorder *metrics.Recorder) *ResultsHandler {
	return &ResultsHandler{source: source, dir: strings.Trim(dir, "/"), metrics: recorder}
}

// Get handles GET /results/:name
func (h *ResultsHandler) Get(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fiber.ErrNotFound
	}

	start := time.Now()
	body, err := h.source.Open(c.UserContext(), h.dir+"/"+name)
	h.metrics.ObserveUpstream(metrics.ActionDownload, time.Since(start))
	h.metrics.Observe(metrics.ActionDownload, err)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) && de.Code == domain.CodeServer && de.Context["upstream_status"] == fiber.StatusNotFound {
			return fiber.ErrNotFound
		}
		return err
	}

	c.Attachment(name)
	// fasthttp closes body once the response is written
	return c.SendStream(body)
}
