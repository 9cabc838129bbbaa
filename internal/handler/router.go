package handler

import (
	"time"

	"mcq-portal/internal/metrics"
	"mcq-portal/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Deps is everything Register needs to mount the web front.
type Deps struct {
	Controller   SessionController
	Artifacts    ArtifactSource
	Store        Pinger
	StoreBackend string
	CookieName   string
	SessionTTL   time.Duration
	MaxQuestions int
	Metrics      *metrics.Recorder
}

// Register mounts the page, the session API, the results proxy and the
// health check on app.
func Register(app fiber.Router, d Deps) {
	session := middleware.Session(d.Controller, d.CookieName, d.SessionTTL)

	page := NewPageHandler(d.Controller, d.MaxQuestions)
	app.Get("/", session, page.Index)
	app.Post("/upload", session, page.Upload)
	app.Post("/generate_mcqs", session, page.Generate)
	app.Post("/reset", session, page.Reset)

	api := NewSessionAPIHandler(d.Controller)
	apiGroup := app.Group("/api/session", session)
	apiGroup.Get("/", api.GetSession)
	apiGroup.Delete("/", api.DeleteSession)
	apiGroup.Post("/upload", api.Upload)
	apiGroup.Post("/generate", api.Generate)

	results := NewResultsHandler(d.Artifacts, "results", d.Metrics)
	app.Get("/results/:name", results.Get)

	app.Get("/healthz", Health(d.Store, d.StoreBackend))
}
