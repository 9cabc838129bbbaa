package handler

import (
	"context"
	"io"

	"mcq-portal/internal/domain"
)

// SessionController is the upload/generate flow the handlers drive.
type SessionController interface {
	Open(ctx context.Context, id string) (*domain.UploadSession, error)
	View(ctx context.Context, id string, consumeNotice bool) (*domain.SessionView, error)
	Upload(ctx context.Context, id string, file *domain.FileSelection) (*domain.UploadSession, error)
	Generate(ctx context.Context, id, numQuestions string) (*domain.GenerationResult, error)
	Reset(ctx context.Context, id string) error
}

// ArtifactSource fetches generated files from the MCQ service.
type ArtifactSource interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
