package domain

import (
	"context"
	"io"
)

// MCQService is the external HTTP service that stores uploads, synthesizes
// questions and renders the text and PDF artifacts.
type MCQService interface {
	// Upload stores the document and returns the server-assigned path.
	Upload(ctx context.Context, fileName string, content io.Reader) (string, error)
	// Generate synthesizes questions for a previously uploaded path.
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedArtifacts, error)
	// Download streams a server-relative artifact into w.
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
}

// SessionStore keeps upload sessions between user actions. Get returns
// ErrSessionNotFound for unknown or expired IDs.
type SessionStore interface {
	Create(ctx context.Context) (*UploadSession, error)
	Get(ctx context.Context, id string) (*UploadSession, error)
	Save(ctx context.Context, session *UploadSession) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
