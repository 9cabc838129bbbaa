package handler

import (
	"errors"

	"mcq-portal/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// fileSelection reads the multipart "file" field. A request without one
// yields nil, which the controller reports as "no file selected".
func fileSelection(c *fiber.Ctx) (*domain.FileSelection, func(), error) {
	header, err := c.FormFile("file")
	if err != nil || header == nil || header.Filename == "" {
		return nil, func() {}, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, domain.NewInternalError("failed to read uploaded file", err)
	}
	return &domain.FileSelection{
		Name:    header.Filename,
		Size:    header.Size,
		Content: f,
	}, func() { _ = f.Close() }, nil
}

// userFacing reports whether err was already recorded as a session notice,
// so the page can simply be shown again.
func userFacing(err error) bool {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case domain.CodeValidation, domain.CodeMissingField, domain.CodeInvalidFormat, domain.CodeOutOfRange,
		domain.CodeServer, domain.CodeNetwork:
		return true
	}
	return false
}
