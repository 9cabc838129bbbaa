package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mcq-portal/internal/domain"
	"mcq-portal/internal/logger"
	"mcq-portal/internal/metrics"
	"mcq-portal/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	msgUploadSucceeded   = "File uploaded successfully!"
	msgGenerateSucceeded = "MCQs generated successfully!"
	msgUploadFirst       = "Please upload a file first!"
)

// Controller drives the upload-then-generate flow for sessions held in a
// SessionStore. Network calls run outside the per-session lock; only the
// read-modify-write of session state is serialized.
type Controller struct {
	api       domain.MCQService
	store     domain.SessionStore
	validator *validation.Validator
	metrics   *metrics.Recorder
	locks     sessionLocks
	flight    singleflight.Group
	now       func() time.Time
}

type Option func(*Controller)

func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(api domain.MCQService, store domain.SessionStore, validator *validation.Validator, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		store:     store,
		validator: validator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open returns the session with the given ID, or a new one when id is empty,
// unknown or expired.
func (c *Controller) Open(ctx context.Context, id string) (*domain.UploadSession, error) {
	if id != "" {
		session, err := c.store.Get(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
	}

	session, err := c.store.Create(ctx)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("Opened new session", zap.String("session_id", session.ID))
	return session, nil
}

// View returns the display state of a session. With consumeNotice the pending
// notice is cleared so it is shown exactly once.
func (c *Controller) View(ctx context.Context, id string, consumeNotice bool) (*domain.SessionView, error) {
	if !consumeNotice {
		session, err := c.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return session.View(), nil
	}

	unlock := c.locks.lock(id)
	defer unlock()

	session, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := session.View()
	if session.Notice != nil {
		session.Notice = nil
		if err := c.store.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Upload sends the selected file to the MCQ service and records the returned
// path on the session. A missing or unacceptable file fails with a
// validation error before any request is made. On failure the session's
// previous path is left untouched.
func (c *Controller) Upload(ctx context.Context, id string, file *domain.FileSelection) (*domain.UploadSession, error) {
	if _, err := c.store.Get(ctx, id); err != nil {
		return nil, err
	}

	if errs := c.validator.ValidateFileSelection(file); len(errs) > 0 {
		err := errs.AsDomainError()
		c.fail(ctx, id, metrics.ActionUpload, err)
		return nil, err
	}

	start := c.now()
	path, err := c.api.Upload(ctx, file.Name, file.Content)
	c.metrics.ObserveUpstream(metrics.ActionUpload, c.now().Sub(start))
	if err != nil {
		c.fail(ctx, id, metrics.ActionUpload, err)
		return nil, err
	}

	session, err := c.update(ctx, id, func(s *domain.UploadSession) {
		s.FileName = filepath.Base(file.Name)
		s.FilePath = path
		s.UploadRevision++
		s.Result = nil
		s.Notice = &domain.Notice{Kind: domain.NoticeSuccess, Message: msgUploadSucceeded}
	})
	if err != nil {
		return nil, err
	}

	c.metrics.Observe(metrics.ActionUpload, nil)
	logger.Get().Info("Upload completed",
		zap.String("session_id", id),
		zap.String("file_name", session.FileName),
		zap.String("file_path", path),
		zap.Int64("upload_revision", session.UploadRevision),
	)
	return session, nil
}

// RestoreUpload attaches a path the MCQ service already holds to the session,
// as if it had just been uploaded.
func (c *Controller) RestoreUpload(ctx context.Context, id, fileName, path string) (*domain.UploadSession, error) {
	if strings.TrimSpace(path) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("file_path", msgUploadFirst)}.AsDomainError()
	}
	if fileName == "" {
		fileName = filepath.Base(path)
	}
	return c.update(ctx, id, func(s *domain.UploadSession) {
		s.FileName = fileName
		s.FilePath = path
		s.UploadRevision++
		s.Result = nil
	})
}

// Generate requests numQuestions MCQs for the session's uploaded file and
// records the download links. The raw count must parse to a positive integer
// within limits, and the session must hold an uploaded path; otherwise no
// request is made.
//
// The path is captured when the request starts. If another upload replaces
// it before the response arrives, the result comes back with Stale set and
// the session keeps no result for the new file.
func (c *Controller) Generate(ctx context.Context, id, numQuestions string) (*domain.GenerationResult, error) {
	session, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	n, errs := c.validator.ParseNumQuestions(numQuestions)
	if len(errs) > 0 {
		err := errs.AsDomainError()
		c.fail(ctx, id, metrics.ActionGenerate, err)
		return nil, err
	}
	if !session.HasUpload() {
		err := domain.ValidationErrors{domain.NewMissingFieldError("file_path", msgUploadFirst)}.AsDomainError()
		c.fail(ctx, id, metrics.ActionGenerate, err)
		return nil, err
	}

	req := domain.GenerationRequest{FilePath: session.FilePath, NumQuestions: n}
	revision := session.UploadRevision

	artifacts, err := c.generate(ctx, id, req)
	if err != nil {
		c.fail(ctx, id, metrics.ActionGenerate, err)
		return nil, err
	}

	result := &domain.GenerationResult{
		TextFileURL:  rootRelative(artifacts.TextFile),
		PDFFileURL:   rootRelative(artifacts.PDFFile),
		SourcePath:   req.FilePath,
		NumQuestions: n,
		GeneratedAt:  c.now().UTC(),
	}

	_, err = c.update(ctx, id, func(s *domain.UploadSession) {
		if s.UploadRevision != revision || s.FilePath != req.FilePath {
			result.Stale = true
			return
		}
		stored := *result
		s.Result = &stored
		s.Notice = &domain.Notice{Kind: domain.NoticeSuccess, Message: msgGenerateSucceeded}
	})
	if err != nil {
		return nil, err
	}

	c.metrics.Observe(metrics.ActionGenerate, nil)
	if result.Stale {
		logger.Get().Warn("Discarding generation for replaced upload",
			zap.String("session_id", id),
			zap.String("source_path", req.FilePath),
		)
	} else {
		logger.Get().Info("Generation completed",
			zap.String("session_id", id),
			zap.String("file_path", req.FilePath),
			zap.Int("num_questions", n),
		)
	}
	return result, nil
}

// Reset discards the session. The next request carrying its ID is given a
// new, empty session.
func (c *Controller) Reset(ctx context.Context, id string) error {
	unlock := c.locks.lock(id)
	defer unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Get().Info("Session reset", zap.String("session_id", id))
	return nil
}

// generate collapses identical concurrent requests for one session into a
// single MCQ service call. Followers share the leader's context.
func (c *Controller) generate(ctx context.Context, id string, req domain.GenerationRequest) (*domain.GeneratedArtifacts, error) {
	key := fmt.Sprintf("%s|%s|%d", id, req.FilePath, req.NumQuestions)
	v, err, shared := c.flight.Do(key, func() (interface{}, error) {
		start := c.now()
		out, err := c.api.Generate(ctx, req)
		c.metrics.ObserveUpstream(metrics.ActionGenerate, c.now().Sub(start))
		return out, err
	})
	if shared {
		c.metrics.SharedGenerate()
	}
	if err != nil {
		return nil, err
	}
	artifacts := *v.(*domain.GeneratedArtifacts)
	return &artifacts, nil
}

// update applies fn to the stored session under the session lock and saves it.
func (c *Controller) update(ctx context.Context, id string, fn func(s *domain.UploadSession)) (*domain.UploadSession, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	session, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(session)
	if err := c.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// fail records a failed action and leaves its message as the session notice.
func (c *Controller) fail(ctx context.Context, id, action string, err error) {
	c.metrics.Observe(action, err)
	logger.Get().Warn("Action failed",
		zap.String("session_id", id),
		zap.String("action", action),
		zap.String("code", string(domain.CodeOf(err))),
		zap.Error(err),
	)

	msg := domain.UserMessage(err)
	if _, uerr := c.update(ctx, id, func(s *domain.UploadSession) {
		s.Notice = &domain.Notice{Kind: domain.NoticeError, Message: msg}
	}); uerr != nil {
		logger.Get().Error("Failed to record notice", zap.String("session_id", id), zap.Error(uerr))
	}
}

// rootRelative turns a server-relative artifact path into a link from the
// site root.
func rootRelative(p string) string {
	return "/" + strings.TrimLeft(p, "/")
}
