package mcqapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"mcq-portal/internal/domain"
	"mcq-portal/internal/dto"

	"go.uber.org/zap"
)

const (
	uploadPath   = "/upload"
	generatePath = "/generate_mcqs"

	// Only JSON replies are buffered; artifacts are streamed.
	maxJSONBody = 1 << 20

	fallbackUploadError   = "Failed to upload file"
	fallbackGenerateError = "Failed to generate MCQs"
	fallbackDownloadError = "Failed to download file"
)

// Client talks to the MCQ service. Each call makes exactly one attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient validates baseURL and builds a client whose requests time out
// after timeout (zero means no client-side limit beyond the context).
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid MCQ service URL %q", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Upload posts content as the multipart field "file" and returns the
// server-assigned file path.
func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return "", domain.NewInternalError("failed to build upload body", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", domain.NewValidationError("Failed to read the selected file", err)
	}
	if err := mw.Close(); err != nil {
		return "", domain.NewInternalError("failed to build upload body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &body)
	if err != nil {
		return "", domain.NewInternalError("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out dto.UploadResponse
	if err := c.doJSON(req, fallbackUploadError, &out); err != nil {
		return "", err
	}
	if out.FilePath == "" {
		return "", domain.NewNetworkError(errors.New("upload response has no file_path"))
	}

	c.logger.Info("Uploaded document",
		zap.String("file_name", fileName),
		zap.String("file_path", out.FilePath),
	)
	return out.FilePath, nil
}

// Generate asks for req.NumQuestions MCQs from the document at req.FilePath.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedArtifacts, error) {
	payload, err := json.Marshal(dto.GenerateRequest{FilePath: req.FilePath, NumQuestions: req.NumQuestions})
	if err != nil {
		return nil, domain.NewInternalError("failed to encode generate request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewInternalError("failed to build generate request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	var out dto.GenerateResponse
	if err := c.doJSON(httpReq, fallbackGenerateError, &out); err != nil {
		return nil, err
	}
	if out.TextFile == "" || out.PDFFile == "" {
		return nil, domain.NewNetworkError(errors.New("generate response is missing text_file or pdf_file"))
	}

	c.logger.Info("Generated MCQs",
		zap.String("file_path", req.FilePath),
		zap.Int("num_questions", req.NumQuestions),
		zap.String("text_file", out.TextFile),
		zap.String("pdf_file", out.PDFFile),
	)
	return &domain.GeneratedArtifacts{TextFile: out.TextFile, PDFFile: out.PDFFile}, nil
}

// Open starts fetching the artifact at the root-relative path. The caller
// must close the returned body.
func (c *Client) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	clean := strings.TrimLeft(path, "/")
	if clean == "" || strings.Contains(clean, "..") {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid artifact path %q", path), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+clean, nil)
	if err != nil {
		return nil, domain.NewInternalError("failed to build download request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}
	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, serverError(resp, fallbackDownloadError)
	}
	return resp.Body, nil
}

// Download streams the artifact at the root-relative path into w.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	body, err := c.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, domain.NewNetworkError(err)
	}
	return n, nil
}

func (c *Client) doJSON(req *http.Request, fallback string, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("MCQ service request failed",
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		err := serverError(resp, fallback)
		c.logger.Warn("MCQ service rejected request",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.String("error", err.Message),
		)
		return err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody))
	if err != nil {
		return domain.NewNetworkError(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.NewNetworkError(fmt.Errorf("malformed response from %s: %w", req.URL.Path, err))
	}
	return nil
}

// serverError reads the "error" field of a failure body, falling back to a
// generic message when the body has none or is not JSON.
func serverError(resp *http.Response, fallback string) *domain.DomainError {
	msg := fallback
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody))
	if err == nil {
		var body dto.ServiceError
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			msg = body.Error
		}
	}
	return domain.NewServerError(resp.StatusCode, msg)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

var _ domain.MCQService = (*Client)(nil)
