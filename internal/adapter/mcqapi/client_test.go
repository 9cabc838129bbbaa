package mcqapi_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"mcq-portal/internal/adapter/mcqapi"
	"mcq-portal/internal/adapter/mcqapi/mcqapitest"
	"mcq-portal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, srv *mcqapitest.Server) *mcqapi.Client {
	t.Helper()
	c, err := mcqapi.NewClient(srv.URL+"/", 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := mcqapi.NewClient("localhost:5000", time.Second, nil)
	assert.Error(t, err)
	_, err = mcqapi.NewClient("", time.Second, nil)
	assert.Error(t, err)
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{"file_path": "uploads/doc1.txt"}})

		path, err := newClient(t, srv).Upload(ctx, "/home/me/doc1.txt", strings.NewReader("hello world"))
		require.NoError(t, err)
		assert.Equal(t, "uploads/doc1.txt", path)

		uploads := srv.Uploads()
		require.Len(t, uploads, 1)
		assert.Equal(t, "doc1.txt", uploads[0].FileName, "only the base name is sent")
		assert.Equal(t, "hello world", string(uploads[0].Content))
	})

	t.Run("ServerErrorWithMessage", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusBadRequest, Body: map[string]string{"error": "bad format"}})

		_, err := newClient(t, srv).Upload(ctx, "doc.exe", strings.NewReader("x"))
		require.Error(t, err)
		assert.Equal(t, domain.CodeServer, domain.CodeOf(err))
		assert.Equal(t, "bad format", domain.UserMessage(err))
	})

	t.Run("ServerErrorWithoutMessage", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusInternalServerError, RawBody: "<html>oops</html>"})

		_, err := newClient(t, srv).Upload(ctx, "doc.txt", strings.NewReader("x"))
		require.Error(t, err)
		assert.Equal(t, domain.CodeServer, domain.CodeOf(err))
		assert.Equal(t, "Failed to upload file", domain.UserMessage(err))
	})

	t.Run("MalformedSuccessBody", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusOK, RawBody: "not json"})

		_, err := newClient(t, srv).Upload(ctx, "doc.txt", strings.NewReader("x"))
		require.Error(t, err)
		assert.Equal(t, domain.CodeNetwork, domain.CodeOf(err))
	})

	t.Run("MissingFilePath", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{"message": "ok"}})

		_, err := newClient(t, srv).Upload(ctx, "doc.txt", strings.NewReader("x"))
		require.Error(t, err)
		assert.Equal(t, domain.CodeNetwork, domain.CodeOf(err))
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		c := newClient(t, srv)
		srv.Close()

		_, err := c.Upload(ctx, "doc.txt", strings.NewReader("x"))
		require.Error(t, err)
		assert.Equal(t, domain.CodeNetwork, domain.CodeOf(err))
		assert.True(t, strings.HasPrefix(domain.UserMessage(err), "An error occurred: "))
	})
}

func TestClient_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		srv.ReplyGenerate(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{
			"text_file": "out/q.txt",
			"pdf_file":  "out/q.pdf",
		}})

		out, err := newClient(t, srv).Generate(ctx, domain.GenerationRequest{FilePath: "uploads/doc1.txt", NumQuestions: 5})
		require.NoError(t, err)
		assert.Equal(t, "out/q.txt", out.TextFile)
		assert.Equal(t, "out/q.pdf", out.PDFFile)

		gens := srv.Generations()
		require.Len(t, gens, 1)
		assert.Equal(t, "uploads/doc1.txt", gens[0]["file_path"])
		assert.Equal(t, float64(5), gens[0]["num_questions"])
	})

	t.Run("ServerErrorFallback", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		srv.ReplyGenerate(mcqapitest.Reply{Status: http.StatusBadRequest, Body: map[string]string{}})

		_, err := newClient(t, srv).Generate(ctx, domain.GenerationRequest{FilePath: "uploads/x.txt", NumQuestions: 1})
		require.Error(t, err)
		assert.Equal(t, domain.CodeServer, domain.CodeOf(err))
		assert.Equal(t, "Failed to generate MCQs", domain.UserMessage(err))
	})

	t.Run("ContextCanceled", func(t *testing.T) {
		srv := mcqapitest.NewServer()
		defer srv.Close()
		release := srv.HoldGenerate()
		defer release()

		cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err := newClient(t, srv).Generate(cctx, domain.GenerationRequest{FilePath: "uploads/x.txt", NumQuestions: 1})
		require.Error(t, err)
		assert.Equal(t, domain.CodeNetwork, domain.CodeOf(err))
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()
	srv := mcqapitest.NewServer()
	defer srv.Close()
	srv.PutArtifact("results/mcqs_doc1.txt.txt", []byte("## MCQ\nQuestion: ?"))
	c := newClient(t, srv)

	var buf bytes.Buffer
	n, err := c.Download(ctx, "/results/mcqs_doc1.txt.txt", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "## MCQ\nQuestion: ?", buf.String())

	_, err = c.Download(ctx, "results/missing.pdf", &buf)
	require.Error(t, err)
	assert.Equal(t, domain.CodeServer, domain.CodeOf(err))

	_, err = c.Download(ctx, "../etc/passwd", &buf)
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestClient_Open(t *testing.T) {
	ctx := context.Background()
	srv := mcqapitest.NewServer()
	defer srv.Close()
	srv.PutArtifact("results/mcqs_doc1.pdf.pdf", []byte("%PDF-1.4 body"))
	c := newClient(t, srv)

	body, err := c.Open(ctx, "/results/mcqs_doc1.pdf.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "%PDF-1.4 body", string(data))

	_, err = c.Open(ctx, "results/missing.pdf")
	require.Error(t, err)
	assert.Equal(t, "Failed to download file", domain.UserMessage(err))
	assert.Equal(t, http.StatusNotFound, err.(*domain.DomainError).Context["upstream_status"])
}

func TestClient_WithHTTPClient(t *testing.T) {
	srv := mcqapitest.NewServer()
	defer srv.Close()
	release := srv.HoldGenerate()
	defer release()

	c := newClient(t, srv).WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})

	_, err := c.Generate(context.Background(), domain.GenerationRequest{FilePath: "uploads/doc1.txt", NumQuestions: 3})
	require.Error(t, err)
	assert.Equal(t, domain.CodeNetwork, domain.CodeOf(err), "the injected client's timeout applies")
}
