package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"mcq-portal/internal/adapter"
	"mcq-portal/internal/adapter/mcqapi"
	"mcq-portal/internal/adapter/mcqapi/mcqapitest"
	"mcq-portal/internal/domain"
	"mcq-portal/internal/metrics"
	"mcq-portal/internal/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	srv   *mcqapitest.Server
	store *adapter.MemorySessionStore
	ctrl  *Controller
	id    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := mcqapitest.NewServer()
	t.Cleanup(srv.Close)

	client, err := mcqapi.NewClient(srv.URL, 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	store := adapter.NewMemorySessionStore(time.Hour)
	ctrl := NewController(client, store, validation.NewValidator(validation.DefaultRules()),
		WithClock(func() time.Time { return testNow }),
		WithMetrics(metrics.NewRecorder(prometheus.NewRegistry())),
	)

	session, err := ctrl.Open(context.Background(), "")
	require.NoError(t, err)
	return &fixture{srv: srv, store: store, ctrl: ctrl, id: session.ID}
}

func textFile(name, content string) *domain.FileSelection {
	return &domain.FileSelection{Name: name, Size: int64(len(content)), Content: strings.NewReader(content)}
}

func (f *fixture) upload(t *testing.T, name string) *domain.UploadSession {
	t.Helper()
	session, err := f.ctrl.Upload(context.Background(), f.id, textFile(name, "some document text"))
	require.NoError(t, err)
	return session
}

func (f *fixture) view(t *testing.T) *domain.SessionView {
	t.Helper()
	v, err := f.ctrl.View(context.Background(), f.id, false)
	require.NoError(t, err)
	return v
}

func TestController_Upload_NoFileSelected(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Upload(context.Background(), f.id, nil)
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, "Please select a file!", domain.UserMessage(err))
	assert.Equal(t, int32(0), f.srv.UploadCalls.Load(), "no request may be sent without a file")

	v := f.view(t)
	require.NotNil(t, v.Notice)
	assert.Equal(t, domain.NoticeError, v.Notice.Kind)
	assert.Equal(t, "Please select a file!", v.Notice.Message)
	assert.False(t, v.MCQSectionVisible)
}

func TestController_Upload_RejectedExtension(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Upload(context.Background(), f.id, textFile("setup.exe", "MZ"))
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, int32(0), f.srv.UploadCalls.Load())
}

func TestController_Upload_Success(t *testing.T) {
	f := newFixture(t)
	f.srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{"file_path": "uploads/doc1.txt"}})

	session := f.upload(t, "doc1.txt")
	assert.Equal(t, "uploads/doc1.txt", session.FilePath)
	assert.Equal(t, "doc1.txt", session.FileName)
	assert.Equal(t, int64(1), session.UploadRevision)

	v := f.view(t)
	assert.True(t, v.MCQSectionVisible)
	assert.True(t, v.GenerateEnabled)
	assert.False(t, v.ResultsVisible)
	assert.Equal(t, "uploads/doc1.txt", v.FilePath)
	require.NotNil(t, v.Notice)
	assert.Equal(t, "File uploaded successfully!", v.Notice.Message)
}

func TestController_Upload_ServerError(t *testing.T) {
	f := newFixture(t)
	f.srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusBadRequest, Body: map[string]string{"error": "bad format"}})

	_, err := f.ctrl.Upload(context.Background(), f.id, textFile("doc1.txt", "text"))
	require.Error(t, err)
	assert.Equal(t, domain.CodeServer, domain.CodeOf(err))
	assert.Equal(t, "bad format", domain.UserMessage(err))

	v := f.view(t)
	assert.Empty(t, v.FilePath, "failed upload must leave the path unset")
	assert.False(t, v.MCQSectionVisible)
	require.NotNil(t, v.Notice)
	assert.Equal(t, "bad format", v.Notice.Message)
}

func TestController_Upload_FailureKeepsPreviousPath(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "first.txt")

	f.srv.ReplyUpload(mcqapitest.Reply{Status: http.StatusBadRequest, Body: map[string]string{"error": "File type not allowed"}})
	_, err := f.ctrl.Upload(context.Background(), f.id, textFile("second.txt", "x"))
	require.Error(t, err)

	v := f.view(t)
	assert.Equal(t, "uploads/first.txt", v.FilePath)
	assert.True(t, v.MCQSectionVisible)
}

func TestController_Upload_NetworkError(t *testing.T) {
	f := newFixture(t)
	f.srv.Close()

	_, err := f.ctrl.Upload(context.Background(), f.id, textFile("doc1.txt", "x"))
	require.Error(t, err)
	assert.Equal(t, domain.CodeNetwork, domain.CodeOf(err))
	assert.True(t, strings.HasPrefix(domain.UserMessage(err), "An error occurred: "))
	assert.Empty(t, f.view(t).FilePath)
}

func TestController_Generate_Success(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")
	f.srv.ReplyGenerate(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{
		"text_file": "out/q.txt",
		"pdf_file":  "out/q.pdf",
	}})

	result, err := f.ctrl.Generate(context.Background(), f.id, "5")
	require.NoError(t, err)
	assert.Equal(t, "/out/q.txt", result.TextFileURL)
	assert.Equal(t, "/out/q.pdf", result.PDFFileURL)
	assert.Equal(t, "uploads/doc1.txt", result.SourcePath)
	assert.Equal(t, 5, result.NumQuestions)
	assert.False(t, result.Stale)

	gens := f.srv.Generations()
	require.Len(t, gens, 1)
	assert.Equal(t, "uploads/doc1.txt", gens[0]["file_path"])
	assert.Equal(t, float64(5), gens[0]["num_questions"])

	v := f.view(t)
	assert.True(t, v.ResultsVisible)
	assert.Equal(t, "/out/q.txt", v.DownloadTextURL)
	assert.Equal(t, "/out/q.pdf", v.DownloadPDFURL)
	require.NotNil(t, v.Notice)
	assert.Equal(t, "MCQs generated successfully!", v.Notice.Message)
}

func TestController_Generate_LeadingSlashNotDoubled(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")
	f.srv.ReplyGenerate(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{
		"text_file": "/results/a.txt",
		"pdf_file":  "results/a.pdf",
	}})

	result, err := f.ctrl.Generate(context.Background(), f.id, "3")
	require.NoError(t, err)
	assert.Equal(t, "/results/a.txt", result.TextFileURL)
	assert.Equal(t, "/results/a.pdf", result.PDFFileURL)
}

func TestController_Generate_ServerErrorWithoutMessage(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")
	f.srv.ReplyGenerate(mcqapitest.Reply{Status: http.StatusInternalServerError, Body: map[string]string{}})

	_, err := f.ctrl.Generate(context.Background(), f.id, "5")
	require.Error(t, err)
	assert.Equal(t, domain.CodeServer, domain.CodeOf(err))
	assert.Equal(t, "Failed to generate MCQs", domain.UserMessage(err))

	v := f.view(t)
	assert.True(t, v.MCQSectionVisible, "upload state survives a failed generation")
	assert.False(t, v.ResultsVisible)
	assert.Empty(t, v.DownloadTextURL)
	require.NotNil(t, v.Notice)
	assert.Equal(t, "Failed to generate MCQs", v.Notice.Message)

	// Retry without re-uploading.
	f.srv.ReplyGenerate(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{"text_file": "r/a.txt", "pdf_file": "r/a.pdf"}})
	_, err = f.ctrl.Generate(context.Background(), f.id, "5")
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.srv.UploadCalls.Load())
	assert.True(t, f.view(t).ResultsVisible)
}

func TestController_Generate_WithoutUpload(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Generate(context.Background(), f.id, "5")
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, "Please upload a file first!", domain.UserMessage(err))
	assert.Equal(t, int32(0), f.srv.GenerateCalls.Load())
}

func TestController_Generate_InvalidCount(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")

	for _, raw := range []string{"", "abc", "0", "-2", "2.5", "21"} {
		t.Run(raw, func(t *testing.T) {
			_, err := f.ctrl.Generate(context.Background(), f.id, raw)
			require.Error(t, err)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		})
	}
	assert.Equal(t, int32(0), f.srv.GenerateCalls.Load())
}

func TestController_Generate_RepeatedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")
	f.srv.ReplyGenerate(mcqapitest.Reply{Status: http.StatusOK, Body: map[string]string{"text_file": "out/q.txt", "pdf_file": "out/q.pdf"}})

	first, err := f.ctrl.Generate(context.Background(), f.id, "4")
	require.NoError(t, err)
	second, err := f.ctrl.Generate(context.Background(), f.id, "4")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), f.srv.GenerateCalls.Load(), "sequential clicks are independent requests")

	v := f.view(t)
	assert.Equal(t, "/out/q.txt", v.DownloadTextURL)
	assert.Equal(t, "/out/q.pdf", v.DownloadPDFURL)
}

func TestController_Generate_ConcurrentIdenticalCallsShareRequest(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")
	release := f.srv.HoldGenerate()

	const callers = 4
	results := make([]*domain.GenerationResult, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.ctrl.Generate(context.Background(), f.id, "5")
		}(i)
	}

	require.Eventually(t, func() bool { return f.srv.GenerateCalls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	release()
	wg.Wait()

	assert.Equal(t, int32(1), f.srv.GenerateCalls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestController_Generate_NewUploadMakesResultStale(t *testing.T) {
	store := adapter.NewMemorySessionStore(time.Hour)
	api := new(MockMCQService)
	ctrl := NewController(api, store, validation.NewValidator(validation.DefaultRules()))
	ctx := context.Background()

	session, err := ctrl.Open(ctx, "")
	require.NoError(t, err)

	api.On("Upload", mock.Anything, "a.txt", mock.Anything).Return("uploads/a.txt", nil).Once()
	api.On("Upload", mock.Anything, "b.txt", mock.Anything).Return("uploads/b.txt", nil).Once()
	_, err = ctrl.Upload(ctx, session.ID, textFile("a.txt", "aaa"))
	require.NoError(t, err)

	// A second upload lands while generation for a.txt is in flight.
	api.On("Generate", mock.Anything, domain.GenerationRequest{FilePath: "uploads/a.txt", NumQuestions: 3}).
		Run(func(args mock.Arguments) {
			_, err := ctrl.Upload(ctx, session.ID, textFile("b.txt", "bbb"))
			require.NoError(t, err)
		}).
		Return(&domain.GeneratedArtifacts{TextFile: "results/a.txt", PDFFile: "results/a.pdf"}, nil).Once()

	result, err := ctrl.Generate(ctx, session.ID, "3")
	require.NoError(t, err)
	assert.True(t, result.Stale)
	assert.Equal(t, "uploads/a.txt", result.SourcePath)

	v, err := ctrl.View(ctx, session.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "uploads/b.txt", v.FilePath)
	assert.False(t, v.ResultsVisible, "a result for the replaced file is not displayed")
	api.AssertExpectations(t)
}

func TestController_NewUploadClearsPreviousResult(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")
	_, err := f.ctrl.Generate(context.Background(), f.id, "2")
	require.NoError(t, err)
	require.True(t, f.view(t).ResultsVisible)

	session := f.upload(t, "doc2.txt")
	assert.Equal(t, int64(2), session.UploadRevision)
	v := f.view(t)
	assert.False(t, v.ResultsVisible)
	assert.Equal(t, "uploads/doc2.txt", v.FilePath)
}

func TestController_RestoreUpload(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.RestoreUpload(context.Background(), f.id, "", " ")
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	session, err := f.ctrl.RestoreUpload(context.Background(), f.id, "", "uploads/old.pdf")
	require.NoError(t, err)
	assert.Equal(t, "old.pdf", session.FileName)

	result, err := f.ctrl.Generate(context.Background(), f.id, "1")
	require.NoError(t, err)
	assert.Equal(t, "/results/mcqs_old.pdf.txt", result.TextFileURL)
	assert.Equal(t, int32(0), f.srv.UploadCalls.Load())
}

func TestController_Open(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	same, err := f.ctrl.Open(ctx, f.id)
	require.NoError(t, err)
	assert.Equal(t, f.id, same.ID)

	fresh, err := f.ctrl.Open(ctx, "01HGZ8VNRYXS8QKNJV5GRWPWDQ")
	require.NoError(t, err)
	assert.NotEqual(t, "01HGZ8VNRYXS8QKNJV5GRWPWDQ", fresh.ID)
	assert.NotEqual(t, f.id, fresh.ID)
}

func TestController_View_ConsumesNotice(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "doc1.txt")
	ctx := context.Background()

	v, err := f.ctrl.View(ctx, f.id, true)
	require.NoError(t, err)
	require.NotNil(t, v.Notice)

	v, err = f.ctrl.View(ctx, f.id, true)
	require.NoError(t, err)
	assert.Nil(t, v.Notice)
	assert.True(t, v.MCQSectionVisible)
}

func TestController_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.upload(t, "doc1.txt")
	_, err := f.ctrl.Generate(ctx, f.id, "3")
	require.NoError(t, err)

	require.NoError(t, f.ctrl.Reset(ctx, f.id))
	assert.Equal(t, 0, f.store.Len())

	_, err = f.ctrl.View(ctx, f.id, false)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	session, err := f.ctrl.Open(ctx, f.id)
	require.NoError(t, err)
	assert.NotEqual(t, f.id, session.ID)
	assert.False(t, session.HasUpload())
	assert.Nil(t, session.Result)

	require.NoError(t, f.ctrl.Reset(ctx, f.id), "resetting a gone session is a no-op")
}

func TestController_Reset_StoreFailure(t *testing.T) {
	store := new(MockSessionStore)
	ctrl := NewController(new(MockMCQService), store, validation.NewValidator(validation.DefaultRules()))

	storeErr := domain.NewInternalError("failed to delete session", errors.New("redis down"))
	store.On("Delete", mock.Anything, "s1").Return(storeErr).Once()

	err := ctrl.Reset(context.Background(), "s1")
	assert.ErrorIs(t, err, storeErr)
	store.AssertExpectations(t)
}

func TestController_UnknownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.Upload(ctx, "missing", textFile("doc1.txt", "x"))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.ctrl.Generate(ctx, "missing", "5")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.ctrl.View(ctx, "missing", true)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, int32(0), f.srv.UploadCalls.Load())
}

func TestController_StoreFailure(t *testing.T) {
	store := new(MockSessionStore)
	api := new(MockMCQService)
	ctrl := NewController(api, store, validation.NewValidator(validation.DefaultRules()))
	ctx := context.Background()

	storeErr := domain.NewInternalError("failed to store session", errors.New("redis down"))
	store.On("Get", mock.Anything, "s1").Return(&domain.UploadSession{ID: "s1"}, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(storeErr)
	api.On("Upload", mock.Anything, "doc1.txt", mock.Anything).Return("uploads/doc1.txt", nil).Once()

	_, err := ctrl.Upload(ctx, "s1", textFile("doc1.txt", "x"))
	require.Error(t, err)
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))
	api.AssertExpectations(t)
}
