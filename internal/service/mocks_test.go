package service

import (
	"context"
	"io"

	"mcq-portal/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockMCQService ---
type MockMCQService struct {
	mock.Mock
}

func (m *MockMCQService) Upload(ctx context.Context, fileName string, content io.Reader) (string, error) {
	args := m.Called(ctx, fileName, content)
	return args.String(0), args.Error(1)
}

func (m *MockMCQService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedArtifacts, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedArtifacts), args.Error(1)
}

func (m *MockMCQService) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	args := m.Called(ctx, path, w)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockSessionStore ---
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context) (*domain.UploadSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
