package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mcq-portal/internal/cache"
	"mcq-portal/internal/domain"
	"mcq-portal/internal/logger"
	"mcq-portal/internal/util"

	"go.uber.org/zap"
)

// RedisSessionStore keeps each session as a JSON document under
// cache.SessionKey. Every Get and Save refreshes the TTL.
type RedisSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
	newID func() string
	now   func() time.Time
}

func NewRedisSessionStore(c domain.Cache, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: c, ttl: ttl, newID: util.NewULID, now: time.Now}
}

func (s *RedisSessionStore) Create(ctx context.Context) (*domain.UploadSession, error) {
	now := s.now().UTC()
	session := &domain.UploadSession{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	if err := s.put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	key := cache.SessionKey(id)
	data, err := s.cache.GetEx(ctx, key, s.ttl)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrSessionNotFound
		}
		logger.Get().Error("Failed to read session from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError("failed to load session", err)
	}
	if data == "" {
		return nil, domain.ErrSessionNotFound
	}

	var session domain.UploadSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logger.Get().Error("Failed to unmarshal session", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("corrupt session %s", id), err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *domain.UploadSession) error {
	if session == nil || session.ID == "" {
		return domain.NewInternalError("cannot save session without ID", nil)
	}
	session.UpdatedAt = s.now().UTC()
	return s.put(ctx, session)
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, cache.SessionKey(id)); err != nil {
		return domain.NewInternalError("failed to delete session", err)
	}
	return nil
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

func (s *RedisSessionStore) put(ctx context.Context, session *domain.UploadSession) error {
	key := cache.SessionKey(session.ID)
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to marshal session", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to write session to cache", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError("failed to store session", err)
	}
	logger.Get().Debug("Stored session", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

var _ domain.SessionStore = (*RedisSessionStore)(nil)
