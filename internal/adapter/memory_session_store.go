package adapter

import (
	"context"
	"sync"
	"time"

	"mcq-portal/internal/domain"
	"mcq-portal/internal/util"
)

type memoryEntry struct {
	session   *domain.UploadSession
	expiresAt time.Time
}

// MemorySessionStore is the single-process session store. Every read or
// write slides a session's expiry forward. Expired sessions are swept on
// Create and Save, at most once per sweep interval, so sessions that are
// never presented again do not accumulate.
type MemorySessionStore struct {
	mu         sync.Mutex
	sessions   map[string]memoryEntry
	ttl        time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
	newID      func() string
	now        func() time.Time
}

// NewMemorySessionStore keeps sessions for ttl after their last access; a
// zero ttl keeps them for the life of the process.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	sweepEvery := ttl / 4
	if sweepEvery > time.Minute {
		sweepEvery = time.Minute
	}
	return &MemorySessionStore{
		sessions:   make(map[string]memoryEntry),
		ttl:        ttl,
		sweepEvery: sweepEvery,
		newID:      util.NewULID,
		now:        time.Now,
	}
}

func (s *MemorySessionStore) Create(ctx context.Context) (*domain.UploadSession, error) {
	now := s.now().UTC()
	session := &domain.UploadSession{ID: s.newID(), CreatedAt: now, UpdatedAt: now}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[session.ID] = s.entry(session)
	return session.Clone(), nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.expired(e) {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	s.sessions[id] = s.entry(e.session)
	return e.session.Clone(), nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session *domain.UploadSession) error {
	if session == nil || session.ID == "" {
		return domain.NewInternalError("cannot save session without ID", nil)
	}
	session.UpdatedAt = s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[session.ID] = s.entry(session.Clone())
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Ping(ctx context.Context) error {
	return nil
}

// Len is the number of stored sessions, including expired ones not yet swept.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepLocked drops expired sessions. s.mu must be held.
func (s *MemorySessionStore) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	if now.Sub(s.lastSweep) < s.sweepEvery {
		return
	}
	s.lastSweep = now
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemorySessionStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

func (s *MemorySessionStore) entry(session *domain.UploadSession) memoryEntry {
	e := memoryEntry{session: session}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

var _ domain.SessionStore = (*MemorySessionStore)(nil)
