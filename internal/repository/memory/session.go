package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
)

// submitLockTTL bounds how long a crashed submission can hold the lock.
const submitLockTTL = 2 * time.Minute

// SessionRepository keeps encoded sessions in an expiring in-process cache.
// Values are stored encoded so callers never share a record.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, ttl/4),
		ttl:   ttl,
	}
}

func sessionKey(id uuid.UUID) string { return "session:" + id.String() }
func lockKey(id uuid.UUID) string    { return "submit:" + id.String() }

func (r *SessionRepository) Create(ctx context.Context, s *model.IntakeSession) error {
	b, err := repository.EncodeSession(s)
	if err != nil {
		return err
	}
	if err := r.cache.Add(sessionKey(s.ID), b, r.ttl); err != nil {
		return fmt.Errorf("session %s: %w", s.ID, repository.ErrAlreadyExists)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	v, ok := r.cache.Get(sessionKey(id))
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	return repository.DecodeSession(v.([]byte))
}

// Update replaces a live session and restarts its TTL.
func (r *SessionRepository) Update(ctx context.Context, s *model.IntakeSession) error {
	b, err := repository.EncodeSession(s)
	if err != nil {
		return err
	}
	if err := r.cache.Replace(sessionKey(s.ID), b, r.ttl); err != nil {
		return fmt.Errorf("session %s: %w", s.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.cache.Get(sessionKey(id)); !ok {
		return fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	r.cache.Delete(sessionKey(id))
	r.cache.Delete(lockKey(id))
	return nil
}

func (r *SessionRepository) AcquireSubmit(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.cache.Add(lockKey(id), struct{}{}, submitLockTTL) == nil, nil
}

func (r *SessionRepository) ReleaseSubmit(ctx context.Context, id uuid.UUID) error {
	r.cache.Delete(lockKey(id))
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return nil
}

// Count reports how many sessions are live. Expired entries not yet swept are
// excluded.
func (r *SessionRepository) Count() int {
	n := 0
	for k := range r.cache.Items() {
		if strings.HasPrefix(k, "session:") {
			n++
		}
	}
	return n
}
