package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
	"github.com/lifebalance/intake-api/pkg/security"
)

const submitLockTTL = 2 * time.Minute

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewClient connects and pings. Callers own Close.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// SessionRepository stores sessions as TTL'd JSON values so several API
// replicas can serve the same intake flow.
type SessionRepository struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
	enc    security.Encryptor
}

// Option configures a redis store.
type Option func(*options)

type options struct {
	enc security.Encryptor
}

// WithEncryptor seals every stored value with enc.
func WithEncryptor(enc security.Encryptor) Option {
	return func(o *options) { o.enc = enc }
}

func buildOptions(opts []Option) options {
	o := options{enc: security.Plaintext{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.enc == nil {
		o.enc = security.Plaintext{}
	}
	return o
}

func NewSessionRepository(client goredis.UniversalClient, prefix string, ttl time.Duration, opts ...Option) *SessionRepository {
	o := buildOptions(opts)
	return &SessionRepository{client: client, prefix: prefix, ttl: ttl, enc: o.enc}
}

func (r *SessionRepository) encode(s *model.IntakeSession) ([]byte, error) {
	b, err := repository.EncodeSession(s)
	if err != nil {
		return nil, err
	}
	sealed, err := r.enc.Encrypt(b)
	if err != nil {
		return nil, fmt.Errorf("failed to seal session: %w", err)
	}
	return sealed, nil
}

func (r *SessionRepository) decode(b []byte) (*model.IntakeSession, error) {
	plain, err := r.enc.Decrypt(b)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return repository.DecodeSession(plain)
}

func (r *SessionRepository) sessionKey(id uuid.UUID) string {
	return r.prefix + "session:" + id.String()
}

func (r *SessionRepository) lockKey(id uuid.UUID) string {
	return r.prefix + "submit:" + id.String()
}

func (r *SessionRepository) Create(ctx context.Context, s *model.IntakeSession) error {
	b, err := r.encode(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.sessionKey(s.ID), b, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s: %w", s.ID, repository.ErrAlreadyExists)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	b, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return r.decode(b)
}

// Update replaces a live session and restarts its TTL. An expired session is
// not resurrected.
func (r *SessionRepository) Update(ctx context.Context, s *model.IntakeSession) error {
	b, err := r.encode(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, r.sessionKey(s.ID), b, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s: %w", s.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.client.Del(ctx, r.sessionKey(id), r.lockKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) AcquireSubmit(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.lockKey(id), 1, submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

func (r *SessionRepository) ReleaseSubmit(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, r.lockKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
