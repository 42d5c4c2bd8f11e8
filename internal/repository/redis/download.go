package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
)

type DownloadRepository struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
	opts   options
}

func NewDownloadRepository(client goredis.UniversalClient, prefix string, ttl time.Duration, opts ...Option) *DownloadRepository {
	return &DownloadRepository{client: client, prefix: prefix, ttl: ttl, opts: buildOptions(opts)}
}

func (r *DownloadRepository) key(token string) string {
	return r.prefix + "download:" + token
}

func (r *DownloadRepository) Save(ctx context.Context, d *model.Download) error {
	plain, err := repository.EncodeDownload(d)
	if err != nil {
		return err
	}
	b, err := r.opts.enc.Encrypt(plain)
	if err != nil {
		return fmt.Errorf("failed to seal download: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(d.Token), b, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save download: %w", err)
	}
	if !ok {
		return fmt.Errorf("download %s: %w", d.Token, repository.ErrAlreadyExists)
	}
	return nil
}

func (r *DownloadRepository) Get(ctx context.Context, token string) (*model.Download, error) {
	b, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("download %s: %w", token, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get download: %w", err)
	}
	plain, err := r.opts.enc.Decrypt(b)
	if err != nil {
		return nil, fmt.Errorf("failed to open download: %w", err)
	}
	return repository.DecodeDownload(plain)
}

func (r *DownloadRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}
	return nil
}
