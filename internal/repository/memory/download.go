package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
)

type DownloadRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewDownloadRepository(ttl time.Duration) *DownloadRepository {
	return &DownloadRepository{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func (r *DownloadRepository) Save(ctx context.Context, d *model.Download) error {
	b, err := repository.EncodeDownload(d)
	if err != nil {
		return err
	}
	if err := r.cache.Add(d.Token, b, r.ttl); err != nil {
		return fmt.Errorf("download %s: %w", d.Token, repository.ErrAlreadyExists)
	}
	return nil
}

func (r *DownloadRepository) Get(ctx context.Context, token string) (*model.Download, error) {
	v, ok := r.cache.Get(token)
	if !ok {
		return nil, fmt.Errorf("download %s: %w", token, repository.ErrNotFound)
	}
	return repository.DecodeDownload(v.([]byte))
}

func (r *DownloadRepository) Delete(ctx context.Context, token string) error {
	r.cache.Delete(token)
	return nil
}
