// Package app builds the service's components from configuration. Both
// binaries share it so the CLI renders exactly what the API would.
package app

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"

	"github.com/lifebalance/intake-api/internal/config"
	"github.com/lifebalance/intake-api/internal/document"
	"github.com/lifebalance/intake-api/internal/email"
	"github.com/lifebalance/intake-api/internal/repository"
	"github.com/lifebalance/intake-api/internal/repository/memory"
	redisrepo "github.com/lifebalance/intake-api/internal/repository/redis"
	"github.com/lifebalance/intake-api/internal/service/submission"
	"github.com/lifebalance/intake-api/pkg/logger"
	"github.com/lifebalance/intake-api/pkg/metrics"
	"github.com/lifebalance/intake-api/pkg/security"
)

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg config.LoggingConfig) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Level),
		Format:     cfg.Format,
		TimeFormat: time.RFC3339,
		File: logger.FileConfig{
			Enabled:    cfg.File.Enabled,
			Path:       cfg.File.Path,
			MaxSizeMB:  cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAgeDays: cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		},
	})
}

// NewRenderer builds the document renderer. m may be nil.
func NewRenderer(cfg *config.Config, m *metrics.Metrics) (*document.Renderer, error) {
	loc := time.UTC
	if cfg.Document.Timezone != "" {
		l, err := time.LoadLocation(cfg.Document.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid document.timezone %q: %w", cfg.Document.Timezone, err)
		}
		loc = l
	}

	opts := document.Options{
		Practice: document.Practice{
			Name:         cfg.Practice.Name,
			Tagline:      cfg.Practice.Tagline,
			Phone:        cfg.Practice.Phone,
			AddressLine1: cfg.Practice.AddressLine1,
			AddressLine2: cfg.Practice.AddressLine2,
			Region:       cfg.Practice.Region,
		},
		FilenamePrefix: cfg.Document.FilenamePrefix,
		Location:       loc,
	}
	if m != nil {
		opts.OnRender = func(pages int, took time.Duration) {
			m.RenderLatency.Observe(took.Seconds())
			m.DocumentPages.Observe(float64(pages))
		}
	}
	return document.NewRenderer(opts), nil
}

// NewRelay picks the configured relay: the HTTP relay first, then SMTP. It
// returns nil when neither is configured, which routes every submission to
// the fallback.
func NewRelay(cfg *config.Config) email.Relay {
	if cfg.Relay.Configured() {
		return email.NewEmailJSRelay(email.EmailJSConfig{
			Endpoint:        cfg.Relay.Endpoint,
			ServiceID:       cfg.Relay.ServiceID,
			TemplateID:      cfg.Relay.TemplateID,
			PublicKey:       cfg.Relay.PublicKey,
			PrivateKey:      cfg.Relay.PrivateKey,
			Timeout:         cfg.Relay.Timeout,
			BreakerFailures: cfg.Relay.BreakerFailures,
			BreakerTimeout:  cfg.Relay.BreakerTimeout,
		})
	}
	if cfg.SMTP.Configured() {
		return email.NewSMTPRelay(email.SMTPConfig{
			Host:            cfg.SMTP.Host,
			Port:            cfg.SMTP.Port,
			Username:        cfg.SMTP.Username,
			Password:        cfg.SMTP.Password,
			From:            cfg.SMTP.From,
			FromName:        cfg.SMTP.FromName,
			Timeout:         cfg.SMTP.Timeout,
			BreakerFailures: cfg.Relay.BreakerFailures,
			BreakerTimeout:  cfg.Relay.BreakerTimeout,
		})
	}
	return nil
}

// SubmissionConfig maps configuration onto the pipeline's settings.
func SubmissionConfig(cfg *config.Config) submission.Config {
	return submission.Config{
		IntakeEmail:     cfg.Practice.IntakeEmail,
		MaxPayloadBytes: cfg.Relay.MaxPayloadBytes,
		PublicBaseURL:   cfg.Server.PublicBaseURL,
		Region:          cfg.Practice.Region,
	}
}

// Stores holds the session and download stores plus whatever must be closed
// on shutdown.
type Stores struct {
	Sessions  repository.SessionRepository
	Downloads repository.DownloadRepository
	closer    func() error
}

func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// NewStores opens the configured session backend.
func NewStores(ctx context.Context, cfg config.SessionConfig, log zerolog.Logger) (*Stores, error) {
	downloadTTL := cfg.DownloadTTL
	if downloadTTL <= 0 {
		downloadTTL = 30 * time.Minute
	}

	switch cfg.Store {
	case "redis":
		client, err := redisrepo.NewClient(ctx, redisrepo.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		var opts []redisrepo.Option
		if cfg.Redis.EncryptionKey != "" {
			enc, err := security.NewAESEncryptorFromBase64(cfg.Redis.EncryptionKey)
			if err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("invalid session.redis.encryption_key: %w", err)
			}
			opts = append(opts, redisrepo.WithEncryptor(enc))
		} else {
			log.Warn().Msg("redis session store has no encryption key, intakes are stored in plaintext")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis session store")
		return &Stores{
			Sessions:  redisrepo.NewSessionRepository(client, cfg.Redis.Prefix, cfg.TTL, opts...),
			Downloads: redisrepo.NewDownloadRepository(client, cfg.Redis.Prefix, downloadTTL, opts...),
			closer:    client.Close,
		}, nil
	default:
		log.Info().Msg("using in-memory session store")
		return &Stores{
			Sessions:  memory.NewSessionRepository(cfg.TTL),
			Downloads: memory.NewDownloadRepository(downloadTTL),
		}, nil
	}
}
