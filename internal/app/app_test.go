package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebalance/intake-api/internal/config"
	"github.com/lifebalance/intake-api/internal/email"
	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/pkg/metrics"
)

func TestNewRelay(t *testing.T) {
	relay := config.RelayConfig{ServiceID: "service_abc", TemplateID: "template_xyz", PublicKey: "pk"}
	smtp := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "intake@example.com"}

	tests := []struct {
		name     string
		relay    config.RelayConfig
		smtp     config.SMTPConfig
		wantName string
	}{
		{"http relay preferred", relay, smtp, email.RelayEmailJS},
		{"smtp when http relay missing", config.RelayConfig{}, smtp, email.RelaySMTP},
		{"nothing configured", config.RelayConfig{ServiceID: "service_abc"}, config.SMTPConfig{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRelay(&config.Config{Relay: tt.relay, SMTP: tt.smtp})
			if tt.wantName == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantName, got.Name())
			assert.True(t, got.Configured())
		})
	}
}

func TestNewRenderer(t *testing.T) {
	cfg := &config.Config{
		Practice: config.PracticeConfig{Name: "Life Balance", Region: "US"},
		Document: config.DocumentConfig{FilenamePrefix: "Life-Balance-Intake", Timezone: "America/Chicago"},
	}
	m := metrics.NewNop()
	r, err := NewRenderer(cfg, m)
	require.NoError(t, err)

	rec := model.NewIntakeRecord()
	rec.PatientName = "Jane Doe"
	assert.Equal(t, "Life-Balance-Intake_Jane-Doe.pdf", r.Filename(rec))

	_, err = r.Render(rec)
	require.NoError(t, err)

	cfg.Document.Timezone = "Mars/Olympus_Mons"
	_, err = NewRenderer(cfg, nil)
	assert.Error(t, err)
}

func TestNewStores_Memory(t *testing.T) {
	stores, err := NewStores(context.Background(), config.SessionConfig{Store: "memory", TTL: time.Hour}, zerolog.Nop())
	require.NoError(t, err)
	defer stores.Close()

	require.NoError(t, stores.Sessions.Ping(context.Background()))
	s := model.NewIntakeSession(time.Now())
	require.NoError(t, stores.Sessions.Create(context.Background(), s))
	got, err := stores.Sessions.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestNewStores_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewStores(ctx, config.SessionConfig{
		Store: "redis",
		TTL:   time.Hour,
		Redis: config.RedisConfig{Addr: "127.0.0.1:1"},
	}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSubmissionConfig(t *testing.T) {
	cfg := &config.Config{
		Server:   config.ServerConfig{PublicBaseURL: "https://intake.example.com"},
		Relay:    config.RelayConfig{MaxPayloadBytes: 51200},
		Practice: config.PracticeConfig{IntakeEmail: "intake@example.com", Region: "US"},
	}
	got := SubmissionConfig(cfg)
	assert.Equal(t, "intake@example.com", got.IntakeEmail)
	assert.Equal(t, 51200, got.MaxPayloadBytes)
	assert.Equal(t, "https://intake.example.com", got.PublicBaseURL)
	assert.Equal(t, "US", got.Region)
}
