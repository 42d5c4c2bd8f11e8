package email

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lifebalance/intake-api/pkg/circuitbreaker"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

type EmailJSConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is sent as the access token when set.
	PrivateKey      string
	Timeout         time.Duration
	BreakerFailures int
	BreakerTimeout  time.Duration
}

type emailJSRequest struct {
	ServiceID      string `json:"service_id"`
	TemplateID     string `json:"template_id"`
	UserID         string `json:"user_id"`
	AccessToken    string `json:"accessToken,omitempty"`
	TemplateParams Params `json:"template_params"`
}

// EmailJSRelay posts template parameters to an EmailJS-compatible API.
type EmailJSRelay struct {
	cfg     EmailJSConfig
	client  *resty.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewEmailJSRelay(cfg EmailJSConfig) *EmailJSRelay {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailJSEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	// No client-side retries: the submission pipeline owns the single retry.
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/plain, application/json")

	return &EmailJSRelay{
		cfg:    cfg,
		client: client,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:         RelayEmailJS,
			MaxFailures:  cfg.BreakerFailures,
			Timeout:      cfg.BreakerTimeout,
			IsSuccessful: breakerSuccess,
		}),
	}
}

func (r *EmailJSRelay) Name() string { return RelayEmailJS }

func (r *EmailJSRelay) Configured() bool {
	return r.cfg.ServiceID != "" && r.cfg.TemplateID != "" && r.cfg.PublicKey != ""
}

func (r *EmailJSRelay) Send(ctx context.Context, p Params) error {
	if !r.Configured() {
		return ErrNotConfigured
	}
	req := emailJSRequest{
		ServiceID:      r.cfg.ServiceID,
		TemplateID:     r.cfg.TemplateID,
		UserID:         r.cfg.PublicKey,
		AccessToken:    r.cfg.PrivateKey,
		TemplateParams: p,
	}
	return r.breaker.Execute(func() error {
		return r.post(ctx, req)
	})
}

func (r *EmailJSRelay) post(ctx context.Context, req emailJSRequest) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(r.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to call email relay: %w", err)
	}
	if resp.IsSuccess() {
		return nil
	}

	body := strings.TrimSpace(resp.String())
	if resp.StatusCode() == http.StatusRequestEntityTooLarge || strings.Contains(strings.ToLower(body), "size limit") {
		return fmt.Errorf("%w: %s", ErrPayloadTooLarge, body)
	}
	return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode(), body)
}
