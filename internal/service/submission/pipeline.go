// Package submission delivers a finished intake to the practice. It tries the
// email relay with the document attached, retries once without it, and falls
// back to a download link plus a pre-filled mail draft.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lifebalance/intake-api/internal/email"
	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
	"github.com/lifebalance/intake-api/pkg/metrics"
)

// Delivery names the path that completed a submission.
type Delivery string

const (
	DeliveryRelay                  Delivery = "relay"
	DeliveryRelayWithoutAttachment Delivery = "relay_without_attachment"
	DeliveryFallback               Delivery = "fallback"
	DeliveryNone                   Delivery = "none"
)

// DownloadPath is the route the fallback download is served from.
const DownloadPath = "/api/v1/downloads/"

// Result is what the caller learns about a submission. Success is true when
// any path completed, including the fallback, which does not prove the
// practice received anything.
type Result struct {
	Success            bool     `json:"success"`
	Error              string   `json:"error,omitempty"`
	Delivery           Delivery `json:"delivery"`
	AttachmentIncluded bool     `json:"attachmentIncluded"`
	Attempts           int      `json:"attempts"`
	Filename           string   `json:"filename,omitempty"`
	DownloadURL        string   `json:"downloadUrl,omitempty"`
	MailtoURL          string   `json:"mailtoUrl,omitempty"`
}

// Renderer produces the intake document.
type Renderer interface {
	Render(rec model.IntakeRecord) ([]byte, error)
	Filename(rec model.IntakeRecord) string
}

type Config struct {
	// IntakeEmail receives every intake.
	IntakeEmail string
	// MaxPayloadBytes is the relay's size ceiling. A payload above it is
	// treated as rejected without being sent. Zero disables the check.
	MaxPayloadBytes int
	// PublicBaseURL prefixes download links, e.g. "https://intake.example.com".
	PublicBaseURL string
	// Region is the default phone region.
	Region string
}

type Pipeline struct {
	renderer  Renderer
	relay     email.Relay
	downloads repository.DownloadRepository
	cfg       Config
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPipeline wires a pipeline. relay may be nil, which sends every intake
// through the fallback.
func NewPipeline(renderer Renderer, relay email.Relay, downloads repository.DownloadRepository, cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		renderer:  renderer,
		relay:     relay,
		downloads: downloads,
		cfg:       cfg,
		metrics:   m,
		logger:    logger.With().Str("component", "submission").Logger(),
		now:       time.Now,
	}
}

// Submit runs the pipeline once. The steps only move forward: render, check
// the relay, send with the attachment, send once more without it, fall back.
func (p *Pipeline) Submit(ctx context.Context, rec model.IntakeRecord) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("submission pipeline panicked")
			result = Result{Success: false, Error: "internal error", Delivery: DeliveryNone}
		}
		if p.metrics != nil {
			p.metrics.Submissions.WithLabelValues(string(result.Delivery)).Inc()
		}
	}()

	doc, filename := p.generate(rec)

	if p.relay == nil || !p.relay.Configured() {
		p.logger.Info().Msg("email relay not configured, using fallback")
		return p.fallback(rec, p.park(ctx, doc, filename), filename, 0)
	}

	params := BuildParams(rec, doc, filename, p.cfg)
	attempts := 1
	err := p.send(ctx, params)
	if err == nil {
		return Result{
			Success:            true,
			Delivery:           DeliveryRelay,
			AttachmentIncluded: params.HasAttachment(),
			Attempts:           attempts,
			Filename:           filename,
		}
	}
	if !params.HasAttachment() {
		// A retry would send the same payload.
		p.logger.Warn().Err(err).Msg("relay attempt without attachment failed, using fallback")
		return p.fallback(rec, "", filename, attempts)
	}
	p.logger.Warn().Err(err).Msg("relay attempt failed, retrying without attachment")

	downloadURL := p.park(ctx, doc, filename)
	attempts++
	if err = p.send(ctx, withoutAttachment(params, downloadURL != "")); err == nil {
		return Result{
			Success:     true,
			Delivery:    DeliveryRelayWithoutAttachment,
			Attempts:    attempts,
			Filename:    filename,
			DownloadURL: downloadURL,
		}
	}
	p.logger.Warn().Err(err).Msg("relay retry failed, using fallback")
	return p.fallback(rec, downloadURL, filename, attempts)
}

// generate renders the document. A failure or panic leaves doc empty and
// never stops the submission.
func (p *Pipeline) generate(rec model.IntakeRecord) (doc []byte, filename string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("document generation panicked")
			p.renderFailed()
			doc = nil
		}
	}()

	filename = p.renderer.Filename(rec)
	doc, err := p.renderer.Render(rec)
	if err != nil {
		p.logger.Error().Err(err).Msg("document generation failed, continuing without attachment")
		p.renderFailed()
		return nil, filename
	}
	return doc, filename
}

func (p *Pipeline) renderFailed() {
	if p.metrics != nil {
		p.metrics.RenderFailures.Inc()
	}
}

func (p *Pipeline) send(ctx context.Context, params email.Params) error {
	size := params.Size()
	attachment := strconv.FormatBool(params.HasAttachment())

	var err error
	if p.cfg.MaxPayloadBytes > 0 && size > p.cfg.MaxPayloadBytes {
		err = fmt.Errorf("%w: %d bytes, limit %d", email.ErrPayloadTooLarge, size, p.cfg.MaxPayloadBytes)
	} else {
		err = p.relay.Send(ctx, params)
	}

	if p.metrics != nil {
		p.metrics.PayloadBytes.Observe(float64(size))
		p.metrics.RelayAttempts.WithLabelValues(p.relay.Name(), attachment, attemptStatus(err)).Inc()
	}
	return err
}

func attemptStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, email.ErrPayloadTooLarge):
		return "too_large"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// park saves doc for the patient to download and returns its link. Saving is
// best effort; an empty link means there is nothing to download.
func (p *Pipeline) park(ctx context.Context, doc []byte, filename string) string {
	if len(doc) == 0 || p.downloads == nil {
		return ""
	}
	d := &model.Download{
		Token:       uuid.NewString(),
		Filename:    filename,
		ContentType: "application/pdf",
		Data:        doc,
		CreatedAt:   p.now(),
	}
	if err := p.downloads.Save(ctx, d); err != nil {
		p.logger.Error().Err(err).Msg("failed to park download")
		return ""
	}
	return strings.TrimRight(p.cfg.PublicBaseURL, "/") + DownloadPath + d.Token
}

// fallback builds the mail draft around an already parked download.
func (p *Pipeline) fallback(rec model.IntakeRecord, downloadURL, filename string, attempts int) Result {
	return Result{
		Success:     true,
		Delivery:    DeliveryFallback,
		Attempts:    attempts,
		Filename:    filename,
		DownloadURL: downloadURL,
		MailtoURL:   MailtoURL(rec, p.cfg, downloadURL != ""),
	}
}
