package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/lifebalance/intake-api/pkg/circuitbreaker"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration

	BreakerFailures int
	BreakerTimeout  time.Duration
}

// SMTPRelay mails the message with the document as a real MIME attachment.
type SMTPRelay struct {
	cfg     SMTPConfig
	breaker *circuitbreaker.CircuitBreaker
}

func NewSMTPRelay(cfg SMTPConfig) *SMTPRelay {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &SMTPRelay{
		cfg: cfg,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:         RelaySMTP,
			MaxFailures:  cfg.BreakerFailures,
			Timeout:      cfg.BreakerTimeout,
			IsSuccessful: breakerSuccess,
		}),
	}
}

func (r *SMTPRelay) Name() string { return RelaySMTP }

func (r *SMTPRelay) Configured() bool {
	return r.cfg.Host != "" && r.cfg.From != ""
}

func (r *SMTPRelay) Send(ctx context.Context, p Params) error {
	if !r.Configured() {
		return ErrNotConfigured
	}
	msg, err := buildMessage(r.cfg, p)
	if err != nil {
		return err
	}
	return r.breaker.Execute(func() error {
		return r.dialAndSend(ctx, msg)
	})
}

func (r *SMTPRelay) dialAndSend(ctx context.Context, msg *gomail.Message) error {
	d := gomail.NewDialer(r.cfg.Host, r.cfg.Port, r.cfg.Username, r.cfg.Password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	wait := r.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < wait {
			wait = left
		}
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err == nil {
			return nil
		}
		// gomail flattens the SMTP reply into the error text. 552 means the
		// message exceeds the server's size limit.
		if strings.Contains(err.Error(), ": 552 ") {
			return fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
		}
		return fmt.Errorf("%w: %v", ErrRejected, err)
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return context.DeadlineExceeded
	}
}

func buildMessage(cfg SMTPConfig, p Params) (*gomail.Message, error) {
	to := strings.TrimSpace(p[ParamToEmail])
	if to == "" {
		return nil, fmt.Errorf("%w: no recipient", ErrRejected)
	}
	subject := p[ParamSubject]
	if subject == "" {
		subject = "New Patient Intake: " + p[ParamFromName]
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", cfg.From, cfg.FromName)
	msg.SetHeader("To", to)
	if reply := strings.TrimSpace(p[ParamFromEmail]); reply != "" {
		msg.SetAddressHeader("Reply-To", reply, p[ParamFromName])
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", p[ParamMessage])

	if encoded := p[ParamAttachment]; encoded != "" {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment: %w", err)
		}
		name := p[ParamAttachmentName]
		if name == "" {
			name = "intake.pdf"
		}
		msg.Attach(name,
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return msg, nil
}
