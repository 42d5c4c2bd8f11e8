// Package email delivers intake messages through an external relay: an
// EmailJS-style HTTP API or a plain SMTP server.
package email

import (
	"context"
	"errors"
	"sort"
)

var (
	ErrNotConfigured   = errors.New("email relay is not configured")
	ErrPayloadTooLarge = errors.New("email payload exceeds the relay limit")
	ErrRejected        = errors.New("email relay rejected the message")
)

// Template parameter keys shared by every relay.
const (
	ParamFromName       = "from_name"
	ParamFromEmail      = "from_email"
	ParamFromPhone      = "from_phone"
	ParamToEmail        = "to_email"
	ParamSubject        = "subject"
	ParamMessage        = "message"
	ParamPHQ9           = "phq9"
	ParamGAD7           = "gad7"
	ParamMDQ            = "mdq"
	ParamPCLC           = "pclc"
	ParamASRS           = "asrs"
	ParamAttachment     = "pdf_attachment"
	ParamAttachmentName = "pdf_filename"
)

// Relay names.
const (
	RelayEmailJS = "emailjs"
	RelaySMTP    = "smtp"
)

// Params is the flat string mapping a relay template is filled from.
// ParamAttachment, when present, holds the document in standard base64.
type Params map[string]string

// Size approximates the encoded size of p: every key and value plus JSON
// quoting and separators.
func (p Params) Size() int {
	n := 2
	for k, v := range p {
		n += len(k) + len(v) + 6
	}
	return n
}

// HasAttachment reports whether p carries a document.
func (p Params) HasAttachment() bool {
	return p[ParamAttachment] != ""
}

// WithoutAttachment returns a copy of p with the document removed.
func (p Params) WithoutAttachment() Params {
	out := make(Params, len(p))
	for k, v := range p {
		if k == ParamAttachment || k == ParamAttachmentName {
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the keys of p in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Relay sends one templated message.
type Relay interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, p Params) error
}

// breakerSuccess keeps errors caused by the message itself or by the caller
// from tripping a relay's breaker.
func breakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrPayloadTooLarge) ||
		errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, context.Canceled)
}
