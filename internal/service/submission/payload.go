package submission

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/lifebalance/intake-api/internal/email"
	"github.com/lifebalance/intake-api/internal/measure"
	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/pkg/phone"
)

const (
	omittedNote    = "Note: the PDF attachment was omitted from this message."
	downloadedNote = " The patient downloaded a copy and can provide it on request."
	draftNote      = "(A formatted PDF was also downloaded. Please attach it to this email.)"

	// mailtoReasonLimit keeps the draft link inside what mail clients accept.
	mailtoReasonLimit = 500
)

// Headlines are the one-line score summaries sent with every delivery path.
type Headlines struct {
	PHQ9 string
	GAD7 string
	MDQ  string
	PCLC string
	ASRS string
}

// NewHeadlines summarizes s.
func NewHeadlines(s measure.Summary) Headlines {
	screen := "negative screen"
	if s.MDQ.PositiveScreen {
		screen = "positive screen"
	}
	return Headlines{
		PHQ9: fmt.Sprintf("%d (%s)", s.PHQ9.Total, s.PHQ9.Severity),
		GAD7: fmt.Sprintf("%d (%s)", s.GAD7.Total, s.GAD7.Severity),
		MDQ:  fmt.Sprintf("%d/%d Yes, %s", s.MDQ.YesCount, s.MDQ.Items, screen),
		PCLC: fmt.Sprintf("%d (%s)", s.PCLC.Total, s.PCLC.Severity),
		ASRS: fmt.Sprintf("Part A %d/%d flagged", s.ASRS.PartAFlags, measure.ASRSPartAItems),
	}
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "(none)"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

// messageBody is the plain-text summary used as the relay message and the
// draft body. reasonLimit of 0 keeps the full reason for visit.
func messageBody(rec model.IntakeRecord, region string, reasonLimit int) string {
	h := NewHeadlines(rec.Scores())
	reason := strings.TrimSpace(rec.ReasonForVisit)
	if reasonLimit > 0 {
		reason = truncate(reason, reasonLimit)
	}

	var b strings.Builder
	b.WriteString("New Patient Intake Request\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "Name: %s\n", rec.PatientName)
	fmt.Fprintf(&b, "Date of Birth: %s\n", orNone(rec.DOB))
	fmt.Fprintf(&b, "Email: %s\n", rec.Email)
	fmt.Fprintf(&b, "Phone: %s\n\n", phone.Format(rec.PrimaryPhone, region))
	b.WriteString("--- Screening Scores ---\n")
	fmt.Fprintf(&b, "PHQ-9: %s\n", h.PHQ9)
	fmt.Fprintf(&b, "GAD-7: %s\n", h.GAD7)
	fmt.Fprintf(&b, "MDQ: %s\n", h.MDQ)
	fmt.Fprintf(&b, "PCL-C: %s\n", h.PCLC)
	fmt.Fprintf(&b, "ASRS: %s\n\n", h.ASRS)
	if rec.SuicidalThoughts {
		b.WriteString("SAFETY: patient reports thoughts of suicide or self-harm.\n\n")
	}
	fmt.Fprintf(&b, "Reason for Visit:\n%s\n\n", orNone(reason))
	fmt.Fprintf(&b, "Additional Notes:\n%s", orNone(rec.AdditionalInfo))
	return b.String()
}

func subject(rec model.IntakeRecord) string {
	return "New Patient Intake: " + strings.TrimSpace(rec.PatientName)
}

// BuildParams assembles the relay payload. doc may be empty, in which case no
// attachment is included.
func BuildParams(rec model.IntakeRecord, doc []byte, filename string, cfg Config) email.Params {
	h := NewHeadlines(rec.Scores())
	p := email.Params{
		email.ParamFromName:  rec.PatientName,
		email.ParamFromEmail: rec.Email,
		email.ParamFromPhone: phone.Format(rec.PrimaryPhone, cfg.Region),
		email.ParamToEmail:   cfg.IntakeEmail,
		email.ParamSubject:   subject(rec),
		email.ParamMessage:   messageBody(rec, cfg.Region, 0),
		email.ParamPHQ9:      h.PHQ9,
		email.ParamGAD7:      h.GAD7,
		email.ParamMDQ:       h.MDQ,
		email.ParamPCLC:      h.PCLC,
		email.ParamASRS:      h.ASRS,
	}
	if len(doc) > 0 {
		p[email.ParamAttachment] = base64.StdEncoding.EncodeToString(doc)
		p[email.ParamAttachmentName] = filename
	}
	return p
}

// withoutAttachment strips the document and notes its absence in the message.
// downloaded tells whether the patient was handed a copy.
func withoutAttachment(p email.Params, downloaded bool) email.Params {
	note := omittedNote
	if downloaded {
		note += downloadedNote
	}
	out := p.WithoutAttachment()
	out[email.ParamMessage] = out[email.ParamMessage] + "\n\n" + note
	return out
}

// escape percent-encodes s for a mailto URL (RFC 6068): spaces become %20,
// never '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MailtoURL builds the pre-filled draft to the practice inbox. withDocument
// adds the reminder to attach the downloaded PDF.
func MailtoURL(rec model.IntakeRecord, cfg Config, withDocument bool) string {
	body := messageBody(rec, cfg.Region, mailtoReasonLimit) + "\n"
	if withDocument {
		body += "\n" + draftNote + "\n"
	}
	return "mailto:" + cfg.IntakeEmail +
		"?subject=" + escape(subject(rec)) +
		"&body=" + escape(body)
}
