package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/lifebalance/intake-api/internal/model"
)

// Practice is the letterhead printed on every document.
type Practice struct {
	Name         string
	Tagline      string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	// Region is the default phone region, e.g. "US".
	Region string
}

func (p Practice) contactLine() string {
	return joinNonEmpty("  ·  ", p.Phone, joinNonEmpty(", ", p.AddressLine1, p.AddressLine2))
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, sep)
}

type Options struct {
	Practice       Practice
	FilenamePrefix string
	// Location is the zone of the printed timestamps. Defaults to UTC.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// OnRender, when set, is called after every successful render.
	OnRender func(pages int, took time.Duration)
}

// Renderer turns intake records into PDF documents. It holds no per-record
// state and is safe for concurrent use.
type Renderer struct {
	practice Practice
	prefix   string
	loc      *time.Location
	now      func() time.Time
	onRender func(pages int, took time.Duration)
	geometry Geometry
}

func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		practice: opts.Practice,
		prefix:   opts.FilenamePrefix,
		loc:      opts.Location,
		now:      opts.Now,
		onRender: opts.OnRender,
		geometry: A4(),
	}
	if r.prefix == "" {
		r.prefix = "Intake"
	}
	if r.loc == nil {
		r.loc = time.UTC
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Geometry returns the page frame used for layout.
func (r *Renderer) Geometry() Geometry { return r.geometry }

// Layout runs the layout pass alone: compose then paginate.
func (r *Renderer) Layout(rec model.IntakeRecord, m Measurer) []Page {
	return Paginate(Compose(rec, m, r.geometry, r.practice.Region), r.geometry)
}

// Render lays out rec and paints it. Text is encoded in cp1252, the code page
// of the core PDF fonts.
func (r *Renderer) Render(rec model.IntakeRecord) ([]byte, error) {
	start := time.Now()
	pdf := newPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pages := r.Layout(rec, newPDFMeasurer(pdf, tr))

	generated := r.now().In(r.loc)
	title := "New Patient Intake"
	if name := strings.TrimSpace(rec.PatientName); name != "" {
		title += ": " + name
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor(r.practice.Name, true)
	pdf.SetCreator("intake-api", false)
	pdf.SetCreationDate(generated)

	p := &painter{
		pdf:       pdf,
		tr:        tr,
		g:         r.geometry,
		practice:  r.practice,
		patient:   strings.TrimSpace(rec.PatientName),
		generated: generated,
		pages:     len(pages),
	}
	for _, pg := range pages {
		p.page(pg)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	if r.onRender != nil {
		r.onRender(len(pages), time.Since(start))
	}
	return buf.Bytes(), nil
}

// Filename is "<prefix>_<Patient-Name>.pdf" with whitespace runs turned into
// dashes and anything unsafe in a file name dropped.
func (r *Renderer) Filename(rec model.IntakeRecord) string {
	name := strings.Join(strings.Fields(rec.PatientName), "-")
	name = strings.Map(func(c rune) rune {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' || c == '.' {
			return c
		}
		return -1
	}, name)
	name = strings.Trim(name, ".")
	if name == "" {
		name = "Patient"
	}
	return r.prefix + "_" + name + ".pdf"
}
