package document

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

// Measurer reports the printed width of a string in millimetres.
type Measurer interface {
	TextWidth(f Font, s string) float64
}

// pdfMeasurer measures with the core font metrics of an fpdf document. Strings
// go through the same code page translation the paint pass uses.
type pdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFMeasurer(pdf *fpdf.Fpdf, tr func(string) string) *pdfMeasurer {
	return &pdfMeasurer{pdf: pdf, tr: tr}
}

func (m *pdfMeasurer) TextWidth(f Font, s string) float64 {
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.tr(s))
}

// NewMeasurer returns a standalone measurer backed by fpdf core font
// metrics.
func NewMeasurer() Measurer {
	pdf := newPDF()
	return newPDFMeasurer(pdf, pdf.UnicodeTranslatorFromDescriptor(""))
}

func newPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	return pdf
}

// WrapText breaks s into lines no wider than width. Lines break at spaces;
// explicit newlines start a new line; a word wider than width is cut between
// runes. Empty input yields no lines.
func WrapText(m Measurer, f Font, s string, width float64) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, " \t\n")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if m.TextWidth(f, candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if m.TextWidth(f, w) <= width {
				line = w
				continue
			}
			chunks := breakWord(m, f, w, width)
			lines = append(lines, chunks[:len(chunks)-1]...)
			line = chunks[len(chunks)-1]
		}
		lines = append(lines, line)
	}
	return lines
}

func breakWord(m Measurer, f Font, w string, width float64) []string {
	var chunks []string
	var cur []rune
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && m.TextWidth(f, string(next)) > width {
			chunks = append(chunks, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	return append(chunks, string(cur))
}

// clampLines keeps at most n lines, marking the cut on the last kept line.
func clampLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	out := append([]string(nil), lines[:n]...)
	out[n-1] = strings.TrimRight(out[n-1], " ") + " ..."
	return out
}
