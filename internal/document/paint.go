package document

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// painter draws laid-out pages. It never moves a block; every y comes from
// Paginate.
type painter struct {
	pdf       *fpdf.Fpdf
	tr        func(string) string
	g         Geometry
	practice  Practice
	patient   string
	generated time.Time
	pages     int
}

func (p *painter) setFill(c RGB)  { p.pdf.SetFillColor(c.R, c.G, c.B) }
func (p *painter) setDraw(c RGB)  { p.pdf.SetDrawColor(c.R, c.G, c.B) }
func (p *painter) setColor(c RGB) { p.pdf.SetTextColor(c.R, c.G, c.B) }

func (p *painter) fillRect(x, y, w, h float64, c RGB) {
	p.setFill(c)
	p.pdf.Rect(x, y, w, h, "F")
}

func (p *painter) rule(x1, y, x2 float64, c RGB, width float64) {
	p.setDraw(c)
	p.pdf.SetLineWidth(width)
	p.pdf.Line(x1, y, x2, y)
}

// text draws s with its line box starting at top.
func (p *painter) text(x, top float64, f Font, c RGB, s string) {
	p.pdf.SetFont(f.Family, f.Style, f.Size)
	p.setColor(c)
	p.pdf.Text(x, f.baseline(top), p.tr(s))
}

func (p *painter) textRight(right, top float64, f Font, c RGB, s string) {
	p.pdf.SetFont(f.Family, f.Style, f.Size)
	w := p.pdf.GetStringWidth(p.tr(s))
	p.text(right-w, top, f, c, s)
}

func (p *painter) lines(x, top float64, f Font, c RGB, lines []string) {
	for i, l := range lines {
		p.text(x, top+float64(i)*f.LineHeight(), f, c, l)
	}
}

func (p *painter) page(pg Page) {
	p.pdf.AddPage()
	if pg.Number == 1 {
		p.banner()
	} else {
		p.band()
	}
	for _, pl := range pg.Placements {
		p.draw(pl)
	}
	p.footer(pg.Number)
}

func (p *painter) banner() {
	g := p.g
	p.fillRect(0, 0, g.PageWidth, g.BannerHeight, colorDark)
	p.fillRect(0, g.BannerHeight, g.PageWidth, g.AccentHeight, colorTeal)

	p.pdf.SetFont("Helvetica", "B", 22)
	p.setColor(colorWhite)
	p.pdf.Text(g.Margin, 22, p.tr(p.practice.Name))

	p.pdf.SetFont("Helvetica", "", 10)
	p.setColor(colorMuted)
	p.pdf.Text(g.Margin, 30, p.tr(p.practice.Tagline))

	p.pdf.SetFont("Helvetica", "B", 11)
	p.setColor(colorTealLt)
	p.pdf.Text(g.Margin, 44, "NEW PATIENT INTAKE")

	p.pdf.SetFont("Helvetica", "", 9)
	date := p.tr(p.generated.Format("January 2, 2006"))
	p.setColor(colorMuted)
	p.pdf.Text(g.PageWidth-g.Margin-p.pdf.GetStringWidth(date), 44, date)
}

func (p *painter) band() {
	g := p.g
	p.fillRect(0, 0, g.PageWidth, g.SlimBandHeight, colorDark)
	p.fillRect(0, g.SlimBandHeight, g.PageWidth, g.AccentHeight, colorTeal)
	p.text(g.Margin, 5, fontValue, colorWhite, p.practice.Name+"  ·  New Patient Intake")
	if p.patient != "" {
		p.textRight(g.PageWidth-g.Margin, 5, fontBody, colorMuted, p.patient)
	}
}

func (p *painter) footer(n int) {
	g := p.g
	y := g.Bottom + g.FooterRuleOffset
	p.rule(g.Margin, y, g.PageWidth-g.Margin, colorRule, 0.3)
	stamp := fmt.Sprintf("Generated %s  ·  Page %d of %d",
		p.generated.Format("Jan 2, 2006 3:04 PM MST"), n, p.pages)
	p.text(g.Margin, y+2, fontFooter, colorMid, stamp)
	p.text(g.Margin, y+5.5, fontFooter, colorMid, p.practice.contactLine())
	p.textRight(g.PageWidth-g.Margin, y+2, fontFooter, colorFaint, "CONFIDENTIAL")
}

func (p *painter) draw(pl Placement) {
	g := p.g
	x, y, w := g.Margin, pl.Y, g.ContentWidth()

	switch b := pl.Block.(type) {
	case *SectionHeader:
		top := y + 3
		p.text(x+1, top, fontSection, colorTeal, b.Title)
		if b.Note != "" {
			p.textRight(x+w, top+0.4, fontLabel, colorMid, b.Note)
		}
		p.rule(x, top+fontSection.LineHeight()+1.5, x+w, colorTeal, 0.3)

	case *Caption:
		p.text(x+cellGutter, y+padY, fontTableHdr, colorMid, b.Title)

	case *FieldRow:
		if b.Shade {
			p.fillRect(x, y, w, b.Height(), colorLightBg)
		}
		for _, c := range b.Cells {
			p.cell(c, y+padY)
		}

	case *Columns:
		h := b.Height()
		p.fillRect(x, y, w, h, colorLightBg)
		mid := x + w/2
		p.setDraw(colorRule)
		p.pdf.SetLineWidth(0.3)
		p.pdf.Line(mid, y+padY, mid, y+h-padY)
		for _, col := range []Column{b.Left, b.Right} {
			if len(col.Cells) == 0 {
				continue
			}
			top := y + padY
			p.text(col.Cells[0].X, top, fontSubhead, colorDark, col.Title)
			top += fontSubhead.LineHeight() + padY
			for _, c := range col.Cells {
				p.cell(c, top)
				top += c.height() + padY
			}
		}

	case *Paragraph:
		top := y + padY
		if b.Label != "" {
			p.text(x+cellGutter, top, fontLabel, colorMid, b.DisplayLabel())
			top += b.labelHeight()
		}
		p.lines(x+cellGutter, top, b.font(), colorDark, b.Lines)

	case *TableRow:
		h := b.Height()
		switch {
		case b.Header:
			p.fillRect(x, y, w, h, colorRule)
		case b.Shade:
			p.fillRect(x, y, w, h, colorLightBg)
		}
		cx := x
		for i, lines := range b.Cells {
			p.lines(cx+2, y+padY, b.font(), colorDark, lines)
			cx += b.Widths[i]
		}

	case *QuestionRow:
		if b.Shade {
			p.fillRect(x, y, w, b.Height(), colorLightBg)
		}
		top := y + padY
		p.text(x+2, top, fontQuestion, colorMid, b.Marker)
		p.lines(x+markerWidth, top, fontQuestion, colorDark, b.Lines)
		answerColor := colorDark
		if !b.Answered {
			answerColor = colorFaint
		}
		p.lines(x+w-answerWidth, top, fontAnswer, answerColor, b.Answer)

	case *SummaryLine:
		p.rule(x, y+1, x+w, colorRule, 0.3)
		p.text(x+2, y+2.5, fontSummary, colorDark, b.Label)
		if b.Detail != "" {
			p.textRight(x+w-2, y+2.8, fontValue, colorTeal, b.Detail)
		}

	case *Alert:
		h := b.Height()
		p.fillRect(x, y+padY, w, h-2*padY, colorAlertBg)
		p.fillRect(x, y+padY, 1.5, h-2*padY, colorAlert)
		top := y + 2*padY
		p.text(x+cellGutter, top, fontValue, colorAlert, b.DisplayTitle())
		p.lines(x+cellGutter, top+fontValue.LineHeight(), fontBody, colorDark, b.Lines)

	case *Spacer:
	}
}

func (p *painter) cell(c Cell, top float64) {
	p.text(c.X+2, top, fontLabel, colorMid, c.Label)
	p.lines(c.X+2, top+fontLabel.LineHeight(), fontValue, colorDark, c.Lines)
}
