// Package document lays out an intake record on A4 pages and paints the
// layout into a PDF.
//
// Rendering happens in two passes. Compose turns a record into a flat list of
// blocks whose heights are known up front, and Paginate assigns every block a
// page and a vertical position. Only then does the paint pass draw the pages.
package document

// Geometry is the fixed page frame in millimetres.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	// FirstTop is where content starts under the full banner on page one.
	FirstTop float64
	// Top is where content starts under the slim band of later pages.
	Top float64
	// Bottom is the lowest y any block may reach. The footer is painted
	// below it.
	Bottom float64

	BannerHeight     float64
	SlimBandHeight   float64
	AccentHeight     float64
	FooterRuleOffset float64
}

// A4 is the default frame.
func A4() Geometry {
	return Geometry{
		PageWidth:        210,
		PageHeight:       297,
		Margin:           20,
		FirstTop:         64,
		Top:              26,
		Bottom:           275,
		BannerHeight:     52,
		SlimBandHeight:   14,
		AccentHeight:     2,
		FooterRuleOffset: 4,
	}
}

// ContentWidth is the usable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// PageTop returns where content starts on page n (1-based).
func (g Geometry) PageTop(n int) float64 {
	if n <= 1 {
		return g.FirstTop
	}
	return g.Top
}

// Usable is the content height of a continuation page. No single block is
// ever taller than this.
func (g Geometry) Usable() float64 {
	return g.Bottom - g.Top
}
