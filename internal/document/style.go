package document

// ptToMM converts a font size in points to millimetres.
const ptToMM = 25.4 / 72

// lineSpacing is the leading applied to every font.
const lineSpacing = 1.3

type RGB struct{ R, G, B int }

var (
	colorDark    = RGB{15, 23, 42}
	colorTeal    = RGB{15, 118, 110}
	colorTealLt  = RGB{94, 234, 212}
	colorMid     = RGB{100, 116, 139}
	colorMuted   = RGB{148, 163, 184}
	colorFaint   = RGB{180, 190, 200}
	colorLightBg = RGB{248, 250, 252}
	colorRule    = RGB{226, 232, 240}
	colorWhite   = RGB{255, 255, 255}
	colorAlert   = RGB{185, 28, 28}
	colorAlertBg = RGB{254, 242, 242}
)

// Font is a core PDF font at a given size.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// LineHeight is the height of one wrapped line in millimetres.
func (f Font) LineHeight() float64 {
	return f.Size * ptToMM * lineSpacing
}

// baseline returns the text baseline for a line whose box starts at top.
func (f Font) baseline(top float64) float64 {
	return top + f.Size*ptToMM*1.02
}

var (
	fontSection  = Font{"Helvetica", "B", 8}
	fontLabel    = Font{"Helvetica", "", 7}
	fontValue    = Font{"Helvetica", "B", 9}
	fontBody     = Font{"Helvetica", "", 9}
	fontSubhead  = Font{"Helvetica", "B", 8.5}
	fontQuestion = Font{"Helvetica", "", 8.5}
	fontAnswer   = Font{"Helvetica", "B", 8.5}
	fontTableHdr = Font{"Helvetica", "B", 7.5}
	fontTable    = Font{"Helvetica", "", 8.5}
	fontSummary  = Font{"Helvetica", "B", 10}
	fontFooter   = Font{"Helvetica", "", 7}
)

// Vertical spacing inside blocks.
const (
	padY          = 1.8
	sectionHeight = 11
	summaryHeight = 9
	cellGutter    = 4
	// maxCellLines caps a table or grid cell. Long free text goes into
	// paragraphs, which split across pages instead.
	maxCellLines = 8
)
