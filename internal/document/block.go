package document

// Block is one drawable unit. Its height is fixed when the block is built so
// pagination never has to guess.
type Block interface {
	Height() float64
	// Text returns the strings the block prints, in reading order.
	Text() []string
}

// Splitter is a block that may continue on the next page.
type Splitter interface {
	Block
	// Split returns a head no taller than avail and the remainder. ok is
	// false when not even a minimal head fits.
	Split(avail float64) (head, tail Block, ok bool)
	// MinHeight is the height of the smallest head Split can return.
	MinHeight() float64
}

// SectionHeader titles a section. It is never left alone at the bottom of a
// page.
type SectionHeader struct {
	Title string
	Note  string
}

func (b *SectionHeader) Height() float64    { return sectionHeight }
func (b *SectionHeader) KeepWithNext() bool { return true }
func (b *SectionHeader) Text() []string {
	if b.Note == "" {
		return []string{b.Title}
	}
	return []string{b.Title, b.Note}
}

// Caption labels the table that follows it.
type Caption struct {
	Title string
}

func (b *Caption) Height() float64    { return padY + fontLabel.LineHeight() + padY }
func (b *Caption) KeepWithNext() bool { return true }
func (b *Caption) Text() []string     { return []string{b.Title} }

// Cell is a labelled value inside a FieldRow or a column.
type Cell struct {
	Label string
	Lines []string
	X     float64
	Width float64
}

func (c Cell) height() float64 {
	n := len(c.Lines)
	if n == 0 {
		n = 1
	}
	return fontLabel.LineHeight() + float64(n)*fontValue.LineHeight()
}

// FieldRow is a row of up to three labelled values.
type FieldRow struct {
	Cells []Cell
	Shade bool
}

func (b *FieldRow) Height() float64 {
	h := 0.0
	for _, c := range b.Cells {
		h = max(h, c.height())
	}
	return h + 2*padY
}

func (b *FieldRow) Text() []string {
	var out []string
	for _, c := range b.Cells {
		out = append(out, c.Label)
		out = append(out, c.Lines...)
	}
	return out
}

// Column is one side of a Columns block.
type Column struct {
	Title string
	Cells []Cell
}

func (c Column) height() float64 {
	h := fontSubhead.LineHeight() + padY
	for _, cell := range c.Cells {
		h += cell.height() + padY
	}
	return h
}

// Columns prints two stacks of fields side by side.
type Columns struct {
	Left, Right Column
}

func (b *Columns) Height() float64 {
	return max(b.Left.height(), b.Right.height()) + 2*padY
}

func (b *Columns) Text() []string {
	var out []string
	for _, col := range []Column{b.Left, b.Right} {
		out = append(out, col.Title)
		for _, c := range col.Cells {
			out = append(out, c.Label)
			out = append(out, c.Lines...)
		}
	}
	return out
}

// Paragraph is labelled free text. It splits across pages; every part after
// the first is labelled as continued.
type Paragraph struct {
	Label     string
	Lines     []string
	Continued bool
	Font      Font
}

func (b *Paragraph) font() Font {
	if b.Font.Size == 0 {
		return fontBody
	}
	return b.Font
}

func (b *Paragraph) labelHeight() float64 {
	if b.Label == "" {
		return 0
	}
	return fontLabel.LineHeight()
}

func (b *Paragraph) Height() float64 {
	return 2*padY + b.labelHeight() + float64(max(len(b.Lines), 1))*b.font().LineHeight()
}

func (b *Paragraph) MinHeight() float64 {
	return 2*padY + b.labelHeight() + b.font().LineHeight()
}

func (b *Paragraph) Split(avail float64) (Block, Block, bool) {
	n := int((avail - 2*padY - b.labelHeight()) / b.font().LineHeight())
	if n < 1 || n >= len(b.Lines) {
		return nil, nil, false
	}
	head := &Paragraph{Label: b.Label, Lines: b.Lines[:n], Continued: b.Continued, Font: b.Font}
	tail := &Paragraph{Label: b.Label, Lines: b.Lines[n:], Continued: true, Font: b.Font}
	return head, tail, true
}

// DisplayLabel is the label as printed.
func (b *Paragraph) DisplayLabel() string {
	if b.Continued && b.Label != "" {
		return b.Label + " (continued)"
	}
	return b.Label
}

func (b *Paragraph) Text() []string {
	out := make([]string, 0, len(b.Lines)+1)
	if b.Label != "" {
		out = append(out, b.DisplayLabel())
	}
	return append(out, b.Lines...)
}

// TableRow is one row of a medication table.
type TableRow struct {
	Cells  [][]string
	Widths []float64
	Header bool
	Shade  bool
}

func (b *TableRow) font() Font {
	if b.Header {
		return fontTableHdr
	}
	return fontTable
}

func (b *TableRow) KeepWithNext() bool { return b.Header }

func (b *TableRow) Height() float64 {
	n := 1
	for _, c := range b.Cells {
		n = max(n, len(c))
	}
	return 2*padY + float64(n)*b.font().LineHeight()
}

func (b *TableRow) Text() []string {
	var out []string
	for _, c := range b.Cells {
		out = append(out, c...)
	}
	return out
}

// QuestionRow is one instrument item with its answer.
type QuestionRow struct {
	Marker   string
	Lines    []string
	Answer   []string
	Answered bool
	Shade    bool
}

func (b *QuestionRow) Height() float64 {
	n := max(len(b.Lines), len(b.Answer), 1)
	return 2*padY + float64(n)*fontQuestion.LineHeight()
}

func (b *QuestionRow) Text() []string {
	out := append([]string{b.Marker}, b.Lines...)
	return append(out, b.Answer...)
}

// SummaryLine closes an instrument block with its score.
type SummaryLine struct {
	Label  string
	Detail string
}

func (b *SummaryLine) Height() float64 { return summaryHeight }
func (b *SummaryLine) Text() []string {
	if b.Detail == "" {
		return []string{b.Label}
	}
	return []string{b.Label, b.Detail}
}

// Alert is a high-salience notice. Long notices split across pages and keep
// the alert styling on every part.
type Alert struct {
	Title     string
	Lines     []string
	Continued bool
}

func (b *Alert) Height() float64 {
	return 4*padY + fontValue.LineHeight() + float64(len(b.Lines))*fontBody.LineHeight()
}

func (b *Alert) MinHeight() float64 {
	return 4*padY + fontValue.LineHeight() + fontBody.LineHeight()
}

func (b *Alert) Split(avail float64) (Block, Block, bool) {
	n := int((avail - 4*padY - fontValue.LineHeight()) / fontBody.LineHeight())
	if n < 1 || n >= len(b.Lines) {
		return nil, nil, false
	}
	head := &Alert{Title: b.Title, Lines: b.Lines[:n], Continued: b.Continued}
	tail := &Alert{Title: b.Title, Lines: b.Lines[n:], Continued: true}
	return head, tail, true
}

// DisplayTitle is the title as printed.
func (b *Alert) DisplayTitle() string {
	if b.Continued {
		return b.Title + " (continued)"
	}
	return b.Title
}

func (b *Alert) Text() []string {
	return append([]string{b.DisplayTitle()}, b.Lines...)
}

// Spacer is vertical space. It is dropped at the top of a page.
type Spacer struct{ H float64 }

func (b *Spacer) Height() float64 { return b.H }
func (b *Spacer) Text() []string  { return nil }
