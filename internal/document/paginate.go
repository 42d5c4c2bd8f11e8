package document

// Placement positions a block on a page.
type Placement struct {
	Y     float64
	Block Block
}

// Page is one laid-out page. Number is 1-based.
type Page struct {
	Number     int
	Placements []Placement
}

type paginator struct {
	g     Geometry
	pages []Page
	y     float64
}

// Paginate assigns every block a page and a y position. Before a block is
// placed the cursor plus its height is checked against the bottom margin; a
// block that does not fit moves to a new page, or is split there when it is a
// Splitter. A section header moves along with the start of the next block.
func Paginate(blocks []Block, g Geometry) []Page {
	p := &paginator{g: g}
	p.newPage()
	for i, b := range blocks {
		var next Block
		if i+1 < len(blocks) {
			next = blocks[i+1]
		}
		for b != nil {
			b = p.add(b, next)
		}
	}
	return p.pages
}

func (p *paginator) newPage() {
	n := len(p.pages) + 1
	p.pages = append(p.pages, Page{Number: n})
	p.y = p.g.PageTop(n)
}

func (p *paginator) current() *Page {
	return &p.pages[len(p.pages)-1]
}

func (p *paginator) empty() bool {
	return len(p.current().Placements) == 0
}

func (p *paginator) place(b Block) {
	pg := p.current()
	pg.Placements = append(pg.Placements, Placement{Y: p.y, Block: b})
	p.y += b.Height()
}

// add places as much of b as fits and returns what is left for the next
// page.
func (p *paginator) add(b Block, next Block) Block {
	if _, ok := b.(*Spacer); ok {
		if !p.empty() && p.y+b.Height() <= p.g.Bottom {
			p.place(b)
		}
		return nil
	}

	need := b.Height()
	if k, ok := b.(interface{ KeepWithNext() bool }); ok && k.KeepWithNext() && next != nil {
		need += leadHeight(next)
	}
	if p.y+need <= p.g.Bottom {
		p.place(b)
		return nil
	}
	if s, ok := b.(Splitter); ok {
		if head, tail, ok := s.Split(p.g.Bottom - p.y); ok {
			p.place(head)
			p.newPage()
			return tail
		}
	}
	if !p.empty() {
		p.newPage()
		return b
	}
	// Nothing smaller is possible on a fresh page.
	p.place(b)
	return nil
}

// leadHeight is the least of b that must share a page with a header above it.
func leadHeight(b Block) float64 {
	if s, ok := b.(Splitter); ok {
		return s.MinHeight()
	}
	return b.Height()
}
