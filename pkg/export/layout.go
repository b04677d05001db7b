package export

import "github.com/vanderheijden86/treeview/pkg/tree"

// Drawing metrics shared by the SVG and PNG renderers, in pixels.
const (
	rowHeight   = 22
	indentWidth = 18
	margin      = 12
	markerSize  = 4
	charWidth   = 7
	titleHeight = 28
)

type point struct{ x, y int }

// layout positions the visible rows of a forest.
type layout struct {
	rows   []Row
	top    int
	width  int
	height int
}

func newLayout(forest *tree.Forest, opts Options) layout {
	l := layout{rows: Rows(forest, opts.Label, true), top: margin}
	if opts.Title != "" {
		l.top += titleHeight
	}

	widest := len([]rune(opts.Title)) * charWidth
	for _, row := range l.rows {
		w := row.Node.Level()*indentWidth + 2*markerSize + 6 + len([]rune(row.Label))*charWidth
		if w > widest {
			widest = w
		}
	}
	l.width = widest + 2*margin
	l.height = l.top + len(l.rows)*rowHeight + margin
	return l
}

// marker is the centre of a row's bullet.
func (l layout) marker(i int) point {
	level := l.rows[i].Node.Level()
	return point{
		x: margin + level*indentWidth + markerSize,
		y: l.top + i*rowHeight + rowHeight/2,
	}
}

// text is the baseline origin of a row's label.
func (l layout) text(i int) point {
	m := l.marker(i)
	return point{x: m.x + markerSize + 6, y: m.y + 4}
}

// elbow returns the connector from a row's parent bullet down and across
// to the row, or false for roots.
func (l layout) elbow(i int) (from, corner, to point, ok bool) {
	p := l.rows[i].Parent
	if p < 0 {
		return point{}, point{}, point{}, false
	}
	from = l.marker(p)
	to = l.marker(i)
	corner = point{x: from.x, y: to.y}
	to.x -= markerSize
	from.y += markerSize
	return from, corner, to, true
}
