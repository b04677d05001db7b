package export

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

const (
	svgLineStyle   = "stroke:#888888;stroke-width:1;fill:none"
	svgTextStyle   = "font-family:monospace;font-size:12px;fill:#222222"
	svgTitleStyle  = "font-family:sans-serif;font-size:16px;font-weight:bold;fill:#222222"
	svgGroupStyle  = "fill:#3b6ea5"
	svgClosedStyle = "fill:#ffffff;stroke:#3b6ea5;stroke-width:1.5"
	svgLeafStyle   = "fill:#999999"
)

// SVG draws the visible sequence of forest as an indented outline.
func SVG(w io.Writer, forest *tree.Forest, opts Options) error {
	l := newLayout(forest, opts)
	canvas := svg.New(w)
	canvas.Start(l.width, l.height)
	canvas.Rect(0, 0, l.width, l.height, "fill:#ffffff")

	if opts.Title != "" {
		canvas.Text(margin, margin+16, opts.Title, svgTitleStyle)
	}

	canvas.Gid("edges")
	for i := range l.rows {
		from, corner, to, ok := l.elbow(i)
		if !ok {
			continue
		}
		canvas.Polyline([]int{from.x, corner.x, to.x}, []int{from.y, corner.y, to.y}, svgLineStyle)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for i, row := range l.rows {
		m := l.marker(i)
		switch {
		case row.Node.IsExpanded():
			canvas.Circle(m.x, m.y, markerSize, svgGroupStyle)
		case row.Node.IsGroup():
			canvas.Circle(m.x, m.y, markerSize, svgClosedStyle)
		default:
			canvas.Circle(m.x, m.y, markerSize/2, svgLeafStyle)
		}
		t := l.text(i)
		canvas.Text(t.x, t.y, row.Label, svgTextStyle)
	}
	canvas.Gend()

	canvas.End()
	return nil
}
