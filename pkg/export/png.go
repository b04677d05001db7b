package export

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// PNG draws the visible sequence of forest as an indented outline.
func PNG(w io.Writer, forest *tree.Forest, opts Options) error {
	l := newLayout(forest, opts)
	dc := gg.NewContext(l.width, l.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if opts.Title != "" {
		dc.SetRGB(0.13, 0.13, 0.13)
		dc.DrawString(opts.Title, margin, margin+16)
	}

	dc.SetRGB(0.53, 0.53, 0.53)
	dc.SetLineWidth(1)
	for i := range l.rows {
		from, corner, to, ok := l.elbow(i)
		if !ok {
			continue
		}
		dc.MoveTo(float64(from.x), float64(from.y))
		dc.LineTo(float64(corner.x), float64(corner.y))
		dc.LineTo(float64(to.x), float64(to.y))
		dc.Stroke()
	}

	for i, row := range l.rows {
		m := l.marker(i)
		x, y := float64(m.x), float64(m.y)
		switch {
		case row.Node.IsExpanded():
			dc.SetRGB(0.23, 0.43, 0.65)
			dc.DrawCircle(x, y, markerSize)
			dc.Fill()
		case row.Node.IsGroup():
			dc.SetRGB(0.23, 0.43, 0.65)
			dc.DrawCircle(x, y, markerSize)
			dc.Stroke()
		default:
			dc.SetRGB(0.6, 0.6, 0.6)
			dc.DrawCircle(x, y, markerSize/2)
			dc.Fill()
		}
		t := l.text(i)
		dc.SetRGB(0.13, 0.13, 0.13)
		dc.DrawString(row.Label, float64(t.x), float64(t.y))
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
