// Package export renders a tree as a Markdown outline, an SVG drawing or a
// PNG image.
package export

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Options controls what is exported and how rows are labelled.
type Options struct {
	// Title is written above the outline when set.
	Title string
	// Label lists the fields shown for each node. The id is used when
	// none of them is present.
	Label []string
	// VisibleOnly restricts the Markdown outline to the visible sequence.
	// SVG and PNG always draw the visible sequence.
	VisibleOnly bool
}

// Row is one exported line.
type Row struct {
	Node   *tree.Node
	Label  string
	Parent int // index of the parent row, -1 for roots
}

// Rows lists the nodes of forest in pre-order. With visibleOnly the
// children of collapsed groups are skipped.
func Rows(forest *tree.Forest, label []string, visibleOnly bool) []Row {
	var rows []Row
	var walk func(f *tree.Forest, parent int)
	walk = func(f *tree.Forest, parent int) {
		for _, n := range f.Nodes() {
			rows = append(rows, Row{Node: n, Label: Label(n, label), Parent: parent})
			if n.HasChildren() && (!visibleOnly || n.IsExpanded()) {
				walk(n.Children(), len(rows)-1)
			}
		}
	}
	walk(forest, -1)
	return rows
}

// Label builds the display text of n from the given fields.
func Label(n *tree.Node, fields []string) string {
	var parts []string
	for _, name := range fields {
		v, ok := n.Field(name)
		if !ok {
			continue
		}
		if s := FormatValue(v); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if n.ID() == tree.BadID {
		return "(no id)"
	}
	return fmt.Sprintf("#%d", n.ID())
}

// FormatValue renders a field value on a single line.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.Join(strings.Fields(x), " ")
	case *tree.Record, []any, map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}
