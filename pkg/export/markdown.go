package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Markdown renders forest as a nested bullet list.
func Markdown(forest *tree.Forest, opts Options) string {
	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(opts.Title)))
	}

	for _, row := range Rows(forest, opts.Label, opts.VisibleOnly) {
		n := row.Node
		sb.WriteString(strings.Repeat("  ", n.Level()))
		sb.WriteString("- ")
		sb.WriteString(escapeMarkdown(row.Label))
		if opts.VisibleOnly && n.IsCollapsed() && n.HasChildren() {
			sb.WriteString(fmt.Sprintf(" _(+%d)_", n.IndirectChildrenCount()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NodeMarkdown describes a single node: its label, its retained fields
// as a table and its place in the tree.
func NodeMarkdown(n *tree.Node, label []string) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(Label(n, label))))

	fields := n.Fields()
	if fields.Len() > 0 {
		sb.WriteString("| Field | Value |\n")
		sb.WriteString("|---|---|\n")
		for _, key := range fields.Keys() {
			v, _ := fields.Get(key)
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", escapeCell(key), escapeCell(FormatValue(v))))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("- **Level**: %d\n", n.Level()))
	if n.ParentID() != tree.BadID {
		sb.WriteString(fmt.Sprintf("- **Parent**: %d\n", n.ParentID()))
	}
	if n.IsGroup() {
		state := "collapsed"
		if n.IsExpanded() {
			state = "expanded"
		}
		sb.WriteString(fmt.Sprintf("- **Group**: %s, %d children, %d descendants\n",
			state, n.Children().Len(), n.IndirectChildrenCount()))
	}
	return sb.String()
}

// RenderMarkdown renders md for the terminal. An empty style picks one
// from the terminal background.
func RenderMarkdown(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeMarkdown(s), "|", `\|`)
}
