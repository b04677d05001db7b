// Package ui is the terminal front end: a scrolling, collapsible view of a
// tree.Forest driven through tree.Adapter.
package ui

import (
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/export"
	"github.com/vanderheijden86/treeview/pkg/state"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// TreeModel manages cursor, scrolling and rendering of the visible rows.
// Rows are looked up through the adapter on demand; nothing is cached
// between calls, so a toggle is reflected immediately.
type TreeModel struct {
	adapter *tree.Adapter
	names   tree.FieldNames
	theme   Theme
	label   []string
	indent  int

	cursor int // position in the visible sequence
	offset int // first rendered row
	width  int
	height int

	statePath string
	logger    *slog.Logger
}

// NewTreeModel creates an empty tree model.
func NewTreeModel(theme Theme, names tree.FieldNames) *TreeModel {
	t := &TreeModel{
		names:  names.WithDefaults(),
		theme:  theme,
		label:  []string{"name"},
		indent: 4,
		logger: slog.Default(),
	}
	t.setForest(nil)
	return t
}

// SetLabel sets the fields shown on each row.
func (t *TreeModel) SetLabel(fields []string) {
	if len(fields) > 0 {
		t.label = fields
	}
}

// SetIndent sets the number of columns per level.
func (t *TreeModel) SetIndent(n int) {
	if n > 0 {
		t.indent = n
	}
}

// SetLogger sets the logger used for persistence warnings.
func (t *TreeModel) SetLogger(l *slog.Logger) {
	if l != nil {
		t.logger = l
	}
}

// SetStatePath enables persisting expansion state to path. An empty
// path disables persistence.
func (t *TreeModel) SetStatePath(path string) {
	t.statePath = path
}

// SetSize updates the available dimensions for the tree view
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// SetForest shows forest, restoring expansion state from the state file
// when one is configured.
func (t *TreeModel) SetForest(forest *tree.Forest) {
	t.setForest(forest)
	if t.statePath != "" {
		state.Load(t.statePath, t.logger).Apply(t.adapter.Forest())
	}
	t.cursor = 0
	t.offset = 0
}

// Replace swaps in a rebuilt forest, carrying over the expansion of every
// group that still exists and keeping the selected id when possible.
func (t *TreeModel) Replace(forest *tree.Forest) {
	selected := t.SelectedID()
	previous := state.Capture(t.adapter.Forest())
	t.setForest(forest)
	previous.Apply(t.adapter.Forest())
	if !t.SelectByID(selected) {
		t.clampCursor()
	}
}

func (t *TreeModel) setForest(forest *tree.Forest) {
	t.adapter = tree.NewAdapter(forest, t.names)
	t.adapter.OnChange(t.changed)
}

// changed runs after every effective expand or collapse.
func (t *TreeModel) changed() {
	t.clampCursor()
	t.saveState()
}

func (t *TreeModel) saveState() {
	if t.statePath == "" {
		return
	}
	if err := state.Capture(t.adapter.Forest()).Save(t.statePath); err != nil {
		t.logger.Warn("failed to save tree state", "path", t.statePath, "err", err)
	}
}

// Adapter returns the adapter the view renders from.
func (t *TreeModel) Adapter() *tree.Adapter { return t.adapter }

// NodeCount returns the number of visible rows.
func (t *TreeModel) NodeCount() int { return t.adapter.Count() }

// RootCount returns the number of roots.
func (t *TreeModel) RootCount() int { return t.adapter.Forest().Len() }

// Cursor returns the selected row.
func (t *TreeModel) Cursor() int { return t.cursor }

// SelectedNode returns the node under the cursor, or nil.
func (t *TreeModel) SelectedNode() *tree.Node { return t.adapter.Node(t.cursor) }

// SelectedID returns the id under the cursor, or tree.BadID.
func (t *TreeModel) SelectedID() int64 { return t.adapter.ItemID(t.cursor) }

// SelectByID moves the cursor to the node with id, expanding its
// ancestors when it is hidden. It reports whether the node exists.
func (t *TreeModel) SelectByID(id int64) bool {
	n := t.adapter.FindByID(id)
	if n == nil {
		return false
	}
	pos := t.adapter.Position(n)
	if pos < 0 {
		for a := t.parentOf(n); a != nil; a = t.parentOf(a) {
			a.SetExpanded(true)
		}
		t.saveState()
		pos = t.adapter.Position(n)
	}
	if pos < 0 {
		return false
	}
	t.cursor = pos
	t.ensureCursorVisible()
	return true
}

// MoveDown moves the cursor one row down.
func (t *TreeModel) MoveDown() {
	if t.cursor < t.adapter.Count()-1 {
		t.cursor++
	}
	t.ensureCursorVisible()
}

// MoveUp moves the cursor one row up.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.ensureCursorVisible()
}

// JumpToTop moves the cursor to the first row.
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// JumpToBottom moves the cursor to the last row.
func (t *TreeModel) JumpToBottom() {
	t.cursor = t.adapter.Count() - 1
	t.clampCursor()
}

// PageDown moves the cursor down by half a screen.
func (t *TreeModel) PageDown() {
	t.cursor += t.pageSize()
	t.clampCursor()
}

// PageUp moves the cursor up by half a screen.
func (t *TreeModel) PageUp() {
	t.cursor -= t.pageSize()
	t.clampCursor()
}

func (t *TreeModel) pageSize() int {
	if size := t.height / 2; size >= 1 {
		return size
	}
	return 5
}

// ToggleExpand expands or collapses the selected group.
func (t *TreeModel) ToggleExpand() {
	t.adapter.Toggle(t.cursor)
}

// ExpandAll expands every group.
func (t *TreeModel) ExpandAll() {
	t.adapter.SetAllExpanded(true)
}

// CollapseAll collapses every group. The cursor moves to the root of the
// subtree it was in.
func (t *TreeModel) CollapseAll() {
	n := t.SelectedNode()
	for n != nil && n.Level() > 0 {
		n = t.parentOf(n)
	}
	t.adapter.SetAllExpanded(false)
	if n != nil {
		t.cursor = t.adapter.Position(n)
	}
	t.clampCursor()
}

// JumpToParent moves the cursor to the parent of the selected node.
func (t *TreeModel) JumpToParent() {
	n := t.SelectedNode()
	if n == nil {
		return
	}
	if p := t.parentOf(n); p != nil {
		if pos := t.adapter.Position(p); pos >= 0 {
			t.cursor = pos
			t.ensureCursorVisible()
		}
	}
}

// ExpandOrMoveToChild expands a collapsed group, or moves into an
// expanded one. Leaves are left alone.
func (t *TreeModel) ExpandOrMoveToChild() {
	n := t.SelectedNode()
	if n == nil || !n.IsGroup() {
		return
	}
	if !n.IsExpanded() {
		t.adapter.Expand(t.cursor)
		return
	}
	if n.HasChildren() {
		t.MoveDown()
	}
}

// CollapseOrJumpToParent collapses an expanded group, otherwise moves to
// the parent.
func (t *TreeModel) CollapseOrJumpToParent() {
	n := t.SelectedNode()
	if n == nil {
		return
	}
	if n.IsExpanded() {
		t.adapter.Collapse(t.cursor)
		return
	}
	t.JumpToParent()
}

// parentOf finds the node n is attached to. Levels must strictly
// decrease, which keeps lookups on duplicate ids finite.
func (t *TreeModel) parentOf(n *tree.Node) *tree.Node {
	if n.ParentID() == tree.BadID {
		return nil
	}
	p := t.adapter.FindByID(n.ParentID())
	if p == nil || p.Level() >= n.Level() {
		return nil
	}
	return p
}

func (t *TreeModel) clampCursor() {
	if count := t.adapter.Count(); t.cursor >= count {
		t.cursor = count - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) rowsOnScreen() int {
	if t.height > 0 {
		return t.height
	}
	return 20
}

func (t *TreeModel) ensureCursorVisible() {
	rows := t.rowsOnScreen()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+rows {
		t.offset = t.cursor - rows + 1
	}
	if last := t.adapter.Count() - rows; t.offset > last {
		t.offset = last
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// visibleRange returns the rows [start, end) that fit on screen.
func (t *TreeModel) visibleRange() (start, end int) {
	start = t.offset
	end = start + t.rowsOnScreen()
	if count := t.adapter.Count(); end > count {
		end = count
	}
	if start > end {
		start = end
	}
	return start, end
}

// View renders the rows on screen.
func (t *TreeModel) View() string {
	if t.adapter.Count() == 0 {
		return t.renderEmptyState()
	}

	var sb strings.Builder
	start, end := t.visibleRange()
	for pos := start; pos < end; pos++ {
		n := t.adapter.Node(pos)
		if n == nil {
			break
		}
		line := t.renderNode(n)
		if pos == t.cursor {
			line = t.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		if pos < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *TreeModel) renderEmptyState() string {
	r := t.theme.Renderer
	title := r.NewStyle().Foreground(t.theme.Primary).Bold(true)
	muted := r.NewStyle().Foreground(t.theme.Muted)

	var sb strings.Builder
	sb.WriteString(title.Render("Nothing to show"))
	sb.WriteString("\n\n")
	sb.WriteString(muted.Render("No record could be attached to the tree."))
	sb.WriteString("\n")
	sb.WriteString(muted.Render("Records need an \"" + t.names.ID + "\" field; children point at their parent with \"" + t.names.ParentID + "\"."))
	return sb.String()
}

// renderNode renders one row: branch prefix, expand indicator and label.
func (t *TreeModel) renderNode(n *tree.Node) string {
	r := t.theme.Renderer
	var sb strings.Builder

	prefix := t.buildTreePrefix(n)
	sb.WriteString(r.NewStyle().Foreground(t.theme.Muted).Render(prefix))

	sb.WriteString(r.NewStyle().Foreground(t.theme.Secondary).Render(expandIndicator(n)))
	sb.WriteString(" ")

	label := export.Label(n, t.label)
	if t.width > 0 {
		limit := t.width - runewidth.StringWidth(prefix) - 2
		if limit < 8 {
			limit = 8
		}
		label = runewidth.Truncate(label, limit, "…")
	}
	style := r.NewStyle()
	if n.IsGroup() {
		style = style.Foreground(t.theme.Highlight)
	}
	sb.WriteString(style.Render(label))
	return sb.String()
}

// buildTreePrefix draws a guide for every non-root ancestor followed by
// the branch into n. Roots have no prefix.
func (t *TreeModel) buildTreePrefix(n *tree.Node) string {
	if n.Level() == 0 {
		return ""
	}

	var guides []string
	for a := t.parentOf(n); a != nil && a.Level() > 0; a = t.parentOf(a) {
		if a.IsLast() {
			guides = append(guides, strings.Repeat(" ", t.indent))
		} else {
			guides = append(guides, "│"+strings.Repeat(" ", t.indent-1))
		}
	}

	var sb strings.Builder
	for i := len(guides) - 1; i >= 0; i-- {
		sb.WriteString(guides[i])
	}
	sb.WriteString(branch(n.IsLast(), t.indent))
	return sb.String()
}

func branch(last bool, indent int) string {
	head := "├"
	if last {
		head = "└"
	}
	if indent <= 1 {
		return head
	}
	return head + strings.Repeat("─", indent-2) + " "
}

func expandIndicator(n *tree.Node) string {
	switch {
	case n.IsExpanded():
		return "▾"
	case n.IsGroup():
		return "▸"
	default:
		return "•"
	}
}
