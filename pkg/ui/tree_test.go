package ui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

func newTreeTestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}

// buildTestForest returns, all collapsed:
//
//	1 Root
//	    2 A
//	        3 A1
//	    4 B
//	5 Other
func buildTestForest(t *testing.T, extra ...*tree.Record) *tree.Forest {
	t.Helper()
	records := []*tree.Record{
		tree.RecordOf("id", 1, "name", "Root"),
		tree.RecordOf("id", 2, "id_parent", 1, "name", "A"),
		tree.RecordOf("id", 3, "id_parent", 2, "name", "A1"),
		tree.RecordOf("id", 4, "id_parent", 1, "name", "B"),
		tree.RecordOf("id", 5, "name", "Other"),
	}
	forest, err := tree.Build(append(records, extra...), tree.FieldNames{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return forest
}

func newTestTree(t *testing.T) *TreeModel {
	t.Helper()
	tm := NewTreeModel(newTreeTestTheme(), tree.FieldNames{})
	tm.SetForest(buildTestForest(t))
	tm.SetSize(80, 20)
	return tm
}

// TestTreeEmpty verifies an empty forest renders the empty state
func TestTreeEmpty(t *testing.T) {
	tm := NewTreeModel(newTreeTestTheme(), tree.FieldNames{})
	if tm.NodeCount() != 0 || tm.RootCount() != 0 {
		t.Errorf("expected empty tree, got %d rows %d roots", tm.NodeCount(), tm.RootCount())
	}
	if tm.SelectedNode() != nil {
		t.Error("expected no selection")
	}
	if tm.SelectedID() != tree.BadID {
		t.Errorf("expected BadID, got %d", tm.SelectedID())
	}
	if !strings.Contains(tm.View(), "Nothing to show") {
		t.Errorf("unexpected empty view: %q", tm.View())
	}
	tm.MoveDown()
	tm.ToggleExpand()
	tm.CollapseOrJumpToParent()
	if tm.Cursor() != 0 {
		t.Errorf("cursor moved on empty tree: %d", tm.Cursor())
	}
}

// TestTreeCollapsedByDefault verifies only roots are visible initially
func TestTreeCollapsedByDefault(t *testing.T) {
	tm := newTestTree(t)
	if tm.RootCount() != 2 {
		t.Errorf("expected 2 roots, got %d", tm.RootCount())
	}
	if tm.NodeCount() != 2 {
		t.Errorf("expected 2 visible rows, got %d", tm.NodeCount())
	}
	if got := tm.View(); got != "▸ Root\n• Other" {
		t.Errorf("unexpected view:\n%s", got)
	}
}

func TestTreeToggleExpand(t *testing.T) {
	tm := newTestTree(t)
	tm.ToggleExpand()
	if tm.NodeCount() != 4 {
		t.Errorf("expected 4 rows after expanding root, got %d", tm.NodeCount())
	}
	tm.ToggleExpand()
	if tm.NodeCount() != 2 {
		t.Errorf("expected 2 rows after collapsing root, got %d", tm.NodeCount())
	}

	// toggling a leaf is a no-op
	tm.JumpToBottom()
	tm.ToggleExpand()
	if tm.NodeCount() != 2 {
		t.Errorf("leaf toggle changed row count to %d", tm.NodeCount())
	}
}

// TestTreeRenderPrefixes verifies branch and guide characters
func TestTreeRenderPrefixes(t *testing.T) {
	tm := newTestTree(t)
	tm.ExpandAll()

	want := strings.Join([]string{
		"▾ Root",
		"├── ▾ A",
		"│   └── • A1",
		"└── • B",
		"• Other",
	}, "\n")
	if got := tm.View(); got != want {
		t.Errorf("view mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}

	tm.SetIndent(2)
	want = strings.Join([]string{
		"▾ Root",
		"├ ▾ A",
		"│ └ • A1",
		"└ • B",
		"• Other",
	}, "\n")
	if got := tm.View(); got != want {
		t.Errorf("indent 2 view mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestTreeNavigation verifies the arrow-key semantics of h and l
func TestTreeNavigation(t *testing.T) {
	tm := newTestTree(t)
	tm.ExpandAll()

	tm.JumpToBottom()
	if tm.Cursor() != 4 {
		t.Errorf("expected cursor 4 at bottom, got %d", tm.Cursor())
	}
	tm.MoveDown()
	if tm.Cursor() != 4 {
		t.Errorf("cursor moved past the end: %d", tm.Cursor())
	}
	tm.JumpToTop()
	tm.MoveUp()
	if tm.Cursor() != 0 {
		t.Errorf("cursor moved before the start: %d", tm.Cursor())
	}

	tm.ExpandOrMoveToChild() // Root is expanded: move to A
	if tm.SelectedID() != 2 {
		t.Errorf("expected A selected, got %d", tm.SelectedID())
	}
	tm.ExpandOrMoveToChild() // A is expanded: move to A1
	if tm.SelectedID() != 3 {
		t.Errorf("expected A1 selected, got %d", tm.SelectedID())
	}
	tm.ExpandOrMoveToChild() // leaf: nothing
	if tm.SelectedID() != 3 {
		t.Errorf("leaf moved cursor to %d", tm.SelectedID())
	}

	tm.CollapseOrJumpToParent() // leaf: jump to A
	if tm.SelectedID() != 2 {
		t.Errorf("expected A after jumping to parent, got %d", tm.SelectedID())
	}
	tm.CollapseOrJumpToParent() // A expanded: collapse
	if tm.NodeCount() != 4 || tm.SelectedID() != 2 {
		t.Errorf("expected A collapsed with 4 rows, got %d rows at %d", tm.NodeCount(), tm.SelectedID())
	}
	tm.CollapseOrJumpToParent() // A collapsed: jump to Root
	if tm.SelectedID() != 1 {
		t.Errorf("expected Root, got %d", tm.SelectedID())
	}
	tm.CollapseOrJumpToParent()
	tm.CollapseOrJumpToParent() // root without parent stays
	if tm.SelectedID() != 1 || tm.NodeCount() != 2 {
		t.Errorf("expected collapsed Root selected, got %d with %d rows", tm.SelectedID(), tm.NodeCount())
	}

	tm.ExpandOrMoveToChild() // collapsed group: expand in place
	if tm.NodeCount() != 4 || tm.SelectedID() != 1 {
		t.Errorf("expected Root expanded in place, got %d rows at %d", tm.NodeCount(), tm.SelectedID())
	}
}

// TestTreeCollapseAllMovesToRoot verifies the cursor lands on the enclosing root
func TestTreeCollapseAllMovesToRoot(t *testing.T) {
	tm := newTestTree(t)
	tm.ExpandAll()
	if !tm.SelectByID(3) || tm.Cursor() != 2 {
		t.Fatalf("expected A1 at row 2, got %d", tm.Cursor())
	}
	tm.CollapseAll()
	if tm.NodeCount() != 2 {
		t.Errorf("expected 2 rows, got %d", tm.NodeCount())
	}
	if tm.SelectedID() != 1 {
		t.Errorf("expected Root selected, got %d", tm.SelectedID())
	}
}

// TestTreeSelectByIDExpandsAncestors verifies hidden nodes are revealed
func TestTreeSelectByIDExpandsAncestors(t *testing.T) {
	tm := newTestTree(t)
	if !tm.SelectByID(3) {
		t.Fatal("SelectByID(3) = false")
	}
	if tm.Cursor() != 2 {
		t.Errorf("expected A1 at row 2, got %d", tm.Cursor())
	}
	if tm.NodeCount() != 5 {
		t.Errorf("expected ancestors expanded (5 rows), got %d", tm.NodeCount())
	}
	if tm.SelectByID(99) {
		t.Error("SelectByID(99) = true for a missing id")
	}
	if tm.SelectByID(tree.BadID) {
		t.Error("SelectByID(BadID) = true")
	}
}

// TestTreeScrolling verifies the window follows the cursor
func TestTreeScrolling(t *testing.T) {
	tm := newTestTree(t)
	tm.ExpandAll()
	tm.SetSize(80, 2)

	tm.JumpToBottom()
	if got := tm.View(); got != "└── • B\n• Other" {
		t.Errorf("unexpected bottom window:\n%s", got)
	}
	tm.MoveUp()
	tm.MoveUp()
	if got := tm.View(); got != "│   └── • A1\n└── • B" {
		t.Errorf("unexpected window after moving up:\n%s", got)
	}
	tm.PageUp()
	if tm.Cursor() != 1 {
		t.Errorf("expected cursor 1 after page up, got %d", tm.Cursor())
	}
	tm.PageDown()
	tm.PageDown()
	if tm.Cursor() != 3 {
		t.Errorf("expected cursor 3 after two page downs, got %d", tm.Cursor())
	}
	start, end := tm.visibleRange()
	if end-start != 2 || tm.Cursor() < start || tm.Cursor() >= end {
		t.Errorf("cursor %d outside window [%d,%d)", tm.Cursor(), start, end)
	}
}

// TestTreeReplaceKeepsState verifies a rebuild keeps expansion and selection
func TestTreeReplaceKeepsState(t *testing.T) {
	tm := newTestTree(t)
	tm.SelectByID(3) // expands Root and A

	tm.Replace(buildTestForest(t, tree.RecordOf("id", 6, "id_parent", 4, "name", "B1")))
	if tm.SelectedID() != 3 {
		t.Errorf("expected A1 still selected, got %d", tm.SelectedID())
	}
	if tm.NodeCount() != 5 {
		t.Errorf("expected 5 rows (new group B collapsed), got %d", tm.NodeCount())
	}

	// selected node removed: cursor is clamped
	tm.JumpToBottom()
	records := []*tree.Record{tree.RecordOf("id", 1, "name", "Root")}
	forest, err := tree.Build(records, tree.FieldNames{})
	if err != nil {
		t.Fatal(err)
	}
	tm.Replace(forest)
	if tm.Cursor() != 0 || tm.SelectedID() != 1 {
		t.Errorf("expected cursor clamped to Root, got %d (%d)", tm.Cursor(), tm.SelectedID())
	}
}

// TestTreeStatePersistence verifies expansion survives a new model
func TestTreeStatePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".treeview", "tree-state.json")

	tm := NewTreeModel(newTreeTestTheme(), tree.FieldNames{})
	tm.SetStatePath(path)
	tm.SetForest(buildTestForest(t))
	tm.ToggleExpand()

	again := NewTreeModel(newTreeTestTheme(), tree.FieldNames{})
	again.SetStatePath(path)
	again.SetForest(buildTestForest(t))
	if again.NodeCount() != 4 {
		t.Errorf("expected restored expansion (4 rows), got %d", again.NodeCount())
	}
}

func TestTreeLabelFallbackAndTruncation(t *testing.T) {
	records := []*tree.Record{
		tree.RecordOf("id", 1, "title", "A rather long title that will not fit"),
		tree.RecordOf("id", 2),
	}
	forest, err := tree.Build(records, tree.FieldNames{})
	if err != nil {
		t.Fatal(err)
	}
	tm := NewTreeModel(newTreeTestTheme(), tree.FieldNames{})
	tm.SetLabel([]string{"title"})
	tm.SetForest(forest)
	tm.SetSize(16, 10)

	lines := strings.Split(tm.View(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
	if !strings.HasSuffix(lines[0], "…") || lipgloss.Width(lines[0]) > 16 {
		t.Errorf("expected truncated label, got %q", lines[0])
	}
	if lines[1] != "• #2" {
		t.Errorf("expected id fallback, got %q", lines[1])
	}
}
