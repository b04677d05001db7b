package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/export"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// SplitViewThreshold is the terminal width from which the detail pane is
// shown beside the tree instead of below it.
const SplitViewThreshold = 100

const statusTimeout = 3 * time.Second

// ReloadMsg delivers a rebuilt forest, typically after an input file
// changed on disk.
type ReloadMsg struct {
	Forest *tree.Forest
	Report *tree.Report
	Err    error
}

type clearStatusMsg struct{ seq int }

// Options configures a Model.
type Options struct {
	Title      string
	FieldNames tree.FieldNames
	Label      []string
	Indent     int
	StatePath  string // empty disables persistence
	Logger     *slog.Logger

	// MarkdownStyle is the glamour style of the detail pane; empty picks
	// one from the terminal background.
	MarkdownStyle string
	// Clipboard receives the text copied with y. Defaults to the system
	// clipboard.
	Clipboard func(string) error
	// Renderer defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer
}

// Model is the bubbletea program state.
type Model struct {
	tree       *TreeModel
	theme      Theme
	detail     viewport.Model
	showDetail bool
	title      string
	label      []string
	mdStyle    string
	copy       func(string) error

	width, height int
	ready         bool

	status    string
	statusSeq int

	// shown is what the detail pane last rendered.
	shown detailKey
}

type detailKey struct {
	node     *tree.Node
	expanded bool
	width    int
}

// New creates the model for forest.
func New(forest *tree.Forest, opts Options) Model {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	theme := DefaultTheme(r)

	t := NewTreeModel(theme, opts.FieldNames)
	t.SetLabel(opts.Label)
	t.SetIndent(opts.Indent)
	t.SetLogger(opts.Logger)
	t.SetStatePath(opts.StatePath)
	t.SetForest(forest)

	cp := opts.Clipboard
	if cp == nil {
		cp = clipboard.WriteAll
	}
	title := opts.Title
	if title == "" {
		title = "treeview"
	}
	return Model{
		tree:    t,
		theme:   theme,
		detail:  viewport.New(40, 20),
		title:   title,
		label:   t.label,
		mdStyle: opts.MarkdownStyle,
		copy:    cp,
	}
}

// Tree returns the tree model.
func (m Model) Tree() *TreeModel { return m.tree }

// Status returns the current status line message.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case ReloadMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.setStatus("reload failed: "+msg.Err.Error()))
			break
		}
		m.tree.Replace(msg.Forest)
		text := fmt.Sprintf("reloaded %d nodes", msg.Forest.IndirectChildrenCount())
		if msg.Report != nil && len(msg.Report.Dropped) > 0 {
			text += fmt.Sprintf(", %d dropped", len(msg.Report.Dropped))
		}
		cmds = append(cmds, m.setStatus(text))

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.showDetail = false
			m.layout()
		case "j", "down":
			m.tree.MoveDown()
		case "k", "up":
			m.tree.MoveUp()
		case "enter", " ":
			m.tree.ToggleExpand()
		case "l", "right":
			m.tree.ExpandOrMoveToChild()
		case "h", "left":
			m.tree.CollapseOrJumpToParent()
		case "g", "home":
			m.tree.JumpToTop()
		case "G", "end":
			m.tree.JumpToBottom()
		case "pgdown", "ctrl+d":
			m.tree.PageDown()
		case "pgup", "ctrl+u":
			m.tree.PageUp()
		case "E":
			m.tree.ExpandAll()
		case "C":
			m.tree.CollapseAll()
		case "y":
			cmds = append(cmds, m.copySelected())
		case "d":
			m.showDetail = !m.showDetail
			m.shown = detailKey{}
			m.layout()
		case "J":
			m.detail.ScrollDown(1)
		case "K":
			m.detail.ScrollUp(1)
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.showDetail {
		m.refreshDetail()
	}
	return m, tea.Batch(cmds...)
}

// copySelected puts the selected node and its subtree on the clipboard
// in the flat serialization format.
func (m *Model) copySelected() tea.Cmd {
	n := m.tree.SelectedNode()
	if n == nil {
		return nil
	}
	data, err := n.MarshalJSON()
	if err != nil {
		return m.setStatus("copy failed: " + err.Error())
	}
	if err := m.copy(string(data)); err != nil {
		return m.setStatus("copy failed: " + err.Error())
	}
	return m.setStatus(fmt.Sprintf("copied %d nodes", 1+n.IndirectChildrenCount()))
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) splitView() bool {
	return m.showDetail && m.width >= SplitViewThreshold
}

// layout sizes the tree and the detail pane.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	available := m.height - 1 // status bar
	if available < 1 {
		available = 1
	}
	switch {
	case m.splitView():
		treeWidth := m.width * 2 / 5
		m.tree.SetSize(treeWidth, available)
		m.detail.Width = m.width - treeWidth - 4
		m.detail.Height = available - 2
	case m.showDetail:
		treeHeight := available / 2
		m.tree.SetSize(m.width, treeHeight)
		m.detail.Width = m.width - 2
		m.detail.Height = max(available-treeHeight-2, 1)
	default:
		m.tree.SetSize(m.width, available)
	}
	if m.showDetail {
		m.refreshDetail()
	}
}

// refreshDetail re-renders the detail pane when the selection, its
// expansion or the pane width changed. Scrolling is kept otherwise.
func (m *Model) refreshDetail() {
	n := m.tree.SelectedNode()
	k := detailKey{node: n, width: m.detail.Width}
	if n != nil {
		k.expanded = n.IsExpanded()
	}
	if k == m.shown {
		return
	}
	m.shown = k
	m.updateDetail(n)
}

func (m *Model) updateDetail(n *tree.Node) {
	if n == nil {
		m.detail.SetContent("Nothing selected")
		return
	}
	md := export.NodeMarkdown(n, m.label)
	rendered, err := export.RenderMarkdown(md, m.detail.Width, m.mdStyle)
	if err != nil {
		m.detail.SetContent(md)
		return
	}
	m.detail.SetContent(rendered)
	m.detail.GotoTop()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	switch {
	case m.splitView():
		treeView := lipgloss.NewStyle().Width(m.width * 2 / 5).Render(m.tree.View())
		detailView := m.theme.Border.Width(m.detail.Width + 2).Render(m.detail.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, treeView, detailView)
	case m.showDetail:
		detailView := m.theme.Border.Width(m.detail.Width).Render(m.detail.View())
		body = lipgloss.JoinVertical(lipgloss.Left, m.tree.View(), detailView)
	default:
		body = m.tree.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
}

func (m Model) statusBar() string {
	left := m.theme.StatusBar.Render(m.title)
	info := fmt.Sprintf(" %d/%d ", m.tree.Cursor()+1, m.tree.NodeCount())
	if m.tree.NodeCount() == 0 {
		info = " 0/0 "
	}
	text := m.status
	if text == "" {
		text = "j/k move · enter toggle · h/l collapse/expand · E/C all · y copy · d details · q quit"
	}
	muted := m.theme.Renderer.NewStyle().Foreground(m.theme.Muted)
	line := left + info + muted.Render(text)
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}
