package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dirgraph/pkg/dirtree"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeBrowserModel - Interactive directory group browser
// =============================================================================

// browserRow is one visible line: a directory group or a file.
type browserRow struct {
	depth int
	tree  *dirtree.Tree // set for group rows
	label string
	node  graph.Node // set for file rows
}

func (r browserRow) isGroup() bool { return r.tree != nil }

// TreeBrowserModel is the bubbletea model for browsing directory groups.
// Enter on a group folds or unfolds it; enter on a file selects it.
type TreeBrowserModel struct {
	Forest   []*dirtree.Tree
	Cursor   int
	Offset   int
	Height   int
	Selected *graph.Node

	collapsed map[*dirtree.Tree]bool
	rows      []browserRow
}

// NewTreeBrowserModel creates a browser with every group unfolded.
func NewTreeBrowserModel(forest []*dirtree.Tree) TreeBrowserModel {
	m := TreeBrowserModel{
		Forest:    forest,
		Height:    20,
		collapsed: make(map[*dirtree.Tree]bool),
	}
	m.rows = m.flatten()
	return m
}

// flatten lists the visible rows in pre-order, skipping the contents of
// folded groups. Top-level files are listed without a group row.
func (m TreeBrowserModel) flatten() []browserRow {
	var rows []browserRow
	var visit func(t *dirtree.Tree, parent string, depth int)
	visit = func(t *dirtree.Tree, parent string, depth int) {
		fileDepth := depth
		if !t.TopLevel {
			rows = append(rows, browserRow{depth: depth, tree: t, label: t.Label(parent)})
			if m.collapsed[t] {
				return
			}
			fileDepth++
		}
		for _, n := range t.Nodes {
			rows = append(rows, browserRow{depth: fileDepth, label: n.DisplayName(), node: n})
		}
		for _, c := range t.Children {
			visit(c, t.Dir, depth+1)
		}
	}
	for _, t := range m.Forest {
		visit(t, "", 0)
	}
	return rows
}

func (m TreeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m TreeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "enter", " ":
			if len(m.rows) == 0 {
				return m, nil
			}
			row := m.rows[m.Cursor]
			if !row.isGroup() {
				n := row.node
				m.Selected = &n
				return m, tea.Quit
			}
			m.toggle(row.tree)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	m.scroll()
	return m, nil
}

// toggle folds or unfolds t and rebuilds the rows. The cursor stays on t.
func (m *TreeBrowserModel) toggle(t *dirtree.Tree) {
	collapsed := make(map[*dirtree.Tree]bool, len(m.collapsed)+1)
	for k, v := range m.collapsed {
		collapsed[k] = v
	}
	collapsed[t] = !collapsed[t]
	m.collapsed = collapsed
	m.rows = m.flatten()
	for i, r := range m.rows {
		if r.tree == t {
			m.Cursor = i
			break
		}
	}
}

// scroll keeps the cursor inside the visible window.
func (m *TreeBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TreeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Directory Groups"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold/select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		var text string
		switch {
		case r.isGroup() && m.collapsed[r.tree]:
			text = fmt.Sprintf("+ %s/ (%d)", r.label, countFiles(r.tree))
		case r.isGroup():
			text = "- " + r.label + "/"
		default:
			text = r.label
		}
		line := cursor + strings.Repeat("  ", r.depth) + text

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case r.isGroup():
			b.WriteString(StyleDir.Render(line))
		case r.node.Highlight:
			b.WriteString(StyleHighlight.Render(line))
		case r.node.IsDirectory:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(StyleValue.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// countFiles returns the number of files in t and its descendants.
func countFiles(t *dirtree.Tree) int {
	_, files := dirtree.Count([]*dirtree.Tree{t})
	return files
}
