package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphshake/pkg/graph"
	"github.com/matzehuels/graphshake/pkg/io"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	codeStyle       = lipgloss.NewStyle().Foreground(colorWhite)
	codeHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "browse <graph.json>",
		Short:             "Browse modules and their emitted code interactively",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if g.Len() == 0 {
				printInfo("Graph has no modules")
				return nil
			}
			_, err = tea.NewProgram(NewModuleListModel(g), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// ModuleListModel - Interactive module browser
// =============================================================================

// ModuleListModel is the bubbletea model for browsing a module graph. The
// list view shows one row per module; enter opens the module's code.
type ModuleListModel struct {
	Graph *graph.Graph

	// Modules are the rows currently listed, narrowed by Filter.
	Modules []*graph.Node
	Filter  textinput.Model
	Cursor  int
	Height  int
	Offset  int

	// Viewing is the module whose code is shown, or nil in the list view.
	Viewing *graph.Node

	// ShowSource toggles between emitted code and original source.
	ShowSource bool
	Scroll     int
}

// NewModuleListModel creates a new module list model.
func NewModuleListModel(g *graph.Graph) ModuleListModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter modules"
	ti.Width = 40
	return ModuleListModel{
		Graph:   g,
		Modules: g.Nodes(),
		Filter:  ti,
		Height:  15,
	}
}

// updateFilter feeds msg to the filter input and re-filters the list.
func (m ModuleListModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.Filter.Blur()
		return m, nil
	case "esc":
		m.Filter.Blur()
		m.Filter.SetValue("")
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.Filter, cmd = m.Filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *ModuleListModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.Filter.Value()))
	m.Modules = m.Modules[:0:0]
	for _, n := range m.Graph.Nodes() {
		if q == "" || strings.Contains(strings.ToLower(n.ID), q) {
			m.Modules = append(m.Modules, n)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m ModuleListModel) Init() tea.Cmd {
	return nil
}

func (m ModuleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Viewing != nil {
			return m.updateCode(msg)
		}
		if m.Filter.Focused() {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "/":
			cmd := m.Filter.Focus()
			return m, cmd
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Modules)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Modules) > 0 {
				m.Viewing = m.Modules[m.Cursor]
				m.ShowSource = m.Viewing.EmittedCode == ""
				m.Scroll = 0
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ModuleListModel) updateCode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc", "backspace":
		m.Viewing = nil
	case "s":
		m.ShowSource = !m.ShowSource
		m.Scroll = 0
	case "up", "k":
		if m.Scroll > 0 {
			m.Scroll--
		}
	case "down", "j":
		if m.Scroll < len(m.codeLines())-1 {
			m.Scroll++
		}
	}
	return m, nil
}

func (m ModuleListModel) codeLines() []string {
	if m.Viewing == nil {
		return nil
	}
	code := m.Viewing.EmittedCode
	if m.ShowSource {
		code = m.Viewing.Source
	}
	return strings.Split(strings.TrimRight(code, "\n"), "\n")
}

func (m ModuleListModel) View() string {
	if m.Viewing != nil {
		return m.viewCode()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Modules"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ view code  / filter  q quit"))
	b.WriteString("\n")
	if m.Filter.Focused() || m.Filter.Value() != "" {
		b.WriteString(m.Filter.View())
	}
	b.WriteString("\n")

	end := m.Offset + m.Height
	if end > len(m.Modules) {
		end = len(m.Modules)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		rows = append(rows, moduleRow(m.Modules[i], i == m.Cursor))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Module", "Format", "Deps", "Dependants", "Emitted").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Modules) {
				return lipgloss.NewStyle()
			}
			n := m.Modules[idx]
			base := lipgloss.NewStyle()
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			if !n.IsESModule() {
				return base.Foreground(colorDim)
			}
			if n.EmittedCode != "" {
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Modules))))
	return b.String()
}

func moduleRow(n *graph.Node, current bool) []string {
	cursor := "  "
	if current {
		cursor = "▸ "
	}
	format := n.Format.String()
	if label, ok := n.Meta["format"].(string); ok && !n.IsESModule() {
		format = label
	}
	emitted := "—"
	if n.EmittedCode != "" {
		emitted = formatBytes(len(n.EmittedCode))
	}
	dependants := "—"
	if len(n.Dependants) > 0 {
		dependants = fmt.Sprint(len(n.Dependants))
	}
	return []string{cursor, n.ID, format, fmt.Sprint(len(n.Dependencies)), dependants, emitted}
}

func (m ModuleListModel) viewCode() string {
	var b strings.Builder
	kind := "emitted"
	if m.ShowSource {
		kind = "source"
	}
	b.WriteString(StyleTitle.Render(m.Viewing.ID))
	b.WriteString(" ")
	b.WriteString(codeHeaderStyle.Render("(" + kind + ")"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  s toggle source/emitted  esc back"))
	b.WriteString("\n\n")

	lines := m.codeLines()
	end := m.Scroll + m.Height
	if end > len(lines) {
		end = len(lines)
	}
	for i := m.Scroll; i < end; i++ {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%4d ", i+1)))
		b.WriteString(codeStyle.Render(lines[i]))
		b.WriteString("\n")
	}
	return b.String()
}

// formatBytes renders a byte count as B or KB.
func formatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
