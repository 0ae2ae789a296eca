package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/graph"
	"github.com/matzehuels/gdcross/pkg/pipeline"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// browseCommand creates the interactive crossing browser.
func (c *CLI) browseCommand() *cobra.Command {
	var f detectFlags

	cmd := &cobra.Command{
		Use:   "browse [drawing]",
		Short: "Browse the crossings of a drawing interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.analyze(cmd.Context(), cmd, args[0], &f)
			if err != nil {
				return err
			}
			if len(a.result.Crossings) == 0 {
				printSuccess("%s has no crossings", args[0])
				return nil
			}

			a.opts.Degrees = true
			m := NewCrossingListModel(args[0], a.result.Crossings,
				pipeline.Angles(a.drawing, a.result.Crossings, a.opts), a.result.Metrics)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	f.register(cmd)
	return cmd
}

// =============================================================================
// CrossingListModel - Interactive crossing browser
// =============================================================================

// CrossingListModel is the bubbletea model of the crossing browser. It shows
// a scrolling table of crossings; enter opens the details of the crossing
// under the cursor.
type CrossingListModel struct {
	Source    string
	Crossings []crossings.Crossing
	Angles    [][]float64 // degrees, parallel to Crossings
	Metrics   graph.Metrics
	Cursor    int
	Height    int
	Offset    int
	Detail    bool
}

// NewCrossingListModel creates a new crossing list model.
func NewCrossingListModel(source string, list []crossings.Crossing, angles [][]float64, m graph.Metrics) CrossingListModel {
	return CrossingListModel{
		Source:    source,
		Crossings: list,
		Angles:    angles,
		Metrics:   m,
		Height:    15,
	}
}

func (m CrossingListModel) Init() tea.Cmd {
	return nil
}

func (m CrossingListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			m.Detail = !m.Detail
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Crossings)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Crossings)-1, 0)
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *CrossingListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m CrossingListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Crossings of " + m.Source))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d crossings · density %.4f · resolution %.4f",
		m.Metrics.Count, m.Metrics.Density, m.Metrics.AngularResolution)))
	b.WriteString("\n\n")

	if m.Detail && m.Cursor < len(m.Crossings) {
		b.WriteString(m.detailView())
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("esc back  q quit"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Crossings))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Crossings[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(i + 1), formatPosition(c.Position), fmt.Sprint(len(c.Edges)), smallestAngle(m.Angles[i])})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "#", "Position", "Edges", "Min angle").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  ↑/↓ navigate  ⏎ details  q quit", m.Cursor+1, len(m.Crossings))))

	return b.String()
}

func (m CrossingListModel) detailView() string {
	c := m.Crossings[m.Cursor]
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(listLabelStyle.Render(label) + " " + StyleValue.Render(value) + "\n")
	}

	line("crossing", fmt.Sprintf("%d of %d", m.Cursor+1, len(m.Crossings)))
	line("kind", c.Position.Kind.String())
	line("position", formatPosition(c.Position))
	for i, e := range c.Edges {
		label := ""
		if i == 0 {
			label = "edges"
		}
		line(label, e.U+" - "+e.V)
	}
	if len(c.Singletons) > 0 {
		line("singletons", strings.Join(c.Singletons, ", "))
	}
	angles := make([]string, len(m.Angles[m.Cursor]))
	for i, a := range m.Angles[m.Cursor] {
		angles[i] = fmt.Sprintf("%.2f°", a)
	}
	line("angles", strings.Join(angles, "  "))
	return strings.TrimRight(b.String(), "\n")
}

func smallestAngle(angles []float64) string {
	if len(angles) == 0 {
		return "-"
	}
	smallest := angles[0]
	for _, a := range angles[1:] {
		smallest = min(smallest, a)
	}
	return fmt.Sprintf("%.2f°", smallest)
}
