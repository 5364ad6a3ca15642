package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tbl/internal/collection"
	"tbl/internal/diagfmt"
	"tbl/internal/generator"
	"tbl/internal/source"
)

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Browse a table file interactively and generate samples",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := readSource(path)
	if err != nil {
		return err
	}

	col, diags := collection.BuildFromSource(src)
	if len(diags) > 0 {
		bag := bagFromDiagnostics(diags)
		bag.Sort()
		m := source.NewMap(src)
		diagfmt.Pretty(os.Stderr, bag, m, diagfmt.PrettyOpts{WithSuggestions: true, WithContextLine: true})
		return fmt.Errorf("play: %s has validation errors", path)
	}
	if len(col.TableIDs()) == 0 {
		return fmt.Errorf("play: %s declares no tables", path)
	}

	model := newPlayModel(col)
	program := tea.NewProgram(model)
	_, err = program.Run()
	return err
}

type tableItem string

func (t tableItem) Title() string       { return string(t) }
func (t tableItem) Description() string { return "press enter to roll" }
func (t tableItem) FilterValue() string { return string(t) }

var (
	rolledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	oddsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

type playModel struct {
	col     *collection.Collection
	gen     *generator.Generator
	list    list.Model
	history []string
	width   int
	height  int
}

func newPlayModel(col *collection.Collection) *playModel {
	ids := col.TableIDs()
	items := make([]list.Item, len(ids))
	for i, id := range ids {
		items[i] = tableItem(id)
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "tables"

	return &playModel{
		col:  col,
		gen:  generator.New(col, generator.NewRNG(), generator.MaxRecursionDepth),
		list: l,
	}
}

func (m *playModel) Init() tea.Cmd {
	return nil
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height/2)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", "r":
			if sel, ok := m.list.SelectedItem().(tableItem); ok {
				m.roll(string(sel))
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *playModel) roll(tableID string) {
	res, err := m.gen.Generate(tableID, 1)
	if err != nil {
		m.history = append(m.history, "error: "+err.Error())
		return
	}
	m.history = append(m.history, rolledStyle.Render(res.Samples[0]))
	if len(m.history) > 10 {
		m.history = m.history[len(m.history)-10:]
	}
}

func (m *playModel) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	if sel, ok := m.list.SelectedItem().(tableItem); ok {
		b.WriteString(oddsStyle.Render(m.oddsLine(string(sel))))
		b.WriteString("\n")
	}
	for _, h := range m.history {
		b.WriteString(h)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter/r: roll  q: quit"))
	return b.String()
}

// oddsLine renders each rule's RuleWeightFraction for tableID as a
// percentage, e.g. "odds: 25% | 75%".
func (m *playModel) oddsLine(tableID string) string {
	n, ok := m.col.RuleCount(tableID)
	if !ok || n == 0 {
		return "odds: n/a"
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		frac, ok := m.col.RuleWeightFraction(tableID, i)
		if !ok {
			parts[i] = "?"
			continue
		}
		parts[i] = strconv.Itoa(int(frac*100+0.5)) + "%"
	}
	return "odds: " + strings.Join(parts, " | ")
}
