package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/streak"
)

var labelStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	Width(10)

type Model struct {
	viewport viewport.Model
	Insights *streak.Insights
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Insights == nil {
		return "No insights yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetInsights(in streak.Insights) {
	m.Insights = &in
	m.Render()
}

func (m *Model) Render() {
	if m.Insights == nil {
		m.viewport.SetContent("No insights loaded.")
		return
	}
	in := m.Insights

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		cli.BoxStyle.Render(fmt.Sprintf("Current streak\n%s", cli.TitleStyle.Render(fmt.Sprintf("%d", in.Current)))),
		" ",
		cli.BoxStyle.Render(fmt.Sprintf("Longest streak\n%s", cli.TitleStyle.Render(fmt.Sprintf("%d", in.Longest)))),
	))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Today"), cli.CompletionBar(in.TodayCompletion))
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("7 days"), cli.CompletionBar(in.Weekly))
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("30 days"), cli.CompletionBar(in.Monthly))
	if len(in.Calendar) > 0 {
		fmt.Fprintf(&b, "\n%s\n", cli.CalendarRow(in.Calendar))
	}
	m.viewport.SetContent(b.String())
}
