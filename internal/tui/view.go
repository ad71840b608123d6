package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyq/internal/cli"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = docStyle.Render(m.checkin.View())
	case StateInsights:
		content = docStyle.Render(m.insights.View())
	case StateAnswering:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateAnswering {
		active = StateToday
	}

	var tabs []string
	for i, title := range []string{"Today " + m.reflection.Today(), "Insights"} {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return cli.DangerStyle.Render(m.status)
	}
	return cli.SuccessStyle.Render(m.status)
}
