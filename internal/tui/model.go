package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/reflection"
	"github.com/julianstephens/dailyq/internal/tui/components/checkin"
	"github.com/julianstephens/dailyq/internal/tui/components/insights"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateInsights
	StateAnswering
)

// tabCount is the number of states reachable with tab.
const tabCount = 2

const calendarDays = 30

type AnswerFormModel struct {
	Value string
}

type Model struct {
	reflection *reflection.Service
	state      SessionState
	keys       KeyMap
	help       help.Model
	checkin    checkin.Model
	insights   insights.Model
	form       *huh.Form
	answerForm *AnswerFormModel
	answering  *models.Question
	status     string
	statusErr  bool
	quitting   bool
	width      int
	height     int
}

// NewModel builds the dashboard for the session already loaded into svc.
func NewModel(svc *reflection.Service) Model {
	m := Model{
		reflection: svc,
		state:      StateToday,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		checkin:    checkin.New(0, 0),
		insights:   insights.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateToday {
		keys := checkin.DefaultKeyMap()
		actions = []key.Binding{keys.Answer, keys.Clear}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads today's questions and the insights from the service.
func (m *Model) refresh() {
	questions, err := m.reflection.ActiveQuestions()
	if err != nil {
		m.setError(err)
		return
	}
	answers, err := m.reflection.TodayAnswers()
	if err != nil {
		m.setError(err)
		return
	}
	m.checkin.SetQuestions(questions, answers)

	in, err := m.reflection.Insights(calendarDays)
	if err != nil {
		m.setError(err)
		return
	}
	m.insights.SetInsights(in)
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
