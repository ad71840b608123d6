package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/tui/components/checkin"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateAnswering {
		return m.updateAnswering(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.checkin.SetSize(msg.Width-h, msg.Height-v-4)
		m.insights.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case checkin.AnswerMsg:
		return m.startAnswer(msg)

	case checkin.ClearMsg:
		if err := m.reflection.ClearAnswer(msg.QuestionID, m.reflection.Today()); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Answer cleared")
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state == StateToday && m.checkin.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.setStatus("Reloaded")
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.checkin, cmd = m.checkin.Update(msg)
	case StateInsights:
		m.insights, cmd = m.insights.Update(msg)
	}
	return m, cmd
}

// startAnswer flips toggles in place and opens a form for other types.
func (m Model) startAnswer(msg checkin.AnswerMsg) (tea.Model, tea.Cmd) {
	q := msg.Question
	if q.Type == constants.QuestionToggle {
		next := true
		if msg.Current != nil && msg.Current.Value.Kind == models.KindBool {
			next = !msg.Current.Value.Bool
		}
		m.save(q, models.BoolValue(next))
		return m, nil
	}

	m.answerForm = &AnswerFormModel{}
	if msg.Current != nil {
		m.answerForm.Value = msg.Current.Value.String()
	}
	m.answering = &q
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(q.Text).
				Value(&m.answerForm.Value).
				Validate(func(s string) error {
					_, err := models.ParseAnswerValue(q.Type, s)
					return err
				}),
		),
	)
	m.state = StateAnswering
	return m, m.form.Init()
}

func (m Model) updateAnswering(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		value, err := models.ParseAnswerValue(m.answering.Type, m.answerForm.Value)
		if err != nil {
			m.setError(err)
		} else {
			m.save(*m.answering, value)
		}
		m.state = StateToday
	case huh.StateAborted:
		m.state = StateToday
	}
	return m, cmd
}

func (m *Model) save(q models.Question, value models.AnswerValue) {
	saved, err := m.reflection.SaveAnswer(q.ID, value)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Saved %s", saved.Value))
	m.refresh()
}
