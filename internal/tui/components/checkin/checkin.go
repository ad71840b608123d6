package checkin

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyq/internal/models"
)

// AnswerMsg asks the parent model to record an answer for Question.
type AnswerMsg struct {
	Question models.Question
	Current  *models.Answer
}

// ClearMsg asks the parent model to remove today's answer to a question.
type ClearMsg struct {
	QuestionID string
}

type Item struct {
	Question models.Question
	Answer   *models.Answer
	Position int
}

func (i Item) Title() string {
	mark := "○"
	if i.Answer != nil {
		mark = "●"
	}
	return fmt.Sprintf("%s %d. %s", mark, i.Position, i.Question.Text)
}

func (i Item) Description() string {
	if i.Answer == nil {
		return fmt.Sprintf("%s | unanswered", i.Question.Type)
	}
	return fmt.Sprintf("%s | %s", i.Question.Type, i.Answer.Value)
}

func (i Item) FilterValue() string { return i.Question.Text }

type KeyMap struct {
	Answer key.Binding
	Clear  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Answer: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "answer"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear answer"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Answer, keys.Clear}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

// SetQuestions lists questions in order with today's answer, if any, beside
// each one.
func (m *Model) SetQuestions(questions []models.Question, answers []models.Answer) {
	byQuestion := make(map[string]models.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	items := make([]list.Item, len(questions))
	for i, q := range questions {
		item := Item{Question: q, Position: i + 1}
		if a, ok := byQuestion[q.ID]; ok {
			item.Answer = &a
		}
		items[i] = item
	}
	m.list.SetItems(items)
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if item, ok := it.(Item); ok {
			out = append(out, item)
		}
	}
	return out
}

// Filtering reports whether keystrokes currently go to the filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		item, selected := m.list.SelectedItem().(Item)
		switch {
		case key.Matches(msg, m.keys.Answer) && selected:
			return m, func() tea.Msg { return AnswerMsg{Question: item.Question, Current: item.Answer} }
		case key.Matches(msg, m.keys.Clear) && selected && item.Answer != nil:
			return m, func() tea.Msg { return ClearMsg{QuestionID: item.Question.ID} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No active questions.\n  Add one with 'dailyq question add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
