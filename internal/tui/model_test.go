package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/reflection"
	"github.com/julianstephens/dailyq/internal/storage"
	"github.com/julianstephens/dailyq/internal/tui/components/checkin"
)

func setupTestModel(t *testing.T) (Model, *reflection.Service) {
	t.Helper()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user := models.User{ID: uuid.New().String(), Email: "tui@example.com"}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	svc := reflection.NewService(store,
		reflection.WithLocation(time.UTC),
		reflection.WithClock(func() time.Time { return now }),
	)
	if err := svc.Load(user.ID); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if _, err := svc.AddQuestion("Did I exercise?", constants.QuestionToggle); err != nil {
		t.Fatalf("failed to add question: %v", err)
	}
	if _, err := svc.AddQuestion("Hours slept?", constants.QuestionNumeric); err != nil {
		t.Fatalf("failed to add question: %v", err)
	}

	return NewModel(svc), svc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func TestNewModel_ListsActiveQuestions(t *testing.T) {
	m, _ := setupTestModel(t)

	items := m.checkin.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Question.Text != "Did I exercise?" || items[0].Position != 1 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[0].Answer != nil {
		t.Error("expected no answer before check-in")
	}
}

func TestToggleAnswerFlips(t *testing.T) {
	m, svc := setupTestModel(t)
	q := m.checkin.Items()[0].Question

	m = update(t, m, checkin.AnswerMsg{Question: q})
	item := m.checkin.Items()[0]
	if item.Answer == nil || item.Answer.Value != models.BoolValue(true) {
		t.Fatalf("expected yes after first answer, got %+v", item.Answer)
	}

	m = update(t, m, checkin.AnswerMsg{Question: q, Current: item.Answer})
	answers, err := svc.TodayAnswers()
	if err != nil {
		t.Fatalf("TodayAnswers failed: %v", err)
	}
	if len(answers) != 1 || answers[0].Value != models.BoolValue(false) {
		t.Errorf("expected a single no answer, got %+v", answers)
	}
	if m.statusErr {
		t.Errorf("unexpected error status: %s", m.status)
	}
}

func TestNumericAnswerOpensForm(t *testing.T) {
	m, _ := setupTestModel(t)
	q := m.checkin.Items()[1].Question

	m = update(t, m, checkin.AnswerMsg{Question: q})
	if m.state != StateAnswering {
		t.Fatalf("expected answering state, got %v", m.state)
	}
	if m.answering == nil || m.answering.ID != q.ID {
		t.Fatal("expected the numeric question to be under edit")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateToday {
		t.Errorf("expected esc to return to today, got %v", m.state)
	}
}

func TestClearAnswer(t *testing.T) {
	m, svc := setupTestModel(t)
	q := m.checkin.Items()[0].Question

	m = update(t, m, checkin.AnswerMsg{Question: q})
	m = update(t, m, checkin.ClearMsg{QuestionID: q.ID})

	answers, err := svc.TodayAnswers()
	if err != nil {
		t.Fatalf("TodayAnswers failed: %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("expected no answers after clear, got %d", len(answers))
	}
	if m.checkin.Items()[0].Answer != nil {
		t.Error("expected list to drop the cleared answer")
	}

	// Clearing again reports the missing answer
	m = update(t, m, checkin.ClearMsg{QuestionID: q.ID})
	if !m.statusErr {
		t.Error("expected an error status when nothing is left to clear")
	}
}

func TestTabSwitchesViews(t *testing.T) {
	m, _ := setupTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateInsights {
		t.Fatalf("expected insights after tab, got %v", m.state)
	}
	if !strings.Contains(m.View(), "Longest streak") {
		t.Error("expected insights view to show streaks")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateToday {
		t.Errorf("expected today after shift+tab, got %v", m.state)
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestCheckinKeysEmitMessages(t *testing.T) {
	m, _ := setupTestModel(t)

	_, cmd := m.checkin.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected enter to emit a command")
	}
	if _, ok := cmd().(checkin.AnswerMsg); !ok {
		t.Error("expected enter to request an answer")
	}

	// Nothing to clear on an unanswered question
	_, cmd = m.checkin.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd != nil {
		if _, ok := cmd().(checkin.ClearMsg); ok {
			t.Error("expected no clear request for an unanswered question")
		}
	}
}
