package streak

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/models"
)

func answersOn(questionID string, dates ...string) []models.Answer {
	out := make([]models.Answer, 0, len(dates))
	for i, d := range dates {
		out = append(out, models.Answer{
			ID:         fmt.Sprintf("%s-%d", questionID, i),
			QuestionID: questionID,
			Date:       d,
			Value:      models.BoolValue(true),
		})
	}
	return out
}

func questions(n, archived int) []models.Question {
	out := make([]models.Question, 0, n+archived)
	for i := 0; i < n; i++ {
		out = append(out, models.Question{ID: fmt.Sprintf("q%d", i), Type: constants.QuestionToggle, Order: i})
	}
	for i := 0; i < archived; i++ {
		out = append(out, models.Question{ID: fmt.Sprintf("arch%d", i), Type: constants.QuestionToggle, IsArchived: true})
	}
	return out
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		dates   []string
		today   string
		current int
		longest int
	}{
		{name: "no answers", today: "2024-01-03"},
		{name: "three consecutive days", dates: []string{"2024-01-01", "2024-01-02", "2024-01-03"}, today: "2024-01-03", current: 3, longest: 3},
		{name: "gap breaks run", dates: []string{"2024-01-01", "2024-01-03"}, today: "2024-01-03", current: 1, longest: 1},
		{name: "longest in the past", dates: []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-08", "2024-01-09"}, today: "2024-01-09", current: 2, longest: 4},
		{name: "today not answered yet", dates: []string{"2024-01-01", "2024-01-02"}, today: "2024-01-03", current: 2, longest: 2},
		{name: "future dates excluded from current", dates: []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}, today: "2024-01-03", current: 2, longest: 4},
		{name: "only future dates", dates: []string{"2024-02-01"}, today: "2024-01-03", current: 0, longest: 1},
		{name: "unsorted input", dates: []string{"2024-01-03", "2024-01-01", "2024-01-02"}, today: "2024-01-03", current: 3, longest: 3},
		{name: "across month boundary", dates: []string{"2024-01-31", "2024-02-01"}, today: "2024-02-01", current: 2, longest: 2},
		{name: "across leap day", dates: []string{"2024-02-28", "2024-02-29", "2024-03-01"}, today: "2024-03-01", current: 3, longest: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(answersOn("q0", tt.dates...), tt.today)
			assert.Equal(t, tt.current, got.Current, "current")
			assert.Equal(t, tt.longest, got.Longest, "longest")
		})
	}
}

func TestCalculateCountsDateOnce(t *testing.T) {
	answers := append(answersOn("q0", "2024-01-01", "2024-01-02"), answersOn("q1", "2024-01-01", "2024-01-02")...)

	got := Calculate(answers, "2024-01-02")

	assert.Equal(t, Result{Current: 2, Longest: 2}, got)
}

func TestActiveDatesSkipsMalformed(t *testing.T) {
	dates := ActiveDates(answersOn("q0", "2024-01-02", "bogus", "2024-01-01", "2024-01-02"))

	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, dates)
}

func TestCompletion(t *testing.T) {
	qs := questions(4, 1)
	answers := append(answersOn("q0", "2024-01-01"), answersOn("q1", "2024-01-01")...)

	assert.Equal(t, 50, Completion(answers, qs, "2024-01-01"))
	assert.Equal(t, 0, Completion(answers, qs, "2024-01-02"))
	assert.Equal(t, 0, Completion(answers, nil, "2024-01-01"))
}

func TestCompletionIgnoresArchived(t *testing.T) {
	qs := questions(2, 1)
	answers := append(answersOn("q0", "2024-01-01"), answersOn("arch0", "2024-01-01")...)

	// 1 of 2 active answered; the archived answer does not count
	assert.Equal(t, 50, Completion(answers, qs, "2024-01-01"))

	byDate := CompletionByDate(answers, qs)
	assert.Equal(t, map[string]int{"2024-01-01": 50}, byDate)
}

func TestCompletionRounds(t *testing.T) {
	qs := questions(3, 0)

	assert.Equal(t, 33, Completion(answersOn("q0", "2024-01-01"), qs, "2024-01-01"))
	answers := append(answersOn("q0", "2024-01-01"), answersOn("q1", "2024-01-01")...)
	assert.Equal(t, 67, Completion(answers, qs, "2024-01-01"))
}

func TestTrailingAverage(t *testing.T) {
	byDate := map[string]int{"2024-01-07": 100}

	assert.Equal(t, 14, TrailingAverage(byDate, "2024-01-07", constants.WeeklyWindowDays))
	assert.Equal(t, 3, TrailingAverage(byDate, "2024-01-07", constants.MonthlyWindowDays))
	assert.Equal(t, 0, TrailingAverage(byDate, "2024-01-15", constants.WeeklyWindowDays))
	assert.Equal(t, 0, TrailingAverage(byDate, "not-a-date", 7))
	assert.Equal(t, 0, TrailingAverage(byDate, "2024-01-07", 0))
}

func TestCalendar(t *testing.T) {
	byDate := map[string]int{"2024-01-02": 50, "2024-01-03": 100}

	cells := Calendar(byDate, "2024-01-03", 3)

	require.Len(t, cells, 3)
	assert.Equal(t, Day{Date: "2024-01-01"}, cells[0])
	assert.Equal(t, Day{Date: "2024-01-02", Completion: 50, Answered: true}, cells[1])
	assert.Equal(t, Day{Date: "2024-01-03", Completion: 100, Answered: true}, cells[2])
}

func TestSummarize(t *testing.T) {
	qs := questions(2, 0)
	var answers []models.Answer
	answers = append(answers, answersOn("q0", "2024-01-05", "2024-01-06", "2024-01-07")...)
	answers = append(answers, answersOn("q1", "2024-01-07")...)

	got := Summarize(answers, qs, "2024-01-07", 7)

	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 3, got.Longest)
	assert.Equal(t, 100, got.TodayCompletion)
	// (50 + 50 + 100) / 7
	assert.Equal(t, 29, got.Weekly)
	// 200 / 30
	assert.Equal(t, 7, got.Monthly)
	assert.Len(t, got.Calendar, 7)
}
