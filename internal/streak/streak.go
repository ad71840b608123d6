// Package streak derives streaks and completion metrics from a user's answer
// history. Every function is pure and recomputes from scratch.
package streak

import (
	"math"
	"sort"

	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/utils"
)

// Result holds streak lengths in days.
type Result struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Day is one cell of the completion calendar.
type Day struct {
	Date       string `json:"date"`
	Completion int    `json:"completion"`
	Answered   bool   `json:"answered"`
}

// Insights is everything the stats view renders.
type Insights struct {
	Result
	Weekly          int   `json:"weekly_average"`
	Monthly         int   `json:"monthly_average"`
	TodayCompletion int   `json:"today_completion"`
	Calendar        []Day `json:"calendar"`
}

// ActiveDates returns the distinct well-formed dates that have at least one
// answer, ascending.
func ActiveDates(answers []models.Answer) []string {
	seen := make(map[string]struct{}, len(answers))
	dates := make([]string, 0, len(answers))
	for _, a := range answers {
		if _, ok := seen[a.Date]; ok {
			continue
		}
		if !utils.ValidateDate(a.Date) {
			continue
		}
		seen[a.Date] = struct{}{}
		dates = append(dates, a.Date)
	}
	sort.Strings(dates)
	return dates
}

// Calculate walks the active dates from newest to oldest. A run continues only
// while each older date is the previous calendar day of the one before it.
// Current is the most recent run ending on or before today; dates after today
// count toward Longest only.
func Calculate(answers []models.Answer, today string) Result {
	dates := ActiveDates(answers)

	var res Result
	run := 0
	for i := len(dates) - 1; i >= 0; i-- {
		if run > 0 && !isPreviousDay(dates[i], dates[i+1]) {
			run = 0
		}
		run++
		res.Longest = max(res.Longest, run)
	}

	// newest active date not after today
	last := sort.Search(len(dates), func(i int) bool { return dates[i] > today }) - 1
	if last < 0 {
		return res
	}
	res.Current = 1
	for j := last; j > 0 && isPreviousDay(dates[j-1], dates[j]); j-- {
		res.Current++
	}
	return res
}

func isPreviousDay(earlier, later string) bool {
	d, err := utils.DaysBetween(earlier, later)
	return err == nil && d == 1
}

// Completion returns round(100 * answered / active) for date, where only
// non-archived questions count on either side. It is 0 with no active questions.
func Completion(answers []models.Answer, questions []models.Question, date string) int {
	active := activeIDs(questions)
	if len(active) == 0 {
		return 0
	}

	answered := make(map[string]struct{})
	for _, a := range answers {
		if a.Date != date {
			continue
		}
		if _, ok := active[a.QuestionID]; ok {
			answered[a.QuestionID] = struct{}{}
		}
	}
	return percent(len(answered), len(active))
}

// CompletionByDate maps every answered date to its completion percentage.
func CompletionByDate(answers []models.Answer, questions []models.Question) map[string]int {
	active := activeIDs(questions)
	answered := make(map[string]map[string]struct{})
	for _, a := range answers {
		if _, ok := active[a.QuestionID]; !ok {
			continue
		}
		if answered[a.Date] == nil {
			answered[a.Date] = make(map[string]struct{})
		}
		answered[a.Date][a.QuestionID] = struct{}{}
	}

	byDate := make(map[string]int, len(answered))
	for date, ids := range answered {
		byDate[date] = percent(len(ids), len(active))
	}
	return byDate
}

// TrailingAverage is the rounded mean completion over the days calendar days
// ending at today. Days missing from byDate count as 0.
func TrailingAverage(byDate map[string]int, today string, days int) int {
	if days <= 0 {
		return 0
	}
	window, err := utils.LastNDays(today, days)
	if err != nil {
		return 0
	}
	sum := 0
	for _, d := range window {
		sum += byDate[d]
	}
	return int(math.Round(float64(sum) / float64(days)))
}

// Calendar returns one cell per day for the days calendar days ending at
// today, oldest first.
func Calendar(byDate map[string]int, today string, days int) []Day {
	if days <= 0 {
		return nil
	}
	window, err := utils.LastNDays(today, days)
	if err != nil {
		return nil
	}
	cells := make([]Day, 0, len(window))
	for _, d := range window {
		c, ok := byDate[d]
		cells = append(cells, Day{Date: d, Completion: c, Answered: ok})
	}
	return cells
}

// Summarize computes the full insight set with a calendarDays-long calendar.
func Summarize(answers []models.Answer, questions []models.Question, today string, calendarDays int) Insights {
	byDate := CompletionByDate(answers, questions)
	return Insights{
		Result:          Calculate(answers, today),
		Weekly:          TrailingAverage(byDate, today, constants.WeeklyWindowDays),
		Monthly:         TrailingAverage(byDate, today, constants.MonthlyWindowDays),
		TodayCompletion: byDate[today],
		Calendar:        Calendar(byDate, today, calendarDays),
	}
}

func activeIDs(questions []models.Question) map[string]struct{} {
	ids := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if !q.IsArchived {
			ids[q.ID] = struct{}{}
		}
	}
	return ids
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}
