package answers

import (
	"fmt"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/streak"
	"github.com/julianstephens/dailyq/internal/validation"
)

type TodayCmd struct {
	Date string `help:"Show another day (YYYY-MM-DD)."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = ctx.Reflection.Today()
	} else if err := validation.Date(date); err != nil {
		return err
	}

	snap, err := ctx.Reflection.Snapshot()
	if err != nil {
		return err
	}
	answers, err := ctx.Reflection.AnswersForDate(date)
	if err != nil {
		return err
	}
	active := models.ActiveQuestions(snap.Questions)
	if len(active) == 0 {
		fmt.Println("No active questions. Add one with 'dailyq question add'.")
		return nil
	}

	byQuestion := make(map[string]models.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	fmt.Println(cli.TitleStyle.Render("Reflection for " + date))
	fmt.Println()
	for i, q := range snap.Questions {
		if q.IsArchived {
			continue
		}
		mark := cli.MutedStyle.Render("○")
		value := cli.MutedStyle.Render("unanswered")
		if a, ok := byQuestion[q.ID]; ok {
			mark = cli.SuccessStyle.Render("●")
			value = a.Value.String()
		}
		fmt.Printf("%s %2d. %s\n      %s\n", mark, i+1, q.Text, value)
	}

	fmt.Println()
	fmt.Printf("Completion: %s\n", cli.CompletionBar(streak.Completion(snap.Answers, snap.Questions, date)))
	return nil
}
