package answers

import (
	"fmt"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/validation"
)

type AnswerCmd struct {
	Question string `arg:"" help:"Question ID, ID prefix or list position."`
	Value    string `arg:"" optional:"" help:"Answer: yes/no for toggles, a number, or free text."`
	Date     string `help:"Date in YYYY-MM-DD format (default: today)."`
	Clear    bool   `help:"Remove the answer for the date instead of saving one."`
}

func (c *AnswerCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}

	q, err := ctx.Reflection.FindQuestion(c.Question)
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = ctx.Reflection.Today()
	} else if err := validation.Date(date); err != nil {
		return err
	}

	if c.Clear {
		if err := ctx.Reflection.ClearAnswer(q.ID, date); err != nil {
			return err
		}
		fmt.Printf("Cleared answer to %q for %s\n", q.Text, date)
		return nil
	}

	raw, err := ctx.Ask(c.Value, q.Text, nil)
	if err != nil {
		return err
	}
	value, err := models.ParseAnswerValue(q.Type, raw)
	if err != nil {
		return err
	}

	saved, err := ctx.Reflection.SaveAnswerOn(q.ID, date, value)
	if err != nil {
		return err
	}

	streaks, err := ctx.Reflection.Streaks()
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s → %s (%s)\n", q.Text, saved.Value, saved.Date)
	fmt.Printf("  Current streak: %d day(s)\n", streaks.Current)
	return nil
}
