package system

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/dailyq/internal/cli"
	apperr "github.com/julianstephens/dailyq/internal/errors"
	"github.com/julianstephens/dailyq/internal/models"
	"github.com/julianstephens/dailyq/internal/utils"
)

// debugOut receives the machine-readable output of the debug commands.
var debugOut io.Writer = os.Stdout

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpQuestion DebugDumpQuestionCmd `cmd:"" help:"Dump a question and its answers as JSON."`
	DumpDay      DebugDumpDayCmd      `cmd:"" help:"Dump one day's answers as JSON."`
}

type DebugDBPathCmd struct{}

func (c *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return writeJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpQuestionCmd struct {
	Ref string `arg:"" help:"Question ID, list position or ID prefix."`
}

type questionDump struct {
	Question models.Question `json:"question"`
	Answers  []models.Answer `json:"answers"`
}

func (c *DebugDumpQuestionCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}
	q, err := ctx.Reflection.FindQuestion(c.Ref)
	if err != nil {
		return err
	}
	snap, err := ctx.Reflection.Snapshot()
	if err != nil {
		return err
	}

	dump := questionDump{Question: q, Answers: []models.Answer{}}
	for _, a := range snap.Answers {
		if a.QuestionID == q.ID {
			dump.Answers = append(dump.Answers, a)
		}
	}
	return writeJSON(dump)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Date to dump (YYYY-MM-DD or 'today')."`
}

func (c *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}

	date := c.Date
	if date == "today" {
		date = ctx.Reflection.Today()
	}
	if !utils.ValidateDate(date) {
		return apperr.Invalid("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	answers, err := ctx.Reflection.AnswersForDate(date)
	if err != nil {
		return err
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	return writeJSON(map[string]any{"date": date, "answers": answers})
}

func writeJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(debugOut, string(jsonBytes))
	return err
}
