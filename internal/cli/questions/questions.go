package questions

import (
	"fmt"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/models"
)

type QuestionCmd struct {
	Add       AddCmd       `cmd:"" help:"Add a question."`
	List      ListCmd      `cmd:"" help:"List questions."`
	Edit      EditCmd      `cmd:"" help:"Edit a question."`
	Archive   ArchiveCmd   `cmd:"" help:"Archive a question (answers are kept)."`
	Unarchive UnarchiveCmd `cmd:"" help:"Restore an archived question."`
	Delete    DeleteCmd    `cmd:"" help:"Delete a question and all its answers."`
}

type AddCmd struct {
	Text string `arg:"" help:"Question text."`
	Type string `help:"Answer type." enum:"toggle,numeric,text" default:"toggle"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}

	q, err := ctx.Reflection.AddQuestion(c.Text, constants.QuestionType(c.Type))
	if err != nil {
		return err
	}
	fmt.Printf("Added question #%d: %s (%s)\n", q.Order+1, q.Text, q.Type)
	return nil
}

type ListCmd struct {
	Archived bool `help:"Include archived questions."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}

	questions, err := ctx.Reflection.Questions()
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Println("No questions found.")
		return nil
	}

	shown := 0
	for i, q := range questions {
		if q.IsArchived && !c.Archived {
			continue
		}
		fmt.Println(formatQuestion(i+1, q))
		shown++
	}
	if shown == 0 {
		fmt.Println("No active questions. Use --archived to see archived ones.")
	}
	return nil
}

func formatQuestion(pos int, q models.Question) string {
	line := fmt.Sprintf("%2d. %s %s %s", pos, q.Text, cli.MutedStyle.Render("["+string(q.Type)+"]"), cli.MutedStyle.Render(shortID(q.ID)))
	if q.IsArchived {
		line += " " + cli.WarningStyle.Render("[ARCHIVED]")
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type EditCmd struct {
	Question string  `arg:"" help:"Question ID, ID prefix or list position."`
	Text     *string `help:"New question text."`
	Type     *string `help:"New answer type (toggle, numeric, text). Existing answers are kept as is."`
	Order    *int    `help:"New display position value."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}
	q, err := ctx.Reflection.FindQuestion(c.Question)
	if err != nil {
		return err
	}

	update := models.QuestionUpdate{Text: c.Text, Order: c.Order}
	if c.Type != nil {
		t := constants.QuestionType(*c.Type)
		update.Type = &t
	}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to change: pass --text, --type or --order")
	}

	updated, err := ctx.Reflection.UpdateQuestion(q.ID, update)
	if err != nil {
		return err
	}
	fmt.Printf("Updated question: %s (%s)\n", updated.Text, updated.Type)
	return nil
}

type ArchiveCmd struct {
	Question string `arg:"" help:"Question ID, ID prefix or list position."`
}

func (c *ArchiveCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}
	q, err := ctx.Reflection.FindQuestion(c.Question)
	if err != nil {
		return err
	}
	if _, err := ctx.Reflection.ArchiveQuestion(q.ID); err != nil {
		return err
	}
	fmt.Printf("Archived question: %s\n", q.Text)
	return nil
}

type UnarchiveCmd struct {
	Question string `arg:"" help:"Question ID, ID prefix or list position."`
}

func (c *UnarchiveCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}
	q, err := ctx.Reflection.FindQuestion(c.Question)
	if err != nil {
		return err
	}
	if _, err := ctx.Reflection.UnarchiveQuestion(q.ID); err != nil {
		return err
	}
	fmt.Printf("Restored question: %s\n", q.Text)
	return nil
}

type DeleteCmd struct {
	Question string `arg:"" help:"Question ID, ID prefix or list position."`
	Yes      bool   `help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}
	q, err := ctx.Reflection.FindQuestion(c.Question)
	if err != nil {
		return err
	}

	ok, err := ctx.Confirm(c.Yes, fmt.Sprintf("Delete %q and all of its answers? Use archive to keep history.", q.Text))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	if err := ctx.Reflection.DeleteQuestion(q.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted question: %s\n", q.Text)
	return nil
}
