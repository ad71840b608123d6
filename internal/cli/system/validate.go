package system

import (
	"fmt"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Session()
	if err != nil {
		return err
	}
	snap, err := ctx.Reflection.Snapshot()
	if err != nil {
		return err
	}

	result := validation.New().ValidateAll(user, snap.Questions, snap.Answers)
	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
		return nil
	}

	// Answers left over from a type change are history, not damage
	if len(result.Warnings()) == len(result.Conflicts) {
		fmt.Println(cli.WarningStyle.Render("Only informational findings."))
		return nil
	}
	return fmt.Errorf("found %d problem(s) in stored data", len(result.Conflicts)-len(result.Warnings()))
}
