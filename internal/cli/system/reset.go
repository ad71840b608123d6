package system

import (
	"fmt"

	"github.com/julianstephens/dailyq/internal/cli"
)

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt."`
}

// Run erases every user, question and answer but keeps the database file.
func (c *ResetCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Confirm(c.Yes, "Erase ALL accounts, questions and answers on this device?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Reset cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.ClearAllData(); err != nil {
		return err
	}
	if err := ctx.Accounts.SignOut(); err != nil {
		return err
	}
	ctx.Reflection.Reset()

	fmt.Println(cli.SuccessStyle.Render("✓ All data erased."))
	return nil
}
