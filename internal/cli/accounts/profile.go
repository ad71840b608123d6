package accounts

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/models"
)

type ProfileCmd struct {
	DisplayName   *string `help:"New display name."`
	Email         *string `help:"New email address."`
	ReminderTime  *string `help:"Daily reminder time (HH:MM, empty to clear)."`
	Notifications string  `help:"Turn reminders on or off." placeholder:"on|off"`
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	current, err := ctx.Accounts.Restore()
	if err != nil {
		return err
	}

	update := models.UserUpdate{
		Email:        c.Email,
		DisplayName:  c.DisplayName,
		ReminderTime: c.ReminderTime,
	}
	switch strings.ToLower(c.Notifications) {
	case "":
	case "on", "true", "yes":
		on := true
		update.NotificationsEnabled = &on
	case "off", "false", "no":
		off := false
		update.NotificationsEnabled = &off
	default:
		return fmt.Errorf("invalid --notifications value %q (expected on or off)", c.Notifications)
	}
	// Turning reminders on without a time keeps the default shown by whoami
	if update.NotificationsEnabled != nil && *update.NotificationsEnabled &&
		update.ReminderTime == nil && current.ReminderTime == "" {
		reminder := constants.DefaultReminderTime
		update.ReminderTime = &reminder
	}

	user, err := ctx.Accounts.UpdateProfile(update)
	if err != nil {
		return err
	}

	if !update.IsEmpty() {
		fmt.Println("✓ Profile updated")
	}
	printProfile(user)
	return nil
}

type PasswordCmd struct {
	Current string `help:"Current password (prompted when omitted)."`
	New     string `help:"New password (prompted when omitted)."`
}

func (c *PasswordCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Accounts.Restore(); err != nil {
		return err
	}

	current, err := ctx.AskPassword(c.Current, "Current password")
	if err != nil {
		return err
	}
	next := c.New
	if next == "" {
		if next, err = ctx.Prompter.Password("New password"); err != nil {
			return err
		}
		confirm, err := ctx.Prompter.Password("Confirm new password")
		if err != nil {
			return err
		}
		if confirm != next {
			return fmt.Errorf("passwords do not match")
		}
	}

	if err := ctx.Accounts.ChangePassword(current, next); err != nil {
		return err
	}
	fmt.Println("✓ Password changed")
	return nil
}

type DeleteAccountCmd struct {
	Yes bool `help:"Skip the confirmation prompt."`
}

func (c *DeleteAccountCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Accounts.Restore()
	if err != nil {
		return err
	}

	fmt.Println(cli.DangerStyle.Render("This permanently deletes your account, questions and answers."))
	ok, err := ctx.Confirm(c.Yes, fmt.Sprintf("Delete account %s?", user.Email))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Account deletion cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Accounts.DeleteAccount(); err != nil {
		return err
	}
	ctx.Reflection.Reset()

	fmt.Println("✓ Account deleted")
	return nil
}
