package accounts

import (
	"fmt"

	"github.com/julianstephens/dailyq/internal/cli"
	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/models"
)

type SignUpCmd struct {
	Email    string `arg:"" optional:"" help:"Account email."`
	Name     string `help:"Display name."`
	Password string `help:"Password (prompted when omitted)." env:"${env_password}"`
}

func (c *SignUpCmd) Run(ctx *cli.Context) error {
	email, err := ctx.Ask(c.Email, "Email", nil)
	if err != nil {
		return err
	}
	password := c.Password
	if password == "" {
		if password, err = ctx.Prompter.Password("Password"); err != nil {
			return err
		}
		confirm, err := ctx.Prompter.Password("Confirm password")
		if err != nil {
			return err
		}
		if confirm != password {
			return fmt.Errorf("passwords do not match")
		}
	}

	user, err := ctx.Accounts.SignUp(email, password, c.Name)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Account created for %s\n", user.Email)
	fmt.Println("  Six starter questions were added. See them with 'dailyq question list'.")
	return nil
}

type SignInCmd struct {
	Email    string `arg:"" optional:"" help:"Account email."`
	Password string `help:"Password (prompted when omitted)." env:"${env_password}"`
}

func (c *SignInCmd) Run(ctx *cli.Context) error {
	email, err := ctx.Ask(c.Email, "Email", nil)
	if err != nil {
		return err
	}
	password, err := ctx.AskPassword(c.Password, "Password")
	if err != nil {
		return err
	}

	user, err := ctx.Accounts.SignIn(email, password)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Signed in as %s\n", displayName(user))
	return nil
}

type SignOutCmd struct{}

func (c *SignOutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Accounts.SignOut(); err != nil {
		return err
	}
	ctx.Reflection.Reset()
	fmt.Println("Signed out.")
	return nil
}

type WhoAmICmd struct{}

func (c *WhoAmICmd) Run(ctx *cli.Context) error {
	user, err := ctx.Accounts.Restore()
	if err != nil {
		return err
	}
	printProfile(user)
	return nil
}

func displayName(u models.User) string {
	if u.DisplayName != "" {
		return fmt.Sprintf("%s <%s>", u.DisplayName, u.Email)
	}
	return u.Email
}

func printProfile(u models.User) {
	reminder := u.ReminderTime
	if reminder == "" {
		reminder = cli.MutedStyle.Render(constants.DefaultReminderTime + " (default)")
	}
	notifications := "off"
	if u.NotificationsEnabled {
		notifications = "on"
	}

	fmt.Println(cli.TitleStyle.Render(displayName(u)))
	fmt.Printf("  Reminder:       %s\n", reminder)
	fmt.Printf("  Notifications:  %s\n", notifications)
	fmt.Printf("  Member since:   %s\n", u.CreatedAt.Local().Format("2006-01-02"))
}
