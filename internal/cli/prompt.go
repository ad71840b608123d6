package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// Prompter asks the user for input the command line did not supply.
type Prompter interface {
	Input(title string, validate func(string) error) (string, error)
	Password(title string) (string, error)
	Confirm(title string) (bool, error)
}

// HuhPrompter prompts on the terminal with huh forms.
type HuhPrompter struct{}

func (HuhPrompter) Input(title string, validate func(string) error) (string, error) {
	var value string
	input := huh.NewInput().Title(title).Value(&value)
	if validate != nil {
		input = input.Validate(validate)
	}
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return value, nil
}

func (HuhPrompter) Password(title string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return value, nil
}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

// Ask returns value when set and prompts for it otherwise.
func (c *Context) Ask(value, title string, validate func(string) error) (string, error) {
	if value != "" {
		return value, nil
	}
	return c.Prompter.Input(title, validate)
}

// AskPassword returns value when set and prompts for it otherwise.
func (c *Context) AskPassword(value, title string) (string, error) {
	if value != "" {
		return value, nil
	}
	return c.Prompter.Password(title)
}

// Confirm returns true without prompting when yes is set.
func (c *Context) Confirm(yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	return c.Prompter.Confirm(title)
}
