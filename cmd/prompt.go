package main

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// Credentials are the username and password collected for login or registration.
type Credentials struct {
	Username string
	Password string
}

// Prompter fills in missing credentials interactively.
type Prompter interface {
	Credentials(ctx context.Context, title string, c *Credentials) error
}

// formPrompter asks for credentials with a [huh.Form].
type formPrompter struct{}

func (formPrompter) Credentials(ctx context.Context, title string, c *Credentials) error {
	notEmpty := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("required")
		}
		return nil
	}

	var fields []huh.Field
	if c.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&c.Username).
			Validate(notEmpty))
	}
	if c.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Validate(notEmpty))
	}
	if len(fields) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(fields...).Title(title)).WithTheme(huh.ThemeBase())
	return form.RunWithContext(ctx)
}
