package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.credentials(ctx, cmd, "Log in to Filmax")
	if err != nil {
		return err
	}

	if !r.session.Login(ctx, creds.Username, creds.Password) {
		return r.session.LastError()
	}

	if id := r.session.Identity(); id != nil {
		return r.writePlain("✓ Logged in as %s (%s)\n", id.Username, id.Role)
	}

	r.logger.Warn("logged in but identity is unavailable", "error", r.session.LastError())
	return r.writePlain("✓ Logged in as %s\n", creds.Username)
}

// AuthRegister creates an account. It does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	role := strings.ToLower(cmd.String("role"))
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("%w: role must be %q or %q", shared.ErrInvalidArgument, models.RoleUser, models.RoleAdmin)
	}

	creds, err := r.credentials(ctx, cmd, "Create a Filmax account")
	if err != nil {
		return err
	}

	if !r.session.Register(ctx, creds.Username, creds.Password, role) {
		return r.session.LastError()
	}

	r.writePlain("✓ Account %s created\n", creds.Username)
	return r.writePlain("Run 'filmax auth login' to sign in.\n")
}

// AuthLogout forgets the stored token. It never contacts the backend.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Init(ctx); err != nil {
		return err
	}

	if r.session.Token() == "" {
		return r.writePlain("Not logged in\n")
	}

	r.session.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoami validates the stored token and prints the identity behind it.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	id := r.session.Identity()
	if id == nil {
		return fmt.Errorf("could not fetch identity: %w", r.session.LastError())
	}

	if cmd.Bool("json") {
		return r.writeJSON(id, cmd.Bool("pretty"))
	}

	r.writePlain("Username: %s\n", id.Username)
	r.writePlain("ID:       %d\n", id.ID)
	return r.writePlain("Role:     %s\n", id.Role)
}

// AuthHistory lists the session events recorded locally.
func (r *Runner) AuthHistory(ctx context.Context, cmd *cli.Command) error {
	if r.events == nil {
		return fmt.Errorf("%w: local database is not available", shared.ErrServiceUnavailable)
	}

	events, err := r.events.List(int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to list session events: %w", err)
	}

	if cmd.Bool("json") {
		type eventJSON struct {
			Sequence  int    `json:"sequence"`
			Kind      string `json:"kind"`
			Username  string `json:"username,omitempty"`
			CreatedAt string `json:"created_at"`
		}
		out := make([]eventJSON, len(events))
		for i, e := range events {
			out[i] = eventJSON{e.Sequence(), string(e.Kind()), e.Username(), e.CreatedAt().Format(time.RFC3339)}
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(events) == 0 {
		return r.writePlain("No session events recorded\n")
	}

	r.writePlainHeader("Session history")
	for _, e := range events {
		who := e.Username()
		if who == "" {
			who = "-"
		}
		r.writePlain("%4d  %s  %-14s %s\n", e.Sequence(), e.CreatedAt().Local().Format("2006-01-02 15:04"), e.Kind(), who)
	}
	return nil
}

// credentials reads --username and --password, prompting for whichever is missing.
func (r *Runner) credentials(ctx context.Context, cmd *cli.Command, title string) (Credentials, error) {
	creds := Credentials{
		Username: strings.TrimSpace(cmd.String("username")),
		Password: cmd.String("password"),
	}

	if creds.Username == "" || creds.Password == "" {
		if err := r.prompt.Credentials(ctx, title, &creds); err != nil {
			return creds, fmt.Errorf("%w: %v", shared.ErrMissingArgument, err)
		}
		creds.Username = strings.TrimSpace(creds.Username)
	}

	if creds.Username == "" || creds.Password == "" {
		return creds, fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}
	return creds, nil
}

// requireSession restores the stored token and fails when none survives validation.
func (r *Runner) requireSession(ctx context.Context) error {
	if err := r.session.Init(ctx); err != nil {
		return err
	}

	if r.session.Token() == "" {
		if err := r.session.LastError(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
		}
		return shared.ErrNotAuthenticated
	}
	return nil
}
