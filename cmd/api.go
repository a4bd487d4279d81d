package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/filmax/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the backend.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var token string
	if cmd.Bool("auth") {
		if err := r.requireSession(ctx); err != nil {
			return err
		}
		token = r.session.Token()
	}

	r.logger.Info("GET request", "path", path, "authenticated", token != "")

	resp, err := r.api.GetAuthed(ctx, path, token)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, resp.Detail())
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// AdminPing calls the admin-only endpoint with the stored session.
func (r *Runner) AdminPing(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	resp, err := r.api.AdminOnly(ctx, r.session.Token())
	if errors.Is(err, shared.ErrForbidden) {
		return fmt.Errorf("%w: your account does not have the admin role", shared.ErrForbidden)
	} else if err != nil {
		return err
	}

	if data, ok := resp.JSONData.(map[string]any); ok {
		if msg, ok := data["message"].(string); ok {
			return r.writePlain("✓ %s\n", msg)
		}
	}
	return r.writePlain("✓ %s\n", string(resp.Body))
}
