package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"crate/internal/shared"
)

// AuthRegister creates an account on the server.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password", shared.ErrMissingArgument)
	}

	user, err := r.client.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	r.logger.Info("account created", "email", user.Email)
	return r.writePlain("✓ Account created for %s\nRun 'crate auth login %s <password>' to log in\n", user.Email, user.Email)
}

// AuthLogin logs in and saves the session token for later commands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password", shared.ErrMissingArgument)
	}

	session, err := r.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	r.logger.Info("logged in", "email", session.User.Email)
	return r.writePlain("✓ Logged in as %s\n", session.User.Email)
}

// AuthLogout invalidates the session on the server and removes the saved token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Logout(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus shows the current session state without calling the server.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session := r.client.Session()
	if session == nil {
		r.writePlain("✗ Not logged in\n")
		return r.writePlain("Run 'crate auth login <email> <password>'\n")
	}
	return r.writePlain("✓ Logged in as %s\n", session.User.Email)
}
