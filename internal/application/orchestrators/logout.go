package orchestrators

import (
	"context"
	"log/slog"
)

// LogoutGateway defines the backend calls needed by Logout.
type LogoutGateway interface {
	Logout(ctx context.Context, token string) error
}

// SessionDeleter defines the session-store interface needed by Logout.
type SessionDeleter interface {
	Delete(ctx context.Context, token string) error
}

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	SessionToken string
	BearerToken  string
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Auth     LogoutGateway
	Sessions SessionDeleter
}

// ExecuteLogout ends the session on both sides.
// POST: The local session is removed even when the backend call fails
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) error {
	if err := deps.Auth.Logout(ctx, input.BearerToken); err != nil {
		slog.Info("auth_event", "event", "logout_remote_failed", "error", err.Error())
	}
	if err := deps.Sessions.Delete(ctx, input.SessionToken); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}
