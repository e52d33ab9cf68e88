package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"academy/internal/domain/identity"
)

// AuthGateway defines the backend calls needed by Login.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (identity.UserIdentity, string, error)
}

// SessionCreator defines the session-store interface needed by Login.
type SessionCreator interface {
	Create(ctx context.Context, bearerToken string, user identity.UserIdentity) (string, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	SessionToken string
	User         identity.UserIdentity
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth     AuthGateway
	Sessions SessionCreator
}

var ErrMissingCredentials = errors.New("введите имя пользователя и пароль")

// ExecuteLogin authenticates against the backend and opens a session.
// PRE: Username and password are provided
// POST: On success a session row binds the cookie token to the
// backend's bearer token; the bearer token itself never leaves the
// server
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if err := validate.Struct(input); err != nil {
		return LoginResult{}, ErrMissingCredentials
	}

	user, bearerToken, err := deps.Auth.Login(ctx, input.Username, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username)
		return LoginResult{}, err
	}

	sessionToken, err := deps.Sessions.Create(ctx, bearerToken, user)
	if err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username, "role", user.Role)
	return LoginResult{SessionToken: sessionToken, User: user}, nil
}
