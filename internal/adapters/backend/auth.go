package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"academy/internal/domain/identity"
)

type userPayload struct {
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	RoleDisplay string `json:"role_display"`
}

func (p userPayload) toIdentity() identity.UserIdentity {
	return identity.UserIdentity{
		Username:    p.Username,
		DisplayName: p.FullName,
		Role:        p.Role,
		RoleDisplay: p.RoleDisplay,
		LoginTime:   time.Now(),
	}
}

// Login exchanges credentials for a bearer token and user identity.
// POST: Returns *APIError with the backend's message on rejected
// credentials; never stores anything locally
func (c *Client) Login(ctx context.Context, username, password string) (identity.UserIdentity, string, error) {
	body := map[string]string{"username": username, "password": password}
	raw, err := c.do(ctx, "", http.MethodPost, "/api/login/", body)
	if err != nil {
		return identity.UserIdentity{}, "", err
	}

	var payload struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		Error   string      `json:"error"`
		User    userPayload `json:"user"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return identity.UserIdentity{}, "", &APIError{Message: "некорректный ответ сервера"}
	}
	if !payload.Success || payload.Token == "" {
		msg := payload.Error
		if msg == "" {
			msg = "Ошибка входа"
		}
		return identity.UserIdentity{}, "", &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	return payload.User.toIdentity(), payload.Token, nil
}

// Logout invalidates the token on the backend. Callers clear local
// session state regardless of the result.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, token, http.MethodPost, "/api/logout/", struct{}{})
	return err
}

// UserInfo fetches the identity bound to a token.
func (c *Client) UserInfo(ctx context.Context, token string) (identity.UserIdentity, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/user-info/", nil)
	if err != nil {
		return identity.UserIdentity{}, err
	}
	var payload struct {
		Success bool        `json:"success"`
		User    userPayload `json:"user"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || !payload.Success {
		return identity.UserIdentity{}, &APIError{Message: "некорректный ответ сервера"}
	}
	return payload.User.toIdentity(), nil
}
