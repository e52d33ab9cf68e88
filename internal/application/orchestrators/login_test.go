package orchestrators

import (
	"context"
	"errors"
	"testing"

	"academy/internal/adapters/backend"
	"academy/internal/domain/identity"
)

type mockAuthGateway struct {
	user        identity.UserIdentity
	bearerToken string
	loginErr    error
	logoutErr   error
	logoutCalls int
}

func (m *mockAuthGateway) Login(_ context.Context, _, _ string) (identity.UserIdentity, string, error) {
	return m.user, m.bearerToken, m.loginErr
}

func (m *mockAuthGateway) Logout(_ context.Context, _ string) error {
	m.logoutCalls++
	return m.logoutErr
}

type mockSessionStore struct {
	created     map[string]string // cookie token → bearer token
	deleteCalls []string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{created: make(map[string]string)}
}

func (m *mockSessionStore) Create(_ context.Context, bearerToken string, _ identity.UserIdentity) (string, error) {
	token := "cookie-1"
	m.created[token] = bearerToken
	return token, nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	m.deleteCalls = append(m.deleteCalls, token)
	return nil
}

func TestExecuteLogin_OpensSession(t *testing.T) {
	auth := &mockAuthGateway{
		user:        identity.UserIdentity{Username: "admin1", Role: identity.RoleAdmin},
		bearerToken: "bearer-xyz",
	}
	sessions := newMockSessionStore()

	result, err := ExecuteLogin(context.Background(),
		LoginInput{Username: "admin1", Password: "secret"},
		LoginDeps{Auth: auth, Sessions: sessions})
	if err != nil {
		t.Fatalf("ExecuteLogin: %v", err)
	}
	if result.SessionToken == "" {
		t.Fatal("no session token returned")
	}
	if sessions.created[result.SessionToken] != "bearer-xyz" {
		t.Errorf("session not bound to the backend bearer token")
	}
	if result.User.Role != identity.RoleAdmin {
		t.Errorf("role = %q, want admin", result.User.Role)
	}
}

func TestExecuteLogin_EmptyFieldsNeverReachBackend(t *testing.T) {
	auth := &mockAuthGateway{loginErr: errors.New("must not be called")}
	sessions := newMockSessionStore()

	_, err := ExecuteLogin(context.Background(),
		LoginInput{Username: "admin1"},
		LoginDeps{Auth: auth, Sessions: sessions})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
	if len(sessions.created) != 0 {
		t.Error("session created for invalid input")
	}
}

func TestExecuteLogin_BackendRejection(t *testing.T) {
	wantErr := &backend.APIError{StatusCode: 400, Message: "Неверные учетные данные"}
	auth := &mockAuthGateway{loginErr: wantErr}

	_, err := ExecuteLogin(context.Background(),
		LoginInput{Username: "admin1", Password: "wrong"},
		LoginDeps{Auth: auth, Sessions: newMockSessionStore()})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want the backend error surfaced", err)
	}
}

func TestExecuteLogout_ClearsSessionEvenWhenRemoteFails(t *testing.T) {
	auth := &mockAuthGateway{logoutErr: errors.New("network error")}
	sessions := newMockSessionStore()

	err := ExecuteLogout(context.Background(),
		LogoutInput{SessionToken: "cookie-1", BearerToken: "bearer-xyz"},
		LogoutDeps{Auth: auth, Sessions: sessions})
	if err != nil {
		t.Fatalf("ExecuteLogout: %v", err)
	}
	if auth.logoutCalls != 1 {
		t.Errorf("remote logout called %d times, want 1", auth.logoutCalls)
	}
	if len(sessions.deleteCalls) != 1 || sessions.deleteCalls[0] != "cookie-1" {
		t.Errorf("local session not cleared: %v", sessions.deleteCalls)
	}
}
