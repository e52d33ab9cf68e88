package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"academy/internal/domain/identity"
)

// SQLiteStore implements Store using SQLite. Sessions survive process
// restarts, unlike an in-memory map.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Create stores a new session and returns the cookie token.
// PRE: bearerToken is non-empty
// POST: Session is stored, token is returned
func (s *SQLiteStore) Create(ctx context.Context, bearerToken string, user identity.UserIdentity) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	query := "INSERT INTO session (token, bearer_token, username, display_name, role, role_display, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err = s.db.ExecContext(ctx, query,
		token,
		bearerToken,
		user.Username,
		user.DisplayName,
		user.Role,
		user.RoleDisplay,
		s.now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Get retrieves a session by cookie token.
// PRE: token is non-empty
// POST: Returns the session if valid; expired sessions are removed
func (s *SQLiteStore) Get(ctx context.Context, token string) (Session, bool, error) {
	query := "SELECT token, bearer_token, username, display_name, role, role_display, created_at FROM session WHERE token = ?"
	row := s.db.QueryRowContext(ctx, query, token)

	var entity Session
	var createdAt string
	err := row.Scan(
		&entity.Token,
		&entity.BearerToken,
		&entity.Identity.Username,
		&entity.Identity.DisplayName,
		&entity.Identity.Role,
		&entity.Identity.RoleDisplay,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	entity.Identity.LoginTime = entity.CreatedAt
	if entity.Expired(s.now()) {
		_ = s.Delete(ctx, token)
		return Session{}, false, nil
	}
	return entity, true, nil
}

// Delete removes a session by cookie token.
// POST: Session with given token is removed
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token = ?", token)
	return err
}

// DeleteByBearerToken removes every session bound to a backend token.
// Used when the backend rejects the token with a 401.
func (s *SQLiteStore) DeleteByBearerToken(ctx context.Context, bearerToken string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE bearer_token = ?", bearerToken)
	return err
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
