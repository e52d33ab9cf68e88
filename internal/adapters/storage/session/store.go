package session

import (
	"context"
	"time"

	"academy/internal/domain/identity"
)

// Session binds a browser cookie token to a backend bearer token plus
// the identity returned at login. The bearer token never reaches the
// browser.
type Session struct {
	Token       string
	BearerToken string
	Identity    identity.UserIdentity
	CreatedAt   time.Time
}

// TTL is how long a session stays valid after creation.
const TTL = 24 * time.Hour

// Expired reports whether the session is past its TTL at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > TTL
}

// Store persists Session state.
type Store interface {
	Create(ctx context.Context, bearerToken string, user identity.UserIdentity) (string, error)
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
	DeleteByBearerToken(ctx context.Context, bearerToken string) error
}
