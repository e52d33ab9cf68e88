package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// CommentsReadGateway defines the backend calls needed by
// MarkCommentsRead.
type CommentsReadGateway interface {
	MarkCommentsRead(ctx context.Context, token string, childID int64) error
}

// OnceGuard deduplicates best-effort actions per key. Acquiring an
// already-held key reports false, so repeated hovers on the comments
// panel issue at most one backend call per child selection.
type OnceGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewOnceGuard creates an empty guard.
func NewOnceGuard() *OnceGuard {
	return &OnceGuard{seen: make(map[string]bool)}
}

// TryAcquire marks the key as done. Returns false if it already was.
func (g *OnceGuard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[key] {
		return false
	}
	g.seen[key] = true
	return true
}

// Release clears the key so a later interaction can retry.
func (g *OnceGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, key)
}

// MarkCommentsReadInput carries input for the mark-read orchestrator.
type MarkCommentsReadInput struct {
	Token   string
	ChildID int64
}

// MarkCommentsReadDeps holds dependencies for MarkCommentsRead.
type MarkCommentsReadDeps struct {
	Gateway CommentsReadGateway
	Guard   *OnceGuard
}

// ExecuteMarkCommentsRead clears a child's unread-comment counter.
// Best-effort: failures are logged, the guard is released so the next
// interaction retries, and no error surfaces to the user.
// POST: Idempotent per (session, child) until the guard is released
func ExecuteMarkCommentsRead(ctx context.Context, input MarkCommentsReadInput, deps MarkCommentsReadDeps) {
	if input.ChildID == 0 {
		return
	}
	key := fmt.Sprintf("%s:%d", input.Token, input.ChildID)
	if !deps.Guard.TryAcquire(key) {
		return
	}
	if err := deps.Gateway.MarkCommentsRead(ctx, input.Token, input.ChildID); err != nil {
		slog.Debug("mark_comments_read_failed", "child_id", input.ChildID, "error", err.Error())
		deps.Guard.Release(key)
	}
}
