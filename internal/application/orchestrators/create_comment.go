package orchestrators

import (
	"context"
	"log/slog"

	"academy/internal/domain/comment"
)

// CommentGateway defines the backend calls needed by CreateComment.
type CommentGateway interface {
	CreateComment(ctx context.Context, token string, childID int64, text string) error
}

// CreateCommentInput carries input for the trainer-comment orchestrator.
type CreateCommentInput struct {
	Token   string
	ChildID int64
	Text    string
}

// CreateCommentDeps holds dependencies for CreateComment.
type CreateCommentDeps struct {
	Gateway CommentGateway
}

// ExecuteCreateComment posts a trainer comment on a child.
// PRE: Text is non-empty and within the length limit
func ExecuteCreateComment(ctx context.Context, input CreateCommentInput, deps CreateCommentDeps) error {
	c := comment.Comment{ChildID: input.ChildID, Text: input.Text}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := deps.Gateway.CreateComment(ctx, input.Token, input.ChildID, input.Text); err != nil {
		return err
	}
	slog.Info("comment_created", "child_id", input.ChildID)
	return nil
}
