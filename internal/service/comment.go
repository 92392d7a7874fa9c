package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// CommentService handles the guest message wall on the invitation page.
type CommentService struct {
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, logger: logger}
}

// Add posts a comment. Both the text and a display name are required; the
// handler treats the validation error as "ignore the submission" rather than
// rendering an error page, matching how the wall has always behaved.
func (s *CommentService) Add(ctx context.Context, eventID, userID int64, text, displayName string) error {
	text = strings.TrimSpace(text)
	displayName = strings.TrimSpace(displayName)

	if text == "" {
		return apperror.ValidationFailed("comment_text", "comment text is required")
	}
	if displayName == "" {
		return apperror.ValidationFailed("comment_name", "a display name is required")
	}

	comment := &model.Comment{
		EventID:     eventID,
		UserID:      userID,
		Text:        text,
		DisplayName: displayName,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return fmt.Errorf("service/comment: creating comment: %w", err)
	}

	s.logger.Info("comment posted",
		slog.Int64("eventID", eventID),
		slog.Int64("commentID", comment.ID),
	)
	return nil
}

// List returns an event's comments oldest first.
func (s *CommentService) List(ctx context.Context, eventID int64) ([]model.Comment, error) {
	comments, err := s.comments.ListComments(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("service/comment: listing comments for event %d: %w", eventID, err)
	}
	return comments, nil
}
