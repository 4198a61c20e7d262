package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "postboard/internal/errors"
	"postboard/internal/events"
	"postboard/internal/model"
	"postboard/internal/repository"
)

// CommentOptions tunes comment validation and listing.
type CommentOptions struct {
	// ListLimit caps ListByPost; zero or less means unbounded.
	ListLimit int
	// RequirePost rejects comments whose post does not exist.
	RequirePost bool
}

// CommentService handles comment operations.
type CommentService interface {
	Add(ctx context.Context, authorID uuid.UUID, postID, text string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	Delete(ctx context.Context, commentID string) (bool, error)
}

type commentService struct {
	comments  repository.CommentRepository
	posts     repository.PostRepository
	opts      CommentOptions
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCommentService creates a new comment service.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	opts CommentOptions,
	publisher events.Publisher,
	logger *slog.Logger,
) CommentService {
	return &commentService{
		comments:  comments,
		posts:     posts,
		opts:      opts,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Add attaches a comment to a post. Text is checked before the post id.
func (s *commentService) Add(ctx context.Context, authorID uuid.UUID, postID, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrCommentTextRequired
	}
	pid, err := uuid.Parse(postID)
	if err != nil {
		return nil, apperrors.ErrInvalidPostID
	}

	if s.opts.RequirePost {
		if _, err := s.posts.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrPostNotFound
			}
			return nil, fmt.Errorf("find post: %w", err)
		}
	}

	comment := &model.Comment{
		Text:      text,
		UserID:    authorID,
		PostID:    pid,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.ErrorContext(ctx, "create comment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.publisher.Publish(ctx, events.SubjectCommentCreated, comment)
	return comment, nil
}

// ListByPost returns the comments of a post, newest first.
func (s *commentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	pid, err := uuid.Parse(postID)
	if err != nil {
		return nil, apperrors.ErrInvalidPostID
	}
	comments, err := s.comments.ListByPost(ctx, pid, s.opts.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Delete removes a comment and reports whether it existed.
func (s *commentService) Delete(ctx context.Context, commentID string) (bool, error) {
	id, err := uuid.Parse(commentID)
	if err != nil {
		return false, apperrors.ErrInvalidCommentID
	}

	deleted, err := s.comments.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	if !deleted {
		s.logger.InfoContext(ctx, "delete of missing comment", slog.String("comment_id", commentID))
		return false, nil
	}

	s.publisher.Publish(ctx, events.SubjectCommentDeleted, map[string]string{"id": commentID})
	return true, nil
}
