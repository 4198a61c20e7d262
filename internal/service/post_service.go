package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"postboard/internal/cache"
	apperrors "postboard/internal/errors"
	"postboard/internal/events"
	"postboard/internal/model"
	"postboard/internal/observability"
	"postboard/internal/repository"
)

const (
	// LatestPostsLimit is the fixed size of the public feed.
	LatestPostsLimit = 20

	latestPostsCacheKey = "posts:latest"
	// feedGenerationKey is bumped after every post write. Feed entries are
	// stored under the generation read before querying.
	feedGenerationKey = "posts:latest:gen"
)

// Uploader stores attachments under a public reference and removes them again.
type Uploader interface {
	Save(ctx context.Context, originalName string, src io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// Attachment is an uploaded file accompanying a new post.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// CreatePostInput holds the fields of a new post. AuthorID comes from the
// verified identity, never from the request body.
type CreatePostInput struct {
	AuthorID   uuid.UUID
	Text       string
	Youtube    string
	Attachment *Attachment
}

// PostService handles post operations.
type PostService interface {
	Create(ctx context.Context, in CreatePostInput) (*model.Post, error)
	Latest(ctx context.Context) ([]model.Post, error)
	All(ctx context.Context) ([]model.Post, error)
	Delete(ctx context.Context, postID string) (bool, error)
}

type postService struct {
	repo      repository.PostRepository
	uploader  Uploader
	cache     *cache.Client
	feedTTL   time.Duration
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewPostService creates a new post service. A zero feedTTL disables feed caching.
func NewPostService(
	repo repository.PostRepository,
	uploader Uploader,
	cache *cache.Client,
	feedTTL time.Duration,
	publisher events.Publisher,
	logger *slog.Logger,
) PostService {
	return &postService{
		repo:      repo,
		uploader:  uploader,
		cache:     cache,
		feedTTL:   feedTTL,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores the attachment, if any, then the post.
func (s *postService) Create(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	imageURL := ""
	if in.Attachment != nil {
		ref, err := s.uploader.Save(ctx, in.Attachment.Filename, in.Attachment.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
		}
		imageURL = ref
	}

	post := &model.Post{
		Text:      in.Text,
		ImageURL:  imageURL,
		Youtube:   in.Youtube,
		UserID:    in.AuthorID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.ErrorContext(ctx, "create post", slog.String("error", err.Error()))
		if imageURL != "" {
			if rmErr := s.uploader.Remove(ctx, imageURL); rmErr != nil {
				s.logger.WarnContext(ctx, "remove orphaned upload",
					slog.String("ref", imageURL), slog.String("error", rmErr.Error()))
			}
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidateFeed(ctx)
	s.publisher.Publish(ctx, events.SubjectPostCreated, post)
	return post, nil
}

// Latest returns the newest LatestPostsLimit posts.
func (s *postService) Latest(ctx context.Context) ([]model.Post, error) {
	key, cacheable := s.feedKey(ctx)
	if cacheable {
		var cached []model.Post
		if s.cache.GetJSON(ctx, key, &cached) {
			observability.FeedCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		observability.FeedCacheTotal.WithLabelValues("miss").Inc()
	}

	posts, err := s.repo.ListLatest(ctx, LatestPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("list latest posts: %w", err)
	}

	if cacheable {
		_ = s.cache.SetJSON(ctx, key, posts, s.feedTTL)
	}
	return posts, nil
}

// All returns every post, newest first, bypassing the cache.
func (s *postService) All(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Delete removes a post. Deleting an unknown id is not an error; the result
// reports whether anything was removed.
func (s *postService) Delete(ctx context.Context, postID string) (bool, error) {
	id, err := uuid.Parse(postID)
	if err != nil {
		return false, apperrors.ErrInvalidPostID
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	if !deleted {
		s.logger.InfoContext(ctx, "delete of missing post", slog.String("post_id", postID))
		return false, nil
	}

	s.invalidateFeed(ctx)
	s.publisher.Publish(ctx, events.SubjectPostDeleted, map[string]string{"id": postID})
	return true, nil
}

// feedKey returns the cache key for the current feed generation. It must be
// read before querying the repository.
func (s *postService) feedKey(ctx context.Context) (string, bool) {
	if s.feedTTL <= 0 {
		return "", false
	}
	gen, ok := s.cache.GetInt64(ctx, feedGenerationKey)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s:%d", latestPostsCacheKey, gen), true
}

// invalidateFeed runs after the write has committed. Entries of older
// generations are left to expire.
func (s *postService) invalidateFeed(ctx context.Context) {
	if err := s.cache.Incr(ctx, feedGenerationKey); err != nil {
		s.logger.WarnContext(ctx, "bump feed generation", slog.String("error", err.Error()))
	}
}
