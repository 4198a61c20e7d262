// Package seed fills a development database with demo users, posts and
// comments.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"postboard/internal/auth"
	"postboard/internal/model"
	"postboard/internal/repository"
)

// Options controls how much demo data is generated.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	// Password is shared by every seeded user so they can log in.
	Password string
	// MaxDays spreads post timestamps over the last MaxDays days.
	MaxDays int
}

// Result counts what was created.
type Result struct {
	Users    int
	Posts    int
	Comments int
}

var youtubeIDs = []string{"dQw4w9WgXcQ", "9bZkp7q19f0", "3JZ_D3ELwOQ", "L_jWHffIx5E", "kXYiU_JCYtU"}

// Factory creates demo entities through the repositories.
type Factory struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	faker    *gofakeit.Faker
	now      func() time.Time
}

// NewFactory creates a Factory. A zero seed uses a time-based one.
func NewFactory(users repository.UserRepository, posts repository.PostRepository, comments repository.CommentRepository, seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		users:    users,
		posts:    posts,
		comments: comments,
		faker:    gofakeit.New(seed),
		now:      time.Now,
	}
}

// Run generates opts.Users users, each with opts.PostsPerUser posts, and
// opts.CommentsPerPost comments per post by random seeded users.
func (f *Factory) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	if opts.Users <= 0 {
		return res, nil
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return res, err
	}

	users := make([]model.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := model.User{
			// The index suffix keeps usernames unique.
			Username:     fmt.Sprintf("%s%d", f.faker.Username(), i),
			Email:        f.faker.Email(),
			PasswordHash: hash,
			Role:         model.RoleUser,
		}
		if err := f.users.Create(ctx, &user); err != nil {
			return res, fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
		res.Users++
	}

	for _, author := range users {
		for p := 0; p < opts.PostsPerUser; p++ {
			post := f.buildPost(author, opts.MaxDays)
			if err := f.posts.Create(ctx, post); err != nil {
				return res, fmt.Errorf("seed post: %w", err)
			}
			res.Posts++

			for c := 0; c < opts.CommentsPerPost; c++ {
				commenter := users[f.faker.Number(0, len(users)-1)]
				comment := &model.Comment{
					Text:      f.faker.Sentence(8),
					UserID:    commenter.ID,
					PostID:    post.ID,
					CreatedAt: post.CreatedAt.Add(time.Duration(c+1) * time.Minute),
				}
				if err := f.comments.Create(ctx, comment); err != nil {
					return res, fmt.Errorf("seed comment: %w", err)
				}
				res.Comments++
			}
		}
	}
	return res, nil
}

func (f *Factory) buildPost(author model.User, maxDays int) *model.Post {
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	post := &model.Post{
		Text:      f.faker.Paragraph(1, 2, 12, " "),
		UserID:    author.ID,
		CreatedAt: f.now().Add(-back).UTC(),
	}
	if f.faker.Bool() {
		id := youtubeIDs[f.faker.Number(0, len(youtubeIDs)-1)]
		post.Youtube = "https://www.youtube.com/watch?v=" + id
	}
	return post
}
