package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"postboard/internal/config"
	"postboard/internal/db"
	"postboard/internal/observability"
	"postboard/internal/repository"
	"postboard/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	posts := flag.Int("posts", 3, "posts per user")
	comments := flag.Int("comments", 2, "comments per post")
	password := flag.String("password", "password123", "password shared by seeded users")
	randSeed := flag.Int64("seed", 0, "random seed, 0 for time based")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := observability.NewLogger(os.Stdout, cfg.SlogLevel())

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate", slog.String("error", err.Error()))
		os.Exit(1)
	}

	factory := seed.NewFactory(
		repository.NewUserRepository(gormDB),
		repository.NewPostRepository(gormDB),
		repository.NewCommentRepository(gormDB),
		*randSeed,
	)
	res, err := factory.Run(context.Background(), seed.Options{
		Users:           *users,
		PostsPerUser:    *posts,
		CommentsPerPost: *comments,
		Password:        *password,
	})
	if err != nil {
		logger.Error("seed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seed completed",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
	)
}
