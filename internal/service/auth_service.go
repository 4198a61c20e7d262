package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"postboard/internal/auth"
	apperrors "postboard/internal/errors"
	"postboard/internal/events"
	"postboard/internal/model"
	"postboard/internal/repository"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, err error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	publisher  events.Publisher
	admins     map[string]struct{}
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service. Usernames listed in
// adminUsernames are registered with the admin role.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	publisher events.Publisher,
	adminUsernames []string,
	logger *slog.Logger,
) AuthService {
	admins := make(map[string]struct{}, len(adminUsernames))
	for _, name := range adminUsernames {
		admins[name] = struct{}{}
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		publisher:  publisher,
		admins:     admins,
		logger:     logger,
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.ErrMissingFields
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if _, ok := s.admins[username]; ok {
		role = model.RoleAdmin
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()), slog.String("role", role))
	s.publisher.Publish(ctx, events.SubjectUserRegistered, map[string]string{
		"id":       user.ID.String(),
		"username": user.Username,
	})
	return user, nil
}

// Login verifies credentials and returns a signed identity token.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID.String(), user.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
