package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"postboard/internal/auth"
	apperrors "postboard/internal/errors"
	"postboard/internal/events"
	"postboard/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockPublisher)
		expectedRole  string
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository, p *MockPublisher) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				p.On("Publish", mock.Anything, events.SubjectUserRegistered, mock.Anything).Return()
			},
			expectedRole: model.RoleUser,
		},
		{
			name:     "configured admin",
			username: "root",
			email:    "root@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository, p *MockPublisher) {
				m.On("FindByUsername", mock.Anything, "root").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				p.On("Publish", mock.Anything, events.SubjectUserRegistered, mock.Anything).Return()
			},
			expectedRole: model.RoleAdmin,
		},
		{
			name:     "password longer than 72 bytes",
			username: "carol",
			email:    "c@x.com",
			password: strings.Repeat("p", 73),
			setupMock: func(m *MockUserRepository, p *MockPublisher) {
				m.On("FindByUsername", mock.Anything, "carol").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				p.On("Publish", mock.Anything, events.SubjectUserRegistered, mock.Anything).Return()
			},
			expectedRole: model.RoleUser,
		},
		{
			name:          "missing password",
			username:      "alice",
			email:         "a@x.com",
			setupMock:     func(*MockUserRepository, *MockPublisher) {},
			expectedError: apperrors.ErrMissingFields,
		},
		{
			name:          "blank username",
			username:      "   ",
			email:         "a@x.com",
			password:      "secret1",
			setupMock:     func(*MockUserRepository, *MockPublisher) {},
			expectedError: apperrors.ErrMissingFields,
		},
		{
			name:     "username already taken",
			username: "alice",
			email:    "other@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository, _ *MockPublisher) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:     "duplicate key on insert",
			username: "alice",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository, _ *MockPublisher) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockPub := new(MockPublisher)
			tt.setupMock(mockRepo, mockPub)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockPub, []string{"root"}, discardLogger())
			user, err := service.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.expectedRole, user.Role)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.True(t, auth.CheckPassword(tt.password, user.PasswordHash))
			}

			mockRepo.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_StorageFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, errors.New("connection refused"))

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), events.Noop{}, nil, discardLogger())
	_, err := service.Register(context.Background(), "alice", "a@x.com", "secret1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	assert.ErrorContains(t, err, "connection refused")
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	userID := uuid.New()
	stored := &model.User{ID: userID, Username: "alice", PasswordHash: hash, Role: model.RoleAdmin}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
		wantInternal  bool
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "secret2",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "bob",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "storage failure",
			username: "alice",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, errors.New("timeout"))
			},
			wantInternal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, events.Noop{}, nil, discardLogger())

			token, err := service.Login(context.Background(), tt.username, tt.password)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			case tt.wantInternal:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
			default:
				require.NoError(t, err)
				claims, err := jwtService.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, userID.String(), claims.UserID)
				assert.Equal(t, model.RoleAdmin, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
