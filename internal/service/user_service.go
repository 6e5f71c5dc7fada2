package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a signed token plus the authenticated user's public data.
type LoginResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// UpdateUserInput carries a partial account update; nil fields are left
// unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService implements account management: registration, login, profile
// updates and account deletion.
type UserService struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	jwt      auth.JWTService
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwt auth.JWTService,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		jwt:      jwt,
		logger:   logger.With(slog.String("component", "user_service")),
	}
}

// Register creates a new account. The email is checked proactively so a
// duplicate surfaces as store.ErrEmailExists rather than a driver error.
// The returned projection never carries credential material.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.PublicUser, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "is required", domain.ErrValidation)
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, domain.NewValidationError("email", "is invalid", err)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, domain.NewValidationError("password", "must be at least 6 characters", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}

// Login verifies the credentials and issues an access token. An unknown
// email and a wrong password both return auth.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, input.Password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{Token: token, User: user.Public()}, nil
}

// Update applies a partial update to the caller's account. A new password
// is re-hashed; a new email is re-checked for uniqueness by the store.
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.NewValidationError("name", "is required", domain.ErrValidation)
		}
		user.Name = *input.Name
	}
	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, domain.NewValidationError("email", "is invalid", err)
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, domain.NewValidationError("password", "must be at least 6 characters", err)
		}
		hashed, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}

// Delete removes the caller's account along with all owned tasks.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.users.Delete(ctx, id)
}
