// internal/service/user.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/validation"
)

// CreateUserInput provisions a user from the CLI.
type CreateUserInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

// UserService provisions users and mints their session tokens.
type UserService struct {
	repo         repository.UserRepositoryIface
	tokenManager *auth.TokenManager
	validate     *validation.Validator
}

func NewUserService(repo repository.UserRepositoryIface, tokenManager *auth.TokenManager, validate *validation.Validator) *UserService {
	if validate == nil {
		validate = validation.New()
	}
	return &UserService{
		repo:         repo,
		tokenManager: tokenManager,
		validate:     validate,
	}
}

// CreateUser inserts a user. An existing email is domain.ErrConflict.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s: %w", input.Email, domain.ErrConflict)
	}

	user := &model.User{Email: input.Email, Name: input.Name}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// IssueToken mints a session token for an existing user.
func (s *UserService) IssueToken(ctx context.Context, userID string) (string, error) {
	if err := validation.ID(userID); err != nil {
		return "", err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("finding user: %w", err)
	}

	token, err := s.tokenManager.Generate(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}
