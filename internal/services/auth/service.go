// Package auth provides the staff login check for the admin screens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// Repository defines persistence operations for staff accounts
type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Service implements staff authentication
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Login checks the credentials against the stored hash. A missing user and
// a wrong password both surface the same AuthError; there is no lockout or
// throttling.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			return nil, &models.AuthError{Reason: "invalid credentials"}
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("login_rejected", "Credential mismatch", "", map[string]interface{}{
			"username": username,
		})
		return nil, &models.AuthError{Reason: "invalid credentials"}
	}

	return user, nil
}

// CreateUser creates a staff account, hashing the given password
func (s *Service) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &models.ValidationError{Field: "username", Reason: "username is required"}
	}
	if password == "" {
		return nil, &models.ValidationError{Field: "password", Reason: "password is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListUsers returns all staff accounts
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}
