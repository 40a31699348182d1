// Package services holds the business flows between controllers and
// repositories.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nberchet/apothecary/app/models"
	"github.com/nberchet/apothecary/app/repositories"
	"github.com/nberchet/apothecary/pkg/auth"
)

// ErrBadCredentials covers both an unknown username and a wrong password,
// deliberately indistinguishable to the caller.
var ErrBadCredentials = errors.New("invalid credentials")

// AuthService implements registration and login against the credential
// store and the token service.
type AuthService struct {
	users  repositories.UserStore
	tokens *auth.Service
}

func NewAuthService(users repositories.UserStore, tokens *auth.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register hashes the password and creates the account. The input is
// assumed validated (and sanitized) by the controller.
// repositories.ErrDuplicateName passes through for the controller to map.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) error {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	return s.users.Create(ctx, &models.User{Name: in.Name, Password: hash})
}

// Login checks the credentials and returns a fresh session token.
// Any mismatch (unknown user or wrong password) is ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (string, error) {
	user, err := s.users.FindByName(ctx, in.Name)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", fmt.Errorf("auth: lookup user: %w", err)
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex(), user.Name)
	if err != nil {
		return "", fmt.Errorf("auth: issue token: %w", err)
	}
	return token, nil
}
