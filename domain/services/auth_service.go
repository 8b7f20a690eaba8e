package services

import (
	"context"
	"errors"

	"photoevent/domain/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles host registration and login.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
}
