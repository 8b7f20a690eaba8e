package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photoevent/domain/models"
	"photoevent/domain/repositories"
	"photoevent/domain/services"
	"photoevent/pkg/config"
	"photoevent/pkg/logger"
	"photoevent/pkg/utils"
)

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) services.AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		jwtSecret: cfg.JWT.Secret,
		jwtTTL:    cfg.JWT.TTL,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, email, password, name string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return "", nil, services.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info(logger.CategoryAuth, "register", "User registered", map[string]interface{}{
		"user_id": user.ID.String(),
	})
	return token, user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, services.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, services.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info(logger.CategoryAuth, "login", "User logged in", map[string]interface{}{
		"user_id": user.ID.String(),
	})
	return token, user, nil
}

func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, claims.ID)
}
