package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Profile, error)
	Login(ctx context.Context, input LoginInput) (*models.Profile, error)
}

type authService struct {
	profileRepo repositories.ProfileRepository
}

func NewAuthService(profileRepo repositories.ProfileRepository) AuthService {
	return &authService{profileRepo: profileRepo}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Username:     input.Username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashedPassword),
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProfileEmailConflict):
			return nil, ErrEmailTaken
		case errors.Is(err, repositories.ErrProfileUsernameConflict):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}
