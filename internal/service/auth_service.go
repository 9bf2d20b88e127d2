package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"sokoni/market/internal/model"
	"sokoni/market/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	users         *repository.UserRepository
	adminPassword string
}

func NewAuthService(users *repository.UserRepository, adminPassword string) *AuthService {
	return &AuthService{users: users, adminPassword: adminPassword}
}

func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.Create(ctx, &model.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
	})
}

// Login verifies the credentials and issues a user session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", model.ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", model.ErrInvalidCredentials
	}
	return s.issueSession(ctx, user.ID, model.RoleUser)
}

// AdminLogin checks the configured admin password and issues an admin
// session token.
func (s *AuthService) AdminLogin(ctx context.Context, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return "", model.ErrInvalidCredentials
	}
	return s.issueSession(ctx, "", model.RoleAdmin)
}

func (s *AuthService) issueSession(ctx context.Context, userID, role string) (string, error) {
	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return "", err
	}
	return session.Token, nil
}

// Verify resolves a bearer token to a live session with the given role.
func (s *AuthService) Verify(ctx context.Context, token, role string) (*model.Session, error) {
	session, err := s.users.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sessionValid(session, role, time.Now()) {
		return nil, model.ErrSessionInvalid
	}
	return session, nil
}

func sessionValid(s *model.Session, role string, now time.Time) bool {
	return s.Role == role && now.Before(s.ExpiresAt)
}
