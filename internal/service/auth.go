package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
	"github.com/sortieapp/sortie/internal/repository"
	"github.com/sortieapp/sortie/internal/storage"
	"github.com/sortieapp/sortie/middleware/jwt"
)

var ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)

// RegisterRequest carries the validated registration input.
type RegisterRequest struct {
	Email      string `form:"email" json:"email" binding:"required,email"`
	Password   string `form:"password" json:"password" binding:"required,min=8,max=64"`
	Username   string `form:"username" json:"username" binding:"required,min=3,max=30"`
	City       string `form:"city" json:"city" binding:"omitempty,max=100"`
	PostalCode string `form:"postal_code" json:"postal_code" binding:"omitempty,max=20"`
	Country    string `form:"country" json:"country" binding:"omitempty,max=100"`
	Phone      string `form:"phone" json:"phone" binding:"omitempty,max=30"`
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on register, login and refresh.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID uint) error
	Refresh(ctx context.Context, token string) (*AuthResponse, error)
}

type AuthService struct {
	users        repository.IUserRepository
	tokenManager *jwt.TokenManager
	tokens       *storage.TokenStore
}

// NewAuthService creates a new IAuthService instance
func NewAuthService(users repository.IUserRepository, tokenManager *jwt.TokenManager, tokens *storage.TokenStore) IAuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
		tokens:       tokens,
	}
}

// Register creates the user with a bcrypt password hash and signs them
// straight in.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		UserName:     req.Username,
		PasswordHash: hash,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(ctx, user)
}

// Login verifies credentials and bumps the token version, so any token
// from an earlier session stops working.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := verifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// Logout invalidates every outstanding token for the user.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	_, err := s.tokens.BumpVersion(ctx, userID)
	return err
}

// Refresh re-issues a token. The old token may already be expired as
// long as it expired within the refresh window; its version must still
// match the stored one, so revoked tokens cannot be refreshed. The
// version stays the same, other devices are unaffected.
func (s *AuthService) Refresh(ctx context.Context, token string) (*AuthResponse, error) {
	claims, err := s.tokenManager.ParseForRefresh(token)
	if err != nil {
		return nil, ErrTokenNotRefreshable
	}

	version, err := s.tokens.Version(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token version: %w", err)
	}
	if version != claims.TokenVersion {
		return nil, ErrTokenNotRefreshable
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	fresh, err := s.tokenManager.GenerateToken(user.ID, user.Email, claims.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: fresh, User: user}, nil
}

func (s *AuthService) issue(ctx context.Context, user *model.User) (*AuthResponse, error) {
	version, err := s.tokens.BumpVersion(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email, version)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
