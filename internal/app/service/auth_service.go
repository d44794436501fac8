package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/donde/storefront-backend/pkg/redis"
	"github.com/donde/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type AuthService interface {
	// Register makes the very first user the store owner.
	Register(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error)
	Login(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error)
	// Refresh rotates a refresh token: the old one is revoked.
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	// RevokeAccessToken blocks an access token until it expires.
	RevokeAccessToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	// IsRevoked reports whether a token id was revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type authService struct {
	userRepo      repository.UserRepository
	revocations   redis.KV
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService builds the auth service. revocations may be nil, in which
// case logout is stateless and refresh tokens stay valid until they expire.
func NewAuthService(
	userRepo repository.UserRepository,
	revocations redis.KV,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		revocations:   revocations,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Attempting user registration", logger.Fields{"email": email})

	if err := util.ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, logger.Fields{"email": email})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", logger.Fields{"email": email})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, logger.Fields{"email": email})
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Status:       model.StatusActive,
	}
	if err := s.userRepo.Register(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", logger.Fields{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Login attempt", logger.Fields{"email": email})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", logger.Fields{"email": email})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, logger.Fields{"email": email})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", logger.Fields{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status != model.StatusActive {
		logger.Warn("Login failed: account inactive", logger.Fields{"user_id": user.ID})
		return nil, nil, ErrAccountInactive
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", logger.Fields{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.refreshClaims(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.Status != model.StatusActive {
		return nil, ErrAccountInactive
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Info("Tokens refreshed", logger.Fields{"user_id": user.ID})
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.refreshClaims(ctx, refreshToken)
	if err != nil {
		// an already unusable token is as good as logged out
		if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenRevoked) {
			return nil
		}
		return err
	}

	if err := s.revoke(ctx, claims); err != nil {
		return err
	}

	logger.Info("User logged out", logger.Fields{"user_id": claims.UserID})
	return nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	logger.Debug("Fetching user by ID", logger.Fields{"user_id": id})

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", logger.Fields{"user_id": id})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, logger.Fields{"user_id": id})
		return nil, err
	}
	return user, nil
}

func (s *authService) RevokeAccessToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revocations == nil || tokenID == "" {
		return nil
	}
	return redis.RevokeToken(ctx, s.revocations, tokenID, time.Until(expiresAt))
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.revocations == nil || tokenID == "" {
		return false, nil
	}
	return redis.IsTokenRevoked(ctx, s.revocations, tokenID)
}

func (s *authService) refreshClaims(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if claims.TokenType != util.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		logger.Warn("Revoked refresh token presented", logger.Fields{"user_id": claims.UserID})
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, claims *util.Claims) error {
	if s.revocations == nil || claims.ExpiresAt == nil {
		return nil
	}
	return redis.RevokeToken(ctx, s.revocations, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (s *authService) issue(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, logger.Fields{"user_id": user.ID})
		return nil, err
	}
	return tokens, nil
}
