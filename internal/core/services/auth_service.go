package services

import (
	"context"
	"errors"
	"log"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/config"
	"wecaare-insurance/internal/core/domain"
	"wecaare-insurance/internal/pkg/jwt"
	"wecaare-insurance/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles login and token lifecycle. There is no
// self-registration; accounts are seeded or admin-created.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	jwtConfig config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtConfig: jwtConfig,
	}
}

// LoginInput represents login credentials
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthOutput carries the token pair and user profile returned on
// login and refresh
type AuthOutput struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         *models.UserResponse `json:"user"`
}

// Login verifies credentials and issues a token pair. The refresh token
// is stored hashed; the plaintext is only ever returned to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		log.Printf("❌ Login lookup failed for %s: %v", input.Username, err)
		return nil, domain.ErrInternalServer
	}

	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	output, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s [%s]", user.Username, user.Role)
	return output, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued. A revoked or expired token is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthOutput, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtConfig.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	tokenHash := password.HashToken(refreshToken)
	stored, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		log.Printf("❌ Refresh token lookup failed: %v", err)
		return nil, domain.ErrInternalServer
	}

	if stored.IsRevoked() || stored.IsExpired() {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		log.Printf("❌ Refresh user lookup failed: %v", err)
		return nil, domain.ErrInternalServer
	}

	if !user.IsActive {
		return nil, domain.ErrTokenInvalid
	}

	// Rotate: old token is dead the moment a new pair exists
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		log.Printf("❌ Failed to revoke rotated token: %v", err)
		return nil, domain.ErrInternalServer
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	tokenHash := password.HashToken(refreshToken)
	if err := s.tokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		log.Printf("⚠️ Logout revoke failed: %v", err)
	}
	return nil
}

// LogoutAll revokes every refresh token the user holds
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		log.Printf("❌ Failed to revoke all tokens for user %d: %v", userID, err)
		return domain.ErrInternalServer
	}
	return nil
}

// Me returns the profile for an authenticated user id
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Printf("❌ Profile lookup failed for user %d: %v", userID, err)
		return nil, domain.ErrInternalServer
	}
	return user.ToResponse(), nil
}

// CleanupExpiredTokens removes expired refresh token rows
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) error {
	return s.tokenRepo.DeleteExpired(ctx)
}

// issueTokens generates an access/refresh pair and stores the refresh
// token hash
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthOutput, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Username, user.Role,
		s.jwtConfig.Secret, s.jwtConfig.AccessTokenMins,
	)
	if err != nil {
		log.Printf("❌ Failed to generate access token: %v", err)
		return nil, domain.ErrInternalServer
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID, uuid.New().String(),
		s.jwtConfig.RefreshSecret, s.jwtConfig.RefreshTokenDays,
	)
	if err != nil {
		log.Printf("❌ Failed to generate refresh token: %v", err)
		return nil, domain.ErrInternalServer
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.jwtConfig.RefreshTokenDays),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		log.Printf("❌ Failed to store refresh token: %v", err)
		return nil, domain.ErrInternalServer
	}

	return &AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}
