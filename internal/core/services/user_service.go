package services

import (
	"context"
	"errors"
	"log"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/core/domain"
	"wecaare-insurance/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles account administration
type UserService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// CreateUserInput represents admin-driven account creation
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=STAFF ADMIN"`
}

// UpdateUserInput represents admin updates to an account
type UpdateUserInput struct {
	Role     *string `json:"role" validate:"omitempty,oneof=STAFF ADMIN"`
	IsActive *bool   `json:"is_active"`
}

// ChangePasswordInput represents a self-service password change
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Create adds a new account. Usernames are unique.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		log.Printf("❌ Username check failed for %s: %v", input.Username, err)
		return nil, domain.ErrInternalServer
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		log.Printf("❌ Password hash failed: %v", err)
		return nil, domain.ErrInternalServer
	}

	user := &models.User{
		Username: input.Username,
		Password: hashed,
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Printf("❌ Failed to create user %s: %v", input.Username, err)
		return nil, domain.ErrInternalServer
	}

	log.Printf("✅ User created: %s [%s]", user.Username, user.Role)
	return user.ToResponse(), nil
}

// List returns a page of accounts
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		log.Printf("❌ Failed to list users: %v", err)
		return nil, 0, domain.ErrInternalServer
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.ToResponse())
	}
	return responses, total, nil
}

// GetByID returns one account
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Printf("❌ Failed to get user %d: %v", id, err)
		return nil, domain.ErrInternalServer
	}
	return user.ToResponse(), nil
}

// Update changes role and active state. Deactivating an account also
// revokes its refresh tokens.
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Printf("❌ Failed to get user %d: %v", id, err)
		return nil, domain.ErrInternalServer
	}

	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("❌ Failed to update user %d: %v", id, err)
		return nil, domain.ErrInternalServer
	}

	if input.IsActive != nil && !*input.IsActive {
		if err := s.tokenRepo.RevokeAllByUserID(ctx, id); err != nil {
			log.Printf("⚠️ Failed to revoke tokens for deactivated user %d: %v", id, err)
		}
	}

	return user.ToResponse(), nil
}

// Delete soft-deletes an account and revokes its tokens
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		log.Printf("❌ Failed to delete user %d: %v", id, err)
		return domain.ErrInternalServer
	}

	if err := s.tokenRepo.RevokeAllByUserID(ctx, id); err != nil {
		log.Printf("⚠️ Failed to revoke tokens for deleted user %d: %v", id, err)
	}

	return nil
}

// ChangePassword verifies the current password before setting a new one
// and logs the user out everywhere else
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		log.Printf("❌ Failed to get user %d: %v", userID, err)
		return domain.ErrInternalServer
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return domain.ErrInvalidCredentials
	}

	if !password.ValidatePassword(input.NewPassword) {
		return domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		log.Printf("❌ Password hash failed: %v", err)
		return domain.ErrInternalServer
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("❌ Failed to save new password for user %d: %v", userID, err)
		return domain.ErrInternalServer
	}

	if err := s.tokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		log.Printf("⚠️ Failed to revoke tokens after password change for user %d: %v", userID, err)
	}

	return nil
}

// ResetPassword lets an admin set a user's password without the old one
func (s *UserService) ResetPassword(ctx context.Context, id uint, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		log.Printf("❌ Failed to get user %d: %v", id, err)
		return domain.ErrInternalServer
	}

	if !password.ValidatePassword(newPassword) {
		return domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		log.Printf("❌ Password hash failed: %v", err)
		return domain.ErrInternalServer
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("❌ Failed to reset password for user %d: %v", id, err)
		return domain.ErrInternalServer
	}

	if err := s.tokenRepo.RevokeAllByUserID(ctx, id); err != nil {
		log.Printf("⚠️ Failed to revoke tokens after password reset for user %d: %v", id, err)
	}

	return nil
}
