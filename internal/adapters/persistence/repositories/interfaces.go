package repositories

import (
	"context"
	"time"

	"wecaare-insurance/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// InsuranceRecordRepository defines insurance record repository interface.
// Every read excludes soft-deleted rows.
type InsuranceRecordRepository interface {
	Create(ctx context.Context, record *models.InsuranceRecord) error
	GetByID(ctx context.Context, id uint) (*models.InsuranceRecord, error)
	GetByUUID(ctx context.Context, uuid string) (*models.InsuranceRecord, error)
	ListAll(ctx context.Context) ([]*models.InsuranceRecord, error)
	Search(ctx context.Context, term string) ([]*models.InsuranceRecord, error)
	Save(ctx context.Context, record *models.InsuranceRecord) error
	SoftDelete(ctx context.Context, id uint, userID uint) error
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.InsuranceRecord, error)
	ListExpiringUnnotified(ctx context.Context, from, to time.Time) ([]*models.InsuranceRecord, error)
	ListByStartDateBetween(ctx context.Context, from, to time.Time) ([]*models.InsuranceRecord, error)
	Count(ctx context.Context) (int64, error)
}

// AuditLogRepository defines the write-only audit sink
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}
