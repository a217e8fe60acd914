package repositories

import (
	"context"
	"strings"
	"time"

	"wecaare-insurance/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// recordOrder sorts most-recently-updated first; id DESC breaks ties when
// update timestamps collide at the storage's precision
const recordOrder = "updated_at DESC, id DESC"

// insuranceRecordRepository implements InsuranceRecordRepository
type insuranceRecordRepository struct {
	db *gorm.DB
}

// NewInsuranceRecordRepository creates a new insurance record repository
func NewInsuranceRecordRepository(db *gorm.DB) InsuranceRecordRepository {
	return &insuranceRecordRepository{db: db}
}

// Create creates a new insurance record
func (r *insuranceRecordRepository) Create(ctx context.Context, record *models.InsuranceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets a visible record by ID
func (r *insuranceRecordRepository) GetByID(ctx context.Context, id uint) (*models.InsuranceRecord, error) {
	var record models.InsuranceRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByUUID gets a visible record by its public UUID
func (r *insuranceRecordRepository) GetByUUID(ctx context.Context, uuid string) (*models.InsuranceRecord, error) {
	var record models.InsuranceRecord
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAll lists all visible records, most recently updated first
func (r *insuranceRecordRepository) ListAll(ctx context.Context) ([]*models.InsuranceRecord, error) {
	var records []*models.InsuranceRecord
	err := r.db.WithContext(ctx).Order(recordOrder).Find(&records).Error
	return records, err
}

// Search filters case-insensitively across customer name, phone number and
// vehicle number using substring containment
func (r *insuranceRecordRepository) Search(ctx context.Context, term string) ([]*models.InsuranceRecord, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	var records []*models.InsuranceRecord
	err := r.db.WithContext(ctx).
		Where("LOWER(customer_name) LIKE ? OR LOWER(phone_number) LIKE ? OR LOWER(vehicle_number) LIKE ?",
			pattern, pattern, pattern).
		Order(recordOrder).
		Find(&records).Error
	return records, err
}

// Save persists all fields of an existing record
func (r *insuranceRecordRepository) Save(ctx context.Context, record *models.InsuranceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SoftDelete marks a record deleted and stamps the acting user.
// The soft-delete scope makes this a no-op on already-deleted rows.
func (r *insuranceRecordRepository) SoftDelete(ctx context.Context, id uint, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.InsuranceRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"updated_by": userID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListExpiringBetween lists visible records whose expiry date falls in
// [from, to] inclusive, soonest first
func (r *insuranceRecordRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.InsuranceRecord, error) {
	var records []*models.InsuranceRecord
	err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?", from, to).
		Order("expiry_date ASC").
		Find(&records).Error
	return records, err
}

// ListExpiringUnnotified is ListExpiringBetween restricted to records whose
// renewal has not been notified yet (used by the reminder cron)
func (r *insuranceRecordRepository) ListExpiringUnnotified(ctx context.Context, from, to time.Time) ([]*models.InsuranceRecord, error) {
	var records []*models.InsuranceRecord
	err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ? AND renewal_notified = ?", from, to, false).
		Order("expiry_date ASC").
		Find(&records).Error
	return records, err
}

// ListByStartDateBetween lists visible records whose policy start date falls
// in [from, to)
func (r *insuranceRecordRepository) ListByStartDateBetween(ctx context.Context, from, to time.Time) ([]*models.InsuranceRecord, error) {
	var records []*models.InsuranceRecord
	err := r.db.WithContext(ctx).
		Where("policy_start_date IS NOT NULL AND policy_start_date >= ? AND policy_start_date < ?", from, to).
		Find(&records).Error
	return records, err
}

// Count counts visible records
func (r *insuranceRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InsuranceRecord{}).Count(&count).Error
	return count, err
}
