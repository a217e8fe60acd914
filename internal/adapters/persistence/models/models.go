package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// Role values for users.role
const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'STAFF'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Insurance Records
// ============================================================

// InsuranceRecord represents insurance_records table.
// Basic fields are staff-entered; financial fields are admin-entered.
type InsuranceRecord struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	UUID string `gorm:"uniqueIndex;size:36;not null" json:"uuid"`

	// Basic info (staff)
	CustomerName    string     `gorm:"size:100" json:"customer_name"`
	PhoneNumber     string     `gorm:"size:30" json:"phone_number"`
	VehicleNumber   string     `gorm:"size:30" json:"vehicle_number"`
	Company         string     `gorm:"size:100" json:"company"`
	PolicyStartDate *time.Time `gorm:"type:date" json:"policy_start_date"`
	ExpiryDate      *time.Time `gorm:"type:date;index" json:"expiry_date"`

	// Financial info (admin)
	TotalPremium              *float64 `gorm:"type:decimal(15,2)" json:"total_premium"`
	TotalCommission           *float64 `gorm:"type:decimal(15,2)" json:"total_commission"`
	CustomerDiscountedPremium *float64 `gorm:"type:decimal(15,2)" json:"customer_discounted_premium"`

	// Derived from TotalCommission, recomputed on every financial update
	AdminDetailsAdded bool `gorm:"default:false" json:"admin_details_added"`

	// Renewal notification tracking; the four fields are written as a group
	// through MarkNotified/ClearNotified only
	RenewalNotified bool       `gorm:"default:false" json:"renewal_notified"`
	NotifiedAt      *time.Time `json:"notified_at"`
	NotifiedBy      *uint      `json:"notified_by"`
	NotifiedNotes   *string    `gorm:"type:text" json:"notified_notes"`

	// Audit fields
	CreatedBy uint           `json:"created_by"`
	UpdatedBy uint           `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InsuranceRecord) TableName() string {
	return "insurance_records"
}

// HasFinancialDetails reports whether the admin-owned fields are complete:
// commission present and greater than zero
func (r *InsuranceRecord) HasFinancialDetails() bool {
	return r.TotalCommission != nil && *r.TotalCommission > 0
}

// CalculatePayout returns commission minus customer discount, treating
// absent values as zero. Not persisted.
func (r *InsuranceRecord) CalculatePayout() float64 {
	if r.TotalCommission == nil {
		return 0
	}
	discount := 0.0
	if r.CustomerDiscountedPremium != nil {
		discount = *r.CustomerDiscountedPremium
	}
	return *r.TotalCommission - discount
}

// MarkNotified sets the whole notification group
func (r *InsuranceRecord) MarkNotified(userID uint, notes *string, at time.Time) {
	r.RenewalNotified = true
	r.NotifiedAt = &at
	r.NotifiedBy = &userID
	r.NotifiedNotes = notes
}

// ClearNotified clears the whole notification group
func (r *InsuranceRecord) ClearNotified() {
	r.RenewalNotified = false
	r.NotifiedAt = nil
	r.NotifiedBy = nil
	r.NotifiedNotes = nil
}

// InsuranceRecordResponse DTO with dates rendered as YYYY-MM-DD
type InsuranceRecordResponse struct {
	ID                        uint       `json:"id"`
	UUID                      string     `json:"uuid"`
	CustomerName              string     `json:"customer_name"`
	PhoneNumber               string     `json:"phone_number"`
	VehicleNumber             string     `json:"vehicle_number"`
	Company                   string     `json:"company"`
	PolicyStartDate           string     `json:"policy_start_date,omitempty"`
	ExpiryDate                string     `json:"expiry_date,omitempty"`
	TotalPremium              *float64   `json:"total_premium"`
	TotalCommission           *float64   `json:"total_commission"`
	CustomerDiscountedPremium *float64   `json:"customer_discounted_premium"`
	AdminDetailsAdded         bool       `json:"admin_details_added"`
	RenewalNotified           bool       `json:"renewal_notified"`
	NotifiedAt                *time.Time `json:"notified_at"`
	NotifiedBy                *uint      `json:"notified_by"`
	NotifiedNotes             *string    `json:"notified_notes"`
	CreatedBy                 uint       `json:"created_by"`
	UpdatedBy                 uint       `json:"updated_by"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

const dateLayout = "2006-01-02"

func (r *InsuranceRecord) ToResponse() *InsuranceRecordResponse {
	resp := &InsuranceRecordResponse{
		ID:                        r.ID,
		UUID:                      r.UUID,
		CustomerName:              r.CustomerName,
		PhoneNumber:               r.PhoneNumber,
		VehicleNumber:             r.VehicleNumber,
		Company:                   r.Company,
		TotalPremium:              r.TotalPremium,
		TotalCommission:           r.TotalCommission,
		CustomerDiscountedPremium: r.CustomerDiscountedPremium,
		AdminDetailsAdded:         r.AdminDetailsAdded,
		RenewalNotified:           r.RenewalNotified,
		NotifiedAt:                r.NotifiedAt,
		NotifiedBy:                r.NotifiedBy,
		NotifiedNotes:             r.NotifiedNotes,
		CreatedBy:                 r.CreatedBy,
		UpdatedBy:                 r.UpdatedBy,
		CreatedAt:                 r.CreatedAt,
		UpdatedAt:                 r.UpdatedAt,
	}

	if r.PolicyStartDate != nil {
		resp.PolicyStartDate = r.PolicyStartDate.Format(dateLayout)
	}
	if r.ExpiryDate != nil {
		resp.ExpiryDate = r.ExpiryDate.Format(dateLayout)
	}

	return resp
}

// ============================================================
// Audit Log (write-only sink)
// ============================================================

// AuditLog represents audit_logs table. Written on every record mutation,
// never read back by the application.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	EntityType string    `gorm:"size:50;not null" json:"entity_type"`
	EntityID   uint      `gorm:"index" json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:50" json:"ip_address"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditActionCreate           = "CREATE"
	AuditActionUpdate           = "UPDATE"
	AuditActionUpdateFinancials = "UPDATE_FINANCIALS"
	AuditActionDelete           = "DELETE"
	AuditActionNotify           = "NOTIFY"
	AuditActionUnnotify         = "UNNOTIFY"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&InsuranceRecord{},
		&AuditLog{},
	)
}
