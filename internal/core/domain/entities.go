package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

// User represents a user in the domain layer
type User struct {
	ID        uint
	Username  string
	Password  string // Hashed
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Urgency classifies how close a policy is to expiry
type Urgency string

const (
	UrgencyHigh   Urgency = "high"   // expires within 7 days
	UrgencyMedium Urgency = "medium" // expires within 15 days
	UrgencyLow    Urgency = "low"
)

// UrgencyFor buckets a days-until-expiry value
func UrgencyFor(daysUntilExpiry int) Urgency {
	switch {
	case daysUntilExpiry <= 7:
		return UrgencyHigh
	case daysUntilExpiry <= 15:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}
