package config

import (
	"log"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedUser("admin", getEnv("SEED_ADMIN_PASSWORD", "admin123456"), models.RoleAdmin); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedUser("staff", getEnv("SEED_STAFF_PASSWORD", "staff123456"), models.RoleStaff); err != nil {
		log.Printf("⚠️ Staff seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedUser creates a default user if no user with that username exists.
// Passwords here are for development; rotate through env in production.
func (s *Seeder) seedUser(username, plainPassword, role string) error {
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return nil // Already exists
	}

	hashedPassword, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}

	user := &models.User{
		Username: username,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("✅ Default %s user created: %s", role, username)
	return nil
}

// SeedDefaultUsers seeds the default admin and staff accounts
func SeedDefaultUsers(db *gorm.DB) error {
	return NewSeeder(db).Run()
}
