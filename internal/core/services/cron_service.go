package services

import (
	"context"
	"log"
	"time"

	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/config"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled background jobs: the morning renewal
// reminder and refresh token cleanup
type CronService struct {
	cron         *cron.Cron
	recordRepo   repositories.InsuranceRecordRepository
	notification *NotificationService
	authService  *AuthService
	reminderCfg  config.ReminderConfig
}

// NewCronService creates a new cron service
func NewCronService(
	recordRepo repositories.InsuranceRecordRepository,
	notification *NotificationService,
	authService *AuthService,
	reminderCfg config.ReminderConfig,
) *CronService {
	return &CronService{
		cron:         cron.New(),
		recordRepo:   recordRepo,
		notification: notification,
		authService:  authService,
		reminderCfg:  reminderCfg,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	if s.reminderCfg.Enabled {
		if _, err := s.cron.AddFunc(s.reminderCfg.Schedule, s.runRenewalReminder); err != nil {
			return err
		}
		log.Printf("✅ Renewal reminder scheduled [%s, window %d days]",
			s.reminderCfg.Schedule, s.reminderCfg.WindowDays)
	}

	// Purge expired refresh tokens nightly
	if _, err := s.cron.AddFunc("0 3 * * *", s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("🚀 Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}

// runRenewalReminder digests policies expiring within the window that
// nobody has notified yet
func (s *CronService) runRenewalReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := startOfDay(time.Now())
	to := today.AddDate(0, 0, s.reminderCfg.WindowDays)

	records, err := s.recordRepo.ListExpiringUnnotified(ctx, today, to)
	if err != nil {
		log.Printf("❌ Renewal reminder scan failed: %v", err)
		return
	}

	if len(records) == 0 {
		log.Println("✅ Renewal reminder: nothing expiring in window")
		return
	}

	if err := s.notification.SendRenewalReminder(ctx, records); err != nil {
		log.Printf("❌ Renewal reminder send failed: %v", err)
	}
}

// runTokenCleanup removes expired refresh tokens
func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.authService.CleanupExpiredTokens(ctx); err != nil {
		log.Printf("❌ Token cleanup failed: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens cleaned up")
}
