package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"wecaare-insurance/internal/adapters/persistence/models"
)

// NotificationService pushes renewal reminders to the office LINE group
type NotificationService struct {
	token      string
	endpoint   string
	httpClient *http.Client
}

// NewNotificationService creates a new notification service. An empty
// LINE_NOTIFY_TOKEN disables sending; reminders are logged instead.
func NewNotificationService() *NotificationService {
	return &NotificationService{
		token:    os.Getenv("LINE_NOTIFY_TOKEN"),
		endpoint: "https://notify-api.line.me/api/notify",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendRenewalReminder formats and sends the daily expiring-policy digest
func (s *NotificationService) SendRenewalReminder(ctx context.Context, records []*models.InsuranceRecord) error {
	if len(records) == 0 {
		return nil
	}

	message := buildReminderMessage(records)

	if s.token == "" {
		log.Printf("⚠️ LINE_NOTIFY_TOKEN not set, reminder not sent:\n%s", message)
		return nil
	}

	return s.send(ctx, message)
}

// send posts one message to the LINE Notify API
func (s *NotificationService) send(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ LINE notify request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ LINE notify returned status %d", resp.StatusCode)
		return fmt.Errorf("line notify: unexpected status %d", resp.StatusCode)
	}

	log.Printf("✅ Renewal reminder sent (%d bytes)", len(message))
	return nil
}

// buildReminderMessage formats the expiring-policy digest
func buildReminderMessage(records []*models.InsuranceRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n🔔 Policies expiring soon (%d)\n", len(records))

	for _, record := range records {
		expiry := ""
		if record.ExpiryDate != nil {
			expiry = record.ExpiryDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "• %s | %s | expires %s\n",
			record.CustomerName,
			record.VehicleNumber,
			expiry,
		)
	}

	return b.String()
}
