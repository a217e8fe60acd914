package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordService handles the insurance record lifecycle
type RecordService struct {
	recordRepo repositories.InsuranceRecordRepository
	auditRepo  repositories.AuditLogRepository
}

// NewRecordService creates a new record service
func NewRecordService(
	recordRepo repositories.InsuranceRecordRepository,
	auditRepo repositories.AuditLogRepository,
) *RecordService {
	return &RecordService{
		recordRepo: recordRepo,
		auditRepo:  auditRepo,
	}
}

// BasicFieldsInput carries the staff-owned field group
type BasicFieldsInput struct {
	CustomerName    string
	PhoneNumber     string
	VehicleNumber   string
	Company         string
	PolicyStartDate *time.Time
	ExpiryDate      *time.Time
}

// FinancialFieldsInput carries the admin-owned field group
type FinancialFieldsInput struct {
	TotalPremium              *float64
	TotalCommission           *float64
	CustomerDiscountedPremium *float64
}

// ExpiringRecord is the expiry read-model projection
type ExpiringRecord struct {
	*models.InsuranceRecordResponse
	DaysUntilExpiry int            `json:"days_until_expiry"`
	Urgency         domain.Urgency `json:"urgency"`
}

// FinancialSummaryOutput aggregates financial state over visible records
type FinancialSummaryOutput struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TotalRecords     int64   `json:"total_records"`
	CompletedRecords int64   `json:"completed_records"`
	PendingRecords   int64   `json:"pending_records"`
}

// Create generates a new record from staff fields. The public UUID is
// assigned here, exactly once. The row is read back after the insert so
// store-assigned id and timestamps come from the store, not the caller.
func (s *RecordService) Create(ctx context.Context, input BasicFieldsInput, actingUserID uint, ipAddress string) (*models.InsuranceRecord, error) {
	record := &models.InsuranceRecord{
		UUID:            uuid.New().String(),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		PhoneNumber:     strings.TrimSpace(input.PhoneNumber),
		VehicleNumber:   strings.TrimSpace(input.VehicleNumber),
		Company:         strings.TrimSpace(input.Company),
		PolicyStartDate: input.PolicyStartDate,
		ExpiryDate:      input.ExpiryDate,
		CreatedBy:       actingUserID,
		UpdatedBy:       actingUserID,
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		log.Printf("❌ Failed to create insurance record: %v", err)
		return nil, domain.ErrInternalServer
	}

	created, err := s.recordRepo.GetByUUID(ctx, record.UUID)
	if err != nil {
		log.Printf("❌ Failed to read back created record %s: %v", record.UUID, err)
		return nil, domain.ErrInternalServer
	}

	s.audit(ctx, actingUserID, models.AuditActionCreate, created.ID,
		fmt.Sprintf("Created record for customer '%s'", created.CustomerName), ipAddress)

	return created, nil
}

// List returns all visible records, most recently updated first.
// A non-blank search term filters case-insensitively on customer name,
// phone number and vehicle number.
func (s *RecordService) List(ctx context.Context, searchTerm string) ([]*models.InsuranceRecord, error) {
	term := strings.TrimSpace(searchTerm)

	var (
		records []*models.InsuranceRecord
		err     error
	)
	if term == "" {
		records, err = s.recordRepo.ListAll(ctx)
	} else {
		records, err = s.recordRepo.Search(ctx, term)
	}
	if err != nil {
		log.Printf("❌ Failed to list insurance records: %v", err)
		return nil, domain.ErrInternalServer
	}

	return records, nil
}

// GetByID returns one visible record
func (s *RecordService) GetByID(ctx context.Context, id uint) (*models.InsuranceRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		log.Printf("❌ Failed to get record %d: %v", id, err)
		return nil, domain.ErrInternalServer
	}
	return record, nil
}

// GetByUUID returns one visible record by its public identifier
func (s *RecordService) GetByUUID(ctx context.Context, recordUUID string) (*models.InsuranceRecord, error) {
	record, err := s.recordRepo.GetByUUID(ctx, recordUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		log.Printf("❌ Failed to get record %s: %v", recordUUID, err)
		return nil, domain.ErrInternalServer
	}
	return record, nil
}

// Update overwrites the staff-owned field group in place. Financial
// fields and notification state are untouched.
func (s *RecordService) Update(ctx context.Context, id uint, input BasicFieldsInput, actingUserID uint, ipAddress string) (*models.InsuranceRecord, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.CustomerName = strings.TrimSpace(input.CustomerName)
	record.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	record.VehicleNumber = strings.TrimSpace(input.VehicleNumber)
	record.Company = strings.TrimSpace(input.Company)
	record.PolicyStartDate = input.PolicyStartDate
	record.ExpiryDate = input.ExpiryDate
	record.UpdatedBy = actingUserID

	if err := s.recordRepo.Save(ctx, record); err != nil {
		log.Printf("❌ Failed to update record %d: %v", id, err)
		return nil, domain.ErrInternalServer
	}

	s.audit(ctx, actingUserID, models.AuditActionUpdate, record.ID,
		fmt.Sprintf("Updated basic details for customer '%s'", record.CustomerName), ipAddress)

	return record, nil
}

// UpdateFinancials overwrites the admin-owned field group and recomputes
// the completion flag from the stored commission. The flag is never
// taken from client input.
func (s *RecordService) UpdateFinancials(ctx context.Context, id uint, input FinancialFieldsInput, actingUserID uint, ipAddress string) (*models.InsuranceRecord, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.TotalPremium = input.TotalPremium
	record.TotalCommission = input.TotalCommission
	record.CustomerDiscountedPremium = input.CustomerDiscountedPremium
	record.AdminDetailsAdded = record.HasFinancialDetails()
	record.UpdatedBy = actingUserID

	if err := s.recordRepo.Save(ctx, record); err != nil {
		log.Printf("❌ Failed to update financials for record %d: %v", id, err)
		return nil, domain.ErrInternalServer
	}

	s.audit(ctx, actingUserID, models.AuditActionUpdateFinancials, record.ID,
		fmt.Sprintf("Updated financial details for customer '%s'", record.CustomerName), ipAddress)

	return record, nil
}

// SoftDelete marks the record deleted. The row stays in storage but
// disappears from every read. Deleting an already-deleted id fails
// with not-found; deletion is single-shot per visible record.
func (s *RecordService) SoftDelete(ctx context.Context, id uint, actingUserID uint, ipAddress string) error {
	if err := s.recordRepo.SoftDelete(ctx, id, actingUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecordNotFound
		}
		log.Printf("❌ Failed to delete record %d: %v", id, err)
		return domain.ErrInternalServer
	}

	s.audit(ctx, actingUserID, models.AuditActionDelete, id, "Record soft-deleted", ipAddress)

	return nil
}

// MarkNotified records that the customer was contacted about renewal.
// Calling it again on a notified record just refreshes the stamp.
func (s *RecordService) MarkNotified(ctx context.Context, id uint, notes *string, actingUserID uint, ipAddress string) (*models.InsuranceRecord, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.MarkNotified(actingUserID, notes, time.Now())
	record.UpdatedBy = actingUserID

	if err := s.recordRepo.Save(ctx, record); err != nil {
		log.Printf("❌ Failed to mark record %d notified: %v", id, err)
		return nil, domain.ErrInternalServer
	}

	s.audit(ctx, actingUserID, models.AuditActionNotify, record.ID,
		fmt.Sprintf("Marked renewal notified for customer '%s'", record.CustomerName), ipAddress)

	return record, nil
}

// UnmarkNotified clears the whole notification group at once
func (s *RecordService) UnmarkNotified(ctx context.Context, id uint, actingUserID uint, ipAddress string) (*models.InsuranceRecord, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.ClearNotified()
	record.UpdatedBy = actingUserID

	if err := s.recordRepo.Save(ctx, record); err != nil {
		log.Printf("❌ Failed to unmark record %d notified: %v", id, err)
		return nil, domain.ErrInternalServer
	}

	s.audit(ctx, actingUserID, models.AuditActionUnnotify, record.ID,
		fmt.Sprintf("Cleared renewal notification for customer '%s'", record.CustomerName), ipAddress)

	return record, nil
}

// ListExpiring projects records whose expiry date falls within the
// window [today, today+windowDays], ascending by expiry date, each with
// its calendar-day distance and urgency bucket.
func (s *RecordService) ListExpiring(ctx context.Context, windowDays int) ([]*ExpiringRecord, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	today := startOfDay(time.Now())
	to := today.AddDate(0, 0, windowDays)

	records, err := s.recordRepo.ListExpiringBetween(ctx, today, to)
	if err != nil {
		log.Printf("❌ Failed to list expiring records: %v", err)
		return nil, domain.ErrInternalServer
	}

	result := make([]*ExpiringRecord, 0, len(records))
	for _, record := range records {
		days := daysUntil(today, *record.ExpiryDate)
		result = append(result, &ExpiringRecord{
			InsuranceRecordResponse: record.ToResponse(),
			DaysUntilExpiry:         days,
			Urgency:                 domain.UrgencyFor(days),
		})
	}

	return result, nil
}

// FinancialSummary aggregates over all visible records: revenue is the
// sum of premiums (absent counted as zero), completion follows the
// stored commission state.
func (s *RecordService) FinancialSummary(ctx context.Context) (*FinancialSummaryOutput, error) {
	records, err := s.recordRepo.ListAll(ctx)
	if err != nil {
		log.Printf("❌ Failed to build financial summary: %v", err)
		return nil, domain.ErrInternalServer
	}

	summary := &FinancialSummaryOutput{}
	for _, record := range records {
		summary.TotalRecords++
		if record.TotalPremium != nil {
			summary.TotalRevenue += *record.TotalPremium
		}
		if record.HasFinancialDetails() {
			summary.CompletedRecords++
		}
	}
	summary.PendingRecords = summary.TotalRecords - summary.CompletedRecords

	return summary, nil
}

// audit writes to the audit sink; failures are logged and swallowed so
// an audit outage never blocks the business operation
func (s *RecordService) audit(ctx context.Context, userID uint, action string, recordID uint, details, ipAddress string) {
	entry := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: "insurance_record",
		EntityID:   recordID,
		Details:    details,
		IPAddress:  ipAddress,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to write audit log (%s on record %d): %v", action, recordID, err)
	}
}

// startOfDay truncates a timestamp to local midnight
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil counts whole calendar days from today to the given date.
// Rounding absorbs DST-shortened or -lengthened days.
func daysUntil(today, date time.Time) int {
	return int(math.Round(startOfDay(date).Sub(today).Hours() / 24))
}
