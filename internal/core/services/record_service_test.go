package services

import (
	"context"
	"testing"
	"time"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return db
}

func newTestRecordService(t *testing.T) (*RecordService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewRecordService(
		repositories.NewInsuranceRecordRepository(db),
		repositories.NewAuditLogRepository(db),
	), db
}

func floatPtr(v float64) *float64 { return &v }

func datePtr(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &d
}

func TestCreateAssignsUniqueUUID(t *testing.T) {
	svc, _ := newTestRecordService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Ramesh Kumar"}, 1, "127.0.0.1")
	require.NoError(t, err)
	second, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Suresh Patel"}, 1, "127.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, first.UUID)
	assert.NotEmpty(t, second.UUID)
	assert.NotEqual(t, first.UUID, second.UUID)
	assert.NotZero(t, first.ID)
	assert.Equal(t, uint(1), first.CreatedBy)
	assert.Equal(t, uint(1), first.UpdatedBy)
	assert.False(t, first.AdminDetailsAdded)
	assert.False(t, first.RenewalNotified)
}

func TestUpdateKeepsUUIDAndFinancials(t *testing.T) {
	svc, _ := newTestRecordService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Ramesh Kumar"}, 1, "")
	require.NoError(t, err)

	_, err = svc.UpdateFinancials(ctx, created.ID, FinancialFieldsInput{
		TotalPremium:    floatPtr(12000),
		TotalCommission: floatPtr(1500),
	}, 2, "")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, BasicFieldsInput{
		CustomerName:  "Ramesh K",
		PhoneNumber:   "9876543210",
		VehicleNumber: "KA01AB1234",
	}, 3, "")
	require.NoError(t, err)

	assert.Equal(t, created.UUID, updated.UUID)
	assert.Equal(t, "Ramesh K", updated.CustomerName)
	assert.Equal(t, uint(3), updated.UpdatedBy)
	// Basic update never touches the admin-owned group
	require.NotNil(t, updated.TotalCommission)
	assert.Equal(t, 1500.0, *updated.TotalCommission)
	assert.True(t, updated.AdminDetailsAdded)
}

func TestUpdateFinancialsRecomputesCompletion(t *testing.T) {
	svc, _ := newTestRecordService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Asha"}, 1, "")
	require.NoError(t, err)

	record, err := svc.UpdateFinancials(ctx, created.ID, FinancialFieldsInput{
		TotalCommission: floatPtr(1000),
	}, 1, "")
	require.NoError(t, err)
	assert.True(t, record.AdminDetailsAdded)

	record, err = svc.UpdateFinancials(ctx, created.ID, FinancialFieldsInput{
		TotalCommission: floatPtr(0),
	}, 1, "")
	require.NoError(t, err)
	assert.False(t, record.AdminDetailsAdded)

	record, err = svc.UpdateFinancials(ctx, created.ID, FinancialFieldsInput{}, 1, "")
	require.NoError(t, err)
	assert.False(t, record.AdminDetailsAdded)
}

func TestSoftDeleteHidesRecordButKeepsRow(t *testing.T) {
	svc, db := newTestRecordService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Ramesh Kumar"}, 1, "")
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, created.ID, 2, ""))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	records, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, records)

	summary, err := svc.FinancialSummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalRecords)

	// Row survives in storage
	var rawCount int64
	require.NoError(t, db.Unscoped().Model(&models.InsuranceRecord{}).Count(&rawCount).Error)
	assert.Equal(t, int64(1), rawCount)

	// Deletion is single-shot per visible record
	err = svc.SoftDelete(ctx, created.ID, 2, "")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestNotifyRoundTrip(t *testing.T) {
	svc, _ := newTestRecordService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Ramesh Kumar"}, 1, "")
	require.NoError(t, err)

	notes := "called, will renew next week"
	notified, err := svc.MarkNotified(ctx, created.ID, &notes, 7, "")
	require.NoError(t, err)
	assert.True(t, notified.RenewalNotified)
	require.NotNil(t, notified.NotifiedAt)
	require.NotNil(t, notified.NotifiedBy)
	assert.Equal(t, uint(7), *notified.NotifiedBy)
	require.NotNil(t, notified.NotifiedNotes)
	assert.Equal(t, notes, *notified.NotifiedNotes)

	// Marking again just refreshes the stamp
	again, err := svc.MarkNotified(ctx, created.ID, nil, 8, "")
	require.NoError(t, err)
	assert.True(t, again.RenewalNotified)
	assert.Equal(t, uint(8), *again.NotifiedBy)
	assert.Nil(t, again.NotifiedNotes)

	cleared, err := svc.UnmarkNotified(ctx, created.ID, 7, "")
	require.NoError(t, err)
	assert.False(t, cleared.RenewalNotified)
	assert.Nil(t, cleared.NotifiedAt)
	assert.Nil(t, cleared.NotifiedBy)
	assert.Nil(t, cleared.NotifiedNotes)
}

func TestListExpiringBucketsAndWindow(t *testing.T) {
	svc, _ := newTestRecordService(t)
	ctx := context.Background()
	now := time.Now()

	cases := []struct {
		name string
		days int
	}{
		{"High", 5},
		{"Medium", 10},
		{"Low", 20},
		{"Outside", 31},
	}
	for _, c := range cases {
		_, err := svc.Create(ctx, BasicFieldsInput{
			CustomerName: c.name,
			ExpiryDate:   datePtr(now.AddDate(0, 0, c.days)),
		}, 1, "")
		require.NoError(t, err)
	}

	expiring, err := svc.ListExpiring(ctx, 30)
	require.NoError(t, err)
	require.Len(t, expiring, 3)

	// Soonest expiry first
	assert.Equal(t, "High", expiring[0].CustomerName)
	assert.Equal(t, 5, expiring[0].DaysUntilExpiry)
	assert.Equal(t, domain.UrgencyHigh, expiring[0].Urgency)

	assert.Equal(t, "Medium", expiring[1].CustomerName)
	assert.Equal(t, 10, expiring[1].DaysUntilExpiry)
	assert.Equal(t, domain.UrgencyMedium, expiring[1].Urgency)

	assert.Equal(t, "Low", expiring[2].CustomerName)
	assert.Equal(t, 20, expiring[2].DaysUntilExpiry)
	assert.Equal(t, domain.UrgencyLow, expiring[2].Urgency)
}

func TestFinancialSummary(t *testing.T) {
	svc, _ := newTestRecordService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "No Financials"}, 1, "")
	require.NoError(t, err)

	b, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Complete"}, 1, "")
	require.NoError(t, err)
	b, err = svc.UpdateFinancials(ctx, b.ID, FinancialFieldsInput{
		TotalPremium:              floatPtr(5000),
		TotalCommission:           floatPtr(1000),
		CustomerDiscountedPremium: floatPtr(200),
	}, 1, "")
	require.NoError(t, err)

	summary, err := svc.FinancialSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalRecords)
	assert.Equal(t, int64(1), summary.CompletedRecords)
	assert.Equal(t, int64(1), summary.PendingRecords)
	assert.Equal(t, 5000.0, summary.TotalRevenue)

	assert.Equal(t, 800.0, b.CalculatePayout())
}

func TestListOrdering(t *testing.T) {
	svc, db := newTestRecordService(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, BasicFieldsInput{CustomerName: name}, 1, "")
		require.NoError(t, err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Exec("UPDATE insurance_records SET updated_at = ? WHERE customer_name = ?", base.Add(time.Hour), "first").Error)
	require.NoError(t, db.Exec("UPDATE insurance_records SET updated_at = ? WHERE customer_name = ?", base, "second").Error)
	require.NoError(t, db.Exec("UPDATE insurance_records SET updated_at = ? WHERE customer_name = ?", base.Add(2*time.Hour), "third").Error)

	records, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].CustomerName)
	assert.Equal(t, "first", records[1].CustomerName)
	assert.Equal(t, "second", records[2].CustomerName)

	// Identical timestamps: higher id wins
	require.NoError(t, db.Exec("UPDATE insurance_records SET updated_at = ?", base).Error)
	records, err = svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].ID > records[1].ID)
	assert.True(t, records[1].ID > records[2].ID)
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	svc, _ := newTestRecordService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, BasicFieldsInput{
		CustomerName:  "Ramesh Kumar",
		PhoneNumber:   "9876543210",
		VehicleNumber: "KA01AB1234",
	}, 1, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, BasicFieldsInput{
		CustomerName:  "Suresh Patel",
		PhoneNumber:   "9123456789",
		VehicleNumber: "MH12CD5678",
	}, 1, "")
	require.NoError(t, err)

	byName, err := svc.List(ctx, "RAMESH")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ramesh Kumar", byName[0].CustomerName)

	byPhone, err := svc.List(ctx, "912345")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Suresh Patel", byPhone[0].CustomerName)

	byVehicle, err := svc.List(ctx, "ka01ab")
	require.NoError(t, err)
	require.Len(t, byVehicle, 1)

	// Blank or whitespace-only term means no filter
	all, err := svc.List(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := svc.List(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newTestRecordService(t)

	_, err := svc.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestMutationsWriteAuditLog(t *testing.T) {
	svc, db := newTestRecordService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, BasicFieldsInput{CustomerName: "Audited"}, 1, "10.0.0.1")
	require.NoError(t, err)
	_, err = svc.UpdateFinancials(ctx, created.ID, FinancialFieldsInput{TotalCommission: floatPtr(500)}, 2, "10.0.0.2")
	require.NoError(t, err)

	var entries []models.AuditLog
	require.NoError(t, db.Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditActionCreate, entries[0].Action)
	assert.Equal(t, "10.0.0.1", entries[0].IPAddress)
	assert.Equal(t, models.AuditActionUpdateFinancials, entries[1].Action)
	assert.Equal(t, uint(2), entries[1].UserID)
}
