package services

import (
	"context"
	"testing"
	"time"

	"wecaare-insurance/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPerformance(t *testing.T) {
	db := newTestDB(t)
	recordRepo := repositories.NewInsuranceRecordRepository(db)
	recordSvc := NewRecordService(recordRepo, repositories.NewAuditLogRepository(db))
	svc := NewAnalyticsService(recordRepo)
	ctx := context.Background()

	year := 2026
	march := time.Date(year, time.March, 10, 0, 0, 0, 0, time.Local)
	april := time.Date(year, time.April, 2, 0, 0, 0, 0, time.Local)
	otherYear := time.Date(year-1, time.March, 10, 0, 0, 0, 0, time.Local)

	for _, start := range []time.Time{march, march, april, otherYear} {
		s := start
		_, err := recordSvc.Create(ctx, BasicFieldsInput{CustomerName: "x", PolicyStartDate: &s}, 1, "")
		require.NoError(t, err)
	}
	// No start date: ignored by the report
	_, err := recordSvc.Create(ctx, BasicFieldsInput{CustomerName: "undated"}, 1, "")
	require.NoError(t, err)

	report, err := svc.MonthlyPerformance(ctx, year)
	require.NoError(t, err)

	assert.Equal(t, year, report.Year)
	require.Len(t, report.Months, 12)
	assert.Equal(t, "Jan", report.Months[0].Month)
	assert.Equal(t, "Dec", report.Months[11].Month)

	for i, bucket := range report.Months {
		switch i {
		case 2: // March
			assert.Equal(t, 2, bucket.PolicyCount)
			assert.Equal(t, 10000.0, bucket.EstimatedRevenue)
		case 3: // April
			assert.Equal(t, 1, bucket.PolicyCount)
			assert.Equal(t, 5000.0, bucket.EstimatedRevenue)
		default:
			assert.Zero(t, bucket.PolicyCount, "month %s", bucket.Month)
		}
	}
	assert.Equal(t, 3, report.TotalPolicies)
}

func TestMonthlyPerformanceExcludesDeleted(t *testing.T) {
	db := newTestDB(t)
	recordRepo := repositories.NewInsuranceRecordRepository(db)
	recordSvc := NewRecordService(recordRepo, repositories.NewAuditLogRepository(db))
	svc := NewAnalyticsService(recordRepo)
	ctx := context.Background()

	year := 2026
	start := time.Date(year, time.June, 15, 0, 0, 0, 0, time.Local)
	created, err := recordSvc.Create(ctx, BasicFieldsInput{CustomerName: "gone", PolicyStartDate: &start}, 1, "")
	require.NoError(t, err)
	require.NoError(t, recordSvc.SoftDelete(ctx, created.ID, 1, ""))

	report, err := svc.MonthlyPerformance(ctx, year)
	require.NoError(t, err)
	assert.Zero(t, report.TotalPolicies)
}
