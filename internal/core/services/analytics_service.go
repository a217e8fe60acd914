package services

import (
	"context"
	"log"
	"time"

	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/core/domain"
)

// AnalyticsService produces dashboard aggregations over visible records
type AnalyticsService struct {
	recordRepo repositories.InsuranceRecordRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(recordRepo repositories.InsuranceRecordRepository) *AnalyticsService {
	return &AnalyticsService{recordRepo: recordRepo}
}

// MonthlyBucket is one calendar month's slice of the yearly report.
// EstimatedRevenue is count times a flat per-policy figure, not a real
// revenue computation; the field name makes that explicit.
type MonthlyBucket struct {
	Month            string  `json:"month"`
	PolicyCount      int     `json:"policy_count"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

// MonthlyPerformanceOutput is the yearly report: all 12 months in
// calendar order, zero-filled where no policies started
type MonthlyPerformanceOutput struct {
	Year          int             `json:"year"`
	Months        []MonthlyBucket `json:"months"`
	TotalPolicies int             `json:"total_policies"`
}

// estimatedRevenuePerPolicy is a flat placeholder figure used for the
// monthly chart until real per-month revenue is tracked
const estimatedRevenuePerPolicy = 5000.0

// MonthlyPerformance counts visible records by the calendar month of
// their policy start date within the given year
func (s *AnalyticsService) MonthlyPerformance(ctx context.Context, year int) (*MonthlyPerformanceOutput, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(1, 0, 0)

	records, err := s.recordRepo.ListByStartDateBetween(ctx, from, to)
	if err != nil {
		log.Printf("❌ Failed to load records for %d performance report: %v", year, err)
		return nil, domain.ErrInternalServer
	}

	counts := make([]int, 12)
	for _, record := range records {
		if record.PolicyStartDate == nil {
			continue
		}
		counts[int(record.PolicyStartDate.Month())-1]++
	}

	output := &MonthlyPerformanceOutput{
		Year:   year,
		Months: make([]MonthlyBucket, 0, 12),
	}
	for m := time.January; m <= time.December; m++ {
		count := counts[int(m)-1]
		output.Months = append(output.Months, MonthlyBucket{
			Month:            m.String()[:3],
			PolicyCount:      count,
			EstimatedRevenue: float64(count) * estimatedRevenuePerPolicy,
		})
		output.TotalPolicies += count
	}

	return output, nil
}
