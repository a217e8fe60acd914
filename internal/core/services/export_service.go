package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/adapters/persistence/repositories"
	"wecaare-insurance/internal/core/domain"

	"github.com/xuri/excelize/v2"
)

// ExportService renders the visible record list as a spreadsheet
type ExportService struct {
	recordRepo repositories.InsuranceRecordRepository
}

// NewExportService creates a new export service
func NewExportService(recordRepo repositories.InsuranceRecordRepository) *ExportService {
	return &ExportService{recordRepo: recordRepo}
}

const exportSheet = "Insurance Records"

var exportHeaders = []string{
	"ID",
	"UUID",
	"Customer Name",
	"Phone Number",
	"Vehicle Number",
	"Company",
	"Policy Start Date",
	"Policy Expiry Date",
	"Total Premium",
	"Total Commission",
	"Customer Discounted Premium",
	"Payout",
	"Payout Status",
	"Renewal Notified",
	"Notified At",
	"Created At",
	"Updated At",
}

// ExportRecords renders every visible record to an xlsx workbook and
// returns the file bytes plus a timestamped filename
func (s *ExportService) ExportRecords(ctx context.Context) ([]byte, string, error) {
	records, err := s.recordRepo.ListAll(ctx)
	if err != nil {
		log.Printf("❌ Failed to load records for export: %v", err)
		return nil, "", domain.ErrInternalServer
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", domain.ErrInternalServer
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for row, record := range records {
		values := exportRow(record)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(exportSheet, cell, value)
		}
	}

	// Readable default widths for the text-heavy columns
	f.SetColWidth(exportSheet, "B", "B", 38)
	f.SetColWidth(exportSheet, "C", "F", 22)
	f.SetColWidth(exportSheet, "G", "Q", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		log.Printf("❌ Failed to write export workbook: %v", err)
		return nil, "", domain.ErrInternalServer
	}

	filename := fmt.Sprintf("insurance_records_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// exportRow flattens one record into the column order of exportHeaders
func exportRow(record *models.InsuranceRecord) []interface{} {
	payoutStatus := "Pending"
	if record.HasFinancialDetails() {
		payoutStatus = "Completed"
	}
	renewalNotified := "No"
	if record.RenewalNotified {
		renewalNotified = "Yes"
	}

	return []interface{}{
		record.ID,
		record.UUID,
		record.CustomerName,
		record.PhoneNumber,
		record.VehicleNumber,
		record.Company,
		formatDate(record.PolicyStartDate),
		formatDate(record.ExpiryDate),
		floatOrEmpty(record.TotalPremium),
		floatOrEmpty(record.TotalCommission),
		floatOrEmpty(record.CustomerDiscountedPremium),
		record.CalculatePayout(),
		payoutStatus,
		renewalNotified,
		formatTimestamp(record.NotifiedAt),
		record.CreatedAt.Format("2006-01-02 15:04:05"),
		record.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
