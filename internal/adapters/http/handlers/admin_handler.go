package handlers

import (
	"errors"

	"wecaare-insurance/internal/adapters/http/middleware"
	"wecaare-insurance/internal/core/domain"
	"wecaare-insurance/internal/core/services"
	"wecaare-insurance/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin-only record operations: financial updates,
// the financial summary and the spreadsheet export
type AdminHandler struct {
	recordService *services.RecordService
	exportService *services.ExportService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(recordService *services.RecordService, exportService *services.ExportService) *AdminHandler {
	return &AdminHandler{
		recordService: recordService,
		exportService: exportService,
	}
}

// FinancialRequest carries the admin-owned field group
type FinancialRequest struct {
	TotalPremium              *float64 `json:"total_premium" validate:"omitempty,gte=0"`
	TotalCommission           *float64 `json:"total_commission" validate:"omitempty,gte=0"`
	CustomerDiscountedPremium *float64 `json:"customer_discounted_premium" validate:"omitempty,gte=0"`
}

// UpdateFinancials overwrites the financial fields of a record
// @Summary Update record financials
// @Description Update the admin-owned financial field group. Completion status is recomputed from the commission.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param request body FinancialRequest true "Financial details"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /admin/records/{id}/financials [put]
func (h *AdminHandler) UpdateFinancials(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid record ID")
	}

	var req FinancialRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, "Validation failed: "+err.Error())
	}

	input := services.FinancialFieldsInput{
		TotalPremium:              req.TotalPremium,
		TotalCommission:           req.TotalCommission,
		CustomerDiscountedPremium: req.CustomerDiscountedPremium,
	}

	record, err := h.recordService.UpdateFinancials(c.Context(), uint(id), input, middleware.GetUserID(c), c.IP())
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return response.NotFound(c, "Record not found")
		}
		return response.InternalServerError(c, "Failed to update financials")
	}

	return response.Success(c, "Financial details updated successfully", record.ToResponse())
}

// FinancialSummary aggregates financial state over all records
// @Summary Financial summary
// @Description Total revenue, completed and pending record counts over all visible records.
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/financial-summary [get]
func (h *AdminHandler) FinancialSummary(c *fiber.Ctx) error {
	summary, err := h.recordService.FinancialSummary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build financial summary")
	}

	return response.Success(c, "Financial summary retrieved successfully", summary)
}

// ExportRecords downloads all records as a spreadsheet
// @Summary Export records
// @Description Download all visible records as an xlsx workbook.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/records/export [get]
func (h *AdminHandler) ExportRecords(c *fiber.Ctx) error {
	data, filename, err := h.exportService.ExportRecords(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to export records")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
