package handlers

import (
	"time"

	"wecaare-insurance/internal/core/services"
	"wecaare-insurance/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles dashboard reporting endpoints
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// MonthlyPerformance reports policy counts per calendar month
// @Summary Monthly performance
// @Description Policy counts for each month of the year, with an estimated revenue figure per month. Defaults to the current year.
// @Tags analytics
// @Produce json
// @Param year query int false "Year" example(2026)
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /analytics/monthly-performance [get]
func (h *AnalyticsHandler) MonthlyPerformance(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())
	if year < 2000 || year > 2100 {
		return response.BadRequest(c, "Invalid year")
	}

	report, err := h.analyticsService.MonthlyPerformance(c.Context(), year)
	if err != nil {
		return response.InternalServerError(c, "Failed to build performance report")
	}

	return response.Success(c, "Monthly performance retrieved successfully", report)
}
