package handlers

import (
	"errors"
	"time"

	"wecaare-insurance/internal/adapters/http/middleware"
	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/core/domain"
	"wecaare-insurance/internal/core/services"
	"wecaare-insurance/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

// RecordHandler handles insurance record endpoints
type RecordHandler struct {
	recordService *services.RecordService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService *services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// RecordRequest carries the staff-owned fields. Dates arrive as
// YYYY-MM-DD strings.
type RecordRequest struct {
	CustomerName    string `json:"customer_name" validate:"required,max=100"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=30"`
	VehicleNumber   string `json:"vehicle_number" validate:"omitempty,max=30"`
	Company         string `json:"company" validate:"omitempty,max=100"`
	PolicyStartDate string `json:"policy_start_date" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate      string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

// NotifyRequest carries the optional note attached when marking a
// record notified
type NotifyRequest struct {
	Notes *string `json:"notes"`
}

// toInput converts the request into service input, parsing dates
func (r *RecordRequest) toInput() (services.BasicFieldsInput, error) {
	input := services.BasicFieldsInput{
		CustomerName:  r.CustomerName,
		PhoneNumber:   r.PhoneNumber,
		VehicleNumber: r.VehicleNumber,
		Company:       r.Company,
	}

	if r.PolicyStartDate != "" {
		t, err := time.ParseInLocation(dateLayout, r.PolicyStartDate, time.Local)
		if err != nil {
			return input, err
		}
		input.PolicyStartDate = &t
	}
	if r.ExpiryDate != "" {
		t, err := time.ParseInLocation(dateLayout, r.ExpiryDate, time.Local)
		if err != nil {
			return input, err
		}
		input.ExpiryDate = &t
	}

	return input, nil
}

// Create creates a new insurance record
// @Summary Create insurance record
// @Description Create a new record with the staff-owned fields
// @Tags records
// @Accept json
// @Produce json
// @Param request body RecordRequest true "Record details"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /records [post]
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, "Validation failed: "+err.Error())
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
	}

	record, err := h.recordService.Create(c.Context(), input, middleware.GetUserID(c), c.IP())
	if err != nil {
		return response.InternalServerError(c, "Failed to create record")
	}

	return response.Created(c, "Record created successfully", record.ToResponse())
}

// List lists all records, optionally filtered by a search term
// @Summary List insurance records
// @Description List all records, most recently updated first. The search query filters on customer name, phone and vehicle number.
// @Tags records
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /records [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	records, err := h.recordService.List(c.Context(), c.Query("search"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list records")
	}

	responses := make([]*models.InsuranceRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, record.ToResponse())
	}

	return response.Success(c, "Records retrieved successfully", fiber.Map{
		"records": responses,
		"total":   len(responses),
	})
}

// GetByID returns one record
// @Summary Get insurance record
// @Tags records
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /records/{id} [get]
func (h *RecordHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.recordService.GetByID(c.Context(), uint(id))
	if err != nil {
		return h.mapError(c, err)
	}

	return response.Success(c, "Record retrieved successfully", record.ToResponse())
}

// Update overwrites the staff-owned fields of a record
// @Summary Update insurance record
// @Description Update the staff-owned field group. Financial fields are untouched.
// @Tags records
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param request body RecordRequest true "Record details"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /records/{id} [put]
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid record ID")
	}

	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, "Validation failed: "+err.Error())
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
	}

	record, err := h.recordService.Update(c.Context(), uint(id), input, middleware.GetUserID(c), c.IP())
	if err != nil {
		return h.mapError(c, err)
	}

	return response.Success(c, "Record updated successfully", record.ToResponse())
}

// Delete soft-deletes a record
// @Summary Delete insurance record
// @Description Soft-delete a record. The row stays in storage but disappears from every read.
// @Tags records
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid record ID")
	}

	if err := h.recordService.SoftDelete(c.Context(), uint(id), middleware.GetUserID(c), c.IP()); err != nil {
		return h.mapError(c, err)
	}

	return response.Success(c, "Record deleted successfully", nil)
}

// MarkNotified marks a record's renewal as notified
// @Summary Mark renewal notified
// @Tags records
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param request body NotifyRequest false "Optional notes"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /records/{id}/notify [post]
func (h *RecordHandler) MarkNotified(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid record ID")
	}

	var req NotifyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	record, err := h.recordService.MarkNotified(c.Context(), uint(id), req.Notes, middleware.GetUserID(c), c.IP())
	if err != nil {
		return h.mapError(c, err)
	}

	return response.Success(c, "Record marked as notified", record.ToResponse())
}

// UnmarkNotified clears a record's notification state
// @Summary Clear renewal notification
// @Tags records
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /records/{id}/notify [delete]
func (h *RecordHandler) UnmarkNotified(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.recordService.UnmarkNotified(c.Context(), uint(id), middleware.GetUserID(c), c.IP())
	if err != nil {
		return h.mapError(c, err)
	}

	return response.Success(c, "Notification cleared", record.ToResponse())
}

// ListExpiring lists policies expiring within the window
// @Summary List expiring policies
// @Description List policies expiring within the next N days (default 30), each with days-until-expiry and an urgency bucket.
// @Tags records
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /records/expiring [get]
func (h *RecordHandler) ListExpiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	records, err := h.recordService.ListExpiring(c.Context(), days)
	if err != nil {
		return response.InternalServerError(c, "Failed to list expiring records")
	}

	return response.Success(c, "Expiring records retrieved successfully", fiber.Map{
		"records": records,
		"total":   len(records),
	})
}

// mapError maps domain errors to HTTP responses
func (h *RecordHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return response.NotFound(c, "Record not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}
