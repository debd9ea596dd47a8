package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-schedule-api/internal/dto"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

type availabilityChecker interface {
	Check(ctx context.Context, req dto.AvailabilityRequest) (*models.AvailabilityResult, error)
}

// AvailabilityHandler exposes the booking availability check.
type AvailabilityHandler struct {
	service availabilityChecker
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc availabilityChecker) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Check godoc
// @Summary Check room and teacher availability
// @Description Returns available=false with issues when the slot is taken, on a holiday, or cannot be verified.
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.AvailabilityRequest true "Proposed booking"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/check [post]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.service.Check(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
