package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-schedule-api/internal/dto"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

type agendaProvider interface {
	ResolveDate(raw string) (time.Time, error)
	DayAgenda(ctx context.Context, branchID string, date time.Time) (*models.DayAgenda, bool, error)
	Export(ctx context.Context, branchID string, date time.Time, format string) (*service.ExportFile, error)
}

// AgendaHandler serves branch day agendas.
type AgendaHandler struct {
	service agendaProvider
}

// NewAgendaHandler constructs handler.
func NewAgendaHandler(svc agendaProvider) *AgendaHandler {
	return &AgendaHandler{service: svc}
}

// Get godoc
// @Summary Branch day agenda
// @Tags Agenda
// @Produce json
// @Param id path string true "Branch ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /branches/{id}/agenda [get]
func (h *AgendaHandler) Get(c *gin.Context) {
	var query dto.AgendaQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	date, err := h.service.ResolveDate(query.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	agenda, hit, err := h.service.DayAgenda(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, agenda, map[string]interface{}{"cache_hit": hit})
}

// Export godoc
// @Summary Download a branch day agenda
// @Tags Agenda
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Branch ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /branches/{id}/agenda/export [get]
func (h *AgendaHandler) Export(c *gin.Context) {
	var query dto.AgendaExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	date, err := h.service.ResolveDate(query.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), c.Param("id"), date, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
